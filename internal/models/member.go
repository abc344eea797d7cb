package models

import "strings"

type TeamMember struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Avatar      string `json:"avatar" yaml:"avatar"`
	Role        string `json:"role" yaml:"role"`
	DailyUpdate string `json:"dailyUpdate,omitempty" yaml:"daily_update,omitempty"`
	Email       string `json:"email,omitempty" yaml:"email,omitempty"`
}

// MentionsBlocker reports whether the daily update contains "block" in any
// case. It is a display heuristic: "No blockers." matches too.
func (m TeamMember) MentionsBlocker() bool {
	return strings.Contains(strings.ToLower(m.DailyUpdate), "block")
}

type NewTeamMember struct {
	Name        string
	Role        string
	DailyUpdate string
	Email       string
}
