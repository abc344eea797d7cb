package services

import (
	"strings"

	"github.com/adanyl0v/scrum-ai-master/internal/models"
)

const (
	summaryApology  = "Sorry, I couldn't generate a summary at this time."
	converseApology = "Sorry, I encountered an error. Please try again."
)

// standupUpdates renders one "Name: update" line per member.
func standupUpdates(members []models.TeamMember) string {
	lines := make([]string, len(members))
	for i, m := range members {
		lines[i] = m.Name + ": " + m.DailyUpdate
	}
	return strings.Join(lines, "\n")
}
