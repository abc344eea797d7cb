package models

import "time"

// SummarizedTask is a task proposed by transcript analysis. AssigneeName is
// free text and has not been matched against the roster.
type SummarizedTask struct {
	Title        string     `json:"title"`
	AssigneeName string     `json:"assigneeName"`
	Status       TaskStatus `json:"status"`
	Points       int        `json:"points"`
}

type MeetingSummary struct {
	Summary string           `json:"summary"`
	Tasks   []SummarizedTask `json:"tasks"`
}

// StagedTask is a SummarizedTask awaiting confirmation.
type StagedTask struct {
	ID string
	SummarizedTask
}

type StagedSummary struct {
	ID         string
	Summary    string
	Tasks      []StagedTask
	SourceName string
	CreatedAt  time.Time
}

type ReviewSuggestion struct {
	ReviewerName string `json:"reviewerName"`
	Reason       string `json:"reason"`
}

type ReviewRequest struct {
	ID         string
	Task       Task
	Suggestion *ReviewSuggestion
	OpenedAt   time.Time
}
