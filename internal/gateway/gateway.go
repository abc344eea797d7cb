// Package gateway is the boundary to the generative model. Callers treat
// every capability as slow and fallible.
package gateway

import (
	"context"
	"errors"

	"github.com/adanyl0v/scrum-ai-master/internal/models"
)

var (
	ErrEmptyResponse     = errors.New("empty model response")
	ErrMalformedResponse = errors.New("malformed model response")
)

const (
	FunctionCreateTask        = "createTask"
	FunctionRescheduleMeeting = "rescheduleMeeting"
)

// FunctionCall is an untyped action requested by the model. Args come
// straight from the model and must be validated by the caller.
type FunctionCall struct {
	Name string
	Args map[string]any
}

// Reply is either free text or a function call.
type Reply struct {
	Text         string
	FunctionCall *FunctionCall
}

type Gateway interface {
	// Summarize condenses stand-up updates into a short markdown summary.
	Summarize(ctx context.Context, updates string) (string, error)

	// Converse answers a prompt with the board as context. The model may
	// answer with a FunctionCall to createTask or rescheduleMeeting.
	Converse(ctx context.Context, prompt string, members []models.TeamMember, tasks []models.Task) (*Reply, error)

	// SuggestReviewer picks one of candidates to review task. assignee is
	// nil when the task's assignee is not on the roster.
	SuggestReviewer(ctx context.Context, task models.Task, assignee *models.TeamMember, candidates []models.TeamMember) (*models.ReviewSuggestion, error)

	// SummarizeMedia transcribes a text, audio or video artifact and
	// extracts a summary and proposed tasks.
	SummarizeMedia(ctx context.Context, data []byte, mimeType string, members []models.TeamMember) (*models.MeetingSummary, error)
}
