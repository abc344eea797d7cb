package services

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/scrum-ai-master/internal/gateway"
	"github.com/adanyl0v/scrum-ai-master/internal/models"
	"github.com/adanyl0v/scrum-ai-master/internal/store"
)

var errGatewayDown = errors.New("gateway is down")

// fakeGateway answers every capability from its fields. A nil answer
// with a nil error yields errGatewayDown.
type fakeGateway struct {
	mu sync.Mutex

	summary    string
	summaryErr error

	reply       *gateway.Reply
	replyErr    error
	prompts     []string
	converseHit chan struct{}
	release     chan struct{}

	suggestion    *models.ReviewSuggestion
	suggestionErr error
	candidates    []models.TeamMember

	media    *models.MeetingSummary
	mediaErr error
	mimeType string
}

func (g *fakeGateway) Summarize(context.Context, string) (string, error) {
	if g.summaryErr != nil {
		return "", g.summaryErr
	}
	return g.summary, nil
}

func (g *fakeGateway) Converse(_ context.Context, prompt string, _ []models.TeamMember, _ []models.Task) (*gateway.Reply, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	g.mu.Unlock()

	if g.converseHit != nil {
		g.converseHit <- struct{}{}
	}
	if g.release != nil {
		<-g.release
	}
	if g.replyErr != nil {
		return nil, g.replyErr
	}
	if g.reply == nil {
		return nil, errGatewayDown
	}
	return g.reply, nil
}

func (g *fakeGateway) SuggestReviewer(_ context.Context, _ models.Task, _ *models.TeamMember, candidates []models.TeamMember) (*models.ReviewSuggestion, error) {
	g.mu.Lock()
	g.candidates = candidates
	g.mu.Unlock()

	if g.suggestionErr != nil {
		return nil, g.suggestionErr
	}
	if g.suggestion == nil {
		return nil, errGatewayDown
	}
	return g.suggestion, nil
}

func (g *fakeGateway) SummarizeMedia(_ context.Context, _ []byte, mimeType string, _ []models.TeamMember) (*models.MeetingSummary, error) {
	g.mu.Lock()
	g.mimeType = mimeType
	g.mu.Unlock()

	if g.mediaErr != nil {
		return nil, g.mediaErr
	}
	if g.media == nil {
		return nil, errGatewayDown
	}
	return g.media, nil
}

func testMembers() []models.TeamMember {
	return []models.TeamMember{
		{ID: "U-1", Name: "Alice Johnson", Role: "Frontend Developer", DailyUpdate: "Finished the login page.", Email: "alice@example.com"},
		{ID: "U-2", Name: "Bob Williams", Role: "Backend Developer", DailyUpdate: "Blocked on the API keys.", Email: "bob@example.com"},
		{ID: "U-3", Name: "Charlie Brown", Role: "QA Engineer", DailyUpdate: "Writing test plans."},
		{ID: "U-4", Name: "Diana Prince", Role: "Product Owner", DailyUpdate: "Grooming the backlog."},
	}
}

func testTasks() []models.Task {
	return []models.Task{
		{ID: "T-1", Title: "Design login page", AssigneeID: "U-1", Status: models.StatusToDo, Points: 5, Priority: models.PriorityHigh},
		{ID: "T-2", Title: "Set up database", AssigneeID: "U-2", Status: models.StatusInProgress, Points: 8, Priority: models.PriorityUrgent},
		{ID: "T-3", Title: "Write test plan", AssigneeID: "U-3", Status: models.StatusDone, Points: 3, Priority: models.PriorityMedium},
	}
}

func newTestStore() *store.Store {
	return newTestStoreWithMeeting(nil)
}

func newTestStoreWithMeeting(meeting *models.Meeting) *store.Store {
	return store.New(zerolog.Nop(), models.Snapshot{Tasks: testTasks(), Members: testMembers()}, meeting)
}
