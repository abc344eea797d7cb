package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/scrum-ai-master/internal/gateway"
	"github.com/adanyl0v/scrum-ai-master/internal/models"
	"github.com/adanyl0v/scrum-ai-master/internal/store"
)

const (
	anyReviewerName   = "Anyone"
	anyReviewerReason = "No other developers are available on the team."

	fallbackReviewerName   = "Team"
	fallbackReviewerReason = "An error occurred, please select a reviewer manually."
)

type pendingReview struct {
	request  models.ReviewRequest
	resolved chan struct{}
}

type reviewServiceImpl struct {
	logger  zerolog.Logger
	store   *store.Store
	gateway gateway.Gateway

	mu      sync.Mutex
	pending *pendingReview
}

func NewReviewService(
	logger zerolog.Logger,
	boardStore *store.Store,
	gw gateway.Gateway,
) ReviewService {
	return &reviewServiceImpl{
		logger:  logger,
		store:   boardStore,
		gateway: gw,
	}
}

func (s *reviewServiceImpl) Open(task models.Task) models.ReviewRequest {
	p := &pendingReview{
		request: models.ReviewRequest{
			ID:       uuid.NewString(),
			Task:     task,
			OpenedAt: time.Now(),
		},
		resolved: make(chan struct{}),
	}

	s.mu.Lock()
	s.pending = p
	s.mu.Unlock()

	s.logger.Info().
		Str("review_id", p.request.ID).
		Str("task_id", task.ID).
		Msg("opened review request")

	go s.resolve(p)
	return p.request
}

func (s *reviewServiceImpl) resolve(p *pendingReview) {
	defer close(p.resolved)

	suggestion := s.Suggest(context.Background(), p.request.Task, s.store.Members())

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending != p {
		s.logger.Debug().
			Str("review_id", p.request.ID).
			Msg("review request closed before suggestion arrived")
		return
	}
	p.request.Suggestion = &suggestion
}

func (s *reviewServiceImpl) Pending() (*models.ReviewRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return nil, false
	}
	request := s.pending.request
	if request.Suggestion != nil {
		suggestion := *request.Suggestion
		request.Suggestion = &suggestion
	}
	return &request, true
}

func (s *reviewServiceImpl) Dismiss(requestID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil || s.pending.request.ID != requestID {
		return ErrReviewNotFound
	}
	s.pending = nil

	s.logger.Info().
		Str("review_id", requestID).
		Msg("dismissed review request")
	return nil
}

func (s *reviewServiceImpl) Suggest(ctx context.Context, task models.Task, members []models.TeamMember) models.ReviewSuggestion {
	var assignee *models.TeamMember
	var candidates []models.TeamMember
	for i, m := range members {
		if m.ID == task.AssigneeID {
			assignee = &members[i]
			continue
		}
		if strings.Contains(m.Role, "Dev") || strings.Contains(m.Role, "Engineer") {
			candidates = append(candidates, m)
		}
	}

	if len(candidates) == 0 {
		s.logger.Info().
			Str("task_id", task.ID).
			Msg("no reviewer candidates")
		return models.ReviewSuggestion{ReviewerName: anyReviewerName, Reason: anyReviewerReason}
	}

	suggestion, err := s.gateway.SuggestReviewer(ctx, task, assignee, candidates)
	if err == nil {
		if _, ok := findByName(candidates, suggestion.ReviewerName); ok {
			s.logger.Info().
				Str("task_id", task.ID).
				Str("reviewer", suggestion.ReviewerName).
				Msg("suggested reviewer")
			return *suggestion
		}
		s.logger.Warn().
			Str("task_id", task.ID).
			Str("reviewer", suggestion.ReviewerName).
			Msg("model suggested a reviewer who is not a candidate")
	} else {
		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to suggest reviewer")
	}

	fallback := models.ReviewSuggestion{ReviewerName: fallbackReviewerName, Reason: fallbackReviewerReason}
	for _, m := range members {
		if m.ID != task.AssigneeID {
			fallback.ReviewerName = m.Name
			break
		}
	}
	return fallback
}

func findByName(members []models.TeamMember, name string) (models.TeamMember, bool) {
	for _, m := range members {
		if m.Name == name {
			return m, true
		}
	}
	return models.TeamMember{}, false
}
