package services

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/scrum-ai-master/internal/gateway"
	"github.com/adanyl0v/scrum-ai-master/internal/models"
	"github.com/adanyl0v/scrum-ai-master/internal/store"
)

const unrecognizedReply = "Sorry, I couldn't do that. Try asking me to create a task or reschedule the stand-up."

type assistantServiceImpl struct {
	logger   zerolog.Logger
	store    *store.Store
	meetings MeetingService
	gateway  gateway.Gateway
	now      func() time.Time

	mu       sync.Mutex
	messages []models.AiMessage
	busy     bool
}

func NewAssistantService(
	logger zerolog.Logger,
	boardStore *store.Store,
	meetings MeetingService,
	gw gateway.Gateway,
) AssistantService {
	return &assistantServiceImpl{
		logger:   logger,
		store:    boardStore,
		meetings: meetings,
		gateway:  gw,
		now:      time.Now,
	}
}

func (s *assistantServiceImpl) Messages() []models.AiMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.messages)
}

// Reset clears the conversation. It refuses while a request is in flight,
// since that request's reply would land in the cleared history.
func (s *assistantServiceImpl) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy {
		return ErrAssistantBusy
	}
	s.messages = nil
	return nil
}

// acquire marks the assistant busy, optionally appending msg in the same
// critical section so message order follows send order.
func (s *assistantServiceImpl) acquire(msg *models.AiMessage) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy {
		return false
	}
	s.busy = true
	if msg != nil {
		s.messages = append(s.messages, *msg)
	}
	return true
}

func (s *assistantServiceImpl) release(reply models.AiMessage, replace bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if replace {
		s.messages = []models.AiMessage{reply}
	} else {
		s.messages = append(s.messages, reply)
	}
	s.busy = false
}

func (s *assistantServiceImpl) StandupSummary(ctx context.Context) (models.AiMessage, error) {
	if !s.acquire(nil) {
		return models.AiMessage{}, ErrAssistantBusy
	}

	text, err := s.gateway.Summarize(ctx, standupUpdates(s.store.Members()))
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to summarize stand-up")
		text = summaryApology
	}

	reply := models.AiMessage{Role: models.RoleModel, Text: text, IsSummary: err == nil, CreatedAt: s.now()}
	s.release(reply, true)

	s.logger.Info().Msg("started assistant session with stand-up summary")
	return reply, nil
}

func (s *assistantServiceImpl) Send(ctx context.Context, text string) (models.AiMessage, error) {
	if strings.TrimSpace(text) == "" {
		return models.AiMessage{}, ErrEmptyMessage
	}

	userMsg := models.AiMessage{Role: models.RoleUser, Text: text, CreatedAt: s.now()}
	if !s.acquire(&userMsg) {
		return models.AiMessage{}, ErrAssistantBusy
	}

	replyText := s.answer(ctx, text)
	reply := models.AiMessage{Role: models.RoleModel, Text: replyText, CreatedAt: s.now()}
	s.release(reply, false)

	return reply, nil
}

func (s *assistantServiceImpl) answer(ctx context.Context, text string) string {
	tasks := s.store.Tasks()
	members := s.store.Members()

	prompt, err := s.buildPrompt(text, tasks, members)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to build assistant prompt")
		return converseApology
	}

	reply, err := s.gateway.Converse(ctx, prompt, members, tasks)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to process assistant prompt")
		return converseApology
	}

	if reply.FunctionCall == nil {
		s.logger.Debug().Msg("assistant answered with text")
		return reply.Text
	}
	return s.apply(DecodeCommand(*reply.FunctionCall))
}

func (s *assistantServiceImpl) apply(cmd Command) string {
	switch cmd := cmd.(type) {
	case CreateTaskCommand:
		// Resolve against the roster at apply time, not at prompt time.
		assignee, ok := ResolveAssignee(s.store.Members(), cmd.AssigneeName)
		if !ok {
			s.logger.Warn().
				Str("assignee", cmd.AssigneeName).
				Msg("assistant named an unknown assignee")
			return fmt.Sprintf(
				"Sorry, I couldn't find a team member named \"%s\". Please use one of the available team members.",
				cmd.AssigneeName)
		}

		task := s.store.AddTask(models.NewTask{
			Title:      cmd.Title,
			AssigneeID: assignee.ID,
			Points:     cmd.Points,
			Priority:   models.PriorityMedium,
		})
		s.logger.Info().
			Str("task_id", task.ID).
			Str("assignee_id", assignee.ID).
			Msg("assistant created task")
		return fmt.Sprintf("OK, I've created the task \"%s\" and assigned it to %s with %d points.",
			task.Title, assignee.Name, task.Points)

	case RescheduleMeetingCommand:
		_, err := s.meetings.Reschedule(cmd.Time)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("assistant failed to reschedule meeting")
			return converseApology
		}
		s.logger.Info().
			Str("time", cmd.Time).
			Msg("assistant rescheduled meeting")
		return fmt.Sprintf("OK, I've rescheduled the daily stand-up to %s.", cmd.Time)

	case UnrecognizedCommand:
		s.logger.Warn().
			Str("function", cmd.Name).
			Str("reason", cmd.Reason).
			Msg("ignored model function call")
	}
	return unrecognizedReply
}

type performanceContext struct {
	TotalTasks      int `json:"totalTasks"`
	CompletedTasks  int `json:"completedTasks"`
	TotalPoints     int `json:"totalPoints"`
	CompletedPoints int `json:"completedPoints"`
}

// buildPrompt adds sprint statistics to questions about team performance.
func (s *assistantServiceImpl) buildPrompt(text string, tasks []models.Task, members []models.TeamMember) (string, error) {
	if !isPerformanceQuery(text) {
		return text, nil
	}

	metrics := ComputeMetrics(tasks, members)
	data, err := json.Marshal(performanceContext{
		TotalTasks:      metrics.TasksTotal,
		CompletedTasks:  metrics.TasksCompleted,
		TotalPoints:     metrics.PointsTotal,
		CompletedPoints: metrics.PointsCompleted,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal sprint data: %w", err)
	}

	s.logger.Debug().
		RawJSON("sprint", data).
		Msg("added sprint data to performance question")
	return fmt.Sprintf(
		"The user is asking about team performance. Current sprint data: %s. "+
			"Using this data, give a short, encouraging answer to the question: %q",
		data, text), nil
}

func isPerformanceQuery(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "performance") || strings.Contains(lower, "how is the team")
}
