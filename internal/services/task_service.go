package services

import (
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/scrum-ai-master/internal/models"
	"github.com/adanyl0v/scrum-ai-master/internal/store"
	"github.com/adanyl0v/scrum-ai-master/internal/workflow"
)

type boardServiceImpl struct {
	logger  zerolog.Logger
	store   *store.Store
	reviews ReviewService

	// Serializes the workflow check with the status write.
	transitionMu sync.Mutex
}

func NewBoardService(
	logger zerolog.Logger,
	boardStore *store.Store,
	reviews ReviewService,
) BoardService {
	return &boardServiceImpl{
		logger:  logger,
		store:   boardStore,
		reviews: reviews,
	}
}

func (s *boardServiceImpl) Tasks() []models.Task {
	return s.store.Tasks()
}

func (s *boardServiceImpl) Task(taskID string) (models.Task, error) {
	task, ok := s.store.Task(taskID)
	if !ok {
		return models.Task{}, ErrTaskNotFound
	}
	return task, nil
}

func (s *boardServiceImpl) CreateTask(params CreateTaskParams) (models.Task, error) {
	if strings.TrimSpace(params.Title) == "" {
		return models.Task{}, ErrEmptyTitle
	}
	if params.Priority == "" {
		params.Priority = models.PriorityMedium
	}
	if !params.Priority.Valid() {
		return models.Task{}, fmt.Errorf("%w: %q", ErrInvalidPriority, params.Priority)
	}
	if params.Status != "" && !params.Status.Valid() {
		return models.Task{}, fmt.Errorf("%w: %q", ErrInvalidStatus, params.Status)
	}

	task := s.store.AddTask(models.NewTask{
		Title:       params.Title,
		Description: params.Description,
		AssigneeID:  params.AssigneeID,
		Status:      params.Status,
		Points:      params.Points,
		Priority:    params.Priority,
	})

	s.logger.Info().
		Str("task_id", task.ID).
		Str("assignee_id", task.AssigneeID).
		Msg("created task")
	return task, nil
}

func (s *boardServiceImpl) SetTaskStatus(params SetTaskStatusParams) (*StatusResult, error) {
	s.transitionMu.Lock()
	defer s.transitionMu.Unlock()

	task, ok := s.store.Task(params.TaskID)
	if !ok {
		s.logger.Error().
			Str("task_id", params.TaskID).
			Msg("task not found")
		return nil, ErrTaskNotFound
	}

	if !workflow.Allowed(task.Status, params.Status) {
		s.logger.Warn().
			Str("task_id", task.ID).
			Str("from", string(task.Status)).
			Str("to", string(params.Status)).
			Msg("status transition not offered")
		return nil, fmt.Errorf("%w: %s -> %s", ErrTransitionUnavailable, task.Status, params.Status)
	}

	change, ok := s.store.SetTaskStatus(task.ID, params.Status)
	if !ok {
		return nil, ErrTaskNotFound
	}
	s.logger.Debug().
		Str("task_id", task.ID).
		Str("from", string(change.From)).
		Str("to", string(change.Task.Status)).
		Msg("updated task status")

	result := &StatusResult{
		Task: change.Task,
		From: change.From,
	}
	if workflow.EntersReview(change.From, change.Task.Status) {
		review := s.reviews.Open(change.Task)
		result.Review = &review
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("status", string(change.Task.Status)).
		Msg("moved task")
	return result, nil
}
