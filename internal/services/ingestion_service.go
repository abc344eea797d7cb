package services

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/scrum-ai-master/internal/gateway"
	"github.com/adanyl0v/scrum-ai-master/internal/models"
	"github.com/adanyl0v/scrum-ai-master/internal/store"
)

const DefaultMaxArtifactBytes = 20 << 20

type IngestionOption func(*ingestionServiceImpl)

// WithMaxArtifactBytes caps the artifact size. Zero or less disables the cap.
func WithMaxArtifactBytes(n int64) IngestionOption {
	return func(s *ingestionServiceImpl) {
		s.maxBytes = n
	}
}

type ingestionServiceImpl struct {
	logger   zerolog.Logger
	store    *store.Store
	gateway  gateway.Gateway
	maxBytes int64
	now      func() time.Time

	mu     sync.Mutex
	staged *models.StagedSummary
	busy   bool
}

func NewIngestionService(
	logger zerolog.Logger,
	boardStore *store.Store,
	gw gateway.Gateway,
	opts ...IngestionOption,
) IngestionService {
	s := &ingestionServiceImpl{
		logger:   logger,
		store:    boardStore,
		gateway:  gw,
		maxBytes: DefaultMaxArtifactBytes,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ingestionServiceImpl) Ingest(ctx context.Context, artifact Artifact) (*models.StagedSummary, error) {
	mimeType, err := s.validate(artifact)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return nil, ErrIngestionBusy
	}
	s.busy = true
	s.staged = nil
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
	}()

	s.logger.Debug().
		Str("name", artifact.Name).
		Str("mime_type", mimeType).
		Int("size", len(artifact.Data)).
		Msg("summarizing artifact")

	summary, err := s.gateway.SummarizeMedia(ctx, artifact.Data, mimeType, s.store.Members())
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("name", artifact.Name).
			Msg("failed to summarize artifact")
		return nil, ErrIngestionFailed
	}
	if err = validateSummary(summary); err != nil {
		s.logger.Error().
			Err(err).
			Str("name", artifact.Name).
			Msg("artifact summary is invalid")
		return nil, ErrIngestionFailed
	}

	staged := &models.StagedSummary{
		ID:         uuid.NewString(),
		Summary:    summary.Summary,
		Tasks:      make([]models.StagedTask, len(summary.Tasks)),
		SourceName: artifact.Name,
		CreatedAt:  s.now(),
	}
	for i, t := range summary.Tasks {
		staged.Tasks[i] = models.StagedTask{ID: uuid.NewString(), SummarizedTask: t}
	}

	s.mu.Lock()
	s.staged = staged
	s.mu.Unlock()

	s.logger.Info().
		Str("summary_id", staged.ID).
		Int("tasks", len(staged.Tasks)).
		Msg("staged artifact summary")
	return cloneStaged(staged), nil
}

// validate checks the artifact and returns its media type, sniffing one
// from the name or content when the caller supplied none.
func (s *ingestionServiceImpl) validate(artifact Artifact) (string, error) {
	if len(artifact.Data) == 0 {
		return "", ErrEmptyArtifact
	}
	if s.maxBytes > 0 && int64(len(artifact.Data)) > s.maxBytes {
		return "", ErrArtifactTooLarge
	}

	mimeType := artifact.MimeType
	if mimeType == "" || mimeType == "application/octet-stream" {
		if byExt := mime.TypeByExtension(filepath.Ext(artifact.Name)); byExt != "" {
			mimeType = byExt
		} else {
			mimeType = http.DetectContentType(artifact.Data)
		}
	}

	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedArtifact, mimeType)
	}
	if !strings.HasPrefix(mediaType, "text/") &&
		!strings.HasPrefix(mediaType, "audio/") &&
		!strings.HasPrefix(mediaType, "video/") {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedArtifact, mediaType)
	}
	return mediaType, nil
}

var ingestibleStatuses = []models.TaskStatus{
	models.StatusToDo,
	models.StatusInProgress,
	models.StatusBlocked,
	models.StatusDone,
}

func validateSummary(summary *models.MeetingSummary) error {
	for i, t := range summary.Tasks {
		if strings.TrimSpace(t.Title) == "" {
			return fmt.Errorf("task %d has no title", i)
		}
		if !slices.Contains(ingestibleStatuses, t.Status) {
			return fmt.Errorf("task %d has status %q", i, t.Status)
		}
		if t.Points <= 0 {
			return fmt.Errorf("task %d has %d points", i, t.Points)
		}
	}
	return nil
}

func (s *ingestionServiceImpl) Staged() (*models.StagedSummary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.staged == nil {
		return nil, false
	}
	return cloneStaged(s.staged), true
}

func (s *ingestionServiceImpl) Confirm(stagedTaskID string) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.staged == nil {
		return models.Task{}, ErrStagedTaskNotFound
	}
	i := slices.IndexFunc(s.staged.Tasks, func(t models.StagedTask) bool {
		return t.ID == stagedTaskID
	})
	if i < 0 {
		return models.Task{}, ErrStagedTaskNotFound
	}
	staged := s.staged.Tasks[i]

	assignee, ok := ResolveAssignee(s.store.Members(), staged.AssigneeName)
	if !ok {
		s.logger.Warn().
			Str("staged_task_id", stagedTaskID).
			Str("assignee", staged.AssigneeName).
			Msg("staged task names an unknown assignee")
		return models.Task{}, fmt.Errorf("%w: %q", ErrAssigneeNotFound, staged.AssigneeName)
	}

	task := s.store.AddTask(models.NewTask{
		Title:      staged.Title,
		AssigneeID: assignee.ID,
		Status:     staged.Status,
		Points:     staged.Points,
		Priority:   models.PriorityMedium,
	})
	s.staged.Tasks = slices.Delete(s.staged.Tasks, i, i+1)

	s.logger.Info().
		Str("staged_task_id", stagedTaskID).
		Str("task_id", task.ID).
		Msg("confirmed staged task")
	return task, nil
}

func cloneStaged(s *models.StagedSummary) *models.StagedSummary {
	c := *s
	c.Tasks = slices.Clone(s.Tasks)
	return &c
}
