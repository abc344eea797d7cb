package v1

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/scrum-ai-master/internal/models"
	"github.com/adanyl0v/scrum-ai-master/internal/services"
)

type stagedTaskResponse struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	AssigneeName string `json:"assignee_name"`
	Status       string `json:"status"`
	Points       int    `json:"points"`
}

type stagedSummaryResponse struct {
	ID         string               `json:"id"`
	Summary    string               `json:"summary"`
	SourceName string               `json:"source_name"`
	Tasks      []stagedTaskResponse `json:"tasks"`
	CreatedAt  time.Time            `json:"created_at"`
}

func newStagedSummaryResponse(s models.StagedSummary) stagedSummaryResponse {
	tasks := make([]stagedTaskResponse, len(s.Tasks))
	for i, t := range s.Tasks {
		tasks[i] = stagedTaskResponse{
			ID:           t.ID,
			Title:        t.Title,
			AssigneeName: t.AssigneeName,
			Status:       string(t.Status),
			Points:       t.Points,
		}
	}
	return stagedSummaryResponse{
		ID:         s.ID,
		Summary:    s.Summary,
		SourceName: s.SourceName,
		Tasks:      tasks,
		CreatedAt:  s.CreatedAt,
	}
}

func (h *handlerImpl) HandleIngestTranscript(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get form file")
		abort(c, newBadRequestError(errMissingFile.Error()))
		return
	}

	if h.maxUploadBytes > 0 && header.Size > h.maxUploadBytes {
		abort(c, newAPIError(http.StatusRequestEntityTooLarge, services.ErrArtifactTooLarge.Error()))
		return
	}

	file, err := header.Open()
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to open form file")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to read form file")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	staged, err := h.ingestion.Ingest(c, services.Artifact{
		Name:     header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		Data:     data,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyArtifact):
			abort(c, newBadRequestError(services.ErrEmptyArtifact.Error()))
		case errors.Is(err, services.ErrUnsupportedArtifact):
			abort(c, newAPIError(http.StatusUnsupportedMediaType, services.ErrUnsupportedArtifact.Error()))
		case errors.Is(err, services.ErrArtifactTooLarge):
			abort(c, newAPIError(http.StatusRequestEntityTooLarge, services.ErrArtifactTooLarge.Error()))
		case errors.Is(err, services.ErrIngestionBusy):
			abort(c, newConflictError(services.ErrIngestionBusy.Error()))
		default:
			abort(c, newAPIError(http.StatusBadGateway, ingestionFailedMessage))
		}
		return
	}

	c.JSON(http.StatusCreated, newStagedSummaryResponse(*staged))
}

func (h *handlerImpl) HandleGetStaged(c *gin.Context) {
	staged, ok := h.ingestion.Staged()
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, newStagedSummaryResponse(*staged))
}

func (h *handlerImpl) HandleConfirmStaged(c *gin.Context) {
	task, err := h.ingestion.Confirm(c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrStagedTaskNotFound):
			abort(c, newNotFoundError(services.ErrStagedTaskNotFound.Error()))
		case errors.Is(err, services.ErrAssigneeNotFound):
			abort(c, newUnprocessableError(err.Error()))
		default:
			h.logger.Error().
				Err(err).
				Msg("failed to confirm staged task")
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}
	c.JSON(http.StatusCreated, newTaskResponse(task))
}
