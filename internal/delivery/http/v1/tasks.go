package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/scrum-ai-master/internal/models"
	"github.com/adanyl0v/scrum-ai-master/internal/services"
	"github.com/adanyl0v/scrum-ai-master/internal/workflow"
)

type actionResponse struct {
	Label string `json:"label"`
	To    string `json:"to"`
}

type taskResponse struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	AssigneeID  string           `json:"assignee_id"`
	Status      string           `json:"status"`
	Points      int              `json:"points"`
	Priority    string           `json:"priority"`
	Actions     []actionResponse `json:"actions"`
}

func newTaskResponse(task models.Task) taskResponse {
	transitions := workflow.Available(task.Status)
	actions := make([]actionResponse, len(transitions))
	for i, t := range transitions {
		actions[i] = actionResponse{Label: t.Label, To: string(t.To)}
	}

	return taskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		AssigneeID:  task.AssigneeID,
		Status:      string(task.Status),
		Points:      task.Points,
		Priority:    string(task.Priority),
		Actions:     actions,
	}
}

type createTaskRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description"`
	AssigneeID  string `json:"assignee_id"`
	Status      string `json:"status"`
	Points      int    `json:"points" binding:"min=0"`
	Priority    string `json:"priority"`
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	var req createTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	task, err := h.board.CreateTask(services.CreateTaskParams{
		Title:       req.Title,
		Description: req.Description,
		AssigneeID:  req.AssigneeID,
		Status:      models.TaskStatus(req.Status),
		Points:      req.Points,
		Priority:    models.TaskPriority(req.Priority),
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create task")
		switch {
		case errors.Is(err, services.ErrEmptyTitle),
			errors.Is(err, services.ErrInvalidPriority),
			errors.Is(err, services.ErrInvalidStatus):
			abort(c, newBadRequestError(err.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusCreated, newTaskResponse(task))
}

func (h *handlerImpl) HandleGetTasks(c *gin.Context) {
	tasks := h.board.Tasks()

	response := make([]taskResponse, len(tasks))
	for i, task := range tasks {
		response[i] = newTaskResponse(task)
	}
	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) HandleGetTask(c *gin.Context) {
	task, err := h.board.Task(c.Param("id"))
	if err != nil {
		abort(c, newNotFoundError(services.ErrTaskNotFound.Error()))
		return
	}
	c.JSON(http.StatusOK, newTaskResponse(task))
}

type setTaskStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type setTaskStatusResponse struct {
	Task   taskResponse    `json:"task"`
	From   string          `json:"from"`
	Review *reviewResponse `json:"review"`
}

func (h *handlerImpl) HandleSetTaskStatus(c *gin.Context) {
	var req setTaskStatusRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	result, err := h.board.SetTaskStatus(services.SetTaskStatusParams{
		TaskID: c.Param("id"),
		Status: models.TaskStatus(req.Status),
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTaskNotFound):
			abort(c, newNotFoundError(services.ErrTaskNotFound.Error()))
		case errors.Is(err, services.ErrTransitionUnavailable):
			abort(c, newConflictError(err.Error()))
		default:
			h.logger.Error().
				Err(err).
				Msg("failed to set task status")
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	response := setTaskStatusResponse{
		Task: newTaskResponse(result.Task),
		From: string(result.From),
	}
	if result.Review != nil {
		review := newReviewResponse(*result.Review)
		response.Review = &review
	}
	c.JSON(http.StatusOK, response)
}
