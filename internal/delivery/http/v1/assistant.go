package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/scrum-ai-master/internal/models"
	"github.com/adanyl0v/scrum-ai-master/internal/services"
)

type messageResponse struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	IsSummary bool      `json:"is_summary"`
	CreatedAt time.Time `json:"created_at"`
}

func newMessageResponse(m models.AiMessage) messageResponse {
	return messageResponse{
		Role:      string(m.Role),
		Text:      m.Text,
		IsSummary: m.IsSummary,
		CreatedAt: m.CreatedAt,
	}
}

type sendMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

func (h *handlerImpl) HandleGetMessages(c *gin.Context) {
	messages := h.assistant.Messages()

	response := make([]messageResponse, len(messages))
	for i, m := range messages {
		response[i] = newMessageResponse(m)
	}
	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) HandleSendMessage(c *gin.Context) {
	var req sendMessageRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	reply, err := h.assistant.Send(c, req.Text)
	if err != nil {
		h.abortAssistantError(c, err)
		return
	}
	c.JSON(http.StatusOK, newMessageResponse(reply))
}

func (h *handlerImpl) HandleResetMessages(c *gin.Context) {
	if err := h.assistant.Reset(); err != nil {
		h.abortAssistantError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlerImpl) HandleStandupSummary(c *gin.Context) {
	summary, err := h.assistant.StandupSummary(c)
	if err != nil {
		h.abortAssistantError(c, err)
		return
	}
	c.JSON(http.StatusOK, newMessageResponse(summary))
}

func (h *handlerImpl) abortAssistantError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrEmptyMessage):
		abort(c, newBadRequestError(err.Error()))
	case errors.Is(err, services.ErrAssistantBusy):
		abort(c, newConflictError(err.Error()))
	default:
		h.logger.Error().
			Err(err).
			Msg("assistant request failed")
		abort(c, newStatusTextError(http.StatusInternalServerError))
	}
}
