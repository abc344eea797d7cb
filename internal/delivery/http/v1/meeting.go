package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/scrum-ai-master/internal/models"
	"github.com/adanyl0v/scrum-ai-master/internal/services"
)

type meetingResponse struct {
	Time      string   `json:"time"`
	Scheduled bool     `json:"scheduled"`
	Attendees []string `json:"attendees"`
}

// newMeetingResponse maps a missing meeting to nil, rendered as null.
func newMeetingResponse(m *models.Meeting) *meetingResponse {
	if m == nil {
		return nil
	}
	attendees := m.Attendees
	if attendees == nil {
		attendees = []string{}
	}
	return &meetingResponse{
		Time:      m.Time,
		Scheduled: m.Scheduled,
		Attendees: attendees,
	}
}

type rescheduleMeetingRequest struct {
	Time string `json:"time" binding:"required"`
}

type meetingSummaryResponse struct {
	Summary    string   `json:"summary"`
	MailtoURL  string   `json:"mailto_url"`
	Recipients []string `json:"recipients"`
}

func (h *handlerImpl) HandleGetMeeting(c *gin.Context) {
	c.JSON(http.StatusOK, newMeetingResponse(h.meetings.Meeting()))
}

func (h *handlerImpl) HandleCancelMeeting(c *gin.Context) {
	c.JSON(http.StatusOK, newMeetingResponse(h.meetings.Cancel()))
}

func (h *handlerImpl) HandleRescheduleMeeting(c *gin.Context) {
	var req rescheduleMeetingRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	meeting, err := h.meetings.Reschedule(req.Time)
	if err != nil {
		abort(c, newBadRequestError(err.Error()))
		return
	}
	c.JSON(http.StatusOK, newMeetingResponse(meeting))
}

func (h *handlerImpl) HandleRemoveMeeting(c *gin.Context) {
	h.meetings.Remove()
	c.Status(http.StatusNoContent)
}

func (h *handlerImpl) HandleMeetingSummary(c *gin.Context) {
	result, err := h.meetings.Summary(c)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMeetingNotScheduled):
			abort(c, newConflictError(err.Error()))
		case errors.Is(err, services.ErrNoRecipients):
			abort(c, newUnprocessableError(err.Error()))
		default:
			h.logger.Error().
				Err(err).
				Msg("failed to summarize meeting")
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusOK, meetingSummaryResponse{
		Summary:    result.Summary,
		MailtoURL:  result.MailtoURL,
		Recipients: result.Recipients,
	})
}
