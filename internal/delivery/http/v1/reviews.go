package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/scrum-ai-master/internal/models"
	"github.com/adanyl0v/scrum-ai-master/internal/services"
)

type suggestionResponse struct {
	ReviewerName string `json:"reviewer_name"`
	Reason       string `json:"reason"`
}

type reviewResponse struct {
	ID         string              `json:"id"`
	Task       taskResponse        `json:"task"`
	Suggestion *suggestionResponse `json:"suggestion"`
	Loading    bool                `json:"loading"`
	OpenedAt   time.Time           `json:"opened_at"`
}

func newReviewResponse(r models.ReviewRequest) reviewResponse {
	response := reviewResponse{
		ID:       r.ID,
		Task:     newTaskResponse(r.Task),
		Loading:  r.Suggestion == nil,
		OpenedAt: r.OpenedAt,
	}
	if r.Suggestion != nil {
		response.Suggestion = &suggestionResponse{
			ReviewerName: r.Suggestion.ReviewerName,
			Reason:       r.Suggestion.Reason,
		}
	}
	return response
}

func (h *handlerImpl) HandleGetPendingReview(c *gin.Context) {
	review, ok := h.reviews.Pending()
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, newReviewResponse(*review))
}

func (h *handlerImpl) HandleDismissReview(c *gin.Context) {
	err := h.reviews.Dismiss(c.Param("id"))
	if err != nil {
		abort(c, newNotFoundError(services.ErrReviewNotFound.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
