package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/scrum-ai-master/internal/models"
	"github.com/adanyl0v/scrum-ai-master/internal/services"
)

type memberResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Avatar          string `json:"avatar"`
	Role            string `json:"role"`
	DailyUpdate     string `json:"daily_update"`
	Email           string `json:"email,omitempty"`
	MentionsBlocker bool   `json:"mentions_blocker"`
}

func newMemberResponse(m models.TeamMember) memberResponse {
	return memberResponse{
		ID:              m.ID,
		Name:            m.Name,
		Avatar:          m.Avatar,
		Role:            m.Role,
		DailyUpdate:     m.DailyUpdate,
		Email:           m.Email,
		MentionsBlocker: m.MentionsBlocker(),
	}
}

type addMemberRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Role        string `json:"role" binding:"required,max=255"`
	DailyUpdate string `json:"daily_update" binding:"required"`
	Email       string `json:"email" binding:"omitempty,email"`
}

func (h *handlerImpl) HandleGetMembers(c *gin.Context) {
	members := h.board.Members()

	response := make([]memberResponse, len(members))
	for i, m := range members {
		response[i] = newMemberResponse(m)
	}
	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) HandleAddMember(c *gin.Context) {
	var req addMemberRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	member, err := h.board.AddTeamMember(services.AddTeamMemberParams{
		Name:        req.Name,
		Role:        req.Role,
		DailyUpdate: req.DailyUpdate,
		Email:       req.Email,
	})
	if err != nil {
		if errors.Is(err, services.ErrMissingMemberFields) {
			abort(c, newBadRequestError(err.Error()))
			return
		}
		h.logger.Error().
			Err(err).
			Msg("failed to add team member")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusCreated, newMemberResponse(member))
}
