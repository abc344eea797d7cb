package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/scrum-ai-master/internal/services"
)

type memberMetricsResponse struct {
	MemberID        string `json:"member_id"`
	Name            string `json:"name"`
	Avatar          string `json:"avatar"`
	Role            string `json:"role"`
	TasksCompleted  int    `json:"tasks_completed"`
	PointsCompleted int    `json:"points_completed"`
}

type metricsResponse struct {
	TasksCompleted  int                     `json:"tasks_completed"`
	TasksTotal      int                     `json:"tasks_total"`
	PointsCompleted int                     `json:"points_completed"`
	PointsTotal     int                     `json:"points_total"`
	VelocityPercent int                     `json:"velocity_percent"`
	Members         []memberMetricsResponse `json:"members"`
}

func (h *handlerImpl) HandleGetMetrics(c *gin.Context) {
	m := services.ComputeMetrics(h.board.Tasks(), h.board.Members())

	members := make([]memberMetricsResponse, len(m.Members))
	for i, mm := range m.Members {
		members[i] = memberMetricsResponse{
			MemberID:        mm.MemberID,
			Name:            mm.Name,
			Avatar:          mm.Avatar,
			Role:            mm.Role,
			TasksCompleted:  mm.TasksCompleted,
			PointsCompleted: mm.PointsCompleted,
		}
	}

	c.JSON(http.StatusOK, metricsResponse{
		TasksCompleted:  m.TasksCompleted,
		TasksTotal:      m.TasksTotal,
		PointsCompleted: m.PointsCompleted,
		PointsTotal:     m.PointsTotal,
		VelocityPercent: m.VelocityPercent,
		Members:         members,
	})
}
