package services

import (
	"math"

	"github.com/adanyl0v/scrum-ai-master/internal/models"
)

// ComputeMetrics derives sprint progress from the board. Velocity is the
// rounded percentage of completed points, 0 for an empty sprint.
func ComputeMetrics(tasks []models.Task, members []models.TeamMember) models.SprintMetrics {
	var m models.SprintMetrics
	m.TasksTotal = len(tasks)

	completedTasks := make(map[string]int)
	completedPoints := make(map[string]int)
	for _, t := range tasks {
		m.PointsTotal += t.Points
		if t.Status != models.StatusDone {
			continue
		}
		m.TasksCompleted++
		m.PointsCompleted += t.Points
		completedTasks[t.AssigneeID]++
		completedPoints[t.AssigneeID] += t.Points
	}

	if m.PointsTotal > 0 {
		m.VelocityPercent = int(math.Round(100 * float64(m.PointsCompleted) / float64(m.PointsTotal)))
	}

	m.Members = make([]models.MemberMetrics, len(members))
	for i, member := range members {
		m.Members[i] = models.MemberMetrics{
			MemberID:        member.ID,
			Name:            member.Name,
			Avatar:          member.Avatar,
			Role:            member.Role,
			TasksCompleted:  completedTasks[member.ID],
			PointsCompleted: completedPoints[member.ID],
		}
	}
	return m
}
