package models

type MemberMetrics struct {
	MemberID        string
	Name            string
	Avatar          string
	Role            string
	TasksCompleted  int
	PointsCompleted int
}

type SprintMetrics struct {
	TasksCompleted  int
	TasksTotal      int
	PointsCompleted int
	PointsTotal     int
	VelocityPercent int
	Members         []MemberMetrics
}
