package models

type TaskStatus string

const (
	StatusToDo       TaskStatus = "To Do"
	StatusInProgress TaskStatus = "In Progress"
	StatusInReview   TaskStatus = "In Review"
	StatusBlocked    TaskStatus = "Blocked"
	StatusDone       TaskStatus = "Done"
)

// TaskStatuses lists every status in board column order.
var TaskStatuses = []TaskStatus{
	StatusToDo,
	StatusInProgress,
	StatusInReview,
	StatusBlocked,
	StatusDone,
}

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusInReview, StatusBlocked, StatusDone:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityUrgent TaskPriority = "Urgent"
	PriorityHigh   TaskPriority = "High"
	PriorityMedium TaskPriority = "Medium"
	PriorityLow    TaskPriority = "Low"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// StoryPoints is the conventional estimate scale. It is not enforced.
var StoryPoints = []int{1, 2, 3, 5, 8, 13}

type Task struct {
	ID          string       `json:"id" yaml:"id"`
	Title       string       `json:"title" yaml:"title"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	AssigneeID  string       `json:"assigneeId" yaml:"assignee_id"`
	Status      TaskStatus   `json:"status" yaml:"status"`
	Points      int          `json:"points" yaml:"points"`
	Priority    TaskPriority `json:"priority" yaml:"priority"`
}

// NewTask carries the caller-supplied fields of a task. An empty Status
// means StatusToDo.
type NewTask struct {
	Title       string
	Description string
	AssigneeID  string
	Status      TaskStatus
	Points      int
	Priority    TaskPriority
}
