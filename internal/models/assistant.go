package models

import "time"

type AiRole string

const (
	RoleUser  AiRole = "user"
	RoleModel AiRole = "model"
)

type AiMessage struct {
	Role      AiRole
	Text      string
	IsSummary bool
	CreatedAt time.Time
}
