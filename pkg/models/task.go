package models

type TaskStatus string

const (
	TaskStatusPending        TaskStatus = "pending"
	TaskStatusInProgress     TaskStatus = "in progress"
	TaskStatusCompleted      TaskStatus = "completed"
	TaskStatusAwaitingClient TaskStatus = "awaiting client"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// Task belongs to exactly one client. Dates are free-form date strings;
// the creation and completion timestamps are RFC 3339 instants in UTC.
// CompletionDate and CompletionTimestamp are derived from status changes,
// CreationTimestamp is written once and never mutated.
type Task struct {
	ID                  int64        `json:"id"`
	ClientID            string       `json:"client_id"`
	Date                string       `json:"date"`
	Description         string       `json:"description"`
	Status              TaskStatus   `json:"status"`
	Priority            TaskPriority `json:"priority"`
	SLADate             *string      `json:"sla_date"`
	CompletionDate      *string      `json:"completion_date"`
	CreationTimestamp   string       `json:"creation_timestamp"`
	CompletionTimestamp *string      `json:"completion_timestamp"`
}

// TaskUpdate carries a partial update. Nil means the field was not supplied
// and the stored value is kept; the completion fields are recomputed from
// the status transition, not taken from here directly.
type TaskUpdate struct {
	ClientID       *string       `json:"client_id,omitempty"`
	Date           *string       `json:"date,omitempty"`
	Description    *string       `json:"description,omitempty"`
	Status         *TaskStatus   `json:"status,omitempty"`
	Priority       *TaskPriority `json:"priority,omitempty"`
	SLADate        *string       `json:"sla_date,omitempty"`
	CompletionDate *string       `json:"completion_date,omitempty"`
}
