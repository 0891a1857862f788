package models

import "time"

// Task status values. Transitions between them are unrestricted;
// completed_at is derived from status on every write.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// Priority bounds (1 = low, 3 = high)
const (
	PriorityMin = 1
	PriorityMax = 3
)

// Task represents a personal task owned by a single user.
// WeekStart is the Sunday of the week the task was created in,
// formatted as YYYY-MM-DD.
type Task struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    int        `json:"priority"`
	Status      string     `json:"status"`
	AssignedTo  int64      `json:"assigned_to"`
	WeekStart   Date       `json:"week_start"`
	CompletedAt *time.Time `json:"completed_at"`
	Archived    bool       `json:"archived"`
	ArchivedAt  *time.Time `json:"archived_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsCompleted reports whether the task is in the completed state
func (t *Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}
