package domain

import (
	"encoding/json"
	"time"
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	TaskNotStarted TaskStatus = "Not Started"
	TaskInProgress TaskStatus = "In Progress"
	TaskOverdue    TaskStatus = "Overdue"
	TaskCompleted  TaskStatus = "Completed"
)

// ParseTaskStatus rejects any value outside the enumerated set.
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch TaskStatus(s) {
	case TaskNotStarted, TaskInProgress, TaskOverdue, TaskCompleted:
		return TaskStatus(s), nil
	}
	return "", &ValidationError{
		Field:   "status",
		Message: "status must be one of: Not Started, In Progress, Overdue, Completed",
	}
}

// Task is a leaf work item within a feature. Unlike a sprint, the
// start/due pair carries no ordering constraint.
type Task struct {
	ID          int64      `json:"id" db:"id"`
	FeatureID   int64      `json:"feature_id" db:"feature_id"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description" db:"description"`
	Status      TaskStatus `json:"status" db:"status"`
	Priority    int        `json:"priority" db:"priority"`
	AssignedTo  *int64     `json:"assigned_to" db:"assigned_to"`
	CreatedBy   int64      `json:"created_by" db:"created_by"`
	StartDate   *time.Time `json:"start_date" db:"start_date"`
	DueDate     *time.Time `json:"due_date" db:"due_date"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// Duration renders the span between start and due date, nil when unset.
func (t Task) Duration() *string {
	return DateRange{Start: t.StartDate, End: t.DueDate}.DurationString()
}

// Toggled flips completion: a completed task reverts to "Not Started",
// anything else becomes "Completed". Two toggles round-trip.
func (t Task) Toggled() TaskStatus {
	if t.Status == TaskCompleted {
		return TaskNotStarted
	}
	return TaskCompleted
}

// MarshalJSON includes the derived duration string.
func (t Task) MarshalJSON() ([]byte, error) {
	type alias Task
	return json.Marshal(struct {
		alias
		Duration *string `json:"duration"`
	}{alias(t), t.Duration()})
}
