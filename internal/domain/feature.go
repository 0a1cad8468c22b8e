package domain

import "time"

// FeatureStatus is the lifecycle state of a feature.
type FeatureStatus string

const (
	FeatureNotStarted FeatureStatus = "Not Started"
	FeatureInProgress FeatureStatus = "In Progress"
	FeatureCompleted  FeatureStatus = "Completed"
)

// ParseFeatureStatus rejects any value outside the enumerated set.
func ParseFeatureStatus(s string) (FeatureStatus, error) {
	switch FeatureStatus(s) {
	case FeatureNotStarted, FeatureInProgress, FeatureCompleted:
		return FeatureStatus(s), nil
	}
	return "", &ValidationError{
		Field:   "status",
		Message: "status must be one of: Not Started, In Progress, Completed",
	}
}

// Feature is a unit of work within a project, optionally scheduled into a
// sprint of the same project.
type Feature struct {
	ID          int64         `json:"id" db:"id"`
	ProjectID   int64         `json:"project_id" db:"project_id"`
	SprintID    *int64        `json:"sprint_id" db:"sprint_id"`
	Name        string        `json:"name" db:"name"`
	Description *string       `json:"description" db:"description"`
	Status      FeatureStatus `json:"status" db:"status"`
	Priority    int           `json:"priority" db:"priority"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`

	// Tasks nests the serialized child tasks in API responses.
	Tasks []Task `json:"tasks" db:"-"`
}
