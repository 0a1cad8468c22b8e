package service

import (
	"context"
	"time"

	"github.com/trajectory-pm/trajectory/internal/domain"
)

// TaskStore defines the task data access interface consumed by TaskService.
type TaskStore interface {
	Create(ctx context.Context, task domain.Task) (*domain.Task, error)
	FindByID(ctx context.Context, id int64) (*domain.Task, error)
	ListByFeature(ctx context.Context, featureID int64) ([]domain.Task, error)
	ListAssigned(ctx context.Context, userID int64) ([]domain.Task, error)
	ListAccessible(ctx context.Context, userID int64) ([]domain.Task, error)
	Update(ctx context.Context, task domain.Task) (*domain.Task, error)
	Delete(ctx context.Context, id int64) error
}

// CreateTaskInput carries a validated create request.
type CreateTaskInput struct {
	Name        string
	Description string
	AssignedTo  *int64
	Status      string
	Priority    int
	StartDate   *time.Time
	DueDate     *time.Time
}

// UpdateTaskInput carries a partial update; nil fields keep their current
// values.
type UpdateTaskInput struct {
	Name        *string
	Description *string
	AssignedTo  *int64
	Status      *string
	Priority    *int
	StartDate   *time.Time
	DueDate     *time.Time
}

// TaskService implements task CRUD under a feature, gated on access to the
// feature's project.
type TaskService struct {
	tasks    TaskStore
	features FeatureStore
	authz    *Authorizer
}

// NewTaskService creates a new TaskService.
func NewTaskService(tasks TaskStore, features FeatureStore, authz *Authorizer) *TaskService {
	return &TaskService{tasks: tasks, features: features, authz: authz}
}

// Get returns a single task under the feature.
func (s *TaskService) Get(ctx context.Context, projectID, featureID, taskID, userID int64) (*domain.Task, error) {
	return s.find(ctx, projectID, featureID, taskID, userID)
}

// ListForFeature returns the feature's tasks.
func (s *TaskService) ListForFeature(ctx context.Context, projectID, featureID, userID int64) ([]domain.Task, error) {
	if err := s.checkFeature(ctx, projectID, featureID, userID); err != nil {
		return nil, err
	}
	return s.tasks.ListByFeature(ctx, featureID)
}

// ListAssigned returns tasks assigned to the caller.
func (s *TaskService) ListAssigned(ctx context.Context, userID int64) ([]domain.Task, error) {
	return s.tasks.ListAssigned(ctx, userID)
}

// ListAccessible returns every task in a project the caller owns or
// belongs to.
func (s *TaskService) ListAccessible(ctx context.Context, userID int64) ([]domain.Task, error) {
	return s.tasks.ListAccessible(ctx, userID)
}

// Create persists a new task under the feature, recording the caller as
// the creator. Status defaults to "In Progress" when omitted.
func (s *TaskService) Create(ctx context.Context, projectID, featureID, userID int64, in CreateTaskInput) (*domain.Task, error) {
	if err := s.checkFeature(ctx, projectID, featureID, userID); err != nil {
		return nil, err
	}

	status := domain.TaskInProgress
	if in.Status != "" {
		parsed, err := domain.ParseTaskStatus(in.Status)
		if err != nil {
			return nil, err
		}
		status = parsed
	}

	return s.tasks.Create(ctx, domain.Task{
		FeatureID:   featureID,
		Name:        in.Name,
		Description: in.Description,
		Status:      status,
		Priority:    in.Priority,
		AssignedTo:  in.AssignedTo,
		CreatedBy:   userID,
		StartDate:   in.StartDate,
		DueDate:     in.DueDate,
	})
}

// Update applies the provided fields and writes the result in one
// statement. Both dates land together, so the two-step assignment dance
// the date setters would otherwise need never produces a transient state
// here. An invalid status rejects the whole update.
func (s *TaskService) Update(ctx context.Context, projectID, featureID, taskID, userID int64, in UpdateTaskInput) (*domain.Task, error) {
	task, err := s.find(ctx, projectID, featureID, taskID, userID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		task.Name = *in.Name
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.Status != nil {
		parsed, err := domain.ParseTaskStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		task.Status = parsed
	}
	if in.Priority != nil {
		task.Priority = *in.Priority
	}
	if in.AssignedTo != nil {
		task.AssignedTo = in.AssignedTo
	}
	if in.StartDate != nil {
		task.StartDate = in.StartDate
	}
	if in.DueDate != nil {
		task.DueDate = in.DueDate
	}

	return s.tasks.Update(ctx, *task)
}

// Toggle flips the task between "Completed" and "Not Started". The caller
// needs access to the project the task ultimately belongs to.
func (s *TaskService) Toggle(ctx context.Context, taskID, userID int64) (*domain.Task, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	feature, err := s.features.FindByID(ctx, task.FeatureID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.RequireAccess(ctx, feature.ProjectID, userID); err != nil {
		return nil, err
	}

	task.Status = task.Toggled()
	return s.tasks.Update(ctx, *task)
}

// Delete removes a task.
func (s *TaskService) Delete(ctx context.Context, projectID, featureID, taskID, userID int64) error {
	if _, err := s.find(ctx, projectID, featureID, taskID, userID); err != nil {
		return err
	}
	return s.tasks.Delete(ctx, taskID)
}

func (s *TaskService) find(ctx context.Context, projectID, featureID, taskID, userID int64) (*domain.Task, error) {
	if err := s.checkFeature(ctx, projectID, featureID, userID); err != nil {
		return nil, err
	}

	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.FeatureID != featureID {
		return nil, domain.ErrNotFound
	}
	return task, nil
}

// checkFeature verifies the feature exists under the given project and the
// caller has access to that project.
func (s *TaskService) checkFeature(ctx context.Context, projectID, featureID, userID int64) error {
	feature, err := s.features.FindByID(ctx, featureID)
	if err != nil {
		return err
	}
	if feature.ProjectID != projectID {
		return domain.ErrNotFound
	}
	return s.authz.RequireAccess(ctx, projectID, userID)
}
