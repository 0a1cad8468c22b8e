package service

import (
	"context"
	"time"

	"github.com/trajectory-pm/trajectory/internal/domain"
)

// SprintStore defines the sprint data access interface consumed by
// SprintService.
type SprintStore interface {
	Create(ctx context.Context, sprint domain.Sprint) (*domain.Sprint, error)
	FindByID(ctx context.Context, id int64) (*domain.Sprint, error)
	ListByProject(ctx context.Context, projectID int64) ([]domain.Sprint, error)
	Update(ctx context.Context, sprint domain.Sprint) (*domain.Sprint, error)
	Delete(ctx context.Context, id int64) error
}

// SprintInput carries a validated create/update request.
type SprintInput struct {
	Name      string
	StartDate *time.Time
	EndDate   *time.Time
}

// SprintService implements sprint CRUD within a project, gated on project
// access.
type SprintService struct {
	sprints SprintStore
	authz   *Authorizer
}

// NewSprintService creates a new SprintService.
func NewSprintService(sprints SprintStore, authz *Authorizer) *SprintService {
	return &SprintService{sprints: sprints, authz: authz}
}

// List returns the project's sprints.
func (s *SprintService) List(ctx context.Context, projectID, userID int64) ([]domain.Sprint, error) {
	if err := s.authz.RequireAccess(ctx, projectID, userID); err != nil {
		return nil, err
	}
	return s.sprints.ListByProject(ctx, projectID)
}

// Create persists a new sprint after validating date ordering.
func (s *SprintService) Create(ctx context.Context, projectID, userID int64, in SprintInput) (*domain.Sprint, error) {
	if err := s.authz.RequireAccess(ctx, projectID, userID); err != nil {
		return nil, err
	}

	sprint := domain.Sprint{ProjectID: projectID, Name: in.Name}
	if err := sprint.SetDates(in.StartDate, in.EndDate); err != nil {
		return nil, err
	}
	return s.sprints.Create(ctx, sprint)
}

// Update overwrites name and both dates. Ordering is re-validated before
// anything is written, so a rejected update leaves the stored sprint
// untouched.
func (s *SprintService) Update(ctx context.Context, projectID, sprintID, userID int64, in SprintInput) (*domain.Sprint, error) {
	sprint, err := s.find(ctx, projectID, sprintID, userID)
	if err != nil {
		return nil, err
	}

	sprint.Name = in.Name
	if err := sprint.SetDates(in.StartDate, in.EndDate); err != nil {
		return nil, err
	}
	return s.sprints.Update(ctx, *sprint)
}

// Delete removes a sprint; its features and their tasks cascade.
func (s *SprintService) Delete(ctx context.Context, projectID, sprintID, userID int64) error {
	if _, err := s.find(ctx, projectID, sprintID, userID); err != nil {
		return err
	}
	return s.sprints.Delete(ctx, sprintID)
}

// find resolves a sprint under its project with the access check applied.
// A sprint id reached through the wrong project reads as absent.
func (s *SprintService) find(ctx context.Context, projectID, sprintID, userID int64) (*domain.Sprint, error) {
	if err := s.authz.RequireAccess(ctx, projectID, userID); err != nil {
		return nil, err
	}

	sprint, err := s.sprints.FindByID(ctx, sprintID)
	if err != nil {
		return nil, err
	}
	if sprint.ProjectID != projectID {
		return nil, domain.ErrNotFound
	}
	return sprint, nil
}
