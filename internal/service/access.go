package service

import (
	"context"

	"github.com/trajectory-pm/trajectory/internal/domain"
)

// ProjectStore is the project data access interface consumed by services.
type ProjectStore interface {
	Create(ctx context.Context, project domain.Project) (*domain.Project, error)
	FindByID(ctx context.Context, id int64) (*domain.Project, error)
	ListForUser(ctx context.Context, userID int64) ([]domain.Project, error)
	Update(ctx context.Context, project domain.Project) (*domain.Project, error)
	Delete(ctx context.Context, id, ownerID int64) error
	AddMember(ctx context.Context, projectID, userID int64) error
	RemoveMember(ctx context.Context, projectID, userID int64) error
	RoleOf(ctx context.Context, projectID, userID int64) (domain.ProjectRole, error)
}

// Authorizer evaluates the per-request access policy: every check runs
// against current ownership/membership state, with no session-scoped
// elevation.
type Authorizer struct {
	projects ProjectStore
}

// NewAuthorizer creates a new Authorizer.
func NewAuthorizer(projects ProjectStore) *Authorizer {
	return &Authorizer{projects: projects}
}

// RequireAccess passes when the user is the project's owner or a member.
// A missing project yields ErrNotFound, a visible-but-foreign project
// ErrForbidden.
func (a *Authorizer) RequireAccess(ctx context.Context, projectID, userID int64) error {
	role, err := a.projects.RoleOf(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if role == domain.RoleNone {
		return domain.ErrForbidden
	}
	return nil
}

// RequireOwner passes only for the project's owner.
func (a *Authorizer) RequireOwner(ctx context.Context, projectID, userID int64) error {
	role, err := a.projects.RoleOf(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if role != domain.RoleOwner {
		return domain.ErrForbidden
	}
	return nil
}

// Role reports the user's relationship to the project ("owner", "member"
// or none).
func (a *Authorizer) Role(ctx context.Context, projectID, userID int64) (domain.ProjectRole, error) {
	return a.projects.RoleOf(ctx, projectID, userID)
}
