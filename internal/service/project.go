package service

import (
	"context"
	"time"

	"github.com/trajectory-pm/trajectory/internal/domain"
)

// ProjectInput carries a validated create/update request. Length bounds
// are enforced at the request boundary; the future-due-date rule lives
// here because it depends on the clock.
type ProjectInput struct {
	Name        string
	Description string
	DueDate     time.Time
}

// ProjectService implements project CRUD and membership under the access
// policy: reads and content updates for owner or member, deletion and
// member removal for the owner only.
type ProjectService struct {
	projects ProjectStore
	users    UserStore
	authz    *Authorizer
	now      func() time.Time
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projects ProjectStore, users UserStore, authz *Authorizer) *ProjectService {
	return &ProjectService{projects: projects, users: users, authz: authz, now: time.Now}
}

// List returns projects the user owns or belongs to.
func (s *ProjectService) List(ctx context.Context, userID int64) ([]domain.Project, error) {
	return s.projects.ListForUser(ctx, userID)
}

// Get returns the project only when the user is its owner or a member.
// The access check is embedded in the lookup: outsiders get ErrNotFound,
// never ErrForbidden, so the project's existence is not leaked.
func (s *ProjectService) Get(ctx context.Context, id, userID int64) (*domain.Project, error) {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !project.Accessible(userID) {
		return nil, domain.ErrNotFound
	}
	return project, nil
}

// Create persists a new project owned by the caller.
func (s *ProjectService) Create(ctx context.Context, ownerID int64, in ProjectInput) (*domain.Project, error) {
	if err := s.checkDueDate(in.DueDate); err != nil {
		return nil, err
	}
	return s.projects.Create(ctx, domain.Project{
		Name:        in.Name,
		Description: in.Description,
		OwnerID:     ownerID,
		DueDate:     in.DueDate,
	})
}

// Update overwrites name, description and due date.
func (s *ProjectService) Update(ctx context.Context, id, userID int64, in ProjectInput) (*domain.Project, error) {
	project, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if err := s.checkDueDate(in.DueDate); err != nil {
		return nil, err
	}

	project.Name = in.Name
	project.Description = in.Description
	project.DueDate = in.DueDate
	return s.projects.Update(ctx, *project)
}

// Delete removes the project and, through the cascade, its sprints,
// features and tasks. Only the owner may delete; a project that is absent
// or owned by someone else reports ErrNotFound.
func (s *ProjectService) Delete(ctx context.Context, id, userID int64) error {
	return s.projects.Delete(ctx, id, userID)
}

// AddMember grants a user membership. Any authenticated user may do this;
// only the target project and user must exist.
func (s *ProjectService) AddMember(ctx context.Context, projectID, userID int64) (*domain.Project, error) {
	if _, err := s.projects.FindByID(ctx, projectID); err != nil {
		return nil, err
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	if err := s.projects.AddMember(ctx, projectID, userID); err != nil {
		return nil, err
	}
	return s.projects.FindByID(ctx, projectID)
}

// RemoveMember revokes membership. Owner only; removing a user who is not
// currently a member reports ErrNotFound.
func (s *ProjectService) RemoveMember(ctx context.Context, projectID, requesterID, userID int64) (*domain.Project, error) {
	if err := s.authz.RequireOwner(ctx, projectID, requesterID); err != nil {
		return nil, err
	}

	if err := s.projects.RemoveMember(ctx, projectID, userID); err != nil {
		return nil, err
	}
	return s.projects.FindByID(ctx, projectID)
}

// Role reports the user's relationship to the project.
func (s *ProjectService) Role(ctx context.Context, projectID, userID int64) (domain.ProjectRole, error) {
	return s.authz.Role(ctx, projectID, userID)
}

func (s *ProjectService) checkDueDate(due time.Time) error {
	if !due.After(s.now()) {
		return &domain.ValidationError{Field: "due_date", Message: "due date must be in the future"}
	}
	return nil
}
