package service

import (
	"context"

	"github.com/trajectory-pm/trajectory/internal/domain"
)

// UserService serves user lookups in their public form.
type UserService struct {
	users UserStore
	authz *Authorizer
}

// NewUserService creates a new UserService.
func NewUserService(users UserStore, authz *Authorizer) *UserService {
	return &UserService{users: users, authz: authz}
}

// List returns every account.
func (s *UserService) List(ctx context.Context) ([]domain.PublicUser, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	return publicUsers(users), nil
}

// Get returns one account by id.
func (s *UserService) Get(ctx context.Context, id int64) (*domain.PublicUser, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	pub := user.Public()
	return &pub, nil
}

// ListForProject returns the project's owner and members, visible only to
// users with access to the project.
func (s *UserService) ListForProject(ctx context.Context, projectID, userID int64) ([]domain.PublicUser, error) {
	if err := s.authz.RequireAccess(ctx, projectID, userID); err != nil {
		return nil, err
	}

	users, err := s.users.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return publicUsers(users), nil
}

func publicUsers(users []domain.User) []domain.PublicUser {
	out := make([]domain.PublicUser, len(users))
	for i, u := range users {
		out[i] = u.Public()
	}
	return out
}
