package service

import (
	"context"

	"github.com/trajectory-pm/trajectory/internal/domain"
)

// FeatureStore defines the feature data access interface consumed by
// FeatureService and TaskService.
type FeatureStore interface {
	Create(ctx context.Context, feature domain.Feature) (*domain.Feature, error)
	FindByID(ctx context.Context, id int64) (*domain.Feature, error)
	ListByProject(ctx context.Context, projectID int64) ([]domain.Feature, error)
	Update(ctx context.Context, feature domain.Feature) (*domain.Feature, error)
	Delete(ctx context.Context, id int64) error
}

// CreateFeatureInput carries a validated create request.
type CreateFeatureInput struct {
	Name        string
	Description *string
	SprintID    *int64
	Status      string
	Priority    int
}

// UpdateFeatureInput carries a partial update; nil fields keep their
// current values. ClearSprint moves the feature back to the backlog and
// wins over SprintID.
type UpdateFeatureInput struct {
	Name        *string
	Description *string
	SprintID    *int64
	ClearSprint bool
	Status      *string
	Priority    *int
}

// FeatureService implements feature CRUD within a project, gated on
// project access. Sprint assignments are constrained to sprints of the
// same project.
type FeatureService struct {
	features FeatureStore
	authz    *Authorizer
}

// NewFeatureService creates a new FeatureService.
func NewFeatureService(features FeatureStore, authz *Authorizer) *FeatureService {
	return &FeatureService{features: features, authz: authz}
}

// List returns the project's features with their tasks nested.
func (s *FeatureService) List(ctx context.Context, projectID, userID int64) ([]domain.Feature, error) {
	if err := s.authz.RequireAccess(ctx, projectID, userID); err != nil {
		return nil, err
	}
	return s.features.ListByProject(ctx, projectID)
}

// Get returns a single feature under the project.
func (s *FeatureService) Get(ctx context.Context, projectID, featureID, userID int64) (*domain.Feature, error) {
	return s.find(ctx, projectID, featureID, userID)
}

// Create persists a new feature. Status defaults to "Not Started" when
// omitted and any other value must come from the enumerated set.
func (s *FeatureService) Create(ctx context.Context, projectID, userID int64, in CreateFeatureInput) (*domain.Feature, error) {
	if err := s.authz.RequireAccess(ctx, projectID, userID); err != nil {
		return nil, err
	}

	status := domain.FeatureNotStarted
	if in.Status != "" {
		parsed, err := domain.ParseFeatureStatus(in.Status)
		if err != nil {
			return nil, err
		}
		status = parsed
	}

	return s.features.Create(ctx, domain.Feature{
		ProjectID:   projectID,
		SprintID:    in.SprintID,
		Name:        in.Name,
		Description: in.Description,
		Status:      status,
		Priority:    in.Priority,
	})
}

// Update applies the provided fields. An invalid status or a sprint from
// another project rejects the whole update; nothing is committed.
func (s *FeatureService) Update(ctx context.Context, projectID, featureID, userID int64, in UpdateFeatureInput) (*domain.Feature, error) {
	feature, err := s.find(ctx, projectID, featureID, userID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		feature.Name = *in.Name
	}
	if in.Description != nil {
		feature.Description = in.Description
	}
	if in.Status != nil {
		parsed, err := domain.ParseFeatureStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		feature.Status = parsed
	}
	if in.Priority != nil {
		feature.Priority = *in.Priority
	}
	if in.ClearSprint {
		feature.SprintID = nil
	} else if in.SprintID != nil {
		feature.SprintID = in.SprintID
	}

	return s.features.Update(ctx, *feature)
}

// AssignToSprint moves the feature into a sprint, which must belong to the
// feature's own project.
func (s *FeatureService) AssignToSprint(ctx context.Context, projectID, featureID, sprintID, userID int64) (*domain.Feature, error) {
	return s.Update(ctx, projectID, featureID, userID, UpdateFeatureInput{SprintID: &sprintID})
}

// Delete removes a feature; its tasks cascade.
func (s *FeatureService) Delete(ctx context.Context, projectID, featureID, userID int64) error {
	if _, err := s.find(ctx, projectID, featureID, userID); err != nil {
		return err
	}
	return s.features.Delete(ctx, featureID)
}

func (s *FeatureService) find(ctx context.Context, projectID, featureID, userID int64) (*domain.Feature, error) {
	if err := s.authz.RequireAccess(ctx, projectID, userID); err != nil {
		return nil, err
	}

	feature, err := s.features.FindByID(ctx, featureID)
	if err != nil {
		return nil, err
	}
	if feature.ProjectID != projectID {
		return nil, domain.ErrNotFound
	}
	return feature, nil
}
