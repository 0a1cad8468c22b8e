package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/trajectory-pm/trajectory/internal/domain"
)

const featureColumns = `id, project_id, sprint_id, name, description, status, priority, created_at, updated_at`

// FeatureRepository handles feature data access.
type FeatureRepository struct {
	db *sqlx.DB
}

// NewFeatureRepository creates a new FeatureRepository.
func NewFeatureRepository(db *sqlx.DB) *FeatureRepository {
	return &FeatureRepository{db: db}
}

// Create persists a new feature. When a sprint is given it must belong to
// the feature's project; the check and the insert share one transaction.
func (r *FeatureRepository) Create(ctx context.Context, feature domain.Feature) (*domain.Feature, error) {
	var result domain.Feature
	err := WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if feature.SprintID != nil {
			if err := checkSprintProject(ctx, tx, *feature.SprintID, feature.ProjectID); err != nil {
				return err
			}
		}
		return tx.QueryRowxContext(ctx,
			`INSERT INTO features (project_id, sprint_id, name, description, status, priority)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING `+featureColumns,
			feature.ProjectID, feature.SprintID, feature.Name, feature.Description,
			feature.Status, feature.Priority,
		).StructScan(&result)
	})
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return nil, err
		}
		return nil, fmt.Errorf("create feature: %w", err)
	}
	result.Tasks = []domain.Task{}
	return &result, nil
}

// FindByID retrieves a feature with its tasks nested.
func (r *FeatureRepository) FindByID(ctx context.Context, id int64) (*domain.Feature, error) {
	var feature domain.Feature
	err := r.db.GetContext(ctx, &feature,
		`SELECT `+featureColumns+` FROM features WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find feature by id %d: %w", id, err)
	}

	tasks := []domain.Task{}
	err = r.db.SelectContext(ctx, &tasks,
		`SELECT `+taskColumns+` FROM tasks WHERE feature_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("list tasks for feature %d: %w", id, err)
	}
	feature.Tasks = tasks
	return &feature, nil
}

// ListByProject returns the project's features with their tasks nested.
func (r *FeatureRepository) ListByProject(ctx context.Context, projectID int64) ([]domain.Feature, error) {
	features := []domain.Feature{}
	err := r.db.SelectContext(ctx, &features,
		`SELECT `+featureColumns+` FROM features WHERE project_id = $1 ORDER BY id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list features for project %d: %w", projectID, err)
	}

	for i := range features {
		tasks := []domain.Task{}
		err = r.db.SelectContext(ctx, &tasks,
			`SELECT `+taskColumns+` FROM tasks WHERE feature_id = $1 ORDER BY id`, features[i].ID)
		if err != nil {
			return nil, fmt.Errorf("list tasks for feature %d: %w", features[i].ID, err)
		}
		features[i].Tasks = tasks
	}
	return features, nil
}

// Update overwrites every mutable field. Sprint reassignment is re-checked
// against the feature's project inside the same transaction, so a failed
// check rolls the whole update back.
func (r *FeatureRepository) Update(ctx context.Context, feature domain.Feature) (*domain.Feature, error) {
	var result domain.Feature
	err := WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if feature.SprintID != nil {
			if err := checkSprintProject(ctx, tx, *feature.SprintID, feature.ProjectID); err != nil {
				return err
			}
		}
		return tx.QueryRowxContext(ctx,
			`UPDATE features
			 SET name = $1, description = $2, status = $3, priority = $4, sprint_id = $5, updated_at = NOW()
			 WHERE id = $6
			 RETURNING `+featureColumns,
			feature.Name, feature.Description, feature.Status, feature.Priority,
			feature.SprintID, feature.ID,
		).StructScan(&result)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return nil, err
		}
		return nil, fmt.Errorf("update feature %d: %w", feature.ID, err)
	}

	tasks := []domain.Task{}
	if err := r.db.SelectContext(ctx, &tasks,
		`SELECT `+taskColumns+` FROM tasks WHERE feature_id = $1 ORDER BY id`, result.ID); err != nil {
		return nil, fmt.Errorf("list tasks for feature %d: %w", result.ID, err)
	}
	result.Tasks = tasks
	return &result, nil
}

// Delete removes a feature; its tasks cascade.
func (r *FeatureRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM features WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete feature %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete feature %d: %w", id, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// checkSprintProject rejects a sprint assignment that crosses projects.
func checkSprintProject(ctx context.Context, tx *sqlx.Tx, sprintID, projectID int64) error {
	var sprintProjectID int64
	err := tx.GetContext(ctx, &sprintProjectID,
		`SELECT project_id FROM sprints WHERE id = $1`, sprintID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &domain.ValidationError{Field: "sprint_id", Message: "sprint not found"}
		}
		return fmt.Errorf("find sprint %d: %w", sprintID, err)
	}
	if sprintProjectID != projectID {
		return &domain.ValidationError{Field: "sprint_id", Message: "sprint belongs to a different project"}
	}
	return nil
}
