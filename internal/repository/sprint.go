package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/trajectory-pm/trajectory/internal/domain"
)

const sprintColumns = `id, project_id, name, start_date, end_date, created_at, updated_at`

// SprintRepository handles sprint data access.
type SprintRepository struct {
	db *sqlx.DB
}

// NewSprintRepository creates a new SprintRepository.
func NewSprintRepository(db *sqlx.DB) *SprintRepository {
	return &SprintRepository{db: db}
}

// Create persists a new sprint. Date ordering is validated by the domain
// before the sprint reaches this method.
func (r *SprintRepository) Create(ctx context.Context, sprint domain.Sprint) (*domain.Sprint, error) {
	var result domain.Sprint
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO sprints (project_id, name, start_date, end_date)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+sprintColumns,
		sprint.ProjectID, sprint.Name, sprint.StartDate, sprint.EndDate,
	).StructScan(&result)
	if err != nil {
		return nil, fmt.Errorf("create sprint: %w", err)
	}
	return &result, nil
}

// FindByID retrieves a sprint by its ID.
func (r *SprintRepository) FindByID(ctx context.Context, id int64) (*domain.Sprint, error) {
	var sprint domain.Sprint
	err := r.db.GetContext(ctx, &sprint,
		`SELECT `+sprintColumns+` FROM sprints WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find sprint by id %d: %w", id, err)
	}
	return &sprint, nil
}

// ListByProject returns the project's sprints ordered by id.
func (r *SprintRepository) ListByProject(ctx context.Context, projectID int64) ([]domain.Sprint, error) {
	sprints := []domain.Sprint{}
	err := r.db.SelectContext(ctx, &sprints,
		`SELECT `+sprintColumns+` FROM sprints WHERE project_id = $1 ORDER BY id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list sprints for project %d: %w", projectID, err)
	}
	return sprints, nil
}

// Update overwrites name and both dates in one statement, so a rejected
// update never commits a partial date pair.
func (r *SprintRepository) Update(ctx context.Context, sprint domain.Sprint) (*domain.Sprint, error) {
	var result domain.Sprint
	err := r.db.QueryRowxContext(ctx,
		`UPDATE sprints
		 SET name = $1, start_date = $2, end_date = $3, updated_at = NOW()
		 WHERE id = $4
		 RETURNING `+sprintColumns,
		sprint.Name, sprint.StartDate, sprint.EndDate, sprint.ID,
	).StructScan(&result)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update sprint %d: %w", sprint.ID, err)
	}
	return &result, nil
}

// Delete removes a sprint; its features (and their tasks) cascade.
func (r *SprintRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sprints WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sprint %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete sprint %d: %w", id, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
