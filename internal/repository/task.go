package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/trajectory-pm/trajectory/internal/domain"
)

const taskColumns = `id, feature_id, name, description, status, priority, assigned_to, created_by, start_date, due_date, created_at, updated_at`

// TaskRepository handles task data access.
type TaskRepository struct {
	db *sqlx.DB
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create persists a new task.
func (r *TaskRepository) Create(ctx context.Context, task domain.Task) (*domain.Task, error) {
	var result domain.Task
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO tasks (feature_id, name, description, status, priority, assigned_to, created_by, start_date, due_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+taskColumns,
		task.FeatureID, task.Name, task.Description, task.Status, task.Priority,
		task.AssignedTo, task.CreatedBy, task.StartDate, task.DueDate,
	).StructScan(&result)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return &result, nil
}

// FindByID retrieves a task by its ID.
func (r *TaskRepository) FindByID(ctx context.Context, id int64) (*domain.Task, error) {
	var task domain.Task
	err := r.db.GetContext(ctx, &task,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find task by id %d: %w", id, err)
	}
	return &task, nil
}

// ListByFeature returns the feature's tasks ordered by id.
func (r *TaskRepository) ListByFeature(ctx context.Context, featureID int64) ([]domain.Task, error) {
	tasks := []domain.Task{}
	err := r.db.SelectContext(ctx, &tasks,
		`SELECT `+taskColumns+` FROM tasks WHERE feature_id = $1 ORDER BY id`, featureID)
	if err != nil {
		return nil, fmt.Errorf("list tasks for feature %d: %w", featureID, err)
	}
	return tasks, nil
}

// ListAssigned returns tasks assigned to the user.
func (r *TaskRepository) ListAssigned(ctx context.Context, userID int64) ([]domain.Task, error) {
	tasks := []domain.Task{}
	err := r.db.SelectContext(ctx, &tasks,
		`SELECT `+taskColumns+` FROM tasks WHERE assigned_to = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list tasks assigned to user %d: %w", userID, err)
	}
	return tasks, nil
}

// ListAccessible returns tasks belonging to any project the user owns or
// is a member of.
func (r *TaskRepository) ListAccessible(ctx context.Context, userID int64) ([]domain.Task, error) {
	tasks := []domain.Task{}
	err := r.db.SelectContext(ctx, &tasks,
		`SELECT DISTINCT t.id, t.feature_id, t.name, t.description, t.status, t.priority,
		        t.assigned_to, t.created_by, t.start_date, t.due_date, t.created_at, t.updated_at
		 FROM tasks t
		 JOIN features f ON f.id = t.feature_id
		 JOIN projects p ON p.id = f.project_id
		 LEFT JOIN project_users pu ON pu.project_id = p.id
		 WHERE p.owner_id = $1 OR pu.user_id = $1
		 ORDER BY t.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list accessible tasks for user %d: %w", userID, err)
	}
	return tasks, nil
}

// Update overwrites every mutable field in one statement; both dates are
// written together so there is never a transient half-updated pair.
func (r *TaskRepository) Update(ctx context.Context, task domain.Task) (*domain.Task, error) {
	var result domain.Task
	err := r.db.QueryRowxContext(ctx,
		`UPDATE tasks
		 SET name = $1, description = $2, status = $3, priority = $4,
		     assigned_to = $5, start_date = $6, due_date = $7, updated_at = NOW()
		 WHERE id = $8
		 RETURNING `+taskColumns,
		task.Name, task.Description, task.Status, task.Priority,
		task.AssignedTo, task.StartDate, task.DueDate, task.ID,
	).StructScan(&result)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update task %d: %w", task.ID, err)
	}
	return &result, nil
}

// Delete removes a task.
func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
