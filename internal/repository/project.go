package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/trajectory-pm/trajectory/internal/domain"
)

const projectColumns = `id, name, description, owner_id, due_date, created_at, updated_at`

// ProjectRepository handles project and membership data access.
type ProjectRepository struct {
	db *sqlx.DB
}

// NewProjectRepository creates a new ProjectRepository.
func NewProjectRepository(db *sqlx.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create persists a new project owned by project.OwnerID.
func (r *ProjectRepository) Create(ctx context.Context, project domain.Project) (*domain.Project, error) {
	var result domain.Project
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO projects (name, description, owner_id, due_date)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+projectColumns,
		project.Name, project.Description, project.OwnerID, project.DueDate,
	).StructScan(&result)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	result.Members = []int64{}
	return &result, nil
}

// FindByID retrieves a project with its member id list loaded.
func (r *ProjectRepository) FindByID(ctx context.Context, id int64) (*domain.Project, error) {
	var project domain.Project
	err := r.db.GetContext(ctx, &project,
		`SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find project by id %d: %w", id, err)
	}

	members, err := r.memberIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	project.Members = members
	return &project, nil
}

// ListForUser returns projects the user owns or belongs to.
func (r *ProjectRepository) ListForUser(ctx context.Context, userID int64) ([]domain.Project, error) {
	projects := []domain.Project{}
	err := r.db.SelectContext(ctx, &projects,
		`SELECT DISTINCT p.id, p.name, p.description, p.owner_id, p.due_date, p.created_at, p.updated_at
		 FROM projects p
		 LEFT JOIN project_users pu ON pu.project_id = p.id
		 WHERE p.owner_id = $1 OR pu.user_id = $1
		 ORDER BY p.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list projects for user %d: %w", userID, err)
	}

	for i := range projects {
		members, err := r.memberIDs(ctx, projects[i].ID)
		if err != nil {
			return nil, err
		}
		projects[i].Members = members
	}
	return projects, nil
}

// Update overwrites name, description and due date and refreshes updated_at.
func (r *ProjectRepository) Update(ctx context.Context, project domain.Project) (*domain.Project, error) {
	var result domain.Project
	err := r.db.QueryRowxContext(ctx,
		`UPDATE projects
		 SET name = $1, description = $2, due_date = $3, updated_at = NOW()
		 WHERE id = $4
		 RETURNING `+projectColumns,
		project.Name, project.Description, project.DueDate, project.ID,
	).StructScan(&result)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update project %d: %w", project.ID, err)
	}

	members, err := r.memberIDs(ctx, result.ID)
	if err != nil {
		return nil, err
	}
	result.Members = members
	return &result, nil
}

// Delete removes a project if it exists and is owned by ownerID. Sprints,
// features and tasks go with it via the FK cascade in one statement.
func (r *ProjectRepository) Delete(ctx context.Context, id, ownerID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM projects WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete project %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete project %d: %w", id, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AddMember inserts a membership row. Adding an existing member is a no-op.
func (r *ProjectRepository) AddMember(ctx context.Context, projectID, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO project_users (project_id, user_id)
		 VALUES ($1, $2)
		 ON CONFLICT (project_id, user_id) DO NOTHING`, projectID, userID)
	if err != nil {
		return fmt.Errorf("add member %d to project %d: %w", userID, projectID, err)
	}
	return nil
}

// RemoveMember deletes a membership row, reporting ErrNotFound when the
// user was not a member to begin with.
func (r *ProjectRepository) RemoveMember(ctx context.Context, projectID, userID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM project_users WHERE project_id = $1 AND user_id = $2`, projectID, userID)
	if err != nil {
		return fmt.Errorf("remove member %d from project %d: %w", userID, projectID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove member %d from project %d: %w", userID, projectID, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// RoleOf reports whether the user is owner, member or neither. A missing
// project maps to ErrNotFound so callers can distinguish 404 from 403.
func (r *ProjectRepository) RoleOf(ctx context.Context, projectID, userID int64) (domain.ProjectRole, error) {
	var ownerID int64
	err := r.db.GetContext(ctx, &ownerID,
		`SELECT owner_id FROM projects WHERE id = $1`, projectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.RoleNone, domain.ErrNotFound
		}
		return domain.RoleNone, fmt.Errorf("find project %d: %w", projectID, err)
	}
	if ownerID == userID {
		return domain.RoleOwner, nil
	}

	var exists bool
	err = r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM project_users WHERE project_id = $1 AND user_id = $2)`,
		projectID, userID)
	if err != nil {
		return domain.RoleNone, fmt.Errorf("check membership of %d in project %d: %w", userID, projectID, err)
	}
	if exists {
		return domain.RoleMember, nil
	}
	return domain.RoleNone, nil
}

func (r *ProjectRepository) memberIDs(ctx context.Context, projectID int64) ([]int64, error) {
	ids := []int64{}
	err := r.db.SelectContext(ctx, &ids,
		`SELECT user_id FROM project_users WHERE project_id = $1 ORDER BY user_id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list members of project %d: %w", projectID, err)
	}
	return ids, nil
}
