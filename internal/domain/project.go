package domain

import "time"

// Project is the top-level container. Ownership and membership are distinct:
// the owner is not required to appear in Members, and access checks must
// consult both.
type Project struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	OwnerID     int64     `json:"owner_id" db:"owner_id"`
	DueDate     time.Time `json:"due_date" db:"due_date"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`

	// Members holds the ids from the project_users join table.
	Members []int64 `json:"members" db:"-"`
}

// Role reports the given user's relationship to this project.
func (p Project) Role(userID int64) ProjectRole {
	if p.OwnerID == userID {
		return RoleOwner
	}
	for _, id := range p.Members {
		if id == userID {
			return RoleMember
		}
	}
	return RoleNone
}

// Accessible reports whether the user is the owner or a member.
func (p Project) Accessible(userID int64) bool {
	return p.Role(userID) != RoleNone
}

// ProjectUser is one row of the project/user membership join table,
// modelled as its own entity so uniqueness and cascade rules stay explicit.
type ProjectUser struct {
	ID        int64 `json:"id" db:"id"`
	ProjectID int64 `json:"project_id" db:"project_id"`
	UserID    int64 `json:"user_id" db:"user_id"`
}
