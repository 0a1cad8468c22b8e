package domain

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// ProjectRole is a user's relationship to a project.
type ProjectRole string

const (
	RoleOwner  ProjectRole = "owner"
	RoleMember ProjectRole = "member"
	RoleNone   ProjectRole = ""
)

// User represents an account. The password hash never crosses the API
// boundary; serialization goes through Public.
type User struct {
	ID             int64     `json:"id" db:"id"`
	Username       string    `json:"username" db:"username"`
	Email          string    `json:"email" db:"email"`
	FirstName      string    `json:"first_name" db:"first_name"`
	LastName       string    `json:"last_name" db:"last_name"`
	HashedPassword string    `json:"-" db:"hashed_password"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// SetPassword stores a bcrypt hash of the plaintext credential.
func (u *User) SetPassword(plain string, cost int) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return err
	}
	u.HashedPassword = string(hash)
	return nil
}

// CheckPassword compares a candidate against the stored hash.
func (u User) CheckPassword(candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(candidate)) == nil
}

// PublicUser is the wire representation of a User.
type PublicUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		FullName:  u.FullName(),
	}
}
