package user

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account holder. PasswordHash never leaves the process.
type User struct {
	ID           uuid.UUID `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	PhoneNumber  string    `json:"phoneNumber"`
	Login        string    `json:"login"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CreateParams carries the columns written on insert. The id is assigned by the store.
type CreateParams struct {
	FirstName    string
	LastName     string
	PhoneNumber  string
	Login        string
	PasswordHash string
}

// UpdateParams is a partial update; nil fields are left unchanged.
// Login and password are deliberately absent.
type UpdateParams struct {
	FirstName   *string
	LastName    *string
	PhoneNumber *string
}

// Empty reports whether no field is set.
func (p UpdateParams) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.PhoneNumber == nil
}
