package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a user account in the system.
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Active    bool      `json:"active"`
}

// NewUser creates a user with a fresh random ID and current timestamps.
// New users always start active.
func NewUser(username, email, firstName, lastName string) *User {
	now := time.Now().UTC()
	return &User{
		ID:        uuid.New(),
		Username:  username,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		CreatedAt: now,
		UpdatedAt: now,
		Active:    true,
	}
}

// Update replaces the user's profile fields and bumps the updated timestamp.
// The ID and creation timestamp never change.
func (u *User) Update(username, email, firstName, lastName string) {
	u.Username = username
	u.Email = email
	u.FirstName = firstName
	u.LastName = lastName
	u.UpdatedAt = time.Now().UTC()
}

// Deactivate marks the user inactive.
func (u *User) Deactivate() {
	u.Active = false
	u.UpdatedAt = time.Now().UTC()
}

// Activate marks the user active again.
func (u *User) Activate() {
	u.Active = true
	u.UpdatedAt = time.Now().UTC()
}

// FullName returns the first and last name joined by a single space.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
