package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// User represents a registered user.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Chirp represents a persisted chirp with its author attached.
type Chirp struct {
	ID        int64
	UserID    int64
	Author    string // display name of the authoring user
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Edited reports whether the chirp has been modified since creation.
func (c *Chirp) Edited() bool {
	return !c.UpdatedAt.Equal(c.CreatedAt)
}

// UserStore handles user persistence.
type UserStore interface {
	// CreateUser creates a new user with hashed password.
	CreateUser(ctx context.Context, username, passwordHash string) (*User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id int64) (*User, error)

	// GetUserByUsername retrieves a user by username.
	GetUserByUsername(ctx context.Context, username string) (*User, error)
}

// ChirpStore handles chirp persistence.
type ChirpStore interface {
	// CreateChirp persists a new chirp for the given author.
	CreateChirp(ctx context.Context, userID int64, body string) (*Chirp, error)

	// GetChirp retrieves a single chirp by ID.
	// Returns ErrNotFound when no such chirp exists.
	GetChirp(ctx context.Context, id int64) (*Chirp, error)

	// ListChirps retrieves all chirps with authors attached,
	// ordered by creation time descending.
	ListChirps(ctx context.Context) ([]*Chirp, error)

	// UpdateChirp replaces the body of a chirp and bumps its updated
	// timestamp. Returns ErrNotFound when no such chirp exists.
	UpdateChirp(ctx context.Context, id int64, body string) (*Chirp, error)

	// DeleteChirp removes a chirp by ID.
	// Returns ErrNotFound when no such chirp exists.
	DeleteChirp(ctx context.Context, id int64) error
}

// Store aggregates all storage interfaces.
type Store interface {
	UserStore
	ChirpStore

	// Close closes the underlying database connection.
	Close() error
}
