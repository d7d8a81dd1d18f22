package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/vovakirdan/chirper-server/internal/store"
)

// SQLiteStore implements store.Store for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLite store and applies the schema.
// dbPath is the path to the SQLite database file.
func New(dbPath string) (*SQLiteStore, error) {
	return NewWithSetup(dbPath, func(db *sql.DB) error {
		_, err := db.Exec(Schema)
		return err
	})
}

// NewWithSetup creates a new SQLite store and runs a setup function.
// Useful for tests to apply a custom schema or seed data.
func NewWithSetup(dbPath string, setup func(*sql.DB) error) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if setup != nil {
		if err := setup(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("setup: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Schema is the database schema applied on startup.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	username      TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS chirps (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id    INTEGER NOT NULL,
	body       TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	FOREIGN KEY (user_id) REFERENCES users(id)
);

CREATE INDEX IF NOT EXISTS idx_chirps_created ON chirps(created_at DESC, id DESC);
`

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ==== UserStore implementation ====

// CreateUser creates a new user with hashed password.
func (s *SQLiteStore) CreateUser(ctx context.Context, username, passwordHash string) (*store.User, error) {
	query := `
		INSERT INTO users (username, password_hash)
		VALUES (?, ?)
	`
	result, err := s.db.ExecContext(ctx, query, username, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}

	return s.GetUserByID(ctx, id)
}

// GetUserByID retrieves a user by ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id int64) (*store.User, error) {
	query := `
		SELECT id, username, password_hash, created_at
		FROM users
		WHERE id = ?
	`
	var user store.User
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username.
func (s *SQLiteStore) GetUserByUsername(ctx context.Context, username string) (*store.User, error) {
	query := `
		SELECT id, username, password_hash, created_at
		FROM users
		WHERE username = ?
	`
	var user store.User
	err := s.db.QueryRowContext(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &user, nil
}

// ==== ChirpStore implementation ====

// CreateChirp persists a new chirp for the given author.
func (s *SQLiteStore) CreateChirp(ctx context.Context, userID int64, body string) (*store.Chirp, error) {
	query := `
		INSERT INTO chirps (user_id, body, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`
	// Same timestamp for both columns so a fresh chirp is not "edited".
	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx, query, userID, body, now, now)
	if err != nil {
		return nil, fmt.Errorf("insert chirp: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}

	return s.GetChirp(ctx, id)
}

// GetChirp retrieves a single chirp by ID with its author attached.
func (s *SQLiteStore) GetChirp(ctx context.Context, id int64) (*store.Chirp, error) {
	query := `
		SELECT c.id, c.user_id, u.username, c.body, c.created_at, c.updated_at
		FROM chirps c
		JOIN users u ON u.id = c.user_id
		WHERE c.id = ?
	`
	var chirp store.Chirp
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&chirp.ID,
		&chirp.UserID,
		&chirp.Author,
		&chirp.Body,
		&chirp.CreatedAt,
		&chirp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("query chirp: %w", err)
	}
	return &chirp, nil
}

// ListChirps retrieves all chirps with authors, newest first.
func (s *SQLiteStore) ListChirps(ctx context.Context) ([]*store.Chirp, error) {
	query := `
		SELECT c.id, c.user_id, u.username, c.body, c.created_at, c.updated_at
		FROM chirps c
		JOIN users u ON u.id = c.user_id
		ORDER BY c.created_at DESC, c.id DESC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query chirps: %w", err)
	}
	defer rows.Close()

	chirps := make([]*store.Chirp, 0)
	for rows.Next() {
		var chirp store.Chirp
		if err := rows.Scan(
			&chirp.ID,
			&chirp.UserID,
			&chirp.Author,
			&chirp.Body,
			&chirp.CreatedAt,
			&chirp.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan chirp: %w", err)
		}
		chirps = append(chirps, &chirp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chirps: %w", err)
	}
	return chirps, nil
}

// UpdateChirp replaces the chirp body and bumps updated_at.
func (s *SQLiteStore) UpdateChirp(ctx context.Context, id int64, body string) (*store.Chirp, error) {
	query := `
		UPDATE chirps
		SET body = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := s.db.ExecContext(ctx, query, body, time.Now().UTC(), id)
	if err != nil {
		return nil, fmt.Errorf("update chirp: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}

	return s.GetChirp(ctx, id)
}

// DeleteChirp removes a chirp by ID.
func (s *SQLiteStore) DeleteChirp(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM chirps WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete chirp: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}
