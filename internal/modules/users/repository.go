package users

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ColeJam13/InvestED/internal/domain"
)

const userColumns = `id, email, display_name, created_at`

// Repository handles user database operations
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new user repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "users").Logger(),
	}
}

// Create inserts a new user
func (r *Repository) Create(email, displayName string) (*User, error) {
	user := &User{
		Email:       strings.ToLower(strings.TrimSpace(email)),
		DisplayName: strings.TrimSpace(displayName),
	}
	if err := user.Validate(); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	now := time.Now().UTC()
	result, err := r.db.Exec(
		"INSERT INTO users (email, display_name, created_at) VALUES (?, ?, ?)",
		user.Email,
		user.DisplayName,
		now.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get created user id: %w", err)
	}

	user.ID = id
	user.CreatedAt = now

	r.log.Info().Int64("user_id", id).Str("email", user.Email).Msg("User created")

	return user, nil
}

// GetByID returns a user by ID
func (r *Repository) GetByID(id int64) (*User, error) {
	row := r.db.QueryRow("SELECT "+userColumns+" FROM users WHERE id = ?", id)

	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

// GetByEmail returns a user by email, or nil when absent
func (r *Repository) GetByEmail(email string) (*User, error) {
	row := r.db.QueryRow("SELECT "+userColumns+" FROM users WHERE email = ?",
		strings.ToLower(strings.TrimSpace(email)))

	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

func scanUser(row *sql.Row) (*User, error) {
	var user User
	var createdAt string

	if err := row.Scan(&user.ID, &user.Email, &user.DisplayName, &createdAt); err != nil {
		return nil, err
	}

	if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
		user.CreatedAt = ts
	}

	return &user, nil
}
