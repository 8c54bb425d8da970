package users

import (
	"database/sql"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/ColeJam13/InvestED/internal/domain"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// A plain in-memory SQLite database exists per connection, so the pool
	// must stay at one connection for every query to see the same data
	db.SetMaxOpenConns(1)

	require.NoError(t, InitSchema(db))

	t.Cleanup(func() { db.Close() })
	return db
}

func TestCreate_NormalizesEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db, zerolog.Nop())

	user, err := repo.Create("  Alice@Example.COM ", " Alice ")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "Alice", user.DisplayName)
	assert.NotZero(t, user.ID)
}

func TestCreate_RejectsInvalidInput(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db, zerolog.Nop())

	_, err := repo.Create("", "Alice")
	assert.Error(t, err)

	_, err = repo.Create("not-an-email", "Alice")
	assert.Error(t, err)

	_, err = repo.Create("alice@example.com", "   ")
	assert.Error(t, err)
}

func TestCreate_DuplicateEmailFails(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db, zerolog.Nop())

	_, err := repo.Create("alice@example.com", "Alice")
	require.NoError(t, err)

	_, err = repo.Create("ALICE@example.com", "Alice Again")
	assert.Error(t, err)
}

func TestGetByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db, zerolog.Nop())

	_, err := repo.GetByID(42)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestGetByEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db, zerolog.Nop())

	created, err := repo.Create("alice@example.com", "Alice")
	require.NoError(t, err)

	found, err := repo.GetByEmail("Alice@Example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)

	missing, err := repo.GetByEmail("nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
