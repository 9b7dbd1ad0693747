package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"mingle/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestUserRepository_GetByUsername(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	created := createTestUser(t, db, "alice")

	user, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, created.ID, user.ID)

	// Missing users are an expected outcome, not an error.
	user, err = repo.GetByUsername(ctx, "nobody")
	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserRepository_CreateStoresPasswordVerbatim(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	err := repo.Create(ctx, &models.User{
		Username:  "bob",
		FirstName: "Bob",
		LastName:  "Jones",
		Password:  "plaintext-secret",
	})
	require.NoError(t, err)

	var stored models.User
	require.NoError(t, db.Where("username = ?", "bob").First(&stored).Error)
	assert.Equal(t, "plaintext-secret", stored.Password)
}

func TestUserRepository_CreateDuplicateUsername(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	createTestUser(t, db, "carol")

	err := repo.Create(ctx, &models.User{Username: "carol", Password: "pw"})
	require.Error(t, err)

	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestUserRepository_UpdateProfileWritesAllFields(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "dave")
	require.NoError(t, db.Model(user).Update("education", "old school").Error)

	err := repo.UpdateProfile(ctx, user.ID, models.ProfileFields{Music: "Jazz"})
	require.NoError(t, err)

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.Equal(t, "Jazz", stored.Music)
	assert.Empty(t, stored.Education, "blanks overwrite prior values")
}

func TestUserRepository_GetByUsername_DatabaseError(t *testing.T) {
	t.Parallel()
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE username = $1`)).
		WithArgs("alice", 1).
		WillReturnError(errors.New("connection timeout"))

	user, err := repo.GetByUsername(ctx, "alice")
	assert.Error(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}
