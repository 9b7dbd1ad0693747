package seed

import (
	"testing"

	"mingle/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Friend{},
	))
	return db
}

func TestFactoryCreateUser(t *testing.T) {
	db := setupSeedTestDB(t)
	f := NewFactory(db, Options{})

	user, err := f.CreateUser()
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEmpty(t, user.Username)
	assert.Equal(t, "password123", user.Password)
}

func TestFactoryCreateUserWithProfile(t *testing.T) {
	db := setupSeedTestDB(t)
	f := NewFactory(db, Options{})

	user, err := f.CreateUserWithProfile()
	require.NoError(t, err)
	assert.NotEmpty(t, user.Education)
	assert.NotEmpty(t, user.Nationality)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, user.Birthday)
}

func TestFactoryDryRunWritesNothing(t *testing.T) {
	db := setupSeedTestDB(t)
	f := NewFactory(db, Options{DryRun: true})

	user, err := f.CreateUser()
	require.NoError(t, err)
	assert.NotZero(t, user.ID, "dry run assigns synthetic IDs")

	_, err = f.CreatePost(user)
	require.NoError(t, err)

	var users, posts int64
	db.Model(&models.User{}).Count(&users)
	db.Model(&models.Post{}).Count(&posts)
	assert.Zero(t, users)
	assert.Zero(t, posts)
}

func TestSeederEngagement(t *testing.T) {
	db := setupSeedTestDB(t)
	s := NewSeeder(db, Options{MaxDays: 7})

	users, err := s.SeedSocialMesh(8)
	require.NoError(t, err)
	require.NotEmpty(t, users)

	posts, err := s.SeedEngagement(users, 10)
	require.NoError(t, err)
	assert.Len(t, posts, 10)

	var postCount int64
	db.Model(&models.Post{}).Count(&postCount)
	assert.Equal(t, int64(10), postCount)

	// Friend edges never point at their own user.
	var selfEdges int64
	db.Model(&models.Friend{}).Where("user_id = friend_id").Count(&selfEdges)
	assert.Zero(t, selfEdges)
}
