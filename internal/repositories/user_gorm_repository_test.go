package repositories_test

import (
	"fmt"
	"testing"

	"authapi/internal/models"
	"authapi/internal/repositories"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var dbCounter int

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dbCounter++
	dsn := fmt.Sprintf("file:repotest%d?mode=memory&cache=shared", dbCounter)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestGORMUserRepository_CreateAndFetch(t *testing.T) {
	repo := repositories.NewGORMUserRepository(setupDB(t))

	user := &models.User{Username: "alice", Email: "a@x.com", Password: "hashed"}
	assert.NoError(t, repo.Create(user))
	assert.NotEmpty(t, user.ID, "repository assigns the ID at creation")

	byUsername, err := repo.GetByUsername("alice")
	assert.NoError(t, err)
	assert.Equal(t, user.ID, byUsername.ID)

	byEmail, err := repo.GetByEmail("a@x.com")
	assert.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byID, err := repo.GetByID(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)
}

func TestGORMUserRepository_NotFound(t *testing.T) {
	repo := repositories.NewGORMUserRepository(setupDB(t))

	_, err := repo.GetByUsername("ghost")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	_, err = repo.GetByEmail("ghost@x.com")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	_, err = repo.GetByID("no-such-id")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestGORMUserRepository_UniqueConstraintIsFinalArbiter(t *testing.T) {
	repo := repositories.NewGORMUserRepository(setupDB(t))

	assert.NoError(t, repo.Create(&models.User{Username: "alice", Email: "a@x.com", Password: "hashed"}))

	// Same username, different email.
	err := repo.Create(&models.User{Username: "alice", Email: "b@x.com", Password: "hashed"})
	assert.ErrorIs(t, err, repositories.ErrDuplicate)

	// Same email, different username.
	err = repo.Create(&models.User{Username: "bob", Email: "a@x.com", Password: "hashed"})
	assert.ErrorIs(t, err, repositories.ErrDuplicate)
}

func TestMockUserRepository_MatchesStoreSemantics(t *testing.T) {
	repo := repositories.NewMockUserRepository()

	user := &models.User{Username: "alice", Email: "a@x.com", Password: "hashed"}
	assert.NoError(t, repo.Create(user))
	assert.NotEmpty(t, user.ID)

	err := repo.Create(&models.User{Username: "alice", Email: "c@x.com", Password: "hashed"})
	assert.ErrorIs(t, err, repositories.ErrDuplicate)

	_, err = repo.GetByUsername("ghost")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	got, err := repo.GetByID(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
}
