package stats

import (
	"testing"
	"time"

	"github.com/dialforge/backend/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, models.AutoMigrate(db))
	return db
}

func seedAccount(t *testing.T, db *gorm.DB, email string, used int64, loggedIn bool) models.Account {
	t.Helper()
	account := models.Account{
		Email:        email,
		Password:     "hash",
		Role:         models.RoleUser,
		APICallsUsed: used,
	}
	if loggedIn {
		now := time.Now().UTC()
		account.LastLogin = &now
	}
	require.NoError(t, db.Create(&account).Error)
	return account
}

func TestSystemStats(t *testing.T) {
	db := newTestDB(t)
	service := NewService(db, 20)

	seedAccount(t, db, "a@example.com", 5, true)
	seedAccount(t, db, "b@example.com", 21, true)
	seedAccount(t, db, "c@example.com", 20, false)

	rollup, err := service.System()
	require.NoError(t, err)
	assert.Equal(t, int64(3), rollup.TotalUsers)
	assert.Equal(t, int64(46), rollup.TotalAPICalls)
	assert.Equal(t, int64(2), rollup.ActiveUsers)
	assert.Equal(t, int64(1), rollup.UsersOverLimit, "exactly at the limit does not count as over")
}

func TestSystemStatsEmpty(t *testing.T) {
	db := newTestDB(t)
	service := NewService(db, 20)

	rollup, err := service.System()
	require.NoError(t, err)
	assert.Equal(t, SystemStats{}, rollup)
}

func TestListUsersOrdering(t *testing.T) {
	db := newTestDB(t)
	service := NewService(db, 20)

	first := seedAccount(t, db, "a@example.com", 5, false)
	heavy := seedAccount(t, db, "b@example.com", 20, false)
	second := seedAccount(t, db, "c@example.com", 5, false)

	users, err := service.ListUsers()
	require.NoError(t, err)
	require.Len(t, users, 3)

	// Usage descending, ties broken by ascending id
	assert.Equal(t, heavy.ID, users[0].ID)
	assert.Equal(t, first.ID, users[1].ID)
	assert.Equal(t, second.ID, users[2].ID)
}

func TestListUsersHidesPasswordInJSON(t *testing.T) {
	db := newTestDB(t)
	service := NewService(db, 20)
	seedAccount(t, db, "a@example.com", 0, false)

	users, err := service.ListUsers()
	require.NoError(t, err)
	require.Len(t, users, 1)
	// The hash is loaded but tagged out of the JSON encoding
	assert.NotEmpty(t, users[0].Password)
}
