package history

import (
	"fmt"
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

func createAccount(t *testing.T, db *gorm.DB) models.Account {
	t.Helper()
	account := models.Account{Email: "user@example.com", Password: "hash", Role: models.RoleUser}
	require.NoError(t, db.Create(&account).Error)
	return account
}

func TestAppendAndRecent(t *testing.T) {
	db := newTestDB(t)
	log := NewLog(db)
	account := createAccount(t, db)

	require.NoError(t, log.Append(account.ID, "Alice", "Pizza Place", "+15551234567", "One pizza please", models.CallStatusCompleted))
	require.NoError(t, log.Append(account.ID, "Alice", "Sushi Bar", "+15557654321", "Two rolls please", models.CallStatusFailed))

	records, err := log.Recent(account.ID, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Newest first
	assert.Equal(t, "Sushi Bar", records[0].Restaurant)
	assert.Equal(t, models.CallStatusFailed, records[0].Status)
	assert.Equal(t, "Pizza Place", records[1].Restaurant)
	assert.Equal(t, models.CallStatusCompleted, records[1].Status)
}

func TestRecentCapsAtLimit(t *testing.T) {
	db := newTestDB(t)
	log := NewLog(db)
	account := createAccount(t, db)

	for i := 0; i < 12; i++ {
		record := models.CallRecord{
			UserID:     account.ID,
			CallerName: "Alice",
			Restaurant: fmt.Sprintf("Restaurant %d", i),
			Phone:      "+15551234567",
			Script:     "script",
			Status:     models.CallStatusCompleted,
			CreatedAt:  time.Now().Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, db.Create(&record).Error)
	}

	records, err := log.Recent(account.ID, 10)
	require.NoError(t, err)
	require.Len(t, records, 10)
	assert.Equal(t, "Restaurant 11", records[0].Restaurant)
	assert.Equal(t, "Restaurant 2", records[9].Restaurant)

	// Oversized limits fall back to the cap too
	records, err = log.Recent(account.ID, 50)
	require.NoError(t, err)
	assert.Len(t, records, 10)
}

func TestRecentEmptyHistory(t *testing.T) {
	db := newTestDB(t)
	log := NewLog(db)
	account := createAccount(t, db)

	records, err := log.Recent(account.ID, 10)
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestRecentScopedToAccount(t *testing.T) {
	db := newTestDB(t)
	log := NewLog(db)
	account := createAccount(t, db)

	other := models.Account{Email: "other@example.com", Password: "hash", Role: models.RoleUser}
	require.NoError(t, db.Create(&other).Error)

	require.NoError(t, log.Append(account.ID, "Alice", "Pizza Place", "+15551234567", "script", models.CallStatusCompleted))
	require.NoError(t, log.Append(other.ID, "Bob", "Burger Joint", "+15550000000", "script", models.CallStatusCompleted))

	records, err := log.Recent(account.ID, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, account.ID, records[0].UserID)
}
