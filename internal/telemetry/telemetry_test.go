package telemetry

import (
	"testing"

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

func TestRecordUpsert(t *testing.T) {
	db := newTestDB(t)
	tracker := NewTracker(db)

	const hits = 5
	for i := 0; i < hits; i++ {
		require.NoError(t, tracker.Record("POST", "/api/ai/call"))
	}

	var stats []models.EndpointStat
	require.NoError(t, db.Find(&stats).Error)
	require.Len(t, stats, 1, "repeated records for one pair must stay one row")
	assert.Equal(t, int64(hits), stats[0].RequestCount)
	assert.Equal(t, "POST", stats[0].Method)
	assert.Equal(t, "/api/ai/call", stats[0].Path)
	assert.False(t, stats[0].LastAccessedAt.IsZero())
}

func TestRecordDistinguishesMethodAndPath(t *testing.T) {
	db := newTestDB(t)
	tracker := NewTracker(db)

	require.NoError(t, tracker.Record("GET", "/api/user/stats"))
	require.NoError(t, tracker.Record("POST", "/api/user/stats"))
	require.NoError(t, tracker.Record("GET", "/api/user/call-history"))

	var count int64
	require.NoError(t, db.Model(&models.EndpointStat{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}

func TestListOrdersByCount(t *testing.T) {
	db := newTestDB(t)
	tracker := NewTracker(db)

	for i := 0; i < 3; i++ {
		require.NoError(t, tracker.Record("POST", "/api/ai/call"))
	}
	require.NoError(t, tracker.Record("GET", "/api/user/stats"))
	for i := 0; i < 2; i++ {
		require.NoError(t, tracker.Record("POST", "/auth/login"))
	}

	stats, err := tracker.List()
	require.NoError(t, err)
	require.Len(t, stats, 3)
	assert.Equal(t, "/api/ai/call", stats[0].Path)
	assert.Equal(t, int64(3), stats[0].RequestCount)
	assert.Equal(t, "/auth/login", stats[1].Path)
	assert.Equal(t, "/api/user/stats", stats[2].Path)
}
