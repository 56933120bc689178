package quota

import (
	"sync"
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

func createAccount(t *testing.T, db *gorm.DB, used int64) models.Account {
	t.Helper()
	account := models.Account{
		Email:        "user@example.com",
		Password:     "hash",
		Role:         models.RoleUser,
		APICallsUsed: used,
	}
	require.NoError(t, db.Create(&account).Error)
	return account
}

func TestUsageDerivation(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db, 20)
	account := createAccount(t, db, 5)

	usage, err := ledger.Usage(account.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), usage.Used)
	assert.Equal(t, int64(20), usage.Limit)
	assert.Equal(t, int64(15), usage.Remaining)
	assert.False(t, usage.Exceeded)
}

func TestUsageAtLimitIsNotExceeded(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db, 20)
	account := createAccount(t, db, 20)

	usage, err := ledger.Usage(account.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), usage.Remaining)
	assert.False(t, usage.Exceeded, "used == limit must not count as exceeded")
}

func TestUsageOverLimit(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db, 20)
	account := createAccount(t, db, 21)

	usage, err := ledger.Usage(account.ID)
	require.NoError(t, err)
	assert.True(t, usage.Exceeded)
	assert.Equal(t, int64(0), usage.Remaining, "remaining must never go negative")
}

func TestUsageAccountNotFound(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db, 20)

	_, err := ledger.Usage(9999)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestIncrementReturnsNewCount(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db, 20)
	account := createAccount(t, db, 0)

	used, err := ledger.Increment(account.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), used)

	used, err = ledger.Increment(account.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), used)
}

func TestIncrementAccountNotFound(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db, 20)

	_, err := ledger.Increment(9999)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestIncrementConcurrent(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db, 20)
	account := createAccount(t, db, 0)

	const parallel = 100
	var wg sync.WaitGroup
	wg.Add(parallel)
	for i := 0; i < parallel; i++ {
		go func() {
			defer wg.Done()
			_, err := ledger.Increment(account.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	usage, err := ledger.Usage(account.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(parallel), usage.Used, "no increment may be lost under concurrency")
}

func TestSnapshot(t *testing.T) {
	ledger := NewLedger(nil, 20)

	snap := ledger.Snapshot(19)
	assert.Equal(t, int64(1), snap.Remaining)
	assert.False(t, snap.Exceeded)

	snap = ledger.Snapshot(25)
	assert.Equal(t, int64(0), snap.Remaining)
	assert.True(t, snap.Exceeded)
}

func TestDefaultLimitFallback(t *testing.T) {
	ledger := NewLedger(nil, 0)
	assert.Equal(t, int64(DefaultLimit), ledger.Limit())
}
