// Package history keeps the append-only record of call attempts
package history

import (
	"github.com/dialforge/backend/internal/models"
	"gorm.io/gorm"
)

// DefaultRecentLimit caps how many records a history read returns
const DefaultRecentLimit = 10

// Log appends and reads per-account call records
type Log struct {
	db *gorm.DB
}

func NewLog(db *gorm.DB) *Log {
	return &Log{db: db}
}

// Append writes one immutable record for a call attempt. It is called after
// the delivery attempt resolved, whatever the outcome was.
func (l *Log) Append(accountID uint, callerName, restaurant, phone, script string, status models.CallStatus) error {
	record := models.CallRecord{
		UserID:     accountID,
		CallerName: callerName,
		Restaurant: restaurant,
		Phone:      phone,
		Script:     script,
		Status:     status,
	}
	return l.db.Create(&record).Error
}

// Recent returns the newest records for an account, newest first.
// A limit of 0 or below falls back to DefaultRecentLimit.
func (l *Log) Recent(accountID uint, limit int) ([]models.CallRecord, error) {
	if limit <= 0 || limit > DefaultRecentLimit {
		limit = DefaultRecentLimit
	}
	records := make([]models.CallRecord, 0, limit)
	err := l.db.
		Where("user_id = ?", accountID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}
