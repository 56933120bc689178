// Package telemetry counts requests per endpoint for operational visibility.
// It is bookkeeping only and is fully decoupled from billing.
package telemetry

import (
	"time"

	"github.com/dialforge/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Tracker upserts and lists per-endpoint request counters
type Tracker struct {
	db *gorm.DB
}

func NewTracker(db *gorm.DB) *Tracker {
	return &Tracker{db: db}
}

// Record bumps the counter for one (method, path) pair, creating the row on
// first sight. The increment rides on the unique index in a single upsert so
// parallel requests to the same endpoint cannot lose counts.
func (t *Tracker) Record(method, path string) error {
	now := time.Now().UTC()
	stat := models.EndpointStat{
		Method:         method,
		Path:           path,
		RequestCount:   1,
		LastAccessedAt: now,
	}
	return t.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "method"}, {Name: "path"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"request_count":    gorm.Expr("endpoint_stats.request_count + ?", 1),
			"last_accessed_at": now,
		}),
	}).Create(&stat).Error
}

// List returns all endpoint counters, busiest first
func (t *Tracker) List() ([]models.EndpointStat, error) {
	var stats []models.EndpointStat
	err := t.db.Order("request_count DESC").Find(&stats).Error
	return stats, err
}
