// Package stats computes the admin-facing cross-user rollups
package stats

import (
	"github.com/dialforge/backend/internal/models"
	"gorm.io/gorm"
)

// SystemStats is the global usage rollup shown on the admin dashboard
type SystemStats struct {
	TotalUsers     int64 `json:"totalUsers"`
	TotalAPICalls  int64 `json:"totalApiCalls"`
	ActiveUsers    int64 `json:"activeUsers"`
	UsersOverLimit int64 `json:"usersOverLimit"`
}

// Service aggregates account and usage data for admin views
type Service struct {
	db    *gorm.DB
	limit int64
}

func NewService(db *gorm.DB, limit int64) *Service {
	return &Service{db: db, limit: limit}
}

// System computes the rollup fresh on every call. The four sub-aggregates are
// separate reads, so the snapshot is not atomic across them while writes are
// in flight.
func (s *Service) System() (SystemStats, error) {
	var out SystemStats

	if err := s.db.Model(&models.Account{}).Count(&out.TotalUsers).Error; err != nil {
		return out, err
	}
	if err := s.db.Model(&models.Account{}).
		Select("COALESCE(SUM(api_calls_used), 0)").
		Scan(&out.TotalAPICalls).Error; err != nil {
		return out, err
	}
	if err := s.db.Model(&models.Account{}).
		Where("last_login IS NOT NULL").
		Count(&out.ActiveUsers).Error; err != nil {
		return out, err
	}
	// Strictly greater than, matching the ledger's exceeded rule
	if err := s.db.Model(&models.Account{}).
		Where("api_calls_used > ?", s.limit).
		Count(&out.UsersOverLimit).Error; err != nil {
		return out, err
	}

	return out, nil
}

// ListUsers returns all accounts ordered by usage, heaviest first.
// Ties break on ascending id so the ordering is stable for display.
func (s *Service) ListUsers() ([]models.Account, error) {
	var users []models.Account
	err := s.db.Order("api_calls_used DESC, id ASC").Find(&users).Error
	return users, err
}
