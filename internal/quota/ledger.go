// Package quota tracks billable API usage per account and derives the
// remaining/exceeded state against a fixed call limit.
package quota

import (
	"errors"

	"github.com/dialforge/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultLimit is the number of billable calls included with every account
const DefaultLimit = 20

// ErrAccountNotFound is returned when the referenced account does not exist
var ErrAccountNotFound = errors.New("quota: account not found")

// Usage is the derived quota state for one account
type Usage struct {
	Used      int64 `json:"used"`
	Limit     int64 `json:"limit"`
	Remaining int64 `json:"remaining"`
	Exceeded  bool  `json:"exceeded"`
}

// Ledger reads and mutates the per-account usage counter
type Ledger struct {
	db    *gorm.DB
	limit int64
}

func NewLedger(db *gorm.DB, limit int64) *Ledger {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Ledger{db: db, limit: limit}
}

// Limit returns the configured call limit
func (l *Ledger) Limit() int64 {
	return l.limit
}

// Usage returns the current quota snapshot for an account
func (l *Ledger) Usage(accountID uint) (Usage, error) {
	var account models.Account
	if err := l.db.Select("api_calls_used").First(&account, accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Usage{}, ErrAccountNotFound
		}
		return Usage{}, err
	}
	return l.derive(account.APICallsUsed), nil
}

// Increment atomically adds one billable call to the account and returns the
// new count. The add happens in a single UPDATE so concurrent requests from
// the same account cannot lose updates.
func (l *Ledger) Increment(accountID uint) (int64, error) {
	var account models.Account
	res := l.db.Model(&account).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "api_calls_used"}}}).
		Where("id = ?", accountID).
		UpdateColumn("api_calls_used", gorm.Expr("api_calls_used + ?", 1))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrAccountNotFound
	}
	return account.APICallsUsed, nil
}

// derive computes the read-only fields. Exceeded is a strict comparison:
// an account sitting exactly at the limit is not over it.
func (l *Ledger) derive(used int64) Usage {
	remaining := l.limit - used
	if remaining < 0 {
		remaining = 0
	}
	return Usage{
		Used:      used,
		Limit:     l.limit,
		Remaining: remaining,
		Exceeded:  used > l.limit,
	}
}

// Snapshot derives a usage snapshot from an already known counter value,
// without touching the database.
func (l *Ledger) Snapshot(used int64) Usage {
	return l.derive(used)
}
