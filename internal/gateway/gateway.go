// Package gateway orchestrates a billable AI call: validate, charge quota,
// generate the script, place the call, record the attempt.
package gateway

import (
	"context"
	"errors"
	"log"

	"github.com/dialforge/backend/internal/history"
	"github.com/dialforge/backend/internal/models"
	"github.com/dialforge/backend/internal/quota"
	"gorm.io/gorm"
)

// ErrInvalidInput is returned when a required field is missing. Nothing is
// charged or recorded in that case.
var ErrInvalidInput = errors.New("gateway: all fields required")

// ErrAccountNotFound mirrors the ledger's not-found error for callers that
// only import this package.
var ErrAccountNotFound = quota.ErrAccountNotFound

// ScriptGenerator produces the call script from the caller's order details
type ScriptGenerator interface {
	GenerateScript(ctx context.Context, callerName, restaurant, order string) (string, error)
}

// CallPlacer dials the destination and speaks the script
type CallPlacer interface {
	PlaceCall(ctx context.Context, to, script string) (string, error)
}

// Request carries the caller-supplied inputs for one billable call
type Request struct {
	AccountID  uint
	CallerName string
	Restaurant string
	Phone      string
	UserScript string
}

// Outcome is the terminal state of one invocation. The action is considered
// successful even when delivery failed; Status records which it was.
type Outcome struct {
	Status  models.CallStatus
	Label   string
	Script  string
	CallSID string
	Usage   quota.Usage
}

// Gateway is the single entry point for the billable call action
type Gateway struct {
	db        *gorm.DB
	ledger    *quota.Ledger
	log       *history.Log
	generator ScriptGenerator
	placer    CallPlacer
}

func New(db *gorm.DB, ledger *quota.Ledger, callLog *history.Log, generator ScriptGenerator, placer CallPlacer) *Gateway {
	return &Gateway{
		db:        db,
		ledger:    ledger,
		log:       callLog,
		generator: generator,
		placer:    placer,
	}
}

// PerformCall runs the full pipeline for one billable action.
//
// Quota is charged once per invocation after the account resolves, whether or
// not delivery succeeds: a failed delivery attempt still counts against the
// limit. Generation failure alone never fails the action; the user-supplied
// script is used instead.
func (g *Gateway) PerformCall(ctx context.Context, req Request) (Outcome, error) {
	if req.CallerName == "" || req.Restaurant == "" || req.Phone == "" || req.UserScript == "" {
		return Outcome{}, ErrInvalidInput
	}

	var account models.Account
	if err := g.db.First(&account, req.AccountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Outcome{}, ErrAccountNotFound
		}
		return Outcome{}, err
	}

	// Degraded path: a generation failure falls back to the user's own text
	script, err := g.generator.GenerateScript(ctx, req.CallerName, req.Restaurant, req.UserScript)
	if err != nil || script == "" {
		if err != nil {
			log.Printf("Script generation failed for user %d, using fallback: %v", account.ID, err)
		}
		script = req.UserScript
	}

	used, err := g.ledger.Increment(account.ID)
	if err != nil {
		return Outcome{}, err
	}

	outcome := Outcome{
		Status: models.CallStatusCompleted,
		Label:  "Success",
		Script: script,
		Usage:  g.ledger.Snapshot(used),
	}

	sid, err := g.placer.PlaceCall(ctx, req.Phone, script)
	if err != nil {
		log.Printf("Call delivery failed for user %d: %v", account.ID, err)
		outcome.Status = models.CallStatusFailed
		outcome.Label = "Failed"
	} else {
		outcome.CallSID = sid
	}

	// The history write and the quota charge are independent side effects:
	// if this fails the caller still gets a successful response with the
	// already-updated quota.
	if err := g.log.Append(account.ID, req.CallerName, req.Restaurant, req.Phone, script, outcome.Status); err != nil {
		log.Printf("Failed to record call history for user %d: %v", account.ID, err)
	}

	return outcome, nil
}
