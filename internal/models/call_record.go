package models

import (
	"time"
)

// CallStatus represents the outcome of a placed call
type CallStatus string

const (
	CallStatusPending   CallStatus = "pending"
	CallStatusCompleted CallStatus = "completed"
	CallStatusFailed    CallStatus = "failed"
)

// CallRecord is one row per billable call attempt. Rows are never updated
// after creation.
type CallRecord struct {
	ID         uint       `gorm:"column:id;primaryKey" json:"id"`
	UserID     uint       `gorm:"column:user_id;index;not null" json:"userId"`
	User       *Account   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CallerName string     `gorm:"column:caller_name;size:255;not null" json:"callerName"`
	Restaurant string     `gorm:"column:restaurant;size:255;not null" json:"restaurant"`
	Phone      string     `gorm:"column:phone;size:50;not null" json:"phone"`
	Script     string     `gorm:"column:script;type:text" json:"script"`
	Status     CallStatus `gorm:"column:status;size:20;default:pending" json:"status"`
	CreatedAt  time.Time  `gorm:"column:created_at;index" json:"createdAt"`
}

func (CallRecord) TableName() string {
	return "call_history"
}
