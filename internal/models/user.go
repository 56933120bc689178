package models

import (
	"encoding/json"
	"time"
)

// Role represents the access level of an account
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// UnmarshalJSON normalizes unknown roles down to the regular user role
func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch Role(s) {
	case RoleAdmin:
		*r = RoleAdmin
	default:
		*r = RoleUser
	}
	return nil
}

// Account represents a registered user of the API
type Account struct {
	ID           uint       `gorm:"column:id;primaryKey" json:"id"`
	Email        string     `gorm:"column:email;uniqueIndex;size:255;not null" json:"email"`
	Password     string     `gorm:"column:password;size:255;not null" json:"-"`
	Role         Role       `gorm:"column:role;size:20;default:user" json:"role"`
	APICallsUsed int64      `gorm:"column:api_calls_used;default:0;not null" json:"apiCallsUsed"`
	LastLogin    *time.Time `gorm:"column:last_login" json:"lastLogin"`
	CreatedAt    time.Time  `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt    time.Time  `gorm:"column:updated_at" json:"-"`
}

func (Account) TableName() string {
	return "users"
}

// IsAdmin reports whether the account has admin access
func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}
