package models

import (
	"time"
)

// EndpointStat counts requests per (method, path) pair
type EndpointStat struct {
	ID             uint      `gorm:"column:id;primaryKey" json:"id"`
	Method         string    `gorm:"column:method;size:10;not null;uniqueIndex:idx_endpoint_method_path" json:"method"`
	Path           string    `gorm:"column:path;size:255;not null;uniqueIndex:idx_endpoint_method_path" json:"path"`
	RequestCount   int64     `gorm:"column:request_count;default:1;not null" json:"requestCount"`
	LastAccessedAt time.Time `gorm:"column:last_accessed_at" json:"lastAccessedAt"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"createdAt"`
}

func (EndpointStat) TableName() string {
	return "endpoint_stats"
}
