package domain

import "time"

// ActivityLog Model — append-only audit trail of admin actions
type ActivityLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"` // Primary key
	Username  string    `gorm:"not null" json:"username"`
	Action    string    `gorm:"not null" json:"action"`
	Details   string    `json:"details"`
	Timestamp time.Time `gorm:"autoCreateTime" json:"timestamp"`
}
