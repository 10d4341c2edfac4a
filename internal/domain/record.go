package domain

import "time"

// UserRecord statuses
const (
	RecordPending   = "pending"   // Profit withheld: user was overdrawn at click time
	RecordCompleted = "completed" // Profit applied
	RecordFailed    = "failed"
)

// UserRecord Model — one row per click/task event
type UserRecord struct {
	ID          uint      `gorm:"primaryKey" json:"id"`          // Primary key
	SongName    string    `gorm:"not null" json:"songName"`      // Task item the user grabbed
	TotalAmount float64   `gorm:"not null" json:"totalAmount"`   // Order value
	Profit      float64   `gorm:"not null" json:"profit"`        // Commission for this order
	Timestamp   time.Time `gorm:"autoCreateTime" json:"timestamp"`
	UserID      uint      `gorm:"index;not null" json:"userID"`  // Foreign key to User
	Status      string    `gorm:"default:pending" json:"status"` // pending, completed or failed
}
