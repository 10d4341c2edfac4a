package domain

import "time"

// RechargeRequest Model — one row per deposit request, immutable once created
type RechargeRequest struct {
	ID                uint      `gorm:"primaryKey" json:"id"`                      // Primary key
	TransactionID     string    `gorm:"uniqueIndex;not null" json:"transactionId"` // CO + 16 alphanumerics
	UserID            uint      `gorm:"index;not null" json:"userId"`              // Foreign key to User
	Username          string    `gorm:"not null" json:"username"`
	PhoneNumber       string    `gorm:"not null" json:"phoneNumber"`
	TransactionAmount float64   `gorm:"not null" json:"transactionAmount"`
	RequestTime       time.Time `gorm:"autoCreateTime" json:"requestTime"`
	ProcessingTime    time.Time `json:"processingTime"` // One hour after the request
}
