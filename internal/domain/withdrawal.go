package domain

import "time"

// Withdrawal statuses
const (
	WithdrawalPending  = "Pending"
	WithdrawalApproved = "Approved" // Already debited at request time, no further balance effect
	WithdrawalRejected = "Rejected" // Requested amount is refunded
)

// Withdrawal Model — one row per payout request
type Withdrawal struct {
	ID              uint      `gorm:"primaryKey" json:"id"`                      // Primary key
	TransactionID   string    `gorm:"uniqueIndex;not null" json:"transactionId"` // CO + 16 alphanumerics
	UserID          uint      `gorm:"index;not null" json:"userId"`              // Foreign key to User
	Username        string    `gorm:"not null" json:"username"`
	PhoneNumber     string    `json:"phoneNumber"`
	RequestedAmount float64   `gorm:"not null" json:"requestedAmount"`
	Balance         float64   `gorm:"not null" json:"balance"` // User balance at request time, before the debit
	HandlingFee     float64   `gorm:"default:0" json:"handlingFee"` // Informational, not debited separately
	Network         string    `json:"network"`
	Wallet          string    `json:"wallet"`
	RequestTime     time.Time `gorm:"autoCreateTime" json:"requestTime"`
	ProcessingTime  time.Time `json:"processingTime"`               // One hour after the request
	Status          string    `gorm:"default:Pending" json:"status"`
}
