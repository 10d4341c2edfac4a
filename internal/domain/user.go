package domain

import "time"

// User Model
type User struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`                 // Primary key
	SequenceID         int64     `json:"sequenceId"`                           // Human-facing id minted from the "userId" counter
	Username           string    `gorm:"uniqueIndex;not null" json:"username"` // Unique username
	Email              string    `gorm:"uniqueIndex;not null" json:"email"`    // Unique email
	Password           string    `gorm:"not null" json:"-"`                    // Bcrypt hash, never serialized
	WithdrawalPassword string    `json:"-"`                                    // Separate payout secret
	Code               string    `json:"code"`                                 // 6-character referral code
	ParentID           string    `json:"parentId"`                             // Referrer's code given at registration
	PhoneNumber        string    `json:"phoneNumber"`
	Balance            float64   `gorm:"default:15" json:"balance"` // Signed; negative while orders are held
	PrevBalance        float64   `json:"prevBalance"`               // Snapshot taken before a threshold deduction
	Clicks             int       `gorm:"default:0" json:"clicks"`   // Tasks completed this cycle
	AssignedTasks      int       `gorm:"default:40" json:"assignedTasks"`
	FixedTask          int       `json:"fixedTask"` // Click count that triggers the card deduction
	CardItem           float64   `json:"cardItem"`  // Amount debited at the fixed-task threshold
	CardName           string    `json:"cardName"`
	Commission         float64   `json:"commission"`
	TodayProfit        float64   `json:"todayProfit"`
	TotalProfit        float64   `json:"totalProfit"`
	FrozenAmount       float64   `gorm:"default:0" json:"frozenAmount"`
	CreditScore        int       `gorm:"default:100" json:"creditScore"` // Clamped to 100
	MembershipLevel    string    `json:"membershipLevel"`
	TradingStatus      string    `json:"tradingStatus"`
	IsProxy            string    `json:"isProxy"`
	Network            string    `json:"network"` // Payout network
	Wallet             string    `json:"wallet"`  // Payout wallet address
	Status             bool      `gorm:"default:false" json:"status"` // true = disabled
	RegistrationTime   time.Time `gorm:"autoCreateTime" json:"registrationTime"`
}
