package domain

// AdminUser Model
type AdminUser struct {
	ID          uint   `gorm:"primaryKey" json:"id"`                 // Primary key
	Username    string `gorm:"uniqueIndex;not null" json:"username"` // Unique username
	Email       string `gorm:"uniqueIndex;not null" json:"email"`    // Unique email
	Password    string `gorm:"not null" json:"-"`                    // Bcrypt hash
	PhoneNumber string `json:"phoneNumber"`
	Identity    string `json:"identity"`
}
