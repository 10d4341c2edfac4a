package db

import (
	"errors"

	"task_rewards/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// Migrate creates tables, missing foreign keys, constraints, columns and
// indexes for every entity, then seeds the userId counter
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&domain.User{},
		&domain.AdminUser{},
		&domain.UserRecord{},
		&domain.Withdrawal{},
		&domain.RechargeRequest{},
		&domain.ActivityLog{},
		&domain.Counter{},
	)
	if err != nil {
		return err
	}
	return SeedCounters(db)
}

// SeedCounters initializes the userId sequence so the first registered
// user receives id 3000. Existing counters are left untouched.
func SeedCounters(db *gorm.DB) error {
	var c domain.Counter
	err := db.Where("name = ?", "userId").First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return db.Create(&domain.Counter{Name: "userId", SequenceValue: 2999}).Error
	}
	return err
}
