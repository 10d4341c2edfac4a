package audit

import (
	"task_rewards/internal/domain"

	"github.com/sirupsen/logrus" // Operator channel for swallowed failures
	"gorm.io/gorm"
)

// Log appends an admin action to the activity trail. Best effort: a
// failure here must never fail or roll back the triggering operation,
// so errors are reported to the operator log and dropped.
func Log(db *gorm.DB, username, action, details string) {
	entry := domain.ActivityLog{
		Username: username,
		Action:   action,
		Details:  details,
	}
	if err := db.Create(&entry).Error; err != nil {
		logrus.WithFields(logrus.Fields{
			"username": username,
			"action":   action,
			"error":    err.Error(),
		}).Error("Failed to write activity log")
	}
}
