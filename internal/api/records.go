package api

import (
	"context"
	"net/http" // HTTP status codes
	"strconv"
	"time"

	"task_rewards/internal/domain"
	"task_rewards/internal/utils"

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// ListUserRecordsHandler returns all click records for a user, newest
// first, cached for 60 seconds
func ListUserRecordsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := parseID(c, "userID")
		if !ok {
			return
		}
		ctx := context.Background()
		cacheKey := keyUserRecords(c.Param("userID"))
		var records []domain.UserRecord
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &records); err == nil && found {
			respond(c, http.StatusOK, true, records, "Records retrieved successfully")
			return
		}
		if err := db.Where("user_id = ?", userID).Order("timestamp desc").Find(&records).Error; err != nil {
			respondError(c, err)
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, records, cacheTTL)
		respond(c, http.StatusOK, true, records, "Records retrieved successfully")
	}
}

// ListUserRecordsByStatusHandler filters a user's records by status
func ListUserRecordsByStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := parseID(c, "userID")
		if !ok {
			return
		}
		status := c.Param("status")
		switch status {
		case domain.RecordPending, domain.RecordCompleted, domain.RecordFailed:
		default:
			respond(c, http.StatusBadRequest, false, nil, "Invalid status value")
			return
		}
		var records []domain.UserRecord
		if err := db.Where("user_id = ? AND status = ?", userID, status).Find(&records).Error; err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, true, records, "Records retrieved successfully")
	}
}

// ListUserRecordsByDateHandler filters a user's records by a date range.
// Dates are RFC 3339 or plain YYYY-MM-DD.
func ListUserRecordsByDateHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := parseID(c, "userID")
		if !ok {
			return
		}
		startStr := c.Query("startDate")
		endStr := c.Query("endDate")
		if startStr == "" || endStr == "" {
			respond(c, http.StatusBadRequest, false, nil, "Start date and end date are required")
			return
		}
		start, err1 := parseDate(startStr)
		end, err2 := parseDate(endStr)
		if err1 != nil || err2 != nil {
			respond(c, http.StatusBadRequest, false, nil, "Invalid date format")
			return
		}
		var records []domain.UserRecord
		if err := db.Where("user_id = ? AND timestamp >= ? AND timestamp <= ?", userID, start, end).
			Find(&records).Error; err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, true, records, "Records retrieved successfully")
	}
}

// ListUserRecordsByAmountHandler filters a user's records by order value
func ListUserRecordsByAmountHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := parseID(c, "userID")
		if !ok {
			return
		}
		minStr := c.Query("minAmount")
		maxStr := c.Query("maxAmount")
		if minStr == "" || maxStr == "" {
			respond(c, http.StatusBadRequest, false, nil, "Min amount and max amount are required")
			return
		}
		minAmount, err1 := parseFloat(minStr)
		maxAmount, err2 := parseFloat(maxStr)
		if err1 != nil || err2 != nil {
			respond(c, http.StatusBadRequest, false, nil, "Invalid amount value")
			return
		}
		var records []domain.UserRecord
		if err := db.Where("user_id = ? AND total_amount >= ? AND total_amount <= ?", userID, minAmount, maxAmount).
			Find(&records).Error; err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, true, records, "Records retrieved successfully")
	}
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}
