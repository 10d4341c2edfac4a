package api

import (
	"context"
	"net/http" // HTTP status codes

	"task_rewards/internal/domain"
	"task_rewards/internal/utils"

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// ListActivityLogsHandler returns the full admin audit trail
func ListActivityLogsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()
		var logs []domain.ActivityLog
		if found, err := utils.GetCache(ctx, rdb, keyActivityLogs, &logs); err == nil && found {
			respond(c, http.StatusOK, true, logs, "Logs retrieved successfully")
			return
		}
		if err := db.Find(&logs).Error; err != nil {
			respond(c, http.StatusInternalServerError, false, nil, "Failed to fetch logs")
			return
		}
		_ = utils.SetCache(ctx, rdb, keyActivityLogs, logs, cacheTTL)
		respond(c, http.StatusOK, true, logs, "Logs retrieved successfully")
	}
}
