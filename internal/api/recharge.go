package api

import (
	"context"
	"net/http" // HTTP status codes

	"task_rewards/internal/domain"
	"task_rewards/internal/ledger"
	"task_rewards/internal/utils"

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// RechargeRequestBody carries a deposit request
type RechargeRequestBody struct {
	Amount      float64 `json:"amount" binding:"required"`
	UserID      uint    `json:"userId" binding:"required"`
	Username    string  `json:"username" binding:"required"`
	PhoneNumber string  `json:"phoneNumber"`
}

// CreateRechargeHandler records a deposit request. The balance is only
// credited later through the admin updateAmount path.
func CreateRechargeHandler(engine *ledger.Engine, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RechargeRequestBody
		if err := c.ShouldBindJSON(&req); err != nil {
			respond(c, http.StatusBadRequest, false, nil, "Invalid amount")
			return
		}
		recharge, err := engine.CreateRecharge(req.UserID, req.Username, req.PhoneNumber, req.Amount)
		if err != nil {
			respondError(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":        recharge.UserID,
			"transaction_id": recharge.TransactionID,
			"amount":         recharge.TransactionAmount,
		}).Info("Recharge requested")
		invalidate(rdb, keyRechargesAll)
		respond(c, http.StatusCreated, true, gin.H{
			"transactionId":  recharge.TransactionID,
			"requestTime":    recharge.RequestTime,
			"processingTime": recharge.ProcessingTime,
		}, "Recharge request created successfully")
	}
}

// ListRechargesHandler returns all recharge requests, newest first
func ListRechargesHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()
		var requests []domain.RechargeRequest
		if found, err := utils.GetCache(ctx, rdb, keyRechargesAll, &requests); err == nil && found {
			respond(c, http.StatusOK, true, requests, "Recharge requests retrieved successfully")
			return
		}
		if err := db.Order("request_time desc").Find(&requests).Error; err != nil {
			respondError(c, err)
			return
		}
		_ = utils.SetCache(ctx, rdb, keyRechargesAll, requests, cacheTTL)
		respond(c, http.StatusOK, true, requests, "Recharge requests retrieved successfully")
	}
}
