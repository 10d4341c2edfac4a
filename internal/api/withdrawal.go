package api

import (
	"context"
	"net/http" // HTTP status codes
	"strconv"

	"task_rewards/internal/domain"
	"task_rewards/internal/ledger"
	"task_rewards/internal/utils"

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// WithdrawalRequestBody carries a payout request
type WithdrawalRequestBody struct {
	UserID             uint    `json:"userId" binding:"required"`
	WithdrawalPassword string  `json:"withdrawalPassword" binding:"required"`
	RequestedAmount    float64 `json:"requestedAmount" binding:"required"`
}

// RequestWithdrawalHandler creates a Pending withdrawal and debits the
// requested amount immediately
func RequestWithdrawalHandler(engine *ledger.Engine, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req WithdrawalRequestBody
		if err := c.ShouldBindJSON(&req); err != nil {
			respond(c, http.StatusBadRequest, false, nil,
				"User ID, withdrawal password, and requested amount are required")
			return
		}
		withdrawal, err := engine.RequestWithdrawal(req.UserID, req.WithdrawalPassword, req.RequestedAmount)
		if err != nil {
			respondError(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":        withdrawal.UserID,
			"transaction_id": withdrawal.TransactionID,
			"amount":         withdrawal.RequestedAmount,
			"handling_fee":   withdrawal.HandlingFee,
		}).Info("Withdrawal requested")
		invalidate(rdb, keyUsersAll, keyWithdrawalsAll, keyUserWithdrawals(withdrawal.UserID))
		respond(c, http.StatusCreated, true, withdrawal, "Withdrawal request created successfully")
	}
}

// WithdrawalStatusRequest carries the target status
type WithdrawalStatusRequest struct {
	NewStatus string `json:"newStatus" binding:"required"`
}

// UpdateWithdrawalStatusHandler moves a withdrawal between Pending,
// Approved and Rejected. Rejection refunds the requested amount.
func UpdateWithdrawalStatusHandler(engine *ledger.Engine, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var req WithdrawalStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond(c, http.StatusBadRequest, false, nil, "Invalid status value")
			return
		}
		withdrawal, err := engine.ResolveWithdrawal(id, req.NewStatus)
		if err != nil {
			respondError(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"withdrawal_id":  withdrawal.ID,
			"transaction_id": withdrawal.TransactionID,
			"status":         req.NewStatus,
		}).Info("Withdrawal status updated")
		invalidate(rdb, keyUsersAll, keyWithdrawalsAll, keyUserWithdrawals(withdrawal.UserID))
		respond(c, http.StatusOK, true, withdrawal, "Withdrawal request status updated successfully")
	}
}

// ListWithdrawalsHandler returns withdrawal requests, newest first.
// With a userId parameter the list is scoped to that user.
func ListWithdrawalsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()
		cacheKey := keyWithdrawalsAll
		query := db.Order("request_time desc")
		if param := c.Param("userId"); param != "" {
			userID, err := strconv.ParseUint(param, 10, 32)
			if err != nil {
				respond(c, http.StatusBadRequest, false, nil, "Invalid id")
				return
			}
			cacheKey = keyUserWithdrawals(uint(userID))
			query = query.Where("user_id = ?", uint(userID))
		}

		var requests []domain.Withdrawal
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &requests); err == nil && found {
			respond(c, http.StatusOK, true, requests, "Withdrawal requests retrieved successfully")
			return
		}
		if err := query.Find(&requests).Error; err != nil {
			respondError(c, err)
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, requests, cacheTTL)
		respond(c, http.StatusOK, true, requests, "Withdrawal requests retrieved successfully")
	}
}
