package api

import (
	"context"
	"errors"
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"task_rewards/internal/domain"
	"task_rewards/internal/ledger"
	"task_rewards/internal/utils"

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// parseID reads a numeric id path parameter
func parseID(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		respond(c, http.StatusBadRequest, false, nil, "Invalid id")
		return 0, false
	}
	return uint(v), true
}

// ListUsersHandler returns all users, cached for 60 seconds
func ListUsersHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()
		var users []domain.User
		if found, err := utils.GetCache(ctx, rdb, keyUsersAll, &users); err == nil && found {
			respond(c, http.StatusOK, true, users, "Users retrieved successfully")
			return
		}
		if err := db.Find(&users).Error; err != nil {
			respondError(c, err)
			return
		}
		_ = utils.SetCache(ctx, rdb, keyUsersAll, users, cacheTTL)
		respond(c, http.StatusOK, true, users, "Users retrieved successfully")
	}
}

// GetUserHandler returns a single user by id
func GetUserHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var user domain.User
		if err := db.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respond(c, http.StatusNotFound, false, nil, "User not found")
				return
			}
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, true, user, "User retrieved successfully")
	}
}

// UpdateUserHandler applies an allow-listed partial update to a user.
// Unknown body keys are ignored; a password value is hashed before it
// is stored.
func UpdateUserHandler(engine *ledger.Engine, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var update ledger.UserUpdate
		if err := c.ShouldBindJSON(&update); err != nil {
			respond(c, http.StatusBadRequest, false, nil, "Invalid request")
			return
		}
		user, err := engine.UpdateUser(id, update)
		if err != nil {
			respondError(c, err)
			return
		}
		invalidate(rdb, keyUsersAll)
		respond(c, http.StatusOK, true, user, "User updated successfully")
	}
}

// DeleteUserHandler hard-deletes a user (admin escape hatch)
func DeleteUserHandler(engine *ledger.Engine, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		if err := engine.DeleteUser(id); err != nil {
			respondError(c, err)
			return
		}
		logrus.WithField("user_id", id).Info("User deleted")
		invalidate(rdb, keyUsersAll)
		respond(c, http.StatusOK, true, nil, "User deleted successfully")
	}
}

// ChangePasswordRequest carries a login password change
type ChangePasswordRequest struct {
	Username    string `json:"username" binding:"required"`
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// ChangePasswordHandler lets a user rotate their login password
func ChangePasswordHandler(engine *ledger.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ChangePasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond(c, http.StatusBadRequest, false, nil, "All fields are required")
			return
		}
		if err := engine.ChangePassword(req.Username, req.OldPassword, req.NewPassword); err != nil {
			if errors.Is(err, ledger.ErrAuthFailed) {
				respond(c, http.StatusBadRequest, false, nil, "Old password is incorrect")
				return
			}
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, true, nil, "Password changed successfully")
	}
}

// ChangeWithdrawalPasswordRequest carries a payout password change
type ChangeWithdrawalPasswordRequest struct {
	UserID      uint   `json:"userId" binding:"required"`
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// ChangeWithdrawalPasswordHandler lets a user rotate their payout password
func ChangeWithdrawalPasswordHandler(engine *ledger.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ChangeWithdrawalPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond(c, http.StatusBadRequest, false, nil, "All fields are required")
			return
		}
		if err := engine.ChangeWithdrawalPassword(req.UserID, req.OldPassword, req.NewPassword); err != nil {
			if errors.Is(err, ledger.ErrAuthFailed) {
				respond(c, http.StatusBadRequest, false, nil, "Incorrect old withdrawal password")
				return
			}
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, true, nil, "Withdrawal password changed successfully")
	}
}

// WithdrawalInfoRequest carries the payout destination
type WithdrawalInfoRequest struct {
	Network string `json:"network"`
	Wallet  string `json:"wallet"`
}

// SetWithdrawalInfoHandler stores a user's payout network and wallet
func SetWithdrawalInfoHandler(engine *ledger.Engine, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var req WithdrawalInfoRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond(c, http.StatusBadRequest, false, nil, "Invalid request")
			return
		}
		user, err := engine.SetWithdrawalInfo(id, req.Network, req.Wallet)
		if err != nil {
			respondError(c, err)
			return
		}
		invalidate(rdb, keyUsersAll)
		respond(c, http.StatusOK, true, user, "User updated successfully")
	}
}
