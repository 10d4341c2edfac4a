package api

import (
	"errors"
	"fmt"
	"net/http" // HTTP status codes

	"task_rewards/internal/audit"
	"task_rewards/internal/config"
	"task_rewards/internal/domain"
	"task_rewards/internal/ledger"
	"task_rewards/internal/utils"

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// CreateAdminRequest carries a new admin account
type CreateAdminRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// CreateAdminHandler creates an admin account
func CreateAdminHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateAdminRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond(c, http.StatusBadRequest, false, nil, "All fields are required")
			return
		}
		var existing domain.AdminUser
		err := db.Where("username = ? OR email = ?", req.Username, req.Email).First(&existing).Error
		if err == nil {
			respond(c, http.StatusBadRequest, false, nil, "Username or email already exists")
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, err)
			return
		}
		hash, err := utils.HashPassword(req.Password)
		if err != nil {
			respondError(c, err)
			return
		}
		admin := domain.AdminUser{Username: req.Username, Email: req.Email, Password: hash}
		if err := db.Create(&admin).Error; err != nil {
			respondError(c, err)
			return
		}
		logrus.WithField("username", admin.Username).Info("Admin user created")
		respond(c, http.StatusCreated, true, gin.H{
			"username": admin.Username,
			"email":    admin.Email,
		}, "Admin user created successfully")
	}
}

// AdminLoginHandler authenticates an admin and returns a token
func AdminLoginHandler(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond(c, http.StatusBadRequest, false, nil, "Username and password are required")
			return
		}
		var admin domain.AdminUser
		if err := db.Where("username = ?", req.Username).First(&admin).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respond(c, http.StatusUnauthorized, false, nil, "Invalid username or password")
				return
			}
			respondError(c, err)
			return
		}
		if !utils.CheckPassword(admin.Password, req.Password) {
			respond(c, http.StatusUnauthorized, false, nil, "Invalid username or password")
			return
		}
		token, err := utils.GenerateJWT(admin.ID, admin.Username, utils.AudienceAdmin, cfg.AdminJWTSecret)
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, true, gin.H{"user": admin, "token": token}, "Login successful")
	}
}

// GetAdminHandler returns an admin account without its password
func GetAdminHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var admin domain.AdminUser
		if err := db.First(&admin, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respond(c, http.StatusNotFound, false, nil, "Admin user not found")
				return
			}
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, true, gin.H{
			"username": admin.Username,
			"email":    admin.Email,
		}, "Admin user retrieved successfully")
	}
}

// UpdateAdminRequest carries the editable admin profile fields
type UpdateAdminRequest struct {
	UserEmail    string `json:"userEmail"`
	UserPhone    string `json:"userPhone"`
	UserIdentity string `json:"userIdentity"`
}

// UpdateAdminHandler edits an admin's email, phone or identity
func UpdateAdminHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var req UpdateAdminRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond(c, http.StatusBadRequest, false, nil, "Invalid request")
			return
		}
		var admin domain.AdminUser
		if err := db.First(&admin, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respond(c, http.StatusNotFound, false, nil, "Admin user not found")
				return
			}
			respondError(c, err)
			return
		}
		updates := map[string]any{}
		if req.UserEmail != "" {
			updates["email"] = req.UserEmail
		}
		if req.UserPhone != "" {
			updates["phone_number"] = req.UserPhone
		}
		if req.UserIdentity != "" {
			updates["identity"] = req.UserIdentity
		}
		if len(updates) > 0 {
			if err := db.Model(&admin).Updates(updates).Error; err != nil {
				respondError(c, err)
				return
			}
		}
		respond(c, http.StatusOK, true, admin, "Admin user updated successfully")
	}
}

// AdminChangePasswordRequest carries an admin password rotation
type AdminChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// ChangeAdminPasswordHandler rotates an admin's own password and records
// the change in the activity log
func ChangeAdminPasswordHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.Param("username")
		var req AdminChangePasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond(c, http.StatusBadRequest, false, nil,
				"Username, old password, and new password are required")
			return
		}
		var admin domain.AdminUser
		if err := db.Where("username = ?", username).First(&admin).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respond(c, http.StatusNotFound, false, nil, "Admin user not found")
				return
			}
			respondError(c, err)
			return
		}
		if !utils.CheckPassword(admin.Password, req.OldPassword) {
			respond(c, http.StatusBadRequest, false, nil, "Old password is incorrect")
			return
		}
		hash, err := utils.HashPassword(req.NewPassword)
		if err != nil {
			respondError(c, err)
			return
		}
		if err := db.Model(&admin).Update("password", hash).Error; err != nil {
			respondError(c, err)
			return
		}
		audit.Log(db, username, "Password Changed",
			fmt.Sprintf("Updated admin user password for user %s", username))
		invalidate(rdb, keyActivityLogs)
		respond(c, http.StatusOK, true, nil, "Password changed successfully")
	}
}

// DeleteAdminHandler removes an admin account
func DeleteAdminHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		res := db.Delete(&domain.AdminUser{}, id)
		if res.Error != nil {
			respondError(c, res.Error)
			return
		}
		if res.RowsAffected == 0 {
			respond(c, http.StatusNotFound, false, nil, "Admin user not found")
			return
		}
		respond(c, http.StatusOK, true, nil, "Admin user deleted successfully")
	}
}

// Admin-on-user operations. Each one mutates a user through the ledger
// engine and appends an activity log entry on success.

// AdminSetUserPasswordRequest resets a user's login password
type AdminSetUserPasswordRequest struct {
	Username    string `json:"username" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// AdminSetUserPasswordHandler overwrites a user's login password
func AdminSetUserPasswordHandler(engine *ledger.Engine, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AdminSetUserPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond(c, http.StatusBadRequest, false, nil, "Username and new password are required")
			return
		}
		if err := engine.SetPassword(req.Username, req.NewPassword); err != nil {
			respondError(c, err)
			return
		}
		audit.Log(engine.DB(), req.Username, "Password Changed",
			fmt.Sprintf("Updated user Password for user %s", req.Username))
		invalidate(rdb, keyActivityLogs)
		respond(c, http.StatusOK, true, nil, "Password updated successfully")
	}
}

// AdminSetPaymentPasswordRequest resets a user's payout password
type AdminSetPaymentPasswordRequest struct {
	Username        string `json:"username" binding:"required"`
	PaymentPassword string `json:"paymentPassword" binding:"required"`
}

// AdminSetPaymentPasswordHandler overwrites a user's payout password
func AdminSetPaymentPasswordHandler(engine *ledger.Engine, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AdminSetPaymentPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond(c, http.StatusBadRequest, false, nil, "Username and new password are required")
			return
		}
		if err := engine.SetWithdrawalPassword(req.Username, req.PaymentPassword); err != nil {
			respondError(c, err)
			return
		}
		audit.Log(engine.DB(), req.Username, "Payment Password Changed",
			fmt.Sprintf("Updated user Payment Password for user %s", req.Username))
		invalidate(rdb, keyActivityLogs)
		respond(c, http.StatusOK, true, nil, "Password updated successfully")
	}
}

// AdminSetCreditScoreRequest carries a credit score change
type AdminSetCreditScoreRequest struct {
	Username    string `json:"username" binding:"required"`
	CreditScore int    `json:"creditScore" binding:"required"`
}

// AdminSetCreditScoreHandler updates a user's credit score (clamped to 100)
func AdminSetCreditScoreHandler(engine *ledger.Engine, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AdminSetCreditScoreRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond(c, http.StatusBadRequest, false, nil, "Username and credit Score are required")
			return
		}
		if err := engine.SetCreditScore(req.Username, req.CreditScore); err != nil {
			respondError(c, err)
			return
		}
		audit.Log(engine.DB(), req.Username, "Credit Score Changed",
			fmt.Sprintf("Updated user Credit Score for user %s", req.Username))
		invalidate(rdb, keyUsersAll, keyActivityLogs)
		respond(c, http.StatusOK, true, nil, "Credit Score updated successfully")
	}
}

// usernameRequest is shared by the single-field admin toggles
type usernameRequest struct {
	Username string `json:"username" binding:"required"`
}

// AdminResetTasksHandler sets a user's click counter back to zero
func AdminResetTasksHandler(engine *ledger.Engine, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req usernameRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond(c, http.StatusBadRequest, false, nil, "Username is required")
			return
		}
		if err := engine.ResetTasks(req.Username); err != nil {
			respondError(c, err)
			return
		}
		audit.Log(engine.DB(), req.Username, "Task Reset",
			fmt.Sprintf("Task Reset for user %s", req.Username))
		invalidate(rdb, keyUsersAll, keyActivityLogs)
		respond(c, http.StatusOK, true, nil, "Order Task Reset successfully")
	}
}

// AdminDisableUserHandler marks a user account as disabled
func AdminDisableUserHandler(engine *ledger.Engine, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req usernameRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond(c, http.StatusBadRequest, false, nil, "Username is required")
			return
		}
		if err := engine.DisableUser(req.Username); err != nil {
			respondError(c, err)
			return
		}
		audit.Log(engine.DB(), req.Username, "User Disabled",
			fmt.Sprintf("Changed Status to inactive for user %s", req.Username))
		invalidate(rdb, keyUsersAll, keyActivityLogs)
		respond(c, http.StatusOK, true, nil, "User Disabled successfully")
	}
}

// AdminCardOrderRequest carries the forced-purchase configuration.
// Pointer fields distinguish "leave unchanged" from an explicit zero.
type AdminCardOrderRequest struct {
	Username        string   `json:"username" binding:"required"`
	CommissionRatio *float64 `json:"comissionRatio"`
	CardOne         *float64 `json:"cardOne"`
	SingleCardOne   *int     `json:"singleCardOne"`
	CardName        *string  `json:"cardName"`
}

// AdminCardOrderHandler updates a user's card order details
func AdminCardOrderHandler(engine *ledger.Engine, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AdminCardOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond(c, http.StatusBadRequest, false, nil, "Username is required")
			return
		}
		err := engine.SetCardOrder(req.Username, ledger.CardOrderParams{
			Commission: req.CommissionRatio,
			CardItem:   req.CardOne,
			FixedTask:  req.SingleCardOne,
			CardName:   req.CardName,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		audit.Log(engine.DB(), req.Username, "Card Order Details",
			fmt.Sprintf("Updated Card Order Details for user %s", req.Username))
		invalidate(rdb, keyUsersAll, keyActivityLogs)
		respond(c, http.StatusOK, true, nil, "Card Order Details Updated successfully")
	}
}

// AdminUpdateAmountRequest carries a manual recharge or deduction
type AdminUpdateAmountRequest struct {
	Username     string  `json:"username" binding:"required"`
	ChangeAmount float64 `json:"changeAmount" binding:"required"`
	ChangeType   string  `json:"changeType" binding:"required"`
}

// AdminUpdateAmountHandler applies a manual balance change; a recharge
// that brings the balance above zero settles pending records
func AdminUpdateAmountHandler(engine *ledger.Engine, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AdminUpdateAmountRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond(c, http.StatusBadRequest, false, nil,
				"Username, change value, and option are required")
			return
		}
		user, err := engine.UpdateAmount(req.Username, req.ChangeAmount, req.ChangeType)
		if err != nil {
			respondError(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"username":    req.Username,
			"amount":      req.ChangeAmount,
			"change_type": req.ChangeType,
			"balance":     user.Balance,
		}).Info("User amount updated")
		audit.Log(engine.DB(), req.Username, "Payment Updated",
			fmt.Sprintf("Payment Updated %s for user %s", req.ChangeType, req.Username))
		invalidate(rdb, keyUsersAll, keyActivityLogs, keyUserRecords(fmt.Sprint(user.ID)))
		respond(c, http.StatusOK, true, user, "User amount updated successfully")
	}
}
