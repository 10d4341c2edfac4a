package api

import (
	"errors"
	"net/http" // HTTP status codes

	"task_rewards/internal/config"
	"task_rewards/internal/ledger"
	"task_rewards/internal/utils"

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// RegisterRequest carries the registration payload. "pass" is the
// separate withdrawal password and "code" the referrer's code.
type RegisterRequest struct {
	Username           string `json:"username" binding:"required"`
	Email              string `json:"email" binding:"required,email"`
	Phone              string `json:"phone"`
	Password           string `json:"password" binding:"required"`
	WithdrawalPassword string `json:"pass"`
	ReferralCode       string `json:"code"`
}

// LoginRequest carries the login payload
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterHandler creates a new user account
func RegisterHandler(engine *ledger.Engine, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond(c, http.StatusBadRequest, false, nil, "Invalid request")
			return
		}
		user, err := engine.Register(ledger.RegisterParams{
			Username:           req.Username,
			Email:              req.Email,
			PhoneNumber:        req.Phone,
			Password:           req.Password,
			WithdrawalPassword: req.WithdrawalPassword,
			ParentCode:         req.ReferralCode,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":     user.ID,
			"sequence_id": user.SequenceID,
			"username":    user.Username,
		}).Info("User registered")
		invalidate(rdb, keyUsersAll)
		respond(c, http.StatusCreated, true, gin.H{"id": user.ID}, "User registered successfully")
	}
}

// LoginHandler authenticates a user and returns the account with a token
func LoginHandler(engine *ledger.Engine, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond(c, http.StatusBadRequest, false, nil, "Invalid request")
			return
		}
		user, err := engine.Authenticate(req.Username, req.Password)
		if errors.Is(err, ledger.ErrAuthFailed) {
			// Same message for unknown user and wrong password
			respond(c, http.StatusBadRequest, false, nil, "Invalid username or password")
			return
		}
		if err != nil {
			respondError(c, err)
			return
		}
		token, err := utils.GenerateJWT(user.ID, user.Username, utils.AudienceUser, cfg.UserJWTSecret)
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, true, gin.H{"user": user, "token": token}, "Login successful")
	}
}
