package api

import (
	"errors"
	"net/http" // HTTP status codes

	"task_rewards/internal/ledger"

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// respond writes the unified response envelope used by every route
func respond(c *gin.Context, status int, success bool, data any, message string) {
	c.JSON(status, gin.H{"success": success, "data": data, "message": message})
}

// respondError maps a domain error to its HTTP status. Anything outside
// the ledger taxonomy is a store or unexpected failure and becomes a 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		respond(c, http.StatusNotFound, false, nil, err.Error())
	case errors.Is(err, ledger.ErrConflict),
		errors.Is(err, ledger.ErrAuthFailed),
		errors.Is(err, ledger.ErrLimitExceeded),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInsufficientFunds),
		errors.Is(err, ledger.ErrInvalidStatus):
		respond(c, http.StatusBadRequest, false, nil, err.Error())
	default:
		logrus.WithFields(logrus.Fields{
			"path":       c.FullPath(),
			"request_id": c.GetString("requestID"),
			"error":      err.Error(),
		}).Error("Request failed")
		respond(c, http.StatusInternalServerError, false, nil, "Internal server error")
	}
}
