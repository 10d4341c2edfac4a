package api

import (
	"net/http" // HTTP status codes

	"task_rewards/internal/ledger"

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// ClickRequest is one order grab: the task item plus its order value
// and commission. Missing amounts default to zero like the legacy API.
type ClickRequest struct {
	SongName    string  `json:"songName"`
	TotalAmount float64 `json:"totalAmount"`
	Profit      float64 `json:"profit"`
}

// IncrementClicksHandler runs the order-grab state machine for a user
func IncrementClicksHandler(engine *ledger.Engine, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var req ClickRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond(c, http.StatusBadRequest, false, nil, "Invalid request")
			return
		}
		if req.SongName == "" {
			req.SongName = "Unknown"
		}

		summary, err := engine.RecordClick(id, req.SongName, req.TotalAmount, req.Profit)
		if err != nil {
			respondError(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id": id,
			"clicks":  summary.Clicks,
			"balance": summary.Balance,
			"profit":  req.Profit,
		}).Info("Order grabbed")
		invalidate(rdb, keyUsersAll, keyUserRecords(c.Param("id")))
		respond(c, http.StatusOK, true, summary, "Successful Order Grabbing")
	}
}
