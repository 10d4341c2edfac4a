package api

import (
	"context"
	"strconv"
	"time"

	"task_rewards/internal/utils"

	"github.com/redis/go-redis/v9"
)

// List responses are cached for 60 seconds and invalidated on writes
const cacheTTL = 60 * time.Second

const (
	keyUsersAll       = "users:all"
	keyWithdrawalsAll = "withdrawals:all"
	keyRechargesAll   = "recharges:all"
	keyActivityLogs   = "activity:logs"
)

func keyUserRecords(userID string) string {
	return "records:user:" + userID
}

func keyUserWithdrawals(userID uint) string {
	return "withdrawals:user:" + strconv.Itoa(int(userID))
}

// invalidate drops cache keys after a write; a Redis failure here only
// delays freshness and is not worth failing the request over
func invalidate(rdb *redis.Client, keys ...string) {
	if rdb == nil {
		return
	}
	_ = utils.DeleteCache(context.Background(), rdb, keys...)
}
