package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"task_rewards/internal/config"
	"task_rewards/internal/db"
	"task_rewards/internal/domain"
	"task_rewards/internal/utils"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	rdb    *redis.Client
	mini   *miniredis.Miniredis
	cfg    *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.Migrate(gdb))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.Config{
		UserJWTSecret:  "user-secret",
		AdminJWTSecret: "admin-secret",
	}
	return &testEnv{
		router: NewRouter(gdb, rdb, cfg),
		db:     gdb,
		rdb:    rdb,
		mini:   mr,
		cfg:    cfg,
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func (e *testEnv) do(t *testing.T, method, path string, body any, headers map[string]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func (e *testEnv) adminAuth(t *testing.T) map[string]string {
	t.Helper()
	token, err := utils.GenerateJWT(1, "admin", utils.AudienceAdmin, e.cfg.AdminJWTSecret)
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + token}
}

func (e *testEnv) createUser(t *testing.T, user domain.User) domain.User {
	t.Helper()
	if user.Username == "" {
		user.Username = "alice"
	}
	if user.Email == "" {
		user.Email = user.Username + "@example.com"
	}
	if user.Password == "" {
		hash, err := utils.HashPassword("secret123")
		require.NoError(t, err)
		user.Password = hash
	}
	require.NoError(t, e.db.Create(&user).Error)
	return user
}

func TestRegisterRoute(t *testing.T) {
	env := newTestEnv(t)

	w, resp := env.do(t, http.MethodPost, "/api/users/register", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"phone":    "12345",
		"password": "secret123",
		"pass":     "paypass",
		"code":     "REF001",
	}, nil)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, resp.Success)

	// Same username again fails without creating a record
	w, resp = env.do(t, http.MethodPost, "/api/users/register", gin.H{
		"username": "alice",
		"email":    "second@example.com",
		"password": "secret123",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, resp.Success)

	var count int64
	require.NoError(t, env.db.Model(&domain.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestLoginRoute(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, domain.User{})

	w, resp := env.do(t, http.MethodPost, "/api/users/login", gin.H{
		"username": "alice", "password": "secret123",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		Token string      `json:"token"`
		User  domain.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.NotEmpty(t, data.Token)
	assert.Equal(t, "alice", data.User.Username)

	w, _ = env.do(t, http.MethodPost, "/api/users/login", gin.H{
		"username": "alice", "password": "wrong",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIncrementClicksRoute(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, domain.User{Balance: 15, AssignedTasks: 1})

	w, resp := env.do(t, http.MethodPatch, "/api/users/incrementClicks/1", gin.H{
		"songName": "Song A", "totalAmount": 120.0, "profit": 3.0,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var summary struct {
		Clicks  int     `json:"clicks"`
		Balance float64 `json:"balance"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &summary))
	assert.Equal(t, 1, summary.Clicks)
	assert.Equal(t, 18.0, summary.Balance)

	// The task cap is enforced on the next click
	w, resp = env.do(t, http.MethodPatch, "/api/users/incrementClicks/1", gin.H{
		"songName": "Song B", "totalAmount": 100.0, "profit": 2.0,
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, resp.Success)

	var after domain.User
	require.NoError(t, env.db.First(&after, user.ID).Error)
	assert.Equal(t, 1, after.Clicks)
	assert.Equal(t, 18.0, after.Balance)
}

func TestWithdrawalRoutes(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, domain.User{Balance: 150, WithdrawalPassword: "paypass"})

	// Over-balance request fails with no state change
	w, _ := env.do(t, http.MethodPost, "/api/users/withdrawalRequest", gin.H{
		"userId": user.ID, "withdrawalPassword": "paypass", "requestedAmount": 500.0,
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, resp := env.do(t, http.MethodPost, "/api/users/withdrawalRequest", gin.H{
		"userId": user.ID, "withdrawalPassword": "paypass", "requestedAmount": 100.0,
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var withdrawal domain.Withdrawal
	require.NoError(t, json.Unmarshal(resp.Data, &withdrawal))
	assert.Equal(t, 2.0, withdrawal.HandlingFee)
	assert.Regexp(t, `^CO[A-Z0-9]{16}$`, withdrawal.TransactionID)

	// Rejection refunds the debit
	w, _ = env.do(t, http.MethodPost, "/api/users/withdrawalRequest/status/update/1", gin.H{
		"newStatus": "Rejected",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var after domain.User
	require.NoError(t, env.db.First(&after, user.ID).Error)
	assert.Equal(t, 150.0, after.Balance)

	w, _ = env.do(t, http.MethodPost, "/api/users/withdrawalRequest/status/update/999", gin.H{
		"newStatus": "Approved",
	}, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecordRoutesValidateRangeParams(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, domain.User{})

	w, _ := env.do(t, http.MethodGet, "/api/user/records/1/date", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = env.do(t, http.MethodGet, "/api/user/records/1/amount", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = env.do(t, http.MethodGet, "/api/user/records/1/date?startDate=2026-01-01&endDate=2026-12-31", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = env.do(t, http.MethodGet, "/api/user/records/1/amount?minAmount=0&maxAmount=100", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = env.do(t, http.MethodGet, "/api/user/records/1/status/bogus", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, domain.User{})

	w, _ := env.do(t, http.MethodPut, "/api/admins/user/disable", gin.H{"username": "alice"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// A user-audience token is not accepted on admin routes
	userToken, err := utils.GenerateJWT(1, "alice", utils.AudienceUser, env.cfg.AdminJWTSecret)
	require.NoError(t, err)
	w, _ = env.do(t, http.MethodPut, "/api/admins/user/disable", gin.H{"username": "alice"},
		map[string]string{"Authorization": "Bearer " + userToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = env.do(t, http.MethodPut, "/api/admins/user/disable", gin.H{"username": "alice"}, env.adminAuth(t))
	assert.Equal(t, http.StatusOK, w.Code)

	var after domain.User
	require.NoError(t, env.db.Where("username = ?", "alice").First(&after).Error)
	assert.True(t, after.Status)

	// The action lands in the audit trail
	var entry domain.ActivityLog
	require.NoError(t, env.db.First(&entry).Error)
	assert.Equal(t, "User Disabled", entry.Action)
}

func TestAdminUpdateAmountSettlesHeldRecords(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, domain.User{Balance: -5, PrevBalance: 15, FixedTask: 5})
	require.NoError(t, env.db.Create(&domain.UserRecord{
		SongName: "Song A", TotalAmount: 100, Profit: 3, UserID: user.ID, Status: domain.RecordPending,
	}).Error)

	w, resp := env.do(t, http.MethodPut, "/api/admins/user/updateAmount", gin.H{
		"username": "alice", "changeAmount": 10.0, "changeType": "userrecharge",
	}, env.adminAuth(t))
	require.Equal(t, http.StatusOK, w.Code)

	var updated domain.User
	require.NoError(t, json.Unmarshal(resp.Data, &updated))
	assert.Equal(t, 23.0, updated.Balance, "-5 + 10 + 3 profit + 15 snapshot")
	assert.Equal(t, 0, updated.FixedTask)
}

func TestAdminAccountLifecycle(t *testing.T) {
	env := newTestEnv(t)

	w, _ := env.do(t, http.MethodPost, "/api/admins/create", gin.H{
		"username": "root", "email": "root@example.com", "password": "adminpass",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w, resp := env.do(t, http.MethodPost, "/api/admins/login", gin.H{
		"username": "root", "password": "adminpass",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.NotEmpty(t, data.Token)

	w, _ = env.do(t, http.MethodPost, "/api/admins/login", gin.H{
		"username": "root", "password": "wrong",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = env.do(t, http.MethodGet, "/api/admins/1", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = env.do(t, http.MethodDelete, "/api/admins/1", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = env.do(t, http.MethodGet, "/api/admins/1", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestActivityLogsRequireAdminToken(t *testing.T) {
	env := newTestEnv(t)

	w, _ := env.do(t, http.MethodGet, "/api/activity/logs", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, resp := env.do(t, http.MethodGet, "/api/activity/logs", nil, env.adminAuth(t))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
}

func TestListUsersIsCachedAndInvalidated(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, domain.User{})

	w, _ := env.do(t, http.MethodGet, "/api/users/all", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.mini.Exists("users:all"), "list responses are cached")

	// A registration drops the cached list
	w, _ = env.do(t, http.MethodPost, "/api/users/register", gin.H{
		"username": "bob", "email": "bob@example.com", "password": "secret123",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.False(t, env.mini.Exists("users:all"))
}

func TestRequestIDHeaderIsSet(t *testing.T) {
	env := newTestEnv(t)

	w, _ := env.do(t, http.MethodGet, "/api/users/all", nil, nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w, _ = env.do(t, http.MethodGet, "/api/users/all", nil,
		map[string]string{"X-Request-ID": "client-supplied"})
	assert.Equal(t, "client-supplied", w.Header().Get("X-Request-ID"))
}
