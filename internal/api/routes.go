package api

import (
	"task_rewards/internal/config"
	"task_rewards/internal/ledger"
	"task_rewards/internal/middleware"
	"task_rewards/internal/utils"

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// NewRouter builds the gin engine with every route mounted
func NewRouter(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.RequestID(), middleware.Metrics())

	engine := ledger.New(db)

	// User routes
	users := r.Group("/api/users")
	users.POST("/register", RegisterHandler(engine, rdb))
	users.POST("/login", LoginHandler(engine, cfg))
	users.GET("/all", ListUsersHandler(db, rdb))
	users.GET("/user/:id", GetUserHandler(db))
	users.PUT("/:id", UpdateUserHandler(engine, rdb))
	users.DELETE("/:id", DeleteUserHandler(engine, rdb))
	users.POST("/changePassword", ChangePasswordHandler(engine))
	users.PATCH("/changeWithdrawalPassword", ChangeWithdrawalPasswordHandler(engine))
	users.PATCH("/incrementClicks/:id", IncrementClicksHandler(engine, rdb))
	users.POST("/withdrawalRequest", RequestWithdrawalHandler(engine, rdb))
	users.POST("/withdrawalRequest/status/update/:id", UpdateWithdrawalStatusHandler(engine, rdb))
	users.GET("/withdrawalRequests", ListWithdrawalsHandler(db, rdb))
	users.GET("/withdrawalRequests/:userId", ListWithdrawalsHandler(db, rdb))
	users.POST("/rechargeRequest", CreateRechargeHandler(engine, rdb))
	users.GET("/rechargeRequests", ListRechargesHandler(db, rdb))
	users.PATCH("/withdrawalInformation/:id", SetWithdrawalInfoHandler(engine, rdb))

	// User record routes
	records := r.Group("/api/user/records")
	records.GET("/:userID", ListUserRecordsHandler(db, rdb))
	records.GET("/:userID/status/:status", ListUserRecordsByStatusHandler(db))
	records.GET("/:userID/date", ListUserRecordsByDateHandler(db))
	records.GET("/:userID/amount", ListUserRecordsByAmountHandler(db))

	// Admin account routes
	admins := r.Group("/api/admins")
	admins.POST("/create", CreateAdminHandler(db))
	admins.POST("/login", AdminLoginHandler(db, cfg))
	admins.GET("/:id", GetAdminHandler(db))
	admins.PATCH("/:id", UpdateAdminHandler(db))
	admins.DELETE("/:id", DeleteAdminHandler(db))
	admins.PUT("/changePassword/:username", ChangeAdminPasswordHandler(db, rdb))

	// Admin-on-user routes, behind the admin token
	adminUser := admins.Group("/user")
	adminUser.Use(middleware.JWTAuthMiddleware(cfg.AdminJWTSecret, utils.AudienceAdmin))
	adminUser.PUT("/changePassword", AdminSetUserPasswordHandler(engine, rdb))
	adminUser.PUT("/paymentPassword", AdminSetPaymentPasswordHandler(engine, rdb))
	adminUser.PUT("/creditScore", AdminSetCreditScoreHandler(engine, rdb))
	adminUser.PUT("/reset/task", AdminResetTasksHandler(engine, rdb))
	adminUser.PUT("/disable", AdminDisableUserHandler(engine, rdb))
	adminUser.PUT("/cardOrder", AdminCardOrderHandler(engine, rdb))
	adminUser.PUT("/updateAmount", AdminUpdateAmountHandler(engine, rdb))

	// Audit trail, behind the admin token
	activity := r.Group("/api/activity")
	activity.Use(middleware.JWTAuthMiddleware(cfg.AdminJWTSecret, utils.AudienceAdmin))
	activity.GET("/logs", ListActivityLogsHandler(db, rdb))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
