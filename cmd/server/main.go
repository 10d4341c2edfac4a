package main

import (
	"context"      // context package is needed for Redis operations
	"database/sql" // Lazy connection pool for MySQL

	"task_rewards/internal/api"    // API handlers and router
	"task_rewards/internal/config" // Configuration
	"task_rewards/internal/db"     // Schema migration

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Open the MySQL pool lazily: a store that is down at startup is
	// logged but must not stop the process. Handlers stay mounted and
	// every request against a down store surfaces a 500.
	sqlDB, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		logrus.Fatalf("invalid database configuration: %v", err)
	}
	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to initialize ORM: %v", err)
	}
	if err := sqlDB.Ping(); err != nil {
		logrus.Errorf("database unreachable at startup: %v", err)
	} else if err := db.Migrate(gormDB); err != nil {
		logrus.Errorf("migration failed: %v", err)
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logrus.Errorf("redis unreachable at startup: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	r := api.NewRouter(gormDB, redisClient, cfg)

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	logrus.Info("Server running on " + cfg.AppPort)
	if err := r.Run(":" + cfg.AppPort); err != nil {
		logrus.Fatalf("server stopped: %v", err)
	}
}
