package app

import (
	"context"
	"net/http"
	"os"
	"time"

	"leaveline/internal/dialogue"
	"leaveline/internal/ledger"
	"leaveline/internal/middleware"
	"leaveline/internal/normalize"
	"leaveline/internal/notify"
	"leaveline/internal/session"
	"leaveline/internal/shared/connection"
	"leaveline/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		zap.L().Warn("invalid duration in env, using fallback",
			zap.String("key", key),
			zap.String("value", v),
		)
	}
	return fallback
}

// BuildApp wires the session store, ledger, notifier and dialogue and
// registers all routes on the router.
func BuildApp(router *gin.Engine) error {
	logger := zap.L().Named("app")

	router.Use(middleware.RequestID())

	router.GET("/", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{
			"service": "leaveline",
			"status":  "ok",
		})
	})

	sessionTTL := getenvDuration("SESSION_TTL", 30*time.Minute)

	// --- Session store ---
	var sessions session.Store
	switch getenv("SESSION_BACKEND", "memory") {
	case "redis":
		rdb, err := connection.ConnectRedisWithRetry(getenv("REDIS_ADDR", "localhost:6379"), 5)
		if err != nil {
			return err
		}
		sessions = session.NewRedisStore(rdb, sessionTTL)
	default:
		store := session.NewMemoryStore(sessionTTL)
		go store.StartSweeper(context.Background(), time.Minute)
		sessions = store
	}

	// --- Notifier ---
	var notifier notify.Notifier
	if broker := os.Getenv("KAFKA_BROKER"); broker != "" {
		writer, err := connection.ConnectKafkaWithRetry(broker, 5)
		if err != nil {
			return err
		}
		notifier = notify.NewKafkaNotifier(writer, os.Getenv("NOTIFY_TOPIC"))
	} else {
		logger.Warn("KAFKA_BROKER not set, confirmations will not be sent")
		notifier = notify.NewNoopNotifier()
	}

	// --- Ledger ---
	ledgerRepo := ledger.NewFileRepository(getenv("LEDGER_PATH", "leave_ledger.json"))
	ledgerService := ledger.NewService(ledgerRepo)

	// --- Dialogue ---
	dialogueService := dialogue.NewService(
		sessions,
		ledgerService,
		notifier,
		normalize.NewDateParser(),
		getenv("COMPANY_DOMAIN", "example.com"),
	)
	dialogueHandler := dialogue.NewHandler(dialogueService)

	// Webhook traffic is modest even under load; 10 rps with a burst
	// of 30 per source comfortably covers real call volumes.
	root := router.Group("", middleware.RateLimitByIP(rate.Limit(10), 30))
	dialogue.RegisterRoutes(root, dialogueHandler)

	logger.Info("application wired",
		zap.String("session_backend", getenv("SESSION_BACKEND", "memory")),
	)
	return nil
}
