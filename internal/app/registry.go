package app

import (
	"database/sql"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/elkisser/the-cookie-box/internal/auth"
	"github.com/elkisser/the-cookie-box/internal/cart"
	"github.com/elkisser/the-cookie-box/internal/catalog"
	"github.com/elkisser/the-cookie-box/internal/events"
	"github.com/elkisser/the-cookie-box/internal/middleware"
	"github.com/elkisser/the-cookie-box/internal/pkg/config"
	"github.com/elkisser/the-cookie-box/internal/session"
	"github.com/elkisser/the-cookie-box/internal/storage"
)

type registryDeps struct {
	cfg       config.Config
	db        *sql.DB
	redis     *redis.Client
	publisher events.Publisher
	uploads   storage.Service
	logger    *zap.Logger
}

func registerModules(router *gin.Engine, deps registryDeps) *session.Manager {
	// --- Repositories ---
	authRepo := auth.NewRepository(deps.db)
	productRepo := catalog.NewRepository(deps.db)

	// --- Services ---
	authService := auth.NewService(authRepo, deps.cfg.JWTSecret)
	productService := catalog.NewService(productRepo, deps.uploads, deps.publisher, deps.logger.Named("catalog"))

	// --- Sessions (cart + toasts per visitor) ---
	newSlot := session.SlotFactory(func(sessionID string) cart.Slot {
		return cart.NewMemorySlot()
	})
	if deps.redis != nil {
		newSlot = func(sessionID string) cart.Slot {
			return cart.NewRedisSlot(deps.redis, sessionID, deps.cfg.SessionTTL)
		}
	}
	sessions := session.NewManager(newSlot, deps.cfg.SessionTTL, deps.logger.Named("session"))

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	productHandler := catalog.NewHandler(productService)
	sessionHandler := session.NewHandler(sessions)

	// --- Routes ---
	router.Use(middleware.RequestID())

	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		catalog.RegisterRoutes(api, productHandler)
		session.RegisterRoutes(api, sessionHandler)
	}

	return sessions
}
