package app

import (
	"context"

	"verdra-backend/internal/auth"
	"verdra-backend/internal/config"
	"verdra-backend/internal/database"
	"verdra-backend/internal/health"
	"verdra-backend/internal/middleware"
	"verdra-backend/internal/projects"
	"verdra-backend/internal/store"
	"verdra-backend/internal/trading"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CreateApp builds the Fiber app with all global middleware, opens the store
// (seeding the project catalog on first run) and registers every route.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, nil, nil, err
	}
	ledger, err := store.New(db)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := ledger.Seed(context.Background()); err != nil {
		return nil, nil, nil, err
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler,
	})

	// CORS before session, same order as the Express middleware stack.
	app.Use(middleware.CORS(middleware.CORSConfig{Origin: cfg.CORSOrigin}))

	sessionCfg := middleware.SessionConfig{
		Secret:       cfg.SessionSecret,
		RedisURL:     cfg.RedisURL,
		IsProduction: cfg.Env == "production",
	}
	sessionHandler, rdb, err := middleware.Session(sessionCfg)
	if err != nil {
		return nil, nil, nil, err
	}
	app.Use(sessionHandler)

	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	// Ops endpoints (no session)
	healthHandlers := &health.Handlers{
		Rdb:      rdb,
		DB:       gormPinger{db: db},
		AdminKey: cfg.HealthAdminKey,
	}
	app.Get("/health/json", healthHandlers.JSON)
	app.Get("/health/reset", healthHandlers.Reset)

	// Auth
	authHandlers := &auth.Handlers{
		Service: &auth.Service{Store: ledger},
		Store:   ledger,
		Rdb:     rdb,
		Config:  sessionCfg,
	}
	app.Post("/api/register", authHandlers.Register)
	app.Post("/api/login", authHandlers.Login)
	app.Post("/api/logout", authHandlers.Logout)
	app.Get("/api/user", authHandlers.CurrentUser)

	// Public project catalog
	projectHandlers := &projects.Handlers{Store: ledger}
	app.Get("/api/projects", projectHandlers.List)
	app.Get("/api/projects/:id", projectHandlers.Get)

	// Protected trading routes
	tradingHandlers := &trading.Handlers{
		Service: &trading.Service{Store: ledger},
		Store:   ledger,
	}
	app.Get("/api/credits", middleware.RequireAuth(), tradingHandlers.Credits)
	app.Post("/api/trade", middleware.RequireAuth(), tradingHandlers.Trade)

	return app, db, rdb, nil
}

// gormPinger adapts *gorm.DB to the health check's DBPinger.
type gormPinger struct {
	db *gorm.DB
}

func (g gormPinger) Ping() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
