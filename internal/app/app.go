package app

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/spotpulse/config"
	"github.com/guttosm/spotpulse/internal/api"
	"github.com/guttosm/spotpulse/internal/service"
	"github.com/guttosm/spotpulse/internal/storage"
)

// migrator applies schema migrations; tests replace it to keep sqlmock quiet.
var migrator = storage.Migrate

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Connects to PostgreSQL and applies pending migrations.
//   - Builds the repository, the price service and the HTTP handler.
//   - Configures the Gin router and registers health and readiness probes.
//   - Provides a cleanup function that closes the DB connection.
//
// Returns:
//   - *gin.Engine: the configured Gin HTTP router.
//   - func(): cleanup function to be executed on shutdown.
//   - error: any initialization error that occurred.
func InitializeApp() (*gin.Engine, func(), error) {
	cfg := config.AppConfig

	// indirection for unit testing
	db, err := postgresOpener(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	if err := migrator(db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to migrate: %w", err)
	}

	repo := storage.NewPricesRepository(db)
	svc := service.NewPriceService(repo)
	handler := api.NewHandler(svc)
	router := api.NewRouter(handler)

	api.NewHealthHandler(db.PingContext).Register(router)

	cleanup := func() {
		_ = db.Close()
	}

	return router, cleanup, nil
}
