package main

//
//  @title           SpotPulse API
//  @version         1.0
//  @description     Day-ahead electricity prices and cheapest/priciest window analytics.
//  @termsOfService  https://github.com/guttosm/spotpulse
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/spotpulse
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        zones
//  @tag.description Supported bidding zones
//
//  @tag.name        prices
//  @tag.description Stored day-ahead prices
//
//  @tag.name        windows
//  @tag.description Cheapest and priciest contiguous windows
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/guttosm/spotpulse/config"
	_ "github.com/guttosm/spotpulse/docs" // swagger docs
	"github.com/guttosm/spotpulse/internal/app"
	"github.com/guttosm/spotpulse/internal/domain/models"
	"github.com/guttosm/spotpulse/internal/export"
	"github.com/guttosm/spotpulse/internal/ingestion"
	"github.com/guttosm/spotpulse/internal/logger"
	"github.com/guttosm/spotpulse/internal/scheduler"
	"github.com/guttosm/spotpulse/internal/storage"
)

// openDB is an indirection over app.OpenDatabase for tests.
var openDB = app.OpenDatabase

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - port (string): The port where the server will listen for incoming requests.
//
// Returns:
//   - *http.Server: The initialized HTTP server instance.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// waitForSignal blocks until SIGINT or SIGTERM is received.
func waitForSignal() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)
	<-quit
}

// gracefulShutdown gracefully terminates the HTTP server and cleans up resources
// when an OS interrupt signal (SIGINT, SIGTERM) is received.
//
// Parameters:
//   - ctx (context.Context): A context with timeout for graceful shutdown.
//   - server (*http.Server): The HTTP server instance to shut down.
//   - cleanup (func()): Cleanup callback to release resources (e.g., DB connections).
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	waitForSignal()
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// runFetch performs a single ingestion for cfg.Fetch and logs per-zone
// failures. It returns an error when the run failed as a whole.
func runFetch(ctx context.Context, cfg config.Config, force bool) error {
	if err := cfg.RequireAPIToken(); err != nil {
		return err
	}
	opts, err := app.FetchOptions(cfg.Fetch, time.Now(), force)
	if err != nil {
		return err
	}

	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer func() { _ = db.Close() }()

	sum, err := ingestion.Run(ctx, db, app.NewEntsoeClient(cfg.Entsoe), opts)
	if sum != nil {
		for _, r := range sum.Results {
			if r.Err != nil {
				logger.L().Warn().Str("zone", r.Zone).Err(r.Err).Msg("zone failed")
			}
		}
	}
	return err
}

// runSchedule runs ingestion on cfg.Fetch.Schedule until a signal arrives.
// With now set, one run happens immediately before the schedule starts.
func runSchedule(ctx context.Context, cfg config.Config, now bool) error {
	if err := cfg.RequireAPIToken(); err != nil {
		return err
	}

	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer func() { _ = db.Close() }()

	s, err := scheduler.New(cfg.Fetch.Schedule, app.IngestJob(db, app.NewEntsoeClient(cfg.Entsoe), cfg.Fetch))
	if err != nil {
		return err
	}
	if now {
		s.RunNow()
	}
	s.Start()

	waitForSignal()
	logger.L().Info().Msg("stopping scheduler")

	stopCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	return s.Stop(stopCtx)
}

// runExport writes every stored row of zone (all zones when empty) to w as CSV.
func runExport(ctx context.Context, cfg config.Config, zone string, w io.Writer) error {
	area := ""
	if zone != "" {
		z, ok := models.ZoneFromCode(zone)
		if !ok {
			return &models.UnknownZoneError{Code: zone}
		}
		area = z.Code()
	}

	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer func() { _ = db.Close() }()

	return exportRows(ctx, db, area, w)
}

func exportRows(ctx context.Context, db *sql.DB, area string, w io.Writer) error {
	rows, err := storage.NewPricesRepository(db).ExportPrices(ctx, area)
	if err != nil {
		return fmt.Errorf("export query: %w", err)
	}
	return export.WriteCSV(w, rows)
}

// main is the entry point of the spotpulse application.
//
// Modes (selected via --mode flag):
//   - api:      Starts the REST API over stored prices and window analytics.
//   - fetch:    Fetches day-ahead prices for the configured zones once.
//   - schedule: Fetches on the FETCH_SCHEDULE cron spec until interrupted.
//   - export:   Writes stored prices as CSV to stdout.
//
// Flags:
//   - --mode:     Execution mode. Default: "api".
//   - --port:     Port for the API server. Defaults to SERVER_PORT.
//   - --zone:     Zone list for fetch/schedule (overrides FETCH_ZONES), single zone for export.
//   - --hours:    Look-ahead window for fetch/schedule. Defaults to FETCH_HOURS.
//   - --parallel: Concurrent zone fetches. Defaults to FETCH_PARALLEL.
//   - --force:    Refetch zones already recorded in the fetch log.
//   - --now:      In schedule mode, run once immediately.
func main() {
	// Load configuration from environment or .env file
	config.LoadConfig()
	cfg := config.AppConfig

	mode := flag.String("mode", "api", "Mode: api, fetch, schedule or export")
	port := flag.String("port", cfg.Server.Port, "Port for API mode")
	zone := flag.String("zone", "", "Zone codes (comma separated for fetch/schedule, one for export)")
	hours := flag.Int("hours", cfg.Fetch.Hours, "Hours to fetch ahead of the current hour")
	parallel := flag.Int("parallel", cfg.Fetch.Parallel, "Concurrent zone fetches (0=auto)")
	force := flag.Bool("force", false, "Refetch zones already present in the fetch log")
	now := flag.Bool("now", false, "Schedule mode: run once immediately")
	flag.Parse()

	// CSV goes to stdout, so logs move to stderr in export mode
	if *mode == "export" {
		logger.InitWithWriter(os.Stderr)
	} else {
		logger.Init()
	}

	if *zone != "" && *mode != "export" {
		cfg.Fetch.Zones = *zone
	}
	cfg.Fetch.Hours = *hours
	cfg.Fetch.Parallel = *parallel

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch *mode {
	case "api":
		logger.L().Info().Msg("starting API server")

		router, cleanup, initErr := app.InitializeApp()
		if initErr != nil {
			logger.L().Fatal().Err(initErr).Msg("app init error")
		}
		// the API owns its own signal handling
		stop()

		server := startServer(router, *port)
		gracefulShutdown(context.Background(), server, cleanup)

	case "fetch":
		logger.L().Info().Msg("running fetch")
		err = runFetch(ctx, cfg, *force)

	case "schedule":
		logger.L().Info().Str("schedule", cfg.Fetch.Schedule).Msg("running scheduler")
		// the scheduler waits on signals itself
		stop()
		err = runSchedule(context.Background(), cfg, *now)

	case "export":
		err = runExport(ctx, cfg, *zone, os.Stdout)

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}

	if err != nil {
		logger.L().Fatal().Err(err).Str("mode", *mode).Msg("run failed")
	}
	logger.L().Info().Str("mode", *mode).Msg("done")
}
