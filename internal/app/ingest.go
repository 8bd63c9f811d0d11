package app

import (
	"context"
	"database/sql"
	"time"

	"github.com/guttosm/spotpulse/config"
	"github.com/guttosm/spotpulse/internal/domain/models"
	"github.com/guttosm/spotpulse/internal/entsoe"
	"github.com/guttosm/spotpulse/internal/ingestion"
	"github.com/guttosm/spotpulse/internal/logger"
	"github.com/guttosm/spotpulse/internal/scheduler"
)

// ingestRunner is an indirection over ingestion.Run for tests.
var ingestRunner = ingestion.Run

// NewEntsoeClient builds the transparency platform client from cfg.
func NewEntsoeClient(cfg config.EntsoeConfig) *entsoe.Client {
	opts := []entsoe.ClientOption{}
	if cfg.Timeout > 0 {
		opts = append(opts, entsoe.WithTimeout(cfg.Timeout))
	}
	if cfg.MaxRetries >= 0 {
		opts = append(opts, entsoe.WithMaxRetries(uint64(cfg.MaxRetries)))
	}
	return entsoe.NewClient(cfg.BaseURL, cfg.APIToken, opts...)
}

// FetchOptions resolves the configured zone list and the fetch window
// starting at the hour containing now.
func FetchOptions(cfg config.FetchConfig, now time.Time, force bool) (ingestion.Options, error) {
	zones, err := models.ParseZones(cfg.Zones)
	if err != nil {
		return ingestion.Options{}, err
	}
	start, end := ingestion.Window(now, cfg.Hours)
	return ingestion.Options{
		Zones:    zones,
		Start:    start,
		End:      end,
		Parallel: cfg.Parallel,
		Force:    force,
	}, nil
}

// IngestJob returns a scheduler job that runs one ingestion for the zones
// in cfg, with a window recomputed at every execution.
func IngestJob(db *sql.DB, fetcher ingestion.Fetcher, cfg config.FetchConfig) scheduler.Job {
	return func(ctx context.Context, runID string) error {
		opts, err := FetchOptions(cfg, time.Now(), false)
		if err != nil {
			return err
		}
		sum, err := ingestRunner(ctx, db, fetcher, opts)
		if sum != nil {
			log := logger.With("scheduler")
			log.Info().
				Str("run_id", runID).
				Int("stored", sum.Stored).
				Int("skipped", sum.Skipped).
				Int("failed", sum.Failed).
				Msg("scheduled ingestion finished")
		}
		return err
	}
}
