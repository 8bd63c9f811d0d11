// Package ingestion fetches day-ahead prices for a set of bidding zones and
// persists them, one zone per worker.
package ingestion

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/spotpulse/internal/domain/models"
	"github.com/guttosm/spotpulse/internal/logger"
	"github.com/guttosm/spotpulse/internal/storage"
)

// maxParallel caps concurrent zone fetches to stay polite with the API.
const maxParallel = 4

// ErrAllZonesFailed is returned when not a single zone could be stored.
var ErrAllZonesFailed = errors.New("ingestion: every zone failed")

// repoCtor is an indirection for creating the repository; tests can override this.
var repoCtor = func(db *sql.DB) storage.PricesRepository {
	return storage.NewPricesRepository(db)
}

// Fetcher retrieves and decodes one zone's publication. *entsoe.Client
// satisfies it.
type Fetcher interface {
	GetDayAheadPrices(ctx context.Context, zone models.BiddingZone, start, end time.Time) (*models.PriceDocument, error)
}

// Options controls a single ingestion run.
type Options struct {
	Zones    []models.BiddingZone
	Start    time.Time
	End      time.Time
	Parallel int  // <= 0 selects min(4, NumCPU)
	Force    bool // refetch zones already recorded in the fetch log
}

// ZoneResult is the outcome for one zone.
type ZoneResult struct {
	Zone    string
	Rows    int
	Skipped bool
	Err     error
}

// Summary aggregates the per-zone outcomes of a run, in Options.Zones order.
type Summary struct {
	Results []ZoneResult
	Stored  int
	Rows    int
	Skipped int
	Failed  int
}

// Window returns the fetch interval [start, start+hours) where start is now
// truncated to the hour, so repeated runs within the same hour share a
// fetch-log key.
func Window(now time.Time, hours int) (start, end time.Time) {
	if hours < 1 {
		hours = 24
	}
	start = now.UTC().Truncate(time.Hour)
	return start, start.Add(time.Duration(hours) * time.Hour)
}

// Run fetches and stores prices for every zone in opts.
//
// Parameters:
//   - db: open *sql.DB (PostgreSQL).
//   - fetcher: transport used to retrieve decoded publications.
//   - opts: zones, interval, concurrency and force flag.
//
// Behavior:
//   - Zones are processed concurrently, bounded by opts.Parallel.
//   - A zone already present in the fetch log for opts.Start is skipped unless
//     opts.Force is set.
//   - Each zone is fetched, validated, upserted and logged. A failing zone is
//     recorded in the Summary and does not stop the others.
//
// Returns:
//   - Summary: per-zone outcomes.
//   - error: ctx.Err() when the run was cancelled, ErrAllZonesFailed when no
//     zone succeeded, nil otherwise.
func Run(ctx context.Context, db *sql.DB, fetcher Fetcher, opts Options) (*Summary, error) {
	// use indirection to allow tests to swap repository constructor
	repo := repoCtor(db)
	log := logger.With("ingestion")

	if len(opts.Zones) == 0 {
		opts.Zones = models.AllZones()
	}
	if !opts.Start.Before(opts.End) {
		return nil, fmt.Errorf("ingestion: invalid interval %s .. %s", opts.Start, opts.End)
	}

	parallel := opts.Parallel
	if parallel <= 0 {
		parallel = maxParallel
		if c := runtime.NumCPU(); c < parallel {
			parallel = c
		}
	}

	log.Info().
		Int("zones", len(opts.Zones)).
		Time("start", opts.Start).
		Time("end", opts.End).
		Int("max_parallel", parallel).
		Bool("force", opts.Force).
		Msg("ingestion start")

	// each worker writes only its own slot
	results := make([]ZoneResult, len(opts.Zones))

	// workers never return an error: one zone failing must not cancel the rest
	var g errgroup.Group
	g.SetLimit(parallel)

	for i, zone := range opts.Zones {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = ZoneResult{Zone: zone.Code(), Err: err}
				return nil
			}

			started := time.Now()
			res := processZone(ctx, repo, fetcher, zone, opts)

			ev := log.Info()
			if res.Err != nil {
				ev = log.Error().Err(res.Err)
			}
			ev.Str("zone", res.Zone).
				Int("rows", res.Rows).
				Bool("skipped", res.Skipped).
				Dur("elapsed", time.Since(started)).
				Msg("zone done")

			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	sum := &Summary{Results: results}
	for _, r := range results {
		switch {
		case r.Err != nil:
			sum.Failed++
		case r.Skipped:
			sum.Skipped++
		default:
			sum.Stored++
			sum.Rows += r.Rows
		}
	}

	log.Info().
		Int("stored", sum.Stored).
		Int("skipped", sum.Skipped).
		Int("failed", sum.Failed).
		Int("rows", sum.Rows).
		Msg("ingestion done")

	if err := ctx.Err(); err != nil {
		return sum, err
	}
	if sum.Failed > 0 && sum.Failed == len(results) {
		return sum, ErrAllZonesFailed
	}
	return sum, nil
}

func processZone(ctx context.Context, repo storage.PricesRepository, fetcher Fetcher, zone models.BiddingZone, opts Options) ZoneResult {
	res := ZoneResult{Zone: zone.Code()}

	// Idempotency: skip if already fetched, unless force
	exists, err := repo.HasFetch(ctx, zone.Code(), opts.Start)
	if err != nil {
		res.Err = fmt.Errorf("zone %s: check fetch log: %w", zone, err)
		return res
	}
	if exists && !opts.Force {
		res.Skipped = true
		return res
	}

	doc, err := fetcher.GetDayAheadPrices(ctx, zone, opts.Start, opts.End)
	if err != nil {
		res.Err = fmt.Errorf("zone %s: fetch: %w", zone, err)
		return res
	}
	if err := models.ValidateForStorage(zone.Code(), doc); err != nil {
		res.Err = fmt.Errorf("zone %s: validate: %w", zone, err)
		return res
	}

	n, err := repo.UpsertPrices(ctx, zone.Code(), doc)
	if err != nil {
		res.Err = fmt.Errorf("zone %s: store: %w", zone, err)
		return res
	}
	if err := repo.UpsertFetchLog(ctx, zone.Code(), opts.Start, opts.End, len(doc.Prices)); err != nil {
		res.Err = fmt.Errorf("zone %s: upsert fetch log: %w", zone, err)
		return res
	}

	res.Rows = n
	return res
}
