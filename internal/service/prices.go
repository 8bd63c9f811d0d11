package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/guttosm/spotpulse/internal/analysis"
	"github.com/guttosm/spotpulse/internal/domain/models"
	"github.com/guttosm/spotpulse/internal/storage"
)

var (
	// ErrInvalidRange is returned when from is not before to.
	ErrInvalidRange = errors.New("from must be before to")
	// ErrNoData is returned when the requested range holds no stored prices.
	ErrNoData = errors.New("no prices stored for the requested range")
)

// WindowQuery selects the series a window report is built from.
type WindowQuery struct {
	Zone  string
	From  time.Time
	To    time.Time
	Hours []int
	// FutureOnly drops samples that start before the current hour.
	FutureOnly bool
}

// PriceService exposes stored prices and window analytics to the API layer.
type PriceService interface {
	Zones() []models.BiddingZone
	Prices(ctx context.Context, zone string, from, to time.Time) ([]models.StoredPrice, error)
	Windows(ctx context.Context, q WindowQuery) (*models.WindowReport, error)
}

type priceService struct {
	repo storage.PricesRepository
	now  func() time.Time
}

func NewPriceService(repo storage.PricesRepository) PriceService {
	return &priceService{repo: repo, now: time.Now}
}

func (s *priceService) Zones() []models.BiddingZone {
	return models.AllZones()
}

// Prices returns the stored EUR/kWh rows of zone in [from, to).
func (s *priceService) Prices(ctx context.Context, zone string, from, to time.Time) ([]models.StoredPrice, error) {
	z, err := resolve(zone, from, to)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.LoadPrices(ctx, z.Code(), from, to)
	if err != nil {
		return nil, fmt.Errorf("load prices: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNoData
	}
	return rows, nil
}

// Windows builds the cheapest/priciest report for q. Averages are in
// cents/kWh, unrounded.
func (s *priceService) Windows(ctx context.Context, q WindowQuery) (*models.WindowReport, error) {
	z, err := resolve(q.Zone, q.From, q.To)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.LoadPrices(ctx, z.Code(), q.From, q.To)
	if err != nil {
		return nil, fmt.Errorf("load prices: %w", err)
	}

	var cutoff time.Time
	if q.FutureOnly {
		cutoff = s.now().UTC().Truncate(time.Hour)
	}

	periods := make([]analysis.Period, 0, len(rows))
	for _, r := range rows {
		if r.Timestamp.Before(cutoff) {
			continue
		}
		periods = append(periods, analysis.Period{Start: r.Timestamp, Price: models.CentsPerKWh(r.Price)})
	}
	if len(periods) == 0 {
		return nil, ErrNoData
	}

	step, uniform := analysis.Step(periods)
	cheapest, priciest := analysis.BuildReport(periods, step, q.Hours)

	return &models.WindowReport{
		Area:     z.Code(),
		From:     q.From,
		To:       q.To,
		Step:     step,
		Samples:  len(periods),
		Uniform:  uniform,
		Cheapest: cheapest,
		Priciest: priciest,
	}, nil
}

func resolve(zone string, from, to time.Time) (models.BiddingZone, error) {
	z, ok := models.ZoneFromCode(zone)
	if !ok {
		return models.BiddingZone{}, &models.UnknownZoneError{Code: zone}
	}
	if !from.Before(to) {
		return models.BiddingZone{}, ErrInvalidRange
	}
	return z, nil
}
