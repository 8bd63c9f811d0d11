package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Resolution is the sampling granularity of a day-ahead price series.
type Resolution int

const (
	// PT15M is the quarter-hour resolution (15 minutes per sample).
	PT15M Resolution = iota + 1
	// PT60M is the hourly resolution (60 minutes per sample).
	PT60M
)

// ParseResolution maps a resolution code ("PT15M", "PT60M") to a Resolution.
// Unknown codes return ok=false; the caller decides whether that matters.
func ParseResolution(code string) (Resolution, bool) {
	switch code {
	case "PT15M":
		return PT15M, true
	case "PT60M":
		return PT60M, true
	default:
		return 0, false
	}
}

// Minutes returns the number of minutes covered by one sample.
func (r Resolution) Minutes() int {
	switch r {
	case PT15M:
		return 15
	case PT60M:
		return 60
	default:
		return 0
	}
}

// Duration returns the sample length as a time.Duration.
func (r Resolution) Duration() time.Duration {
	return time.Duration(r.Minutes()) * time.Minute
}

func (r Resolution) String() string {
	switch r {
	case PT15M:
		return "PT15M"
	case PT60M:
		return "PT60M"
	default:
		return "unknown"
	}
}

var (
	kwhPerMWh = decimal.NewFromInt(1000)
	hundred   = decimal.NewFromInt(100)
)

// PricePoint is a single day-ahead price sample.
//
// Timestamp is a UTC instant marking the start of the sample interval and
// Price is expressed in EUR/MWh, as published.
type PricePoint struct {
	Timestamp time.Time
	Price     float64
}

// PricePerKWh converts the EUR/MWh price to EUR/kWh.
func (p PricePoint) PricePerKWh() decimal.Decimal {
	return decimal.NewFromFloat(p.Price).Div(kwhPerMWh)
}

// CentsPerKWh converts an EUR/kWh amount to euro cents per kWh.
func CentsPerKWh(eurPerKWh decimal.Decimal) decimal.Decimal {
	return eurPerKWh.Mul(hundred)
}

// PriceDocument is a fully decoded day-ahead publication.
//
// Prices is sorted strictly ascending by Timestamp and never empty;
// PeriodStart is before PeriodEnd. Documents are only produced whole by the
// decoder.
type PriceDocument struct {
	Currency    string
	Resolution  Resolution
	PeriodStart time.Time
	PeriodEnd   time.Time
	Prices      []PricePoint
}

// StoredPrice is a persisted price row, keyed by (Timestamp, Area).
// Price is in EUR/kWh.
type StoredPrice struct {
	Timestamp time.Time       `json:"timestamp"`
	Price     decimal.Decimal `json:"price_per_kwh"`
	Currency  string          `json:"currency"`
	Area      string          `json:"price_area"`
}
