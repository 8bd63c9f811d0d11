package dto

import (
	"time"

	"github.com/guttosm/spotpulse/internal/domain/models"
)

// ZoneResponse describes one supported bidding zone.
type ZoneResponse struct {
	Code string `json:"code" example:"FI"`
	EIC  string `json:"eic" example:"10YFI-1--------U"`
}

// PriceRow is one stored price sample.
type PriceRow struct {
	Timestamp   time.Time `json:"timestamp" example:"2024-01-15T00:00:00Z"`
	PricePerKWh string    `json:"price_per_kwh" example:"0.04510"` // EUR/kWh, 5 decimals
	Currency    string    `json:"currency" example:"EUR"`
}

// PricesResponse represents the JSON structure returned by GET /api/v1/prices.
type PricesResponse struct {
	Zone   string     `json:"zone" example:"FI"`
	From   time.Time  `json:"from"`
	To     time.Time  `json:"to"`
	Count  int        `json:"count" example:"96"`
	Prices []PriceRow `json:"prices"`
}

// NewZonesResponse maps zones to their API shape.
func NewZonesResponse(zones []models.BiddingZone) []ZoneResponse {
	out := make([]ZoneResponse, len(zones))
	for i, z := range zones {
		out[i] = ZoneResponse{Code: z.Code(), EIC: z.EIC()}
	}
	return out
}

// NewPricesResponse maps stored rows to their API shape.
func NewPricesResponse(zone string, from, to time.Time, rows []models.StoredPrice) PricesResponse {
	out := PricesResponse{Zone: zone, From: from.UTC(), To: to.UTC(), Count: len(rows), Prices: make([]PriceRow, len(rows))}
	for i, r := range rows {
		out.Prices[i] = PriceRow{
			Timestamp:   r.Timestamp.UTC(),
			PricePerKWh: r.Price.StringFixed(5),
			Currency:    r.Currency,
		}
	}
	return out
}
