package dto

import (
	"time"

	"github.com/guttosm/spotpulse/internal/domain/models"
)

// WindowRow is one cheapest or priciest block.
type WindowRow struct {
	Hours        int       `json:"hours" example:"3"`
	Start        time.Time `json:"start" example:"2024-01-15T02:00:00Z"`
	End          time.Time `json:"end" example:"2024-01-15T05:00:00Z"`
	AverageCents string    `json:"average_cents_per_kwh" example:"3.21"` // rounded to 2 decimals
}

// WindowsResponse represents the JSON structure returned by GET /api/v1/windows.
type WindowsResponse struct {
	Zone        string      `json:"zone" example:"FI"`
	From        time.Time   `json:"from"`
	To          time.Time   `json:"to"`
	StepMinutes int         `json:"step_minutes" example:"15"`
	Samples     int         `json:"samples" example:"96"`
	Uniform     bool        `json:"uniform" example:"true"` // false when the series has gaps
	Cheapest    []WindowRow `json:"cheapest"`
	Priciest    []WindowRow `json:"priciest"`
}

// NewWindowsResponse maps a report to its API shape.
func NewWindowsResponse(rep *models.WindowReport) WindowsResponse {
	return WindowsResponse{
		Zone:        rep.Area,
		From:        rep.From.UTC(),
		To:          rep.To.UTC(),
		StepMinutes: int(rep.Step / time.Minute),
		Samples:     rep.Samples,
		Uniform:     rep.Uniform,
		Cheapest:    windowRows(rep.Cheapest),
		Priciest:    windowRows(rep.Priciest),
	}
}

func windowRows(rows []models.WindowRow) []WindowRow {
	out := make([]WindowRow, len(rows))
	for i, r := range rows {
		out[i] = WindowRow{
			Hours:        r.Hours,
			Start:        r.Start.UTC(),
			End:          r.End.UTC(),
			AverageCents: r.Average.StringFixed(2),
		}
	}
	return out
}
