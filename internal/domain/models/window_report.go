package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// WindowRow is the result of one windowed-extremum query.
//
// Fields:
//   - Hours: requested window length in hours.
//   - Start: first sample of the window.
//   - End: last sample start + one step; Start + Hours when the window has no gaps.
//   - Average: mean sample price over the window, in cents/kWh.
type WindowRow struct {
	Hours   int
	Start   time.Time
	End     time.Time
	Average decimal.Decimal
}

// WindowReport groups the cheapest and priciest windows for a price area.
//
// This model is returned by the API when querying /api/v1/windows.
type WindowReport struct {
	Area     string
	From     time.Time
	To       time.Time
	Step     time.Duration
	Samples  int
	Uniform  bool
	Cheapest []WindowRow
	Priciest []WindowRow
}
