package analysis

import (
	"time"

	"github.com/guttosm/spotpulse/internal/domain/models"
)

// DefaultHours are the window lengths evaluated when the caller names none.
var DefaultHours = []int{1, 2, 3, 5, 8, 13}

// DefaultStep is assumed when a series is too short to infer its spacing.
const DefaultStep = 15 * time.Minute

// Step infers the sampling interval of an ordered series as its smallest
// positive gap. uniform is false when any gap differs from that interval,
// which happens when the source skipped samples.
func Step(periods []Period) (step time.Duration, uniform bool) {
	for i := 1; i < len(periods); i++ {
		gap := periods[i].Start.Sub(periods[i-1].Start)
		if gap > 0 && (step == 0 || gap < step) {
			step = gap
		}
	}
	if step == 0 {
		return DefaultStep, true
	}
	for i := 1; i < len(periods); i++ {
		if periods[i].Start.Sub(periods[i-1].Start) != step {
			return step, false
		}
	}
	return step, true
}

// BuildReport evaluates the cheapest and priciest window for every hour count
// in hours (DefaultHours when empty). Hour counts that do not map to a whole,
// non-zero number of samples, or that are longer than the series, are left
// out of the report.
func BuildReport(periods []Period, step time.Duration, hours []int) (cheapest, priciest []models.WindowRow) {
	if len(hours) == 0 {
		hours = DefaultHours
	}
	if step <= 0 {
		step = DefaultStep
	}

	for _, h := range hours {
		n := samplesPerWindow(h, step)
		if n == 0 {
			continue
		}
		if w, ok := Cheapest(periods, n); ok {
			cheapest = append(cheapest, row(periods, w, h, n, step))
		}
		if w, ok := Priciest(periods, n); ok {
			priciest = append(priciest, row(periods, w, h, n, step))
		}
	}
	return cheapest, priciest
}

func samplesPerWindow(hours int, step time.Duration) int {
	if hours <= 0 {
		return 0
	}
	span := time.Duration(hours) * time.Hour
	if span%step != 0 {
		return 0
	}
	return int(span / step)
}

// row closes the window one step after its last sample, so a window that
// spans a gap in the series reports the time it actually covers.
func row(periods []Period, w Window, hours, n int, step time.Duration) models.WindowRow {
	return models.WindowRow{
		Hours:   hours,
		Start:   periods[w.Index].Start,
		End:     periods[w.Index+n-1].Start.Add(step),
		Average: w.Average(n),
	}
}
