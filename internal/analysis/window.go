// Package analysis finds the cheapest and priciest contiguous windows in an
// ordered price series.
package analysis

import (
	"time"

	"github.com/shopspring/decimal"
)

// Period is one sample of an ordered, uniformly spaced series. Price is
// already in whatever unit the caller wants averages in.
type Period struct {
	Start time.Time
	Price decimal.Decimal
}

// Window identifies a run of samples by its first index and the sum of its
// prices.
type Window struct {
	Index int
	Sum   decimal.Decimal
}

// Average returns Sum divided by the window length n.
func (w Window) Average(n int) decimal.Decimal {
	return w.Sum.Div(decimal.NewFromInt(int64(n)))
}

// Cheapest returns the window of exactly n samples with the smallest sum.
// The earliest window wins ties. ok is false when periods is empty, n is
// zero, or n exceeds len(periods).
func Cheapest(periods []Period, n int) (Window, bool) {
	return extremum(periods, n, func(sum, best decimal.Decimal) bool { return sum.LessThan(best) })
}

// Priciest returns the window of exactly n samples with the largest sum,
// under the same rules as Cheapest.
func Priciest(periods []Period, n int) (Window, bool) {
	return extremum(periods, n, func(sum, best decimal.Decimal) bool { return sum.GreaterThan(best) })
}

// extremum slides a fixed-size window across periods in one pass. better must
// be strict so that ties keep the earlier window.
func extremum(periods []Period, n int, better func(sum, best decimal.Decimal) bool) (Window, bool) {
	if n <= 0 || n > len(periods) {
		return Window{}, false
	}

	sum := decimal.Zero
	for _, p := range periods[:n] {
		sum = sum.Add(p.Price)
	}
	best := Window{Index: 0, Sum: sum}

	for i := n; i < len(periods); i++ {
		sum = sum.Sub(periods[i-n].Price).Add(periods[i].Price)
		if better(sum, best.Sum) {
			best = Window{Index: i - n + 1, Sum: sum}
		}
	}
	return best, true
}
