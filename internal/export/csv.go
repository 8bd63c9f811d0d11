// Package export renders stored prices as CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/guttosm/spotpulse/internal/domain/models"
)

// Header is the first CSV record.
var Header = []string{"timestamp", "price_per_kwh", "currency", "price_area"}

// WriteCSV writes rows as CSV with an RFC 3339 UTC timestamp and the EUR/kWh
// price fixed to 5 decimals.
func WriteCSV(w io.Writer, rows []models.StoredPrice) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("export: write header: %w", err)
	}
	for _, r := range rows {
		rec := []string{
			r.Timestamp.UTC().Format(time.RFC3339),
			r.Price.StringFixed(5),
			r.Currency,
			r.Area,
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("export: write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
