// Package entsoe talks to the ENTSO-E Transparency Platform: it fetches
// day-ahead price publications and decodes them into models.PriceDocument.
package entsoe

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/guttosm/spotpulse/internal/domain/models"
)

// DecodeDayAheadPrices decodes a day-ahead price publication (document type
// A44) in a single forward pass over the XML token stream.
//
// Behavior:
//   - currency and resolution are first-wins; the global period start/end are
//     the earliest start and latest end of every Period time interval.
//   - Each Period's own interval start anchors its points; a point lands at
//     anchor + (position-1) * resolution.
//   - Points with an unparsable or non-finite price, an unparsable position,
//     no known anchor, or a timestamp at or past the global end are dropped
//     silently.
//   - Samples are sorted by timestamp; when revisions repeat a timestamp the
//     one appearing last in the document is kept.
//   - Unknown elements are ignored.
//
// Errors:
//   - *SyntaxError when the input is not well-formed XML (checked first, the
//     scan stops at the first syntax error).
//   - *MissingFieldError when currency, resolution, period start or period
//     end never appeared.
//   - ErrEmptyResult when no usable point remained.
//   - ErrInvalidPeriod when the global start is not before the global end.
//
// The function keeps no state between calls and is safe for concurrent use.
func DecodeDayAheadPrices(data []byte) (*models.PriceDocument, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var (
		m       machine
		acc     accumulator
		field   string
		text    strings.Builder
		sawRoot bool
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &SyntaxError{Err: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			sawRoot = true
			if m.start(t.Name.Local) {
				acc.enter(m.state)
			}
			field = t.Name.Local
			text.Reset()

		case xml.EndElement:
			if field == t.Name.Local {
				acc.field(m.state, field, strings.TrimSpace(text.String()))
			}
			field = ""
			if left, ok := m.end(); ok {
				acc.leave(left)
			}

		case xml.CharData:
			if m.depth == 0 {
				if len(bytes.TrimSpace(t)) > 0 {
					return nil, &SyntaxError{Err: errors.New("character data outside root element")}
				}
				continue
			}
			if field != "" {
				text.Write(t)
			}
		}
	}

	if !sawRoot {
		return nil, &SyntaxError{Err: errors.New("no root element")}
	}

	return acc.finish()
}

// rawPoint is a point captured before the document-wide resolution is known.
type rawPoint struct {
	anchor   time.Time
	position int
	price    float64
}

// accumulator is the fold state threaded through the token loop.
type accumulator struct {
	currency   string
	resolution models.Resolution

	start, end         time.Time
	haveStart, haveEnd bool

	anchor     time.Time
	haveAnchor bool

	position     int
	havePosition bool
	price        float64
	havePrice    bool

	points []rawPoint
}

func (a *accumulator) enter(s parseState) {
	switch s {
	case stateInPeriod:
		a.haveAnchor = false
	case stateInPoint:
		a.havePosition = false
		a.havePrice = false
	}
}

func (a *accumulator) leave(s parseState) {
	if s != stateInPoint {
		return
	}
	if a.havePosition && a.havePrice && a.haveAnchor {
		a.points = append(a.points, rawPoint{anchor: a.anchor, position: a.position, price: a.price})
	}
	a.havePosition = false
	a.havePrice = false
}

func (a *accumulator) field(s parseState, name, text string) {
	if text == "" {
		return
	}

	switch name {
	case fieldCurrency:
		if s.insideTimeSeries() && a.currency == "" {
			a.currency = text
		}

	case fieldResolution:
		if s.insidePeriod() && a.resolution == 0 {
			if r, ok := models.ParseResolution(text); ok {
				a.resolution = r
			}
		}

	case fieldStart:
		if s != stateInTimeInterval {
			return
		}
		ts, err := parseInstant(text)
		a.anchor, a.haveAnchor = ts, err == nil
		if err == nil && (!a.haveStart || ts.Before(a.start)) {
			a.start, a.haveStart = ts, true
		}

	case fieldEnd:
		if s != stateInTimeInterval {
			return
		}
		if ts, err := parseInstant(text); err == nil && (!a.haveEnd || ts.After(a.end)) {
			a.end, a.haveEnd = ts, true
		}

	case fieldPosition:
		if s != stateInPoint {
			return
		}
		pos, err := strconv.Atoi(text)
		a.position, a.havePosition = pos, err == nil && pos >= 1

	case fieldPrice:
		if s != stateInPoint {
			return
		}
		price, err := strconv.ParseFloat(text, 64)
		a.price, a.havePrice = price, err == nil && !math.IsNaN(price) && !math.IsInf(price, 0)
	}
}

func (a *accumulator) finish() (*models.PriceDocument, error) {
	switch {
	case a.currency == "":
		return nil, &MissingFieldError{Field: fieldCurrency}
	case a.resolution == 0:
		return nil, &MissingFieldError{Field: fieldResolution}
	case !a.haveStart:
		return nil, &MissingFieldError{Field: "period start"}
	case !a.haveEnd:
		return nil, &MissingFieldError{Field: "period end"}
	}
	if len(a.points) == 0 {
		return nil, ErrEmptyResult
	}
	if !a.start.Before(a.end) {
		return nil, ErrInvalidPeriod
	}

	step := a.resolution.Duration()
	prices := make([]models.PricePoint, 0, len(a.points))
	for _, p := range a.points {
		// positions that would land at or past the period end are dropped
		// before the offset multiplication can overflow
		slots := a.end.Sub(p.anchor) / step
		if int64(p.position-1) >= int64(slots) {
			continue
		}
		prices = append(prices, models.PricePoint{
			Timestamp: p.anchor.Add(time.Duration(p.position-1) * step),
			Price:     p.price,
		})
	}
	if len(prices) == 0 {
		return nil, ErrEmptyResult
	}

	slices.SortStableFunc(prices, func(x, y models.PricePoint) int {
		return x.Timestamp.Compare(y.Timestamp)
	})

	return &models.PriceDocument{
		Currency:    a.currency,
		Resolution:  a.resolution,
		PeriodStart: a.start,
		PeriodEnd:   a.end,
		Prices:      keepLastPerTimestamp(prices),
	}, nil
}

// keepLastPerTimestamp collapses runs of equal timestamps in a stably sorted
// slice to their last element.
func keepLastPerTimestamp(sorted []models.PricePoint) []models.PricePoint {
	out := sorted[:0]
	for i, p := range sorted {
		if i+1 < len(sorted) && sorted[i+1].Timestamp.Equal(p.Timestamp) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// parseInstant parses an RFC 3339 instant, tolerating a missing seconds
// field ("2024-01-15T00:00Z"), and returns it in UTC.
func parseInstant(s string) (time.Time, error) {
	ts, err := time.Parse(time.RFC3339, normalizeInstant(s))
	if err != nil {
		return time.Time{}, err
	}
	return ts.UTC(), nil
}

// normalizeInstant inserts ":00" before the zone designator when the clock
// part only has hours and minutes.
func normalizeInstant(s string) string {
	t := strings.IndexByte(s, 'T')
	if t < 0 {
		return s
	}
	clock := s[t+1:]
	zone := strings.IndexAny(clock, "Z+-")
	if zone < 0 {
		zone = len(clock)
	}
	if strings.Count(clock[:zone], ":") != 1 {
		return s
	}
	return s[:t+1] + clock[:zone] + ":00" + clock[zone:]
}
