package entsoe

import (
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/spotpulse/internal/domain/models"
)

func utc(y int, mo time.Month, d, h, mi int) time.Time {
	return time.Date(y, mo, d, h, mi, 0, 0, time.UTC)
}

// doc wraps TimeSeries fragments in a publication document.
func doc(series ...string) []byte {
	return []byte(`<?xml version="1.0" encoding="UTF-8"?>
<Publication_MarketDocument xmlns="urn:iec62325.351:tc57wg16:451-3:publicationdocument:7:3">` +
		strings.Join(series, "") + `</Publication_MarketDocument>`)
}

func series(currency string, periods ...string) string {
	cur := ""
	if currency != "" {
		cur = "<currency_Unit.name>" + currency + "</currency_Unit.name>"
	}
	return "<TimeSeries>" + cur + strings.Join(periods, "") + "</TimeSeries>"
}

func period(start, end, resolution string, points ...string) string {
	res := ""
	if resolution != "" {
		res = "<resolution>" + resolution + "</resolution>"
	}
	return "<Period><timeInterval><start>" + start + "</start><end>" + end + "</end></timeInterval>" +
		res + strings.Join(points, "") + "</Period>"
}

func point(position, price string) string {
	return "<Point><position>" + position + "</position><price.amount>" + price + "</price.amount></Point>"
}

func TestDecodeDayAheadPrices_Fixture(t *testing.T) {
	data, err := os.ReadFile("testdata/day_ahead_prices_fi.xml")
	require.NoError(t, err)

	out, err := DecodeDayAheadPrices(data)
	require.NoError(t, err)

	assert.Equal(t, "EUR", out.Currency)
	assert.Equal(t, models.PT15M, out.Resolution)
	assert.Equal(t, utc(2024, 1, 15, 0, 0), out.PeriodStart)
	assert.Equal(t, utc(2024, 1, 15, 2, 0), out.PeriodEnd)
	require.Len(t, out.Prices, 8)

	// the second TimeSeries is chronologically first
	assert.Equal(t, utc(2024, 1, 15, 0, 0), out.Prices[0].Timestamp)
	assert.Equal(t, 45.10, out.Prices[0].Price)
	assert.Equal(t, utc(2024, 1, 15, 1, 45), out.Prices[7].Timestamp)
	assert.Equal(t, 36.90, out.Prices[7].Price)
	assert.True(t, models.IsStrictlyIncreasing(out.Prices))
	for _, p := range out.Prices {
		assert.Greater(t, p.Price, 0.0)
	}
}

func TestDecodeDayAheadPrices_TimestampReconstruction(t *testing.T) {
	cases := []struct {
		name       string
		resolution string
		position   string
		want       time.Time
	}{
		{name: "15 minute position 5", resolution: "PT15M", position: "5", want: utc(2024, 1, 15, 1, 0)},
		{name: "15 minute position 1", resolution: "PT15M", position: "1", want: utc(2024, 1, 15, 0, 0)},
		{name: "60 minute position 24", resolution: "PT60M", position: "24", want: utc(2024, 1, 15, 23, 0)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data := doc(series("EUR", period("2024-01-15T00:00:00Z", "2024-01-16T00:00:00Z", tc.resolution, point(tc.position, "10"))))
			out, err := DecodeDayAheadPrices(data)
			require.NoError(t, err)
			require.Len(t, out.Prices, 1)
			assert.Equal(t, tc.want, out.Prices[0].Timestamp)
		})
	}
}

func TestDecodeDayAheadPrices_MissingFields(t *testing.T) {
	cases := []struct {
		name  string
		data  []byte
		field string
	}{
		{
			name:  "empty root",
			data:  []byte(`<?xml version="1.0"?><root></root>`),
			field: "currency_Unit.name",
		},
		{
			name:  "no currency",
			data:  doc(series("", period("2024-01-15T00:00Z", "2024-01-15T01:00Z", "PT60M", point("1", "1")))),
			field: "currency_Unit.name",
		},
		{
			name:  "no resolution",
			data:  doc(series("EUR", period("2024-01-15T00:00Z", "2024-01-15T01:00Z", "", point("1", "1")))),
			field: "resolution",
		},
		{
			name:  "unknown resolution code",
			data:  doc(series("EUR", period("2024-01-15T00:00Z", "2024-01-15T01:00Z", "PT30M", point("1", "1")))),
			field: "resolution",
		},
		{
			name:  "unparsable start",
			data:  doc(series("EUR", period("yesterday", "2024-01-15T01:00Z", "PT60M", point("1", "1")))),
			field: "period start",
		},
		{
			name:  "unparsable end",
			data:  doc(series("EUR", period("2024-01-15T00:00Z", "later", "PT60M", point("1", "1")))),
			field: "period end",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := DecodeDayAheadPrices(tc.data)
			require.Nil(t, out)
			var mf *MissingFieldError
			require.ErrorAs(t, err, &mf)
			assert.Equal(t, tc.field, mf.Field)
			assert.ErrorIs(t, err, ErrDecode)
		})
	}
}

func TestDecodeDayAheadPrices_SyntaxErrors(t *testing.T) {
	cases := map[string][]byte{
		"truncated":      []byte(`<?xml version="1.0"?><Publication_MarketDocument><TimeSeries><currency_Unit.name>EUR`),
		"mismatched tag": []byte(`<Publication_MarketDocument><TimeSeries></Period></Publication_MarketDocument>`),
		"garbled":        []byte("\x00\x01\x02 not xml <<<>>>"),
		"plain text":     []byte("Service Unavailable"),
		"empty":          {},
		"invalid utf8":   []byte("<a>\xff\xfe</a>"),
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			out, err := DecodeDayAheadPrices(data)
			require.Nil(t, out)
			var se *SyntaxError
			require.ErrorAs(t, err, &se)
			assert.NotNil(t, se.Err)
			assert.ErrorIs(t, err, ErrDecode)
		})
	}
}

func TestDecodeDayAheadPrices_SyntaxErrorDominates(t *testing.T) {
	// A valid prefix followed by broken markup still fails as a syntax error,
	// even though every summary field was already seen.
	data := []byte(`<Publication_MarketDocument><TimeSeries><currency_Unit.name>EUR</currency_Unit.name>` +
		period("2024-01-15T00:00Z", "2024-01-15T01:00Z", "PT60M", point("1", "1")) + `</TimeSeries><broken`)
	_, err := DecodeDayAheadPrices(data)
	var se *SyntaxError
	require.ErrorAs(t, err, &se)
}

func TestDecodeDayAheadPrices_EmptyResult(t *testing.T) {
	cases := map[string][]byte{
		"no points":        doc(series("EUR", period("2024-01-15T00:00Z", "2024-01-15T01:00Z", "PT60M"))),
		"all incomplete":   doc(series("EUR", period("2024-01-15T00:00Z", "2024-01-15T01:00Z", "PT60M", point("x", "1"), point("1", "n/a")))),
		"position zero":    doc(series("EUR", period("2024-01-15T00:00Z", "2024-01-15T01:00Z", "PT60M", point("0", "1")))),
		"missing position": doc(series("EUR", period("2024-01-15T00:00Z", "2024-01-15T01:00Z", "PT60M", "<Point><price.amount>1</price.amount></Point>"))),
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			out, err := DecodeDayAheadPrices(data)
			require.Nil(t, out)
			require.ErrorIs(t, err, ErrEmptyResult)
			assert.ErrorIs(t, err, ErrDecode)
		})
	}
}

func TestDecodeDayAheadPrices_InvalidPeriod(t *testing.T) {
	data := doc(series("EUR", period("2024-01-15T01:00Z", "2024-01-15T00:00Z", "PT60M", point("1", "1"))))
	_, err := DecodeDayAheadPrices(data)
	require.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestDecodeDayAheadPrices_DropsIncompletePoints(t *testing.T) {
	data := doc(series("EUR", period("2024-01-15T00:00Z", "2024-01-15T01:00Z", "PT15M",
		point("1", "10.5"),
		point("two", "11"),
		point("3", ""),
		point("4", "-3.25"),
	)))
	out, err := DecodeDayAheadPrices(data)
	require.NoError(t, err)
	require.Len(t, out.Prices, 2)
	assert.Equal(t, models.PricePoint{Timestamp: utc(2024, 1, 15, 0, 0), Price: 10.5}, out.Prices[0])
	assert.Equal(t, models.PricePoint{Timestamp: utc(2024, 1, 15, 0, 45), Price: -3.25}, out.Prices[1])
}

func TestDecodeDayAheadPrices_NonFinitePricesDropped(t *testing.T) {
	data := doc(series("EUR", period("2024-01-15T00:00Z", "2024-01-15T01:00Z", "PT15M",
		point("1", "NaN"),
		point("2", "Inf"),
		point("3", "-Inf"),
		point("4", "12.5"),
	)))
	out, err := DecodeDayAheadPrices(data)
	require.NoError(t, err)
	require.Len(t, out.Prices, 1)
	assert.Equal(t, models.PricePoint{Timestamp: utc(2024, 1, 15, 0, 45), Price: 12.5}, out.Prices[0])
}

func TestDecodeDayAheadPrices_PositionPastEndDropped(t *testing.T) {
	data := doc(series("EUR", period("2024-01-15T00:00Z", "2024-01-15T01:00Z", "PT15M",
		point("2", "7"),
		point("5", "8"),
		point("99999999999", "9"),
	)))
	out, err := DecodeDayAheadPrices(data)
	require.NoError(t, err)
	require.Len(t, out.Prices, 1)
	assert.Equal(t, models.PricePoint{Timestamp: utc(2024, 1, 15, 0, 15), Price: 7}, out.Prices[0])
	assert.Equal(t, utc(2024, 1, 15, 1, 0), out.PeriodEnd)
}

func TestDecodeDayAheadPrices_AllPositionsPastEnd(t *testing.T) {
	data := doc(series("EUR", period("2024-01-15T00:00Z", "2024-01-15T01:00Z", "PT60M",
		point("2", "1"),
		point("9223372036854775807", "2"),
	)))
	out, err := DecodeDayAheadPrices(data)
	require.Nil(t, out)
	require.ErrorIs(t, err, ErrEmptyResult)
}

func TestDecodeDayAheadPrices_PointWithoutAnchorDropped(t *testing.T) {
	// The second Period's start is unparsable, so its anchor is unknown and its
	// point is dropped; the first Period's anchor must not leak into it.
	data := doc(series("EUR",
		period("2024-01-15T00:00Z", "2024-01-15T01:00Z", "PT60M", point("1", "1")),
		period("garbage", "2024-01-15T02:00Z", "PT60M", point("1", "2")),
	))
	out, err := DecodeDayAheadPrices(data)
	require.NoError(t, err)
	require.Len(t, out.Prices, 1)
	assert.Equal(t, 1.0, out.Prices[0].Price)
	assert.Equal(t, utc(2024, 1, 15, 2, 0), out.PeriodEnd)
}

func TestDecodeDayAheadPrices_FirstWinsAndRunningExtrema(t *testing.T) {
	data := doc(
		series("EUR", period("2024-01-15T12:00Z", "2024-01-15T13:00Z", "PT60M", point("1", "5"))),
		series("SEK", period("2024-01-15T02:00Z", "2024-01-15T03:00Z", "PT15M", point("1", "6"))),
		series("NOK", period("2024-01-15T20:00Z", "2024-01-15T22:00Z", "PT60M", point("2", "7"))),
	)
	out, err := DecodeDayAheadPrices(data)
	require.NoError(t, err)

	assert.Equal(t, "EUR", out.Currency)
	assert.Equal(t, models.PT60M, out.Resolution)
	assert.Equal(t, utc(2024, 1, 15, 2, 0), out.PeriodStart)
	assert.Equal(t, utc(2024, 1, 15, 22, 0), out.PeriodEnd)

	require.Len(t, out.Prices, 3)
	assert.Equal(t, utc(2024, 1, 15, 2, 0), out.Prices[0].Timestamp)
	assert.Equal(t, utc(2024, 1, 15, 12, 0), out.Prices[1].Timestamp)
	assert.Equal(t, utc(2024, 1, 15, 21, 0), out.Prices[2].Timestamp)
}

func TestDecodeDayAheadPrices_LaterRevisionWins(t *testing.T) {
	data := doc(
		series("EUR", period("2024-01-15T00:00Z", "2024-01-15T02:00Z", "PT60M", point("1", "10"), point("2", "20"))),
		series("EUR", period("2024-01-15T01:00Z", "2024-01-15T02:00Z", "PT60M", point("1", "25"))),
	)
	out, err := DecodeDayAheadPrices(data)
	require.NoError(t, err)
	require.Len(t, out.Prices, 2)
	assert.Equal(t, 10.0, out.Prices[0].Price)
	assert.Equal(t, 25.0, out.Prices[1].Price)
	assert.True(t, models.IsStrictlyIncreasing(out.Prices))
}

func TestDecodeDayAheadPrices_IgnoresMisplacedElements(t *testing.T) {
	// Points outside a Period, a currency outside any TimeSeries and unknown
	// extension elements do not contribute.
	data := []byte(`<Publication_MarketDocument>
		<currency_Unit.name>USD</currency_Unit.name>
		<Point><position>1</position><price.amount>999</price.amount></Point>
		<TimeSeries>
			<currency_Unit.name>EUR</currency_Unit.name>
			<Point><position>1</position><price.amount>998</price.amount></Point>
			<ext:vendorData xmlns:ext="urn:example">ignored</ext:vendorData>
			<Period>
				<timeInterval><start>2024-01-15T00:00Z</start><end>2024-01-15T01:00Z</end></timeInterval>
				<resolution>PT60M</resolution>
				<Point><position>1</position><price.amount>42</price.amount><quality>A04</quality></Point>
			</Period>
		</TimeSeries>
	</Publication_MarketDocument>`)
	out, err := DecodeDayAheadPrices(data)
	require.NoError(t, err)
	assert.Equal(t, "EUR", out.Currency)
	require.Len(t, out.Prices, 1)
	assert.Equal(t, 42.0, out.Prices[0].Price)
}

func TestDecodeDayAheadPrices_WhitespaceAndSecondsVariants(t *testing.T) {
	data := doc(series("  EUR \n", period(" 2024-01-15T00:00:00Z ", "\n2024-01-15T01:00Z\n", " PT15M ", point(" 2 ", " 12.5 "))))
	out, err := DecodeDayAheadPrices(data)
	require.NoError(t, err)
	assert.Equal(t, "EUR", out.Currency)
	require.Len(t, out.Prices, 1)
	assert.Equal(t, utc(2024, 1, 15, 0, 15), out.Prices[0].Timestamp)
	assert.Equal(t, 12.5, out.Prices[0].Price)
}

func TestDecodeDayAheadPrices_Concurrent(t *testing.T) {
	data, err := os.ReadFile("testdata/day_ahead_prices_fi.xml")
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := DecodeDayAheadPrices(data)
			if err != nil {
				errs <- err
				return
			}
			if len(out.Prices) != 8 {
				errs <- errors.New("unexpected sample count")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}

func TestNormalizeInstant(t *testing.T) {
	cases := map[string]string{
		"2024-01-15T00:00Z":         "2024-01-15T00:00:00Z",
		"2024-01-15T00:00:00Z":      "2024-01-15T00:00:00Z",
		"2024-01-15T23:45+01:00":    "2024-01-15T23:45:00+01:00",
		"2024-01-15T23:45:10+01:00": "2024-01-15T23:45:10+01:00",
		"2024-01-15T23:45-05:00":    "2024-01-15T23:45:00-05:00",
		"2024-01-15":                "2024-01-15",
		"2024-01-15T00:00:00.500Z":  "2024-01-15T00:00:00.500Z",
	}
	for in, want := range cases {
		assert.Equal(t, want, normalizeInstant(in), in)
	}
}

func TestParseInstant_ConvertsToUTC(t *testing.T) {
	ts, err := parseInstant("2024-01-15T01:00+01:00")
	require.NoError(t, err)
	assert.Equal(t, utc(2024, 1, 15, 0, 0), ts)
	assert.Equal(t, time.UTC, ts.Location())

	_, err = parseInstant("2024-01-15T01:00")
	assert.Error(t, err)
}
