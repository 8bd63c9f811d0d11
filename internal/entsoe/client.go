package entsoe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/guttosm/spotpulse/internal/domain/models"
	"github.com/guttosm/spotpulse/internal/logger"
)

// DefaultBaseURL is the public Transparency Platform REST endpoint.
const DefaultBaseURL = "https://web-api.tp.entsoe.eu/api"

// documentTypeDayAhead selects day-ahead price publications.
const documentTypeDayAhead = "A44"

// periodLayout is the yyyyMMddHHmm form the API expects for periodStart/periodEnd.
const periodLayout = "200601021504"

// maxBodyBytes caps how much of a response is read into memory.
const maxBodyBytes = 16 << 20

// ErrInvalidTimeRange is returned when the requested start is not before end.
var ErrInvalidTimeRange = errors.New("entsoe: period start must be before period end")

// APIError is a non-2xx answer from the platform.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("entsoe: api returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("entsoe: api returned status %d: %s", e.StatusCode, e.Body)
}

// IsRetryable reports whether the request may succeed when repeated.
func (e *APIError) IsRetryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// Client fetches day-ahead price publications for one API token.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        zerolog.Logger

	maxRetries     uint64
	initialBackoff time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient builds a client. An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL, token string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:        baseURL,
		token:          token,
		httpClient:     &http.Client{Timeout: 30 * time.Second},
		log:            logger.With("entsoe"),
		maxRetries:     3,
		initialBackoff: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithMaxRetries sets how many times a retryable failure is repeated.
func WithMaxRetries(n uint64) ClientOption {
	return func(c *Client) {
		c.maxRetries = n
	}
}

// WithInitialBackoff sets the first retry delay; later delays grow exponentially.
func WithInitialBackoff(d time.Duration) ClientOption {
	return func(c *Client) {
		c.initialBackoff = d
	}
}

// FetchDayAheadPrices downloads the raw publication for zone over [start, end).
// Times are sent in UTC.
func (c *Client) FetchDayAheadPrices(ctx context.Context, zone models.BiddingZone, start, end time.Time) ([]byte, error) {
	if !start.Before(end) {
		return nil, ErrInvalidTimeRange
	}
	reqURL, err := c.dayAheadURL(zone, start, end)
	if err != nil {
		return nil, err
	}

	var body []byte
	op := func() error {
		b, err := c.get(ctx, reqURL)
		if err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) && !apiErr.IsRetryable() {
				return backoff.Permanent(err)
			}
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return err
		}
		body = b
		return nil
	}

	notify := func(err error, wait time.Duration) {
		c.log.Warn().Err(err).
			Str("zone", zone.Code()).
			Dur("retry_in", wait).
			Msg("day-ahead request failed, retrying")
	}

	if err := backoff.RetryNotify(op, c.newBackOff(ctx), notify); err != nil {
		return nil, err
	}

	c.log.Debug().
		Str("zone", zone.Code()).
		Int("bytes", len(body)).
		Msg("day-ahead publication fetched")
	return body, nil
}

// GetDayAheadPrices fetches and decodes the publication for zone over [start, end).
func (c *Client) GetDayAheadPrices(ctx context.Context, zone models.BiddingZone, start, end time.Time) (*models.PriceDocument, error) {
	data, err := c.FetchDayAheadPrices(ctx, zone, start, end)
	if err != nil {
		return nil, err
	}
	return DecodeDayAheadPrices(data)
}

func (c *Client) newBackOff(ctx context.Context) backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = c.initialBackoff
	eb.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(eb, c.maxRetries), ctx)
}

func (c *Client) dayAheadURL(zone models.BiddingZone, start, end time.Time) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("entsoe: parse base url: %w", err)
	}
	q := u.Query()
	q.Set("documentType", documentTypeDayAhead)
	q.Set("in_Domain", zone.EIC())
	q.Set("out_Domain", zone.EIC())
	q.Set("periodStart", formatPeriod(start))
	q.Set("periodEnd", formatPeriod(end))
	q.Set("securityToken", c.token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *Client) get(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("entsoe: create request: %w", err)
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("entsoe: do request: %w", redactURL(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("entsoe: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: truncate(string(body), 512)}
	}
	return body, nil
}

// redactURL strips the query string, which carries the security token, from
// the URL the http client embeds in transport errors.
func redactURL(err error) error {
	var ue *url.Error
	if !errors.As(err, &ue) {
		return err
	}
	redacted := *ue
	if u, perr := url.Parse(ue.URL); perr == nil {
		u.RawQuery = ""
		redacted.URL = u.String()
	} else {
		redacted.URL = ""
	}
	return &redacted
}

func formatPeriod(t time.Time) string {
	return t.UTC().Format(periodLayout)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
