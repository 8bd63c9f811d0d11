package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/spotpulse/internal/domain/dto"
	"github.com/guttosm/spotpulse/internal/domain/models"
	"github.com/guttosm/spotpulse/internal/middleware"
	"github.com/guttosm/spotpulse/internal/service"
)

// defaultSpan is how far before and after now the default query range reaches.
const defaultSpan = 24 * time.Hour

// maxWindowHours bounds a single entry of the hours parameter.
const maxWindowHours = 48

// Handler provides HTTP handlers for zone, price and window endpoints.
//
// Responsibilities:
//   - Validate incoming HTTP query parameters
//   - Delegate reads and analytics to the service layer
//   - Translate service results into response DTOs
type Handler struct {
	svc service.PriceService
	now func() time.Time
}

// NewHandler constructs a new Handler instance.
//
// Parameters:
//   - svc (service.PriceService): service used for price lookups and window analytics.
//
// Returns:
//   - *Handler: A handler ready to be registered with the router.
func NewHandler(svc service.PriceService) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

// ListZones godoc
// @Summary      List bidding zones
// @Description  Returns every supported bidding zone with its EIC code
// @Tags         zones
// @Produce      json
// @Success      200  {array}   dto.ZoneResponse
// @Router       /api/v1/zones [get]
func (h *Handler) ListZones(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewZonesResponse(h.svc.Zones()))
}

// GetPrices godoc
// @Summary      Get stored prices
// @Description  Returns stored EUR/kWh prices of a zone in the half-open range [from, to)
// @Tags         prices
// @Produce      json
// @Param        zone  query     string  true   "Bidding zone code" example(FI)
// @Param        from  query     string  false  "RFC3339 start, defaults to now-24h" example(2024-01-15T00:00:00Z)
// @Param        to    query     string  false  "RFC3339 end, defaults to now+24h" example(2024-01-16T00:00:00Z)
// @Success      200   {object}  dto.PricesResponse  "Success"
// @Failure      400   {object}  dto.ErrorResponse   "Bad Request"
// @Failure      404   {object}  dto.ErrorResponse   "Not Found"
// @Failure      500   {object}  dto.ErrorResponse   "Internal Error"
// @Router       /api/v1/prices [get]
func (h *Handler) GetPrices(c *gin.Context) {
	zone, from, to, ok := h.parseRange(c)
	if !ok {
		return
	}

	rows, err := h.svc.Prices(c.Request.Context(), zone, from, to)
	if err != nil {
		h.fail(c, "failed to load prices", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPricesResponse(strings.ToUpper(zone), from, to, rows))
}

// GetWindows godoc
// @Summary      Get cheapest and priciest windows
// @Description  Returns, for each requested length in hours, the contiguous block with the lowest and the highest average price
// @Tags         windows
// @Produce      json
// @Param        zone    query     string  true   "Bidding zone code" example(FI)
// @Param        from    query     string  false  "RFC3339 start, defaults to now-24h"
// @Param        to      query     string  false  "RFC3339 end, defaults to now+24h"
// @Param        hours   query     string  false  "Comma separated window lengths" example(1,2,3,5,8,13)
// @Param        future  query     bool    false  "Only consider samples from the current hour on"
// @Success      200     {object}  dto.WindowsResponse  "Success"
// @Failure      400     {object}  dto.ErrorResponse    "Bad Request"
// @Failure      404     {object}  dto.ErrorResponse    "Not Found"
// @Failure      500     {object}  dto.ErrorResponse    "Internal Error"
// @Router       /api/v1/windows [get]
func (h *Handler) GetWindows(c *gin.Context) {
	zone, from, to, ok := h.parseRange(c)
	if !ok {
		return
	}

	hours, err := parseHours(c.Query("hours"))
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid hours", err)
		return
	}

	future := false
	if s := c.Query("future"); s != "" {
		future, err = strconv.ParseBool(s)
		if err != nil {
			middleware.AbortWithError(c, http.StatusBadRequest, "invalid future flag", err)
			return
		}
	}

	rep, err := h.svc.Windows(c.Request.Context(), service.WindowQuery{
		Zone:       zone,
		From:       from,
		To:         to,
		Hours:      hours,
		FutureOnly: future,
	})
	if err != nil {
		h.fail(c, "failed to build window report", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewWindowsResponse(rep))
}

// parseRange reads zone, from and to. On failure it has already answered
// the request.
func (h *Handler) parseRange(c *gin.Context) (zone string, from, to time.Time, ok bool) {
	zone = strings.TrimSpace(c.Query("zone"))
	if zone == "" {
		middleware.AbortWithError(c, http.StatusBadRequest, "zone is required", nil)
		return "", time.Time{}, time.Time{}, false
	}

	now := h.now().UTC().Truncate(time.Hour)
	from, to = now.Add(-defaultSpan), now.Add(defaultSpan)

	var err error
	if s := c.Query("from"); s != "" {
		if from, err = time.Parse(time.RFC3339, s); err != nil {
			middleware.AbortWithError(c, http.StatusBadRequest, "invalid from, expected RFC3339", err)
			return "", time.Time{}, time.Time{}, false
		}
	}
	if s := c.Query("to"); s != "" {
		if to, err = time.Parse(time.RFC3339, s); err != nil {
			middleware.AbortWithError(c, http.StatusBadRequest, "invalid to, expected RFC3339", err)
			return "", time.Time{}, time.Time{}, false
		}
	}
	return zone, from.UTC(), to.UTC(), true
}

// fail maps service errors onto HTTP statuses.
func (h *Handler) fail(c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, models.ErrUnknownZone):
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid zone", err)
	case errors.Is(err, service.ErrInvalidRange):
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid range", err)
	case errors.Is(err, service.ErrNoData):
		middleware.AbortWithError(c, http.StatusNotFound, "no data found", err)
	default:
		middleware.AbortWithError(c, http.StatusInternalServerError, message, err)
	}
}

// parseHours reads a comma separated list of window lengths. An empty value
// yields nil, which the analysis layer reads as analysis.DefaultHours.
func parseHours(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", part)
		}
		if n < 1 || n > maxWindowHours {
			return nil, fmt.Errorf("%d is outside 1..%d", n, maxWindowHours)
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, errors.New("no window lengths given")
	}
	return out, nil
}
