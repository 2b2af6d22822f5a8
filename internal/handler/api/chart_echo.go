package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"ChartPull/internal/domain/models"
	"ChartPull/internal/usecase"
	xhttp "ChartPull/pkg/http"
	"ChartPull/pkg/logger"
	"ChartPull/pkg/util"
)

// ChartEchoHandler serves the chart data API.
type ChartEchoHandler struct {
	logger  *logger.Logger
	charts  *usecase.ChartDataUseCase
	candles *usecase.CandlesUseCase
	stream  *StreamEchoHandler
	mock    bool
}

type ChartHandlerOption func(*ChartEchoHandler)

func WithCandles(uc *usecase.CandlesUseCase) ChartHandlerOption {
	return func(h *ChartEchoHandler) { h.candles = uc }
}

func WithStream(s *StreamEchoHandler) ChartHandlerOption {
	return func(h *ChartEchoHandler) { h.stream = s }
}

// WithMockResponses switches the data endpoint to the fixed empty-dataset
// shape used by local front-end development.
func WithMockResponses(mock bool) ChartHandlerOption {
	return func(h *ChartEchoHandler) { h.mock = mock }
}

func NewChartEchoHandler(log *logger.Logger, charts *usecase.ChartDataUseCase, opts ...ChartHandlerOption) *ChartEchoHandler {
	h := &ChartEchoHandler{logger: log, charts: charts}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *ChartEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/test", h.Test)
	g.GET("/health", h.Health)
	g.GET("/mnq-data", h.MNQData)
	if h.candles != nil {
		g.GET("/candles", h.Candles)
	}
	if h.stream != nil {
		g.GET("/stream", h.stream.Stream)
	}
}

// Test is a trivial liveness probe kept verbatim from the front-end contract.
func (h *ChartEchoHandler) Test(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "success",
		"message": "Serverless function is working!",
	})
}

func (h *ChartEchoHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"message":   "API is working",
	})
}

// MNQData returns intraday datasets for one trading day.
//
// In mock mode the response is a flat timeframe map with empty arrays and the
// date parameter is ignored, matching what the front end stubs against. In
// provider mode the payload carries the resolved date and session hours.
func (h *ChartEchoHandler) MNQData(c echo.Context) error {
	if h.mock {
		return c.JSON(http.StatusOK, models.EmptyDataset())
	}

	var req models.MNQDataRequest
	if verrs := xhttp.ReadAndValidateRequest(c, &req); verrs != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid date format",
		})
	}
	day, err := h.charts.ResolveDay(req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid date format",
		})
	}

	data, err := h.charts.GetChartData(c.Request().Context(), day)
	if err != nil {
		if errors.Is(err, usecase.ErrNoData) {
			return c.JSON(http.StatusNotFound, echo.Map{
				"error": "No data found for this date. Yahoo Finance typically only provides intraday data for the last 7 days.",
			})
		}
		h.logger.Error("chart data request failed",
			logger.String("date", day.Format(util.DateLayout)),
			logger.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, data)
}

// Candles queries locally captured 1m bars by symbol and time range.
func (h *ChartEchoHandler) Candles(c echo.Context) error {
	var req models.CandlesRequest
	if verrs := xhttp.ReadAndValidateRequest(c, &req); verrs != nil {
		return xhttp.BadRequestResponse(c, verrs)
	}

	loc := h.charts.Location()
	from, ok := parseRangeBound(req.From, loc, false)
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("invalid from date"))
	}
	to, ok := parseRangeBound(req.To, loc, true)
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("invalid to date"))
	}

	result, err := h.candles.GetCandles(c.Request().Context(), usecase.GetCandlesParams{
		Symbol: req.Symbol,
		From:   from,
		To:     to,
		Limit:  req.Limit,
	})
	if err != nil {
		h.logger.Error("candle query failed",
			logger.String("symbol", req.Symbol),
			logger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("candle query failed"))
	}

	return xhttp.SuccessResponse(c, result)
}

// parseRangeBound accepts RFC3339, unix seconds, or a plain YYYY-MM-DD date.
// A date-only end bound is widened to the end of that day. Empty input
// defaults to a trailing seven-day window.
func parseRangeBound(s string, loc *time.Location, isEnd bool) (time.Time, bool) {
	if s == "" {
		now := time.Now().In(loc)
		if isEnd {
			return now, true
		}
		return now.AddDate(0, 0, -7), true
	}
	if t, ok := util.ParseTime(s); ok {
		return t.In(loc), true
	}
	day, err := util.ParseTradingDay(s, loc)
	if err != nil {
		return time.Time{}, false
	}
	if isEnd {
		day = day.AddDate(0, 0, 1)
	}
	return day, true
}
