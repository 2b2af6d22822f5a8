package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"ChartPull/internal/domain/models"
	drepo "ChartPull/internal/domain/repository"
	"ChartPull/internal/service/ratelimit"
	xhttp "ChartPull/pkg/http"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// Client implements a BarSource backed by the Yahoo Finance chart API.
// Yahoo retains roughly 7 days of 1m history, so callers are expected to
// persist what they fetch.
type Client struct {
	baseURL string
	http    *xhttp.Client
	limiter *ratelimit.Limiter
	maxRPS  float64
	burst   float64
}

// Option configures Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL (tests point this at a stub).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithRateLimit caps outbound requests per symbol.
func WithRateLimit(maxRPS, burst float64) Option {
	return func(c *Client) {
		c.maxRPS = maxRPS
		c.burst = burst
	}
}

// WithHTTPTimeout sets the outbound request timeout.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http = xhttp.NewClient(
			xhttp.WithTimeout(d),
			xhttp.WithUserAgent("ChartPull/1.0"),
		)
	}
}

// New creates a Yahoo Finance BarSource.
func New(opts ...Option) drepo.BarSource {
	c := &Client{
		baseURL: defaultBaseURL,
		http:    xhttp.NewClient(xhttp.WithUserAgent("ChartPull/1.0")),
		limiter: ratelimit.New(),
		maxRPS:  2,
		burst:   5,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Name() string { return "yahoo" }

// chart API envelope; price slots may be null for halted minutes.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchDay fetches 1m bars covering one trading day, timestamps converted to
// the day's location.
func (c *Client) FetchDay(ctx context.Context, symbol string, day time.Time) ([]models.Candle, error) {
	if !c.limiter.Allow(symbol, c.burst, c.maxRPS) {
		return nil, fmt.Errorf("yahoo: rate limit exceeded for %s", symbol)
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	var resp chartResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: http.MethodGet,
		URL:    fmt.Sprintf("%s/v8/finance/chart/%s", c.baseURL, symbol),
		QueryParams: map[string]string{
			"period1":        strconv.FormatInt(start.Unix(), 10),
			"period2":        strconv.FormatInt(end.Unix(), 10),
			"interval":       "1m",
			"includePrePost": "true",
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("yahoo chart %s: %w", symbol, err)
	}

	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo chart %s: %s (%s)", symbol, resp.Chart.Error.Description, resp.Chart.Error.Code)
	}
	if len(resp.Chart.Result) == 0 {
		return []models.Candle{}, nil
	}

	result := resp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return []models.Candle{}, nil
	}
	quote := result.Indicators.Quote[0]

	bars := make([]models.Candle, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		o := at(quote.Open, i)
		h := at(quote.High, i)
		l := at(quote.Low, i)
		cl := at(quote.Close, i)
		if o == nil || h == nil || l == nil || cl == nil {
			continue // halted or missing minute
		}
		var v int64
		if vol := atInt(quote.Volume, i); vol != nil {
			v = *vol
		}
		bars = append(bars, models.Candle{
			Timestamp: time.Unix(ts, 0).In(day.Location()),
			Open:      *o,
			High:      *h,
			Low:       *l,
			Close:     *cl,
			Volume:    v,
		})
	}
	return bars, nil
}

func at(xs []*float64, i int) *float64 {
	if i >= len(xs) {
		return nil
	}
	return xs[i]
}

func atInt(xs []*int64, i int) *int64 {
	if i >= len(xs) {
		return nil
	}
	return xs[i]
}
