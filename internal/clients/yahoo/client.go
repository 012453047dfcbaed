// Package yahoo provides a client for the Yahoo Finance quote API
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/avaldsgard/divvy/internal/common"
	"github.com/avaldsgard/divvy/internal/interfaces"
	"github.com/avaldsgard/divvy/internal/models"
)

const (
	DefaultBaseURL   = "https://query1.finance.yahoo.com"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 2 // requests per second

	// Yahoo rejects requests with an empty or default Go user agent.
	userAgent = "Mozilla/5.0 (compatible; divvy/1.0)"
)

// Client implements the QuoteClient interface against Yahoo Finance.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Yahoo Finance client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents a provider error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("yahoo API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("url", c.baseURL+path).Msg("Yahoo API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// quoteResponse mirrors the v7 quote envelope. Fields are pointers so an
// omitted value stays distinguishable from a provider-sent zero.
type quoteResponse struct {
	QuoteResponse struct {
		Result []struct {
			Symbol                     string   `json:"symbol"`
			RegularMarketPrice         *float64 `json:"regularMarketPrice"`
			FiftyTwoWeekHigh           *float64 `json:"fiftyTwoWeekHigh"`
			TrailingAnnualDividendRate *float64 `json:"trailingAnnualDividendRate"`
			EPSTrailingTwelveMonths    *float64 `json:"epsTrailingTwelveMonths"`
			EPSForward                 *float64 `json:"epsForward"`
			Currency                   *string  `json:"currency"`
			LongName                   *string  `json:"longName"`
			ShortName                  *string  `json:"shortName"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteResponse"`
}

// GetQuote retrieves the current quote for a single ticker.
func (c *Client) GetQuote(ctx context.Context, ticker string) (*models.Quote, error) {
	ticker = models.NormalizeTicker(ticker)
	if ticker == "" {
		return nil, fmt.Errorf("ticker is required")
	}

	params := url.Values{}
	params.Set("symbols", ticker)

	var resp quoteResponse
	if err := c.get(ctx, "/v7/finance/quote", params, &resp); err != nil {
		return nil, err
	}

	if resp.QuoteResponse.Error != nil {
		return nil, &APIError{
			StatusCode: http.StatusOK,
			Message:    fmt.Sprintf("%s: %s", resp.QuoteResponse.Error.Code, resp.QuoteResponse.Error.Description),
			Endpoint:   "/v7/finance/quote",
		}
	}

	if len(resp.QuoteResponse.Result) == 0 {
		return nil, fmt.Errorf("no quote data for %s", ticker)
	}

	r := resp.QuoteResponse.Result[0]

	quote := &models.Quote{
		Ticker:           ticker,
		Price:            r.RegularMarketPrice,
		FiftyTwoWeekHigh: r.FiftyTwoWeekHigh,
		AnnualDividend:   r.TrailingAnnualDividendRate,
		EPSTrailing:      r.EPSTrailingTwelveMonths,
		EPSForward:       r.EPSForward,
		Currency:         r.Currency,
		CompanyName:      r.LongName,
		FetchedAt:        time.Now(),
	}
	if quote.CompanyName == nil {
		quote.CompanyName = r.ShortName
	}

	c.logger.Debug().
		Str("ticker", ticker).
		Bool("has_price", quote.Price != nil).
		Bool("has_dividend", quote.AnnualDividend != nil).
		Msg("Yahoo quote fetched")

	return quote, nil
}

// Ensure Client implements QuoteClient
var _ interfaces.QuoteClient = (*Client)(nil)
