package yahoo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient(
		WithBaseURL(server.URL),
		WithRateLimit(100),
	)
	return client, server
}

func TestGetQuote(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v7/finance/quote" {
			t.Errorf("path = %q, want /v7/finance/quote", r.URL.Path)
		}
		if got := r.URL.Query().Get("symbols"); got != "ACME" {
			t.Errorf("symbols = %q, want ACME", got)
		}
		if r.Header.Get("User-Agent") == "" {
			t.Error("missing User-Agent header")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"quoteResponse": {
				"result": [{
					"symbol": "ACME",
					"regularMarketPrice": 82.5,
					"fiftyTwoWeekHigh": 100.0,
					"trailingAnnualDividendRate": 3.4,
					"epsTrailingTwelveMonths": 8.2,
					"epsForward": 9.1,
					"currency": "USD",
					"longName": "Acme Corporation",
					"shortName": "Acme"
				}],
				"error": null
			}
		}`))
	})
	defer server.Close()

	quote, err := client.GetQuote(context.Background(), "acme")
	if err != nil {
		t.Fatalf("GetQuote failed: %v", err)
	}

	if quote.Ticker != "ACME" {
		t.Errorf("Ticker = %q, want normalized ACME", quote.Ticker)
	}
	if quote.Price == nil || *quote.Price != 82.5 {
		t.Errorf("Price = %v, want 82.5", quote.Price)
	}
	if quote.FiftyTwoWeekHigh == nil || *quote.FiftyTwoWeekHigh != 100.0 {
		t.Errorf("FiftyTwoWeekHigh = %v, want 100.0", quote.FiftyTwoWeekHigh)
	}
	if quote.AnnualDividend == nil || *quote.AnnualDividend != 3.4 {
		t.Errorf("AnnualDividend = %v, want 3.4", quote.AnnualDividend)
	}
	if quote.Currency == nil || *quote.Currency != "USD" {
		t.Errorf("Currency = %v, want USD", quote.Currency)
	}
	if quote.CompanyName == nil || *quote.CompanyName != "Acme Corporation" {
		t.Errorf("CompanyName = %v, want long name", quote.CompanyName)
	}
	if quote.FetchedAt.IsZero() {
		t.Error("FetchedAt not set")
	}
}

func TestGetQuoteAbsentFieldsStayNil(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"quoteResponse": {
				"result": [{
					"symbol": "NODIV",
					"regularMarketPrice": 40.0,
					"shortName": "No Dividend Inc"
				}],
				"error": null
			}
		}`))
	})
	defer server.Close()

	quote, err := client.GetQuote(context.Background(), "NODIV")
	if err != nil {
		t.Fatalf("GetQuote failed: %v", err)
	}

	// Omitted fields must be nil, not zero: the resolver depends on the
	// difference to retain stored values.
	if quote.AnnualDividend != nil {
		t.Errorf("AnnualDividend = %v, want nil for omitted field", quote.AnnualDividend)
	}
	if quote.FiftyTwoWeekHigh != nil {
		t.Errorf("FiftyTwoWeekHigh = %v, want nil", quote.FiftyTwoWeekHigh)
	}
	if quote.CompanyName == nil || *quote.CompanyName != "No Dividend Inc" {
		t.Errorf("CompanyName = %v, want short name fallback", quote.CompanyName)
	}
}

func TestGetQuoteExplicitZeroDividend(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"quoteResponse": {
				"result": [{
					"symbol": "ZERO",
					"regularMarketPrice": 40.0,
					"trailingAnnualDividendRate": 0
				}],
				"error": null
			}
		}`))
	})
	defer server.Close()

	quote, err := client.GetQuote(context.Background(), "ZERO")
	if err != nil {
		t.Fatalf("GetQuote failed: %v", err)
	}

	if quote.AnnualDividend == nil || *quote.AnnualDividend != 0 {
		t.Errorf("AnnualDividend = %v, want explicit 0", quote.AnnualDividend)
	}
}

func TestGetQuoteHTTPError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	})
	defer server.Close()

	_, err := client.GetQuote(context.Background(), "ACME")
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("StatusCode = %d, want 429", apiErr.StatusCode)
	}
}

func TestGetQuoteProviderError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"quoteResponse": {
				"result": [],
				"error": {"code": "Not Found", "description": "No data found"}
			}
		}`))
	})
	defer server.Close()

	if _, err := client.GetQuote(context.Background(), "BOGUS"); err == nil {
		t.Fatal("expected error for provider-level failure")
	}
}

func TestGetQuoteEmptyResult(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"quoteResponse": {"result": [], "error": null}}`))
	})
	defer server.Close()

	if _, err := client.GetQuote(context.Background(), "GHOST"); err == nil {
		t.Fatal("expected error for empty result set")
	}
}

func TestGetQuoteEmptyTicker(t *testing.T) {
	client := NewClient()

	if _, err := client.GetQuote(context.Background(), "   "); err == nil {
		t.Fatal("expected error for empty ticker")
	}
}
