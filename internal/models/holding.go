// Package models defines data structures for Divvy
package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
)

// Recommendation is the discrete tier a holding is classified into,
// ordered from most to least bullish.
type Recommendation string

const (
	RecommendationStrongBuy  Recommendation = "strong_buy"
	RecommendationAccumulate Recommendation = "accumulate"
	RecommendationHold       Recommendation = "hold"
	RecommendationPause      Recommendation = "pause"
	RecommendationSell       Recommendation = "sell"
)

// Recommendations lists all tiers from most to least bullish.
var Recommendations = []Recommendation{
	RecommendationStrongBuy,
	RecommendationAccumulate,
	RecommendationHold,
	RecommendationPause,
	RecommendationSell,
}

// ParseRecommendation maps a stored string to a tier, tolerating case and
// whitespace. Unknown values come back empty rather than failing the row.
func ParseRecommendation(s string) Recommendation {
	v := Recommendation(strings.ToLower(strings.TrimSpace(s)))
	for _, r := range Recommendations {
		if v == r {
			return r
		}
	}
	return ""
}

// DividendSource records the provenance of the dividend fields.
type DividendSource string

const (
	DividendSourceFetched DividendSource = "fetched"
	DividendSourceManual  DividendSource = "manual"
)

// Holding is one row of the holdings table, keyed by ticker.
// Derived fields are recomputed from base fields before every
// classification and persistence; they are never edited directly.
type Holding struct {
	Ticker           string  `json:"ticker"`
	CompanyName      string  `json:"company_name"`
	AnnualDividend   float64 `json:"annual_dividend"`
	Currency         string  `json:"currency"`
	Owned            bool    `json:"owned"`
	Price            float64 `json:"price"`
	FiftyTwoWeekHigh float64 `json:"fifty_two_week_high"`
	EPSTrailing      float64 `json:"eps_trailing"`
	EPSForward       float64 `json:"eps_forward"`

	// Derived
	DividendYieldPct       float64        `json:"dividend_yield_pct"`
	TargetPrice            float64        `json:"target_price"`
	UpsidePct              float64        `json:"upside_pct"`
	PayoutRatioTrailingPct float64        `json:"payout_ratio_trailing_pct"`
	PayoutRatio2yPct       float64        `json:"payout_ratio_2y_pct"`
	Recommendation         Recommendation `json:"recommendation"`

	DividendSource DividendSource `json:"dividend_source"`
	LastUpdated    time.Time      `json:"last_updated"`
}

// HoldingColumns is the canonical column schema of the holdings table, in
// persistence order. The store adapter enforces this schema on read and
// writes cells in this order.
var HoldingColumns = []string{
	"ticker",
	"company_name",
	"annual_dividend",
	"currency",
	"owned",
	"price",
	"fifty_two_week_high",
	"eps_trailing",
	"eps_forward",
	"dividend_yield_pct",
	"target_price",
	"upside_pct",
	"payout_ratio_trailing_pct",
	"payout_ratio_2y_pct",
	"recommendation",
	"dividend_source",
	"last_updated",
}

// NormalizeTicker canonicalizes a ticker symbol (uppercase, trimmed).
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// NormalizeCurrency validates a currency code against the ISO registry and
// falls back to USD for unknown or empty codes.
func NormalizeCurrency(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return "USD"
	}
	if money.GetCurrency(code) == nil {
		return "USD"
	}
	return code
}

// HoldingFromCells builds a typed Holding from a row of stringified cells.
// This is the single parse/coerce step at the store-read boundary: missing
// columns backfill to zero values, unparseable numerics coerce to the zero
// sentinel, and negative base amounts are clamped to zero.
func HoldingFromCells(cells map[string]string) Holding {
	h := Holding{
		Ticker:           NormalizeTicker(cells["ticker"]),
		CompanyName:      strings.TrimSpace(cells["company_name"]),
		AnnualDividend:   coerceAmount(cells["annual_dividend"]),
		Currency:         NormalizeCurrency(cells["currency"]),
		Owned:            coerceBool(cells["owned"]),
		Price:            coerceAmount(cells["price"]),
		FiftyTwoWeekHigh: coerceAmount(cells["fifty_two_week_high"]),
		EPSTrailing:      coerceFloat(cells["eps_trailing"]),
		EPSForward:       coerceFloat(cells["eps_forward"]),

		DividendYieldPct:       coerceFloat(cells["dividend_yield_pct"]),
		TargetPrice:            coerceFloat(cells["target_price"]),
		UpsidePct:              coerceFloat(cells["upside_pct"]),
		PayoutRatioTrailingPct: coerceFloat(cells["payout_ratio_trailing_pct"]),
		PayoutRatio2yPct:       coerceFloat(cells["payout_ratio_2y_pct"]),
		Recommendation:         ParseRecommendation(cells["recommendation"]),
	}

	if cells["dividend_source"] == string(DividendSourceFetched) {
		h.DividendSource = DividendSourceFetched
	} else {
		h.DividendSource = DividendSourceManual
	}

	if ts, err := time.Parse(time.RFC3339, cells["last_updated"]); err == nil {
		h.LastUpdated = ts
	}

	return h
}

// Cells stringifies the holding into the canonical column set for the
// whole-table write.
func (h Holding) Cells() map[string]string {
	cells := map[string]string{
		"ticker":                    h.Ticker,
		"company_name":              h.CompanyName,
		"annual_dividend":           formatFloat(h.AnnualDividend),
		"currency":                  h.Currency,
		"owned":                     strconv.FormatBool(h.Owned),
		"price":                     formatFloat(h.Price),
		"fifty_two_week_high":       formatFloat(h.FiftyTwoWeekHigh),
		"eps_trailing":              formatFloat(h.EPSTrailing),
		"eps_forward":               formatFloat(h.EPSForward),
		"dividend_yield_pct":        formatFloat(h.DividendYieldPct),
		"target_price":              formatFloat(h.TargetPrice),
		"upside_pct":                formatFloat(h.UpsidePct),
		"payout_ratio_trailing_pct": formatFloat(h.PayoutRatioTrailingPct),
		"payout_ratio_2y_pct":       formatFloat(h.PayoutRatio2yPct),
		"recommendation":            string(h.Recommendation),
		"dividend_source":           string(h.DividendSource),
	}
	if !h.LastUpdated.IsZero() {
		cells["last_updated"] = h.LastUpdated.UTC().Format(time.RFC3339)
	} else {
		cells["last_updated"] = ""
	}
	return cells
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// coerceFloat parses a numeric cell, coercing invalid input to the zero
// sentinel instead of failing the row.
func coerceFloat(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	// Tolerate decimal-comma data from older spreadsheet exports.
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// coerceAmount is coerceFloat for fields defined as non-negative.
func coerceAmount(s string) float64 {
	v := coerceFloat(s)
	if v < 0 {
		return 0
	}
	return v
}

// coerceBool accepts the usual boolean spellings plus the legacy
// spreadsheet values "ja"/"nej".
func coerceBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "ja", "y":
		return true
	default:
		return false
	}
}
