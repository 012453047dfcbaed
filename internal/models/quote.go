package models

import "time"

// Quote is one provider response for a ticker. Fields are pointers so a
// value the provider omitted is distinguishable from a genuine zero; the
// resolver treats nil as "no update".
type Quote struct {
	Ticker           string    `json:"ticker"`
	Price            *float64  `json:"price,omitempty"`
	FiftyTwoWeekHigh *float64  `json:"fifty_two_week_high,omitempty"`
	AnnualDividend   *float64  `json:"annual_dividend,omitempty"`
	EPSTrailing      *float64  `json:"eps_trailing,omitempty"`
	EPSForward       *float64  `json:"eps_forward,omitempty"`
	Currency         *string   `json:"currency,omitempty"`
	CompanyName      *string   `json:"company_name,omitempty"`
	FetchedAt        time.Time `json:"fetched_at"`
}

// ManualInput carries user-entered values for creating or editing a holding
// outside the fetch path. Pointer fields distinguish "not provided" from an
// explicit zero, mirroring Quote.
type ManualInput struct {
	CompanyName      *string  `json:"company_name,omitempty"`
	AnnualDividend   *float64 `json:"annual_dividend,omitempty"`
	Currency         *string  `json:"currency,omitempty"`
	Owned            *bool    `json:"owned,omitempty"`
	Price            *float64 `json:"price,omitempty"`
	FiftyTwoWeekHigh *float64 `json:"fifty_two_week_high,omitempty"`
	EPSTrailing      *float64 `json:"eps_trailing,omitempty"`
	EPSForward       *float64 `json:"eps_forward,omitempty"`
}
