package holdings

import (
	"github.com/avaldsgard/divvy/internal/models"
)

// Resolve merges a fetch result, the previously stored row, and manual
// input into one canonical row. Precedence is applied independently per
// field: a non-absent fetched value wins, then a retained stored value,
// then the manual input (which matters mainly on first creation).
//
// Resolve is pure and deterministic: same inputs, same row, no side
// effects. Derived fields are left untouched; callers recompute them via
// Compute before classification or persistence.
func Resolve(ticker string, quote *models.Quote, existing *models.Holding, manual *models.ManualInput) models.Holding {
	h := models.Holding{Ticker: models.NormalizeTicker(ticker)}

	var (
		qPrice, qHigh, qDividend, qEPSTrailing, qEPSForward *float64
		qCurrency, qName                                    *string
	)
	if quote != nil {
		qPrice = quote.Price
		qHigh = quote.FiftyTwoWeekHigh
		qDividend = quote.AnnualDividend
		qEPSTrailing = quote.EPSTrailing
		qEPSForward = quote.EPSForward
		qCurrency = quote.Currency
		qName = quote.CompanyName
	}

	var (
		mName, mCurrency                                    *string
		mDividend, mPrice, mHigh, mEPSTrailing, mEPSForward *float64
	)
	if manual != nil {
		mName = manual.CompanyName
		mCurrency = manual.Currency
		mDividend = manual.AnnualDividend
		mPrice = manual.Price
		mHigh = manual.FiftyTwoWeekHigh
		mEPSTrailing = manual.EPSTrailing
		mEPSForward = manual.EPSForward
	}

	h.CompanyName = resolveString(qName, existingString(existing, func(e *models.Holding) string { return e.CompanyName }), mName)
	h.Currency = models.NormalizeCurrency(resolveString(qCurrency, existingString(existing, func(e *models.Holding) string { return e.Currency }), mCurrency))
	h.AnnualDividend = resolveFloat(qDividend, existingFloat(existing, func(e *models.Holding) float64 { return e.AnnualDividend }), mDividend)
	h.Price = resolveFloat(qPrice, existingFloat(existing, func(e *models.Holding) float64 { return e.Price }), mPrice)
	h.FiftyTwoWeekHigh = resolveFloat(qHigh, existingFloat(existing, func(e *models.Holding) float64 { return e.FiftyTwoWeekHigh }), mHigh)
	h.EPSTrailing = resolveFloat(qEPSTrailing, existingFloat(existing, func(e *models.Holding) float64 { return e.EPSTrailing }), mEPSTrailing)
	h.EPSForward = resolveFloat(qEPSForward, existingFloat(existing, func(e *models.Holding) float64 { return e.EPSForward }), mEPSForward)

	// Owned is user-controlled; the provider never supplies it.
	switch {
	case existing != nil:
		h.Owned = existing.Owned
	case manual != nil && manual.Owned != nil:
		h.Owned = *manual.Owned
	}

	// Provenance tracks the dividend fields: fetched only when this fetch
	// actually supplied the dividend rate.
	if quote != nil && quote.AnnualDividend != nil {
		h.DividendSource = models.DividendSourceFetched
	} else {
		h.DividendSource = models.DividendSourceManual
	}

	switch {
	case quote != nil && !quote.FetchedAt.IsZero():
		h.LastUpdated = quote.FetchedAt
	case existing != nil:
		h.LastUpdated = existing.LastUpdated
	}

	return h
}

// resolveFloat applies the field precedence for numeric fields. A stored
// zero is the "no value" sentinel and does not block manual input.
func resolveFloat(fetched *float64, existing float64, manual *float64) float64 {
	if fetched != nil {
		return *fetched
	}
	if existing != 0 {
		return existing
	}
	if manual != nil {
		return *manual
	}
	return 0
}

func resolveString(fetched *string, existing string, manual *string) string {
	if fetched != nil && *fetched != "" {
		return *fetched
	}
	if existing != "" {
		return existing
	}
	if manual != nil {
		return *manual
	}
	return ""
}

func existingFloat(e *models.Holding, get func(*models.Holding) float64) float64 {
	if e == nil {
		return 0
	}
	return get(e)
}

func existingString(e *models.Holding, get func(*models.Holding) string) string {
	if e == nil {
		return ""
	}
	return get(e)
}
