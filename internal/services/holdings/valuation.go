package holdings

import (
	"github.com/shopspring/decimal"

	"github.com/avaldsgard/divvy/internal/common"
	"github.com/avaldsgard/divvy/internal/models"
)

// round2 rounds to 2 decimal digits, half away from zero.
func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// Compute recomputes every derived valuation field from the base fields.
// It is pure: the input row is copied, derived fields are overwritten, and
// nothing else changes. A non-positive denominator yields the 0 sentinel
// rather than a computation error.
func Compute(h models.Holding, discountPct float64) models.Holding {
	discountPct = common.ClampDiscountPct(discountPct)

	h.TargetPrice = round2(h.FiftyTwoWeekHigh * (1 - discountPct/100))

	if h.Price > 0 {
		h.DividendYieldPct = round2(h.AnnualDividend / h.Price * 100)
		h.UpsidePct = round2((h.TargetPrice - h.Price) / h.Price * 100)
	} else {
		h.DividendYieldPct = 0
		h.UpsidePct = 0
	}

	if h.EPSTrailing > 0 {
		h.PayoutRatioTrailingPct = round2(h.AnnualDividend / h.EPSTrailing * 100)
	} else {
		h.PayoutRatioTrailingPct = 0
	}

	if h.EPSForward > 0 {
		h.PayoutRatio2yPct = round2(h.AnnualDividend / h.EPSForward * 100)
	} else {
		h.PayoutRatio2yPct = 0
	}

	return h
}
