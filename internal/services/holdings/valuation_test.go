package holdings

import (
	"testing"

	"github.com/avaldsgard/divvy/internal/models"
)

func TestComputeDerivedFields(t *testing.T) {
	h := models.Holding{
		Ticker:           "TEST",
		Price:            80,
		FiftyTwoWeekHigh: 100,
		AnnualDividend:   4,
		EPSTrailing:      8,
		EPSForward:       10,
	}

	got := Compute(h, 5)

	if got.TargetPrice != 95.0 {
		t.Errorf("TargetPrice = %v, want 95.0", got.TargetPrice)
	}
	if got.DividendYieldPct != 5.0 {
		t.Errorf("DividendYieldPct = %v, want 5.0", got.DividendYieldPct)
	}
	if got.UpsidePct != 18.75 {
		t.Errorf("UpsidePct = %v, want 18.75", got.UpsidePct)
	}
	if got.PayoutRatioTrailingPct != 50.0 {
		t.Errorf("PayoutRatioTrailingPct = %v, want 50.0", got.PayoutRatioTrailingPct)
	}
	if got.PayoutRatio2yPct != 40.0 {
		t.Errorf("PayoutRatio2yPct = %v, want 40.0", got.PayoutRatio2yPct)
	}
}

func TestComputeZeroPriceSentinels(t *testing.T) {
	h := models.Holding{
		Ticker:           "TEST",
		Price:            0,
		FiftyTwoWeekHigh: 100,
		AnnualDividend:   4,
	}

	got := Compute(h, 5)

	// Target price is still derivable; the ratios over price are not.
	if got.TargetPrice != 95.0 {
		t.Errorf("TargetPrice = %v, want 95.0", got.TargetPrice)
	}
	if got.DividendYieldPct != 0 {
		t.Errorf("DividendYieldPct = %v, want 0", got.DividendYieldPct)
	}
	if got.UpsidePct != 0 {
		t.Errorf("UpsidePct = %v, want 0", got.UpsidePct)
	}
}

func TestComputeZeroEPSSentinels(t *testing.T) {
	h := models.Holding{
		Ticker:         "TEST",
		Price:          50,
		AnnualDividend: 2,
		EPSTrailing:    0,
		EPSForward:     -3,
	}

	got := Compute(h, 5)

	if got.PayoutRatioTrailingPct != 0 {
		t.Errorf("PayoutRatioTrailingPct = %v, want 0", got.PayoutRatioTrailingPct)
	}
	if got.PayoutRatio2yPct != 0 {
		t.Errorf("PayoutRatio2yPct = %v, want 0", got.PayoutRatio2yPct)
	}
}

func TestComputeClampsDiscount(t *testing.T) {
	h := models.Holding{Ticker: "TEST", FiftyTwoWeekHigh: 100}

	if got := Compute(h, 0); got.TargetPrice != 99.0 {
		t.Errorf("discount 0 clamps to 1: TargetPrice = %v, want 99.0", got.TargetPrice)
	}
	if got := Compute(h, 25); got.TargetPrice != 90.0 {
		t.Errorf("discount 25 clamps to 10: TargetPrice = %v, want 90.0", got.TargetPrice)
	}
}

func TestComputeIsPure(t *testing.T) {
	h := models.Holding{
		Ticker:           "TEST",
		Price:            80,
		FiftyTwoWeekHigh: 100,
		AnnualDividend:   4,
	}
	before := h

	_ = Compute(h, 5)

	if h != before {
		t.Error("Compute mutated its input")
	}
}

func TestRound2HalfAwayFromZero(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{2.345, 2.35},
		{2.344, 2.34},
		{-2.345, -2.35},
		{-2.344, -2.34},
		{18.75, 18.75},
		{0, 0},
	}

	for _, tt := range tests {
		if got := round2(tt.in); got != tt.want {
			t.Errorf("round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
