package targetprice

import (
	"math"
	"testing"
	"time"

	"ValueScreener/internal/model"
)

func fl(v float64) *float64 { return &v }

func approx(t *testing.T, name string, got *float64, want float64) {
	t.Helper()
	if got == nil {
		t.Fatalf("%s: expected %v, got nil", name, want)
	}
	if math.Abs(*got-want) > 1e-9 {
		t.Errorf("%s: expected %v, got %v", name, want, *got)
	}
}

func breakoutBase() model.TargetPriceResult {
	weekEnd := time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC)
	return model.TargetPriceResult{
		Symbol:               "005930.KS",
		MarketCap:            fl(1_000_000),
		CurrentPrice:         fl(10_000),
		BreakoutWeekEnd:      &weekEnd,
		BreakoutPrice:        fl(9_800),
		BreakoutTradingValue: fl(200_000),
	}
}

func TestApplyFormula_FullChain(t *testing.T) {
	result := ApplyFormula(breakoutBase(), 20, 2)

	approx(t, "floating cap", result.FloatingCap, 200_000)
	approx(t, "energy ratio", result.EnergyRatio, 1.0)
	approx(t, "target price", result.TargetPrice, 29_400) // 9800 * (1 + 1.0*2)
	approx(t, "upside", result.UpsidePct, 194.0)
	if result.Error != "" {
		t.Errorf("unexpected diagnostic %q", result.Error)
	}
}

func TestApplyFormula_Clamps(t *testing.T) {
	tests := []struct {
		name                 string
		floatRate, mult      float64
		wantRate, wantMult   float64
	}{
		{"below range", 0, 0, 1, 0.1},
		{"above range", 150, 10, 100, 5},
		{"nan defaults", math.NaN(), math.NaN(), 100, 1},
		{"in range", 35, 1.5, 35, 1.5},
	}
	for _, tt := range tests {
		result := ApplyFormula(breakoutBase(), tt.floatRate, tt.mult)
		if result.FloatRatePct != tt.wantRate {
			t.Errorf("%s: float rate expected %v, got %v", tt.name, tt.wantRate, result.FloatRatePct)
		}
		if result.Multiplier != tt.wantMult {
			t.Errorf("%s: multiplier expected %v, got %v", tt.name, tt.wantMult, result.Multiplier)
		}
	}
}

func TestApplyFormula_NoBreakout(t *testing.T) {
	base := breakoutBase()
	base.BreakoutWeekEnd = nil
	base.BreakoutPrice = nil
	base.BreakoutTradingValue = nil

	result := ApplyFormula(base, 20, 1)
	if result.Error != ErrNoBreakout {
		t.Errorf("expected %q, got %q", ErrNoBreakout, result.Error)
	}
	if result.TargetPrice != nil || result.UpsidePct != nil {
		t.Error("target fields must stay nil without a breakout")
	}
	// The floating cap is still derivable from market cap alone.
	approx(t, "floating cap", result.FloatingCap, 200_000)
}

func TestApplyFormula_NoMarketCap(t *testing.T) {
	base := breakoutBase()
	base.MarketCap = nil

	result := ApplyFormula(base, 20, 1)
	if result.Error != ErrNoMarketCap {
		t.Errorf("expected %q, got %q", ErrNoMarketCap, result.Error)
	}
	if result.FloatingCap != nil || result.EnergyRatio != nil || result.TargetPrice != nil {
		t.Error("derived fields must stay nil without a market cap")
	}
}

func TestApplyFormula_KeepsExistingDiagnostic(t *testing.T) {
	base := breakoutBase()
	base.Error = ErrNoDailyHistory

	result := ApplyFormula(base, 20, 1)
	if result.Error != ErrNoDailyHistory {
		t.Errorf("expected preserved diagnostic, got %q", result.Error)
	}
	if result.TargetPrice != nil {
		t.Error("no fields may be derived on a failed base")
	}
}
