package targetprice

import (
	"math"

	"ValueScreener/internal/model"
)

// Diagnostics surfaced on a TargetPriceResult. They are user-visible strings,
// not errors: the result still carries whatever fields could be computed.
const (
	ErrNoBreakout     = "no weekly breakout detected"
	ErrNoMarketCap    = "market cap unavailable"
	ErrNoDailyHistory = "failed to fetch daily price history"
	ErrNoWeeklyData   = "failed to build weekly OHLCV data"
)

func clamp(v, lo, hi, def float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = def
	}
	return math.Max(lo, math.Min(hi, v))
}

// ApplyFormula recomputes the parametrized fields of a target-price base for
// one (float rate, multiplier) pair. The float rate is clamped to [1,100]
// percent and the multiplier to [0.1,5]. Fields that cannot be derived stay
// nil; zero is never substituted for "undefined".
//
//	floating cap = market cap * float rate
//	energy ratio = breakout trading value / floating cap
//	target price = breakout price * (1 + energy ratio * multiplier)
//	upside       = (target price / current price - 1) * 100
func ApplyFormula(base model.TargetPriceResult, floatRatePct, multiplier float64) model.TargetPriceResult {
	result := base
	result.FloatRatePct = clamp(floatRatePct, 1.0, 100.0, 100.0)
	result.Multiplier = clamp(multiplier, 0.1, 5.0, 1.0)
	result.FloatingCap = nil
	result.EnergyRatio = nil
	result.TargetPrice = nil
	result.UpsidePct = nil

	if result.Error != "" {
		return result
	}

	if result.MarketCap != nil && *result.MarketCap > 0 {
		result.FloatingCap = model.Float(*result.MarketCap * result.FloatRatePct / 100.0)
	}
	if result.FloatingCap != nil && *result.FloatingCap > 0 && result.BreakoutTradingValue != nil {
		result.EnergyRatio = model.Float(*result.BreakoutTradingValue / *result.FloatingCap)
	}
	if result.BreakoutPrice != nil && result.EnergyRatio != nil {
		result.TargetPrice = model.Float(*result.BreakoutPrice * (1.0 + *result.EnergyRatio*result.Multiplier))
	}
	if result.TargetPrice != nil && result.CurrentPrice != nil && *result.CurrentPrice > 0 {
		result.UpsidePct = model.Float((*result.TargetPrice / *result.CurrentPrice - 1.0) * 100.0)
	}

	if result.BreakoutWeekEnd == nil {
		result.Error = ErrNoBreakout
	} else if result.FloatingCap == nil {
		result.Error = ErrNoMarketCap
	}
	return result
}
