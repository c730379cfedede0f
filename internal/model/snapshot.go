package model

import (
	"math"
	"time"
)

// FundamentalSnapshot is the immutable per-symbol input record, built fresh
// on each fetch. All numeric fields are either finite or absent; non-finite
// provider values must be filtered at ingestion.
type FundamentalSnapshot struct {
	Symbol        string
	MarketCap     *float64  // nil when unavailable or <= 0 at the source
	OCFQuarterly  []float64 // newest first, at most 4 quarters
	OCFTTM        *float64  // trailing-twelve-month OCF, independently sourced
	RevenueYearly []float64 // oldest first, at most 5 years
	PriceSeries   []float64 // daily closes, chronological
	Sector        string    // "Unknown" when unavailable
	Currency      string    // "N/A" when unavailable
	AsOf          time.Time
}

// Float boxes a finite float64. Non-finite input yields nil so that NaN/Inf
// never leaks into downstream computation.
func Float(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// FilterFinite returns vals with NaN/Inf entries removed, preserving order.
func FilterFinite(vals []float64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out = append(out, v)
	}
	return out
}
