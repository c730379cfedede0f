package metrics

import (
	"fmt"

	"ValueScreener/internal/model"
)

// EvaluateSnapshot derives the full signal for one snapshot. Pure function:
// no I/O, deterministic, safe to run concurrently across symbols.
func EvaluateSnapshot(snap *model.FundamentalSnapshot, th Thresholds) model.ComputedSignal {
	multiple, reason := ComputeMultiple(snap)
	trend := ClassifySalesTrend(snap.RevenueYearly, th)
	vipPass := EvaluateVIP(snap.PriceSeries, th)

	recommended := multiple != nil && *multiple <= th.MultipleThreshold
	if !recommended && reason == "" {
		reason = fmt.Sprintf("multiple>%g", th.MultipleThreshold)
	}

	return model.ComputedSignal{
		Multiple:        multiple,
		IsRecommended:   recommended,
		SalesTrend:      trend,
		VIPPass:         vipPass,
		RejectionReason: reason,
	}
}

// StrongRecommend reports whether a signal qualifies for the stricter
// highlight tier: recommended, revenue trending up, and a multiple at or
// below the strong cutoff. Defined once here; presentation layers derive it
// from the signal instead of re-implementing the rule.
func StrongRecommend(sig model.ComputedSignal, th Thresholds) bool {
	return sig.IsRecommended &&
		sig.SalesTrend == model.TrendUp &&
		sig.Multiple != nil && *sig.Multiple <= th.StrongMultipleMax
}
