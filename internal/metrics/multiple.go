package metrics

import "ValueScreener/internal/model"

// Rejection reasons surfaced on the screening table. These are data, not
// errors: a symbol with a reason still appears in the output.
const (
	ReasonInsufficientData = "insufficient data"
	ReasonInsufficientOCF  = "insufficient OCF data"
	ReasonNonPositiveOCF   = "OCF<=0"
	ReasonFetchFailed      = "fetch failed"
)

// ComputeMultiple returns market cap divided by trailing annual operating
// cash flow, or nil plus a reason when the multiple is undefined. The sum of
// the last four reported quarters is preferred; an independently sourced TTM
// value is the fallback when fewer than four quarters are available.
func ComputeMultiple(snap *model.FundamentalSnapshot) (*float64, string) {
	if snap.MarketCap == nil {
		return nil, ReasonInsufficientData
	}

	var ocf float64
	switch {
	case len(snap.OCFQuarterly) >= 4:
		for _, q := range snap.OCFQuarterly[:4] {
			ocf += q
		}
	case snap.OCFTTM != nil:
		ocf = *snap.OCFTTM
	default:
		return nil, ReasonInsufficientOCF
	}

	if ocf <= 0 {
		return nil, ReasonNonPositiveOCF
	}
	return model.Float(*snap.MarketCap / ocf), ""
}
