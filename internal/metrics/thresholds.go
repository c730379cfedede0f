package metrics

// Thresholds collects the empirically-chosen screening cutoffs. Callers build
// one from configuration; the zero value is not usable.
type Thresholds struct {
	MultipleThreshold   float64 // recommendation cutoff on the cash-flow multiple
	StrongMultipleMax   float64 // tighter cutoff for the strong-recommend flag
	MAShort             int     // short moving-average window, trading days
	MALong              int     // long moving-average window, trading days
	SixMonthTradingDays int     // lookback window for the VIP below-MA ratio
	VIPBelowRatio       float64 // minimum fraction of closes below the long MA
	SalesR2Flat         float64 // R² below which a revenue trend is noise
	SalesSlopeEps       float64 // normalized slope magnitude treated as flat
}

// DefaultThresholds returns the production defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MultipleThreshold:   14.0,
		StrongMultipleMax:   10.0,
		MAShort:             112,
		MALong:              224,
		SixMonthTradingDays: 126,
		VIPBelowRatio:       2.0 / 3.0,
		SalesR2Flat:         0.35,
		SalesSlopeEps:       0.02,
	}
}
