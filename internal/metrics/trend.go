package metrics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"ValueScreener/internal/model"
)

// ClassifySalesTrend fits an ordinary least-squares line to up to five yearly
// revenue points (position as x) and classifies the direction. A low-R² fit
// or a near-zero normalized slope is reported as FLAT so that a line forced
// through volatile data is not mistaken for a real trend.
func ClassifySalesTrend(revenueYearly []float64, th Thresholds) model.SalesTrend {
	vals := model.FilterFinite(revenueYearly)
	if len(vals) <= 4 {
		return model.TrendUnknown
	}
	ys := vals[:5]

	xs := make([]float64, len(ys))
	for i := range xs {
		xs[i] = float64(i)
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	r2 := stat.RSquared(xs, ys, nil, alpha, beta)
	if math.IsNaN(r2) {
		// Constant series: zero total variance.
		r2 = 0
	}

	var absSum float64
	for _, y := range ys {
		absSum += math.Abs(y)
	}
	scale := math.Max(absSum/float64(len(ys)), 1.0)
	normSlope := beta / scale

	if r2 < th.SalesR2Flat || math.Abs(normSlope) <= th.SalesSlopeEps {
		return model.TrendFlat
	}
	if normSlope > 0 {
		return model.TrendUp
	}
	return model.TrendDown
}
