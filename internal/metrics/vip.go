package metrics

import (
	talib "github.com/markcheno/go-talib"
)

// EvaluateVIP checks the "persistently below long-term trend, stabilizing"
// pattern on a chronological daily close series. All four conditions must
// hold on the latest bar:
//
//  1. close below the long MA
//  2. at least VIPBelowRatio of the recent lookback closes below the long MA
//  3. short MA below the long MA
//  4. close between the short MA and the long MA
//
// Bars where the long MA is still in its warmup window are excluded from the
// ratio in condition 2.
func EvaluateVIP(priceSeries []float64, th Thresholds) bool {
	n := len(priceSeries)
	if n < th.MALong+th.SixMonthTradingDays {
		return false
	}

	maShort := talib.Sma(priceSeries, th.MAShort)
	maLong := talib.Sma(priceSeries, th.MALong)

	closeNow := priceSeries[n-1]
	maShortNow := maShort[n-1]
	maLongNow := maLong[n-1]

	if closeNow >= maLongNow {
		return false
	}
	if maShortNow >= maLongNow {
		return false
	}
	if !(closeNow > maShortNow && closeNow < maLongNow) {
		return false
	}

	// Condition 2: sustained below-long-MA posture over the lookback window.
	below, valid := 0, 0
	for i := n - th.SixMonthTradingDays; i < n; i++ {
		if i < th.MALong-1 {
			continue // long MA undefined here
		}
		valid++
		if priceSeries[i] < maLong[i] {
			below++
		}
	}
	if valid == 0 {
		return false
	}
	return float64(below)/float64(valid) >= th.VIPBelowRatio
}
