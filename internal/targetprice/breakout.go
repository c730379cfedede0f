package targetprice

import "ValueScreener/internal/model"

// Breakouts returns the indices of weekly bars where the close crossed above
// MA52: close > MA52 while the prior week closed at or below its MA52, with
// both weeks' MA52 defined. This single crossing rule serves both the live
// path (latest crossing only) and calibration (every historical crossing).
func Breakouts(weekly []model.WeeklyBar) []int {
	var idx []int
	for i := 1; i < len(weekly); i++ {
		if weekly[i].MA52 == nil || weekly[i-1].MA52 == nil {
			continue
		}
		if weekly[i].Close > *weekly[i].MA52 && weekly[i-1].Close <= *weekly[i-1].MA52 {
			idx = append(idx, i)
		}
	}
	return idx
}

// LatestBreakout returns the index of the most recent upward cross, or -1
// when none exists.
func LatestBreakout(weekly []model.WeeklyBar) int {
	for i := len(weekly) - 1; i >= 1; i-- {
		if weekly[i].MA52 == nil || weekly[i-1].MA52 == nil {
			continue
		}
		if weekly[i].Close > *weekly[i].MA52 && weekly[i-1].Close <= *weekly[i-1].MA52 {
			return i
		}
	}
	return -1
}
