package calibration

import (
	"ValueScreener/internal/model"
	"ValueScreener/internal/targetprice"
)

// ExtractEvents turns every historical MA52 breakout of a weekly series into
// a labeled calibration example: the breakout bar plus the maximum high
// reached within the look-ahead horizon. Breakouts with no future bars, a
// non-positive breakout price, or a non-positive trading value are skipped.
func ExtractEvents(symbol string, weekly []model.WeeklyBar, marketCap float64, horizonWeeks int) []model.BreakoutEvent {
	if len(weekly) == 0 || marketCap <= 0 {
		return nil
	}

	var events []model.BreakoutEvent
	for _, i := range targetprice.Breakouts(weekly) {
		end := i + horizonWeeks
		if end > len(weekly)-1 {
			end = len(weekly) - 1
		}
		if end <= i {
			continue // breakout on the final bar: no outcome to label
		}
		futureHigh := weekly[i+1].High
		for j := i + 2; j <= end; j++ {
			if weekly[j].High > futureHigh {
				futureHigh = weekly[j].High
			}
		}

		bar := weekly[i]
		if bar.Close <= 0 || bar.TradingValue <= 0 {
			continue
		}
		events = append(events, model.BreakoutEvent{
			Symbol:               symbol,
			BreakoutDate:         bar.WeekEnd,
			BreakoutPrice:        bar.Close,
			BreakoutTradingValue: bar.TradingValue,
			MarketCap:            marketCap,
			FutureMaxHigh:        futureHigh,
		})
	}
	return events
}
