package targetprice

import (
	"math"
	"sort"
	"time"

	talib "github.com/markcheno/go-talib"

	"ValueScreener/internal/model"
)

// NormalizeDaily drops rows with a missing or non-finite OHLC field,
// zero-fills missing volume, and derives TradingValue = Close * Volume.
// Bars are returned in chronological order.
func NormalizeDaily(raw []model.DailyBar) []model.DailyBar {
	out := make([]model.DailyBar, 0, len(raw))
	for _, b := range raw {
		if !finite(b.Open) || !finite(b.High) || !finite(b.Low) || !finite(b.Close) {
			continue
		}
		if !finite(b.Volume) {
			b.Volume = 0
		}
		b.TradingValue = b.Close * b.Volume
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// weekEndFriday maps a date to the Friday that closes its week. Saturday and
// Sunday roll forward into the following week.
func weekEndFriday(t time.Time) time.Time {
	days := (int(time.Friday) - int(t.Weekday()) + 7) % 7
	end := t.AddDate(0, 0, days)
	return time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
}

// ResampleWeekly groups normalized daily bars into weeks ending Friday:
// open = first, high = max, low = min, close = last, volume and trading
// value are summed. Weeks with no contributing day simply do not appear.
// MA52 is filled in over the resulting series.
func ResampleWeekly(daily []model.DailyBar) []model.WeeklyBar {
	if len(daily) == 0 {
		return nil
	}

	var weekly []model.WeeklyBar
	var cur model.WeeklyBar
	started := false

	for _, d := range daily {
		end := weekEndFriday(d.Date)
		if !started || !end.Equal(cur.WeekEnd) {
			if started {
				weekly = append(weekly, cur)
			}
			cur = model.WeeklyBar{
				WeekEnd:      end,
				Open:         d.Open,
				High:         d.High,
				Low:          d.Low,
				Close:        d.Close,
				Volume:       d.Volume,
				TradingValue: d.TradingValue,
			}
			started = true
			continue
		}
		if d.High > cur.High {
			cur.High = d.High
		}
		if d.Low < cur.Low {
			cur.Low = d.Low
		}
		cur.Close = d.Close
		cur.Volume += d.Volume
		cur.TradingValue += d.TradingValue
	}
	weekly = append(weekly, cur)

	fillMA52(weekly)
	return weekly
}

// fillMA52 computes the trailing 52-week simple moving average of the weekly
// close. The first 51 bars stay undefined.
func fillMA52(weekly []model.WeeklyBar) {
	const window = 52
	if len(weekly) < window {
		return
	}
	closes := make([]float64, len(weekly))
	for i, w := range weekly {
		closes[i] = w.Close
	}
	ma := talib.Sma(closes, window)
	for i := window - 1; i < len(weekly); i++ {
		weekly[i].MA52 = model.Float(ma[i])
	}
}
