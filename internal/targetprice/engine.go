package targetprice

import (
	"context"
	"fmt"
	"time"

	"ValueScreener/internal/marketdata"
	"ValueScreener/internal/model"
)

// Engine builds target-price projections from a market-data provider. The
// base (weekly series + breakout reference) is fetched once per symbol; the
// formula is reapplied for every parameter pair.
type Engine struct {
	Provider     marketdata.Provider
	HistoryYears int
}

// NewEngine creates an Engine with the default ten-year history window.
func NewEngine(provider marketdata.Provider) *Engine {
	return &Engine{Provider: provider, HistoryYears: 10}
}

// BuildBase fetches the symbol's history, resamples it to weekly bars, and
// locates the most recent MA52 breakout. Failures are recorded on the result
// as diagnostics; BuildBase itself only errs on a broken context.
func (e *Engine) BuildBase(ctx context.Context, symbol string) model.TargetPriceResult {
	base := model.TargetPriceResult{
		Symbol:   symbol,
		Name:     symbol,
		Currency: "N/A",
	}

	end := time.Now().UTC()
	raw, err := e.Provider.DailyHistory(ctx, symbol, end.AddDate(-e.HistoryYears, 0, 0), end)
	if err != nil {
		base.Error = ErrNoDailyHistory
		return base
	}
	daily := NormalizeDaily(raw)
	if len(daily) == 0 {
		base.Error = ErrNoDailyHistory
		return base
	}

	weekly := ResampleWeekly(daily)
	if len(weekly) == 0 {
		base.Error = ErrNoWeeklyData
		return base
	}

	if overview, err := e.Provider.Overview(ctx, symbol); err == nil {
		base.Name = overview.Name
		base.Currency = overview.Currency
		base.MarketCap = overview.MarketCap
	}

	base.CurrentPrice = model.Float(daily[len(daily)-1].Close)
	base.MA52Price = weekly[len(weekly)-1].MA52

	if i := LatestBreakout(weekly); i >= 0 {
		bar := weekly[i]
		weekEnd := bar.WeekEnd
		base.BreakoutWeekEnd = &weekEnd
		base.BreakoutWeek = formatBreakoutWeek(weekEnd)
		base.BreakoutPrice = model.Float(bar.Close)
		base.BreakoutTradingValue = model.Float(bar.TradingValue)
	}
	return base
}

// Compute builds the base and applies the formula for one parameter pair.
func (e *Engine) Compute(ctx context.Context, symbol string, floatRatePct, multiplier float64) model.TargetPriceResult {
	return ApplyFormula(e.BuildBase(ctx, symbol), floatRatePct, multiplier)
}

func formatBreakoutWeek(weekEnd time.Time) string {
	_, isoWeek := weekEnd.ISOWeek()
	return fmt.Sprintf("%d-%02d-%02d", weekEnd.Year(), int(weekEnd.Month()), isoWeek)
}
