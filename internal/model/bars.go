package model

import "time"

// DailyBar is a normalized daily OHLCV row. TradingValue = Close * Volume.
type DailyBar struct {
	Date         time.Time
	Open         float64
	High         float64
	Low          float64
	Close        float64
	Volume       float64
	TradingValue float64
}

// WeeklyBar is a daily series resampled into a week ending Friday.
// MA52 is the trailing 52-week simple moving average of the weekly close,
// undefined (nil) for the first 51 bars.
type WeeklyBar struct {
	WeekEnd      time.Time
	Open         float64
	High         float64
	Low          float64
	Close        float64
	Volume       float64
	TradingValue float64
	MA52         *float64
}

// TargetPriceResult is the breakout-driven target-price projection for one
// symbol under a user-supplied (float rate, multiplier) parameter pair.
// Numeric fields stay nil when undefined; Error carries the non-fatal
// diagnostic shown to the caller.
type TargetPriceResult struct {
	Symbol               string     `json:"symbol"`
	Name                 string     `json:"name"`
	Currency             string     `json:"currency"`
	MarketCap            *float64   `json:"market_cap"`
	CurrentPrice         *float64   `json:"current_price"`
	MA52Price            *float64   `json:"ma52_price"`
	BreakoutWeekEnd      *time.Time `json:"breakout_week_end,omitempty"`
	BreakoutWeek         string     `json:"breakout_week,omitempty"` // YYYY-MM-WW
	BreakoutPrice        *float64   `json:"breakout_price"`
	BreakoutTradingValue *float64   `json:"breakout_trading_value"`
	FloatRatePct         float64    `json:"float_rate_pct"`
	Multiplier           float64    `json:"multiplier"`
	FloatingCap          *float64   `json:"floating_cap"`
	EnergyRatio          *float64   `json:"energy_ratio"`
	TargetPrice          *float64   `json:"target_price"`
	UpsidePct            *float64   `json:"upside_pct"`
	Error                string     `json:"error,omitempty"`
}

// BreakoutEvent is one labeled calibration example: a historical weekly
// breakout plus the maximum high reached within the look-ahead horizon.
type BreakoutEvent struct {
	Symbol               string    `json:"symbol"`
	BreakoutDate         time.Time `json:"breakout_date"`
	BreakoutPrice        float64   `json:"breakout_price"`
	BreakoutTradingValue float64   `json:"breakout_trading_value"`
	MarketCap            float64   `json:"market_cap"`
	FutureMaxHigh        float64   `json:"future_max_high"`
}
