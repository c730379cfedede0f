package marketdata

import (
	"context"
	"time"

	"ValueScreener/internal/model"
)

// Provider abstracts the external market-data source. Implementations must
// treat every call as fallible and per-symbol: a failed symbol returns an
// error, never a partial snapshot with non-finite numbers.
type Provider interface {
	// Snapshot fetches the fundamental snapshot for one symbol.
	Snapshot(ctx context.Context, symbol string) (*model.FundamentalSnapshot, error)
	// DailyHistory fetches raw daily OHLCV bars for the given date range.
	DailyHistory(ctx context.Context, symbol string, start, end time.Time) ([]model.DailyBar, error)
	// Overview fetches descriptive fields (name, sector, currency, market cap).
	Overview(ctx context.Context, symbol string) (model.Overview, error)
	Name() string
}

// Throttle paces calls toward the external provider. The screener core only
// requires that Wait is honored between calls; the policy (fixed pause,
// token bucket, none) is the caller's choice.
type Throttle interface {
	Wait(ctx context.Context) error
}

// FixedPause sleeps a constant duration before each call.
type FixedPause struct {
	Pause time.Duration
}

func (p FixedPause) Wait(ctx context.Context) error {
	if p.Pause <= 0 {
		return nil
	}
	select {
	case <-time.After(p.Pause):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NoThrottle performs no pacing.
type NoThrottle struct{}

func (NoThrottle) Wait(context.Context) error { return nil }
