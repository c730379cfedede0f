package marketdata

import (
	"context"
	"fmt"
	"time"

	"ValueScreener/internal/model"
)

// MockProvider returns controllable fixed data for development and testing.
type MockProvider struct {
	Snapshots map[string]*model.FundamentalSnapshot
	Histories map[string][]model.DailyBar
	Overviews map[string]model.Overview
	Err       error // returned for any symbol not present in the maps
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) Snapshot(_ context.Context, symbol string) (*model.FundamentalSnapshot, error) {
	if snap, ok := m.Snapshots[symbol]; ok {
		return snap, nil
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return nil, fmt.Errorf("mock: no snapshot for %s", symbol)
}

func (m *MockProvider) DailyHistory(_ context.Context, symbol string, _, _ time.Time) ([]model.DailyBar, error) {
	if bars, ok := m.Histories[symbol]; ok {
		return bars, nil
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return nil, fmt.Errorf("mock: no history for %s", symbol)
}

func (m *MockProvider) Overview(_ context.Context, symbol string) (model.Overview, error) {
	if ov, ok := m.Overviews[symbol]; ok {
		return ov, nil
	}
	return model.Overview{Name: symbol, Sector: "Unknown", Currency: "N/A"}, nil
}
