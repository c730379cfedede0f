package targetprice

import (
	"context"
	"testing"

	"ValueScreener/internal/marketdata"
	"ValueScreener/internal/model"
)

func TestEngine_Compute(t *testing.T) {
	mock := &marketdata.MockProvider{
		Histories: map[string][]model.DailyBar{
			"005930.KS": weeklySpacedDaily(60),
		},
		Overviews: map[string]model.Overview{
			"005930.KS": {Name: "Samsung Electronics", Currency: "KRW", MarketCap: fl(1_000_000)},
		},
	}
	engine := NewEngine(mock)

	result := engine.Compute(context.Background(), "005930.KS", 20, 1)
	if result.Error != "" {
		t.Fatalf("unexpected diagnostic %q", result.Error)
	}
	if result.Name != "Samsung Electronics" || result.Currency != "KRW" {
		t.Errorf("overview not merged: %+v", result)
	}
	if result.CurrentPrice == nil || *result.CurrentPrice != 130 {
		t.Errorf("current price: expected 130, got %v", result.CurrentPrice)
	}
	if result.BreakoutWeekEnd == nil {
		t.Fatal("expected a breakout on the final surge week")
	}
	if result.BreakoutPrice == nil || *result.BreakoutPrice != 130 {
		t.Errorf("breakout price: expected 130, got %v", result.BreakoutPrice)
	}
	if result.BreakoutWeek == "" {
		t.Error("breakout week label missing")
	}
	if result.TargetPrice == nil || result.UpsidePct == nil {
		t.Errorf("target fields missing: %+v", result)
	}
}

func TestEngine_HistoryUnavailable(t *testing.T) {
	engine := NewEngine(&marketdata.MockProvider{})

	result := engine.Compute(context.Background(), "GHOST", 20, 1)
	if result.Error != ErrNoDailyHistory {
		t.Errorf("expected %q, got %q", ErrNoDailyHistory, result.Error)
	}
	if result.TargetPrice != nil {
		t.Error("no target price may be produced without history")
	}
}

func TestEngine_NoBreakoutDiagnostic(t *testing.T) {
	bars := weeklySpacedDaily(60)
	for i := range bars {
		bars[i].Open, bars[i].High, bars[i].Low, bars[i].Close = 100, 101, 99, 100
		bars[i].TradingValue = 100 * 1000
	}
	mock := &marketdata.MockProvider{
		Histories: map[string][]model.DailyBar{"FLAT": bars},
		Overviews: map[string]model.Overview{
			"FLAT": {Name: "Flat Co", Currency: "USD", MarketCap: fl(5_000_000)},
		},
	}
	result := NewEngine(mock).Compute(context.Background(), "FLAT", 20, 1)
	if result.Error != ErrNoBreakout {
		t.Errorf("expected %q, got %q", ErrNoBreakout, result.Error)
	}
	if result.MA52Price == nil {
		t.Error("MA52 must still be reported for a flat series")
	}
}
