package calibration

import (
	"context"
	"errors"
	"testing"
	"time"

	"ValueScreener/internal/marketdata"
	"ValueScreener/internal/model"
)

type fakeUniverse struct {
	records []model.UniverseRecord
	err     error
}

func (f *fakeUniverse) List(string, int) ([]model.UniverseRecord, error) {
	return f.records, f.err
}

// breakoutDaily builds n daily bars seven days apart so each becomes its own
// weekly bar: flat 100, dip to 99 at n-12, surge to 130 at n-11, then 140.
// The surge crosses MA52 and leaves ten future weeks to label the event.
func breakoutDaily(n int) []model.DailyBar {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.DailyBar, n)
	for i := range bars {
		c := 100.0
		switch {
		case i == n-12:
			c = 99
		case i == n-11:
			c = 130
		case i > n-11:
			c = 140
		}
		bars[i] = model.DailyBar{
			Date: start.AddDate(0, 0, 7*i),
			Open: c, High: c + 5, Low: c - 5, Close: c, Volume: 1000,
		}
	}
	return bars
}

func searchParams() Params {
	return Params{
		Country:         "KR_TOP200",
		MaxSymbols:      10,
		Start:           time.Date(2014, 1, 1, 0, 0, 0, 0, time.UTC),
		End:             time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		ValidationStart: time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC),
		HorizonWeeks:    26,
		FloatRates:      []float64{20, 50},
		Multipliers:     []float64{0.1, 0.5, 1.0},
	}
}

func TestSearcher_Run(t *testing.T) {
	mcap := 1_000_000.0
	mock := &marketdata.MockProvider{
		Histories: map[string][]model.DailyBar{
			"005930.KS": breakoutDaily(80),
			"000660.KS": breakoutDaily(90),
		},
		Overviews: map[string]model.Overview{
			"005930.KS": {Name: "Samsung Electronics", MarketCap: &mcap},
			"000660.KS": {Name: "SK hynix", MarketCap: &mcap},
		},
	}
	up := &fakeUniverse{records: []model.UniverseRecord{
		{Symbol: "005930.KS"}, {Symbol: "000660.KS"},
	}}
	s := NewSearcher(up, mock, 2, time.Second)

	params := searchParams()
	result, err := s.Run(context.Background(), params)
	if err != nil {
		t.Fatal(err)
	}
	if result.EventCount != 2 {
		t.Errorf("expected one event per symbol, got %d", result.EventCount)
	}
	if len(result.Table) == 0 {
		t.Fatal("expected scored grid points")
	}
	if result.Best != result.Table[0] {
		t.Error("best must be the first ranked row")
	}
	// Events arrive sorted by breakout date across symbols.
	events, err := s.CollectEvents(context.Background(), params)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(events); i++ {
		if events[i].BreakoutDate.Before(events[i-1].BreakoutDate) {
			t.Errorf("events out of order at %d", i)
		}
	}
}

func TestSearcher_SymbolsWithoutMarketCapSkipped(t *testing.T) {
	mock := &marketdata.MockProvider{
		Histories: map[string][]model.DailyBar{"NOCAP": breakoutDaily(80)},
		Overviews: map[string]model.Overview{"NOCAP": {Name: "No Cap Co"}},
	}
	up := &fakeUniverse{records: []model.UniverseRecord{{Symbol: "NOCAP"}}}
	s := NewSearcher(up, mock, 2, time.Second)

	if _, err := s.Run(context.Background(), searchParams()); !errors.Is(err, ErrNoEvents) {
		t.Errorf("expected ErrNoEvents, got %v", err)
	}
}

func TestSearcher_UniverseError(t *testing.T) {
	s := NewSearcher(&fakeUniverse{err: errors.New("seed lost")}, &marketdata.MockProvider{}, 2, time.Second)
	if _, err := s.Run(context.Background(), searchParams()); err == nil {
		t.Error("expected error from universe listing")
	}
}
