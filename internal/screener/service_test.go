package screener

import (
	"context"
	"testing"
	"time"

	"ValueScreener/internal/marketdata"
	"ValueScreener/internal/metrics"
	"ValueScreener/internal/model"
	"ValueScreener/internal/universe"
)

type fakeUniverse struct {
	records []model.UniverseRecord
}

func (f *fakeUniverse) List(string, int) ([]model.UniverseRecord, error) {
	return f.records, nil
}

func f(v float64) *float64 { return &v }

func krRecord(symbol, name string) model.UniverseRecord {
	return model.UniverseRecord{
		Symbol: symbol, Name: name,
		Country: universe.KRTop200, Sector: "Unknown", Currency: "KRW",
	}
}

func testService(mock *marketdata.MockProvider, records ...model.UniverseRecord) *Service {
	return New(&fakeUniverse{records: records}, mock, metrics.DefaultThresholds(), 4, time.Second)
}

func TestEvaluateUniverse_RanksAndKeepsFailures(t *testing.T) {
	mock := &marketdata.MockProvider{
		Snapshots: map[string]*model.FundamentalSnapshot{
			// Strong: multiple 3, revenue trending up.
			"005930.KS": {
				Symbol: "005930.KS", MarketCap: f(900),
				OCFQuarterly:  []float64{100, 80, 70, 50},
				RevenueYearly: []float64{100, 120, 150, 190, 240},
				AsOf:          time.Now(),
			},
			// Rejected: multiple 15.
			"000660.KS": {
				Symbol: "000660.KS", MarketCap: f(15000),
				OCFQuarterly: []float64{250, 250, 250, 250},
				AsOf:         time.Now(),
			},
			// "035420.KS" is missing: fetch fails.
		},
	}
	svc := testService(mock,
		krRecord("000660.KS", "SK hynix"),
		krRecord("035420.KS", "NAVER"),
		krRecord("005930.KS", "Samsung Electronics"),
	)

	rows, err := svc.EvaluateUniverse(context.Background(), universe.KRTop200)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	if rows[0].Symbol != "005930.KS" || !rows[0].StrongRecommend {
		t.Errorf("expected the strong recommendation first, got %+v", rows[0])
	}
	if rows[1].Symbol != "000660.KS" {
		t.Errorf("expected the capitalized rejection second, got %+v", rows[1])
	}

	failed := rows[2]
	if failed.Symbol != "035420.KS" {
		t.Fatalf("expected the failed symbol last, got %+v", failed)
	}
	if failed.RejectionReason != metrics.ReasonFetchFailed {
		t.Errorf("expected reason %q, got %q", metrics.ReasonFetchFailed, failed.RejectionReason)
	}
	if failed.SalesTrend != model.TrendUnknown {
		t.Errorf("failed row trend: expected UNKNOWN, got %s", failed.SalesTrend)
	}
	if failed.Multiple != nil || failed.MarketCap != nil {
		t.Error("failed row metrics must stay null")
	}
}

func TestEvaluateUniverse_ContextCancelled(t *testing.T) {
	svc := testService(&marketdata.MockProvider{}, krRecord("005930.KS", "Samsung Electronics"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.EvaluateUniverse(ctx, universe.KRTop200); err == nil {
		t.Error("expected error from cancelled context")
	}
}

func TestEvaluateTicker_NormalizesInput(t *testing.T) {
	mock := &marketdata.MockProvider{
		Snapshots: map[string]*model.FundamentalSnapshot{
			"005930.KS": {
				Symbol: "005930.KS", MarketCap: f(900),
				OCFQuarterly: []float64{100, 80, 70, 50},
				Currency:     "KRW",
				AsOf:         time.Now(),
			},
		},
	}
	svc := testService(mock, krRecord("005930.KS", "삼성전자"))

	row, err := svc.EvaluateTicker(context.Background(), universe.KRTop200, "5930")
	if err != nil {
		t.Fatal(err)
	}
	if row.Symbol != "005930.KS" {
		t.Errorf("expected normalized symbol, got %q", row.Symbol)
	}
	if !row.IsRecommended {
		t.Errorf("expected recommendation, reason %q", row.RejectionReason)
	}
}

func TestEvaluateTicker_EmptyInput(t *testing.T) {
	svc := testService(&marketdata.MockProvider{})
	if _, err := svc.EvaluateTicker(context.Background(), universe.USTop500, "  "); err == nil {
		t.Error("expected error for empty ticker input")
	}
}

func TestRank_Order(t *testing.T) {
	rows := []model.ScreenRow{
		{Symbol: "D"},
		{Symbol: "C", IsRecommended: true, MarketCap: f(100)},
		{Symbol: "A", IsRecommended: true, StrongRecommend: true, MarketCap: f(50)},
		{Symbol: "B", IsRecommended: true, MarketCap: f(300)},
		{Symbol: "E", MarketCap: f(900)},
	}
	Rank(rows)

	want := []string{"A", "B", "C", "E", "D"}
	for i, sym := range want {
		if rows[i].Symbol != sym {
			t.Fatalf("position %d: expected %s, got %s (order %v)", i, sym, rows[i].Symbol, symbols(rows))
		}
	}
}

func symbols(rows []model.ScreenRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Symbol
	}
	return out
}
