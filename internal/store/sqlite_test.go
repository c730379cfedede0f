package store

import (
	"path/filepath"
	"testing"
	"time"

	"ValueScreener/internal/calibration"
	"ValueScreener/internal/model"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func f(v float64) *float64 { return &v }

func TestSQLiteStore_ScreenRoundTrip(t *testing.T) {
	s := openTestStore(t)

	asof := time.Date(2026, 8, 27, 7, 30, 0, 0, time.UTC)
	rows := []model.ScreenRow{
		{
			Country: "KR_TOP200", Symbol: "005930.KS", Name: "Samsung Electronics",
			Sector: "Technology", Currency: "KRW",
			MarketCap: f(4.5e14), Multiple: f(8.2),
			IsRecommended: true, SalesTrend: model.TrendUp, VIPPass: true,
			StrongRecommend: true, AsOf: &asof,
		},
		{
			Country: "KR_TOP200", Symbol: "035420.KS", Name: "NAVER",
			Sector: "Communication Services", Currency: "KRW",
			SalesTrend: model.TrendUnknown, RejectionReason: "fetch failed",
		},
	}
	refreshedAt := time.Date(2026, 8, 27, 8, 0, 0, 0, time.UTC)
	if err := s.SaveScreen("KR_TOP200", rows, refreshedAt); err != nil {
		t.Fatal(err)
	}

	got, gotAt, err := s.LoadScreen("KR_TOP200")
	if err != nil {
		t.Fatal(err)
	}
	if !gotAt.Equal(refreshedAt) {
		t.Errorf("refreshed_at: expected %s, got %s", refreshedAt, gotAt)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}

	first := got[0]
	if first.Symbol != "005930.KS" {
		t.Errorf("rank order lost: first row is %s", first.Symbol)
	}
	if first.Multiple == nil || *first.Multiple != 8.2 {
		t.Errorf("multiple: expected 8.2, got %v", first.Multiple)
	}
	if !first.StrongRecommend || !first.VIPPass || first.SalesTrend != model.TrendUp {
		t.Errorf("flags lost: %+v", first)
	}
	if first.AsOf == nil || !first.AsOf.Equal(asof) {
		t.Errorf("asof: expected %s, got %v", asof, first.AsOf)
	}

	second := got[1]
	if second.MarketCap != nil || second.Multiple != nil {
		t.Errorf("null metrics must survive the round trip: %+v", second)
	}
	if second.RejectionReason != "fetch failed" {
		t.Errorf("rejection reason lost: %q", second.RejectionReason)
	}
}

func TestSQLiteStore_SaveScreenReplaces(t *testing.T) {
	s := openTestStore(t)

	old := []model.ScreenRow{{Symbol: "AAPL", SalesTrend: model.TrendUp}, {Symbol: "MSFT", SalesTrend: model.TrendFlat}}
	if err := s.SaveScreen("US_TOP500", old, time.Now()); err != nil {
		t.Fatal(err)
	}
	next := []model.ScreenRow{{Symbol: "NVDA", SalesTrend: model.TrendUp}}
	if err := s.SaveScreen("US_TOP500", next, time.Now()); err != nil {
		t.Fatal(err)
	}

	got, _, err := s.LoadScreen("US_TOP500")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Symbol != "NVDA" {
		t.Errorf("save must replace the previous table, got %+v", got)
	}
}

func TestSQLiteStore_LoadScreenMissing(t *testing.T) {
	s := openTestStore(t)

	rows, refreshedAt, err := s.LoadScreen("JP_TOP200")
	if err != nil {
		t.Fatal(err)
	}
	if rows != nil || !refreshedAt.IsZero() {
		t.Errorf("missing country must return nil rows and zero time, got %v %s", rows, refreshedAt)
	}
}

func TestSQLiteStore_CalibrationRoundTrip(t *testing.T) {
	s := openTestStore(t)

	result := &calibration.Result{
		Country:    "KR_TOP200",
		CreatedAt:  time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		EventCount: 412,
		Best:       calibration.GridPoint{FloatRate: 20, Multiplier: 1.2, ValidHitRate: 0.61},
		Table:      []calibration.GridPoint{{FloatRate: 20, Multiplier: 1.2, ValidHitRate: 0.61}},
	}
	if err := s.SaveCalibration(result); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadCalibration("KR_TOP200")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Fatal("expected stored calibration result")
	}
	if got.EventCount != 412 || got.Best.FloatRate != 20 || got.Best.Multiplier != 1.2 {
		t.Errorf("round trip mismatch: %+v", got)
	}

	if missing, err := s.LoadCalibration("EU_TOP200"); err != nil || missing != nil {
		t.Errorf("missing country: expected nil result, got %v (%v)", missing, err)
	}
}
