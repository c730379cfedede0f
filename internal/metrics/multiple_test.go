package metrics

import (
	"testing"

	"ValueScreener/internal/model"
)

func snap(mcap *float64, quarters []float64, ttm *float64) *model.FundamentalSnapshot {
	return &model.FundamentalSnapshot{
		Symbol:       "TEST",
		MarketCap:    mcap,
		OCFQuarterly: quarters,
		OCFTTM:       ttm,
	}
}

func f(v float64) *float64 { return &v }

func TestComputeMultiple_FourQuarters(t *testing.T) {
	m, reason := ComputeMultiple(snap(f(1200), []float64{100, 100, 50, 50}, nil))
	if m == nil {
		t.Fatalf("expected multiple, got reason %q", reason)
	}
	if *m != 4.0 {
		t.Errorf("expected multiple 4.0, got %v", *m)
	}
	if reason != "" {
		t.Errorf("unexpected reason %q", reason)
	}
}

func TestComputeMultiple_QuartersPreferredOverTTM(t *testing.T) {
	// Four quarters sum to 300; the TTM value must be ignored.
	m, _ := ComputeMultiple(snap(f(900), []float64{100, 100, 50, 50}, f(100)))
	if m == nil || *m != 3.0 {
		t.Fatalf("expected quarter-sum multiple 3.0, got %v", m)
	}
}

func TestComputeMultiple_TTMFallback(t *testing.T) {
	m, reason := ComputeMultiple(snap(f(500), []float64{100, 100}, f(250)))
	if m == nil {
		t.Fatalf("expected TTM fallback, got reason %q", reason)
	}
	if *m != 2.0 {
		t.Errorf("expected multiple 2.0, got %v", *m)
	}
}

func TestComputeMultiple_MissingMarketCap(t *testing.T) {
	m, reason := ComputeMultiple(snap(nil, []float64{100, 100, 50, 50}, nil))
	if m != nil {
		t.Fatalf("expected nil multiple, got %v", *m)
	}
	if reason != ReasonInsufficientData {
		t.Errorf("expected %q, got %q", ReasonInsufficientData, reason)
	}
}

func TestComputeMultiple_FewQuartersNoTTM(t *testing.T) {
	m, reason := ComputeMultiple(snap(f(500), []float64{100, 100, 50}, nil))
	if m != nil {
		t.Fatalf("expected nil multiple, got %v", *m)
	}
	if reason != ReasonInsufficientOCF {
		t.Errorf("expected %q, got %q", ReasonInsufficientOCF, reason)
	}
}

func TestComputeMultiple_NonPositiveOCF(t *testing.T) {
	m, reason := ComputeMultiple(snap(f(500), []float64{100, -200, 50, 40}, nil))
	if m != nil {
		t.Fatalf("expected nil multiple, got %v", *m)
	}
	if reason != ReasonNonPositiveOCF {
		t.Errorf("expected %q, got %q", ReasonNonPositiveOCF, reason)
	}

	m, reason = ComputeMultiple(snap(f(500), nil, f(-10)))
	if m != nil || reason != ReasonNonPositiveOCF {
		t.Errorf("negative TTM: expected %q, got %v %q", ReasonNonPositiveOCF, m, reason)
	}
}
