package screener

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"ValueScreener/internal/marketdata"
	"ValueScreener/internal/metrics"
	"ValueScreener/internal/model"
	"ValueScreener/internal/universe"
)

// Service evaluates whole country universes and single tickers. The data
// fetch dominates wall-clock time, so symbols are processed by a bounded
// worker pool; each fetch runs under its own timeout so one slow symbol
// cannot stall the batch.
type Service struct {
	Universe     universe.Provider
	Data         marketdata.Provider
	Thresholds   metrics.Thresholds
	Workers      int
	FetchTimeout time.Duration
}

// New creates a screener service.
func New(up universe.Provider, dp marketdata.Provider, th metrics.Thresholds, workers int, fetchTimeout time.Duration) *Service {
	if workers <= 0 {
		workers = 8
	}
	if fetchTimeout <= 0 {
		fetchTimeout = 30 * time.Second
	}
	return &Service{
		Universe:     up,
		Data:         dp,
		Thresholds:   th,
		Workers:      workers,
		FetchTimeout: fetchTimeout,
	}
}

// EvaluateUniverse screens every symbol of a country and returns the ranked
// table. Symbols that fail to fetch are included with nulled metrics and a
// "fetch failed" reason, never dropped silently.
func (s *Service) EvaluateUniverse(ctx context.Context, country string) ([]model.ScreenRow, error) {
	limit, ok := universe.Limits[country]
	if !ok {
		return nil, fmt.Errorf("unknown country %q", country)
	}
	records, err := s.Universe.List(country, limit)
	if err != nil {
		return nil, fmt.Errorf("list universe %s: %w", country, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows := make([]model.ScreenRow, len(records))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < s.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				rows[i] = s.evaluateRecord(ctx, records[i])
			}
		}()
	}
	for i := range records {
		select {
		case jobs <- i:
		case <-ctx.Done():
			// Drain remaining indices as fetch failures.
			for j := i; j < len(records); j++ {
				rows[j] = failedRow(records[j])
			}
			close(jobs)
			wg.Wait()
			return nil, ctx.Err()
		}
	}
	close(jobs)
	wg.Wait()

	Rank(rows)
	return rows, nil
}

// EvaluateTicker screens one free-form ticker input for a country.
func (s *Service) EvaluateTicker(ctx context.Context, country, input string) (model.ScreenRow, error) {
	var records []model.UniverseRecord
	if country == universe.KRTop200 {
		// KR alias resolution matches input against the universe.
		if recs, err := s.Universe.List(country, universe.Limits[country]); err == nil {
			records = recs
		}
	}
	symbol := universe.NormalizeTicker(country, input, records)
	if symbol == "" {
		return model.ScreenRow{}, fmt.Errorf("empty ticker input")
	}

	rec := model.UniverseRecord{Symbol: symbol, Name: symbol, Country: country, Sector: "Unknown", Currency: "N/A"}
	row := s.evaluateRecord(ctx, rec)

	if row.MarketCap == nil || row.Currency == "N/A" {
		// Backfill from the overview endpoint, best effort.
		octx, cancel := context.WithTimeout(ctx, s.FetchTimeout)
		overview, err := s.Data.Overview(octx, symbol)
		cancel()
		if err == nil {
			row.Name = overview.Name
			if row.MarketCap == nil {
				row.MarketCap = overview.MarketCap
			}
			if row.Currency == "N/A" && overview.Currency != "" {
				row.Currency = overview.Currency
			}
		}
	}
	return row, nil
}

func (s *Service) evaluateRecord(ctx context.Context, rec model.UniverseRecord) model.ScreenRow {
	fctx, cancel := context.WithTimeout(ctx, s.FetchTimeout)
	snap, err := s.Data.Snapshot(fctx, rec.Symbol)
	cancel()
	if err != nil {
		log.Printf("[WARN] fetch %s: %v", rec.Symbol, err)
		return failedRow(rec)
	}

	sig := metrics.EvaluateSnapshot(snap, s.Thresholds)

	sector := snap.Sector
	if sector == "" || sector == "Unknown" {
		if rec.Sector != "" {
			sector = rec.Sector
		}
	}
	currency := snap.Currency
	if currency == "" || currency == "N/A" {
		if rec.Currency != "" {
			currency = rec.Currency
		}
	}
	asof := snap.AsOf
	return model.ScreenRow{
		Country:         rec.Country,
		Symbol:          rec.Symbol,
		Name:            rec.Name,
		Sector:          sector,
		Currency:        currency,
		MarketCap:       snap.MarketCap,
		Multiple:        sig.Multiple,
		IsRecommended:   sig.IsRecommended,
		SalesTrend:      sig.SalesTrend,
		VIPPass:         sig.VIPPass,
		StrongRecommend: metrics.StrongRecommend(sig, s.Thresholds),
		RejectionReason: sig.RejectionReason,
		AsOf:            &asof,
	}
}

func failedRow(rec model.UniverseRecord) model.ScreenRow {
	return model.ScreenRow{
		Country:         rec.Country,
		Symbol:          rec.Symbol,
		Name:            rec.Name,
		Sector:          orDefault(rec.Sector, "Unknown"),
		Currency:        orDefault(rec.Currency, "N/A"),
		SalesTrend:      model.TrendUnknown,
		RejectionReason: metrics.ReasonFetchFailed,
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// Rank sorts rows in place: strong recommendations first, then
// recommendations, then descending market cap with missing caps last.
func Rank(rows []model.ScreenRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].StrongRecommend != rows[j].StrongRecommend {
			return rows[i].StrongRecommend
		}
		if rows[i].IsRecommended != rows[j].IsRecommended {
			return rows[i].IsRecommended
		}
		mi, mj := rows[i].MarketCap, rows[j].MarketCap
		switch {
		case mi != nil && mj != nil:
			return *mi > *mj
		case mi != nil:
			return true
		default:
			return false
		}
	})
}
