package calibration

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"ValueScreener/internal/marketdata"
	"ValueScreener/internal/model"
	"ValueScreener/internal/targetprice"
	"ValueScreener/internal/universe"
)

// Run-fatal calibration failures. Unlike screening, a calibration run with
// no usable data reports a final error instead of partial output.
var (
	ErrNoEvents = errors.New("no events collected; adjust symbols or date range")
	ErrNoRows   = errors.New("grid search produced no rows")
)

// Params configures one calibration run.
type Params struct {
	Country         string
	MaxSymbols      int
	Start           time.Time
	End             time.Time
	ValidationStart time.Time
	HorizonWeeks    int
	FloatRates      []float64
	Multipliers     []float64
}

// Result is the outcome of a calibration run. Table is ranked; the first row
// is the recommended default parameter pair.
type Result struct {
	Country    string    `json:"country"`
	CreatedAt  time.Time `json:"created_at_utc"`
	EventCount int       `json:"event_count"`
	Best       GridPoint `json:"best"`
	Table      []GridPoint `json:"table"`
}

// Searcher collects historical breakout events and runs the grid search.
// Event extraction is the expensive part (one history fetch per symbol); it
// happens exactly once and the cached events are reused across every grid
// point.
type Searcher struct {
	Universe     universe.Provider
	Data         marketdata.Provider
	Workers      int
	FetchTimeout time.Duration
}

// NewSearcher creates a Searcher.
func NewSearcher(up universe.Provider, dp marketdata.Provider, workers int, fetchTimeout time.Duration) *Searcher {
	if workers <= 0 {
		workers = 8
	}
	if fetchTimeout <= 0 {
		fetchTimeout = 30 * time.Second
	}
	return &Searcher{Universe: up, Data: dp, Workers: workers, FetchTimeout: fetchTimeout}
}

// Run executes the full calibration: collect events, evaluate the grid,
// rank, and pick the best pair.
func (s *Searcher) Run(ctx context.Context, params Params) (*Result, error) {
	events, err := s.CollectEvents(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, ErrNoEvents
	}

	table := EvaluateGrid(events, params.FloatRates, params.Multipliers, params.ValidationStart)
	if len(table) == 0 {
		return nil, ErrNoRows
	}

	return &Result{
		Country:    params.Country,
		CreatedAt:  time.Now().UTC(),
		EventCount: len(events),
		Best:       table[0],
		Table:      table,
	}, nil
}

// CollectEvents extracts every historical breakout event for the sample
// universe. Per-symbol failures are logged and skipped; they only become an
// error when nothing at all was collected.
func (s *Searcher) CollectEvents(ctx context.Context, params Params) ([]model.BreakoutEvent, error) {
	limit := params.MaxSymbols
	if max, ok := universe.Limits[params.Country]; ok && (limit <= 0 || limit > max) {
		limit = max
	}
	records, err := s.Universe.List(params.Country, limit)
	if err != nil {
		return nil, fmt.Errorf("list universe %s: %w", params.Country, err)
	}

	perSymbol := make([][]model.BreakoutEvent, len(records))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < s.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				perSymbol[i] = s.collectSymbol(ctx, records[i].Symbol, params)
			}
		}()
	}
	for i := range records {
		select {
		case jobs <- i:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, ctx.Err()
		}
	}
	close(jobs)
	wg.Wait()

	var events []model.BreakoutEvent
	for _, evs := range perSymbol {
		events = append(events, evs...)
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].BreakoutDate.Before(events[j].BreakoutDate)
	})
	return events, nil
}

func (s *Searcher) collectSymbol(ctx context.Context, symbol string, params Params) []model.BreakoutEvent {
	octx, cancel := context.WithTimeout(ctx, s.FetchTimeout)
	overview, err := s.Data.Overview(octx, symbol)
	cancel()
	if err != nil || overview.MarketCap == nil || *overview.MarketCap <= 0 {
		if err != nil {
			log.Printf("[WARN] calibration overview %s: %v", symbol, err)
		}
		return nil
	}

	hctx, cancel := context.WithTimeout(ctx, s.FetchTimeout)
	raw, err := s.Data.DailyHistory(hctx, symbol, params.Start, params.End)
	cancel()
	if err != nil {
		log.Printf("[WARN] calibration history %s: %v", symbol, err)
		return nil
	}

	weekly := targetprice.ResampleWeekly(targetprice.NormalizeDaily(raw))
	return ExtractEvents(symbol, weekly, *overview.MarketCap, params.HorizonWeeks)
}
