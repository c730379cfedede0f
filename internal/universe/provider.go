package universe

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"ValueScreener/internal/model"
)

// Provider lists the symbols of a country universe. Results are best effort:
// symbols may turn out to be delisted or unfetchable, which downstream code
// must tolerate per symbol.
type Provider interface {
	List(country string, limit int) ([]model.UniverseRecord, error)
}

// SeedProvider reads (symbol,name) universes from per-country seed CSV
// files. Parsed universes are cached for the process lifetime; seeds only
// change on deploy.
type SeedProvider struct {
	Dir string

	mu    sync.Mutex
	cache map[string][]model.UniverseRecord
}

// NewSeedProvider creates a provider reading seeds from dir.
func NewSeedProvider(dir string) *SeedProvider {
	return &SeedProvider{Dir: dir, cache: make(map[string][]model.UniverseRecord)}
}

// List returns up to limit records for the country, deduplicated by
// normalized symbol in file order.
func (p *SeedProvider) List(country string, limit int) ([]model.UniverseRecord, error) {
	if !Valid(country) {
		return nil, fmt.Errorf("unknown country %q", country)
	}

	p.mu.Lock()
	records, ok := p.cache[country]
	p.mu.Unlock()
	if !ok {
		var err error
		records, err = p.load(country)
		if err != nil {
			return nil, err
		}
		p.mu.Lock()
		p.cache[country] = records
		p.mu.Unlock()
	}

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (p *SeedProvider) load(country string) ([]model.UniverseRecord, error) {
	path := filepath.Join(p.Dir, seedFiles[country])
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse seed %s: %w", path, err)
	}

	currency := "N/A"
	if country == KRTop200 {
		currency = "KRW"
	}

	var out []model.UniverseRecord
	seen := make(map[string]bool)
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		symbol := strings.TrimSpace(row[0])
		if symbol == "" || (i == 0 && strings.EqualFold(symbol, "symbol")) {
			continue // header row
		}
		symbol = NormalizeSymbol(country, symbol)
		if seen[symbol] {
			continue
		}
		seen[symbol] = true

		name := symbol
		if len(row) > 1 && strings.TrimSpace(row[1]) != "" {
			name = strings.TrimSpace(row[1])
		}
		out = append(out, model.UniverseRecord{
			Symbol:   symbol,
			Name:     name,
			Country:  country,
			Sector:   "Unknown",
			Currency: currency,
		})
	}
	return out, nil
}
