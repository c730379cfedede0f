package model

// UniverseRecord identifies one listed symbol of a country universe.
type UniverseRecord struct {
	Symbol   string
	Name     string
	Country  string
	Sector   string
	Currency string
}

// Overview holds descriptive per-symbol fields fetched separately from the
// fundamental snapshot (used to backfill missing market cap / currency).
type Overview struct {
	Name      string
	Sector    string
	Currency  string
	MarketCap *float64
}
