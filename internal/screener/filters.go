package screener

import (
	"strings"

	"ValueScreener/internal/model"
)

// Filters narrows a ranked screening table. Rows with a null multiple pass
// the multiple range filters: missing data is not the same as out of range.
type Filters struct {
	Sectors     []string
	MultipleMin *float64
	MultipleMax *float64
	VIPOnly     bool
	Keyword     string // matched against symbol and name, case-insensitive
}

// Apply returns the rows that satisfy every filter, preserving order.
func (f Filters) Apply(rows []model.ScreenRow) []model.ScreenRow {
	sectors := make(map[string]bool, len(f.Sectors))
	for _, s := range f.Sectors {
		sectors[s] = true
	}
	keyword := strings.ToLower(strings.TrimSpace(f.Keyword))

	out := make([]model.ScreenRow, 0, len(rows))
	for _, row := range rows {
		if len(sectors) > 0 && !sectors[row.Sector] {
			continue
		}
		if f.MultipleMin != nil && row.Multiple != nil && *row.Multiple < *f.MultipleMin {
			continue
		}
		if f.MultipleMax != nil && row.Multiple != nil && *row.Multiple > *f.MultipleMax {
			continue
		}
		if f.VIPOnly && !row.VIPPass {
			continue
		}
		if keyword != "" &&
			!strings.Contains(strings.ToLower(row.Symbol), keyword) &&
			!strings.Contains(strings.ToLower(row.Name), keyword) {
			continue
		}
		out = append(out, row)
	}
	return out
}
