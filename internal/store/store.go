package store

import (
	"time"

	"ValueScreener/internal/calibration"
	"ValueScreener/internal/model"
)

// Store persists computed screening tables and calibration results so the
// serving path can answer from the last refresh instead of refetching 500
// symbols per request.
type Store interface {
	SaveScreen(country string, rows []model.ScreenRow, refreshedAt time.Time) error
	// LoadScreen returns the cached table and its refresh time. A missing
	// country returns (nil, zero, nil); staleness is the caller's decision.
	LoadScreen(country string) ([]model.ScreenRow, time.Time, error)
	SaveCalibration(result *calibration.Result) error
	// LoadCalibration returns nil when no result is stored for the country.
	LoadCalibration(country string) (*calibration.Result, error)
	Close() error
}
