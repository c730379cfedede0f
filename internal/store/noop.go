package store

import (
	"time"

	"ValueScreener/internal/calibration"
	"ValueScreener/internal/model"
)

// NoopStore is used when SQLite is not configured; every screen request then
// recomputes from live data.
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (n *NoopStore) SaveScreen(string, []model.ScreenRow, time.Time) error { return nil }
func (n *NoopStore) LoadScreen(string) ([]model.ScreenRow, time.Time, error) {
	return nil, time.Time{}, nil
}
func (n *NoopStore) SaveCalibration(*calibration.Result) error { return nil }
func (n *NoopStore) LoadCalibration(string) (*calibration.Result, error) {
	return nil, nil
}
func (n *NoopStore) Close() error { return nil }
