package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"ValueScreener/internal/screener"
	"ValueScreener/internal/store"
	"ValueScreener/internal/universe"
)

// Scheduler runs the daily universe refresh: every country is screened and
// the ranked table persisted so interactive requests are served from cache.
type Scheduler struct {
	Cron     *cron.Cron
	Screener *screener.Service
	Store    store.Store
	Ctx      context.Context
}

// NewScheduler creates a Scheduler.
func NewScheduler(ctx context.Context, svc *screener.Service, st store.Store) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Screener: svc,
		Store:    st,
		Ctx:      ctx,
	}
}

// Register registers the daily refresh task.
func (s *Scheduler) Register(dailyCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyRefresh); err != nil {
		return fmt.Errorf("register daily refresh: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunDailyNow executes the refresh immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunDailyNow() {
	s.dailyRefresh()
}

func (s *Scheduler) dailyRefresh() {
	log.Println("[INFO] running daily refresh")
	for _, country := range universe.Countries() {
		started := time.Now()
		rows, err := s.Screener.EvaluateUniverse(s.Ctx, country)
		if err != nil {
			log.Printf("[ERROR] refresh %s: %v", country, err)
			continue
		}
		if err := s.Store.SaveScreen(country, rows, time.Now().UTC()); err != nil {
			log.Printf("[ERROR] save %s: %v", country, err)
			continue
		}
		log.Printf("[INFO] refreshed %s: %d rows in %s", country, len(rows), time.Since(started).Round(time.Second))
	}
}
