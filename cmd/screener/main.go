package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"ValueScreener/internal/config"
	"ValueScreener/internal/marketdata"
	"ValueScreener/internal/metrics"
	"ValueScreener/internal/scheduler"
	"ValueScreener/internal/screener"
	"ValueScreener/internal/server"
	"ValueScreener/internal/store"
	"ValueScreener/internal/targetprice"
	"ValueScreener/internal/universe"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] ValueScreener starting...")

	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Data provider with pacing toward the external API.
	throttle := marketdata.FixedPause{Pause: time.Duration(cfg.DataSource.PauseSeconds * float64(time.Second))}
	provider := marketdata.NewYahooProvider(cfg.DataSource.Proxy, throttle)
	log.Printf("[INFO] data source: %s", provider.Name())

	universeProvider := universe.NewSeedProvider(cfg.Universe.SeedDir)

	var st store.Store
	if cfg.Database.SQLitePath != "" {
		ss, err := store.NewSQLiteStore(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite store failed, using noop: %v", err)
			st = store.NewNoopStore()
		} else {
			st = ss
			defer ss.Close()
		}
	} else {
		st = store.NewNoopStore()
	}

	thresholds := thresholdsFromConfig(cfg)
	svc := screener.New(universeProvider, provider, thresholds,
		cfg.Screen.Workers, time.Duration(cfg.DataSource.TimeoutSeconds)*time.Second)
	engine := targetprice.NewEngine(provider)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, svc, st)
	if err := sched.Register(cfg.Schedule.DailyCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	handlers := &server.Handlers{
		Screener:          svc,
		Engine:            engine,
		Store:             st,
		Universe:          universeProvider,
		TTL:               time.Duration(cfg.Database.TTLHours) * time.Hour,
		DefaultFloatRate:  cfg.TargetPrice.DefaultFloatRatePct,
		DefaultMultiplier: cfg.TargetPrice.DefaultMultiplier,
	}
	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: handlers.Router(cfg.Server.AllowedOrigins),
	}
	go func() {
		log.Printf("[INFO] http server listening on %s", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[FATAL] http server: %v", err)
		}
	}()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing daily refresh now")
		go sched.RunDailyNow()
	}

	log.Println("[INFO] ValueScreener is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("[WARN] http shutdown: %v", err)
	}
	log.Println("[INFO] ValueScreener stopped")
}

func thresholdsFromConfig(cfg *config.Config) metrics.Thresholds {
	return metrics.Thresholds{
		MultipleThreshold:   cfg.Screen.MultipleThreshold,
		StrongMultipleMax:   cfg.Screen.StrongMultipleMax,
		MAShort:             cfg.Screen.MAShort,
		MALong:              cfg.Screen.MALong,
		SixMonthTradingDays: cfg.Screen.SixMonthTradingDays,
		VIPBelowRatio:       cfg.Screen.VIPBelowRatio,
		SalesR2Flat:         cfg.Screen.SalesR2Flat,
		SalesSlopeEps:       cfg.Screen.SalesSlopeEps,
	}
}
