package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"ValueScreener/internal/calibration"
	"ValueScreener/internal/config"
	"ValueScreener/internal/marketdata"
	"ValueScreener/internal/store"
	"ValueScreener/internal/universe"
)

// calibrate runs the offline grid search over (float rate, multiplier) and
// writes the ranked table plus the recommended defaults.
func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	_ = godotenv.Load()

	var (
		country         = flag.String("country", universe.KRTop200, "universe to sample")
		maxSymbols      = flag.Int("max-symbols", 120, "maximum symbols to fetch")
		start           = flag.String("start", "2014-01-01", "history start date (YYYY-MM-DD)")
		end             = flag.String("end", time.Now().UTC().Format("2006-01-02"), "history end date (YYYY-MM-DD)")
		validationStart = flag.String("validation-start", "2023-01-01", "events on/after this date form the validation set")
		horizonWeeks    = flag.Int("horizon-weeks", 26, "look-ahead horizon per breakout")
		floatMin        = flag.Float64("float-min", 10.0, "float rate grid minimum (percent)")
		floatMax        = flag.Float64("float-max", 100.0, "float rate grid maximum (percent)")
		floatStep       = flag.Float64("float-step", 5.0, "float rate grid step")
		multMin         = flag.Float64("mult-min", 0.1, "multiplier grid minimum")
		multMax         = flag.Float64("mult-max", 5.0, "multiplier grid maximum")
		multStep        = flag.Float64("mult-step", 0.1, "multiplier grid step")
		pause           = flag.Float64("pause", 0.0, "pause between provider calls, seconds")
		outJSON         = flag.String("out-json", "data/target_price_grid_search.json", "JSON output path")
		outCSV          = flag.String("out-csv", "data/target_price_grid_search_table.csv", "CSV output path")
	)
	flag.Parse()

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}

	startDate, err := time.Parse("2006-01-02", *start)
	if err != nil {
		log.Fatalf("[FATAL] parse -start: %v", err)
	}
	endDate, err := time.Parse("2006-01-02", *end)
	if err != nil {
		log.Fatalf("[FATAL] parse -end: %v", err)
	}
	validationDate, err := time.Parse("2006-01-02", *validationStart)
	if err != nil {
		log.Fatalf("[FATAL] parse -validation-start: %v", err)
	}

	throttle := marketdata.FixedPause{Pause: time.Duration(*pause * float64(time.Second))}
	provider := marketdata.NewYahooProvider(cfg.DataSource.Proxy, throttle)
	universeProvider := universe.NewSeedProvider(cfg.Universe.SeedDir)

	searcher := calibration.NewSearcher(universeProvider, provider,
		cfg.Screen.Workers, time.Duration(cfg.DataSource.TimeoutSeconds)*time.Second)

	params := calibration.Params{
		Country:         *country,
		MaxSymbols:      *maxSymbols,
		Start:           startDate,
		End:             endDate,
		ValidationStart: validationDate,
		HorizonWeeks:    *horizonWeeks,
		FloatRates:      calibration.GridValues(*floatMin, *floatMax, *floatStep),
		Multipliers:     calibration.GridValues(*multMin, *multMax, *multStep),
	}

	log.Printf("[INFO] calibrating %s: %d float rates x %d multipliers",
		params.Country, len(params.FloatRates), len(params.Multipliers))

	result, err := searcher.Run(context.Background(), params)
	if err != nil {
		log.Fatalf("[FATAL] calibration: %v", err)
	}
	log.Printf("[INFO] %d events, %d scored grid points; best: float_rate=%.1f multiplier=%.2f (hit=%.3f score=%.3f)",
		result.EventCount, len(result.Table),
		result.Best.FloatRate, result.Best.Multiplier,
		result.Best.ValidHitRate, result.Best.Score)

	if err := writeCSV(*outCSV, result.Table); err != nil {
		log.Fatalf("[FATAL] write csv: %v", err)
	}
	if err := writeJSON(*outJSON, result); err != nil {
		log.Fatalf("[FATAL] write json: %v", err)
	}

	// Persist for the serving path when a database is configured.
	if cfg.Database.SQLitePath != "" {
		if st, err := store.NewSQLiteStore(cfg.Database.SQLitePath); err == nil {
			if err := st.SaveCalibration(result); err != nil {
				log.Printf("[WARN] save calibration to store: %v", err)
			}
			st.Close()
		} else {
			log.Printf("[WARN] open store: %v", err)
		}
	}
	log.Printf("[INFO] wrote %s and %s", *outCSV, *outJSON)
}

func writeJSON(path string, result *calibration.Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	// Mirror the table's head into a compact payload alongside the full table.
	top := result.Table
	if len(top) > 10 {
		top = top[:10]
	}
	payload := struct {
		Country    string                  `json:"country"`
		CreatedAt  time.Time               `json:"created_at_utc"`
		EventCount int                     `json:"event_count"`
		Best       calibration.GridPoint   `json:"best"`
		Top10      []calibration.GridPoint `json:"top10"`
	}{result.Country, result.CreatedAt, result.EventCount, result.Best, top}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return os.WriteFile(path, data, 0o644)
}

func writeCSV(path string, table []calibration.GridPoint) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"float_rate", "multiplier", "train_events", "valid_events",
		"train_hit_rate", "valid_hit_rate", "train_avg_target_upside_pct",
		"valid_avg_target_upside_pct", "valid_balanced_score"}); err != nil {
		return err
	}
	for _, p := range table {
		if err := w.Write([]string{
			strconv.FormatFloat(p.FloatRate, 'f', -1, 64),
			strconv.FormatFloat(p.Multiplier, 'f', -1, 64),
			strconv.Itoa(p.TrainEvents),
			strconv.Itoa(p.ValidEvents),
			strconv.FormatFloat(p.TrainHitRate, 'f', 6, 64),
			strconv.FormatFloat(p.ValidHitRate, 'f', 6, 64),
			strconv.FormatFloat(p.TrainAvgUpsidePct, 'f', 4, 64),
			strconv.FormatFloat(p.ValidAvgUpsidePct, 'f', 4, 64),
			strconv.FormatFloat(p.Score, 'f', 6, 64),
		}); err != nil {
			return err
		}
	}
	return nil
}
