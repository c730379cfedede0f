package calibration

import (
	"math"
	"sort"
	"time"

	"ValueScreener/internal/model"
)

// GridPoint is one evaluated (float rate, multiplier) pair. The validation
// score rewards parameter pairs that are both frequently correct and project
// a materially positive upside; the log dampens single-outlier rewards.
type GridPoint struct {
	FloatRate         float64 `json:"float_rate"`
	Multiplier        float64 `json:"multiplier"`
	TrainEvents       int     `json:"train_events"`
	ValidEvents       int     `json:"valid_events"`
	TrainHitRate      float64 `json:"train_hit_rate"`
	ValidHitRate      float64 `json:"valid_hit_rate"`
	TrainAvgUpsidePct float64 `json:"train_avg_target_upside_pct"`
	ValidAvgUpsidePct float64 `json:"valid_avg_target_upside_pct"`
	Score             float64 `json:"valid_balanced_score"`
}

// GridValues expands an inclusive [min,max] range with the given step.
func GridValues(min, max, step float64) []float64 {
	if step <= 0 || max < min {
		return nil
	}
	count := int(math.Round((max - min) / step))
	vals := make([]float64, 0, count+1)
	for i := 0; i <= count; i++ {
		v := math.Round((min+step*float64(i))*1e6) / 1e6
		if v <= max+1e-9 {
			vals = append(vals, v)
		}
	}
	return vals
}

// EvaluateGrid applies the target-price formula to every event for every
// grid pair, splits outcomes into train (< validationStart) and validation
// partitions, and returns the scored table ranked by validation hit rate,
// then score, then validation upside, all descending. Grid points with an
// empty partition are skipped.
func EvaluateGrid(events []model.BreakoutEvent, floatRates, multipliers []float64, validationStart time.Time) []GridPoint {
	if len(events) == 0 {
		return nil
	}

	validation := make([]bool, len(events))
	baseRatio := make([]float64, len(events))
	for i, ev := range events {
		validation[i] = !ev.BreakoutDate.Before(validationStart)
		baseRatio[i] = ev.BreakoutTradingValue / ev.MarketCap
	}

	var table []GridPoint
	for _, floatRate := range floatRates {
		floatFactor := floatRate / 100.0
		if floatFactor <= 0 {
			continue
		}
		for _, mult := range multipliers {
			var point GridPoint
			point.FloatRate = floatRate
			point.Multiplier = mult

			var trainHits, validHits int
			var trainUpSum, validUpSum float64
			for i, ev := range events {
				energy := baseRatio[i] / floatFactor
				target := ev.BreakoutPrice * (1.0 + energy*mult)
				hit := ev.FutureMaxHigh >= target
				upside := (target/ev.BreakoutPrice - 1.0) * 100.0

				if validation[i] {
					point.ValidEvents++
					validUpSum += upside
					if hit {
						validHits++
					}
				} else {
					point.TrainEvents++
					trainUpSum += upside
					if hit {
						trainHits++
					}
				}
			}
			if point.TrainEvents == 0 || point.ValidEvents == 0 {
				continue
			}

			point.TrainHitRate = float64(trainHits) / float64(point.TrainEvents)
			point.ValidHitRate = float64(validHits) / float64(point.ValidEvents)
			point.TrainAvgUpsidePct = trainUpSum / float64(point.TrainEvents)
			point.ValidAvgUpsidePct = validUpSum / float64(point.ValidEvents)
			point.Score = point.ValidHitRate * math.Log1p(math.Max(point.ValidAvgUpsidePct, 0))

			table = append(table, point)
		}
	}

	sort.SliceStable(table, func(i, j int) bool {
		if table[i].ValidHitRate != table[j].ValidHitRate {
			return table[i].ValidHitRate > table[j].ValidHitRate
		}
		if table[i].Score != table[j].Score {
			return table[i].Score > table[j].Score
		}
		return table[i].ValidAvgUpsidePct > table[j].ValidAvgUpsidePct
	})
	return table
}
