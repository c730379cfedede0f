package server

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"ValueScreener/internal/model"
	"ValueScreener/internal/screener"
	"ValueScreener/internal/universe"
)

type screenResponse struct {
	Country     string            `json:"country"`
	Label       string            `json:"label"`
	RefreshedAt *time.Time        `json:"refreshed_at,omitempty"`
	Rows        []model.ScreenRow `json:"rows"`
}

func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) HandleCountries(w http.ResponseWriter, _ *http.Request) {
	type country struct {
		Key   string `json:"key"`
		Label string `json:"label"`
		Limit int    `json:"limit"`
	}
	var out []country
	for _, key := range universe.Countries() {
		out = append(out, country{Key: key, Label: universe.Labels[key], Limit: universe.Limits[key]})
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleScreen serves the ranked table for a country, from the store when
// fresh, recomputed live otherwise. format=csv switches to CSV export.
func (h *Handlers) HandleScreen(w http.ResponseWriter, r *http.Request) {
	country := chi.URLParam(r, "country")
	if !universe.Valid(country) {
		http.Error(w, fmt.Sprintf("unknown country %q", country), http.StatusNotFound)
		return
	}

	rows, refreshedAt, err := h.Store.LoadScreen(country)
	if err != nil {
		log.Printf("[WARN] load screen %s: %v", country, err)
	}
	stale := rows == nil || time.Since(refreshedAt) > h.TTL
	if stale || r.URL.Query().Get("refresh") == "true" {
		fresh, err := h.Screener.EvaluateUniverse(r.Context(), country)
		if err != nil {
			if rows == nil {
				http.Error(w, fmt.Sprintf("screen %s: %v", country, err), http.StatusBadGateway)
				return
			}
			log.Printf("[WARN] live refresh %s failed, serving stale table: %v", country, err)
		} else {
			rows = fresh
			refreshedAt = time.Now().UTC()
			if err := h.Store.SaveScreen(country, rows, refreshedAt); err != nil {
				log.Printf("[ERROR] save screen %s: %v", country, err)
			}
		}
	}

	filtered := parseFilters(r).Apply(rows)

	if r.URL.Query().Get("format") == "csv" {
		writeCSV(w, country, filtered)
		return
	}
	resp := screenResponse{Country: country, Label: universe.Labels[country], Rows: filtered}
	if !refreshedAt.IsZero() {
		resp.RefreshedAt = &refreshedAt
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleTicker screens a single free-form ticker input.
func (h *Handlers) HandleTicker(w http.ResponseWriter, r *http.Request) {
	country := chi.URLParam(r, "country")
	if !universe.Valid(country) {
		http.Error(w, fmt.Sprintf("unknown country %q", country), http.StatusNotFound)
		return
	}
	row, err := h.Screener.EvaluateTicker(r.Context(), country, chi.URLParam(r, "ticker"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

// HandleTargetPrice computes the breakout target-price projection for one
// ticker under caller-supplied parameters.
func (h *Handlers) HandleTargetPrice(w http.ResponseWriter, r *http.Request) {
	country := chi.URLParam(r, "country")
	if !universe.Valid(country) {
		http.Error(w, fmt.Sprintf("unknown country %q", country), http.StatusNotFound)
		return
	}

	var records []model.UniverseRecord
	if country == universe.KRTop200 {
		if recs, err := h.Universe.List(country, universe.Limits[country]); err == nil {
			records = recs
		}
	}
	symbol := universe.NormalizeTicker(country, chi.URLParam(r, "ticker"), records)
	if symbol == "" {
		http.Error(w, "empty ticker input", http.StatusBadRequest)
		return
	}

	floatRate := queryFloat(r, "float_rate", h.DefaultFloatRate)
	multiplier := queryFloat(r, "multiplier", h.DefaultMultiplier)

	result := h.Engine.Compute(r.Context(), symbol, floatRate, multiplier)
	writeJSON(w, http.StatusOK, result)
}

// HandleCalibration returns the stored calibration result for a country.
func (h *Handlers) HandleCalibration(w http.ResponseWriter, r *http.Request) {
	country := chi.URLParam(r, "country")
	if !universe.Valid(country) {
		http.Error(w, fmt.Sprintf("unknown country %q", country), http.StatusNotFound)
		return
	}
	result, err := h.Store.LoadCalibration(country)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if result == nil {
		http.Error(w, fmt.Sprintf("no calibration result for %s", country), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func parseFilters(r *http.Request) screener.Filters {
	q := r.URL.Query()
	var f screener.Filters
	if v := strings.TrimSpace(q.Get("sectors")); v != "" {
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				f.Sectors = append(f.Sectors, s)
			}
		}
	}
	if v := q.Get("multiple_min"); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			f.MultipleMin = &n
		}
	}
	if v := q.Get("multiple_max"); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			f.MultipleMax = &n
		}
	}
	f.VIPOnly = q.Get("vip_only") == "true"
	f.Keyword = q.Get("keyword")
	return f
}

func queryFloat(r *http.Request, key string, def float64) float64 {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n
		}
	}
	return def
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[ERROR] encode response: %v", err)
	}
}

func writeCSV(w http.ResponseWriter, country string, rows []model.ScreenRow) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%s_screen.csv", strings.ToLower(country)))

	cw := csv.NewWriter(w)
	defer cw.Flush()

	_ = cw.Write([]string{"symbol", "name", "sector", "market_cap", "multiple",
		"sales_trend", "vip_pass", "is_recommended", "strong_recommend", "rejection_reason"})
	for _, row := range rows {
		_ = cw.Write([]string{
			row.Symbol,
			row.Name,
			row.Sector,
			formatFloat(row.MarketCap, 0),
			formatFloat(row.Multiple, 2),
			string(row.SalesTrend),
			strconv.FormatBool(row.VIPPass),
			strconv.FormatBool(row.IsRecommended),
			strconv.FormatBool(row.StrongRecommend),
			row.RejectionReason,
		})
	}
}

func formatFloat(v *float64, prec int) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', prec, 64)
}
