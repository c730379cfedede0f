package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"ValueScreener/internal/screener"
	"ValueScreener/internal/store"
	"ValueScreener/internal/targetprice"
	"ValueScreener/internal/universe"
)

// Handlers serves the screening API. Screen tables are answered from the
// store when fresh enough and recomputed live otherwise.
type Handlers struct {
	Screener          *screener.Service
	Engine            *targetprice.Engine
	Store             store.Store
	Universe          universe.Provider
	TTL               time.Duration
	DefaultFloatRate  float64
	DefaultMultiplier float64
}

// Router builds the HTTP handler with routing and middleware.
func (h *Handlers) Router(allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Minute)) // live universe refresh is slow

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.HandleHealth)
		r.Get("/countries", h.HandleCountries)
		r.Get("/screen/{country}", h.HandleScreen)
		r.Get("/screen/{country}/{ticker}", h.HandleTicker)
		r.Get("/target-price/{country}/{ticker}", h.HandleTargetPrice)
		r.Get("/calibration/{country}", h.HandleCalibration)
	})
	return r
}
