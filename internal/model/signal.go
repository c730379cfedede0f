package model

import "time"

// SalesTrend classifies the multi-year revenue direction.
type SalesTrend string

const (
	TrendUp      SalesTrend = "UP"
	TrendDown    SalesTrend = "DOWN"
	TrendFlat    SalesTrend = "FLAT"
	TrendUnknown SalesTrend = "UNKNOWN"
)

// ComputedSignal is the derived output for one snapshot. It is a pure
// function of the snapshot and is never persisted independently of it.
type ComputedSignal struct {
	Multiple        *float64
	IsRecommended   bool
	SalesTrend      SalesTrend
	VIPPass         bool
	RejectionReason string // empty iff recommended
}

// ScreenRow is one entry of the ranked screening table.
type ScreenRow struct {
	Country         string     `json:"country"`
	Symbol          string     `json:"symbol"`
	Name            string     `json:"name"`
	Sector          string     `json:"sector"`
	Currency        string     `json:"currency"`
	MarketCap       *float64   `json:"market_cap"`
	Multiple        *float64   `json:"multiple"`
	IsRecommended   bool       `json:"is_recommended"`
	SalesTrend      SalesTrend `json:"sales_trend"`
	VIPPass         bool       `json:"vip_pass"`
	StrongRecommend bool       `json:"strong_recommend"`
	RejectionReason string     `json:"rejection_reason"`
	AsOf            *time.Time `json:"asof,omitempty"`
}
