package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"ValueScreener/internal/model"
)

// YahooProvider implements Provider on the Yahoo Finance public API, with
// optional proxy support and an injectable throttle honored before every
// outbound request.
type YahooProvider struct {
	Client   *http.Client
	Throttle Throttle
	BaseURL  string // overridable for tests
}

// NewYahooProvider creates a Yahoo Finance provider.
func NewYahooProvider(proxyURL string, throttle Throttle) *YahooProvider {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if throttle == nil {
		throttle = NoThrottle{}
	}
	return &YahooProvider{
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		Throttle: throttle,
		BaseURL:  "https://query1.finance.yahoo.com",
	}
}

func (p *YahooProvider) Name() string { return "yahoo" }

// yahooChart is the response structure of the chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// yahooSummary is the subset of the quoteSummary API the screener consumes.
type yahooSummary struct {
	QuoteSummary struct {
		Result []struct {
			Price struct {
				ShortName string   `json:"shortName"`
				LongName  string   `json:"longName"`
				Currency  string   `json:"currency"`
				MarketCap rawValue `json:"marketCap"`
			} `json:"price"`
			SummaryProfile struct {
				Sector string `json:"sector"`
			} `json:"summaryProfile"`
			FinancialData struct {
				OperatingCashflow rawValue `json:"operatingCashflow"`
			} `json:"financialData"`
			CashflowQuarterly struct {
				Statements []struct {
					OperatingCashFlow rawValue `json:"totalCashFromOperatingActivities"`
				} `json:"cashflowStatements"`
			} `json:"cashflowStatementHistoryQuarterly"`
			IncomeHistory struct {
				Statements []struct {
					TotalRevenue rawValue `json:"totalRevenue"`
				} `json:"incomeStatementHistory"`
			} `json:"incomeStatementHistory"`
		} `json:"result"`
		Error *struct {
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// rawValue is Yahoo's {"raw": 123, "fmt": "123"} number wrapper.
type rawValue struct {
	Raw *float64 `json:"raw"`
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

func (p *YahooProvider) get(ctx context.Context, endpoint string, out interface{}) error {
	if err := p.Throttle.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := p.Client.Do(req)
	if err != nil {
		return fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("yahoo decode: %w", err)
	}
	return nil
}

func (p *YahooProvider) fetchChart(ctx context.Context, symbol string, query string) ([]model.DailyBar, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?%s", p.BaseURL, url.PathEscape(symbol), query)

	var chart yahooChart
	if err := p.get(ctx, endpoint, &chart); err != nil {
		return nil, err
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned for %s", symbol)
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: no quote data for %s", symbol)
	}
	quote := result.Indicators.Quote[0]
	bars := make([]model.DailyBar, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		o, okO := toFloat(quote.Open[i])
		h, okH := toFloat(quote.High[i])
		l, okL := toFloat(quote.Low[i])
		c, okC := toFloat(quote.Close[i])
		if !okO || !okH || !okL || !okC {
			continue // null bars (holidays etc.)
		}
		v, _ := toFloat(quote.Volume[i])
		bars = append(bars, model.DailyBar{
			Date:   time.Unix(ts, 0).UTC(),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: v,
		})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

// DailyHistory fetches daily bars for the given date range.
func (p *YahooProvider) DailyHistory(ctx context.Context, symbol string, start, end time.Time) ([]model.DailyBar, error) {
	query := fmt.Sprintf("interval=1d&period1=%d&period2=%d", start.Unix(), end.Unix())
	return p.fetchChart(ctx, symbol, query)
}

func (p *YahooProvider) fetchSummary(ctx context.Context, symbol string, modules string) (*yahooSummary, error) {
	endpoint := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s",
		p.BaseURL, url.PathEscape(symbol), modules)

	var summary yahooSummary
	if err := p.get(ctx, endpoint, &summary); err != nil {
		return nil, err
	}
	if summary.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", summary.QuoteSummary.Error.Description)
	}
	if len(summary.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("yahoo: empty summary for %s", symbol)
	}
	return &summary, nil
}

// Snapshot fetches fundamentals plus an 18-month daily close series.
func (p *YahooProvider) Snapshot(ctx context.Context, symbol string) (*model.FundamentalSnapshot, error) {
	summary, err := p.fetchSummary(ctx, symbol,
		"price,summaryProfile,financialData,cashflowStatementHistoryQuarterly,incomeStatementHistory")
	if err != nil {
		return nil, err
	}
	res := summary.QuoteSummary.Result[0]

	snap := &model.FundamentalSnapshot{
		Symbol:   symbol,
		Sector:   "Unknown",
		Currency: "N/A",
		AsOf:     time.Now().UTC(),
	}
	if res.SummaryProfile.Sector != "" {
		snap.Sector = res.SummaryProfile.Sector
	}
	if res.Price.Currency != "" {
		snap.Currency = res.Price.Currency
	}
	if res.Price.MarketCap.Raw != nil && *res.Price.MarketCap.Raw > 0 {
		snap.MarketCap = model.Float(*res.Price.MarketCap.Raw)
	}
	if res.FinancialData.OperatingCashflow.Raw != nil {
		snap.OCFTTM = model.Float(*res.FinancialData.OperatingCashflow.Raw)
	}

	// Quarterly statements arrive newest first; keep at most four.
	for _, st := range res.CashflowQuarterly.Statements {
		if st.OperatingCashFlow.Raw == nil {
			continue
		}
		snap.OCFQuarterly = append(snap.OCFQuarterly, *st.OperatingCashFlow.Raw)
		if len(snap.OCFQuarterly) == 4 {
			break
		}
	}
	snap.OCFQuarterly = model.FilterFinite(snap.OCFQuarterly)

	// Yearly statements arrive newest first; store oldest first, at most five.
	var revenue []float64
	for _, st := range res.IncomeHistory.Statements {
		if st.TotalRevenue.Raw == nil {
			continue
		}
		revenue = append(revenue, *st.TotalRevenue.Raw)
		if len(revenue) == 5 {
			break
		}
	}
	for i := len(revenue) - 1; i >= 0; i-- {
		snap.RevenueYearly = append(snap.RevenueYearly, revenue[i])
	}
	snap.RevenueYearly = model.FilterFinite(snap.RevenueYearly)

	end := time.Now().UTC()
	bars, err := p.DailyHistory(ctx, symbol, end.AddDate(0, -18, 0), end)
	if err != nil {
		return nil, fmt.Errorf("price series for %s: %w", symbol, err)
	}
	for _, b := range bars {
		snap.PriceSeries = append(snap.PriceSeries, b.Close)
	}
	snap.PriceSeries = model.FilterFinite(snap.PriceSeries)

	return snap, nil
}

// Overview fetches descriptive fields used to backfill screen rows.
func (p *YahooProvider) Overview(ctx context.Context, symbol string) (model.Overview, error) {
	summary, err := p.fetchSummary(ctx, symbol, "price,summaryProfile")
	if err != nil {
		return model.Overview{}, err
	}
	res := summary.QuoteSummary.Result[0]

	out := model.Overview{
		Name:     res.Price.ShortName,
		Sector:   res.SummaryProfile.Sector,
		Currency: res.Price.Currency,
	}
	if out.Name == "" {
		out.Name = res.Price.LongName
	}
	if out.Name == "" {
		out.Name = symbol
	}
	if out.Sector == "" {
		out.Sector = "Unknown"
	}
	if out.Currency == "" {
		out.Currency = "N/A"
	}
	if res.Price.MarketCap.Raw != nil && *res.Price.MarketCap.Raw > 0 {
		out.MarketCap = model.Float(*res.Price.MarketCap.Raw)
	}
	return out, nil
}
