package dashboard

import (
	"time"

	"sku-pulse/internal/models"
)

// TopMoverLimit caps the movers ranking.
const TopMoverLimit = 20

// BuildReport runs the full pipeline over the given rows: resolve and
// derive the columns, filter, aggregate every view, flag anomalies.
// The same rows and filters always produce the same report body. A
// report over zero matching rows is valid; callers render it as an
// explicit "no data" state instead of failing.
func BuildReport(rows []models.MetricRow, f Filters) *Report {
	filtered := ApplyFilters(Derive(FromMetrics(rows)), f)
	daily := DailySeries(filtered)

	rep := &Report{
		GeneratedAt: time.Now(),
		Filters:     f,
		Rows:        len(filtered),
		KPIs:        Summarize(filtered),
		Daily:       daily,
		SKUPrices:   SKUPriceTable(filtered),
		TopMovers:   TopMovers(filtered, TopMoverLimit),
		Categories:  CategoryBreakdown(filtered),
		Brands:      BrandBreakdown(filtered),
		Anomalies:   FlagAnomalies(daily),
	}

	// Active date range: explicit filter bounds win, data bounds otherwise.
	if f.DateStart != nil {
		rep.DateStart = f.DateStart.Format("2006-01-02")
	} else if len(daily) > 0 {
		rep.DateStart = daily[0].Date
	}
	if f.DateEnd != nil {
		rep.DateEnd = f.DateEnd.Format("2006-01-02")
	} else if len(daily) > 0 {
		rep.DateEnd = daily[len(daily)-1].Date
	}

	return rep
}
