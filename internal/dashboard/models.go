package dashboard

import (
	"time"
)

// Filters is the immutable selection a report is built against. Nil
// bounds and empty lists restrict nothing.
type Filters struct {
	DateStart    *time.Time `json:"date_start,omitempty"`
	DateEnd      *time.Time `json:"date_end,omitempty"`
	Categories   []string   `json:"categories,omitempty"`
	Brands       []string   `json:"brands,omitempty"`
	Fulfillments []string   `json:"fulfillments,omitempty"`
	PriceMin     *float64   `json:"price_min,omitempty"`
	PriceMax     *float64   `json:"price_max,omitempty"`
}

// Row is a metric row with its nullable columns resolved and the
// derived columns attached. CTR and ConvRate stay nil when their
// denominators are zero; nil means "no data", not a zero rate.
type Row struct {
	Date          time.Time `json:"date"`
	SKUID         string    `json:"sku_id"`
	Title         string    `json:"title"`
	Brand         string    `json:"brand"`
	Category      string    `json:"category"`
	Price         float64   `json:"price"`
	Discount      float64   `json:"discount"`
	Sessions      int       `json:"sessions"`
	Clicks        int       `json:"clicks"`
	AddToCart     int       `json:"add_to_cart"`
	UnitsOrdered  int       `json:"units_ordered"`
	UnitsReturned int       `json:"units_returned"`
	GMV           float64   `json:"gmv"`
	Fulfillment   string    `json:"fulfillment"`
	Region        string    `json:"region"`
	TakeRate      float64   `json:"take_rate"`

	NetUnits    int      `json:"net_units"`
	NetGMV      float64  `json:"net_gmv"`
	PlatformRev float64  `json:"platform_rev"`
	CTR         *float64 `json:"ctr,omitempty"`
	ConvRate    *float64 `json:"conv_rate,omitempty"`
}

// KPISet are the top-line scalars over the filtered set.
type KPISet struct {
	Sessions     int      `json:"sessions"`
	Clicks       int      `json:"clicks"`
	CTR          *float64 `json:"ctr,omitempty"`
	AddToCart    int      `json:"add_to_cart"`
	UnitsOrdered int      `json:"units_ordered"`
	ConvRate     *float64 `json:"conv_rate,omitempty"`
	NetGMV       float64  `json:"net_gmv"`
	PlatformRev  float64  `json:"platform_rev"`
	ASP          *float64 `json:"asp,omitempty"` // mean price, nil when no rows
}

// DailyPoint is one day of the aggregated trend series.
type DailyPoint struct {
	Date         string   `json:"date"`
	Sessions     int      `json:"sessions"`
	Clicks       int      `json:"clicks"`
	AddToCart    int      `json:"add_to_cart"`
	UnitsOrdered int      `json:"units_ordered"`
	NetGMV       float64  `json:"net_gmv"`
	PlatformRev  float64  `json:"platform_rev"`
	AvgPrice     float64  `json:"avg_price"`
	CTR          *float64 `json:"ctr,omitempty"`
	ConvRate     *float64 `json:"conv_rate,omitempty"`
}

// SKUPricePoint feeds the price-vs-demand view, one point per SKU.
type SKUPricePoint struct {
	SKUID        string  `json:"sku_id"`
	Title        string  `json:"title"`
	Brand        string  `json:"brand"`
	Category     string  `json:"category"`
	AvgPrice     float64 `json:"avg_price"`
	UnitsOrdered int     `json:"units_ordered"`
	Sessions     int     `json:"sessions"`
}

// MoverRow is one entry of the top-movers ranking.
type MoverRow struct {
	SKUID        string  `json:"sku_id"`
	Title        string  `json:"title"`
	UnitsOrdered int     `json:"units_ordered"`
	NetGMV       float64 `json:"net_gmv"`
	Sessions     int     `json:"sessions"`
	Clicks       int     `json:"clicks"`
}

// BreakdownRow is one category or brand aggregate line.
type BreakdownRow struct {
	Key          string   `json:"key"`
	Sessions     int      `json:"sessions"`
	Clicks       int      `json:"clicks"`
	AddToCart    int      `json:"add_to_cart"`
	UnitsOrdered int      `json:"units_ordered"`
	NetGMV       float64  `json:"net_gmv"`
	PlatformRev  float64  `json:"platform_rev"`
	CTRPct       *float64 `json:"ctr_pct,omitempty"`
	ConvPct      *float64 `json:"conv_pct,omitempty"`
}

// AnomalyPoint carries the z-score for one day of the net-GMV series.
// Every day is kept so charts can highlight the flagged ones in place.
type AnomalyPoint struct {
	Date    string  `json:"date"`
	NetGMV  float64 `json:"net_gmv"`
	Z       float64 `json:"z"`
	Anomaly bool    `json:"anomaly"`
}

// Report is the immutable output of one pipeline run.
type Report struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Filters     Filters         `json:"filters"`
	Rows        int             `json:"rows"`
	DateStart   string          `json:"date_start"`
	DateEnd     string          `json:"date_end"`
	KPIs        KPISet          `json:"kpis"`
	Daily       []DailyPoint    `json:"daily"`
	SKUPrices   []SKUPricePoint `json:"sku_prices"`
	TopMovers   []MoverRow      `json:"top_movers"`
	Categories  []BreakdownRow  `json:"categories"`
	Brands      []BreakdownRow  `json:"brands"`
	Anomalies   []AnomalyPoint  `json:"anomalies"`
}

// AnomalyDays returns only the flagged days of the anomaly series.
func (r *Report) AnomalyDays() []AnomalyPoint {
	flagged := []AnomalyPoint{}
	for _, a := range r.Anomalies {
		if a.Anomaly {
			flagged = append(flagged, a)
		}
	}
	return flagged
}
