package dashboard

import (
	"sku-pulse/internal/models"
)

// DefaultTakeRate applies when a source carries no take_rate column.
const DefaultTakeRate = 0.10

// FromMetrics converts stored rows into pipeline rows and resolves the
// nullable columns: a missing gmv is backfilled as price×units_ordered,
// a missing take_rate falls back to DefaultTakeRate.
func FromMetrics(rows []models.MetricRow) []Row {
	out := make([]Row, 0, len(rows))
	for _, m := range rows {
		r := Row{
			Date:          m.Date,
			SKUID:         m.SKUID,
			Title:         m.Title,
			Brand:         m.Brand,
			Category:      m.Category,
			Price:         m.Price,
			Discount:      m.Discount,
			Sessions:      m.Sessions,
			Clicks:        m.Clicks,
			AddToCart:     m.AddToCart,
			UnitsOrdered:  m.UnitsOrdered,
			UnitsReturned: m.UnitsReturned,
			Fulfillment:   m.Fulfillment,
			Region:        m.Region,
		}
		if m.GMV != nil {
			r.GMV = *m.GMV
		} else {
			r.GMV = m.Price * float64(m.UnitsOrdered)
		}
		if m.TakeRate != nil {
			r.TakeRate = *m.TakeRate
		} else {
			r.TakeRate = DefaultTakeRate
		}
		out = append(out, r)
	}
	return out
}

// Derive computes the derived columns from the resolved ones. Deriving
// an already derived slice yields identical values.
func Derive(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		r.NetUnits = r.UnitsOrdered - r.UnitsReturned
		r.NetGMV = r.GMV - r.Price*float64(r.UnitsReturned)
		r.PlatformRev = r.NetGMV * r.TakeRate
		r.CTR = ratio(r.Clicks, r.Sessions)
		r.ConvRate = ratio(r.UnitsOrdered, r.AddToCart)
		out[i] = r
	}
	return out
}

// ratio returns num/den, or nil when the denominator is zero.
func ratio(num, den int) *float64 {
	if den == 0 {
		return nil
	}
	v := float64(num) / float64(den)
	return &v
}

// pct is ratio scaled to percent, with the same nil-on-zero behavior.
func pct(num, den int) *float64 {
	r := ratio(num, den)
	if r == nil {
		return nil
	}
	v := *r * 100
	return &v
}
