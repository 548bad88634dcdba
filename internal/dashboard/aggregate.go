package dashboard

import (
	"sort"
)

// Summarize computes the top-line KPI scalars over the filtered set.
// Ratio KPIs stay nil when their denominator totals zero.
func Summarize(rows []Row) KPISet {
	k := KPISet{}
	priceSum := 0.0
	for _, r := range rows {
		k.Sessions += r.Sessions
		k.Clicks += r.Clicks
		k.AddToCart += r.AddToCart
		k.UnitsOrdered += r.UnitsOrdered
		k.NetGMV += r.NetGMV
		k.PlatformRev += r.PlatformRev
		priceSum += r.Price
	}
	k.CTR = ratio(k.Clicks, k.Sessions)
	k.ConvRate = ratio(k.UnitsOrdered, k.AddToCart)
	if len(rows) > 0 {
		asp := priceSum / float64(len(rows))
		k.ASP = &asp
	}
	return k
}

// DailySeries aggregates rows per calendar day: counts and money are
// summed, price is averaged, and the day ratios are recomputed from the
// day totals. The series is ordered by date.
func DailySeries(rows []Row) []DailyPoint {
	dailyMap := make(map[string]*DailyPoint)
	priceSums := make(map[string]float64)
	rowCounts := make(map[string]int)

	for _, r := range rows {
		key := r.Date.Format("2006-01-02")
		p, ok := dailyMap[key]
		if !ok {
			p = &DailyPoint{Date: key}
			dailyMap[key] = p
		}
		p.Sessions += r.Sessions
		p.Clicks += r.Clicks
		p.AddToCart += r.AddToCart
		p.UnitsOrdered += r.UnitsOrdered
		p.NetGMV += r.NetGMV
		p.PlatformRev += r.PlatformRev
		priceSums[key] += r.Price
		rowCounts[key]++
	}

	out := make([]DailyPoint, 0, len(dailyMap))
	for key, p := range dailyMap {
		if n := rowCounts[key]; n > 0 {
			p.AvgPrice = priceSums[key] / float64(n)
		}
		p.CTR = ratio(p.Clicks, p.Sessions)
		p.ConvRate = ratio(p.UnitsOrdered, p.AddToCart)
		out = append(out, *p)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Date < out[j].Date
	})
	return out
}

// SKUPriceTable aggregates per SKU for the price-vs-demand view: mean
// price against summed demand, in first-appearance order.
func SKUPriceTable(rows []Row) []SKUPricePoint {
	type acc struct {
		point    SKUPricePoint
		priceSum float64
		n        int
	}
	index := make(map[string]*acc)
	order := make([]string, 0)

	for _, r := range rows {
		a, ok := index[r.SKUID]
		if !ok {
			a = &acc{point: SKUPricePoint{
				SKUID:    r.SKUID,
				Title:    r.Title,
				Brand:    r.Brand,
				Category: r.Category,
			}}
			index[r.SKUID] = a
			order = append(order, r.SKUID)
		}
		a.point.UnitsOrdered += r.UnitsOrdered
		a.point.Sessions += r.Sessions
		a.priceSum += r.Price
		a.n++
	}

	out := make([]SKUPricePoint, 0, len(order))
	for _, id := range order {
		a := index[id]
		a.point.AvgPrice = a.priceSum / float64(a.n)
		out = append(out, a.point)
	}
	return out
}

// TopMovers ranks SKUs by summed units ordered, descending, truncated
// to limit. Ties keep the first-appearance order of the input.
func TopMovers(rows []Row, limit int) []MoverRow {
	index := make(map[string]*MoverRow)
	order := make([]string, 0)

	for _, r := range rows {
		m, ok := index[r.SKUID]
		if !ok {
			m = &MoverRow{SKUID: r.SKUID, Title: r.Title}
			index[r.SKUID] = m
			order = append(order, r.SKUID)
		}
		m.UnitsOrdered += r.UnitsOrdered
		m.NetGMV += r.NetGMV
		m.Sessions += r.Sessions
		m.Clicks += r.Clicks
	}

	movers := make([]MoverRow, 0, len(order))
	for _, id := range order {
		movers = append(movers, *index[id])
	}
	sort.SliceStable(movers, func(i, j int) bool {
		return movers[i].UnitsOrdered > movers[j].UnitsOrdered
	})
	if limit > 0 && len(movers) > limit {
		movers = movers[:limit]
	}
	return movers
}

// CategoryBreakdown aggregates per category, sorted by net GMV descending.
func CategoryBreakdown(rows []Row) []BreakdownRow {
	return breakdownBy(rows, func(r Row) string { return r.Category })
}

// BrandBreakdown aggregates per brand, sorted by net GMV descending.
func BrandBreakdown(rows []Row) []BreakdownRow {
	return breakdownBy(rows, func(r Row) string { return r.Brand })
}

func breakdownBy(rows []Row, key func(Row) string) []BreakdownRow {
	index := make(map[string]*BreakdownRow)
	order := make([]string, 0)

	for _, r := range rows {
		k := key(r)
		b, ok := index[k]
		if !ok {
			b = &BreakdownRow{Key: k}
			index[k] = b
			order = append(order, k)
		}
		b.Sessions += r.Sessions
		b.Clicks += r.Clicks
		b.AddToCart += r.AddToCart
		b.UnitsOrdered += r.UnitsOrdered
		b.NetGMV += r.NetGMV
		b.PlatformRev += r.PlatformRev
	}

	out := make([]BreakdownRow, 0, len(order))
	for _, k := range order {
		b := index[k]
		b.CTRPct = pct(b.Clicks, b.Sessions)
		b.ConvPct = pct(b.UnitsOrdered, b.AddToCart)
		out = append(out, *b)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].NetGMV > out[j].NetGMV
	})
	return out
}
