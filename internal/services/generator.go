package services

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"sku-pulse/internal/models"
)

// Catalog labels for the synthetic data set.
var (
	sampleCategories   = []string{"Sarees", "Kurti", "Jewellery", "Home", "Beauty"}
	sampleBrands       = []string{"Myx", "Libas", "Qazmi", "UrbanNest", "Biba"}
	sampleFulfillments = []string{"FBA", "3P", "1P"}
)

const sampleRegion = "IN"

// Demand multipliers in the funnel simulation.
const (
	weekendBoost  = 1.20
	promoDayBoost = 1.35
	baseSessions  = 30.0
)

// GenerateSampleRows builds a synthetic per-SKU daily metric set for
// the given number of days ending yesterday. All randomness comes from
// one seeded source, so the same arguments reproduce the same rows.
func GenerateSampleRows(days, skus int, seed int64) []models.MetricRow {
	today := time.Now().UTC()
	start := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -days)
	return GenerateSampleRowsFrom(start, days, skus, seed)
}

// GenerateSampleRowsFrom is GenerateSampleRows with an explicit first
// day, useful when the window must not move with the clock.
func GenerateSampleRowsFrom(start time.Time, days, skus int, seed int64) []models.MetricRow {
	if days <= 0 {
		days = 90
	}
	if skus <= 0 {
		skus = 120
	}
	rng := rand.New(rand.NewSource(seed))
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)

	type skuSpec struct {
		id          string
		title       string
		brand       string
		category    string
		fulfillment string
		basePrice   float64
	}

	catalog := make([]skuSpec, skus)
	for i := range catalog {
		catalog[i] = skuSpec{
			id:          fmt.Sprintf("SKU-%04d", i+1),
			title:       fmt.Sprintf("Product %04d", i+1),
			brand:       sampleBrands[rng.Intn(len(sampleBrands))],
			category:    sampleCategories[rng.Intn(len(sampleCategories))],
			basePrice:   clip(rng.NormFloat64()*250+799, 149, 2999),
			fulfillment: sampleFulfillments[rng.Intn(len(sampleFulfillments))],
		}
	}

	rows := make([]models.MetricRow, 0, days*skus)
	for d := 0; d < days; d++ {
		date := start.AddDate(0, 0, d)
		boost := 1.0
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			boost = weekendBoost
		}
		promo := 1.0
		if date.Day() == 1 || date.Day() == 15 {
			promo = promoDayBoost
		}

		for _, sku := range catalog {
			price := round2(sku.basePrice * uniform(rng, 0.85, 1.15))
			discount := 1 - price/math.Max(sku.basePrice, 1)
			if discount < 0 {
				discount = 0
			}

			sessions := poisson(rng, baseSessions*boost*promo)
			clicks := int(math.Round(float64(sessions) * uniform(rng, 0.05, 0.16)))
			addToCart := int(math.Round(float64(clicks) * uniform(rng, 0.15, 0.45)))
			units := int(math.Round(float64(addToCart) * uniform(rng, 0.18, 0.45)))
			returns := int(math.Round(float64(units) * uniform(rng, 0.03, 0.15)))
			if returns < 0 {
				returns = 0
			}

			gmv := round2(price * float64(units))
			takeRate := round3(uniform(rng, 0.07, 0.15))

			rows = append(rows, models.MetricRow{
				Date:          date,
				SKUID:         sku.id,
				Title:         sku.title,
				Brand:         sku.brand,
				Category:      sku.category,
				Price:         price,
				Discount:      discount,
				Sessions:      sessions,
				Clicks:        clicks,
				AddToCart:     addToCart,
				UnitsOrdered:  units,
				UnitsReturned: returns,
				GMV:           &gmv,
				Fulfillment:   sku.fulfillment,
				Region:        sampleRegion,
				TakeRate:      &takeRate,
			})
		}
	}
	return rows
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// poisson draws via Knuth's product method, fine for small lambdas.
func poisson(rng *rand.Rand, lambda float64) int {
	if lambda <= 0 {
		return 0
	}
	threshold := math.Exp(-lambda)
	k := 0
	p := 1.0
	for {
		p *= rng.Float64()
		if p <= threshold {
			return k
		}
		k++
	}
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
