package dashboard

import (
	"math"
	"testing"
	"time"

	"sku-pulse/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func f64(v float64) *float64 { return &v }

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestFromMetricsResolvesNullableColumns(t *testing.T) {
	rows := FromMetrics([]models.MetricRow{
		{Date: day(2026, 3, 1), SKUID: "SKU-0001", Price: 50, UnitsOrdered: 3},
		{Date: day(2026, 3, 1), SKUID: "SKU-0002", Price: 80, UnitsOrdered: 2, GMV: f64(155.5), TakeRate: f64(0.12)},
	})

	if !almostEqual(rows[0].GMV, 150) {
		t.Errorf("Expected backfilled gmv 150, got %v", rows[0].GMV)
	}
	if !almostEqual(rows[0].TakeRate, DefaultTakeRate) {
		t.Errorf("Expected default take rate %v, got %v", DefaultTakeRate, rows[0].TakeRate)
	}
	if !almostEqual(rows[1].GMV, 155.5) {
		t.Errorf("Expected stored gmv 155.5, got %v", rows[1].GMV)
	}
	if !almostEqual(rows[1].TakeRate, 0.12) {
		t.Errorf("Expected stored take rate 0.12, got %v", rows[1].TakeRate)
	}
}

func TestDeriveComputedColumns(t *testing.T) {
	rows := Derive([]Row{{
		Date:          day(2026, 3, 1),
		SKUID:         "SKU-0001",
		Price:         100,
		Sessions:      200,
		Clicks:        20,
		AddToCart:     10,
		UnitsOrdered:  10,
		UnitsReturned: 2,
		GMV:           1000,
		TakeRate:      0.1,
	}})

	r := rows[0]
	if r.NetUnits != 8 {
		t.Errorf("Expected net units 8, got %d", r.NetUnits)
	}
	if !almostEqual(r.NetGMV, 800) {
		t.Errorf("Expected net gmv 800, got %v", r.NetGMV)
	}
	if !almostEqual(r.PlatformRev, 80) {
		t.Errorf("Expected platform rev 80, got %v", r.PlatformRev)
	}
	if r.CTR == nil || !almostEqual(*r.CTR, 0.1) {
		t.Errorf("Expected ctr 0.1, got %v", r.CTR)
	}
	if r.ConvRate == nil || !almostEqual(*r.ConvRate, 1.0) {
		t.Errorf("Expected conversion 1.0, got %v", r.ConvRate)
	}
}

func TestDeriveUndefinedRatios(t *testing.T) {
	rows := Derive([]Row{{SKUID: "SKU-0001", Price: 10}})

	if rows[0].CTR != nil {
		t.Errorf("Expected nil ctr without sessions, got %v", *rows[0].CTR)
	}
	if rows[0].ConvRate != nil {
		t.Errorf("Expected nil conversion without cart adds, got %v", *rows[0].ConvRate)
	}
}

func TestDeriveIdempotent(t *testing.T) {
	once := Derive([]Row{{
		SKUID:         "SKU-0001",
		Price:         40,
		Sessions:      100,
		Clicks:        9,
		AddToCart:     4,
		UnitsOrdered:  2,
		UnitsReturned: 1,
		GMV:           80,
		TakeRate:      0.08,
	}})
	twice := Derive(once)

	a, b := once[0], twice[0]
	if a.NetUnits != b.NetUnits || !almostEqual(a.NetGMV, b.NetGMV) || !almostEqual(a.PlatformRev, b.PlatformRev) {
		t.Errorf("Expected identical derived values, got %+v vs %+v", a, b)
	}
	if *a.CTR != *b.CTR || *a.ConvRate != *b.ConvRate {
		t.Error("Expected identical ratios after re-deriving")
	}
}
