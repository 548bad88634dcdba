package dashboard

import (
	"testing"
)

func aggregateFixture() []Row {
	return Derive([]Row{
		{Date: day(2026, 3, 1), SKUID: "SKU-0001", Title: "Product 0001", Category: "Sarees", Brand: "Myx", Price: 100, Sessions: 100, Clicks: 10, AddToCart: 5, UnitsOrdered: 4, UnitsReturned: 1, GMV: 400, TakeRate: 0.1},
		{Date: day(2026, 3, 1), SKUID: "SKU-0002", Title: "Product 0002", Category: "Kurti", Brand: "Biba", Price: 200, Sessions: 50, Clicks: 5, AddToCart: 2, UnitsOrdered: 2, GMV: 400, TakeRate: 0.1},
		{Date: day(2026, 3, 2), SKUID: "SKU-0001", Title: "Product 0001", Category: "Sarees", Brand: "Myx", Price: 100, Sessions: 60, Clicks: 6, AddToCart: 3, UnitsOrdered: 3, GMV: 300, TakeRate: 0.1},
	})
}

func TestSummarize(t *testing.T) {
	k := Summarize(aggregateFixture())

	if k.Sessions != 210 || k.Clicks != 21 {
		t.Errorf("Expected 210 sessions and 21 clicks, got %d and %d", k.Sessions, k.Clicks)
	}
	if !almostEqual(k.NetGMV, 1000) {
		t.Errorf("Expected net gmv 1000, got %v", k.NetGMV)
	}
	if !almostEqual(k.PlatformRev, 100) {
		t.Errorf("Expected platform rev 100, got %v", k.PlatformRev)
	}
	if k.CTR == nil || !almostEqual(*k.CTR, 0.1) {
		t.Errorf("Expected ctr 0.1, got %v", k.CTR)
	}
	if k.ConvRate == nil || !almostEqual(*k.ConvRate, 0.9) {
		t.Errorf("Expected conversion 0.9, got %v", k.ConvRate)
	}
	if k.ASP == nil || !almostEqual(*k.ASP, 400.0/3) {
		t.Errorf("Expected asp %v, got %v", 400.0/3, k.ASP)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	k := Summarize(nil)
	if k.CTR != nil || k.ConvRate != nil || k.ASP != nil {
		t.Error("Expected nil ratio KPIs over an empty set")
	}
	if k.Sessions != 0 || k.NetGMV != 0 {
		t.Error("Expected zero sums over an empty set")
	}
}

func TestDailySeries(t *testing.T) {
	daily := DailySeries(aggregateFixture())
	if len(daily) != 2 {
		t.Fatalf("Expected 2 days, got %d", len(daily))
	}
	if daily[0].Date != "2026-03-01" || daily[1].Date != "2026-03-02" {
		t.Errorf("Expected sorted dates, got %s then %s", daily[0].Date, daily[1].Date)
	}

	first := daily[0]
	if first.Sessions != 150 || first.UnitsOrdered != 6 {
		t.Errorf("Expected day totals 150 sessions and 6 units, got %d and %d", first.Sessions, first.UnitsOrdered)
	}
	if !almostEqual(first.NetGMV, 700) {
		t.Errorf("Expected day net gmv 700, got %v", first.NetGMV)
	}
	if !almostEqual(first.AvgPrice, 150) {
		t.Errorf("Expected day avg price 150, got %v", first.AvgPrice)
	}
	if first.CTR == nil || !almostEqual(*first.CTR, 0.1) {
		t.Errorf("Expected day ctr 0.1, got %v", first.CTR)
	}
}

func TestSKUPriceTable(t *testing.T) {
	points := SKUPriceTable(aggregateFixture())
	if len(points) != 2 {
		t.Fatalf("Expected 2 SKUs, got %d", len(points))
	}
	if points[0].SKUID != "SKU-0001" {
		t.Errorf("Expected first-appearance order, got %s first", points[0].SKUID)
	}
	if !almostEqual(points[0].AvgPrice, 100) || points[0].UnitsOrdered != 7 {
		t.Errorf("Expected avg price 100 and 7 units, got %v and %d", points[0].AvgPrice, points[0].UnitsOrdered)
	}
}

func TestTopMoversRankingAndLimit(t *testing.T) {
	rows := aggregateFixture()
	movers := TopMovers(rows, 20)
	if len(movers) != 2 {
		t.Fatalf("Expected 2 movers, got %d", len(movers))
	}
	if movers[0].SKUID != "SKU-0001" || movers[0].UnitsOrdered != 7 {
		t.Errorf("Expected SKU-0001 with 7 units on top, got %s with %d", movers[0].SKUID, movers[0].UnitsOrdered)
	}

	movers = TopMovers(rows, 1)
	if len(movers) != 1 {
		t.Fatalf("Expected truncation to 1, got %d", len(movers))
	}
}

func TestTopMoversStableTies(t *testing.T) {
	rows := Derive([]Row{
		{Date: day(2026, 3, 1), SKUID: "SKU-0009", UnitsOrdered: 5},
		{Date: day(2026, 3, 1), SKUID: "SKU-0002", UnitsOrdered: 5},
		{Date: day(2026, 3, 1), SKUID: "SKU-0005", UnitsOrdered: 7},
	})
	movers := TopMovers(rows, 20)
	if movers[0].SKUID != "SKU-0005" {
		t.Fatalf("Expected SKU-0005 first, got %s", movers[0].SKUID)
	}
	// Tied SKUs keep input order
	if movers[1].SKUID != "SKU-0009" || movers[2].SKUID != "SKU-0002" {
		t.Errorf("Expected tie order SKU-0009 then SKU-0002, got %s then %s", movers[1].SKUID, movers[2].SKUID)
	}
}

func TestBreakdownsOrderedByNetGMV(t *testing.T) {
	rows := aggregateFixture()

	cats := CategoryBreakdown(rows)
	if len(cats) != 2 {
		t.Fatalf("Expected 2 categories, got %d", len(cats))
	}
	if cats[0].Key != "Sarees" || !almostEqual(cats[0].NetGMV, 600) {
		t.Errorf("Expected Sarees with 600 first, got %s with %v", cats[0].Key, cats[0].NetGMV)
	}
	if cats[0].CTRPct == nil || !almostEqual(*cats[0].CTRPct, 10) {
		t.Errorf("Expected ctr 10 points, got %v", cats[0].CTRPct)
	}

	brands := BrandBreakdown(rows)
	if brands[0].Key != "Myx" {
		t.Errorf("Expected Myx first, got %s", brands[0].Key)
	}
}
