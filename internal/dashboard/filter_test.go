package dashboard

import (
	"testing"
	"time"
)

func filterFixture() []Row {
	return []Row{
		{Date: day(2026, 3, 1), SKUID: "SKU-0001", Category: "Sarees", Brand: "Myx", Fulfillment: "FBA", Price: 499},
		{Date: day(2026, 3, 2), SKUID: "SKU-0002", Category: "Kurti", Brand: "Biba", Fulfillment: "3P", Price: 999},
		{Date: day(2026, 3, 3), SKUID: "SKU-0003", Category: "Home", Brand: "UrbanNest", Fulfillment: "1P", Price: 1499},
	}
}

func TestApplyFiltersUnrestricted(t *testing.T) {
	rows := filterFixture()
	got := ApplyFilters(rows, Filters{})
	if len(got) != len(rows) {
		t.Fatalf("Expected all %d rows, got %d", len(rows), len(got))
	}
}

func TestApplyFiltersInclusiveDateBounds(t *testing.T) {
	start := day(2026, 3, 2)
	end := day(2026, 3, 3)
	got := ApplyFilters(filterFixture(), Filters{DateStart: &start, DateEnd: &end})
	if len(got) != 2 {
		t.Fatalf("Expected 2 rows in range, got %d", len(got))
	}
	if got[0].SKUID != "SKU-0002" || got[1].SKUID != "SKU-0003" {
		t.Errorf("Expected both boundary rows kept, got %s and %s", got[0].SKUID, got[1].SKUID)
	}

	// Times of day must not break the day-granularity comparison
	noon := time.Date(2026, 3, 2, 12, 30, 0, 0, time.UTC)
	got = ApplyFilters(filterFixture(), Filters{DateStart: &noon, DateEnd: &noon})
	if len(got) != 1 || got[0].SKUID != "SKU-0002" {
		t.Fatalf("Expected exactly the 2026-03-02 row, got %d rows", len(got))
	}
}

func TestApplyFiltersSelectionLists(t *testing.T) {
	got := ApplyFilters(filterFixture(), Filters{Categories: []string{"Sarees", "Home"}})
	if len(got) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(got))
	}

	got = ApplyFilters(filterFixture(), Filters{Brands: []string{"Biba"}, Fulfillments: []string{"3P"}})
	if len(got) != 1 || got[0].SKUID != "SKU-0002" {
		t.Fatalf("Expected only SKU-0002, got %d rows", len(got))
	}
}

func TestApplyFiltersPriceBandInclusive(t *testing.T) {
	min, max := 499.0, 999.0
	got := ApplyFilters(filterFixture(), Filters{PriceMin: &min, PriceMax: &max})
	if len(got) != 2 {
		t.Fatalf("Expected 2 rows on the inclusive band, got %d", len(got))
	}
}

func TestApplyFiltersEmptyResult(t *testing.T) {
	got := ApplyFilters(filterFixture(), Filters{Categories: []string{"Beauty"}})
	if len(got) != 0 {
		t.Fatalf("Expected empty result, got %d rows", len(got))
	}
}
