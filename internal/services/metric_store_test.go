package services

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"sku-pulse/internal/database"
	"sku-pulse/internal/models"
)

func setupStoreTest(t *testing.T) *MetricStore {
	t.Helper()

	db, err := database.Initialize(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return NewMetricStore(db)
}

func storeFixture(n int) []models.MetricRow {
	rows := make([]models.MetricRow, 0, n)
	for i := 0; i < n; i++ {
		gmv := 1000.0 + float64(i)
		take := 0.10
		rows = append(rows, models.MetricRow{
			Date:         time.Date(2026, 3, 1+i%5, 0, 0, 0, 0, time.UTC),
			SKUID:        fmt.Sprintf("SKU-%04d", i+1),
			Title:        fmt.Sprintf("Product %04d", i+1),
			Category:     "Sarees",
			Brand:        "Myx",
			Price:        100 + float64(i),
			Sessions:     500,
			Clicks:       50,
			AddToCart:    20,
			UnitsOrdered: 10,
			GMV:          &gmv,
			TakeRate:     &take,
			Region:       "IN",
			Fulfillment:  "FBA",
		})
	}
	return rows
}

func TestLoadAllBeforeSeed(t *testing.T) {
	store := setupStoreTest(t)

	_, err := store.LoadAll()
	if err == nil {
		t.Fatal("Expected error loading before seed")
	}
	if !errors.Is(err, ErrNotSeeded) {
		t.Errorf("Expected ErrNotSeeded, got %v", err)
	}
}

func TestSeedAndLoadAll(t *testing.T) {
	store := setupStoreTest(t)

	if err := store.Seed(storeFixture(10)); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}

	rows, err := store.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(rows) != 10 {
		t.Fatalf("Expected 10 rows, got %d", len(rows))
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].Date.Before(rows[i-1].Date) {
			t.Fatalf("Rows not date-ordered at index %d", i)
		}
	}
	found := false
	for _, r := range rows {
		if r.SKUID == "SKU-0001" {
			found = true
			if r.GMV == nil || *r.GMV != 1000.0 {
				t.Errorf("Expected gmv 1000.0 round-tripped, got %v", r.GMV)
			}
		}
	}
	if !found {
		t.Error("Expected SKU-0001 in loaded rows")
	}
}

func TestReseedReplacesRows(t *testing.T) {
	store := setupStoreTest(t)

	if err := store.Seed(storeFixture(10)); err != nil {
		t.Fatalf("First seed failed: %v", err)
	}
	if err := store.Seed(storeFixture(4)); err != nil {
		t.Fatalf("Second seed failed: %v", err)
	}

	rows, err := store.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("Expected reseed to replace rows, got %d", len(rows))
	}
}

func TestCountBeforeSeed(t *testing.T) {
	store := setupStoreTest(t)

	count, err := store.Count()
	if err != nil {
		t.Fatalf("Expected no error from Count on empty store, got %v", err)
	}
	if count != 0 {
		t.Errorf("Expected count 0, got %d", count)
	}
}

func TestMeta(t *testing.T) {
	store := setupStoreTest(t)

	rows := storeFixture(5)
	rows[2].Category = "Home"
	rows[2].Brand = "UrbanNest"
	if err := store.Seed(rows); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}

	meta, err := store.Meta()
	if err != nil {
		t.Fatalf("Meta failed: %v", err)
	}
	if meta.Rows != 5 {
		t.Errorf("Expected 5 rows, got %d", meta.Rows)
	}
	if len(meta.Categories) != 2 || meta.Categories[0] != "Home" || meta.Categories[1] != "Sarees" {
		t.Errorf("Expected sorted categories [Home Sarees], got %v", meta.Categories)
	}
	if len(meta.Brands) != 2 {
		t.Errorf("Expected 2 brands, got %v", meta.Brands)
	}
	if meta.DateStart != "2026-03-01" || meta.DateEnd != "2026-03-05" {
		t.Errorf("Expected date bounds 2026-03-01..2026-03-05, got %s..%s", meta.DateStart, meta.DateEnd)
	}
	if meta.PriceMin != 100 || meta.PriceMax != 104 {
		t.Errorf("Expected price range 100..104, got %v..%v", meta.PriceMin, meta.PriceMax)
	}
}

func TestMetaBeforeSeed(t *testing.T) {
	store := setupStoreTest(t)

	_, err := store.Meta()
	if !errors.Is(err, ErrNotSeeded) {
		t.Errorf("Expected ErrNotSeeded, got %v", err)
	}
}
