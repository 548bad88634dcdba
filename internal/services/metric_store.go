package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"sku-pulse/internal/models"
)

// StorageError wraps a failed store operation with the operation name.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ErrNotSeeded is reported when reading from a source whose metrics
// table was never created.
var ErrNotSeeded = errors.New("sku_metrics table does not exist")

// MetricStore persists metric rows in the sku_metrics table.
type MetricStore struct {
	db *gorm.DB
}

func NewMetricStore(db *gorm.DB) *MetricStore {
	return &MetricStore{db: db}
}

// Seed replaces the table contents with the given rows. The table is
// created on first use; the delete and insert run in one transaction
// so a concurrent reader sees either the old set or the new one.
func (s *MetricStore) Seed(rows []models.MetricRow) error {
	if err := s.db.AutoMigrate(&models.MetricRow{}); err != nil {
		return &StorageError{Op: "seed", Err: err}
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM sku_metrics").Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		batch := make([]models.MetricRow, len(rows))
		copy(batch, rows)
		for i := range batch {
			batch[i].ID = 0
		}
		return tx.CreateInBatches(batch, 500).Error
	})
	if err != nil {
		return &StorageError{Op: "seed", Err: err}
	}
	return nil
}

// LoadAll returns every stored row ordered by date then id.
func (s *MetricStore) LoadAll() ([]models.MetricRow, error) {
	if !s.db.Migrator().HasTable(&models.MetricRow{}) {
		return nil, &StorageError{Op: "load", Err: ErrNotSeeded}
	}
	var rows []models.MetricRow
	if err := s.db.Order("date, id").Find(&rows).Error; err != nil {
		return nil, &StorageError{Op: "load", Err: err}
	}
	return rows, nil
}

// Count reports the stored row count, zero when the table is absent.
func (s *MetricStore) Count() (int64, error) {
	if !s.db.Migrator().HasTable(&models.MetricRow{}) {
		return 0, nil
	}
	var n int64
	if err := s.db.Model(&models.MetricRow{}).Count(&n).Error; err != nil {
		return 0, &StorageError{Op: "count", Err: err}
	}
	return n, nil
}

// StoreMeta describes the stored data set for building filter controls.
type StoreMeta struct {
	Rows         int64    `json:"rows"`
	DateStart    string   `json:"date_start"`
	DateEnd      string   `json:"date_end"`
	Categories   []string `json:"categories"`
	Brands       []string `json:"brands"`
	Fulfillments []string `json:"fulfillments"`
	PriceMin     float64  `json:"price_min"`
	PriceMax     float64  `json:"price_max"`
}

// Meta summarizes the distinct filter values and bounds of the stored
// rows. The zero-value meta is returned for an empty table.
func (s *MetricStore) Meta() (*StoreMeta, error) {
	if !s.db.Migrator().HasTable(&models.MetricRow{}) {
		return nil, &StorageError{Op: "meta", Err: ErrNotSeeded}
	}
	meta := &StoreMeta{
		Categories:   []string{},
		Brands:       []string{},
		Fulfillments: []string{},
	}
	if err := s.db.Model(&models.MetricRow{}).Count(&meta.Rows).Error; err != nil {
		return nil, &StorageError{Op: "meta", Err: err}
	}
	if meta.Rows == 0 {
		return meta, nil
	}

	if err := s.db.Model(&models.MetricRow{}).Distinct("category").Order("category").
		Pluck("category", &meta.Categories).Error; err != nil {
		return nil, &StorageError{Op: "meta", Err: err}
	}
	if err := s.db.Model(&models.MetricRow{}).Distinct("brand").Order("brand").
		Pluck("brand", &meta.Brands).Error; err != nil {
		return nil, &StorageError{Op: "meta", Err: err}
	}
	if err := s.db.Model(&models.MetricRow{}).Distinct("fulfillment").Order("fulfillment").
		Pluck("fulfillment", &meta.Fulfillments).Error; err != nil {
		return nil, &StorageError{Op: "meta", Err: err}
	}

	// Date bounds come from ordered lookups so the column type mapping
	// applies; aggregate MIN/MAX over a datetime column loses it on
	// sqlite.
	var first, last models.MetricRow
	if err := s.db.Model(&models.MetricRow{}).Order("date").First(&first).Error; err != nil {
		return nil, &StorageError{Op: "meta", Err: err}
	}
	if err := s.db.Model(&models.MetricRow{}).Order("date DESC").First(&last).Error; err != nil {
		return nil, &StorageError{Op: "meta", Err: err}
	}
	var prices struct {
		MinPrice float64 `gorm:"column:min_price"`
		MaxPrice float64 `gorm:"column:max_price"`
	}
	if err := s.db.Model(&models.MetricRow{}).
		Select("MIN(price) AS min_price, MAX(price) AS max_price").
		Scan(&prices).Error; err != nil {
		return nil, &StorageError{Op: "meta", Err: err}
	}
	meta.DateStart = first.Date.UTC().Format("2006-01-02")
	meta.DateEnd = last.Date.UTC().Format("2006-01-02")
	meta.PriceMin = prices.MinPrice
	meta.PriceMax = prices.MaxPrice
	return meta, nil
}
