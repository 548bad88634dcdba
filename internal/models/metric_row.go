package models

import (
	"time"
)

// MetricRow is one day of funnel performance for a single SKU.
// sku_id + date form the natural key; storage does not enforce it.
type MetricRow struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Date          time.Time `json:"date" gorm:"column:date;index;not null"`
	SKUID         string    `json:"sku_id" gorm:"column:sku_id;index;not null"`
	Title         string    `json:"title"`
	Brand         string    `json:"brand" gorm:"index"`
	Category      string    `json:"category" gorm:"index"`
	Price         float64   `json:"price"`
	Discount      float64   `json:"discount"`
	Sessions      int       `json:"sessions"`
	Clicks        int       `json:"clicks"`
	AddToCart     int       `json:"add_to_cart" gorm:"column:add_to_cart"`
	UnitsOrdered  int       `json:"units_ordered"`
	UnitsReturned int       `json:"units_returned"`
	GMV           *float64  `json:"gmv,omitempty" gorm:"column:gmv"` // nil when the source omits it
	Fulfillment   string    `json:"fulfillment"`
	Region        string    `json:"region"`
	TakeRate      *float64  `json:"take_rate,omitempty" gorm:"column:take_rate"` // nil defaults to 0.10 at derivation
}

// TableName keeps the storage table name stable across dialects.
func (MetricRow) TableName() string {
	return "sku_metrics"
}
