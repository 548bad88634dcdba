package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"sku-pulse/internal/models"
)

// ParseError reports a malformed upload with the offending line number.
// Line 0 means the failure happened before any data row.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("parse: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Accepted date layouts in upload files, ISO-8601 first.
var dateFormats = []string{
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"01/02/2006",
	"2006.01.02",
	time.RFC3339,
}

// ParseMetricsCSV reads a comma-separated upload into metric rows.
// Column order is free and headers match sku_metrics column names
// case-insensitively. date and sku_id are required; every other
// column is optional: counts default to zero and gmv/take_rate stay
// unset so the derivation layer can backfill them.
func ParseMetricsCSV(r io.Reader) ([]models.MetricRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &ParseError{Err: fmt.Errorf("empty file")}
	}
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\uFEFF")
		}
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"date", "sku_id"} {
		if _, ok := cols[required]; !ok {
			return nil, &ParseError{Err: fmt.Errorf("missing required column %q", required)}
		}
	}

	var rows []models.MetricRow
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, &ParseError{Line: line, Err: err}
		}
		row, err := parseMetricRecord(cols, record)
		if err != nil {
			return nil, &ParseError{Line: line, Err: err}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseMetricRecord(cols map[string]int, record []string) (models.MetricRow, error) {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	row := models.MetricRow{
		SKUID:       field("sku_id"),
		Title:       field("title"),
		Brand:       field("brand"),
		Category:    field("category"),
		Fulfillment: field("fulfillment"),
		Region:      field("region"),
	}
	if row.SKUID == "" {
		return row, fmt.Errorf("empty sku_id")
	}

	date, err := parseDate(field("date"))
	if err != nil {
		return row, err
	}
	row.Date = date

	if row.Price, err = floatField(field("price"), "price"); err != nil {
		return row, err
	}
	if row.Discount, err = floatField(field("discount"), "discount"); err != nil {
		return row, err
	}
	if row.Sessions, err = intField(field("sessions"), "sessions"); err != nil {
		return row, err
	}
	if row.Clicks, err = intField(field("clicks"), "clicks"); err != nil {
		return row, err
	}
	if row.AddToCart, err = intField(field("add_to_cart"), "add_to_cart"); err != nil {
		return row, err
	}
	if row.UnitsOrdered, err = intField(field("units_ordered"), "units_ordered"); err != nil {
		return row, err
	}
	if row.UnitsReturned, err = intField(field("units_returned"), "units_returned"); err != nil {
		return row, err
	}

	if v := field("gmv"); v != "" {
		gmv, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return row, fmt.Errorf("invalid gmv %q", v)
		}
		row.GMV = &gmv
	}
	if v := field("take_rate"); v != "" {
		takeRate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return row, fmt.Errorf("invalid take_rate %q", v)
		}
		row.TakeRate = &takeRate
	}
	return row, nil
}

func parseDate(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, v); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable date %q", v)
}

func floatField(v, name string) (float64, error) {
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, v)
	}
	return f, nil
}

// intField also accepts float-formatted counts such as "12.0", which
// spreadsheet exports produce.
func intField(v, name string) (int, error) {
	if v == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, v)
	}
	return int(math.Round(f)), nil
}
