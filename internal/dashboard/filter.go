package dashboard

import (
	"time"
)

// ApplyFilters returns the rows matching every active predicate. Date
// and price bounds are inclusive on both ends; an empty selection list
// leaves its field unrestricted. An empty result is valid.
func ApplyFilters(rows []Row, f Filters) []Row {
	categories := toSet(f.Categories)
	brands := toSet(f.Brands)
	fulfillments := toSet(f.Fulfillments)

	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if !withinDates(r.Date, f.DateStart, f.DateEnd) {
			continue
		}
		if !inSet(categories, r.Category) || !inSet(brands, r.Brand) || !inSet(fulfillments, r.Fulfillment) {
			continue
		}
		if f.PriceMin != nil && r.Price < *f.PriceMin {
			continue
		}
		if f.PriceMax != nil && r.Price > *f.PriceMax {
			continue
		}
		out = append(out, r)
	}
	return out
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func inSet(set map[string]struct{}, v string) bool {
	if len(set) == 0 {
		return true
	}
	_, ok := set[v]
	return ok
}

// withinDates compares at day granularity so times of day on either
// side never exclude a row from an inclusive [start,end] range.
func withinDates(d time.Time, start, end *time.Time) bool {
	day := dateOnly(d)
	if start != nil && day.Before(dateOnly(*start)) {
		return false
	}
	if end != nil && day.After(dateOnly(*end)) {
		return false
	}
	return true
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
