// Package totals derives the computed amounts of a report. Nothing here is
// stored; every render and export recomputes from the items it is given.
package totals

import "github.com/ginjaninja78/pln-usage-report/internal/model"

// LineTotal is unitPrice * quantity for one item.
func LineTotal(item model.LineItem) int64 {
	return item.UnitPrice * item.Quantity
}

// GrandTotal sums the line totals of items. It is 0 for an empty slice.
func GrandTotal(items []model.LineItem) int64 {
	var total int64
	for _, item := range items {
		total += LineTotal(item)
	}
	return total
}
