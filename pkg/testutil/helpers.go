// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/hatchend/feasibility/internal/analysis"
	"github.com/hatchend/feasibility/pkg/output"
)

// FindDelta finds the delta for a metric in a scenario result.
// Returns a pointer to the delta if found, nil otherwise.
func FindDelta(deltas []analysis.Delta, metric string) *analysis.Delta {
	for i := range deltas {
		if deltas[i].Metric == metric {
			return &deltas[i]
		}
	}
	return nil
}

// FindTable finds a rendered table by title.
func FindTable(tables []output.Table, title string) *output.Table {
	for i := range tables {
		if tables[i].Title == title {
			return &tables[i]
		}
	}
	return nil
}

// FindRow returns the first row of a table whose leading cell reads label.
func FindRow(table *output.Table, label string) []output.Cell {
	if table == nil {
		return nil
	}
	for _, row := range table.Rows {
		if len(row) > 0 && row[0].Text == label {
			return row
		}
	}
	return nil
}
