package extract

import "strings"

// Observation is one output row: the spatial mean of a band over one
// temporal window, stamped with the window start's year and month and the
// region's fixed coordinates. A nil Value marks a window whose reduction
// carried no data for the band.
type Observation struct {
	Year      int
	Month     int
	Value     *float64
	Latitude  float64
	Longitude float64
}

// Table is the ordered result of one aggregation run: one row per window,
// in window order.
type Table struct {
	Band string
	Rows []Observation
}

// Column is the name of the table's value column: the band, lower-cased.
func (t Table) Column() string {
	return strings.ToLower(t.Band)
}

// Empty reports whether the table carries no rows.
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}
