// internal/aggregate/types.go
package aggregate

import "github.com/mwiater/prefdash/internal/dataset"

// Result is a filtered table reshaped for a bar chart: one value per
// (category, series) pair, aligned to Categories.
type Result struct {
	CategoryColumn dataset.Column `json:"category_column"`
	SeriesColumn   dataset.Column `json:"series_column"`
	Categories     []string       `json:"categories"`
	Series         []Series       `json:"series"`
}

// Series is one named line of values aligned to Result.Categories.
type Series struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
	// Cells holds the running statistics behind each value; a zero Count marks
	// a filled default.
	Cells []RunningStat `json:"cells"`
}

// RunningStat holds the values needed for an online mean (Welford's algorithm).
type RunningStat struct {
	Count int64   `json:"count"`
	Mean  float64 `json:"mean"`
	M2    float64 `json:"-"` // Sum of squares of differences from the current mean
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// Partition is the subset of rows sharing one value of a column.
type Partition struct {
	Key  string
	Rows []dataset.Observation
}

// Empty reports whether the partition has no rows.
func (p Partition) Empty() bool { return len(p.Rows) == 0 }
