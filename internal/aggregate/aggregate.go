// internal/aggregate/aggregate.go
// Package aggregate turns filtered observations into aligned category/series arrays.
package aggregate

import (
	"math"

	"github.com/mwiater/prefdash/internal/dataset"
	"github.com/mwiater/prefdash/internal/filter"
)

type cellKey struct {
	category string
	series   string
}

// Aggregate groups rows by category and series column. Each value is the mean
// percentage of the matching rows, or 0 when no row matches. Categories and
// series names are sorted ascending.
func Aggregate(rows []dataset.Observation, category, series dataset.Column) Result {
	cells := make(map[cellKey]*RunningStat)
	for _, row := range rows {
		key := cellKey{category: row.Value(category), series: row.Value(series)}
		stat, ok := cells[key]
		if !ok {
			stat = &RunningStat{}
			cells[key] = stat
		}
		updateRunningStat(stat, row.Percentage)
	}

	result := Result{
		CategoryColumn: category,
		SeriesColumn:   series,
		Categories:     filter.Options(rows, category),
	}
	for _, name := range filter.Options(rows, series) {
		s := Series{
			Name:   name,
			Values: make([]float64, len(result.Categories)),
			Cells:  make([]RunningStat, len(result.Categories)),
		}
		for i, cat := range result.Categories {
			if stat, ok := cells[cellKey{category: cat, series: name}]; ok {
				s.Values[i] = stat.Mean
				s.Cells[i] = *stat
			}
		}
		result.Series = append(result.Series, s)
	}
	return result
}

// PartitionBy splits rows by column, one partition per key in the given order.
// Keys without rows still get an (empty) partition.
func PartitionBy(rows []dataset.Observation, column dataset.Column, keys []string) []Partition {
	index := make(map[string]int, len(keys))
	parts := make([]Partition, len(keys))
	for i, k := range keys {
		parts[i].Key = k
		if _, dup := index[k]; !dup {
			index[k] = i
		}
	}
	for _, row := range rows {
		if i, ok := index[row.Value(column)]; ok {
			parts[i].Rows = append(parts[i].Rows, row)
		}
	}
	return parts
}

// updateRunningStat folds one value into the running statistic.
func updateRunningStat(rs *RunningStat, value float64) {
	rs.Count++
	if rs.Count == 1 {
		rs.Min = value
		rs.Max = value
	} else {
		if value < rs.Min {
			rs.Min = value
		}
		if value > rs.Max {
			rs.Max = value
		}
	}

	delta := value - rs.Mean
	rs.Mean += delta / float64(rs.Count)
	delta2 := value - rs.Mean
	rs.M2 += delta * delta2
}

// StdDev returns the sample standard deviation, or 0 with fewer than two values.
func (rs RunningStat) StdDev() float64 {
	if rs.Count < 2 {
		return 0
	}
	return math.Sqrt(rs.M2 / float64(rs.Count-1))
}
