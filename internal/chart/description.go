// internal/chart/description.go
// Package chart describes bar charts independently of any renderer and maps those
// descriptions onto concrete outputs (ECharts options, SVG/PNG, plain text).
package chart

import "github.com/mwiater/prefdash/internal/aggregate"

const (
	// PercentMin and PercentMax bound every value axis; values are percentages.
	PercentMin = 0.0
	PercentMax = 100.0
)

// Description is a renderer-agnostic bar chart.
type Description struct {
	Title        string       `json:"title"`
	Subtitle     string       `json:"subtitle,omitempty"`
	CategoryAxis CategoryAxis `json:"category_axis"`
	ValueAxis    ValueAxis    `json:"value_axis"`
	Series       []Series     `json:"series"`
	Stacked      bool         `json:"stacked"`
	ShowLegend   bool         `json:"show_legend"`
}

// CategoryAxis is the chart's grouping dimension.
type CategoryAxis struct {
	Name       string   `json:"name"`
	Categories []string `json:"categories"`
}

// ValueAxis is the numeric axis. Its range is fixed by Build.
type ValueAxis struct {
	Name string  `json:"name"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// Series is one named array of values aligned to the category axis.
type Series struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// Options carries the display metadata for Build.
type Options struct {
	Title        string
	Subtitle     string
	CategoryName string
	ValueName    string
	Stacked      bool
	HideLegend   bool
}

// Build converts an aggregation into a chart description. The value axis is
// always [0,100] regardless of the data.
func Build(result aggregate.Result, opts Options) Description {
	valueName := opts.ValueName
	if valueName == "" {
		valueName = "Percentage"
	}
	desc := Description{
		Title:    opts.Title,
		Subtitle: opts.Subtitle,
		CategoryAxis: CategoryAxis{
			Name:       opts.CategoryName,
			Categories: append([]string{}, result.Categories...),
		},
		ValueAxis:  ValueAxis{Name: valueName, Min: PercentMin, Max: PercentMax},
		Series:     make([]Series, 0, len(result.Series)),
		Stacked:    opts.Stacked,
		ShowLegend: !opts.HideLegend,
	}
	for _, s := range result.Series {
		desc.Series = append(desc.Series, Series{
			Name:   s.Name,
			Values: append([]float64{}, s.Values...),
		})
	}
	return desc
}

// Empty reports whether there is nothing to draw.
func (d Description) Empty() bool {
	return len(d.CategoryAxis.Categories) == 0 || len(d.Series) == 0
}

// Totals returns the per-category sum across series, as drawn in stacked mode.
func (d Description) Totals() []float64 {
	totals := make([]float64, len(d.CategoryAxis.Categories))
	for _, s := range d.Series {
		for i, v := range s.Values {
			if i < len(totals) {
				totals[i] += v
			}
		}
	}
	return totals
}
