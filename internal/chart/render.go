// internal/chart/render.go
package chart

import (
	"errors"
	"fmt"
	"io"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/mwiater/prefdash/internal/util"
)

// Format selects an image encoding for Render.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// ParseFormat accepts "svg" or "png" (case-insensitive); blank means SVG.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "svg":
		return FormatSVG, nil
	case "png":
		return FormatPNG, nil
	default:
		return "", fmt.Errorf("unsupported chart format %q (expected svg or png)", s)
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/svg+xml"
}

// ErrNothingToDraw is returned when a description has no categories or series.
var ErrNothingToDraw = errors.New("chart has no data")

const (
	defaultWidth  = 1024
	defaultHeight = 400
	maxLabelRunes = 18
)

// Render draws a description as an image. Stacked descriptions become a stacked
// bar per category; grouped descriptions become one bar per (category, series).
// The value scale is fixed to [0,100] in both modes.
func Render(d Description, format Format, width, height int, w io.Writer) error {
	if d.Empty() {
		return ErrNothingToDraw
	}
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	provider := gochart.SVG
	if format == FormatPNG {
		provider = gochart.PNG
	}

	if d.Stacked {
		return stackedChart(d, width, height).Render(provider, w)
	}
	return groupedChart(d, width, height).Render(provider, w)
}

func title(d Description) string {
	if d.Subtitle == "" {
		return d.Title
	}
	return d.Title + " - " + d.Subtitle
}

func seriesStyle(index int) gochart.Style {
	color := gochart.GetDefaultColor(index)
	return gochart.Style{FillColor: color, StrokeColor: color, StrokeWidth: 1}
}

func barWidth(bars, width, spacing int) int {
	avail := width - 120
	bw := avail/bars - spacing
	if bw < 4 {
		bw = 4
	}
	if bw > 60 {
		bw = 60
	}
	return bw
}

func groupedChart(d Description, width, height int) gochart.BarChart {
	var bars []gochart.Value
	for ci, cat := range d.CategoryAxis.Categories {
		for si, s := range d.Series {
			v := 0.0
			if ci < len(s.Values) {
				v = s.Values[ci]
			}
			label := util.TruncateRunes(cat, maxLabelRunes)
			if len(d.Series) > 1 {
				label = util.TruncateRunes(cat+" / "+s.Name, maxLabelRunes)
			}
			bars = append(bars, gochart.Value{
				Label: label,
				Value: clamp(v),
				Style: seriesStyle(si),
			})
		}
	}
	spacing := 6
	return gochart.BarChart{
		Title:      title(d),
		Width:      width,
		Height:     height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		BarWidth:   barWidth(len(bars), width, spacing),
		BarSpacing: spacing,
		YAxis: gochart.YAxis{
			Name:  d.ValueAxis.Name,
			Range: &gochart.ContinuousRange{Min: PercentMin, Max: PercentMax},
			Ticks: percentTicks(),
		},
		Bars: bars,
	}
}

// stackedChart pads each bar with a blank remainder segment up to 100 so that
// go-chart's per-bar normalization keeps the absolute percentage scale.
func stackedChart(d Description, width, height int) gochart.StackedBarChart {
	totals := d.Totals()
	spacing := 12
	bw := barWidth(len(d.CategoryAxis.Categories), width, spacing)
	blank := gochart.Style{FillColor: drawing.ColorWhite, StrokeColor: drawing.ColorWhite}

	bars := make([]gochart.StackedBar, 0, len(d.CategoryAxis.Categories))
	for ci, cat := range d.CategoryAxis.Categories {
		bar := gochart.StackedBar{Name: util.TruncateRunes(cat, maxLabelRunes), Width: bw}
		if rest := PercentMax - totals[ci]; rest > 0 {
			bar.Values = append(bar.Values, gochart.Value{Label: "", Value: rest, Style: blank})
		}
		for si := len(d.Series) - 1; si >= 0; si-- {
			s := d.Series[si]
			if ci >= len(s.Values) || s.Values[ci] <= 0 {
				continue
			}
			bar.Values = append(bar.Values, gochart.Value{Label: s.Name, Value: s.Values[ci], Style: seriesStyle(si)})
		}
		bars = append(bars, bar)
	}
	return gochart.StackedBarChart{
		Title:      title(d),
		Width:      width,
		Height:     height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		BarSpacing: spacing,
		Bars:       bars,
	}
}

func percentTicks() []gochart.Tick {
	ticks := make([]gochart.Tick, 0, 6)
	for v := PercentMin; v <= PercentMax; v += 20 {
		ticks = append(ticks, gochart.Tick{Value: v, Label: fmt.Sprintf("%.0f", v)})
	}
	return ticks
}

func clamp(v float64) float64 {
	if v < PercentMin {
		return PercentMin
	}
	if v > PercentMax {
		return PercentMax
	}
	return v
}
