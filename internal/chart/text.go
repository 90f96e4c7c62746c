// internal/chart/text.go
package chart

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/mwiater/prefdash/internal/util"
)

// Text renders a description as horizontal bars scaled to [0,100], one block per
// category. barWidth is the number of cells representing 100.
func Text(d Description, barWidth int) string {
	if barWidth <= 0 {
		barWidth = 40
	}
	var b strings.Builder
	if d.Title != "" {
		b.WriteString(d.Title)
		b.WriteByte('\n')
	}
	if d.Empty() {
		b.WriteString("  (no data)\n")
		return b.String()
	}

	nameWidth := 0
	for _, s := range d.Series {
		if n := utf8.RuneCountInString(s.Name); n > nameWidth {
			nameWidth = n
		}
	}

	for ci, cat := range d.CategoryAxis.Categories {
		if d.CategoryAxis.Name != "" {
			fmt.Fprintf(&b, "%s: %s\n", d.CategoryAxis.Name, cat)
		} else {
			fmt.Fprintf(&b, "%s\n", cat)
		}
		for _, s := range d.Series {
			v := 0.0
			if ci < len(s.Values) {
				v = s.Values[ci]
			}
			fmt.Fprintf(&b, "  %s  %s %5.1f\n", util.PadRunes(s.Name, nameWidth), Bar(v, barWidth), v)
		}
	}
	return b.String()
}

// Bar draws a fixed-width bar for a percentage value. Non-finite values draw
// an empty bar.
func Bar(value float64, width int) string {
	if width <= 0 {
		return ""
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		value = 0
	}
	filled := int(math.Round(clamp(value) / PercentMax * float64(width)))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
