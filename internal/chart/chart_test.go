// internal/chart/chart_test.go
package chart

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mwiater/prefdash/internal/aggregate"
)

func sampleResult() aggregate.Result {
	return aggregate.Result{
		Categories: []string{"M1", "M2"},
		Series: []aggregate.Series{
			{Name: "A", Values: []float64{30, 50}},
			{Name: "B", Values: []float64{70, 0}},
		},
	}
}

func TestBuildFixesValueAxis(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
	}{
		{name: "small values", values: []float64{1, 2}},
		{name: "large values", values: []float64{250, 900}},
		{name: "negative values", values: []float64{-10, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := aggregate.Result{Categories: []string{"x", "y"}, Series: []aggregate.Series{{Name: "s", Values: tt.values}}}
			d := Build(res, Options{Title: "t"})
			if d.ValueAxis.Min != 0 || d.ValueAxis.Max != 100 {
				t.Fatalf("value axis must be [0,100], got [%v,%v]", d.ValueAxis.Min, d.ValueAxis.Max)
			}
		})
	}
}

func TestBuildCopiesShape(t *testing.T) {
	res := sampleResult()
	d := Build(res, Options{Title: "Response Distribution by LLMs", CategoryName: "Model", Stacked: true})
	want := Description{
		Title:        "Response Distribution by LLMs",
		CategoryAxis: CategoryAxis{Name: "Model", Categories: []string{"M1", "M2"}},
		ValueAxis:    ValueAxis{Name: "Percentage", Min: 0, Max: 100},
		Series:       []Series{{Name: "A", Values: []float64{30, 50}}, {Name: "B", Values: []float64{70, 0}}},
		Stacked:      true,
		ShowLegend:   true,
	}
	if diff := cmp.Diff(want, d); diff != "" {
		t.Fatalf("description mismatch (-want +got):\n%s", diff)
	}

	res.Series[0].Values[0] = 99
	if d.Series[0].Values[0] != 30 {
		t.Fatal("description must not alias aggregation arrays")
	}
	if diff := cmp.Diff([]float64{100, 50}, d.Totals()); diff != "" {
		t.Fatalf("totals mismatch (-want +got):\n%s", diff)
	}
}

func TestEChartsOption(t *testing.T) {
	d := Build(sampleResult(), Options{Title: "GPT-4o", CategoryName: "Actor", Stacked: true, HideLegend: true})
	opt := ECharts(d)
	data, err := json.Marshal(opt)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)
	for _, want := range []string{`"min":0`, `"max":100`, `"stack":"total"`, `"legend":{"show":false}`, `"type":"category"`, `"left":"center"`} {
		if !strings.Contains(s, want) {
			t.Fatalf("expected %s in option JSON, got %s", want, s)
		}
	}

	grouped := ECharts(Build(sampleResult(), Options{}))
	if grouped.Series[0].Stack != "" || grouped.Legend.Top != 30 || !grouped.Legend.Show {
		t.Fatalf("unexpected grouped option %+v", grouped)
	}
}

func TestRenderSVGAndPNG(t *testing.T) {
	for _, stacked := range []bool{false, true} {
		d := Build(sampleResult(), Options{Title: "chart", Stacked: stacked})
		var svg bytes.Buffer
		if err := Render(d, FormatSVG, 640, 320, &svg); err != nil {
			t.Fatalf("stacked=%v svg render: %v", stacked, err)
		}
		if !strings.Contains(svg.String(), "<svg") {
			t.Fatalf("stacked=%v expected svg output", stacked)
		}
		var png bytes.Buffer
		if err := Render(d, FormatPNG, 640, 320, &png); err != nil {
			t.Fatalf("stacked=%v png render: %v", stacked, err)
		}
		if !bytes.HasPrefix(png.Bytes(), []byte("\x89PNG")) {
			t.Fatalf("stacked=%v expected png signature", stacked)
		}
	}
}

func TestRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(Description{}, FormatSVG, 0, 0, &buf); !errors.Is(err, ErrNothingToDraw) {
		t.Fatalf("expected ErrNothingToDraw, got %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat(""); err != nil || f != FormatSVG {
		t.Fatalf("blank format: %v %v", f, err)
	}
	if f, err := ParseFormat("PNG"); err != nil || f.ContentType() != "image/png" {
		t.Fatalf("png format: %v %v", f, err)
	}
	if _, err := ParseFormat("gif"); err == nil {
		t.Fatal("expected error for gif")
	}
}

func TestText(t *testing.T) {
	d := Build(sampleResult(), Options{Title: "Response Distribution by LLMs", CategoryName: "Model"})
	out := Text(d, 10)
	for _, want := range []string{"Response Distribution by LLMs", "Model: M1", "A  ███░░░░░░░  30.0", "B  ░░░░░░░░░░   0.0"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
	if got := Text(Description{Title: "x"}, 10); !strings.Contains(got, "(no data)") {
		t.Fatalf("expected no data marker, got %q", got)
	}
	if got := Bar(150, 4); got != "████" {
		t.Fatalf("Bar should clamp, got %q", got)
	}
}

func TestBarNonFinite(t *testing.T) {
	tests := []struct {
		name  string
		value float64
	}{
		{name: "nan", value: math.NaN()},
		{name: "positive inf", value: math.Inf(1)},
		{name: "negative inf", value: math.Inf(-1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Bar(tt.value, 4); got != "░░░░" {
				t.Fatalf("expected an empty bar, got %q", got)
			}
		})
	}
	if got := Bar(50, 0); got != "" {
		t.Fatalf("expected no cells for zero width, got %q", got)
	}
}
