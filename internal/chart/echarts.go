// internal/chart/echarts.go
package chart

// EChartsOption is the subset of the ECharts option schema the dashboard page uses.
type EChartsOption struct {
	Title   EChartsTitle    `json:"title"`
	Tooltip EChartsTooltip  `json:"tooltip"`
	Legend  EChartsLegend   `json:"legend"`
	Grid    EChartsGrid     `json:"grid"`
	XAxis   EChartsAxis     `json:"xAxis"`
	YAxis   EChartsAxis     `json:"yAxis"`
	Series  []EChartsSeries `json:"series"`
}

type EChartsTitle struct {
	Text    string `json:"text"`
	Subtext string `json:"subtext,omitempty"`
	Left    string `json:"left"`
}

type EChartsTooltip struct {
	Trigger string `json:"trigger"`
}

type EChartsLegend struct {
	Show bool `json:"show"`
	Top  int  `json:"top,omitempty"`
}

type EChartsGrid struct {
	Left         string `json:"left"`
	Right        string `json:"right"`
	Bottom       string `json:"bottom"`
	ContainLabel bool   `json:"containLabel"`
}

type EChartsAxis struct {
	Type string   `json:"type"`
	Name string   `json:"name,omitempty"`
	Data []string `json:"data,omitempty"`
	Min  *float64 `json:"min,omitempty"`
	Max  *float64 `json:"max,omitempty"`
}

type EChartsSeries struct {
	Name  string    `json:"name"`
	Type  string    `json:"type"`
	Stack string    `json:"stack,omitempty"`
	Data  []float64 `json:"data"`
}

// ECharts maps a description onto an ECharts bar chart option.
func ECharts(d Description) EChartsOption {
	minV, maxV := d.ValueAxis.Min, d.ValueAxis.Max
	opt := EChartsOption{
		Title:   EChartsTitle{Text: d.Title, Subtext: d.Subtitle, Left: "center"},
		Tooltip: EChartsTooltip{Trigger: "axis"},
		Legend:  EChartsLegend{Show: d.ShowLegend},
		Grid:    EChartsGrid{Left: "5%", Right: "5%", Bottom: "10%", ContainLabel: true},
		XAxis: EChartsAxis{
			Type: "category",
			Name: d.CategoryAxis.Name,
			Data: append([]string{}, d.CategoryAxis.Categories...),
		},
		YAxis: EChartsAxis{
			Type: "value",
			Name: d.ValueAxis.Name,
			Min:  &minV,
			Max:  &maxV,
		},
		Series: make([]EChartsSeries, 0, len(d.Series)),
	}
	if d.ShowLegend {
		opt.Legend.Top = 30
	}
	for _, s := range d.Series {
		es := EChartsSeries{Name: s.Name, Type: "bar", Data: append([]float64{}, s.Values...)}
		if d.Stacked {
			es.Stack = "total"
		}
		opt.Series = append(opt.Series, es)
	}
	return opt
}
