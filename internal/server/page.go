package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/mwiater/prefdash/internal/chart"
	"github.com/mwiater/prefdash/internal/dashboard"
	"github.com/mwiater/prefdash/internal/dataset"
	"github.com/mwiater/prefdash/internal/logging"
)

type pageData struct {
	Instructions []string
	Pipelines    []pipelineLink
	Presets      []dashboard.Preset
	View         dashboard.View
	Fields       []stageField
	Panels       []panelSlot
	Stacked      bool
}

type pipelineLink struct {
	Name   dashboard.PipelineName
	Label  string
	Active bool
}

// stageField is one filter control. Changing a field that Resets drops every
// later field from the submitted form so those stages fall back to defaults.
type stageField struct {
	Name     string
	Label    string
	Stage    int
	Multiple bool
	Resets   bool
	Options  []optionField
}

type optionField struct {
	Value    string
	Selected bool
}

type panelSlot struct {
	ID       string
	Key      string
	Message  string
	Option   template.JS
	ImageURL string
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := q.Get("pipeline")
	if name == "" {
		name = string(dashboard.PipelineDomain)
		if id := q.Get("preset"); id != "" {
			if preset, err := s.dash.Presets().Lookup(id); err == nil {
				name = string(preset.Pipeline)
			}
		}
	}

	view, state, err := s.render(w, r, name)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	data, err := buildPage(view, state, s.dash.Presets())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		logging.LogEvent("[HTTP] page template error: %v", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func buildPage(view dashboard.View, state dashboard.SelectionState, presets *dashboard.Presets) (pageData, error) {
	data := pageData{
		Instructions: strings.Split(dashboard.Instructions, "\n\n"),
		Presets:      presets.For(view.Pipeline),
		View:         view,
		Stacked:      view.Stacked,
	}
	for _, p := range dashboard.Pipelines() {
		data.Pipelines = append(data.Pipelines, pipelineLink{Name: p.Name, Label: p.Label, Active: p.Name == view.Pipeline})
	}
	for i, st := range view.Stages {
		field := stageField{
			Name:     string(st.Column),
			Label:    st.Label,
			Stage:    i,
			Multiple: st.Limit != 1,
			Resets:   st.Column == dataset.ColumnDomain,
		}
		for _, o := range st.Options {
			field.Options = append(field.Options, optionField{Value: o, Selected: slices.Contains(st.Selected, o)})
		}
		data.Fields = append(data.Fields, field)
	}

	query := stateQuery(state).Encode()
	chartIndex := 0
	for i, p := range view.Panels {
		slot := panelSlot{ID: fmt.Sprintf("chart-%d", i), Key: p.Key, Message: p.Message}
		if p.Chart != nil {
			option, err := json.Marshal(chart.ECharts(*p.Chart))
			if err != nil {
				return pageData{}, err
			}
			slot.Option = template.JS(option)
			slot.ImageURL = fmt.Sprintf("/charts/%s/%d?format=png&%s", view.Pipeline, chartIndex, query)
			chartIndex++
		}
		data.Panels = append(data.Panels, slot)
	}
	return data, nil
}

// stateQuery encodes a selection so a link reproduces it without a session.
func stateQuery(state dashboard.SelectionState) url.Values {
	q := url.Values{}
	cols := make([]string, 0, len(state.Selections))
	for col := range state.Selections {
		cols = append(cols, string(col))
	}
	slices.Sort(cols)
	for _, col := range cols {
		values, _ := state.Chosen(dataset.Column(col))
		if len(values) == 0 {
			q.Add(col, "")
			continue
		}
		for _, v := range values {
			q.Add(col, v)
		}
	}
	q.Set("stacked", fmt.Sprintf("%t", state.Stacked))
	return q
}
