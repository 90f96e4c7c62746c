package dashboard

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mwiater/prefdash/internal/aggregate"
	"github.com/mwiater/prefdash/internal/chart"
	"github.com/mwiater/prefdash/internal/dataset"
	"github.com/mwiater/prefdash/internal/filter"
	"github.com/mwiater/prefdash/internal/logging"
)

// Outcome classifies a render pass for logging and clients.
type Outcome string

const (
	OutcomeOK        Outcome = "ok"
	OutcomeNoData    Outcome = "no_data"
	OutcomeNotFound  Outcome = "not_found"
	OutcomeMalformed Outcome = "malformed"
)

// StageView is a resolved filter widget.
type StageView struct {
	filter.StageResult
	Label string `json:"label"`
}

// Panel is one chart slot. Panels of a partitioned view that have no rows carry
// a Message instead of a Chart.
type Panel struct {
	Key       string             `json:"key,omitempty"`
	Chart     *chart.Description `json:"chart,omitempty"`
	Aggregate *aggregate.Result  `json:"aggregate,omitempty"`
	Message   string             `json:"message,omitempty"`
}

// View is everything a shell needs to draw one pipeline.
type View struct {
	Pipeline    PipelineName `json:"pipeline"`
	Label       string       `json:"label"`
	Dataset     dataset.Name `json:"dataset"`
	Domain      string       `json:"domain,omitempty"`
	Explanation string       `json:"explanation,omitempty"`
	Heading     string       `json:"heading,omitempty"`
	Stages      []StageView  `json:"stages"`
	Panels      []Panel      `json:"panels"`
	Message     string       `json:"message,omitempty"`
	Outcome     Outcome      `json:"outcome"`
	Rows        int          `json:"rows"`
	Stacked     bool         `json:"stacked"`
}

// Charts returns the drawable charts in panel order.
func (v View) Charts() []chart.Description {
	var out []chart.Description
	for _, p := range v.Panels {
		if p.Chart != nil {
			out = append(out, *p.Chart)
		}
	}
	return out
}

// Stage returns the resolved stage for a column.
func (v View) Stage(column dataset.Column) (StageView, bool) {
	for _, s := range v.Stages {
		if s.Column == column {
			return s, true
		}
	}
	return StageView{}, false
}

// Dashboard runs render passes against cached datasets.
type Dashboard struct {
	cache   *dataset.Cache
	presets *Presets
}

// New creates a Dashboard. A nil presets table uses the built-in presets.
func New(cache *dataset.Cache, presets *Presets) *Dashboard {
	if presets == nil {
		presets = DefaultPresets()
	}
	return &Dashboard{cache: cache, presets: presets}
}

// Presets returns the preset table.
func (d *Dashboard) Presets() *Presets { return d.presets }

// Cache returns the dataset cache.
func (d *Dashboard) Cache() *dataset.Cache { return d.cache }

// View runs one full pass for a pipeline: load, resolve, aggregate and build
// charts. It returns the view and the reconciled selection to feed into the
// next pass. Missing data and empty results are reported on the view, not as
// errors.
func (d *Dashboard) View(name string, state SelectionState) (View, SelectionState, error) {
	p, err := LookupPipeline(name)
	if err != nil {
		return View{}, state, err
	}
	if state.Pipeline != p.Name {
		if state.Pipeline != "" {
			state = NewState(p.Name).WithStacked(state.Stacked)
		} else {
			state = state.Clone()
			state.Pipeline = p.Name
		}
	}

	view := View{
		Pipeline: p.Name,
		Label:    p.Label,
		Dataset:  p.Dataset,
		Stacked:  state.Stacked,
		Stages:   []StageView{},
		Panels:   []Panel{},
	}

	table, err := d.cache.Get(p.Dataset)
	if err != nil {
		file := filepath.Base(d.cache.Loader().Path(p.Dataset))
		if errors.Is(err, dataset.ErrNotFound) {
			view.Outcome = OutcomeNotFound
			view.Message = fmt.Sprintf("%s data file '%s' not found.", p.Dataset.Label(), file)
		} else {
			view.Outcome = OutcomeMalformed
			view.Message = fmt.Sprintf("%s data file '%s' could not be read: %v", p.Dataset.Label(), file, err)
		}
		return view, state, nil
	}

	res := filter.Resolve(table.Rows, stagesFor(p, state))
	next := reconcile(state, res)

	for i, sr := range res.Stages {
		if sr.Reset {
			logging.Debugf("pipeline=%s stage=%s stale selection reset to %v", p.Name, sr.Column, sr.Selected)
		}
		view.Stages = append(view.Stages, StageView{StageResult: sr, Label: p.Stages[i].Label})
	}
	if domain, ok := res.Stage(dataset.ColumnDomain); ok && len(domain.Selected) > 0 {
		view.Domain = domain.Selected[0]
		view.Explanation = Explanation(view.Domain)
		view.Heading = "Distribution of Responses for " + view.Domain
	}
	view.Rows = len(res.Rows)

	var keys []string
	if p.PartitionColumn != "" {
		part, _ := res.Stage(p.PartitionColumn)
		keys = part.Selected
		if len(keys) == 0 {
			view.Outcome = OutcomeNoData
			view.Message = fmt.Sprintf("No %ss selected.", p.PartitionColumn)
			return view, next, nil
		}
	}
	if res.Empty() {
		view.Outcome = OutcomeNoData
		view.Message = p.EmptyMessage
		return view, next, nil
	}

	view.Outcome = OutcomeOK
	if p.PartitionColumn == "" {
		view.Panels = append(view.Panels, buildPanel(p, "", p.ChartTitle, res.Rows, state.Stacked, false))
		return view, next, nil
	}

	legendShown := false
	for _, part := range aggregate.PartitionBy(res.Rows, p.PartitionColumn, keys) {
		if part.Empty() {
			view.Panels = append(view.Panels, Panel{
				Key:     part.Key,
				Message: fmt.Sprintf("No data for %s: %s", p.PartitionColumn, part.Key),
			})
			continue
		}
		view.Panels = append(view.Panels, buildPanel(p, part.Key, part.Key, part.Rows, state.Stacked, legendShown))
		legendShown = true
	}
	return view, next, nil
}

// Apply resolves a preset and renders it.
func (d *Dashboard) Apply(presetID string, stacked bool) (View, SelectionState, error) {
	state, err := d.presets.Apply(presetID)
	if err != nil {
		return View{}, SelectionState{}, err
	}
	return d.View(string(state.Pipeline), state.WithStacked(stacked))
}

func buildPanel(p Pipeline, key, title string, rows []dataset.Observation, stacked, hideLegend bool) Panel {
	agg := aggregate.Aggregate(rows, p.CategoryColumn, p.SeriesColumn)
	desc := chart.Build(agg, chart.Options{
		Title:        title,
		CategoryName: p.CategoryLabel,
		ValueName:    p.ValueLabel,
		Stacked:      stacked,
		HideLegend:   hideLegend,
	})
	return Panel{Key: key, Chart: &desc, Aggregate: &agg}
}

func stagesFor(p Pipeline, state SelectionState) []filter.Stage {
	stages := make([]filter.Stage, 0, len(p.Stages))
	for _, st := range p.Stages {
		chosen, _ := state.Chosen(st.Column)
		stages = append(stages, filter.Stage{Column: st.Column, Chosen: chosen, Limit: st.Limit})
	}
	return stages
}

// reconcile records each stage's resolved selection. Stages with no options are
// left unset so they fall back to the default once options reappear.
func reconcile(state SelectionState, res filter.Result) SelectionState {
	next := state.Clone()
	for _, sr := range res.Stages {
		if len(sr.Options) == 0 {
			delete(next.Selections, sr.Column)
			continue
		}
		next = next.With(sr.Column, sr.Selected)
	}
	return next
}

// Summary is a one-line description of a view for logs and terminals.
func (v View) Summary() string {
	if v.Message != "" && len(v.Charts()) == 0 {
		return v.Message
	}
	var parts []string
	for _, c := range v.Charts() {
		parts = append(parts, fmt.Sprintf("%s (%d×%d)", c.Title, len(c.CategoryAxis.Categories), len(c.Series)))
	}
	return strings.Join(parts, ", ")
}
