// internal/dashboard/pipeline.go
// Package dashboard wires the dataset, filter, aggregate and chart packages into
// the two dashboard views and owns the selection state passed between passes.
package dashboard

import (
	"errors"
	"fmt"
	"strings"

	lev "github.com/agnivade/levenshtein"
	"github.com/mwiater/prefdash/internal/dataset"
)

// ErrUnknownPipeline is returned for pipeline names that are not defined.
var ErrUnknownPipeline = errors.New("unknown pipeline")

// PipelineName identifies one of the dashboard views.
type PipelineName string

const (
	// PipelineDomain charts models against answers for one domain.
	PipelineDomain PipelineName = "domain"
	// PipelineActor charts actors against answers, one chart per model.
	PipelineActor PipelineName = "actor"
)

// ActorModelLimit caps how many models the actor view compares side by side.
const ActorModelLimit = 3

// StageSpec is one filter widget of a pipeline.
type StageSpec struct {
	Column dataset.Column `json:"column"`
	Label  string         `json:"label"`
	Limit  int            `json:"limit,omitempty"`
}

// Pipeline configures the shared filter/aggregate/chart engine for one view.
type Pipeline struct {
	Name    PipelineName
	Label   string
	Dataset dataset.Name
	Stages  []StageSpec

	CategoryColumn dataset.Column
	SeriesColumn   dataset.Column
	// PartitionColumn splits the filtered rows into one chart per value; empty
	// means a single chart.
	PartitionColumn dataset.Column

	// ChartTitle titles the single chart; partitioned charts are titled by key.
	ChartTitle    string
	CategoryLabel string
	ValueLabel    string
	EmptyMessage  string
}

var pipelines = []Pipeline{
	{
		Name:    PipelineDomain,
		Label:   "Domain-Level",
		Dataset: dataset.DomainLevel,
		Stages: []StageSpec{
			{Column: dataset.ColumnDomain, Label: "Domain", Limit: 1},
			{Column: dataset.ColumnAnswer, Label: "Response Types"},
			{Column: dataset.ColumnModel, Label: "Models"},
		},
		CategoryColumn: dataset.ColumnModel,
		SeriesColumn:   dataset.ColumnAnswer,
		ChartTitle:     "Response Distribution by LLMs",
		CategoryLabel:  "Model",
		ValueLabel:     "Percentage",
		EmptyMessage:   "No data after filtering by model(s) and response(s).",
	},
	{
		Name:    PipelineActor,
		Label:   "Country-Level",
		Dataset: dataset.CountryLevel,
		Stages: []StageSpec{
			{Column: dataset.ColumnDomain, Label: "Domain", Limit: 1},
			{Column: dataset.ColumnActor, Label: "Actor(s)"},
			{Column: dataset.ColumnModel, Label: fmt.Sprintf("Model(s) (max %d)", ActorModelLimit), Limit: ActorModelLimit},
			{Column: dataset.ColumnAnswer, Label: "Response Types"},
		},
		CategoryColumn:  dataset.ColumnActor,
		SeriesColumn:    dataset.ColumnAnswer,
		PartitionColumn: dataset.ColumnModel,
		CategoryLabel:   "Actor",
		ValueLabel:      "Percentage",
		EmptyMessage:    "No data after applying filters.",
	},
}

// Pipelines returns every pipeline in display order.
func Pipelines() []Pipeline {
	out := make([]Pipeline, len(pipelines))
	copy(out, pipelines)
	return out
}

// PipelineNames returns the pipeline identifiers in display order.
func PipelineNames() []string {
	names := make([]string, 0, len(pipelines))
	for _, p := range pipelines {
		names = append(names, string(p.Name))
	}
	return names
}

// LookupPipeline finds a pipeline by identifier or display label, ignoring case.
func LookupPipeline(name string) (Pipeline, error) {
	trimmed := strings.TrimSpace(name)
	for _, p := range pipelines {
		if strings.EqualFold(trimmed, string(p.Name)) || strings.EqualFold(trimmed, p.Label) {
			return p, nil
		}
	}
	return Pipeline{}, unknownName(ErrUnknownPipeline, name, PipelineNames())
}

// Stage returns the stage filtering on column, if any.
func (p Pipeline) Stage(column dataset.Column) (StageSpec, bool) {
	for _, s := range p.Stages {
		if s.Column == column {
			return s, true
		}
	}
	return StageSpec{}, false
}

// Columns returns the stage columns in cascade order.
func (p Pipeline) Columns() []dataset.Column {
	cols := make([]dataset.Column, 0, len(p.Stages))
	for _, s := range p.Stages {
		cols = append(cols, s.Column)
	}
	return cols
}

// Suggest returns the known name closest to name, or "" when nothing is close.
func Suggest(name string, known []string) string {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return ""
	}
	best, bestDist := "", -1
	for _, k := range known {
		d := lev.ComputeDistance(needle, strings.ToLower(k))
		if bestDist < 0 || d < bestDist {
			best, bestDist = k, d
		}
	}
	threshold := len([]rune(best)) / 2
	if threshold < 2 {
		threshold = 2
	}
	if best == "" || bestDist > threshold {
		return ""
	}
	return best
}

func unknownName(sentinel error, name string, known []string) error {
	if s := Suggest(name, known); s != "" {
		return fmt.Errorf("%w %q (did you mean %q?)", sentinel, name, s)
	}
	return fmt.Errorf("%w %q (known: %s)", sentinel, name, strings.Join(known, ", "))
}
