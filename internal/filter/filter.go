// internal/filter/filter.go
// Package filter resolves a chain of dependent multi-select filters over an
// observation table.
//
// Each stage narrows the rows seen by the stages after it:
//   - the options of a stage are the distinct values of its column among rows
//     that satisfy every earlier stage, sorted ascending
//   - an unset selection defaults to every option (the first Limit options for
//     capped stages)
//   - a selection holding any value that is no longer an option is replaced by
//     the default, so a downstream selection is always a subset of its options
//   - an explicitly empty selection matches nothing
package filter

import (
	"slices"

	"github.com/mwiater/prefdash/internal/dataset"
)

// Stage is one filter step. A nil Chosen means the user has not chosen yet.
type Stage struct {
	Column dataset.Column
	Chosen []string
	// Limit caps the number of selected values; zero means unlimited.
	Limit int
}

// StageResult is the resolved state of one stage.
type StageResult struct {
	Column   dataset.Column `json:"column"`
	Options  []string       `json:"options"`
	Selected []string       `json:"selected"`
	Limit    int            `json:"limit,omitempty"`
	// Reset is true when a stale selection was replaced by the default.
	Reset bool `json:"reset,omitempty"`
}

// Result holds every stage's resolution and the rows that pass all of them.
type Result struct {
	Stages []StageResult
	Rows   []dataset.Observation
}

// Empty reports whether no rows survived filtering.
func (r Result) Empty() bool { return len(r.Rows) == 0 }

// Stage returns the resolution for a column, if that column was a stage.
func (r Result) Stage(c dataset.Column) (StageResult, bool) {
	for _, s := range r.Stages {
		if s.Column == c {
			return s, true
		}
	}
	return StageResult{}, false
}

// Resolve runs the cascade. It never fails and never mutates rows.
func Resolve(rows []dataset.Observation, stages []Stage) Result {
	current := rows
	result := Result{Stages: make([]StageResult, 0, len(stages))}

	for _, stage := range stages {
		options := Options(current, stage.Column)
		selected, reset := Reconcile(options, stage.Chosen, stage.Limit)
		result.Stages = append(result.Stages, StageResult{
			Column:   stage.Column,
			Options:  options,
			Selected: selected,
			Limit:    stage.Limit,
			Reset:    reset,
		})
		current = Keep(current, stage.Column, selected)
	}

	result.Rows = current
	return result
}

// Options returns the sorted distinct values of a column.
func Options(rows []dataset.Observation, column dataset.Column) []string {
	seen := make(map[string]struct{})
	options := make([]string, 0)
	for _, row := range rows {
		v := row.Value(column)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		options = append(options, v)
	}
	slices.Sort(options)
	return options
}

// Reconcile maps a previous selection onto the current options. The returned
// selection is in option order, capped at limit, and always a subset of options.
// The boolean reports whether a stale selection was replaced.
func Reconcile(options, chosen []string, limit int) ([]string, bool) {
	if chosen == nil {
		return capped(slices.Clone(options), limit), false
	}

	valid := make(map[string]struct{}, len(options))
	for _, o := range options {
		valid[o] = struct{}{}
	}
	want := make(map[string]struct{}, len(chosen))
	for _, c := range chosen {
		if _, ok := valid[c]; !ok {
			return capped(slices.Clone(options), limit), true
		}
		want[c] = struct{}{}
	}

	selected := make([]string, 0, len(want))
	for _, o := range options {
		if _, ok := want[o]; ok {
			selected = append(selected, o)
		}
	}
	return capped(selected, limit), false
}

// Keep returns the rows whose column value is in values.
func Keep(rows []dataset.Observation, column dataset.Column, values []string) []dataset.Observation {
	if len(values) == 0 {
		return nil
	}
	allowed := make(map[string]struct{}, len(values))
	for _, v := range values {
		allowed[v] = struct{}{}
	}
	kept := make([]dataset.Observation, 0, len(rows))
	for _, row := range rows {
		if _, ok := allowed[row.Value(column)]; ok {
			kept = append(kept, row)
		}
	}
	return kept
}

func capped(values []string, limit int) []string {
	if limit > 0 && len(values) > limit {
		return values[:limit]
	}
	return values
}
