package dashboard

import (
	"maps"
	"slices"

	"github.com/mwiater/prefdash/internal/dataset"
)

// SelectionState is the user's filter choices for one pipeline. A column
// missing from Selections is unset; a column mapped to an empty list selects
// nothing. Methods never modify the receiver.
type SelectionState struct {
	Pipeline   PipelineName                `json:"pipeline" yaml:"pipeline"`
	Selections map[dataset.Column][]string `json:"selections,omitempty" yaml:"selections,omitempty"`
	Stacked    bool                        `json:"stacked,omitempty" yaml:"stacked,omitempty"`
}

// NewState returns an empty selection for a pipeline.
func NewState(p PipelineName) SelectionState {
	return SelectionState{Pipeline: p}
}

// Chosen returns the values chosen for column and whether the column is set.
func (s SelectionState) Chosen(column dataset.Column) ([]string, bool) {
	v, ok := s.Selections[column]
	if !ok {
		return nil, false
	}
	if v == nil {
		return []string{}, true
	}
	return slices.Clone(v), true
}

// With returns a copy choosing values for column. A nil or empty values
// selects nothing.
func (s SelectionState) With(column dataset.Column, values []string) SelectionState {
	out := s.Clone()
	if values == nil {
		values = []string{}
	}
	out.Selections[column] = slices.Clone(values)
	return out
}

// Without returns a copy with column unset.
func (s SelectionState) Without(column dataset.Column) SelectionState {
	out := s.Clone()
	delete(out.Selections, column)
	return out
}

// Toggle returns a copy with value added to or removed from column's choice.
func (s SelectionState) Toggle(column dataset.Column, value string) SelectionState {
	cur, _ := s.Chosen(column)
	if i := slices.Index(cur, value); i >= 0 {
		cur = slices.Delete(cur, i, i+1)
	} else {
		cur = append(cur, value)
	}
	return s.With(column, cur)
}

// WithStacked returns a copy with the stacked rendering flag set.
func (s SelectionState) WithStacked(stacked bool) SelectionState {
	out := s.Clone()
	out.Stacked = stacked
	return out
}

// IsZero reports whether no column is set.
func (s SelectionState) IsZero() bool { return len(s.Selections) == 0 }

// Clone returns a deep copy.
func (s SelectionState) Clone() SelectionState {
	out := s
	out.Selections = make(map[dataset.Column][]string, len(s.Selections))
	for k, v := range maps.All(s.Selections) {
		out.Selections[k] = slices.Clone(v)
	}
	return out
}
