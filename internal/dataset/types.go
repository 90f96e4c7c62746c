// internal/dataset/types.go
package dataset

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound reports that a dataset file is absent or unreadable.
	ErrNotFound = errors.New("dataset not found")
	// ErrMalformed reports that a dataset file could not be parsed.
	ErrMalformed = errors.New("dataset malformed")
)

// Name is the logical name of a source table.
type Name string

const (
	// DomainLevel is the per-(domain, model, answer) table.
	DomainLevel Name = "domain_level"
	// CountryLevel is the per-(domain, model, actor, answer) table.
	CountryLevel Name = "country_level"
)

// DefaultFile returns the conventional file name for a dataset.
func (n Name) DefaultFile() string {
	switch n {
	case DomainLevel:
		return "final_dashboard_df.csv"
	case CountryLevel:
		return "country_level_distribution.csv"
	default:
		return string(n) + ".csv"
	}
}

// Label is the human readable prefix used in user-facing messages.
func (n Name) Label() string {
	switch n {
	case DomainLevel:
		return "Domain-level"
	case CountryLevel:
		return "Country-level"
	default:
		return string(n)
	}
}

// Column names a categorical attribute of an Observation.
type Column string

const (
	ColumnDomain Column = "domain"
	ColumnModel  Column = "model"
	ColumnAnswer Column = "answer"
	ColumnActor  Column = "actor"
)

// columnPercentage is the numeric column; it is never a filter dimension.
const columnPercentage = "percentage"

// ParseColumn maps a case-insensitive name onto a known categorical column.
func ParseColumn(s string) (Column, bool) {
	switch Column(strings.ToLower(strings.TrimSpace(s))) {
	case ColumnDomain:
		return ColumnDomain, true
	case ColumnModel:
		return ColumnModel, true
	case ColumnAnswer:
		return ColumnAnswer, true
	case ColumnActor:
		return ColumnActor, true
	}
	return "", false
}

// Observation is one row of either source table.
type Observation struct {
	Domain     string  `json:"domain"`
	Model      string  `json:"model"`
	Answer     string  `json:"answer"`
	Actor      string  `json:"actor,omitempty"`
	Percentage float64 `json:"percentage"`
}

// Value returns the observation's value for a categorical column.
func (o Observation) Value(c Column) string {
	switch c {
	case ColumnDomain:
		return o.Domain
	case ColumnModel:
		return o.Model
	case ColumnAnswer:
		return o.Answer
	case ColumnActor:
		return o.Actor
	default:
		return ""
	}
}

// Table is a loaded, read-only dataset.
type Table struct {
	Name        Name
	Path        string
	Rows        []Observation
	Fingerprint uint64
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// requiredColumns lists the header names a dataset must provide.
func requiredColumns(n Name) []string {
	cols := []string{string(ColumnDomain), string(ColumnModel), string(ColumnAnswer), columnPercentage}
	if n == CountryLevel {
		cols = append(cols, string(ColumnActor))
	}
	return cols
}
