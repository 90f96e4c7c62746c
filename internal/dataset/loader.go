// internal/dataset/loader.go
// Package dataset reads the benchmark result tables the dashboard visualizes.
package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/zeebo/xxh3"
)

// Loader resolves logical dataset names to files and parses them.
type Loader struct {
	// Paths overrides the file used for a dataset; missing entries fall back to Name.DefaultFile.
	Paths map[Name]string
}

// Path returns the file a dataset is read from.
func (l Loader) Path(name Name) string {
	if p := strings.TrimSpace(l.Paths[name]); p != "" {
		return p
	}
	return name.DefaultFile()
}

// Load reads and parses the named dataset. A missing or unreadable file yields an
// error wrapping ErrNotFound.
func (l Loader) Load(name Name) (*Table, error) {
	path := l.Path(name)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	}
	rows, err := Parse(name, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Table{
		Name:        name,
		Path:        path,
		Rows:        rows,
		Fingerprint: xxh3.Hash(data),
	}, nil
}

// Parse decodes a delimited table with a header row into observations.
func Parse(name Name, r io.Reader) ([]Observation, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", ErrMalformed)
		}
		return nil, fmt.Errorf("%w: header: %v", ErrMalformed, err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		key := strings.ToLower(strings.TrimSpace(h))
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}
	for _, col := range requiredColumns(name) {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrMalformed, col)
		}
	}
	actorIdx, hasActor := index[string(ColumnActor)]

	var rows []Observation
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		line, _ := reader.FieldPos(0)
		if isBlank(record) {
			continue
		}

		field := func(col string) string {
			i := index[col]
			if i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		raw := field(columnPercentage)
		pct, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: percentage %q is not a number", ErrMalformed, line, raw)
		}
		if math.IsNaN(pct) || math.IsInf(pct, 0) {
			return nil, fmt.Errorf("%w: line %d: percentage %q is not finite", ErrMalformed, line, raw)
		}
		obs := Observation{
			Domain:     field(string(ColumnDomain)),
			Model:      field(string(ColumnModel)),
			Answer:     field(string(ColumnAnswer)),
			Percentage: pct,
		}
		if hasActor && actorIdx < len(record) {
			obs.Actor = strings.TrimSpace(record[actorIdx])
		}
		rows = append(rows, obs)
	}
	return rows, nil
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
