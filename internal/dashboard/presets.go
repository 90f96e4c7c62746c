package dashboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mwiater/prefdash/internal/dataset"
	"github.com/xeipuuv/gojsonschema"
)

// ErrUnknownPreset is returned for preset identifiers that are not defined.
var ErrUnknownPreset = errors.New("unknown preset")

// Preset is a named shortcut that seeds a pipeline's domain and, optionally, actor.
type Preset struct {
	ID       string       `json:"id"`
	Label    string       `json:"label,omitempty"`
	Pipeline PipelineName `json:"pipeline"`
	Domain   string       `json:"domain"`
	Actor    string       `json:"actor,omitempty"`
}

// State returns a fresh selection seeded with the preset's values. Every other
// stage is left unset so it defaults to all options.
func (p Preset) State() SelectionState {
	s := NewState(p.Pipeline).With(dataset.ColumnDomain, []string{p.Domain})
	if p.Actor != "" {
		s = s.With(dataset.ColumnActor, []string{p.Actor})
	}
	return s
}

// Title is the label shown for the preset, falling back to its identifier.
func (p Preset) Title() string {
	if p.Label != "" {
		return p.Label
	}
	return p.ID
}

// Presets is an ordered, immutable preset table.
type Presets struct {
	items []Preset
	index map[string]int
}

var defaultPresets = []Preset{
	{ID: "escalation-two", Label: "Escalation (two choice)", Pipeline: PipelineDomain, Domain: "Escalation - Two Choice"},
	{ID: "escalation-three", Label: "Escalation (three choice)", Pipeline: PipelineDomain, Domain: "Escalation - Three Choice"},
	{ID: "intervention-two", Label: "Intervention (two choice)", Pipeline: PipelineDomain, Domain: "Intervention - Two Choice"},
	{ID: "intervention-three", Label: "Intervention (three choice)", Pipeline: PipelineDomain, Domain: "Intervention - Three Choice"},
	{ID: "cooperation", Label: "Cooperation", Pipeline: PipelineDomain, Domain: "Cooperation"},
	{ID: "alliance", Label: "Alliance Dynamics", Pipeline: PipelineDomain, Domain: "Alliance Dynamics"},
	{ID: "us-escalation", Label: "United States: escalation", Pipeline: PipelineActor, Domain: "Escalation - Two Choice", Actor: "United States"},
	{ID: "china-escalation", Label: "China: escalation", Pipeline: PipelineActor, Domain: "Escalation - Two Choice", Actor: "China"},
	{ID: "russia-intervention", Label: "Russia: intervention", Pipeline: PipelineActor, Domain: "Intervention - Two Choice", Actor: "Russia"},
}

// DefaultPresets returns the built-in preset table.
func DefaultPresets() *Presets {
	p, err := NewPresets(defaultPresets)
	if err != nil {
		panic(err)
	}
	return p
}

// NewPresets validates and indexes a preset table.
func NewPresets(items []Preset) (*Presets, error) {
	p := &Presets{
		items: make([]Preset, 0, len(items)),
		index: make(map[string]int, len(items)),
	}
	for i, item := range items {
		item.ID = strings.TrimSpace(item.ID)
		if item.ID == "" {
			return nil, fmt.Errorf("preset %d: id is required", i)
		}
		key := strings.ToLower(item.ID)
		if _, dup := p.index[key]; dup {
			return nil, fmt.Errorf("preset %q: duplicate id", item.ID)
		}
		pipeline, err := LookupPipeline(string(item.Pipeline))
		if err != nil {
			return nil, fmt.Errorf("preset %q: %w", item.ID, err)
		}
		item.Pipeline = pipeline.Name
		if strings.TrimSpace(item.Domain) == "" {
			return nil, fmt.Errorf("preset %q: domain is required", item.ID)
		}
		if item.Actor != "" {
			if _, ok := pipeline.Stage(dataset.ColumnActor); !ok {
				return nil, fmt.Errorf("preset %q: pipeline %s has no actor filter", item.ID, pipeline.Name)
			}
		}
		p.index[key] = len(p.items)
		p.items = append(p.items, item)
	}
	return p, nil
}

// List returns the presets in table order.
func (p *Presets) List() []Preset {
	out := make([]Preset, len(p.items))
	copy(out, p.items)
	return out
}

// For returns the presets that target a pipeline.
func (p *Presets) For(pipeline PipelineName) []Preset {
	var out []Preset
	for _, item := range p.items {
		if item.Pipeline == pipeline {
			out = append(out, item)
		}
	}
	return out
}

// IDs returns the preset identifiers in table order.
func (p *Presets) IDs() []string {
	ids := make([]string, 0, len(p.items))
	for _, item := range p.items {
		ids = append(ids, item.ID)
	}
	return ids
}

// Lookup finds a preset by identifier, ignoring case.
func (p *Presets) Lookup(id string) (Preset, error) {
	if i, ok := p.index[strings.ToLower(strings.TrimSpace(id))]; ok {
		return p.items[i], nil
	}
	return Preset{}, unknownName(ErrUnknownPreset, id, p.IDs())
}

// Apply returns the selection a preset seeds.
func (p *Presets) Apply(id string) (SelectionState, error) {
	preset, err := p.Lookup(id)
	if err != nil {
		return SelectionState{}, err
	}
	return preset.State(), nil
}

const presetsSchema = `{
  "type": "object",
  "required": ["presets"],
  "properties": {
    "presets": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "pipeline", "domain"],
        "additionalProperties": false,
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "label": {"type": "string"},
          "pipeline": {"type": "string", "enum": ["domain", "actor"]},
          "domain": {"type": "string", "minLength": 1},
          "actor": {"type": "string"}
        }
      }
    }
  }
}`

type presetsFile struct {
	Presets []Preset `json:"presets"`
}

// LoadPresets reads a JSON presets file of the form {"presets": [...]}.
func LoadPresets(path string) (*Presets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read presets %s: %w", path, err)
	}
	return ParsePresets(data)
}

// ParsePresets validates a presets document against its schema and builds the table.
func ParsePresets(data []byte) (*Presets, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(presetsSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("presets schema validation error: %w", err)
	}
	if !result.Valid() {
		var errs []string
		for _, desc := range result.Errors() {
			errs = append(errs, desc.String())
		}
		return nil, fmt.Errorf("presets validation failed: %s", strings.Join(errs, ", "))
	}

	var doc presetsFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode presets: %w", err)
	}
	return NewPresets(doc.Presets)
}
