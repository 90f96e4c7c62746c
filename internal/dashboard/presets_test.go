package dashboard

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mwiater/prefdash/internal/dataset"
)

func TestDefaultPresetsApply(t *testing.T) {
	presets := DefaultPresets()

	state, err := presets.Apply("US-Escalation")
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	want := NewState(PipelineActor).
		With(dataset.ColumnDomain, []string{"Escalation - Two Choice"}).
		With(dataset.ColumnActor, []string{"United States"})
	if diff := cmp.Diff(want, state); diff != "" {
		t.Fatalf("preset state mismatch (-want +got):\n%s", diff)
	}
	if _, ok := state.Chosen(dataset.ColumnModel); ok {
		t.Fatal("presets must leave the model stage unset")
	}

	if got := len(presets.For(PipelineDomain)) + len(presets.For(PipelineActor)); got != len(presets.List()) {
		t.Fatalf("For() split lost presets: %d of %d", got, len(presets.List()))
	}
}

func TestPresetLookupSuggestion(t *testing.T) {
	_, err := DefaultPresets().Lookup("escalaton-two")
	if !errors.Is(err, ErrUnknownPreset) {
		t.Fatalf("expected ErrUnknownPreset, got %v", err)
	}
	if !strings.Contains(err.Error(), `did you mean "escalation-two"`) {
		t.Fatalf("expected suggestion, got %v", err)
	}

	_, err = DefaultPresets().Lookup("zzzzzzzzzzzzzzzzzzzzzzzzzzzz")
	if !errors.Is(err, ErrUnknownPreset) || strings.Contains(err.Error(), "did you mean") {
		t.Fatalf("expected a plain unknown preset error, got %v", err)
	}
}

func TestNewPresetsValidation(t *testing.T) {
	tests := []struct {
		name  string
		items []Preset
		want  string
	}{
		{
			name:  "missing id",
			items: []Preset{{Pipeline: PipelineDomain, Domain: "Cooperation"}},
			want:  "id is required",
		},
		{
			name: "duplicate id",
			items: []Preset{
				{ID: "a", Pipeline: PipelineDomain, Domain: "Cooperation"},
				{ID: "A", Pipeline: PipelineDomain, Domain: "Cooperation"},
			},
			want: "duplicate id",
		},
		{
			name:  "unknown pipeline",
			items: []Preset{{ID: "a", Pipeline: "region", Domain: "Cooperation"}},
			want:  "unknown pipeline",
		},
		{
			name:  "actor on domain pipeline",
			items: []Preset{{ID: "a", Pipeline: PipelineDomain, Domain: "Cooperation", Actor: "China"}},
			want:  "has no actor filter",
		},
		{
			name:  "missing domain",
			items: []Preset{{ID: "a", Pipeline: PipelineActor}},
			want:  "domain is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPresets(tt.items)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadPresets(t *testing.T) {
	dir := t.TempDir()
	valid := filepath.Join(dir, "presets.json")
	content := `{"presets": [
		{"id": "uk-alliance", "label": "UK alliances", "pipeline": "actor", "domain": "Alliance Dynamics", "actor": "United Kingdom"},
		{"id": "coop", "pipeline": "domain", "domain": "Cooperation"}
	]}`
	if err := os.WriteFile(valid, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	presets, err := LoadPresets(valid)
	if err != nil {
		t.Fatalf("LoadPresets error: %v", err)
	}
	if diff := cmp.Diff([]string{"uk-alliance", "coop"}, presets.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
	coop, _ := presets.Lookup("coop")
	if coop.Title() != "coop" {
		t.Fatalf("Title fallback = %q", coop.Title())
	}

	invalid := []string{
		`{"presets": [{"id": "x", "pipeline": "region", "domain": "Cooperation"}]}`,
		`{"presets": [{"id": "x", "pipeline": "domain", "domain": "Cooperation", "colour": "red"}]}`,
		`{"items": []}`,
	}
	for i, doc := range invalid {
		if _, err := ParsePresets([]byte(doc)); err == nil || !strings.Contains(err.Error(), "presets validation failed") {
			t.Fatalf("document %d: expected schema failure, got %v", i, err)
		}
	}

	if _, err := LoadPresets(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatal("expected an error for a missing presets file")
	}
}

func TestLookupPipeline(t *testing.T) {
	tests := []struct {
		in   string
		want PipelineName
	}{
		{in: "domain", want: PipelineDomain},
		{in: " ACTOR ", want: PipelineActor},
		{in: "Country-Level", want: PipelineActor},
		{in: "domain-level", want: PipelineDomain},
	}
	for _, tt := range tests {
		p, err := LookupPipeline(tt.in)
		if err != nil {
			t.Fatalf("LookupPipeline(%q) error: %v", tt.in, err)
		}
		if p.Name != tt.want {
			t.Fatalf("LookupPipeline(%q) = %s, want %s", tt.in, p.Name, tt.want)
		}
	}

	actor, _ := LookupPipeline("actor")
	model, ok := actor.Stage(dataset.ColumnModel)
	if !ok || model.Limit != ActorModelLimit {
		t.Fatalf("actor model stage = %+v", model)
	}
}

func TestSelectionStateIsAValue(t *testing.T) {
	base := NewState(PipelineDomain).With(dataset.ColumnAnswer, []string{"A"})
	toggled := base.Toggle(dataset.ColumnAnswer, "B").Toggle(dataset.ColumnAnswer, "A")

	if got, _ := base.Chosen(dataset.ColumnAnswer); !cmp.Equal([]string{"A"}, got) {
		t.Fatalf("base state changed: %v", got)
	}
	if got, _ := toggled.Chosen(dataset.ColumnAnswer); !cmp.Equal([]string{"B"}, got) {
		t.Fatalf("toggled state = %v", got)
	}

	values := []string{"M1"}
	withModels := base.With(dataset.ColumnModel, values)
	values[0] = "changed"
	if got, _ := withModels.Chosen(dataset.ColumnModel); got[0] != "M1" {
		t.Fatal("With must copy its input")
	}
	if base.Without(dataset.ColumnAnswer).IsZero() != true {
		t.Fatal("Without should unset the only column")
	}
}
