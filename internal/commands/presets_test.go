// internal/commands/presets_test.go
package prefdash

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/mwiater/prefdash/internal/dashboard"
)

func init() {
	color.NoColor = true
}

func TestListPresets(t *testing.T) {
	var buf bytes.Buffer
	if err := listPresets(&buf, dashboard.DefaultPresets(), ""); err != nil {
		t.Fatalf("listPresets error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Domain-Level presets:", "Country-Level presets:", "escalation-two", "[Escalation - Two Choice / United States]"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := listPresets(&buf, dashboard.DefaultPresets(), "actor"); err != nil {
		t.Fatalf("listPresets error: %v", err)
	}
	if strings.Contains(buf.String(), "Domain-Level presets:") {
		t.Fatalf("expected only actor presets:\n%s", buf.String())
	}

	if err := listPresets(&buf, dashboard.DefaultPresets(), "region"); !errors.Is(err, dashboard.ErrUnknownPipeline) {
		t.Fatalf("expected ErrUnknownPipeline, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	cfg := testConfig(t)

	var buf bytes.Buffer
	if err := runValidate(context.Background(), &buf, cfg); err != nil {
		t.Fatalf("runValidate error: %v\n%s", err, buf.String())
	}
	out := buf.String()
	for _, want := range []string{"OK Domain-level", "3 rows", "OK Country-level", "4 rows", "WARN preset escalation-two"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}

	cfg.Datasets.CountryLevel = filepath.Join(t.TempDir(), "missing.csv")
	buf.Reset()
	if err := runValidate(context.Background(), &buf, cfg); !errors.Is(err, errValidation) {
		t.Fatalf("expected errValidation, got %v", err)
	}
	if !strings.Contains(buf.String(), "FAIL Country-level") {
		t.Fatalf("expected a failure line:\n%s", buf.String())
	}
}

func TestValidateBadPresetsFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.PresetsFile = filepath.Join(t.TempDir(), "presets.json")
	if err := os.WriteFile(cfg.PresetsFile, []byte(`{"presets": [{"id": "x"}]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := runValidate(context.Background(), &buf, cfg); !errors.Is(err, errValidation) {
		t.Fatalf("expected errValidation, got %v", err)
	}
	if !strings.Contains(buf.String(), "FAIL presets") {
		t.Fatalf("expected a presets failure line:\n%s", buf.String())
	}
}
