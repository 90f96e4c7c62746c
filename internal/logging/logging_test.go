package logging

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type testStringer string

func (s testStringer) String() string { return string(s) }

func TestInitAndLoggingToFile(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "nested", "prefdash.log")

	if err := Init(logPath); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	t.Cleanup(func() {
		_ = Close()
	})

	LogEvent("hello %s", "world")
	LogRender("domain", "abc", "ok", map[string]any{"rows": 3})
	_ = Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "hello world") {
		t.Fatalf("expected LogEvent content, got: %s", content)
	}
	if !strings.Contains(content, "[RENDER] pipeline=domain session=abc outcome=OK rows=3") {
		t.Fatalf("expected LogRender content, got: %s", content)
	}
}

func TestBuildRenderMessageDefaults(t *testing.T) {
	msg := buildRenderMessage(" ", "", "no data", map[string]any{
		"selected": []string{"A", "B"},
		"domain":   "Cooperation",
		"blank":    " ",
	})
	want := `[RENDER] pipeline=unknown session=unknown outcome=NO DATA blank="" domain=Cooperation selected=["A","B"]`
	if msg != want {
		t.Fatalf("unexpected message:\n got: %s\nwant: %s", msg, want)
	}
}

func TestFormatPayloadVariants(t *testing.T) {
	if got := formatPayload(nil); got != "null" {
		t.Fatalf("nil payload: %s", got)
	}
	if got := formatPayload(" "); got != `""` {
		t.Fatalf("empty string payload: %s", got)
	}
	if got := formatPayload([]byte("hi")); got != "hi" {
		t.Fatalf("byte payload: %s", got)
	}
	if got := formatPayload(testStringer("ok")); got != "ok" {
		t.Fatalf("stringer payload: %s", got)
	}
}

func TestDebugfGated(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		SetDebug(false)
	})

	SetDebug(false)
	Debugf("hidden %d", 1)
	if buf.Len() != 0 {
		t.Fatalf("expected no debug output, got: %s", buf.String())
	}
	SetDebug(true)
	Debugf("shown %d", 2)
	if !strings.Contains(buf.String(), "[DEBUG] shown 2") {
		t.Fatalf("expected debug output, got: %s", buf.String())
	}
}

func TestQuietKeepsFileOutput(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "quiet.log")
	if err := Init(logPath); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	t.Cleanup(func() { _ = Close() })

	Quiet()
	LogEvent("only in the file")
	_ = Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "only in the file") {
		t.Fatalf("expected quiet logging to reach the file, got: %s", data)
	}
}
