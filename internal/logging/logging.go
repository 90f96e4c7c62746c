package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

var (
	mu      sync.Mutex
	logFile *os.File
	debug   atomic.Bool
)

// Init routes the standard logger to stdout and, when logPath is set, to an
// append-only log file.
func Init(logPath string) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	var writers []io.Writer
	writers = append(writers, os.Stdout)

	if logPath != "" {
		if dir := filepath.Dir(logPath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		logFile = file
		writers = append(writers, logFile)
	}

	log.SetOutput(io.MultiWriter(writers...))
	return nil
}

func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return nil
	}
	log.SetOutput(os.Stderr)
	err := logFile.Close()
	logFile = nil
	return err
}

// Quiet stops console output and keeps writing to the log file, if any.
func Quiet() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		log.SetOutput(logFile)
		return
	}
	log.SetOutput(io.Discard)
}

// SetDebug toggles Debugf output.
func SetDebug(enabled bool) { debug.Store(enabled) }

// DebugEnabled reports whether Debugf writes anything.
func DebugEnabled() bool { return debug.Load() }

func LogEvent(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Println(msg)
}

func Debugf(format string, args ...any) {
	if !debug.Load() {
		return
	}
	log.Println("[DEBUG] " + fmt.Sprintf(format, args...))
}

// LogRender records one dashboard render pass.
func LogRender(pipeline, session, outcome string, fields map[string]any) {
	log.Println(buildRenderMessage(pipeline, session, outcome, fields))
}

func buildRenderMessage(pipeline, session, outcome string, fields map[string]any) string {
	parts := []string{"[RENDER]"}
	parts = append(parts, fmt.Sprintf("pipeline=%s", orUnknown(pipeline)))
	parts = append(parts, fmt.Sprintf("session=%s", orUnknown(session)))
	parts = append(parts, fmt.Sprintf("outcome=%s", strings.ToUpper(orUnknown(outcome))))

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, formatPayload(fields[k])))
	}
	return strings.Join(parts, " ")
}

func orUnknown(s string) string {
	if v := strings.TrimSpace(s); v != "" {
		return v
	}
	return "unknown"
}

func formatPayload(payload any) string {
	switch v := payload.(type) {
	case nil:
		return "null"
	case string:
		if strings.TrimSpace(v) == "" {
			return `""`
		}
		return v
	case []byte:
		if len(v) == 0 {
			return "[]"
		}
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}
