// internal/util/util.go
package util

import (
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// WriteFile writes data to a file with 0o644 permissions, creating parent
// directories as needed.
func WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// TruncateRunes truncates a string to a maximum number of runes,
// appending an ellipsis if truncated.
func TruncateRunes(text string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	if utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxRunes]) + "…"
}

// PadRunes right-pads text with spaces to width runes. Longer text is returned unchanged.
func PadRunes(text string, width int) string {
	n := utf8.RuneCountInString(text)
	if n >= width {
		return text
	}
	return text + strings.Repeat(" ", width-n)
}

// JoinOr joins values with sep, returning fallback when there are none.
func JoinOr(values []string, sep, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	return strings.Join(values, sep)
}

// WrapToWidth wraps the given text to a specified width, breaking long words.
func WrapToWidth(text string, width int) string {
	if width <= 0 {
		return text
	}
	var out []string
	for _, line := range strings.Split(text, "\n") {
		words := strings.Fields(line)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		var cur strings.Builder
		runeCount := 0
		flush := func() {
			if runeCount > 0 {
				out = append(out, cur.String())
				cur.Reset()
				runeCount = 0
			}
		}
		for _, w := range words {
			wLen := utf8.RuneCountInString(w)
			if runeCount > 0 && runeCount+1+wLen <= width {
				cur.WriteByte(' ')
				cur.WriteString(w)
				runeCount += 1 + wLen
				continue
			}
			flush()
			if wLen <= width {
				cur.WriteString(w)
				runeCount = wLen
				continue
			}
			r := []rune(w)
			for len(r) > width {
				out = append(out, string(r[:width]))
				r = r[width:]
			}
			cur.WriteString(string(r))
			runeCount = len(r)
		}
		flush()
	}
	return strings.Join(out, "\n")
}
