// internal/commands/root_test.go
package prefdash

import (
	"bytes"
	"strings"
	"testing"
)

// TestRootCmd verifies running the root command with an invalid subcommand reports an error.
func TestRootCmd(t *testing.T) {
	b := new(bytes.Buffer)
	rootCmd.SetOut(b)
	rootCmd.SetErr(b)

	rootCmd.SetArgs([]string{"nonexistent"})
	t.Cleanup(func() { rootCmd.SetArgs([]string{}) })
	_, err := rootCmd.ExecuteC()

	if err == nil {
		t.Error("Expected an error for a nonexistent command, but got none")
	}

	expected := "unknown command \"nonexistent\" for \"prefdash\""
	if !strings.Contains(b.String(), expected) {
		t.Errorf("Expected output to contain '%s', but got '%s'", expected, b.String())
	}
}

// TestListCommands verifies the command tree listing includes every subcommand.
func TestListCommands(t *testing.T) {
	var b bytes.Buffer
	ListCommands(&b, collectCommandData(rootCmd, "", ""))
	out := b.String()
	for _, want := range []string{"prefdash serve", "prefdash render", "prefdash browse", "prefdash presets", "prefdash validate", "prefdash show config"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in command list:\n%s", want, out)
		}
	}
}
