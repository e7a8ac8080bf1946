// Package main provides tests for the leapdgml CLI.
package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/leapdgml/internal/cli"
	"github.com/leapstack-labs/leapdgml/internal/cli/config"
	"github.com/leapstack-labs/leapdgml/internal/cli/output"
)

func testdataDir(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	return filepath.Join(wd, "..", "..", "testdata")
}

func view(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(testdataDir(t), "views", name)
}

// execute runs the root command and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Cleanup(config.ResetConfig)

	cmd := cli.NewRootCmd()
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version")
	if err != nil {
		t.Errorf("version command error = %v", err)
	}
	if !strings.Contains(out, "leapdgml v") {
		t.Errorf("version output should contain 'leapdgml v', got: %s", out)
	}
}

func TestHelpCommand(t *testing.T) {
	out, _, err := execute(t, "--help")
	if err != nil {
		t.Errorf("help command error = %v", err)
	}

	expectedCommands := []string{"convert", "inspect", "dag", "watch", "serve", "history", "init"}
	for _, expected := range expectedCommands {
		if !strings.Contains(out, expected) {
			t.Errorf("help output should contain '%s', got: %s", expected, out)
		}
	}
}

func TestConvertCommand(t *testing.T) {
	tmpDir := t.TempDir()

	out, _, err := execute(t,
		"convert", view(t, "SamuraiContext.txt"),
		"--output-dir", tmpDir,
		"--state", filepath.Join(tmpDir, "state.db"),
		"--output", "json",
	)
	if err != nil {
		t.Fatalf("convert command error = %v", err)
	}

	var got output.ConvertOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("convert output is not JSON: %v\n%s", err, out)
	}
	if got.Converted != 1 || got.Failed != 0 {
		t.Fatalf("converted=%d failed=%d, want 1 and 0", got.Converted, got.Failed)
	}

	res := got.Results[0]
	if res.Context != "SamuraiContext" {
		t.Errorf("Context = %q, want SamuraiContext", res.Context)
	}
	if res.Entities != 4 {
		t.Errorf("Entities = %d, want 4", res.Entities)
	}
	if res.RunID == "" {
		t.Error("RunID should be set when history is enabled")
	}

	doc, err := os.ReadFile(filepath.Join(tmpDir, "SamuraiContext.dgml"))
	if err != nil {
		t.Fatalf("document not written: %v", err)
	}
	if !strings.Contains(string(doc), `GraphDirection="TopToBottom"`) {
		t.Errorf("document should use the frontmatter direction, got: %s", doc)
	}
}

func TestConvertCommandStdout(t *testing.T) {
	out, _, err := execute(t,
		"dgml", view(t, "BlogContext.txt"),
		"--out", "-",
		"--no-history",
		"--context", "BloggingContext",
	)
	if err != nil {
		t.Fatalf("convert --out - error = %v", err)
	}

	if !strings.HasPrefix(out, "<?xml") {
		t.Errorf("stdout should hold only the document, got: %s", out)
	}
	if !strings.Contains(out, `Label="BloggingContext"`) {
		t.Errorf("document should carry the --context label, got: %s", out)
	}
}

func TestConvertCommandFailure(t *testing.T) {
	tmpDir := t.TempDir()

	_, _, err := execute(t,
		"convert", view(t, "BlogContext.txt"), view(t, "Failed.txt"),
		"--output-dir", tmpDir,
		"--no-history",
	)
	if err == nil {
		t.Fatal("convert should fail when a source fails")
	}
	if !strings.Contains(err.Error(), "1 of 2 conversions failed") {
		t.Errorf("unexpected error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(tmpDir, "BlogContext.dgml")); err != nil {
		t.Errorf("successful source should still be written: %v", err)
	}
}

func TestHistoryCommand(t *testing.T) {
	tmpDir := t.TempDir()
	state := filepath.Join(tmpDir, "state.db")

	if _, _, err := execute(t, "convert", view(t, "BlogContext.txt"), "--output-dir", tmpDir, "--state", state); err != nil {
		t.Fatalf("convert command error = %v", err)
	}

	out, _, err := execute(t, "history", "--state", state, "-o", "json")
	if err != nil {
		t.Fatalf("history command error = %v", err)
	}

	var got output.HistoryOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("history output is not JSON: %v\n%s", err, out)
	}
	if len(got.Conversions) != 1 {
		t.Fatalf("len(Conversions) = %d, want 1", len(got.Conversions))
	}
	if got.Conversions[0].Status != "success" {
		t.Errorf("Status = %q, want success", got.Conversions[0].Status)
	}
}

func TestHistoryCommandDisabled(t *testing.T) {
	_, _, err := execute(t, "history", "--no-history")
	if err == nil {
		t.Error("history should fail when history is disabled")
	}
}

func TestInspectCommand(t *testing.T) {
	tmpDir := t.TempDir()
	state := filepath.Join(tmpDir, "state.db")

	out, _, err := execute(t, "inspect", view(t, "SamuraiContext.txt"), "--state", state, "-o", "json")
	if err != nil {
		t.Fatalf("inspect command error = %v", err)
	}

	var got output.InspectOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("inspect output is not JSON: %v\n%s", err, out)
	}
	if got.ProductVersion != "8.0.0" {
		t.Errorf("ProductVersion = %q, want 8.0.0", got.ProductVersion)
	}
	if len(got.Entities) != 4 {
		t.Errorf("len(Entities) = %d, want 4", len(got.Entities))
	}

	if _, err := os.Stat(state); !os.IsNotExist(err) {
		t.Error("inspect should not record history")
	}
}

func TestDAGCommand(t *testing.T) {
	out, _, err := execute(t, "dag", view(t, "SamuraiContext.txt"), "-o", "json")
	if err != nil {
		t.Fatalf("dag command error = %v", err)
	}

	var got output.DAGOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("dag output is not JSON: %v\n%s", err, out)
	}
	if got.TotalEntities != 4 || got.TotalRelations != 2 {
		t.Errorf("entities=%d relations=%d, want 4 and 2", got.TotalEntities, got.TotalRelations)
	}
}

func TestInvalidConfigFlag(t *testing.T) {
	_, _, err := execute(t, "inspect", view(t, "BlogContext.txt"), "--direction", "Sideways")
	if err == nil {
		t.Error("invalid --direction should fail")
	}
}

func TestCompletionCommand(t *testing.T) {
	shells := []string{"bash", "zsh", "fish", "powershell"}

	for _, shell := range shells {
		t.Run(shell, func(t *testing.T) {
			if _, _, err := execute(t, "completion", shell); err != nil {
				t.Errorf("completion %s command error = %v", shell, err)
			}
		})
	}
}

func TestUnknownCommand(t *testing.T) {
	_, _, err := execute(t, "unknown-command")
	if err == nil {
		t.Error("unknown command should return an error")
	}
}

func TestMain(m *testing.M) {
	os.Exit(m.Run())
}
