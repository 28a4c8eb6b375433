package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/fanucmacro/foundation/core/error"
	mdwlog "github.com/msto63/fanucmacro/foundation/core/log"
	"github.com/msto63/fanucmacro/internal/session"
)

// writeTestConfig creates a config with a small register range and a
// snapshot database inside the test's temp directory
func writeTestConfig(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "macro.toml")
	content := `
[registers]
min = 1
max = 20

[log]
level = "error"

[storage]
enabled = true
path = "` + filepath.ToSlash(filepath.Join(dir, "macro.db")) + `"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path, dir
}

func resetFlags() {
	cfgFile = ""
	verbose = false
	outputFormat = "text"
	runSave = false
	runLabel = ""
	runRestore = ""
	runRegisters = true
	snapshotSession = ""
	snapshotLimit = 20
	configForce = false
}

func executeCommand(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags()

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

// decodeAll decodes consecutive JSON documents
func decodeAll(t *testing.T, output string, targets ...interface{}) {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(output))
	for i, target := range targets {
		if err := dec.Decode(target); err != nil {
			t.Fatalf("decoding document %d of %q: %v", i, output, err)
		}
	}
	if dec.More() {
		t.Fatalf("unexpected trailing output in %q", output)
	}
}

func writeProgram(t *testing.T, dir, name, source string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatalf("failed to write program: %v", err)
	}
	return path
}

func TestEvalCommand(t *testing.T) {
	cfg, _ := writeTestConfig(t)

	out, _, err := executeCommand(t, "", "eval", "--config", cfg, "-o", "json", "#1 = 5;", "#1 + 2 * 3")
	if err != nil {
		t.Fatalf("eval error = %v", err)
	}

	var results []resultView
	decodeAll(t, out, &results)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Kind != "assign" || results[0].Register == nil || *results[0].Register != 1 {
		t.Errorf("unexpected first result %+v", results[0])
	}
	if results[1].Kind != "value" || results[1].Value != 11.0 {
		t.Errorf("unexpected second result %+v", results[1])
	}
}

func TestEvalUnsetAndErrors(t *testing.T) {
	cfg, _ := writeTestConfig(t)

	out, _, err := executeCommand(t, "", "eval", "--config", cfg, "-o", "json", "#3")
	if err != nil {
		t.Fatalf("eval error = %v", err)
	}
	var results []resultView
	decodeAll(t, out, &results)
	if results[0].Value != nil {
		t.Errorf("unset register should encode as null, got %v", results[0].Value)
	}

	_, _, err = executeCommand(t, "", "eval", "--config", cfg, "#3 + 1")
	if mdwerror.GetCode(err) != mdwerror.CodeUnsetVariable {
		t.Errorf("expected UNSET_VARIABLE, got %v", err)
	}

	_, _, err = executeCommand(t, "", "eval", "--config", cfg, "#21 = 1")
	if code := mdwerror.GetCode(err); code != mdwerror.CodeRegisterOutOfRange || code.ExitCode() != 2 {
		t.Errorf("expected REGISTER_OUT_OF_RANGE with exit code 2, got %v", err)
	}

	_, _, err = executeCommand(t, "", "eval", "--config", cfg, "-o", "xml", "1")
	if !mdwerror.HasCode(err, mdwerror.CodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT for unknown output format, got %v", err)
	}
}

func TestRunSaveAndRestore(t *testing.T) {
	cfg, dir := writeTestConfig(t)
	first := writeProgram(t, dir, "first.nc", "// setup\n#1 = 2 + 3 * 4\n#2 = [#1 - 4] / 2\n#3 =\n")

	out, _, err := executeCommand(t, "", "run", "--config", cfg, "-o", "json", "--save", "--label", "setup", first)
	if err != nil {
		t.Fatalf("run error = %v", err)
	}
	var results []resultView
	var registers []registerView
	decodeAll(t, out, &results, &registers)
	if len(results) != 3 || results[2].Kind != "noop" {
		t.Errorf("unexpected results %+v", results)
	}
	if len(registers) != 2 || registers[0].Value != 14.0 || registers[1].Value != 5.0 {
		t.Errorf("unexpected registers %+v", registers)
	}

	out, _, err = executeCommand(t, "", "snapshot", "list", "--config", cfg, "-o", "json")
	if err != nil {
		t.Fatalf("snapshot list error = %v", err)
	}
	var list []snapshotView
	decodeAll(t, out, &list)
	if len(list) != 1 || list[0].Label != "setup" || len(list[0].Registers) != 2 {
		t.Fatalf("unexpected snapshot list %+v", list)
	}
	id := list[0].ID

	out, _, err = executeCommand(t, "", "snapshot", "show", "--config", cfg, "-o", "json", id)
	if err != nil {
		t.Fatalf("snapshot show error = %v", err)
	}
	var shown snapshotView
	decodeAll(t, out, &shown)
	if shown.ID != id || shown.Min != 1 || shown.Max != 20 {
		t.Errorf("unexpected snapshot %+v", shown)
	}

	second := writeProgram(t, dir, "second.nc", "#4 = #1 + #2")
	out, _, err = executeCommand(t, "", "run", "--config", cfg, "-o", "json", "--restore", id, second)
	if err != nil {
		t.Fatalf("run --restore error = %v", err)
	}
	results, registers = nil, nil
	decodeAll(t, out, &results, &registers)
	if len(registers) != 3 || registers[2].Register != 4 || registers[2].Value != 19.0 {
		t.Errorf("unexpected registers after restore %+v", registers)
	}

	if _, _, err := executeCommand(t, "", "snapshot", "delete", "--config", cfg, id); err != nil {
		t.Fatalf("snapshot delete error = %v", err)
	}
	_, _, err = executeCommand(t, "", "snapshot", "show", "--config", cfg, id)
	if !mdwerror.HasCode(err, mdwerror.CodeNotFound) {
		t.Errorf("expected NOT_FOUND after delete, got %v", err)
	}
}

func TestRunFromStdinReportsPartialResults(t *testing.T) {
	cfg, _ := writeTestConfig(t)

	out, _, err := executeCommand(t, "#1 = 1\n#2 = #1 / 0\n#3 = #9 + 1\n", "run", "--config", cfg, "-")
	if !mdwerror.HasCode(err, mdwerror.CodeUnsetVariable) {
		t.Fatalf("expected UNSET_VARIABLE, got %v", err)
	}
	if !strings.Contains(out, "#1") || !strings.Contains(out, "+Inf") {
		t.Errorf("expected completed statements in output, got %q", out)
	}
}

func TestRunMissingFile(t *testing.T) {
	cfg, dir := writeTestConfig(t)

	_, _, err := executeCommand(t, "", "run", "--config", cfg, filepath.Join(dir, "missing.nc"))
	if !mdwerror.HasCode(err, mdwerror.CodeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestCheckCommand(t *testing.T) {
	cfg, dir := writeTestConfig(t)

	ok := writeProgram(t, dir, "ok.nc", "#1 = #2 + #3\n#1 * 2")
	out, _, err := executeCommand(t, "", "check", "--config", cfg, "-o", "json", ok)
	if err != nil {
		t.Fatalf("check error = %v", err)
	}
	var report checkReport
	decodeAll(t, out, &report)
	if report.Statements != 2 || len(report.Referenced) != 3 || len(report.Assigned) != 1 || len(report.OutOfRange) != 0 {
		t.Errorf("unexpected report %+v", report)
	}

	wide := writeProgram(t, dir, "wide.nc", "#100 = 1")
	_, _, err = executeCommand(t, "", "check", "--config", cfg, wide)
	if !mdwerror.HasCode(err, mdwerror.CodeRegisterOutOfRange) {
		t.Errorf("expected REGISTER_OUT_OF_RANGE, got %v", err)
	}

	broken := writeProgram(t, dir, "broken.nc", "#1 = [2 +")
	_, _, err = executeCommand(t, "", "check", "--config", cfg, broken)
	if !mdwerror.HasCode(err, mdwerror.CodeMacroSyntax) {
		t.Errorf("expected MACRO_SYNTAX, got %v", err)
	}
}

func TestREPL(t *testing.T) {
	cfg, _ := writeTestConfig(t)

	input := "#1 = 4\n#1 ^ 0.5\n#5 + 1\n:vars\n:reset\n:vars\n:bogus\n:quit\n#2 = 1\n"
	out, stderr, err := executeCommand(t, input, "repl", "--config", cfg)
	if err != nil {
		t.Fatalf("repl error = %v", err)
	}

	if strings.Contains(out, "macro>") {
		t.Error("prompt printed for non-terminal input")
	}
	if !strings.Contains(out, "2\n") {
		t.Errorf("expected square root result in output %q", out)
	}
	if !strings.Contains(out, "no registers set") {
		t.Errorf("expected empty table after :reset in output %q", out)
	}
	if !strings.Contains(stderr, "unset") || !strings.Contains(stderr, "unknown command :bogus") {
		t.Errorf("expected errors on stderr, got %q", stderr)
	}
	if strings.Contains(out, "#2") {
		t.Errorf("statement after :quit was executed: %q", out)
	}
}

func TestREPLCommandErrors(t *testing.T) {
	sess, err := session.New(session.Options{Min: 1, Max: 10, Logger: mdwlog.Discard()})
	if err != nil {
		t.Fatalf("session.New() error = %v", err)
	}
	cmd := &cobra.Command{}
	cmd.SetOut(io.Discard)

	tests := []struct {
		name string
		line string
	}{
		{name: "unknown command", line: ":bogus"},
		{name: "load without id", line: ":load"},
		{name: "load with extra args", line: ":load a b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quit, err := replCommand(cmd, sess, tt.line)
			if quit {
				t.Error("error must not end the session")
			}
			if code := mdwerror.GetCode(err); code != mdwerror.CodeInvalidInput {
				t.Errorf("code = %s, want INVALID_INPUT (%v)", code, err)
			}
		})
	}
}

func TestReportError(t *testing.T) {
	cause := errors.New("disk full")
	err := mdwerror.Wrap(mdwerror.Wrap(cause, "save failed").WithCode(mdwerror.CodeDatabaseError), "run")

	var plain bytes.Buffer
	reportError(&plain, err, false)
	if got, want := plain.String(), "Error: run: save failed: disk full\n"; got != want {
		t.Errorf("plain report = %q, want %q", got, want)
	}

	var detailed bytes.Buffer
	reportError(&detailed, err, true)
	for _, want := range []string{"Code: DATABASE_ERROR (exit 4)", "Cause: disk full"} {
		if !strings.Contains(detailed.String(), want) {
			t.Errorf("detailed report %q missing %q", detailed.String(), want)
		}
	}
}

func TestConfigCommands(t *testing.T) {
	cfg, dir := writeTestConfig(t)

	out, _, err := executeCommand(t, "", "config", "show", "--config", cfg, "-o", "json")
	if err != nil {
		t.Fatalf("config show error = %v", err)
	}
	var shown struct {
		Registers struct {
			Min int `json:"min"`
			Max int `json:"max"`
		} `json:"registers"`
	}
	decodeAll(t, out, &shown)
	if shown.Registers.Max != 20 {
		t.Errorf("registers.max = %d, want 20", shown.Registers.Max)
	}

	target := filepath.Join(dir, "init", "macro.toml")
	if _, _, err := executeCommand(t, "", "config", "init", "--config", cfg, target); err != nil {
		t.Fatalf("config init error = %v", err)
	}
	if _, _, err := executeCommand(t, "", "config", "init", "--config", cfg, target); !mdwerror.HasCode(err, mdwerror.CodeValidationFailed) {
		t.Errorf("expected VALIDATION_FAILED for existing file, got %v", err)
	}
	if _, _, err := executeCommand(t, "", "config", "init", "--config", cfg, "--force", target); err != nil {
		t.Errorf("config init --force error = %v", err)
	}

	out, _, err = executeCommand(t, "", "version", "--config", cfg, "-o", "yaml")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.Contains(out, "version: ") {
		t.Errorf("unexpected version output %q", out)
	}
}

func TestIsTerminal(t *testing.T) {
	if isTerminal(strings.NewReader("")) {
		t.Error("strings.Reader reported as terminal")
	}
	var r io.Reader = &bytes.Buffer{}
	if isTerminal(r) {
		t.Error("bytes.Buffer reported as terminal")
	}
}
