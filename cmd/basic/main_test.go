package main

import (
	"bytes"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/pacer/gobasic/internal/basic/testutil"
)

// workspace writes files next to a config logging to stderr and returns
// the directory along with the config flag pointing at it.
func workspace(t *testing.T, files map[string]string) (string, []string) {
	t.Helper()

	if _, ok := files[".gobasic.yml"]; !ok {
		files[".gobasic.yml"] = "log:\n  file: \"-\"\n  level: error\n"
	}

	dir := testutil.TempDir(t, files)

	return dir, []string{"-config", filepath.Join(dir, ".gobasic.yml")}
}

func execute(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)

	return code, stdout.String(), stderr.String()
}

func TestRun_Dispatch(t *testing.T) {
	code, stdout, _ := execute("version")
	if code != 0 || stdout != "basic dev\n" {
		t.Errorf("Expected version output, got %d %q", code, stdout)
	}

	code, _, stderr := execute("frobnicate")
	if code != 2 || !strings.Contains(stderr, `unknown command "frobnicate"`) {
		t.Errorf("Expected unknown command to fail with 2, got %d %q", code, stderr)
	}

	if code, _, _ := execute(); code != 2 {
		t.Errorf("Expected missing command to fail with 2, got %d", code)
	}

	if code, _, _ := execute("run"); code != 2 {
		t.Errorf("Expected 'run' without file to fail with 2, got %d", code)
	}
}

func TestCmdRun(t *testing.T) {
	tests := []struct {
		name   string
		source string
		config string
		code   int
		stdout string
		stderr string
	}{
		{
			name:   "value printed",
			source: "2 + 3 * 4\n",
			stdout: "14\n",
		},
		{
			name:   "empty program",
			source: "REM nothing\n",
		},
		{
			name:   "syntax error",
			source: "1 +\n",
			code:   1,
			stderr: "prog.bas:1:4: no prefix parse function for EOF found",
		},
		{
			name:   "runtime fault",
			source: "1\n  4 / 0\n",
			code:   1,
			stderr: "prog.bas:2:3: runtime error: division by zero: 4 / 0",
		},
		{
			name:   "warnings as errors",
			source: "LET A = 1\nLET A = 2\n",
			config: "log:\n  file: \"-\"\nparser:\n  warnings_as_errors: true\n",
			code:   1,
			stderr: "prog.bas:2:5: warning: 'A' already defined in this block",
		},
		{
			name:   "depth from config",
			source: "((1))\n",
			config: "log:\n  file: \"-\"\nparser:\n  max_depth: 1\n",
			code:   1,
			stderr: "reached the max depth authorized",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := map[string]string{"prog.bas": tt.source}
			if tt.config != "" {
				files[".gobasic.yml"] = tt.config
			}

			dir, flags := workspace(t, files)
			args := append([]string{"run"}, flags...)
			args = append(args, filepath.Join(dir, "prog.bas"))

			code, stdout, stderr := execute(args...)

			if code != tt.code {
				t.Errorf("Expected exit code %d, got %d (stderr %q)", tt.code, code, stderr)
			}

			if stdout != tt.stdout {
				t.Errorf("Expected stdout %q, got %q", tt.stdout, stdout)
			}

			if tt.stderr != "" && !strings.Contains(stderr, tt.stderr) {
				t.Errorf("Expected stderr to contain %q, got %q", tt.stderr, stderr)
			}
		})
	}
}

func TestCmdRun_InvalidConfig(t *testing.T) {
	dir, flags := workspace(t, map[string]string{
		"prog.bas":     "1\n",
		".gobasic.yml": "log:\n  level: loud\n",
	})

	args := append([]string{"run"}, flags...)
	code, _, stderr := execute(append(args, filepath.Join(dir, "prog.bas"))...)

	if code != 2 || !strings.Contains(stderr, "log.level") {
		t.Errorf("Expected config validation failure, got %d %q", code, stderr)
	}
}

func TestCmdTokens(t *testing.T) {
	dir, flags := workspace(t, map[string]string{"prog.bas": "LET A = 5\n"})

	args := append([]string{"tokens"}, flags...)
	code, stdout, stderr := execute(append(args, filepath.Join(dir, "prog.bas"))...)
	if code != 0 {
		t.Fatalf("Expected success, got %d %q", code, stderr)
	}

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	want := []string{
		`{"type":"LET","literal":"LET"}`,
		`{"type":"IDENT","literal":"A"}`,
		`{"type":"=","literal":"="}`,
		`{"type":"INT","literal":"5"}`,
		`{"type":"EOF","literal":""}`,
	}

	if !slices.Equal(lines, want) {
		t.Errorf("Unexpected token stream:\n got %q\nwant %q", lines, want)
	}
}

func TestCmdParse(t *testing.T) {
	dir, flags := workspace(t, map[string]string{
		"good.bas": "LET A = 1 + 2 * 3\n",
		"bad.bas":  "LET = 1\n",
	})

	args := append([]string{"parse"}, flags...)

	code, stdout, _ := execute(append(args, filepath.Join(dir, "good.bas"))...)
	if code != 0 || stdout != "LET A = (1 + (2 * 3))\n" {
		t.Errorf("Expected canonical form, got %d %q", code, stdout)
	}

	code, _, stderr := execute(append(args, filepath.Join(dir, "bad.bas"))...)
	if code != 1 || !strings.Contains(stderr, "expected next token to be IDENT, got =") {
		t.Errorf("Expected diagnostic, got %d %q", code, stderr)
	}
}

func TestCmdCheck(t *testing.T) {
	dir, flags := workspace(t, map[string]string{
		"good.bas":        "1 + 2\n",
		"lib/bad.basic":   "LET = 1\n",
		"lib/open.basic":  "IF A THEN\n  1\n",
		"notes.txt":       "ignored",
		"lib/also.bas":    testutil.SampleProgram,
		"lib/warning.bas": "LET B = 1\nLET B = 2\n",
	})

	args := append([]string{"check"}, flags...)
	code, stdout, stderr := execute(append(args, dir)...)

	if code != 1 {
		t.Errorf("Expected exit code 1, got %d", code)
	}

	if stdout != "checked 5 files, 1 failed\n" {
		t.Errorf("Unexpected summary %q", stdout)
	}

	if !strings.Contains(stderr, "bad.basic:1:5: expected next token to be IDENT, got =") {
		t.Errorf("Expected diagnostic for bad.basic, got %q", stderr)
	}

	if !strings.Contains(stderr, "open.basic:1:1: warning: missing matching 'END IF'") {
		t.Errorf("Expected warning for open.basic, got %q", stderr)
	}

	if !strings.Contains(stderr, "warning.bas:2:5: warning:") {
		t.Errorf("Expected warning for warning.bas, got %q", stderr)
	}

	code, stdout, _ = execute(append(args, filepath.Join(dir, "good.bas"))...)
	if code != 0 || stdout != "checked 1 files, 0 failed\n" {
		t.Errorf("Expected single file check to pass, got %d %q", code, stdout)
	}

	code, _, _ = execute(append(args, filepath.Join(dir, "missing"))...)
	if code != 1 {
		t.Errorf("Expected missing path to fail, got %d", code)
	}
}

func TestReplSession(t *testing.T) {
	tests := []struct {
		input  string
		exit   bool
		stdout string
		stderr string
	}{
		{input: "2 * 21", stdout: "42\n"},
		{input: "IF 1 > 2 THEN 1\n", stdout: "NULL\n"},
		{input: "IF TRUE THEN\n  7\nEND IF", stdout: "7\n"},
		{input: "1 +", stderr: "<repl>:1:4: no prefix parse function for EOF found"},
		{input: "-TRUE", stderr: "<repl>:1:1: runtime error: invalid negation: -BOOLEAN"},
		{input: ":tokens LET", stdout: `{"type":"LET","literal":"LET"}`},
		{input: ":ast 1 + 2 * 3", stdout: "(1 + (2 * 3))\n"},
		{input: ":help", stdout: ":quit"},
		{input: ":bogus", stderr: "unknown command :bogus"},
		{input: ":quit", exit: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			session := &replSession{out: &stdout, errOut: &stderr}

			if exit := session.handle(tt.input); exit != tt.exit {
				t.Errorf("Expected exit=%v, got %v", tt.exit, exit)
			}

			if tt.stdout != "" && !strings.Contains(stdout.String(), tt.stdout) {
				t.Errorf("Expected stdout to contain %q, got %q", tt.stdout, stdout.String())
			}

			if tt.stderr != "" && !strings.Contains(stderr.String(), tt.stderr) {
				t.Errorf("Expected stderr to contain %q, got %q", tt.stderr, stderr.String())
			}
		})
	}
}

type scriptedPrompter struct {
	lines   []string
	prompts []string
}

func (s *scriptedPrompter) Prompt(prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)

	if len(s.lines) == 0 {
		return "", io.EOF
	}

	line := s.lines[0]
	s.lines = s.lines[1:]

	return line, nil
}

func TestReadByParseProbe(t *testing.T) {
	p := &scriptedPrompter{lines: []string{"IF TRUE THEN", "  1", "END IF", "1 + 1"}}

	code, ok := readByParseProbe(p, "] ", promptCont)
	if !ok || code != "IF TRUE THEN\n  1\nEND IF" {
		t.Errorf("Expected the whole block, got %v %q", ok, code)
	}

	if !slices.Equal(p.prompts, []string{"] ", promptCont, promptCont}) {
		t.Errorf("Unexpected prompts %q", p.prompts)
	}

	code, ok = readByParseProbe(p, "] ", promptCont)
	if !ok || code != "1 + 1" {
		t.Errorf("Expected a single line, got %v %q", ok, code)
	}

	if _, ok := readByParseProbe(p, "] ", promptCont); ok {
		t.Error("Expected end of input to stop the loop")
	}
}
