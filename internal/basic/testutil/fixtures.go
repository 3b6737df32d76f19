package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TempDir creates a temp directory with files and registers cleanup with t.Cleanup.
// Returns the path to the created directory.
func TempDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()

	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			t.Fatalf("failed to create dir for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return dir
}

// SampleProgram is a small program exercising every statement form.
const SampleProgram = `REM computes nothing useful
LET A = 5
SUB DOUBLE(x)
  LET y = x * 2
END SUB
CALL DOUBLE(A)
IF A > 3 THEN
  PRINT "big", A
ELSE
  PRINT "small"
END IF
INPUT B
GOTO 10
`
