package command

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

const passingSuite = "## Test: call\n" +
	"```tern\n" +
	"f();\n" +
	"```\n" +
	"```ast\n" +
	"(call f)\n" +
	"```\n"

const failingSuite = "## Test: wrong tree\n" +
	"```tern\n" +
	"g();\n" +
	"```\n" +
	"```ast\n" +
	"(call f)\n" +
	"```\n"

func TestCheck(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"pass.md": passingSuite, "fail.md": failingSuite})

	var buf bytes.Buffer
	if err := Check(&buf, []string{filepath.Join(root, "pass.md")}); err != nil {
		t.Fatalf("unexpected error %v\n%s", err, buf.String())
	}
	if got := buf.String(); got != "1 passed, 0 failed\n" {
		t.Errorf("unexpected output %q", got)
	}

	buf.Reset()
	err := Check(&buf, []string{filepath.Join(root, "pass.md"), filepath.Join(root, "fail.md")})
	if !errors.Is(err, ErrCheckFailed) {
		t.Fatalf("want ErrCheckFailed, got %v", err)
	}
	out := buf.String()
	for _, want := range []string{`fail.md: line 6: test "wrong tree": ast mismatch`, "(call g)", "1 passed, 1 failed\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}
}

func TestCheckInvalidSuite(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"bad.md": "## Test: empty\n```ast\n(call f)\n```\n"})

	var buf bytes.Buffer
	err := Check(&buf, []string{filepath.Join(root, "bad.md")})
	if err == nil || !strings.Contains(err.Error(), `test "empty" has no tern fence`) {
		t.Errorf("unexpected error %v", err)
	}
}
