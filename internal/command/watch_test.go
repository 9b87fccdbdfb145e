package command

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestReloadableFilename(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"main.tern", true},
		{"dir/lib.tern", true},
		{".main.tern.swp", false},
		{".main.tern.swo", false},
		{"main.tern~", false},
		{"#main.tern#", false},
		{"dir/#main.tern#", false},
		{"main.swift", true},
	}
	for _, tt := range tests {
		if got := reloadableFilename(tt.path); got != tt.want {
			t.Errorf("reloadableFilename(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestWatchRecompilesChangedFiles(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"a.tern": "x = 1;"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, BuildOptions{Root: root, Logger: quietLogger()})
	}()
	defer func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Watch: %v", err)
		}
	}()

	out := filepath.Join(root, "sub", "b.tern.irj")
	src := filepath.Join(root, "sub", "b.tern")
	deadline := time.Now().Add(10 * time.Second)
	// The watcher may not be in place yet, so keep touching the source
	// until its unit shows up.
	for time.Now().Before(deadline) {
		writeFiles(t, root, map[string]string{"sub/b.tern": "y = x;"})
		time.Sleep(300 * time.Millisecond)
		if _, err := os.Stat(out); err == nil {
			u := readUnit(t, out)
			if got := len(u.Main.Code); got != 2 {
				t.Errorf("want 2 instructions, got %d", got)
			}
			return
		}
	}
	t.Fatalf("%s was never compiled to %s", src, out)
}
