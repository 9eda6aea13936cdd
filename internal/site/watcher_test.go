package site

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// eventually polls cond until it returns true or the deadline passes.
func eventually(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return cond()
}

func TestRelevantFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"demos/foo/README.md", true},
		{"snippets/bar.py", true},
		{"demos/foo/diagram.png", false},
		{"demos/foo/.README.md.swp", false},
		{"demos/new-folder", true}, // directory events have no extension
		{"demos/.git", false},
	}
	for _, tc := range tests {
		if got := relevantFile(tc.path); got != tc.want {
			t.Errorf("relevantFile(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestWatch_SyncsOnFileChange(t *testing.T) {
	dir, syncer := testSyncer(t)
	demosRoot := filepath.Join(dir, "demos")
	if err := os.MkdirAll(filepath.Join(demosRoot, "live"), 0o755); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, syncer, []string{demosRoot}, syncer.logger, nil)
	}()

	// Give the watcher a moment to register its watches.
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(demosRoot, "live", "README.md"),
		[]byte("# Live Demo\n\nupdated while watching\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	output := filepath.Join(dir, "_demos", "live.md")
	if !eventually(t, 3*time.Second, func() bool {
		_, err := os.Stat(output)
		return err == nil
	}) {
		t.Fatal("output page never appeared")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Watch returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not stop after cancel")
	}
}

func TestWatch_PicksUpNewDirectory(t *testing.T) {
	dir, syncer := testSyncer(t)
	demosRoot := filepath.Join(dir, "demos")
	if err := os.MkdirAll(demosRoot, 0o755); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = Watch(ctx, syncer, []string{demosRoot}, syncer.logger, nil) }()

	time.Sleep(100 * time.Millisecond)

	// Create the folder first, then its README, exercising the runtime
	// watch registration for new directories.
	newDir := filepath.Join(demosRoot, "fresh")
	if err := os.MkdirAll(newDir, 0o755); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(newDir, "README.md"),
		[]byte("# Fresh\n\nbrand new\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	output := filepath.Join(dir, "_demos", "fresh.md")
	if !eventually(t, 3*time.Second, func() bool {
		_, err := os.Stat(output)
		return err == nil
	}) {
		t.Fatal("page for new directory never appeared")
	}
}

func TestWatch_MissingRootSkipped(t *testing.T) {
	dir, syncer := testSyncer(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, syncer, []string{filepath.Join(dir, "does-not-exist")}, syncer.logger, nil)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Watch returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not stop after cancel")
	}
}
