package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherInvokesHandlerOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "contexts.xml")
	if err := os.WriteFile(path, []byte("<root></root>"), 0o600); err != nil {
		t.Fatalf("write document: %v", err)
	}

	changed := make(chan string, 1)
	watcher, err := New(path, func(p string) {
		select {
		case changed <- p:
		default:
		}
	})
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- watcher.Run(ctx) }()

	// Give the watcher a moment to arm before the write.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte(`<root><context title="T" identifierPath="t"/></root>`), 0o600); err != nil {
		t.Fatalf("rewrite document: %v", err)
	}

	select {
	case got := <-changed:
		if filepath.Clean(got) != filepath.Clean(path) {
			t.Fatalf("unexpected path: %q", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change notification")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watcher shutdown")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "contexts.xml")
	if err := os.WriteFile(path, []byte("<root></root>"), 0o600); err != nil {
		t.Fatalf("write document: %v", err)
	}

	changed := make(chan string, 1)
	watcher, err := New(path, func(p string) { changed <- p })
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = watcher.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o600); err != nil {
		t.Fatalf("write other file: %v", err)
	}

	select {
	case got := <-changed:
		t.Fatalf("unexpected notification for %q", got)
	case <-time.After(time.Second):
	}
}
