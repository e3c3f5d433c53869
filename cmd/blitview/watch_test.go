package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gogpu/blit"
)

func TestWatchFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "picture.png")
	if err := os.WriteFile(path, []byte("v1"), 0o600); err != nil {
		t.Fatal(err)
	}

	w, err := watchFile(path, blit.Logger())
	if err != nil {
		t.Fatalf("watchFile() error = %v", err)
	}

	// Other files in the directory are ignored.
	if err := os.WriteFile(filepath.Join(dir, "other.png"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	select {
	case <-w.Changed():
		t.Error("change reported for another file")
	case <-time.After(200 * time.Millisecond):
	}

	if err := os.WriteFile(path, []byte("v2"), 0o600); err != nil {
		t.Fatal(err)
	}
	select {
	case <-w.Changed():
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported after write")
	}

	if err := w.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestWatchFileMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gone", "picture.png")
	if _, err := watchFile(path, blit.Logger()); err == nil {
		t.Error("watchFile() in a missing directory: want error")
	}
}
