package site

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDirSinkWriteAndModTime(t *testing.T) {
	sink, err := NewDirSink(t.TempDir())
	if err != nil {
		t.Fatalf("sink: %v", err)
	}

	if _, exists, err := sink.ModTime("repo/index.html"); err != nil || exists {
		t.Fatalf("missing page should stat clean: exists=%v err=%v", exists, err)
	}

	if err := sink.Write("repo/index.html", []byte("<html></html>")); err != nil {
		t.Fatalf("write: %v", err)
	}

	mt, exists, err := sink.ModTime("repo/index.html")
	if err != nil || !exists || mt.IsZero() {
		t.Fatalf("written page should exist: exists=%v mt=%v err=%v", exists, mt, err)
	}

	data, err := os.ReadFile(filepath.Join(sink.Root, "repo", "index.html"))
	if err != nil || string(data) != "<html></html>" {
		t.Fatalf("unexpected content %q (%v)", data, err)
	}

	// No temp droppings left behind.
	entries, err := os.ReadDir(filepath.Join(sink.Root, "repo"))
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the page, got %v", entries)
	}
}

func TestDirSinkOverwrite(t *testing.T) {
	sink, err := NewDirSink(t.TempDir())
	if err != nil {
		t.Fatalf("sink: %v", err)
	}

	if err := sink.Write("page.html", []byte("old")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := sink.Write("page.html", []byte("new")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(sink.Root, "page.html"))
	if err != nil || string(data) != "new" {
		t.Fatalf("unexpected content %q (%v)", data, err)
	}
}
