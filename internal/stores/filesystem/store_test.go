package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/example/cartoonlab/internal/stores/storetest"
)

func TestFilesystemStore(t *testing.T) {
	s, err := NewStore(filepath.Join(t.TempDir(), "cartoons"))
	if err != nil {
		t.Fatalf("NewStore() failed: %v", err)
	}
	storetest.Run(t, s)
}

func TestRejectsTraversal(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() failed: %v", err)
	}
	for _, id := range []string{"../escape", "..", "a/b", ""} {
		if _, err := s.Get(context.Background(), id); err == nil {
			t.Errorf("Get(%q) succeeded", id)
		}
	}
}

func TestListSkipsCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore() failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	list, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("List() returned corrupt entry")
	}
}
