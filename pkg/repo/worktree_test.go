package repo

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDirWorktreeListsTopLevelFiles(t *testing.T) {
	dir := t.TempDir()
	w := NewDirWorktree(dir)
	for _, name := range []string{"b.txt", "a.txt"} {
		if err := w.WriteFile(name, []byte(name)); err != nil {
			t.Fatalf("WriteFile(%s): %v", name, err)
		}
	}
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(dir, controlDirName), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	names, err := w.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 2 || names[0] != "a.txt" || names[1] != "b.txt" {
		t.Errorf("List = %v, want [a.txt b.txt]", names)
	}
	if w.Exists("sub") {
		t.Error("Exists reported a directory")
	}
}

func TestDirWorktreeRemoveMissingIsNoop(t *testing.T) {
	w := NewDirWorktree(t.TempDir())
	if err := w.Remove("never-existed.txt"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := w.ReadFile("never-existed.txt"); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("ReadFile missing: err = %v, want ErrFileNotFound", err)
	}
}

func TestValidateFilename(t *testing.T) {
	for _, name := range []string{"a.txt", ".hidden", "with space", "ünïcode"} {
		if err := validateFilename(name); err != nil {
			t.Errorf("validateFilename(%q) = %v", name, err)
		}
	}
	for _, name := range []string{"", ".", "..", ".gitlet", "a/b", `a\b`, "a\x00b"} {
		if err := validateFilename(name); !errors.Is(err, ErrInvalidFilename) {
			t.Errorf("validateFilename(%q) = %v, want ErrInvalidFilename", name, err)
		}
	}
}
