package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Worktree is the flat set of plain files the repository tracks. Names are
// bare filenames relative to the working directory root.
type Worktree interface {
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte) error
	Remove(name string) error
	Exists(name string) bool
	List() ([]string, error)
}

// DirWorktree is a Worktree backed by a directory on disk. Subdirectories
// and the control directory are ignored.
type DirWorktree struct {
	Root string
}

// NewDirWorktree returns a worktree rooted at root.
func NewDirWorktree(root string) *DirWorktree {
	return &DirWorktree{Root: root}
}

func (w *DirWorktree) path(name string) string {
	return filepath.Join(w.Root, name)
}

func (w *DirWorktree) ReadFile(name string) ([]byte, error) {
	if err := validateFilename(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(w.path(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

func (w *DirWorktree) WriteFile(name string, data []byte) error {
	if err := validateFilename(name); err != nil {
		return err
	}
	if err := os.WriteFile(w.path(name), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// Remove deletes name. A missing file is not an error.
func (w *DirWorktree) Remove(name string) error {
	if err := validateFilename(name); err != nil {
		return err
	}
	if err := os.Remove(w.path(name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}

func (w *DirWorktree) Exists(name string) bool {
	if validateFilename(name) != nil {
		return false
	}
	info, err := os.Stat(w.path(name))
	return err == nil && info.Mode().IsRegular()
}

// List returns the sorted names of the regular files directly under Root.
func (w *DirWorktree) List() ([]string, error) {
	entries, err := os.ReadDir(w.Root)
	if err != nil {
		return nil, fmt.Errorf("list worktree: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() || e.Name() == controlDirName {
			continue
		}
		if validateFilename(e.Name()) != nil {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// validateFilename rejects names that would escape the flat worktree.
func validateFilename(name string) error {
	switch {
	case name == "", name == ".", name == "..", name == controlDirName:
		return ErrInvalidFilename
	case strings.ContainsAny(name, "/\\\n\r\x00"):
		return ErrInvalidFilename
	}
	return nil
}
