package repo

import (
	"fmt"
	"sort"

	"github.com/odvcencio/gitlet/pkg/object"
	"go.uber.org/zap"
)

// Staging is the pending change set applied to the head tree by the next
// commit. A filename is never in both Added and Removed.
type Staging struct {
	Added   map[string]object.Hash `json:"added"`
	Removed map[string]object.Hash `json:"removed"`
}

// NewStaging returns an empty staging index.
func NewStaging() *Staging {
	return &Staging{
		Added:   make(map[string]object.Hash),
		Removed: make(map[string]object.Hash),
	}
}

func (s *Staging) normalize() {
	if s.Added == nil {
		s.Added = make(map[string]object.Hash)
	}
	if s.Removed == nil {
		s.Removed = make(map[string]object.Hash)
	}
}

// StageAdd stages blob for addition against headTree. When the blob is the
// version already committed in headTree, any pending addition is dropped
// instead. Returns true if the blob ended up staged.
func (s *Staging) StageAdd(blob *object.Blob, headTree object.Tree) bool {
	delete(s.Removed, blob.Filename)
	if headTree[blob.Filename] == blob.ID {
		delete(s.Added, blob.Filename)
		return false
	}
	s.Added[blob.Filename] = blob.ID
	return true
}

// StageRemove marks filename for removal, dropping any pending addition.
func (s *Staging) StageRemove(filename string, blob object.Hash) {
	delete(s.Added, filename)
	s.Removed[filename] = blob
}

// Unstage drops a pending addition.
func (s *Staging) Unstage(filename string) {
	delete(s.Added, filename)
}

// Unremove drops a pending removal.
func (s *Staging) Unremove(filename string) {
	delete(s.Removed, filename)
}

// IsEmpty reports whether nothing is staged.
func (s *Staging) IsEmpty() bool {
	return len(s.Added) == 0 && len(s.Removed) == 0
}

// Clear drops every pending change.
func (s *Staging) Clear() {
	s.Added = make(map[string]object.Hash)
	s.Removed = make(map[string]object.Hash)
}

// Has reports whether filename is staged for addition or removal.
func (s *Staging) Has(filename string) bool {
	_, added := s.Added[filename]
	_, removed := s.Removed[filename]
	return added || removed
}

// Clone returns an independent copy.
func (s *Staging) Clone() *Staging {
	out := NewStaging()
	for name, h := range s.Added {
		out.Added[name] = h
	}
	for name, h := range s.Removed {
		out.Removed[name] = h
	}
	return out
}

// AddedNames returns the filenames staged for addition, sorted.
func (s *Staging) AddedNames() []string {
	return sortedKeys(s.Added)
}

// RemovedNames returns the filenames staged for removal, sorted.
func (s *Staging) RemovedNames() []string {
	return sortedKeys(s.Removed)
}

// Apply returns tree with every staged addition and removal applied.
func (s *Staging) Apply(tree object.Tree) object.Tree {
	out := tree.Clone()
	for name, h := range s.Added {
		out[name] = h
	}
	for name := range s.Removed {
		delete(out, name)
	}
	return out
}

func sortedKeys(m map[string]object.Hash) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Add snapshots the working file name and stages it against the head tree.
// A file staged for removal is un-removed even when it no longer exists in
// the working tree.
func (r *Repo) Add(name string) error {
	if err := validateFilename(name); err != nil {
		return fmt.Errorf("add: %w", err)
	}
	return r.update("add", func(st *State) error {
		if _, removed := st.Stage.Removed[name]; removed && !r.Worktree.Exists(name) {
			st.Stage.Unremove(name)
			return nil
		}

		data, err := r.Worktree.ReadFile(name)
		if err != nil {
			return err
		}
		head, err := r.readCommit(st.Head)
		if err != nil {
			return err
		}

		blob := object.NewBlob(name, data)
		if !st.Stage.StageAdd(blob, head.Tree) {
			r.logger.Debug("add: unchanged from head", zap.String("file", name))
			return nil
		}
		// Blobs land in the store at add time; an aborted later step leaves
		// them as harmless orphans.
		if _, err := r.Store.PutBlob(blob); err != nil {
			return fmt.Errorf("write blob: %w", err)
		}
		r.logger.Debug("add: staged",
			zap.String("file", name),
			zap.String("blob", string(blob.ID)),
		)
		return nil
	})
}

// Remove unstages a pending addition of name. If name is tracked by the
// head commit it is also staged for removal and deleted from the working
// tree.
func (r *Repo) Remove(name string) error {
	if err := validateFilename(name); err != nil {
		return fmt.Errorf("rm: %w", err)
	}
	return r.update("rm", func(st *State) error {
		head, err := r.readCommit(st.Head)
		if err != nil {
			return err
		}

		_, staged := st.Stage.Added[name]
		tracked, isTracked := head.Tree[name]
		if !staged && !isTracked {
			return ErrNoReasonToRemove
		}

		st.Stage.Unstage(name)
		if isTracked {
			st.Stage.StageRemove(name, tracked)
			if err := r.Worktree.Remove(name); err != nil {
				return err
			}
		}
		r.logger.Debug("rm", zap.String("file", name), zap.Bool("tracked", isTracked))
		return nil
	})
}
