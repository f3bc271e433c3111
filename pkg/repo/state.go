package repo

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/odvcencio/gitlet/pkg/object"
)

// State is the persisted repository record: head pointer, current branch,
// branch table, abbreviated-id index and the staging index. Exactly one
// branch, CurrentBranch, points at Head.
type State struct {
	Head          object.Hash              `json:"head"`
	CurrentBranch string                   `json:"current_branch"`
	Branches      map[string]object.Hash   `json:"branches"`
	Abbrev        map[string][]object.Hash `json:"abbrev"`
	AbbrevLength  int                      `json:"abbrev_length"`
	Stage         *Staging                 `json:"stage"`
}

func newState(root object.Hash, branch string, abbrevLen int) *State {
	st := &State{
		Head:          root,
		CurrentBranch: branch,
		Branches:      map[string]object.Hash{branch: root},
		Abbrev:        make(map[string][]object.Hash),
		AbbrevLength:  abbrevLen,
		Stage:         NewStaging(),
	}
	st.indexCommit(root, abbrevLen)
	return st
}

func statePath(controlDir string) string {
	return filepath.Join(controlDir, "state")
}

// readState loads <control>/state.
func readState(controlDir string) (*State, error) {
	data, err := os.ReadFile(statePath(controlDir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read state: %w", ErrNotInitialized)
		}
		return nil, fmt.Errorf("read state: %w", err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("read state: unmarshal: %w", err)
	}
	if st.Branches == nil {
		st.Branches = make(map[string]object.Hash)
	}
	if st.Abbrev == nil {
		st.Abbrev = make(map[string][]object.Hash)
	}
	if st.Stage == nil {
		st.Stage = NewStaging()
	}
	st.Stage.normalize()
	if err := st.check(); err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}
	return &st, nil
}

// writeState atomically writes <control>/state.
func writeState(controlDir string, st *State) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("write state: marshal: %w", err)
	}

	// Atomic write via temp file + rename.
	tmp, err := os.CreateTemp(controlDir, ".state-tmp-*")
	if err != nil {
		return fmt.Errorf("write state: tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write state: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write state: close: %w", err)
	}

	if err := os.Rename(tmpName, statePath(controlDir)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write state: rename: %w", err)
	}
	return nil
}

// check verifies the head/branch invariant.
func (st *State) check() error {
	if st.Head == "" || st.CurrentBranch == "" {
		return fmt.Errorf("state is missing head or current branch")
	}
	if tip, ok := st.Branches[st.CurrentBranch]; !ok || tip != st.Head {
		return fmt.Errorf("current branch %q does not point at head %s", st.CurrentBranch, st.Head)
	}
	return nil
}

func (st *State) clone() *State {
	out := &State{
		Head:          st.Head,
		CurrentBranch: st.CurrentBranch,
		Branches:      make(map[string]object.Hash, len(st.Branches)),
		Abbrev:        make(map[string][]object.Hash, len(st.Abbrev)),
		AbbrevLength:  st.AbbrevLength,
		Stage:         st.Stage.Clone(),
	}
	for name, h := range st.Branches {
		out.Branches[name] = h
	}
	for key, ids := range st.Abbrev {
		out.Abbrev[key] = append([]object.Hash(nil), ids...)
	}
	return out
}

// advance moves head and the current branch to h.
func (st *State) advance(h object.Hash) {
	st.Head = h
	st.Branches[st.CurrentBranch] = h
}

// indexCommit records h in the abbreviated-id index, keyed by its first
// abbrevLen characters.
func (st *State) indexCommit(h object.Hash, abbrevLen int) {
	key := h.Short(abbrevLen)
	for _, existing := range st.Abbrev[key] {
		if existing == h {
			return
		}
	}
	st.Abbrev[key] = append(st.Abbrev[key], h)
}

// reindex re-keys the abbreviated-id index by the first abbrevLen
// characters of each commit. Keys written under another length would
// otherwise never match a lookup.
func (st *State) reindex(abbrevLen int) {
	old := st.Abbrev
	st.Abbrev = make(map[string][]object.Hash, len(old))
	st.AbbrevLength = abbrevLen
	for _, key := range sortedIndexKeys(old) {
		for _, h := range old[key] {
			st.indexCommit(h, abbrevLen)
		}
	}
}

func sortedIndexKeys(m map[string][]object.Hash) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// abbrevCandidates returns the indexed commits that could start with
// prefix.
func (st *State) abbrevCandidates(prefix string, abbrevLen int) []object.Hash {
	if len(prefix) >= abbrevLen {
		return st.Abbrev[prefix[:abbrevLen]]
	}
	var out []object.Hash
	for key, ids := range st.Abbrev {
		if strings.HasPrefix(key, prefix) {
			out = append(out, ids...)
		}
	}
	return out
}

// branchNames returns the branch names in sorted order.
func (st *State) branchNames() []string {
	names := make([]string, 0, len(st.Branches))
	for name := range st.Branches {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
