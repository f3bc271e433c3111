package repo

import (
	"fmt"
	"sort"

	"github.com/odvcencio/gitlet/pkg/object"
)

// FileStatus describes how a working file differs from what will be
// committed.
type FileStatus int

const (
	StatusModified FileStatus = iota // working content differs from staged or tracked content
	StatusDeleted                    // staged or tracked, but missing from the working tree
)

func (s FileStatus) String() string {
	switch s {
	case StatusModified:
		return "modified"
	case StatusDeleted:
		return "deleted"
	default:
		return fmt.Sprintf("FileStatus(%d)", int(s))
	}
}

// StatusEntry records an unstaged modification of a single file.
type StatusEntry struct {
	Path   string
	Status FileStatus
}

// Status is a snapshot of the branch table, the stage and the working
// tree. Every list is sorted.
type Status struct {
	CurrentBranch string
	Branches      []string
	Staged        []string
	Removed       []string
	Modified      []StatusEntry // modifications not staged for commit
	Untracked     []string
}

// Status computes the repository status.
//
// Algorithm:
//  1. Read the head tree and the stage.
//  2. Hash every working file as the blob it would become.
//  3. A tracked file changed on disk and not staged, or a staged file whose
//     working copy differs from the staged blob, is modified.
//  4. A staged or tracked file missing from disk and not staged for
//     removal is deleted.
//  5. A working file neither staged for addition nor tracked is untracked.
func (r *Repo) Status() (*Status, error) {
	st := r.state
	head, err := r.readCommit(st.Head)
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}

	names, err := r.Worktree.List()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	work := make(map[string]object.Hash, len(names))
	for _, name := range names {
		data, err := r.Worktree.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("status: %w", err)
		}
		work[name] = object.NewBlob(name, data).ID
	}

	out := &Status{
		CurrentBranch: st.CurrentBranch,
		Branches:      st.branchNames(),
		Staged:        st.Stage.AddedNames(),
		Removed:       st.Stage.RemovedNames(),
	}

	for name, staged := range st.Stage.Added {
		switch cur, ok := work[name]; {
		case !ok:
			out.Modified = append(out.Modified, StatusEntry{Path: name, Status: StatusDeleted})
		case cur != staged:
			out.Modified = append(out.Modified, StatusEntry{Path: name, Status: StatusModified})
		}
	}
	for name, tracked := range head.Tree {
		if st.Stage.Has(name) {
			continue
		}
		switch cur, ok := work[name]; {
		case !ok:
			out.Modified = append(out.Modified, StatusEntry{Path: name, Status: StatusDeleted})
		case cur != tracked:
			out.Modified = append(out.Modified, StatusEntry{Path: name, Status: StatusModified})
		}
	}
	sort.Slice(out.Modified, func(i, j int) bool {
		return out.Modified[i].Path < out.Modified[j].Path
	})

	for _, name := range names {
		_, staged := st.Stage.Added[name]
		_, tracked := head.Tree[name]
		_, removed := st.Stage.Removed[name]
		if (!staged && !tracked) || removed {
			out.Untracked = append(out.Untracked, name)
		}
	}
	return out, nil
}
