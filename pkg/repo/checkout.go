package repo

import (
	"fmt"
	"strings"

	"github.com/odvcencio/gitlet/pkg/object"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// CheckoutFile overwrites the working file name with its version in the
// commit identified by commitID (full or abbreviated). An empty commitID
// means head. The stage and branch table are not touched.
func (r *Repo) CheckoutFile(commitID, name string) error {
	if err := validateFilename(name); err != nil {
		return fmt.Errorf("checkout: %w", err)
	}

	var (
		c   *object.Commit
		err error
	)
	if commitID == "" {
		c, err = r.HeadCommit()
	} else {
		c, err = r.ReadCommit(commitID)
	}
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}

	h, ok := c.Tree[name]
	if !ok {
		return fmt.Errorf("checkout: %w", ErrFileNotInCommit)
	}
	blob, err := r.ReadBlob(h)
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	if err := r.Worktree.WriteFile(name, blob.Data); err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	r.logger.Debug("checked out file",
		zap.String("file", name),
		zap.String("commit", string(c.ID)),
	)
	return nil
}

// CheckoutBranch switches to branch name.
//
// Algorithm:
//  1. Reject an unknown branch or the current branch.
//  2. Refuse if any working file is untracked.
//  3. Write every file of the branch tip's tree.
//  4. Delete files tracked by the old head but absent from the new tree.
//  5. Switch the current branch and head, clear the stage.
func (r *Repo) CheckoutBranch(name string) error {
	return r.update("checkout", func(st *State) error {
		// 1. Resolve the branch.
		tip, ok := st.Branches[name]
		if !ok {
			return ErrNoSuchBranch
		}
		if name == st.CurrentBranch {
			return ErrNoOpCheckout
		}

		head, err := r.readCommit(st.Head)
		if err != nil {
			return err
		}
		target, err := r.readCommit(tip)
		if err != nil {
			return err
		}

		// 2. Untracked-file guard.
		if err := r.checkUntracked(st, head.Tree); err != nil {
			return err
		}

		// 3-4. Rewrite the working tree.
		if err := r.applyTree(head.Tree, target.Tree, nil); err != nil {
			return err
		}

		// 5. Switch.
		st.CurrentBranch = name
		st.Head = tip
		st.Stage.Clear()
		r.logger.Debug("switched branch",
			zap.String("branch", name),
			zap.String("head", string(tip)),
		)
		return nil
	})
}

// checkUntracked fails with ErrUntrackedFileConflict if any working file is
// neither staged nor tracked by headTree.
func (r *Repo) checkUntracked(st *State, headTree object.Tree) error {
	names, err := r.Worktree.List()
	if err != nil {
		return err
	}
	untracked := lo.Filter(names, func(name string, _ int) bool {
		_, tracked := headTree[name]
		return !tracked && !st.Stage.Has(name)
	})
	if len(untracked) > 0 {
		return fmt.Errorf("%w (%s)", ErrUntrackedFileConflict, strings.Join(untracked, ", "))
	}
	return nil
}

// applyTree makes the working tree match next: every file in next is
// written, and every file in prev or extra that next lacks is deleted. All
// blobs are read before the first file is touched.
func (r *Repo) applyTree(prev, next object.Tree, extra []string) error {
	contents := make(map[string][]byte, len(next))
	for _, name := range next.Names() {
		blob, err := r.ReadBlob(next[name])
		if err != nil {
			return err
		}
		contents[name] = blob.Data
	}

	for _, name := range next.Names() {
		if err := r.Worktree.WriteFile(name, contents[name]); err != nil {
			return err
		}
	}

	stale := lo.Uniq(append(prev.Names(), extra...))
	for _, name := range stale {
		if _, keep := next[name]; keep {
			continue
		}
		if err := r.Worktree.Remove(name); err != nil {
			return err
		}
	}
	return nil
}
