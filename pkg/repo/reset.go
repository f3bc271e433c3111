package repo

import "go.uber.org/zap"

// Reset moves the current branch and head to the commit identified by
// commitID (full or abbreviated) and makes the working tree match it.
// Working files absent from the target tree are deleted and the stage is
// cleared. The untracked-file guard applies as for CheckoutBranch.
func (r *Repo) Reset(commitID string) error {
	return r.update("reset", func(st *State) error {
		h, err := r.ResolveCommit(commitID)
		if err != nil {
			return err
		}
		head, err := r.readCommit(st.Head)
		if err != nil {
			return err
		}
		target, err := r.readCommit(h)
		if err != nil {
			return err
		}

		if err := r.checkUntracked(st, head.Tree); err != nil {
			return err
		}

		// After the guard every working file is tracked or staged, so
		// deleting head and staged names covers the whole working tree.
		if err := r.applyTree(head.Tree, target.Tree, stagedNames(st.Stage)); err != nil {
			return err
		}

		from := st.Head
		st.advance(h)
		st.Stage.Clear()
		r.logger.Debug("reset",
			zap.String("branch", st.CurrentBranch),
			zap.String("from", string(from)),
			zap.String("to", string(h)),
		)
		return nil
	})
}

func stagedNames(s *Staging) []string {
	return append(s.AddedNames(), s.RemovedNames()...)
}
