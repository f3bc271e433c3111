package repo

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/odvcencio/gitlet/pkg/object"
	"go.uber.org/zap"
)

// CreateBranch creates a branch named name pointing at head. It does not
// switch to it. Returns ErrBranchExists if the name is taken.
func (r *Repo) CreateBranch(name string) error {
	if err := validateBranchName(name); err != nil {
		return fmt.Errorf("branch: %w", err)
	}
	return r.update("branch", func(st *State) error {
		if _, exists := st.Branches[name]; exists {
			return ErrBranchExists
		}
		st.Branches[name] = st.Head
		r.logger.Debug("created branch", zap.String("branch", name), zap.String("at", string(st.Head)))
		return nil
	})
}

// DeleteBranch removes the branch pointer name. Commits it pointed at are
// kept. Returns an error if the branch is the current branch or does not
// exist.
func (r *Repo) DeleteBranch(name string) error {
	return r.update("rm-branch", func(st *State) error {
		if _, exists := st.Branches[name]; !exists {
			return ErrRemoveMissingBranch
		}
		if name == st.CurrentBranch {
			return ErrRemoveCurrentBranch
		}
		delete(st.Branches, name)
		r.logger.Debug("deleted branch", zap.String("branch", name))
		return nil
	})
}

// ListBranches returns the branch names sorted alphabetically.
func (r *Repo) ListBranches() []string {
	return r.state.branchNames()
}

// BranchTip returns the commit branch name points at.
func (r *Repo) BranchTip(name string) (object.Hash, error) {
	tip, ok := r.state.Branches[name]
	if !ok {
		return "", ErrNoSuchBranch
	}
	return tip, nil
}

func validateBranchName(name string) error {
	if name == "" || strings.IndexFunc(name, func(c rune) bool {
		return unicode.IsSpace(c) || unicode.IsControl(c)
	}) >= 0 {
		return ErrInvalidBranchName
	}
	return nil
}
