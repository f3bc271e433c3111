package repo

import (
	"fmt"
	"sort"

	"github.com/odvcencio/gitlet/pkg/object"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Commit creates a new commit from the staging index.
//
//  1. Reject an empty message or an empty stage
//  2. Apply staged additions and removals to the head tree
//  3. Create the Commit with head as parent and the current timestamp
//  4. Write the commit to the store
//  5. Advance head and the current branch, clear the stage
//  6. Return the commit hash
func (r *Repo) Commit(message string) (object.Hash, error) {
	var id object.Hash
	err := r.update("commit", func(st *State) error {
		if message == "" {
			return ErrEmptyMessage
		}
		if st.Stage.IsEmpty() {
			return ErrNothingToCommit
		}
		c, err := r.commitStaged(st, message, "")
		if err != nil {
			return err
		}
		id = c.ID
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// commitStaged snapshots head's tree with the stage applied into a new
// commit on the current branch and advances st to it. mergeParent is set
// only for merge commits.
func (r *Repo) commitStaged(st *State, message string, mergeParent object.Hash) (*object.Commit, error) {
	head, err := r.readCommit(st.Head)
	if err != nil {
		return nil, err
	}

	tree := st.Stage.Apply(head.Tree)
	c := object.NewCommit(message, r.now().Unix(), tree, st.Head, mergeParent, st.CurrentBranch)
	if err := r.writeCommit(st, c); err != nil {
		return nil, err
	}

	st.advance(c.ID)
	st.Stage.Clear()
	r.logger.Debug("committed",
		zap.String("commit", string(c.ID)),
		zap.String("branch", c.Branch),
		zap.String("parent", string(c.Parent)),
		zap.String("merge_parent", string(c.MergeParent)),
		zap.Int("files", len(c.Tree)),
	)
	return c, nil
}

// Log returns the history of the current branch, newest first, following
// first-parent links back to the initial commit.
func (r *Repo) Log() ([]*object.Commit, error) {
	var commits []*object.Commit
	current := r.state.Head
	for current != "" {
		c, err := r.readCommit(current)
		if err != nil {
			return nil, fmt.Errorf("log: %w", err)
		}
		commits = append(commits, c)
		current = c.Parent
	}
	return commits, nil
}

// GlobalLog returns every stored commit, newest first. Commits with equal
// timestamps are ordered by id.
func (r *Repo) GlobalLog() ([]*object.Commit, error) {
	ids, err := r.Store.ListCommits()
	if err != nil {
		return nil, fmt.Errorf("global-log: %w", err)
	}
	commits := make([]*object.Commit, 0, len(ids))
	for _, id := range ids {
		c, err := r.readCommit(id)
		if err != nil {
			return nil, fmt.Errorf("global-log: %w", err)
		}
		commits = append(commits, c)
	}
	sort.SliceStable(commits, func(i, j int) bool {
		if commits[i].Timestamp != commits[j].Timestamp {
			return commits[i].Timestamp > commits[j].Timestamp
		}
		return commits[i].ID < commits[j].ID
	})
	return commits, nil
}

// Find returns the ids of every commit whose message is exactly message,
// in the order GlobalLog lists them.
func (r *Repo) Find(message string) ([]object.Hash, error) {
	commits, err := r.GlobalLog()
	if err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}
	ids := lo.FilterMap(commits, func(c *object.Commit, _ int) (object.Hash, bool) {
		return c.ID, c.Message == message
	})
	if len(ids) == 0 {
		return nil, fmt.Errorf("find: %w", ErrNoCommitWithMessage)
	}
	return ids, nil
}
