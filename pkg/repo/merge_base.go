package repo

import (
	"fmt"

	"github.com/odvcencio/gitlet/pkg/object"
)

// walkCommits visits every commit reachable from start in breadth-first
// order, following both parent and merge-parent edges and visiting each
// commit once. visit returning false stops the walk early.
func (r *Repo) walkCommits(start object.Hash, visit func(c *object.Commit) bool) error {
	if start == "" {
		return nil
	}
	state := r.getTraversalState()

	seen := map[object.Hash]struct{}{start: {}}
	var queue commitQueue
	queue.Push(start)
	for {
		h, ok := queue.Pop()
		if !ok {
			return nil
		}
		c, err := state.readCommit(r.Store, h)
		if err != nil {
			return err
		}
		if !visit(c) {
			return nil
		}
		for _, p := range c.Parents() {
			if _, dup := seen[p]; dup {
				continue
			}
			seen[p] = struct{}{}
			queue.Push(p)
		}
	}
}

// Ancestors returns every commit reachable from h, h included.
func (r *Repo) Ancestors(h object.Hash) (map[object.Hash]struct{}, error) {
	state := r.getTraversalState()
	if cached, ok := state.loadAncestors(h); ok {
		return cached, nil
	}

	set := make(map[object.Hash]struct{})
	err := r.walkCommits(h, func(c *object.Commit) bool {
		set[c.ID] = struct{}{}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("ancestors of %s: %w", h, err)
	}
	state.storeAncestors(h, set)
	return set, nil
}

// IsAncestor reports whether ancestor is reachable from descendant.
func (r *Repo) IsAncestor(ancestor, descendant object.Hash) (bool, error) {
	set, err := r.Ancestors(descendant)
	if err != nil {
		return false, err
	}
	_, ok := set[ancestor]
	return ok, nil
}

// FindSplit returns the split point for merging given into current: the
// first commit met by a breadth-first walk from current that is also an
// ancestor of given. On DAGs with several merge points this is the
// nearest common ancestor by edge distance from current, not necessarily a
// unique lowest common ancestor.
func (r *Repo) FindSplit(current, given object.Hash) (object.Hash, error) {
	if current == "" || given == "" {
		return "", fmt.Errorf("find split: empty commit id")
	}
	state := r.getTraversalState()
	if cached, ok := state.loadSplit(current, given); ok {
		return cached, nil
	}

	givenAncestors, err := r.Ancestors(given)
	if err != nil {
		return "", fmt.Errorf("find split: %w", err)
	}

	var split object.Hash
	err = r.walkCommits(current, func(c *object.Commit) bool {
		if _, ok := givenAncestors[c.ID]; ok {
			split = c.ID
			return false
		}
		return true
	})
	if err != nil {
		return "", fmt.Errorf("find split: %w", err)
	}
	if split == "" {
		return "", fmt.Errorf("find split: %s and %s share no ancestor: %w", current.Short(7), given.Short(7), ErrNotFound)
	}
	state.storeSplit(current, given, split)
	return split, nil
}
