package repo

import (
	"fmt"
	"sync"

	"github.com/odvcencio/gitlet/pkg/object"
)

// splitCacheKey is ordered: the split point depends on which side the
// breadth-first search starts from.
type splitCacheKey struct {
	current object.Hash
	given   object.Hash
}

type traversalState struct {
	mu sync.RWMutex

	commits   map[object.Hash]*object.Commit
	ancestors map[object.Hash]map[object.Hash]struct{}
	splits    map[splitCacheKey]object.Hash
}

func newTraversalState() *traversalState {
	return &traversalState{
		commits:   make(map[object.Hash]*object.Commit),
		ancestors: make(map[object.Hash]map[object.Hash]struct{}),
		splits:    make(map[splitCacheKey]object.Hash),
	}
}

func (s *traversalState) loadSplit(current, given object.Hash) (object.Hash, bool) {
	s.mu.RLock()
	split, ok := s.splits[splitCacheKey{current: current, given: given}]
	s.mu.RUnlock()
	return split, ok
}

func (s *traversalState) storeSplit(current, given, split object.Hash) {
	s.mu.Lock()
	s.splits[splitCacheKey{current: current, given: given}] = split
	s.mu.Unlock()
}

func (s *traversalState) loadAncestors(h object.Hash) (map[object.Hash]struct{}, bool) {
	s.mu.RLock()
	set, ok := s.ancestors[h]
	s.mu.RUnlock()
	return set, ok
}

func (s *traversalState) storeAncestors(h object.Hash, set map[object.Hash]struct{}) {
	s.mu.Lock()
	s.ancestors[h] = set
	s.mu.Unlock()
}

func (s *traversalState) splitCacheSize() int {
	s.mu.RLock()
	n := len(s.splits)
	s.mu.RUnlock()
	return n
}

func (s *traversalState) readCommit(store object.Store, h object.Hash) (*object.Commit, error) {
	s.mu.RLock()
	cached, ok := s.commits[h]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	commit, err := store.GetCommit(h)
	if err != nil {
		return nil, fmt.Errorf("read commit %s: %w", h, err)
	}

	s.mu.Lock()
	if existing, exists := s.commits[h]; exists {
		s.mu.Unlock()
		return existing, nil
	}
	s.commits[h] = commit
	s.mu.Unlock()
	return commit, nil
}
