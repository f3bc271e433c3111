package object

import (
	"fmt"
	"sort"
	"strings"
)

// MatchPrefix returns the one candidate that starts with prefix. It fails
// with ErrNotFound when nothing matches and ErrAmbiguous when more than one
// distinct candidate does.
func MatchPrefix(prefix string, candidates []Hash) (Hash, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" || !isHex(prefix) {
		return "", fmt.Errorf("resolve %q: %w", prefix, ErrNotFound)
	}

	seen := make(map[Hash]struct{})
	var matches []Hash
	for _, h := range candidates {
		if !strings.HasPrefix(string(h), prefix) {
			continue
		}
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		matches = append(matches, h)
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("resolve %q: %w", prefix, ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		sort.Slice(matches, func(i, j int) bool { return matches[i] < matches[j] })
		return "", fmt.Errorf("resolve %q: %w (candidates include %s)", prefix, ErrAmbiguous, joinShort(matches, 3))
	}
}

func joinShort(hashes []Hash, limit int) string {
	parts := make([]string, 0, limit+1)
	for i, h := range hashes {
		if i == limit {
			parts = append(parts, "...")
			break
		}
		parts = append(parts, h.Short(10))
	}
	return strings.Join(parts, ", ")
}
