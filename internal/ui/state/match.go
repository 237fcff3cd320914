package state

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Match keeps the items whose label contains the query's characters in
// order, ignoring case and diacritics. Item order is preserved.
func Match(items []Item, query string) []Item {
	query = strings.TrimSpace(query)
	if query == "" {
		return items
	}
	out := make([]Item, 0, len(items))
	for _, item := range items {
		if fuzzy.MatchNormalizedFold(query, item.Label) {
			out = append(out, item)
		}
	}
	return out
}

// BestMatch picks where the cursor goes after filtering: an exact label
// beats a prefix, a prefix beats a substring, and otherwise the closest
// fuzzy match wins. Ties go to the earlier item. It returns 0 for an
// empty query or no items.
func BestMatch(items []Item, query string) int {
	query = strings.TrimSpace(query)
	if query == "" {
		return 0
	}
	best, bestScore := 0, -1
	for i, item := range items {
		score := matchScore(item.Label, query)
		if score >= 0 && (bestScore < 0 || score < bestScore) {
			best, bestScore = i, score
		}
	}
	return best
}

// matchScore ranks label against query, lower is better and -1 is no match.
func matchScore(label, query string) int {
	lower, q := strings.ToLower(label), strings.ToLower(query)
	switch {
	case lower == q:
		return 0
	case strings.HasPrefix(lower, q):
		return 1
	case strings.Contains(lower, q):
		return 2
	}
	if d := fuzzy.RankMatchNormalizedFold(query, label); d >= 0 {
		return 3 + d
	}
	return -1
}
