package search

import (
	"sort"
	"strings"

	rank "github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sahilm/fuzzy"

	"jellynav/internal/domain"
)

// Match is one filtered node with the metadata needed for highlighting.
type Match struct {
	Node           domain.NavigationNode
	Index          int   // Position in the original slice
	MatchedIndexes []int // Character positions that matched
	Score          int   // Lower is better
}

// nodeSource implements sahilm/fuzzy.Source over node titles so matching
// runs without per-query allocations.
type nodeSource struct {
	nodes       []domain.NavigationNode
	lowerTitles []string
}

func (s nodeSource) String(i int) string { return s.lowerTitles[i] }
func (s nodeSource) Len() int            { return len(s.nodes) }

// Filter narrows nodes to those fuzzy-matching query, best matches first.
// An empty query returns nil.
func Filter(query string, nodes []domain.NavigationNode) []Match {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" || len(nodes) == 0 {
		return nil
	}

	src := nodeSource{
		nodes:       nodes,
		lowerTitles: make([]string, len(nodes)),
	}
	for i, n := range nodes {
		src.lowerTitles[i] = strings.ToLower(n.Title)
	}

	found := fuzzy.FindFrom(query, src)

	results := make([]Match, 0, len(found))
	for _, m := range found {
		results = append(results, Match{
			Node:           nodes[m.Index],
			Index:          m.Index,
			MatchedIndexes: m.MatchedIndexes,
			Score:          rankScore(query, src.lowerTitles[m.Index], m.Score),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score < results[j].Score
	})
	return results
}

// rankScore refines the raw fuzzy score so exact and prefix matches sort
// ahead of scattered character matches. Lower is better.
func rankScore(query, title string, rawScore int) int {
	switch {
	case title == query:
		return 0
	case strings.HasPrefix(title, query):
		return 10
	case strings.Contains(title, query):
		return 50 + strings.Index(title, query)
	}
	return 100 + rank.LevenshteinDistance(query, title) - rawScore
}
