package browse

import "jellynav/internal/domain"

// DefaultPageSize is how many children a directory listing fetches per
// slice.
const DefaultPageSize = 100

// Synthetic page-link node titles.
const (
	prevTitle = "← Prev"
	nextTitle = "Next →"
)

// WithPageLinks adds synthetic previous/next directory nodes around one
// slice of an item's children. A "← Prev" node is prepended when the
// slice does not start at the beginning, a "Next →" node is appended
// while more records remain server-side. Re-resolving a synthetic
// node's address yields the adjacent slice with its own correctly
// computed pair, so repeated paging round-trips are stable.
func WithPageLinks(children []domain.NavigationNode, itemID string, start, pageSize, total int) []domain.NavigationNode {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	out := children
	if start > 0 {
		prev := start - pageSize
		if prev < 0 {
			prev = 0
		}
		out = append([]domain.NavigationNode{pageLink(prevTitle, itemID, prev)}, out...)
	}
	if start+pageSize < total {
		out = append(out, pageLink(nextTitle, itemID, start+pageSize))
	}
	return out
}

func pageLink(title, itemID string, start int) domain.NavigationNode {
	return domain.NavigationNode{
		Title:       title,
		Address:     Encode(itemID, start),
		Category:    CategoryDirectory,
		ContentType: "directory",
		Playable:    false,
		Expandable:  true,
	}
}
