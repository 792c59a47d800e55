package domain

// NavigationNode is one node of the uniform browse tree. Nodes are
// constructed fresh on every resolve call and never mutated afterwards.
type NavigationNode struct {
	Title       string // Display title
	Address     string // Content address (see browse.Encode)
	Category    string // Node category: "Movie", "Series", "Channel", "Directory", ...
	ContentType string // Content-type label: "movie", "tvshows", "directory", ...
	Playable    bool   // Whether the node can be played directly
	Expandable  bool   // Whether the node can be browsed into
	ThumbURL    string // Optional thumbnail reference

	// Children is nil for leaves and non-nil (possibly empty) for
	// directories.
	Children []NavigationNode

	// ChildCategory is set when every child shares the same category,
	// as a rendering hint. Empty otherwise.
	ChildCategory string
}

// IsDirectory reports whether the node was resolved as a directory
// listing rather than a leaf.
func (n *NavigationNode) IsDirectory() bool {
	return n.Children != nil
}
