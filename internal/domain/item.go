package domain

// LibraryItem is an immutable snapshot of a remote catalog record.
// Items have no local identity beyond their ID; every fetch produces
// fresh snapshots.
type LibraryItem struct {
	ID             string // Server-specific unique identifier
	Name           string // Display name
	Type           string // Item type tag: "Movie", "Series", "Season", "Episode", ...
	CollectionType string // Library-root collection tag: "movies", "tvshows", "music", ...
	ThumbURL       string // Primary image URL (empty when the item has no image)
}

// Page is one slice of a paginated listing together with the total
// number of records the listing holds server-side.
type Page struct {
	Items      []LibraryItem
	TotalCount int
}
