package domain

import "context"

// LibraryClient is the remote catalog access the browse layer needs.
// Implementations are bound to a single authenticated user. All calls
// surface transport failures as-is; Item returns ErrItemNotFound when
// the id does not resolve.
type LibraryClient interface {
	// UserLibraries returns the user's top-level library views.
	UserLibraries(ctx context.Context) ([]LibraryItem, error)

	// Item returns metadata for a single item by id.
	Item(ctx context.Context, itemID string) (*LibraryItem, error)

	// Children returns one page of an item's direct children.
	Children(ctx context.Context, itemID string, start, limit int) (Page, error)

	// UserItems returns one page of a user-scoped item query under a parent.
	// Some library roots are only reachable through this endpoint.
	UserItems(ctx context.Context, parentID string, start, limit int) (Page, error)

	// LiveTVChannels returns one page of the live-TV channel listing.
	LiveTVChannels(ctx context.Context, start, limit int) (Page, error)

	// ResumeItems returns one page of the user's continue-watching list.
	ResumeItems(ctx context.Context, start, limit int) (Page, error)

	// FavoriteItems returns one page of the user's favorites.
	FavoriteItems(ctx context.Context, start, limit int) (Page, error)
}

// StreamResolver resolves a playable item to a direct stream URL.
type StreamResolver interface {
	ResolvePlayableURL(ctx context.Context, itemID string) (string, error)
}
