package browse

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"jellynav/internal/domain"
)

// Titles of the fixed virtual directories appended after the real
// libraries in the root listing.
const (
	resumeTitle    = "Continue Watching"
	favoritesTitle = "Favorites"
)

const rootTitle = "Media Library"

// Delegate resolves addresses whose scheme belongs to a sibling
// subsystem. The resolver forwards such addresses verbatim and returns
// the delegate's result unchanged.
type Delegate interface {
	// Scheme returns the address scheme this delegate owns.
	Scheme() string

	// Resolve resolves a foreign address into a navigation node.
	Resolve(ctx context.Context, address string) (*domain.NavigationNode, error)
}

// Resolver turns content addresses into navigation nodes. It dispatches
// on the address shape: root listing, virtual list, direct item lookup
// with a library-root fallback, or delegation to a foreign scheme.
//
// The remote service does not expose a single lookup path for every
// navigable object: library roots, live-TV views and ordinary folders
// each need a different endpoint. The resolver tries the cheap, general
// path first and pays for extra round-trips only when necessary; an
// unknown id fails after at most one extra fetch.
type Resolver struct {
	client    domain.LibraryClient
	delegates []Delegate
	pageSize  int
	logger    *slog.Logger
}

// NewResolver creates a resolver over the given library client.
func NewResolver(client domain.LibraryClient, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		client:   client,
		pageSize: DefaultPageSize,
		logger:   logger,
	}
}

// WithDelegate registers a foreign-scheme delegate.
func (r *Resolver) WithDelegate(d Delegate) *Resolver {
	r.delegates = append(r.delegates, d)
	return r
}

// WithPageSize overrides the directory page size.
func (r *Resolver) WithPageSize(n int) *Resolver {
	if n > 0 {
		r.pageSize = n
	}
	return r
}

// Resolve is the single entry point: it decodes the address and returns
// the matching navigation node. An empty address resolves the root
// listing. Fails with domain.ErrInvalidAddress on malformed addresses
// and domain.ErrItemNotFound when the fallback chain is exhausted.
func (r *Resolver) Resolve(ctx context.Context, address string) (*domain.NavigationNode, error) {
	if address == "" {
		return r.resolveRoot(ctx)
	}

	if !strings.HasPrefix(address, schemePrefix) {
		if d := r.delegateFor(address); d != nil {
			r.logger.Debug("delegating foreign address", "address", address, "scheme", d.Scheme())
			return d.Resolve(ctx, address)
		}
	}

	itemID, start, err := Decode(address)
	if err != nil {
		return nil, err
	}

	switch itemID {
	case VirtualResume:
		return r.resolveVirtual(ctx, itemID, resumeTitle, r.client.ResumeItems, start)
	case VirtualFavorites:
		return r.resolveVirtual(ctx, itemID, favoritesTitle, r.client.FavoriteItems, start)
	}

	return r.resolveItem(ctx, itemID, start)
}

// delegateFor finds a registered delegate for the address's scheme.
func (r *Resolver) delegateFor(address string) Delegate {
	scheme, _, ok := strings.Cut(address, "://")
	if !ok {
		return nil
	}
	for _, d := range r.delegates {
		if d.Scheme() == scheme {
			return d
		}
	}
	return nil
}

// resolveRoot lists the user's libraries followed by the two fixed
// virtual directories, wrapped in a synthetic root node.
func (r *Resolver) resolveRoot(ctx context.Context) (*domain.NavigationNode, error) {
	libs, err := r.client.UserLibraries(ctx)
	if err != nil {
		return nil, err
	}

	children := make([]domain.NavigationNode, 0, len(libs)+2)
	for _, lib := range libs {
		children = append(children, itemNode(lib))
	}
	children = append(children,
		virtualNode(resumeTitle, VirtualResume),
		virtualNode(favoritesTitle, VirtualFavorites),
	)

	r.logger.Debug("resolved root", "libraries", len(libs))

	return &domain.NavigationNode{
		Title:       rootTitle,
		Address:     "",
		Category:    CategoryDirectory,
		ContentType: "directory",
		Expandable:  true,
		Children:    children,
	}, nil
}

type pageFetch func(ctx context.Context, start, limit int) (domain.Page, error)

// resolveVirtual answers one of the curated lists with no backing
// remote item.
func (r *Resolver) resolveVirtual(ctx context.Context, itemID, title string, fetch pageFetch, start int) (*domain.NavigationNode, error) {
	page, err := fetch(ctx, start, r.pageSize)
	if err != nil {
		return nil, err
	}

	node := r.directoryNode(title, itemID, Class{
		Category:    CategoryDirectory,
		ContentType: itemID,
		Expandable:  true,
	}, page, start)
	node.ThumbURL = ""
	return node, nil
}

// resolveItem is the direct lookup path with its fallbacks: leaf,
// live-TV special case, generic children with a user-scoped retry, or
// the library-root fallback when the id cannot be looked up at all.
func (r *Resolver) resolveItem(ctx context.Context, itemID string, start int) (*domain.NavigationNode, error) {
	item, err := r.client.Item(ctx, itemID)
	if errors.Is(err, domain.ErrItemNotFound) {
		r.logger.Debug("item lookup missed, scanning library roots", "itemID", itemID)
		return r.resolveLibraryRoot(ctx, itemID, start)
	}
	if err != nil {
		return nil, err
	}

	class := Classify(*item)
	if !class.Expandable {
		return leafNode(*item, class), nil
	}

	var page domain.Page
	if item.CollectionType == "livetv" {
		page, err = r.client.LiveTVChannels(ctx, start, r.pageSize)
	} else {
		page, err = r.client.Children(ctx, itemID, start, r.pageSize)
		if errors.Is(err, domain.ErrItemNotFound) {
			page, err = r.client.UserItems(ctx, itemID, start, r.pageSize)
		}
	}
	if err != nil {
		return nil, err
	}

	node := r.directoryNode(item.Name, itemID, class, page, start)
	node.ThumbURL = item.ThumbURL
	return node, nil
}

// resolveLibraryRoot re-fetches the library list and serves the item
// from there. Some library roots are not resolvable via the per-item
// endpoint; when the id is absent from the list too, the chain stops
// with no further endpoint calls.
func (r *Resolver) resolveLibraryRoot(ctx context.Context, itemID string, start int) (*domain.NavigationNode, error) {
	libs, err := r.client.UserLibraries(ctx)
	if err != nil {
		return nil, err
	}

	var match *domain.LibraryItem
	for i := range libs {
		if libs[i].ID == itemID {
			match = &libs[i]
			break
		}
	}
	if match == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, itemID)
	}

	var page domain.Page
	if match.CollectionType == "livetv" {
		page, err = r.client.LiveTVChannels(ctx, start, r.pageSize)
	} else {
		page, err = r.client.UserItems(ctx, itemID, start, r.pageSize)
	}
	if err != nil {
		return nil, err
	}

	node := r.directoryNode(match.Name, itemID, Classify(*match), page, start)
	node.ThumbURL = match.ThumbURL
	return node, nil
}

// directoryNode assembles a directory listing: classify the slice, note
// a homogeneity hint, then add synthetic page links.
func (r *Resolver) directoryNode(title, itemID string, class Class, page domain.Page, start int) *domain.NavigationNode {
	children := make([]domain.NavigationNode, 0, len(page.Items))
	for _, it := range page.Items {
		children = append(children, itemNode(it))
	}
	hint := childCategory(children)
	children = WithPageLinks(children, itemID, start, r.pageSize, page.TotalCount)

	r.logger.Debug("resolved directory", "itemID", itemID, "start", start, "children", len(children), "total", page.TotalCount)

	return &domain.NavigationNode{
		Title:         title,
		Address:       Encode(itemID, start),
		Category:      class.Category,
		ContentType:   class.ContentType,
		Playable:      class.Playable,
		Expandable:    true,
		Children:      children,
		ChildCategory: hint,
	}
}

// itemNode converts one remote item into a child entry.
func itemNode(item domain.LibraryItem) domain.NavigationNode {
	class := Classify(item)
	return domain.NavigationNode{
		Title:       item.Name,
		Address:     Encode(item.ID, 0),
		Category:    class.Category,
		ContentType: class.ContentType,
		Playable:    class.Playable,
		Expandable:  class.Expandable,
		ThumbURL:    item.ThumbURL,
	}
}

// leafNode wraps a non-expandable item; no children field is populated.
func leafNode(item domain.LibraryItem, class Class) *domain.NavigationNode {
	return &domain.NavigationNode{
		Title:       item.Name,
		Address:     Encode(item.ID, 0),
		Category:    class.Category,
		ContentType: class.ContentType,
		Playable:    class.Playable,
		Expandable:  false,
		ThumbURL:    item.ThumbURL,
	}
}

// virtualNode is a root-listing entry for a curated list.
func virtualNode(title, itemID string) domain.NavigationNode {
	return domain.NavigationNode{
		Title:       title,
		Address:     Encode(itemID, 0),
		Category:    CategoryDirectory,
		ContentType: itemID,
		Expandable:  true,
	}
}

// childCategory returns the shared category when all children classify
// alike, empty otherwise.
func childCategory(children []domain.NavigationNode) string {
	if len(children) == 0 {
		return ""
	}
	first := children[0].Category
	for _, c := range children[1:] {
		if c.Category != first {
			return ""
		}
	}
	return first
}
