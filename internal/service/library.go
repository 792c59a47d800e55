package service

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"jellynav/internal/browse"
	"jellynav/internal/domain"
)

// Library decorates a domain.LibraryClient with short-TTL memoization
// and request coalescing. Repeated navigation over the same directory
// within the TTL window reuses one response; concurrent identical
// fetches collapse into a single remote call. Implements
// domain.LibraryClient, so the resolver consumes it transparently.
type Library struct {
	client domain.LibraryClient
	memo   *Memo
	group  *Coalescer
	logger *slog.Logger
}

// NewLibrary creates the caching decorator with the given TTL
// (DefaultTTL when zero).
func NewLibrary(client domain.LibraryClient, ttl time.Duration, logger *slog.Logger) *Library {
	if logger == nil {
		logger = slog.Default()
	}
	return &Library{
		client: client,
		memo:   NewMemo(ttl),
		group:  NewCoalescer(),
		logger: logger,
	}
}

// fetch runs fn through the memo and, on a miss, through the coalescer.
func (s *Library) fetch(ctx context.Context, key string, fn func() (any, error)) (any, error) {
	return s.memo.Get(key, false, func() (any, error) {
		return s.group.Do(ctx, key, fn)
	})
}

func (s *Library) UserLibraries(ctx context.Context) ([]domain.LibraryItem, error) {
	v, err := s.fetch(ctx, keyLibraries, func() (any, error) {
		return s.client.UserLibraries(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.LibraryItem), nil
}

func (s *Library) Item(ctx context.Context, itemID string) (*domain.LibraryItem, error) {
	v, err := s.fetch(ctx, keyItem(itemID), func() (any, error) {
		return s.client.Item(ctx, itemID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.LibraryItem), nil
}

func (s *Library) Children(ctx context.Context, itemID string, start, limit int) (domain.Page, error) {
	return s.fetchPage(ctx, keyChildren(itemID, start, limit), func() (any, error) {
		return s.client.Children(ctx, itemID, start, limit)
	})
}

func (s *Library) UserItems(ctx context.Context, parentID string, start, limit int) (domain.Page, error) {
	return s.fetchPage(ctx, keyUserItems(parentID, start, limit), func() (any, error) {
		return s.client.UserItems(ctx, parentID, start, limit)
	})
}

func (s *Library) LiveTVChannels(ctx context.Context, start, limit int) (domain.Page, error) {
	return s.fetchPage(ctx, keyChannels(start, limit), func() (any, error) {
		return s.client.LiveTVChannels(ctx, start, limit)
	})
}

func (s *Library) ResumeItems(ctx context.Context, start, limit int) (domain.Page, error) {
	return s.fetchPage(ctx, keyResume(start, limit), func() (any, error) {
		return s.client.ResumeItems(ctx, start, limit)
	})
}

func (s *Library) FavoriteItems(ctx context.Context, start, limit int) (domain.Page, error) {
	return s.fetchPage(ctx, keyFavorites(start, limit), func() (any, error) {
		return s.client.FavoriteItems(ctx, start, limit)
	})
}

func (s *Library) fetchPage(ctx context.Context, key string, fn func() (any, error)) (domain.Page, error) {
	v, err := s.fetch(ctx, key, fn)
	if err != nil {
		return domain.Page{}, err
	}
	return v.(domain.Page), nil
}

// Prime warms the caches a fresh session hits first: the library list
// and the first slice of both virtual lists.
func (s *Library) Prime(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := s.UserLibraries(ctx)
		return err
	})
	g.Go(func() error {
		_, err := s.ResumeItems(ctx, 0, browse.DefaultPageSize)
		return err
	})
	g.Go(func() error {
		_, err := s.FavoriteItems(ctx, 0, browse.DefaultPageSize)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Warn("cache prime failed", "error", err)
		return err
	}
	s.logger.Debug("cache primed", "entries", s.memo.Len())
	return nil
}

// DropCache empties the memo. The next navigation re-fetches everything.
func (s *Library) DropCache() {
	s.memo.Clear()
	s.logger.Info("dropped browse cache")
}

// GroupStats returns the coalescer counters.
func (s *Library) GroupStats() CoalescerStats {
	return s.group.Stats()
}

// ResetGroupStats zeroes the coalescer counters.
func (s *Library) ResetGroupStats() {
	s.group.ResetStats()
}
