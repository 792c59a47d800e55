package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jellynav/internal/domain"
)

// countingClient counts remote calls per endpoint
type countingClient struct {
	libraries int64
	items     int64
	children  int64
	userItems int64
	channels  int64
	resume    int64
	favorites int64
}

func (c *countingClient) UserLibraries(ctx context.Context) ([]domain.LibraryItem, error) {
	atomic.AddInt64(&c.libraries, 1)
	return []domain.LibraryItem{{ID: "lib1", Name: "Movies"}}, nil
}

func (c *countingClient) Item(ctx context.Context, itemID string) (*domain.LibraryItem, error) {
	atomic.AddInt64(&c.items, 1)
	return &domain.LibraryItem{ID: itemID, Name: "Item " + itemID}, nil
}

func (c *countingClient) Children(ctx context.Context, itemID string, start, limit int) (domain.Page, error) {
	atomic.AddInt64(&c.children, 1)
	return domain.Page{TotalCount: start}, nil
}

func (c *countingClient) UserItems(ctx context.Context, parentID string, start, limit int) (domain.Page, error) {
	atomic.AddInt64(&c.userItems, 1)
	return domain.Page{}, nil
}

func (c *countingClient) LiveTVChannels(ctx context.Context, start, limit int) (domain.Page, error) {
	atomic.AddInt64(&c.channels, 1)
	return domain.Page{}, nil
}

func (c *countingClient) ResumeItems(ctx context.Context, start, limit int) (domain.Page, error) {
	atomic.AddInt64(&c.resume, 1)
	return domain.Page{}, nil
}

func (c *countingClient) FavoriteItems(ctx context.Context, start, limit int) (domain.Page, error) {
	atomic.AddInt64(&c.favorites, 1)
	return domain.Page{}, nil
}

func TestLibraryCachesRepeatedFetches(t *testing.T) {
	client := &countingClient{}
	lib := NewLibrary(client, time.Minute, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		libs, err := lib.UserLibraries(ctx)
		require.NoError(t, err)
		require.Len(t, libs, 1)
	}
	assert.Equal(t, int64(1), client.libraries)

	for i := 0; i < 3; i++ {
		item, err := lib.Item(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, "abc", item.ID)
	}
	assert.Equal(t, int64(1), client.items)
}

func TestLibraryKeysDistinguishParameters(t *testing.T) {
	client := &countingClient{}
	lib := NewLibrary(client, time.Minute, nil)
	ctx := context.Background()

	// Different offsets are different cache entries
	p0, err := lib.Children(ctx, "lib1", 0, 100)
	require.NoError(t, err)
	p100, err := lib.Children(ctx, "lib1", 100, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(2), client.children)
	assert.NotEqual(t, p0.TotalCount, p100.TotalCount)

	// Same id on a different endpoint is a different entry too
	_, err = lib.UserItems(ctx, "lib1", 0, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(1), client.userItems)
}

func TestLibraryDropCacheForcesRefetch(t *testing.T) {
	client := &countingClient{}
	lib := NewLibrary(client, time.Minute, nil)
	ctx := context.Background()

	_, err := lib.UserLibraries(ctx)
	require.NoError(t, err)

	lib.DropCache()

	_, err = lib.UserLibraries(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), client.libraries)
}

func TestLibraryPrimeWarmsLandingEndpoints(t *testing.T) {
	client := &countingClient{}
	lib := NewLibrary(client, time.Minute, nil)
	ctx := context.Background()

	require.NoError(t, lib.Prime(ctx))

	assert.Equal(t, int64(1), client.libraries)
	assert.Equal(t, int64(1), client.resume)
	assert.Equal(t, int64(1), client.favorites)

	// Primed entries satisfy the first real navigation
	_, err := lib.UserLibraries(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), client.libraries)
}

func TestLibraryGroupStats(t *testing.T) {
	client := &countingClient{}
	lib := NewLibrary(client, time.Minute, nil)
	ctx := context.Background()

	_, err := lib.UserLibraries(ctx)
	require.NoError(t, err)

	stats := lib.GroupStats()
	assert.Equal(t, int64(1), stats.TotalRequests)
	assert.Equal(t, 0, stats.InFlight)

	lib.ResetGroupStats()
	assert.Equal(t, int64(0), lib.GroupStats().TotalRequests)
}
