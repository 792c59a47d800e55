package jellyfin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jellynav/internal/domain"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "tok123", "user1", nil), srv
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestUserLibraries(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Users/user1/Views", r.URL.Path)
		assert.Contains(t, r.Header.Get("X-Emby-Authorization"), "Token=\"tok123\"")
		writeJSON(t, w, ItemsResponse{
			Items: []Item{
				{ID: "lib1", Name: "Movies", Type: "CollectionFolder", CollectionType: "movies"},
				{ID: "lib2", Name: "Shows", Type: "CollectionFolder", CollectionType: "tvshows"},
			},
			TotalRecordCount: 2,
		})
	}))

	libs, err := client.UserLibraries(context.Background())
	require.NoError(t, err)
	require.Len(t, libs, 2)
	assert.Equal(t, "Movies", libs[0].Name)
	assert.Equal(t, "movies", libs[0].CollectionType)
}

func TestItemNotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	_, err := client.Item(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestItemEmptyBodyIsNotFound(t *testing.T) {
	// Some server versions answer 200 with an empty object for unknown ids
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, Item{})
	}))

	_, err := client.Item(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestChildrenPaginationParams(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Items", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "series1", q.Get("ParentId"))
		assert.Equal(t, "user1", q.Get("UserId"))
		assert.Equal(t, "100", q.Get("StartIndex"))
		assert.Equal(t, "50", q.Get("Limit"))
		assert.Equal(t, "SortName", q.Get("SortBy"))
		writeJSON(t, w, ItemsResponse{
			Items:            []Item{{ID: "ep1", Name: "Pilot", Type: "Episode"}},
			TotalRecordCount: 151,
		})
	}))

	page, err := client.Children(context.Background(), "series1", 100, 50)
	require.NoError(t, err)
	assert.Equal(t, 151, page.TotalCount)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Pilot", page.Items[0].Name)
}

func TestUserItemsPath(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Users/user1/Items", r.URL.Path)
		assert.Equal(t, "lib1", r.URL.Query().Get("ParentId"))
		writeJSON(t, w, ItemsResponse{})
	}))

	_, err := client.UserItems(context.Background(), "lib1", 0, 100)
	require.NoError(t, err)
}

func TestFavoriteItemsFilters(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "IsFavorite", q.Get("Filters"))
		assert.Equal(t, "true", q.Get("Recursive"))
		writeJSON(t, w, ItemsResponse{})
	}))

	_, err := client.FavoriteItems(context.Background(), 0, 100)
	require.NoError(t, err)
}

func TestAuthFailure(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := client.UserLibraries(context.Background())
	assert.ErrorIs(t, err, domain.ErrAuthFailed)
}

func TestServerErrorRetries(t *testing.T) {
	var hits int64
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&hits, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		writeJSON(t, w, ItemsResponse{TotalRecordCount: 7})
	}))

	page, err := client.Children(context.Background(), "x", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 7, page.TotalCount)
	assert.Equal(t, int64(3), atomic.LoadInt64(&hits))
}

func TestServerOffline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()
	client := NewClient(srv.URL, "tok", "user1", nil)

	_, err := client.UserLibraries(context.Background())
	assert.ErrorIs(t, err, domain.ErrServerOffline)
}

func TestResolvePlayableURL(t *testing.T) {
	client, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Items/mov1/PlaybackInfo", r.URL.Path)
		writeJSON(t, w, PlaybackInfoResponse{
			MediaSources: []MediaSource{{ID: "src1", Container: "mkv"}},
		})
	}))

	url, err := client.ResolvePlayableURL(context.Background(), "mov1")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/Videos/mov1/stream.mkv?Static=true&api_key=tok123", url)
}

func TestResolvePlayableURLNoSources(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, PlaybackInfoResponse{})
	}))

	_, err := client.ResolvePlayableURL(context.Background(), "mov1")
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestThumbnailURL(t *testing.T) {
	client, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, ItemsResponse{
			Items: []Item{{
				ID:        "mov1",
				Name:      "Heat",
				Type:      "Movie",
				ImageTags: ImageTags{Primary: "tag1"},
			}},
			TotalRecordCount: 1,
		})
	}))

	page, err := client.Children(context.Background(), "lib1", 0, 100)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, srv.URL+"/Items/mov1/Images/Primary?tag=tag1", page.Items[0].ThumbURL)
}
