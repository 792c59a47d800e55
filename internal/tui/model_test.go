package tui

import (
	"context"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jellynav/internal/browse"
	"jellynav/internal/domain"
	"jellynav/internal/history"
	"jellynav/internal/service"
)

// stubClient serves a fixed library with one browsable folder
type stubClient struct{}

func (stubClient) UserLibraries(ctx context.Context) ([]domain.LibraryItem, error) {
	return []domain.LibraryItem{{ID: "lib1", Name: "Movies", Type: "CollectionFolder", CollectionType: "movies"}}, nil
}

func (stubClient) Item(ctx context.Context, itemID string) (*domain.LibraryItem, error) {
	if itemID != "lib1" {
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, itemID)
	}
	return &domain.LibraryItem{ID: "lib1", Name: "Movies", Type: "Folder"}, nil
}

func (stubClient) Children(ctx context.Context, itemID string, start, limit int) (domain.Page, error) {
	return domain.Page{}, nil
}

func (stubClient) UserItems(ctx context.Context, parentID string, start, limit int) (domain.Page, error) {
	return domain.Page{}, nil
}

func (stubClient) LiveTVChannels(ctx context.Context, start, limit int) (domain.Page, error) {
	return domain.Page{}, nil
}

func (stubClient) ResumeItems(ctx context.Context, start, limit int) (domain.Page, error) {
	return domain.Page{}, nil
}

func (stubClient) FavoriteItems(ctx context.Context, start, limit int) (domain.Page, error) {
	return domain.Page{}, nil
}

func newTestModel(t *testing.T) (*Model, *history.Store) {
	t.Helper()
	visits, err := history.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { visits.Close() })

	resolver := browse.NewResolver(stubClient{}, nil)
	library := service.NewLibrary(stubClient{}, 0, nil)
	return NewModel(resolver, nil, library, visits, nil), visits
}

func rootMsg(t *testing.T, m *Model) NodeResolvedMsg {
	t.Helper()
	node, err := browse.NewResolver(stubClient{}, nil).Resolve(context.Background(), "")
	require.NoError(t, err)
	return NodeResolvedMsg{Node: node, Address: "", Push: true}
}

func TestInitLoadsVisitHistory(t *testing.T) {
	m, visits := newTestModel(t)
	require.NoError(t, visits.RecordVisit("jellynav://lib1", "Movies"))

	cmd := m.loadRecentCmd()
	require.NotNil(t, cmd)

	msg, ok := cmd().(RecentLoadedMsg)
	require.True(t, ok)
	require.Len(t, msg.Entries, 1)
	assert.Equal(t, "jellynav://lib1", msg.Entries[0].Address)

	m.Update(msg)
	require.Len(t, m.recent, 1)
}

func TestRootViewShowsLastVisit(t *testing.T) {
	m, _ := newTestModel(t)
	m.Update(rootMsg(t, m))
	m.Update(RecentLoadedMsg{Entries: []history.Entry{{Address: "jellynav://lib1", Title: "Movies"}}})

	view := m.View()
	assert.Contains(t, view, "last visited")
	assert.Contains(t, view, "Movies")
}

func TestJumpBackResolvesLastVisit(t *testing.T) {
	m, _ := newTestModel(t)
	m.Update(rootMsg(t, m))
	m.Update(RecentLoadedMsg{Entries: []history.Entry{{Address: "jellynav://lib1", Title: "Movies"}}})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("'")})
	require.NotNil(t, cmd)
	assert.True(t, m.loading)

	// The command resolving the remembered address produces its node
	msg, ok := m.resolveCmd("jellynav://lib1", true)().(NodeResolvedMsg)
	require.True(t, ok)
	assert.Equal(t, "jellynav://lib1", msg.Address)
	assert.Equal(t, "Movies", msg.Node.Title)
}

func TestJumpBackWithoutHistoryIsNoop(t *testing.T) {
	m, _ := newTestModel(t)
	m.Update(rootMsg(t, m))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("'")})
	assert.Nil(t, cmd)
	assert.False(t, m.loading)
}

func TestNavigationRecordsVisit(t *testing.T) {
	m, visits := newTestModel(t)
	m.Update(rootMsg(t, m))

	node, err := browse.NewResolver(stubClient{}, nil).Resolve(context.Background(), "jellynav://lib1")
	require.NoError(t, err)
	m.Update(NodeResolvedMsg{Node: node, Address: "jellynav://lib1", Push: true})

	entries, err := visits.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "jellynav://lib1", entries[0].Address)

	// The in-memory list follows the store
	require.Len(t, m.recent, 1)
	assert.Equal(t, "Movies", m.recent[0].Title)
}

func TestRootItselfIsNotRecorded(t *testing.T) {
	m, visits := newTestModel(t)
	m.Update(rootMsg(t, m))

	entries, err := visits.Recent(10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
