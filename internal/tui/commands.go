package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"jellynav/internal/domain"
)

const resolveTimeout = 30 * time.Second

// resolveCmd resolves an address into a navigation node
func (m *Model) resolveCmd(address string, push bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
		defer cancel()

		node, err := m.resolver.Resolve(ctx, address)
		if err != nil {
			return ErrMsg{Err: err, Context: "resolve failed"}
		}
		return NodeResolvedMsg{Node: node, Address: address, Push: push}
	}
}

// playCmd launches playback for a playable node
func (m *Model) playCmd(node domain.NavigationNode) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
		defer cancel()

		if err := m.playback.Play(ctx, node); err != nil {
			return ErrMsg{Err: err, Context: "playback failed"}
		}
		return PlaybackStartedMsg{Title: node.Title}
	}
}

// loadRecentCmd reads the visit history recorded by earlier sessions
func (m *Model) loadRecentCmd() tea.Cmd {
	if m.visits == nil {
		return nil
	}
	return func() tea.Msg {
		entries, err := m.visits.Recent(maxRecent)
		if err != nil {
			return ErrMsg{Err: err, Context: "history read failed"}
		}
		return RecentLoadedMsg{Entries: entries}
	}
}

// dropCacheCmd clears the library cache before a forced refresh
func (m *Model) dropCacheCmd() tea.Cmd {
	return func() tea.Msg {
		m.library.DropCache()
		return CacheDroppedMsg{}
	}
}

// tickCmd drives the loading spinner
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}
