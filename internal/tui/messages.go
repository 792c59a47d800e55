package tui

import (
	"jellynav/internal/domain"
	"jellynav/internal/history"
)

// Message types for the browser

// ErrMsg represents an error surfaced to the status line
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// NodeResolvedMsg signals that an address resolved to a node
type NodeResolvedMsg struct {
	Node    *domain.NavigationNode
	Address string
	Push    bool // true when navigating deeper, false on refresh
}

// RecentLoadedMsg delivers the visit history read at startup
type RecentLoadedMsg struct {
	Entries []history.Entry
}

// PlaybackStartedMsg signals that the external player was launched
type PlaybackStartedMsg struct {
	Title string
}

// CacheDroppedMsg signals that the library cache was cleared
type CacheDroppedMsg struct{}

// TickMsg advances the loading spinner
type TickMsg struct{}
