package service

import (
	"context"
	"fmt"
	"log/slog"

	"jellynav/internal/browse"
	"jellynav/internal/domain"
)

// launcher abstracts media player launching (consumer-defined interface)
type launcher interface {
	Launch(url, title string) error
}

// Playback resolves a playable node to a stream URL and hands it to the
// external player.
type Playback struct {
	launcher launcher
	streams  domain.StreamResolver
	logger   *slog.Logger
}

// NewPlayback creates a new playback service
func NewPlayback(launcher launcher, streams domain.StreamResolver, logger *slog.Logger) *Playback {
	if logger == nil {
		logger = slog.Default()
	}
	return &Playback{
		launcher: launcher,
		streams:  streams,
		logger:   logger,
	}
}

// Play starts playback of a playable navigation node.
func (s *Playback) Play(ctx context.Context, node domain.NavigationNode) error {
	if !node.Playable {
		return fmt.Errorf("%q is not playable", node.Title)
	}

	itemID, _, err := browse.Decode(node.Address)
	if err != nil {
		return err
	}

	url, err := s.streams.ResolvePlayableURL(ctx, itemID)
	if err != nil {
		s.logger.Error("failed to resolve playable URL", "error", err, "itemID", itemID)
		return err
	}

	s.logger.Info("launching playback", "title", node.Title, "itemID", itemID)

	return s.launcher.Launch(url, node.Title)
}
