package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jellynav/internal/domain"
)

type fakeLauncher struct {
	url   string
	title string
	err   error
}

func (f *fakeLauncher) Launch(url, title string) error {
	f.url = url
	f.title = title
	return f.err
}

type fakeStreams struct {
	url string
	err error
}

func (f *fakeStreams) ResolvePlayableURL(ctx context.Context, itemID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.url + itemID, nil
}

func TestPlaybackLaunchesResolvedStream(t *testing.T) {
	launcher := &fakeLauncher{}
	pb := NewPlayback(launcher, &fakeStreams{url: "http://srv/stream/"}, nil)

	node := domain.NavigationNode{
		Title:    "Heat",
		Address:  "jellynav://mov1",
		Playable: true,
	}

	require.NoError(t, pb.Play(context.Background(), node))
	assert.Equal(t, "http://srv/stream/mov1", launcher.url)
	assert.Equal(t, "Heat", launcher.title)
}

func TestPlaybackRejectsNonPlayable(t *testing.T) {
	launcher := &fakeLauncher{}
	pb := NewPlayback(launcher, &fakeStreams{}, nil)

	node := domain.NavigationNode{Title: "Movies", Address: "jellynav://lib1"}

	err := pb.Play(context.Background(), node)
	require.Error(t, err)
	assert.Empty(t, launcher.url)
}

func TestPlaybackPropagatesResolveError(t *testing.T) {
	boom := errors.New("no media sources")
	pb := NewPlayback(&fakeLauncher{}, &fakeStreams{err: boom}, nil)

	node := domain.NavigationNode{Title: "Heat", Address: "jellynav://mov1", Playable: true}

	err := pb.Play(context.Background(), node)
	assert.ErrorIs(t, err, boom)
}
