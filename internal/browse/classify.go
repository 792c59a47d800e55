package browse

import "jellynav/internal/domain"

// Node categories. Directory is the safe default: an unknown type tag is
// always treated as a browsable container, never as a playable leaf.
const (
	CategoryMovie     = "Movie"
	CategoryEpisode   = "Episode"
	CategorySeason    = "Season"
	CategorySeries    = "Series"
	CategoryArtist    = "Artist"
	CategoryAlbum     = "Album"
	CategoryTrack     = "Track"
	CategoryPlaylist  = "Playlist"
	CategoryChannel   = "Channel"
	CategoryVideo     = "Video"
	CategoryRecording = "Recording"
	CategoryBoxSet    = "Collection"
	CategoryDirectory = "Directory"
)

// Class is the uniform classification of a remote item: how it renders,
// whether it can be played, and whether it can be browsed into.
type Class struct {
	Category    string
	ContentType string
	Playable    bool
	Expandable  bool
}

// itemClasses maps a Jellyfin item type tag to its class. Each entry
// hard-codes its own playable/expandable pair.
var itemClasses = map[string]Class{
	"Movie":            {CategoryMovie, "movie", true, false},
	"Episode":          {CategoryEpisode, "episode", true, false},
	"Season":           {CategorySeason, "season", false, true},
	"Series":           {CategorySeries, "series", false, true},
	"MusicArtist":      {CategoryArtist, "artist", false, true},
	"MusicAlbum":       {CategoryAlbum, "album", true, true},
	"Audio":            {CategoryTrack, "track", true, false},
	"Playlist":         {CategoryPlaylist, "playlist", true, true},
	"TvChannel":        {CategoryChannel, "channel", true, false},
	"Video":            {CategoryVideo, "video", true, false},
	"Trailer":          {CategoryVideo, "trailer", true, false},
	"Recording":        {CategoryRecording, "recording", true, false},
	"RecordingSeries":  {CategoryRecording, "recordings", false, true},
	"BoxSet":           {CategoryBoxSet, "collection", false, true},
	"Folder":           {CategoryDirectory, "directory", false, true},
	"CollectionFolder": {CategoryDirectory, "directory", false, true},
	"UserView":         {CategoryDirectory, "directory", false, true},
}

// collectionClasses maps a library root's collection-type tag to a
// category and content-type label. Library roots are always browsable
// directories.
var collectionClasses = map[string]struct {
	Category    string
	ContentType string
}{
	"movies":    {CategoryMovie, "movies"},
	"tvshows":   {CategorySeries, "tvshows"},
	"music":     {CategoryArtist, "music"},
	"livetv":    {CategoryChannel, "livetv"},
	"playlists": {CategoryPlaylist, "playlists"},
}

var defaultClass = Class{CategoryDirectory, "directory", false, true}

// Classify maps a remote item to its class. The specific type tag wins
// over the collection-type tag. Total: every input maps to exactly one
// class.
func Classify(item domain.LibraryItem) Class {
	if class, ok := itemClasses[item.Type]; ok {
		return class
	}
	if cc, ok := collectionClasses[item.CollectionType]; ok {
		return Class{Category: cc.Category, ContentType: cc.ContentType, Playable: false, Expandable: true}
	}
	return defaultClass
}
