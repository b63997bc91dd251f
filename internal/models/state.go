// Package models defines the data structures for the NewsBoard daemon.
// JSON field names match the settings files of earlier NewsBoard releases
// so existing profiles keep working.
package models

// SourceKind is the classification of a raw input URL.
type SourceKind string

const (
	// KindDirect is a plain http(s) media URL the backend can open as-is.
	KindDirect SourceKind = "direct"
	// KindYouTubeWatch is a YouTube video page that must be resolved first.
	KindYouTubeWatch SourceKind = "youtube_watch"
	// KindYouTubeChannelLive is a YouTube channel live page.
	KindYouTubeChannelLive SourceKind = "youtube_channel_live"
	// KindOther is anything we could not classify; passed through untouched.
	KindOther SourceKind = "other"
)

// ResolutionState tracks the indirect-URL → direct-URL resolution step.
// Transitions only move forward; a reload starts over with a fresh record.
type ResolutionState string

const (
	ResolutionNotNeeded ResolutionState = "not_needed"
	ResolutionPending   ResolutionState = "pending"
	ResolutionResolved  ResolutionState = "resolved"
	ResolutionFailed    ResolutionState = "failed"
)

// PlaybackPhase is the category of backend playback state that drives
// retry and status behavior. Backend-specific buffering states are
// collapsed into these five.
type PlaybackPhase string

const (
	PhaseLoading   PlaybackPhase = "loading"
	PhaseBuffering PlaybackPhase = "buffering"
	PhasePlaying   PlaybackPhase = "playing"
	PhaseStalled   PlaybackPhase = "stalled"
	PhaseInvalid   PlaybackPhase = "invalid"
)

// AudioPolicy governs how many tiles may produce audio at once.
type AudioPolicy string

const (
	// PolicySingle allows at most one unmuted tile system-wide.
	PolicySingle AudioPolicy = "single"
	// PolicyMixed lets every tile manage its own mute state.
	PolicyMixed AudioPolicy = "mixed"
)

// LayoutMode selects the grid shape.
type LayoutMode string

const (
	LayoutAuto LayoutMode = "auto"
	Layout2x2  LayoutMode = "2x2"
	Layout3x3  LayoutMode = "3x3"
	Layout1xN  LayoutMode = "1xN"
	LayoutNx1  LayoutMode = "Nx1"
)

// Tile is the public record of one playback session on the board.
type Tile struct {
	ID         string          `json:"id"`
	RawInput   string          `json:"raw_input"`
	URL        string          `json:"url"` // canonical form after classification
	Title      string          `json:"title"`
	Kind       SourceKind      `json:"kind"`
	Resolution ResolutionState `json:"resolution"`
	DirectURL  string          `json:"direct_url,omitempty"`
	Phase      PlaybackPhase   `json:"phase"`
	Muted      bool            `json:"muted"`
	Fullscreen bool            `json:"fullscreen"`
	Detached   bool            `json:"detached"` // picture-in-picture, out of the grid
	Status     string          `json:"status,omitempty"`
	Backend    string          `json:"backend"`
}

// AudioState is the exclusivity enforcer's public state.
type AudioState struct {
	Policy       AudioPolicy `json:"policy"`
	ActiveTileID string      `json:"active_tile_id,omitempty"`
	Volume       int         `json:"volume"` // 0-100, applied to the active tile
	AutoSelect   bool        `json:"auto_select"`
	Generation   uint64      `json:"generation"`
}

// Cell is one tile's grid placement.
type Cell struct {
	TileID string `json:"tile_id"`
	Row    int    `json:"row"`
	Col    int    `json:"col"`
}

// Grid is the computed placement of all attached tiles.
type Grid struct {
	Rows  int    `json:"rows"`
	Cols  int    `json:"cols"`
	Cells []Cell `json:"cells"`
}

// Feed is a named, user-orderable URL. The same shape backs both news
// feeds and M3U playlist bookmarks.
type Feed struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Entry is one channel parsed out of an M3U playlist.
type Entry struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Settings are the user-tunable knobs. The struct is treated as immutable:
// the controller swaps in a fresh copy on change, never mutates in place.
type Settings struct {
	AudioPolicy             AudioPolicy       `json:"audio_policy"`
	VolumeDefault           int               `json:"volume_default"`
	YTMode                  string            `json:"yt_mode"` // "direct_when_possible" | "embed_only"
	PerHostBackend          map[string]string `json:"per_host_preferred_backend,omitempty"`
	PrivacyEmbedOnlyYouTube bool              `json:"privacy_embed_only_youtube"`
	PauseOthersInFullscreen bool              `json:"pause_others_in_fullscreen"`
	LayoutMode              LayoutMode        `json:"layout_mode"`
}

// TileSnapshot is the persisted form of a tile, just enough to restore it.
type TileSnapshot struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// BoardConfig is the complete persisted document (settings, lists, and the
// last board composition). Runtime playback state is never persisted.
type BoardConfig struct {
	Settings  Settings       `json:"settings"`
	Feeds     []Feed         `json:"feeds"`
	Playlists []Feed         `json:"playlists"`
	Tiles     []TileSnapshot `json:"tiles"`
	Volume    int            `json:"active_volume"`
}

// Info is the daemon information response.
type Info struct {
	Version string `json:"version"`
	Backend string `json:"backend"`
	Mock    bool   `json:"mock"`
}

// State is the complete public snapshot returned by GET /api and streamed
// over SSE after every change.
type State struct {
	Tiles      []Tile     `json:"tiles"`
	Audio      AudioState `json:"audio"`
	LayoutMode LayoutMode `json:"layout_mode"`
	Grid       Grid       `json:"grid"`
	Feeds      []Feed     `json:"feeds"`
	Playlists  []Feed     `json:"playlists"`
	Info       Info       `json:"info"`
}

// DeepCopy returns an independent copy of the config.
func (c BoardConfig) DeepCopy() BoardConfig {
	cp := c
	cp.Feeds = append([]Feed(nil), c.Feeds...)
	cp.Playlists = append([]Feed(nil), c.Playlists...)
	cp.Tiles = append([]TileSnapshot(nil), c.Tiles...)
	cp.Settings = c.Settings.DeepCopy()
	return cp
}

// DeepCopy returns an independent copy of the settings.
func (s Settings) DeepCopy() Settings {
	cp := s
	if s.PerHostBackend != nil {
		cp.PerHostBackend = make(map[string]string, len(s.PerHostBackend))
		for k, v := range s.PerHostBackend {
			cp.PerHostBackend[k] = v
		}
	}
	return cp
}

// DeepCopy returns an independent copy of the state.
func (s State) DeepCopy() State {
	cp := s
	cp.Tiles = append([]Tile(nil), s.Tiles...)
	cp.Feeds = append([]Feed(nil), s.Feeds...)
	cp.Playlists = append([]Feed(nil), s.Playlists...)
	cp.Grid.Cells = append([]Cell(nil), s.Grid.Cells...)
	return cp
}
