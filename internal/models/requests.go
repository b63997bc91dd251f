package models

// EnqueueRequest asks the board to add one source.
type EnqueueRequest struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

// TileUpdate is a partial update for a single tile. Nil fields are left
// unchanged.
type TileUpdate struct {
	Title      *string `json:"title,omitempty"`
	Detached   *bool   `json:"detached,omitempty"`
	Fullscreen *bool   `json:"fullscreen,omitempty"`
}

// ReorderRequest carries an externally supplied tile permutation.
type ReorderRequest struct {
	Order []string `json:"order"`
}

// AudioUpdate is a partial update for the audio state.
type AudioUpdate struct {
	Volume *int         `json:"volume,omitempty"`
	Policy *AudioPolicy `json:"policy,omitempty"`
}

// LayoutUpdate changes the grid layout mode.
type LayoutUpdate struct {
	Mode LayoutMode `json:"mode"`
}

// SettingsUpdate is a partial settings update. Nil fields are left unchanged.
type SettingsUpdate struct {
	AudioPolicy             *AudioPolicy       `json:"audio_policy,omitempty"`
	VolumeDefault           *int               `json:"volume_default,omitempty"`
	YTMode                  *string            `json:"yt_mode,omitempty"`
	PerHostBackend          *map[string]string `json:"per_host_preferred_backend,omitempty"`
	PrivacyEmbedOnlyYouTube *bool              `json:"privacy_embed_only_youtube,omitempty"`
	PauseOthersInFullscreen *bool              `json:"pause_others_in_fullscreen,omitempty"`
	LayoutMode              *LayoutMode        `json:"layout_mode,omitempty"`
}

// FeedCreate adds a named feed or playlist bookmark.
type FeedCreate struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// FeedUpdate renames a feed or changes its URL.
type FeedUpdate struct {
	Name *string `json:"name,omitempty"`
	URL  *string `json:"url,omitempty"`
}

// FeedReorder carries a new feed name ordering.
type FeedReorder struct {
	Order []string `json:"order"`
}

// FeedAdd selects one feed by name for enqueueing.
type FeedAdd struct {
	Name string `json:"name"`
}

// PlaylistAdd enqueues channels from a fetched playlist. An empty URLs
// slice means every channel.
type PlaylistAdd struct {
	URLs []string `json:"urls,omitempty"`
}

// PlaylistParseRequest carries raw pasted M3U text.
type PlaylistParseRequest struct {
	Text string `json:"text"`
}
