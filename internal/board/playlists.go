package board

import (
	"context"
	"strings"

	"github.com/farleyman/newsboard-go/internal/events"
	"github.com/farleyman/newsboard-go/internal/models"
	"github.com/farleyman/newsboard-go/internal/playlist"
)

// GetPlaylists returns the playlist bookmarks in order.
func (c *Controller) GetPlaylists() []models.Feed {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Feed(nil), c.playlists...)
}

// CreatePlaylist adds a named playlist bookmark.
func (c *Controller) CreatePlaylist(req models.FeedCreate) (models.State, *models.AppError) {
	if appErr := validateFeed(req.Name, req.URL); appErr != nil {
		return models.State{}, appErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if findFeed(c.playlists, req.Name) >= 0 {
		return models.State{}, models.ErrConflict("playlist already exists")
	}
	c.playlists = append(c.playlists, models.Feed{Name: req.Name, URL: req.URL})
	c.publishLocked(events.EventFeeds)
	c.persistLocked()
	return c.stateLocked(), nil
}

// DeletePlaylist removes a playlist bookmark by name.
func (c *Controller) DeletePlaylist(name string) (models.State, *models.AppError) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := findFeed(c.playlists, name)
	if i < 0 {
		return models.State{}, models.ErrNotFound("playlist not found")
	}
	c.playlists = append(c.playlists[:i], c.playlists[i+1:]...)
	c.publishLocked(events.EventFeeds)
	c.persistLocked()
	return c.stateLocked(), nil
}

// PlaylistChannels fetches and parses a playlist without enqueueing
// anything.
func (c *Controller) PlaylistChannels(ctx context.Context, name string) ([]models.Entry, *models.AppError) {
	c.mu.Lock()
	i := findFeed(c.playlists, name)
	if i < 0 {
		c.mu.Unlock()
		return nil, models.ErrNotFound("playlist not found")
	}
	url := c.playlists[i].URL
	c.mu.Unlock()

	// Network fetch runs outside the lock; a slow playlist host must not
	// stall the board.
	text, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, models.ErrUpstream("playlist fetch failed: " + err.Error())
	}
	return playlist.Parse(text), nil
}

// AddPlaylistChannels fetches a playlist and enqueues its channels — all
// of them, or just the subset named in req.URLs.
func (c *Controller) AddPlaylistChannels(ctx context.Context, name string, req models.PlaylistAdd) (models.State, *models.AppError) {
	entries, appErr := c.PlaylistChannels(ctx, name)
	if appErr != nil {
		return models.State{}, appErr
	}

	var wanted map[string]bool
	if len(req.URLs) > 0 {
		wanted = make(map[string]bool, len(req.URLs))
		for _, u := range req.URLs {
			wanted[u] = true
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range entries {
		if wanted != nil && !wanted[e.URL] {
			continue
		}
		c.enqueueLocked(e.URL, e.Name)
	}
	c.publishLocked(events.EventTiles)
	c.persistLocked()
	return c.stateLocked(), nil
}

// ParsePlaylistText parses raw pasted M3U (or bare URL list) text.
func (c *Controller) ParsePlaylistText(text string) ([]models.Entry, *models.AppError) {
	if strings.TrimSpace(text) == "" {
		return nil, models.ErrBadRequest("text is required")
	}
	return playlist.Parse(text), nil
}
