package board

import (
	"strings"

	"github.com/farleyman/newsboard-go/internal/events"
	"github.com/farleyman/newsboard-go/internal/models"
)

// Feeds are named single-stream bookmarks; playlists are named M3U
// sources. Both share the same list semantics: insertion order matters
// and is user-reorderable.

func findFeed(list []models.Feed, name string) int {
	for i := range list {
		if list[i].Name == name {
			return i
		}
	}
	return -1
}

// GetFeeds returns the feed list in order.
func (c *Controller) GetFeeds() []models.Feed {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Feed(nil), c.feeds...)
}

// CreateFeed adds a named feed. Names are unique.
func (c *Controller) CreateFeed(req models.FeedCreate) (models.State, *models.AppError) {
	if appErr := validateFeed(req.Name, req.URL); appErr != nil {
		return models.State{}, appErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if findFeed(c.feeds, req.Name) >= 0 {
		return models.State{}, models.ErrConflict("feed already exists")
	}
	c.feeds = append(c.feeds, models.Feed{Name: req.Name, URL: req.URL})
	c.publishLocked(events.EventFeeds)
	c.persistLocked()
	return c.stateLocked(), nil
}

// UpdateFeed renames a feed or changes its URL.
func (c *Controller) UpdateFeed(name string, upd models.FeedUpdate) (models.State, *models.AppError) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := findFeed(c.feeds, name)
	if i < 0 {
		return models.State{}, models.ErrNotFound("feed not found")
	}
	if upd.Name != nil && *upd.Name != name {
		if strings.TrimSpace(*upd.Name) == "" {
			return models.State{}, models.ErrBadRequest("name must not be empty")
		}
		if findFeed(c.feeds, *upd.Name) >= 0 {
			return models.State{}, models.ErrConflict("feed already exists")
		}
		c.feeds[i].Name = *upd.Name
	}
	if upd.URL != nil {
		if strings.TrimSpace(*upd.URL) == "" {
			return models.State{}, models.ErrBadRequest("url must not be empty")
		}
		c.feeds[i].URL = *upd.URL
	}
	c.publishLocked(events.EventFeeds)
	c.persistLocked()
	return c.stateLocked(), nil
}

// DeleteFeed removes a feed by name.
func (c *Controller) DeleteFeed(name string) (models.State, *models.AppError) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := findFeed(c.feeds, name)
	if i < 0 {
		return models.State{}, models.ErrNotFound("feed not found")
	}
	c.feeds = append(c.feeds[:i], c.feeds[i+1:]...)
	c.publishLocked(events.EventFeeds)
	c.persistLocked()
	return c.stateLocked(), nil
}

// ReorderFeeds applies a user permutation; feeds missing from the order
// keep their relative position after the reordered ones.
func (c *Controller) ReorderFeeds(req models.FeedReorder) (models.State, *models.AppError) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.feeds = reorderFeeds(c.feeds, req.Order)
	c.publishLocked(events.EventFeeds)
	c.persistLocked()
	return c.stateLocked(), nil
}

func reorderFeeds(list []models.Feed, order []string) []models.Feed {
	seen := make(map[string]bool, len(order))
	next := make([]models.Feed, 0, len(list))
	for _, name := range order {
		if seen[name] {
			continue
		}
		if i := findFeed(list, name); i >= 0 {
			next = append(next, list[i])
			seen[name] = true
		}
	}
	for _, f := range list {
		if !seen[f.Name] {
			next = append(next, f)
		}
	}
	return next
}

// AddFeedTile enqueues one feed as a tile.
func (c *Controller) AddFeedTile(req models.FeedAdd) (models.State, *models.AppError) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := findFeed(c.feeds, req.Name)
	if i < 0 {
		return models.State{}, models.ErrNotFound("feed not found")
	}
	c.enqueueLocked(c.feeds[i].URL, c.feeds[i].Name)
	c.publishLocked(events.EventTiles)
	c.persistLocked()
	return c.stateLocked(), nil
}

// AddAllFeeds enqueues every feed in list order.
func (c *Controller) AddAllFeeds() (models.State, *models.AppError) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, f := range c.feeds {
		c.enqueueLocked(f.URL, f.Name)
	}
	c.publishLocked(events.EventTiles)
	c.persistLocked()
	return c.stateLocked(), nil
}

func validateFeed(name, url string) *models.AppError {
	if strings.TrimSpace(name) == "" {
		return models.ErrBadRequest("name is required")
	}
	if strings.TrimSpace(url) == "" {
		return models.ErrBadRequest("url is required")
	}
	return nil
}
