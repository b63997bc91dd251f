package board

import (
	"context"
	"log/slog"
	"strings"

	"github.com/farleyman/newsboard-go/internal/classify"
	"github.com/farleyman/newsboard-go/internal/events"
	"github.com/farleyman/newsboard-go/internal/models"
)

// maxStallReloads bounds automatic recovery per tile; after that the tile
// keeps a persistent stalled status until a manual reload.
const maxStallReloads = 3

// Enqueue classifies the input and appends it to the pending queue. The
// tile itself is created on a later queue tick.
func (c *Controller) Enqueue(req models.EnqueueRequest) (models.State, *models.AppError) {
	if strings.TrimSpace(req.URL) == "" {
		return models.State{}, models.ErrBadRequest("url is required")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enqueueLocked(req.URL, req.Title)
	c.publishLocked(events.EventTiles)
	c.persistLocked()
	return c.stateLocked(), nil
}

func (c *Controller) enqueueLocked(rawURL, title string) {
	res := classify.Classify(rawURL, c.canonicalModeLocked())
	c.queue = append(c.queue, queuedSource{
		raw:   rawURL,
		url:   res.CanonicalURL,
		title: title,
		kind:  res.Kind,
	})
	slog.Info("board: enqueued", "url", res.CanonicalURL, "kind", res.Kind, "pending", len(c.queue))
}

// GetTiles returns the tile list in board order.
func (c *Controller) GetTiles() []models.Tile {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Tile, 0, len(c.tiles))
	for _, t := range c.tiles {
		out = append(out, t.Tile)
	}
	return out
}

// GetTile returns one tile by id.
func (c *Controller) GetTile(id string) (*models.Tile, *models.AppError) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.findTileLocked(id)
	if t == nil {
		return nil, models.ErrNotFound("tile not found")
	}
	cp := t.Tile
	return &cp, nil
}

// RemoveTile tears the tile down and, when it owned audio, promotes the
// first remaining tile.
func (c *Controller) RemoveTile(ctx context.Context, id string) (models.State, *models.AppError) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := -1
	for i, t := range c.tiles {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.State{}, models.ErrNotFound("tile not found")
	}

	t := c.tiles[idx]
	c.teardownLocked(ctx, t)
	c.tiles = append(c.tiles[:idx], c.tiles[idx+1:]...)
	slog.Info("board: tile removed", "id", id)

	c.onTileRemovedLocked(id)
	c.publishLocked(events.EventTiles)
	c.persistLocked()
	return c.stateLocked(), nil
}

// ClearTiles removes every tile and drains the pending queue.
func (c *Controller) ClearTiles(ctx context.Context) (models.State, *models.AppError) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, t := range c.tiles {
		c.teardownLocked(ctx, t)
	}
	c.tiles = nil
	c.queue = nil
	c.audio.ActiveTileID = ""
	c.audio.AutoSelect = true
	c.audio.Generation++
	slog.Info("board: cleared all tiles")

	c.publishLocked(events.EventTiles)
	c.persistLocked()
	return c.stateLocked(), nil
}

// ReorderTiles applies an externally supplied permutation. Tiles missing
// from the order (detached picture-in-picture tiles, usually) are
// appended after the reordered ones, never dropped.
func (c *Controller) ReorderTiles(req models.ReorderRequest) (models.State, *models.AppError) {
	c.mu.Lock()
	defer c.mu.Unlock()

	seen := make(map[string]bool, len(req.Order))
	next := make([]*tile, 0, len(c.tiles))
	for _, id := range req.Order {
		if seen[id] {
			continue
		}
		if t := c.findTileLocked(id); t != nil {
			next = append(next, t)
			seen[id] = true
		}
	}
	for _, t := range c.tiles {
		if !seen[t.ID] {
			next = append(next, t)
		}
	}
	c.tiles = next

	c.publishLocked(events.EventLayout)
	c.persistLocked()
	return c.stateLocked(), nil
}

// UpdateTile applies a partial update: rename, detach/reattach, or
// fullscreen toggle with optional pause-others.
func (c *Controller) UpdateTile(ctx context.Context, id string, upd models.TileUpdate) (models.State, *models.AppError) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.findTileLocked(id)
	if t == nil {
		return models.State{}, models.ErrNotFound("tile not found")
	}

	if upd.Title != nil {
		t.Title = *upd.Title
	}
	if upd.Detached != nil {
		t.Detached = *upd.Detached
	}
	if upd.Fullscreen != nil && *upd.Fullscreen != t.Fullscreen {
		t.Fullscreen = *upd.Fullscreen
		c.applyFullscreenLocked(ctx, t)
	}

	c.publishLocked(events.EventTiles)
	c.persistLocked()
	return c.stateLocked(), nil
}

// applyFullscreenLocked enforces single-fullscreen and, when configured,
// pauses every other tile while one is fullscreen.
func (c *Controller) applyFullscreenLocked(ctx context.Context, t *tile) {
	if t.Fullscreen {
		for _, other := range c.tiles {
			if other == t {
				continue
			}
			other.Fullscreen = false
			if c.settings.PauseOthersInFullscreen && other.backend != nil {
				cctx, cancel := context.WithTimeout(ctx, backendCallTimeout)
				if err := other.backend.Pause(cctx); err != nil {
					slog.Debug("board: pause failed", "id", other.ID, "err", err)
				}
				cancel()
			}
		}
		return
	}
	// Leaving fullscreen resumes everything that was paused on entry.
	if c.settings.PauseOthersInFullscreen {
		for _, other := range c.tiles {
			if other == t || other.backend == nil {
				continue
			}
			cctx, cancel := context.WithTimeout(ctx, backendCallTimeout)
			if err := other.backend.Play(cctx); err != nil {
				slog.Debug("board: resume failed", "id", other.ID, "err", err)
			}
			cancel()
		}
	}
}

// ReloadTile discards the tile's backend and resolution and starts over.
// Manual reloads reset the automatic stall-recovery budget.
func (c *Controller) ReloadTile(ctx context.Context, id string) (models.State, *models.AppError) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.findTileLocked(id)
	if t == nil {
		return models.State{}, models.ErrNotFound("tile not found")
	}
	c.reloadTileLocked(ctx, t, 0)
	c.publishLocked(events.EventTiles)
	return c.stateLocked(), nil
}

// ReloadAll reloads every tile.
func (c *Controller) ReloadAll(ctx context.Context) (models.State, *models.AppError) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range c.tiles {
		c.reloadTileLocked(ctx, t, 0)
	}
	c.publishLocked(events.EventTiles)
	return c.stateLocked(), nil
}

// reloadTileLocked tears down the old backend, constructs a fresh one
// (a stalled player instance is never reused), and restarts playback with
// a new token so in-flight results for the old incarnation are dropped.
func (c *Controller) reloadTileLocked(ctx context.Context, t *tile, stallReloads int) {
	c.teardownLocked(ctx, t)

	c.nextToken++
	t.token = c.nextToken
	t.stallReloads = stallReloads
	t.Phase = models.PhaseLoading
	t.Status = ""
	t.DirectURL = ""
	t.Resolution = ""

	factory := c.factoryForLocked(t.URL)
	t.Backend = factory.Name()
	backend, err := factory.New(t.ID)
	if err != nil {
		slog.Error("board: backend creation failed on reload", "id", t.ID, "err", err)
		t.Phase = models.PhaseInvalid
		t.Status = "backend unavailable"
		return
	}
	t.backend = backend
	go c.pumpPhases(t.ID, t.token, backend.Phases())
	c.startPlaybackLocked(ctx, t)
}

// teardownLocked releases a tile's backend deterministically: stop,
// detach audio, clear source, close. Every step's error is swallowed
// individually so one failing step never blocks the rest.
func (c *Controller) teardownLocked(ctx context.Context, t *tile) {
	if t.backend == nil {
		return
	}
	b := t.backend
	t.backend = nil

	cctx, cancel := context.WithTimeout(ctx, backendCallTimeout)
	defer cancel()
	if err := b.Stop(cctx); err != nil {
		slog.Debug("board: teardown stop failed", "id", t.ID, "err", err)
	}
	if err := b.SetMuted(cctx, true); err != nil {
		slog.Debug("board: teardown mute failed", "id", t.ID, "err", err)
	}
	if err := b.SetVolume(cctx, 0); err != nil {
		slog.Debug("board: teardown volume failed", "id", t.ID, "err", err)
	}
	if err := b.ClearSource(cctx); err != nil {
		slog.Debug("board: teardown clear failed", "id", t.ID, "err", err)
	}
	if err := b.Close(); err != nil {
		slog.Debug("board: teardown close failed", "id", t.ID, "err", err)
	}
}

// PendingCount reports how many sources are still queued.
func (c *Controller) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}
