// Package board implements the playback orchestration core — the single
// source of truth for tiles, grid layout, audio exclusivity, feeds, and
// playlists. All mutations are serialized under one mutex; backend phase
// callbacks and resolution results re-enter through Run's event loop.
package board

import (
	"context"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/farleyman/newsboard-go/internal/classify"
	"github.com/farleyman/newsboard-go/internal/config"
	"github.com/farleyman/newsboard-go/internal/events"
	"github.com/farleyman/newsboard-go/internal/models"
	"github.com/farleyman/newsboard-go/internal/player"
	"github.com/farleyman/newsboard-go/internal/playlist"
	"github.com/farleyman/newsboard-go/internal/resolve"
)

// queueTick is the dequeue interval: one pending source starts per tick
// so a restored board of a dozen streams does not open them all at once.
const queueTick = 120 * time.Millisecond

// backendCallTimeout bounds each individual backend control call.
const backendCallTimeout = 3 * time.Second

// tile is the internal runtime record. The embedded models.Tile is the
// public view; the rest never leaves the package.
type tile struct {
	models.Tile
	backend player.Backend
	// token identifies this backend/resolution incarnation; results and
	// phase events carrying an older token are stale and dropped.
	token        uint64
	stallReloads int
}

// queuedSource is one pending enqueue entry awaiting its tick.
type queuedSource struct {
	raw   string
	url   string
	title string
	kind  models.SourceKind
}

// phaseEvent re-enters a backend phase notification into the
// orchestration domain.
type phaseEvent struct {
	tileID string
	token  uint64
	phase  models.PlaybackPhase
}

// Controller is the orchestrator. All state mutations happen under mu;
// collaborator callbacks deliver into channels consumed by Run.
type Controller struct {
	mu sync.Mutex

	tiles     []*tile
	queue     []queuedSource
	audio     models.AudioState
	settings  models.Settings
	feeds     []models.Feed
	playlists []models.Feed

	factory   player.Factory
	factories map[string]player.Factory
	resolver  *resolve.Resolver
	fetcher   *playlist.Fetcher
	store     config.Store
	bus       *events.Bus

	nextToken uint64
	phaseCh   chan phaseEvent
}

// New creates a controller, loading the persisted document. When restore
// is true the previous board composition is re-enqueued.
func New(factory player.Factory, resolver *resolve.Resolver, fetcher *playlist.Fetcher, store config.Store, bus *events.Bus, restore bool) (*Controller, error) {
	cfg, err := store.Load()
	if err != nil {
		return nil, err
	}

	c := &Controller{
		settings:  cfg.Settings,
		feeds:     cfg.Feeds,
		playlists: cfg.Playlists,
		audio: models.AudioState{
			Policy:     cfg.Settings.AudioPolicy,
			Volume:     cfg.Volume,
			AutoSelect: true,
		},
		factory:   factory,
		factories: map[string]player.Factory{factory.Name(): factory},
		resolver:  resolver,
		fetcher:   fetcher,
		store:     store,
		bus:       bus,
		phaseCh:   make(chan phaseEvent, 64),
	}

	if restore {
		for _, snap := range cfg.Tiles {
			c.enqueueLocked(snap.URL, snap.Title)
		}
		if len(cfg.Tiles) > 0 {
			slog.Info("board: restoring saved tiles", "count", len(cfg.Tiles))
		}
	}
	return c, nil
}

// RegisterFactory makes an additional backend family available for
// per-host backend routing.
func (c *Controller) RegisterFactory(f player.Factory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.factories[f.Name()] = f
}

// Run processes the pending queue, resolution results, and backend phase
// events until ctx is cancelled. Must be called exactly once.
func (c *Controller) Run(ctx context.Context) {
	ticker := time.NewTicker(queueTick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.dequeueOne(ctx)
		case res := <-c.resolver.Results():
			c.onResolved(ctx, res)
		case ev := <-c.phaseCh:
			c.onPhase(ctx, ev)
		}
	}
}

// Shutdown tears down every tile's backend. Called on daemon exit after
// Run has stopped.
func (c *Controller) Shutdown(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range c.tiles {
		c.teardownLocked(ctx, t)
	}
	c.tiles = nil
}

// State returns the full public snapshot.
func (c *Controller) State() models.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// GetInfo returns daemon information.
func (c *Controller) GetInfo() models.Info {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.infoLocked()
}

func (c *Controller) infoLocked() models.Info {
	return models.Info{
		Version: models.Version,
		Backend: c.factory.Name(),
		Mock:    c.factory.Name() == "mock",
	}
}

func (c *Controller) stateLocked() models.State {
	st := models.State{
		Audio:      c.audio,
		LayoutMode: c.settings.LayoutMode,
		Feeds:      append([]models.Feed(nil), c.feeds...),
		Playlists:  append([]models.Feed(nil), c.playlists...),
		Info:       c.infoLocked(),
	}
	for _, t := range c.tiles {
		st.Tiles = append(st.Tiles, t.Tile)
	}
	st.Grid = Place(st.Tiles, c.settings.LayoutMode)
	return st
}

// publishLocked emits the current state on the bus.
func (c *Controller) publishLocked(t events.EventType) {
	c.bus.Publish(t, c.stateLocked())
}

// persistLocked schedules a debounced save of the persistent document:
// settings, feeds, playlists, and the restorable tile composition
// (live tiles first, then still-queued sources).
func (c *Controller) persistLocked() {
	cfg := models.BoardConfig{
		Settings:  c.settings.DeepCopy(),
		Feeds:     append([]models.Feed(nil), c.feeds...),
		Playlists: append([]models.Feed(nil), c.playlists...),
		Volume:    c.audio.Volume,
	}
	for _, t := range c.tiles {
		cfg.Tiles = append(cfg.Tiles, models.TileSnapshot{URL: t.URL, Title: t.Title})
	}
	for _, q := range c.queue {
		cfg.Tiles = append(cfg.Tiles, models.TileSnapshot{URL: q.url, Title: q.title})
	}
	if err := c.store.Save(&cfg); err != nil {
		slog.Error("board: failed to schedule save", "err", err)
	}
}

// canonicalMode maps the privacy settings onto the classifier's output
// form.
func (c *Controller) canonicalModeLocked() classify.CanonicalMode {
	if c.settings.PrivacyEmbedOnlyYouTube || c.settings.YTMode == "embed_only" {
		return classify.ModeEmbed
	}
	return classify.ModeWatch
}

// factoryFor picks the backend family for a host, honoring the per-host
// preference when that family is registered.
func (c *Controller) factoryForLocked(rawURL string) player.Factory {
	if len(c.settings.PerHostBackend) > 0 {
		if u, err := url.Parse(rawURL); err == nil {
			if name, ok := c.settings.PerHostBackend[u.Hostname()]; ok {
				if f, ok := c.factories[name]; ok {
					return f
				}
				slog.Warn("board: preferred backend not available", "host", u.Hostname(), "backend", name)
			}
		}
	}
	return c.factory
}

func (c *Controller) findTileLocked(id string) *tile {
	for _, t := range c.tiles {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// dequeueOne pops at most one queued source per tick and creates its tile.
func (c *Controller) dequeueOne(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.queue) == 0 {
		return
	}
	q := c.queue[0]
	c.queue = c.queue[1:]
	c.createTileLocked(ctx, q)
	c.publishLocked(events.EventTiles)
	c.persistLocked()
}

// createTileLocked allocates the tile, its backend, and either opens the
// source directly or kicks off async resolution.
func (c *Controller) createTileLocked(ctx context.Context, q queuedSource) {
	c.nextToken++
	t := &tile{
		Tile: models.Tile{
			ID:       uuid.NewString(),
			RawInput: q.raw,
			URL:      q.url,
			Title:    q.title,
			Kind:     q.kind,
			Phase:    models.PhaseLoading,
			Muted:    true,
		},
		token: c.nextToken,
	}

	factory := c.factoryForLocked(q.url)
	t.Backend = factory.Name()
	backend, err := factory.New(t.ID)
	if err != nil {
		slog.Error("board: backend creation failed", "id", t.ID, "err", err)
		t.Phase = models.PhaseInvalid
		t.Status = "backend unavailable"
		c.tiles = append(c.tiles, t)
		return
	}
	t.backend = backend
	c.tiles = append(c.tiles, t)
	go c.pumpPhases(t.ID, t.token, backend.Phases())

	slog.Info("board: tile created", "id", t.ID, "kind", t.Kind, "url", t.URL)
	c.startPlaybackLocked(ctx, t)
}

// startPlaybackLocked opens a direct source immediately or schedules
// resolution for indirect ones.
func (c *Controller) startPlaybackLocked(ctx context.Context, t *tile) {
	switch t.Kind {
	case models.KindYouTubeWatch, models.KindYouTubeChannelLive:
		if c.canonicalModeLocked() == classify.ModeEmbed {
			// Embed mode hands the page URL straight to the backend; the
			// rendering collaborator embeds it rather than demuxing.
			t.Resolution = models.ResolutionNotNeeded
			t.DirectURL = t.URL
			c.openTileLocked(ctx, t)
			return
		}
		t.Resolution = models.ResolutionPending
		c.resolver.Resolve(t.ID, t.token, t.URL)
	default:
		t.Resolution = models.ResolutionNotNeeded
		t.DirectURL = t.URL
		c.openTileLocked(ctx, t)
	}
}

// openTileLocked asks the backend to open the tile's direct URL and
// asserts the current audio decision on the new player.
func (c *Controller) openTileLocked(ctx context.Context, t *tile) {
	cctx, cancel := context.WithTimeout(ctx, backendCallTimeout)
	defer cancel()
	if err := t.backend.Open(cctx, t.DirectURL); err != nil {
		slog.Warn("board: open failed", "id", t.ID, "err", err)
		t.Phase = models.PhaseInvalid
		t.Status = "open failed"
		return
	}
	c.bumpAudioLocked()
}

// pumpPhases forwards one backend's phase stream into the orchestration
// loop. Exits when the backend closes the stream.
func (c *Controller) pumpPhases(tileID string, token uint64, phases <-chan models.PlaybackPhase) {
	for p := range phases {
		c.phaseCh <- phaseEvent{tileID: tileID, token: token, phase: p}
	}
}

// onResolved applies an asynchronous resolution result. Results for
// removed or reloaded tiles carry a stale token and are dropped.
func (c *Controller) onResolved(ctx context.Context, res resolve.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.findTileLocked(res.TileID)
	if t == nil || t.token != res.Token {
		slog.Debug("board: dropping stale resolution", "id", res.TileID)
		return
	}

	if res.Err != nil {
		t.Resolution = models.ResolutionFailed
		t.Phase = models.PhaseInvalid
		t.Status = "resolution failed"
		c.publishLocked(events.EventTiles)
		return
	}

	t.Resolution = models.ResolutionResolved
	t.DirectURL = res.URL
	if t.Title == "" && res.Title != "" {
		t.Title = res.Title
	}
	c.openTileLocked(ctx, t)
	c.publishLocked(events.EventTiles)
	c.persistLocked()
}

// onPhase applies one backend phase notification.
func (c *Controller) onPhase(ctx context.Context, ev phaseEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.findTileLocked(ev.tileID)
	if t == nil || t.token != ev.token {
		return
	}

	t.Phase = ev.phase
	switch ev.phase {
	case models.PhasePlaying:
		t.Status = ""
		t.stallReloads = 0
		c.onTilePlayableLocked(t)
	case models.PhaseStalled:
		if t.stallReloads < maxStallReloads {
			t.stallReloads++
			slog.Warn("board: tile stalled, reloading", "id", t.ID, "attempt", t.stallReloads)
			c.reloadTileLocked(ctx, t, t.stallReloads)
		} else {
			t.Status = "stalled"
		}
	case models.PhaseInvalid:
		t.Status = "playback failed"
	}
	c.publishLocked(events.EventTiles)
}
