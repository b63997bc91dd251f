package board

import (
	"context"
	"log/slog"
	"time"

	"github.com/farleyman/newsboard-go/internal/events"
	"github.com/farleyman/newsboard-go/internal/models"
)

// Audio convergence: every decision is applied immediately and then
// re-applied audioRetryCount times at growing delays, because backend
// mute/volume writes are asynchronous and occasionally lost under load.
// Each scheduled pass carries the generation it belongs to and is a no-op
// once the generation has advanced.
const (
	audioRetryCount = 6
	audioRetryDelay = 150 * time.Millisecond
)

// SelectAudio selects or toggles a tile's audio. Under the single policy
// selecting the active tile deactivates it and disables auto-select;
// selecting another tile activates it exclusively and re-enables
// auto-select. Under the mixed policy the tile's own mute is toggled
// locally.
func (c *Controller) SelectAudio(id string) (models.State, *models.AppError) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.findTileLocked(id)
	if t == nil {
		return models.State{}, models.ErrNotFound("tile not found")
	}

	if c.audio.Policy == models.PolicyMixed {
		t.Muted = !t.Muted
		if t.backend != nil {
			cctx, cancel := context.WithTimeout(context.Background(), backendCallTimeout)
			if err := t.backend.SetMuted(cctx, t.Muted); err != nil {
				slog.Debug("board: mute toggle failed", "id", id, "err", err)
			}
			if !t.Muted {
				if err := t.backend.SetVolume(cctx, float64(c.audio.Volume)/100); err != nil {
					slog.Debug("board: volume set failed", "id", id, "err", err)
				}
			}
			cancel()
		}
		c.publishLocked(events.EventAudio)
		return c.stateLocked(), nil
	}

	if c.audio.ActiveTileID == id {
		c.audio.ActiveTileID = ""
		c.audio.AutoSelect = false
		slog.Info("board: audio deselected", "id", id)
	} else {
		c.audio.ActiveTileID = id
		c.audio.AutoSelect = true
		slog.Info("board: audio selected", "id", id)
	}
	c.bumpAudioLocked()
	c.publishLocked(events.EventAudio)
	return c.stateLocked(), nil
}

// SetAudio applies a partial audio update (volume and/or policy).
func (c *Controller) SetAudio(upd models.AudioUpdate) (models.State, *models.AppError) {
	c.mu.Lock()
	defer c.mu.Unlock()

	changed := false
	if upd.Volume != nil {
		c.audio.Volume = models.ClampVolume(*upd.Volume)
		changed = true
	}
	if upd.Policy != nil {
		switch *upd.Policy {
		case models.PolicySingle, models.PolicyMixed:
		default:
			return models.State{}, models.ErrBadRequest("policy must be single or mixed")
		}
		if *upd.Policy != c.audio.Policy {
			c.audio.Policy = *upd.Policy
			c.settings.AudioPolicy = *upd.Policy
			if c.audio.Policy == models.PolicySingle {
				c.audio.AutoSelect = true
			}
			changed = true
		}
	}
	if changed {
		c.bumpAudioLocked()
		c.publishLocked(events.EventAudio)
		c.persistLocked()
	}
	return c.stateLocked(), nil
}

// onTilePlayableLocked lets the first successfully starting tile claim
// audio without a user click.
func (c *Controller) onTilePlayableLocked(t *tile) {
	if c.audio.Policy != models.PolicySingle {
		return
	}
	if c.audio.ActiveTileID == "" && c.audio.AutoSelect {
		c.audio.ActiveTileID = t.ID
		slog.Info("board: audio auto-selected", "id", t.ID)
		c.bumpAudioLocked()
	}
}

// onTileRemovedLocked transfers audio ownership when the active tile goes
// away: the first remaining tile becomes active and auto-select is
// re-enabled.
func (c *Controller) onTileRemovedLocked(id string) {
	if c.audio.ActiveTileID != id {
		return
	}
	c.audio.ActiveTileID = ""
	if c.audio.Policy == models.PolicySingle && len(c.tiles) > 0 {
		c.audio.ActiveTileID = c.tiles[0].ID
		c.audio.AutoSelect = true
		slog.Info("board: audio promoted", "id", c.audio.ActiveTileID)
	}
	c.bumpAudioLocked()
}

// bumpAudioLocked advances the enforcement generation, applies the
// decision now, and schedules the generation-checked re-applications.
func (c *Controller) bumpAudioLocked() {
	c.audio.Generation++
	gen := c.audio.Generation
	c.applyAudioLocked()

	for i := 1; i <= audioRetryCount; i++ {
		time.AfterFunc(time.Duration(i)*audioRetryDelay, func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if c.audio.Generation != gen {
				return
			}
			c.applyAudioLocked()
		})
	}
}

// applyAudioLocked asserts the current decision on every backend: under
// the single policy mute all but the active tile and re-push the active
// tile's volume; under mixed re-push each tile's own mute state.
func (c *Controller) applyAudioLocked() {
	ctx, cancel := context.WithTimeout(context.Background(), backendCallTimeout)
	defer cancel()

	for _, t := range c.tiles {
		if c.audio.Policy == models.PolicySingle {
			t.Muted = t.ID != c.audio.ActiveTileID
		}
		if t.backend == nil {
			continue
		}
		if err := t.backend.SetMuted(ctx, t.Muted); err != nil {
			slog.Debug("board: enforce mute failed", "id", t.ID, "err", err)
		}
		if !t.Muted {
			if err := t.backend.SetVolume(ctx, float64(c.audio.Volume)/100); err != nil {
				slog.Debug("board: enforce volume failed", "id", t.ID, "err", err)
			}
		}
	}
}
