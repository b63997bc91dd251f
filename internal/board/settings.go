package board

import (
	"log/slog"
	"reflect"

	"github.com/farleyman/newsboard-go/internal/events"
	"github.com/farleyman/newsboard-go/internal/models"
)

// SetLayout switches the grid layout mode.
func (c *Controller) SetLayout(upd models.LayoutUpdate) (models.State, *models.AppError) {
	switch upd.Mode {
	case models.LayoutAuto, models.Layout2x2, models.Layout3x3, models.Layout1xN, models.LayoutNx1:
	default:
		return models.State{}, models.ErrBadRequest("unknown layout mode")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings.LayoutMode = upd.Mode
	c.publishLocked(events.EventLayout)
	c.persistLocked()
	return c.stateLocked(), nil
}

// GetSettings returns the current settings.
func (c *Controller) GetSettings() models.Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings.DeepCopy()
}

// UpdateSettings applies a partial settings update. The settings struct
// is replaced wholesale, never mutated while readers hold it.
func (c *Controller) UpdateSettings(upd models.SettingsUpdate) (models.State, *models.AppError) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.settings.DeepCopy()
	if upd.AudioPolicy != nil {
		switch *upd.AudioPolicy {
		case models.PolicySingle, models.PolicyMixed:
		default:
			return models.State{}, models.ErrBadRequest("audio_policy must be single or mixed")
		}
		next.AudioPolicy = *upd.AudioPolicy
	}
	if upd.VolumeDefault != nil {
		next.VolumeDefault = models.ClampVolume(*upd.VolumeDefault)
	}
	if upd.YTMode != nil {
		if *upd.YTMode != "direct_when_possible" && *upd.YTMode != "embed_only" {
			return models.State{}, models.ErrBadRequest("yt_mode must be direct_when_possible or embed_only")
		}
		next.YTMode = *upd.YTMode
	}
	if upd.PerHostBackend != nil {
		next.PerHostBackend = *upd.PerHostBackend
	}
	if upd.PrivacyEmbedOnlyYouTube != nil {
		next.PrivacyEmbedOnlyYouTube = *upd.PrivacyEmbedOnlyYouTube
	}
	if upd.PauseOthersInFullscreen != nil {
		next.PauseOthersInFullscreen = *upd.PauseOthersInFullscreen
	}
	if upd.LayoutMode != nil {
		switch *upd.LayoutMode {
		case models.LayoutAuto, models.Layout2x2, models.Layout3x3, models.Layout1xN, models.LayoutNx1:
		default:
			return models.State{}, models.ErrBadRequest("unknown layout mode")
		}
		next.LayoutMode = *upd.LayoutMode
	}

	c.swapSettingsLocked(next)
	c.publishLocked(events.EventSettings)
	c.persistLocked()
	return c.stateLocked(), nil
}

// ApplySettings replaces the settings from an external reload (the config
// file watcher). Identical settings are a no-op, which also absorbs the
// watcher firing on the daemon's own writes.
func (c *Controller) ApplySettings(next models.Settings) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if reflect.DeepEqual(c.settings, next) {
		return
	}
	slog.Info("board: settings reloaded from disk")
	c.swapSettingsLocked(next)
	c.publishLocked(events.EventSettings)
}

func (c *Controller) swapSettingsLocked(next models.Settings) {
	policyChanged := next.AudioPolicy != c.settings.AudioPolicy
	c.settings = next
	if policyChanged {
		c.audio.Policy = next.AudioPolicy
		if c.audio.Policy == models.PolicySingle {
			c.audio.AutoSelect = true
		}
		c.bumpAudioLocked()
	}
}
