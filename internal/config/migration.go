package config

import (
	"log/slog"

	"github.com/farleyman/newsboard-go/internal/models"
)

// migrateConfig fills in default values for fields that may be missing in
// documents written by older NewsBoard releases.
func migrateConfig(cfg *models.BoardConfig) {
	def := models.DefaultSettings()
	s := &cfg.Settings

	if s.AudioPolicy != models.PolicySingle && s.AudioPolicy != models.PolicyMixed {
		if s.AudioPolicy != "" {
			slog.Warn("config: invalid audio policy, resetting", "policy", s.AudioPolicy)
		}
		s.AudioPolicy = def.AudioPolicy
	}
	if s.VolumeDefault == 0 {
		s.VolumeDefault = def.VolumeDefault
	}
	s.VolumeDefault = models.ClampVolume(s.VolumeDefault)
	if s.YTMode != "direct_when_possible" && s.YTMode != "embed_only" {
		if s.YTMode != "" {
			slog.Warn("config: invalid yt_mode, resetting", "yt_mode", s.YTMode)
		}
		s.YTMode = def.YTMode
	}
	switch s.LayoutMode {
	case models.LayoutAuto, models.Layout2x2, models.Layout3x3, models.Layout1xN, models.LayoutNx1:
	default:
		s.LayoutMode = models.LayoutAuto
	}

	if cfg.Volume == 0 {
		cfg.Volume = s.VolumeDefault
	}
	cfg.Volume = models.ClampVolume(cfg.Volume)

	// Drop restorable tiles with no URL; they can never be re-enqueued.
	tiles := cfg.Tiles[:0]
	for _, t := range cfg.Tiles {
		if t.URL == "" {
			slog.Warn("config: dropping saved tile with empty URL", "title", t.Title)
			continue
		}
		tiles = append(tiles, t)
	}
	cfg.Tiles = tiles

	dropUnnamedFeeds(&cfg.Feeds)
	dropUnnamedFeeds(&cfg.Playlists)

	// Ensure slices are not nil
	if cfg.Feeds == nil {
		cfg.Feeds = []models.Feed{}
	}
	if cfg.Playlists == nil {
		cfg.Playlists = []models.Feed{}
	}
	if cfg.Tiles == nil {
		cfg.Tiles = []models.TileSnapshot{}
	}
}

// dropUnnamedFeeds removes entries with an empty URL and backfills a name
// from the URL when the name is missing.
func dropUnnamedFeeds(feeds *[]models.Feed) {
	out := (*feeds)[:0]
	for _, f := range *feeds {
		if f.URL == "" {
			continue
		}
		if f.Name == "" {
			f.Name = f.URL
		}
		out = append(out, f)
	}
	*feeds = out
}
