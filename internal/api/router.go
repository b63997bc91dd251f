package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates and returns the main HTTP router.
func NewRouter(ctrl Controller, bus EventBus) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(corsMiddleware)
	r.Use(middleware.CleanPath)

	h := &Handlers{ctrl: ctrl, events: bus}

	// System state
	r.Get("/api", h.getState)
	r.Get("/api/", h.getState)
	r.Get("/api/info", h.getInfo)

	// Tiles
	r.Get("/api/tiles", h.getTiles)
	r.Post("/api/tiles", h.enqueueTile)
	r.Patch("/api/tiles", h.reorderTiles)
	r.Delete("/api/tiles", h.clearTiles)
	r.Post("/api/tiles/reload_all", h.reloadAll)
	r.Get("/api/tiles/{tid}", h.getTile)
	r.Patch("/api/tiles/{tid}", h.updateTile)
	r.Delete("/api/tiles/{tid}", h.removeTile)
	r.Post("/api/tiles/{tid}/select", h.selectAudio)
	r.Post("/api/tiles/{tid}/reload", h.reloadTile)

	// Audio / layout / settings
	r.Patch("/api/audio", h.setAudio)
	r.Patch("/api/layout", h.setLayout)
	r.Get("/api/settings", h.getSettings)
	r.Patch("/api/settings", h.updateSettings)

	// Feeds
	r.Get("/api/feeds", h.getFeeds)
	r.Post("/api/feeds", h.createFeed)
	r.Patch("/api/feeds", h.reorderFeeds)
	r.Patch("/api/feeds/{name}", h.updateFeed)
	r.Delete("/api/feeds/{name}", h.deleteFeed)
	r.Post("/api/feeds/add", h.addFeedTile)
	r.Post("/api/feeds/add_all", h.addAllFeeds)

	// Playlists
	r.Get("/api/playlists", h.getPlaylists)
	r.Post("/api/playlists", h.createPlaylist)
	r.Delete("/api/playlists/{name}", h.deletePlaylist)
	r.Get("/api/playlists/{name}/channels", h.playlistChannels)
	r.Post("/api/playlists/{name}/add", h.addPlaylistChannels)
	r.Post("/api/playlists/parse", h.parsePlaylist)

	// SSE
	r.Get("/api/subscribe", h.sseEvents)

	return r
}

// corsMiddleware adds permissive CORS headers for local network access.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
