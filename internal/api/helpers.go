// Package api implements the HTTP REST + SSE control surface for NewsBoard.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/farleyman/newsboard-go/internal/events"
	"github.com/farleyman/newsboard-go/internal/models"
)

// Handlers holds dependencies for all HTTP handlers.
type Handlers struct {
	ctrl   Controller
	events EventBus
}

// Controller is the interface the handlers use to interact with the board.
type Controller interface {
	State() models.State
	GetInfo() models.Info

	Enqueue(req models.EnqueueRequest) (models.State, *models.AppError)
	GetTiles() []models.Tile
	GetTile(id string) (*models.Tile, *models.AppError)
	UpdateTile(ctx context.Context, id string, upd models.TileUpdate) (models.State, *models.AppError)
	RemoveTile(ctx context.Context, id string) (models.State, *models.AppError)
	SelectAudio(id string) (models.State, *models.AppError)
	ReloadTile(ctx context.Context, id string) (models.State, *models.AppError)
	ReloadAll(ctx context.Context) (models.State, *models.AppError)
	ReorderTiles(req models.ReorderRequest) (models.State, *models.AppError)
	ClearTiles(ctx context.Context) (models.State, *models.AppError)

	SetAudio(upd models.AudioUpdate) (models.State, *models.AppError)
	SetLayout(upd models.LayoutUpdate) (models.State, *models.AppError)
	GetSettings() models.Settings
	UpdateSettings(upd models.SettingsUpdate) (models.State, *models.AppError)

	GetFeeds() []models.Feed
	CreateFeed(req models.FeedCreate) (models.State, *models.AppError)
	UpdateFeed(name string, upd models.FeedUpdate) (models.State, *models.AppError)
	DeleteFeed(name string) (models.State, *models.AppError)
	ReorderFeeds(req models.FeedReorder) (models.State, *models.AppError)
	AddFeedTile(req models.FeedAdd) (models.State, *models.AppError)
	AddAllFeeds() (models.State, *models.AppError)

	GetPlaylists() []models.Feed
	CreatePlaylist(req models.FeedCreate) (models.State, *models.AppError)
	DeletePlaylist(name string) (models.State, *models.AppError)
	PlaylistChannels(ctx context.Context, name string) ([]models.Entry, *models.AppError)
	AddPlaylistChannels(ctx context.Context, name string, req models.PlaylistAdd) (models.State, *models.AppError)
	ParsePlaylistText(text string) ([]models.Entry, *models.AppError)
}

// EventBus is the interface for subscribing to state change events.
type EventBus interface {
	Subscribe(id string) <-chan events.Event
	Unsubscribe(id string)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes an AppError as a JSON response.
func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	if appErr, ok := err.(*models.AppError); ok {
		w.WriteHeader(appErr.Status)
		_ = json.NewEncoder(w).Encode(appErr)
		return
	}
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(models.ErrInternal(err.Error()))
}

// decodeJSON decodes a request body, mapping failures to a 400.
func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return models.ErrBadRequest("invalid JSON: " + err.Error())
	}
	return nil
}
