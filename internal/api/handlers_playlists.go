package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/farleyman/newsboard-go/internal/models"
)

func (h *Handlers) getPlaylists(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"playlists": h.ctrl.GetPlaylists()})
}

func (h *Handlers) createPlaylist(w http.ResponseWriter, r *http.Request) {
	var req models.FeedCreate
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	state, appErr := h.ctrl.CreatePlaylist(req)
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusCreated, state)
}

func (h *Handlers) deletePlaylist(w http.ResponseWriter, r *http.Request) {
	state, appErr := h.ctrl.DeletePlaylist(chi.URLParam(r, "name"))
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handlers) playlistChannels(w http.ResponseWriter, r *http.Request) {
	entries, appErr := h.ctrl.PlaylistChannels(r.Context(), chi.URLParam(r, "name"))
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"channels": entries})
}

func (h *Handlers) addPlaylistChannels(w http.ResponseWriter, r *http.Request) {
	var req models.PlaylistAdd
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	state, appErr := h.ctrl.AddPlaylistChannels(r.Context(), chi.URLParam(r, "name"), req)
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusAccepted, state)
}

func (h *Handlers) parsePlaylist(w http.ResponseWriter, r *http.Request) {
	var req models.PlaylistParseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	entries, appErr := h.ctrl.ParsePlaylistText(req.Text)
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"channels": entries})
}
