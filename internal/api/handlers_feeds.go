package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/farleyman/newsboard-go/internal/models"
)

func (h *Handlers) getFeeds(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"feeds": h.ctrl.GetFeeds()})
}

func (h *Handlers) createFeed(w http.ResponseWriter, r *http.Request) {
	var req models.FeedCreate
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	state, appErr := h.ctrl.CreateFeed(req)
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusCreated, state)
}

func (h *Handlers) updateFeed(w http.ResponseWriter, r *http.Request) {
	var upd models.FeedUpdate
	if err := decodeJSON(r, &upd); err != nil {
		writeError(w, err)
		return
	}
	state, appErr := h.ctrl.UpdateFeed(chi.URLParam(r, "name"), upd)
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handlers) deleteFeed(w http.ResponseWriter, r *http.Request) {
	state, appErr := h.ctrl.DeleteFeed(chi.URLParam(r, "name"))
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handlers) reorderFeeds(w http.ResponseWriter, r *http.Request) {
	var req models.FeedReorder
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	state, appErr := h.ctrl.ReorderFeeds(req)
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handlers) addFeedTile(w http.ResponseWriter, r *http.Request) {
	var req models.FeedAdd
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	state, appErr := h.ctrl.AddFeedTile(req)
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusAccepted, state)
}

func (h *Handlers) addAllFeeds(w http.ResponseWriter, r *http.Request) {
	state, appErr := h.ctrl.AddAllFeeds()
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusAccepted, state)
}
