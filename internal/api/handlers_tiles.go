package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/farleyman/newsboard-go/internal/models"
)

func (h *Handlers) getState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ctrl.State())
}

func (h *Handlers) getTiles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"tiles": h.ctrl.GetTiles()})
}

func (h *Handlers) getTile(w http.ResponseWriter, r *http.Request) {
	t, appErr := h.ctrl.GetTile(chi.URLParam(r, "tid"))
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *Handlers) enqueueTile(w http.ResponseWriter, r *http.Request) {
	var req models.EnqueueRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	state, appErr := h.ctrl.Enqueue(req)
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusAccepted, state)
}

func (h *Handlers) updateTile(w http.ResponseWriter, r *http.Request) {
	var upd models.TileUpdate
	if err := decodeJSON(r, &upd); err != nil {
		writeError(w, err)
		return
	}
	state, appErr := h.ctrl.UpdateTile(r.Context(), chi.URLParam(r, "tid"), upd)
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handlers) removeTile(w http.ResponseWriter, r *http.Request) {
	state, appErr := h.ctrl.RemoveTile(r.Context(), chi.URLParam(r, "tid"))
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handlers) selectAudio(w http.ResponseWriter, r *http.Request) {
	state, appErr := h.ctrl.SelectAudio(chi.URLParam(r, "tid"))
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handlers) reloadTile(w http.ResponseWriter, r *http.Request) {
	state, appErr := h.ctrl.ReloadTile(r.Context(), chi.URLParam(r, "tid"))
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handlers) reloadAll(w http.ResponseWriter, r *http.Request) {
	state, appErr := h.ctrl.ReloadAll(r.Context())
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handlers) reorderTiles(w http.ResponseWriter, r *http.Request) {
	var req models.ReorderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	state, appErr := h.ctrl.ReorderTiles(req)
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handlers) clearTiles(w http.ResponseWriter, r *http.Request) {
	state, appErr := h.ctrl.ClearTiles(r.Context())
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusOK, state)
}
