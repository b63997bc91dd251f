package api

import (
	"net/http"

	"github.com/farleyman/newsboard-go/internal/models"
)

func (h *Handlers) setAudio(w http.ResponseWriter, r *http.Request) {
	var upd models.AudioUpdate
	if err := decodeJSON(r, &upd); err != nil {
		writeError(w, err)
		return
	}
	state, appErr := h.ctrl.SetAudio(upd)
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handlers) setLayout(w http.ResponseWriter, r *http.Request) {
	var upd models.LayoutUpdate
	if err := decodeJSON(r, &upd); err != nil {
		writeError(w, err)
		return
	}
	state, appErr := h.ctrl.SetLayout(upd)
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handlers) getSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ctrl.GetSettings())
}

func (h *Handlers) updateSettings(w http.ResponseWriter, r *http.Request) {
	var upd models.SettingsUpdate
	if err := decodeJSON(r, &upd); err != nil {
		writeError(w, err)
		return
	}
	state, appErr := h.ctrl.UpdateSettings(upd)
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusOK, state)
}
