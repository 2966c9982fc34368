package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dennisdiepolder/callboard/internal/auth"
	"github.com/dennisdiepolder/callboard/internal/dashboard"
	"github.com/dennisdiepolder/callboard/internal/storage"
	"github.com/go-chi/chi/v5"
)

// ActionRequest is the JSON body of a session action
type ActionRequest struct {
	Type  string `json:"type"`
	Index *int   `json:"index,omitempty"` // required for change_value
	Value *int   `json:"value,omitempty"` // required for change_value
	Email string `json:"email"`
}

// CreateSession handles POST /api/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctrl := h.sessions.Create()
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":    ctrl.ID(),
		"state": ctrl.View(),
	})
}

// GetSession handles GET /api/sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.sessions.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	ctrl.Touch()
	writeJSON(w, http.StatusOK, ctrl.View())
}

// SessionAction handles POST /api/sessions/{id}/actions. The response is the
// settled state after any remote calls the action triggered.
func (h *Handler) SessionAction(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.sessions.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	var req ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// The signed-in user's email stands in for an omitted one
	if req.Type == "submit_email" && strings.TrimSpace(req.Email) == "" {
		if claims, ok := auth.GetUserFromContext(r.Context()); ok {
			req.Email = claims.Email
		}
	}

	var index, value int
	if req.Type == "change_value" {
		if req.Index == nil || req.Value == nil {
			writeError(w, http.StatusBadRequest, "change_value requires index and value")
			return
		}
		index, value = *req.Index, *req.Value
	}

	action, ok := dashboard.ParseAction(req.Type, index, value, req.Email)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown action "+req.Type)
		return
	}

	// A client hanging up must not abort a save halfway
	view := ctrl.Dispatch(context.WithoutCancel(r.Context()), action)
	writeJSON(w, http.StatusOK, view)
}

// SessionChart handles GET /api/sessions/{id}/charts/{name}.svg
func (h *Handler) SessionChart(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.sessions.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	h.writeSVG(w, chi.URLParam(r, "name"), ctrl.View())
}

// GetRecord handles GET /api/records/{email}
func (h *Handler) GetRecord(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(chi.URLParam(r, "email"))
	if email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	record, err := h.store.Find(r.Context(), email)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no data found for this email")
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Str("email", email).Msg("failed to fetch record")
		writeError(w, http.StatusInternalServerError, "failed to fetch record")
		return
	}

	writeJSON(w, http.StatusOK, record)
}
