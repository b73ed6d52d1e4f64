package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rohankapur/finetune-studio/internal/credential"
	"github.com/rohankapur/finetune-studio/internal/models"
	"github.com/rohankapur/finetune-studio/internal/provider"
)

type KeysHandler struct {
	store *credential.Store
}

func NewKeysHandler(store *credential.Store) *KeysHandler {
	return &KeysHandler{store: store}
}

func (h *KeysHandler) Save(w http.ResponseWriter, r *http.Request) {
	p, err := provider.Parse(chi.URLParam(r, "provider"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var req struct {
		APIKey string `json:"api_key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cred, err := h.store.Save(r.Context(), p, req.APIKey)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.KeyStatus{
		Provider:  cred.Provider,
		HasKey:    true,
		IsActive:  cred.IsActive,
		UpdatedAt: cred.UpdatedAt,
	})
}

func (h *KeysHandler) Status(w http.ResponseWriter, r *http.Request) {
	p, err := provider.Parse(chi.URLParam(r, "provider"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	cred, err := h.store.Get(r.Context(), p)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if cred == nil {
		writeJSON(w, http.StatusOK, models.KeyStatus{Provider: string(p), HasKey: false})
		return
	}

	writeJSON(w, http.StatusOK, models.KeyStatus{
		Provider:  cred.Provider,
		HasKey:    true,
		IsActive:  cred.IsActive,
		UpdatedAt: cred.UpdatedAt,
	})
}

func (h *KeysHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, err := provider.Parse(chi.URLParam(r, "provider"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := h.store.Delete(r.Context(), p); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *KeysHandler) List(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.store.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"keys": statuses})
}
