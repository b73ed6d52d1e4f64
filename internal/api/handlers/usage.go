package handlers

import (
	"net/http"
	"strconv"

	"github.com/rohankapur/finetune-studio/internal/audit"
)

type UsageHandler struct {
	audit *audit.Service
}

func NewUsageHandler(auditSvc *audit.Service) *UsageHandler {
	return &UsageHandler{audit: auditSvc}
}

func (h *UsageHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.audit.Summary(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"usage": summaries})
}

func (h *UsageHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	logs, err := h.audit.Recent(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"logs": logs})
}
