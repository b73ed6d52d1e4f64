package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/rohankapur/finetune-studio/internal/audit"
	"github.com/rohankapur/finetune-studio/internal/provider"
)

type GenerateHandler struct {
	gateway *provider.Gateway
	audit   *audit.Service
}

func NewGenerateHandler(gw *provider.Gateway, auditSvc *audit.Service) *GenerateHandler {
	return &GenerateHandler{gateway: gw, audit: auditSvc}
}

func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req provider.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.gateway.Generate(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.logUsage(r.Context(), res)
	writeJSON(w, http.StatusOK, res)
}

func (h *GenerateHandler) GenerateStream(w http.ResponseWriter, r *http.Request) {
	var req provider.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	res, err := h.gateway.StreamGenerate(r.Context(), req, func(chunk provider.Chunk) {
		data, _ := json.Marshal(chunk)
		fmt.Fprintf(w, "data: %s\n\n", data)
		flusher.Flush()
	})
	if err != nil {
		// Headers are already out; the error rides the stream instead.
		fmt.Fprintf(w, "data: {\"error\":%q}\n\n", err.Error())
		flusher.Flush()
		return
	}

	h.logUsage(r.Context(), res)
}

func (h *GenerateHandler) Models(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"families": provider.ModelFamilies()})
}

func (h *GenerateHandler) logUsage(ctx context.Context, res *provider.Result) {
	if err := h.audit.LogGeneration(ctx, res); err != nil {
		slog.Error("log generation usage", "error", err)
	}
}
