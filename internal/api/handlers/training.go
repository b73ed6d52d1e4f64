package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/rohankapur/finetune-studio/internal/dataset"
	"github.com/rohankapur/finetune-studio/internal/identity"
	"github.com/rohankapur/finetune-studio/internal/project"
	"github.com/rohankapur/finetune-studio/internal/provider"
	"github.com/rohankapur/finetune-studio/internal/queue"
	"github.com/rohankapur/finetune-studio/internal/training"
	"github.com/rohankapur/finetune-studio/internal/validate"
)

type TrainingHandler struct {
	sessions *training.Service
	projects *project.Service
	queue    *queue.Client
}

func NewTrainingHandler(sessions *training.Service, projects *project.Service, q *queue.Client) *TrainingHandler {
	return &TrainingHandler{sessions: sessions, projects: projects, queue: q}
}

func (h *TrainingHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	session, err := h.sessions.CreateSession(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (h *TrainingHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	session, err := h.sessions.GetSession(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *TrainingHandler) AddPair(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var pair training.NewPair
	if err := json.NewDecoder(r.Body).Decode(&pair); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.sessions.AddPair(r.Context(), id, pair)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *TrainingHandler) ListPairs(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	pairs, err := h.sessions.Pairs(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"pairs": pairs})
}

// ValidatePair runs the advisory pair checks without persisting anything, so
// clients can flag weak examples before they are added.
func (h *TrainingHandler) ValidatePair(w http.ResponseWriter, r *http.Request) {
	var req training.NewPair
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	report := validate.TrainingPair(req.Input, req.Output, req.QualityScore)
	writeJSON(w, http.StatusOK, report)
}

func (h *TrainingHandler) RatePair(w http.ResponseWriter, r *http.Request) {
	pairID, ok := parseID(w, r, "pairID")
	if !ok {
		return
	}

	var req struct {
		QualityScore int `json:"quality_score"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.sessions.RatePair(r.Context(), pairID, req.QualityScore); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TrainingHandler) DeletePair(w http.ResponseWriter, r *http.Request) {
	pairID, ok := parseID(w, r, "pairID")
	if !ok {
		return
	}

	if err := h.sessions.DeletePair(r.Context(), pairID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TrainingHandler) ClearSession(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := h.sessions.ClearSession(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TrainingHandler) Stats(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	stats, err := h.sessions.Stats(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	p := h.sessionProvider(r, id)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"stats":                 stats,
		"target_provider":       string(p),
		"recommended_min_pairs": dataset.RecommendedMinPairs(p),
	})
}

// Export encodes the session's pairs and returns the file inline.
func (h *TrainingHandler) Export(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	opts, err := exportOptions(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pairs, err := h.sessions.Pairs(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	content, err := dataset.Encode(pairs, opts)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	filename := fmt.Sprintf("session-%s.%s", id, dataset.Ext(opts.Format))
	w.Header().Set("Content-Type", dataset.ContentType(opts.Format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(content))
}

// ExportAsync enqueues a background export run and returns immediately. The
// session moves to running once a worker picks the task up.
func (h *TrainingHandler) ExportAsync(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	opts, err := exportOptions(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// Resolve the session now so a bad ID fails the request, not the task.
	session, err := h.sessions.GetSession(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	err = h.queue.EnqueueSessionExport(queue.SessionExportPayload{
		SessionID:  session.ID.String(),
		OwnerID:    identity.IDFromContext(r.Context()).String(),
		Format:     string(opts.Format),
		MinQuality: opts.MinQuality,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"session_id": session.ID.String(),
		"status":     "queued",
	})
}

func exportOptions(r *http.Request) (dataset.Options, error) {
	q := r.URL.Query()

	format := dataset.FormatJSONL
	if raw := q.Get("format"); raw != "" {
		var err error
		format, err = dataset.ParseFormat(raw)
		if err != nil {
			return dataset.Options{}, err
		}
	}

	opts := dataset.Options{Format: format}
	if raw := q.Get("min_quality"); raw != "" {
		min, err := strconv.Atoi(raw)
		if err != nil {
			return dataset.Options{}, validate.Errorf("invalid min_quality %q", raw)
		}
		if err := validate.QualityScore(min); err != nil {
			return dataset.Options{}, err
		}
		opts.MinQuality = &min
	}
	return opts, nil
}

// sessionProvider maps the session's project base model to a provider so the
// stats response can carry a per-vendor dataset size recommendation.
func (h *TrainingHandler) sessionProvider(r *http.Request, sessionID uuid.UUID) provider.Provider {
	session, err := h.sessions.GetSession(r.Context(), sessionID)
	if err != nil {
		return provider.OpenAI
	}
	proj, err := h.projects.Get(r.Context(), session.ProjectID)
	if err != nil || proj.BaseModel == "" {
		return provider.OpenAI
	}
	return provider.Resolve(proj.BaseModel)
}
