// Package workers holds asynq task handlers for background runs.
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rohankapur/finetune-studio/internal/dataset"
	"github.com/rohankapur/finetune-studio/internal/identity"
	"github.com/rohankapur/finetune-studio/internal/project"
	"github.com/rohankapur/finetune-studio/internal/provider"
	"github.com/rohankapur/finetune-studio/internal/queue"
	"github.com/rohankapur/finetune-studio/internal/storage"
	"github.com/rohankapur/finetune-studio/internal/training"
)

// ExportWorker runs one session export end to end: encode the session's
// pairs, upload the artifact, and move the session through its lifecycle.
type ExportWorker struct {
	sessions *training.Service
	projects *project.Service
	store    storage.ObjectStore
}

func NewExportWorker(sessions *training.Service, projects *project.Service, store storage.ObjectStore) *ExportWorker {
	return &ExportWorker{sessions: sessions, projects: projects, store: store}
}

func (w *ExportWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.SessionExportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal export payload: %w", err)
	}

	sessionID, err := uuid.Parse(payload.SessionID)
	if err != nil {
		return fmt.Errorf("invalid session id %q: %w", payload.SessionID, err)
	}
	ownerID, err := uuid.Parse(payload.OwnerID)
	if err != nil {
		return fmt.Errorf("invalid owner id %q: %w", payload.OwnerID, err)
	}

	// Background tasks carry no request identity, so ownership scoping is
	// restored from the payload before any store call.
	ctx = identity.WithUser(ctx, &identity.User{ID: ownerID})

	format, err := dataset.ParseFormat(payload.Format)
	if err != nil {
		return fmt.Errorf("export task: %w", err)
	}

	if err := w.sessions.MarkRunning(ctx, sessionID); err != nil {
		return fmt.Errorf("mark session running: %w", err)
	}

	if err := w.export(ctx, sessionID, format, payload.MinQuality); err != nil {
		slog.Error("session export failed",
			"session_id", sessionID,
			"format", string(format),
			"error", err,
		)
		if failErr := w.sessions.MarkFailed(ctx, sessionID, err.Error()); failErr != nil {
			slog.Error("mark session failed", "session_id", sessionID, "error", failErr)
		}
		return err
	}
	return nil
}

func (w *ExportWorker) export(ctx context.Context, sessionID uuid.UUID, format dataset.Format, minQuality *int) error {
	session, err := w.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	pairs, err := w.sessions.Pairs(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("load pairs: %w", err)
	}

	content, err := dataset.Encode(pairs, dataset.Options{Format: format, MinQuality: minQuality})
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}

	path := fmt.Sprintf("%s/exports/%s.%s", session.OwnerID, sessionID, dataset.Ext(format))
	if err := w.store.Upload(ctx, path, []byte(content), dataset.ContentType(format)); err != nil {
		return fmt.Errorf("upload artifact: %w", err)
	}

	tokens := 0
	for _, p := range pairs {
		tokens += p.TokensUsed
	}
	cost := provider.EstimateCost(w.sessionProvider(ctx, session.ProjectID), tokens)

	if err := w.sessions.MarkCompleted(ctx, sessionID, tokens, cost); err != nil {
		return fmt.Errorf("mark session completed: %w", err)
	}

	slog.Info("session export completed",
		"session_id", sessionID,
		"format", string(format),
		"pairs", len(pairs),
		"tokens", tokens,
		"path", path,
	)
	return nil
}

// sessionProvider maps the owning project's base model to a provider for
// cost estimation. Missing projects fall back to the default provider rate.
func (w *ExportWorker) sessionProvider(ctx context.Context, projectID uuid.UUID) provider.Provider {
	proj, err := w.projects.Get(ctx, projectID)
	if err != nil || proj.BaseModel == "" {
		return provider.OpenAI
	}
	return provider.Resolve(proj.BaseModel)
}
