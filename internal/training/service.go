// Package training manages training sessions and the prompt/response pairs
// collected under them. Every query is scoped to the owner from context;
// pair writes go through a session-ownership guard so one user can never
// attach data to another user's session.
package training

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rohankapur/finetune-studio/internal/identity"
	"github.com/rohankapur/finetune-studio/internal/models"
	"github.com/rohankapur/finetune-studio/internal/validate"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrInvalidTransition is returned when a session status change would
	// move backwards. The lifecycle only goes forward:
	// pending -> running -> completed|failed.
	ErrInvalidTransition = errors.New("invalid session status transition")
)

type Service struct {
	db *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

const sessionColumns = `id, owner_id, project_id, status, progress, tokens_used, estimated_cost, error, started_at, completed_at, created_at`

func scanSession(row pgx.Row) (*models.TrainingSession, error) {
	var s models.TrainingSession
	err := row.Scan(&s.ID, &s.OwnerID, &s.ProjectID, &s.Status, &s.Progress,
		&s.TokensUsed, &s.EstimatedCost, &s.Error, &s.StartedAt, &s.CompletedAt, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateSession starts a new pending session under one of the caller's
// projects.
func (s *Service) CreateSession(ctx context.Context, projectID uuid.UUID) (*models.TrainingSession, error) {
	ownerID := identity.IDFromContext(ctx)

	sess, err := scanSession(s.db.QueryRow(ctx,
		`INSERT INTO training_sessions (owner_id, project_id, status)
		 SELECT $1, p.id, 'pending' FROM projects p WHERE p.id = $2 AND p.owner_id = $1
		 RETURNING `+sessionColumns,
		ownerID, projectID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("project %s: %w", projectID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return sess, nil
}

func (s *Service) GetSession(ctx context.Context, id uuid.UUID) (*models.TrainingSession, error) {
	ownerID := identity.IDFromContext(ctx)

	sess, err := scanSession(s.db.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM training_sessions WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

// NewPair is the input for one collected prompt/response example.
type NewPair struct {
	Input        string `json:"input"`
	Output       string `json:"output"`
	QualityScore *int   `json:"quality_score,omitempty"`
	TokensUsed   int    `json:"tokens_used"`
}

// AddPair persists a pair under a session. Input and output must be
// non-empty; a quality score, when supplied, must be within 1-5. Rejection
// writes nothing.
func (s *Service) AddPair(ctx context.Context, sessionID uuid.UUID, pair NewPair) (*models.TrainingPair, error) {
	if strings.TrimSpace(pair.Input) == "" {
		return nil, validate.Errorf("pair input is required")
	}
	if strings.TrimSpace(pair.Output) == "" {
		return nil, validate.Errorf("pair output is required")
	}
	if pair.QualityScore != nil {
		if err := validate.QualityScore(*pair.QualityScore); err != nil {
			return nil, err
		}
	}

	ownerID := identity.IDFromContext(ctx)

	var p models.TrainingPair
	err := s.db.QueryRow(ctx,
		`INSERT INTO training_pairs (session_id, input, output, quality_score, tokens_used)
		 SELECT s.id, $3, $4, $5, $6 FROM training_sessions s WHERE s.id = $2 AND s.owner_id = $1
		 RETURNING id, session_id, input, output, quality_score, tokens_used, created_at`,
		ownerID, sessionID, pair.Input, pair.Output, pair.QualityScore, pair.TokensUsed,
	).Scan(&p.ID, &p.SessionID, &p.Input, &p.Output, &p.QualityScore, &p.TokensUsed, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("add pair: %w", err)
	}
	return &p, nil
}

// Pairs returns all pairs for a session, oldest first.
func (s *Service) Pairs(ctx context.Context, sessionID uuid.UUID) ([]models.TrainingPair, error) {
	if _, err := s.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, session_id, input, output, quality_score, tokens_used, created_at
		 FROM training_pairs WHERE session_id = $1 ORDER BY created_at`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list pairs: %w", err)
	}
	defer rows.Close()

	var pairs []models.TrainingPair
	for rows.Next() {
		var p models.TrainingPair
		if err := rows.Scan(&p.ID, &p.SessionID, &p.Input, &p.Output, &p.QualityScore, &p.TokensUsed, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pair: %w", err)
		}
		pairs = append(pairs, p)
	}
	return pairs, rows.Err()
}

// RatePair overwrites a pair's quality score in place.
func (s *Service) RatePair(ctx context.Context, pairID uuid.UUID, score int) error {
	if err := validate.QualityScore(score); err != nil {
		return err
	}

	ownerID := identity.IDFromContext(ctx)

	tag, err := s.db.Exec(ctx,
		`UPDATE training_pairs p SET quality_score = $3
		 FROM training_sessions s
		 WHERE p.id = $2 AND p.session_id = s.id AND s.owner_id = $1`,
		ownerID, pairID, score,
	)
	if err != nil {
		return fmt.Errorf("rate pair: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("pair %s: %w", pairID, ErrNotFound)
	}
	return nil
}

// DeletePair removes a single pair. Idempotent: a missing pair is success.
func (s *Service) DeletePair(ctx context.Context, pairID uuid.UUID) error {
	ownerID := identity.IDFromContext(ctx)

	_, err := s.db.Exec(ctx,
		`DELETE FROM training_pairs p
		 USING training_sessions s
		 WHERE p.id = $2 AND p.session_id = s.id AND s.owner_id = $1`,
		ownerID, pairID,
	)
	if err != nil {
		return fmt.Errorf("delete pair: %w", err)
	}
	return nil
}

// ClearSession removes every pair under a session.
func (s *Service) ClearSession(ctx context.Context, sessionID uuid.UUID) error {
	if _, err := s.GetSession(ctx, sessionID); err != nil {
		return err
	}

	_, err := s.db.Exec(ctx, "DELETE FROM training_pairs WHERE session_id = $1", sessionID)
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Stats recomputes session statistics from the stored pairs.
func (s *Service) Stats(ctx context.Context, sessionID uuid.UUID) (*SessionStats, error) {
	pairs, err := s.Pairs(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	st := ComputeStats(pairs)
	return &st, nil
}

// MarkRunning moves a pending session into running and stamps its start.
func (s *Service) MarkRunning(ctx context.Context, sessionID uuid.UUID) error {
	return s.transition(ctx, sessionID,
		`UPDATE training_sessions SET status = 'running', progress = 10, started_at = now()
		 WHERE id = $1 AND owner_id = $2 AND status = 'pending'`)
}

// MarkCompleted finishes a running session and snapshots its cumulative
// token/cost totals onto the row.
func (s *Service) MarkCompleted(ctx context.Context, sessionID uuid.UUID, tokens int, cost float64) error {
	ownerID := identity.IDFromContext(ctx)

	tag, err := s.db.Exec(ctx,
		`UPDATE training_sessions
		 SET status = 'completed', progress = 100, tokens_used = $3, estimated_cost = $4, completed_at = now()
		 WHERE id = $1 AND owner_id = $2 AND status = 'running'`,
		sessionID, ownerID, tokens, cost,
	)
	if err != nil {
		return fmt.Errorf("complete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return s.transitionFailure(ctx, sessionID)
	}
	return nil
}

// MarkFailed terminates a session with an error message. Allowed from
// pending or running; completed and failed sessions stay put.
func (s *Service) MarkFailed(ctx context.Context, sessionID uuid.UUID, msg string) error {
	ownerID := identity.IDFromContext(ctx)

	tag, err := s.db.Exec(ctx,
		`UPDATE training_sessions SET status = 'failed', error = $3, completed_at = now()
		 WHERE id = $1 AND owner_id = $2 AND status IN ('pending', 'running')`,
		sessionID, ownerID, msg,
	)
	if err != nil {
		return fmt.Errorf("fail session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return s.transitionFailure(ctx, sessionID)
	}
	return nil
}

func (s *Service) transition(ctx context.Context, sessionID uuid.UUID, query string) error {
	ownerID := identity.IDFromContext(ctx)

	tag, err := s.db.Exec(ctx, query, sessionID, ownerID)
	if err != nil {
		return fmt.Errorf("update session status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return s.transitionFailure(ctx, sessionID)
	}
	return nil
}

// transitionFailure distinguishes "no such session" from "session exists but
// the requested transition would move backwards".
func (s *Service) transitionFailure(ctx context.Context, sessionID uuid.UUID) error {
	sess, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	return fmt.Errorf("session %s is %s: %w", sessionID, sess.Status, ErrInvalidTransition)
}
