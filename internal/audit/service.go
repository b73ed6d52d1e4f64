// Package audit records completed generation calls for per-user spend
// analytics.
package audit

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rohankapur/finetune-studio/internal/identity"
	"github.com/rohankapur/finetune-studio/internal/models"
	"github.com/rohankapur/finetune-studio/internal/provider"
)

type Service struct {
	db *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

// LogGeneration writes one usage row for a completed call. Failures here
// must not fail the generation itself; callers log and move on.
func (s *Service) LogGeneration(ctx context.Context, res *provider.Result) error {
	ownerID := identity.IDFromContext(ctx)

	_, err := s.db.Exec(ctx,
		`INSERT INTO usage_logs (owner_id, provider, model, tokens_used, cost_usd, latency_ms)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		ownerID, string(res.Provider), res.ModelID, res.TokensUsed, res.EstimatedCost, res.LatencyMs,
	)
	if err != nil {
		return fmt.Errorf("insert usage log: %w", err)
	}
	return nil
}

// UsageSummary aggregates one provider/model's calls.
type UsageSummary struct {
	Provider    string  `json:"provider"`
	Model       string  `json:"model"`
	TotalCalls  int     `json:"total_calls"`
	TotalTokens int     `json:"total_tokens"`
	TotalCost   float64 `json:"total_cost_usd"`
}

func (s *Service) Summary(ctx context.Context) ([]UsageSummary, error) {
	ownerID := identity.IDFromContext(ctx)

	rows, err := s.db.Query(ctx,
		`SELECT provider, model, COUNT(*),
		        COALESCE(SUM(tokens_used), 0),
		        COALESCE(SUM(cost_usd), 0)
		 FROM usage_logs
		 WHERE owner_id = $1
		 GROUP BY provider, model
		 ORDER BY SUM(cost_usd) DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("query usage summary: %w", err)
	}
	defer rows.Close()

	var summaries []UsageSummary
	for rows.Next() {
		var u UsageSummary
		if err := rows.Scan(&u.Provider, &u.Model, &u.TotalCalls, &u.TotalTokens, &u.TotalCost); err != nil {
			return nil, fmt.Errorf("scan usage summary: %w", err)
		}
		summaries = append(summaries, u)
	}
	return summaries, rows.Err()
}

// Recent lists the owner's latest generation calls, newest first.
func (s *Service) Recent(ctx context.Context, limit int) ([]models.UsageLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	ownerID := identity.IDFromContext(ctx)

	rows, err := s.db.Query(ctx,
		`SELECT id, owner_id, provider, model, tokens_used, cost_usd, latency_ms, created_at
		 FROM usage_logs
		 WHERE owner_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		ownerID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query usage logs: %w", err)
	}
	defer rows.Close()

	var logs []models.UsageLog
	for rows.Next() {
		var l models.UsageLog
		if err := rows.Scan(&l.ID, &l.OwnerID, &l.Provider, &l.Model, &l.TokensUsed, &l.CostUSD, &l.LatencyMs, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan usage log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
