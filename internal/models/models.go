package models

import (
	"time"

	"github.com/google/uuid"
)

// ProviderCredential is one user's API secret for one provider. At most one
// row exists per (owner, provider); saves replace the secret wholesale.
type ProviderCredential struct {
	ID        uuid.UUID `json:"id" db:"id"`
	OwnerID   uuid.UUID `json:"owner_id" db:"owner_id"`
	Provider  string    `json:"provider" db:"provider"`
	Secret    string    `json:"-" db:"secret"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// KeyStatus is the listing shape for stored credentials. It deliberately has
// no field for the secret value.
type KeyStatus struct {
	Provider  string    `json:"provider"`
	HasKey    bool      `json:"has_key"`
	IsActive  bool      `json:"is_active"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Project struct {
	ID          uuid.UUID `json:"id" db:"id"`
	OwnerID     uuid.UUID `json:"owner_id" db:"owner_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description,omitempty" db:"description"`
	BaseModel   string    `json:"base_model,omitempty" db:"base_model"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type TrainingSession struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	OwnerID       uuid.UUID  `json:"owner_id" db:"owner_id"`
	ProjectID     uuid.UUID  `json:"project_id" db:"project_id"`
	Status        string     `json:"status" db:"status"`
	Progress      int        `json:"progress" db:"progress"`
	TokensUsed    int        `json:"tokens_used" db:"tokens_used"`
	EstimatedCost float64    `json:"estimated_cost" db:"estimated_cost"`
	Error         string     `json:"error,omitempty" db:"error"`
	StartedAt     *time.Time `json:"started_at,omitempty" db:"started_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}

// TrainingPair is one prompt/response example with an optional 1-5 quality
// rating. Rating is decoupled from creation, so QualityScore stays nil until
// the user judges the pair.
type TrainingPair struct {
	ID           uuid.UUID `json:"id" db:"id"`
	SessionID    uuid.UUID `json:"session_id" db:"session_id"`
	Input        string    `json:"input" db:"input"`
	Output       string    `json:"output" db:"output"`
	QualityScore *int      `json:"quality_score,omitempty" db:"quality_score"`
	TokensUsed   int       `json:"tokens_used" db:"tokens_used"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// UsageLog records one completed generation call for cost analytics.
type UsageLog struct {
	ID         uuid.UUID `json:"id" db:"id"`
	OwnerID    uuid.UUID `json:"owner_id" db:"owner_id"`
	Provider   string    `json:"provider" db:"provider"`
	Model      string    `json:"model" db:"model"`
	TokensUsed int       `json:"tokens_used" db:"tokens_used"`
	CostUSD    float64   `json:"cost_usd" db:"cost_usd"`
	LatencyMs  int64     `json:"latency_ms" db:"latency_ms"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Training session lifecycle. Transitions only move forward: pending starts a
// run, running either completes or fails, and nothing returns to pending.
const (
	SessionStatusPending   = "pending"
	SessionStatusRunning   = "running"
	SessionStatusCompleted = "completed"
	SessionStatusFailed    = "failed"
)
