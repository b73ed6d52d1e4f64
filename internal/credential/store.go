// Package credential stores per-user provider API keys. One row per
// (owner, provider); saves upsert, never append.
package credential

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rohankapur/finetune-studio/internal/identity"
	"github.com/rohankapur/finetune-studio/internal/models"
	"github.com/rohankapur/finetune-studio/internal/provider"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Save validates the secret's format, then upserts the credential for the
// current user, replacing any previous secret wholesale and marking it
// active. Nothing is written when validation fails.
func (s *Store) Save(ctx context.Context, p provider.Provider, secret string) (*models.ProviderCredential, error) {
	if err := ValidateSecret(p, secret); err != nil {
		return nil, err
	}

	ownerID := identity.IDFromContext(ctx)

	var c models.ProviderCredential
	err := s.db.QueryRow(ctx,
		`INSERT INTO provider_credentials (owner_id, provider, secret, is_active)
		 VALUES ($1, $2, $3, true)
		 ON CONFLICT (owner_id, provider)
		 DO UPDATE SET secret = EXCLUDED.secret, is_active = true, updated_at = now()
		 RETURNING id, owner_id, provider, secret, is_active, updated_at, created_at`,
		ownerID, string(p), secret,
	).Scan(&c.ID, &c.OwnerID, &c.Provider, &c.Secret, &c.IsActive, &c.UpdatedAt, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("save credential: %w", err)
	}

	return &c, nil
}

// Get returns the active credential for a provider, or nil when none is
// stored or the stored one is inactive. An inactive credential is never
// returned as usable.
func (s *Store) Get(ctx context.Context, p provider.Provider) (*models.ProviderCredential, error) {
	ownerID := identity.IDFromContext(ctx)

	var c models.ProviderCredential
	err := s.db.QueryRow(ctx,
		`SELECT id, owner_id, provider, secret, is_active, updated_at, created_at
		 FROM provider_credentials
		 WHERE owner_id = $1 AND provider = $2 AND is_active = true`,
		ownerID, string(p),
	).Scan(&c.ID, &c.OwnerID, &c.Provider, &c.Secret, &c.IsActive, &c.UpdatedAt, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get credential: %w", err)
	}

	return &c, nil
}

// Delete removes the credential for a provider. Idempotent: deleting an
// absent credential is success.
func (s *Store) Delete(ctx context.Context, p provider.Provider) error {
	ownerID := identity.IDFromContext(ctx)

	_, err := s.db.Exec(ctx,
		"DELETE FROM provider_credentials WHERE owner_id = $1 AND provider = $2",
		ownerID, string(p),
	)
	if err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	return nil
}

// List reports the status of every stored credential for the current user.
// The secret value itself never appears in the result.
func (s *Store) List(ctx context.Context) ([]models.KeyStatus, error) {
	ownerID := identity.IDFromContext(ctx)

	rows, err := s.db.Query(ctx,
		`SELECT provider, is_active, updated_at
		 FROM provider_credentials
		 WHERE owner_id = $1
		 ORDER BY provider`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	defer rows.Close()

	statuses := []models.KeyStatus{}
	for rows.Next() {
		var st models.KeyStatus
		if err := rows.Scan(&st.Provider, &st.IsActive, &st.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan credential status: %w", err)
		}
		st.HasKey = true
		statuses = append(statuses, st)
	}
	return statuses, rows.Err()
}

// HasActive reports whether Get would return a usable credential.
func (s *Store) HasActive(ctx context.Context, p provider.Provider) (bool, error) {
	c, err := s.Get(ctx, p)
	if err != nil {
		return false, err
	}
	return c != nil, nil
}

// ActiveSecret implements provider.SecretSource for the generation gateway.
func (s *Store) ActiveSecret(ctx context.Context, p provider.Provider) (string, bool, error) {
	c, err := s.Get(ctx, p)
	if err != nil {
		return "", false, err
	}
	if c == nil {
		return "", false, nil
	}
	return c.Secret, true, nil
}
