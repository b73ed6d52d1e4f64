// Package project manages the top-level containers training sessions hang
// off. Deleting a project cascades to its sessions and their pairs at the
// database level.
package project

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

var ErrNotFound = errors.New("not found")

type Service struct {
	db *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

type CreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	BaseModel   string `json:"base_model,omitempty"`
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Project, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, validate.Errorf("project name is required")
	}

	ownerID := identity.IDFromContext(ctx)

	var p models.Project
	err := s.db.QueryRow(ctx,
		`INSERT INTO projects (owner_id, name, description, base_model)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, owner_id, name, description, base_model, created_at`,
		ownerID, req.Name, req.Description, req.BaseModel,
	).Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.BaseModel, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return &p, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	ownerID := identity.IDFromContext(ctx)

	var p models.Project
	err := s.db.QueryRow(ctx,
		`SELECT id, owner_id, name, description, base_model, created_at
		 FROM projects WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	).Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.BaseModel, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return &p, nil
}

func (s *Service) List(ctx context.Context) ([]models.Project, error) {
	ownerID := identity.IDFromContext(ctx)

	rows, err := s.db.Query(ctx,
		`SELECT id, owner_id, name, description, base_model, created_at
		 FROM projects WHERE owner_id = $1 ORDER BY created_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.BaseModel, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// Delete removes a project and, via FK cascade, its sessions and pairs.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	ownerID := identity.IDFromContext(ctx)

	_, err := s.db.Exec(ctx,
		"DELETE FROM projects WHERE id = $1 AND owner_id = $2",
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}
