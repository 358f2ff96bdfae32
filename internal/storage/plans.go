package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gridsense/gridsense/internal/common"
	"github.com/gridsense/gridsense/internal/model"
)

// SavePlan persists a layout plan, assigning an ID and timestamp when unset.
func (s *SQLiteStorage) SavePlan(ctx context.Context, plan *model.LayoutPlan) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if plan == nil {
		return fmt.Errorf("plan must not be nil")
	}
	if err := validateString(plan.ProfileID, "plan.ProfileID"); err != nil {
		return err
	}
	if plan.ID == "" {
		plan.ID = NewID()
	}
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = time.Now().UTC()
	}

	recommended, err := json.Marshal(plan.Recommended)
	if err != nil {
		return fmt.Errorf("failed to encode assignments: %w", err)
	}
	current, err := json.Marshal(plan.CurrentScore)
	if err != nil {
		return fmt.Errorf("failed to encode current score: %w", err)
	}
	proposed, err := json.Marshal(plan.RecommendedScore)
	if err != nil {
		return fmt.Errorf("failed to encode recommended score: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO plans (id, profile_id, recommended, current_score, recommended_score, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			profile_id = excluded.profile_id,
			recommended = excluded.recommended,
			current_score = excluded.current_score,
			recommended_score = excluded.recommended_score
	`, plan.ID, plan.ProfileID, string(recommended), string(current), string(proposed), plan.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save plan: %w", err)
	}
	return nil
}

// GetPlan retrieves a plan by ID.
func (s *SQLiteStorage) GetPlan(ctx context.Context, id string) (*model.LayoutPlan, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, profile_id, recommended, current_score, recommended_score, created_at
		FROM plans
		WHERE id = ?
	`, id)
	return scanPlan(row)
}

// LatestPlan returns the most recently created plan for a profile.
func (s *SQLiteStorage) LatestPlan(ctx context.Context, profileID string) (*model.LayoutPlan, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(profileID, "profileID"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, profile_id, recommended, current_score, recommended_score, created_at
		FROM plans
		WHERE profile_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, profileID)
	return scanPlan(row)
}

func scanPlan(row rowScanner) (*model.LayoutPlan, error) {
	var (
		plan        model.LayoutPlan
		recommended string
		current     string
		proposed    string
	)
	err := row.Scan(&plan.ID, &plan.ProfileID, &recommended, &current, &proposed, &plan.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan plan: %w", err)
	}

	if err := json.Unmarshal([]byte(recommended), &plan.Recommended); err != nil {
		return nil, fmt.Errorf("failed to decode assignments: %w", err)
	}
	if err := json.Unmarshal([]byte(current), &plan.CurrentScore); err != nil {
		return nil, fmt.Errorf("failed to decode current score: %w", err)
	}
	if err := json.Unmarshal([]byte(proposed), &plan.RecommendedScore); err != nil {
		return nil, fmt.Errorf("failed to decode recommended score: %w", err)
	}
	return &plan, nil
}
