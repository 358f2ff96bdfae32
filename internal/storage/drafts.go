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

// SaveDraft persists a guided-apply draft, assigning an ID and timestamps
// when unset.
func (s *SQLiteStorage) SaveDraft(ctx context.Context, draft *model.GuidedApplyDraft) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if draft == nil {
		return fmt.Errorf("draft must not be nil")
	}
	if draft.ID == "" {
		draft.ID = NewID()
	}
	now := time.Now().UTC()
	if draft.CreatedAt.IsZero() {
		draft.CreatedAt = now
	}
	draft.UpdatedAt = now

	moves, err := json.Marshal(draft.Moves)
	if err != nil {
		return fmt.Errorf("failed to encode moves: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO drafts (id, plan_id, moves, cursor, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			plan_id = excluded.plan_id,
			moves = excluded.moves,
			cursor = excluded.cursor,
			updated_at = excluded.updated_at
	`, draft.ID, draft.PlanID, string(moves), draft.Cursor, draft.CreatedAt, draft.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

// GetDraft retrieves a draft by ID.
func (s *SQLiteStorage) GetDraft(ctx context.Context, id string) (*model.GuidedApplyDraft, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, plan_id, moves, cursor, created_at, updated_at
		FROM drafts
		WHERE id = ?
	`, id)
	return scanDraft(row)
}

// LatestDraft returns the most recently updated draft for a plan.
func (s *SQLiteStorage) LatestDraft(ctx context.Context, planID string) (*model.GuidedApplyDraft, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(planID, "planID"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, plan_id, moves, cursor, created_at, updated_at
		FROM drafts
		WHERE plan_id = ?
		ORDER BY updated_at DESC, id DESC
		LIMIT 1
	`, planID)
	return scanDraft(row)
}

// DeleteDraft removes a draft by ID.
func (s *SQLiteStorage) DeleteDraft(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM drafts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("draft %q: %w", id, common.ErrNotFound)
	}
	return nil
}

func scanDraft(row rowScanner) (*model.GuidedApplyDraft, error) {
	var (
		draft model.GuidedApplyDraft
		moves string
	)
	err := row.Scan(&draft.ID, &draft.PlanID, &moves, &draft.Cursor, &draft.CreatedAt, &draft.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan draft: %w", err)
	}
	if err := json.Unmarshal([]byte(moves), &draft.Moves); err != nil {
		return nil, fmt.Errorf("failed to decode moves: %w", err)
	}
	return &draft, nil
}
