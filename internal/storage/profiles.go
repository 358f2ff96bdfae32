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

// reachabilityEntry is the JSON row format for a calibrated slot weight;
// struct-keyed maps don't serialize directly.
type reachabilityEntry struct {
	Slot  model.Slot `json:"slot"`
	Value float64    `json:"value"`
}

func encodeReachability(m model.ReachabilityMap) (string, error) {
	if len(m) == 0 {
		return "", nil
	}
	entries := make([]reachabilityEntry, 0, len(m))
	for slot, value := range m {
		entries = append(entries, reachabilityEntry{Slot: slot, Value: value})
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("failed to encode reachability: %w", err)
	}
	return string(data), nil
}

func decodeReachability(data string) (model.ReachabilityMap, error) {
	if data == "" {
		return nil, nil
	}
	var entries []reachabilityEntry
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		return nil, fmt.Errorf("failed to decode reachability: %w", err)
	}
	out := make(model.ReachabilityMap, len(entries))
	for _, e := range entries {
		out[e.Slot] = e.Value
	}
	return out, nil
}

// SaveProfile inserts or updates a profile.
func (s *SQLiteStorage) SaveProfile(ctx context.Context, profile *model.Profile) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if profile == nil {
		return fmt.Errorf("profile must not be nil")
	}
	if err := validateString(profile.ID, "profile.ID"); err != nil {
		return err
	}

	weights, err := json.Marshal(profile.GoalWeights)
	if err != nil {
		return fmt.Errorf("failed to encode goal weights: %w", err)
	}
	reach, err := encodeReachability(profile.Reachability)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO profiles (id, name, handedness, grip, goal_weights, rows, columns, reachability, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			handedness = excluded.handedness,
			grip = excluded.grip,
			goal_weights = excluded.goal_weights,
			rows = excluded.rows,
			columns = excluded.columns,
			reachability = excluded.reachability,
			updated_at = excluded.updated_at
	`, profile.ID, profile.Name, string(profile.Handedness), string(profile.Grip),
		string(weights), profile.Rows, profile.Columns, reach, now, now)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// GetProfile retrieves a profile by ID.
func (s *SQLiteStorage) GetProfile(ctx context.Context, id string) (*model.Profile, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, handedness, grip, goal_weights, rows, columns, COALESCE(reachability, ''), created_at, updated_at
		FROM profiles
		WHERE id = ?
	`, id)
	return scanProfile(row)
}

// ListProfiles returns all profiles ordered by name.
func (s *SQLiteStorage) ListProfiles(ctx context.Context) ([]*model.Profile, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, handedness, grip, goal_weights, rows, columns, COALESCE(reachability, ''), created_at, updated_at
		FROM profiles
		ORDER BY name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var profiles []*model.Profile
	for rows.Next() {
		p, scanErr := scanProfile(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// DeleteProfile removes a profile by ID.
func (s *SQLiteStorage) DeleteProfile(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("profile %q: %w", id, common.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*model.Profile, error) {
	var (
		p          model.Profile
		handedness string
		grip       string
		weights    string
		reach      string
	)
	err := row.Scan(&p.ID, &p.Name, &handedness, &grip, &weights,
		&p.Rows, &p.Columns, &reach, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan profile: %w", err)
	}

	p.Handedness = model.Handedness(handedness)
	p.Grip = model.Grip(grip)
	if err := json.Unmarshal([]byte(weights), &p.GoalWeights); err != nil {
		return nil, fmt.Errorf("failed to decode goal weights: %w", err)
	}
	if p.Reachability, err = decodeReachability(reach); err != nil {
		return nil, err
	}
	return &p, nil
}
