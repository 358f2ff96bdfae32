package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gridsense/gridsense/internal/model"
)

// SaveDetection appends one page detection to the scan history.
func (s *SQLiteStorage) SaveDetection(ctx context.Context, detection *model.HomeScreenDetection) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if detection == nil {
		return fmt.Errorf("detection must not be nil")
	}

	data, err := json.Marshal(detection)
	if err != nil {
		return fmt.Errorf("failed to encode detection: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO scans (page, detection, created_at)
		VALUES (?, ?, ?)
	`, detection.Page, string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save detection: %w", err)
	}
	return nil
}

// LatestDetections returns the newest stored detection for each page,
// ordered by page number. An empty history yields an empty slice.
func (s *SQLiteStorage) LatestDetections(ctx context.Context) ([]*model.HomeScreenDetection, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT detection
		FROM scans
		WHERE id IN (SELECT MAX(id) FROM scans GROUP BY page)
		ORDER BY page
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query detections: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var detections []*model.HomeScreenDetection
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan detection: %w", err)
		}
		var d model.HomeScreenDetection
		if err := json.Unmarshal([]byte(data), &d); err != nil {
			return nil, fmt.Errorf("failed to decode detection: %w", err)
		}
		detections = append(detections, &d)
	}
	return detections, rows.Err()
}
