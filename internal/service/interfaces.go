// Package service defines the interfaces between the pipeline core, its
// stores, and the recognition boundary, so packages depend on contracts
// rather than concrete implementations.
package service

import (
	"context"
	"time"

	"github.com/gridsense/gridsense/internal/model"
)

// Recognizer is the OCR/text-recognition collaborator: it supplies located
// text candidates for one screenshot. Implementations must return
// common.ErrRecognitionUnavailable when recognition could not run and
// common.ErrImageUnreadable when the input could not be decoded; an empty
// candidate list with a nil error means the screenshot genuinely contained
// no usable text.
type Recognizer interface {
	Recognize(ctx context.Context, source string) ([]model.TextCandidate, error)
}

// ProfileStore persists user profiles and their calibration data.
type ProfileStore interface {
	SaveProfile(ctx context.Context, profile *model.Profile) error
	GetProfile(ctx context.Context, id string) (*model.Profile, error)
	ListProfiles(ctx context.Context) ([]*model.Profile, error)
	DeleteProfile(ctx context.Context, id string) error
}

// PlanStore persists computed layout plans.
type PlanStore interface {
	SavePlan(ctx context.Context, plan *model.LayoutPlan) error
	GetPlan(ctx context.Context, id string) (*model.LayoutPlan, error)
	LatestPlan(ctx context.Context, profileID string) (*model.LayoutPlan, error)
}

// DraftStore persists guided-apply drafts so a half-finished rearrangement
// survives restarts.
type DraftStore interface {
	SaveDraft(ctx context.Context, draft *model.GuidedApplyDraft) error
	GetDraft(ctx context.Context, id string) (*model.GuidedApplyDraft, error)
	LatestDraft(ctx context.Context, planID string) (*model.GuidedApplyDraft, error)
	DeleteDraft(ctx context.Context, id string) error
}

// ScanStore persists per-page home-screen detections from scan sessions.
type ScanStore interface {
	SaveDetection(ctx context.Context, detection *model.HomeScreenDetection) error
	LatestDetections(ctx context.Context) ([]*model.HomeScreenDetection, error)
}

// Storage aggregates every store the CLI works with.
type Storage interface {
	ProfileStore
	PlanStore
	DraftStore
	ScanStore
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
