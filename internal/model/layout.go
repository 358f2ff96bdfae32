package model

import "time"

// AppItem is one app known to the catalog, the planner's unit of work. The
// ID is assigned upstream and threaded through unchanged; it is the only
// cross-run identity in the pipeline.
type AppItem struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	// UsageScore in [0,1] when a usage signal exists; nil means no signal
	// and the planner falls back to rank-derived scores.
	UsageScore *float64 `json:"usageScore,omitempty"`
}

// GoalWeights is the per-user weighting of the planner's objectives.
// Callers are expected to hand in weights summing to 1.0; the planner does
// not renormalize.
type GoalWeights struct {
	Utility    float64 `json:"utility"`
	Flow       float64 `json:"flow"`
	Aesthetics float64 `json:"aesthetics"`
	MoveCost   float64 `json:"moveCost"`
}

// ReachabilityMap assigns each slot an ergonomic-ease weight in [0,1]. An
// empty map means no calibration exists and the heuristic applies.
type ReachabilityMap map[Slot]float64

// LayoutAssignment binds one app to one slot. A layout is a set of these
// with at most one slot per app; a recommended layout additionally has at
// most one app per slot.
type LayoutAssignment struct {
	AppID string `json:"appId"`
	Slot  Slot   `json:"slot"`
}

// ScoreBreakdown decomposes a layout score into the planner's objective
// terms. AggregateScore is utility + flow + aesthetic − move-cost.
type ScoreBreakdown struct {
	UtilityScore    float64 `json:"utilityScore"`
	FlowScore       float64 `json:"flowScore"`
	AestheticScore  float64 `json:"aestheticScore"`
	MoveCostPenalty float64 `json:"moveCostPenalty"`
}

// Aggregate returns the single comparable score for this breakdown.
func (b ScoreBreakdown) Aggregate() float64 {
	return b.UtilityScore + b.FlowScore + b.AestheticScore - b.MoveCostPenalty
}

// LayoutPlan is a computed rearrangement: the recommended assignment set
// plus the score of the current layout and of the recommendation, so the
// caller can show the expected improvement.
type LayoutPlan struct {
	ID               string             `json:"id,omitempty"`
	ProfileID        string             `json:"profileId,omitempty"`
	Recommended      []LayoutAssignment `json:"recommended"`
	CurrentScore     ScoreBreakdown     `json:"currentScore"`
	RecommendedScore ScoreBreakdown     `json:"recommendedScore"`
	CreatedAt        time.Time          `json:"createdAt,omitempty"`
}

// Improvement returns the aggregate score delta of the recommendation over
// the current layout.
func (p LayoutPlan) Improvement() float64 {
	return p.RecommendedScore.Aggregate() - p.CurrentScore.Aggregate()
}
