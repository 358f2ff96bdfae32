package model

import "time"

// Handedness is which hand the user favors when holding the phone.
type Handedness string

const (
	// HandednessLeft favors left-edge columns.
	HandednessLeft Handedness = "left"
	// HandednessRight favors right-edge columns.
	HandednessRight Handedness = "right"
	// HandednessAlternating takes the better of the two edge biases.
	HandednessAlternating Handedness = "alternating"
)

// Grip is how the user typically holds the device.
type Grip string

const (
	// GripOneHand means thumb-only reach from one side.
	GripOneHand Grip = "oneHand"
	// GripTwoHand means two-handed use; horizontal centering matters more
	// than side bias.
	GripTwoHand Grip = "twoHand"
)

// Profile is the per-user ergonomic and aesthetic configuration the planner
// works from.
type Profile struct {
	ID          string      `json:"id"`
	Name        string      `json:"name,omitempty"`
	Handedness  Handedness  `json:"handedness"`
	Grip        Grip        `json:"grip"`
	GoalWeights GoalWeights `json:"goalWeights"`
	// Rows and Columns of the device's app grid.
	Rows    int `json:"rows"`
	Columns int `json:"columns"`
	// Reachability holds calibrated per-slot weights when the user has run
	// the calibration flow; empty means use the heuristic.
	Reachability ReachabilityMap `json:"-"`
	CreatedAt    time.Time       `json:"createdAt,omitempty"`
	UpdatedAt    time.Time       `json:"updatedAt,omitempty"`
}

// CalibrationSample is one measured reaction from the calibration flow: how
// long the user took to hit a target shown at a given slot. Faster taps
// mean easier reach.
type CalibrationSample struct {
	Slot       Slot      `json:"slot"`
	ResponseMS float64   `json:"responseMs"`
	MeasuredAt time.Time `json:"measuredAt,omitempty"`
}
