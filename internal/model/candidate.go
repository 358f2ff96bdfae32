// Package model defines the domain types shared across the gridsense
// pipeline: OCR text candidates, grid slots, usage entries, profiles,
// and layout plans.
package model

// TextCandidate is a single located text detection from one OCR pass over a
// screenshot. Coordinates are normalized screen fractions in [0,1] with a
// bottom-left origin for Y, matching what the platform recognizer emits;
// consumers convert to distance-from-top as needed.
//
// BoxWidth/BoxHeight of zero mean the recognizer did not report geometry for
// this detection. Rules that depend on geometry treat zero as "unknown" and
// pass rather than reject.
type TextCandidate struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	CenterX    float64 `json:"centerX"`
	CenterY    float64 `json:"centerY"`
	BoxWidth   float64 `json:"boxWidth,omitempty"`
	BoxHeight  float64 `json:"boxHeight,omitempty"`
}

// HasGeometry reports whether the recognizer supplied a bounding box for
// this candidate.
func (c TextCandidate) HasGeometry() bool {
	return c.BoxWidth > 0 && c.BoxHeight > 0
}

// YFromTop converts the bottom-origin CenterY into a distance from the top
// of the screen, clamped to [0,1].
func (c TextCandidate) YFromTop() float64 {
	y := c.CenterY
	if y < 0 {
		y = 0
	}
	if y > 1 {
		y = 1
	}
	return 1 - y
}

// ImportQuality grades how usable one OCR pass is for building a detection.
type ImportQuality string

const (
	// ImportQualityLow means too few or too uncertain detections; the caller
	// should ask for a retake.
	ImportQualityLow ImportQuality = "low"
	// ImportQualityMedium means a usable but incomplete pass.
	ImportQualityMedium ImportQuality = "medium"
	// ImportQualityHigh means a dense, confident pass.
	ImportQualityHigh ImportQuality = "high"
)
