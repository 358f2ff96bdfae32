package planner

import (
	"github.com/gridsense/gridsense/internal/model"
)

// Heuristic reachability weights. One-handed grips are dominated by
// vertical position with a side bias for the thumb's home edge; two-handed
// grips reward horizontal centering more than strict side bias.
const (
	oneHandVerticalWeight = 0.70
	oneHandHandWeight     = 0.30

	twoHandVerticalWeight = 0.45
	twoHandCenterWeight   = 0.35
	twoHandHandWeight     = 0.20
)

// SlotReachability returns the ergonomic-ease weight for one slot under a
// profile: the calibrated value when the profile carries one, otherwise the
// closed-form grip/handedness heuristic.
func SlotReachability(profile model.Profile, slot model.Slot) float64 {
	if r, ok := profile.Reachability[slot]; ok {
		return clamp01(r)
	}
	return heuristicReachability(profile, slot)
}

func heuristicReachability(profile model.Profile, slot model.Slot) float64 {
	vertical := verticalPosition(profile, slot)

	rightBias := 0.5
	if profile.Columns > 1 {
		rightBias = float64(slot.Column) / float64(profile.Columns-1)
	}
	leftBias := 1 - rightBias

	var handFactor float64
	switch profile.Handedness {
	case model.HandednessLeft:
		handFactor = leftBias
	case model.HandednessRight:
		handFactor = rightBias
	default:
		handFactor = leftBias
		if rightBias > leftBias {
			handFactor = rightBias
		}
	}

	if profile.Grip == model.GripTwoHand {
		centering := 1 - 2*abs(rightBias-0.5)
		return clamp01(twoHandVerticalWeight*vertical + twoHandCenterWeight*centering + twoHandHandWeight*handFactor)
	}
	return clamp01(oneHandVerticalWeight*vertical + oneHandHandWeight*handFactor)
}

// verticalPosition is 0 at the top row and 1 at the bottom. Dock slots sit
// at the very bottom of the screen regardless of their row field.
func verticalPosition(profile model.Profile, slot model.Slot) float64 {
	if slot.Type == model.SlotTypeDock {
		return 1
	}
	if profile.Rows <= 1 {
		return 0
	}
	return float64(slot.Row) / float64(profile.Rows-1)
}

// ReachabilityFromSamples converts measured calibration taps into a
// reachability map: per-slot mean response times, min-max normalized and
// inverted so the fastest slot scores 1. A degenerate sample set where
// every slot measures identically yields a neutral 0.5 for each.
func ReachabilityFromSamples(samples []model.CalibrationSample) model.ReachabilityMap {
	if len(samples) == 0 {
		return nil
	}

	sums := make(map[model.Slot]float64)
	counts := make(map[model.Slot]int)
	for _, s := range samples {
		sums[s.Slot] += s.ResponseMS
		counts[s.Slot]++
	}

	means := make(map[model.Slot]float64, len(sums))
	minMean, maxMean := 0.0, 0.0
	first := true
	for slot, sum := range sums {
		mean := sum / float64(counts[slot])
		means[slot] = mean
		if first {
			minMean, maxMean = mean, mean
			first = false
			continue
		}
		if mean < minMean {
			minMean = mean
		}
		if mean > maxMean {
			maxMean = mean
		}
	}

	out := make(model.ReachabilityMap, len(means))
	for slot, mean := range means {
		if maxMean == minMean {
			out[slot] = 0.5
			continue
		}
		out[slot] = (maxMean - mean) / (maxMean - minMean)
	}
	return out
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
