// Package planner computes reachability- and usage-weighted layout
// recommendations. Everything here is a pure function over its inputs:
// identical profiles, apps, and assignments always produce byte-identical
// plans.
package planner

import (
	"sort"
	"strings"

	"github.com/gridsense/gridsense/internal/model"
)

// minFallbackUsage is the floor for rank-derived usage scores so even the
// least used app keeps a nonzero pull toward a reachable slot.
const minFallbackUsage = 0.05

// ScoreContext carries the per-app usage and per-slot reachability signals
// the scorer weighs.
type ScoreContext struct {
	Usage        map[string]float64
	Reachability model.ReachabilityMap
}

// Score evaluates one assignment set under the given goal weights. The
// utility term is the usage-weighted reachability over all assignments; the
// flow, aesthetic, and move-cost terms keep their weight multiplication
// against signals that are currently always zero, so wiring in a real
// signal later is a local change.
func Score(assignments []model.LayoutAssignment, weights model.GoalWeights, ctx ScoreContext) model.ScoreBreakdown {
	var utilitySignal float64
	for _, a := range assignments {
		utilitySignal += ctx.Usage[a.AppID] * ctx.Reachability[a.Slot]
	}

	var (
		flowSignal      float64
		aestheticSignal float64
		moveCostSignal  float64
	)

	return model.ScoreBreakdown{
		UtilityScore:    weights.Utility * utilitySignal,
		FlowScore:       weights.Flow * flowSignal,
		AestheticScore:  weights.Aesthetics * aestheticSignal,
		MoveCostPenalty: weights.MoveCost * moveCostSignal,
	}
}

// BuildPlan scores the current assignment and produces a recommended
// rearrangement by greedy rank pairing: apps ranked by usage meet slots
// ranked by reachability, best to best. The pairing is deterministic and
// intentionally not a globally optimal matching.
//
// Empty apps or an empty current assignment yield an all-zero plan, never
// an error.
func BuildPlan(profile model.Profile, apps []model.AppItem, current []model.LayoutAssignment) model.LayoutPlan {
	if len(apps) == 0 || len(current) == 0 {
		return model.LayoutPlan{ProfileID: profile.ID}
	}

	usage := usageByApp(apps)
	reach := reachabilityBySlot(profile, current)
	ctx := ScoreContext{Usage: usage, Reachability: reach}

	currentScore := Score(current, profile.GoalWeights, ctx)

	rankedApps := make([]model.AppItem, len(apps))
	copy(rankedApps, apps)
	sort.SliceStable(rankedApps, func(i, j int) bool {
		ui, uj := usage[rankedApps[i].ID], usage[rankedApps[j].ID]
		if ui != uj {
			return ui > uj
		}
		return strings.ToLower(rankedApps[i].DisplayName) < strings.ToLower(rankedApps[j].DisplayName)
	})

	rankedSlots := make([]model.Slot, 0, len(current))
	for _, a := range current {
		rankedSlots = append(rankedSlots, a.Slot)
	}
	sort.SliceStable(rankedSlots, func(i, j int) bool {
		ri, rj := reach[rankedSlots[i]], reach[rankedSlots[j]]
		if ri != rj {
			return ri > rj
		}
		if rankedSlots[i].Page != rankedSlots[j].Page {
			return rankedSlots[i].Page < rankedSlots[j].Page
		}
		// Bottom rows first at equal reachability, biasing ties toward
		// thumb-reachable zones.
		if rankedSlots[i].Row != rankedSlots[j].Row {
			return rankedSlots[i].Row > rankedSlots[j].Row
		}
		return rankedSlots[i].Column < rankedSlots[j].Column
	})

	n := len(rankedApps)
	if len(rankedSlots) < n {
		n = len(rankedSlots)
	}
	recommended := make([]model.LayoutAssignment, 0, n)
	for i := 0; i < n; i++ {
		recommended = append(recommended, model.LayoutAssignment{
			AppID: rankedApps[i].ID,
			Slot:  rankedSlots[i],
		})
	}

	return model.LayoutPlan{
		ProfileID:        profile.ID,
		Recommended:      recommended,
		CurrentScore:     currentScore,
		RecommendedScore: Score(recommended, profile.GoalWeights, ctx),
	}
}

// usageByApp resolves every app to a usage score: the explicit score when
// supplied and non-negative, otherwise a rank fallback over the usage
// ordering with apps lacking any signal ranked last.
func usageByApp(apps []model.AppItem) map[string]float64 {
	ranked := make([]model.AppItem, len(apps))
	copy(ranked, apps)
	sort.SliceStable(ranked, func(i, j int) bool {
		ui, iok := explicitUsage(ranked[i])
		uj, jok := explicitUsage(ranked[j])
		if iok != jok {
			return iok
		}
		if iok && jok && ui != uj {
			return ui > uj
		}
		return strings.ToLower(ranked[i].DisplayName) < strings.ToLower(ranked[j].DisplayName)
	})

	out := make(map[string]float64, len(ranked))
	for idx, app := range ranked {
		if u, ok := explicitUsage(app); ok {
			out[app.ID] = u
			continue
		}
		out[app.ID] = rankFallback(idx, len(ranked))
	}
	return out
}

func explicitUsage(app model.AppItem) (float64, bool) {
	if app.UsageScore != nil && *app.UsageScore >= 0 {
		return *app.UsageScore, true
	}
	return 0, false
}

func rankFallback(index, total int) float64 {
	if total < 2 {
		return 1
	}
	f := 1 - float64(index)/float64(total-1)
	if f < minFallbackUsage {
		return minFallbackUsage
	}
	return f
}

// reachabilityBySlot resolves every slot in the current assignment, taking
// calibrated values when present and the heuristic otherwise.
func reachabilityBySlot(profile model.Profile, current []model.LayoutAssignment) model.ReachabilityMap {
	out := make(model.ReachabilityMap, len(current))
	for _, a := range current {
		if _, seen := out[a.Slot]; seen {
			continue
		}
		out[a.Slot] = SlotReachability(profile, a.Slot)
	}
	return out
}
