package scan

import (
	"context"
	"sort"
	"strings"
)

// ParentGuess is the inferencer's result: the most likely parent branch and
// how that conclusion was reached.
type ParentGuess struct {
	Parent     string
	Confidence Confidence
}

// DistanceOracle answers the commit-graph questions tier-2 inference needs.
// A nil oracle skips ancestry analysis entirely.
type DistanceOracle interface {
	CountCommits(ctx context.Context, base, head string) (int, error)
	IsAncestor(ctx context.Context, ancestor, descendant string) (bool, error)
}

// InferParent decides the most likely parent of target among branches.
//
// Naming convention dominates: a branch whose name is a prefix segment of
// the target ("B/" or "B-") is a deliberate, human-asserted signal and
// short-circuits all graph analysis. Failing that, the closest strict git
// ancestor wins with medium confidence: a directly-derived branch is
// reachable from its true parent in the fewest commits. When neither signal
// exists the base branch is returned with low confidence.
func InferParent(ctx context.Context, target string, branches []string, base string, oracle DistanceOracle) ParentGuess {
	if parent, ok := matchByName(target, branches, base); ok {
		return ParentGuess{Parent: parent, Confidence: ConfidenceHigh}
	}

	if oracle != nil {
		if parent, ok := closestAncestor(ctx, target, branches, base, oracle); ok {
			return ParentGuess{Parent: parent, Confidence: ConfidenceMedium}
		}
	}

	return ParentGuess{Parent: base, Confidence: ConfidenceLow}
}

// matchByName finds the longest branch name that is a prefix segment of
// target. Equal-length matches tie-break lexicographically so inference is
// deterministic regardless of branch enumeration order.
func matchByName(target string, branches []string, base string) (string, bool) {
	best := ""
	for _, candidate := range branches {
		if candidate == target || candidate == base {
			continue
		}
		if !strings.HasPrefix(target, candidate+"/") && !strings.HasPrefix(target, candidate+"-") {
			continue
		}
		if len(candidate) > len(best) || (len(candidate) == len(best) && candidate < best) {
			best = candidate
		}
	}
	return best, best != ""
}

// closestAncestor finds the candidate branch whose tip is a strict ancestor
// of target with the smallest strictly-positive commit distance. The base
// branch seeds the search as the baseline; a win by the base itself is not
// evidence of a closer parent, so it reports no result.
func closestAncestor(ctx context.Context, target string, branches []string, base string, oracle DistanceOracle) (string, bool) {
	bestName := ""
	bestDistance := 0

	if distance, err := oracle.CountCommits(ctx, base, target); err == nil && distance > 0 {
		bestName = base
		bestDistance = distance
	}

	// Sorted iteration keeps results stable across runs.
	candidates := make([]string, 0, len(branches))
	for _, candidate := range branches {
		if candidate != target && candidate != base {
			candidates = append(candidates, candidate)
		}
	}
	sort.Strings(candidates)

	for _, candidate := range candidates {
		ok, err := oracle.IsAncestor(ctx, candidate, target)
		if err != nil || !ok {
			continue
		}

		distance, err := oracle.CountCommits(ctx, candidate, target)
		if err != nil || distance <= 0 {
			continue
		}
		if bestName == "" || distance < bestDistance {
			bestName = candidate
			bestDistance = distance
		}
	}

	if bestName == "" || bestName == base {
		return "", false
	}
	return bestName, true
}
