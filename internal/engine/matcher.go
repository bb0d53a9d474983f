package engine

import (
	"strings"

	"github.com/hollis-dev/invoice-sentinel/internal/model"
)

// normalize lowercases and trims surrounding whitespace. No locale handling,
// no Unicode folding beyond case.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Matches reports whether an item description and a goal name refer to the
// same thing.
//
// The check is bidirectional substring containment over the normalized
// strings, then over each normalized variation against the goal. It is
// deliberately not edit distance or token similarity: downstream behavior
// depends on this heuristic's exact false-positive/false-negative profile,
// so it must not be swapped for a smarter metric.
func Matches(itemDescription, goalName string, variations []string) bool {
	item := normalize(itemDescription)
	goal := normalize(goalName)

	if goal == "" {
		return false
	}

	if strings.Contains(item, goal) || strings.Contains(goal, item) {
		return true
	}

	for _, variation := range variations {
		v := normalize(variation)
		if v == "" {
			continue
		}
		if strings.Contains(goal, v) || strings.Contains(v, goal) {
			return true
		}
	}

	return false
}

// ExceedsGoal reports whether an item quantity is anomalous relative to a
// goal's expected quantity. Strict greater-than, no tolerance band. Goals
// without a declared quantity never flag.
func ExceedsGoal(itemQuantity float64, goal *model.Goal) bool {
	if goal == nil || !goal.HasQuantity() {
		return false
	}
	return itemQuantity > float64(*goal.ExpectedQuantity)
}
