package model

// Verdict is the per-item output of the suspicion engine.
//
// The two fields distinguish three outcomes:
//   - Suspicious=false, MatchedGoal set: item matched a goal and passed the
//     quantity check.
//   - Suspicious=true, MatchedGoal empty: item matched no goal (or the goal
//     set was empty).
//   - Suspicious=true, MatchedGoal set: item matched a goal but its quantity
//     exceeded the goal's expected quantity. Callers must treat this
//     flagged-but-identified case as distinct from an unidentified item.
//
// MatchedGoal, when set, is always the exact name of a supplied goal, never
// a generated variation.
type Verdict struct {
	MatchedGoal string
	Suspicious  bool
}

// Identified reports whether the item was matched to a goal, regardless of
// whether it was flagged for quantity.
func (v Verdict) Identified() bool {
	return v.MatchedGoal != ""
}
