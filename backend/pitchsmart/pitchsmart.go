// Package pitchsmart implements the pitch count and position
// restriction safety rules for youth baseball, modeled on the Pitch
// Smart guidelines.
//
// Every function is a pure, deterministic computation over its
// arguments: no I/O, no clock reads, no state between calls. Missing
// or out-of-range input always degrades to "no violation / no
// restriction" rather than an error, so callers can never suppress a
// real warning by mishandling a failure path.
package pitchsmart

// ViolationKind identifies one of the six safety rule violations.
type ViolationKind string

const (
	// ViolationMaxPitches: effective pitch count over the daily
	// maximum for the player's age.
	ViolationMaxPitches ViolationKind = "MAX_PITCHES_FOR_AGE"
	// ViolationInningsGap: pitcher removed and returned in the same
	// game (non-contiguous pitched innings).
	ViolationInningsGap ViolationKind = "INNINGS_GAP"
	// ViolationCatchAfterPitching: caught after a 41+ pitch outing
	// (Rule A).
	ViolationCatchAfterPitching ViolationKind = "CATCH_AFTER_HIGH_PITCH_COUNT"
	// ViolationPitchAfterCatching: pitched after catching 4+ innings
	// (Rule B).
	ViolationPitchAfterCatching ViolationKind = "PITCH_AFTER_FOUR_CAUGHT"
	// ViolationReturnToCatch: returned to catch around a 21+ pitch
	// outing (Rule C).
	ViolationReturnToCatch ViolationKind = "RETURN_TO_CATCH"
	// ViolationInsufficientRest: pitched before the eligibility date
	// implied by the previous appearance.
	ViolationInsufficientRest ViolationKind = "INSUFFICIENT_REST"
)

// PlayerGameFacts is one player's single-game input to the rule engine.
// Innings are 1-based and unordered; PitchTally is the raw pre-last-
// batter count (0 for no appearance); PriorEligibleDate is the most
// recent non-empty next-eligible date from a strictly earlier game, or
// the zero Date when the player has no pending restriction.
type PlayerGameFacts struct {
	Age               int
	PitchTally        int
	PitchedInnings    []int
	CaughtInnings     []int
	GameDate          Date
	PriorEligibleDate Date
}

// Check evaluates all six rules against one player's game facts and
// returns the violations found, in a fixed order. An empty slice means
// the assignment is legal.
func Check(f PlayerGameFacts) []ViolationKind {
	count := EffectivePitchCount(f.PitchTally)

	var found []ViolationKind
	if ExceedsMaxPitchesForAge(f.Age, count) {
		found = append(found, ViolationMaxPitches)
	}
	if HasInningsGap(f.PitchedInnings) {
		found = append(found, ViolationInningsGap)
	}
	if CannotCatchDueToHighPitchCount(f.PitchedInnings, f.CaughtInnings, count) {
		found = append(found, ViolationCatchAfterPitching)
	}
	if CannotPitchDueToFourInningsCatching(f.PitchedInnings, f.CaughtInnings) {
		found = append(found, ViolationPitchAfterCatching)
	}
	if CannotCatchAgainDueToCombined(f.PitchedInnings, f.CaughtInnings, count) {
		found = append(found, ViolationReturnToCatch)
	}
	if PitchedBeforeEligibleDate(f.GameDate, f.PriorEligibleDate, f.PitchedInnings) {
		found = append(found, ViolationInsufficientRest)
	}
	return found
}
