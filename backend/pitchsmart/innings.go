package pitchsmart

import "sort"

// Pitch count thresholds for the position transition rules.
const (
	// A pitcher who reaches 41 effective pitches may not move to
	// catcher for the remainder of the game.
	noCatchPitchThreshold = 41
	// A player who catches this many innings may not pitch afterwards
	// in the same game.
	noPitchCaughtInnings = 4
	// A player who caught 1-3 innings and then threw 21+ effective
	// pitches may not return to catch.
	noReturnCatchPitchThreshold = 21
)

// sortedCopy returns the innings sorted ascending without mutating the
// caller's slice. Rule evaluation is order-insensitive because every
// predicate sorts first.
func sortedCopy(innings []int) []int {
	s := make([]int, len(innings))
	copy(s, innings)
	sort.Ints(s)
	return s
}

// HasInningsGap reports whether the innings a player pitched are not
// perfectly consecutive. A pitcher who is removed may not return later
// in the same game, which manifests as a gap in the inning set. Zero or
// one innings never gap. Extra innings (beyond 6) are supported; there
// is no upper bound.
func HasInningsGap(pitchedInnings []int) bool {
	if len(pitchedInnings) < 2 {
		return false
	}
	s := sortedCopy(pitchedInnings)
	for i := 1; i < len(s); i++ {
		if s[i]-s[i-1] > 1 {
			return true
		}
	}
	return false
}

// CannotCatchDueToHighPitchCount is Rule A: once a pitcher has thrown
// 41+ effective pitches, catching any inning after their last pitched
// inning is illegal. Catching that happened before the pitching stint
// is unaffected.
func CannotCatchDueToHighPitchCount(pitchedInnings, caughtInnings []int, effectivePitchCount int) bool {
	if effectivePitchCount < noCatchPitchThreshold {
		return false
	}
	if len(pitchedInnings) == 0 || len(caughtInnings) == 0 {
		return false
	}
	pitched := sortedCopy(pitchedInnings)
	lastPitched := pitched[len(pitched)-1]
	for _, c := range caughtInnings {
		if c > lastPitched {
			return true
		}
	}
	return false
}

// CannotPitchDueToFourInningsCatching is Rule B: catching 4+ innings
// forecloses pitching for the rest of that game. Only pitching that
// occurs after the 4th caught inning is illegal.
func CannotPitchDueToFourInningsCatching(pitchedInnings, caughtInnings []int) bool {
	if len(caughtInnings) < noPitchCaughtInnings {
		return false
	}
	if len(pitchedInnings) == 0 {
		return false
	}
	caught := sortedCopy(caughtInnings)
	fourthCaught := caught[noPitchCaughtInnings-1]
	for _, p := range pitchedInnings {
		if p > fourthCaught {
			return true
		}
	}
	return false
}

// CannotCatchAgainDueToCombined is Rule C: a brief catching stint (1-3
// innings) followed by a 21+ pitch outing forecloses returning to
// catch later in the same game. Catching that never resumes after
// pitching is legal, as is catching entirely after pitching with no
// prior stint.
func CannotCatchAgainDueToCombined(pitchedInnings, caughtInnings []int, effectivePitchCount int) bool {
	if len(caughtInnings) < 1 || len(caughtInnings) > 3 {
		return false
	}
	if effectivePitchCount < noReturnCatchPitchThreshold {
		return false
	}
	if len(pitchedInnings) == 0 {
		return false
	}
	pitched := sortedCopy(pitchedInnings)
	firstPitched := pitched[0]
	lastPitched := pitched[len(pitched)-1]

	caughtBefore := false
	caughtAfter := false
	for _, c := range caughtInnings {
		if c < firstPitched {
			caughtBefore = true
		}
		if c > lastPitched {
			caughtAfter = true
		}
	}
	return caughtBefore && caughtAfter
}

// PitchedBeforeEligibleDate reports whether a pitching appearance on
// gameDate violates the rest restriction carried over from the player's
// most recent prior appearance. Equal dates are not a violation; the
// player becomes eligible on the computed date, inclusive. An empty
// inning set or missing date on either side resolves to no violation.
func PitchedBeforeEligibleDate(gameDate, previousNextEligibleDate Date, pitchedInnings []int) bool {
	if len(pitchedInnings) == 0 {
		return false
	}
	if gameDate.IsZero() || previousNextEligibleDate.IsZero() {
		return false
	}
	return gameDate.Before(previousNextEligibleDate)
}
