package pitchsmart

// restRange maps a closed-closed effective pitch count range to the
// number of required rest days. Ranges within a band must not overlap;
// a count on a shared boundary belongs to the lower range.
type restRange struct {
	MinPitches int
	MaxPitches int
	RestDays   int
}

// AgeBand holds the daily pitch limit and rest requirements for a
// contiguous range of league ages.
type AgeBand struct {
	AgeMin            int
	AgeMax            int
	MaxPitchesPerGame int
	RestRanges        []restRange
}

// maxRangePitches is the open-ended sentinel for the last rest range of
// each band.
const maxRangePitches = 999

// ageBands is the Pitch Smart configuration for league ages 7-12.
// Bands are contiguous and non-overlapping; ages outside them have no
// limits enforced.
var ageBands = []AgeBand{
	{
		AgeMin: 7, AgeMax: 8, MaxPitchesPerGame: 50,
		RestRanges: []restRange{
			{1, 20, 0},
			{21, 35, 1},
			{36, 50, 2},
			{51, 65, 3},
			{66, maxRangePitches, 4},
		},
	},
	{
		AgeMin: 9, AgeMax: 10, MaxPitchesPerGame: 75,
		RestRanges: []restRange{
			{1, 20, 0},
			{21, 35, 1},
			{36, 50, 2},
			{51, 65, 3},
			{66, maxRangePitches, 4},
		},
	},
	{
		AgeMin: 11, AgeMax: 12, MaxPitchesPerGame: 85,
		RestRanges: []restRange{
			{1, 20, 0},
			{21, 35, 1},
			{36, 50, 2},
			{51, 65, 3},
			{66, maxRangePitches, 4},
		},
	},
}

// BandForAge returns the rule band covering the given league age.
// ok is false when the age is outside every band, which downstream
// rules treat as "no limit applies".
func BandForAge(age int) (AgeBand, bool) {
	for _, b := range ageBands {
		if age >= b.AgeMin && age <= b.AgeMax {
			return b, true
		}
	}
	return AgeBand{}, false
}

// EffectivePitchCount converts the raw "pitches before the last batter"
// tally into the official pitch count. The scorekeeper does not tally
// the final batter's pitches individually, so any appearance counts at
// least one more pitch than recorded. A zero or negative tally means
// the player did not pitch and degrades to zero.
func EffectivePitchCount(tally int) int {
	if tally <= 0 {
		return 0
	}
	return tally + 1
}

// ExceedsMaxPitchesForAge reports whether the effective pitch count is
// over the daily maximum for the player's age. Pitching exactly the
// maximum is legal. Ages with no rule band are never flagged.
func ExceedsMaxPitchesForAge(age, effectivePitchCount int) bool {
	band, ok := BandForAge(age)
	if !ok {
		return false
	}
	return effectivePitchCount > band.MaxPitchesPerGame
}

// RequiredRestDays returns the number of rest days required after an
// appearance with the given effective pitch count. ok is false when the
// age has no rule band or the count falls in no range (a zero count, or
// a count beyond the band's legal pitch range entirely, where the age
// limit violation is the relevant signal).
func RequiredRestDays(age, effectivePitchCount int) (int, bool) {
	band, ok := BandForAge(age)
	if !ok {
		return 0, false
	}
	for _, r := range band.RestRanges {
		if effectivePitchCount >= r.MinPitches && effectivePitchCount <= r.MaxPitches {
			return r.RestDays, true
		}
	}
	return 0, false
}

// NextEligibleDate computes the first calendar date the player may
// pitch again. Even with zero required rest days the player is only
// eligible starting the next day, never the same day. ok is false when
// RequiredRestDays has no answer.
func NextEligibleDate(gameDate Date, age, effectivePitchCount int) (Date, bool) {
	restDays, ok := RequiredRestDays(age, effectivePitchCount)
	if !ok {
		return Date{}, false
	}
	return gameDate.AddDays(restDays + 1), true
}
