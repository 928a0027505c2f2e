package pitchsmart

import (
	"slices"
	"testing"
)

func TestCheck(t *testing.T) {
	d := func(s string) Date {
		date, _ := ParseDate(s)
		return date
	}
	tests := []struct {
		name  string
		facts PlayerGameFacts
		want  []ViolationKind
	}{
		{
			name: "Clean outing",
			facts: PlayerGameFacts{
				Age: 10, PitchTally: 30,
				PitchedInnings: []int{1, 2, 3},
				GameDate:       d("2025-05-10"),
			},
			want: nil,
		},
		{
			name:  "No appearance at all",
			facts: PlayerGameFacts{Age: 10, GameDate: d("2025-05-10")},
			want:  nil,
		},
		{
			name: "Over the daily limit",
			facts: PlayerGameFacts{
				Age: 8, PitchTally: 50,
				PitchedInnings: []int{1, 2, 3, 4},
				GameDate:       d("2025-05-10"),
			},
			want: []ViolationKind{ViolationMaxPitches},
		},
		{
			name: "Removed and returned",
			facts: PlayerGameFacts{
				Age: 10, PitchTally: 20,
				PitchedInnings: []int{1, 2, 5},
				GameDate:       d("2025-05-10"),
			},
			want: []ViolationKind{ViolationInningsGap},
		},
		{
			name: "Moved to catcher after heavy outing",
			facts: PlayerGameFacts{
				Age: 12, PitchTally: 44,
				PitchedInnings: []int{1, 2, 3},
				CaughtInnings:  []int{5, 6},
				GameDate:       d("2025-05-10"),
			},
			want: []ViolationKind{ViolationCatchAfterPitching},
		},
		{
			name: "Pitched after four innings behind the plate",
			facts: PlayerGameFacts{
				Age: 11, PitchTally: 10,
				PitchedInnings: []int{6},
				CaughtInnings:  []int{1, 2, 3, 4},
				GameDate:       d("2025-05-10"),
			},
			want: []ViolationKind{ViolationPitchAfterCatching},
		},
		{
			name: "Returned to catch around a 21+ pitch stint",
			facts: PlayerGameFacts{
				Age: 10, PitchTally: 24,
				PitchedInnings: []int{2, 3},
				CaughtInnings:  []int{1, 4},
				GameDate:       d("2025-05-10"),
			},
			want: []ViolationKind{ViolationReturnToCatch},
		},
		{
			name: "Pitched during required rest",
			facts: PlayerGameFacts{
				Age: 9, PitchTally: 10,
				PitchedInnings:    []int{1},
				GameDate:          d("2025-05-13"),
				PriorEligibleDate: d("2025-05-14"),
			},
			want: []ViolationKind{ViolationInsufficientRest},
		},
		{
			name: "Eligible on the computed date itself",
			facts: PlayerGameFacts{
				Age: 9, PitchTally: 10,
				PitchedInnings:    []int{1},
				GameDate:          d("2025-05-14"),
				PriorEligibleDate: d("2025-05-14"),
			},
			want: nil,
		},
		{
			name: "Multiple violations accumulate",
			facts: PlayerGameFacts{
				Age: 8, PitchTally: 55,
				PitchedInnings:    []int{1, 2, 4},
				CaughtInnings:     []int{5},
				GameDate:          d("2025-05-13"),
				PriorEligibleDate: d("2025-05-15"),
			},
			want: []ViolationKind{
				ViolationMaxPitches,
				ViolationInningsGap,
				ViolationCatchAfterPitching,
				ViolationInsufficientRest,
			},
		},
		{
			name: "Unsupported age only triggers order rules",
			facts: PlayerGameFacts{
				Age: 14, PitchTally: 90,
				PitchedInnings: []int{1, 3},
				GameDate:       d("2025-05-10"),
			},
			want: []ViolationKind{ViolationInningsGap},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Check(tt.facts)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Check() = %v, want %v", got, tt.want)
			}
		})
	}
}

// A nine-year-old throws 55 effective pitches on May 10: three rest
// days are required, so the next eligible date is May 14. A game on
// May 13 with any pitching must flag insufficient rest.
func TestRestScenarioAcrossGames(t *testing.T) {
	gameDate, _ := ParseDate("2025-05-10")

	restDays, ok := RequiredRestDays(9, 55)
	if !ok || restDays != 3 {
		t.Fatalf("RequiredRestDays(9, 55) = (%d, %v), want (3, true)", restDays, ok)
	}

	eligible, ok := NextEligibleDate(gameDate, 9, 55)
	if !ok || eligible.String() != "2025-05-14" {
		t.Fatalf("NextEligibleDate = (%s, %v), want (2025-05-14, true)", eligible, ok)
	}

	nextGame, _ := ParseDate("2025-05-13")
	if !PitchedBeforeEligibleDate(nextGame, eligible, []int{1, 2}) {
		t.Error("game on 2025-05-13 should violate the rest restriction")
	}

	dayOf, _ := ParseDate("2025-05-14")
	if PitchedBeforeEligibleDate(dayOf, eligible, []int{1, 2}) {
		t.Error("game on the eligible date itself should be legal")
	}
}
