package pitchsmart

import (
	"math/rand"
	"testing"
)

func TestHasInningsGap(t *testing.T) {
	tests := []struct {
		name    string
		innings []int
		want    bool
	}{
		{"Empty", nil, false},
		{"Single inning", []int{4}, false},
		{"Consecutive", []int{1, 2, 3}, false},
		{"Consecutive unsorted", []int{3, 1, 2}, false},
		{"Gap", []int{1, 2, 4}, true},
		{"Gap unsorted", []int{4, 1, 2}, true},
		{"Full game plus extras", []int{1, 2, 3, 4, 5, 6, 7, 8}, false},
		{"Gap in extra innings", []int{7, 9}, true},
		{"Two adjacent", []int{5, 6}, false},
		{"Two apart", []int{2, 6}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasInningsGap(tt.innings); got != tt.want {
				t.Errorf("HasInningsGap(%v) = %v, want %v", tt.innings, got, tt.want)
			}
		})
	}
}

func TestHasInningsGapOrderInsensitive(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	cases := [][]int{
		{1, 2, 3, 4},
		{1, 3, 5},
		{2, 3, 4, 6},
		{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
	}
	for _, innings := range cases {
		want := HasInningsGap(innings)
		for i := 0; i < 20; i++ {
			shuffled := make([]int, len(innings))
			copy(shuffled, innings)
			rng.Shuffle(len(shuffled), func(a, b int) {
				shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
			})
			if got := HasInningsGap(shuffled); got != want {
				t.Fatalf("HasInningsGap(%v) = %v, differs from sorted input %v", shuffled, got, innings)
			}
		}
	}
}

func TestHasInningsGapDoesNotMutateInput(t *testing.T) {
	innings := []int{4, 1, 2}
	HasInningsGap(innings)
	if innings[0] != 4 || innings[1] != 1 || innings[2] != 2 {
		t.Errorf("input slice mutated: %v", innings)
	}
}

func TestCannotCatchDueToHighPitchCount(t *testing.T) {
	tests := []struct {
		name    string
		pitched []int
		caught  []int
		count   int
		want    bool
	}{
		{"Caught after 41 pitch outing", []int{1, 2, 3}, []int{4, 5}, 41, true},
		{"Same innings at 40 pitches", []int{1, 2, 3}, []int{4, 5}, 40, false},
		{"Caught only before pitching", []int{3, 4, 5}, []int{1, 2}, 60, false},
		{"No catching", []int{1, 2, 3}, nil, 60, false},
		{"No pitching", nil, []int{4, 5}, 60, false},
		{"Unsorted pitched innings", []int{3, 1, 2}, []int{4}, 50, true},
		{"Catch before and after", []int{2, 3}, []int{1, 4}, 41, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CannotCatchDueToHighPitchCount(tt.pitched, tt.caught, tt.count); got != tt.want {
				t.Errorf("CannotCatchDueToHighPitchCount(%v, %v, %d) = %v, want %v",
					tt.pitched, tt.caught, tt.count, got, tt.want)
			}
		})
	}
}

func TestCannotPitchDueToFourInningsCatching(t *testing.T) {
	tests := []struct {
		name    string
		pitched []int
		caught  []int
		want    bool
	}{
		{"Pitched after four caught innings", []int{5, 6}, []int{1, 2, 3, 4}, true},
		{"Only three caught innings", []int{5, 6}, []int{1, 2, 3}, false},
		{"Pitched before reaching threshold", []int{1, 2}, []int{3, 4, 5, 6}, false},
		{"No pitching", nil, []int{1, 2, 3, 4}, false},
		{"Unsorted caught innings", []int{6}, []int{4, 1, 3, 2}, true},
		{"Five caught, pitched after fourth", []int{5}, []int{1, 2, 3, 4, 6}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CannotPitchDueToFourInningsCatching(tt.pitched, tt.caught); got != tt.want {
				t.Errorf("CannotPitchDueToFourInningsCatching(%v, %v) = %v, want %v",
					tt.pitched, tt.caught, got, tt.want)
			}
		})
	}
}

func TestCannotCatchAgainDueToCombined(t *testing.T) {
	tests := []struct {
		name    string
		pitched []int
		caught  []int
		count   int
		want    bool
	}{
		{"Caught, pitched 21+, caught again", []int{2, 3}, []int{1, 4}, 21, true},
		{"Same pattern at 20 pitches", []int{2, 3}, []int{1, 4}, 20, false},
		{"Never returned to catch", []int{3, 4}, []int{1, 2}, 40, false},
		{"Caught only after pitching", []int{1, 2}, []int{3, 4}, 40, false},
		{"Four caught innings handled by Rule B", []int{3, 4}, []int{1, 2, 5, 6}, 40, false},
		{"No pitching", nil, []int{1, 4}, 40, false},
		{"Unsorted inputs", []int{3, 2}, []int{4, 1}, 25, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CannotCatchAgainDueToCombined(tt.pitched, tt.caught, tt.count); got != tt.want {
				t.Errorf("CannotCatchAgainDueToCombined(%v, %v, %d) = %v, want %v",
					tt.pitched, tt.caught, tt.count, got, tt.want)
			}
		})
	}
}

func TestPitchedBeforeEligibleDate(t *testing.T) {
	d := func(s string) Date {
		date, _ := ParseDate(s)
		return date
	}
	tests := []struct {
		name     string
		gameDate Date
		eligible Date
		pitched  []int
		want     bool
	}{
		{"Equal dates are eligible", d("2025-05-14"), d("2025-05-14"), []int{1, 2}, false},
		{"One day early", d("2025-05-13"), d("2025-05-14"), []int{1, 2}, true},
		{"After eligible date", d("2025-05-15"), d("2025-05-14"), []int{1, 2}, false},
		{"No appearance", d("2025-05-13"), d("2025-05-14"), nil, false},
		{"No prior restriction", d("2025-05-13"), Date{}, []int{1, 2}, false},
		{"Missing game date", Date{}, d("2025-05-14"), []int{1, 2}, false},
		{"Early across year boundary", d("2025-12-31"), d("2026-01-02"), []int{1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PitchedBeforeEligibleDate(tt.gameDate, tt.eligible, tt.pitched); got != tt.want {
				t.Errorf("PitchedBeforeEligibleDate(%s, %s, %v) = %v, want %v",
					tt.gameDate, tt.eligible, tt.pitched, got, tt.want)
			}
		})
	}
}

func FuzzHasInningsGap(f *testing.F) {
	f.Add(uint8(1), uint8(2), uint8(3), uint8(4))
	f.Add(uint8(1), uint8(3), uint8(5), uint8(7))
	f.Add(uint8(9), uint8(8), uint8(7), uint8(6))
	f.Fuzz(func(t *testing.T, a, b, c, d uint8) {
		innings := []int{int(a)%30 + 1, int(b)%30 + 1, int(c)%30 + 1, int(d)%30 + 1}
		got := HasInningsGap(innings)

		// The predicate must agree with a direct membership check:
		// a set of innings gaps iff some inning strictly between min
		// and max is absent.
		seen := make(map[int]bool)
		min, max := innings[0], innings[0]
		for _, in := range innings {
			seen[in] = true
			if in < min {
				min = in
			}
			if in > max {
				max = in
			}
		}
		want := false
		for i := min; i <= max; i++ {
			if !seen[i] {
				want = true
				break
			}
		}
		if got != want {
			t.Errorf("HasInningsGap(%v) = %v, want %v", innings, got, want)
		}
	})
}
