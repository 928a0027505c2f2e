// Copyright (c) 2026 Benchbook Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package backend

import (
	"os"
	"slices"
	"testing"

	"github.com/c2FmZQ/storage"

	"github.com/benchbook-io/benchbook/backend/pitchsmart"
)

const (
	testTeamId   = "11111111-1111-4111-8111-111111111111"
	testPlayerId = "22222222-2222-4222-8222-222222222222"
)

func newTestLogStore(t *testing.T) *PitchLogStore {
	t.Helper()
	tempDir, err := os.MkdirTemp("", "rulecheck_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })
	return NewPitchLogStore(tempDir, storage.New(tempDir, nil), nil)
}

func testTeam(age int) *Team {
	return &Team{
		ID:   testTeamId,
		Name: "River Hawks",
		Roster: []Player{
			{ID: testPlayerId, Name: "Sam", LeagueAge: age},
		},
	}
}

func TestEvaluateGame(t *testing.T) {
	logs := newTestLogStore(t)

	t.Run("NoViolations", func(t *testing.T) {
		game := &Game{
			ID:   "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa",
			Date: "2025-05-01",
			Entries: []PlayerGameEntry{
				{PlayerID: testPlayerId, PitchedInnings: []int{1, 2}, PitchTally: 40},
			},
		}
		if err := EvaluateGame(testTeam(11), game, logs); err != nil {
			t.Fatalf("EvaluateGame failed: %v", err)
		}
		if game.HasViolation {
			t.Errorf("Unexpected violations: %v", game.Entries[0].Violations)
		}
	})

	t.Run("OverAgeLimit", func(t *testing.T) {
		game := &Game{
			ID:   "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa",
			Date: "2025-05-01",
			Entries: []PlayerGameEntry{
				// Tally 85 means 86 effective pitches, over the 85
				// limit for ages 11-12.
				{PlayerID: testPlayerId, PitchedInnings: []int{1, 2, 3}, PitchTally: 85},
			},
		}
		if err := EvaluateGame(testTeam(11), game, logs); err != nil {
			t.Fatalf("EvaluateGame failed: %v", err)
		}
		if !game.HasViolation {
			t.Fatal("Expected a violation")
		}
		if !slices.Contains(game.Entries[0].Violations, pitchsmart.ViolationMaxPitches) {
			t.Errorf("Expected MAX_PITCHES_FOR_AGE, got %v", game.Entries[0].Violations)
		}
	})

	t.Run("DiscardsClientViolations", func(t *testing.T) {
		game := &Game{
			ID:           "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa",
			Date:         "2025-05-01",
			HasViolation: true,
			Entries: []PlayerGameEntry{
				{
					PlayerID:   testPlayerId,
					Violations: []pitchsmart.ViolationKind{pitchsmart.ViolationMaxPitches},
				},
			},
		}
		if err := EvaluateGame(testTeam(11), game, logs); err != nil {
			t.Fatalf("EvaluateGame failed: %v", err)
		}
		if game.HasViolation || len(game.Entries[0].Violations) != 0 {
			t.Errorf("Client violations not discarded: %v", game.Entries[0].Violations)
		}
	})

	t.Run("UnbandedAgeHasNoPitchLimit", func(t *testing.T) {
		game := &Game{
			ID:   "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa",
			Date: "2025-05-01",
			Entries: []PlayerGameEntry{
				{PlayerID: testPlayerId, PitchedInnings: []int{1}, PitchTally: 120},
			},
		}
		if err := EvaluateGame(testTeam(15), game, logs); err != nil {
			t.Fatalf("EvaluateGame failed: %v", err)
		}
		if game.HasViolation {
			t.Errorf("Age 15 should have no pitch limit, got %v", game.Entries[0].Violations)
		}
	})

	t.Run("InningsGap", func(t *testing.T) {
		game := &Game{
			ID:   "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa",
			Date: "2025-05-01",
			Entries: []PlayerGameEntry{
				{PlayerID: testPlayerId, PitchedInnings: []int{1, 3}, PitchTally: 10},
			},
		}
		if err := EvaluateGame(testTeam(11), game, logs); err != nil {
			t.Fatalf("EvaluateGame failed: %v", err)
		}
		if !slices.Contains(game.Entries[0].Violations, pitchsmart.ViolationInningsGap) {
			t.Errorf("Expected INNINGS_GAP, got %v", game.Entries[0].Violations)
		}
	})
}

func TestUpdatePitchLogsAndRest(t *testing.T) {
	logs := newTestLogStore(t)
	team := testTeam(11)

	game1 := &Game{
		ID:     "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa",
		TeamID: testTeamId,
		Date:   "2025-05-01",
		Entries: []PlayerGameEntry{
			// Tally 45 = 46 effective, requiring 2 rest days, so the
			// player may pitch again on 2025-05-04.
			{PlayerID: testPlayerId, PitchedInnings: []int{1, 2}, PitchTally: 45},
		},
	}
	if err := EvaluateGame(team, game1, logs); err != nil {
		t.Fatalf("EvaluateGame failed: %v", err)
	}
	if game1.HasViolation {
		t.Fatalf("Unexpected violations: %v", game1.Entries[0].Violations)
	}
	if err := UpdatePitchLogs(team, game1, logs); err != nil {
		t.Fatalf("UpdatePitchLogs failed: %v", err)
	}

	apps, err := logs.AppearancesByDate(testPlayerId)
	if err != nil {
		t.Fatalf("AppearancesByDate failed: %v", err)
	}
	if len(apps) != 1 {
		t.Fatalf("Expected 1 appearance, got %d", len(apps))
	}
	if apps[0].EffectiveCount != 46 || apps[0].RestDays != 2 || apps[0].NextEligibleDate != "2025-05-04" {
		t.Errorf("Unexpected appearance: %+v", apps[0])
	}

	t.Run("PitchingDuringRestIsFlagged", func(t *testing.T) {
		game2 := &Game{
			ID:     "bbbbbbbb-bbbb-4bbb-8bbb-bbbbbbbbbbbb",
			TeamID: testTeamId,
			Date:   "2025-05-03",
			Entries: []PlayerGameEntry{
				{PlayerID: testPlayerId, PitchedInnings: []int{1}, PitchTally: 5},
			},
		}
		if err := EvaluateGame(team, game2, logs); err != nil {
			t.Fatalf("EvaluateGame failed: %v", err)
		}
		if !slices.Contains(game2.Entries[0].Violations, pitchsmart.ViolationInsufficientRest) {
			t.Errorf("Expected INSUFFICIENT_REST, got %v", game2.Entries[0].Violations)
		}
	})

	t.Run("PitchingAfterRestIsClean", func(t *testing.T) {
		game3 := &Game{
			ID:     "cccccccc-cccc-4ccc-8ccc-cccccccccccc",
			TeamID: testTeamId,
			Date:   "2025-05-04",
			Entries: []PlayerGameEntry{
				{PlayerID: testPlayerId, PitchedInnings: []int{1}, PitchTally: 5},
			},
		}
		if err := EvaluateGame(team, game3, logs); err != nil {
			t.Fatalf("EvaluateGame failed: %v", err)
		}
		if game3.HasViolation {
			t.Errorf("Unexpected violations: %v", game3.Entries[0].Violations)
		}
	})

	t.Run("ReSaveDoesNotConsultSelf", func(t *testing.T) {
		// Editing game1 itself must not treat game1's own logged
		// appearance as a prior outing.
		edited := &Game{
			ID:     game1.ID,
			TeamID: testTeamId,
			Date:   "2025-05-01",
			Entries: []PlayerGameEntry{
				{PlayerID: testPlayerId, PitchedInnings: []int{1, 2}, PitchTally: 50},
			},
		}
		if err := EvaluateGame(team, edited, logs); err != nil {
			t.Fatalf("EvaluateGame failed: %v", err)
		}
		if edited.HasViolation {
			t.Errorf("Unexpected violations on re-save: %v", edited.Entries[0].Violations)
		}
	})

	t.Run("RemovingPitchedInningsClearsAppearance", func(t *testing.T) {
		edited := &Game{
			ID:     game1.ID,
			TeamID: testTeamId,
			Date:   "2025-05-01",
			Entries: []PlayerGameEntry{
				{PlayerID: testPlayerId, CaughtInnings: []int{1, 2}},
			},
		}
		if err := UpdatePitchLogs(team, edited, logs); err != nil {
			t.Fatalf("UpdatePitchLogs failed: %v", err)
		}
		pl, err := logs.GetPitchLog(testPlayerId)
		if err != nil {
			t.Fatalf("GetPitchLog failed: %v", err)
		}
		if _, ok := pl.Appearances[game1.ID]; ok {
			t.Error("Appearance not removed after player taken off the mound")
		}
	})
}

func TestClearPitchLogEntries(t *testing.T) {
	logs := newTestLogStore(t)
	team := testTeam(11)

	game := &Game{
		ID:     "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa",
		TeamID: testTeamId,
		Date:   "2025-05-01",
		Entries: []PlayerGameEntry{
			{PlayerID: testPlayerId, PitchedInnings: []int{1}, PitchTally: 30},
		},
	}
	if err := UpdatePitchLogs(team, game, logs); err != nil {
		t.Fatalf("UpdatePitchLogs failed: %v", err)
	}

	ClearPitchLogEntries(game, logs)

	pl, err := logs.GetPitchLog(testPlayerId)
	if err != nil {
		t.Fatalf("GetPitchLog failed: %v", err)
	}
	if len(pl.Appearances) != 0 {
		t.Errorf("Expected empty log after clear, got %d appearances", len(pl.Appearances))
	}
}

func TestEligibilityForPlayer(t *testing.T) {
	logs := newTestLogStore(t)

	t.Run("NoHistoryIsEligible", func(t *testing.T) {
		res, err := EligibilityForPlayer(testPlayerId, "2025-05-01", logs)
		if err != nil {
			t.Fatalf("EligibilityForPlayer failed: %v", err)
		}
		if !res.Eligible {
			t.Error("Player with no history should be eligible")
		}
	})

	if err := logs.RecordAppearance(testPlayerId, testTeamId, Appearance{
		GameID:           "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa",
		Date:             "2025-05-01",
		EffectiveCount:   46,
		RestDays:         2,
		NextEligibleDate: "2025-05-04",
	}); err != nil {
		t.Fatalf("RecordAppearance failed: %v", err)
	}

	tests := []struct {
		asOf     string
		eligible bool
	}{
		{"2025-05-01", false},
		{"2025-05-02", false},
		{"2025-05-03", false},
		{"2025-05-04", true},
		{"2025-05-05", true},
	}
	for _, tt := range tests {
		res, err := EligibilityForPlayer(testPlayerId, tt.asOf, logs)
		if err != nil {
			t.Fatalf("EligibilityForPlayer(%s) failed: %v", tt.asOf, err)
		}
		if res.Eligible != tt.eligible {
			t.Errorf("EligibilityForPlayer(%s) = %v, want %v", tt.asOf, res.Eligible, tt.eligible)
		}
	}

	t.Run("DateBeforeHistoryIsEligible", func(t *testing.T) {
		res, err := EligibilityForPlayer(testPlayerId, "2025-04-30", logs)
		if err != nil {
			t.Fatalf("EligibilityForPlayer failed: %v", err)
		}
		if !res.Eligible {
			t.Error("No appearance on or before date, player should be eligible")
		}
	})

	t.Run("UnscheduledOutingKeepsEarlierRestriction", func(t *testing.T) {
		// A later appearance with no eligible date must not report the
		// player eligible while the 2025-05-04 restriction is running.
		if err := logs.RecordAppearance(testPlayerId, testTeamId, Appearance{
			GameID:         "bbbbbbbb-bbbb-4bbb-8bbb-bbbbbbbbbbbb",
			Date:           "2025-05-02",
			EffectiveCount: 10,
		}); err != nil {
			t.Fatalf("RecordAppearance failed: %v", err)
		}

		res, err := EligibilityForPlayer(testPlayerId, "2025-05-03", logs)
		if err != nil {
			t.Fatalf("EligibilityForPlayer failed: %v", err)
		}
		if res.Eligible {
			t.Error("Expected ineligible while the earlier rest period runs")
		}
		if res.NextEligibleDate != "2025-05-04" {
			t.Errorf("Expected next eligible 2025-05-04, got %q", res.NextEligibleDate)
		}
		if res.LastGameDate != "2025-05-02" {
			t.Errorf("Expected last game 2025-05-02, got %q", res.LastGameDate)
		}

		res, err = EligibilityForPlayer(testPlayerId, "2025-05-04", logs)
		if err != nil {
			t.Fatalf("EligibilityForPlayer failed: %v", err)
		}
		if !res.Eligible {
			t.Error("Expected eligible once the rest period has elapsed")
		}
	})
}
