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
	"testing"

	"github.com/c2FmZQ/storage"
)

func TestPitchLogStore(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "pitchlogstore_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	s := storage.New(tempDir, nil)
	store := NewPitchLogStore(tempDir, s, nil)

	playerId := "22222222-2222-4222-8222-222222222222"
	teamId := "11111111-1111-4111-8111-111111111111"
	game1 := "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa"
	game2 := "bbbbbbbb-bbbb-4bbb-8bbb-bbbbbbbbbbbb"

	t.Run("EmptyLog", func(t *testing.T) {
		pl, err := store.GetPitchLog(playerId)
		if err != nil {
			t.Fatalf("GetPitchLog failed: %v", err)
		}
		if len(pl.Appearances) != 0 {
			t.Errorf("Expected empty log, got %d appearances", len(pl.Appearances))
		}
	})

	t.Run("RecordAppearance", func(t *testing.T) {
		err := store.RecordAppearance(playerId, teamId, Appearance{
			GameID:           game1,
			Date:             "2025-05-01",
			EffectiveCount:   45,
			RestDays:         2,
			NextEligibleDate: "2025-05-04",
		})
		if err != nil {
			t.Fatalf("RecordAppearance failed: %v", err)
		}
		err = store.RecordAppearance(playerId, teamId, Appearance{
			GameID:           game2,
			Date:             "2025-05-05",
			EffectiveCount:   60,
			RestDays:         3,
			NextEligibleDate: "2025-05-09",
		})
		if err != nil {
			t.Fatalf("RecordAppearance failed: %v", err)
		}

		pl, err := store.GetPitchLog(playerId)
		if err != nil {
			t.Fatalf("GetPitchLog failed: %v", err)
		}
		if len(pl.Appearances) != 2 {
			t.Fatalf("Expected 2 appearances, got %d", len(pl.Appearances))
		}
		if pl.TeamID != teamId {
			t.Errorf("Expected team %s, got %s", teamId, pl.TeamID)
		}
	})

	t.Run("AppearancesByDate", func(t *testing.T) {
		apps, err := store.AppearancesByDate(playerId)
		if err != nil {
			t.Fatalf("AppearancesByDate failed: %v", err)
		}
		if len(apps) != 2 {
			t.Fatalf("Expected 2 appearances, got %d", len(apps))
		}
		if apps[0].Date != "2025-05-01" || apps[1].Date != "2025-05-05" {
			t.Errorf("Appearances out of order: %s, %s", apps[0].Date, apps[1].Date)
		}
	})

	t.Run("PriorEligibleDate", func(t *testing.T) {
		// Most recent appearance before 2025-05-06 is game2.
		got, err := store.PriorEligibleDate(playerId, "2025-05-06", "")
		if err != nil {
			t.Fatalf("PriorEligibleDate failed: %v", err)
		}
		if got != "2025-05-09" {
			t.Errorf("Expected 2025-05-09, got %q", got)
		}

		// Excluding game2 falls back to game1.
		got, err = store.PriorEligibleDate(playerId, "2025-05-06", game2)
		if err != nil {
			t.Fatalf("PriorEligibleDate failed: %v", err)
		}
		if got != "2025-05-04" {
			t.Errorf("Expected 2025-05-04, got %q", got)
		}

		// Nothing before the first appearance.
		got, err = store.PriorEligibleDate(playerId, "2025-05-01", "")
		if err != nil {
			t.Fatalf("PriorEligibleDate failed: %v", err)
		}
		if got != "" {
			t.Errorf("Expected empty prior date, got %q", got)
		}
	})

	t.Run("ReSaveUpdatesInPlace", func(t *testing.T) {
		// Re-saving the same game replaces its appearance, never
		// duplicates it.
		err := store.RecordAppearance(playerId, teamId, Appearance{
			GameID:         game1,
			Date:           "2025-05-01",
			EffectiveCount: 20,
		})
		if err != nil {
			t.Fatalf("RecordAppearance failed: %v", err)
		}
		pl, _ := store.GetPitchLog(playerId)
		if len(pl.Appearances) != 2 {
			t.Fatalf("Expected 2 appearances after re-save, got %d", len(pl.Appearances))
		}
		if pl.Appearances[game1].EffectiveCount != 20 {
			t.Errorf("Appearance not updated: %+v", pl.Appearances[game1])
		}
	})

	t.Run("FlushAndReload", func(t *testing.T) {
		if err := store.FlushAll(); err != nil {
			t.Fatalf("FlushAll failed: %v", err)
		}
		store.Invalidate(playerId)

		pl, err := store.GetPitchLog(playerId)
		if err != nil {
			t.Fatalf("GetPitchLog after flush failed: %v", err)
		}
		if len(pl.Appearances) != 2 {
			t.Errorf("Expected 2 appearances after reload, got %d", len(pl.Appearances))
		}
	})

	t.Run("RemoveAppearance", func(t *testing.T) {
		if err := store.RemoveAppearance(playerId, game1); err != nil {
			t.Fatalf("RemoveAppearance failed: %v", err)
		}
		pl, _ := store.GetPitchLog(playerId)
		if len(pl.Appearances) != 1 {
			t.Fatalf("Expected 1 appearance, got %d", len(pl.Appearances))
		}
		// Removing a game not in the log is a no-op.
		if err := store.RemoveAppearance(playerId, game1); err != nil {
			t.Errorf("RemoveAppearance of missing game failed: %v", err)
		}
	})

	t.Run("DeletePitchLog", func(t *testing.T) {
		if err := store.DeletePitchLog(playerId); err != nil {
			t.Fatalf("DeletePitchLog failed: %v", err)
		}
		pl, err := store.GetPitchLog(playerId)
		if err != nil {
			t.Fatalf("GetPitchLog failed: %v", err)
		}
		if len(pl.Appearances) != 0 {
			t.Errorf("Expected empty log after delete, got %d appearances", len(pl.Appearances))
		}
	})
}

func TestPriorEligibleDateSkipsUnscheduled(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "pitchlogstore_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	s := storage.New(tempDir, nil)
	store := NewPitchLogStore(tempDir, s, nil)

	playerId := "22222222-2222-4222-8222-222222222222"
	teamId := "11111111-1111-4111-8111-111111111111"

	err = store.RecordAppearance(playerId, teamId, Appearance{
		GameID:           "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa",
		Date:             "2025-05-01",
		EffectiveCount:   66,
		RestDays:         4,
		NextEligibleDate: "2025-05-06",
	})
	if err != nil {
		t.Fatalf("RecordAppearance failed: %v", err)
	}
	// A newer appearance with no eligible date (the player's age had no
	// rest schedule for that outing) must not hide the restriction from
	// the earlier one.
	err = store.RecordAppearance(playerId, teamId, Appearance{
		GameID:         "bbbbbbbb-bbbb-4bbb-8bbb-bbbbbbbbbbbb",
		Date:           "2025-05-03",
		EffectiveCount: 10,
	})
	if err != nil {
		t.Fatalf("RecordAppearance failed: %v", err)
	}

	got, err := store.PriorEligibleDate(playerId, "2025-05-05", "cccccccc-cccc-4ccc-8ccc-cccccccccccc")
	if err != nil {
		t.Fatalf("PriorEligibleDate failed: %v", err)
	}
	if got != "2025-05-06" {
		t.Errorf("Expected 2025-05-06 from the earlier appearance, got %q", got)
	}
}
