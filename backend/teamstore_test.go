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

func TestTeamStore(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "teamstore_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	s := storage.New(tempDir, nil)
	store := NewTeamStore(tempDir, s)
	teamId := "11111111-1111-4111-8111-111111111111"
	team := Team{
		ID:   teamId,
		Name: "River Hawks",
		Roster: []Player{
			{ID: "22222222-2222-4222-8222-222222222222", Name: "Sam", LeagueAge: 11},
		},
		Roles: TeamRoles{
			Coaches: []string{"coach@example.com"},
		},
	}

	t.Run("SaveAndLoadTeam", func(t *testing.T) {
		if err := store.SaveTeam(&team); err != nil {
			t.Fatalf("SaveTeam failed: %v", err)
		}

		loaded, err := store.LoadTeam(teamId)
		if err != nil {
			t.Fatalf("LoadTeam failed: %v", err)
		}

		if loaded.Name != "River Hawks" {
			t.Errorf("Expected River Hawks, got %s", loaded.Name)
		}
		if len(loaded.Roster) != 1 || loaded.Roster[0].LeagueAge != 11 {
			t.Errorf("Roster not preserved: %+v", loaded.Roster)
		}
		if loaded.SchemaVersion != CurrentSchemaVersion {
			t.Errorf("Expected schema version %d, got %d", CurrentSchemaVersion, loaded.SchemaVersion)
		}
	})

	t.Run("PlayerByID", func(t *testing.T) {
		loaded, err := store.LoadTeam(teamId)
		if err != nil {
			t.Fatalf("LoadTeam failed: %v", err)
		}
		p, ok := loaded.PlayerByID("22222222-2222-4222-8222-222222222222")
		if !ok || p.Name != "Sam" {
			t.Errorf("PlayerByID lookup failed: %+v, ok=%v", p, ok)
		}
		if _, ok := loaded.PlayerByID("unknown"); ok {
			t.Error("Expected lookup miss for unknown player")
		}
	})

	t.Run("ListAllTeamMetadata", func(t *testing.T) {
		count := 0
		for m, err := range store.ListAllTeamMetadata() {
			if err != nil {
				t.Fatalf("ListAllTeamMetadata failed: %v", err)
			}
			if m.ID != teamId {
				t.Errorf("Unexpected team ID: %s", m.ID)
			}
			count++
		}
		if count != 1 {
			t.Errorf("Expected 1 team, got %d", count)
		}
	})

	t.Run("DeleteTeam", func(t *testing.T) {
		if err := store.DeleteTeam(teamId); err != nil {
			t.Fatalf("DeleteTeam failed: %v", err)
		}
		loaded, err := store.LoadTeam(teamId)
		if err != nil {
			t.Errorf("Expected success (tombstone), got error: %v", err)
		}
		if loaded.Status != StatusDeleted {
			t.Errorf("Expected status 'deleted', got '%s'", loaded.Status)
		}
		if loaded.DeletedAt == 0 {
			t.Error("Expected DeletedAt to be set")
		}
	})

	t.Run("PurgeTeam", func(t *testing.T) {
		if err := store.PurgeTeam(teamId); err != nil {
			t.Fatalf("PurgeTeam failed: %v", err)
		}
		_, err := store.LoadTeam(teamId)
		if !os.IsNotExist(err) {
			t.Errorf("Expected os.ErrNotExist after purge, got %v", err)
		}
	})
}
