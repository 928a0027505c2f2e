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

func TestGetTeamAccess(t *testing.T) {
	team := Team{
		ID:      "11111111-1111-4111-8111-111111111111",
		OwnerID: "Owner@Example.com",
		Roles: TeamRoles{
			Coaches:      []string{"coach@example.com"},
			Scorekeepers: []string{"keeper@example.com"},
			Spectators:   []string{"fan@example.com"},
		},
	}

	tests := []struct {
		user string
		want AccessLevel
	}{
		{"owner@example.com", AccessAdmin},
		{"OWNER@example.com", AccessAdmin}, // case-insensitive
		{"coach@example.com", AccessAdmin},
		{"keeper@example.com", AccessWrite},
		{"fan@example.com", AccessRead},
		{"stranger@example.com", AccessNone},
		{"", AccessNone},
	}
	for _, tt := range tests {
		if got := GetTeamAccess(tt.user, team); got != tt.want {
			t.Errorf("GetTeamAccess(%q) = %d, want %d", tt.user, got, tt.want)
		}
	}
}

func TestGetGameAccess(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "auth_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	s := storage.New(tempDir, nil)
	tStore := NewTeamStore(tempDir, s)

	teamId := "11111111-1111-4111-8111-111111111111"
	team := Team{
		ID:      teamId,
		Name:    "River Hawks",
		OwnerID: "teamowner@example.com",
		Roles: TeamRoles{
			Scorekeepers: []string{"keeper@example.com"},
		},
	}
	if err := tStore.SaveTeam(&team); err != nil {
		t.Fatalf("SaveTeam failed: %v", err)
	}

	game := Game{
		ID:      "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa",
		TeamID:  teamId,
		OwnerID: "gameowner@example.com",
		Permissions: Permissions{
			Users: map[string]string{
				"direct-writer@example.com": "write",
				"direct-reader@example.com": "read",
			},
		},
	}

	tests := []struct {
		name string
		user string
		want AccessLevel
	}{
		{"owner", "gameowner@example.com", AccessAdmin},
		{"direct write", "direct-writer@example.com", AccessWrite},
		{"direct read", "direct-reader@example.com", AccessRead},
		{"inherited from team", "keeper@example.com", AccessWrite},
		{"team owner inherits admin", "teamowner@example.com", AccessAdmin},
		{"stranger", "stranger@example.com", AccessNone},
		{"anonymous", "", AccessNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetGameAccess(tt.user, game, tStore); got != tt.want {
				t.Errorf("GetGameAccess(%q) = %d, want %d", tt.user, got, tt.want)
			}
		})
	}

	t.Run("public read", func(t *testing.T) {
		public := game
		public.Permissions = Permissions{Public: "read"}
		if got := GetGameAccess("stranger@example.com", public, tStore); got != AccessRead {
			t.Errorf("Expected AccessRead for public game, got %d", got)
		}
		if got := GetGameAccess("", public, tStore); got != AccessRead {
			t.Errorf("Expected AccessRead for anonymous on public game, got %d", got)
		}
	})
}

func TestGetSeasonAccess(t *testing.T) {
	season := Season{ID: "11111111-1111-4111-8111-111111111111", OwnerID: "owner@example.com"}
	if got := GetSeasonAccess("owner@example.com", season); got != AccessAdmin {
		t.Errorf("Expected AccessAdmin for owner, got %d", got)
	}
	if got := GetSeasonAccess("other@example.com", season); got != AccessNone {
		t.Errorf("Expected AccessNone for non-owner, got %d", got)
	}
	if got := GetSeasonAccess("", season); got != AccessNone {
		t.Errorf("Expected AccessNone for anonymous, got %d", got)
	}
}

func TestMaskEmail(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"user@example.com", "u***@example.com"},
		{"", "<empty>"},
		{"notanemail", "****"},
	}
	for _, tt := range tests {
		if got := maskEmail(tt.in); got != tt.want {
			t.Errorf("maskEmail(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
