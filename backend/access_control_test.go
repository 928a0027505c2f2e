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
	"testing"

	"github.com/c2FmZQ/storage"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	tmpDir := t.TempDir()
	s := storage.New(tmpDir, nil)
	gs := NewGameStore(tmpDir, s)
	ts := NewTeamStore(tmpDir, s)
	ss := NewSeasonStore(tmpDir, s)
	reg := NewRegistry(gs, ts, ss, s)
	t.Cleanup(reg.StopGC)
	return reg
}

func TestAccessControl(t *testing.T) {
	reg := newTestRegistry(t)
	ac := NewAccessControl(reg, "bootstrap@admin.com")

	// No policy: default allow, no admins except bootstrap.
	allowed, msg := ac.IsAllowed("user@example.com")
	if !allowed {
		t.Errorf("Expected allowed when no policy set, got %s", msg)
	}
	if !ac.IsAdmin("bootstrap@admin.com") {
		t.Error("Bootstrap admin should be admin")
	}
	if ac.IsAdmin("user@example.com") {
		t.Error("Regular user should not be admin")
	}
	if allowed, _ := ac.IsAllowed(""); allowed {
		t.Error("Empty user should not be allowed")
	}

	policy := &UserAccessPolicy{
		DefaultPolicy:      "deny",
		DefaultDenyMessage: "Invite Only",
		Admins:             []string{"perm@admin.com"},
		Users: map[string]UserOverride{
			"allowed@user.com": {Access: "allow"},
			"banned@user.com":  {Access: "deny"},
		},
	}
	if err := reg.UpdateAccessPolicy(policy); err != nil {
		t.Fatalf("UpdateAccessPolicy failed: %v", err)
	}

	allowed, msg = ac.IsAllowed("random@user.com")
	if allowed {
		t.Error("Expected denied for random user under default deny")
	}
	if msg != "Invite Only" {
		t.Errorf("Expected 'Invite Only', got '%s'", msg)
	}

	if allowed, _ := ac.IsAllowed("allowed@user.com"); !allowed {
		t.Error("Expected allowed for explicitly allowed user")
	}
	if allowed, _ := ac.IsAllowed("banned@user.com"); allowed {
		t.Error("Expected denied for explicitly banned user")
	}
	if !ac.IsAdmin("perm@admin.com") {
		t.Error("Permanent admin should be admin")
	}
	if allowed, _ := ac.IsAllowed("perm@admin.com"); !allowed {
		t.Error("Admin should be allowed")
	}
}

func TestQuotas(t *testing.T) {
	reg := newTestRegistry(t)
	ac := NewAccessControl(reg, "admin@test.com")

	policy := &UserAccessPolicy{
		DefaultPolicy:     "allow",
		DefaultMaxGames:   2,
		DefaultMaxTeams:   3,
		DefaultMaxSeasons: 1,
		Users: map[string]UserOverride{
			"vip@test.com": {MaxGames: 10, MaxTeams: 50, MaxSeasons: 5},
		},
	}
	if err := reg.UpdateAccessPolicy(policy); err != nil {
		t.Fatalf("UpdateAccessPolicy failed: %v", err)
	}

	// Default quota: currentCount is the count before creating one more.
	if err := ac.CheckGameQuota("random@user.com", 1); err != nil {
		t.Errorf("Unexpected error for count 1 (limit 2): %v", err)
	}
	if err := ac.CheckGameQuota("random@user.com", 2); err == nil {
		t.Error("Expected quota error for count 2 (limit 2)")
	}

	// Override quota
	if err := ac.CheckGameQuota("vip@test.com", 5); err != nil {
		t.Errorf("Unexpected error for VIP count 5 (limit 10): %v", err)
	}
	if err := ac.CheckGameQuota("vip@test.com", 10); err == nil {
		t.Error("Expected quota error for VIP count 10 (limit 10)")
	}

	if err := ac.CheckTeamQuota("random@user.com", 3); err == nil {
		t.Error("Expected team quota error for count 3 (limit 3)")
	}
	if err := ac.CheckSeasonQuota("random@user.com", 1); err == nil {
		t.Error("Expected season quota error for count 1 (limit 1)")
	}
	if err := ac.CheckSeasonQuota("vip@test.com", 1); err != nil {
		t.Errorf("Unexpected error for VIP season count 1 (limit 5): %v", err)
	}

	maxGames, maxTeams, maxSeasons := ac.GetUserQuotas("user@test.com")
	if maxGames != 2 || maxTeams != 3 || maxSeasons != 1 {
		t.Errorf("Expected (2, 3, 1), got (%d, %d, %d)", maxGames, maxTeams, maxSeasons)
	}
	maxGames, maxTeams, maxSeasons = ac.GetUserQuotas("vip@test.com")
	if maxGames != 10 || maxTeams != 50 || maxSeasons != 5 {
		t.Errorf("Expected (10, 50, 5), got (%d, %d, %d)", maxGames, maxTeams, maxSeasons)
	}
}
