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
	"fmt"
	"net/mail"
	"regexp"
	"time"
)

// uuidRegex is a regex for standard UUIDs (8-4-4-4-12 hex digits)
var uuidRegex = regexp.MustCompile(`^[a-fA-F0-9]{8}-[a-fA-F0-9]{4}-[a-fA-F0-9]{4}-[a-fA-F0-9]{4}-[a-fA-F0-9]{12}$`)

// isValidUUID checks if the string is a valid UUID.
func isValidUUID(id string) bool {
	return uuidRegex.MatchString(id)
}

// isValidEmail checks if the string is a valid email address.
func isValidEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

// isValidDate checks for a plain YYYY-MM-DD calendar date. Dates are
// stored without a time of day or a timezone.
func isValidDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// validateStringLen checks if the string length is within the limit.
func validateStringLen(s string, max int, name string) error {
	if len(s) > max {
		return fmt.Errorf("%s too long (max %d chars)", name, max)
	}
	return nil
}

// ValidateSeason validates a season payload.
func ValidateSeason(s *Season) error {
	if !isValidUUID(s.ID) {
		return fmt.Errorf("invalid season ID format: %s", s.ID)
	}
	if s.Name == "" {
		return fmt.Errorf("missing season name")
	}
	if err := validateStringLen(s.Name, 100, "season name"); err != nil {
		return err
	}
	if s.StartDate != "" && !isValidDate(s.StartDate) {
		return fmt.Errorf("invalid start date: %s", s.StartDate)
	}
	if s.EndDate != "" && !isValidDate(s.EndDate) {
		return fmt.Errorf("invalid end date: %s", s.EndDate)
	}
	if s.StartDate != "" && s.EndDate != "" && s.EndDate < s.StartDate {
		return fmt.Errorf("season ends before it starts")
	}
	return nil
}

// ValidateTeam validates a team payload including its roster and roles.
func ValidateTeam(t *Team) error {
	if !isValidUUID(t.ID) {
		return fmt.Errorf("invalid team ID format: %s", t.ID)
	}
	if t.SeasonID != "" && !isValidUUID(t.SeasonID) {
		return fmt.Errorf("invalid season ID format: %s", t.SeasonID)
	}
	if t.Name == "" {
		return fmt.Errorf("missing team name")
	}
	if err := validateStringLen(t.Name, 50, "team name"); err != nil {
		return err
	}
	if err := validateStringLen(t.ShortName, 10, "short name"); err != nil {
		return err
	}
	if err := validateStringLen(t.Color, 20, "color"); err != nil {
		return err
	}

	if len(t.Roster) > 50 {
		return fmt.Errorf("roster too large (max 50 players)")
	}
	seen := make(map[string]bool, len(t.Roster))
	for i, p := range t.Roster {
		if err := validatePlayer(&p); err != nil {
			return fmt.Errorf("invalid player at index %d: %w", i, err)
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate player ID: %s", p.ID)
		}
		seen[p.ID] = true
	}

	return validateRoles(&t.Roles)
}

func validatePlayer(p *Player) error {
	if !isValidUUID(p.ID) {
		return fmt.Errorf("invalid player ID: %s", p.ID)
	}
	if p.Name == "" {
		return fmt.Errorf("missing player name")
	}
	if err := validateStringLen(p.Name, 50, "player name"); err != nil {
		return err
	}
	if err := validateStringLen(p.Number, 10, "player number"); err != nil {
		return err
	}
	if p.BirthDate != "" && !isValidDate(p.BirthDate) {
		return fmt.Errorf("invalid birth date: %s", p.BirthDate)
	}
	if p.LeagueAge < MinLeagueAge || p.LeagueAge > MaxLeagueAge {
		return fmt.Errorf("league age out of range: %d", p.LeagueAge)
	}
	return nil
}

func validateRoles(r *TeamRoles) error {
	for _, list := range [][]string{r.Coaches, r.Scorekeepers, r.Spectators} {
		if len(list) > 100 {
			return fmt.Errorf("too many role members")
		}
		for _, email := range list {
			if !isValidEmail(email) {
				return fmt.Errorf("invalid role member email: %s", email)
			}
		}
	}
	return nil
}

// ValidateGame validates a game payload including every player entry.
// Derived fields (violations) are not validated since they are always
// recomputed server side.
func ValidateGame(g *Game) error {
	if !isValidUUID(g.ID) {
		return fmt.Errorf("invalid game ID format: %s", g.ID)
	}
	if g.TeamID != "" && !isValidUUID(g.TeamID) {
		return fmt.Errorf("invalid team ID format: %s", g.TeamID)
	}
	if g.SeasonID != "" && !isValidUUID(g.SeasonID) {
		return fmt.Errorf("invalid season ID format: %s", g.SeasonID)
	}
	if g.Date != "" && !isValidDate(g.Date) {
		return fmt.Errorf("invalid game date: %s", g.Date)
	}
	if g.Side != "" && g.Side != SideHome && g.Side != SideAway {
		return fmt.Errorf("invalid side: %s", g.Side)
	}
	if g.Status != "" && g.Status != StatusScheduled && g.Status != StatusFinal {
		return fmt.Errorf("invalid status: %s", g.Status)
	}
	if err := validateStringLen(g.Opponent, 50, "opponent"); err != nil {
		return err
	}
	if err := validateStringLen(g.Location, 100, "location"); err != nil {
		return err
	}
	if err := validateStringLen(g.Event, 100, "event"); err != nil {
		return err
	}

	if len(g.Entries) > 50 {
		return fmt.Errorf("too many game entries (max 50)")
	}
	seen := make(map[string]bool, len(g.Entries))
	for i, e := range g.Entries {
		if err := validateGameEntry(&e); err != nil {
			return fmt.Errorf("invalid entry at index %d: %w", i, err)
		}
		if seen[e.PlayerID] {
			return fmt.Errorf("duplicate entry for player: %s", e.PlayerID)
		}
		seen[e.PlayerID] = true
	}

	return validatePermissions(&g.Permissions)
}

func validateGameEntry(e *PlayerGameEntry) error {
	if !isValidUUID(e.PlayerID) {
		return fmt.Errorf("invalid player ID: %s", e.PlayerID)
	}
	if e.PitchTally < 0 || e.PitchTally > maxPitchTally {
		return fmt.Errorf("pitch tally out of range: %d", e.PitchTally)
	}
	if err := validateInnings(e.PitchedInnings, "pitched"); err != nil {
		return err
	}
	if err := validateInnings(e.CaughtInnings, "caught"); err != nil {
		return err
	}
	return nil
}

func validateInnings(innings []int, name string) error {
	if len(innings) > 30 {
		return fmt.Errorf("too many %s innings", name)
	}
	seen := make(map[int]bool, len(innings))
	for _, n := range innings {
		if n < 1 || n > 99 {
			return fmt.Errorf("invalid %s inning: %d", name, n)
		}
		if seen[n] {
			return fmt.Errorf("duplicate %s inning: %d", name, n)
		}
		seen[n] = true
	}
	return nil
}

func validatePermissions(p *Permissions) error {
	if p.Public != "" && p.Public != "none" && p.Public != "read" {
		return fmt.Errorf("invalid public permission: %s", p.Public)
	}
	if len(p.Users) > 100 {
		return fmt.Errorf("too many user permissions")
	}
	for email, level := range p.Users {
		if !isValidEmail(email) {
			return fmt.Errorf("invalid permission email: %s", email)
		}
		if level != "read" && level != "write" {
			return fmt.Errorf("invalid permission level: %s", level)
		}
	}
	return nil
}
