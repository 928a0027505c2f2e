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
	"log"

	"github.com/benchbook-io/benchbook/backend/pitchsmart"
)

// EvaluateGame runs the pitch count rules over every entry in the game
// and rewrites the derived fields: per-entry violations and the game's
// HasViolation flag. Client-supplied values for those fields are
// discarded. The team provides each player's league age; entries for
// players no longer on the roster are evaluated without age-dependent
// rules.
func EvaluateGame(team *Team, game *Game, logs *PitchLogStore) error {
	gameDate, _ := pitchsmart.ParseDate(game.Date)

	game.HasViolation = false
	for i := range game.Entries {
		entry := &game.Entries[i]

		age := 0
		if team != nil {
			if p, ok := team.PlayerByID(entry.PlayerID); ok {
				age = p.LeagueAge
			}
		}

		var prior pitchsmart.Date
		if logs != nil && len(entry.PitchedInnings) > 0 && !gameDate.IsZero() {
			priorStr, err := logs.PriorEligibleDate(entry.PlayerID, game.Date, game.ID)
			if err != nil {
				return fmt.Errorf("prior eligible date for player %s: %w", entry.PlayerID, err)
			}
			prior, _ = pitchsmart.ParseDate(priorStr)
		}

		violations := pitchsmart.Check(pitchsmart.PlayerGameFacts{
			Age:               age,
			PitchTally:        entry.PitchTally,
			PitchedInnings:    entry.PitchedInnings,
			CaughtInnings:     entry.CaughtInnings,
			GameDate:          gameDate,
			PriorEligibleDate: prior,
		})
		entry.Violations = violations
		if len(violations) > 0 {
			game.HasViolation = true
		}
	}
	return nil
}

// UpdatePitchLogs records or removes pitching appearances for every
// entry in the game. Entries with pitched innings get an appearance;
// entries without one have any stale appearance for this game removed,
// so editing a game to take a player off the mound also clears their
// rest obligation from it.
func UpdatePitchLogs(team *Team, game *Game, logs *PitchLogStore) error {
	if logs == nil {
		return nil
	}
	for i := range game.Entries {
		entry := &game.Entries[i]

		if len(entry.PitchedInnings) == 0 {
			if err := logs.RemoveAppearance(entry.PlayerID, game.ID); err != nil {
				return fmt.Errorf("remove appearance for player %s: %w", entry.PlayerID, err)
			}
			continue
		}

		age := 0
		if team != nil {
			if p, ok := team.PlayerByID(entry.PlayerID); ok {
				age = p.LeagueAge
			}
		}

		effective := pitchsmart.EffectivePitchCount(entry.PitchTally)
		app := Appearance{
			GameID:         game.ID,
			Date:           game.Date,
			EffectiveCount: effective,
		}
		if restDays, ok := pitchsmart.RequiredRestDays(age, effective); ok {
			app.RestDays = restDays
			if gameDate, ok := pitchsmart.ParseDate(game.Date); ok {
				if eligible, ok := pitchsmart.NextEligibleDate(gameDate, age, effective); ok {
					app.NextEligibleDate = eligible.String()
				}
			}
		}
		if err := logs.RecordAppearance(entry.PlayerID, game.TeamID, app); err != nil {
			return fmt.Errorf("record appearance for player %s: %w", entry.PlayerID, err)
		}
	}
	return nil
}

// ClearPitchLogEntries removes all of the game's appearances from the
// pitch logs, for use when a game is deleted.
func ClearPitchLogEntries(game *Game, logs *PitchLogStore) {
	if logs == nil {
		return
	}
	for _, entry := range game.Entries {
		if err := logs.RemoveAppearance(entry.PlayerID, game.ID); err != nil {
			log.Printf("Warning: could not clear pitch log entry for player %s: %v", entry.PlayerID, err)
		}
	}
}

// PlayerEligibility summarizes a player's pitching status as of a
// given date, for the roster eligibility view.
type PlayerEligibility struct {
	PlayerID string `json:"playerId"`
	// Eligible reports whether the player may pitch on AsOfDate.
	Eligible bool   `json:"eligible"`
	AsOfDate string `json:"asOfDate"`
	// LastGameID and LastGameDate describe the most recent appearance
	// on or before AsOfDate, if any.
	LastGameID       string `json:"lastGameId,omitempty"`
	LastGameDate     string `json:"lastGameDate,omitempty"`
	LastCount        int    `json:"lastCount,omitempty"`
	NextEligibleDate string `json:"nextEligibleDate,omitempty"`
}

// EligibilityForPlayer computes whether the player can pitch on the
// given date based on their logged appearances. A player with no
// appearances, or whose latest rest period has elapsed, is eligible.
func EligibilityForPlayer(playerId, asOfDate string, logs *PitchLogStore) (PlayerEligibility, error) {
	res := PlayerEligibility{
		PlayerID: playerId,
		Eligible: true,
		AsOfDate: asOfDate,
	}

	apps, err := logs.AppearancesByDate(playerId)
	if err != nil {
		return res, err
	}

	// Latest appearance on or before the date of interest.
	latest := -1
	for i := len(apps) - 1; i >= 0; i-- {
		if apps[i].Date <= asOfDate {
			latest = i
			break
		}
	}
	if latest < 0 {
		return res, nil
	}
	res.LastGameID = apps[latest].GameID
	res.LastGameDate = apps[latest].Date
	res.LastCount = apps[latest].EffectiveCount

	// The binding restriction is the most recent appearance that set an
	// eligible date. A later appearance without one (age outside the
	// rest schedule) does not clear an earlier restriction still
	// running.
	for i := latest; i >= 0; i-- {
		if apps[i].NextEligibleDate == "" {
			continue
		}
		res.NextEligibleDate = apps[i].NextEligibleDate
		if asOfDate < apps[i].NextEligibleDate {
			res.Eligible = false
		}
		break
	}
	return res, nil
}
