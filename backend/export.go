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
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/benchbook-io/benchbook/backend/pitchsmart"
)

// PitchingLogRow is one row of a player's exported pitching log.
type PitchingLogRow struct {
	PlayerID         string `json:"playerId"`
	PlayerName       string `json:"playerName"`
	GameID           string `json:"gameId"`
	Date             string `json:"date"`
	Opponent         string `json:"opponent"`
	EffectiveCount   int    `json:"effectiveCount"`
	RestDays         int    `json:"restDays"`
	NextEligibleDate string `json:"nextEligibleDate,omitempty"`
}

// BuildPitchingLog assembles the pitching log rows for every rostered
// player on a team, sorted by player name then date.
func BuildPitchingLog(team *Team, gs *GameStore, logs *PitchLogStore) ([]PitchingLogRow, error) {
	opponents := make(map[string]string)
	for m, err := range gs.ListAllGameMetadata() {
		if err != nil {
			return nil, err
		}
		if m.TeamID == team.ID {
			opponents[m.ID] = m.Opponent
		}
	}

	var rows []PitchingLogRow
	for _, p := range team.Roster {
		apps, err := logs.AppearancesByDate(p.ID)
		if err != nil {
			return nil, fmt.Errorf("pitch log for player %s: %w", p.ID, err)
		}
		for _, a := range apps {
			rows = append(rows, PitchingLogRow{
				PlayerID:         p.ID,
				PlayerName:       p.Name,
				GameID:           a.GameID,
				Date:             a.Date,
				Opponent:         opponents[a.GameID],
				EffectiveCount:   a.EffectiveCount,
				RestDays:         a.RestDays,
				NextEligibleDate: a.NextEligibleDate,
			})
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].PlayerName != rows[j].PlayerName {
			return rows[i].PlayerName < rows[j].PlayerName
		}
		if rows[i].Date != rows[j].Date {
			return rows[i].Date < rows[j].Date
		}
		return rows[i].GameID < rows[j].GameID
	})
	return rows, nil
}

// WritePitchingLogCSV writes the pitching log rows as CSV.
func WritePitchingLogCSV(w io.Writer, rows []PitchingLogRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"player", "date", "opponent", "pitches", "restDays", "nextEligible"}); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.PlayerName,
			r.Date,
			r.Opponent,
			strconv.Itoa(r.EffectiveCount),
			strconv.Itoa(r.RestDays),
			r.NextEligibleDate,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// GameReportRow is one player entry of an exported game report.
type GameReportRow struct {
	PlayerID       string `json:"playerId"`
	PlayerName     string `json:"playerName"`
	PitchedInnings string `json:"pitchedInnings"`
	CaughtInnings  string `json:"caughtInnings"`
	PitchTally     int    `json:"pitchTally"`
	EffectiveCount int    `json:"effectiveCount"`
	Violations     string `json:"violations"`
}

// BuildGameReport assembles a per-player report for one game. Players
// missing from the roster are reported under their ID.
func BuildGameReport(team *Team, game *Game) []GameReportRow {
	rows := make([]GameReportRow, 0, len(game.Entries))
	for _, e := range game.Entries {
		name := e.PlayerID
		if team != nil {
			if p, ok := team.PlayerByID(e.PlayerID); ok {
				name = p.Name
			}
		}
		effective := 0
		if len(e.PitchedInnings) > 0 {
			effective = pitchsmart.EffectivePitchCount(e.PitchTally)
		}
		kinds := make([]string, 0, len(e.Violations))
		for _, v := range e.Violations {
			kinds = append(kinds, string(v))
		}
		rows = append(rows, GameReportRow{
			PlayerID:       e.PlayerID,
			PlayerName:     name,
			PitchedInnings: joinInnings(e.PitchedInnings),
			CaughtInnings:  joinInnings(e.CaughtInnings),
			PitchTally:     e.PitchTally,
			EffectiveCount: effective,
			Violations:     strings.Join(kinds, ";"),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].PlayerName < rows[j].PlayerName })
	return rows
}

// WriteGameReportCSV writes the game report as CSV, with a header line
// describing the game.
func WriteGameReportCSV(w io.Writer, game *Game, rows []GameReportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "opponent", "side", "location"}); err != nil {
		return err
	}
	if err := cw.Write([]string{game.Date, game.Opponent, game.Side, game.Location}); err != nil {
		return err
	}
	if err := cw.Write([]string{"player", "pitched", "caught", "tally", "effective", "violations"}); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.PlayerName,
			r.PitchedInnings,
			r.CaughtInnings,
			strconv.Itoa(r.PitchTally),
			strconv.Itoa(r.EffectiveCount),
			r.Violations,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func joinInnings(innings []int) string {
	sorted := make([]int, len(innings))
	copy(sorted, innings)
	sort.Ints(sorted)
	parts := make([]string, len(sorted))
	for i, n := range sorted {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, " ")
}
