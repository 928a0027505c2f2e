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
	"iter"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/c2FmZQ/storage"
)

// Player is a rostered player. LeagueAge is the age used by the pitch
// count rules for the current season; it is entered by the team admin,
// not derived from the birth date on the server.
type Player struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Number    string `json:"number,omitempty"`
	BirthDate string `json:"birthDate,omitempty"`
	LeagueAge int    `json:"leagueAge"`
}

// TeamRoles defines the members of a team by their role.
type TeamRoles struct {
	Coaches      []string `json:"coaches"`
	Scorekeepers []string `json:"scorekeepers"`
	Spectators   []string `json:"spectators"`
}

func (r *TeamRoles) normalize() {
	if r.Coaches == nil {
		r.Coaches = make([]string, 0)
	}
	if r.Scorekeepers == nil {
		r.Scorekeepers = make([]string, 0)
	}
	if r.Spectators == nil {
		r.Spectators = make([]string, 0)
	}
}

// Team represents a persistent team roster and its permissions.
type Team struct {
	ID            string    `json:"id"`
	SchemaVersion int       `json:"schemaVersion"`
	SeasonID      string    `json:"seasonId,omitempty"`
	Name          string    `json:"name,omitempty"`
	ShortName     string    `json:"shortName,omitempty"`
	Color         string    `json:"color,omitempty"`
	Roster        []Player  `json:"roster,omitempty"`
	OwnerID       string    `json:"ownerId"`
	Roles         TeamRoles `json:"roles,omitempty"`
	UpdatedAt     int64     `json:"updatedAt,omitempty"`

	// Status can be "active" (default/empty) or "deleted"
	Status string `json:"status,omitempty"`
	// DeletedAt is the timestamp (Unix Nano) when the team was deleted.
	DeletedAt int64 `json:"deletedAt,omitempty"`
}

func (t *Team) normalize() {
	if t.SchemaVersion == 0 {
		t.SchemaVersion = CurrentSchemaVersion
	}
	if t.Roster == nil {
		t.Roster = make([]Player, 0)
	}
	t.Roles.normalize()
}

// PlayerByID returns the rostered player with the given ID, if any.
func (t *Team) PlayerByID(playerId string) (Player, bool) {
	for _, p := range t.Roster {
		if p.ID == playerId {
			return p, true
		}
	}
	return Player{}, false
}

// TeamStore manages team persistence to disk.
type TeamStore struct {
	DataDir string
	storage *storage.Storage
	mu      sync.Map // Stores *sync.Mutex for each teamId to protect writes
}

// NewTeamStore creates a new TeamStore.
func NewTeamStore(dataDir string, s *storage.Storage) *TeamStore {
	return &TeamStore{
		DataDir: dataDir,
		storage: s,
		mu:      sync.Map{},
	}
}

func teamFilename(teamId string) string {
	return filepath.Join("teams", fmt.Sprintf("%s.json", url.PathEscape(teamId)))
}

// SaveTeam saves the team data atomically.
func (ts *TeamStore) SaveTeam(team *Team) error {
	m, _ := ts.mu.LoadOrStore(team.ID, &sync.Mutex{})
	mutex := m.(*sync.Mutex)

	mutex.Lock()
	defer mutex.Unlock()

	if err := ts.storage.SaveDataFile(teamFilename(team.ID), team); err != nil {
		return fmt.Errorf("storage.SaveDataFile: %w", err)
	}
	return nil
}

// LoadTeam loads the team data by ID.
func (ts *TeamStore) LoadTeam(teamId string) (*Team, error) {
	var t Team
	err := ts.storage.ReadDataFile(teamFilename(teamId), &t)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, os.ErrNotExist
		}
		return nil, fmt.Errorf("ReadDataFile: %w", err)
	}
	t.normalize()

	return &t, nil
}

// TeamMetadata contains only the fields needed for indexing.
type TeamMetadata struct {
	ID        string    `json:"id"`
	SeasonID  string    `json:"seasonId"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"ownerId"`
	Roles     TeamRoles `json:"roles"`
	UpdatedAt int64     `json:"updatedAt"`
	Status    string    `json:"status"`
	DeletedAt int64     `json:"deletedAt"`
}

// ListAllTeamMetadata returns an iterator over metadata for all teams.
func (ts *TeamStore) ListAllTeamMetadata() iter.Seq2[TeamMetadata, error] {
	return func(yield func(TeamMetadata, error) bool) {
		teamsDir := filepath.Join(ts.DataDir, "teams")
		files, err := os.ReadDir(teamsDir)
		if err != nil {
			if !os.IsNotExist(err) {
				yield(TeamMetadata{}, fmt.Errorf("could not read teams directory: %w", err))
			}
			return
		}

		for _, file := range files {
			if file.IsDir() || !strings.HasSuffix(file.Name(), ".json") {
				continue
			}
			teamId, err := url.PathUnescape(strings.TrimSuffix(file.Name(), ".json"))
			if err != nil {
				continue
			}

			t, err := ts.LoadTeam(teamId)
			if err != nil {
				log.Printf("Warning: could not load team '%s': %v", teamId, err)
				continue
			}

			if !yield(TeamMetadata{
				ID:        t.ID,
				SeasonID:  t.SeasonID,
				Name:      t.Name,
				OwnerID:   t.OwnerID,
				Roles:     t.Roles,
				UpdatedAt: t.UpdatedAt,
				Status:    t.Status,
				DeletedAt: t.DeletedAt,
			}, nil) {
				return
			}
		}
	}
}

// DeleteTeam deletes a specific team by overwriting it with a tombstone.
func (ts *TeamStore) DeleteTeam(teamId string) error {
	// Load first to get OwnerID
	t, err := ts.LoadTeam(teamId)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	m, _ := ts.mu.LoadOrStore(teamId, &sync.Mutex{})
	mutex := m.(*sync.Mutex)

	mutex.Lock()
	defer mutex.Unlock()

	tombstone := &Team{
		ID:            teamId,
		SchemaVersion: CurrentSchemaVersion,
		OwnerID:       t.OwnerID,
		Status:        StatusDeleted,
		DeletedAt:     time.Now().UnixNano(),
	}

	if err := ts.storage.SaveDataFile(teamFilename(teamId), tombstone); err != nil {
		return fmt.Errorf("storage.SaveDataFile (tombstone): %w", err)
	}
	return nil
}

// PurgeTeam permanently deletes the team file.
func (ts *TeamStore) PurgeTeam(teamId string) error {
	m, _ := ts.mu.LoadOrStore(teamId, &sync.Mutex{})
	mutex := m.(*sync.Mutex)

	mutex.Lock()
	defer mutex.Unlock()

	fullPath := filepath.Join(ts.DataDir, teamFilename(teamId))
	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil // Already gone
		}
		return fmt.Errorf("could not purge team file: %w", err)
	}
	return nil
}
