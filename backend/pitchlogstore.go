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
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/c2FmZQ/storage"
	"github.com/c2FmZQ/storage/crypto"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Appearance is one pitching appearance in a player's log. Counts and
// eligibility are recomputed whenever the source game is saved, so the
// log never disagrees with the game records.
type Appearance struct {
	GameID         string `json:"gameId"`
	Date           string `json:"date"` // YYYY-MM-DD
	EffectiveCount int    `json:"effectiveCount"`
	RestDays       int    `json:"restDays"`
	// NextEligibleDate is empty when the player's age has no rest
	// schedule.
	NextEligibleDate string `json:"nextEligibleDate,omitempty"`
}

// PitchLog is the pitching history for a single player, keyed by game.
type PitchLog struct {
	PlayerID    string                `json:"playerId"`
	TeamID      string                `json:"teamId,omitempty"`
	Appearances map[string]Appearance `json:"appearances"` // GameID -> Appearance
	LastUpdated int64                 `json:"lastUpdated"`
}

// PitchLogStore manages persistence and caching of per-player pitching
// logs. Player IDs are hashed into filenames so the directory layout
// leaks nothing about the roster.
type PitchLogStore struct {
	DataDir   string
	storage   *storage.Storage
	masterKey crypto.MasterKey

	cache *lru.Cache[string, *PitchLog] // Key: PlayerID

	dirtyMu sync.Mutex
	dirty   map[string]bool // PlayerID

	mu sync.Map
}

// NewPitchLogStore creates a new store for pitching logs.
func NewPitchLogStore(dataDir string, s *storage.Storage, mk crypto.MasterKey) *PitchLogStore {
	store := &PitchLogStore{
		DataDir:   dataDir,
		storage:   s,
		masterKey: mk,
		dirty:     make(map[string]bool),
	}

	onEvict := func(key string, value *PitchLog) {
		store.dirtyMu.Lock()
		isDirty := store.dirty[key]
		if isDirty {
			delete(store.dirty, key)
		}
		store.dirtyMu.Unlock()

		if isDirty {
			store.persist(value)
		}
	}

	cache, _ := lru.NewWithEvict[string, *PitchLog](1000, onEvict)
	store.cache = cache

	return store
}

// hashPath calculates the storage path for a player's log.
func (s *PitchLogStore) hashPath(playerId string) string {
	var hash string
	if s.masterKey != nil {
		hash = hex.EncodeToString(s.masterKey.Hash([]byte(playerId)))
	} else {
		h := sha256.Sum256([]byte(playerId))
		hash = hex.EncodeToString(h[:])
	}
	return filepath.Join("pitchlogs", fmt.Sprintf("%s.json", hash))
}

// GetPitchLog returns the player's log, or an empty log if none exists.
func (s *PitchLogStore) GetPitchLog(playerId string) (*PitchLog, error) {
	if pl, ok := s.cache.Get(playerId); ok {
		return pl, nil
	}
	pl, err := s.loadFromDisk(playerId)
	if err != nil {
		if os.IsNotExist(err) {
			return &PitchLog{
				PlayerID:    playerId,
				Appearances: make(map[string]Appearance),
			}, nil
		}
		return nil, err
	}
	s.cache.Add(playerId, pl)
	return pl, nil
}

// SetPitchLog caches the log and marks it dirty for a later flush.
func (s *PitchLogStore) SetPitchLog(pl *PitchLog) {
	s.cache.Add(pl.PlayerID, pl)
	s.dirtyMu.Lock()
	s.dirty[pl.PlayerID] = true
	s.dirtyMu.Unlock()
}

// DeletePitchLog removes the player's log from cache and disk.
func (s *PitchLogStore) DeletePitchLog(playerId string) error {
	s.dirtyMu.Lock()
	delete(s.dirty, playerId)
	s.dirtyMu.Unlock()
	s.cache.Remove(playerId)

	path := s.hashPath(playerId)
	m, _ := s.mu.LoadOrStore(path, &sync.Mutex{})
	mutex := m.(*sync.Mutex)
	mutex.Lock()
	defer mutex.Unlock()

	err := os.Remove(filepath.Join(s.DataDir, path))
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

// PriorEligibleDate returns the eligibility date carried forward from
// the player's most recent appearance strictly before the given date
// that set one. Appearances without an eligible date (the player's age
// had no rest schedule at the time) are skipped, so they never mask an
// earlier restriction that is still running. Appearances from the
// excluded game are ignored so a game being re-saved does not consult
// its own previous state. Returns "" when there is no earlier
// appearance with a rest requirement.
func (s *PitchLogStore) PriorEligibleDate(playerId, beforeDate, excludeGameId string) (string, error) {
	pl, err := s.GetPitchLog(playerId)
	if err != nil {
		return "", err
	}

	apps := make([]Appearance, 0, len(pl.Appearances))
	for _, a := range pl.Appearances {
		if a.GameID == excludeGameId {
			continue
		}
		if a.Date == "" || a.Date >= beforeDate {
			continue
		}
		if a.NextEligibleDate == "" {
			continue
		}
		apps = append(apps, a)
	}
	if len(apps) == 0 {
		return "", nil
	}

	// Dates are ISO formatted so string order is date order.
	sort.Slice(apps, func(i, j int) bool { return apps[i].Date > apps[j].Date })
	return apps[0].NextEligibleDate, nil
}

// RecordAppearance upserts one appearance in the player's log.
func (s *PitchLogStore) RecordAppearance(playerId, teamId string, app Appearance) error {
	pl, err := s.GetPitchLog(playerId)
	if err != nil {
		return err
	}
	if pl.Appearances == nil {
		pl.Appearances = make(map[string]Appearance)
	}
	pl.TeamID = teamId
	pl.Appearances[app.GameID] = app
	s.SetPitchLog(pl)
	return nil
}

// RemoveAppearance drops a game from the player's log, if present.
func (s *PitchLogStore) RemoveAppearance(playerId, gameId string) error {
	pl, err := s.GetPitchLog(playerId)
	if err != nil {
		return err
	}
	if _, ok := pl.Appearances[gameId]; !ok {
		return nil
	}
	delete(pl.Appearances, gameId)
	s.SetPitchLog(pl)
	return nil
}

// AppearancesByDate returns the player's appearances sorted by date
// ascending, then by game ID for a stable order.
func (s *PitchLogStore) AppearancesByDate(playerId string) ([]Appearance, error) {
	pl, err := s.GetPitchLog(playerId)
	if err != nil {
		return nil, err
	}
	apps := make([]Appearance, 0, len(pl.Appearances))
	for _, a := range pl.Appearances {
		apps = append(apps, a)
	}
	sort.Slice(apps, func(i, j int) bool {
		if apps[i].Date != apps[j].Date {
			return apps[i].Date < apps[j].Date
		}
		return apps[i].GameID < apps[j].GameID
	})
	return apps, nil
}

// FlushAll persists all dirty logs to disk.
func (s *PitchLogStore) FlushAll() error {
	s.dirtyMu.Lock()
	ids := make([]string, 0, len(s.dirty))
	for k := range s.dirty {
		ids = append(ids, k)
	}
	s.dirtyMu.Unlock()

	for _, id := range ids {
		if err := s.saveToDisk(id); err != nil {
			return fmt.Errorf("failed to flush pitch log %s: %w", id, err)
		}
	}
	return nil
}

// Invalidate drops the player's log from the cache.
func (s *PitchLogStore) Invalidate(playerId string) { s.cache.Remove(playerId) }

func (s *PitchLogStore) persist(pl *PitchLog) error {
	path := s.hashPath(pl.PlayerID)
	m, _ := s.mu.LoadOrStore(path, &sync.Mutex{})
	mutex := m.(*sync.Mutex)
	mutex.Lock()
	defer mutex.Unlock()
	return s.storage.SaveDataFile(path, pl)
}

func (s *PitchLogStore) loadFromDisk(playerId string) (*PitchLog, error) {
	path := s.hashPath(playerId)
	m, _ := s.mu.LoadOrStore(path, &sync.Mutex{})
	mutex := m.(*sync.Mutex)
	mutex.Lock()
	defer mutex.Unlock()

	var pl PitchLog
	if err := s.storage.ReadDataFile(path, &pl); err != nil {
		return nil, err
	}
	if pl.Appearances == nil {
		pl.Appearances = make(map[string]Appearance)
	}
	return &pl, nil
}

func (s *PitchLogStore) saveToDisk(playerId string) error {
	s.dirtyMu.Lock()
	if !s.dirty[playerId] {
		s.dirtyMu.Unlock()
		return nil
	}
	pl, ok := s.cache.Get(playerId)
	if !ok {
		s.dirtyMu.Unlock()
		return nil
	} // If evicted, it was already saved by onEvict

	delete(s.dirty, playerId)
	s.dirtyMu.Unlock()

	return s.persist(pl)
}
