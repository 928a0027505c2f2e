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
	"encoding/json"
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

	"github.com/benchbook-io/benchbook/backend/pitchsmart"
)

// PlayerGameEntry is one rostered player's participation in a game:
// the innings they pitched and caught plus the raw pitch tally the
// scorekeeper recorded (pitches before the last batter faced). A zero
// tally means no pitches were tallied.
type PlayerGameEntry struct {
	PlayerID       string `json:"playerId"`
	PitchedInnings []int  `json:"pitchedInnings,omitempty"`
	CaughtInnings  []int  `json:"caughtInnings,omitempty"`
	PitchTally     int    `json:"pitchTally,omitempty"`

	// Violations holds the rule engine's findings for this entry,
	// recomputed on every save. Never trusted from client input.
	Violations []pitchsmart.ViolationKind `json:"violations,omitempty"`
}

// Permissions defines direct access control for a game, in addition to
// the access inherited from the linked team's roles.
type Permissions struct {
	Public string            `json:"public"` // "none", "read"
	Users  map[string]string `json:"users"`  // "email": "read"|"write"
}

// Game represents one game record as stored on disk.
type Game struct {
	ID            string            `json:"id"`
	SchemaVersion int               `json:"schemaVersion"`
	SeasonID      string            `json:"seasonId,omitempty"`
	TeamID        string            `json:"teamId,omitempty"`
	Date          string            `json:"date,omitempty"` // YYYY-MM-DD, no time of day
	Opponent      string            `json:"opponent,omitempty"`
	Side          string            `json:"side,omitempty"` // "home" or "away"
	Location      string            `json:"location,omitempty"`
	Event         string            `json:"event,omitempty"`
	Status        string            `json:"status"`
	OwnerID       string            `json:"ownerId"`
	Permissions   Permissions       `json:"permissions,omitempty"`
	Entries       []PlayerGameEntry `json:"entries,omitempty"`

	// HasViolation is derived from the entries on every save so list
	// and report views can filter without re-running the rules.
	HasViolation bool `json:"hasViolation"`

	UpdatedAt int64 `json:"updatedAt,omitempty"`

	// DeletedAt is the timestamp (Unix Nano) when the game was deleted.
	DeletedAt int64 `json:"deletedAt,omitempty"`
}

func (g *Game) normalize() {
	if g.SchemaVersion == 0 {
		g.SchemaVersion = CurrentSchemaVersion
	}
	if g.Status == "" {
		g.Status = StatusScheduled
	}
	if g.Permissions.Users == nil {
		g.Permissions.Users = make(map[string]string)
	}
	if g.Entries == nil {
		g.Entries = make([]PlayerGameEntry, 0)
	}
}

// EntryForPlayer returns the entry for the given player, if any.
func (g *Game) EntryForPlayer(playerId string) (PlayerGameEntry, bool) {
	for _, e := range g.Entries {
		if e.PlayerID == playerId {
			return e, true
		}
	}
	return PlayerGameEntry{}, false
}

// GameStore manages game persistence to disk.
type GameStore struct {
	DataDir string
	Debug   bool
	storage *storage.Storage
	mu      sync.Map // Stores *sync.RWMutex for each gameId to protect writes and reads
	cache   sync.Map // Stores the latest []byte (JSON) for each gameId

	dirtyMu sync.Mutex
	dirty   map[string]bool
}

// NewGameStore creates a new GameStore.
func NewGameStore(dataDir string, s *storage.Storage) *GameStore {
	return &GameStore{
		DataDir: dataDir,
		storage: s,
		mu:      sync.Map{},
		cache:   sync.Map{},
		dirty:   make(map[string]bool),
	}
}

func gameFilename(gameId string) string {
	return filepath.Join("games", fmt.Sprintf("%s.json", url.PathEscape(gameId)))
}

func gameMetaFilename(gameId string) string {
	return filepath.Join("games", fmt.Sprintf("%s.meta.json", url.PathEscape(gameId)))
}

// SaveGame saves the game data atomically.
func (gs *GameStore) SaveGame(game *Game) error {
	gameId := game.ID
	m, _ := gs.mu.LoadOrStore(gameId, &sync.RWMutex{})
	mutex := m.(*sync.RWMutex)

	mutex.Lock()
	defer mutex.Unlock()

	if err := gs.storage.SaveDataFile(gameFilename(gameId), game); err != nil {
		return fmt.Errorf("storage.SaveDataFile: %w", err)
	}

	// Save Metadata Sidecar
	meta := game.Metadata()
	if err := gs.storage.SaveDataFile(gameMetaFilename(gameId), meta); err != nil {
		log.Printf("Warning: Failed to save metadata sidecar for game %s: %v", gameId, err)
		// Non-fatal, we can fall back to main file
	}

	if jsonBytes, err := json.Marshal(game); err == nil {
		gs.cache.Store(gameId, jsonBytes)
	}

	gs.dirtyMu.Lock()
	delete(gs.dirty, gameId)
	gs.dirtyMu.Unlock()

	return nil
}

// SaveGameInMemory updates the in-memory cache and marks the game as dirty.
// If forceSync is true, it writes to disk immediately (behaving like SaveGame).
func (gs *GameStore) SaveGameInMemory(game *Game, forceSync bool) error {
	jsonBytes, err := json.Marshal(game)
	if err != nil {
		return err
	}
	gs.cache.Store(game.ID, jsonBytes)

	if forceSync {
		return gs.SaveGame(game)
	}

	gs.dirtyMu.Lock()
	gs.dirty[game.ID] = true
	gs.dirtyMu.Unlock()

	return nil
}

// Flush persists a specific game to disk if it is dirty.
func (gs *GameStore) Flush(gameId string) error {
	gs.dirtyMu.Lock()
	if !gs.dirty[gameId] {
		gs.dirtyMu.Unlock()
		return nil
	}
	gs.dirtyMu.Unlock()

	val, ok := gs.cache.Load(gameId)
	if !ok {
		gs.dirtyMu.Lock()
		delete(gs.dirty, gameId)
		gs.dirtyMu.Unlock()
		return fmt.Errorf("game %s marked dirty but not found in cache", gameId)
	}

	var g Game
	if err := json.Unmarshal(val.([]byte), &g); err != nil {
		return fmt.Errorf("failed to unmarshal game from cache for flush: %w", err)
	}

	// SaveGame will clear the dirty flag
	return gs.SaveGame(&g)
}

// FlushAll persists all dirty games to disk.
func (gs *GameStore) FlushAll() error {
	gs.dirtyMu.Lock()
	dirtyIds := make([]string, 0, len(gs.dirty))
	for id := range gs.dirty {
		dirtyIds = append(dirtyIds, id)
	}
	gs.dirtyMu.Unlock()

	for _, id := range dirtyIds {
		if err := gs.Flush(id); err != nil {
			return fmt.Errorf("failed to flush game %s: %w", id, err)
		}
	}
	return nil
}

// LoadGame loads the game data by game ID.
func (gs *GameStore) LoadGame(gameId string) (*Game, error) {
	if val, ok := gs.cache.Load(gameId); ok {
		var g Game
		if err := json.Unmarshal(val.([]byte), &g); err == nil {
			if gs.Debug {
				log.Printf("[CACHE] Hit for game %s", gameId)
			}
			g.normalize()
			return &g, nil
		}
		// If unmarshal fails, proceed to load from disk
		gs.cache.Delete(gameId)
	}
	if gs.Debug {
		log.Printf("[CACHE] Miss for game %s", gameId)
	}

	m, _ := gs.mu.LoadOrStore(gameId, &sync.RWMutex{})
	mutex := m.(*sync.RWMutex)

	mutex.RLock()
	defer mutex.RUnlock()

	var g Game
	err := gs.storage.ReadDataFile(gameFilename(gameId), &g)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, os.ErrNotExist
		}
		return nil, fmt.Errorf("ReadDataFile: %w", err)
	}
	g.normalize()

	if jsonBytes, err := json.Marshal(&g); err == nil {
		gs.cache.Store(gameId, jsonBytes)
	}

	return &g, nil
}

// DeleteGame deletes a specific game by overwriting it with a tombstone.
func (gs *GameStore) DeleteGame(gameId string) error {
	// Load first to get OwnerID
	g, err := gs.LoadGame(gameId)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	m, _ := gs.mu.LoadOrStore(gameId, &sync.RWMutex{})
	mutex := m.(*sync.RWMutex)

	mutex.Lock()
	defer mutex.Unlock()

	tombstone := &Game{
		ID:            gameId,
		SchemaVersion: CurrentSchemaVersion,
		Status:        StatusDeleted,
		OwnerID:       g.OwnerID,
		DeletedAt:     time.Now().UnixNano(),
	}

	if err := gs.storage.SaveDataFile(gameFilename(gameId), tombstone); err != nil {
		return fmt.Errorf("storage.SaveDataFile (tombstone): %w", err)
	}

	meta := GameMetadata{
		ID:        gameId,
		OwnerID:   g.OwnerID,
		Status:    StatusDeleted,
		DeletedAt: tombstone.DeletedAt,
	}
	if err := gs.storage.SaveDataFile(gameMetaFilename(gameId), &meta); err != nil {
		log.Printf("Warning: Failed to save metadata tombstone for game %s: %v", gameId, err)
	}

	if jsonBytes, err := json.Marshal(tombstone); err == nil {
		gs.cache.Store(gameId, jsonBytes)
	}

	return nil
}

// PurgeGame permanently deletes the game file.
func (gs *GameStore) PurgeGame(gameId string) error {
	m, _ := gs.mu.LoadOrStore(gameId, &sync.RWMutex{})
	mutex := m.(*sync.RWMutex)

	mutex.Lock()
	defer mutex.Unlock()

	gs.cache.Delete(gameId)

	fullPath := filepath.Join(gs.DataDir, gameFilename(gameId))
	fullMetaPath := filepath.Join(gs.DataDir, gameMetaFilename(gameId))

	if err := os.Remove(fullPath); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("could not purge game file: %w", err)
		}
	}
	if err := os.Remove(fullMetaPath); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: could not purge meta file for game %s: %v", gameId, err)
		}
	}
	return nil
}

// GameSummary represents a summary of a game for list views.
type GameSummary struct {
	ID           string `json:"id"`
	SeasonID     string `json:"seasonId,omitempty"`
	TeamID       string `json:"teamId,omitempty"`
	Date         string `json:"date"`
	Opponent     string `json:"opponent"`
	Side         string `json:"side"`
	Location     string `json:"location,omitempty"`
	Status       string `json:"status"`
	HasViolation bool   `json:"hasViolation"`
	OwnerID      string `json:"ownerId"`
}

// GameMetadata contains only the fields needed for indexing.
type GameMetadata struct {
	ID           string      `json:"id"`
	OwnerID      string      `json:"ownerId"`
	Permissions  Permissions `json:"permissions"`
	SeasonID     string      `json:"seasonId"`
	TeamID       string      `json:"teamId"`
	Date         string      `json:"date"`
	Opponent     string      `json:"opponent"`
	Location     string      `json:"location"`
	Event        string      `json:"event"`
	Status       string      `json:"status"`
	HasViolation bool        `json:"hasViolation"`
	UpdatedAt    int64       `json:"updatedAt"`
	DeletedAt    int64       `json:"deletedAt"`
}

// Metadata extracts the indexable fields of the game.
func (g *Game) Metadata() *GameMetadata {
	return &GameMetadata{
		ID:           g.ID,
		OwnerID:      g.OwnerID,
		Permissions:  g.Permissions,
		SeasonID:     g.SeasonID,
		TeamID:       g.TeamID,
		Date:         g.Date,
		Opponent:     g.Opponent,
		Location:     g.Location,
		Event:        g.Event,
		Status:       g.Status,
		HasViolation: g.HasViolation,
		UpdatedAt:    g.UpdatedAt,
		DeletedAt:    g.DeletedAt,
	}
}

// ListAllGameMetadata returns metadata for all games without loading
// full entry lists, preferring the sidecar files.
func (gs *GameStore) ListAllGameMetadata() iter.Seq2[GameMetadata, error] {
	return func(yield func(GameMetadata, error) bool) {
		gamesDir := filepath.Join(gs.DataDir, "games")
		files, err := os.ReadDir(gamesDir)
		if err != nil && !os.IsNotExist(err) {
			yield(GameMetadata{}, fmt.Errorf("could not read games directory: %w", err))
			return
		}

		hasMeta := make(map[string]bool)
		hasGame := make(map[string]bool)

		for _, file := range files {
			if file.IsDir() {
				continue
			}
			name := file.Name()
			if strings.HasSuffix(name, ".meta.json") {
				if id, err := url.PathUnescape(strings.TrimSuffix(name, ".meta.json")); err == nil {
					hasMeta[id] = true
				}
			} else if strings.HasSuffix(name, ".json") {
				if id, err := url.PathUnescape(strings.TrimSuffix(name, ".json")); err == nil {
					hasGame[id] = true
				}
			}
		}

		processed := make(map[string]bool)

		// Fast path: metadata sidecars.
		for id := range hasMeta {
			processed[id] = true

			var meta GameMetadata
			if err := gs.storage.ReadDataFile(gameMetaFilename(id), &meta); err != nil {
				log.Printf("Warning: failed to load metadata for %s: %v. Falling back to main file.", id, err)
				hasGame[id] = true
				processed[id] = false
				continue
			}

			if !yield(meta, nil) {
				return
			}
		}

		// Fallback path: full game files without a sidecar.
		for id := range hasGame {
			if processed[id] {
				continue
			}
			processed[id] = true

			g, err := gs.LoadGame(id)
			if err != nil {
				log.Printf("Warning: failed to load game %s from disk: %v", id, err)
				continue
			}

			if !yield(*g.Metadata(), nil) {
				return
			}
		}

		// Dirty cache: games saved in memory but not yet flushed.
		gs.dirtyMu.Lock()
		dirtyIds := make([]string, 0, len(gs.dirty))
		for id := range gs.dirty {
			dirtyIds = append(dirtyIds, id)
		}
		gs.dirtyMu.Unlock()

		for _, id := range dirtyIds {
			if processed[id] {
				continue
			}

			g, err := gs.LoadGame(id)
			if err != nil {
				log.Printf("Error: Failed to load dirty game %s: %v", id, err)
				continue
			}

			if !yield(*g.Metadata(), nil) {
				return
			}
		}
	}
}

// ListAllGames returns an iterator over all games on disk plus dirty
// in-memory games.
func (gs *GameStore) ListAllGames() iter.Seq2[*Game, error] {
	return func(yield func(*Game, error) bool) {
		gamesDir := filepath.Join(gs.DataDir, "games")
		files, err := os.ReadDir(gamesDir)
		if err != nil && !os.IsNotExist(err) {
			yield(nil, fmt.Errorf("could not read games directory: %w", err))
			return
		}

		seen := make(map[string]bool)

		for _, file := range files {
			if file.IsDir() || !strings.HasSuffix(file.Name(), ".json") || strings.HasSuffix(file.Name(), ".meta.json") {
				continue
			}
			gameId, err := url.PathUnescape(strings.TrimSuffix(file.Name(), ".json"))
			if err != nil {
				continue
			}

			seen[gameId] = true

			g, err := gs.LoadGame(gameId)
			if err != nil {
				log.Printf("Warning: could not load game '%s': %v", gameId, err)
				continue
			}
			if !yield(g, nil) {
				return
			}
		}

		gs.dirtyMu.Lock()
		dirtyIds := make([]string, 0, len(gs.dirty))
		for id := range gs.dirty {
			dirtyIds = append(dirtyIds, id)
		}
		gs.dirtyMu.Unlock()

		for _, id := range dirtyIds {
			if seen[id] {
				continue
			}

			g, err := gs.LoadGame(id)
			if err != nil {
				log.Printf("Error: Failed to load dirty game %s: %v", id, err)
				continue
			}
			if !yield(g, nil) {
				return
			}
		}
	}
}
