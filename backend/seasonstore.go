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

// Season groups teams and games for one playing period.
type Season struct {
	ID            string `json:"id"`
	SchemaVersion int    `json:"schemaVersion"`
	Name          string `json:"name"`
	StartDate     string `json:"startDate,omitempty"`
	EndDate       string `json:"endDate,omitempty"`
	OwnerID       string `json:"ownerId"`
	UpdatedAt     int64  `json:"updatedAt,omitempty"`

	Status    string `json:"status,omitempty"`
	DeletedAt int64  `json:"deletedAt,omitempty"`
}

func (s *Season) normalize() {
	if s.SchemaVersion == 0 {
		s.SchemaVersion = CurrentSchemaVersion
	}
}

// SeasonStore manages season persistence to disk.
type SeasonStore struct {
	DataDir string
	storage *storage.Storage
	mu      sync.Map
}

// NewSeasonStore creates a new SeasonStore.
func NewSeasonStore(dataDir string, s *storage.Storage) *SeasonStore {
	return &SeasonStore{
		DataDir: dataDir,
		storage: s,
		mu:      sync.Map{},
	}
}

func seasonFilename(seasonId string) string {
	return filepath.Join("seasons", fmt.Sprintf("%s.json", url.PathEscape(seasonId)))
}

// SaveSeason saves the season data atomically.
func (ss *SeasonStore) SaveSeason(season *Season) error {
	m, _ := ss.mu.LoadOrStore(season.ID, &sync.Mutex{})
	mutex := m.(*sync.Mutex)

	mutex.Lock()
	defer mutex.Unlock()

	if err := ss.storage.SaveDataFile(seasonFilename(season.ID), season); err != nil {
		return fmt.Errorf("storage.SaveDataFile: %w", err)
	}
	return nil
}

// LoadSeason loads the season data by ID.
func (ss *SeasonStore) LoadSeason(seasonId string) (*Season, error) {
	var s Season
	err := ss.storage.ReadDataFile(seasonFilename(seasonId), &s)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, os.ErrNotExist
		}
		return nil, fmt.Errorf("ReadDataFile: %w", err)
	}
	s.normalize()

	return &s, nil
}

// ListAllSeasons returns an iterator over all seasons on disk.
func (ss *SeasonStore) ListAllSeasons() iter.Seq2[*Season, error] {
	return func(yield func(*Season, error) bool) {
		seasonsDir := filepath.Join(ss.DataDir, "seasons")
		files, err := os.ReadDir(seasonsDir)
		if err != nil {
			if !os.IsNotExist(err) {
				yield(nil, fmt.Errorf("could not read seasons directory: %w", err))
			}
			return
		}

		for _, file := range files {
			if file.IsDir() || !strings.HasSuffix(file.Name(), ".json") {
				continue
			}
			seasonId, err := url.PathUnescape(strings.TrimSuffix(file.Name(), ".json"))
			if err != nil {
				continue
			}

			s, err := ss.LoadSeason(seasonId)
			if err != nil {
				log.Printf("Warning: could not load season '%s': %v", seasonId, err)
				continue
			}
			if !yield(s, nil) {
				return
			}
		}
	}
}

// DeleteSeason deletes a season by overwriting it with a tombstone.
func (ss *SeasonStore) DeleteSeason(seasonId string) error {
	s, err := ss.LoadSeason(seasonId)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	m, _ := ss.mu.LoadOrStore(seasonId, &sync.Mutex{})
	mutex := m.(*sync.Mutex)

	mutex.Lock()
	defer mutex.Unlock()

	tombstone := &Season{
		ID:            seasonId,
		SchemaVersion: CurrentSchemaVersion,
		OwnerID:       s.OwnerID,
		Status:        StatusDeleted,
		DeletedAt:     time.Now().UnixNano(),
	}

	if err := ss.storage.SaveDataFile(seasonFilename(seasonId), tombstone); err != nil {
		return fmt.Errorf("storage.SaveDataFile (tombstone): %w", err)
	}
	return nil
}

// PurgeSeason permanently deletes the season file.
func (ss *SeasonStore) PurgeSeason(seasonId string) error {
	m, _ := ss.mu.LoadOrStore(seasonId, &sync.Mutex{})
	mutex := m.(*sync.Mutex)

	mutex.Lock()
	defer mutex.Unlock()

	fullPath := filepath.Join(ss.DataDir, seasonFilename(seasonId))
	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("could not purge season file: %w", err)
	}
	return nil
}
