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
	"log"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/c2FmZQ/storage"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/benchbook-io/benchbook/backend/search"
)

const tombstoneTTL = 30 * 24 * time.Hour
const gcInterval = 12 * time.Hour

const accessPolicyFile = "access_policy.json"

// UserAccessPolicy defines global access rules and quotas.
type UserAccessPolicy struct {
	DefaultPolicy      string                  `json:"defaultPolicy"` // "allow" or "deny"
	DefaultMaxTeams    int                     `json:"defaultMaxTeams"`
	DefaultMaxGames    int                     `json:"defaultMaxGames"`
	DefaultMaxSeasons  int                     `json:"defaultMaxSeasons"`
	DefaultDenyMessage string                  `json:"defaultDenyMessage"`
	Admins             []string                `json:"admins"` // List of admin emails
	Users              map[string]UserOverride `json:"users"`
}

// UserOverride defines specific access rules for a single user.
type UserOverride struct {
	Access     string `json:"access"` // "allow" or "deny"
	MaxTeams   int    `json:"maxTeams"`
	MaxGames   int    `json:"maxGames"`
	MaxSeasons int    `json:"maxSeasons"`
}

// Registry manages the global index of games, teams and seasons for all
// users. It allows efficient lookup of accessible entities without
// scanning all files. The access maps are held in memory and rebuilt
// from metadata sidecars at startup.
type Registry struct {
	gameStore   *GameStore
	teamStore   *TeamStore
	seasonStore *SeasonStore
	storage     *storage.Storage

	mu sync.RWMutex

	// Metadata Cache for Sorting/Filtering (LRU)
	// Also acts as Tombstone cache (Status="deleted")
	gameMetadata *lru.Cache[string, GameMetadata]
	teamMetadata *lru.Cache[string, TeamMetadata]

	// In-memory access maps, guarded by mu.
	userGames map[string]map[string]AccessLevel // UserID -> GameID -> level (direct)
	userTeams map[string]map[string]AccessLevel // UserID -> TeamID -> level
	teamGames map[string]map[string]bool        // TeamID -> GameIDs

	// Global Counts
	gameCount   int
	teamCount   int
	seasonCount int

	// Access Policy Cache
	accessPolicy *UserAccessPolicy

	// GC
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewRegistry creates a new Registry and rebuilds the in-memory access
// maps by scanning the stores.
func NewRegistry(gs *GameStore, ts *TeamStore, ss *SeasonStore, s *storage.Storage) *Registry {
	gmCache, _ := lru.New[string, GameMetadata](5000)
	tmCache, _ := lru.New[string, TeamMetadata](2000)

	r := &Registry{
		gameStore:    gs,
		teamStore:    ts,
		seasonStore:  ss,
		storage:      s,
		gameMetadata: gmCache,
		teamMetadata: tmCache,
		userGames:    make(map[string]map[string]AccessLevel),
		userTeams:    make(map[string]map[string]AccessLevel),
		teamGames:    make(map[string]map[string]bool),
		stopChan:     make(chan struct{}),
	}

	r.loadAccessPolicy()
	r.Rebuild()
	r.StartGC()

	return r
}

// StartGC starts the background tombstone garbage collector.
func (r *Registry) StartGC() {
	go func() {
		ticker := time.NewTicker(gcInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				r.PurgeOldTombstones()
			case <-r.stopChan:
				return
			}
		}
	}()
}

// StopGC stops the background tombstone garbage collector.
func (r *Registry) StopGC() {
	r.stopOnce.Do(func() {
		close(r.stopChan)
	})
}

// PurgeOldTombstones permanently deletes expired tombstones from disk.
func (r *Registry) PurgeOldTombstones() {
	log.Println("Registry: Garbage collection of expired tombstones started...")
	now := time.Now().UnixNano()
	cutoff := now - tombstoneTTL.Nanoseconds()

	var purgedTeams int
	var purgedGames int
	var purgedSeasons int

	// 1. GC Teams
	for t, err := range r.teamStore.ListAllTeamMetadata() {
		if err == nil && t.Status == StatusDeleted && t.DeletedAt > 0 && t.DeletedAt < cutoff {
			if err := r.teamStore.PurgeTeam(t.ID); err == nil {
				r.teamMetadata.Remove(t.ID)
				purgedTeams++
			}
		}
	}

	// 2. GC Games
	for g, err := range r.gameStore.ListAllGameMetadata() {
		if err == nil && g.Status == StatusDeleted && g.DeletedAt > 0 && g.DeletedAt < cutoff {
			if err := r.gameStore.PurgeGame(g.ID); err == nil {
				r.gameMetadata.Remove(g.ID)
				purgedGames++
			}
		}
	}

	// 3. GC Seasons
	for s, err := range r.seasonStore.ListAllSeasons() {
		if err == nil && s.Status == StatusDeleted && s.DeletedAt > 0 && s.DeletedAt < cutoff {
			if err := r.seasonStore.PurgeSeason(s.ID); err == nil {
				purgedSeasons++
			}
		}
	}

	if purgedTeams > 0 || purgedGames > 0 || purgedSeasons > 0 {
		log.Printf("Registry: GC complete. Purged %d games, %d teams, %d seasons.", purgedGames, purgedTeams, purgedSeasons)
	}
}

func (r *Registry) loadAccessPolicy() {
	var policy UserAccessPolicy
	if err := r.storage.ReadDataFile(accessPolicyFile, &policy); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Registry: Warning: could not load access policy: %v", err)
		}
		return
	}
	r.mu.Lock()
	r.accessPolicy = &policy
	r.mu.Unlock()
}

// UpdateAccessPolicy updates and persists the access policy.
func (r *Registry) UpdateAccessPolicy(policy *UserAccessPolicy) error {
	r.mu.Lock()
	r.accessPolicy = policy
	r.mu.Unlock()
	if err := r.storage.SaveDataFile(accessPolicyFile, policy); err != nil {
		return err
	}
	return nil
}

// GetAccessPolicy returns the current access policy.
func (r *Registry) GetAccessPolicy() *UserAccessPolicy {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.accessPolicy
}

// Rebuild reconstructs the entire index by scanning the underlying stores.
func (r *Registry) Rebuild() {
	log.Println("Registry: Rebuild started...")

	var localGameCount int
	var localTeamCount int
	var localSeasonCount int

	now := time.Now().UnixNano()
	cutoff := now - tombstoneTTL.Nanoseconds()

	// 1. Index Teams
	for t, err := range r.teamStore.ListAllTeamMetadata() {
		if err != nil {
			log.Printf("Registry: Error listing teams: %v", err)
			break
		}
		if t.Status == StatusDeleted && t.DeletedAt > 0 && t.DeletedAt < cutoff {
			r.teamStore.PurgeTeam(t.ID)
			continue
		}
		if r.indexTeam(t.ID, t, true) {
			localTeamCount++
		}
	}

	// 2. Index Games
	for g, err := range r.gameStore.ListAllGameMetadata() {
		if err != nil {
			log.Printf("Registry: Error listing games: %v", err)
			break
		}
		if g.Status == StatusDeleted && g.DeletedAt > 0 && g.DeletedAt < cutoff {
			r.gameStore.PurgeGame(g.ID)
			continue
		}
		if r.indexGame(g.ID, g, true) {
			localGameCount++
		}
	}

	// 3. Count Seasons
	for s, err := range r.seasonStore.ListAllSeasons() {
		if err != nil {
			log.Printf("Registry: Error listing seasons: %v", err)
			break
		}
		if s.Status == StatusDeleted {
			if s.DeletedAt > 0 && s.DeletedAt < cutoff {
				r.seasonStore.PurgeSeason(s.ID)
			}
			continue
		}
		localSeasonCount++
	}

	// 4. Update Global Counts
	r.mu.Lock()
	r.gameCount = localGameCount
	r.teamCount = localTeamCount
	r.seasonCount = localSeasonCount
	r.mu.Unlock()

	r.mu.RLock()
	log.Printf("Registry: Rebuild complete. Indexed %d games, %d teams, %d seasons.", r.gameCount, r.teamCount, r.seasonCount)
	r.mu.RUnlock()
}

func (r *Registry) setUserTeamAccess(userId, teamId string, level AccessLevel) {
	if level == AccessNone {
		if m, ok := r.userTeams[userId]; ok {
			delete(m, teamId)
			if len(m) == 0 {
				delete(r.userTeams, userId)
			}
		}
		return
	}
	m, ok := r.userTeams[userId]
	if !ok {
		m = make(map[string]AccessLevel)
		r.userTeams[userId] = m
	}
	m[teamId] = level
}

func (r *Registry) setUserGameAccess(userId, gameId string, level AccessLevel) {
	if level == AccessNone {
		if m, ok := r.userGames[userId]; ok {
			delete(m, gameId)
			if len(m) == 0 {
				delete(r.userGames, userId)
			}
		}
		return
	}
	m, ok := r.userGames[userId]
	if !ok {
		m = make(map[string]AccessLevel)
		r.userGames[userId] = m
	}
	m[gameId] = level
}

// indexTeam processes a team for indexing (Rebuild/Update).
// Returns true if the team was indexed (i.e. not deleted).
func (r *Registry) indexTeam(teamId string, t TeamMetadata, isRebuild bool) bool {
	// Cache metadata (even if deleted)
	r.teamMetadata.Add(teamId, t)

	r.mu.Lock()
	defer r.mu.Unlock()

	// Drop stale memberships from a previous version of the team.
	var wasIndexed bool
	for userId, m := range r.userTeams {
		if _, ok := m[teamId]; ok {
			wasIndexed = true
			r.setUserTeamAccess(userId, teamId, AccessNone)
		}
	}

	if t.Status == StatusDeleted {
		delete(r.teamGames, teamId)
		return false
	}

	getLevel := func(u string) AccessLevel {
		u = normalizeEmail(u)
		if u == normalizeEmail(t.OwnerID) {
			return AccessAdmin
		}
		for _, a := range t.Roles.Coaches {
			if normalizeEmail(a) == u {
				return AccessAdmin
			}
		}
		for _, a := range t.Roles.Scorekeepers {
			if normalizeEmail(a) == u {
				return AccessWrite
			}
		}
		for _, a := range t.Roles.Spectators {
			if normalizeEmail(a) == u {
				return AccessRead
			}
		}
		return AccessNone
	}

	members := make(map[string]bool)
	members[normalizeEmail(t.OwnerID)] = true
	for _, u := range t.Roles.Coaches {
		members[normalizeEmail(u)] = true
	}
	for _, u := range t.Roles.Scorekeepers {
		members[normalizeEmail(u)] = true
	}
	for _, u := range t.Roles.Spectators {
		members[normalizeEmail(u)] = true
	}

	for u := range members {
		r.setUserTeamAccess(u, teamId, getLevel(u))
	}

	if !wasIndexed && !isRebuild {
		r.teamCount++
	}
	return true
}

// indexGame processes a game for indexing (Rebuild/Update).
// Returns true if the game was indexed (i.e. not deleted).
func (r *Registry) indexGame(gameId string, g GameMetadata, isRebuild bool) bool {
	// Cache metadata (even if deleted)
	r.gameMetadata.Add(gameId, g)

	r.mu.Lock()
	defer r.mu.Unlock()

	var wasIndexed bool
	for userId, m := range r.userGames {
		if _, ok := m[gameId]; ok {
			wasIndexed = true
			r.setUserGameAccess(userId, gameId, AccessNone)
		}
	}

	if g.Status == StatusDeleted {
		for _, games := range r.teamGames {
			delete(games, gameId)
		}
		return false
	}

	// Direct access: owner, per-user permissions, public. Public games
	// are indexed under the empty user ID.
	r.setUserGameAccess(normalizeEmail(g.OwnerID), gameId, AccessAdmin)
	for u, role := range g.Permissions.Users {
		switch role {
		case "write":
			r.setUserGameAccess(normalizeEmail(u), gameId, AccessWrite)
		case "read":
			r.setUserGameAccess(normalizeEmail(u), gameId, AccessRead)
		}
	}
	if g.Permissions.Public == "read" {
		r.setUserGameAccess("", gameId, AccessRead)
	}

	// Team link
	if g.TeamID != "" {
		games, ok := r.teamGames[g.TeamID]
		if !ok {
			games = make(map[string]bool)
			r.teamGames[g.TeamID] = games
		}
		games[gameId] = true
	}

	if !wasIndexed && !isRebuild {
		r.gameCount++
	}
	return true
}

func (r *Registry) UpdateTeam(t Team) {
	r.indexTeam(t.ID, TeamMetadata{
		ID: t.ID, SeasonID: t.SeasonID, Name: t.Name, OwnerID: t.OwnerID, Roles: t.Roles,
		UpdatedAt: t.UpdatedAt, Status: t.Status, DeletedAt: t.DeletedAt,
	}, false)
}

func (r *Registry) UpdateGame(g Game) {
	r.indexGame(g.ID, *g.Metadata(), false)
}

func (r *Registry) UpdateSeason(s Season, isNew bool) {
	if isNew {
		r.mu.Lock()
		r.seasonCount++
		r.mu.Unlock()
	}
}

func (r *Registry) DeleteGame(gameId string) {
	r.markGameDeleted(gameId, time.Now().UnixNano())
	r.indexGame(gameId, GameMetadata{
		ID: gameId, Status: StatusDeleted, DeletedAt: time.Now().UnixNano(),
	}, true)
}

func (r *Registry) DeleteTeam(teamId string) {
	r.markTeamDeleted(teamId, time.Now().UnixNano())
	r.indexTeam(teamId, TeamMetadata{
		ID: teamId, Status: StatusDeleted, DeletedAt: time.Now().UnixNano(),
	}, true)
}

func (r *Registry) DeleteSeason(seasonId string) {
	r.mu.Lock()
	r.seasonCount--
	r.mu.Unlock()
}

func (r *Registry) markGameDeleted(id string, ts int64) {
	// Use Peek to check cache without updating LRU order or hitting disk.
	if m, ok := r.gameMetadata.Peek(id); ok && m.Status == StatusDeleted {
		return
	}

	r.mu.Lock()
	r.gameCount--
	r.mu.Unlock()

	// Cache tombstone
	r.gameMetadata.Add(id, GameMetadata{
		ID: id, Status: StatusDeleted, DeletedAt: ts,
	})
}

func (r *Registry) markTeamDeleted(id string, ts int64) {
	// Use Peek to check cache without updating LRU order or hitting disk.
	if m, ok := r.teamMetadata.Peek(id); ok && m.Status == StatusDeleted {
		return
	}

	r.mu.Lock()
	r.teamCount--
	r.mu.Unlock()

	r.teamMetadata.Add(id, TeamMetadata{
		ID: id, Status: StatusDeleted, DeletedAt: ts,
	})
}

func (r *Registry) IsGameDeleted(id string) bool {
	if m, ok := r.gameMetadata.Get(id); ok {
		return m.Status == StatusDeleted
	}
	g, err := r.gameStore.LoadGame(id)
	if err == nil {
		r.gameMetadata.Add(id, *g.Metadata())
		return g.Status == StatusDeleted
	}
	return false
}

func (r *Registry) IsTeamDeleted(id string) bool {
	if m, ok := r.teamMetadata.Get(id); ok {
		return m.Status == StatusDeleted
	}
	t, err := r.teamStore.LoadTeam(id)
	if err == nil {
		r.teamMetadata.Add(id, teamMetadataOf(t))
		return t.Status == StatusDeleted
	}
	return false
}

func teamMetadataOf(t *Team) TeamMetadata {
	return TeamMetadata{
		ID: t.ID, SeasonID: t.SeasonID, Name: t.Name, OwnerID: t.OwnerID, Roles: t.Roles,
		UpdatedAt: t.UpdatedAt, Status: t.Status, DeletedAt: t.DeletedAt,
	}
}

func (r *Registry) HasGameAccess(userId, gameId string) bool {
	return r.GetAccessLevel(userId, gameId) >= AccessRead
}

// GetAccessLevel calculates the effective access level for a user on a
// game using indexed metadata without loading the full game object.
func (r *Registry) GetAccessLevel(userId, gameId string) AccessLevel {
	if r.IsGameDeleted(gameId) {
		return AccessNone
	}
	userId = normalizeEmail(userId)

	r.mu.RLock()
	defer r.mu.RUnlock()

	level := AccessNone
	if m, ok := r.userGames[userId]; ok {
		if l, ok := m[gameId]; ok {
			level = l
		}
	}

	// Team inheritance
	if m, ok := r.userTeams[userId]; ok {
		for teamId, teamLevel := range m {
			if r.teamGames[teamId][gameId] && teamLevel > level {
				level = teamLevel
			}
		}
	}

	// Public access fallback
	if level < AccessRead {
		if m, ok := r.userGames[""]; ok {
			if l, ok := m[gameId]; ok && l > level {
				level = l
			}
		}
	}

	return level
}

func (r *Registry) HasTeamAccess(userId, teamId string) bool {
	userId = normalizeEmail(userId)
	r.mu.RLock()
	defer r.mu.RUnlock()
	if m, ok := r.userTeams[userId]; ok {
		return m[teamId] >= AccessRead
	}
	return false
}

func (r *Registry) GameExists(id string) bool {
	if m, ok := r.gameMetadata.Get(id); ok {
		return m.Status != StatusDeleted
	}
	g, err := r.gameStore.LoadGame(id)
	return err == nil && g.Status != StatusDeleted
}

func (r *Registry) TeamExists(id string) bool {
	if m, ok := r.teamMetadata.Get(id); ok {
		return m.Status != StatusDeleted
	}
	t, err := r.teamStore.LoadTeam(id)
	return err == nil && t.Status != StatusDeleted
}

func (r *Registry) SeasonExists(id string) bool {
	s, err := r.seasonStore.LoadSeason(id)
	return err == nil && s.Status != StatusDeleted
}

func (r *Registry) CountOwnedGames(userId string) int {
	userId = normalizeEmail(userId)
	r.mu.RLock()
	ids := make([]string, 0)
	if m, ok := r.userGames[userId]; ok {
		for gId, level := range m {
			if level >= AccessAdmin {
				ids = append(ids, gId)
			}
		}
	}
	r.mu.RUnlock()

	count := 0
	for _, gId := range ids {
		if m, ok := r.getGameMeta(gId); ok && normalizeEmail(m.OwnerID) == userId && m.Status != StatusDeleted {
			count++
		}
	}
	return count
}

func (r *Registry) CountOwnedTeams(userId string) int {
	userId = normalizeEmail(userId)
	r.mu.RLock()
	ids := make([]string, 0)
	if m, ok := r.userTeams[userId]; ok {
		for tId, level := range m {
			if level >= AccessAdmin {
				ids = append(ids, tId)
			}
		}
	}
	r.mu.RUnlock()

	count := 0
	for _, tId := range ids {
		if m, ok := r.getTeamMeta(tId); ok && normalizeEmail(m.OwnerID) == userId && m.Status != StatusDeleted {
			count++
		}
	}
	return count
}

func (r *Registry) CountOwnedSeasons(userId string) int {
	userId = normalizeEmail(userId)
	count := 0
	for s, err := range r.seasonStore.ListAllSeasons() {
		if err != nil {
			break
		}
		if s.Status != StatusDeleted && normalizeEmail(s.OwnerID) == userId {
			count++
		}
	}
	return count
}

func (r *Registry) CountTotalGames() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.gameCount
}

func (r *Registry) CountTotalTeams() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.teamCount
}

func (r *Registry) CountTotalSeasons() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.seasonCount
}

func (r *Registry) getGameMeta(id string) (GameMetadata, bool) {
	if m, ok := r.gameMetadata.Get(id); ok {
		return m, true
	}
	g, err := r.gameStore.LoadGame(id)
	if err != nil {
		return GameMetadata{}, false
	}
	m := *g.Metadata()
	r.gameMetadata.Add(id, m)
	return m, true
}

func (r *Registry) getTeamMeta(id string) (TeamMetadata, bool) {
	if m, ok := r.teamMetadata.Get(id); ok {
		return m, true
	}
	t, err := r.teamStore.LoadTeam(id)
	if err != nil {
		return TeamMetadata{}, false
	}
	m := teamMetadataOf(t)
	r.teamMetadata.Add(id, m)
	return m, true
}

// ListGames returns the IDs of games the user can see, filtered by the
// search query and sorted.
func (r *Registry) ListGames(userId, sortBy, order, query string) []string {
	userId = normalizeEmail(userId)

	// Defaults
	if sortBy == "" {
		sortBy = "date"
	}
	if order == "" {
		if sortBy == "date" {
			order = "desc"
		} else {
			order = "asc"
		}
	}

	q := search.Parse(query)
	for i, t := range q.FreeText {
		q.FreeText[i] = strings.ToLower(t)
	}
	for i, f := range q.Filters {
		if f.Key != "date" {
			q.Filters[i].Value = strings.ToLower(f.Value)
		}
	}

	r.mu.RLock()
	candidates := make(map[string]bool)
	if m, ok := r.userGames[userId]; ok {
		for id := range m {
			candidates[id] = true
		}
	}
	if m, ok := r.userTeams[userId]; ok {
		for teamId := range m {
			for id := range r.teamGames[teamId] {
				candidates[id] = true
			}
		}
	}
	if userId != "" {
		if m, ok := r.userGames[""]; ok {
			for id := range m {
				candidates[id] = true
			}
		}
	}
	r.mu.RUnlock()

	var ids []string
	for id := range candidates {
		meta, ok := r.getGameMeta(id)
		if !ok || meta.Status == StatusDeleted || !matchesGame(meta, q) {
			continue
		}
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool {
		id1, id2 := ids[i], ids[j]
		m1, ok1 := r.getGameMeta(id1)
		m2, ok2 := r.getGameMeta(id2)
		if !ok1 || !ok2 {
			if order == "desc" {
				return id1 > id2
			}
			return id1 < id2
		}
		var k1, k2 string
		switch sortBy {
		case "date":
			k1, k2 = m1.Date, m2.Date
		case "opponent":
			k1, k2 = m1.Opponent, m2.Opponent
		case "location":
			k1, k2 = m1.Location, m2.Location
		case "event":
			k1, k2 = m1.Event, m2.Event
		}
		if k1 == k2 {
			k1, k2 = id1, id2
		}
		if order == "desc" {
			return k1 > k2
		}
		return k1 < k2
	})
	return ids
}

// ListTeams returns the IDs of teams the user belongs to, filtered by
// the search query and sorted.
func (r *Registry) ListTeams(userId, sortBy, order, query string) []string {
	userId = normalizeEmail(userId)

	// Defaults
	if sortBy == "" {
		sortBy = "name"
	}
	if order == "" {
		order = "asc"
	}

	q := search.Parse(query)
	for i, t := range q.FreeText {
		q.FreeText[i] = strings.ToLower(t)
	}
	for i, f := range q.Filters {
		q.Filters[i].Value = strings.ToLower(f.Value)
	}

	r.mu.RLock()
	candidates := make([]string, 0)
	if m, ok := r.userTeams[userId]; ok {
		for id := range m {
			candidates = append(candidates, id)
		}
	}
	r.mu.RUnlock()

	var ids []string
	for _, id := range candidates {
		meta, ok := r.getTeamMeta(id)
		if !ok || meta.Status == StatusDeleted || !matchesTeam(meta, q) {
			continue
		}
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool {
		id1, id2 := ids[i], ids[j]
		m1, ok1 := r.getTeamMeta(id1)
		m2, ok2 := r.getTeamMeta(id2)
		if !ok1 || !ok2 {
			if order == "desc" {
				return id1 > id2
			}
			return id1 < id2
		}
		switch sortBy {
		case "updated":
			if m1.UpdatedAt != m2.UpdatedAt {
				if order == "desc" {
					return m1.UpdatedAt > m2.UpdatedAt
				}
				return m1.UpdatedAt < m2.UpdatedAt
			}
			if order == "desc" {
				return id1 > id2
			}
			return id1 < id2
		default: // name
			k1, k2 := m1.Name, m2.Name
			if k1 == k2 {
				k1, k2 = id1, id2
			}
			if order == "desc" {
				return k1 > k2
			}
			return k1 < k2
		}
	})
	return ids
}

// ListSeasons returns the seasons the user owns, filtered and sorted by
// start date descending.
func (r *Registry) ListSeasons(userId string, query string) []*Season {
	userId = normalizeEmail(userId)
	q := search.Parse(query)
	for i, t := range q.FreeText {
		q.FreeText[i] = strings.ToLower(t)
	}

	var seasons []*Season
	for s, err := range r.seasonStore.ListAllSeasons() {
		if err != nil {
			break
		}
		if s.Status == StatusDeleted || normalizeEmail(s.OwnerID) != userId {
			continue
		}
		match := true
		for _, token := range q.FreeText {
			if !containsLower(s.Name, token) {
				match = false
				break
			}
		}
		if match {
			seasons = append(seasons, s)
		}
	}

	sort.Slice(seasons, func(i, j int) bool {
		if seasons[i].StartDate != seasons[j].StartDate {
			return seasons[i].StartDate > seasons[j].StartDate
		}
		return seasons[i].ID < seasons[j].ID
	})
	return seasons
}

// --- Search Helpers ---

func containsLower(s, substrLower string) bool {
	return strings.Contains(strings.ToLower(s), substrLower)
}

func matchesGame(m GameMetadata, q search.Query) bool {
	for _, token := range q.FreeText {
		match := containsLower(m.Opponent, token) ||
			containsLower(m.Location, token) ||
			containsLower(m.Event, token)
		if !match {
			return false
		}
	}
	for _, f := range q.Filters {
		switch f.Key {
		case "opponent":
			if !containsLower(m.Opponent, f.Value) {
				return false
			}
		case "location":
			if !containsLower(m.Location, f.Value) {
				return false
			}
		case "event":
			if !containsLower(m.Event, f.Value) {
				return false
			}
		case "team":
			if !strings.EqualFold(m.TeamID, f.Value) {
				return false
			}
		case "season":
			if !strings.EqualFold(m.SeasonID, f.Value) {
				return false
			}
		case "violations":
			want := f.Value == "true" || f.Value == "yes"
			if m.HasViolation != want {
				return false
			}
		case "date":
			if !checkDateFilter(m.Date, f) {
				return false
			}
		}
	}
	return true
}

func matchesTeam(m TeamMetadata, q search.Query) bool {
	for _, token := range q.FreeText {
		if !containsLower(m.Name, token) {
			return false
		}
	}
	for _, f := range q.Filters {
		switch f.Key {
		case "name":
			if !containsLower(m.Name, f.Value) {
				return false
			}
		case "season":
			if !strings.EqualFold(m.SeasonID, f.Value) {
				return false
			}
		}
	}
	return true
}

func checkDateFilter(dateVal string, f search.Filter) bool {
	switch f.Operator {
	case search.OpEqual:
		return strings.HasPrefix(dateVal, f.Value)
	case search.OpGreater:
		return dateVal > f.Value
	case search.OpGreaterOrEqual:
		return dateVal >= f.Value
	case search.OpLess:
		return dateVal < f.Value
	case search.OpLessOrEqual:
		return dateVal <= f.Value
	case search.OpRange:
		maxVal := f.MaxValue + "~"
		return dateVal >= f.Value && dateVal <= maxVal
	}
	return true
}
