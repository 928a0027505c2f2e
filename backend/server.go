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
	"context"
	"crypto/sha256"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/c2FmZQ/storage"
	"github.com/c2FmZQ/storage/crypto"
	"github.com/benchbook-io/benchbook/backend/pitchsmart"
	"github.com/google/uuid"
)

func generateETag(data []byte) string {
	return fmt.Sprintf("\"%x\"", sha256.Sum256(data))
}

func parsePagination(r *http.Request) (int, int, string, string, string) {
	limit := 50
	offset := 0
	sortBy := r.URL.Query().Get("sortBy")
	order := r.URL.Query().Get("order")
	query := r.URL.Query().Get("q")

	if l := r.URL.Query().Get("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil {
			limit = val
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if val, err := strconv.Atoi(o); err == nil {
			offset = val
		}
	}

	if limit < 1 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	return limit, offset, sortBy, order, query
}

// Options represent server options.
type Options struct {
	Addr          string
	Cert          *tls.Certificate
	DataDir       string
	UseMockAuth   bool
	Debug         bool
	GameStore     *GameStore
	TeamStore     *TeamStore
	SeasonStore   *SeasonStore
	PitchLogStore *PitchLogStore
	Storage       *storage.Storage
	MasterKey     crypto.MasterKey
	Registry      *Registry
	Monitor       *Monitor
	Listener      net.Listener

	// Auth Options
	AuthCookieName string
	AuthJWKSURL    string

	// Access Control Options
	BootstrapAdmin string
}

// Server represents the running server instance.
type Server struct {
	httpServer *http.Server

	gameStore     *GameStore
	pitchLogStore *PitchLogStore
	registry      *Registry
	monitor       *Monitor

	stopSampler chan struct{}
}

// Shutdown gracefully shuts down the server and flushes dirty state to
// disk.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []string

	close(s.stopSampler)
	s.registry.StopGC()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Sprintf("http: %v", err))
	}

	if err := s.gameStore.FlushAll(); err != nil {
		errs = append(errs, fmt.Sprintf("games flush: %v", err))
	}
	if err := s.pitchLogStore.FlushAll(); err != nil {
		errs = append(errs, fmt.Sprintf("pitch logs flush: %v", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %s", strings.Join(errs, ", "))
	}
	return nil
}

// StartServer starts the web server and registers the API handlers.
func StartServer(opts Options) (*Server, error) {
	handler, deps := NewServerHandler(opts)

	httpServer := &http.Server{
		Addr:    opts.Addr,
		Handler: handler,
	}

	if opts.Cert != nil {
		httpServer.TLSConfig = &tls.Config{
			Certificates: []tls.Certificate{*opts.Cert},
		}
	}

	go func() {
		var err error
		if opts.Listener != nil {
			if httpServer.TLSConfig != nil {
				log.Printf("Starting HTTPS server on provided listener %s...", opts.Listener.Addr())
				err = httpServer.ServeTLS(opts.Listener, "", "")
			} else {
				log.Printf("Starting HTTP server on provided listener %s...", opts.Listener.Addr())
				err = httpServer.Serve(opts.Listener)
			}
		} else {
			log.Printf("Server starting on %s...", opts.Addr)
			if opts.Cert != nil {
				err = httpServer.ListenAndServeTLS("", "")
			} else {
				err = httpServer.ListenAndServe()
			}
		}

		if err != nil && !errors.Is(err, net.ErrClosed) && err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
		}
	}()

	srv := &Server{
		httpServer:    httpServer,
		gameStore:     deps.gameStore,
		pitchLogStore: deps.pitchLogStore,
		registry:      deps.registry,
		monitor:       deps.monitor,
		stopSampler:   make(chan struct{}),
	}

	// Roll metrics counters into the time series once a minute.
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				srv.monitor.Sample()
			case <-srv.stopSampler:
				return
			}
		}
	}()

	return srv, nil
}

// serverDeps are the components built (or passed through) by
// NewServerHandler that the server needs after startup.
type serverDeps struct {
	gameStore     *GameStore
	pitchLogStore *PitchLogStore
	registry      *Registry
	monitor       *Monitor
}

// NewServerHandler creates and configures the HTTP handler for the server.
func NewServerHandler(opts Options) (http.Handler, *serverDeps) {
	if opts.DataDir == "" {
		opts.DataDir = "data"
	}

	if opts.Storage == nil {
		opts.Storage = storage.New(opts.DataDir, opts.MasterKey)
	}

	store := opts.GameStore
	if store == nil {
		store = NewGameStore(opts.DataDir, opts.Storage)
	}
	tStore := opts.TeamStore
	if tStore == nil {
		tStore = NewTeamStore(opts.DataDir, opts.Storage)
	}
	sStore := opts.SeasonStore
	if sStore == nil {
		sStore = NewSeasonStore(opts.DataDir, opts.Storage)
	}
	plStore := opts.PitchLogStore
	if plStore == nil {
		plStore = NewPitchLogStore(opts.DataDir, opts.Storage, opts.MasterKey)
	}

	registry := opts.Registry
	if registry == nil {
		registry = NewRegistry(store, tStore, sStore, opts.Storage)
	}

	monitor := opts.Monitor
	if monitor == nil {
		monitor = NewMonitor()
	}

	accessControl := NewAccessControl(registry, opts.BootstrapAdmin)
	hm := NewHubManager()

	debugf := func(string, ...any) {}
	if opts.Debug {
		debugf = func(f string, a ...any) {
			log.Printf("[DEBUG BACKEND] "+f, a...)
		}
	}
	mux := http.NewServeMux()

	// requireUser rejects unauthenticated or blocked callers. It
	// fronts every endpoint that mutates or lists user data.
	requireUser := func(w http.ResponseWriter, r *http.Request) (string, bool) {
		userId := getUserID(r)
		if userId == "" || !isValidEmail(userId) {
			http.Error(w, "Forbidden: Invalid User ID", http.StatusForbidden)
			return "", false
		}
		if allowed, msg := accessControl.IsAllowed(userId); !allowed {
			http.Error(w, "Forbidden: "+msg, http.StatusForbidden)
			return "", false
		}
		return userId, true
	}

	// Admin API - Get/Update Policy
	mux.HandleFunc("/api/admin/policy", func(w http.ResponseWriter, r *http.Request) {
		userId := getUserID(r)
		if !accessControl.IsAdmin(userId) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		if r.Method == http.MethodGet {
			policy := registry.GetAccessPolicy()
			if policy == nil {
				policy = &UserAccessPolicy{
					DefaultPolicy: "allow",
					Admins:        []string{},
					Users:         make(map[string]UserOverride),
				}
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(policy)
			return
		}

		if r.Method == http.MethodPost {
			var newPolicy UserAccessPolicy
			if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1048576)).Decode(&newPolicy); err != nil {
				http.Error(w, "Bad Request", http.StatusBadRequest)
				return
			}

			// Normalize user emails to lowercase to ensure case-insensitive matching
			normalizedUsers := make(map[string]UserOverride)
			for email, override := range newPolicy.Users {
				normalizedUsers[strings.ToLower(email)] = override
			}
			newPolicy.Users = normalizedUsers

			if newPolicy.DefaultPolicy != "allow" && newPolicy.DefaultPolicy != "deny" {
				http.Error(w, "Invalid default policy", http.StatusBadRequest)
				return
			}

			if err := registry.UpdateAccessPolicy(&newPolicy); err != nil {
				log.Printf("Error saving access policy: %v", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			w.WriteHeader(http.StatusOK)
			return
		}

		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	})

	// Admin API - Server Metrics
	mux.HandleFunc("/api/metrics", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		userId := getUserID(r)
		if !accessControl.IsAdmin(userId) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(monitor.Snapshot(registry))
	})

	// User Status & Quota Endpoint
	mux.HandleFunc("/api/me", func(w http.ResponseWriter, r *http.Request) {
		userId := getUserID(r)
		if userId == "" || !isValidEmail(userId) {
			http.Error(w, "Unauthenticated", http.StatusForbidden)
			return
		}

		allowed, msg := accessControl.IsAllowed(userId)
		maxGames, maxTeams, maxSeasons := accessControl.GetUserQuotas(userId)

		resp := map[string]interface{}{
			"id":      userId,
			"allowed": allowed,
			"message": msg,
			"admin":   accessControl.IsAdmin(userId),
			"quotas": map[string]int{
				"maxGames":    maxGames,
				"maxTeams":    maxTeams,
				"maxSeasons":  maxSeasons,
				"gamesUsed":   registry.CountOwnedGames(userId),
				"teamsUsed":   registry.CountOwnedTeams(userId),
				"seasonsUsed": registry.CountOwnedSeasons(userId),
			},
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	})

	mux.HandleFunc("/api/save", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
			return
		}
		userId, ok := requireUser(w, r)
		if !ok {
			return
		}

		var g Game
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1048576)).Decode(&g); err != nil {
			http.Error(w, "Bad Request: Malformed JSON", http.StatusBadRequest)
			return
		}

		gameId := g.ID
		if gameId == "" || !isValidUUID(gameId) {
			http.Error(w, "Bad Request: gameId is missing or invalid", http.StatusBadRequest)
			return
		}

		// Authorization Check
		existingGame, err := store.LoadGame(gameId)
		if err == nil {
			// Updating existing game
			level := GetGameAccess(userId, *existingGame, tStore)
			if level < AccessWrite {
				http.Error(w, "Forbidden: You do not have write access to this game", http.StatusForbidden)
				return
			}
			// Enforce existing ownership
			g.OwnerID = existingGame.OwnerID
		} else if errors.Is(err, os.ErrNotExist) {
			// New game: Set owner to current user
			g.OwnerID = userId

			// Quota Check
			ownedCount := registry.CountOwnedGames(userId)
			if err := accessControl.CheckGameQuota(userId, ownedCount); err != nil {
				http.Error(w, "Forbidden: "+err.Error(), http.StatusForbidden)
				return
			}
		} else {
			log.Printf("Error checking existing game %s: %v", gameId, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		g.SchemaVersion = CurrentSchemaVersion

		if err := ValidateGame(&g); err != nil {
			log.Printf("Validation error for game %s: %v", gameId, err)
			http.Error(w, fmt.Sprintf("Bad Request: Data validation failed: %v", err), http.StatusBadRequest)
			return
		}

		if g.SeasonID != "" && !registry.SeasonExists(g.SeasonID) {
			http.Error(w, "Bad Request: unknown seasonId", http.StatusBadRequest)
			return
		}

		// The team supplies league ages for the rule engine. A game may
		// reference no team (scrimmage) or a team the entry's player has
		// since left; those entries skip the age-dependent rules.
		var team *Team
		if g.TeamID != "" {
			team, err = tStore.LoadTeam(g.TeamID)
			if err != nil {
				if !errors.Is(err, os.ErrNotExist) {
					log.Printf("Error loading team %s for game %s: %v", g.TeamID, gameId, err)
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
					return
				}
				http.Error(w, "Bad Request: unknown teamId", http.StatusBadRequest)
				return
			}
			if GetTeamAccess(userId, *team) < AccessWrite && g.OwnerID != userId {
				http.Error(w, "Forbidden: You do not have write access to this team", http.StatusForbidden)
				return
			}
		}

		// Server-side rule evaluation. Client-sent violation fields are
		// discarded and recomputed.
		if err := EvaluateGame(team, &g, plStore); err != nil {
			log.Printf("Rule evaluation error for game %s: %v", gameId, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		if err := store.SaveGame(&g); err != nil {
			log.Printf("Internal Server Error during SaveGame: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		if err := UpdatePitchLogs(team, &g, plStore); err != nil {
			log.Printf("Error updating pitch logs for game %s: %v", gameId, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		registry.UpdateGame(g)
		hm.BroadcastGameUpdate(&g)

		violations := make(map[string][]pitchsmart.ViolationKind)
		for _, e := range g.Entries {
			if len(e.Violations) > 0 {
				violations[e.PlayerID] = e.Violations
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":           gameId,
			"hasViolation": g.HasViolation,
			"violations":   violations,
		})
	})

	mux.HandleFunc("/api/load/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		userId := getUserID(r)

		if userId != "" {
			if allowed, msg := accessControl.IsAllowed(userId); !allowed {
				http.Error(w, "Forbidden: "+msg, http.StatusForbidden)
				return
			}
		}

		gameId := strings.TrimPrefix(r.URL.Path, "/api/load/")
		if gameId == "" || !isValidUUID(gameId) {
			http.Error(w, "Bad Request: gameId is missing or invalid", http.StatusBadRequest)
			return
		}

		g, err := store.LoadGame(gameId)
		if err != nil {
			if os.IsNotExist(err) {
				http.Error(w, "Not Found: Game not found", http.StatusNotFound)
			} else {
				log.Printf("Internal Server Error during LoadGame: %v", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
			return
		}

		if GetGameAccess(userId, *g, tStore) < AccessRead {
			http.Error(w, "Forbidden: You do not have access to this game", http.StatusForbidden)
			return
		}

		data, err := json.Marshal(g)
		if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		etag := generateETag(data)
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}

		w.Header().Set("ETag", etag)
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})

	mux.HandleFunc("/api/list-games", func(w http.ResponseWriter, r *http.Request) {
		userId, ok := requireUser(w, r)
		if !ok {
			return
		}

		var knownIds []string
		if r.Method == http.MethodPost {
			var body struct {
				KnownIds []string `json:"knownIds"`
			}
			// Ignore error on decode if body empty, just treat as empty list
			if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1048576)).Decode(&body); err == nil {
				knownIds = body.KnownIds
			}
		} else if r.Method != http.MethodGet {
			http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
			return
		}

		limit, offset, sortBy, order, query := parsePagination(r)
		accessibleIds := registry.ListGames(userId, sortBy, order, query)
		total := len(accessibleIds)

		// Pagination Logic
		var pageIds []string
		if offset < total {
			end := offset + limit
			if end > total {
				end = total
			}
			pageIds = accessibleIds[offset:end]
		}

		games := make([]GameSummary, 0)

		for _, gid := range pageIds {
			gf, err := store.LoadGame(gid)
			if err != nil {
				continue
			}

			games = append(games, GameSummary{
				ID:           gf.ID,
				SeasonID:     gf.SeasonID,
				TeamID:       gf.TeamID,
				Date:         gf.Date,
				Opponent:     gf.Opponent,
				Side:         gf.Side,
				Location:     gf.Location,
				Status:       gf.Status,
				HasViolation: gf.HasViolation,
				OwnerID:      gf.OwnerID,
			})
		}

		// Check for deleted games among known IDs
		for _, kid := range knownIds {
			if registry.IsGameDeleted(kid) {
				// Add tombstone summary
				games = append(games, GameSummary{
					ID:     kid,
					Status: StatusDeleted,
				})
			}
		}

		respData := struct {
			Data []GameSummary `json:"data"`
			Meta struct {
				Total  int `json:"total"`
				Offset int `json:"offset"`
				Limit  int `json:"limit"`
			} `json:"meta"`
		}{
			Data: games,
		}
		respData.Meta.Total = total
		respData.Meta.Offset = offset
		respData.Meta.Limit = limit

		response, err := json.Marshal(respData)
		if err != nil {
			log.Printf("Internal Server Error during JSON Marshal: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		etag := generateETag(response)
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}

		w.Header().Set("ETag", etag)
		w.Header().Set("Content-Type", "application/json")
		w.Write(response)
	})

	mux.HandleFunc("/api/delete-game", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
			return
		}
		userId, ok := requireUser(w, r)
		if !ok {
			return
		}

		var data struct {
			ID string `json:"id"`
		}
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1048576)).Decode(&data); err != nil {
			http.Error(w, "Bad Request: Malformed JSON", http.StatusBadRequest)
			return
		}

		gameId := data.ID
		if gameId == "" || !isValidUUID(gameId) {
			http.Error(w, "Bad Request: gameId is missing or invalid", http.StatusBadRequest)
			return
		}

		// Authorization Check. Deleting a game also clears the rest
		// obligations it created.
		g, err := store.LoadGame(gameId)
		if err == nil {
			if GetGameAccess(userId, *g, tStore) < AccessAdmin {
				http.Error(w, "Forbidden: Only the owner can delete this game", http.StatusForbidden)
				return
			}
			ClearPitchLogEntries(g, plStore)
		}

		if err := store.DeleteGame(gameId); err != nil {
			log.Printf("Internal Server Error during DeleteGame: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		registry.DeleteGame(gameId)

		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "Game %s deleted successfully", gameId)
	})

	mux.HandleFunc("/api/save-team", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
			return
		}
		userId, ok := requireUser(w, r)
		if !ok {
			return
		}

		var t Team
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1048576)).Decode(&t); err != nil {
			http.Error(w, "Bad Request: Malformed JSON", http.StatusBadRequest)
			return
		}

		teamId := t.ID
		if teamId == "" || !isValidUUID(teamId) {
			http.Error(w, "Bad Request: teamId is missing or invalid", http.StatusBadRequest)
			return
		}

		// Authorization Check
		existingTeam, err := tStore.LoadTeam(teamId)
		if err == nil {
			if GetTeamAccess(userId, *existingTeam) < AccessWrite {
				http.Error(w, "Forbidden: You do not have permission to manage this team", http.StatusForbidden)
				return
			}
			// Enforce existing ownership
			t.OwnerID = existingTeam.OwnerID
		} else if errors.Is(err, os.ErrNotExist) {
			// New team: set owner to current user
			t.OwnerID = userId

			// Quota Check
			ownedCount := registry.CountOwnedTeams(userId)
			if err := accessControl.CheckTeamQuota(userId, ownedCount); err != nil {
				http.Error(w, "Forbidden: "+err.Error(), http.StatusForbidden)
				return
			}
		} else {
			log.Printf("Error checking existing team %s: %v", teamId, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		t.SchemaVersion = CurrentSchemaVersion

		if err := ValidateTeam(&t); err != nil {
			log.Printf("Validation error for team %s: %v", teamId, err)
			http.Error(w, fmt.Sprintf("Bad Request: Data validation failed: %v", err), http.StatusBadRequest)
			return
		}

		if t.SeasonID != "" && !registry.SeasonExists(t.SeasonID) {
			http.Error(w, "Bad Request: unknown seasonId", http.StatusBadRequest)
			return
		}

		if err := tStore.SaveTeam(&t); err != nil {
			log.Printf("Internal Server Error during SaveTeam: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		registry.UpdateTeam(t)

		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "Team %s saved successfully", teamId)
	})

	mux.HandleFunc("/api/list-teams", func(w http.ResponseWriter, r *http.Request) {
		userId, ok := requireUser(w, r)
		if !ok {
			return
		}

		var knownIds []string
		if r.Method == http.MethodPost {
			var body struct {
				KnownIds []string `json:"knownIds"`
			}
			if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1048576)).Decode(&body); err == nil {
				knownIds = body.KnownIds
			}
		} else if r.Method != http.MethodGet {
			http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
			return
		}

		limit, offset, sortBy, order, query := parsePagination(r)
		accessibleIds := registry.ListTeams(userId, sortBy, order, query)
		total := len(accessibleIds)

		// Pagination Logic
		var pageIds []string
		if offset < total {
			end := offset + limit
			if end > total {
				end = total
			}
			pageIds = accessibleIds[offset:end]
		}

		teams := make([]json.RawMessage, 0)

		for _, tid := range pageIds {
			t, err := tStore.LoadTeam(tid)
			if err != nil {
				continue
			}
			data, _ := json.Marshal(t)
			teams = append(teams, json.RawMessage(data))
		}

		// Check for deleted teams
		for _, kid := range knownIds {
			if registry.IsTeamDeleted(kid) {
				// Minimal tombstone json
				tombstone := map[string]string{
					"id":     kid,
					"status": StatusDeleted,
				}
				data, _ := json.Marshal(tombstone)
				teams = append(teams, json.RawMessage(data))
			}
		}

		respData := struct {
			Data []json.RawMessage `json:"data"`
			Meta struct {
				Total  int `json:"total"`
				Offset int `json:"offset"`
				Limit  int `json:"limit"`
			} `json:"meta"`
		}{
			Data: teams,
		}
		respData.Meta.Total = total
		respData.Meta.Offset = offset
		respData.Meta.Limit = limit

		response, err := json.Marshal(respData)
		if err != nil {
			log.Printf("Internal Server Error during JSON Marshal: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		etag := generateETag(response)
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}

		w.Header().Set("ETag", etag)
		w.Header().Set("Content-Type", "application/json")
		w.Write(response)
	})

	mux.HandleFunc("/api/load-team/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		userId := getUserID(r)
		if allowed, msg := accessControl.IsAllowed(userId); !allowed {
			http.Error(w, "Forbidden: "+msg, http.StatusForbidden)
			return
		}

		teamId := strings.TrimPrefix(r.URL.Path, "/api/load-team/")
		if teamId == "" || !isValidUUID(teamId) {
			http.Error(w, "Bad Request: teamId is missing or invalid", http.StatusBadRequest)
			return
		}

		t, err := tStore.LoadTeam(teamId)
		if err != nil {
			if os.IsNotExist(err) {
				http.Error(w, "Not Found: Team not found", http.StatusNotFound)
			} else {
				log.Printf("Internal Server Error during LoadTeam: %v", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
			return
		}

		if GetTeamAccess(userId, *t) < AccessRead {
			http.Error(w, "Forbidden: You do not have access to this team", http.StatusForbidden)
			return
		}

		data, err := json.Marshal(t)
		if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		etag := generateETag(data)
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}

		w.Header().Set("ETag", etag)
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})

	mux.HandleFunc("/api/delete-team", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
			return
		}
		userId, ok := requireUser(w, r)
		if !ok {
			return
		}

		var data struct {
			ID string `json:"id"`
		}
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1048576)).Decode(&data); err != nil {
			http.Error(w, "Bad Request: Malformed JSON", http.StatusBadRequest)
			return
		}

		teamId := data.ID
		if teamId == "" || !isValidUUID(teamId) {
			http.Error(w, "Bad Request: teamId is missing or invalid", http.StatusBadRequest)
			return
		}

		// Authorization Check
		existingTeam, err := tStore.LoadTeam(teamId)
		if err == nil {
			if GetTeamAccess(userId, *existingTeam) < AccessAdmin {
				http.Error(w, "Forbidden: You do not have permission to delete this team", http.StatusForbidden)
				return
			}
		}

		if err := tStore.DeleteTeam(teamId); err != nil {
			log.Printf("Internal Server Error during DeleteTeam: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		// Update registry
		registry.DeleteTeam(teamId)

		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "Team %s deleted successfully", teamId)
	})

	mux.HandleFunc("/api/team/members", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
			return
		}
		userId, ok := requireUser(w, r)
		if !ok {
			return
		}

		var req struct {
			TeamId string    `json:"teamId"`
			Roles  TeamRoles `json:"roles"`
		}
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1048576)).Decode(&req); err != nil {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		if req.TeamId == "" || !isValidUUID(req.TeamId) {
			http.Error(w, "Bad Request: teamId is missing or invalid", http.StatusBadRequest)
			return
		}

		t, err := tStore.LoadTeam(req.TeamId)
		if err != nil {
			if os.IsNotExist(err) {
				http.Error(w, "Not Found", http.StatusNotFound)
			} else {
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
			return
		}

		if GetTeamAccess(userId, *t) < AccessAdmin {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		t.Roles = req.Roles
		if err := ValidateTeam(t); err != nil {
			http.Error(w, fmt.Sprintf("Bad Request: Data validation failed: %v", err), http.StatusBadRequest)
			return
		}

		if err := tStore.SaveTeam(t); err != nil {
			log.Printf("Internal Server Error during SaveTeam: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		registry.UpdateTeam(*t)

		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("/api/save-season", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
			return
		}
		userId, ok := requireUser(w, r)
		if !ok {
			return
		}

		var s Season
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1048576)).Decode(&s); err != nil {
			http.Error(w, "Bad Request: Malformed JSON", http.StatusBadRequest)
			return
		}

		// Seasons are always created from the web UI, so the server may
		// mint the ID itself.
		isNew := false
		if s.ID == "" {
			s.ID = uuid.NewString()
			isNew = true
		} else if !isValidUUID(s.ID) {
			http.Error(w, "Bad Request: seasonId is invalid", http.StatusBadRequest)
			return
		}

		if !isNew {
			existing, err := sStore.LoadSeason(s.ID)
			if err == nil {
				if GetSeasonAccess(userId, *existing) < AccessWrite {
					http.Error(w, "Forbidden: You do not have permission to manage this season", http.StatusForbidden)
					return
				}
				s.OwnerID = existing.OwnerID
			} else if errors.Is(err, os.ErrNotExist) {
				isNew = true
			} else {
				log.Printf("Error checking existing season %s: %v", s.ID, err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
		}
		if isNew {
			s.OwnerID = userId

			ownedCount := registry.CountOwnedSeasons(userId)
			if err := accessControl.CheckSeasonQuota(userId, ownedCount); err != nil {
				http.Error(w, "Forbidden: "+err.Error(), http.StatusForbidden)
				return
			}
		}

		s.SchemaVersion = CurrentSchemaVersion

		if err := ValidateSeason(&s); err != nil {
			http.Error(w, fmt.Sprintf("Bad Request: Data validation failed: %v", err), http.StatusBadRequest)
			return
		}

		if err := sStore.SaveSeason(&s); err != nil {
			log.Printf("Internal Server Error during SaveSeason: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		registry.UpdateSeason(s, isNew)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(s)
	})

	mux.HandleFunc("/api/load-season/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		userId, ok := requireUser(w, r)
		if !ok {
			return
		}

		seasonId := strings.TrimPrefix(r.URL.Path, "/api/load-season/")
		if seasonId == "" || !isValidUUID(seasonId) {
			http.Error(w, "Bad Request: seasonId is missing or invalid", http.StatusBadRequest)
			return
		}

		s, err := sStore.LoadSeason(seasonId)
		if err != nil {
			if os.IsNotExist(err) {
				http.Error(w, "Not Found: Season not found", http.StatusNotFound)
			} else {
				log.Printf("Internal Server Error during LoadSeason: %v", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
			return
		}

		if GetSeasonAccess(userId, *s) < AccessRead {
			http.Error(w, "Forbidden: You do not have access to this season", http.StatusForbidden)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(s)
	})

	mux.HandleFunc("/api/list-seasons", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		userId, ok := requireUser(w, r)
		if !ok {
			return
		}

		limit, offset, _, _, query := parsePagination(r)
		seasons := registry.ListSeasons(userId, query)
		total := len(seasons)

		var page []*Season
		if offset < total {
			end := offset + limit
			if end > total {
				end = total
			}
			page = seasons[offset:end]
		}
		if page == nil {
			page = make([]*Season, 0)
		}

		respData := struct {
			Data []*Season `json:"data"`
			Meta struct {
				Total  int `json:"total"`
				Offset int `json:"offset"`
				Limit  int `json:"limit"`
			} `json:"meta"`
		}{
			Data: page,
		}
		respData.Meta.Total = total
		respData.Meta.Offset = offset
		respData.Meta.Limit = limit

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(respData)
	})

	mux.HandleFunc("/api/delete-season", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
			return
		}
		userId, ok := requireUser(w, r)
		if !ok {
			return
		}

		var data struct {
			ID string `json:"id"`
		}
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1048576)).Decode(&data); err != nil {
			http.Error(w, "Bad Request: Malformed JSON", http.StatusBadRequest)
			return
		}

		seasonId := data.ID
		if seasonId == "" || !isValidUUID(seasonId) {
			http.Error(w, "Bad Request: seasonId is missing or invalid", http.StatusBadRequest)
			return
		}

		existing, err := sStore.LoadSeason(seasonId)
		if err == nil {
			if GetSeasonAccess(userId, *existing) < AccessAdmin {
				http.Error(w, "Forbidden: Only the owner can delete this season", http.StatusForbidden)
				return
			}
		}

		if err := sStore.DeleteSeason(seasonId); err != nil {
			log.Printf("Internal Server Error during DeleteSeason: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		registry.DeleteSeason(seasonId)

		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "Season %s deleted successfully", seasonId)
	})

	mux.HandleFunc("/api/check-deletions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
			return
		}
		userId, ok := requireUser(w, r)
		if !ok {
			return
		}

		var req struct {
			GameIDs []string `json:"gameIds"`
			TeamIDs []string `json:"teamIds"`
		}
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1048576)).Decode(&req); err != nil {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}

		var resp struct {
			DeletedGameIDs []string `json:"deletedGameIds"`
			DeletedTeamIDs []string `json:"deletedTeamIds"`
		}
		resp.DeletedGameIDs = make([]string, 0)
		resp.DeletedTeamIDs = make([]string, 0)

		for _, gid := range req.GameIDs {
			// Report as deleted if explicitly tombstoned OR if it exists but is no longer accessible
			if registry.IsGameDeleted(gid) || (registry.GameExists(gid) && !registry.HasGameAccess(userId, gid)) {
				resp.DeletedGameIDs = append(resp.DeletedGameIDs, gid)
			}
		}
		for _, tid := range req.TeamIDs {
			if registry.IsTeamDeleted(tid) || (registry.TeamExists(tid) && !registry.HasTeamAccess(userId, tid)) {
				resp.DeletedTeamIDs = append(resp.DeletedTeamIDs, tid)
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	})

	mux.HandleFunc("/api/player/eligibility", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		userId, ok := requireUser(w, r)
		if !ok {
			return
		}

		teamId := r.URL.Query().Get("teamId")
		playerId := r.URL.Query().Get("playerId")
		asOfDate := r.URL.Query().Get("date")
		if teamId == "" || !isValidUUID(teamId) {
			http.Error(w, "Bad Request: teamId is missing or invalid", http.StatusBadRequest)
			return
		}
		if asOfDate == "" {
			asOfDate = time.Now().Format("2006-01-02")
		}
		if !isValidDate(asOfDate) {
			http.Error(w, "Bad Request: invalid date", http.StatusBadRequest)
			return
		}

		t, err := tStore.LoadTeam(teamId)
		if err != nil {
			if os.IsNotExist(err) {
				http.Error(w, "Not Found: Team not found", http.StatusNotFound)
			} else {
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
			return
		}
		if GetTeamAccess(userId, *t) < AccessRead {
			http.Error(w, "Forbidden: You do not have access to this team", http.StatusForbidden)
			return
		}

		// A single player, or the whole roster when playerId is absent.
		players := make([]Player, 0, len(t.Roster))
		if playerId != "" {
			p, ok := t.PlayerByID(playerId)
			if !ok {
				http.Error(w, "Not Found: Player not on roster", http.StatusNotFound)
				return
			}
			players = append(players, p)
		} else {
			players = append(players, t.Roster...)
		}

		results := make([]PlayerEligibility, 0, len(players))
		for _, p := range players {
			res, err := EligibilityForPlayer(p.ID, asOfDate, plStore)
			if err != nil {
				log.Printf("Error computing eligibility for player %s: %v", p.ID, err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			results = append(results, res)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"teamId":      teamId,
			"asOfDate":    asOfDate,
			"eligibility": results,
		})
	})

	mux.HandleFunc("/api/game/violations", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		userId := getUserID(r)

		gameId := r.URL.Query().Get("gameId")
		if gameId == "" || !isValidUUID(gameId) {
			http.Error(w, "Bad Request: gameId is missing or invalid", http.StatusBadRequest)
			return
		}

		g, err := store.LoadGame(gameId)
		if err != nil {
			if os.IsNotExist(err) {
				http.Error(w, "Not Found: Game not found", http.StatusNotFound)
			} else {
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
			return
		}
		if GetGameAccess(userId, *g, tStore) < AccessRead {
			http.Error(w, "Forbidden: You do not have access to this game", http.StatusForbidden)
			return
		}

		violations := make(map[string][]pitchsmart.ViolationKind)
		for _, e := range g.Entries {
			if len(e.Violations) > 0 {
				violations[e.PlayerID] = e.Violations
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"gameId":       gameId,
			"hasViolation": g.HasViolation,
			"violations":   violations,
		})
	})

	mux.HandleFunc("/api/export/pitching-log", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		userId, ok := requireUser(w, r)
		if !ok {
			return
		}

		teamId := r.URL.Query().Get("teamId")
		if teamId == "" || !isValidUUID(teamId) {
			http.Error(w, "Bad Request: teamId is missing or invalid", http.StatusBadRequest)
			return
		}

		t, err := tStore.LoadTeam(teamId)
		if err != nil {
			if os.IsNotExist(err) {
				http.Error(w, "Not Found: Team not found", http.StatusNotFound)
			} else {
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
			return
		}
		if GetTeamAccess(userId, *t) < AccessRead {
			http.Error(w, "Forbidden: You do not have access to this team", http.StatusForbidden)
			return
		}

		rows, err := BuildPitchingLog(t, store, plStore)
		if err != nil {
			log.Printf("Error building pitching log for team %s: %v", teamId, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		if r.URL.Query().Get("format") == "json" {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(rows)
			return
		}

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "pitching-log-"+teamId+".csv"))
		if err := WritePitchingLogCSV(w, rows); err != nil {
			log.Printf("Error writing pitching log CSV: %v", err)
		}
	})

	mux.HandleFunc("/api/export/game-report", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		userId := getUserID(r)

		gameId := r.URL.Query().Get("gameId")
		if gameId == "" || !isValidUUID(gameId) {
			http.Error(w, "Bad Request: gameId is missing or invalid", http.StatusBadRequest)
			return
		}

		g, err := store.LoadGame(gameId)
		if err != nil {
			if os.IsNotExist(err) {
				http.Error(w, "Not Found: Game not found", http.StatusNotFound)
			} else {
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
			return
		}
		if GetGameAccess(userId, *g, tStore) < AccessRead {
			http.Error(w, "Forbidden: You do not have access to this game", http.StatusForbidden)
			return
		}

		var t *Team
		if g.TeamID != "" {
			t, _ = tStore.LoadTeam(g.TeamID)
		}
		rows := BuildGameReport(t, g)

		if r.URL.Query().Get("format") == "json" {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"gameId": gameId,
				"rows":   rows,
			})
			return
		}

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "game-report-"+gameId+".csv"))
		if err := WriteGameReportCSV(w, g, rows); err != nil {
			log.Printf("Error writing game report CSV: %v", err)
		}
	})

	mux.HandleFunc("/api/ws", func(w http.ResponseWriter, r *http.Request) {
		userId := getUserID(r)
		if userId != "" {
			if allowed, msg := accessControl.IsAllowed(userId); !allowed {
				http.Error(w, "Forbidden: "+msg, http.StatusForbidden)
				return
			}
		}
		ServeWS(store, tStore, registry, hm, monitor, w, r, debugf)
	})

	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		if opts.UseMockAuth {
			http.SetCookie(w, &http.Cookie{
				Name:  "mock_auth_user",
				Value: "test@example.com",
				Path:  "/",
			})
		} else if userId := getUserID(r); userId == "" || !isValidEmail(userId) {
			http.Error(w, "Forbidden: Invalid User ID", http.StatusForbidden)
			return
		}

		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><head><script src='/login-success.js'></script></head><body>Login successful. Closing window...</body></html>"))
	})

	// Mock SSO endpoints for local development
	if opts.UseMockAuth {
		mux.HandleFunc("/.sso/{$}", ssoStatusHandler)
		mux.HandleFunc("/.sso/logout", ssoLogoutHandler)
	}

	mux.HandleFunc("/api/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"app":     "benchbook",
			"version": CurrentAppVersion,
		})
	})

	handler := http.Handler(mux)
	if opts.UseMockAuth {
		handler = mockAuthMiddleware(opts, handler)
	} else {
		handler = jwtAuthMiddleware(opts, handler)
	}
	handler = loggingMiddleware(handler)
	handler = securityMiddleware(handler)
	handler = cacheControlMiddleware(handler)
	handler = metricsMiddleware(monitor, handler)

	return handler, &serverDeps{
		gameStore:     store,
		pitchLogStore: plStore,
		registry:      registry,
		monitor:       monitor,
	}
}

// cacheControlMiddleware adds Cache-Control headers so proxies never
// cache API responses across users.
func cacheControlMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") || strings.HasPrefix(r.URL.Path, "/.sso/") {
			w.Header().Set("Cache-Control", "private, no-cache, no-transform")
		} else {
			w.Header().Set("Cache-Control", "public, max-age=300, proxy-revalidate, no-transform")
		}
		next.ServeHTTP(w, r)
	})
}

// securityMiddleware adds HTTP security headers to responses.
func securityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data: blob:")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// metricsMiddleware records request counts and latency for API calls.
func metricsMiddleware(m *Monitor, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/api/") {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		next.ServeHTTP(w, r)
		m.RecordRequest(time.Since(start))
	})
}

// mockAuthMiddleware simulates the auth proxy by checking for a cookie
// and setting the UserID context.
func mockAuthMiddleware(opts Options, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookieName := "mock_auth_user"
		cookie, err := r.Cookie(cookieName)
		if err == nil && cookie.Value != "" {
			ctx := context.WithValue(r.Context(), userIDKey, normalizeEmail(cookie.Value))
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ssoStatusHandler returns the current user status.
func ssoStatusHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	userId := getUserID(r)
	if userId == "" {
		w.Write([]byte("null\n"))
		return
	}
	json.NewEncoder(w).Encode(map[string]any{
		"email": userId,
		"name":  "Test User",
	})
}

// ssoLogoutHandler logs the user out (clears cookie).
func ssoLogoutHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:    "mock_auth_user",
		Value:   "",
		Path:    "/",
		Expires: time.Unix(0, 0),
		MaxAge:  -1,
	})
	w.WriteHeader(http.StatusOK)
}

// loggingMiddleware logs the method and URL path of every incoming HTTP request.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("Received request: %s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
