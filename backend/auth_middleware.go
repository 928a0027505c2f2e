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
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lestrrat-go/jwx/v3/jwk"
)

// jwtAuthMiddleware resolves the signed-in user from the auth cookie.
// Tokens are verified against the league SSO provider's JWKS. Missing,
// expired, or malformed tokens degrade to an anonymous request; public
// game pages must keep working without a sign-in.
func jwtAuthMiddleware(opts Options, next http.Handler) http.Handler {
	var (
		keys        jwk.Set
		lastRefresh time.Time
		mu          sync.RWMutex
	)

	refreshKeys := func() error {
		if opts.AuthJWKSURL == "" {
			return fmt.Errorf("no JWKS URL provided")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		set, err := jwk.Fetch(ctx, opts.AuthJWKSURL)
		if err != nil {
			return fmt.Errorf("failed to fetch JWKS: %w", err)
		}

		mu.Lock()
		keys = set
		lastRefresh = time.Now()
		mu.Unlock()
		return nil
	}

	// Fetch once at startup; a failure here is not fatal because the
	// key set is re-fetched lazily when an unknown kid shows up.
	if opts.AuthJWKSURL != "" {
		if err := refreshKeys(); err != nil {
			log.Printf("Warning: JWKS fetch at startup failed: %v", err)
		}
	} else {
		log.Println("Warning: no auth JWKS URL configured; sign-ins require mock auth.")
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookieName := opts.AuthCookieName
		if cookieName == "" {
			cookieName = "benchbook_auth"
		}
		cookie, err := r.Cookie(cookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		token, err := jwt.Parse(cookie.Value, func(token *jwt.Token) (interface{}, error) {
			switch token.Method.(type) {
			case *jwt.SigningMethodRSA, *jwt.SigningMethodECDSA, *jwt.SigningMethodEd25519:
			default:
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}

			kid, ok := token.Header["kid"].(string)
			if !ok {
				return nil, fmt.Errorf("token missing 'kid' header")
			}

			mu.RLock()
			localKeys := keys
			localLastRefresh := lastRefresh
			mu.RUnlock()

			findKey := func(set jwk.Set, id string) (interface{}, error) {
				if set == nil {
					return nil, fmt.Errorf("JWKS not initialized")
				}
				key, ok := set.LookupKeyID(id)
				if !ok {
					return nil, fmt.Errorf("key %s not found in JWKS", id)
				}
				var raw interface{}
				if err := jwk.Export(key, &raw); err != nil {
					return nil, fmt.Errorf("failed to materialize key: %w", err)
				}
				return raw, nil
			}

			key, err := findKey(localKeys, kid)
			if err == nil {
				return key, nil
			}

			// Unknown kid usually means the provider rotated keys.
			// Refresh at most once a minute so a flood of bad tokens
			// cannot hammer the JWKS endpoint.
			if time.Since(localLastRefresh) > 1*time.Minute {
				if err := refreshKeys(); err != nil {
					log.Printf("Error refreshing JWKS: %v", err)
					return nil, err
				}
				mu.RLock()
				localKeys = keys
				mu.RUnlock()
				return findKey(localKeys, kid)
			}

			return nil, err
		})

		if err != nil {
			// Treated as anonymous. Logged only in debug: stale cookies
			// and random probes make this far too chatty otherwise.
			if opts.Debug {
				log.Printf("JWT validation failed: %v", err)
			}
			next.ServeHTTP(w, r)
			return
		}

		if !token.Valid {
			next.ServeHTTP(w, r)
			return
		}

		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if email, ok := claims["email"].(string); ok && email != "" {
				ctx := context.WithValue(r.Context(), userIDKey, normalizeEmail(email))
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}
