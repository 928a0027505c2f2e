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

package main

import (
	"context"
	"crypto/tls"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/c2FmZQ/storage"
	"github.com/c2FmZQ/storage/crypto"
	"github.com/caarlos0/env/v11"

	"github.com/benchbook-io/benchbook/backend"
)

// config carries the settings that can come from the environment.
// Command line flags take the environment values as defaults, so
// either works and flags win.
type config struct {
	Addr           string `env:"ADDR" envDefault:":8080"`
	DataDir        string `env:"DATA_DIR" envDefault:"data"`
	AuthCookieName string `env:"AUTH_COOKIE_NAME" envDefault:"benchbook_auth"`
	AuthJWKSURL    string `env:"AUTH_JWKS_URL"`
	BootstrapAdmin string `env:"ADMIN"`
	TLSCert        string `env:"TLS_CERT"`
	TLSKey         string `env:"TLS_KEY"`
	Debug          bool   `env:"DEBUG"`

	// MasterKey is the passphrase protecting the on-disk encryption
	// key. Without it, data is stored unencrypted.
	MasterKey string `env:"MASTER_KEY"`
}

// main starts the web server and registers the API handlers.
func main() {
	cfg, err := env.ParseAsWithOptions[config](env.Options{Prefix: "BB_"})
	if err != nil {
		log.Fatalf("Failed to parse environment: %v", err)
	}

	var (
		addr           = flag.String("addr", cfg.Addr, "The TCP address to listen to")
		useMockAuth    = flag.Bool("use-mock-auth", false, "Use Mock Authentication. For testing purposes only.")
		debugMode      = flag.Bool("debug", cfg.Debug, "Enable debug mode")
		dataDir        = flag.String("data-dir", cfg.DataDir, "Directory for season, team and game data")
		tlsCert        = flag.String("tls-cert", cfg.TLSCert, "Path to main HTTP TLS certificate")
		tlsKey         = flag.String("tls-key", cfg.TLSKey, "Path to main HTTP TLS key")
		authCookieName = flag.String("auth-cookie-name", cfg.AuthCookieName, "Name of the cookie containing the JWT")
		authJWKSURL    = flag.String("auth-jwks-url", cfg.AuthJWKSURL, "Comma-separated list of [ISSUER=]URL for JWKS endpoints")
		bootstrapAdmin = flag.String("admin", cfg.BootstrapAdmin, "Email of temporary admin user for bootstrapping access policy")
	)
	flag.Parse()

	var mainTLSCert *tls.Certificate
	if *tlsCert != "" && *tlsKey != "" {
		cert, err := tls.LoadX509KeyPair(*tlsCert, *tlsKey)
		if err != nil {
			log.Fatalf("Failed to load main TLS cert/key: %v", err)
		}
		mainTLSCert = &cert
	}

	// Initialize Encryption Key and Storage
	var masterKey crypto.MasterKey
	if passphrase := cfg.MasterKey; passphrase != "" {
		keyFile := filepath.Join(*dataDir, "master.key")
		// Ensure data dir exists for key file
		os.MkdirAll(*dataDir, 0755)

		var err error
		masterKey, err = crypto.ReadMasterKey([]byte(passphrase), keyFile)
		if err != nil {
			if os.IsNotExist(err) {
				log.Println("Initializing new master encryption key...")
				masterKey, err = crypto.CreateMasterKey()
				if err != nil {
					log.Fatalf("Failed to create master key: %v", err)
				}
				if err := masterKey.Save([]byte(passphrase), keyFile); err != nil {
					log.Fatalf("Failed to save master key: %v", err)
				}
			} else {
				log.Fatalf("Failed to read master key: %v", err)
			}
		} else {
			log.Println("Loaded master encryption key.")
		}
	} else {
		keyFile := filepath.Join(*dataDir, "master.key")
		if _, err := os.Stat(keyFile); err == nil {
			log.Fatalf("Critical Security Error: %s exists but BB_MASTER_KEY is not set. Refusing to start in unencrypted mode to prevent data corruption or exposure.", keyFile)
		}
		log.Println("Warning: No BB_MASTER_KEY provided. Data will be stored UNENCRYPTED.")
	}

	store := storage.New(*dataDir, masterKey)
	store.EnableCompression(true)

	server, err := backend.StartServer(backend.Options{
		Addr:           *addr,
		Cert:           mainTLSCert,
		DataDir:        *dataDir,
		UseMockAuth:    *useMockAuth,
		Debug:          *debugMode,
		Storage:        store,
		MasterKey:      masterKey,
		AuthCookieName: *authCookieName,
		AuthJWKSURL:    *authJWKSURL,
		BootstrapAdmin: *bootstrapAdmin,
	})
	if err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	// Wait for interrupt signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	} else {
		log.Println("Gracefully stopped.")
	}
}
