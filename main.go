/*
Package main
File: main.go
Description: Server entry point. Loads configuration, opens the game catalog,
optionally seeds it with a definition file, and serves the REST API and the
per-session WebSocket hubs until interrupted.
*/

package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/everforgeworks/galaxies-countdown/internal/api"
	"github.com/everforgeworks/galaxies-countdown/internal/config"
	"github.com/everforgeworks/galaxies-countdown/internal/game"
	"github.com/everforgeworks/galaxies-countdown/internal/storage/sqlite"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

func main() {
	// 1. Load configuration (.env first, then the environment)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config Fail: %v", err)
	}

	// 2. Open the game catalog
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Storage Fail: %v", err)
	}
	defer store.Close()

	// 3. Seed the catalog from a definition file, if one is configured
	if cfg.SeedDefinition != "" {
		if err := seedCatalog(context.Background(), store, cfg.SeedName, cfg.SeedDefinition); err != nil {
			log.Fatalf("Seed Fail: %v", err)
		}
	}

	// 4. Setup sessions, router and handlers
	sessions := api.NewRegistry(api.IntervalTicks(cfg.TickInterval), store)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.NewRouter(api.NewServer(store, sessions)),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// 5. Graceful shutdown on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		log.Println("SIGNAL: Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := sessions.Shutdown(shutdownCtx); err != nil {
			log.Printf("Sessions: shutdown: %v", err)
		}
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP: shutdown: %v", err)
		}
	}()

	// 6. Start the Server
	log.Printf("GALAXIES: COUNTDOWN Server live on %s (tick %s)", cfg.Addr, cfg.TickInterval)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
	<-shutdownDone
	log.Println("Server stopped")
}

// seedCatalog validates the definition at path and stores it under name.
// A catalog that already holds a game called name is left alone.
func seedCatalog(ctx context.Context, store *sqlite.Store, name, path string) error {
	games, err := store.ListGames(ctx)
	if err != nil {
		return err
	}
	for _, g := range games {
		if g.Name == name {
			log.Printf("Catalog: %q already present as %s", name, g.ID)
			return nil
		}
	}

	def, err := game.LoadDefinition(path)
	if err != nil {
		return err
	}
	data, err := json.Marshal(def)
	if err != nil {
		return err
	}
	id, err := store.CreateGame(ctx, name, data)
	if err != nil {
		return err
	}
	log.Printf("Catalog: seeded %q as %s", name, id)
	return nil
}
