// Package main runs the local EduSafe server. The browser UI talks to
// it over REST on localhost and receives invalidation signals over a
// WebSocket.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ummeeayz/edusafe-app/cmd/edusafe/handlers"
	"github.com/ummeeayz/edusafe-app/internal/db"
	"github.com/ummeeayz/edusafe-app/internal/logging"
	"github.com/ummeeayz/edusafe-app/internal/seed"
	"github.com/ummeeayz/edusafe-app/internal/services"
	"github.com/ummeeayz/edusafe-app/internal/storage"
	syncpkg "github.com/ummeeayz/edusafe-app/internal/sync"
	"github.com/ummeeayz/edusafe-app/internal/sync/scheduler"
)

type config struct {
	dataDir   string
	addr      string
	logLevel  string
	remoteURL string
}

func loadConfig() config {
	return config{
		dataDir:   envOr("EDUSAFE_DATA_DIR", "./data"),
		addr:      envOr("EDUSAFE_ADDR", "localhost:8090"),
		logLevel:  envOr("EDUSAFE_LOG_LEVEL", "info"),
		remoteURL: os.Getenv("EDUSAFE_REMOTE_URL"),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	cfg := loadConfig()
	logging.Init(os.Stderr, cfg.logLevel)

	if err := run(cfg); err != nil {
		logging.Error("server exited", err)
		os.Exit(1)
	}
}

func run(cfg config) error {
	database, err := db.Open(cfg.dataDir)
	if err != nil {
		return err
	}
	defer database.Close()

	migrator := db.NewMigrator(database.DB)
	if err := migrator.Initialize(); err != nil {
		return err
	}
	if err := migrator.Up(); err != nil {
		return err
	}

	repo := db.NewRepository(database.DB)
	defer repo.Close()

	hub := NewWSHub()

	documents := services.NewDocumentService(repo, hub)
	assignments := services.NewAssignmentService(repo)
	settings := services.NewSettingsService(repo)
	importer := services.NewImportService(documents)
	storageMgr := storage.NewManager(repo)

	var backend syncpkg.RemoteBackend = syncpkg.SimulatedBackend{}
	if cfg.remoteURL != "" {
		backend = syncpkg.NewHTTPBackend(cfg.remoteURL)
	}
	engine := syncpkg.NewEngine(repo, backend, hub)
	sched := scheduler.New(engine, nil)
	syncpkg.RegisterBackgroundSync(schedulerRegistrar{})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched.Start(ctx)
	defer sched.Stop()

	if _, err := seed.Populate(documents, assignments); err != nil {
		return err
	}

	mux := http.NewServeMux()

	docsHandler := handlers.NewDocumentsHandler(documents)
	mux.HandleFunc("GET /api/documents", docsHandler.List)
	mux.HandleFunc("POST /api/documents", docsHandler.Create)
	mux.HandleFunc("GET /api/documents/{id}", docsHandler.Get)
	mux.HandleFunc("PATCH /api/documents/{id}", docsHandler.Update)
	mux.HandleFunc("DELETE /api/documents/{id}", docsHandler.Delete)
	mux.HandleFunc("GET /api/documents/{id}/versions", docsHandler.Versions)

	assignHandler := handlers.NewAssignmentsHandler(assignments)
	mux.HandleFunc("GET /api/assignments", assignHandler.List)
	mux.HandleFunc("POST /api/assignments", assignHandler.Create)
	mux.HandleFunc("PATCH /api/assignments/{id}", assignHandler.Update)
	mux.HandleFunc("DELETE /api/assignments/{id}", assignHandler.Delete)

	syncHandler := handlers.NewSyncHandler(engine, sched)
	mux.HandleFunc("GET /api/sync/status", syncHandler.Status)
	mux.HandleFunc("POST /api/sync", syncHandler.Trigger)
	mux.HandleFunc("POST /api/sync/connectivity", syncHandler.SetConnectivity)

	storageHandler := handlers.NewStorageHandler(storageMgr, hub)
	mux.HandleFunc("GET /api/storage/analytics", storageHandler.Analytics)
	mux.HandleFunc("POST /api/storage/optimize", storageHandler.Optimize)

	settingsHandler := handlers.NewSettingsHandler(settings)
	mux.HandleFunc("GET /api/settings", settingsHandler.List)
	mux.HandleFunc("GET /api/settings/{key}", settingsHandler.Get)
	mux.HandleFunc("PUT /api/settings/{key}", settingsHandler.Set)

	importHandler := handlers.NewImportHandler(importer)
	mux.HandleFunc("POST /api/import", importHandler.Import)

	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","service":"edusafe"}`))
	})

	mux.HandleFunc("GET /ws", HandleWebSocket(hub))

	server := &http.Server{
		Addr:    cfg.addr,
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("server listening", map[string]interface{}{"addr": cfg.addr})
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	logging.Info("server stopped")
	return nil
}

// schedulerRegistrar satisfies the background sync registration hook.
// The local server has no platform sync manager, so registration always
// succeeds.
type schedulerRegistrar struct{}

func (schedulerRegistrar) Register(tag string) error { return nil }
