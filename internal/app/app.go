package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"storemap/internal/adapters/source"
	"storemap/internal/adapters/storage"
	webserver "storemap/internal/adapters/web/server"
	"storemap/internal/adapters/web/websocket"
	"storemap/internal/config"
	"storemap/internal/core/services/location"
	"storemap/internal/core/services/reconcile"
	"storemap/internal/core/services/refresh"
	"storemap/internal/geo"
	"storemap/internal/mock"
	"storemap/internal/telemetry"
)

// defaultOrigin is the coordinate served when the configured location
// provider fails: central Paris.
var defaultOrigin = geo.Location{Latitude: 48.8566, Longitude: 2.3522}

// Application holds the core components of the service. It acts as the
// facade for the entire system, wiring sources, loop, and servers.
type Application struct {
	Config    *config.Config
	Storage   *storage.SQLiteAdapter
	Loop      *refresh.Loop
	WSManager *websocket.WSManager
	WebServer *webserver.Server

	mockFeed *mock.Generator
}

// New creates a new Application instance and bootstraps its components.
func New(cfg *config.Config) (*Application, error) {
	app := &Application{
		Config: cfg,
	}

	if err := app.bootstrap(); err != nil {
		return nil, fmt.Errorf("application bootstrap failed: %w", err)
	}

	return app, nil
}

// bootstrap orchestrates the initialization sequence.
func (app *Application) bootstrap() error {
	telemetry.InitMetrics()

	if err := app.initStorage(); err != nil {
		return err
	}

	resolver := location.NewResolver(
		geo.NewStaticProvider(app.Config.Latitude, app.Config.Longitude),
		defaultOrigin,
		slog.Default(),
	)

	staticSource, err := source.NewStaticSource(context.Background(), app.Config.SeedPath, app.Storage, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to init static source: %w", err)
	}
	liveSource := source.NewLiveSource(app.Storage)

	app.WSManager = websocket.NewWSManager()

	app.Loop = refresh.NewLoop(
		staticSource,
		liveSource,
		reconcile.NewReconciler(slog.Default()),
		resolver,
		app.WSManager,
		app.Config.RefreshInterval,
		slog.Default(),
	)

	app.WebServer = webserver.NewServer(app.Config.Addr, app.Loop, app.WSManager)

	if app.Config.MockMode {
		origin := resolver.Resolve()
		app.mockFeed = mock.NewGenerator(app.Storage, origin, 25, slog.Default())
		log.Println("Mock Mode Active: simulating a live listing feed")
	}

	return nil
}

func (app *Application) initStorage() error {
	if err := os.MkdirAll(filepath.Dir(app.Config.DBPath), 0755); err != nil {
		return fmt.Errorf("failed to create DB directory: %w", err)
	}

	store, err := storage.NewSQLiteAdapter(app.Config.DBPath)
	if err != nil {
		return fmt.Errorf("failed to init storage: %w", err)
	}
	app.Storage = store
	return nil
}

// Run starts the refresh loop and the web server, blocking until ctx is
// cancelled.
func (app *Application) Run(ctx context.Context) error {
	if app.mockFeed != nil {
		go app.mockFeed.Run(ctx, app.Config.RefreshInterval)
	}

	go app.Loop.Run(ctx)

	return app.WebServer.Run(ctx)
}

// Close releases held resources.
func (app *Application) Close() {
	if app.Storage != nil {
		if err := app.Storage.Close(); err != nil {
			log.Printf("Storage close error: %v", err)
		}
	}
}
