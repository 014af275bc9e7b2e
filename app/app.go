// Package app wires the album, the geotag store, the screens and the HTTP
// surface into a runnable service.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"bitbucket.org/kleinnic74/photomap/config"
	"bitbucket.org/kleinnic74/photomap/consts"
	"bitbucket.org/kleinnic74/photomap/discovery"
	"bitbucket.org/kleinnic74/photomap/events"
	"bitbucket.org/kleinnic74/photomap/geotag"
	"bitbucket.org/kleinnic74/photomap/kvstore"
	"bitbucket.org/kleinnic74/photomap/kvstore/boltkv"
	"bitbucket.org/kleinnic74/photomap/kvstore/sqlitekv"
	"bitbucket.org/kleinnic74/photomap/kvstore/valkeykv"
	"bitbucket.org/kleinnic74/photomap/logging"
	"bitbucket.org/kleinnic74/photomap/media"
	"bitbucket.org/kleinnic74/photomap/rest"
	"bitbucket.org/kleinnic74/photomap/screens"
	"github.com/gorilla/mux"
	"github.com/kleinnic74/fflags"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type App struct {
	dir string

	db        *bolt.DB
	kv        kvstore.ClosableStore
	album     *media.Album
	geotags   *geotag.Store
	bus       *events.Stream
	announcer *discovery.Announcer
	router    *mux.Router

	addr            string
	shutdownTimeout time.Duration

	shutdownHandlers shutdownHandlers
}

type shutdownHandler func(context.Context, *App)

const (
	dbName   = "photomap.db"
	albumDir = "album"
)

type shutdownHandlers struct {
	h []shutdownHandler
}

func (hdls *shutdownHandlers) Add(h shutdownHandler) {
	hdls.h = append(hdls.h, h)
}

func (hdls shutdownHandlers) Execute(ctx context.Context, a *App) {
	for i := len(hdls.h) - 1; i >= 0; i-- {
		hdls.h[i](ctx, a)
	}
}

func NewApp(ctx context.Context, cfg *config.Config) (a *App, err error) {
	logger, ctx := logging.SubFrom(ctx, "app")

	logger.Info("Data directory", zap.String("dir", cfg.Dir))
	if err = os.MkdirAll(cfg.Dir, os.ModePerm); err != nil {
		return nil, err
	}

	a = &App{
		dir:             cfg.Dir,
		addr:            fmt.Sprintf(":%d", cfg.Server.Port),
		shutdownTimeout: time.Duration(cfg.Server.ShutdownTimeout) * time.Second,
		router:          mux.NewRouter(),
		bus:             events.NewStream(),
	}
	defer func() {
		if err != nil {
			a.shutdownHandlers.Execute(ctx, a)
		}
	}()

	if a.kv, err = a.openStore(ctx, cfg.Storage); err != nil {
		return nil, fmt.Errorf("failed to initialize geotag store: %w", err)
	}
	a.shutdownHandlers.Add(func(ctx context.Context, a *App) {
		if err := a.kv.Close(); err != nil {
			logging.From(ctx).Warn("Failed to close geotag store", zap.Error(err))
		}
		logging.From(ctx).Info("Closed geotag store")
	})
	a.geotags = geotag.NewStore(a.kv)

	if a.album, err = media.OpenAlbum(filepath.Join(cfg.Dir, albumDir), consts.AlbumName); err != nil {
		return nil, fmt.Errorf("failed to open album: %w", err)
	}
	logger.Info("Opened album", zap.String("name", a.album.Name()), zap.String("path", a.album.Dir()))

	permissions := screens.NewPermissions(a.bus)
	camera := screens.NewCameraScreen(a.album, a.geotags, permissions, a.bus)
	gallery := screens.NewGalleryScreen(a.album, a.geotags, permissions, a.bus)
	viewer := screens.NewViewerScreen(a.album, a.geotags, a.bus)

	// REST Handlers

	handlers := []rest.Routes{
		rest.NewMetricsHandler(),
		rest.NewSSEHandler(a.bus),
		rest.NewPhotosHandler(a.album, camera, gallery, viewer, permissions),
		rest.NewMapHandler(a.geotags),
		rest.NewPermissionsHandler(permissions),
	}

	if consts.IsDevMode() {
		handlers = append(handlers, rest.NewLogsHandler())
	} else if err = fflags.IfEnabled(fflags.Define("rest.logs"), func() error {
		handlers = append(handlers, rest.NewLogsHandler())
		return nil
	}); err != nil {
		return nil, err
	}

	if cfg.Discovery.Enabled {
		if err = fflags.IfEnabled(fflags.Define("discovery.mdns"), func() error {
			a.announcer = discovery.NewAnnouncer(cfg.Discovery.Name, cfg.Server.Port, announcedProperties(a.album.Name()))
			handlers = append(handlers, rest.NewPeersAPI(a.announcer))
			return nil
		}); err != nil {
			return nil, fmt.Errorf("failed to initialize discovery: %w", err)
		}
	}

	for _, h := range handlers {
		h.InitRoutes(a.router)
	}
	a.router.Use(rest.Instrument)

	return a, nil
}

// openStore opens the key-value store selected by the storage backend
func (a *App) openStore(ctx context.Context, cfg config.StorageConfig) (kvstore.ClosableStore, error) {
	logger := logging.From(ctx)
	switch cfg.Backend {
	case config.SQLiteBackend:
		path := cfg.SQLite.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(a.dir, path)
		}
		logger.Info("Geotags stored in SQLite", zap.String("path", path))
		return sqlitekv.Open(path)
	case config.ValkeyBackend:
		logger.Info("Geotags stored in Valkey", zap.String("addr", cfg.Valkey.Addr))
		return valkeykv.New(cfg.Valkey.Addr, cfg.Valkey.Prefix)
	default:
		db, err := bolt.Open(filepath.Join(a.dir, dbName), 0600, &bolt.Options{Timeout: time.Second})
		if err != nil {
			return nil, fmt.Errorf("failed to open data store: %w", err)
		}
		a.db = db
		a.shutdownHandlers.Add(func(ctx context.Context, a *App) {
			a.db.Close()
			logging.From(ctx).Info("Closed data store")
		})
		logger.Info("Geotags stored in bolt", zap.String("path", db.Path()))
		return boltkv.NewStore(db)
	}
}

// Handler returns the HTTP surface with all middlewares applied
func (a *App) Handler() http.Handler {
	return rest.WithMiddleWares(a.router, "rest")
}

// Run serves until ctx is done, then shuts down gracefully and releases
// the stores
// requestContext keeps the values of ctx for requests but not its
// cancellation, in-flight requests are drained by Shutdown
func requestContext(ctx context.Context) func(net.Listener) context.Context {
	base := context.WithoutCancel(ctx)
	return func(net.Listener) context.Context { return base }
}

func (a *App) Run(ctx context.Context) error {
	logger, ctx := logging.SubFrom(ctx, "app")
	defer a.shutdownHandlers.Execute(ctx, a)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger, ctx := logging.SubFrom(gctx, "eventbus")
		a.bus.Dispatch(ctx)
		logger.Info("DONE")
		return nil
	})
	if a.announcer != nil {
		g.Go(func() error {
			logger, ctx := logging.SubFrom(gctx, "discovery")
			// discovery is optional, a failure does not stop the service
			if err := a.announcer.Run(ctx); err != nil {
				logger.Error("Discovery failed", zap.Error(err))
			}
			logger.Info("DONE")
			return nil
		})
	}

	server := http.Server{
		Addr:        a.addr,
		Handler:     a.Handler(),
		BaseContext: requestContext(ctx),
	}
	g.Go(func() error {
		logger, _ := logging.SubFrom(gctx, "http")
		logger.Info("Starting HTTP server...", zap.String("bindAddr", a.addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		logger.Info("DONE")
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Stopping...")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			logger.Error("Failed to shutdown HTTP server", zap.Error(err))
		}
		return nil
	})

	err := g.Wait()
	logger.Info("Terminated gracefully")
	return err
}
