// Package server wires the gophdrive daemon together: storage root, sandbox,
// write locks, the gRPC file service and the optional admin HTTP endpoint,
// upload journal and object storage mirror.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/gophdrive/internal/dirlist"
	"github.com/dmitrijs2005/gophdrive/internal/filex"
	"github.com/dmitrijs2005/gophdrive/internal/logging"
	"github.com/dmitrijs2005/gophdrive/internal/sandbox"
	"github.com/dmitrijs2005/gophdrive/internal/server/config"
	"github.com/dmitrijs2005/gophdrive/internal/server/journal"
	"github.com/dmitrijs2005/gophdrive/internal/server/locks"
	"github.com/dmitrijs2005/gophdrive/internal/server/metrics"
	"github.com/dmitrijs2005/gophdrive/internal/server/mirror"
	"github.com/dmitrijs2005/gophdrive/internal/server/upload"

	gs "github.com/dmitrijs2005/gophdrive/internal/server/grpc"
)

// initTimeout bounds connecting to the journal database and the object store.
const initTimeout = 10 * time.Second

// listOptions configure remote listings. Uploads in progress stay invisible
// until they are renamed into place.
var listOptions = dirlist.Options{SkipStaging: true}

type App struct {
	config     *config.Config
	logger     logging.Logger
	guard      *sandbox.Guard
	locks      *locks.Coordinator
	grpcServer *gs.GRPCServer
	journal    *journal.Journal
	mirror     *mirror.Mirror
}

func NewApp(c *config.Config) (*App, error) {

	logger, err := logging.New(os.Stdout, c.LogFormat, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	root, err := filex.EnsureDir(c.RootDir)
	if err != nil {
		return nil, fmt.Errorf("storage root error: %w", err)
	}

	guard, err := sandbox.New(root)
	if err != nil {
		return nil, fmt.Errorf("sandbox init error: %w", err)
	}

	app := &App{config: c, logger: logger, guard: guard, locks: locks.New()}

	// nothing is uploading yet, so every staging file is a leftover
	if removed, err := filex.RemoveStaging(guard.Root()); err != nil {
		logger.Warn(context.Background(), "staging cleanup incomplete", "error", err)
	} else if len(removed) > 0 {
		logger.Info(context.Background(), "removed stale staging files", "count", len(removed))
	}

	ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()

	var uploadOpts []upload.Option

	if c.DatabaseDSN != "" {
		j, err := journal.Open(ctx, c.DatabaseDSN, logger)
		if err != nil {
			return nil, fmt.Errorf("journal init error: %w", err)
		}
		app.journal = j
		uploadOpts = append(uploadOpts, upload.WithObserver(j))
	}

	if c.S3Bucket != "" {
		opts := mirror.Options{
			Bucket:       c.S3Bucket,
			Prefix:       c.S3Prefix,
			Region:       c.S3Region,
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
			BaseEndpoint: c.S3BaseEndpoint,
		}
		client, err := mirror.NewS3Client(ctx, opts)
		if err != nil {
			app.closeJournal()
			return nil, fmt.Errorf("mirror init error: %w", err)
		}
		app.mirror = mirror.New(client, opts, logger)
		uploadOpts = append(uploadOpts, upload.WithObserver(app.mirror))
	}

	lister := dirlist.New(guard, listOptions, logger.With("module", "dirlist"))
	uploads := upload.NewService(guard, app.locks, logger, uploadOpts...)

	s, err := gs.NewGRPCServer(c.EndpointAddrGRPC, logger, lister, uploads, c.ShutdownTimeout)
	if err != nil {
		app.closeJournal()
		return nil, fmt.Errorf("grpc server init error: %w", err)
	}
	app.grpcServer = s

	return app, nil
}

func (app *App) closeJournal() {
	if app.journal == nil {
		return
	}
	if err := app.journal.Close(); err != nil {
		app.logger.Warn(context.Background(), "close journal", "error", err)
	}
}

// adminHandler serves /metrics and, with a journal, /uploads.
func (app *App) adminHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	if app.journal != nil {
		mux.Handle("/uploads", journal.Handler(app.journal))
	}
	return mux
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.grpcServer.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startMetricsServer(ctx context.Context, cancelFunc context.CancelFunc) {
	metricsServer := &http.Server{
		Addr:              app.config.MetricsAddr,
		Handler:           app.adminHandler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	app.logger.Info(ctx, "admin server listening", "addr", app.config.MetricsAddr)
	if err := metricsServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, "admin server error", "error", err)
		cancelFunc()
	}
}

// Run serves until ctx is cancelled, a termination signal arrives or one of
// the servers fails.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	if s, ok := app.logger.(interface{ Sync() error }); ok {
		defer func() { _ = s.Sync() }()
	}

	app.logger.Info(ctx, "Starting app...", "root", app.guard.Root())

	app.initSignalHandler(ctx, cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	if app.config.MetricsAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startMetricsServer(ctx, cancelFunc)
		}()
	}

	if app.mirror != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.mirror.Run(ctx)
		}()
	}

	wg.Wait()

	app.closeJournal()

	app.logger.Info(ctx, "App stopped", "locks_held", app.locks.Len())
}
