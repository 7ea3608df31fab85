// Package server boots the Boutiq HTTP service: config, database, redis,
// storage, background workers, then the router with the full middleware
// stack.
package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aurelben/boutiq/app/jobs"
	"github.com/aurelben/boutiq/app/listeners"
	"github.com/aurelben/boutiq/app/routes"
	"github.com/aurelben/boutiq/config"
	"github.com/aurelben/boutiq/pkg/cache"
	"github.com/aurelben/boutiq/pkg/database"
	"github.com/aurelben/boutiq/pkg/logger"
	"github.com/aurelben/boutiq/pkg/metrics"
	"github.com/aurelben/boutiq/pkg/middleware"
	"github.com/aurelben/boutiq/pkg/queue"
	"github.com/aurelben/boutiq/pkg/reqid"
	"github.com/aurelben/boutiq/pkg/router"
	"github.com/aurelben/boutiq/pkg/session"
	"github.com/aurelben/boutiq/pkg/storage"
)

const (
	shutdownTimeout = 10 * time.Second
	queueWorkers    = 4
)

// Boot wires every subsystem without starting the listener. The CLI reuses
// it for commands that need a live database or queue.
func Boot() error {
	if err := config.Load(); err != nil {
		return err
	}

	if uri := config.Get("LOG_MONGO_URI", ""); uri != "" {
		db := config.Get("LOG_MONGO_DB", "boutiq")
		coll := config.Get("LOG_MONGO_COLLECTION", "logs")
		if err := logger.AttachMongo(uri, db, coll); err != nil {
			logger.Warn("mongo log sink unavailable", "error", err)
		}
	}

	if err := database.Connect(); err != nil {
		return err
	}
	storage.Connect()

	if err := cache.Connect(); err != nil {
		logger.Warn("redis unavailable, queue falls back to memory", "error", err)
	} else {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}
	queue.UseDB(database.DB)

	jobs.Register()
	listeners.Register()
	return nil
}

// Routes builds the full route table. Separate from Start so the CLI can
// print it without binding a port.
func Routes() *router.Router {
	r := router.New()

	r.Use(
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		session.Middleware(session.DefaultOptions()),
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(200, time.Minute),
	)

	r.Get("/metrics", "metrics", metrics.Handler())

	// Normalized product images served straight off the local disk.
	uploads := http.StripPrefix("/storage/",
		http.FileServer(http.Dir(config.StorageLocalRoot())))
	r.HandleFunc("/storage/*", uploads.ServeHTTP)

	routes.RegisterAPI(r)
	return r
}

// Start boots everything and serves until SIGINT/SIGTERM, then drains
// in-flight requests and queue workers.
func Start() error {
	if err := Boot(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	queue.StartWorkers(ctx, queueWorkers)

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           Routes().Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("boutiq listening", "addr", srv.Addr, "env", config.AppEnv())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
