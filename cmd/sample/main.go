// Command sample serves a small items API built with binder.
//
// Run:
//
//	go run ./cmd/sample
//
// Print the registered routes and exit:
//
//	go run ./cmd/sample -routes
//	go run ./cmd/sample -routes -yaml
//
// Configuration comes from SAMPLE_* environment variables or a .env file
// (see config.go). Then explore:
//
//	GET  http://localhost:8000/routes                       route dump
//	GET  http://localhost:8000/metrics                      Prometheus metrics
//	GET  http://localhost:8000/users/me                     literal beats placeholder
//	GET  http://localhost:8000/files/home/johndoe/notes.txt  rest-of-path capture
//	GET  http://localhost:8000/items/foo                    422: item_id is not an int
//	GET  http://localhost:8000/items_6/?q=foo&q=bar         repeated query values
//	GET  http://localhost:8000/items_8/99?q=x               422: ge=100
//	POST http://localhost:8000/offers/                      nested records
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bjaus/binder"
)

func main() {
	routesFlag := flag.Bool("routes", false, "Print the registered routes and exit")
	yamlFlag := flag.Bool("yaml", false, "Print routes as YAML (with -routes)")
	flag.Parse()

	if err := run(*routesFlag, *yamlFlag, os.Stdout); err != nil {
		slog.Error("sample failed", "err", err)
		os.Exit(1)
	}
}

func run(printRoutes, asYAML bool, stdout io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := cfg.logger()
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	reg := prometheus.NewRegistry()
	r := newRouter(cfg, logger, reg)

	if printRoutes {
		if asYAML {
			return r.WriteRoutesYAML(stdout)
		}
		return r.WriteRoutes(stdout)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(r, reg, cfg.Metrics),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	logger.Info("starting server", "addr", cfg.Addr, "routes", "http://localhost"+cfg.Addr+"/routes")

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}

	logger.Info("server stopped")
	return nil
}

func newRouter(cfg config, logger *slog.Logger, reg *prometheus.Registry) *binder.Router {
	opts := []binder.RouterOption{
		binder.WithTitle("Sample Items API"),
		binder.WithVersion("1.0.0"),
		binder.WithLogger(logger),
		binder.WithBodyLimit(cfg.BodyLimit),
	}
	if cfg.Metrics {
		opts = append(opts, binder.WithMetrics(binder.NewMetrics(reg, "sample")))
	}

	r := binder.New(opts...)
	r.Use(
		binder.RequestID(),
		binder.Logger(logger),
		binder.Recovery(logger),
	)
	if cfg.RateLimit > 0 {
		r.Use(binder.RateLimit(binder.RateLimitConfig{
			Rate:  cfg.RateLimit,
			Burst: cfg.RateBurst,
		}))
	}

	registerItems(r)
	r.ServeRoutes("/routes")
	return r
}

// newMux puts the metrics endpoint next to the router.
func newMux(r *binder.Router, reg *prometheus.Registry, withMetrics bool) http.Handler {
	mux := http.NewServeMux()
	if withMetrics {
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}
	mux.Handle("/", r)
	return mux
}
