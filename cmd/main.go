package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/okian/momentgrid/internal/adapters/catalog"
	"github.com/okian/momentgrid/internal/adapters/http/api"
	"github.com/okian/momentgrid/internal/adapters/http/swagger"
	"github.com/okian/momentgrid/internal/adapters/scheduler"
	app "github.com/okian/momentgrid/internal/app"
	"github.com/okian/momentgrid/internal/config"
	"github.com/okian/momentgrid/pkg/logger"
	"github.com/okian/momentgrid/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 30 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	serviceMetricsInterval = 30 * time.Second
)

func main() {
	// A missing .env is normal outside development.
	envErr := godotenv.Load()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() { _ = logger.Sync() }()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		loggerInstance.Warn(ctx, "failed to read .env", logger.Error(envErr))
	}

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	metrics.SetEnabled(cfg.MetricsEnabled)
	metrics.SetRefreshInterval(cfg.MetricsRefreshInterval)

	opts, err := app.ConfigOptions(cfg, loggerInstance)
	if err != nil {
		os.Stderr.WriteString("failed to configure service: " + err.Error() + "\n")
		return
	}
	svc := app.New(opts...)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()
	if cfg.CatalogPath == "" {
		loggerInstance.Warn(ctx, "no catalog_path configured; grids are unavailable until a reload")
	}

	if cfg.WatchCatalog && cfg.CatalogPath != "" {
		watcher, err := startWatcher(ctx, cfg, svc, loggerInstance.Named("catalog-watcher"))
		if err != nil {
			loggerInstance.Error(ctx, "catalog watcher disabled", logger.Error(err))
		} else {
			defer func() { _ = watcher.Close() }()
		}
	}

	if cfg.PrewarmEnabled {
		prewarmer, err := startPrewarmer(ctx, cfg, svc, loggerInstance.Named("scheduler"))
		if err != nil {
			loggerInstance.Error(ctx, "grid pre-warm disabled", logger.Error(err))
		} else {
			defer func() { _ = prewarmer.Stop() }()
		}
	}

	if metrics.Enabled() {
		go startSystemMetricsUpdater(ctx)
		go startServiceMetricsUpdater(ctx, svc)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// newMux registers the docs and API routes.
func newMux(ctx context.Context, svc *app.Service) *http.ServeMux {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc).Register(ctx, mux)
	return mux
}

// startWatcher reloads the catalog whenever its file changes.
func startWatcher(ctx context.Context, cfg *config.Config, svc *app.Service, log logger.Logger) (*catalog.Watcher, error) {
	reload := func(ctx context.Context) error {
		report, err := svc.ReloadCatalog(ctx)
		if err != nil {
			return err
		}
		log.Info(ctx, "catalog reloaded", logger.String("version", report.Version), logger.Int("accepted", report.Accepted))
		return nil
	}
	w, err := catalog.NewWatcher(cfg.CatalogPath, catalog.DefaultDebounce, reload, log)
	if err != nil {
		return nil, err
	}
	if err := w.Start(ctx); err != nil {
		_ = w.Close()
		return nil, err
	}
	return w, nil
}

// startPrewarmer schedules daily grid generation.
func startPrewarmer(ctx context.Context, cfg *config.Config, svc *app.Service, log logger.Logger) (*scheduler.Prewarmer, error) {
	hour, minute, err := cfg.PrewarmClock()
	if err != nil {
		return nil, err
	}
	p, err := scheduler.New(cfg.Location(), hour, minute, svc.Prewarm, log)
	if err != nil {
		return nil, err
	}
	if err := p.Start(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// startSystemMetricsUpdater refreshes process gauges until ctx is done.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metrics.RefreshInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater refreshes catalog and cache gauges until ctx is done.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(max(serviceMetricsInterval, metrics.RefreshInterval()))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}

func updateServiceMetrics(svc *app.Service) {
	st := svc.Stats()
	if len(st.Leagues) > 0 {
		all := st.Leagues[0]
		metrics.UpdateCatalogSize(all.TotalMoments, all.UniquePlayers, all.Teams)
	}
	for _, c := range st.Caches {
		metrics.UpdateCacheSize(c.Name, c.Keys)
	}
}
