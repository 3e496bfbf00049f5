package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	app "github.com/okian/momentgrid/internal/app"
	"github.com/okian/momentgrid/internal/config"
	"github.com/okian/momentgrid/internal/testcatalog"
	"github.com/okian/momentgrid/pkg/logger"
)

func TestMainConfiguration(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When configuration comes from the environment", func() {
			t.Setenv("MOMENTGRID_ADDR", ":8080")
			t.Setenv("MOMENTGRID_SEARCH_ATTEMPTS", "50")

			cfg, err := config.Load(context.Background())
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.SearchAttempts, convey.ShouldEqual, 50)

			convey.Convey("Then the service can be built from it", func() {
				opts, err := app.ConfigOptions(cfg, nil)
				convey.So(err, convey.ShouldBeNil)
				convey.So(app.New(opts...), convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When the catalog format is unknown", func() {
			t.Setenv("MOMENTGRID_CATALOG_FORMAT", "csv")
			cfg, err := config.Load(context.Background())
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})
	})
}

func TestMainWiring(t *testing.T) {
	convey.Convey("Given a configured service over a catalog file", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		dir := t.TempDir()
		path := filepath.Join(dir, "moments.json")
		records, err := testcatalog.Generate(ctx, testcatalog.DefaultConfig())
		convey.So(err, convey.ShouldBeNil)
		convey.So(testcatalog.SaveJSON(path, records), convey.ShouldBeNil)

		cfg := config.New()
		cfg.CatalogPath = path
		cfg.SearchAttempts = 40
		cfg.PrewarmEnabled = true
		opts, err := app.ConfigOptions(cfg, nil)
		convey.So(err, convey.ShouldBeNil)
		svc := app.New(opts...)
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		convey.Convey("Then the mux serves docs and the API", func() {
			mux := newMux(ctx, svc)
			for _, target := range []string{"/openapi.yaml", "/api/health", "/api/grid/daily?league=NBA", "/healthz"} {
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			}
		})

		convey.Convey("Then the watcher and pre-warmer start", func() {
			w, err := startWatcher(ctx, cfg, svc, logger.Nop())
			convey.So(err, convey.ShouldBeNil)
			defer func() { _ = w.Close() }()

			p, err := startPrewarmer(ctx, cfg, svc, nil)
			convey.So(err, convey.ShouldBeNil)
			defer func() { _ = p.Stop() }()
			convey.So(p.NextRun().IsZero(), convey.ShouldBeFalse)
		})

		convey.Convey("Then the metrics updaters run until cancelled", func() {
			convey.So(func() {
				updateSystemMetrics()
				updateServiceMetrics(svc)
			}, convey.ShouldNotPanic)

			short, done := context.WithTimeout(ctx, 50*time.Millisecond)
			defer done()
			convey.So(func() { startSystemMetricsUpdater(short) }, convey.ShouldNotPanic)
		})

	})
}
