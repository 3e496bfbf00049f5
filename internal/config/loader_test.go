package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/momentgrid/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.SearchAttempts, convey.ShouldEqual, 200)
				convey.So(cfg.HintCacheTTL, convey.ShouldEqual, time.Hour)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("MOMENTGRID_ADDR", ":8080")
			_ = os.Setenv("MOMENTGRID_SEARCH_ATTEMPTS", "50")
			_ = os.Setenv("MOMENTGRID_GRID_CACHE_TTL", "2h")
			_ = os.Setenv("MOMENTGRID_SECONDARY_ROSTER", "Team One,Team Two")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.SearchAttempts, convey.ShouldEqual, 50)
				convey.So(cfg.GridCacheTTL, convey.ShouldEqual, 2*time.Hour)
				convey.So(cfg.SecondaryRoster, convey.ShouldResemble, []string{"Team One", "Team Two"})
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
catalog_path: "/data/moments.json"
search_attempts: 120
max_answers: 20
secondary_roster:
  - Seattle Storm
  - Chicago Sky
`
			tmpFile := createTempConfigFile(t, yamlContent)

			_ = os.Setenv("MOMENTGRID_CONFIG", tmpFile)
			_ = os.Setenv("MOMENTGRID_SEARCH_ATTEMPTS", "80")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.CatalogPath, convey.ShouldEqual, "/data/moments.json")
				convey.So(cfg.SearchAttempts, convey.ShouldEqual, 80)
				convey.So(cfg.MaxAnswers, convey.ShouldEqual, 20)
				convey.So(cfg.IdealAnswers, convey.ShouldEqual, 6)
				convey.So(cfg.SecondaryRoster, convey.ShouldResemble, []string{"Seattle Storm", "Chicago Sky"})
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(t, `invalid: yaml: content: [`)
			_ = os.Setenv("MOMENTGRID_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("MOMENTGRID_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("MOMENTGRID_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("MOMENTGRID_SEARCH_ATTEMPTS", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})

		convey.Convey("When loading config with out-of-order penalties", func() {
			_ = os.Setenv("MOMENTGRID_PENALTY_UNDER_MIN", "1")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})
}

func clearConfigEnvVars() {
	for _, key := range []string{
		"MOMENTGRID_CONFIG",
		"MOMENTGRID_ADDR",
		"MOMENTGRID_SEARCH_ATTEMPTS",
		"MOMENTGRID_GRID_CACHE_TTL",
		"MOMENTGRID_SECONDARY_ROSTER",
		"MOMENTGRID_PENALTY_UNDER_MIN",
	} {
		_ = os.Unsetenv(key)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
