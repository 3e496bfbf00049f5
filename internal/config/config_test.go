package config_test

import (
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/okian/momentgrid/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.CatalogFormat, convey.ShouldEqual, config.FormatJSON)
			convey.So(cfg.SearchAttempts, convey.ShouldEqual, 200)
			convey.So(cfg.SearchWorkers, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.MinAnswers, convey.ShouldEqual, 1)
			convey.So(cfg.IdealAnswers, convey.ShouldEqual, 6)
			convey.So(cfg.MaxAnswers, convey.ShouldEqual, 15)
			convey.So(cfg.PenaltyInfeasible, convey.ShouldEqual, 10000)
			convey.So(cfg.GridCacheTTL, convey.ShouldEqual, 24*time.Hour)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a default config", t, func() {
		cfg := config.New()

		convey.Convey("When the answer targets are out of order", func() {
			cfg.MinAnswers = 7
			err := cfg.Validate()

			convey.Convey("Then it is rejected as invalid", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the over-max penalty outweighs the under-min penalty", func() {
			cfg.PenaltyOverMax = 50
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the infeasible penalty does not dominate", func() {
			cfg.PenaltyInfeasible = cfg.PenaltyEmpty
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the catalog format is unknown", func() {
			cfg.CatalogFormat = "csv"
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When attempts is zero", func() {
			cfg.SearchAttempts = 0
			convey.So(cfg.Validate(), convey.ShouldNotBeNil)
		})

		convey.Convey("When prewarm is enabled with a bad clock", func() {
			cfg.PrewarmEnabled = true
			cfg.PrewarmAt = "25:99"
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When prewarm is enabled with a good clock", func() {
			cfg.PrewarmEnabled = true
			cfg.PrewarmAt = "03:30"
			hour, minute, err := cfg.PrewarmClock()

			convey.So(cfg.Validate(), convey.ShouldBeNil)
			convey.So(err, convey.ShouldBeNil)
			convey.So(hour, convey.ShouldEqual, 3)
			convey.So(minute, convey.ShouldEqual, 30)
		})

		convey.Convey("When the metrics refresh interval is not positive", func() {
			convey.So(cfg.MetricsEnabled, convey.ShouldBeTrue)
			cfg.MetricsRefreshInterval = 0
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the timezone is unknown", func() {
			cfg.Timezone = "Mars/Olympus"
			convey.So(cfg.Validate(), convey.ShouldNotBeNil)
			convey.So(cfg.Location(), convey.ShouldEqual, time.UTC)
		})
	})
}
