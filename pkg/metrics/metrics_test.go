package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then collectors are registered under the default namespace", func() {
				So(manager, ShouldNotBeNil)
				manager.catalogMoments.Set(3)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() == "momentgrid_core_catalog_moments" {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_ns"),
				WithSubsystem("test_sub"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(true),
				WithRefreshInterval(5*time.Second),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the options are applied", func() {
				So(manager.namespace, ShouldEqual, "test_ns")
				So(manager.subsystem, ShouldEqual, "test_sub")
				So(manager.RefreshInterval(), ShouldEqual, 5*time.Second)
				So(manager.Enabled(), ShouldBeTrue)
				So(manager.histogramBuckets, ShouldResemble, []float64{0.1, 0.5, 1.0})
			})
		})

		Convey("When creating a disabled manager", func() {
			manager := NewManager(WithMetricsEnabled(false), WithRefreshInterval(-time.Second), WithPrometheusRegistry(prometheus.NewRegistry()))

			Convey("Then it reports disabled and keeps the default interval", func() {
				So(manager.Enabled(), ShouldBeFalse)
				So(manager.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global recorders", t, func() {
		Convey("When recording grid and cache activity", func() {
			before := testutil.ToFloat64(globalManager.gridGenerations.WithLabelValues("WNBA", "found"))
			RecordGridGeneration("WNBA", "found")
			RecordCacheHit("grid")
			RecordCacheMiss("grid")
			RecordGridFallback("team_team")
			RecordValidation("valid")
			UpdateGridBestScore("WNBA", 12)

			Convey("Then the counters move", func() {
				after := testutil.ToFloat64(globalManager.gridGenerations.WithLabelValues("WNBA", "found"))
				So(after-before, ShouldEqual, 1)
				So(testutil.ToFloat64(globalManager.gridBestScore.WithLabelValues("WNBA")), ShouldEqual, 12)
			})
		})

		Convey("When recording catalog activity", func() {
			So(func() {
				UpdateCatalogSize(10, 4, 3)
				RecordCatalogLoad("ok")
				RecordCatalogRejected("missing_team", 2)
				RecordCatalogLoadDuration(1.5)
				RecordGridSearchDuration(3)
				RecordGridValidCandidates(17)
				RecordGridDegraded()
				UpdateCacheSize("hint", 5)
				RecordHTTPRequest("grid", "GET", "200")
				RecordHTTPRequestDuration("grid", "GET", "200", 2)
				RecordErrorByComponent("store", "load_failed")
				RecordErrorByEndpoint("grid", "GET", "server_error")
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(8)
			}, ShouldNotPanic)
			So(testutil.ToFloat64(globalManager.catalogMoments), ShouldEqual, 10)
		})

		Convey("When recording is turned off", func() {
			SetEnabled(false)
			defer SetEnabled(true)
			before := testutil.ToFloat64(globalManager.validations.WithLabelValues("valid"))
			RecordValidation("valid")
			UpdateCatalogSize(99, 1, 1)

			Convey("Then the helpers drop observations", func() {
				So(Enabled(), ShouldBeFalse)
				So(testutil.ToFloat64(globalManager.validations.WithLabelValues("valid")), ShouldEqual, before)
				So(testutil.ToFloat64(globalManager.catalogMoments), ShouldNotEqual, 99)
			})
		})

		Convey("When the refresh interval is set", func() {
			prev := RefreshInterval()
			SetRefreshInterval(3 * time.Second)
			defer SetRefreshInterval(prev)
			So(RefreshInterval(), ShouldEqual, 3*time.Second)
		})

		Convey("When gathering the exported registry", func() {
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			names := make([]string, 0, len(families))
			for _, f := range families {
				names = append(names, f.GetName())
			}
			So(strings.Join(names, ","), ShouldContainSubstring, "momentgrid_core_")
		})
	})
}
