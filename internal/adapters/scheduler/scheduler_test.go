package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestPrewarmer(t *testing.T) {
	Convey("Given a pre-warmer", t, func() {
		var days []time.Time
		warm := func(_ context.Context, day time.Time) error {
			days = append(days, day)
			return nil
		}

		Convey("When the clock is out of range", func() {
			_, err := New(time.UTC, 24, 0, warm, nil)
			So(errors.Is(err, ErrBadClock), ShouldBeTrue)
			_, err = New(time.UTC, 0, 60, warm, nil)
			So(errors.Is(err, ErrBadClock), ShouldBeTrue)
		})

		Convey("When the warm func is nil", func() {
			_, err := New(time.UTC, 0, 5, nil, nil)
			So(err, ShouldNotBeNil)
		})

		Convey("When it is started", func() {
			loc, err := time.LoadLocation("America/New_York")
			So(err, ShouldBeNil)
			p, err := New(loc, 0, 5, warm, nil)
			So(err, ShouldBeNil)
			So(p.NextRun().IsZero(), ShouldBeTrue)
			So(p.Start(context.Background()), ShouldBeNil)
			defer func() { _ = p.Stop() }()

			Convey("Then the next run is the coming 00:05 local time", func() {
				next := p.NextRun().In(loc)
				So(next.IsZero(), ShouldBeFalse)
				So(next.Hour(), ShouldEqual, 0)
				So(next.Minute(), ShouldEqual, 5)
				So(next.After(time.Now()), ShouldBeTrue)
				So(next.Sub(time.Now()), ShouldBeLessThanOrEqualTo, 25*time.Hour)
			})

			Convey("Then a second start fails", func() {
				So(p.Start(context.Background()), ShouldNotBeNil)
			})
		})

		Convey("When run on demand", func() {
			p, err := New(nil, 0, 5, warm, nil)
			So(err, ShouldBeNil)
			So(p.RunNow(context.Background()), ShouldBeNil)
			So(days, ShouldHaveLength, 1)
			So(days[0].Location(), ShouldEqual, time.UTC)
		})

		Convey("When the warm func fails", func() {
			p, err := New(nil, 0, 5, func(context.Context, time.Time) error { return errors.New("boom") }, nil)
			So(err, ShouldBeNil)
			So(p.RunNow(context.Background()), ShouldNotBeNil)
		})
	})
}
