package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func TestTTLCache(t *testing.T) {
	Convey("Given a TTL cache on a fake clock", t, func() {
		ctx := context.Background()
		clock := &fakeClock{now: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)}
		c := NewTTL[string]("test", WithClock(clock.Now), WithSweepInterval(0), WithDefaultTTL(time.Minute))
		defer func() { _ = c.Close() }()

		Convey("When an entry is set", func() {
			c.Set(ctx, "grid-2024-01-15-NBA", "g1", time.Hour)

			Convey("Then it is served until it expires", func() {
				v, ok := c.Get(ctx, "grid-2024-01-15-NBA")
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, "g1")

				clock.Advance(time.Hour)
				_, ok = c.Get(ctx, "grid-2024-01-15-NBA")
				So(ok, ShouldBeFalse)
			})

			Convey("Then stats count hits and misses", func() {
				c.Get(ctx, "grid-2024-01-15-NBA")
				c.Get(ctx, "missing")
				st := c.Stats()
				So(st.Keys, ShouldEqual, 1)
				So(st.Hits, ShouldEqual, 1)
				So(st.Misses, ShouldEqual, 1)
				So(st.HitRate, ShouldEqual, 0.5)
			})

			Convey("Then clear drops entries and counters", func() {
				c.Get(ctx, "grid-2024-01-15-NBA")
				c.Clear(ctx)
				So(c.Stats(), ShouldResemble, Stats{Name: "test"})
			})

			Convey("Then delete removes the key", func() {
				c.Delete(ctx, "grid-2024-01-15-NBA")
				_, ok := c.Get(ctx, "grid-2024-01-15-NBA")
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When ttl is not positive", func() {
			c.Set(ctx, "k", "v", 0)
			clock.Advance(59 * time.Second)
			_, ok := c.Get(ctx, "k")
			So(ok, ShouldBeTrue)
			clock.Advance(time.Second)
			_, ok = c.Get(ctx, "k")
			So(ok, ShouldBeFalse)
		})

		Convey("When sweeping", func() {
			c.Set(ctx, "short", "v", time.Second)
			c.Set(ctx, "long", "v", time.Hour)
			clock.Advance(time.Minute)

			So(c.Sweep(), ShouldEqual, 1)
			So(c.Stats().Keys, ShouldEqual, 1)
		})

		Convey("When loading concurrently", func() {
			var calls atomic.Int32
			release := make(chan struct{})
			load := func(context.Context) (string, error) {
				calls.Add(1)
				<-release
				return "loaded", nil
			}

			var wg sync.WaitGroup
			results := make([]string, 8)
			for i := range results {
				wg.Add(1)
				go func() {
					defer wg.Done()
					v, _ := c.GetOrLoad(ctx, "hint", time.Hour, load)
					results[i] = v
				}()
			}
			time.Sleep(20 * time.Millisecond)
			close(release)
			wg.Wait()

			Convey("Then the loader runs once and every caller sees its value", func() {
				So(calls.Load(), ShouldEqual, 1)
				for _, v := range results {
					So(v, ShouldEqual, "loaded")
				}
				v, ok := c.Get(ctx, "hint")
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, "loaded")
			})
		})

		Convey("When the cache is cleared while a load is in flight", func() {
			started := make(chan struct{})
			release := make(chan struct{})
			done := make(chan string, 1)
			go func() {
				v, _ := c.GetOrLoad(ctx, "grid", time.Hour, func(context.Context) (string, error) {
					close(started)
					<-release
					return "old-catalog", nil
				})
				done <- v
			}()
			<-started
			c.Clear(ctx)

			fresh, err := c.GetOrLoad(ctx, "grid", time.Hour, func(context.Context) (string, error) {
				return "new-catalog", nil
			})
			close(release)
			first := <-done

			Convey("Then the stale result is not stored", func() {
				So(err, ShouldBeNil)
				So(fresh, ShouldEqual, "new-catalog")
				So(first, ShouldEqual, "old-catalog")
				v, ok := c.Get(ctx, "grid")
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, "new-catalog")
			})
		})

		Convey("When the first caller gives up during a shared load", func() {
			started := make(chan struct{})
			release := make(chan struct{})
			var loadErr atomic.Value
			var calls atomic.Int32
			load := func(lctx context.Context) (string, error) {
				calls.Add(1)
				close(started)
				<-release
				if err := lctx.Err(); err != nil {
					loadErr.Store(err)
				}
				return "shared", nil
			}

			cctx, cancel := context.WithCancel(ctx)
			firstErr := make(chan error, 1)
			go func() {
				_, err := c.GetOrLoad(cctx, "grid", time.Hour, load)
				firstErr <- err
			}()
			<-started

			second := make(chan string, 1)
			go func() {
				v, _ := c.GetOrLoad(ctx, "grid", time.Hour, load)
				second <- v
			}()
			cancel()
			err := <-firstErr
			close(release)

			Convey("Then only that caller fails and the others get the value", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
				So(<-second, ShouldEqual, "shared")
				So(loadErr.Load(), ShouldBeNil)
				So(calls.Load(), ShouldEqual, 1)
			})
		})

		Convey("When the loader fails", func() {
			boom := errors.New("boom")
			_, err := c.GetOrLoad(ctx, "k", time.Hour, func(context.Context) (string, error) { return "", boom })

			Convey("Then the error is returned and nothing is cached", func() {
				So(errors.Is(err, boom), ShouldBeTrue)
				_, ok := c.Get(ctx, "k")
				So(ok, ShouldBeFalse)
			})
		})
	})

	Convey("Given a bounded cache", t, func() {
		ctx := context.Background()
		clock := &fakeClock{now: time.Unix(0, 0)}
		c := NewTTL[int]("bounded", WithClock(clock.Now), WithSweepInterval(0), WithMaxEntries(2))
		defer func() { _ = c.Close() }()

		c.Set(ctx, "a", 1, time.Minute)
		c.Set(ctx, "b", 2, time.Hour)
		c.Set(ctx, "c", 3, time.Hour)

		Convey("Then the entry closest to expiry is evicted", func() {
			_, ok := c.Get(ctx, "a")
			So(ok, ShouldBeFalse)
			So(c.Stats().Keys, ShouldEqual, 2)
		})
	})

	Convey("Given a cache with a background sweeper", t, func() {
		c := NewTTL[int]("sweeper", WithSweepInterval(5*time.Millisecond))

		Convey("Then close stops it", func() {
			So(c.Close(), ShouldBeNil)
			So(c.Close(), ShouldBeNil)
		})
	})
}

func TestNoopCache(t *testing.T) {
	Convey("Given a no-op cache", t, func() {
		ctx := context.Background()
		c := NewNoop[int]("noop")
		c.Set(ctx, "k", 1, time.Hour)

		Convey("Then nothing is stored and loaders always run", func() {
			_, ok := c.Get(ctx, "k")
			So(ok, ShouldBeFalse)
			calls := 0
			for i := 0; i < 3; i++ {
				v, err := c.GetOrLoad(ctx, "k", time.Hour, func(context.Context) (int, error) {
					calls++
					return 7, nil
				})
				So(err, ShouldBeNil)
				So(v, ShouldEqual, 7)
			}
			So(calls, ShouldEqual, 3)
			So(c.Stats().Keys, ShouldEqual, 0)
			So(c.Close(), ShouldBeNil)
		})
	})
}
