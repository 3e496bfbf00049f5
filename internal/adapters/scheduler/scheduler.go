// Package scheduler runs the daily grid pre-warm job.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/okian/momentgrid/pkg/logger"
)

// ErrBadClock is returned for an out-of-range pre-warm time.
var ErrBadClock = errors.New("invalid pre-warm time")

// WarmFunc generates and caches the grids for day.
type WarmFunc func(ctx context.Context, day time.Time) error

// Prewarmer triggers WarmFunc once a day at a fixed wall-clock time.
type Prewarmer struct {
	s      gocron.Scheduler
	warm   WarmFunc
	log    logger.Logger
	loc    *time.Location
	hour   uint
	minute uint

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	job    gocron.Job
}

// New creates a Prewarmer firing at hour:minute in loc. A nil loc is UTC.
func New(loc *time.Location, hour, minute uint, warm WarmFunc, log logger.Logger) (*Prewarmer, error) {
	if warm == nil {
		return nil, fmt.Errorf("scheduler: nil warm func")
	}
	if hour > 23 || minute > 59 {
		return nil, fmt.Errorf("%w: %02d:%02d", ErrBadClock, hour, minute)
	}
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = logger.Nop()
	}
	s, err := gocron.NewScheduler(gocron.WithLocation(loc))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	return &Prewarmer{s: s, warm: warm, log: log, loc: loc, hour: hour, minute: minute}, nil
}

// Start registers the daily job and starts the scheduler. The job runs
// under ctx until Stop is called.
func (p *Prewarmer) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.job != nil {
		return fmt.Errorf("scheduler: already started")
	}
	p.ctx, p.cancel = context.WithCancel(ctx)

	job, err := p.s.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(p.hour, p.minute, 0))),
		gocron.NewTask(p.run),
		gocron.WithName("grid-prewarm"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		p.cancel()
		return fmt.Errorf("failed to create prewarm job: %w", err)
	}
	p.job = job
	p.s.Start()

	next, _ := job.NextRun()
	p.log.Info(ctx, "grid pre-warm scheduled",
		logger.String("at", fmt.Sprintf("%02d:%02d", p.hour, p.minute)),
		logger.String("timezone", p.loc.String()),
		logger.String("next_run", next.Format(time.RFC3339)))
	return nil
}

// NextRun reports when the job fires next. It is zero before Start.
func (p *Prewarmer) NextRun() time.Time {
	p.mu.Lock()
	job := p.job
	p.mu.Unlock()
	if job == nil {
		return time.Time{}
	}
	next, err := job.NextRun()
	if err != nil {
		return time.Time{}
	}
	return next
}

// RunNow performs one pre-warm synchronously.
func (p *Prewarmer) RunNow(ctx context.Context) error {
	return p.warmDay(ctx, time.Now().In(p.loc))
}

// Stop shuts the scheduler down and waits for a running job.
func (p *Prewarmer) Stop() error {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.mu.Unlock()
	return p.s.Shutdown()
}

func (p *Prewarmer) run() {
	p.mu.Lock()
	ctx := p.ctx
	p.mu.Unlock()
	if ctx == nil || ctx.Err() != nil {
		return
	}
	if err := p.warmDay(ctx, time.Now().In(p.loc)); err != nil {
		p.log.Error(ctx, "grid pre-warm failed", logger.Error(err))
	}
}

func (p *Prewarmer) warmDay(ctx context.Context, day time.Time) error {
	start := time.Now()
	if err := p.warm(ctx, day); err != nil {
		return err
	}
	p.log.Info(ctx, "grids pre-warmed",
		logger.String("date", day.Format("2006-01-02")),
		logger.Duration("took", time.Since(start)))
	return nil
}
