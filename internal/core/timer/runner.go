package timer

import (
	"context"
	"time"

	"github.com/zeusync/interactions/internal/core/observability/log"
)

// Runner advances a Wheel from wall-clock time on a fixed tick. All callbacks
// and tick hooks run on the Runner goroutine, which is the single logical
// thread of the interaction core.
type Runner struct {
	wheel   *Wheel
	tick    time.Duration
	maxStep time.Duration
	hooks   []func(now time.Duration)
	logger  log.Log
}

func NewRunner(wheel *Wheel, tick time.Duration, logger log.Log) *Runner {
	if tick <= 0 {
		tick = 16 * time.Millisecond
	}
	if logger == nil {
		logger = log.NewNop()
	}
	return &Runner{
		wheel:   wheel,
		tick:    tick,
		maxStep: 4 * tick,
		logger:  logger,
	}
}

// OnTick registers fn to run after every wheel advance. Must be called before Run.
func (r *Runner) OnTick(fn func(now time.Duration)) {
	r.hooks = append(r.hooks, fn)
}

// Run blocks until ctx is done. A stalled process does not replay the missed
// time in one burst: a single step never exceeds four ticks.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.tick)
	defer ticker.Stop()

	r.logger.Debug("timer runner started", log.Duration("tick", r.tick))
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			r.logger.Debug("timer runner stopped", log.Duration("now", r.wheel.Now()))
			return nil
		case at := <-ticker.C:
			step := at.Sub(last)
			last = at
			if step > r.maxStep {
				r.logger.Warn("timer runner fell behind", log.Duration("step", step))
				step = r.maxStep
			}
			r.wheel.Advance(step)
			now := r.wheel.Now()
			for _, hook := range r.hooks {
				hook(now)
			}
		}
	}
}
