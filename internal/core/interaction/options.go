package interaction

import (
	"github.com/zeusync/interactions/internal/core/events/bus"
	"github.com/zeusync/interactions/internal/core/models"
	"github.com/zeusync/interactions/internal/core/observability/log"
	"github.com/zeusync/interactions/internal/core/timer"
)

type options struct {
	logger    log.Log
	clock     models.Clock
	scheduler timer.Scheduler
	presenter Presenter
	adapter   CollisionAdapter
	channel   Channel
	strategy  Strategy
	observers []bus.Observer
}

// Option configures an Interactor or an Interactable. Options that do not
// apply to the component being built are ignored.
type Option func(*options)

func WithLogger(l log.Log) Option {
	return func(o *options) { o.logger = l }
}

// WithClock sets the world time source. Without it the scheduler's clock is used.
func WithClock(c models.Clock) Option {
	return func(o *options) { o.clock = c }
}

func WithScheduler(s timer.Scheduler) Option {
	return func(o *options) { o.scheduler = s }
}

func WithPresenter(p Presenter) Option {
	return func(o *options) { o.presenter = p }
}

func WithCollisionAdapter(a CollisionAdapter) Option {
	return func(o *options) { o.adapter = a }
}

// WithChannel sets the collision channel an interactor binds its volumes to.
func WithChannel(ch Channel) Option {
	return func(o *options) { o.channel = ch }
}

// WithStrategy replaces the strategy derived from Config.Kind.
func WithStrategy(s Strategy) Option {
	return func(o *options) { o.strategy = s }
}

// WithObserver attaches a bus observer to the component's event bus.
func WithObserver(obs bus.Observer) Option {
	return func(o *options) { o.observers = append(o.observers, obs) }
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.NewNop()
	}
	if o.clock == nil && o.scheduler != nil {
		o.clock = o.scheduler
	}
	if o.presenter == nil {
		o.presenter = nopPresenter{}
	}
	if o.adapter == nil {
		o.adapter = OverlapChannel
	}
	if o.channel == "" {
		o.channel = DefaultChannel
	}
	return o
}

func newBus(observers []bus.Observer) bus.EventBus {
	b := bus.New()
	for _, obs := range observers {
		b.AddObserver(obs)
	}
	return b
}
