package interaction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zeusync/interactions/internal/core/events/bus"
	"github.com/zeusync/interactions/internal/core/models"
	"github.com/zeusync/interactions/internal/core/timer"
)

type world struct {
	t     *testing.T
	wheel *timer.Wheel
	reg   *Registry
}

func newWorld(t *testing.T) *world {
	t.Helper()
	return &world{t: t, wheel: timer.NewWheel(), reg: NewRegistry(4)}
}

func (w *world) interactable(cfg Config, opts ...Option) *Interactable {
	w.t.Helper()
	opts = append([]Option{WithScheduler(w.wheel)}, opts...)
	it, err := NewInteractable(w.reg, models.NewActor("chest"), cfg, opts...)
	require.NoError(w.t, err)
	require.NoError(w.t, it.Activate())
	return it
}

func (w *world) interactor(typ InteractorType) (*Interactor, *models.Actor) {
	w.t.Helper()
	owner := models.NewActor("player")
	ir, err := NewInteractor(w.reg, owner, typ, WithClock(w.wheel))
	require.NoError(w.t, err)
	ir.Activate()
	return ir, owner
}

func profile(kind Kind, period time.Duration) Config {
	c := DefaultConfig()
	c.Kind = kind
	c.Period = period
	return c
}

// recorder collects events of the given types in delivery order.
type recorder struct {
	events []bus.Event
}

func record(t *testing.T, b bus.EventBus, types ...string) *recorder {
	t.Helper()
	r := &recorder{}
	for _, typ := range types {
		_, err := b.Subscribe(typ, func(e bus.Event) error {
			r.events = append(r.events, e)
			return nil
		})
		require.NoError(t, err)
	}
	return r
}

func (r *recorder) types() []string {
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type())
	}
	return out
}

func (r *recorder) count(typ string) int {
	n := 0
	for _, e := range r.events {
		if e.Type() == typ {
			n++
		}
	}
	return n
}

func (r *recorder) last(typ string) (bus.Event, bool) {
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Type() == typ {
			return r.events[i], true
		}
	}
	return nil, false
}

var interactionEvents = []string{
	EventInteractionStarted,
	EventInteractionStopped,
	EventInteractionCompleted,
	EventInteractionFailed,
	EventInteractionCanceled,
}

type fakePresenter struct {
	states      []State
	progress    float64
	visible     bool
	highlighted bool
}

func (p *fakePresenter) SetState(s State)               { p.states = append(p.states, s) }
func (p *fakePresenter) SetRemainingProgress(v float64) { p.progress = v }
func (p *fakePresenter) Show()                          { p.visible = true }
func (p *fakePresenter) Hide()                          { p.visible = false }
func (p *fakePresenter) SetHighlight(on bool)           { p.highlighted = on }

// manualClock is a world clock moved by hand, independent of the scheduler.
type manualClock struct{ now time.Duration }

func (c *manualClock) Now() time.Duration { return c.now }

var linkEvents = []string{EventKeyPressed, EventKeyReleased, EventTypeChanged, EventInteractableLost}

func subscriberCount(ir *Interactor) int {
	n := 0
	for _, typ := range linkEvents {
		n += ir.Events().Subscribers(typ)
	}
	return n
}
