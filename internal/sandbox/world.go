// Package sandbox runs interaction profiles headless: one passive and one
// active interactor play a scripted scenario against one interactable per
// profile on a simulated clock.
package sandbox

import (
	"context"
	"fmt"
	"time"

	"github.com/zeusync/interactions/internal/core/events/bus"
	"github.com/zeusync/interactions/internal/core/interaction"
	"github.com/zeusync/interactions/internal/core/models"
	"github.com/zeusync/interactions/internal/core/observability/log"
	"github.com/zeusync/interactions/internal/core/timer"
	"github.com/zeusync/interactions/internal/injector"
	"github.com/zeusync/interactions/pkg/sequence"
)

type World struct {
	*injector.World

	Passive      *interaction.Interactor
	Active       *interaction.Interactor
	passiveOwner *models.Actor

	interactables map[string]*interaction.Interactable
	volumes       map[string]*interaction.Shape
	order         []string
}

// Build creates the interactors and one activated interactable per profile.
// Observers are attached to every component bus.
func Build(base *injector.World, profiles []interaction.Config, observers ...bus.Observer) (*World, error) {
	observers = append([]bus.Observer{eventLog{logger: base.Logger.Named("events")}}, observers...)
	opts := []interaction.Option{
		interaction.WithScheduler(base.Wheel),
		interaction.WithLogger(base.Logger),
	}
	for _, obs := range observers {
		opts = append(opts, interaction.WithObserver(obs))
	}

	w := &World{
		World:         base,
		passiveOwner:  models.NewActor("walker"),
		interactables: make(map[string]*interaction.Interactable),
		volumes:       make(map[string]*interaction.Shape),
	}

	var err error
	if w.Passive, err = interaction.NewInteractor(base.Registry, w.passiveOwner, interaction.InteractorPassive, opts...); err != nil {
		return nil, err
	}
	w.Passive.AddCollisionComponent(interaction.NewShape("walker-capsule"))
	w.Passive.Activate()

	if w.Active, err = interaction.NewInteractor(base.Registry, models.NewActor("pointer"), interaction.InteractorActive, opts...); err != nil {
		return nil, err
	}
	w.Active.Activate()

	for _, p := range profiles {
		if _, dup := w.interactables[p.Name]; dup {
			return nil, fmt.Errorf("duplicate profile name %q", p.Name)
		}
		it, err := interaction.NewInteractable(base.Registry, models.NewActor(p.Name), p, opts...)
		if err != nil {
			return nil, err
		}
		shape := interaction.NewShape(p.Name + "-volume")
		it.AddCollisionComponent(shape)
		if err := it.Activate(); err != nil {
			return nil, fmt.Errorf("activate %q: %w", p.Name, err)
		}
		w.interactables[p.Name] = it
		w.volumes[p.Name] = shape
		w.order = append(w.order, p.Name)
	}
	return w, nil
}

func (w *World) Interactable(name string) (*interaction.Interactable, bool) {
	it, ok := w.interactables[name]
	return it, ok
}

// Snapshots returns the state of every interactable in profile order.
func (w *World) Snapshots() []interaction.Snapshot {
	out := make([]interaction.Snapshot, 0, len(w.order))
	for _, name := range w.order {
		out = append(out, w.interactables[name].Snapshot())
	}
	return out
}

// Summary counts interactables per state.
func (w *World) Summary() map[interaction.State]int {
	return sequence.CountBy(sequence.From(w.Snapshots()), func(s interaction.Snapshot) interaction.State {
		return s.State
	})
}

// Pending lists the names of interactables that have not finished yet.
func (w *World) Pending() []string {
	open := sequence.From(w.Snapshots()).Filter(func(s interaction.Snapshot) bool {
		return s.State != interaction.StateFinished
	})
	return sequence.ToArray(open, func(s interaction.Snapshot) string { return s.Name })
}

// Tick refreshes progress on every interactable.
func (w *World) Tick(time.Duration) {
	for _, name := range w.order {
		w.interactables[name].Tick()
	}
}

// Apply performs a single step immediately.
func (w *World) Apply(step Step) error {
	actor := w.Passive
	if step.Actor == "active" {
		actor = w.Active
	}

	switch step.Action {
	case ActionPress:
		actor.PressKey()
		return nil
	case ActionRelease:
		actor.ReleaseKey()
		return nil
	case ActionClearTrace:
		w.Active.ClearTrace()
		return nil
	}

	it, ok := w.interactables[step.Target]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTarget, step.Target)
	}
	switch step.Action {
	case ActionApproach:
		it.OnOverlapBegin(w.passiveOwner)
	case ActionLeave:
		it.OnOverlapEnd(w.passiveOwner)
	case ActionTrace:
		w.Active.Trace(it)
	case ActionHover:
		it.HoverBegin(w.volumes[step.Target])
	case ActionUnhover:
		it.HoverEnd(w.volumes[step.Target])
	case ActionSuppress:
		it.Suppress()
	case ActionResume:
		it.Resume()
	case ActionActivate:
		return it.Activate()
	case ActionDeactivate:
		it.Deactivate()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, step.Action)
	}
	return nil
}

// Schedule queues every step on the wheel relative to its current time.
func (w *World) Schedule(s Scenario) {
	for _, step := range s.Steps {
		w.Wheel.Schedule(step.At, false, func() {
			if err := w.Apply(step); err != nil {
				w.Logger.Warn("scenario step failed",
					log.String("action", step.Action), log.String("target", step.Target), log.Error(err))
			}
		})
	}
}

// Run plays the world in real time until ctx is done or d elapsed.
func (w *World) Run(ctx context.Context, tick, d time.Duration) error {
	if d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}
	runner := timer.NewRunner(w.Wheel, tick, w.Logger.Named("runner"))
	runner.OnTick(w.Tick)
	return runner.Run(ctx)
}

// Teardown removes every component from the registry.
func (w *World) Teardown() {
	for _, name := range w.order {
		w.interactables[name].Teardown()
	}
	w.Passive.Teardown()
	w.Active.Teardown()
}
