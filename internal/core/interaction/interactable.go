package interaction

import (
	"fmt"
	"time"

	"github.com/zeusync/interactions/internal/core/events/bus"
	"github.com/zeusync/interactions/internal/core/models"
	"github.com/zeusync/interactions/internal/core/observability/log"
	"github.com/zeusync/interactions/internal/core/timer"
)

// Interactable is a world object offering a timed interaction. It owns the
// interaction state machine; the variant specific parts are delegated to its
// Strategy.
//
// Requested transitions follow the table in State.CanTransitionTo and are
// dropped when illegal. Deactivate, Suppress and unbinding force their target
// state.
type Interactable struct {
	id        ID
	reg       *Registry
	owner     models.Entity
	cfg       Config
	strategy  Strategy
	clock     models.Clock
	sched     timer.Scheduler
	events    bus.EventBus
	presenter Presenter
	adapter   CollisionAdapter
	logger    log.Log
	volumes   *volumeSet

	state           State
	finished        bool
	bound           ID
	links           []bus.Subscription
	hovered         Volume
	passed          int
	startedAt       time.Duration
	lastInteraction time.Duration
	progress        float64

	interactionTimer timer.Handle
	interactionSpan  time.Duration
	cooldownTimer    timer.Handle
}

// NewInteractable validates cfg and registers a disabled interactable. Call
// Activate to arm it.
func NewInteractable(reg *Registry, owner models.Entity, cfg Config, opts ...Option) (*Interactable, error) {
	if reg == nil {
		return nil, ErrNilRegistry
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new interactable %q: %w", cfg.Name, err)
	}
	cfg = cfg.Normalize()

	o := buildOptions(opts)
	strategy := o.strategy
	if strategy == nil {
		s, err := NewStrategy(cfg.Kind)
		if err != nil {
			return nil, err
		}
		strategy = s
	}

	it := &Interactable{
		id:        newID(),
		reg:       reg,
		owner:     owner,
		cfg:       cfg,
		strategy:  strategy,
		clock:     o.clock,
		sched:     o.scheduler,
		events:    newBus(o.observers),
		presenter: o.presenter,
		adapter:   o.adapter,
		volumes:   newVolumeSet(),
		state:     StateDisabled,
		progress:  1,
	}
	it.logger = o.logger.With(
		log.String("interactable", string(it.id)),
		log.String("profile", cfg.Name),
		log.Stringer("kind", strategy.Kind()),
	)
	reg.addInteractable(it)
	return it, nil
}

func (i *Interactable) ID() ID                             { return i.id }
func (i *Interactable) Owner() models.Entity               { return i.owner }
func (i *Interactable) Config() Config                     { return i.cfg }
func (i *Interactable) Kind() Kind                         { return i.strategy.Kind() }
func (i *Interactable) State() State                       { return i.state }
func (i *Interactable) Events() bus.EventBus               { return i.events }
func (i *Interactable) Scheduler() timer.Scheduler         { return i.sched }
func (i *Interactable) PassedLifecycles() int              { return i.passed }
func (i *Interactable) LastInteractionTime() time.Duration { return i.lastInteraction }
func (i *Interactable) RemainingProgress() float64         { return i.progress }
func (i *Interactable) IsHovered() bool                    { return i.hovered != nil }

// Interactor returns the bound interactor, if any.
func (i *Interactable) Interactor() (*Interactor, bool) {
	return i.reg.Interactor(i.bound)
}

// Now returns the current world time.
func (i *Interactable) Now() time.Duration {
	switch {
	case i.clock != nil:
		return i.clock.Now()
	case i.sched != nil:
		return i.sched.Now()
	default:
		return 0
	}
}

// Finished reports whether the interactable has ever reached Finished. It
// stays set after Deactivate or Suppress.
func (i *Interactable) Finished() bool { return i.finished }

// CanInteract reports whether a start request would be honoured now.
func (i *Interactable) CanInteract() bool {
	return i.strategy.CanInteract(i)
}

// Activate arms a disabled or suppressed interactable. It fails without
// side effects when the owner, the world clock or the scheduler is missing,
// and with ErrFinished once the interactable has finished.
func (i *Interactable) Activate() error {
	if i.finished {
		return ErrFinished
	}
	switch i.state {
	case StateDisabled, StateSuppressed:
	default:
		return nil
	}

	var problems []string
	switch {
	case i.owner == nil:
		problems = append(problems, "owner is missing")
	case i.owner.IsDestroyed():
		problems = append(problems, "owner is destroyed")
	}
	if i.clock == nil {
		problems = append(problems, "world clock is missing")
	}
	if i.sched == nil {
		problems = append(problems, "timer scheduler is missing")
	}
	if len(problems) > 0 {
		err := &ActivationError{Interactable: i.id, Problems: problems}
		i.logger.Warn("activation failed", log.Error(err))
		return err
	}

	i.cancelTimer(&i.cooldownTimer)
	for _, v := range i.volumes.list() {
		i.adapter.ConfigureChannel(v, i.cfg.Channel)
	}
	i.setProgress(1)
	i.request(StateInactive)
	i.logger.Debug("activated")
	return nil
}

// Deactivate clears every timer, unbinds the interactor and forces Disabled.
// Calling it again is a no-op.
func (i *Interactable) Deactivate() {
	if i.state == StateDisabled {
		return
	}
	i.breakOff(StateDisabled)
	i.logger.Debug("deactivated")
}

// Suppress turns the interactable off until Resume.
func (i *Interactable) Suppress() {
	if i.state == StateSuppressed {
		return
	}
	i.breakOff(StateSuppressed)
	i.logger.Debug("suppressed")
}

// Resume re-arms a suppressed interactable.
func (i *Interactable) Resume() bool {
	if i.finished || i.state != StateSuppressed {
		return false
	}
	return i.request(StateInactive)
}

// Teardown deactivates the interactable and drops it from the registry.
func (i *Interactable) Teardown() {
	i.Deactivate()
	i.reg.removeInteractable(i)
}

// OnOverlapBegin is called by the collision layer when other starts
// overlapping one of the interactable's volumes.
func (i *Interactable) OnOverlapBegin(other models.Entity) {
	if other == nil || !i.acceptsOverlap() {
		return
	}
	switch i.state {
	case StateInactive:
	case StateActive:
		i.logger.Warn("overlap began during an active interaction, ignoring",
			log.Uint64("entity", uint64(other.ID())))
		return
	default:
		return
	}
	ir, ok := i.reg.InteractorOf(other.ID())
	if !ok || !ir.active || ir.typ != InteractorPassive {
		return
	}
	i.FoundInteractor(ir)
}

// OnOverlapEnd is called by the collision layer when other stops overlapping.
func (i *Interactable) OnOverlapEnd(other models.Entity) {
	i.lastInteraction = i.Now()
	if other == nil || !i.acceptsOverlap() {
		return
	}
	switch i.state {
	case StateActive, StateStandby, StateCooldown:
	default:
		return
	}
	ir, ok := i.reg.InteractorOf(other.ID())
	if !ok || ir.id != i.bound || ir.typ != InteractorPassive {
		return
	}
	i.LostInteractor(ir)
}

// OnTraced is called when an active interactor's trace hits the interactable.
func (i *Interactable) OnTraced(ir *Interactor) {
	if ir == nil || !ir.active || i.state != StateInactive {
		return
	}
	if ir.id == i.bound || ir.typ == InteractorPassive {
		return
	}
	i.FoundInteractor(ir)
}

// FoundInteractor binds ir. A link ir still holds to another interactable is
// released first.
func (i *Interactable) FoundInteractor(ir *Interactor) {
	if ir == nil {
		return
	}
	if !ir.active {
		i.logger.Debug("inactive interactor found, ignoring", log.String("interactor", string(ir.id)))
		return
	}
	if i.bound != "" {
		if i.bound != ir.id {
			i.logger.Warn("interactor found while another one is bound",
				log.String("interactor", string(ir.id)), log.String("bound", string(i.bound)))
		}
		return
	}
	if !i.state.CanTransitionTo(StateStandby) {
		i.logger.Debug("interactor found in a state that cannot bind", log.Stringer("state", i.state))
		return
	}

	if old := ir.target; old != "" && old != i.id {
		ir.releaseTarget(old)
	}

	i.bound = ir.id
	i.links = i.subscribe(ir)
	ir.setTarget(i.id)

	i.presenter.SetHighlight(true)
	i.request(StateStandby)
	i.presenter.Show()
	i.logger.Debug("interactor found", log.String("interactor", string(ir.id)))
	i.publish(EventInteractorFound, InteractorPayload{Interactor: ir.id, Type: ir.typ})
	i.enteredStandby()
}

// LostInteractor clears the highlight and unwinds the binding to ir.
func (i *Interactable) LostInteractor(ir *Interactor) {
	if ir == nil || ir.id != i.bound {
		return
	}
	i.presenter.SetHighlight(false)
	i.StopInteractionLink(ir)
	i.logger.Debug("interactor lost", log.String("interactor", string(ir.id)))
	i.publish(EventInteractorLost, InteractorPayload{Interactor: ir.id, Type: ir.typ})
}

// StopInteractionLink cancels every subscription made on ir, clears both
// sides of the link, hides the UI and forces Inactive. An interaction in
// progress is reported as canceled.
func (i *Interactable) StopInteractionLink(ir *Interactor) {
	if ir == nil || ir.id != i.bound {
		return
	}
	i.interrupt()
	i.unlink(StateInactive)
}

// StartInteraction begins (or, for mash, continues) an interaction when the
// strategy allows it.
func (i *Interactable) StartInteraction() {
	if !i.strategy.CanInteract(i) {
		return
	}
	now := i.Now()
	if i.state != StateActive {
		if !i.state.CanTransitionTo(StateActive) {
			return
		}
		i.startedAt = now
		i.publish(EventInteractionStarted, i.payload(now))
		if !i.request(StateActive) {
			return
		}
	}
	i.lastInteraction = now
	i.strategy.OnStartRequested(i, now)
}

// StopInteraction handles a key release. Once the period has been exceeded
// the interaction completes; otherwise it returns to Standby.
func (i *Interactable) StopInteraction() {
	if i.bound == "" || i.state != StateActive {
		return
	}
	now := i.Now()
	if !i.strategy.OnStopRequested(i, now) {
		return
	}
	i.lastInteraction = now
	i.publish(EventInteractionStopped, i.payload(now))
	if i.state != StateActive {
		return
	}
	if now-i.startedAt > i.cfg.Period {
		i.FinishInteraction()
		return
	}
	i.clearInteractionTimers()
	i.request(StateStandby)
	i.setProgress(1)
}

// FinishInteraction completes the running interaction and applies the
// lifecycle mode: one-shot interactables finish, cycled ones cool down or
// re-arm until their MaxLifecycles budget is spent.
func (i *Interactable) FinishInteraction() {
	if i.state != StateActive {
		return
	}
	now := i.Now()
	payload := i.payload(now)
	i.clearInteractionTimers()
	i.presenter.SetHighlight(false)
	i.lastInteraction = now

	terminal, rearmed := false, false
	switch i.cfg.Lifecycle {
	case LifecycleCycled:
		i.passed++
		if i.cfg.MaxLifecycles > 0 && i.passed >= i.cfg.MaxLifecycles {
			if i.cfg.CycleExhaustion == ExhaustionContinue {
				i.passed = i.cfg.MaxLifecycles
			} else {
				terminal = true
			}
		}
		if terminal {
			break
		}
		if i.cfg.Cooldown > 0 {
			i.request(StateCooldown)
			i.cancelTimer(&i.cooldownTimer)
			i.cooldownTimer = i.sched.Schedule(i.cfg.Cooldown, false, i.cooldownElapsed)
		} else {
			rearmed = i.request(StateStandby)
		}
		i.setProgress(1)
	default:
		terminal = true
	}
	payload.Cycle = i.passed

	if terminal {
		i.unlink(StateFinished)
	}
	i.logger.Debug("interaction completed",
		log.Int("cycle", i.passed), log.Stringer("state", i.state))
	i.publish(EventInteractionCompleted, payload)

	if rearmed && i.bound != "" && i.state == StateStandby {
		i.presenter.SetHighlight(true)
		i.enteredStandby()
	}
}

// FailInteraction aborts the running interaction and returns to Standby.
func (i *Interactable) FailInteraction() {
	if i.state != StateActive {
		return
	}
	now := i.Now()
	payload := i.payload(now)
	i.clearInteractionTimers()
	i.lastInteraction = now
	i.logger.Debug("interaction failed", log.Int("presses", payload.Presses))
	i.publish(EventInteractionFailed, payload)
	i.request(StateStandby)
	i.setProgress(1)
}

// CancelInteraction unbinds the current interactor when causing is nil or
// the interactable itself. Requests from other components are ignored.
func (i *Interactable) CancelInteraction(causing *Interactable) {
	if causing != nil && causing != i {
		return
	}
	ir, ok := i.Interactor()
	if !ok {
		return
	}
	i.LostInteractor(ir)
}

// ArmInteractionTimer (re)starts the interaction timer. When it fires the
// strategy's OnCompletionTimerFired runs.
func (i *Interactable) ArmInteractionTimer(d time.Duration) {
	i.cancelTimer(&i.interactionTimer)
	i.interactionSpan = d
	i.interactionTimer = i.sched.Schedule(d, false, func() {
		i.interactionTimer = timer.InvalidHandle
		i.strategy.OnCompletionTimerFired(i, i.Now())
	})
}

func (i *Interactable) InteractionTimerActive() bool {
	return i.timerActive(i.interactionTimer)
}

// Cooling reports whether a cooldown is still running.
func (i *Interactable) Cooling() bool {
	return i.timerActive(i.cooldownTimer)
}

// Tick pushes the remaining share of the running interaction timer to the
// presenter. Call it once per frame.
func (i *Interactable) Tick() {
	if i.state != StateActive || i.interactionSpan <= 0 || !i.InteractionTimerActive() {
		return
	}
	remaining, ok := i.sched.Remaining(i.interactionTimer)
	if !ok {
		return
	}
	i.setProgress(float64(remaining) / float64(i.interactionSpan))
}

// HoverBegin marks v as hovered by a pointer.
func (i *Interactable) HoverBegin(v Volume) {
	if v == nil || i.hovered == v {
		return
	}
	i.hovered = v
	i.publish(EventHoverBegan, VolumePayload{Volume: v.Name()})
	if h, ok := i.strategy.(hoverHook); ok {
		h.OnHoverBegin(i, i.Now())
	}
}

// HoverEnd clears the hover on v. A nil v clears whatever is hovered.
func (i *Interactable) HoverEnd(v Volume) {
	if i.hovered == nil || (v != nil && v != i.hovered) {
		return
	}
	name := i.hovered.Name()
	i.hovered = nil
	i.publish(EventHoverEnded, VolumePayload{Volume: name})
	if h, ok := i.strategy.(hoverHook); ok {
		h.OnHoverEnd(i, i.Now())
	}
}

// AddCollisionComponent registers a volume of the interactable. Volumes added
// while armed are configured for the channel right away.
func (i *Interactable) AddCollisionComponent(v Volume) bool {
	if !i.volumes.add(v) {
		return false
	}
	if i.armed() {
		i.adapter.ConfigureChannel(v, i.cfg.Channel)
	}
	i.publish(EventCollisionShapeAdded, VolumePayload{Volume: v.Name()})
	return true
}

func (i *Interactable) RemoveCollisionComponent(v Volume) bool {
	if !i.volumes.remove(v, i.cfg.Channel) {
		return false
	}
	if i.hovered == v {
		i.HoverEnd(v)
	}
	i.publish(EventCollisionShapeRemoved, VolumePayload{Volume: v.Name()})
	return true
}

func (i *Interactable) CollisionComponents() []Volume {
	return i.volumes.list()
}

// Snapshot is a point in time view of an interactable for logs and feeds.
type Snapshot struct {
	ID               ID            `json:"id"`
	Name             string        `json:"name"`
	Kind             Kind          `json:"kind"`
	State            State         `json:"state"`
	Interactor       ID            `json:"interactor,omitempty"`
	PassedLifecycles int           `json:"passed_lifecycles"`
	Progress         float64       `json:"progress"`
	LastInteraction  time.Duration `json:"last_interaction"`
}

func (i *Interactable) Snapshot() Snapshot {
	return Snapshot{
		ID:               i.id,
		Name:             i.cfg.Name,
		Kind:             i.strategy.Kind(),
		State:            i.state,
		Interactor:       i.bound,
		PassedLifecycles: i.passed,
		Progress:         i.progress,
		LastInteraction:  i.lastInteraction,
	}
}

func (i *Interactable) armed() bool {
	switch i.state {
	case StateDisabled, StateSuppressed, StateFinished:
		return false
	default:
		return true
	}
}

func (i *Interactable) canInteractBase() bool {
	return i.bound != "" && i.state == StateStandby && !i.Cooling()
}

func (i *Interactable) acceptsOverlap() bool {
	if g, ok := i.strategy.(overlapGate); ok {
		return g.AcceptsOverlap()
	}
	return true
}

func (i *Interactable) acceptsKeys() bool {
	if g, ok := i.strategy.(keyGate); ok {
		return g.AcceptsKeys()
	}
	return true
}

func (i *Interactable) subscribe(ir *Interactor) []bus.Subscription {
	subs := make([]bus.Subscription, 0, 4)
	add := func(eventType string, h bus.EventHandler) {
		s, err := ir.events.Subscribe(eventType, h)
		if err != nil {
			i.logger.Warn("subscribe to interactor failed", log.String("event", eventType), log.Error(err))
			return
		}
		subs = append(subs, s)
	}
	add(EventKeyPressed, func(bus.Event) error {
		if i.acceptsKeys() {
			i.StartInteraction()
		}
		return nil
	})
	add(EventKeyReleased, func(bus.Event) error {
		if i.acceptsKeys() {
			i.StopInteraction()
		}
		return nil
	})
	add(EventTypeChanged, func(bus.Event) error {
		i.LostInteractor(ir)
		return nil
	})
	add(EventInteractableLost, func(e bus.Event) error {
		if p, ok := e.Data().(TargetPayload); ok && p.Interactable == i.id {
			i.LostInteractor(ir)
		}
		return nil
	})
	return subs
}

// unlink drops the binding and forces final. Subscriptions are cancelled
// before the interactor is told, so its lost event does not come back here.
func (i *Interactable) unlink(final State) {
	for _, s := range i.links {
		_ = s.Cancel()
	}
	i.links = nil
	bound := i.bound
	i.bound = ""
	i.clearInteractionTimers()
	if ir, ok := i.reg.Interactor(bound); ok {
		ir.releaseTarget(i.id)
	}
	i.presenter.Hide()
	i.setProgress(1)
	i.force(final)
}

// breakOff clears all timers and unbinds, forcing final.
func (i *Interactable) breakOff(final State) {
	i.interrupt()
	i.cancelTimer(&i.cooldownTimer)
	i.clearInteractionTimers()
	if i.bound != "" {
		i.unlink(final)
	} else {
		i.force(final)
	}
	i.presenter.SetHighlight(false)
	i.presenter.Hide()
}

func (i *Interactable) interrupt() {
	if i.state != StateActive {
		return
	}
	i.publish(EventInteractionCanceled, i.payload(i.Now()))
}

func (i *Interactable) cooldownElapsed() {
	i.cooldownTimer = timer.InvalidHandle
	switch i.state {
	case StateCooldown:
		if i.bound == "" {
			i.request(StateInactive)
			return
		}
		if i.request(StateStandby) {
			i.presenter.SetHighlight(true)
			i.enteredStandby()
		}
	case StateStandby:
		i.enteredStandby()
	}
}

func (i *Interactable) enteredStandby() {
	if h, ok := i.strategy.(standbyHook); ok {
		h.OnStandby(i, i.Now())
	}
}

func (i *Interactable) clearInteractionTimers() {
	i.cancelTimer(&i.interactionTimer)
	i.interactionSpan = 0
	if r, ok := i.strategy.(resetter); ok {
		r.Reset(i)
	}
}

func (i *Interactable) cancelTimer(h *timer.Handle) {
	if h.Valid() && i.sched != nil {
		i.sched.Cancel(*h)
	}
	*h = timer.InvalidHandle
}

func (i *Interactable) timerActive(h timer.Handle) bool {
	return h.Valid() && i.sched != nil && i.sched.IsActive(h)
}

func (i *Interactable) setProgress(p float64) {
	p = min(max(p, 0), 1)
	i.progress = p
	i.presenter.SetRemainingProgress(p)
}

func (i *Interactable) request(to State) bool {
	if !i.state.CanTransitionTo(to) {
		i.logger.Debug("transition rejected", log.Stringer("from", i.state), log.Stringer("to", to))
		return false
	}
	i.force(to)
	return true
}

func (i *Interactable) force(to State) {
	if i.state == to {
		return
	}
	from := i.state
	i.state = to
	if to == StateFinished {
		i.finished = true
	}
	i.logger.Debug("state changed", log.Stringer("from", from), log.Stringer("to", to))
	i.presenter.SetState(to)
	i.publish(EventStateChanged, StateChangedPayload{From: from, To: to})
}

func (i *Interactable) payload(now time.Duration) InteractionPayload {
	p := InteractionPayload{
		Kind:       i.strategy.Kind(),
		Interactor: i.bound,
		Cycle:      i.passed,
	}
	if i.state == StateActive {
		p.Elapsed = now - i.startedAt
	}
	if c, ok := i.strategy.(pressCounter); ok {
		p.Presses = c.Presses()
	}
	return p
}

func (i *Interactable) publish(typ string, data any) {
	if err := i.events.Publish(bus.NewEvent(typ, string(i.id), i.Now(), data)); err != nil {
		i.logger.Warn("event handler failed", log.String("event", typ), log.Error(err))
	}
}
