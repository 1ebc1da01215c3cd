package interaction

import (
	"time"

	"github.com/zeusync/interactions/internal/core/events/bus"
	"github.com/zeusync/interactions/internal/core/models"
	"github.com/zeusync/interactions/internal/core/observability/log"
)

// Interactor is the acting side of an interaction. It holds at most one
// target interactable and announces key input, type changes and target
// changes on its event bus; the bound interactable listens there.
type Interactor struct {
	id      ID
	reg     *Registry
	owner   models.Entity
	typ     InteractorType
	channel Channel
	active  bool
	target  ID
	events  bus.EventBus
	volumes *volumeSet
	clock   models.Clock
	logger  log.Log
}

// NewInteractor registers a new, not yet activated interactor for owner.
func NewInteractor(reg *Registry, owner models.Entity, typ InteractorType, opts ...Option) (*Interactor, error) {
	if reg == nil {
		return nil, ErrNilRegistry
	}
	o := buildOptions(opts)
	ir := &Interactor{
		id:      newID(),
		reg:     reg,
		owner:   owner,
		typ:     typ,
		channel: o.channel,
		events:  newBus(o.observers),
		volumes: newVolumeSet(),
		clock:   o.clock,
	}
	ir.logger = o.logger.With(log.String("interactor", string(ir.id)))
	reg.addInteractor(ir)
	return ir, nil
}

func (ir *Interactor) ID() ID                    { return ir.id }
func (ir *Interactor) Owner() models.Entity      { return ir.owner }
func (ir *Interactor) Type() InteractorType      { return ir.typ }
func (ir *Interactor) Events() bus.EventBus      { return ir.events }
func (ir *Interactor) IsActive() bool            { return ir.active }
func (ir *Interactor) CollisionChannel() Channel { return ir.channel }

// Target returns the interactable this interactor is currently bound to.
func (ir *Interactor) Target() (*Interactable, bool) {
	return ir.reg.Interactable(ir.target)
}

// Activate arms the interactor. Passive interactors bind their volumes.
func (ir *Interactor) Activate() {
	if ir.active {
		return
	}
	ir.active = true
	if ir.typ == InteractorPassive {
		ir.BindCollisions()
	}
}

// Deactivate releases the current target and unbinds volumes. Idempotent.
func (ir *Interactor) Deactivate() {
	if !ir.active {
		return
	}
	ir.releaseTarget(ir.target)
	if ir.typ == InteractorPassive {
		ir.UnbindCollisions()
	}
	ir.active = false
}

// Teardown deactivates the interactor, releases any target it still holds
// and drops it from the registry.
func (ir *Interactor) Teardown() {
	ir.Deactivate()
	ir.releaseTarget(ir.target)
	ir.reg.removeInteractor(ir)
}

// SetType switches the detection mode. Passive interactors bind their
// volumes, active ones restore them.
func (ir *Interactor) SetType(t InteractorType) {
	if ir.typ == t {
		return
	}
	from := ir.typ
	ir.typ = t
	if ir.active {
		if t == InteractorPassive {
			ir.BindCollisions()
		} else {
			ir.UnbindCollisions()
		}
	}
	ir.logger.Debug("interactor type changed", log.Stringer("from", from), log.Stringer("to", t))
	ir.publish(EventTypeChanged, TypeChangedPayload{From: from, To: t})
}

func (ir *Interactor) PressKey() {
	if !ir.active {
		return
	}
	ir.publish(EventKeyPressed, KeyPayload{At: ir.now()})
}

func (ir *Interactor) ReleaseKey() {
	if !ir.active {
		return
	}
	ir.publish(EventKeyReleased, KeyPayload{At: ir.now()})
}

// Trace reports that a directed trace hit target. A nil target clears the
// current trace. Passive interactors do not trace.
func (ir *Interactor) Trace(target *Interactable) {
	if !ir.active {
		return
	}
	if ir.typ == InteractorPassive {
		ir.logger.Debug("trace ignored for passive interactor")
		return
	}
	if target == nil {
		ir.ClearTrace()
		return
	}
	ir.publish(EventInteractableTraced, TargetPayload{Interactable: target.id})
	target.OnTraced(ir)
}

// ClearTrace drops the current target when the trace no longer hits it.
func (ir *Interactor) ClearTrace() {
	if !ir.active || ir.typ == InteractorPassive {
		return
	}
	ir.releaseTarget(ir.target)
}

// AddCollisionComponent registers a detection volume. Adding the same volume
// twice is a no-op.
func (ir *Interactor) AddCollisionComponent(v Volume) bool {
	if !ir.volumes.add(v) {
		return false
	}
	if ir.active && ir.typ == InteractorPassive {
		ir.volumes.bind(ir.channel)
	}
	ir.publish(EventCollisionShapeAdded, VolumePayload{Volume: v.Name()})
	return true
}

// RemoveCollisionComponent drops a volume, restoring the settings it had
// before it was bound.
func (ir *Interactor) RemoveCollisionComponent(v Volume) bool {
	if !ir.volumes.remove(v, ir.channel) {
		return false
	}
	ir.publish(EventCollisionShapeRemoved, VolumePayload{Volume: v.Name()})
	return true
}

func (ir *Interactor) CollisionComponents() []Volume {
	return ir.volumes.list()
}

// BindCollisions caches each volume's collision settings and switches it to
// query-only overlap on the interactor's channel.
func (ir *Interactor) BindCollisions() {
	ir.volumes.bind(ir.channel)
}

// UnbindCollisions restores the cached settings, or query-only overlap for
// volumes that were never bound.
func (ir *Interactor) UnbindCollisions() {
	ir.volumes.unbind(ir.channel)
}

func (ir *Interactor) setTarget(id ID) {
	if ir.target == id {
		return
	}
	ir.target = id
	ir.publish(EventInteractableFound, TargetPayload{Interactable: id})
}

// releaseTarget clears the target slot if it still holds id. The lost event
// reaches the bound interactable, which unwinds its side of the link.
func (ir *Interactor) releaseTarget(id ID) {
	if id == "" || ir.target != id {
		return
	}
	ir.target = ""
	ir.publish(EventInteractableLost, TargetPayload{Interactable: id})
}

func (ir *Interactor) now() time.Duration {
	if ir.clock == nil {
		return 0
	}
	return ir.clock.Now()
}

func (ir *Interactor) publish(typ string, data any) {
	if err := ir.events.Publish(bus.NewEvent(typ, string(ir.id), ir.now(), data)); err != nil {
		ir.logger.Warn("event handler failed", log.String("event", typ), log.Error(err))
	}
}
