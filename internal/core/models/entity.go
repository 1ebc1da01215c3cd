package models

import (
	"sync/atomic"
	"time"
)

type EntityID uint64

// Entity is the host object owning interaction components. Components only
// query it; they never extend its lifetime.
type Entity interface {
	ID() EntityID
	Name() string
	IsActive() bool
	IsDestroyed() bool
}

// Clock is the world time source. Now returns simulation time elapsed since
// the world started.
type Clock interface {
	Now() time.Duration
}

var lastEntityID atomic.Uint64

// NextEntityID returns a process-unique, non-zero entity identifier.
func NextEntityID() EntityID {
	return EntityID(lastEntityID.Add(1))
}

// Actor is a minimal Entity used by hosts that have no entity system of their own.
type Actor struct {
	id        EntityID
	name      string
	active    atomic.Bool
	destroyed atomic.Bool
}

func NewActor(name string) *Actor {
	a := &Actor{id: NextEntityID(), name: name}
	a.active.Store(true)
	return a
}

func (a *Actor) ID() EntityID          { return a.id }
func (a *Actor) Name() string          { return a.name }
func (a *Actor) IsActive() bool        { return a.active.Load() && !a.destroyed.Load() }
func (a *Actor) SetActive(active bool) { a.active.Store(active) }
func (a *Actor) IsDestroyed() bool     { return a.destroyed.Load() }

// Destroy marks the actor destroyed. Components observing it must be torn down
// by the host; Destroy does not reach into them.
func (a *Actor) Destroy() { a.destroyed.Store(true) }
