package interaction

import (
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/zeusync/interactions/internal/core/models"
)

// ID identifies an Interactor or an Interactable inside a Registry.
type ID string

func newID() ID {
	return ID(uuid.NewString())
}

const defaultShardCount = 16

// Registry resolves IDs to live components. Interactors and interactables
// refer to each other only through it, so dropping a component from the
// registry is enough to break every link to it.
//
// Registry is safe for concurrent use.
type Registry struct {
	shards []*registryShard
}

type registryShard struct {
	mu            sync.RWMutex
	interactors   map[ID]*Interactor
	interactables map[ID]*Interactable
	owners        map[models.EntityID]ID
}

// NewRegistry creates a registry split into shardCount shards (16 if <= 0).
func NewRegistry(shardCount int) *Registry {
	if shardCount <= 0 {
		shardCount = defaultShardCount
	}
	r := &Registry{shards: make([]*registryShard, shardCount)}
	for i := range r.shards {
		r.shards[i] = &registryShard{
			interactors:   make(map[ID]*Interactor),
			interactables: make(map[ID]*Interactable),
			owners:        make(map[models.EntityID]ID),
		}
	}
	return r
}

// ProvideRegistry builds a registry with the default shard count.
func ProvideRegistry() *Registry {
	return NewRegistry(defaultShardCount)
}

func (r *Registry) shard(key string) *registryShard {
	return r.shards[xxhash.Sum64String(key)%uint64(len(r.shards))]
}

func ownerKey(owner models.EntityID) string {
	return "owner/" + strconv.FormatUint(uint64(owner), 10)
}

func (r *Registry) addInteractor(ir *Interactor) {
	s := r.shard(string(ir.id))
	s.mu.Lock()
	s.interactors[ir.id] = ir
	s.mu.Unlock()

	if ir.owner == nil {
		return
	}
	o := r.shard(ownerKey(ir.owner.ID()))
	o.mu.Lock()
	o.owners[ir.owner.ID()] = ir.id
	o.mu.Unlock()
}

func (r *Registry) removeInteractor(ir *Interactor) {
	s := r.shard(string(ir.id))
	s.mu.Lock()
	delete(s.interactors, ir.id)
	s.mu.Unlock()

	if ir.owner == nil {
		return
	}
	o := r.shard(ownerKey(ir.owner.ID()))
	o.mu.Lock()
	if o.owners[ir.owner.ID()] == ir.id {
		delete(o.owners, ir.owner.ID())
	}
	o.mu.Unlock()
}

func (r *Registry) addInteractable(it *Interactable) {
	s := r.shard(string(it.id))
	s.mu.Lock()
	s.interactables[it.id] = it
	s.mu.Unlock()
}

func (r *Registry) removeInteractable(it *Interactable) {
	s := r.shard(string(it.id))
	s.mu.Lock()
	delete(s.interactables, it.id)
	s.mu.Unlock()
}

func (r *Registry) Interactor(id ID) (*Interactor, bool) {
	if id == "" {
		return nil, false
	}
	s := r.shard(string(id))
	s.mu.RLock()
	defer s.mu.RUnlock()
	ir, ok := s.interactors[id]
	return ir, ok
}

// InteractorOf returns the interactor owned by the given entity, which is how
// an overlap with an entity is resolved to an interactor.
func (r *Registry) InteractorOf(owner models.EntityID) (*Interactor, bool) {
	o := r.shard(ownerKey(owner))
	o.mu.RLock()
	id, ok := o.owners[owner]
	o.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return r.Interactor(id)
}

func (r *Registry) Interactable(id ID) (*Interactable, bool) {
	if id == "" {
		return nil, false
	}
	s := r.shard(string(id))
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.interactables[id]
	return it, ok
}

// Interactables returns a snapshot of every registered interactable.
func (r *Registry) Interactables() []*Interactable {
	var out []*Interactable
	for _, s := range r.shards {
		s.mu.RLock()
		for _, it := range s.interactables {
			out = append(out, it)
		}
		s.mu.RUnlock()
	}
	return out
}

// Len returns the number of registered interactors and interactables.
func (r *Registry) Len() (interactors, interactables int) {
	for _, s := range r.shards {
		s.mu.RLock()
		interactors += len(s.interactors)
		interactables += len(s.interactables)
		s.mu.RUnlock()
	}
	return interactors, interactables
}
