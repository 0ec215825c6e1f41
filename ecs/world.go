package ecs

import (
	"fmt"
	"reflect"
	"slices"
	"sync"
)

// World is an in-memory Store.
type World struct {
	mu        sync.RWMutex
	next      Entity
	entities  map[Entity]map[Kind]any
	kinds     map[Kind]struct{}
	resources map[Kind]any
}

var _ Store = (*World)(nil)
var _ ResourceStore = (*World)(nil)

// NewWorld creates an empty world.
func NewWorld() *World {
	return &World{
		entities:  make(map[Entity]map[Kind]any),
		kinds:     make(map[Kind]struct{}),
		resources: make(map[Kind]any),
	}
}

// Register declares component kinds without attaching them to any entity.
// Plugins use it to advertise the components they provide; adding a
// component registers its kind implicitly.
func (w *World) Register(kinds ...Kind) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, k := range kinds {
		w.kinds[k] = struct{}{}
	}
}

// Registered implements Store.
func (w *World) Registered(kind Kind) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.kinds[kind]
	return ok
}

// Spawn creates an entity carrying the given components.
// It panics if a component is not a non-nil pointer; use Add to get an
// error instead.
func (w *World) Spawn(components ...any) Entity {
	w.mu.Lock()
	w.next++
	e := w.next
	w.entities[e] = make(map[Kind]any, len(components))
	w.mu.Unlock()

	if err := w.Add(e, components...); err != nil {
		panic(err)
	}
	return e
}

// Add attaches components to e, replacing any component of the same kind.
func (w *World) Add(e Entity, components ...any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	bundle, ok := w.entities[e]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNoEntity, e)
	}
	for _, c := range components {
		v := reflect.ValueOf(c)
		if v.Kind() != reflect.Pointer || v.IsNil() {
			return fmt.Errorf("%w: got %T", ErrNotPointer, c)
		}
		k := v.Type().Elem()
		bundle[k] = c
		w.kinds[k] = struct{}{}
	}
	return nil
}

// Remove detaches the component of the given kind from e.
func (w *World) Remove(e Entity, kind Kind) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if bundle, ok := w.entities[e]; ok {
		delete(bundle, kind)
	}
}

// Despawn deletes e and all its components.
func (w *World) Despawn(e Entity) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.entities, e)
}

// Alive reports whether e exists.
func (w *World) Alive(e Entity) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.entities[e]
	return ok
}

// Component implements Store.
func (w *World) Component(e Entity, kind Kind) (any, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	bundle, ok := w.entities[e]
	if !ok {
		return nil, false
	}
	c, ok := bundle[kind]
	return c, ok
}

// Entities implements Store.
func (w *World) Entities(kind Kind) []Entity {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var out []Entity
	for e, bundle := range w.entities {
		if _, ok := bundle[kind]; ok {
			out = append(out, e)
		}
	}
	slices.Sort(out)
	return out
}

// Len returns the number of live entities.
func (w *World) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.entities)
}

// Resource implements ResourceStore.
func (w *World) Resource(kind Kind) (any, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	r, ok := w.resources[kind]
	return r, ok
}

// SetResource stores v as the world's resource of type T.
func SetResource[T any](w *World, v T) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.resources[KindOf[T]()] = v
}

// RemoveResource deletes the resource of type T.
func RemoveResource[T any](w *World) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.resources, KindOf[T]())
}
