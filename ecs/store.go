package ecs

import (
	"errors"
	"reflect"
)

// Common errors returned by World operations.
var (
	// ErrNoEntity is returned when an operation targets an unknown entity.
	ErrNoEntity = errors.New("ecs: no such entity")

	// ErrNotPointer is returned when a component is not a non-nil pointer.
	ErrNotPointer = errors.New("ecs: component must be a non-nil pointer")
)

// Entity identifies an entity in a Store. The zero value is Nil and never
// names a live entity.
type Entity uint32

// Nil is the absent entity.
const Nil Entity = 0

// Valid reports whether e is not Nil.
func (e Entity) Valid() bool { return e != Nil }

// Kind identifies a component type.
type Kind = reflect.Type

// KindOf returns the Kind for component type T.
func KindOf[T any]() Kind {
	return reflect.TypeFor[T]()
}

// Store is the read side of an entity-component system.
type Store interface {
	// Component returns the component of the given kind attached to e.
	// The returned value is a pointer to the stored component.
	Component(e Entity, kind Kind) (any, bool)

	// Entities returns all entities carrying a component of the given kind,
	// in ascending entity order.
	Entities(kind Kind) []Entity

	// Registered reports whether the component kind is known to the store.
	Registered(kind Kind) bool
}

// ResourceStore gives access to world-global values.
type ResourceStore interface {
	Resource(kind Kind) (any, bool)
}

// Get returns the component of type T on e.
func Get[T any](s Store, e Entity) (*T, bool) {
	v, ok := s.Component(e, KindOf[T]())
	if !ok {
		return nil, false
	}
	c, ok := v.(*T)
	return c, ok
}

// Has reports whether e carries a component of type T.
func Has[T any](s Store, e Entity) bool {
	_, ok := s.Component(e, KindOf[T]())
	return ok
}

// Query returns the entities carrying a component of type T.
func Query[T any](s Store) []Entity {
	return s.Entities(KindOf[T]())
}

// Registered reports whether component type T is known to s.
func Registered[T any](s Store) bool {
	return s.Registered(KindOf[T]())
}

// GetResource returns the resource stored under type T.
func GetResource[T any](s ResourceStore) (T, bool) {
	var zero T
	v, ok := s.Resource(KindOf[T]())
	if !ok {
		return zero, false
	}
	r, ok := v.(T)
	if !ok {
		return zero, false
	}
	return r, true
}
