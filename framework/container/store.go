package container

import (
	"reflect"
	"sync"

	"golang.org/x/sync/singleflight"
)

// ── Definitions ───────────────────────────────────────────────────────────────

// Factory builds a service value from the container.
type Factory func(c *Container) (any, error)

// Extender decorates the value produced by an existing definition.
//
//	c.Extend("logger", func(prev any, c *container.Container) (any, error) {
//	    return &TimestampLogger{Inner: prev.(*Logger)}, nil
//	})
type Extender func(previous any, c *Container) (any, error)

type kind uint8

const (
	kindParameter kind = iota // plain value, returned as is
	kindShared                // callable, resolved once then frozen
	kindFactory               // callable, resolved on every Get
	kindProtected             // callable stored as an opaque value
)

type entry struct {
	kind     kind
	value    any
	fn       Factory
	frozen   bool
	instance any
}

// factoryDefinition and protectedDefinition are the markers returned by
// Store.Factory and Store.Protect; Set unwraps them.
type factoryDefinition struct{ fn Factory }

type protectedDefinition struct{ value any }

// ── Store ─────────────────────────────────────────────────────────────────────

// Store is the low-level binding map under the Container. It mirrors the
// semantics of a Pimple container: callables set directly are shared and
// frozen after their first resolution, callables wrapped by Factory are
// invoked on every Get, callables wrapped by Protect are returned verbatim.
// Keys keep their insertion order.
type Store struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]*entry
	group   singleflight.Group
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{entries: make(map[string]*entry)}
}

// Factory marks fn so that Set registers it as a per-call factory.
func (s *Store) Factory(fn any) (any, error) {
	f, ok := asFactory(fn)
	if !ok {
		return nil, errExpectedInvokable(fn)
	}
	return factoryDefinition{fn: f}, nil
}

// Protect marks fn so that Set stores it as a value and Get never invokes it.
func (s *Store) Protect(fn any) (any, error) {
	if !isFunc(fn) {
		return nil, errExpectedInvokable(fn)
	}
	return protectedDefinition{value: fn}, nil
}

// Set defines key. Redefining a key that was already resolved as a shared
// service fails with ErrFrozen.
func (s *Store) Set(key string, value any) error {
	var e *entry
	switch d := value.(type) {
	case factoryDefinition:
		e = &entry{kind: kindFactory, fn: d.fn}
	case protectedDefinition:
		e = &entry{kind: kindProtected, value: d.value}
	default:
		if f, ok := asFactory(value); ok {
			e = &entry{kind: kindShared, fn: f}
		} else if isFunc(value) {
			return errExpectedInvokable(value)
		} else {
			e = &entry{kind: kindParameter, value: value}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	old, exists := s.entries[key]
	if exists && old.frozen {
		return errFrozen(key)
	}
	if !exists {
		s.order = append(s.order, key)
	}
	s.entries[key] = e
	return nil
}

// Get resolves key. c is handed to the definition's factory.
func (s *Store) Get(c *Container, key string) (any, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	if !ok {
		s.mu.RUnlock()
		return nil, errNotFound(key)
	}
	switch e.kind {
	case kindParameter, kindProtected:
		v := e.value
		s.mu.RUnlock()
		return v, nil
	case kindFactory:
		fn := e.fn
		s.mu.RUnlock()
		return fn(c)
	}
	if e.frozen {
		v := e.instance
		s.mu.RUnlock()
		return v, nil
	}
	fn := e.fn
	s.mu.RUnlock()

	v, err, _ := s.group.Do(key, func() (any, error) {
		s.mu.RLock()
		if e.frozen {
			v := e.instance
			s.mu.RUnlock()
			return v, nil
		}
		s.mu.RUnlock()

		v, err := fn(c)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		// A concurrent Set or Unset replaced the entry; do not freeze the new one.
		if s.entries[key] == e {
			e.frozen = true
			e.instance = v
		}
		s.mu.Unlock()
		return v, nil
	})
	return v, err
}

// Raw returns the definition of key without resolving it.
func (s *Store) Raw(key string) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, errNotFound(key)
	}
	if e.kind == kindParameter || e.kind == kindProtected {
		return e.value, nil
	}
	return e.fn, nil
}

// Extend wraps the definition of key so fn receives the value the previous
// definition produced. Shared and factory definitions keep their kind.
func (s *Store) Extend(key string, fn Extender) error {
	if fn == nil {
		return errExpectedInvokable(fn)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	switch {
	case !ok:
		return errNotFound(key)
	case e.frozen:
		return errFrozen(key)
	case e.kind == kindParameter:
		return errInvalidIdentifier(key)
	case e.kind == kindProtected:
		return errProtected(key)
	}

	prev := e.fn
	s.entries[key] = &entry{
		kind: e.kind,
		fn: func(c *Container) (any, error) {
			v, err := prev(c)
			if err != nil {
				return nil, err
			}
			return fn(v, c)
		},
	}
	return nil
}

// Has reports whether key is defined.
func (s *Store) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[key]
	return ok
}

// Frozen reports whether key is a shared service that has been resolved.
func (s *Store) Frozen(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	return ok && e.frozen
}

// Unset removes key. Removing an unknown key is a no-op.
func (s *Store) Unset(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[key]; !ok {
		return
	}
	delete(s.entries, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Keys returns all defined keys in insertion order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of defined keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// asFactory normalizes the callable shapes accepted as service definitions.
func asFactory(v any) (Factory, bool) {
	switch fn := v.(type) {
	case Factory:
		return fn, fn != nil
	case func(*Container) (any, error):
		return fn, fn != nil
	case func(*Container) any:
		if fn == nil {
			return nil, false
		}
		return func(c *Container) (any, error) { return fn(c), nil }, true
	case func() (any, error):
		if fn == nil {
			return nil, false
		}
		return func(*Container) (any, error) { return fn() }, true
	case func() any:
		if fn == nil {
			return nil, false
		}
		return func(*Container) (any, error) { return fn(), nil }, true
	}
	return nil, false
}

func isFunc(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Func && !rv.IsNil()
}
