package container

import (
	"sort"
	"strings"
	"sync"
)

// Constructor builds a bare instance of a class, with no arguments.
type Constructor func() any

// Class describes a constructible type known to the container by name.
//
// Provider, Deferred and Provides are static metadata: they are read at
// registration time without calling New, so a deferred provider is never
// instantiated before one of its services is requested.
type Class struct {
	Name     string
	New      Constructor
	Provider bool
	Deferred bool
	Provides []string
}

// ClassRegistry maps class names to constructors. It stands in for dynamic
// `new $class` instantiation.
type ClassRegistry struct {
	mu      sync.RWMutex
	classes map[string]Class
}

// NewClassRegistry creates an empty registry.
func NewClassRegistry() *ClassRegistry {
	return &ClassRegistry{classes: make(map[string]Class)}
}

// Define registers a plain class.
//
//	classes.Define(`App\Greeter`, func() any { return &Greeter{} })
func (r *ClassRegistry) Define(name string, ctor Constructor) {
	r.DefineClass(Class{Name: name, New: ctor})
}

// DefineClass registers cls, replacing any class of the same name.
func (r *ClassRegistry) DefineClass(cls Class) {
	if cls.Name == "" || cls.New == nil {
		panic("container: class needs a name and a constructor")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.classes[cls.Name] = cls
}

// Lookup returns the class registered under name.
func (r *ClassRegistry) Lookup(name string) (Class, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cls, ok := r.classes[name]
	return cls, ok
}

// Names returns the registered class names, sorted.
func (r *ClassRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.classes))
	for name := range r.classes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// shortName strips the namespace of a class name: `Database\ConnectionFacade`
// and `database.ConnectionFacade` both become "ConnectionFacade".
func shortName(class string) string {
	if i := strings.LastIndexAny(class, `\./`); i >= 0 {
		return class[i+1:]
	}
	return class
}
