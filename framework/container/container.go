package container

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ── Container ─────────────────────────────────────────────────────────────────

// Container is the service container. It layers aliases, tags and service
// providers over a Store.
//
// It supports:
//   - Make (per-call factories) / Singleton (shared, frozen after first use)
//   - Get / Has / Unmake and the Offset* accessors
//   - Call with "Class@method" signatures and auto-wiring
//   - Tags and aliases
//   - Eager and deferred service providers
//
// A Container must not be copied after first use.
type Container struct {
	mu sync.RWMutex

	id      string
	store   *Store
	classes *ClassRegistry
	logger  *zap.Logger
	metrics *metrics

	// alias → class, in insertion order; nil until first Alias / CreateAlias
	aliases    map[string]string
	aliasOrder []string

	// tag → interface key
	tags map[string]string

	// provider short name → provider class
	providers map[string]string

	// provider class → declared services, in registration order
	deferred      map[string][]string
	deferredOrder []string

	// in-flight deferred promotions, keyed by provider class
	promotions singleflight.Group

	// service keys whose provider has been registered and booted
	booted map[string]bool
}

// New creates an empty container over a fresh Store.
func New(opts ...Option) *Container {
	return newContainer(NewStore(), opts...)
}

func newContainer(store *Store, opts ...Option) *Container {
	if store == nil {
		store = NewStore()
	}
	c := &Container{
		id:        uuid.NewString(),
		store:     store,
		classes:   NewClassRegistry(),
		logger:    zap.NewNop(),
		tags:      make(map[string]string),
		providers: make(map[string]string),
		deferred:  make(map[string][]string),
		booted:    make(map[string]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.metrics == nil {
		c.metrics = newMetrics(nil)
	}
	c.logger = c.logger.With(zap.String("container_id", c.id))
	return c
}

// ID identifies this container instance in logs and the debug surface.
func (c *Container) ID() string { return c.id }

// Classes returns the class registry used for instantiation by name.
func (c *Container) Classes() *ClassRegistry { return c.classes }

// Define registers a constructible class. Shorthand for c.Classes().Define.
func (c *Container) Define(name string, ctor Constructor) { c.classes.Define(name, ctor) }

// DefineClass registers cls. Shorthand for c.Classes().DefineClass.
func (c *Container) DefineClass(cls Class) { c.classes.DefineClass(cls) }

// ── Registration ──────────────────────────────────────────────────────────────

// Make registers a binding that is re-evaluated on every Get.
//
// service selects the factory:
//   - nil: construct a bare instance of the class named key
//   - string: construct a bare instance of that class
//   - a Factory or func(*Container) any / func() any / func() (any, error): used as is
//   - anything else: returned verbatim on every Get
//
//	c.Make(`App\Greeter`, nil)
//	c.Make("greeter", `App\Greeter`)
//	c.Make("clock", func() any { return time.Now() })
//	c.Make("answer", 42)
func (c *Container) Make(key string, service any) error {
	var f Factory
	switch s := service.(type) {
	case nil:
		f = c.constructor(key)
	case string:
		f = c.constructor(s)
	case protectedDefinition:
		f = func(*Container) (any, error) { return s.value, nil }
	default:
		if fn, ok := asFactory(service); ok {
			f = fn
		} else if isFunc(service) {
			return errExpectedInvokable(service).WithService(key)
		} else {
			f = func(*Container) (any, error) { return service, nil }
		}
	}

	if err := c.store.Set(key, factoryDefinition{fn: f}); err != nil {
		return err
	}
	c.logger.Debug("service bound", zap.String("service", key), zap.String("lifecycle", "factory"))
	return nil
}

// Singleton registers service under key. Callables are resolved once and the
// result is cached; other values are stored as parameters.
//
//	c.Singleton("db", func(c *container.Container) (any, error) {
//	    return sql.Open("postgres", dsn)
//	})
func (c *Container) Singleton(key string, service any) error {
	if err := c.store.Set(key, service); err != nil {
		return err
	}
	c.logger.Debug("service bound", zap.String("service", key), zap.String("lifecycle", "shared"))
	return nil
}

// Closure protects fn so the container stores it instead of invoking it.
//
//	fn, _ := c.Closure(func(s string) string { return strings.ToUpper(s) })
//	c.OffsetSet("upper", fn)
func (c *Container) Closure(fn any) (any, error) {
	return c.store.Protect(fn)
}

// Raw returns the definition of key without resolving it.
func (c *Container) Raw(key string) (any, error) {
	return c.store.Raw(key)
}

// Extend decorates the definition of key. It fails once a shared service has
// been resolved.
func (c *Container) Extend(key string, fn Extender) error {
	return c.store.Extend(key, fn)
}

// Unmake removes key and forgets whether its provider was booted.
func (c *Container) Unmake(key string) {
	c.store.Unset(key)
	c.mu.Lock()
	delete(c.booted, key)
	c.mu.Unlock()
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Get resolves key, promoting a deferred provider first when one declares it,
// then falling back to tag and alias redirection.
//
// A key that cannot be found yields (nil, nil); the miss is logged. Any other
// failure, such as a factory error, is returned.
func (c *Container) Get(key string) (any, error) {
	v, found, err := c.resolve(key)
	switch {
	case err != nil:
		c.metrics.resolved(resultError)
		return nil, err
	case !found:
		c.metrics.resolved(resultMiss)
		c.logger.Debug("service not found", zap.String("service", key))
		return nil, nil
	}
	c.metrics.resolved(resultHit)
	return v, nil
}

// Lookup is Get without the miss swallowing: an unknown key returns an error
// matching ErrNotFound.
func (c *Container) Lookup(key string) (any, error) {
	v, found, err := c.resolve(key)
	if err == nil && !found {
		return nil, errNotFound(key)
	}
	return v, err
}

// resolve reports found == false when neither key nor its tag target is
// bound. Aliases only take part in class instantiation, never in lookup. Errors raised while building the service, including
// NotFound errors from its own dependencies, are returned as err.
func (c *Container) resolve(key string) (v any, found bool, err error) {
	c.providerResolver(key)

	if c.store.Has(key) {
		v, err = c.store.Get(c, key)
		return v, true, err
	}

	if iface, ok := c.GetTag(key); ok {
		c.providerResolver(iface)
		if !c.store.Has(iface) {
			return nil, false, nil
		}
		v, err = c.store.Get(c, iface)
		return v, true, err
	}

	return nil, false, nil
}

// Has reports whether key is bound directly.
func (c *Container) Has(key string) bool {
	return c.store.Has(key)
}

// Frozen reports whether key is a shared service that has been resolved.
func (c *Container) Frozen(key string) bool {
	return c.store.Frozen(key)
}

// Keys returns every bound key in insertion order.
func (c *Container) Keys() []string {
	return c.store.Keys()
}

// constructor returns a factory building the class named name.
func (c *Container) constructor(name string) Factory {
	return func(c *Container) (any, error) {
		return c.newInstance(name)
	}
}

// newInstance builds a bare instance of class, resolving aliases first.
func (c *Container) newInstance(class string) (any, error) {
	for _, candidate := range c.classCandidates(class) {
		if cls, ok := c.classes.Lookup(candidate); ok {
			return cls.New(), nil
		}
	}
	return nil, errUndefinedClass(class)
}

// ── Offset access ─────────────────────────────────────────────────────────────

// OffsetExists reports whether key is bound directly.
func (c *Container) OffsetExists(key string) bool {
	return c.store.Has(key)
}

// OffsetGet resolves key like Get, promoting deferred providers and following
// tags, but an unknown key is returned as an ErrNotFound error.
func (c *Container) OffsetGet(key string) (any, error) {
	return c.Lookup(key)
}

// OffsetSet stores value under key with Store.Set semantics.
func (c *Container) OffsetSet(key string, value any) error {
	return c.store.Set(key, value)
}

// OffsetUnset removes key.
func (c *Container) OffsetUnset(key string) {
	c.Unmake(key)
}

// ── Generics helper ───────────────────────────────────────────────────────────

// Resolve looks key up and type-asserts the result.
//
//	db, err := container.Resolve[*sql.DB](c, "db")
func Resolve[T any](c *Container, key string) (T, error) {
	var zero T
	instance, err := c.Lookup(key)
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("container: Resolve[%T]: [%s] resolved to %T", zero, key, instance)
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on failure.
func MustResolve[T any](c *Container, key string) T {
	typed, err := Resolve[T](c, key)
	if err != nil {
		panic(err)
	}
	return typed
}
