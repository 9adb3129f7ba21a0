package container

import (
	"slices"

	"go.uber.org/zap"
)

// ── ServiceProvider interfaces ────────────────────────────────────────────────

// ServiceProvider configures bindings on the container.
//
//	type MailServiceProvider struct{ container.BaseProvider }
//
//	func (p *MailServiceProvider) Register(c *container.Container) {
//	    c.Singleton("mailer", func(c *container.Container) (any, error) {
//	        return mail.NewSMTP(...), nil
//	    })
//	}
type ServiceProvider interface {
	Register(c *Container)
}

// Booter is implemented by providers that need a setup step after Register.
type Booter interface {
	Boot(c *Container)
}

// DeferrableProvider is implemented by providers that may be loaded lazily,
// only when one of the services they Provide is first requested.
type DeferrableProvider interface {
	IsDeferred() bool
	Provides() []string
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable struct with no-op Boot, Provides and
// IsDeferred. Embed it and override what you need.
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container)  {}
func (p *BaseProvider) Provides() []string { return nil }
func (p *BaseProvider) IsDeferred() bool   { return false }

// providerPointer constrains PP to *P implementing ServiceProvider.
type providerPointer[P any] interface {
	*P
	ServiceProvider
}

// ProviderClass describes provider type P under name. Deferral and the list
// of provided services are read from the zero value of P, so the provider
// type behaves like a class with static properties: no constructor runs
// until the container needs an instance.
//
//	c.DefineClass(container.ProviderClass[CacheServiceProvider](`App\CacheServiceProvider`))
func ProviderClass[P any, PP providerPointer[P]](name string) Class {
	cls := Class{
		Name:     name,
		New:      func() any { return PP(new(P)) },
		Provider: true,
	}
	if d, ok := any(PP(new(P))).(DeferrableProvider); ok && d.IsDeferred() {
		cls.Deferred = true
		cls.Provides = append([]string(nil), d.Provides()...)
	}
	return cls
}

// ── Provider registration ─────────────────────────────────────────────────────

// RegisterProviders registers provider classes by name and then boots every
// provider currently bound.
//
// For each class the service key is computed from the alias table, so at
// least one Alias or CreateAlias call must come first (ErrMissingAliases
// otherwise). Deferred providers are only recorded. A class whose key is
// already bound is skipped, so registering a provider twice has no further
// effect. Other classes are bound as factories and then registered and booted
// in binding order.
func (c *Container) RegisterProviders(classes ...string) error {
	for _, class := range classes {
		short := shortName(class)

		key, err := c.serviceKeyFor(short)
		if err != nil {
			return err
		}

		cls, ok := c.classes.Lookup(class)
		if !ok {
			return errUndefinedClass(class)
		}

		if cls.Provider {
			c.mu.Lock()
			c.providers[short] = class
			if cls.Deferred {
				if _, seen := c.deferred[class]; !seen {
					c.deferredOrder = append(c.deferredOrder, class)
				}
				c.deferred[class] = append([]string(nil), cls.Provides...)
				c.mu.Unlock()
				c.logger.Debug("provider deferred",
					zap.String("provider", class), zap.Strings("provides", cls.Provides))
				continue
			}
			c.mu.Unlock()
		}

		if c.store.Has(key) {
			continue
		}

		if err := c.Make(key, class); err != nil {
			return err
		}
	}

	return c.registers()
}

// Register calls provider.Register on the container.
//
//	c.Register(&AppServiceProvider{})
func (c *Container) Register(provider ServiceProvider) {
	provider.Register(c)
}

// GetProviders returns provider short name → class for every registered
// provider class, deferred ones included.
func (c *Container) GetProviders() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]string, len(c.providers))
	for short, class := range c.providers {
		out[short] = class
	}
	return out
}

// GetDeferredServices returns provider class → declared services for every
// deferred provider not promoted yet.
func (c *Container) GetDeferredServices() map[string][]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string][]string, len(c.deferred))
	for class, services := range c.deferred {
		out[class] = append([]string(nil), services...)
	}
	return out
}

// registers walks every bound key in insertion order and registers and boots
// the providers among them.
func (c *Container) registers() error {
	for _, key := range c.store.Keys() {
		if err := c.registryResolver(key); err != nil {
			return err
		}
	}
	return nil
}

// registryResolver resolves key and, when it is a provider not booted yet,
// calls Register and then Boot.
func (c *Container) registryResolver(key string) error {
	c.mu.RLock()
	done := c.booted[key]
	c.mu.RUnlock()
	if done {
		return nil
	}

	service, err := c.Get(key)
	if err != nil {
		return err
	}

	provider, ok := service.(ServiceProvider)
	if !ok {
		return nil
	}

	c.mu.Lock()
	if c.booted[key] {
		c.mu.Unlock()
		return nil
	}
	c.booted[key] = true
	c.mu.Unlock()

	provider.Register(c)
	if b, ok := provider.(Booter); ok {
		b.Boot(c)
	}

	c.metrics.boots.Inc()
	c.logger.Debug("provider booted", zap.String("service", key))
	return nil
}

// providerResolver promotes the deferred provider declaring key, if any. The
// provider is bound under its class name, registered and booted, and only then
// leaves the deferred record. Callers asking for any of its services while
// that runs join the same promotion and return once it is done.
func (c *Container) providerResolver(key string) {
	if c.store.Has(key) {
		return
	}

	c.mu.RLock()
	class := c.deferredClassFor(key)
	c.mu.RUnlock()
	if class == "" {
		return
	}

	_, _, _ = c.promotions.Do(class, func() (any, error) {
		c.mu.RLock()
		_, pending := c.deferred[class]
		c.mu.RUnlock()
		if !pending {
			return nil, nil
		}
		defer c.forgetDeferred(class)

		if err := c.Make(class, class); err != nil {
			c.logger.Warn("deferred provider not bound", zap.String("provider", class), zap.Error(err))
			return nil, nil
		}
		c.metrics.promotions.Inc()
		c.logger.Debug("deferred provider promoted", zap.String("provider", class), zap.String("service", key))

		if err := c.registryResolver(class); err != nil {
			c.logger.Warn("deferred provider not booted", zap.String("provider", class), zap.Error(err))
		}
		return nil, nil
	})
}

// deferredClassFor returns the first deferred provider declaring key. The
// caller holds c.mu.
func (c *Container) deferredClassFor(key string) string {
	for _, class := range c.deferredOrder {
		if slices.Contains(c.deferred[class], key) {
			return class
		}
	}
	return ""
}

func (c *Container) forgetDeferred(class string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.deferred, class)
	c.deferredOrder = slices.DeleteFunc(c.deferredOrder, func(name string) bool { return name == class })
}
