// Package container provides the simpla service container: a registry mapping
// string service keys to lazily built values, with service providers that can
// be deferred until one of their services is requested.
//
// # Bindings
//
//	c := container.New()
//
//	// Per-call factory, re-evaluated on every Get
//	c.Make("request-id", func() any { return uuid.NewString() })
//
//	// Bare instance of a class known to the class registry
//	c.Define(`App\Greeter`, func() any { return &Greeter{} })
//	c.Make("greeter", `App\Greeter`)
//
//	// Shared service, built once and then frozen
//	c.Singleton("db", func(c *container.Container) (any, error) {
//	    return sql.Open("postgres", dsn)
//	})
//
//	// Plain value
//	c.Make("answer", 42)
//
// # Resolving
//
//	v, err := c.Get("db")          // nil, nil when "db" is unknown
//	db, err := container.Resolve[*sql.DB](c, "db")
//
// # Calling methods
//
//	out, err := c.Call(`App\Greeter@greet`, "world")
//	out, err = c.CallDefault(`App\Greeter@`, "greet", "world")
//
// An unbound class named in a call is bound on the fly.
//
// # Aliases and tags
//
//	c.Alias("DB", `Database\ConnectionFacade`)
//	c.Tagged("Logger", `App\ConsoleLogger`)
//	logger, _ := c.Get("Logger") // whatever is bound under App\ConsoleLogger
//
// # Service providers
//
//	type CacheServiceProvider struct{ container.BaseProvider }
//
//	func (p *CacheServiceProvider) IsDeferred() bool   { return true }
//	func (p *CacheServiceProvider) Provides() []string { return []string{"cache"} }
//	func (p *CacheServiceProvider) Register(c *container.Container) {
//	    c.Singleton("cache", func(*container.Container) (any, error) { return newCache(), nil })
//	}
//
//	c.DefineClass(container.ProviderClass[CacheServiceProvider](`App\CacheServiceProvider`))
//	c.CreateAlias(map[string]string{})
//	err := c.RegisterProviders(`App\CacheServiceProvider`)
//
//	cache, _ := c.Get("cache") // the provider is registered and booted here
//
// Registration order matters: provider service keys are derived from the alias
// table, so aliases must be created before RegisterProviders runs.
package container
