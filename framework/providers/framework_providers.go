package providers

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/km-arc/go-simpla/framework/config"
	"github.com/km-arc/go-simpla/framework/container"
	"github.com/km-arc/go-simpla/framework/debug"
	"github.com/km-arc/go-simpla/framework/logging"
)

// Class names of the framework providers.
const (
	ConfigProvider = `Simpla\Providers\ConfigServiceProvider`
	LogProvider    = `Simpla\Providers\LogServiceProvider`
	DebugProvider  = `Simpla\Providers\DebugServiceProvider`
)

// Service keys bound by the framework providers.
const (
	ConfigKey   = "config"
	LogKey      = "log"
	GathererKey = "metrics.gatherer"
	DebugKey    = "debug.router"
)

// Define registers the framework provider classes. envFiles are handed to
// the ConfigServiceProvider.
func Define(classes *container.ClassRegistry, envFiles ...string) {
	cfg := container.ProviderClass[ConfigServiceProvider](ConfigProvider)
	cfg.New = func() any { return &ConfigServiceProvider{EnvFiles: envFiles} }
	classes.DefineClass(cfg)
	classes.DefineClass(container.ProviderClass[LogServiceProvider](LogProvider))
	classes.DefineClass(container.ProviderClass[DebugServiceProvider](DebugProvider))
}

// Classes lists the framework providers in registration order.
func Classes() []string {
	return []string{ConfigProvider, LogProvider, DebugProvider}
}

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider loads the application configuration from .env and
// binds it into the container as "config". A config bound beforehand is kept.
//
// Bound abstracts:
//   - "config"  → *config.Config
type ConfigServiceProvider struct {
	container.BaseProvider
	EnvFiles []string
}

func (p *ConfigServiceProvider) Register(app *container.Container) {
	if app.Has(ConfigKey) {
		return
	}
	envFiles := p.EnvFiles
	_ = app.Singleton(ConfigKey, func(*container.Container) any {
		return config.Load(envFiles...)
	})
}

// ── LogServiceProvider ────────────────────────────────────────────────────────

// LogServiceProvider builds the application logger from the "log" section of
// the configuration. A logger bound beforehand is kept.
//
// Bound abstracts:
//   - "log"  → *zap.Logger
type LogServiceProvider struct {
	container.BaseProvider
}

func (p *LogServiceProvider) Register(app *container.Container) {
	if app.Has(LogKey) {
		return
	}
	_ = app.Singleton(LogKey, func(c *container.Container) (any, error) {
		cfg, err := container.Resolve[*config.Config](c, ConfigKey)
		if err != nil {
			return nil, fmt.Errorf("log provider: %w", err)
		}
		return logging.New(cfg.Log)
	})
}

func (p *LogServiceProvider) Boot(app *container.Container) {
	logger, err := container.Resolve[*zap.Logger](app, LogKey)
	if err != nil {
		return
	}
	logger.Debug("logger ready", zap.String("container_id", app.ID()))
}

// LogFacade proxies the "log" service.
type LogFacade struct{}

func (LogFacade) FacadeAccessor() string { return LogKey }

// ── DebugServiceProvider ──────────────────────────────────────────────────────

// DebugServiceProvider builds the introspection router. It is deferred, so
// nothing is built unless "debug.router" is requested. When
// "metrics.gatherer" is bound the router also serves /metrics.
//
// Bound abstracts:
//   - "debug.router"  → http.Handler
type DebugServiceProvider struct {
	container.BaseProvider
}

func (p *DebugServiceProvider) IsDeferred() bool   { return true }
func (p *DebugServiceProvider) Provides() []string { return []string{DebugKey} }

func (p *DebugServiceProvider) Register(app *container.Container) {
	_ = app.Singleton(DebugKey, func(c *container.Container) (any, error) {
		var gatherer prometheus.Gatherer
		if c.Has(GathererKey) {
			g, err := container.Resolve[prometheus.Gatherer](c, GathererKey)
			if err != nil {
				return nil, fmt.Errorf("debug provider: %w", err)
			}
			gatherer = g
		}
		return debug.Handler(c, gatherer), nil
	})
}
