package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/km-arc/go-simpla/framework/config"
	"github.com/km-arc/go-simpla/framework/container"
	"github.com/km-arc/go-simpla/framework/providers"
)

// Version of the framework.
const Version = "0.1.0"

const shutdownTimeout = 10 * time.Second

// Application is the top-level application container. It embeds the
// Container so the binding API is available on it directly.
type Application struct {
	*container.Container
	logger *zap.Logger
}

// New wraps c and declares the framework provider classes on it.
func New(c *container.Container, logger *zap.Logger, envFiles ...string) *Application {
	if logger == nil {
		logger = zap.NewNop()
	}
	providers.Define(c.Classes(), envFiles...)
	return &Application{Container: c, logger: logger}
}

// Bootstrap applies m: aliases first, in manifest order, then tags, then the
// framework providers followed by the manifest providers. Aliases must come
// first because provider service keys are derived from them.
func (a *Application) Bootstrap(m *config.Manifest) error {
	if m == nil {
		m = &config.Manifest{}
	}

	for _, alias := range m.Aliases {
		a.Alias(alias.Name, alias.Class)
	}
	a.CreateAlias(nil)

	names := make([]string, 0, len(m.Tags))
	for name := range m.Tags {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		a.Tagged(name, m.Tags[name])
	}

	classes := append(providers.Classes(), m.Providers...)
	if err := a.RegisterProviders(classes...); err != nil {
		return fmt.Errorf("bootstrap: registering providers: %w", err)
	}

	a.logger.Info("application bootstrapped",
		zap.Int("aliases", len(m.Aliases)),
		zap.Int("tags", len(m.Tags)),
		zap.Int("providers", len(classes)),
		zap.Int("deferred", len(a.GetDeferredServices())))
	return nil
}

// Config resolves *config.Config from the container.
func (a *Application) Config() *config.Config {
	return container.MustResolve[*config.Config](a.Container, providers.ConfigKey)
}

// Run serves the debug surface on Debug.Addr when it is enabled and blocks
// until ctx is done, then shuts the server down.
func (a *Application) Run(ctx context.Context) error {
	cfg := a.Config()
	if !cfg.Debug.Enabled {
		a.logger.Info("debug surface disabled")
		<-ctx.Done()
		return nil
	}

	ln, err := net.Listen("tcp", cfg.Debug.Addr)
	if err != nil {
		return fmt.Errorf("debug surface: %w", err)
	}
	return a.Serve(ctx, ln)
}

// Serve serves the debug router on ln until ctx is done.
func (a *Application) Serve(ctx context.Context, ln net.Listener) error {
	handler, err := container.Resolve[http.Handler](a.Container, providers.DebugKey)
	if err != nil {
		return fmt.Errorf("debug surface: %w", err)
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("debug surface listening", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("debug surface: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	a.logger.Info("shutting down debug surface")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("debug surface shutdown: %w", err)
	}
	return nil
}

// Environment returns APP_ENV value.
func (a *Application) Environment() string { return a.Config().App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.Config().App.Debug }
