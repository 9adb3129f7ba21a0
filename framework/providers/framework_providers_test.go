package providers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/km-arc/go-simpla/framework/config"
	"github.com/km-arc/go-simpla/framework/container"
	"github.com/km-arc/go-simpla/framework/facade"
	"github.com/km-arc/go-simpla/framework/providers"
)

func newApp(t *testing.T) *container.Container {
	t.Helper()
	c := container.New()
	providers.Define(c.Classes(), "testdata/none.env")
	c.CreateAlias(map[string]string{"Log": `Simpla\Facades\LogFacade`})
	return c
}

func TestDefine_DeclaresClasses(t *testing.T) {
	c := newApp(t)

	for _, name := range providers.Classes() {
		cls, ok := c.Classes().Lookup(name)
		require.True(t, ok, name)
		assert.True(t, cls.Provider, name)
	}

	debugClass, _ := c.Classes().Lookup(providers.DebugProvider)
	assert.True(t, debugClass.Deferred)
	assert.Equal(t, []string{providers.DebugKey}, debugClass.Provides)
}

func TestFrameworkProviders_Register(t *testing.T) {
	t.Setenv("LOG_FORMAT", "console")
	c := newApp(t)

	require.NoError(t, c.RegisterProviders(providers.Classes()...))

	cfg, err := container.Resolve[*config.Config](c, providers.ConfigKey)
	require.NoError(t, err)
	assert.Equal(t, "console", cfg.Log.Format)

	logger, err := container.Resolve[*zap.Logger](c, providers.LogKey)
	require.NoError(t, err)
	assert.NotNil(t, logger)

	assert.True(t, c.Has("Log"), "log provider is keyed by its facade alias")
	assert.False(t, c.Has(providers.DebugKey), "debug provider stays deferred")
}

func TestConfigServiceProvider_KeepsBoundConfig(t *testing.T) {
	c := newApp(t)
	pre := &config.Config{App: config.AppConfig{Name: "preloaded"}}
	require.NoError(t, c.Singleton(providers.ConfigKey, pre))

	require.NoError(t, c.RegisterProviders(providers.ConfigProvider))

	got := container.MustResolve[*config.Config](c, providers.ConfigKey)
	assert.Same(t, pre, got)
}

func TestLogServiceProvider_InvalidConfig(t *testing.T) {
	c := newApp(t)
	require.NoError(t, c.Singleton(providers.ConfigKey, &config.Config{
		Log: config.LogConfig{Level: "loud"},
	}))
	c.Register(&providers.LogServiceProvider{})

	_, err := c.Get(providers.LogKey)
	assert.Error(t, err)
}

func TestLogFacade(t *testing.T) {
	c := newApp(t)
	require.NoError(t, c.Singleton(providers.LogKey, zap.NewNop()))

	_, err := facade.Forward(c, providers.LogFacade{}, "Info", "via facade")
	assert.NoError(t, err)
}

func TestDebugServiceProvider_PromotedOnRequest(t *testing.T) {
	c := newApp(t)
	reg := prometheus.NewRegistry()
	require.NoError(t, c.Singleton(providers.GathererKey, reg))
	require.NoError(t, c.RegisterProviders(providers.DebugProvider))

	h, err := container.Resolve[http.Handler](c, providers.DebugKey)
	require.NoError(t, err)
	assert.Empty(t, c.GetDeferredServices())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}
