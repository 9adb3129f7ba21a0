// Package debug serves a read-only JSON view of a container: its bindings,
// providers, deferred services, aliases, tags and classes, plus the
// Prometheus metrics of the process.
//
//	GET /healthz
//	GET /container/bindings
//	GET /container/bindings/{key}
//	GET /container/providers
//	GET /container/deferred
//	GET /container/aliases
//	GET /container/tags
//	GET /container/classes
//	GET /metrics
//
// Nothing here resolves a service, so inspecting a deferred provider never
// promotes it.
package debug

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/km-arc/go-simpla/framework/container"
)

// Binding describes one bound key.
type Binding struct {
	Key    string `json:"key"`
	Frozen bool   `json:"frozen"`
}

// Handler returns the debug surface for c. With a nil gatherer /metrics is
// not mounted.
func Handler(c *container.Container, gatherer prometheus.Gatherer) http.Handler {
	r := NewRouter()
	r.Middleware(middleware.NoCache)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, envelope{"status": "ok", "container_id": c.ID()})
	})

	r.Prefix("/container", func(r *Router) {
		r.Get("/bindings", func(w http.ResponseWriter, _ *http.Request) {
			keys := c.Keys()
			out := make([]Binding, len(keys))
			for i, key := range keys {
				out[i] = Binding{Key: key, Frozen: c.Frozen(key)}
			}
			success(w, out)
		})

		r.Get("/bindings/{key}", func(w http.ResponseWriter, req *http.Request) {
			key := Param(req, "key")
			if !c.Has(key) {
				notFound(w, "binding ["+key+"] is not defined")
				return
			}
			success(w, Binding{Key: key, Frozen: c.Frozen(key)})
		})

		r.Get("/providers", func(w http.ResponseWriter, _ *http.Request) {
			success(w, c.GetProviders())
		})

		r.Get("/deferred", func(w http.ResponseWriter, _ *http.Request) {
			success(w, c.GetDeferredServices())
		})

		r.Get("/aliases", func(w http.ResponseWriter, _ *http.Request) {
			success(w, c.Aliases())
		})

		r.Get("/tags", func(w http.ResponseWriter, _ *http.Request) {
			success(w, c.Tags())
		})

		r.Get("/classes", func(w http.ResponseWriter, _ *http.Request) {
			success(w, c.Classes().Names())
		})
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	return r
}
