// Package httptransport is the thin HTTP layer over the routing domain. It
// decodes, delegates, and encodes; no business rule lives here.
package httptransport

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"filetrack/internal/platform/middleware"
	"filetrack/pkg/platform/httputil"
)

// Deps collects everything the router mounts.
type Deps struct {
	Files     *FilesHandler
	Routing   *RoutingHandler
	Directory *DirectoryHandler

	Validator middleware.TokenValidator
	Gatherer  prometheus.Gatherer
}

// NewRouter assembles the full middleware chain and mounts all endpoints.
// Everything under /files and /directory requires a bearer token; /healthz
// and /metrics stay open for probes and scrapers.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(d.Files.logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(d.Files.logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.Latency(d.Files.metrics))

	r.Get("/healthz", handleHealthz)
	if d.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		r.Use(middleware.RequireAuth(d.Validator, d.Files.logger))
		d.Files.Register(r)
		d.Routing.Register(r)
		d.Directory.Register(r)
	})

	return r
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
