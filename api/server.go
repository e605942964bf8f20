/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     Structured request logging (zerolog)
  3. Metrics:    Prometheus request counters and latency
  4. Recoverer:  Panic recovery (500 instead of crash)
  5. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/employees/*      Employee management
  /api/costs/*          Cost previews
  /api/summary          Roster roll-up
  /api/rates            Active rates
  /api/scenarios/*      Demo scenarios
  /metrics              Prometheus scrape endpoint
  /healthz              Liveness
  /                     Endpoint index

SECURITY NOTE:
  No authentication middleware. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/warp/benefits-engine/obs"
)

// RouterConfig carries the cross-cutting pieces of the router.
type RouterConfig struct {
	AllowedOrigins []string
	Logger         zerolog.Logger
	HTTPMetrics    *obs.HTTPMetrics
	// Gatherer backs /metrics; nil uses the default registry.
	Gatherer prometheus.Gatherer
}

var defaultOrigins = []string{"http://localhost:5173", "http://localhost:8080"}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = defaultOrigins
	}
	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(obs.RequestLogger{Logger: cfg.Logger}.Middleware)
	r.Use(obs.HTTPObs{Metrics: cfg.HTTPMetrics}.Middleware)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Employee routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Get("/{id}", h.GetEmployee)
			r.Put("/{id}", h.UpdateEmployee)
			r.Delete("/{id}", h.DeleteEmployee)
			r.Get("/{id}/costs", h.GetEmployeeCosts)
		})

		r.Post("/costs/preview", h.PreviewCosts)
		r.Get("/summary", h.GetSummary)
		r.Get("/rates", h.GetRates)

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
		})
	})

	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.Get("/healthz", h.Health)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(indexPage))
	})

	return r
}

const indexPage = `<!DOCTYPE html>
<html>
<head><title>Benefits Cost Engine</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Benefits Cost Engine API</h1>
<h2>API Endpoints</h2>
<ul>
<li><a href="/api/employees">/api/employees</a> - List employees (?q=, page, limit)</li>
<li><a href="/api/summary">/api/summary</a> - Cost summary</li>
<li><a href="/api/rates">/api/rates</a> - Active rates</li>
<li><a href="/api/scenarios">/api/scenarios</a> - Demo scenarios</li>
<li><a href="/metrics">/metrics</a> - Prometheus metrics</li>
</ul>
</body>
</html>`
