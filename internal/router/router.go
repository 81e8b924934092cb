package router

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"flexbo-edge/internal/handlers"
	"flexbo-edge/internal/metrics"
	"flexbo-edge/internal/middleware"
)

// Deps carries everything the edge router dispatches to.
type Deps struct {
	Contact   *handlers.ContactHandler
	Forwarder http.Handler
	Metrics   *metrics.Metrics
	Limiter   *middleware.InflightLimiter

	MediaDir    string
	DistDir     string
	FrontendURL string
	Log         zerolog.Logger
}

// New wires the dispatch table into a chi router. Registration order
// mirrors DefaultTable: direct handlers before the API proxy, media
// before the SPA fallback.
func New(deps Deps) http.Handler {
	table := DefaultTable()

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(deps.Log))
	if deps.Metrics != nil {
		r.Use(middleware.Dispatch(
			func(method, path string) string { return string(table.Match(method, path)) },
			deps.Metrics.RecordDispatch,
		))
	}
	r.Use(middleware.CORS(deps.FrontendURL))

	// 1) Health check, answered locally, never forwarded
	r.Get("/api/health", handlers.Health)

	// 2) Contact form stays on the edge
	r.Post("/api/forward", deps.Contact.Forward)

	if deps.Metrics != nil {
		r.Get("/metrics", deps.Metrics.Handler().ServeHTTP)
	}

	// 3) Everything else under /api goes to the backend. The mount
	// strips /api; the forwarder restores it so the upstream sees the
	// original path.
	proxyHandler := http.StripPrefix("/api", deps.Forwarder)
	if deps.Limiter != nil {
		proxyHandler = deps.Limiter.Middleware(proxyHandler)
	}
	r.Handle("/api", proxyHandler)
	r.Handle("/api/*", proxyHandler)

	// 4) Media volume
	r.Handle("/media/*", http.StripPrefix("/media", http.FileServer(http.Dir(deps.MediaDir))))

	// 5) SPA: any other GET serves the root document and lets the
	// client-side router take over
	r.NotFound(spaHandler(deps.DistDir))

	return r
}

func spaHandler(distDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.NotFound(w, r)
			return
		}
		if strings.HasPrefix(r.URL.Path, "/api") {
			http.NotFound(w, r)
			return
		}

		// Serve built assets directly when they exist on disk.
		clean := filepath.Clean("/" + r.URL.Path)
		file := filepath.Join(distDir, clean)
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			http.ServeFile(w, r, file)
			return
		}

		http.ServeFile(w, r, filepath.Join(distDir, "index.html"))
	}
}
