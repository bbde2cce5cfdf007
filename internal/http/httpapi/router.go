package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"batchedit/internal/http/handlers"
	"batchedit/internal/middleware"
)

// Options tunes the outer HTTP surface. Zero values disable CORS and the
// edit-run rate limit.
type Options struct {
	AllowedOrigins []string
	EditRateLimit  int
	EditRateWindow time.Duration
}

// NewRouter wires the session boundary: upload, remove and run, plus result
// downloads. The surrounding UI only ever talks to these routes.
func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Logger),
	)
	if len(opts.AllowedOrigins) > 0 {
		r.Use(middleware.CORS(opts.AllowedOrigins))
	}

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/session", func(r chi.Router) {
		r.Delete("/", app.SessionClear)

		r.Route("/images", func(r chi.Router) {
			r.Post("/", app.SessionUpload)
			r.Get("/", app.SessionList)
			r.Delete("/{fingerprint}", app.SessionRemove)
		})

		if opts.EditRateLimit > 0 {
			r.With(middleware.RateLimit(opts.EditRateLimit, opts.EditRateWindow)).
				Post("/edits", app.EditsRun)
		} else {
			r.Post("/edits", app.EditsRun)
		}

		r.Route("/results", func(r chi.Router) {
			r.Get("/", app.ResultsList)
			r.Delete("/", app.ResultsClear)
			r.Get("/archive", app.ArchiveDownload)
			r.Get("/{fingerprint}/download", app.ResultDownload)
		})
	})

	return r
}
