package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"dreamworld/internal/http/handlers"
	"dreamworld/internal/infra"
	"dreamworld/internal/middleware"
)

// Options configures the middleware chain.
type Options struct {
	Logger          infra.Logger
	AllowedOrigins  []string
	RateLimitPerMin int
	DefaultLocale   string
	CountryLookup   middleware.CountryLookup
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(
		chimw.RealIP,
		middleware.RequestID,
		middleware.Logger(opts.Logger),
		chimw.Recoverer,
		middleware.CORS(opts.AllowedOrigins),
		middleware.I18N(opts.DefaultLocale, opts.CountryLookup),
	)

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/themes", func(r chi.Router) {
		r.Get("/", app.ListThemes)
		r.Get("/{name}", app.GetTheme)
		r.Get("/{name}/seasons", app.ThemeSeasons)
	})
	r.Get("/v1/aspect-ratios", app.ListAspectRatios)
	r.Post("/v1/prompts/resolve", app.ResolvePrompt)

	r.Route("/v1/generations", func(r chi.Router) {
		r.With(middleware.RateLimit(opts.RateLimitPerMin, time.Minute)).Post("/", app.CreateGeneration)
		r.Get("/", app.ListGenerations)
	})

	r.Get("/v1/outputs.zip", app.OutputsZip)
	r.Get("/v1/outputs/{file}", app.OutputFile)

	return r
}
