package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/chargehub/chargehub-go/internal/middleware"
)

// RouterDeps holds everything NewRouter wires together.
type RouterDeps struct {
	Auth           *AuthHandler
	Stations       *StationHandler
	Health         *HealthHandler
	Verifier       middleware.TokenVerifier
	AuthLimiter    *middleware.RateLimiter
	AllowedOrigins []string
	Logger         *zap.Logger
}

// NewRouter builds the HTTP routing tree.
func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.Recoverer(d.Logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/", d.Health.HandleRoot)
	r.Get("/health", d.Health.HandleHealth)

	requireAuth := middleware.JWTAuth(d.Verifier)

	r.Route("/api/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(d.AuthLimiter.Middleware)
			r.Post("/signup", d.Auth.HandleSignup)
			r.Post("/login", d.Auth.HandleLogin)
		})
		r.With(requireAuth).Get("/me", d.Auth.HandleMe)
	})

	r.Route("/api/charging-stations", func(r chi.Router) {
		r.With(requireAuth).Post("/", d.Stations.HandleCreate)
		r.With(requireAuth).Get("/", d.Stations.HandleList)
		r.With(middleware.OptionalJWTAuth(d.Verifier)).Get("/{id}", d.Stations.HandleGet)
		r.With(requireAuth).Put("/{id}", d.Stations.HandleUpdate)
		r.With(requireAuth).Delete("/{id}", d.Stations.HandleDelete)
	})

	return r
}
