package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"fixmycity/internal/handler"
	"fixmycity/internal/httputil"
	authmw "fixmycity/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler   *handler.AuthHandler
	ReportHandler *handler.ReportHandler
	JWTSecret     string
	// RequestLog toggles chi's request logger; tests turn it off.
	RequestLog bool
}

// NewRouter creates the sandbox API router. Everything but /health lives under /api.
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	if cfg.RequestLog {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		// Public routes - no authentication required
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", cfg.AuthHandler.Register)
			r.Post("/login", cfg.AuthHandler.Login)
		})

		r.Route("/report", func(r chi.Router) {
			r.Use(authmw.AuthMiddleware(cfg.JWTSecret))

			r.Get("/", cfg.ReportHandler.List)
			r.Post("/", cfg.ReportHandler.Create)
			r.Get("/mine", cfg.ReportHandler.Mine)
			r.Delete("/{id}", cfg.ReportHandler.Delete)
		})
	})

	return r
}
