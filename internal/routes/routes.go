package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	"PROFILES_BACK-END/internal/handlers"
	"PROFILES_BACK-END/internal/middleware"
	"PROFILES_BACK-END/internal/utils"
)

// Options toggles optional routes
type Options struct {
	Swagger bool
}

// SetupRoutes configures all application routes
func SetupRoutes(
	profileHandler *handlers.ProfileHandler,
	healthHandler *handlers.HealthHandler,
	logger *zap.Logger,
	opts Options,
) chi.Router {
	r := chi.NewRouter()

	// ---- Global Middleware ----
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteErrorResponse(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	// Health check routes
	r.Get("/healthz", healthHandler.HealthCheck)
	r.Get("/livez", healthHandler.LivenessCheck)
	r.Get("/readyz", healthHandler.ReadinessCheck)

	// Profile routes
	r.Route("/api/profiles", func(pr chi.Router) {
		pr.Get("/", profileHandler.List)
		pr.Post("/", profileHandler.Create)
		pr.Get("/{id}", profileHandler.Get)
		pr.Put("/{id}", profileHandler.Update)
		pr.Delete("/{id}", profileHandler.Delete)
	})

	if opts.Swagger {
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	}

	// Root route
	r.Get("/", rootHandler)

	return r
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("Profiles backend is running."))
}
