package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"recipe-explorer/internal/config"
	"recipe-explorer/internal/handler"
	"recipe-explorer/internal/middleware"
)

type Handlers struct {
	Auth   *handler.AuthHandler
	Recipe *handler.RecipeHandler
	Search *handler.SearchHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/register", h.Auth.Register)
			auth.Post("/login", h.Auth.Login)
			auth.With(authMiddleware.RequireAuth).Post("/logout", h.Auth.Logout)
			auth.With(authMiddleware.RequireAuth).Get("/me", h.Auth.Me)
		})

		api.Route("/recipes", func(recipes chi.Router) {
			recipes.Get("/", h.Recipe.List)
			recipes.With(authMiddleware.RequireAuth).Post("/", h.Recipe.Create)
			recipes.Get("/{recipe_id}", h.Recipe.Get)
			recipes.With(authMiddleware.RequireAuth).Put("/{recipe_id}", h.Recipe.Update)
			recipes.With(authMiddleware.RequireAuth).Delete("/{recipe_id}", h.Recipe.Delete)
			recipes.With(authMiddleware.RequireAuth).Post("/{recipe_id}/rate", h.Recipe.Rate)
		})

		api.Get("/search", h.Search.Search)
	})

	return r
}
