package httpserver

import (
	"net/http"
	"time"

	"packlist-go/internal/config"
	"packlist-go/internal/transport/httpserver/handler"
	"packlist-go/internal/transport/httpserver/middleware"
	"packlist-go/pkg/logger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, tokens middleware.TokenVerifier, users middleware.UserEnsurer, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.NewCORS(cfg.AllowedOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)
		r.Post("/auth/register", handlers.Register)
		r.Post("/auth/login", handlers.Login)

		auth := middleware.NewAuth(cfg.Auth, tokens, users, log)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/auth/me", handlers.Me)

			r.Get("/templates", handlers.ListTemplates)
			r.Get("/templates/{id}", handlers.GetTemplate)
			r.Post("/templates", handlers.CreateTemplate)

			r.Get("/checklists", handlers.ListChecklists)
			r.Post("/checklists", handlers.CreateChecklist)
			r.Get("/checklists/{id}", handlers.GetChecklist)
			r.Delete("/checklists/{id}", handlers.DeleteChecklist)
			r.Post("/checklists/{id}/items", handlers.AddChecklistItem)
			r.Patch("/checklists/{id}/items/{itemId}", handlers.ToggleChecklistItem)
			r.Delete("/checklists/{id}/items/{itemId}", handlers.DeleteChecklistItem)

			r.Get("/family", handlers.GetFamily)
			r.Post("/family/create", handlers.CreateFamily)
			r.Post("/family/join", handlers.JoinFamily)
			r.Post("/family/leave", handlers.LeaveFamily)
		})
	})

	return r
}
