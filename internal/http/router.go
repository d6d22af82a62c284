package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

type RouterConfig struct {
	Auth           *AuthHandler
	Services       *ServiceHandler
	Appointments   *AppointmentHandler
	Admin          *AdminHandler
	Feeds          *FeedHandler
	Sessions       SessionValidator
	AllowedOrigins []string
	Logger         *slog.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	router := chi.NewRouter()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Session-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Use(RequestLogger(cfg.Logger))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	if cfg.Auth != nil {
		router.Post("/signup", cfg.Auth.SignUp)
		router.Post("/signin", cfg.Auth.SignIn)
		router.Post("/signout", cfg.Auth.SignOut)
	}

	if cfg.Sessions == nil {
		return router
	}
	requireSession := RequireSession(cfg.Sessions, cfg.Logger)
	requireAdmin := RequireAdmin(cfg.Logger)

	router.Group(func(r chi.Router) {
		r.Use(requireSession)

		if cfg.Auth != nil {
			r.Get("/session", cfg.Auth.Session)
			r.Post("/session/admin", cfg.Auth.Elevate)
		}

		if cfg.Services != nil {
			r.Get("/services", cfg.Services.List)
			r.Get("/services/{id}", cfg.Services.Get)
			r.Get("/services/{id}/slots", cfg.Services.Slots)
		}

		if cfg.Appointments != nil {
			r.Post("/appointments", cfg.Appointments.Book)
			r.Get("/appointments/mine", cfg.Appointments.Mine)
		}

		if cfg.Feeds != nil {
			r.Get("/ws/appointments", cfg.Feeds.Appointments)
			r.Get("/ws/services", cfg.Feeds.Services)
		}

		r.Group(func(admin chi.Router) {
			admin.Use(requireAdmin)

			if cfg.Services != nil {
				admin.Post("/services", cfg.Services.Create)
				admin.Put("/services/{id}", cfg.Services.Update)
				admin.Delete("/services/{id}", cfg.Services.Delete)
			}

			if cfg.Appointments != nil {
				admin.Get("/admin/appointments", cfg.Appointments.AdminList)
				admin.Post("/admin/appointments/{id}/approve", cfg.Appointments.Approve)
				admin.Post("/admin/appointments/{id}/cancel", cfg.Appointments.Cancel)
			}

			if cfg.Admin != nil {
				admin.Get("/admin/dashboard", cfg.Admin.Dashboard)
				admin.Get("/admin/analytics", cfg.Admin.Analytics)
			}
		})
	})

	return router
}
