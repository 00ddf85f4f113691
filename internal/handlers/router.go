package handlers

import (
	"net/http"
	"taskBoard/internal/middleware"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type RouterConfig struct {
	RateLimitRPM  int
	RateLimitIdle time.Duration
	CORSOrigins   []string
	Tracing       bool
}

func NewRouter(tasks TaskHandler, users AuthHandler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.Recover)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.RateLimit(cfg.RateLimitRPM, cfg.RateLimitIdle))

	r.Get("/health", tasks.HealthCheck)
	r.Post("/register", users.Register)
	r.Post("/login", users.Login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(users.UserService))

		r.Post("/logout", users.Logout)

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", tasks.ListTasks) // GET /tasks
			r.Post("/", tasks.PostTask) // POST /tasks

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", tasks.GetTaskByID)       // GET /tasks/{id}
				r.Put("/", tasks.UpdateTaskByID)    // PUT /tasks/{id}
				r.Delete("/", tasks.DeleteTaskByID) // DELETE /tasks/{id}

				r.Post("/status", tasks.UpdateStatus) // POST /tasks/{id}/status
				r.Post("/cancel", tasks.CancelTask)   // POST /tasks/{id}/cancel
			})
		})
	})

	if !cfg.Tracing {
		return r
	}
	return otelhttp.NewHandler(r, "taskboard",
		otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}))
}
