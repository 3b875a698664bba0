package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/iris/internal/domain"
	"github.com/amirhosseinghanipour/iris/internal/infrastructure/http/handlers"
	"github.com/amirhosseinghanipour/iris/internal/infrastructure/http/middleware"
	"github.com/amirhosseinghanipour/iris/internal/infrastructure/http/respond"
)

type RouterConfig struct {
	AuthHandler     *handlers.AuthHandler
	OAuthHandler    *handlers.OAuthHandler
	UsersHandler    *handlers.UsersHandler
	ProjectsHandler *handlers.ProjectsHandler
	AdminHandler    *handlers.AdminHandler
	HealthHandler   *handlers.HealthHandler
	Resolver        middleware.IdentityResolver
	Log             zerolog.Logger
	Version         string
	Secure          func(http.Handler) http.Handler
	CORS            func(http.Handler) http.Handler
	IPRateLimit     func(http.Handler) http.Handler
	AccountLimit    func(http.Handler) http.Handler // per-account, after Authenticate
	Metrics         bool                            // expose /metrics
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimid.RequestID)
	r.Use(chimid.RealIP)
	r.Use(loggerMiddleware(cfg.Log))
	r.Use(chimid.Recoverer)
	if cfg.Metrics {
		r.Use(middleware.PrometheusMiddleware)
	}
	if cfg.Secure != nil {
		r.Use(cfg.Secure)
	}
	if cfg.CORS != nil {
		r.Use(cfg.CORS)
	}
	r.Use(middleware.APIVersion(cfg.Version))
	r.Use(chimid.AllowContentType("application/json"))
	if cfg.IPRateLimit != nil {
		r.Use(cfg.IPRateLimit)
	}
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respond.Error(w, http.StatusNotFound, respond.CodeNotFound, "route not found")
	})

	if cfg.HealthHandler != nil {
		r.Get("/health", cfg.HealthHandler.ServeHTTP)
	} else {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
	}
	if cfg.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	authed := func(r chi.Router) {
		r.Use(middleware.Authenticate(cfg.Resolver))
		if cfg.AccountLimit != nil {
			r.Use(cfg.AccountLimit)
		}
	}

	r.Route("/auth", func(r chi.Router) {
		if cfg.AuthHandler != nil {
			r.Post("/signin", cfg.AuthHandler.SignIn)
			if cfg.AuthHandler.DevLoginEnabled() {
				r.Post("/test-login", cfg.AuthHandler.TestLogin)
			}
		}
		if cfg.OAuthHandler != nil {
			r.Get("/login", cfg.OAuthHandler.Begin)
			r.Get("/github", cfg.OAuthHandler.Begin)
			r.Get("/callback", cfg.OAuthHandler.Callback)
			r.Get("/github/callback", cfg.OAuthHandler.Callback)
		}
	})

	if cfg.UsersHandler != nil {
		r.Route("/users", func(r chi.Router) {
			authed(r)
			r.Get("/me", cfg.UsersHandler.Me)
		})
	}

	if cfg.ProjectsHandler != nil {
		r.Route("/projects", func(r chi.Router) {
			authed(r)
			r.Get("/user", cfg.ProjectsHandler.Mine)
			r.Post("/join-request", cfg.ProjectsHandler.CreateJoinRequest)
			r.Patch("/join-request/{id}", cfg.ProjectsHandler.DecideJoinRequest)
			r.Get("/{id}", cfg.ProjectsHandler.Get)
			r.Get("/{id}/join-requests", cfg.ProjectsHandler.ListJoinRequests)
			r.Post("/{id}/members/remove", cfg.ProjectsHandler.RemoveMember)
		})
	}

	if cfg.AdminHandler != nil {
		r.Route("/admin", func(r chi.Router) {
			authed(r)
			r.Use(middleware.RequireRole(domain.RoleAdmin))
			r.Post("/users", cfg.AdminHandler.CreateAccount)
			r.Patch("/users/{id}/role", cfg.AdminHandler.UpdateRole)
			r.Delete("/users/{id}", cfg.AdminHandler.DeleteAccount)
			r.Post("/projects", cfg.AdminHandler.CreateProject)
			r.Patch("/projects/{id}/lead", cfg.AdminHandler.SetLead)
			r.Post("/projects/{id}/members", cfg.AdminHandler.AssignMember)
			r.Delete("/projects/{id}/members/{user_id}", cfg.AdminHandler.RemoveMember)
			r.Delete("/projects/{id}", cfg.AdminHandler.DeleteProject)
		})
	}

	return r
}

// loggerMiddleware puts a request-scoped logger into the context and logs
// each request once it completes.
func loggerMiddleware(log zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqLog := log.With().Str("request_id", chimid.GetReqID(r.Context())).Logger()
			ctx := reqLog.WithContext(r.Context())
			ww := chimid.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r.WithContext(ctx))
			reqLog.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}
