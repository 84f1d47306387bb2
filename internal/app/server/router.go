package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"

	"hrms/internal/platform/config"
	"hrms/internal/platform/metrics"
	"hrms/internal/transport/http/api"
	attendancehandler "hrms/internal/transport/http/handlers/attendance"
	audithandler "hrms/internal/transport/http/handlers/audit"
	authhandler "hrms/internal/transport/http/handlers/auth"
	corehandler "hrms/internal/transport/http/handlers/core"
	leavehandler "hrms/internal/transport/http/handlers/leave"
	notificationshandler "hrms/internal/transport/http/handlers/notifications"
	payrollhandler "hrms/internal/transport/http/handlers/payroll"
	"hrms/internal/transport/http/middleware"
)

// Pinger reports whether the database accepts connections.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handlers struct {
	Auth          *authhandler.Handler
	Core          *corehandler.Handler
	Leave         *leavehandler.Handler
	Attendance    *attendancehandler.Handler
	Payroll       *payrollhandler.Handler
	Notifications *notificationshandler.Handler
	Audit         *audithandler.Handler
}

type RouterDeps struct {
	Config   config.Config
	Logger   *slog.Logger
	Ready    Pinger
	Metrics  *metrics.Collector
	Handlers Handlers
}

// NewLogger builds the JSON logger in the ECS layout httplog emits.
func NewLogger(cfg config.Config, out io.Writer) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(cfg.Environment != "development")
	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hrms"),
		slog.String("env", cfg.Environment),
	)
}

func NewRouter(deps RouterDeps) http.Handler {
	cfg := deps.Config
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
		MaxAge:           300,
	}))
	if deps.Logger != nil {
		r.Use(httplog.RequestLogger(deps.Logger, &httplog.Options{
			Level:  slog.LevelInfo,
			Schema: httplog.SchemaECS,
		}))
	}
	r.Use(chimiddleware.CleanPath)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	r.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
	}
	r.Use(middleware.Auth(cfg.JWTSecret))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, map[string]string{"status": "ok"}, middleware.GetRequestID(r.Context()))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		reqID := middleware.GetRequestID(r.Context())
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if deps.Ready == nil || deps.Ready.Ping(ctx) != nil {
			api.Fail(w, http.StatusServiceUnavailable, "NOT_READY", "database not ready", reqID)
			return
		}
		api.Success(w, map[string]string{"status": "ready"}, reqID)
	})
	if cfg.MetricsEnabled && deps.Metrics != nil {
		r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, deps.Metrics.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	h := deps.Handlers
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
		r.Use(middleware.SensitiveMutationRateLimit(cfg.RateLimitPerMinute, time.Minute))

		if h.Auth != nil {
			r.Post("/auth/login", h.Auth.HandleLogin)
			r.Get("/auth/me", h.Auth.HandleMe)
		}
		if h.Core != nil {
			h.Core.RegisterRoutes(r)
		}
		if h.Leave != nil {
			h.Leave.RegisterRoutes(r)
		}
		if h.Attendance != nil {
			h.Attendance.RegisterRoutes(r)
		}
		if h.Payroll != nil {
			h.Payroll.RegisterRoutes(r)
		}
		if h.Notifications != nil {
			h.Notifications.RegisterRoutes(r)
		}
		if h.Audit != nil {
			h.Audit.RegisterRoutes(r)
		}
	})
	return r
}
