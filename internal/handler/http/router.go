package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/attendance-core-go/internal/config"
	"github.com/cmlabs-hris/attendance-core-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-core-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	cfg *config.Config,
	jwtService jwt.Service,
	registry *prometheus.Registry,
	authHandler AuthHandler,
	attendanceHandler AttendanceHandler,
	employeeHandler EmployeeHandler,
	locationHandler LocationHandler,
	reportHandler ReportHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-core"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.App.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Method("GET", "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/kiosk", authHandler.KioskLogin)
		})

		// Requires a kiosk token
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.KioskRequired(jwtService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/scan", attendanceHandler.Scan)
				r.Get("/records", attendanceHandler.List)
				r.Get("/status/{employeeID}", attendanceHandler.Status)
			})

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", employeeHandler.List)
				r.Post("/", employeeHandler.Register)
				r.Get("/{employeeID}", employeeHandler.Get)
				r.Delete("/{employeeID}", employeeHandler.Deactivate)
			})

			r.Route("/locations", func(r chi.Router) {
				r.Get("/favorites", locationHandler.List)
				r.Post("/favorites", locationHandler.Create)
				r.Delete("/favorites/{id}", locationHandler.Delete)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Get("/daily", reportHandler.DailySummary)
				r.Get("/statistics", reportHandler.Statistics)
			})
		})
	})

	return r
}
