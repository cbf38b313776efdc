package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/hris-shift-engine/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

type RouterOptions struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	LogLevel       slog.Level
}

func NewRouter(opts RouterOptions, shiftHandler ShiftHandler) *chi.Mux {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentType("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.MethodNotAllowed(w)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/engine", func(r chi.Router) {
			r.Post("/classify", shiftHandler.ClassifyPunch)
			r.Post("/working-hours", shiftHandler.ComputeWorkingHours)
		})

		r.Route("/punches", func(r chi.Router) {
			r.Post("/", shiftHandler.RecordPunch)
			r.Post("/batch", shiftHandler.EnqueuePunches)
		})

		r.Route("/employees/{employeeID}", func(r chi.Router) {
			r.Get("/working-hours", shiftHandler.GetEmployeeWorkingHours)
			r.Get("/overtime", shiftHandler.ListEmployeeOvertime)
			r.Post("/assignments", shiftHandler.AssignShiftPattern)
		})

		r.Get("/shift-patterns/{id}", shiftHandler.GetShiftPattern)
	})

	return r
}

// NewLogger builds the ECS JSON logger shared by the router and the app.
func NewLogger(env string, level slog.Level) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(env != "production")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hris-shift-engine"),
		slog.String("version", "v1.0.0"),
		slog.String("env", env),
	)
}
