package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

func NewRouter(env string, timeclockHandler TimeclockHandler, payrollHandler PayrollHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "pharmtrack"),
		slog.String("version", "v1.0.0"),
		slog.String("env", env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
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

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/attendance", func(r chi.Router) {
			r.Post("/clock-in", timeclockHandler.ClockIn)
			r.Post("/clock-out", timeclockHandler.ClockOut)
			r.Get("/open", timeclockHandler.GetOpenSession)
			r.Get("/daily", payrollHandler.GetDailyAggregate)

			r.Route("/breaks", func(r chi.Router) {
				r.Post("/", timeclockHandler.StartBreak)
				r.Post("/{id}/end", timeclockHandler.EndBreak)
			})
		})

		r.Route("/payroll", func(r chi.Router) {
			r.Get("/day", payrollHandler.GetPayableDay)
			r.Get("/summary", payrollHandler.GetSummary)
			r.Get("/branches/{id}/summary", payrollHandler.GetBranchSummaries)
		})
	})
	return r
}
