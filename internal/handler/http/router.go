package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

func NewRouter(
	predictionHandler PredictionHandler,
	matchingHandler MatchingHandler,
	trainingHandler TrainingHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "insights-backend"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
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
		r.Route("/match", func(r chi.Router) {
			r.Post("/", matchingHandler.Match)
			r.Post("/rule", matchingHandler.MatchRule)
		})

		r.Route("/predictions", func(r chi.Router) {
			r.Route("/attendance", func(r chi.Router) {
				r.Get("/", predictionHandler.GetAttendanceAll)
				r.Get("/{id}", predictionHandler.GetAttendanceByID)
			})
			r.Route("/performance", func(r chi.Router) {
				r.Get("/", predictionHandler.GetPerformanceAll)
				r.Get("/{id}", predictionHandler.GetPerformanceByID)
			})
			r.Get("/dashboard-kpis", predictionHandler.GetDashboardKPIs)
		})

		r.Route("/train", func(r chi.Router) {
			r.Get("/status", trainingHandler.Status)
			r.Post("/{model}", trainingHandler.Train)
		})
	})
	return r
}
