package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/tactic-hr/insights-backend-go/internal/config"
	appHTTP "github.com/tactic-hr/insights-backend-go/internal/handler/http"
	"github.com/tactic-hr/insights-backend-go/internal/model"
	"github.com/tactic-hr/insights-backend-go/internal/pkg/cron"
	"github.com/tactic-hr/insights-backend-go/internal/pkg/database"
	"github.com/tactic-hr/insights-backend-go/internal/repository/postgresql"
	matchingService "github.com/tactic-hr/insights-backend-go/internal/service/matching"
	"github.com/tactic-hr/insights-backend-go/internal/service/pipeline"
	predictionService "github.com/tactic-hr/insights-backend-go/internal/service/prediction"
	trainingService "github.com/tactic-hr/insights-backend-go/internal/service/training"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	logger := newLogger(cfg.App.LogLevel)

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	jobRepo := postgresql.NewJobRepository(db)

	featurePipeline := pipeline.New(employeeRepo, attendanceRepo, leaveRepo, jobRepo, cfg.Features.WindowMonths)

	registry, err := model.NewRegistry(cfg.Models.Dir, logger)
	if err != nil {
		fmt.Println("Error initializing model registry:", err)
		return
	}

	predictionSvc := predictionService.NewPredictionService(
		employeeRepo,
		featurePipeline,
		registry.Attendance(),
		registry.Performance(),
		logger,
	)
	matchingSvc := matchingService.NewMatchingService(
		employeeRepo,
		jobRepo,
		featurePipeline,
		registry.Matching(),
	)
	trainingSvc := trainingService.NewTrainingService(featurePipeline, registry, jobRepo, logger)

	predictionHandler := appHTTP.NewPredictionHandler(predictionSvc)
	matchingHandler := appHTTP.NewMatchingHandler(matchingSvc)
	trainingHandler := appHTTP.NewTrainingHandler(trainingSvc)

	router := appHTTP.NewRouter(
		predictionHandler,
		matchingHandler,
		trainingHandler,
	)

	scheduler := cron.NewScheduler()
	trainingJobs := cron.NewTrainingJobs(trainingSvc, cfg.Training.Weekday, cfg.Training.Hour)
	trainingJobs.RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
