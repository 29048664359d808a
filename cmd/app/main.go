package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/peterbourgon/ff/v3"
	"golang.org/x/net/netutil"
	"golang.org/x/term"

	"survey-assessment-backend/internal/config"
	"survey-assessment-backend/internal/controller"
	"survey-assessment-backend/internal/db"
	"survey-assessment-backend/internal/repository"
	"survey-assessment-backend/internal/service"
	"survey-assessment-backend/pkg/middleware"
	"survey-assessment-backend/utilities"
)

const version = "1.0.0"

func main() {
	fs := flag.NewFlagSet("survey-assessment", flag.ExitOnError)
	var (
		configPath = fs.String("config", "config.xml", "XML configuration file")
		envFile    = fs.String("env-file", ".env", "dotenv file loaded before SURVEY_* overrides")
		port       = fs.Int("port", 0, "listen port, overrides CONTEXT/PORT")
		store      = fs.String("store", "", "assessment store: memory, postgres, redis or mongo")
		logLevel   = fs.String("log-level", "", "DEBUG, INFO, WARN or ERROR")
	)
	if err := ff.Parse(fs, os.Args[1:], ff.WithEnvVarPrefix("SURVEY")); err != nil {
		fmt.Fprintf(os.Stderr, "cannot parse flags: %v\n", err)
		os.Exit(2)
	}

	if err := config.LoadEnvFile(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "cannot load %s: %v\n", *envFile, err)
		os.Exit(1)
	}
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.ApplyEnvOverrides(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid environment: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Context.Port = *port
	}
	if *store != "" {
		cfg.Store.Backend = *store
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	if err := utilities.SetupLogging(utilities.LogOptions{
		Dir:        cfg.Logging.Dir,
		Level:      utilities.ParseLevel(cfg.Logging.Level),
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "cannot set up logging: %v\n", err)
		os.Exit(1)
	}
	defer utilities.CloseLogging()

	printStartUpBanner()

	if err := run(cfg); err != nil {
		utilities.Error("Server stopped: %v", err)
		utilities.CloseLogging()
		os.Exit(1)
	}
}

func run(cfg *config.APIConfig) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	registry := seedRegistry()
	bus := utilities.NewEventBus()
	subscribeListeners(bus, registry)
	defer bus.Wait()

	surveyService := service.NewSurveyService(registry, repo, bus)
	summaryService := service.NewSummaryService(registry, repo)
	reportService := service.NewReportService(registry, surveyService)

	if utilities.ParseLevel(cfg.Logging.Level) != utilities.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}))
	if cfg.RequestDump {
		r.Use(middleware.RequestDumpMiddleware())
	}
	if cfg.RateLimit.Enabled {
		r.Use(middleware.RateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	}

	controller.RegisterRoutes(r, controller.Services{
		Surveys:      surveyService,
		Summaries:    summaryService,
		Reports:      reportService,
		StoreBackend: cfg.Store.Backend,
		PageSize:     cfg.Pagination.PageSize,
	})

	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Addr(), err)
	}
	if cfg.Context.MaxConnections > 0 {
		ln = netutil.LimitListener(ln, cfg.Context.MaxConnections)
	}

	srv := &http.Server{
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		utilities.Info("Listening on %s with %s store", cfg.Addr(), cfg.Store.Backend)
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	utilities.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Context.ShutdownTimeout)*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openStore connects the configured backend and returns its repository with
// a function releasing the connection.
func openStore(ctx context.Context, cfg *config.APIConfig) (repository.AssessmentRepository, func(), error) {
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		conn, err := db.InitDBFromConfig(cfg)
		if err != nil {
			return nil, nil, err
		}
		if err := repository.MigrateAssessments(conn); err != nil {
			return nil, nil, fmt.Errorf("migrate assessments: %w", err)
		}
		closeFn := func() {
			if sqlDB, err := conn.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return repository.NewGormAssessmentRepository(conn), closeFn, nil

	case config.BackendRedis:
		client, err := db.ConnectRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewRedisAssessmentRepository(client, cfg.Redis.KeyPrefix), func() { _ = client.Close() }, nil

	case config.BackendMongo:
		client, err := db.ConnectMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, nil, err
		}
		database := client.Database(cfg.Mongo.Database)
		if err := repository.EnsureAssessmentIndexes(ctx, database); err != nil {
			utilities.Warn("Cannot create assessment indexes: %v", err)
		}
		closeFn := func() { _ = client.Disconnect(context.Background()) }
		return repository.NewMongoAssessmentRepository(database), closeFn, nil

	default:
		return repository.NewMemoryAssessmentRepository(), func() {}, nil
	}
}

func printStartUpBanner() {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		myFigure := figure.NewFigure("SURVEYS", "", true)
		myFigure.Print()
		fmt.Println("======================================================")
	}
	fmt.Printf("SURVEY ASSESSMENT API (v%s)\n\n", version)
}
