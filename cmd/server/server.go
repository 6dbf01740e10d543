package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"metrofleet/analyst-api/internal/config"
	"metrofleet/analyst-api/internal/domain/agent"
	"metrofleet/analyst-api/internal/domain/chat"
	"metrofleet/analyst-api/internal/domain/prediction"
	"metrofleet/analyst-api/internal/domain/query"
	"metrofleet/analyst-api/internal/domain/tool"
	"metrofleet/analyst-api/internal/domain/trip"
	"metrofleet/analyst-api/internal/infrastructure/database"
	"metrofleet/analyst-api/internal/infrastructure/llmprovider"
	"metrofleet/analyst-api/internal/infrastructure/logger"
	"metrofleet/analyst-api/internal/infrastructure/observability"
	"metrofleet/analyst-api/internal/infrastructure/predictor"
	predictionrepo "metrofleet/analyst-api/internal/infrastructure/repository/prediction"
	"metrofleet/analyst-api/internal/infrastructure/warehouse"
	"metrofleet/analyst-api/internal/interfaces/httpserver"
)

type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	appDB, err := database.Connect(database.Config{
		DSN:             cfg.AppDatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
		CreateDatabase:  true,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect application database")
	}

	if err := database.AutoMigrate(ctx, appDB, log); err != nil {
		log.Fatal().Err(err).Msg("migrate application database")
	}

	warehouseDB, err := database.Connect(database.Config{
		DSN:             cfg.WarehouseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect warehouse database")
	}

	warehouseStore := warehouse.NewStore(warehouseDB, log)
	shaper := query.NewShaper(warehouseStore, cfg.QueryRowLimit, cfg.QueryTimeout, log)
	registry := tool.NewRegistry(tool.NewRunQueryBinding(shaper, log))

	llmClient := llmprovider.NewClient(cfg.LLMAPIURL, cfg.LLMAPIKey)
	loop := agent.NewLoop(llmClient, log)
	chatService := chat.NewService(loop, registry, cfg.LLMModel, cfg.AgentMaxSteps, cfg.AgentTurnTimeout, log)

	tripService := trip.NewService(warehouseStore, log)

	predictionRepository := predictionrepo.NewPostgresRepository(appDB)
	predictorClient := predictor.NewClient(cfg.PredictorURL, cfg.PredictorAPIKey)
	predictionService := prediction.NewService(predictionRepository, predictorClient, log)

	httpServer := httpserver.New(cfg, log, chatService, tripService, predictionService)
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
