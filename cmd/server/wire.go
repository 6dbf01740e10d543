//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"metrofleet/analyst-api/internal/config"
	"metrofleet/analyst-api/internal/domain/agent"
	"metrofleet/analyst-api/internal/domain/chat"
	"metrofleet/analyst-api/internal/domain/llm"
	"metrofleet/analyst-api/internal/domain/prediction"
	"metrofleet/analyst-api/internal/domain/query"
	"metrofleet/analyst-api/internal/domain/tool"
	"metrofleet/analyst-api/internal/domain/trip"
	"metrofleet/analyst-api/internal/infrastructure/database"
	"metrofleet/analyst-api/internal/infrastructure/llmprovider"
	"metrofleet/analyst-api/internal/infrastructure/logger"
	"metrofleet/analyst-api/internal/infrastructure/predictor"
	predictionrepo "metrofleet/analyst-api/internal/infrastructure/repository/prediction"
	"metrofleet/analyst-api/internal/infrastructure/warehouse"
	"metrofleet/analyst-api/internal/interfaces/httpserver"
)

var analystSet = wire.NewSet(
	newWarehouseStore,
	wire.Bind(new(query.Store), new(*warehouse.Store)),
	wire.Bind(new(trip.Store), new(*warehouse.Store)),
	newShaper,
	newToolRegistry,
	newLLMProvider,
	wire.Bind(new(llm.Provider), new(*llmprovider.Client)),
	newAgentLoop,
	newChatService,
	wire.Bind(new(chat.Service), new(*chat.ServiceImpl)),
	newTripService,
	wire.Bind(new(trip.Service), new(*trip.ServiceImpl)),
	predictionrepo.NewPostgresRepository,
	wire.Bind(new(prediction.Repository), new(*predictionrepo.PostgresRepository)),
	newPredictorClient,
	wire.Bind(new(prediction.Predictor), new(*predictor.Client)),
	prediction.NewService,
	wire.Bind(new(prediction.Service), new(*prediction.ServiceImpl)),
)

// BuildApplication demonstrates how to assemble the analyst service with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		newAppDatabaseConfig,
		newGormDB,
		analystSet,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}

func newAppDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		DSN:             cfg.AppDatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
		CreateDatabase:  true,
	}
}

func newGormDB(ctx context.Context, cfg database.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		return nil, err
	}
	return db, nil
}

func newWarehouseDB(cfg *config.Config) (*gorm.DB, error) {
	return database.Connect(database.Config{
		DSN:             cfg.WarehouseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	})
}

func newWarehouseStore(cfg *config.Config, log zerolog.Logger) (*warehouse.Store, error) {
	db, err := newWarehouseDB(cfg)
	if err != nil {
		return nil, err
	}
	return warehouse.NewStore(db, log), nil
}

func newShaper(cfg *config.Config, store query.Store, log zerolog.Logger) *query.Shaper {
	return query.NewShaper(store, cfg.QueryRowLimit, cfg.QueryTimeout, log)
}

func newToolRegistry(shaper *query.Shaper, log zerolog.Logger) *tool.Registry {
	return tool.NewRegistry(tool.NewRunQueryBinding(shaper, log))
}

func newLLMProvider(cfg *config.Config) *llmprovider.Client {
	return llmprovider.NewClient(cfg.LLMAPIURL, cfg.LLMAPIKey)
}

func newAgentLoop(provider llm.Provider, log zerolog.Logger) *agent.Loop {
	return agent.NewLoop(provider, log)
}

func newChatService(cfg *config.Config, loop *agent.Loop, registry *tool.Registry, log zerolog.Logger) *chat.ServiceImpl {
	return chat.NewService(loop, registry, cfg.LLMModel, cfg.AgentMaxSteps, cfg.AgentTurnTimeout, log)
}

func newTripService(store trip.Store, log zerolog.Logger) *trip.ServiceImpl {
	return trip.NewService(store, log)
}

func newPredictorClient(cfg *config.Config) *predictor.Client {
	return predictor.NewClient(cfg.PredictorURL, cfg.PredictorAPIKey)
}
