package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	dbadapter "taskforge/internal/adapter/db"
	httpadapter "taskforge/internal/adapter/http"
	"taskforge/internal/adapter/http/handlers"
	httpmiddleware "taskforge/internal/adapter/http/middleware"
	"taskforge/internal/adapter/store"
	"taskforge/internal/app/repository"
	"taskforge/internal/app/service"
	"taskforge/internal/config"
	"taskforge/internal/core/factory"
	"taskforge/internal/core/ports"
	"taskforge/internal/core/validation"
	"taskforge/pkg/translator"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	// Make zap available to packages that log through zap.L().
	zap.ReplaceGlobals(logger)
	defer func() {
		if err := logger.Sync(); err != nil {
			zap.L().Debug("failed to sync logger", zap.Error(err))
		}
	}()

	translator.InitTranslator(translator.Config{
		TranslationFolder:  "pkg/translator/translation",
		SupportedLanguages: []string{translator.LanguageFr, translator.LanguageEn},
	})

	cfg := config.LoadConfig()

	var taskStore ports.Store
	var db *sqlx.DB
	switch cfg.StoreDriver {
	case config.StoreDriverMySQL:
		db, err = dbadapter.ConnectDB(cfg)
		if err != nil {
			logger.Fatal("failed to connect to mysql", zap.Error(err))
		}
		defer func() {
			if err := db.Close(); err != nil {
				logger.Warn("failed to close mysql connection", zap.Error(err))
			}
		}()
		taskStore, err = store.NewMySQLStore(db)
		if err != nil {
			logger.Fatal("failed to prepare mysql store", zap.Error(err))
		}
	default:
		taskStore, err = store.NewFileStore(cfg.StoreFile)
		if err != nil {
			logger.Fatal("failed to prepare file store", zap.Error(err))
		}
	}

	registry := factory.NewRegistry()
	validator := validation.NewEngine()
	taskFactory := factory.New(registry, validator)
	taskRepository := repository.NewTaskRepository(taskFactory, validator, taskStore)
	if err := taskRepository.Load(context.Background()); err != nil {
		logger.Fatal("failed to load task collection", zap.Error(err))
	}
	taskService := service.NewTaskService(taskRepository, taskFactory, service.Config{MaxTasks: cfg.MaxTasks})

	r := gin.New()
	r.Use(gin.Recovery(), httpmiddleware.GinZapMiddleware(logger))
	if len(cfg.TrustedProxies) > 0 {
		if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
			logger.Fatal("invalid trusted proxies", zap.Error(err))
		}
	}

	healthHandler := handlers.NewHealthHandler(db, cfg.StoreDriver)
	taskHandler := handlers.NewTaskHandler(taskService)
	httpadapter.RegisterRoutes(r, healthHandler, taskHandler)

	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	addr := ":" + port
	logger.Info("starting server", zap.String("addr", addr), zap.String("store", cfg.StoreDriver))
	if err := r.Run(addr); err != nil {
		logger.Fatal("could not start server", zap.Error(err))
	}
}
