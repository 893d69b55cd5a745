package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"weaver/weaver/config"
	"weaver/weaver/controllers"
	"weaver/weaver/routes"
	"weaver/weaver/services/extract"
	"weaver/weaver/services/llm"
	"weaver/weaver/services/search"
	"weaver/weaver/sources/psql"
	"weaver/weaver/sources/psql/dao"
	"weaver/weaver/sources/storage"
	"weaver/weaver/utils/logging"
	"weaver/weaver/workflow"

	"go.uber.org/zap"
)

func main() {
	logging.InitLogger()
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logging.ErrorLogger.Error("invalid configuration", zap.Error(err))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := psql.NewDatabase(ctx, cfg)
	if err != nil {
		logging.ErrorLogger.Error("database connection error", zap.Error(err))
		os.Exit(1)
	}
	defer db.Close()
	deployDAO := dao.NewDeploymentDAO(db.DB)

	// Text-generation providers: constructed once here, injected everywhere
	settings := config.LoadLLMSettings(cfg.LLMConfigPath)
	registry := llm.NewRegistry(settings.DefaultProvider)
	if cfg.OpenAIAPIKey != "" {
		registry.Register("openai", llm.NewOpenAIClient(cfg.OpenAIAPIKey))
	}
	if cfg.GeminiAPIKey != "" {
		registry.Register("gemini", llm.NewGeminiClient(cfg.GeminiAPIKey))
	}

	// Optional page cache for the local extractor
	var pageCache *storage.PageCache
	if cfg.MinIOEndpoint != "" {
		pageCache, err = storage.NewPageCache(cfg)
		if err != nil {
			logging.ErrorLogger.Error("minio connection error", zap.Error(err))
			os.Exit(1)
		}
	}

	var searchProvider search.Provider
	if cfg.SerperAPIKey != "" {
		searchProvider = search.NewSerperClient(cfg.SerperAPIKey)
	} else {
		logging.AppLogger.Info("SERPER_API_KEY not set, using DuckDuckGo fallback")
		searchProvider = search.NewDuckDuckGoClient()
	}

	var extractProvider extract.Provider
	if cfg.FirecrawlAPIKey != "" {
		extractProvider = extract.NewFirecrawlClient(cfg.FirecrawlAPIKey)
	} else {
		logging.AppLogger.Info("FIRECRAWL_API_KEY not set, using local extractor")
		fallbackLLM, _, ok := registry.Pick("")
		if !ok {
			logging.ErrorLogger.Error("no text-generation provider available for local extractor")
			os.Exit(1)
		}
		extractProvider = extract.NewLocalExtractor(fallbackLLM, settings, pageCache)
	}

	schemaCtrl := controllers.NewSchemaController(registry, settings)
	searchCtrl := controllers.NewSearchController(searchProvider)
	extractCtrl := controllers.NewExtractController(extractProvider, controllers.DefaultExtractTimeout)
	deployCtrl := controllers.NewDeployController(deployDAO, cfg.AppBaseURL)
	resultsCtrl := controllers.NewResultsController(deployDAO)
	authCtrl := controllers.NewAuthController(cfg)
	healthCtrl := controllers.NewHealthController()

	engine := workflow.NewEngine(schemaCtrl, searchCtrl, extractCtrl, deployCtrl)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(3 * time.Minute))

	r.Mount("/auth", routes.AuthRoutes(authCtrl))
	r.Mount("/health", routes.HealthRoutes(healthCtrl))
	r.Mount("/api", routes.APIRoutes(schemaCtrl, searchCtrl, extractCtrl, deployCtrl, cfg))
	r.Mount("/api/results", routes.ResultsRoutes(resultsCtrl))
	r.Mount("/workflow", routes.WorkflowRoutes(engine))

	srv := &http.Server{
		Addr:    ":8000", // Or load from env
		Handler: r,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.ErrorLogger.Error("server listen error", zap.Error(err))
		}
	}()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.ErrorLogger.Error("server shutdown error", zap.Error(err))
	}
	logging.AppLogger.Info("server shutdown complete")
}
