package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang-market-analyzer/internal/analyzer/config"
	delivery "golang-market-analyzer/internal/analyzer/delivery/http"
	"golang-market-analyzer/internal/analyzer/repository"
	"golang-market-analyzer/internal/analyzer/service"
	"golang-market-analyzer/pkg/kvstore"
	"golang-market-analyzer/pkg/logger"
	"golang-market-analyzer/pkg/telegram"
	"golang-market-analyzer/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

var configPath string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Runs one analysis cycle and exits",
	Run:   runOnce,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the analyzer service with scheduled runs and the HTTP API",
	Run:   runServe,
}

// buildService wires the full pipeline from configuration.
func buildService(cfg *config.Config, appLogger *logger.Logger) (service.AnalyzerService, error) {
	store, err := kvstore.NewFileStore(cfg.Cache.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache store: %w", err)
	}

	stocksRepo := repository.NewHotStocksRepository(cfg, appLogger)
	topicsRepo := repository.NewHotTopicsRepository(cfg, appLogger)
	themesRepo := repository.NewHotThemesRepository(cfg, appLogger, topicsRepo)
	newsRepo := repository.NewIndustryNewsRepository(cfg, appLogger)

	classifier := service.NewSentimentClassifier(service.NewLexiconScorer(), appLogger,
		cfg.Sentiment.ThresholdLo, cfg.Sentiment.ThresholdHi)
	aggregator := service.NewThemeAggregator(appLogger)
	engine := service.NewMarketRuleEngine(appLogger, cfg.Strength.Strong, cfg.Strength.Choppy)
	cache := service.NewAnalysisCache(store, appLogger, cfg.Cache.MaxAge)
	reportWriter := service.NewReportWriter(cfg.Report.Dir, appLogger)

	var notifier telegram.Notifier
	if cfg.Telegram.BotToken != "" {
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Error("Failed to initialize Telegram notifier, continuing without it", logger.ErrorField(err))
			notifier = nil
		}
	}

	return service.NewAnalyzerService(cfg, appLogger,
		stocksRepo, topicsRepo, themesRepo, newsRepo,
		classifier, aggregator, engine, cache, reportWriter, notifier), nil
}

func runOnce(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	analyzerSvc, err := buildService(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to build analyzer service", logger.ErrorField(err))
	}

	if _, err := analyzerSvc.Run(ctx); err != nil {
		appLogger.Fatal("Analysis run failed", logger.ErrorField(err))
	}
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Analyzer Service", logger.Field("name", cfg.App.Name))

	analyzerSvc, err := buildService(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to build analyzer service", logger.ErrorField(err))
	}

	// Schedule analysis runs
	scheduler := cron.New(cron.WithLocation(utils.GetShanghaiTimeLocation()))
	for _, spec := range cfg.Schedule.CronSpecs {
		spec := spec
		if _, err := scheduler.AddFunc(spec, func() {
			utils.GoSafe(func() {
				if _, err := analyzerSvc.Run(ctx); err != nil {
					appLogger.Error("Scheduled analysis run failed",
						logger.ErrorField(err), logger.StringField("spec", spec))
				}
			})
		}); err != nil {
			appLogger.Fatal("Invalid cron spec",
				logger.ErrorField(err), logger.StringField("spec", spec))
		}
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	// Initialize handlers and routes
	analysisHandler := delivery.NewAnalysisHandler(analyzerSvc, appLogger)
	apiV1 := e.Group("/api/v1")
	analysisHandler.RegisterRoutes(apiV1)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	// Gracefully shutdown the server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

func main() {
	rootCmd := &cobra.Command{Use: "analyzer-service"}

	runCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "Path to the configuration file")
	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "Path to the configuration file")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing analyzer-service CLI: %s\n", err)
		os.Exit(1)
	}
}
