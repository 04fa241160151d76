package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nexoventlabs-official/RestaruntBot1-sub001/activities"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/app"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/assist"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/availability"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/checkout"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/config"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/engine"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/httpapi"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/intent"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/logging"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/search"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Production())
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal("Invalid timezone", zap.Error(err))
	}

	ctx := context.Background()
	stores, err := app.OpenStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Unable to open stores", zap.Error(err))
	}
	defer stores.Close()

	classifier := intent.Default()
	if cfg.PatternsFile != "" {
		classifier, err = intent.LoadFile(cfg.PatternsFile)
		if err != nil {
			logger.Fatal("Unable to load intent patterns", zap.String("path", cfg.PatternsFile), zap.Error(err))
		}
	}

	searchOpts := []search.Option{
		search.WithAssistTimeout(cfg.AssistTimeout),
		search.WithLogger(logger.Named("search")),
	}
	if cfg.AssistAPIKey != "" {
		gemini := assist.NewGeminiClient(cfg.AssistBaseURL, cfg.AssistAPIKey, cfg.AssistModel, logger.Named("assist"))
		searchOpts = append(searchOpts, search.WithAssistant(gemini))
	} else {
		logger.Info("ASSIST_API_KEY not set, search runs without translation and spelling help")
	}

	var placer checkout.OrderPlacer
	if cfg.UseTemporal {
		c, err := app.DialTemporal(cfg, logger)
		if err != nil {
			logger.Fatal("Unable to create Temporal client", zap.Error(err))
		}
		defer c.Close()
		placer = checkout.NewTemporalPlacer(c, cfg.TaskQueue, 30*time.Second)
		logger.Info("orders are placed through Temporal", zap.String("task_queue", cfg.TaskQueue))
	} else {
		placer = checkout.NewDirectPlacer(stores.Orders, activities.NewPaymentClient(cfg.PaymentBaseURL)).WithLogger(logger.Named("checkout"))
		logger.Info("orders are placed directly")
	}

	resolver := availability.NewResolver(loc)
	eng := engine.New(engine.Deps{
		Sessions:   stores.Sessions,
		Orders:     stores.Orders,
		Catalog:    stores.Catalog,
		Classifier: classifier,
		Search:     search.NewEngine(classifier, searchOpts...),
		Resolver:   resolver,
		Checkout:   checkout.NewOrchestrator(resolver, placer, logger.Named("checkout")),
		Messenger:  app.NewMessenger(cfg, logger.Named("whatsapp")),
		Logger:     logger.Named("engine"),
	})

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httpapi.NewRouter(httpapi.NewHandler(eng, cfg.WhatsAppVerifyToken, logger.Named("http")))

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
}
