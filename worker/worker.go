package main

import (
	"context"
	"log"

	"github.com/nexoventlabs-official/RestaruntBot1-sub001/activities"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/app"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/config"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/logging"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/workflows"

	"go.temporal.io/sdk/worker"
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

	stores, err := app.OpenStores(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("Unable to open stores", zap.Error(err))
	}
	defer stores.Close()
	if cfg.DatabaseURL == "" {
		logger.Warn("worker is using an in-memory order store; orders will not be visible to the server")
	}

	c, err := app.DialTemporal(cfg, logger)
	if err != nil {
		logger.Fatal("Unable to create Temporal client", zap.Error(err))
	}
	defer c.Close()

	w := worker.New(c, cfg.TaskQueue, worker.Options{
		MaxConcurrentActivityExecutionSize:     100,
		MaxConcurrentWorkflowTaskExecutionSize: 50,
	})

	w.RegisterWorkflow(workflows.PlaceOrderWorkflow)
	w.RegisterWorkflow(workflows.PaymentLinkWorkflow)

	w.RegisterActivity(activities.NewOrderActivities(stores.Orders, app.NewMessenger(cfg, logger)))
	w.RegisterActivity(activities.NewPaymentActivities(activities.NewPaymentClient(cfg.PaymentBaseURL)))

	logger.Info("Starting Temporal worker",
		zap.String("temporal_address", cfg.TemporalAddress),
		zap.String("task_queue", cfg.TaskQueue),
		zap.String("payment_base_url", cfg.PaymentBaseURL))

	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Fatal("Unable to start worker", zap.Error(err))
	}
}
