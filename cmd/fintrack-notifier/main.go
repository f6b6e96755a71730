package main

import (
	"context"
	"errors"
	"os"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/cli"
	"fintrack/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the notifier worker")
		os.Exit(1)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP", "error", err)
		os.Exit(1)
	}

	notifier := worker.NewNotifier()

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		if err := client.Close(); err != nil {
			logger.Error("AMQP close error", "error", err)
		}
	})

	go func() {
		err := client.ConsumeReminders(ctx, notifier.HandleMessage)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Consumer stopped", "error", err)
		}
	}()

	logger.Info("Notifier started",
		"queue", cfg.AMQPQueue,
		"poll_interval", cfg.DeliveryPollInterval)

	ticker := time.NewTicker(cfg.DeliveryPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			cli.WaitForShutdown(ctx, done)
			logger.Info("Notifier stopped gracefully")
			return
		case <-ticker.C:
			if delivered := notifier.DeliverDue(ctx); delivered > 0 {
				logger.Info("Delivered due reminders",
					"count", delivered,
					"pending", notifier.Pending())
			}
		}
	}
}
