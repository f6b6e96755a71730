package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/cli"
	"fintrack/internal/goals"
	apphttp "fintrack/internal/http"
	"fintrack/internal/ledger"
	"fintrack/internal/notify"
	"fintrack/internal/ocr"
	"fintrack/internal/reminders"
	"fintrack/internal/scan"
	"fintrack/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	store := ledger.NewStore()
	tracker := goals.NewTracker(store)
	reminderStore := reminders.NewStore()

	// Optional write-behind archive.
	var (
		archiver   services.Archiver
		archiveAPI apphttp.ArchiveReader
	)
	if cfg.ArchiveDBPath != "" {
		repo := cli.InitArchive(logger, cfg.ArchiveDBPath)
		archiver = repo
		archiveAPI = repo
		logger.Info("Transaction archive enabled", "path", cfg.ArchiveDBPath)
	}

	// Optional notification broker.
	var scheduler notify.Scheduler = notify.Noop{}
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to connect to AMQP", "error", err)
			os.Exit(1)
		}
		amqpClient = client
		scheduler = notify.NewAMQPScheduler(client)
		logger.Info("Reminder notifications enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	}

	// Optional receipt scanning.
	var scanner *scan.Service
	if cfg.ScanningEnabled() {
		extractor := ocr.NewClient(ocr.Config{
			BaseURL: cfg.OCRBaseURL,
			APIKey:  cfg.OCRAPIKey,
			Model:   cfg.OCRModel,
		})
		scanner = scan.NewService(extractor, int64(cfg.ScanMaxConcurrent))
		logger.Info("Receipt scanning enabled", "max_concurrent", cfg.ScanMaxConcurrent)
	}

	ledgerSvc := services.NewLedgerService(store, archiver)
	reminderSvc := services.NewReminderService(reminderStore, scheduler)

	srv := apphttp.NewServer(":"+cfg.Port, store, ledgerSvc, tracker, reminderSvc, apphttp.Options{
		Scanner: scanner,
		Archive: archiveAPI,
	})

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if err := ledgerSvc.Close(); err != nil {
			logger.Error("Ledger service close error", "error", err)
		}
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				logger.Error("AMQP close error", "error", err)
			}
		}
	})

	logger.Info("Starting fintrack server", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
