package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/cache"
	"fintrack/internal/cli"
	apphttp "fintrack/internal/http"
	"fintrack/internal/notify"
	"fintrack/internal/service"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	// The AMQP client is only dialed when alerts are queued for a worker.
	var publisher notify.Publisher
	if cfg.NotifyBackend == "amqp" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		publisher = amqpClient
		logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	}

	sender, err := notify.NewSender(notify.Config{
		Backend:      notify.Backend(cfg.NotifyBackend),
		SMTPHost:     cfg.SMTPHost,
		SMTPPort:     cfg.SMTPPort,
		SMTPFrom:     cfg.SMTPFrom,
		SMTPPassword: cfg.SMTPPassword,
	}, logger.Logger, publisher)
	if err != nil {
		logger.Error("Failed to initialize notification sender", "error", err)
		os.Exit(1)
	}

	dispatcher := notify.NewDispatcher(sender, logger.Logger)
	ledgers := service.NewLedgers(repo, dispatcher, logger.Logger, cfg.SessionCacheSize, cfg.SessionTTL)

	cacheManager := cache.NewManager()
	cacheManager.Register(ledgers.Sessions())
	cacheManager.StartCleanup(5 * time.Minute)

	srv := apphttp.NewServer(":"+cfg.Port, ledgers)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cacheManager.Stop()
	})

	logger.Info("Starting fintrack server",
		"port", cfg.Port,
		"notify_backend", cfg.NotifyBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
