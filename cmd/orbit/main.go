package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"orbit/internal/amqp"
	"orbit/internal/chart"
	"orbit/internal/config"
	"orbit/internal/gate"
	apphttp "orbit/internal/http"
	applog "orbit/internal/log"
	"orbit/internal/notify"
	"orbit/internal/report"
	"orbit/internal/service"
	"orbit/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()

	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(cfg.LogLevel),
		Component: applog.ComponentApp,
	})
	applog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	store, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize store", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer store.Close()

	// AMQP is optional: without a URL the pipeline runs standalone and
	// events stay local.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	notifier := notify.Multi{notify.NewLogNotifier()}
	if amqpClient != nil {
		notifier = append(notifier, notify.NewAMQPNotifier(amqpClient))
	}

	confirmGate := gate.NewPendingGate(cfg.ConfirmTimeout, func(token, prompt string) {
		slog.Info("Confirmation required", "token", token, "prompt", prompt)
	})

	deps := service.Deps{
		Store:    store,
		Notifier: notifier,
		Gate:     confirmGate,
		Renderer: chart.NewPieRenderer(),
		Sink:     report.NewDirSink(cfg.ExportDir),
	}
	if amqpClient != nil {
		deps.Publisher = amqpClient
	}
	svc := service.New(deps)
	dispatcher := service.NewDispatcher(svc)

	srv := apphttp.NewServer(":"+cfg.Port, dispatcher, svc, confirmGate)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting orbit server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
