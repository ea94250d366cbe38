package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"orbit/internal/amqp"
	"orbit/internal/config"
	applog "orbit/internal/log"
)

// orbit-worker consumes pipeline events from the queue and writes an
// audit trail. It is intentionally thin: the queue keeps a durable record
// even if no worker is running.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(cfg.LogLevel),
		Component: applog.ComponentWorker,
	})
	applog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting orbit-worker", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)

	err = client.ConsumeEvents(ctx, func(msg *amqp.EventMessage) error {
		switch msg.Kind {
		case amqp.EventExpenseAdded:
			logger.Info("Expense added", "expense_id", msg.ExpenseID, "at", msg.Timestamp)
		case amqp.EventExpenseDeleted:
			logger.Info("Expense deleted", "expense_id", msg.ExpenseID, "at", msg.Timestamp)
		case amqp.EventNotification:
			logger.Info("Notification", "severity", msg.Severity, "message", msg.Message, "at", msg.Timestamp)
		default:
			logger.Warn("Unknown event kind", "kind", msg.Kind)
		}
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Event consumption failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
