package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/gvendas/go-sales-api/internal/config"
	kafkax "github.com/gvendas/go-sales-api/internal/kafka"
	"github.com/gvendas/go-sales-api/internal/redisx"
	"github.com/gvendas/go-sales-api/internal/sales"
	"github.com/gvendas/go-sales-api/internal/worker"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &worker.Analytics{
		Counters:    &worker.RedisCounters{R: rdb},
		ServiceName: cfg.ServiceName + "-analytics",
		Log:         log,
	}

	topics := []string{sales.TopicOrderCreated, sales.TopicOrderStatusChanged}
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.WorkerGroup, topics, cfg.WorkerCount, log)

	go func() {
		log.Info("analytics consumer started",
			zap.String("group", cfg.WorkerGroup),
			zap.Strings("topics", topics),
			zap.Int("workers", cfg.WorkerCount))
		if err := cons.Start(ctx, svc.HandleEvent); err != nil {
			log.Error("consumer exit", zap.Error(err))
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
		log.Info("shutting down consumer...")
	case <-ctx.Done():
	}
	cancel()
}
