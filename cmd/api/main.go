package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/gvendas/go-sales-api/internal/config"
	"github.com/gvendas/go-sales-api/internal/httpx"
	kafkax "github.com/gvendas/go-sales-api/internal/kafka"
	"github.com/gvendas/go-sales-api/internal/postgres"
	"github.com/gvendas/go-sales-api/internal/redisx"
	"github.com/gvendas/go-sales-api/internal/sales"
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

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatal("db migrate", zap.Error(err))
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers (optional: disabled when no broker is wanted)
	var createdProd, statusProd *kafkax.Producer
	if cfg.EventsEnabled {
		createdProd = kafkax.NewProducer(cfg.KafkaBrokers, sales.TopicOrderCreated, 1024, log)
		createdProd.Start(ctx)
		statusProd = kafkax.NewProducer(cfg.KafkaBrokers, sales.TopicOrderStatusChanged, 1024, log)
		statusProd.Start(ctx)
	}

	// Repos & workflow
	orderRepo := &sales.OrderRepo{DB: db}
	wf := &sales.Workflow{
		Store:       orderRepo,
		Ledger:      &sales.PgLedger{DB: db},
		Redis:       rdb,
		ServiceName: cfg.ServiceName,
		Log:         log,
	}
	if createdProd != nil {
		wf.CreatedEvents = createdProd
		wf.StatusEvents = statusProd
	}

	router := httpx.NewRouter()
	(&httpx.CustomersHandler{Repo: &sales.CustomerRepo{DB: db}, Log: log}).Register(router)
	(&httpx.ProductsHandler{Repo: &sales.ProductRepo{DB: db}, Log: log}).Register(router)
	(&httpx.OrdersHandler{Workflow: wf, Redis: rdb, Log: log}).Register(router)
	(&httpx.ReportsHandler{Repo: &sales.ReportsRepo{DB: db}, Log: log}).Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Info("HTTP listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)

	if createdProd != nil {
		createdProd.Close() // stop intake -> flush & close writer
		statusProd.Close()
		createdProd.WaitClosed()
		statusProd.WaitClosed()
	}
	cancel()
}
