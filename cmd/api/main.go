package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ariefcatur/go-shop-api.git/internal/commerce"
	"github.com/ariefcatur/go-shop-api.git/internal/config"
	"github.com/ariefcatur/go-shop-api.git/internal/httpx"
	kafkax "github.com/ariefcatur/go-shop-api.git/internal/kafka"
	"github.com/ariefcatur/go-shop-api.git/internal/postgres"
	"github.com/ariefcatur/go-shop-api.git/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers
	pCreated := kafkax.NewProducer(cfg.KafkaBrokers, commerce.TopicOrderCreated, 1024)
	pCreated.Start(ctx)
	pStatus := kafkax.NewProducer(cfg.KafkaBrokers, commerce.TopicOrderStatusChanged, 1024)
	pStatus.Start(ctx)

	// Stores & handlers
	validate := httpx.NewValidator()
	router := httpx.NewRouter()

	ph := &httpx.ProductsHandler{
		Store:    &commerce.ProductRepo{DB: db},
		Validate: validate,
	}
	ph.Register(router)

	ch := &httpx.CustomersHandler{
		Store:    &commerce.CustomerRepo{DB: db},
		Validate: validate,
	}
	ch.Register(router)

	orderRepo := &commerce.OrderRepo{DB: db}
	oh := &httpx.OrdersHandler{
		Store:         orderRepo,
		Created:       pCreated,
		StatusChanged: pStatus,
		Redis:         rdb,
		Service:       cfg.ServiceName,
		Validate:      validate,
	}
	oh.Register(router)

	wh := &httpx.WebhookHandler{
		Store:         orderRepo,
		StatusChanged: pStatus,
		Redis:         rdb,
		Service:       cfg.ServiceName,
		Token:         cfg.WebhookToken,
		Validate:      validate,
	}
	wh.Register(router)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)

	pCreated.Close() // close inbox -> flush & close writer
	pStatus.Close()
	cancel() // stop producer loops
	pCreated.WaitClosed()
	pStatus.WaitClosed()
}
