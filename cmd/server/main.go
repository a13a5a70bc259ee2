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

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/oakline/furniture_shop/internal/cache"
	"github.com/oakline/furniture_shop/internal/config"
	"github.com/oakline/furniture_shop/internal/es"
	"github.com/oakline/furniture_shop/internal/httpserver"
	"github.com/oakline/furniture_shop/internal/logging"
	loggingmw "github.com/oakline/furniture_shop/internal/middleware/logging"
	"github.com/oakline/furniture_shop/internal/mykafka"
	"github.com/oakline/furniture_shop/internal/repo"
	"github.com/oakline/furniture_shop/internal/service"
	"github.com/oakline/furniture_shop/internal/service/search"
)

const productIndex = "products"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LogLevel)

	db, err := config.InitDB(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db init: %v", err)
	}

	// Kafka, Redis and Elasticsearch are optional at boot: the shop keeps
	// serving orders without them, just with events/cache/search disabled.
	var prod *mykafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		prod, err = mykafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			logger.Warn("kafka disabled", "error", err)
			prod = nil
		}
	}

	var productCache *cache.Cache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Warn("redis disabled", "error", err)
		} else {
			productCache = cache.New(rdb, "shop:", 10*time.Minute)
		}
	}

	var searchHandler *httpserver.SearchHTTP
	if cfg.ESURL != "" {
		esClient, err := es.NewClient(cfg)
		if err != nil {
			logger.Warn("search disabled", "error", err)
		} else {
			if err := search.EnsureIndex(context.Background(), esClient, productIndex); err != nil {
				logger.Warn("search index setup failed", "error", err)
			}
			searchHandler = &httpserver.SearchHTTP{ES: esClient, Index: productIndex}
		}
	}

	r := &repo.GormRepo{DB: db}

	catalogSvc := &service.CatalogService{Repo: r, Cache: productCache}
	cartSvc := &service.CartService{Repo: r}
	orderSvc := &service.OrderService{Repo: r}
	paymentSvc := &service.PaymentService{Repo: r, Cache: productCache}
	reviewSvc := &service.ReviewService{Repo: r, Cache: productCache}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		ProductHandler: &httpserver.ProductHTTP{Svc: catalogSvc},
		CartHandler:    &httpserver.CartHTTP{Svc: cartSvc, Producer: prod},
		OrderHandler:   &httpserver.OrderHTTP{Svc: orderSvc, Payment: paymentSvc, Producer: prod},
		ReviewHandler:  &httpserver.ReviewHTTP{Svc: reviewSvc, Producer: prod},
		SearchHandler:  searchHandler,
		WebhookHandler: &httpserver.WebhookHTTP{Payment: paymentSvc, Secret: []byte(cfg.WebhookSecret), Producer: prod},
		JWTSecret:      []byte(cfg.JWTSecret),
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}

	if prod != nil {
		if err := prod.Close(); err != nil {
			logger.Error("kafka close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
