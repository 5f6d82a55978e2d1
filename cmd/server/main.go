package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"marketlens/internal/binance"
	"marketlens/internal/cache"
	"marketlens/internal/config"
	"marketlens/internal/handler"
	"marketlens/internal/service"
	"marketlens/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

var (
	loadEnvFunc            = godotenv.Load
	loadConfigFunc         = config.Load
	initRedisFunc          = cache.InitRedis
	initTracerFunc         = tracing.InitTracer
	newBinanceClientFunc   = binance.NewClient
	newMarketServiceFunc   = service.NewMarketService
	newHandlerFunc         = handler.New
	newRouterFunc          = gin.Default
	setupSignalNotify      = ossignal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

func main() {
	loadEnvFunc()
	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	redisClient := initRedisFunc(ctx, cfg.RedisURL)

	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	client := newBinanceClientFunc(binance.Config{
		BaseURL:                cfg.BinanceAPIURL,
		Timeout:                time.Duration(cfg.APITimeoutSecs) * time.Second,
		MaxRetries:             cfg.MaxRetries,
		BaseRetryDelay:         time.Duration(cfg.BaseRetryDelayMillis) * time.Millisecond,
		ConnectionLimit:        cfg.ConnectionLimit,
		ConnectionLimitPerHost: cfg.ConnectionLimitPerHost,
		DNSCacheTTL:            time.Duration(cfg.DNSCacheTTLSecs) * time.Second,
	}, tracer)
	defer client.Close()

	marketService := newMarketServiceFunc(tracer, client, redisClient,
		time.Duration(cfg.PriceCacheTTLSecs)*time.Second)

	h := newHandlerFunc(tracer, marketService)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("marketlens"))
	h.RegisterRoutes(r)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
