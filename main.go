package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pulse/config"
	"pulse/database"
	routes "pulse/internal/app/http"
	"pulse/internal/domain/analytics"
	"pulse/internal/infra/cache"
	"pulse/internal/infra/logger"
	"pulse/internal/infra/queue"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadEnv()
	if err := logger.Configure(logger.Options{Level: config.LOG_LEVEL, File: config.LOG_FILE}); err != nil {
		logger.Error("logger configuration incomplete", "error", err)
	}
	if err := database.InitDB(config.DB_URL, config.GORM_LOG_LEVEL); err != nil {
		logger.Error("database unavailable", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb := cache.NewRedisClient(config.Redis)
	if rdb != nil {
		defer rdb.Close()
	}

	// Analytics events go through RabbitMQ when configured, else straight to
	// the database. Either way the request path never waits on storage.
	dbSink := analytics.DBSink{DB: database.DB}
	var next analytics.Sink = dbSink
	if config.AMQP_URL != "" {
		publisher := queue.NewPublisher(config.AMQP_URL)
		defer publisher.Close()
		next = publisher
		go func() {
			if err := queue.Consume(ctx, config.AMQP_URL, dbSink); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("analytics consumer stopped", "error", err)
			}
		}()
	}
	sink := analytics.NewAsyncSink(next, config.ANALYTICS_BUFFER)
	defer sink.Close()

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.CORS_ORIGIN},
		AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, routes.Deps{
		Sink:      sink,
		Redis:     rdb,
		PageCache: cache.NewPageCache(config.PageCache, rdb),
	})

	srv := &http.Server{Addr: ":" + config.PORT, Handler: r}
	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
