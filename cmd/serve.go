package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"todo-web/internal/cache"
	"todo-web/internal/config"
	"todo-web/internal/controller"
	"todo-web/internal/queue"
	"todo-web/internal/repository"
	"todo-web/internal/routes"
	"todo-web/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

func runServer(ctx context.Context, cfg *config.Config) error {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	instance := uuid.New().String()
	ctx = logger.WithContext(ctx, logger.FromContext(ctx).With("instance", instance))

	// Optional list cache; the store stays authoritative when Redis is down.
	var todoCache *cache.TodoCache
	if cfg.CacheEnabled() {
		client, err := cache.Open(ctx, cfg.RedisURL, cfg.RedisPoolSize)
		if err != nil {
			logger.Error(ctx, "Redis unavailable; serving without cache", "error", err)
		} else {
			todoCache = cache.New(client, instance, time.Duration(cfg.CacheTTL)*time.Second)
			defer todoCache.Close()
		}
	}

	// Optional change feed
	var events queue.Publisher = queue.NopPublisher{}
	if cfg.EventsEnabled() {
		queue.EnsureTopic(ctx, cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaPartitions)
		events = queue.NewKafkaPublisher(queue.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic))
		logger.Info(ctx, "Kafka producer initialized", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	}
	defer func() {
		if err := events.Close(); err != nil {
			logger.Error(ctx, "Kafka producer close failed", "error", err)
		}
	}()

	todos := controller.NewTodoController(repository.NewTodoStore(), todoCache, events, instance)
	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      routes.Router(todos),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info(ctx, "HTTP server listening", "addr", server.Addr, "debug", cfg.Debug)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info(ctx, "Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Duration(cfg.ShutdownTimeoutSec)*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info(ctx, "Server stopped")
	return nil
}
