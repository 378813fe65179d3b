package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hotelbooking/internal/cache"
	"hotelbooking/internal/config"
	"hotelbooking/internal/database"
	"hotelbooking/internal/metrics"
	"hotelbooking/internal/pkg/logger"
	"hotelbooking/internal/queue"
	"hotelbooking/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Options{}).WithError(err).Fatal("invalid configuration")
	}

	log := logger.New(logger.Options{
		Level:  cfg.LogLevel,
		File:   cfg.LogFile,
		JSON:   cfg.IsProd(),
		Stdout: true,
	})
	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	if err := repository.Migrate(db); err != nil {
		log.WithError(err).Fatal("migration failed")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	redisClient := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if redisClient == nil && cfg.RedisAddr != "" {
		log.WithField("addr", cfg.RedisAddr).Warn("redis unavailable, search cache disabled")
	}
	roomCache := cache.NewRoomCache(redisClient, cfg.SearchCacheTTL, log)

	var events queue.Publisher = queue.Nop{}
	if cfg.RabbitMQURL != "" {
		publisher := queue.NewAMQPPublisher(cfg.RabbitMQURL, log)
		defer publisher.Close()
		events = publisher
	} else {
		log.Info("RABBITMQ_URL not set, booking events are not published")
	}

	r := newRouter(routerDeps{
		cfg:     cfg,
		db:      db,
		log:     log,
		metrics: m,
		gather:  reg,
		cache:   roomCache,
		events:  events,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("http server shutdown")
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
}
