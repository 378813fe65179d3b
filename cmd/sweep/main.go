package main

import (
	"context"
	"time"

	"hotelbooking/internal/cache"
	"hotelbooking/internal/config"
	"hotelbooking/internal/database"
	"hotelbooking/internal/metrics"
	"hotelbooking/internal/modules/booking"
	"hotelbooking/internal/modules/notification"
	"hotelbooking/internal/pkg/logger"
	"hotelbooking/internal/queue"
	"hotelbooking/internal/repository"
)

// sweep expires every overdue pay_later booking once and exits. Requests
// still expire bookings lazily, so running it is optional.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Options{}).WithError(err).Fatal("invalid configuration")
	}
	log := logger.New(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile, JSON: cfg.IsProd(), Stdout: true})

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.WithError(err).Fatal("db connect failed")
	}

	var events queue.Publisher = queue.Nop{}
	if cfg.RabbitMQURL != "" {
		publisher := queue.NewAMQPPublisher(cfg.RabbitMQURL, log)
		defer publisher.Close()
		events = publisher
	}

	redisClient := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if redisClient != nil {
		defer redisClient.Close()
	}

	m := metrics.Nop()
	svc := booking.NewService(booking.Deps{
		DB:            db,
		Bookings:      repository.NewBookingRepository(db),
		Rooms:         repository.NewRoomRepository(db),
		Users:         repository.NewUserRepository(db),
		Reviews:       repository.NewReviewRepository(db),
		Notifications: notification.NewService(repository.NewNotificationRepository(db), nil, m, log),
		Events:        events,
		Cache:         cache.NewRoomCache(redisClient, cfg.SearchCacheTTL, log),
		Metrics:       m,
		Log:           log,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	expired, err := svc.ExpireOverdue(ctx, repository.BookingScope{})
	if err != nil {
		log.WithError(err).WithField("expired", expired).Fatal("sweep failed")
	}
	log.WithField("expired", expired).Info("sweep completed")
}
