package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"hotelbooking/internal/config"
	"hotelbooking/internal/database"
	"hotelbooking/internal/domain"
	"hotelbooking/internal/metrics"
	"hotelbooking/internal/modules/booking"
	"hotelbooking/internal/modules/notification"
	"hotelbooking/internal/pkg/logger"
	"hotelbooking/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Options{}).WithError(err).Fatal("invalid configuration")
	}
	log := logger.New(logger.Options{Level: cfg.LogLevel, Stdout: true})
	ctx := context.Background()

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.WithError(err).Fatal("DB connection failed")
	}

	log.Info("running migrations...")
	if err := repository.Migrate(db); err != nil {
		log.WithError(err).Fatal("migration failed")
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Info("cleaning old data...")
	for _, table := range []string{"booking_notifications", "booking_reviews", "bookings", "rooms", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			log.WithError(err).WithField("table", table).Fatal("cleanup failed")
		}
	}

	users := repository.NewUserRepository(db)
	rooms := repository.NewRoomRepository(db)

	mustUser := func(u *domain.User, password string) *domain.User {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			log.WithError(err).Fatal("hash password")
		}
		u.PasswordHash = string(hash)
		if err := users.Create(ctx, u); err != nil {
			log.WithError(err).WithField("email", u.Email).Fatal("create user")
		}
		return u
	}

	// ================== USERS ==================
	log.Info("creating users...")
	mustUser(&domain.User{Email: "admin@hotelbooking.local", Role: domain.RoleAdmin, FullName: "Administrator", IsActive: true}, "admin12345")
	log.Info("admin created: admin@hotelbooking.local / admin12345")

	guests := make([]*domain.User, 0, 3)
	for i, email := range []string{"ann@example.com", "bob@example.com", "chloe@example.com"} {
		guests = append(guests, mustUser(&domain.User{
			Email:    email,
			Role:     domain.RoleGuest,
			FullName: fmt.Sprintf("Guest %d", i+1),
			Phone:    fmt.Sprintf("+33 6 00 00 00 %02d", i+10),
			IsActive: true,
		}, "guest12345"))
	}

	hotels := make([]*domain.User, 0, 3)
	for i, city := range []string{"Nice, France", "Paris, France", "Lyon, France"} {
		hotels = append(hotels, mustUser(&domain.User{
			Email:              fmt.Sprintf("hotel%d@example.com", i+1),
			Role:               domain.RoleHotel,
			FullName:           fmt.Sprintf("Hotel %d", i+1),
			Location:           city,
			VerificationStatus: domain.VerificationApproved,
			IsActive:           true,
		}, "hotel12345"))
	}
	mustUser(&domain.User{
		Email:              "pending@example.com",
		Role:               domain.RoleHotel,
		FullName:           "Pending Hotel",
		Location:           "Marseille, France",
		VerificationStatus: domain.VerificationPending,
	}, "hotel12345")

	// ================== ROOMS ==================
	log.Info("creating rooms...")
	types := []string{"Single", "Double", "Suite"}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	var created []*domain.Room
	for _, h := range hotels {
		for j, t := range types {
			in := today.AddDate(0, 0, 7+rand.Intn(21))
			room := &domain.Room{
				HotelID:        h.ID,
				RoomType:       t,
				Capacity:       j + 1,
				RatePerNight:   float64(80 + 60*j + rand.Intn(40)),
				AvailableRooms: 3 + rand.Intn(5),
				CheckinDate:    in,
				CheckoutDate:   in.AddDate(0, 0, 2+rand.Intn(5)),
			}
			if err := rooms.Create(ctx, room); err != nil {
				log.WithError(err).Fatal("create room")
			}
			created = append(created, room)
		}
	}

	// ================== BOOKINGS ==================
	log.Info("creating bookings...")
	m := metrics.Nop()
	svc := booking.NewService(booking.Deps{
		DB:            db,
		Bookings:      repository.NewBookingRepository(db),
		Rooms:         rooms,
		Users:         users,
		Reviews:       repository.NewReviewRepository(db),
		Notifications: notification.NewService(repository.NewNotificationRepository(db), nil, m, log),
		Metrics:       m,
		Log:           log,
	})
	options := []domain.PaymentOption{domain.PayNow, domain.PayLater}
	for i := 0; i < 10; i++ {
		guest := guests[rand.Intn(len(guests))]
		room := created[rand.Intn(len(created))]
		_, err := svc.Checkout(ctx, guest, room.ID, booking.CheckoutRequest{
			FullName:      guest.FullName,
			Phone:         guest.Phone,
			RoomsCount:    1,
			PaymentOption: string(options[rand.Intn(len(options))]),
		})
		if err != nil {
			log.WithError(err).WithField("room_id", room.ID).Warn("seed booking skipped")
		}
	}

	log.Info("seed completed")
}
