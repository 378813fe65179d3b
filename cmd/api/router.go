package main

import (
	"net/http"

	"hotelbooking/internal/cache"
	"hotelbooking/internal/config"
	"hotelbooking/internal/domain"
	"hotelbooking/internal/metrics"
	"hotelbooking/internal/middleware"
	"hotelbooking/internal/modules/admin"
	"hotelbooking/internal/modules/auth"
	"hotelbooking/internal/modules/booking"
	"hotelbooking/internal/modules/catalog"
	"hotelbooking/internal/modules/media"
	"hotelbooking/internal/modules/notification"
	"hotelbooking/internal/modules/review"
	jwtsvc "hotelbooking/internal/pkg/jwt"
	"hotelbooking/internal/queue"
	"hotelbooking/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type routerDeps struct {
	cfg     *config.Config
	db      *gorm.DB
	log     *logrus.Logger
	metrics *metrics.Metrics
	gather  prometheus.Gatherer
	cache   *cache.RoomCache
	events  queue.Publisher
}

func newRouter(d routerDeps) *gin.Engine {
	userRepo := repository.NewUserRepository(d.db)
	roomRepo := repository.NewRoomRepository(d.db)
	bookingRepo := repository.NewBookingRepository(d.db)
	reviewRepo := repository.NewReviewRepository(d.db)
	notifRepo := repository.NewNotificationRepository(d.db)

	j := jwtsvc.New(d.cfg.JWTSecret, d.cfg.JWTTTL)
	store := media.NewStore(d.cfg.UploadDir, d.cfg.UploadURLBase, d.cfg.MaxUploadBytes)

	hub := notification.NewHub(d.log)
	notifService := notification.NewService(notifRepo, hub, d.metrics, d.log)
	notifHandler := notification.NewHandler(notifService, hub, j, userRepo)

	authService := auth.NewService(userRepo, j, d.log)
	authHandler := auth.NewHandler(authService, store)

	catalogService := catalog.NewService(d.db, roomRepo, bookingRepo, reviewRepo, d.cache, d.metrics, d.log)
	catalogHandler := catalog.NewHandler(catalogService, store, middleware.NewOwnershipChecker(roomRepo))

	bookingService := booking.NewService(booking.Deps{
		DB:            d.db,
		Bookings:      bookingRepo,
		Rooms:         roomRepo,
		Users:         userRepo,
		Reviews:       reviewRepo,
		Notifications: notifService,
		Events:        d.events,
		Cache:         d.cache,
		Metrics:       d.metrics,
		Log:           d.log,
	})
	bookingHandler := booking.NewHandler(bookingService)

	reviewService := review.NewService(d.db, reviewRepo, bookingRepo, userRepo, notifService, d.log)
	reviewHandler := review.NewHandler(reviewService)

	adminService := admin.NewService(userRepo, roomRepo, bookingRepo, notifRepo, catalogService, bookingService, d.log)
	adminHandler := admin.NewHandler(adminService)

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(d.log),
		middleware.CORS(d.cfg.CORSAllowedOrigins),
		middleware.Metrics(d.metrics),
	)
	r.MaxMultipartMemory = d.cfg.MaxUploadBytes

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.gather, promhttp.HandlerOpts{})))
	r.Static(store.URLBase(), store.BaseDir())

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)
		notifHandler.RegisterWS(v1)

		protected := v1.Group("")
		protected.Use(middleware.JWTAuth(j), middleware.AccountContext(userRepo))

		guest := protected.Group("", middleware.RequireRole(domain.RoleGuest))
		hotel := protected.Group("/hotel", middleware.RequireRole(domain.RoleHotel))
		adminGroup := protected.Group("/admin", middleware.AdminOnly())

		catalogHandler.RegisterRoutes(v1, hotel)
		reviewHandler.RegisterRoutes(v1, guest, hotel)
		authHandler.RegisterProtectedRoutes(protected)
		notifHandler.RegisterRoutes(protected)
		bookingHandler.RegisterGuestRoutes(guest)
		bookingHandler.RegisterHotelRoutes(hotel)
		adminHandler.RegisterRoutes(adminGroup)
	}

	return r
}
