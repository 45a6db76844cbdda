package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"rentlens/internal/config"
	"rentlens/internal/database"
	"rentlens/internal/middleware"
	"rentlens/internal/modules/admin"
	"rentlens/internal/modules/auth"
	"rentlens/internal/modules/booking"
	"rentlens/internal/modules/discovery"
	"rentlens/internal/modules/notification"
	"rentlens/internal/modules/payment"
	"rentlens/internal/modules/product"
	"rentlens/internal/modules/report"
	jwtsvc "rentlens/internal/pkg/jwt"
	"rentlens/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	reportRepo := repository.NewReportRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	hub := notification.NewHub()
	notificationService := notification.NewService(notificationRepo, hub)
	notificationHandler := notification.NewHandler(notificationService, hub, j)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	productService := product.NewService(productRepo)
	productHandler := product.NewHandler(productService)

	discoveryService := discovery.NewService(productRepo, cfg.DefaultSearchRadiusKm)
	discoveryHandler := discovery.NewHandler(discoveryService)

	bookingService := booking.NewService(bookingRepo, productRepo, paymentRepo, notificationService, cfg.CourierFee)
	bookingHandler := booking.NewHandler(bookingService)

	gateway := payment.NewMidtransClient(cfg.GatewayBaseURL, cfg.GatewayServerKey, cfg.GatewayTimeout)
	paymentService := payment.NewService(paymentRepo, bookingRepo, userRepo, gateway, notificationService, cfg.GatewayServerKey)
	paymentHandler := payment.NewHandler(paymentService)

	reportService := report.NewService(db, reportRepo, userRepo, productRepo)
	reportHandler := report.NewHandler(reportService)

	adminService := admin.NewService(userRepo, productRepo, bookingRepo, reportRepo)
	adminHandler := admin.NewHandler(adminService)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterRoutes(v1)
		paymentHandler.RegisterWebhook(v1)
		notificationHandler.RegisterWS(v1)

		// protected
		protected := v1.Group("/")
		protected.Use(middleware.Auth(j), middleware.BanGuard(userRepo))
		{
			authHandler.RegisterProtectedRoutes(protected)
			productHandler.RegisterRoutes(protected)
			discoveryHandler.RegisterRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
			paymentHandler.RegisterRoutes(protected)
			reportHandler.RegisterRoutes(protected)
			notificationHandler.RegisterRoutes(protected)
		}

		// admin
		adm := v1.Group("/admin")
		adm.Use(middleware.Auth(j), middleware.AdminOnly())
		{
			adminHandler.RegisterRoutes(adm)
			reportHandler.RegisterAdminRoutes(adm)
		}
	}

	log.Printf("level=info msg=listening addr=%s env=%s", cfg.ListenAddr, cfg.AppEnv)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal(err)
	}
}
