package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/globetrek/booking-backend/config"
	"github.com/globetrek/booking-backend/handlers"
	"github.com/globetrek/booking-backend/internal/store/postgres"
	"github.com/globetrek/booking-backend/logger"
	"github.com/globetrek/booking-backend/middleware"
	"github.com/globetrek/booking-backend/services"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	logger.InitLogger()
	log := logger.GetLogger()
	defer func() { _ = logger.Close() }()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.Database.ConnectionString())
	if err != nil {
		log.Fatalf("Failed to parse database config: %v", err)
	}
	poolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	if life, err := time.ParseDuration(cfg.Database.ConnMaxLife); err == nil {
		poolConfig.MaxConnLifetime = life
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() { _ = redisClient.Close() }()

	// Stores and services
	bookingStore := postgres.NewBookingStore(pool)
	bookingService := services.NewBookingService(bookingStore)
	catalogService := services.NewTripCatalogService(bookingStore)
	healthService := services.NewHealthService(pool, redisClient, cfg.Server.Version)

	// Handlers
	tripHandler := handlers.NewTripHandler(catalogService, bookingService)
	clientHandler := handlers.NewClientHandler(bookingService)
	healthHandler := handlers.NewHealthHandler(healthService)

	// Router setup
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware(),
		middleware.CORSMiddleware(&cfg.Server),
		middleware.ErrorHandler(),
	)

	r.GET("/health", healthHandler.HealthCheckHandler)

	v1 := r.Group("/v1")
	{
		trips := v1.Group("/trips")
		trips.GET("", tripHandler.ListTripsHandler)
		trips.POST("/:id/clients",
			middleware.RegistrationRateLimiter(
				redisClient,
				cfg.RateLimit.RegistrationsPerMinute,
				time.Duration(cfg.RateLimit.WindowSeconds)*time.Second,
			),
			tripHandler.RegisterClientHandler,
		)

		v1.DELETE("/clients/:id", clientHandler.DeleteClientHandler)
	}

	log.Infof("Starting server on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
