package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/adapters/cache"
	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/adapters/database"
	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/adapters/events"
	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/api/handlers"
	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/api/middleware"
	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/api/routes"
	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/application/services"
	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/domain/providers"
	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/domain/repositories"
	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/domain/scheduling"
	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/infrastructure/clients/redis"
	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/infrastructure/observability"
	"github.com/zatekoja/Practitionerbookingdesign/backend/pkg/config"
)

func main() {

	// Load configuration

	cfg, err := config.Load()

	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	var shutdown func(context.Context) error
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err = observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Printf("Warning: Failed to set up OpenTelemetry: %v", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Printf("Error shutting down OpenTelemetry: %v", err)
				}
			}()
			log.Println("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
	}
	defer pgClient.Close()
	log.Println("PostgreSQL client initialized successfully")

	// Run schema migrations
	if err := pgClient.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	// Initialize Redis client
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Printf("Warning: Failed to initialize Redis client: %v", err)
		redisClient = nil
		// Continue without Redis - the application can work without caching
	} else {
		defer redisClient.Close()
		log.Println("Redis client initialized successfully")
	}

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	// Initialize adapters

	reservationAdapter := database.NewReservationAdapter(pgClient)

	// Create base schedule adapter
	baseScheduleAdapter := database.NewScheduleAdapter(pgClient)

	// Wrap with caching if Redis is available (for read performance optimization)
	var scheduleAdapter repositories.ScheduleRepository
	if cacheProvider != nil {
		scheduleAdapter = database.NewCachedScheduleAdapter(baseScheduleAdapter, cacheProvider)
		log.Println("✓ Schedule adapter wrapped with caching layer")
	} else {
		scheduleAdapter = baseScheduleAdapter
		log.Println("⚠ Schedule adapter running without cache (Redis unavailable)")
	}

	// Initialize event bus for real-time updates
	var eventBus providers.EventBus
	if redisClient != nil {
		eventBus = events.NewRedisEventBus(redisClient)
		log.Println("Event bus initialized successfully")
	} else {
		log.Println("Event bus disabled (Redis not available)")
	}

	// Initialize slot generation

	generator := scheduling.NewGenerator(
		cfg.Scheduling.HorizonDays,
		scheduling.PolicyByName(cfg.Scheduling.RoundingPolicy),
	)

	// Initialize services

	availabilityService := services.NewAvailabilityService(
		scheduleAdapter,
		reservationAdapter,
		generator,
	)
	availabilityService.SetMetrics(metrics)

	bookingService := services.NewBookingService(reservationAdapter, scheduleAdapter)
	bookingService.SetMetrics(metrics)

	// Set event bus for real-time updates
	if eventBus != nil {
		bookingService.SetEventBus(eventBus)
		log.Println("Event bus configured for booking service")
	}

	// Initialize handlers

	availabilityHandler := handlers.NewAvailabilityHandler(availabilityService)

	bookingHandler := handlers.NewBookingHandler(bookingService)

	// Initialize cache middleware
	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider)
		log.Println("Cache middleware initialized successfully")
	}

	// Set up router

	router := routes.NewRouter(
		availabilityHandler,
		bookingHandler,
		cacheMiddleware,
		metrics,
	)

	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	// Close event bus
	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Printf("Error closing event bus: %v", err)
		}
	}

	log.Println("Server stopped")
}
