package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/srgjo27/showtime_booking/internal/adapter/cache"
	"github.com/srgjo27/showtime_booking/internal/adapter/handler"
	"github.com/srgjo27/showtime_booking/internal/adapter/payment"
	"github.com/srgjo27/showtime_booking/internal/adapter/queue"
	"github.com/srgjo27/showtime_booking/internal/adapter/repository/memory"
	"github.com/srgjo27/showtime_booking/internal/adapter/repository/postgres"
	"github.com/srgjo27/showtime_booking/internal/core/domain"
	"github.com/srgjo27/showtime_booking/internal/core/ports"
	"github.com/srgjo27/showtime_booking/internal/core/services"
	"github.com/srgjo27/showtime_booking/internal/platform/config"
	"github.com/srgjo27/showtime_booking/internal/platform/database"
	"github.com/srgjo27/showtime_booking/internal/platform/logger"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		logger.New(logger.Config{}).Fatal("Invalid configuration", "error", err)
	}

	log := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: cfg.ServiceName,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	theatres, err := loadCatalog(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to load catalog", "source", cfg.CatalogSource, "error", err)
	}

	catalogRepo := memory.NewCatalogRepository()
	for _, theatre := range theatres {
		catalogRepo.AddTheatre(theatre)
	}
	log.Info("Catalog loaded", "source", cfg.CatalogSource, "theatres", len(theatres))

	var seatCache ports.SeatCache
	redisClient, err := cache.NewRedisClient(ctx, cache.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		log.Warn("Redis unavailable, seat map cache disabled", "addr", cfg.RedisAddr, "error", err)
	} else {
		defer redisClient.Close()
		seatCache = cache.NewSeatCache(redisClient, cfg.SeatCacheTTL)
		log.Info("Redis connected successfully", "addr", cfg.RedisAddr)
	}

	var events ports.EventPublisher
	if cfg.AMQPURL != "" {
		publisher := queue.NewPublisher(cfg.AMQPURL, cfg.AMQPDialTimeout, log)
		defer publisher.Close()
		events = publisher
	} else {
		log.Info("AMQP_URL not set, booking events disabled")
	}

	payments := payment.NewSimulator(payment.Config{
		Latency:      cfg.PaymentLatency,
		LimitCents:   cfg.PaymentLimitCents,
		DeclineUsers: cfg.PaymentDeclineUsers,
	})

	bookingRepo := memory.NewBookingRepository()
	bookingService := services.NewBookingService(bookingRepo, payments, seatCache, events, log, cfg.PaymentTimeout).
		WithPublishTimeout(cfg.PublishTimeout)
	catalogService := services.NewCatalogService(catalogRepo)

	bookingHandler := handler.NewBookingHandler(bookingService, catalogService, log)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.NewRouter(bookingHandler, log),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server startup failed", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	log.Info("Server exiting")
}

func loadCatalog(ctx context.Context, cfg *config.Config, log *logger.Logger) ([]*domain.Theatre, error) {
	if cfg.CatalogSource != config.CatalogPostgres {
		return memory.DemoTheatres(), nil
	}

	db, err := database.NewPostgresDB(ctx, cfg.DB, log)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return postgres.NewCatalogRepository(db).LoadTheatres(ctx)
}
