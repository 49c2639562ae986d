package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joshi-samarth/AirlineManagementSystem/api"
	"github.com/joshi-samarth/AirlineManagementSystem/config"
	"github.com/joshi-samarth/AirlineManagementSystem/internal/bootstrap"
	"github.com/joshi-samarth/AirlineManagementSystem/internal/cache"
	"github.com/joshi-samarth/AirlineManagementSystem/internal/kafka"
	"github.com/joshi-samarth/AirlineManagementSystem/internal/logger"
	"github.com/joshi-samarth/AirlineManagementSystem/internal/repository"
	"github.com/joshi-samarth/AirlineManagementSystem/internal/repository/memory"
	"github.com/joshi-samarth/AirlineManagementSystem/internal/service/booking"
	"github.com/joshi-samarth/AirlineManagementSystem/internal/service/flights"
	"github.com/sirupsen/logrus"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		flightRepo  repository.FlightRepository
		bookingRepo repository.BookingRepository
	)
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		store := memory.NewStore()
		flightRepo, bookingRepo = store.Flights(), store.Bookings()
		logrus.Warn("using in-memory storage; data is lost on restart")
	default:
		pool, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			logrus.Fatalf("connect postgres: %v", err)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			logrus.Fatalf("ping postgres: %v", err)
		}
		if cfg.Database.AutoMigrate {
			if err := repository.InitSchema(ctx, pool); err != nil {
				logrus.Fatalf("init schema: %v", err)
			}
		}
		flightRepo = repository.NewFlightRepository(pool)
		bookingRepo = repository.NewBookingRepository(pool)
	}

	// The services treat a nil interface as "disabled", so only assign
	// concrete values that exist.
	var (
		bookingCache booking.Cache
		flightCache  flights.FlightCache
		producer     booking.Producer
	)
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.FlightsCacheTTL)*time.Second)
		defer redisCache.Close()
		if err := redisCache.Ping(ctx); err != nil {
			logrus.WithError(err).Warn("redis unavailable, flights cache will miss")
		}
		bookingCache, flightCache = redisCache, redisCache
	}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaProducer := kafka.NewProducer(cfg.Kafka.Brokers)
		defer kafkaProducer.Close()
		if err := kafkaProducer.CheckConnection(ctx); err != nil {
			logrus.WithError(err).Warn("kafka unavailable, booking events will be dropped")
		}
		producer = kafkaProducer
	}

	opts, err := booking.FromConfig(cfg.Booking, cfg.Kafka.NotificationsTopic)
	if err != nil {
		logrus.Fatalf("booking config: %v", err)
	}
	bookingService := booking.NewBookingService(bookingRepo, flightRepo, bookingCache, producer, cfg.Kafka.BookingEventsTopic, opts...)
	flightService := flights.NewFlightService(flightRepo, bookingRepo, flightCache)

	router := api.NewRouter(api.RouterDeps{
		Flights:  flightService,
		Bookings: bookingService,
		Auth:     api.NewAuthenticator(cfg.Auth.JWTSecret),
	})

	if err := bootstrap.Run(ctx, cfg.HTTP, router); err != nil {
		logrus.Fatalf("server error: %v", err)
	}
}
