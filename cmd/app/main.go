package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/akarpov91/flightbook/api"
	"github.com/akarpov91/flightbook/config"
	"github.com/akarpov91/flightbook/internal/auth"
	"github.com/akarpov91/flightbook/internal/bootstrap"
	"github.com/akarpov91/flightbook/internal/cache"
	"github.com/akarpov91/flightbook/internal/kafka"
	"github.com/akarpov91/flightbook/internal/repository"
	authsvc "github.com/akarpov91/flightbook/internal/service/auth"
	"github.com/akarpov91/flightbook/internal/service/booking"
	"github.com/akarpov91/flightbook/internal/service/flights"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, cfg.Booking.SearchCacheTTL())
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	tokens := auth.NewTokenManager(cfg.Auth.Secret, cfg.Auth.AccessTTL(), cfg.Auth.RefreshTTL())

	userRepo := repository.NewUserRepository(pool)
	airportRepo := repository.NewAirportRepository(pool)
	airlineRepo := repository.NewAirlineRepository(pool)
	aircraftRepo := repository.NewAircraftRepository(pool)
	flightRepo := repository.NewFlightRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	passengerRepo := repository.NewPassengerRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)

	authService := authsvc.NewAuthService(userRepo, tokens)
	flightService := flights.NewFlightService(flightRepo, redisCache)
	bookingService := booking.NewBookingService(
		bookingRepo,
		flightRepo,
		passengerRepo,
		paymentRepo,
		booking.WithProducer(producer, cfg.Kafka.BookingTopic),
	)

	router := api.NewRouter(api.Deps{
		Tokens:     tokens,
		Auth:       api.NewAuthHandler(authService),
		Users:      api.NewUserHandler(authService),
		Airports:   api.NewAirportHandler(airportRepo),
		Airlines:   api.NewAirlineHandler(airlineRepo),
		Aircraft:   api.NewAircraftHandler(aircraftRepo),
		Flights:    api.NewFlightHandler(flightService),
		Bookings:   api.NewBookingHandler(bookingService),
		Passengers: api.NewPassengerHandler(bookingService),
		Payments:   api.NewPaymentHandler(bookingService),
	})

	if err := bootstrap.Run(ctx, cfg, router); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
