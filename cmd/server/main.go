package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/showtime/movie-booking/internal/config"
	"github.com/showtime/movie-booking/internal/database"
	"github.com/showtime/movie-booking/internal/handler"
	"github.com/showtime/movie-booking/internal/queue"
	"github.com/showtime/movie-booking/internal/repository"
	"github.com/showtime/movie-booking/internal/router"
	"github.com/showtime/movie-booking/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	movies := repository.NewMovieRepo(db)
	theaters := repository.NewTheaterRepo(db)
	shows := repository.NewShowRepo(db)
	seats := repository.NewSeatRepo(db)
	bookings := repository.NewBookingRepo(db)
	payments := repository.NewPaymentRepo(db)
	tickets := repository.NewTicketRepo(db)
	notifications := repository.NewNotificationRepo(db)

	streams := service.NewStreamRegistry()
	gateway := service.NewDummyGateway()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	consumer := queue.NewConsumer(notifications, streams)
	go func() {
		if err := consumer.Start(ctx); err != nil {
			log.Printf("queue consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true

	router.Register(e, router.Deps{
		Cfg:      cfg,
		CacheCfg: config.LoadCacheConfig(),
		LimitCfg: config.LoadRateLimitConfig(),
		Redis:    rdb,
		Auth:     handler.NewAuthHandler(cfg, users, tokens),
		Users:    handler.NewUserHandler(cfg, users, tokens, movies),
		Movies:   handler.NewMovieHandler(movies),
		Theaters: handler.NewTheaterHandler(theaters),
		Shows:    handler.NewShowHandler(cfg, movies, theaters, shows, seats),
		Bookings: handler.NewBookingHandler(cfg, bookings, shows, seats, payments, tickets, movies, theaters, gateway),
		Payments: handler.NewPaymentHandler(bookings, payments, gateway),
		Admin:    handler.NewAdminHandler(bookings, seats, shows, payments),
		Notifs:   handler.NewNotificationHandler(notifications, streams),
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
