package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/foodtruck-reservation/internal/booking"
	"github.com/iliyamo/foodtruck-reservation/internal/config"
	"github.com/iliyamo/foodtruck-reservation/internal/database"
	"github.com/iliyamo/foodtruck-reservation/internal/handler"
	appmw "github.com/iliyamo/foodtruck-reservation/internal/middleware"
	"github.com/iliyamo/foodtruck-reservation/internal/queue"
	"github.com/iliyamo/foodtruck-reservation/internal/repository"
	"github.com/iliyamo/foodtruck-reservation/internal/router"
)

func main() {
	// .env is a development convenience; production sets real env vars.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	locations := repository.NewLocationRepo(db)
	schedules := repository.NewScheduleRepo(db)
	inventory := repository.NewInventoryRepo(db)
	reservations := repository.NewReservationRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)

	engine := booking.NewEngine(locations, schedules, inventory, reservations, nil)

	// Redis is optional: without it the limiter and cache become
	// pass-throughs.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and response cache disabled")
	}
	cacheMW := appmw.NewRedisCache(config.LoadCacheConfig(), rdb)
	rateMW := appmw.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	publishEvents := cfg.AMQPURL != ""
	if publishEvents {
		go func() {
			if err := queue.StartConsumer(cfg.AMQPURL, cfg.EventLogPath); err != nil {
				log.Printf("reservation consumer stopped: %v", err)
			}
		}()
	} else {
		log.Printf("AMQP_URL not set; confirmation events disabled")
	}

	e := echo.New()
	e.HideBanner = true

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)
	router.RegisterPublic(e, handler.NewPublicHandler(engine, publishEvents), cacheMW, rateMW)
	router.RegisterStaff(e, handler.NewStaffHandler(engine), cfg.JWTSecret)
	router.RegisterAdmin(e, handler.NewAdminHandler(engine), cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
