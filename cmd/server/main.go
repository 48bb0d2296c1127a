package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/orbitarium/planetarium-reservation/internal/config"
	"github.com/orbitarium/planetarium-reservation/internal/database"
	"github.com/orbitarium/planetarium-reservation/internal/handler"
	"github.com/orbitarium/planetarium-reservation/internal/middleware"
	"github.com/orbitarium/planetarium-reservation/internal/queue"
	"github.com/orbitarium/planetarium-reservation/internal/repository"
	"github.com/orbitarium/planetarium-reservation/internal/router"
	"github.com/orbitarium/planetarium-reservation/internal/service"
	"github.com/orbitarium/planetarium-reservation/internal/storage"
)

func main() {
	// .env is optional; real deployments set variables directly
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName, database.Pool{
		MaxOpenConns:    cfg.DBMaxOpen,
		MaxIdleConns:    cfg.DBMaxIdle,
		ConnMaxLifetime: cfg.DBConnLifetime,
	})
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; caching and rate limiting disabled")
	}
	cacheCfg := config.LoadCacheConfig()
	rlCfg := config.LoadRateLimitConfig()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	shows := repository.NewShowRepo(db)
	themes := repository.NewThemeRepo(db)
	domes := repository.NewDomeRepo(db)
	sessions := repository.NewSessionRepo(db)
	reservations := repository.NewReservationRepo(db)

	var media *storage.MediaCache
	if cfg.MediaBaseURL != "" {
		media = storage.NewMediaCache(&storage.StaticResolver{BaseURL: cfg.MediaBaseURL}, rdb, cacheCfg.MediaTTL)
	}

	authH := handler.NewAuthHandler(cfg, users, tokens)
	catH := handler.NewCatalogHandler(shows, themes, domes, sessions, media, cfg.MediaRoot)
	resH := handler.NewReservationHandler(reservations, sessions, service.NewAMQPPublisher(queue.BrokerURL()))

	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	// server-wide, so login/register brute force is limited too
	e.Use(middleware.RateLimit(rlCfg, rdb))

	e.Static("/media", cfg.MediaRoot)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterAPI(e, catH, resH, cfg.JWTSecret, cacheCfg, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
