package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/activity-journal/internal/config"
	"github.com/iliyamo/activity-journal/internal/engine"
	"github.com/iliyamo/activity-journal/internal/handler"
	"github.com/iliyamo/activity-journal/internal/queue"
	"github.com/iliyamo/activity-journal/internal/ratelimit"
	"github.com/iliyamo/activity-journal/internal/repository"
	"github.com/iliyamo/activity-journal/internal/router"
	"github.com/iliyamo/activity-journal/internal/store"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env wins

	cfg := config.Load()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Fatal("redis unreachable; the document store is required")
	}
	st := store.NewRedisStore(rdb)

	limiter := ratelimit.New(st, config.LoadRateLimitConfig())

	activities := repository.NewActivityRepo(st)
	categories := repository.NewCategoryRepo(st)
	preferences := repository.NewPreferenceRepo(st)
	userData := repository.NewUserDataRepo(st, activities, categories, preferences)
	eng := engine.New(st)

	events := queue.NewPublisher() // nil when the broker is down; handlers tolerate it
	go func() {
		if err := queue.StartBulkConsumer(); err != nil {
			log.Printf("bulk consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAPI(e, cfg.JWTSecret, limiter,
		handler.NewActivityHandler(activities, eng, events),
		handler.NewCategoryHandler(categories, eng, events),
		handler.NewPreferencesHandler(preferences),
		handler.NewUserDataHandler(userData, events),
	)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
