package main // Entry point package

import (
	"context"
	"errors"
	"log" // Logging library
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4" // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware"
	glog "github.com/labstack/gommon/log"

	"github.com/iliyamo/event-records/internal/config"
	"github.com/iliyamo/event-records/internal/database"
	"github.com/iliyamo/event-records/internal/metrics"
	"github.com/iliyamo/event-records/internal/middleware"
	"github.com/iliyamo/event-records/internal/queue"
	"github.com/iliyamo/event-records/internal/repository"
	"github.com/iliyamo/event-records/internal/repository/memory"
	"github.com/iliyamo/event-records/internal/router"
	"github.com/iliyamo/event-records/internal/service"
)

func main() {
	cfg := config.Load() // Load environment config

	store, closeStore := openStore(cfg)
	defer closeStore()

	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb == nil {
		log.Printf("redis unavailable; response cache and rate limiting disabled")
	} else {
		defer rdb.Close()
	}
	cacheCfg := config.LoadCacheConfig()
	m := metrics.New()

	notifiers := service.Notifiers{m}
	if inv := middleware.NewCacheInvalidator(cacheCfg, rdb); inv != nil {
		notifiers = append(notifiers, inv)
	}
	if cfg.AMQPURL != "" {
		notifiers = append(notifiers, queue.NewPublisher(cfg.AMQPURL, cfg.AuditQueue, cfg.PublishTimeout))
	} else {
		log.Printf("RABBITMQ_URL not set; change events will not be published")
	}
	svc := service.New(store, notifiers)

	e := echo.New() // Create Echo instance
	e.HideBanner = true
	e.Logger.SetLevel(logLevel(cfg.LogLevel))
	e.Use(echomw.RequestID())
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.BodyLimit(cfg.BodyLimit))
	e.Use(m.Middleware())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(cacheCfg, rdb))

	router.RegisterRoutes(e, store, m)
	router.RegisterRecords(e, svc)

	addr := ":" + cfg.Port // Address string with port
	log.Printf("listening on %s (env=%s, db=%s)", addr, cfg.Env, cfg.DBDriver)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) { // Start HTTP server
			log.Fatal(err) // Log and exit if server fails
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

// openStore returns the record store selected by DB_DRIVER and a function
// releasing it.
func openStore(cfg config.Config) (repository.Store, func()) {
	if cfg.DBDriver == "memory" {
		log.Printf("using in-memory store; data is lost on exit")
		return memory.New(), func() {}
	}
	db, dialect, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("open %s database: %v", cfg.DBDriver, err)
	}
	store := repository.NewSQLStore(db, dialect)
	if cfg.DBMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := store.Migrate(ctx); err != nil {
			log.Fatalf("migrate: %v", err)
		}
	}
	return store, func() { _ = db.Close() }
}

func logLevel(s string) glog.Lvl {
	switch strings.ToLower(s) {
	case "debug":
		return glog.DEBUG
	case "warn", "warning":
		return glog.WARN
	case "error":
		return glog.ERROR
	case "off":
		return glog.OFF
	}
	return glog.INFO
}
