package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"time"

	_ "github.com/lib/pq"

	"timeclock/internal/attendance"
	"timeclock/internal/attendance/cache"
	attendancestore "timeclock/internal/attendance/store"
	"timeclock/internal/login"
	personstore "timeclock/internal/person/store"
	"timeclock/internal/platform/config"
	"timeclock/internal/platform/httpserver"
	"timeclock/internal/platform/logger"
	"timeclock/internal/platform/metrics"
	platformredis "timeclock/internal/platform/redis"
	"timeclock/internal/registration"
	"timeclock/internal/token"
	httptransport "timeclock/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if cfg.JWTSigningKey == "" {
		log.Fatal("JWT_SIGNING_KEY is required")
	}

	var (
		persons   personstore.PersonStore
		companies personstore.CompanyStore
		entries   attendancestore.EntryStore
	)
	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("open postgres: %v", err)
		}
		if err := db.Ping(); err != nil {
			log.Fatalf("ping postgres: %v", err)
		}
		defer db.Close()

		persons = personstore.NewPostgresPersonStore(db)
		companies = personstore.NewPostgresCompanyStore(db)
		entries = attendancestore.NewPostgresEntryStore(db)
		log.Printf("using postgres stores")
	} else {
		persons = personstore.NewInMemoryPersonStore()
		companies = personstore.NewInMemoryCompanyStore()
		entries = attendancestore.NewInMemoryEntryStore()
		log.Printf("POSTGRES_DSN not set, using in-memory stores")
	}

	var entryCache cache.EntryCache
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Fatalf("connect redis: %v", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		entryCache = cache.NewRedisCache(redisClient.Client, config.EntryCacheTTL)
		log.Printf("using redis entry cache")
	} else {
		entryCache = cache.NewMemoryCache(config.EntryCacheTTL)
	}

	m := metrics.New()
	tokens := token.NewService(cfg.JWTSigningKey, "timeclock")

	registrar := attendance.NewRegistrar(entries, persons, entryCache, m, log)
	registrationService := registration.NewService(persons, companies, m, log)
	loginService := login.NewService(persons, tokens, cfg.TokenTTL, log)

	router := httptransport.NewRouter(httptransport.RouterDeps{
		Registration: registrationService,
		Login:        loginService,
		Attendance:   registrar,
		Tokens:       tokens,
		PageSize:     cfg.PageSize,
		Logger:       log,
	})

	srv := httpserver.New(cfg.Addr, router)

	log.Printf("starting timeclock on %s", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("graceful shutdown failed: %v", err)
	}
}
