package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/restaurant_admin/internal/config"
	"github.com/Skotchmaster/restaurant_admin/internal/events"
	"github.com/Skotchmaster/restaurant_admin/internal/httpserver"
	"github.com/Skotchmaster/restaurant_admin/internal/report"
	"github.com/Skotchmaster/restaurant_admin/internal/repo"
	"github.com/Skotchmaster/restaurant_admin/internal/search"
	"github.com/Skotchmaster/restaurant_admin/internal/service"
	pkgcfg "github.com/Skotchmaster/restaurant_admin/pkg/config"
	pkgdb "github.com/Skotchmaster/restaurant_admin/pkg/db"
	"github.com/Skotchmaster/restaurant_admin/pkg/logging"
	loggingmw "github.com/Skotchmaster/restaurant_admin/pkg/middleware/logging"
)

type eventSink interface {
	service.Publisher
	Close() error
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()
	cfg.JWTAccessSecret = pkgcfg.MustSecret("JWT_SECRET", 32)
	cfg.JWTRefreshSecret = pkgcfg.MustSecret("JWT_REFRESH_SECRET", 32)

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := repo.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	var sink eventSink = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		sink = events.NewProducer(cfg.KafkaBrokers)
	}

	r := &repo.GormRepo{DB: db}
	menuSvc := &service.MenuService{Repo: r, Events: sink, Topic: cfg.MenuTopic}
	orderSvc := &service.OrderService{Repo: r, Events: sink, Topic: cfg.OrderTopic}
	authSvc := &service.AuthService{
		Repo:          r,
		JWTSecret:     cfg.JWTAccessSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
	}

	if cfg.ESURL != "" {
		if idx, err := openMenuIndex(cfg); err != nil {
			logger.Warn("search_unavailable", "url", cfg.ESURL, "error", err)
		} else {
			menuSvc.Index = idx
		}
	}

	created, err := authSvc.EnsureAdmin(context.Background(), cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		log.Fatalf("ensure admin: %v", err)
	}
	if created {
		logger.Info("admin_created", "username", cfg.AdminUsername)
	}

	e := echo.New()
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.Secure())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: true,
	}))

	httpserver.Register(e, &httpserver.Deps{
		MenuHandler:  &httpserver.MenuHTTP{Svc: menuSvc},
		OrderHandler: &httpserver.OrderHTTP{Svc: orderSvc, Reports: report.NewRenderer()},
		AuthHandler:  &httpserver.AuthHTTP{Svc: authSvc},
		JWTSecret:    cfg.JWTAccessSecret,
		Refresher:    authSvc,
		Ready:        func(ctx context.Context) error { return pkgdb.Ping(ctx, db) },
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_failed", "error", err)
	}
	if err := sink.Close(); err != nil {
		logger.Error("kafka_close_failed", "error", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.Info("server_stopped")
}

func openMenuIndex(cfg config.Config) (*search.MenuIndex, error) {
	es, err := search.NewClient(search.Config{
		URL:      cfg.ESURL,
		User:     cfg.ESUser,
		Password: cfg.ESPassword,
		Index:    cfg.ESIndex,
	})
	if err != nil {
		return nil, err
	}

	idx := search.NewMenuIndex(es, cfg.ESIndex)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := idx.EnsureIndex(ctx); err != nil {
		return nil, err
	}
	return idx, nil
}
