package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"time"

	"github.com/joho/godotenv"

	"github.com/Skotchmaster/restaurant_admin/internal/config"
	"github.com/Skotchmaster/restaurant_admin/internal/repo"
	"github.com/Skotchmaster/restaurant_admin/internal/search"
	"github.com/Skotchmaster/restaurant_admin/internal/service"
	pkgdb "github.com/Skotchmaster/restaurant_admin/pkg/db"
	"github.com/Skotchmaster/restaurant_admin/pkg/logging"
)

func main() {
	reindex := flag.Bool("reindex", false, "push the whole catalog into Elasticsearch after seeding")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName+"-seed")
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()
	if err := repo.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	r := &repo.GormRepo{DB: db}
	authSvc := &service.AuthService{Repo: r}
	menuSvc := &service.MenuService{Repo: r}

	created, err := authSvc.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		log.Fatalf("ensure admin: %v", err)
	}
	logger.Info("admin_seeded", "username", cfg.AdminUsername, "created", created)

	n, err := menuSvc.SeedSampleMenu(ctx)
	if err != nil {
		log.Fatalf("seed menu: %v", err)
	}
	logger.Info("menu_seeded", "created", n)

	if !*reindex {
		return
	}
	if cfg.ESURL == "" {
		log.Fatalf("reindex: ES_URL is not set")
	}

	es, err := search.NewClient(search.Config{URL: cfg.ESURL, User: cfg.ESUser, Password: cfg.ESPassword, Index: cfg.ESIndex})
	if err != nil {
		log.Fatalf("elasticsearch: %v", err)
	}
	idx := search.NewMenuIndex(es, cfg.ESIndex)
	if err := idx.EnsureIndex(ctx); err != nil {
		log.Fatalf("ensure index: %v", err)
	}
	menuSvc.Index = idx

	indexed, err := menuSvc.Reindex(ctx)
	if err != nil {
		log.Fatalf("reindex: %v", err)
	}
	logger.Info("menu_reindexed", "documents", indexed)
}
