package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/pagefeed/social-system/internal/api"
	"github.com/pagefeed/social-system/internal/core/service"
	mongodb "github.com/pagefeed/social-system/internal/infrastructure/db/mongo"
	redisdb "github.com/pagefeed/social-system/internal/infrastructure/db/redis"
	"github.com/pagefeed/social-system/internal/infrastructure/jobs"
	"github.com/pagefeed/social-system/internal/infrastructure/mail"
	"github.com/pagefeed/social-system/internal/infrastructure/queue"
	"github.com/pagefeed/social-system/internal/pkg/config"
	"github.com/pagefeed/social-system/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- MongoDB ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	pageRepo := mongodb.NewPageRepository(db)
	postRepo := mongodb.NewPostRepository(db)
	userRepo := mongodb.NewUserRepository(db)
	tagRepo := mongodb.NewTagRepository(db)

	for name, idx := range map[string]interface {
		EnsureIndexes(context.Context) error
	}{
		"pages": pageRepo,
		"posts": postRepo,
		"users": userRepo,
		"tags":  tagRepo,
	} {
		if err := idx.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Str("collection", name).Msg("index creation failed")
		}
	}

	// --- Redis ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	followLock := redisdb.NewFollowLock(rdb)
	statsPublisher := redisdb.NewStatsPublisher(rdb, cfg.Redis.StatsChannel)

	// --- Event pipeline ---
	mailer := mail.NewSMTPMailer(mail.Config{
		Addr:     cfg.SMTP.Addr,
		From:     cfg.SMTP.From,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
	})
	notifier := service.NewNotifyService(pageRepo, postRepo, userRepo, statsPublisher, mailer, log)
	dispatcher := queue.NewDispatcher(cfg.Dispatcher.Workers, notifier, log)
	dispatcher.Start(ctx)

	// --- Background jobs ---
	sweeper := jobs.NewUnblockSweeper(pageRepo, userRepo, log)
	if err := sweeper.Start(cfg.Jobs.UnblockSweepSpec); err != nil {
		log.Fatal().Err(err).Msg("unblock sweeper failed to start")
	}
	defer sweeper.Stop()

	// --- Services ---
	svc := api.Services{
		Auth: service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL),
		Page: service.NewPageService(pageRepo, postRepo, userRepo, tagRepo, followLock, dispatcher, log),
		Post: service.NewPostService(postRepo, pageRepo, userRepo, dispatcher, log),
		Feed: service.NewFeedService(pageRepo, postRepo, userRepo, log),
	}

	e := api.NewRouter(svc, db, rdb, cfg.JWTSecret, log)

	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
