package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/inkpress/blog-api/internal/api"
	"github.com/inkpress/blog-api/internal/core/service"
	"github.com/inkpress/blog-api/internal/infrastructure/config"
	mongodb "github.com/inkpress/blog-api/internal/infrastructure/db/mongo"
	redisdb "github.com/inkpress/blog-api/internal/infrastructure/db/redis"
	"github.com/inkpress/blog-api/internal/infrastructure/mail"
	"github.com/inkpress/blog-api/internal/infrastructure/queue"
	"github.com/inkpress/blog-api/internal/infrastructure/storage"
	"github.com/inkpress/blog-api/pkg/logger"
)

const (
	shutdownTimeout = 10 * time.Second

	loginMaxFailures = 5
	loginWindow      = 15 * time.Minute
)

func main() {
	// Missing .env is fine outside local development.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Config{
		Level:   cfg.LogLevel,
		Console: cfg.IsDevelopment(),
	})

	// --- MongoDB ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("mongodb index creation failed")
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	// --- Redis (login throttling; optional) ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	var limiter service.LoginLimiter
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, login throttling disabled")
		rdb = nil
	} else {
		limiter = redisdb.NewLoginLimiter(rdb, loginMaxFailures, loginWindow)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")
	}

	// --- Outbound mail (SES behind an async dispatcher) ---
	sesMailer, err := mail.NewSESMailer(ctx, mail.Config{
		Region:      cfg.Mail.Region,
		FromAddress: cfg.Mail.FromAddress,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("ses mailer initialisation failed")
	}
	dispatcher := queue.NewMailDispatcher(sesMailer, cfg.Mail.Workers, logger.Component("mail"))
	dispatcher.Start(ctx)

	// --- Image storage ---
	images, err := storage.NewS3ImageStore(ctx, storage.Config{
		Region:        cfg.Storage.Region,
		Bucket:        cfg.Storage.Bucket,
		BaseEndpoint:  cfg.Storage.BaseEndpoint,
		AccessKey:     cfg.Storage.AccessKey,
		SecretKey:     cfg.Storage.SecretKey,
		PublicBaseURL: cfg.Storage.PublicBaseURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("image store initialisation failed")
	}

	// --- Repositories and services ---
	userRepo := mongodb.NewUserRepository(db)
	postRepo := mongodb.NewPostRepository(db)
	commentRepo := mongodb.NewCommentRepository(db)
	newsletterRepo := mongodb.NewNewsletterRepository(db)

	tokens := service.NewTokenService(
		cfg.Auth.AccessSecret,
		cfg.Auth.RefreshSecret,
		cfg.Auth.AccessTokenTTL,
		cfg.Auth.RefreshTokenTTL,
	)
	authService := service.NewAuthService(userRepo, tokens, dispatcher, limiter, cfg.ClientURL, log)
	postService := service.NewPostService(postRepo, images, log)
	commentService := service.NewCommentService(commentRepo, postRepo, userRepo, log)
	newsletterService := service.NewNewsletterService(newsletterRepo, log)

	e := api.NewRouter(api.Dependencies{
		Auth:          authService,
		Posts:         postService,
		Comments:      commentService,
		Newsletter:    newsletterService,
		Tokens:        tokens,
		Users:         userRepo,
		Mongo:         db,
		Redis:         rdb,
		SecureCookies: !cfg.IsDevelopment(),
		Logger:        log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server start failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("mongodb disconnect failed")
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close failed")
		}
	}
	log.Info().Msg("shutdown complete")
}
