package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	ragzyroot "github.com/set-night/ragzy"
	"github.com/set-night/ragzy/internal/config"
	"github.com/set-night/ragzy/internal/controller"
	"github.com/set-night/ragzy/internal/domain"
	"github.com/set-night/ragzy/internal/handler"
	"github.com/set-night/ragzy/internal/middleware"
	"github.com/set-night/ragzy/internal/repository"
	"github.com/set-night/ragzy/internal/server"
	"github.com/set-night/ragzy/internal/service"
	"github.com/set-night/ragzy/internal/store"
	"github.com/set-night/ragzy/internal/telegram"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	persist, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to open store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	rag := service.NewRAGService(cfg.RAGAPIURL, cfg.RequestTimeout)

	// Late-bound so middlewares can be passed to bot.New.
	var ctrl *controller.Controller
	var opsLog *telegram.OpsLogger

	opts := []bot.Option{
		bot.WithMiddlewares(
			middleware.Recover(func(err error, where string, chatID int64) {
				opsLog.LogError(err, where, chatID)
			}),
			middleware.Logging(),
			middleware.RateLimit(middleware.NewChatLimiter(cfg.RateLimitPerMinute)),
			middleware.ChatLoader(func(ctx context.Context, chatID int64) {
				if ctrl != nil {
					ctrl.Warm(ctx, chatID)
				}
			}),
		),
	}
	if cfg.WebhookMode() && cfg.WebhookSecret != "" {
		opts = append(opts, bot.WithWebhookSecretToken(cfg.WebhookSecret))
	}

	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	// Get bot info
	me, err := b.GetMe(ctx)
	if err != nil {
		slog.Error("failed to get bot info", "error", err)
		os.Exit(1)
	}
	slog.Info("bot info retrieved", "id", me.ID, "username", me.Username)

	opsLog = telegram.NewOpsLogger(b, cfg)
	presenter := telegram.NewPresenter(b)
	defer presenter.StopAll()

	ctrl = controller.New(rag, persist, presenter, controller.Options{
		DedupeUploads:  cfg.DedupeUploads,
		AutoUpload:     cfg.AutoUpload,
		ToastTTL:       cfg.ToastTTL,
		RequestTimeout: cfg.RequestTimeout,
		MaxFileBytes:   cfg.MaxPDFBytes(),
		OnUpload: func(chatID int64, rec domain.UploadedFileRecord) {
			opsLog.LogUpload(chatID, rec.Filename, rec.Pages, rec.ChunkCount())
		},
	})
	defer ctrl.Close()

	h := handler.New(handler.Deps{
		Bot:        b,
		Cfg:        cfg,
		Controller: ctrl,
		Backend:    rag,
		OpsLogger:  opsLog,
	})
	h.Register()

	if cfg.WebhookMode() {
		runWebhook(ctx, cfg, b, ctrl)
	} else {
		runPolling(ctx, cfg, b)
	}

	// Graceful shutdown
	slog.Info("bot stopped gracefully")
}

func runPolling(ctx context.Context, cfg *config.Config, b *bot.Bot) {
	if _, err := b.DeleteWebhook(ctx, &bot.DeleteWebhookParams{DropPendingUpdates: cfg.DropPendingUpdates}); err != nil {
		slog.Warn("failed to delete webhook", "error", err)
	}

	slog.Info("starting bot", "mode", "polling")
	b.Start(ctx)
}

func runWebhook(ctx context.Context, cfg *config.Config, b *bot.Bot, ctrl *controller.Controller) {
	if _, err := b.SetWebhook(ctx, &bot.SetWebhookParams{
		URL:                cfg.WebhookURL,
		SecretToken:        cfg.WebhookSecret,
		DropPendingUpdates: cfg.DropPendingUpdates,
	}); err != nil {
		slog.Error("failed to set webhook", "error", err)
		os.Exit(1)
	}

	go b.StartWebhook(ctx)

	e := server.New(cfg.WebhookPath(), b.WebhookHandler(), ctrl)
	slog.Info("starting bot", "mode", "webhook", "path", cfg.WebhookPath())
	if err := server.Run(ctx, e, fmt.Sprintf(":%d", cfg.Port)); err != nil {
		slog.Error("http server failed", "error", err)
	}
}

// openStore selects the persistence backend. The memory driver keeps
// snapshots for the life of the process only.
func openStore(ctx context.Context, cfg *config.Config) (controller.Persistence, func(), error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}

		migrationsFS, err := fs.Sub(ragzyroot.MigrationsFS, "migrations")
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
			pool.Close()
			return nil, nil, err
		}

		return store.NewClientState(store.NewPostgresStore(pool), store.JSONCodec{}), pool.Close, nil

	case config.StoreRedis:
		rdb, err := store.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, config.RedisKeyPrefix)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := rdb.Close(); err != nil {
				slog.Warn("close redis", "error", err)
			}
		}
		return store.NewClientState(rdb, store.MsgpackCodec{}), closeFn, nil

	default:
		return store.NewClientState(store.NewMemoryStore(), store.JSONCodec{}), func() {}, nil
	}
}
