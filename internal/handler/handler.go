package handler

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/set-night/ragzy/internal/config"
	"github.com/set-night/ragzy/internal/controller"
	"github.com/set-night/ragzy/internal/service"
	tg "github.com/set-night/ragzy/internal/telegram"
)

// Backend is the part of the document service the commands call directly.
type Backend interface {
	Health(ctx context.Context) (*service.HealthStatus, error)
	Clear(ctx context.Context) error
}

// Handler holds all dependencies needed by command and callback handlers.
type Handler struct {
	bot     *bot.Bot
	cfg     *config.Config
	ctrl    *controller.Controller
	backend Backend
	health  *service.HealthCache
	opsLog  *tg.OpsLogger
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Bot        *bot.Bot
	Cfg        *config.Config
	Controller *controller.Controller
	Backend    Backend
	OpsLogger  *tg.OpsLogger
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		bot:     deps.Bot,
		cfg:     deps.Cfg,
		ctrl:    deps.Controller,
		backend: deps.Backend,
		health:  service.NewHealthCache(config.HealthCacheTTL),
		opsLog:  deps.OpsLogger,
	}
}
