package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/brauni/hydrarr/internal/arr"
	"github.com/brauni/hydrarr/internal/auth"
	"github.com/brauni/hydrarr/internal/config"
	"github.com/brauni/hydrarr/internal/metrics"
	"github.com/brauni/hydrarr/internal/services"
)

type Bot struct {
	api    *tgbotapi.BotAPI
	config *config.Config
	auth   *auth.Authenticator
	store  *services.FileStore
	router *Router
}

func NewBot(cfg *config.Config, m *metrics.Metrics) (*Bot, error) {
	// Initialize Telegram bot API
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		cfg.Logger.Error("Failed to initialize Telegram bot API",
			zap.Error(err))
		return nil, fmt.Errorf("failed to initialize Telegram bot API: %w", err)
	}

	// Initialize authenticator
	authenticator := auth.NewAuthenticator(cfg.AllowedUserIDs, cfg.Logger)

	// Services are re-read from disk on every call, so edits apply without a restart
	store := services.NewFileStore(cfg.Services.File, cfg.Logger)

	client := arr.NewClient(arr.Options{
		Origin:            arr.ParseOrigin(cfg.Services.PageOrigin),
		Timeout:           cfg.Services.RequestTimeout,
		BreakerFailures:   cfg.Services.BreakerFailures,
		RequestsPerSecond: cfg.Services.RateLimit,
		Metrics:           m,
	}, cfg.Logger)
	dashboard := arr.NewAPI(client, store, m, cfg.Logger)

	return &Bot{
		api:    api,
		config: cfg,
		auth:   authenticator,
		store:  store,
		router: NewRouter(dashboard, store, cfg.Logger),
	}, nil
}

func (b *Bot) Start() error {
	b.config.Logger.Info("Starting Telegram bot",
		zap.String("bot_username", b.api.Self.UserName),
		zap.Int("allowed_users_count", b.auth.GetAllowedUsersCount()),
		zap.String("services_file", b.store.Path()))

	if assigned, err := b.store.AssignIDs(); err != nil {
		b.config.Logger.Warn("Could not assign service IDs",
			zap.Error(err))
	} else if assigned > 0 {
		b.config.Logger.Info("Assigned IDs to services",
			zap.Int("count", assigned))
	}

	if endpoints, err := b.store.Enabled(); err != nil {
		b.config.Logger.Warn("Services file is unreadable, serving demo data",
			zap.Error(err))
	} else if len(endpoints) == 0 {
		b.config.Logger.Info("No services configured, serving demo data")
	} else {
		b.config.Logger.Info("Services configured",
			zap.Int("enabled_count", len(endpoints)))
	}

	// Set up update configuration
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	// Get updates channel
	updates := b.api.GetUpdatesChan(u)

	// Process updates
	for update := range updates {
		switch {
		case update.Message != nil:
			b.handleMessage(update.Message)
		case update.CallbackQuery != nil:
			b.handleCallback(update.CallbackQuery)
		}
	}

	return nil
}

func (b *Bot) Stop() {
	b.config.Logger.Info("Stopping Telegram bot")
	b.api.StopReceivingUpdates()
}

func (b *Bot) GetBotInfo() string {
	return fmt.Sprintf("Bot: %s (@%s)", b.api.Self.FirstName, b.api.Self.UserName)
}
