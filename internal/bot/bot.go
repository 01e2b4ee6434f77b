package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/awnkhoury1/awnzzbot/internal/commands"
	"github.com/awnkhoury1/awnzzbot/internal/config"
	"github.com/awnkhoury1/awnzzbot/internal/database"
	"github.com/awnkhoury1/awnzzbot/internal/metrics"
	"github.com/awnkhoury1/awnzzbot/internal/services"
	"github.com/awnkhoury1/awnzzbot/internal/services/resolver"
	"github.com/awnkhoury1/awnzzbot/pkg/logger"
)

// Bot wires the Telegram session, the playlist store and the resolver
// together behind the message router.
type Bot struct {
	config     *config.Config
	logger     *logger.Logger
	api        *tgbotapi.BotAPI
	db         *database.DB
	resolver   *resolver.Service
	playlists  *services.PlaylistService
	handler    *commands.Handler
	dispatcher *dispatcher
	metricsSrv *http.Server
}

// New creates a Bot instance. Everything that can fail permanently
// (bad token, unreachable database, missing yt-dlp) fails here, before
// any message is accepted.
func New(cfg *config.Config, log *logger.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram session: %w", err)
	}

	ctx := context.Background()
	db, err := database.Connect(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.RunMigrations(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	res, err := resolver.NewService(resolver.Config{
		TempDir:   cfg.TempDir,
		YtDlpPath: cfg.YtDlpPath,
		CacheLen:  cfg.SearchCacheLen,
		CacheTTL:  time.Duration(cfg.SearchCacheTTL) * time.Minute,
	}, log)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create resolver: %w", err)
	}

	playlists := services.NewPlaylistService(db, log)
	handler := commands.NewHandler(newTelegramTransport(api), res, playlists, log)

	b := &Bot{
		config:     cfg,
		logger:     log,
		api:        api,
		db:         db,
		resolver:   res,
		playlists:  playlists,
		handler:    handler,
		dispatcher: newDispatcher(handler, cfg.WorkerCount, log),
	}

	return b, nil
}

// Start begins consuming updates. Non-blocking; call Stop to shut down.
func (b *Bot) Start() error {
	b.logger.WithField("username", b.api.Self.UserName).Info("Authorized on Telegram")

	updateCfg := tgbotapi.NewUpdate(0)
	updateCfg.Timeout = b.config.PollTimeout

	b.dispatcher.Start(b.api.GetUpdatesChan(updateCfg))

	if b.config.MetricsAddr != "" {
		b.startMetricsServer()
	}

	return nil
}

// Stop shuts the bot down gracefully: stop polling, drain workers,
// close listeners and the database.
func (b *Bot) Stop() {
	b.logger.Info("Shutting down...")

	b.api.StopReceivingUpdates()
	b.dispatcher.Stop()

	if b.metricsSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := b.metricsSrv.Shutdown(ctx); err != nil {
			b.logger.WithError(err).Warn("Metrics server shutdown failed")
		}
	}

	b.db.Close()
}

func (b *Bot) startMetricsServer() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := b.db.Health(r.Context()); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprintln(w, "ok")
	})

	b.metricsSrv = &http.Server{
		Addr:    b.config.MetricsAddr,
		Handler: mux,
	}

	b.logger.WithField("addr", b.config.MetricsAddr).Info("Starting metrics server")
	go func() {
		if err := b.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			b.logger.WithError(err).Error("Metrics server failed")
		}
	}()
}
