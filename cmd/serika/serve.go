package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/serikabot/serika/internal/bot"
	"github.com/serikabot/serika/internal/config"
	"github.com/serikabot/serika/internal/enrich"
	"github.com/serikabot/serika/internal/gateway"
	"github.com/serikabot/serika/internal/gateway/discord"
	"github.com/serikabot/serika/internal/gateway/telegram"
	"github.com/serikabot/serika/internal/healthcheck"
	"github.com/serikabot/serika/internal/logger"
	"github.com/serikabot/serika/internal/model"
	"github.com/serikabot/serika/internal/server"
	"github.com/serikabot/serika/internal/session"
	"github.com/serikabot/serika/internal/store"
	"github.com/serikabot/serika/internal/version"
)

func runServe(configPath string) error {
	app := fx.New(
		fx.Provide(
			func() (config.Config, error) { return config.Load(configPath) },
			provideLogger,
			provideGateway,
			provideModelGateway,
			providePromptSource,
			provideSessionStore,
			provideEnricher,
			provideTrigger,
			provideDispatcher,
			provideChannelStore,
			provideChecker,
			provideServer,
		),
		fx.Invoke(
			startGateway,
			startSweeper,
			startServer,
		),
		fx.WithLogger(func(log *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: log.With(slog.String("component", "fx"))}
		}),
	)
	if err := app.Err(); err != nil {
		return err
	}
	app.Run()
	return nil
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func provideGateway(cfg config.Config, log *slog.Logger) (gateway.Gateway, error) {
	switch cfg.Gateway.Platform {
	case "discord":
		return discord.New(cfg.Discord.BotToken, log)
	case "telegram":
		return telegram.New(cfg.Telegram.BotToken, log)
	default:
		return nil, fmt.Errorf("unknown gateway platform %q", cfg.Gateway.Platform)
	}
}

func provideModelGateway(cfg config.Config, log *slog.Logger) (model.Gateway, error) {
	return model.NewGeminiGateway(context.Background(), model.Options{
		Name:            cfg.Model.Name,
		APIKey:          cfg.Model.APIKey,
		MaxOutputTokens: cfg.Model.MaxOutputTokens,
		Temperature:     cfg.Model.Temperature,
		TopP:            cfg.Model.TopP,
		SafetyThreshold: cfg.Model.SafetyThreshold,
		Timeout:         time.Duration(cfg.Model.TimeoutSeconds) * time.Second,
	}, log)
}

func providePromptSource(cfg config.Config, log *slog.Logger) session.PromptSource {
	return session.NewFilePromptSource(cfg.Prompt.Path, log)
}

func provideSessionStore(backend model.Gateway, prompts session.PromptSource, log *slog.Logger) *session.Store {
	return session.NewStore(backend, prompts, log)
}

func provideEnricher(cfg config.Config, log *slog.Logger) *enrich.Enricher {
	return enrich.NewEnricher(log,
		time.Duration(cfg.Enrich.TimeoutSeconds)*time.Second,
		enrich.NewYouTubeFetcher(cfg.Enrich.YouTubeAPIKey, "", log),
		enrich.NewSpotifyFetcher(enrich.SpotifyCredentials{
			ClientID:     cfg.Enrich.SpotifyClientID,
			ClientSecret: cfg.Enrich.SpotifyClientSecret,
		}, log),
		enrich.NewPageFetcher(cfg.Enrich.PageMaxChars, log),
	)
}

func provideTrigger(cfg config.Config) bot.Trigger {
	return bot.AnyTrigger(
		bot.MentionTrigger{},
		bot.NewKeywordTrigger(cfg.Trigger.Keyword),
		bot.NewProbabilityTrigger(cfg.Trigger.RandomPercent, nil),
	)
}

func provideDispatcher(gw gateway.Gateway, enricher *enrich.Enricher, sessions *session.Store, channels store.ChannelStore, trigger bot.Trigger, cfg config.Config, log *slog.Logger) *bot.Dispatcher {
	return bot.NewDispatcher(gw, enricher, sessions, channels, trigger, cfg.Trigger.ReplyOnBlocked, log)
}

func provideChannelStore(lc fx.Lifecycle, cfg config.Config, log *slog.Logger) (store.ChannelStore, error) {
	if !cfg.Postgres.Enabled {
		return store.Nop{}, nil
	}
	pg, err := store.OpenPostgres(context.Background(), cfg.Postgres.ConnString())
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{OnStop: func(ctx context.Context) error { pg.Close(); return nil }})
	return pg, nil
}

func provideChecker(gw gateway.Gateway, sessions *session.Store, cfg config.Config) healthcheck.Checker {
	return healthcheck.NewAgentChecker(gw, sessions, cfg.Model.APIKey != "")
}

func provideServer(cfg config.Config, checker healthcheck.Checker, dispatcher *bot.Dispatcher, sessions *session.Store, channels store.ChannelStore, log *slog.Logger) *server.Server {
	startedAt := time.Now()
	return server.NewServer(cfg.Server.Addr, checker, func() server.StatusInfo {
		active, err := channels.ActiveChannels(context.Background())
		if err != nil {
			log.Warn("list active channels failed", slog.Any("error", err))
		}
		return server.StatusInfo{
			Version:        version.Version,
			Commit:         version.Commit,
			Platform:       cfg.Gateway.Platform,
			BotName:        dispatcher.BotName(),
			StartedAt:      startedAt,
			Sessions:       sessions.Len(),
			ActiveChannels: active,
		}
	}, log)
}

func startGateway(lc fx.Lifecycle, gw gateway.Gateway, dispatcher *bot.Dispatcher, log *slog.Logger, shutdowner fx.Shutdowner) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := gw.Run(ctx, dispatcher); err != nil && !errors.Is(err, context.Canceled) {
					log.Error("gateway stopped", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}

func startSweeper(lc fx.Lifecycle, cfg config.Config, sessions *session.Store, log *slog.Logger) {
	ttl := time.Duration(cfg.Session.IdleTTLMinutes) * time.Minute
	if ttl <= 0 {
		return
	}
	var sweeper *session.Sweeper
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			var err error
			sweeper, err = session.StartSweeper(sessions, ttl, cfg.Session.SweepSchedule, log)
			return err
		},
		OnStop: func(context.Context) error {
			sweeper.Stop()
			return nil
		},
	})
}

func startServer(lc fx.Lifecycle, srv *server.Server, log *slog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("admin server stopped", slog.Any("error", err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
