package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"nutribot"
	"nutribot/app"
	"nutribot/chart"
	"nutribot/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joeshaw/envdecode"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout = 10 * time.Second

	modePolling = "polling"
	modeWebhook = "webhook"
)

func newPollCmd(serveMode serveFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "poll",
		Short: "Receive Telegram updates by long polling",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveMode(cmd.Context(), modePolling)
		},
	}
}

func newWebhookCmd(serveMode serveFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "webhook",
		Short: "Receive Telegram updates on a webhook",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveMode(cmd.Context(), modeWebhook)
		},
	}
}

func serve(ctx context.Context, mode string) error {
	var botConfig nutribot.BotConfig
	if err := envdecode.Decode(&botConfig); err != nil {
		return fmt.Errorf("failed to decode bot config: %w", err)
	}
	if botConfig.Token == "" {
		return errors.New("BOT_TOKEN is required")
	}
	if mode == modeWebhook && botConfig.WebhookHost == "" {
		return errors.New("WEBHOOK_HOST is required in webhook mode")
	}

	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}
	a, err := app.New(ctx, cfg, mode)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := a.Shutdown(shutdownCtx); err != nil {
			slog.Error("SETUP: Failed to shut down cleanly", "error", err)
		}
	}()

	api, err := tgbotapi.NewBotAPI(botConfig.Token)
	if err != nil {
		return fmt.Errorf("failed to connect to Telegram: %w", err)
	}
	slog.Info("SETUP: Authorized on Telegram", "bot", api.Self.UserName, "mode", mode)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	bot := telegram.New(api, a.Registry,
		telegram.WithChartRenderer(chart.Render),
		telegram.WithMetrics(telegram.NewMetrics(reg)),
		telegram.WithTelemetry(a.Telemetry),
	)

	if err := telegram.RegisterCommands(api, a.Registry.Commands()); err != nil {
		slog.Warn("SETUP: Failed to register command menu", "error", err)
	}

	var webhook http.Handler
	if mode == modeWebhook {
		if err := telegram.SetWebhook(api, botConfig.WebhookURL()); err != nil {
			return err
		}
		webhook = bot.WebhookHandler()
	} else if err := telegram.DeleteWebhook(api); err != nil {
		return err
	}

	server := &http.Server{
		Addr:              ":" + strconv.Itoa(botConfig.Port),
		Handler:           telegram.NewMux(botConfig.WebhookPath(), webhook, reg),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("SETUP: HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if mode == modePolling {
		g.Go(func() error {
			u := tgbotapi.NewUpdate(0)
			u.Timeout = 60
			updates := api.GetUpdatesChan(u)
			defer api.StopReceivingUpdates()
			return bot.Poll(gctx, updates)
		})
	}

	return g.Wait()
}
