package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"nutribot"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("SETUP: Failed to load .env file", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newRootCmd(serve).ExecuteContext(ctx)
}

// serveFunc runs the Telegram bot in the given mode until ctx is done.
type serveFunc func(ctx context.Context, mode string) error

// newRootCmd builds the CLI. Run without a subcommand it serves in the mode
// named by MODE.
func newRootCmd(serveMode serveFunc) *cobra.Command {
	root := &cobra.Command{
		Use:           "nutribot",
		Short:         "Nutrition and hydration tracking bot",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := configuredMode()
			if err != nil {
				return err
			}
			return serveMode(cmd.Context(), mode)
		},
	}

	root.AddCommand(
		newPollCmd(serveMode),
		newWebhookCmd(serveMode),
		newConsoleCmd(),
	)

	return root
}

func configuredMode() (string, error) {
	var botConfig nutribot.BotConfig
	if err := envdecode.Decode(&botConfig); err != nil {
		return "", fmt.Errorf("failed to decode bot config: %w", err)
	}

	switch mode := strings.ToLower(strings.TrimSpace(botConfig.Mode)); mode {
	case modePolling, modeWebhook:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown MODE %q, want %q or %q", botConfig.Mode, modePolling, modeWebhook)
	}
}
