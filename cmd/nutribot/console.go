package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"nutribot"
	"nutribot/app"
	"nutribot/chart"
	"nutribot/goals"
	"nutribot/session"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type handler interface {
	Handle(ctx context.Context, in session.Intent) session.Response
}

// console is a line-oriented chat with the registry over stdin/stdout.
type console struct {
	handler  handler
	in       io.Reader
	out      io.Writer
	userID   int64
	debug    bool
	chartDir string
	render   func(p goals.Progress) ([]byte, error)
	charts   int
}

func newConsoleCmd() *cobra.Command {
	c := &console{render: chart.Render}

	cmd := &cobra.Command{
		Use:   "console",
		Short: "Chat with the bot from the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig()
			if err != nil {
				return err
			}
			a, err := app.New(cmd.Context(), cfg, "console")
			if err != nil {
				return err
			}
			defer func() {
				if err := a.Shutdown(context.WithoutCancel(cmd.Context())); err != nil {
					slog.Error("SETUP: Failed to shut down cleanly", "error", err)
				}
			}()

			c.handler = a.Registry
			c.in = cmd.InOrStdin()
			c.out = cmd.OutOrStdout()
			return c.run(cmd.Context())
		},
	}

	cmd.Flags().Int64Var(&c.userID, "user", 1, "user id to chat as")
	cmd.Flags().BoolVar(&c.debug, "debug", false, "dump every response")
	cmd.Flags().StringVar(&c.chartDir, "chart-dir", ".", "directory progress charts are written to")

	return cmd
}

func (c *console) run(ctx context.Context) error {
	fmt.Fprintln(c.out, "Type /start to begin, Ctrl-D to quit.")

	scanner := bufio.NewScanner(c.in)
	for {
		fmt.Fprint(c.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(c.out)
			return scanner.Err()
		}
		if err := ctx.Err(); err != nil {
			return nil
		}

		in, ok := parseLine(c.userID, scanner.Text())
		if !ok {
			continue
		}

		resp := c.handler.Handle(ctx, in)
		if c.debug {
			nutribot.Fdump(c.out, resp)
		}
		for _, msg := range resp.Messages {
			fmt.Fprintln(c.out, msg)
		}
		if resp.Chart != nil {
			c.saveChart(*resp.Chart)
		}
	}
}

func (c *console) saveChart(p goals.Progress) {
	png, err := c.render(p)
	if err != nil {
		fmt.Fprintf(c.out, "(chart unavailable: %v)\n", err)
		return
	}

	c.charts++
	path := filepath.Join(c.chartDir, fmt.Sprintf("progress-%d.png", c.charts))
	if err := os.WriteFile(path, png, 0o644); err != nil {
		fmt.Fprintf(c.out, "(chart unavailable: %v)\n", err)
		return
	}
	fmt.Fprintf(c.out, "(chart saved to %s)\n", path)
}

// parseLine turns a typed line into an intent the way the Telegram transport
// does: "/cmd args" is a command, anything else free text.
func parseLine(userID int64, line string) (session.Intent, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return session.Intent{}, false
	}

	in := session.Intent{
		ID:     uuid.NewString(),
		UserID: userID,
		Text:   line,
	}

	if !strings.HasPrefix(line, "/") || len(line) == 1 {
		in.Args = line
		return in, true
	}

	head, rest, _ := strings.Cut(line[1:], " ")
	head, _, _ = strings.Cut(head, "@")
	in.Command = strings.ToLower(head)
	in.Args = strings.TrimSpace(rest)
	return in, true
}
