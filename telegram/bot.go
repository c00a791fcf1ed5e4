// Package telegram connects the session registry to the Telegram Bot API in
// long-poll or webhook mode.
package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"nutribot"
	"nutribot/commands"
	"nutribot/goals"
	"nutribot/session"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// API is the part of tgbotapi.BotAPI the bot uses.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Handler turns an intent into replies; *session.Registry implements it.
type Handler interface {
	Handle(ctx context.Context, in session.Intent) session.Response
}

// ChartRenderer renders a progress snapshot to PNG bytes.
type ChartRenderer func(p goals.Progress) ([]byte, error)

type Bot struct {
	api     API
	handler Handler
	render  ChartRenderer
	metrics *Metrics
	tracer  trace.Tracer
	wg      sync.WaitGroup

	// queues holds the updates waiting per sender while Poll runs; a sender
	// has a key only while a goroutine is draining its queue.
	qmu    sync.Mutex
	queues map[int64][]tgbotapi.Update
}

type Option func(*Bot)

func WithChartRenderer(r ChartRenderer) Option {
	return func(b *Bot) { b.render = r }
}

func WithMetrics(m *Metrics) Option {
	return func(b *Bot) { b.metrics = m }
}

func WithTelemetry(t nutribot.Telemetry) Option {
	return func(b *Bot) { b.tracer = t.TracerProvider.Tracer(nutribot.TracerNameTelegram) }
}

func New(api API, handler Handler, opts ...Option) *Bot {
	b := &Bot{api: api, handler: handler, queues: make(map[int64][]tgbotapi.Update)}
	WithTelemetry(nutribot.NoopTelemetry())(b)
	for _, opt := range opts {
		opt(b)
	}
	if b.metrics == nil {
		b.metrics = NewMetrics(prometheus.NewRegistry())
	}
	return b
}

// IntentFromMessage maps a Telegram message to an intent. Messages without a
// sender or text are ignored.
func IntentFromMessage(msg *tgbotapi.Message) (session.Intent, bool) {
	if msg == nil || msg.From == nil || msg.Chat == nil || msg.Text == "" {
		return session.Intent{}, false
	}

	in := session.Intent{
		ID:     uuid.NewString(),
		UserID: msg.From.ID,
		Text:   msg.Text,
	}
	if msg.IsCommand() {
		in.Command = strings.ToLower(msg.Command())
		in.Args = msg.CommandArguments()
	} else {
		in.Args = msg.Text
	}
	return in, true
}

// HandleUpdate handles one update and sends the replies to the chat it came from.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	start := time.Now()
	defer func() { b.metrics.duration.Observe(time.Since(start).Seconds()) }()

	in, ok := IntentFromMessage(update.Message)
	if !ok {
		b.metrics.updates.WithLabelValues("ignored").Inc()
		return
	}

	kind := "text"
	if in.Command != "" {
		kind = "command"
	}
	b.metrics.updates.WithLabelValues(kind).Inc()

	ctx, span := b.tracer.Start(ctx, "Bot.HandleUpdate", trace.WithAttributes(
		attribute.Int("update_id", update.UpdateID),
		attribute.String("intent_id", in.ID),
	))
	defer span.End()

	slog.Info("TELEGRAM: Message received", "user_id", in.UserID, "command", in.Command, "intent_id", in.ID)

	resp := b.handler.Handle(ctx, in)
	b.reply(update.Message.Chat.ID, resp)
}

func (b *Bot) reply(chatID int64, resp session.Response) {
	messages := resp.Messages

	if resp.Chart != nil {
		if b.sendChart(chatID, *resp.Chart, first(messages)) && len(messages) > 0 {
			messages = messages[1:]
		}
	}

	for _, text := range messages {
		b.send("text", tgbotapi.NewMessage(chatID, text))
	}
}

// sendChart sends the chart as a photo captioned with caption and reports
// whether it was delivered.
func (b *Bot) sendChart(chatID int64, p goals.Progress, caption string) bool {
	if b.render == nil {
		return false
	}

	data, err := b.render(p)
	if err != nil {
		slog.Error("TELEGRAM: Failed to render chart", "error", err, "chat_id", chatID)
		b.metrics.replies.WithLabelValues("photo", "render_error").Inc()
		return false
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "progress.png", Bytes: data})
	photo.Caption = caption
	return b.send("photo", photo)
}

func (b *Bot) send(kind string, c tgbotapi.Chattable) bool {
	if _, err := b.api.Send(c); err != nil {
		slog.Error("TELEGRAM: Failed to send reply", "error", err, "type", kind)
		b.metrics.replies.WithLabelValues(kind, "error").Inc()
		return false
	}
	b.metrics.replies.WithLabelValues(kind, "ok").Inc()
	return true
}

// Poll handles updates until ctx is done or the channel closes and waits for
// in-flight updates before returning. Updates from one sender are handled one
// at a time in arrival order; different senders are handled concurrently.
func (b *Bot) Poll(ctx context.Context, updates <-chan tgbotapi.Update) error {
	defer b.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.enqueue(ctx, update)
		}
	}
}

func (b *Bot) enqueue(ctx context.Context, update tgbotapi.Update) {
	key := senderID(update)

	b.qmu.Lock()
	pending, draining := b.queues[key]
	b.queues[key] = append(pending, update)
	b.qmu.Unlock()

	if draining {
		return
	}
	b.wg.Add(1)
	go b.drain(ctx, key)
}

func (b *Bot) drain(ctx context.Context, key int64) {
	defer b.wg.Done()

	for {
		b.qmu.Lock()
		pending := b.queues[key]
		if len(pending) == 0 {
			delete(b.queues, key)
			b.qmu.Unlock()
			return
		}
		update := pending[0]
		b.queues[key] = pending[1:]
		b.qmu.Unlock()

		b.HandleUpdate(ctx, update)
	}
}

// senderID keys the per-sender queues. Updates without a sender share key 0;
// HandleUpdate ignores them.
func senderID(update tgbotapi.Update) int64 {
	if update.Message == nil || update.Message.From == nil {
		return 0
	}
	return update.Message.From.ID
}

// WebhookHandler accepts updates posted by Telegram.
func (b *Bot) WebhookHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var update tgbotapi.Update
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			slog.Warn("TELEGRAM: Malformed webhook payload", "error", err)
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		b.HandleUpdate(r.Context(), update)
		w.WriteHeader(http.StatusOK)
	})
}

// RegisterCommands publishes the command menu shown by Telegram clients.
func RegisterCommands(api API, cmds *commands.Registry) error {
	var menu []tgbotapi.BotCommand
	for _, c := range cmds.GetCommands() {
		menu = append(menu, tgbotapi.BotCommand{Command: c.Name, Description: c.Description})
	}

	if _, err := api.Request(tgbotapi.NewSetMyCommands(menu...)); err != nil {
		return fmt.Errorf("failed to set bot commands: %w", err)
	}
	return nil
}

// SetWebhook points Telegram at url.
func SetWebhook(api API, url string) error {
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("invalid webhook url: %w", err)
	}
	if _, err := api.Request(wh); err != nil {
		return fmt.Errorf("failed to set webhook: %w", err)
	}
	slog.Info("TELEGRAM: Webhook set", "url", url)
	return nil
}

// DeleteWebhook removes any webhook so long polling can receive updates.
func DeleteWebhook(api API) error {
	if _, err := api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}
	return nil
}

func first(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}
