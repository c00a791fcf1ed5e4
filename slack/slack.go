package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"nutribot"
)

type doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client posts to a Slack incoming webhook.
type Client struct {
	webhookURL string
	httpClient doer
}

func NewClient(webhookURL string, httpClient doer) *Client {
	return &Client{
		webhookURL: webhookURL,
		httpClient: httpClient,
	}
}

func (c *Client) PostMessage(ctx context.Context, channel string, message string) error {
	payload, err := json.Marshal(map[string]any{
		"channel": channel,
		"text":    message,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to post message: %s", resp.Status)
	}

	return nil
}

const defaultMirrorTimeout = 5 * time.Second

// Mirror is an exchange logger that posts every handled intent, with the
// replies the bot sent, to a Slack channel.
type Mirror struct {
	client  nutribot.SlackClient
	channel string
	timeout time.Duration
}

func NewMirror(client nutribot.SlackClient, channel string) *Mirror {
	return &Mirror{client: client, channel: channel, timeout: defaultMirrorTimeout}
}

func (m *Mirror) LogExchange(exchange nutribot.ExchangeLog) error {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()
	return m.client.PostMessage(ctx, m.channel, FormatExchange(exchange))
}

// FormatExchange renders an exchange as Slack mrkdwn.
func FormatExchange(e nutribot.ExchangeLog) string {
	var b strings.Builder

	input := e.Text
	if input == "" {
		input = "/" + e.Command
	}
	fmt.Fprintf(&b, "*user %d* `%s` (%d ms)", e.UserID, input, e.DurationMS)
	if e.DialogIn != e.DialogOut {
		fmt.Fprintf(&b, " %s → %s", e.DialogIn, e.DialogOut)
	}

	for _, r := range e.Replies {
		for _, line := range strings.Split(r, "\n") {
			b.WriteString("\n> " + line)
		}
	}
	if e.Chart {
		b.WriteString("\n:bar_chart: progress chart attached")
	}
	if e.Error != "" {
		fmt.Fprintf(&b, "\n:warning: %s", e.Error)
	}

	return b.String()
}
