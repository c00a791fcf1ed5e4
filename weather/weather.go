package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"nutribot"
)

type Client struct {
	endpoint   string
	apiKey     string
	httpClient nutribot.HTTPClient
}

type ClientOpts struct {
	BaseURL    string
	APIKey     string
	HTTPClient nutribot.HTTPClient
}

// NewClient creates an OpenWeatherMap current-weather client.
func NewClient(opts ClientOpts) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("weather API key is required")
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Client{
		endpoint:   strings.TrimRight(opts.BaseURL, "/") + "/data/2.5/weather",
		apiKey:     opts.APIKey,
		httpClient: opts.HTTPClient,
	}, nil
}

type wireResponse struct {
	Main struct {
		Temp *float64 `json:"temp"`
	} `json:"main"`
}

// Temperature returns the current temperature in °C. Every failure wraps
// nutribot.ErrUnavailable.
func (c *Client) Temperature(ctx context.Context, city string) (float64, error) {
	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", nutribot.ErrUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", nutribot.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		slog.Warn("WEATHER: Unexpected status", "city", city, "status", resp.Status)
		return 0, fmt.Errorf("%w: weather: %s", nutribot.ErrUnavailable, resp.Status)
	}

	var wr wireResponse
	if err := json.Unmarshal(body, &wr); err != nil {
		return 0, fmt.Errorf("%w: decode weather: %w", nutribot.ErrUnavailable, err)
	}
	if wr.Main.Temp == nil {
		return 0, fmt.Errorf("%w: weather response has no temperature", nutribot.ErrUnavailable)
	}

	return *wr.Main.Temp, nil
}
