package openfoodfacts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"nutribot"
	"nutribot/catalog"
)

// ErrNoMatch is returned when a search finds no products.
var ErrNoMatch = errors.New("no matching product")

type Client struct {
	endpoint   string
	httpClient nutribot.HTTPClient
}

type ClientOpts struct {
	BaseURL    string
	HTTPClient nutribot.HTTPClient
}

func NewClient(opts ClientOpts) *Client {
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	return &Client{
		endpoint:   strings.TrimRight(opts.BaseURL, "/") + "/cgi/search.pl",
		httpClient: opts.HTTPClient,
	}
}

type wireProduct struct {
	ProductName string `json:"product_name"`
	Nutriments  struct {
		EnergyKcal100g kcal `json:"energy-kcal_100g"`
	} `json:"nutriments"`
}

type wireResponse struct {
	Count    int           `json:"count"`
	Products []wireProduct `json:"products"`
}

// kcal accepts both numbers and numeric strings; the API returns either.
type kcal float64

func (k *kcal) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*k = 0
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("energy-kcal_100g: %w", err)
	}
	*k = kcal(v)
	return nil
}

// Lookup searches for the normalized name and returns the first product. A
// product without an energy value comes back with zero calories; deciding
// whether that is usable is left to the caller.
func (c *Client) Lookup(ctx context.Context, name string) (catalog.Entry, error) {
	query := catalog.Normalize(name)

	q := url.Values{}
	q.Set("action", "process")
	q.Set("search_terms", query)
	q.Set("json", "true")
	q.Set("page_size", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return catalog.Entry{}, fmt.Errorf("%w: %w", nutribot.ErrUnavailable, err)
	}
	req.Header.Set("User-Agent", "nutribot/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return catalog.Entry{}, fmt.Errorf("%w: %w", nutribot.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return catalog.Entry{}, fmt.Errorf("%w: openfoodfacts: %s", nutribot.ErrUnavailable, resp.Status)
	}

	var wr wireResponse
	if err := json.Unmarshal(body, &wr); err != nil {
		return catalog.Entry{}, fmt.Errorf("%w: decode openfoodfacts: %w", nutribot.ErrUnavailable, err)
	}
	if len(wr.Products) == 0 {
		return catalog.Entry{}, ErrNoMatch
	}

	p := wr.Products[0]
	slog.Debug("OPENFOODFACTS: Product found", "query", query, "product", p.ProductName, "kcal", float64(p.Nutriments.EnergyKcal100g))

	return catalog.Entry{
		Key:      query,
		Name:     strings.TrimSpace(p.ProductName),
		Calories: float64(p.Nutriments.EnergyKcal100g),
	}, nil
}
