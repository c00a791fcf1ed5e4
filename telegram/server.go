package telegram

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewMux serves health checks and metrics, plus the webhook when one is given.
func NewMux(webhookPath string, webhook http.Handler, gatherer prometheus.Gatherer) *http.ServeMux {
	mux := http.NewServeMux()

	health := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("OK"))
	})
	mux.Handle("GET /health", health)
	mux.Handle("GET /{$}", health)
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	if webhook != nil && webhookPath != "" {
		mux.Handle("POST "+webhookPath, webhook)
	}
	return mux
}
