package telegram

import "github.com/prometheus/client_golang/prometheus"

// Metrics are the transport's Prometheus collectors.
type Metrics struct {
	updates  *prometheus.CounterVec
	replies  *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		updates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nutribot",
			Name:      "telegram_updates_total",
			Help:      "Telegram updates received, by kind.",
		}, []string{"kind"}),
		replies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nutribot",
			Name:      "telegram_replies_total",
			Help:      "Replies sent to Telegram, by type and outcome.",
		}, []string{"type", "outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "nutribot",
			Name:      "telegram_update_duration_seconds",
			Help:      "Time spent handling one update including replies.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.updates, m.replies, m.duration)
	return m
}
