package resolver

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"time"

	"nutribot"
	"nutribot/catalog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

// ErrNotFound is returned when no tier can resolve a food name.
var ErrNotFound = errors.New("food not found")

const (
	TierExact  = "exact"
	TierFuzzy  = "fuzzy"
	TierRemote = "remote"
	TierMiss   = "miss"
)

const defaultTimeout = 5 * time.Second

// RemoteLookup searches an external food database.
type RemoteLookup interface {
	Lookup(ctx context.Context, name string) (catalog.Entry, error)
}

// Resolver maps free-text food names to catalog entries: exact match first,
// then fuzzy match, then the remote lookup if one is configured.
type Resolver struct {
	catalog *catalog.Catalog
	remote  RemoteLookup
	timeout time.Duration

	group       singleflight.Group
	tracer      trace.Tracer
	resolutions metric.Int64Counter
}

type Option func(*Resolver)

// WithRemote sets the fallback lookup.
func WithRemote(remote RemoteLookup) Option {
	return func(r *Resolver) { r.remote = remote }
}

// WithTimeout bounds each remote lookup.
func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithTelemetry instruments the resolver.
func WithTelemetry(t nutribot.Telemetry) Option {
	return func(r *Resolver) {
		r.tracer = t.TracerProvider.Tracer(nutribot.TracerNameResolver)
		r.resolutions, _ = t.MeterProvider.Meter(nutribot.TracerNameResolver).Int64Counter("food_resolutions_total",
			metric.WithDescription("Food name resolutions by the tier that answered"))
	}
}

func New(c *catalog.Catalog, opts ...Option) *Resolver {
	r := &Resolver{catalog: c, timeout: defaultTimeout}
	WithTelemetry(nutribot.NoopTelemetry())(r)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the entry for name or ErrNotFound. Remote failures are
// logged and reported as ErrNotFound.
func (r *Resolver) Resolve(ctx context.Context, name string) (catalog.Entry, error) {
	ctx, span := r.tracer.Start(ctx, "Resolver.Resolve")
	defer span.End()

	query := catalog.Normalize(name)
	span.SetAttributes(attribute.String("query", query))

	if query == "" {
		r.record(ctx, span, TierMiss)
		return catalog.Entry{}, ErrNotFound
	}

	if e, ok := r.catalog.Lookup(query); ok {
		r.record(ctx, span, TierExact)
		return e, nil
	}

	if e, score, ok := r.catalog.Fuzzy(query); ok {
		slog.Debug("RESOLVER: Fuzzy match", "query", query, "key", e.Key, "score", score)
		r.record(ctx, span, TierFuzzy)
		return e, nil
	}

	if r.remote == nil {
		r.record(ctx, span, TierMiss)
		return catalog.Entry{}, ErrNotFound
	}

	e, err := r.lookupRemote(ctx, query)
	if err != nil {
		slog.Warn("RESOLVER: Remote lookup failed", "query", query, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "remote lookup failed")
		r.record(ctx, span, TierMiss)
		return catalog.Entry{}, ErrNotFound
	}

	if !validCalories(e.Calories) {
		slog.Info("RESOLVER: Remote result has no usable calories", "query", query, "calories", e.Calories)
		r.record(ctx, span, TierMiss)
		return catalog.Entry{}, ErrNotFound
	}

	if strings.TrimSpace(e.Name) == "" {
		e.Name = name
	}
	if e.Key == "" {
		e.Key = query
	}

	r.record(ctx, span, TierRemote)
	return e, nil
}

// lookupRemote collapses concurrent lookups of the same query into one call.
// The shared call is detached from any single caller's cancellation and bounded
// by the resolver timeout instead.
func (r *Resolver) lookupRemote(ctx context.Context, query string) (catalog.Entry, error) {
	ch := r.group.DoChan(query, func() (any, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
		defer cancel()
		return r.remote.Lookup(callCtx, query)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return catalog.Entry{}, res.Err
		}
		return res.Val.(catalog.Entry), nil
	case <-ctx.Done():
		return catalog.Entry{}, errors.Join(nutribot.ErrUnavailable, ctx.Err())
	}
}

func (r *Resolver) record(ctx context.Context, span trace.Span, tier string) {
	span.SetAttributes(attribute.String("tier", tier))
	r.resolutions.Add(ctx, 1, metric.WithAttributes(attribute.String("tier", tier)))
}

func validCalories(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
