package session

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"nutribot"
	"nutribot/catalog"
	"nutribot/commands"
	"nutribot/goals"
	"nutribot/resolver"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultWeatherTimeout = 5 * time.Second

	// maxAttempts bounds how often an intent is re-planned when the user's
	// state changed while its I/O was in flight.
	maxAttempts = 3
)

// Registry maps user ids to their state and dispatches intents.
type Registry struct {
	mu    sync.RWMutex
	users map[int64]*User

	commands       *commands.Registry
	resolver       FoodResolver
	weather        WeatherProvider
	weatherTimeout time.Duration
	exchangeLogger nutribot.ExchangeLogger

	rngMu sync.Mutex
	rng   *rand.Rand

	tracer    trace.Tracer
	intents   metric.Int64Counter
	reprompts metric.Int64Counter
	failures  metric.Int64Counter
}

type Option func(*Registry)

func WithCommands(c *commands.Registry) Option {
	return func(r *Registry) { r.commands = c }
}

func WithResolver(fr FoodResolver) Option {
	return func(r *Registry) { r.resolver = fr }
}

func WithWeather(w WeatherProvider) Option {
	return func(r *Registry) { r.weather = w }
}

// WithWeatherTimeout bounds the weather lookup made when setup completes.
func WithWeatherTimeout(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.weatherTimeout = d
		}
	}
}

func WithExchangeLogger(l nutribot.ExchangeLogger) Option {
	return func(r *Registry) { r.exchangeLogger = l }
}

// WithRand sets the source for sampled recommendations.
func WithRand(rng *rand.Rand) Option {
	return func(r *Registry) { r.rng = rng }
}

func WithTelemetry(t nutribot.Telemetry) Option {
	return func(r *Registry) {
		meter := t.MeterProvider.Meter(nutribot.TracerNameRegistry)
		r.tracer = t.TracerProvider.Tracer(nutribot.TracerNameRegistry)
		r.intents, _ = meter.Int64Counter("intents_total",
			metric.WithDescription("Total number of intents handled"))
		r.reprompts, _ = meter.Int64Counter("dialog_reprompts_total",
			metric.WithDescription("Dialog answers rejected and asked again"))
		r.failures, _ = meter.Int64Counter("collaborator_failures_total",
			metric.WithDescription("Failed or timed out collaborator calls"))
	}
}

// NewRegistry creates an empty registry. Without options it uses the default
// commands, resolves food against the bundled catalog only and has no
// weather provider.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		users:          make(map[int64]*User),
		weatherTimeout: defaultWeatherTimeout,
		exchangeLogger: nutribot.NewNoOpExchangeLogger(),
	}
	WithTelemetry(nutribot.NoopTelemetry())(r)

	for _, opt := range opts {
		opt(r)
	}

	if r.commands == nil {
		r.commands = commands.Default()
	}
	if r.resolver == nil {
		r.resolver = resolver.New(catalog.Default())
	}
	if r.rng == nil {
		r.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return r
}

// Commands returns the commands the registry dispatches.
func (r *Registry) Commands() *commands.Registry { return r.commands }

// GetOrCreate returns the handle for userID, creating empty state on first use.
func (r *Registry) GetOrCreate(userID int64) *User {
	r.mu.RLock()
	u, ok := r.users[userID]
	r.mu.RUnlock()
	if ok {
		return u
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userID]; ok {
		return u
	}
	u = &User{id: userID}
	r.users[userID] = u
	return u
}

// Len returns the number of known users.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

// Handle processes one intent and returns the replies for it. Every error is
// turned into a user-facing message.
func (r *Registry) Handle(ctx context.Context, in Intent) Response {
	ctx, span := r.tracer.Start(ctx, "Registry.Handle", trace.WithAttributes(
		attribute.Int64("user_id", in.UserID),
		attribute.String("command", in.Command),
	))
	defer span.End()

	start := time.Now()
	u := r.GetOrCreate(in.UserID)
	dialogIn := u.dialogName()

	resp, err := r.dispatch(ctx, u, in)
	if err != nil {
		resp = r.errorResponse(ctx, in, err)
		span.SetAttributes(attribute.String("error", err.Error()))
	}

	dialogOut := u.dialogName()
	r.intents.Add(ctx, 1, metric.WithAttributes(attribute.String("command", r.commandLabel(in))))
	span.SetAttributes(attribute.String("dialog_in", dialogIn), attribute.String("dialog_out", dialogOut))

	exchange := nutribot.ExchangeLog{
		IntentID:   in.ID,
		UserID:     in.UserID,
		Timestamp:  start,
		Command:    in.Command,
		Text:       in.raw(),
		DialogIn:   dialogIn,
		DialogOut:  dialogOut,
		Replies:    resp.Messages,
		Chart:      resp.Chart != nil,
		DurationMS: time.Since(start).Milliseconds(),
	}
	if err != nil {
		exchange.Error = err.Error()
	}
	if lerr := r.exchangeLogger.LogExchange(exchange); lerr != nil {
		slog.Error("REGISTRY: Failed to log exchange", "error", lerr, "intent_id", in.ID)
	}

	return resp
}

// dispatch plans the intent under the user lock. When the plan needs I/O the
// lock is released while it runs and the result is committed only if the
// state the plan relied on still holds; otherwise the intent is planned again.
func (r *Registry) dispatch(ctx context.Context, u *User, in Intent) (Response, error) {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		u.mu.Lock()
		resp, pending, err := r.plan(u, in)
		u.mu.Unlock()

		if err != nil || pending == nil {
			return resp, err
		}

		pending.run(ctx)

		u.mu.Lock()
		resp, ok, err := pending.commit(u)
		u.mu.Unlock()

		if ok {
			return resp, err
		}
		slog.Info("REGISTRY: State changed during lookup, re-planning", "user_id", u.id, "attempt", attempt)
	}

	slog.Warn("REGISTRY: Giving up after repeated state changes", "user_id", u.id, "intent_id", in.ID)
	return reply(msgTryAgain), nil
}

// plan expects u.mu to be held.
func (r *Registry) plan(u *User, in Intent) (Response, pendingIO, error) {
	if u.dialog != nil {
		return r.planDialog(u, in.raw())
	}

	if in.Command == "" {
		return reply(msgFreeText), nil, nil
	}

	cmd, err := r.commands.GetCommand(in.Command)
	if err != nil {
		return reply(msgUnknownCommand), nil, nil
	}
	if cmd.RequiresProfile && u.profile == nil {
		return Response{}, nil, ErrProfileRequired
	}

	args, err := cmd.ParseArgs(in.Args)
	if err != nil {
		var argErr *commands.ArgError
		if errors.As(err, &argErr) && argErr.Missing {
			return Response{}, nil, &usageError{command: cmd.Name}
		}
		if errors.As(err, &argErr) {
			return Response{}, nil, &ValidationError{Field: argErr.Arg, Reason: argErr.Reason}
		}
		return Response{}, nil, err
	}

	switch cmd.Name {
	case commands.Start:
		return reply(msgGreeting + r.commands.Help()), nil, nil

	case commands.SetProfile:
		u.dialog = &ProfileSetup{Step: StepWeight}
		return reply(setupPrompts[StepWeight]), nil, nil

	case commands.LogWater:
		ml := args["amount_ml"].(int)
		p, err := u.logWater(ml)
		if err != nil {
			return Response{}, nil, err
		}
		return reply(waterLoggedMessage(ml, p)), nil, nil

	case commands.LogFood:
		return Response{}, &foodLookup{resolver: r.resolver, query: args["product"].(string)}, nil

	case commands.LogWorkout:
		res, err := u.logWorkout(args["type"].(string), args["minutes"].(int))
		if err != nil {
			return Response{}, nil, err
		}
		return reply(workoutLoggedMessage(res)), nil, nil

	case commands.CheckProgress:
		p, err := u.progress()
		if err != nil {
			return Response{}, nil, err
		}
		return reply(progressMessage(p)), nil, nil

	case commands.ShowGraph:
		p, err := u.progress()
		if err != nil {
			return Response{}, nil, err
		}
		return Response{Messages: []string{msgChartCaption}, Chart: &p}, nil, nil

	case commands.Recommendations:
		p, err := u.progress()
		if err != nil {
			return Response{}, nil, err
		}
		return reply(recommendationMessage(r.recommend(p))), nil, nil
	}

	return reply(msgUnknownCommand), nil, nil
}

// planDialog treats text as the answer to the active dialog's current step.
func (r *Registry) planDialog(u *User, text string) (Response, pendingIO, error) {
	switch d := u.dialog.(type) {
	case *ProfileSetup:
		if d.Step == StepCity {
			city, err := parseCity(text)
			if err != nil {
				return Response{}, nil, err
			}
			return Response{}, &weatherLookup{registry: r, dialog: d, city: city}, nil
		}

		next, err := d.answer(text)
		if err != nil {
			return Response{}, nil, err
		}
		u.dialog = next
		return reply(setupPrompts[next.Step]), nil, nil

	case *FoodLogging:
		grams, err := parseGrams(text)
		if err != nil {
			return Response{}, nil, err
		}
		kcal := d.Entry.Calories / 100 * grams
		u.logCalories(kcal)
		u.dialog = nil
		return reply(foodLoggedMessage(d.Entry, grams, kcal)), nil, nil
	}

	u.dialog = nil
	return reply(msgTryAgain), nil, nil
}

func (r *Registry) errorResponse(ctx context.Context, in Intent, err error) Response {
	var validation *ValidationError
	var usage *usageError

	switch {
	case errors.Is(err, ErrProfileRequired):
		return reply(msgProfileRequired)
	case errors.As(err, &validation):
		r.reprompts.Add(ctx, 1, metric.WithAttributes(attribute.String("field", validation.Field)))
		return reply(invalidInputMessage(validation.Field))
	case errors.As(err, &usage):
		return reply(r.usageMessage(usage.command))
	case errors.Is(err, resolver.ErrNotFound):
		return reply(notFoundMessage(strings.TrimSpace(in.Args)))
	default:
		slog.Error("REGISTRY: Unexpected error", "error", err, "intent_id", in.ID)
		return reply(msgTryAgain)
	}
}

func (r *Registry) recommend(p goals.Progress) goals.Recommendation {
	r.rngMu.Lock()
	defer r.rngMu.Unlock()
	return goals.Recommend(p, r.rng)
}

// temperature asks the weather provider with a bounded wait. Failures are
// counted and reported as an unknown temperature.
func (r *Registry) temperature(ctx context.Context, city string) *float64 {
	if r.weather == nil {
		return nil
	}

	ctx, span := r.tracer.Start(ctx, "Registry.Temperature")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, r.weatherTimeout)
	defer cancel()

	t, err := r.weather.Temperature(ctx, city)
	if err == nil && (math.IsNaN(t) || math.IsInf(t, 0)) {
		err = errors.New("temperature is not finite")
	}
	if err != nil {
		slog.Warn("REGISTRY: Weather lookup failed", "city", city, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "weather lookup failed")
		r.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("collaborator", "weather")))
		return nil
	}
	return &t
}

func (u *User) dialogName() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return dialogName(u.dialog)
}

// commandLabel keeps metric labels to the registered command names.
func (r *Registry) commandLabel(in Intent) string {
	if in.Command == "" {
		return "text"
	}
	if _, err := r.commands.GetCommand(in.Command); err != nil {
		return "unknown"
	}
	return in.Command
}
