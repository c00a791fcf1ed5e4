package session

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"nutribot"
	"nutribot/catalog"
	"nutribot/resolver"
)

type fakeWeather struct {
	temperature float64
	err         error
	// block, when set, holds the call until it is closed or ctx ends.
	block   chan struct{}
	started chan struct{}
	calls   atomic.Int32
}

func (f *fakeWeather) Temperature(ctx context.Context, city string) (float64, error) {
	f.calls.Add(1)
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	return f.temperature, f.err
}

type fakeResolver struct {
	entries map[string]catalog.Entry
	block   chan struct{}
	started chan struct{}
	calls   atomic.Int32
}

func (f *fakeResolver) Resolve(ctx context.Context, name string) (catalog.Entry, error) {
	f.calls.Add(1)
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	e, ok := f.entries[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return catalog.Entry{}, resolver.ErrNotFound
	}
	return e, nil
}

type recordingLogger struct {
	mu        sync.Mutex
	exchanges []nutribot.ExchangeLog
}

func (l *recordingLogger) LogExchange(e nutribot.ExchangeLog) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.exchanges = append(l.exchanges, e)
	return nil
}

func (l *recordingLogger) all() []nutribot.ExchangeLog {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]nutribot.ExchangeLog, len(l.exchanges))
	copy(out, l.exchanges)
	return out
}

func command(userID int64, name, args string) Intent {
	return Intent{
		ID:      name,
		UserID:  userID,
		Command: name,
		Args:    args,
		Text:    strings.TrimSpace("/" + name + " " + args),
	}
}

func text(userID int64, s string) Intent {
	return Intent{ID: "text", UserID: userID, Text: s, Args: s}
}
