package nutribot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ExchangeLogger is the interface for recording handled intents.
type ExchangeLogger interface {
	LogExchange(exchange ExchangeLog) error
}

// NewExchangeLogFilePath returns a file path for a run's exchange log inside dir.
func NewExchangeLogFilePath(dir, mode string) string {
	return filepath.Join(dir, fmt.Sprintf("%d.%s.jsonl", time.Now().Unix(), mode))
}

// ExchangeLog represents a single intent and the replies produced for it.
type ExchangeLog struct {
	IntentID   string    `json:"intent_id"`
	UserID     int64     `json:"user_id"`
	Timestamp  time.Time `json:"timestamp"`
	Command    string    `json:"command,omitempty"`
	Text       string    `json:"text,omitempty"`
	DialogIn   string    `json:"dialog_in"`
	DialogOut  string    `json:"dialog_out"`
	Replies    []string  `json:"replies,omitempty"`
	Chart      bool      `json:"chart,omitempty"`
	Error      string    `json:"error,omitempty"`
	DurationMS int64     `json:"duration_ms"`
}

// NoOpExchangeLogger is a logger that discards all log entries
type NoOpExchangeLogger struct{}

func NewNoOpExchangeLogger() *NoOpExchangeLogger {
	return &NoOpExchangeLogger{}
}

func (nop *NoOpExchangeLogger) LogExchange(exchange ExchangeLog) error {
	return nil
}

// StreamExchangeLogger writes each exchange as a JSON line as soon as it is
// logged (stdout for Lambda/CloudWatch, or a log file)
type StreamExchangeLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func NewStdoutExchangeLogger() *StreamExchangeLogger {
	return &StreamExchangeLogger{w: os.Stdout}
}

func NewStreamExchangeLogger(w io.Writer) *StreamExchangeLogger {
	return &StreamExchangeLogger{w: w}
}

func (l *StreamExchangeLogger) LogExchange(exchange ExchangeLog) error {
	data, err := json.Marshal(exchange)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_, err = fmt.Fprintln(l.w, string(data))
	return err
}

// NewExchangeLogger builds the logger selected by cfg. The returned cleanup
// closes anything the logger opened.
func NewExchangeLogger(cfg LogConfig, mode string) (ExchangeLogger, func() error, error) {
	switch cfg.Exchange {
	case "none":
		return NewNoOpExchangeLogger(), func() error { return nil }, nil
	case "stdout", "":
		return NewStdoutExchangeLogger(), func() error { return nil }, nil
	case "file":
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log dir: %w", err)
		}
		f, err := os.OpenFile(NewExchangeLogFilePath(cfg.Dir, mode), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		return NewStreamExchangeLogger(f), f.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown exchange log kind %q", cfg.Exchange)
	}
}

// MultiExchangeLogger fans an exchange out to several loggers.
type MultiExchangeLogger []ExchangeLogger

func (m MultiExchangeLogger) LogExchange(exchange ExchangeLog) error {
	var errs []error
	for _, l := range m {
		if err := l.LogExchange(exchange); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
