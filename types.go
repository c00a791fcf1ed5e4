package nutribot

import (
	"context"
	"errors"
	"net/http"
)

// ErrUnavailable marks a failed or timed-out call to an external collaborator
// (weather, remote food database). Callers downgrade it to a neutral default.
var ErrUnavailable = errors.New("collaborator unavailable")

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type SlackClient interface {
	PostMessage(ctx context.Context, channel string, message string) error
}
