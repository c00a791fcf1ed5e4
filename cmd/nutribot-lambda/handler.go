package main

import (
	"context"
	"errors"
	"strings"

	"nutribot/session"

	"github.com/google/uuid"
)

type Event struct {
	UserID  int64  `json:"user_id"`
	Command string `json:"command"`
	Args    string `json:"args"`
	Text    string `json:"text"`
}

type Result struct {
	Replies []string `json:"replies"`
	Chart   bool     `json:"chart"`
}

type handler interface {
	Handle(ctx context.Context, in session.Intent) session.Response
}

var errMissingUser = errors.New("user_id is required")

func newHandler(h handler) func(ctx context.Context, ev Event) (Result, error) {
	return func(ctx context.Context, ev Event) (Result, error) {
		if ev.UserID == 0 {
			return Result{}, errMissingUser
		}

		in := session.Intent{
			ID:      uuid.NewString(),
			UserID:  ev.UserID,
			Command: strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ev.Command), "/")),
			Args:    strings.TrimSpace(ev.Args),
			Text:    ev.Text,
		}
		if in.Command == "" && in.Args == "" {
			in.Args = strings.TrimSpace(ev.Text)
		}

		resp := h.Handle(ctx, in)
		return Result{Replies: resp.Messages, Chart: resp.Chart != nil}, nil
	}
}
