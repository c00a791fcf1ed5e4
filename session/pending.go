package session

import (
	"context"
	"errors"
	"strings"

	"nutribot/catalog"
	"nutribot/commands"
	"nutribot/goals"
	"nutribot/resolver"
)

// pendingIO is a lookup planned under the user lock, run without it and
// committed under it again.
type pendingIO interface {
	run(ctx context.Context)
	// commit applies the result; ok is false when the state the plan
	// relied on is gone and the intent has to be planned again.
	commit(u *User) (resp Response, ok bool, err error)
}

// weatherLookup completes profile setup once the temperature is known.
type weatherLookup struct {
	registry    *Registry
	dialog      *ProfileSetup
	city        string
	temperature *float64
}

func (w *weatherLookup) run(ctx context.Context) {
	w.temperature = w.registry.temperature(ctx, w.city)
}

func (w *weatherLookup) commit(u *User) (Response, bool, error) {
	if d, ok := u.dialog.(*ProfileSetup); !ok || d != w.dialog {
		return Response{}, false, nil
	}

	p := newProfile(*w.dialog, w.city, w.temperature)
	u.completeSetup(p)
	return reply(profileSavedMessage(p)), true, nil
}

// foodLookup resolves a product and starts the grams dialog.
type foodLookup struct {
	resolver FoodResolver
	query    string
	entry    catalog.Entry
	err      error
}

func (f *foodLookup) run(ctx context.Context) {
	f.entry, f.err = f.resolver.Resolve(ctx, f.query)
}

func (f *foodLookup) commit(u *User) (Response, bool, error) {
	if u.profile == nil || u.dialog != nil {
		return Response{}, false, nil
	}
	if f.err != nil {
		if !errors.Is(f.err, resolver.ErrNotFound) {
			f.err = errors.Join(resolver.ErrNotFound, f.err)
		}
		return Response{}, true, f.err
	}

	u.dialog = &FoodLogging{Entry: f.entry}
	return reply(foodFoundMessage(f.entry)), true, nil
}

func (r *Registry) usageMessage(name string) string {
	cmd, err := r.commands.GetCommand(name)
	if err != nil {
		return msgUnknownCommand
	}

	msg := "Использование: " + cmd.Usage()
	if cmd.Example != "" {
		msg += "\nПример: " + cmd.Example
	}
	if cmd.Name == commands.LogWorkout {
		msg += "\n\nДоступные типы тренировок: " + strings.Join(goals.WorkoutTypes(), ", ")
	}
	return msg
}
