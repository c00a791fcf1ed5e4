package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"nutribot/catalog"
	"nutribot/goals"
)

// ErrProfileRequired is returned by ledger operations issued before the user
// completed profile setup.
var ErrProfileRequired = errors.New("profile required")

// ValidationError reports user input that is malformed or out of range.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// usageError reports a command issued without its required arguments.
type usageError struct {
	command string
}

func (e *usageError) Error() string {
	return fmt.Sprintf("%s: missing arguments", e.command)
}

// Intent is one inbound message from a chat transport. Command is empty for
// free text; Args is the text after the command; Text is the raw message.
type Intent struct {
	ID      string
	UserID  int64
	Command string
	Args    string
	Text    string
}

// raw is the message as the user typed it.
func (in Intent) raw() string {
	if in.Text != "" {
		return in.Text
	}
	if in.Command == "" {
		return in.Args
	}
	return strings.TrimSpace("/" + in.Command + " " + in.Args)
}

// Response is what the transport sends back: reply fragments in order and,
// when Chart is set, a progress chart to render.
type Response struct {
	Messages []string
	Chart    *goals.Progress
}

func reply(msgs ...string) Response {
	return Response{Messages: msgs}
}

// WeatherProvider reports the current temperature in °C for a city.
type WeatherProvider interface {
	Temperature(ctx context.Context, city string) (float64, error)
}

// FoodResolver maps a food name to a catalog entry.
type FoodResolver interface {
	Resolve(ctx context.Context, name string) (catalog.Entry, error)
}

// Profile is a completed profile setup with the goals derived from it.
type Profile struct {
	WeightKg        float64
	HeightCm        float64
	AgeYears        int
	ActivityMinutes int
	City            string
	TemperatureC    *float64

	WaterGoalML int
	CalorieGoal int
}

func newProfile(s ProfileSetup, city string, temperature *float64) Profile {
	return Profile{
		WeightKg:        s.WeightKg,
		HeightCm:        s.HeightCm,
		AgeYears:        s.AgeYears,
		ActivityMinutes: s.ActivityMinutes,
		City:            city,
		TemperatureC:    temperature,
		WaterGoalML:     goals.WaterGoal(s.WeightKg, s.ActivityMinutes, temperature),
		CalorieGoal:     goals.CalorieGoal(s.WeightKg, s.HeightCm, s.AgeYears, s.ActivityMinutes),
	}
}

// Ledger holds running totals. WaterGoalML starts at the profile's goal and
// grows with every logged workout.
type Ledger struct {
	WaterML      int
	WaterGoalML  int
	CaloriesKcal float64
	BurnedKcal   float64
}
