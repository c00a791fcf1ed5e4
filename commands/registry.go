package commands

import (
	"fmt"
	"strings"

	"nutribot/goals"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"
)

const (
	Start           = "start"
	SetProfile      = "set_profile"
	LogWater        = "log_water"
	LogFood         = "log_food"
	LogWorkout      = "log_workout"
	CheckProgress   = "check_progress"
	ShowGraph       = "show_graph"
	Recommendations = "recommendations"
)

// Registry holds commands in the order they are presented to users.
type Registry struct {
	commands []Command
	byName   map[string]int
}

// NewRegistry creates a registry from commands; names must be unique.
func NewRegistry(cmds ...Command) (*Registry, error) {
	r := &Registry{byName: make(map[string]int, len(cmds))}
	for _, c := range cmds {
		if _, dup := r.byName[c.Name]; dup {
			return nil, fmt.Errorf("command %q registered twice", c.Name)
		}
		r.byName[c.Name] = len(r.commands)
		r.commands = append(r.commands, c)
	}
	return r, nil
}

// Default returns the bot's command set.
func Default() *Registry {
	positive := 1.0
	maxWater := float64(goals.MaxWaterEntryML)
	maxMinutes := float64(goals.MaxWorkoutMinutes)

	r, err := NewRegistry(
		Command{
			Name:        Start,
			Description: "Начало работы и список команд",
		},
		Command{
			Name:        SetProfile,
			Description: "Настроить профиль",
		},
		Command{
			Name:        LogWater,
			Description: "Записать выпитую воду",
			Args: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"amount_ml": {Type: "integer", Description: "мл", Minimum: &positive, Maximum: &maxWater},
				},
				Required: []string{"amount_ml"},
			},
			Example:         "/log_water 250",
			RequiresProfile: true,
		},
		Command{
			Name:        LogFood,
			Description: "Записать еду",
			Args: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"product": {Type: "string", Description: "продукт"},
				},
				Required: []string{"product"},
			},
			Example:         "/log_food банан",
			RequiresProfile: true,
		},
		Command{
			Name:        LogWorkout,
			Description: "Записать тренировку",
			Args: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"type":    {Type: "string", Description: "тип"},
					"minutes": {Type: "integer", Description: "минуты", Minimum: &positive, Maximum: &maxMinutes},
				},
				Required: []string{"type", "minutes"},
			},
			Example:         "/log_workout бег 30",
			RequiresProfile: true,
		},
		Command{
			Name:            CheckProgress,
			Description:     "Показать прогресс",
			RequiresProfile: true,
		},
		Command{
			Name:            ShowGraph,
			Description:     "Показать графики прогресса",
			RequiresProfile: true,
		},
		Command{
			Name:            Recommendations,
			Description:     "Получить рекомендации",
			RequiresProfile: true,
		},
	)
	if err != nil {
		panic(err)
	}
	return r
}

// GetCommands returns all commands in presentation order
func (r *Registry) GetCommands() []Command {
	out := make([]Command, len(r.commands))
	copy(out, r.commands)
	return out
}

// GetCommand retrieves a command by name
func (r *Registry) GetCommand(name string) (Command, error) {
	i, ok := r.byName[name]
	if !ok {
		return Command{}, fmt.Errorf("command %q not found in registry", name)
	}
	return r.commands[i], nil
}

// Help lists every command except start with its usage and description.
func (r *Registry) Help() string {
	var b strings.Builder
	for _, c := range r.commands {
		if c.Name == Start {
			continue
		}
		fmt.Fprintf(&b, "%s - %s\n", c.Usage(), c.Description)
	}
	return strings.TrimRight(b.String(), "\n")
}
