package session

import (
	"math"
	"strconv"
	"strings"

	"nutribot/catalog"
	"nutribot/goals"
)

// Dialog is the multi-step input in progress for a user: nil, *ProfileSetup
// or *FoodLogging. A dialog value is never modified once stored; advancing a
// step stores a new value.
type Dialog interface {
	name() string
}

// SetupStep is the profile setup question currently awaiting an answer.
type SetupStep int

const (
	StepWeight SetupStep = iota
	StepHeight
	StepAge
	StepActivity
	StepCity
)

func (s SetupStep) String() string {
	switch s {
	case StepWeight:
		return "weight"
	case StepHeight:
		return "height"
	case StepAge:
		return "age"
	case StepActivity:
		return "activity"
	case StepCity:
		return "city"
	default:
		return "unknown"
	}
}

// ProfileSetup collects the profile one answer at a time. Only fields for
// steps before Step are set.
type ProfileSetup struct {
	Step            SetupStep
	WeightKg        float64
	HeightCm        float64
	AgeYears        int
	ActivityMinutes int
}

func (p *ProfileSetup) name() string { return "profile_setup:" + p.Step.String() }

// FoodLogging waits for the grams eaten of a resolved food.
type FoodLogging struct {
	Entry catalog.Entry
}

func (f *FoodLogging) name() string { return "food_logging:grams" }

func dialogName(d Dialog) string {
	if d == nil {
		return "none"
	}
	return d.name()
}

func copyDialog(d Dialog) Dialog {
	switch d := d.(type) {
	case *ProfileSetup:
		c := *d
		return &c
	case *FoodLogging:
		c := *d
		return &c
	default:
		return nil
	}
}

// answer validates text for one of the numeric steps and returns the dialog
// for the next step. The receiver is left untouched.
func (p *ProfileSetup) answer(text string) (*ProfileSetup, error) {
	next := *p

	switch p.Step {
	case StepWeight:
		v, err := parseDecimal("weight", text)
		if err != nil {
			return nil, err
		}
		if v <= 0 || v > 500 {
			return nil, &ValidationError{Field: "weight", Reason: "must be in (0, 500] kg"}
		}
		next.WeightKg = v
	case StepHeight:
		v, err := parseDecimal("height", text)
		if err != nil {
			return nil, err
		}
		if v <= 0 || v > 300 {
			return nil, &ValidationError{Field: "height", Reason: "must be in (0, 300] cm"}
		}
		next.HeightCm = v
	case StepAge:
		v, err := parseInt("age", text)
		if err != nil {
			return nil, err
		}
		if v <= 0 || v > 150 {
			return nil, &ValidationError{Field: "age", Reason: "must be in (0, 150] years"}
		}
		next.AgeYears = v
	case StepActivity:
		v, err := parseInt("activity", text)
		if err != nil {
			return nil, err
		}
		if v < 0 || v > 1440 {
			return nil, &ValidationError{Field: "activity", Reason: "must be in [0, 1440] minutes"}
		}
		next.ActivityMinutes = v
	default:
		return nil, &ValidationError{Field: p.Step.String(), Reason: "not a numeric step"}
	}

	next.Step = p.Step + 1
	return &next, nil
}

func parseCity(text string) (string, error) {
	city := strings.TrimSpace(text)
	if city == "" {
		return "", &ValidationError{Field: "city", Reason: "empty"}
	}
	return city, nil
}

func parseGrams(text string) (float64, error) {
	v, err := parseDecimal("grams", text)
	if err != nil {
		return 0, err
	}
	if v <= 0 || v > goals.MaxFoodGrams {
		return 0, &ValidationError{Field: "grams", Reason: "out of range"}
	}
	return v, nil
}

// parseDecimal accepts a decimal comma in place of the point.
func parseDecimal(field, text string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(text), ",", "."), 64)
	if err != nil {
		return 0, &ValidationError{Field: field, Reason: "not a number"}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ValidationError{Field: field, Reason: "not a finite number"}
	}
	return v, nil
}

func parseInt(field, text string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, &ValidationError{Field: field, Reason: "not an integer"}
	}
	return v, nil
}
