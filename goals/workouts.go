package goals

import "strings"

// Workout is a known workout type with its burn rate.
type Workout struct {
	Type          string
	KcalPerMinute int
	Emoji         string
}

var workouts = []Workout{
	{Type: "бег", KcalPerMinute: 10, Emoji: "🏃"},
	{Type: "ходьба", KcalPerMinute: 5, Emoji: "🚶"},
	{Type: "плавание", KcalPerMinute: 8, Emoji: "🏊"},
	{Type: "велосипед", KcalPerMinute: 7, Emoji: "🚴"},
	{Type: "силовая", KcalPerMinute: 6, Emoji: "🏋️"},
	{Type: "йога", KcalPerMinute: 3, Emoji: "🧘"},
	{Type: "кардио", KcalPerMinute: 8, Emoji: "💪"},
}

// LookupWorkout returns the workout for a type name. Unknown types get the
// default rate of 5 kcal/min and known is false.
func LookupWorkout(workoutType string) (w Workout, known bool) {
	t := strings.ToLower(strings.TrimSpace(workoutType))
	for _, w := range workouts {
		if w.Type == t {
			return w, true
		}
	}
	return Workout{Type: t, KcalPerMinute: defaultWorkoutRate, Emoji: "🏋️"}, false
}

// WorkoutTypes lists the known workout types in table order.
func WorkoutTypes() []string {
	out := make([]string, len(workouts))
	for i, w := range workouts {
		out[i] = w.Type
	}
	return out
}

// WorkoutResult is the effect of logging a workout.
type WorkoutResult struct {
	Workout      Workout
	Minutes      int
	BurnedKcal   int
	ExtraWaterML int
}

// EvaluateWorkout computes burned calories and the water goal bonus.
func EvaluateWorkout(workoutType string, minutes int) WorkoutResult {
	w, _ := LookupWorkout(workoutType)
	return WorkoutResult{
		Workout:      w,
		Minutes:      minutes,
		BurnedKcal:   w.KcalPerMinute * minutes,
		ExtraWaterML: WorkoutWaterBonus(minutes),
	}
}
