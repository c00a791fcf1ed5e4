// Package goals derives daily water and calorie targets and the workout
// adjustments applied to them. Everything here is pure.
package goals

import "math"

const (
	waterPerKg          = 30
	waterPerActivity    = 500 // ml per full 30 minutes of daily activity
	waterHot            = 500 // above 25°C
	waterVeryHot        = 1000
	workoutWaterPerSlot = 200 // ml per started 30 minutes of workout
	defaultWorkoutRate  = 5
	activityKcalPerMin  = 5
)

// Upper bounds for a single logged entry. They keep ledger totals far from
// integer overflow.
const (
	MaxWaterEntryML   = 100000
	MaxWorkoutMinutes = 1440
	MaxFoodGrams      = 100000
)

// WaterGoal returns the daily water target in ml. A nil temperature means the
// reading is unavailable and adds no weather bonus.
func WaterGoal(weightKg float64, activityMinutes int, temperature *float64) int {
	base := weightKg * waterPerKg
	activity := float64(activityMinutes/30) * waterPerActivity
	return int(math.Floor(base + activity + float64(weatherBonus(temperature))))
}

func weatherBonus(temperature *float64) int {
	switch {
	case temperature == nil:
		return 0
	case *temperature > 30:
		return waterVeryHot
	case *temperature > 25:
		return waterHot
	default:
		return 0
	}
}

// CalorieGoal returns the Mifflin–St Jeor base (without the sex constant)
// plus 5 kcal per minute of daily activity, truncated toward zero.
func CalorieGoal(weightKg, heightCm float64, ageYears, activityMinutes int) int {
	base := 10*weightKg + 6.25*heightCm - 5*float64(ageYears)
	return int(base + float64(activityMinutes*activityKcalPerMin))
}

// WorkoutWaterBonus is the extra water for a workout: 200 ml for every
// started 30 minutes.
func WorkoutWaterBonus(minutes int) int {
	if minutes <= 0 {
		return 0
	}
	return (minutes + 29) / 30 * workoutWaterPerSlot
}
