package goals

// Progress is a point-in-time view of a user's goals and logged totals.
type Progress struct {
	WaterLoggedML    int
	WaterGoalML      int
	WaterRemainingML int
	CaloriesLogged   float64
	CalorieGoal      int
	CaloriesBurned   float64
	CalorieBalance   float64
}

// NewProgress derives remaining water and the calorie balance.
func NewProgress(waterLogged, waterGoal int, caloriesLogged float64, calorieGoal int, burned float64) Progress {
	return Progress{
		WaterLoggedML:    waterLogged,
		WaterGoalML:      waterGoal,
		WaterRemainingML: max(0, waterGoal-waterLogged),
		CaloriesLogged:   caloriesLogged,
		CalorieGoal:      calorieGoal,
		CaloriesBurned:   burned,
		CalorieBalance:   caloriesLogged - burned,
	}
}
