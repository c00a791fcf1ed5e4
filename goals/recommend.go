package goals

import (
	"math/rand/v2"
	"slices"
)

// CalorieAdvice classifies where the calorie balance stands against the goal.
type CalorieAdvice int

const (
	CaloriesGoalReached CalorieAdvice = iota
	CaloriesRoomToEat
	CaloriesNearGoal
)

const (
	roomToEatKcal     = 500
	lowMovementKcal   = 200
	glassML           = 250
	suggestedFoods    = 5
	suggestedWorkouts = 3
)

type LowCalorieFood struct {
	Name     string
	Calories int
	Benefit  string
}

type WorkoutSuggestion struct {
	Type        string
	Minutes     int
	Calories    int
	Description string
}

var lowCalorieFoods = []LowCalorieFood{
	{Name: "Огурец", Calories: 15, Benefit: "Отлично утоляет жажду"},
	{Name: "Салат листовой", Calories: 14, Benefit: "Богат клетчаткой"},
	{Name: "Кабачок", Calories: 17, Benefit: "Лёгкий гарнир"},
	{Name: "Помидор", Calories: 18, Benefit: "Источник ликопина"},
	{Name: "Шпинат", Calories: 23, Benefit: "Богат железом"},
	{Name: "Брокколи", Calories: 34, Benefit: "Много витаминов"},
	{Name: "Клубника", Calories: 33, Benefit: "Вкусный десерт"},
	{Name: "Арбуз", Calories: 30, Benefit: "Утоляет жажду"},
	{Name: "Куриная грудка", Calories: 113, Benefit: "Белок без жира"},
	{Name: "Творог 5%", Calories: 121, Benefit: "Белок + кальций"},
}

var workoutSuggestions = []WorkoutSuggestion{
	{Type: "ходьба", Minutes: 30, Calories: 150, Description: "Лёгкая активность для начинающих"},
	{Type: "бег", Minutes: 20, Calories: 200, Description: "Эффективное кардио"},
	{Type: "плавание", Minutes: 30, Calories: 240, Description: "Нагрузка на все группы мышц"},
	{Type: "велосипед", Minutes: 30, Calories: 210, Description: "Тренировка ног и кардио"},
	{Type: "йога", Minutes: 45, Calories: 135, Description: "Гибкость и расслабление"},
	{Type: "силовая", Minutes: 40, Calories: 240, Description: "Наращивание мышц"},
}

var hydrationTips = []string{
	"Держите бутылку воды рядом с собой",
	"Пейте стакан воды перед каждым приёмом пищи",
	"Установите напоминания на телефоне",
	"Добавьте в воду лимон или мяту для вкуса",
}

// Recommendation is advice derived from a progress snapshot.
type Recommendation struct {
	Calories      CalorieAdvice
	RemainingKcal float64
	Workouts      []WorkoutSuggestion // set when the calorie goal is reached
	Foods         []LowCalorieFood    // set when few calories remain

	WaterRemainingML int
	Glasses          int
	Tip              string

	NeedsMovement bool
	Movement      []WorkoutSuggestion
	BurnedKcal    float64
}

// Recommend builds advice for p. rng picks the food sample and the tip.
func Recommend(p Progress, rng *rand.Rand) Recommendation {
	r := Recommendation{
		RemainingKcal:    float64(p.CalorieGoal) - p.CalorieBalance,
		WaterRemainingML: p.WaterGoalML - p.WaterLoggedML,
		BurnedKcal:       p.CaloriesBurned,
	}

	switch {
	case p.CalorieBalance >= float64(p.CalorieGoal):
		r.Calories = CaloriesGoalReached
		r.Workouts = slices.Clone(workoutSuggestions[:suggestedWorkouts])
	case r.RemainingKcal > roomToEatKcal:
		r.Calories = CaloriesRoomToEat
	default:
		r.Calories = CaloriesNearGoal
		r.Foods = sampleFoods(rng, suggestedFoods)
	}

	if r.WaterRemainingML > 0 {
		r.Glasses = r.WaterRemainingML / glassML
		r.Tip = hydrationTips[rng.IntN(len(hydrationTips))]
	}

	if p.CaloriesBurned < lowMovementKcal {
		r.NeedsMovement = true
		r.Movement = slices.Clone(workoutSuggestions[:suggestedWorkouts])
	}

	return r
}

func sampleFoods(rng *rand.Rand, n int) []LowCalorieFood {
	n = min(n, len(lowCalorieFoods))
	out := make([]LowCalorieFood, 0, n)
	for _, i := range rng.Perm(len(lowCalorieFoods))[:n] {
		out = append(out, lowCalorieFoods[i])
	}
	return out
}
