package session

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"nutribot/catalog"
	"nutribot/goals"
)

const (
	msgGreeting        = "Привет! Я бот для отслеживания питания, воды и активности.\n\nДоступные команды:\n"
	msgProfileRequired = "Сначала настройте профиль командой /set_profile"
	msgUnknownCommand  = "Неизвестная команда. Используйте /start, чтобы увидеть список команд."
	msgFreeText        = "Я понимаю только команды. Используйте /start, чтобы увидеть список команд."
	msgTryAgain        = "Не удалось обработать сообщение, попробуйте ещё раз."
	msgGramsPrompt     = "Сколько грамм вы съели?"
	msgChartCaption    = "📊 Ваш текущий прогресс по воде и калориям"
)

var setupPrompts = map[SetupStep]string{
	StepWeight:   "Введите ваш вес (в кг):",
	StepHeight:   "Введите ваш рост (в см):",
	StepAge:      "Введите ваш возраст:",
	StepActivity: "Сколько минут активности у вас в день?",
	StepCity:     "В каком городе вы находитесь?",
}

var invalidInput = map[string]string{
	"weight":    "Пожалуйста, введите корректный вес (число в кг):",
	"height":    "Пожалуйста, введите корректный рост (число в см):",
	"age":       "Пожалуйста, введите корректный возраст (целое число):",
	"activity":  "Пожалуйста, введите корректное количество минут:",
	"city":      "Пожалуйста, введите название города:",
	"grams":     "Пожалуйста, введите корректное количество в граммах:",
	"amount_ml": "Пожалуйста, введите корректное количество воды в мл.",
	"minutes":   "Пожалуйста, введите корректное время тренировки в минутах.",
	"type":      "Пожалуйста, укажите тип тренировки.",
}

func invalidInputMessage(field string) string {
	if msg, ok := invalidInput[field]; ok {
		return msg
	}
	return "Пожалуйста, проверьте введённые данные."
}

func notFoundMessage(product string) string {
	return fmt.Sprintf("Не удалось найти информацию о продукте '%s'.\n"+
		"Попробуйте ввести название на английском или другой продукт.", product)
}

func profileSavedMessage(p Profile) string {
	weather := fmt.Sprintf("Не удалось получить погоду для %s", p.City)
	if p.TemperatureC != nil {
		weather = fmt.Sprintf("Температура в %s: %.1f°C", p.City, *p.TemperatureC)
	}

	return fmt.Sprintf("Профиль сохранён!\n\n"+
		"Вес: %s кг\n"+
		"Рост: %s см\n"+
		"Возраст: %d лет\n"+
		"Активность: %d мин/день\n"+
		"Город: %s\n\n"+
		"%s\n\n"+
		"Ваши дневные нормы:\n"+
		"Вода: %d мл\n"+
		"Калории: %d ккал",
		number(p.WeightKg), number(p.HeightCm), p.AgeYears, p.ActivityMinutes, p.City,
		weather, p.WaterGoalML, p.CalorieGoal)
}

func waterLoggedMessage(ml int, p goals.Progress) string {
	return fmt.Sprintf("Записано: %d мл воды.\n\nВыпито за день: %d мл из %d мл.\nОсталось: %d мл.",
		ml, p.WaterLoggedML, p.WaterGoalML, p.WaterRemainingML)
}

func foodFoundMessage(e catalog.Entry) string {
	return fmt.Sprintf("%s — %s ккал на 100 г.\n%s", e.Name, number(e.Calories), msgGramsPrompt)
}

func foodLoggedMessage(e catalog.Entry, grams, kcal float64) string {
	return fmt.Sprintf("Записано: %.1f ккал (%.0f г %s).", kcal, grams, e.Name)
}

func workoutLoggedMessage(res goals.WorkoutResult) string {
	return fmt.Sprintf("%s %s %d минут — %d ккал сожжено.\nДополнительно: выпейте %d мл воды.",
		res.Workout.Emoji, capitalize(res.Workout.Type), res.Minutes, res.BurnedKcal, res.ExtraWaterML)
}

func progressMessage(p goals.Progress) string {
	return fmt.Sprintf("📊 Прогресс:\n\n"+
		"💧 Вода:\n"+
		"  • Выпито: %d мл из %d мл\n"+
		"  • Осталось: %d мл\n\n"+
		"🍽 Калории:\n"+
		"  • Потреблено: %.0f ккал из %d ккал\n"+
		"  • Сожжено: %.0f ккал\n"+
		"  • Баланс: %.0f ккал",
		p.WaterLoggedML, p.WaterGoalML, p.WaterRemainingML,
		p.CaloriesLogged, p.CalorieGoal, p.CaloriesBurned, p.CalorieBalance)
}

func recommendationMessage(r goals.Recommendation) string {
	var b strings.Builder
	b.WriteString("💡 Рекомендации для вас:\n\n")

	switch r.Calories {
	case goals.CaloriesGoalReached:
		b.WriteString("⚠️ Калории: Вы уже достигли дневной нормы калорий!\n")
		b.WriteString("Рекомендуемые тренировки для сжигания лишних калорий:\n")
		for _, w := range r.Workouts {
			fmt.Fprintf(&b, "  • %s (%d мин) — сожжёт ~%d ккал\n    %s\n", capitalize(w.Type), w.Minutes, w.Calories, w.Description)
		}
	case goals.CaloriesRoomToEat:
		fmt.Fprintf(&b, "🍽 Калории: Осталось %.0f ккал до нормы.\n", r.RemainingKcal)
		b.WriteString("Вы можете съесть что-нибудь питательное!\n")
	default:
		fmt.Fprintf(&b, "🍽 Калории: Осталось всего %.0f ккал.\n", r.RemainingKcal)
		b.WriteString("Рекомендуем низкокалорийные продукты:\n")
		for _, f := range r.Foods {
			fmt.Fprintf(&b, "  • %s — %d ккал/100г\n    %s\n", f.Name, f.Calories, f.Benefit)
		}
	}

	b.WriteString("\n")

	if r.WaterRemainingML > 0 {
		fmt.Fprintf(&b, "💧 Вода: Осталось выпить %d мл.\n", r.WaterRemainingML)
		if r.Glasses > 0 {
			fmt.Fprintf(&b, "Это примерно %d стакан(ов) воды.\n", r.Glasses)
		}
		fmt.Fprintf(&b, "\n💡 Совет: %s", r.Tip)
	} else {
		b.WriteString("💧 Вода: Отлично! Вы выполнили норму воды! 🎉")
	}

	b.WriteString("\n\n")

	if r.NeedsMovement {
		b.WriteString("🏋️ Тренировки: Сегодня вы ещё мало двигались!\n")
		b.WriteString("Попробуйте одну из этих тренировок:\n")
		for _, w := range r.Movement {
			fmt.Fprintf(&b, "  • /log_workout %s %d\n", w.Type, w.Minutes)
		}
	} else {
		fmt.Fprintf(&b, "🏋️ Тренировки: Отлично! Вы уже сожгли %.0f ккал! 💪", r.BurnedKcal)
	}

	return strings.TrimRight(b.String(), "\n")
}

// number formats without trailing zeros: 70 -> "70", 72.5 -> "72.5".
func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
