package session

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"nutribot/catalog"
	"nutribot/commands"
	"nutribot/goals"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userID = int64(42)

func handle(t *testing.T, r *Registry, in Intent) Response {
	t.Helper()
	resp := r.Handle(context.Background(), in)
	require.NotEmpty(t, resp.Messages, "every intent gets a reply")
	return resp
}

// setupProfile runs the setup dialog with weight 70, height 175, age 30,
// 45 minutes of activity and the given city.
func setupProfile(t *testing.T, r *Registry, id int64, city string) Response {
	t.Helper()
	handle(t, r, command(id, commands.SetProfile, ""))
	for _, answer := range []string{"70", "175", "30", "45"} {
		handle(t, r, text(id, answer))
	}
	return handle(t, r, text(id, city))
}

func TestProfileSetup_RoundTrip(t *testing.T) {
	weather := &fakeWeather{temperature: 28}
	r := NewRegistry(WithWeather(weather))

	tests := []struct {
		in         Intent
		wantReply  string
		wantDialog Dialog
	}{
		{in: command(userID, commands.SetProfile, ""), wantReply: "Введите ваш вес (в кг):",
			wantDialog: &ProfileSetup{Step: StepWeight}},
		{in: text(userID, "70,5"), wantReply: "Введите ваш рост (в см):",
			wantDialog: &ProfileSetup{Step: StepHeight, WeightKg: 70.5}},
		{in: text(userID, " 175 "), wantReply: "Введите ваш возраст:",
			wantDialog: &ProfileSetup{Step: StepAge, WeightKg: 70.5, HeightCm: 175}},
		{in: text(userID, "30"), wantReply: "Сколько минут активности у вас в день?",
			wantDialog: &ProfileSetup{Step: StepActivity, WeightKg: 70.5, HeightCm: 175, AgeYears: 30}},
		{in: text(userID, "45"), wantReply: "В каком городе вы находитесь?",
			wantDialog: &ProfileSetup{Step: StepCity, WeightKg: 70.5, HeightCm: 175, AgeYears: 30, ActivityMinutes: 45}},
	}

	for _, tt := range tests {
		resp := handle(t, r, tt.in)
		assert.Equal(t, []string{tt.wantReply}, resp.Messages)
		snap := r.GetOrCreate(userID).Snapshot()
		assert.Equal(t, tt.wantDialog, snap.Dialog)
		assert.Nil(t, snap.Profile, "no profile before the last step")
	}

	resp := handle(t, r, text(userID, "  Москва "))
	snap := r.GetOrCreate(userID).Snapshot()

	require.NotNil(t, snap.Profile)
	assert.Nil(t, snap.Dialog)

	temp := 28.0
	assert.Equal(t, goals.WaterGoal(70.5, 45, &temp), snap.Profile.WaterGoalML)
	assert.Equal(t, goals.CalorieGoal(70.5, 175, 30, 45), snap.Profile.CalorieGoal)
	assert.Equal(t, "Москва", snap.Profile.City)
	require.NotNil(t, snap.Profile.TemperatureC)
	assert.Equal(t, 28.0, *snap.Profile.TemperatureC)
	assert.Equal(t, Ledger{WaterGoalML: snap.Profile.WaterGoalML}, snap.Ledger)

	assert.Contains(t, resp.Messages[0], "Профиль сохранён!")
	assert.Contains(t, resp.Messages[0], "Вес: 70.5 кг")
	assert.Contains(t, resp.Messages[0], "Температура в Москва: 28.0°C")
	assert.Equal(t, int32(1), weather.calls.Load())
}

func TestProfileSetup_ExpectedGoals(t *testing.T) {
	r := NewRegistry(WithWeather(&fakeWeather{temperature: 28}))
	setupProfile(t, r, userID, "Сочи")

	p := r.GetOrCreate(userID).Snapshot().Profile
	require.NotNil(t, p)
	assert.Equal(t, 3100, p.WaterGoalML)
	assert.Equal(t, 1868, p.CalorieGoal)
}

func TestProfileSetup_InvalidAnswerKeepsStep(t *testing.T) {
	steps := []struct {
		answers []string // valid answers to reach the step
		invalid []string
		reply   string
	}{
		{
			invalid: []string{"abc", "0", "-5", "500.1", "NaN", "inf", "", "/log_water 250"},
			reply:   "Пожалуйста, введите корректный вес (число в кг):",
		},
		{
			answers: []string{"70"},
			invalid: []string{"высокий", "0", "300,5", "Infinity"},
			reply:   "Пожалуйста, введите корректный рост (число в см):",
		},
		{
			answers: []string{"70", "175"},
			invalid: []string{"30.5", "0", "151", "тридцать"},
			reply:   "Пожалуйста, введите корректный возраст (целое число):",
		},
		{
			answers: []string{"70", "175", "30"},
			invalid: []string{"-1", "1441", "1,5"},
			reply:   "Пожалуйста, введите корректное количество минут:",
		},
		{
			answers: []string{"70", "175", "30", "45"},
			invalid: []string{"", "   "},
			reply:   "Пожалуйста, введите название города:",
		},
	}

	for i, st := range steps {
		t.Run(SetupStep(i).String(), func(t *testing.T) {
			weather := &fakeWeather{temperature: 20}
			r := NewRegistry(WithWeather(weather))
			handle(t, r, command(userID, commands.SetProfile, ""))
			for _, a := range st.answers {
				handle(t, r, text(userID, a))
			}

			before := r.GetOrCreate(userID).Snapshot()
			require.IsType(t, &ProfileSetup{}, before.Dialog)
			require.Equal(t, SetupStep(i), before.Dialog.(*ProfileSetup).Step)

			for _, bad := range st.invalid {
				resp := r.Handle(context.Background(), text(userID, bad))
				assert.Equal(t, []string{st.reply}, resp.Messages, "answer %q", bad)

				after := r.GetOrCreate(userID).Snapshot()
				assert.Equal(t, before.Dialog, after.Dialog, "answer %q must not change the dialog", bad)
				assert.Nil(t, after.Profile)
			}
			assert.Zero(t, weather.calls.Load())
		})
	}
}

func TestProfileSetup_WeatherUnavailable(t *testing.T) {
	tests := []struct {
		name    string
		weather WeatherProvider
		timeout time.Duration
	}{
		{name: "no provider"},
		{name: "provider error", weather: &fakeWeather{err: errors.New("boom")}},
		{name: "provider timeout", weather: &fakeWeather{temperature: 35, block: make(chan struct{})}, timeout: 10 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := []Option{WithWeatherTimeout(tt.timeout)}
			if tt.weather != nil {
				opts = append(opts, WithWeather(tt.weather))
			}
			r := NewRegistry(opts...)

			resp := setupProfile(t, r, userID, "Казань")
			assert.Contains(t, resp.Messages[0], "Не удалось получить погоду для Казань")

			p := r.GetOrCreate(userID).Snapshot().Profile
			require.NotNil(t, p, "weather failures never block setup")
			assert.Nil(t, p.TemperatureC)
			assert.Equal(t, goals.WaterGoal(70, 45, nil), p.WaterGoalML)
		})
	}
}

func TestProfileSetup_ZeroDegreesIsAReading(t *testing.T) {
	r := NewRegistry(WithWeather(&fakeWeather{temperature: 0}))
	resp := setupProfile(t, r, userID, "Мурманск")
	assert.Contains(t, resp.Messages[0], "Температура в Мурманск: 0.0°C")
}

func TestProfileSetup_ReplacesProfileAndZeroesLedger(t *testing.T) {
	r := NewRegistry()
	setupProfile(t, r, userID, "Москва")
	handle(t, r, command(userID, commands.LogWater, "500"))
	handle(t, r, command(userID, commands.LogWorkout, "бег 30"))

	handle(t, r, command(userID, commands.SetProfile, ""))
	for _, a := range []string{"80", "180", "40", "0", "Тула"} {
		handle(t, r, text(userID, a))
	}

	snap := r.GetOrCreate(userID).Snapshot()
	require.NotNil(t, snap.Profile)
	assert.Equal(t, 80.0, snap.Profile.WeightKg)
	assert.Equal(t, Ledger{WaterGoalML: 2400}, snap.Ledger)
}

func TestProfileRequired(t *testing.T) {
	r := NewRegistry()

	for _, name := range []string{
		commands.LogWater, commands.LogFood, commands.LogWorkout,
		commands.CheckProgress, commands.ShowGraph, commands.Recommendations,
	} {
		t.Run(name, func(t *testing.T) {
			resp := handle(t, r, command(userID, name, "бег 30"))
			assert.Equal(t, []string{"Сначала настройте профиль командой /set_profile"}, resp.Messages)
			assert.Nil(t, resp.Chart)

			snap := r.GetOrCreate(userID).Snapshot()
			assert.Nil(t, snap.Profile)
			assert.Nil(t, snap.Dialog)
		})
	}

	u := r.GetOrCreate(userID)
	_, err := u.LogWater(100)
	assert.ErrorIs(t, err, ErrProfileRequired)
	_, err = u.LogWorkout("бег", 10)
	assert.ErrorIs(t, err, ErrProfileRequired)
	_, err = u.Progress()
	assert.ErrorIs(t, err, ErrProfileRequired)
}

func TestLogWater(t *testing.T) {
	r := NewRegistry(WithWeather(&fakeWeather{temperature: 28}))
	setupProfile(t, r, userID, "Москва")

	resp := handle(t, r, command(userID, commands.LogWater, "250"))
	assert.Equal(t, []string{"Записано: 250 мл воды.\n\nВыпито за день: 250 мл из 3100 мл.\nОсталось: 2850 мл."}, resp.Messages)

	tests := []struct {
		args string
		want string
	}{
		{args: "", want: "Использование: /log_water <мл>\nПример: /log_water 250"},
		{args: "много", want: "Пожалуйста, введите корректное количество воды в мл."},
		{args: "0", want: "Пожалуйста, введите корректное количество воды в мл."},
		{args: "-100", want: "Пожалуйста, введите корректное количество воды в мл."},
	}
	for _, tt := range tests {
		resp := handle(t, r, command(userID, commands.LogWater, tt.args))
		assert.Equal(t, []string{tt.want}, resp.Messages, "args %q", tt.args)
	}

	p, err := r.GetOrCreate(userID).LogWater(3000)
	require.NoError(t, err)
	assert.Equal(t, 3250, p.WaterLoggedML)
	assert.Equal(t, 0, p.WaterRemainingML)

	_, err = r.GetOrCreate(userID).LogWater(0)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestLogWater_ConcurrentUpdatesAreNotLost(t *testing.T) {
	r := NewRegistry()
	setupProfile(t, r, userID, "Москва")
	u := r.GetOrCreate(userID)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			r.Handle(context.Background(), command(userID, commands.LogWater, "10"))
		}()
		go func() {
			defer wg.Done()
			_, err := u.LogWater(i + 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 50*10+50*51/2, u.Snapshot().Ledger.WaterML)
}

func TestRegistry_UsersAreIndependent(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for id := int64(1); id <= 20; id++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Handle(context.Background(), command(id, commands.SetProfile, ""))
			for _, a := range []string{"70", "175", "30", "45", "Москва"} {
				r.Handle(context.Background(), text(id, a))
			}
			r.Handle(context.Background(), command(id, commands.LogWater, "100"))
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, r.Len())
	for id := int64(1); id <= 20; id++ {
		snap := r.GetOrCreate(id).Snapshot()
		require.NotNil(t, snap.Profile)
		assert.Equal(t, 100, snap.Ledger.WaterML)
	}
	assert.Same(t, r.GetOrCreate(7), r.GetOrCreate(7))
}

func TestLogWorkout(t *testing.T) {
	r := NewRegistry(WithWeather(&fakeWeather{temperature: 28}))
	setupProfile(t, r, userID, "Москва")

	resp := handle(t, r, command(userID, commands.LogWorkout, "Бег 45"))
	assert.Equal(t, []string{"🏃 Бег 45 минут — 450 ккал сожжено.\nДополнительно: выпейте 400 мл воды."}, resp.Messages)

	snap := r.GetOrCreate(userID).Snapshot()
	assert.Equal(t, 450.0, snap.Ledger.BurnedKcal)
	assert.Equal(t, 3500, snap.Ledger.WaterGoalML)
	assert.Equal(t, 3100, snap.Profile.WaterGoalML, "the profile keeps the goal computed at setup")

	res, err := r.GetOrCreate(userID).LogWorkout("танцы", 31)
	require.NoError(t, err)
	assert.Equal(t, 155, res.BurnedKcal, "unknown types use the default rate")
	assert.Equal(t, 400, res.ExtraWaterML)

	tests := []struct {
		args string
		want string
	}{
		{args: "", want: "Использование: /log_workout <тип> <минуты>\nПример: /log_workout бег 30\n\n" +
			"Доступные типы тренировок: бег, ходьба, плавание, велосипед, силовая, йога, кардио"},
		{args: "бег", want: "Использование: /log_workout <тип> <минуты>\nПример: /log_workout бег 30\n\n" +
			"Доступные типы тренировок: бег, ходьба, плавание, велосипед, силовая, йога, кардио"},
		{args: "бег долго", want: "Пожалуйста, введите корректное время тренировки в минутах."},
		{args: "бег 0", want: "Пожалуйста, введите корректное время тренировки в минутах."},
	}
	for _, tt := range tests {
		resp := handle(t, r, command(userID, commands.LogWorkout, tt.args))
		assert.Equal(t, []string{tt.want}, resp.Messages, "args %q", tt.args)
	}

	snap = r.GetOrCreate(userID).Snapshot()
	assert.Equal(t, 605.0, snap.Ledger.BurnedKcal)
}

func TestLedger_RejectsOversizedEntries(t *testing.T) {
	r := NewRegistry(WithWeather(&fakeWeather{temperature: 28}))
	setupProfile(t, r, userID, "Москва")
	before := r.GetOrCreate(userID).Snapshot().Ledger

	for range 2 {
		resp := handle(t, r, command(userID, commands.LogWater, "9223372036854775807"))
		assert.Equal(t, []string{"Пожалуйста, введите корректное количество воды в мл."}, resp.Messages)
	}
	resp := handle(t, r, command(userID, commands.LogWorkout, "бег 9223372036854775807"))
	assert.Equal(t, []string{"Пожалуйста, введите корректное время тренировки в минутах."}, resp.Messages)

	u := r.GetOrCreate(userID)
	_, err := u.LogWater(goals.MaxWaterEntryML + 1)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "amount_ml", verr.Field)

	_, err = u.LogWorkout("бег", goals.MaxWorkoutMinutes+1)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "minutes", verr.Field)

	handle(t, r, command(userID, commands.LogFood, "банан"))
	resp = handle(t, r, text(userID, "1e308"))
	assert.Equal(t, []string{"Пожалуйста, введите корректное количество в граммах:"}, resp.Messages)

	assert.Equal(t, before, u.Snapshot().Ledger)

	_, err = u.LogWater(goals.MaxWaterEntryML)
	require.NoError(t, err)
	assert.Equal(t, goals.MaxWaterEntryML, u.Snapshot().Ledger.WaterML)
}

func TestLogFood(t *testing.T) {
	r := NewRegistry()
	setupProfile(t, r, userID, "Москва")

	resp := handle(t, r, command(userID, commands.LogFood, "банан"))
	assert.Equal(t, []string{"Банан — 89 ккал на 100 г.\nСколько грамм вы съели?"}, resp.Messages)

	snap := r.GetOrCreate(userID).Snapshot()
	require.IsType(t, &FoodLogging{}, snap.Dialog)
	assert.Equal(t, 89.0, snap.Dialog.(*FoodLogging).Entry.Calories)

	for _, bad := range []string{"сто", "0", "-5", "/check_progress"} {
		resp = handle(t, r, text(userID, bad))
		assert.Equal(t, []string{"Пожалуйста, введите корректное количество в граммах:"}, resp.Messages)
	}
	assert.Zero(t, r.GetOrCreate(userID).Snapshot().Ledger.CaloriesKcal)

	resp = handle(t, r, text(userID, "150"))
	assert.Equal(t, []string{"Записано: 133.5 ккал (150 г Банан)."}, resp.Messages)

	snap = r.GetOrCreate(userID).Snapshot()
	assert.InDelta(t, 133.5, snap.Ledger.CaloriesKcal, 1e-9)
	assert.Nil(t, snap.Dialog)
}

func TestLogFood_DecimalCommaGrams(t *testing.T) {
	r := NewRegistry()
	setupProfile(t, r, userID, "Москва")
	handle(t, r, command(userID, commands.LogFood, "рис"))
	handle(t, r, text(userID, "50,5"))

	assert.InDelta(t, 130*0.505, r.GetOrCreate(userID).Snapshot().Ledger.CaloriesKcal, 1e-9)
}

func TestLogFood_NotFoundAndUsage(t *testing.T) {
	res := &fakeResolver{entries: map[string]catalog.Entry{}}
	r := NewRegistry(WithResolver(res))
	setupProfile(t, r, userID, "Москва")

	resp := handle(t, r, command(userID, commands.LogFood, "  драконий фрукт "))
	assert.Equal(t, []string{"Не удалось найти информацию о продукте 'драконий фрукт'.\n" +
		"Попробуйте ввести название на английском или другой продукт."}, resp.Messages)
	assert.Nil(t, r.GetOrCreate(userID).Snapshot().Dialog)

	resp = handle(t, r, command(userID, commands.LogFood, ""))
	assert.Equal(t, []string{"Использование: /log_food <продукт>\nПример: /log_food банан"}, resp.Messages)
	assert.Equal(t, int32(1), res.calls.Load())
}

func TestLogFood_StateChangedDuringLookupReplans(t *testing.T) {
	res := &fakeResolver{
		entries: map[string]catalog.Entry{"банан": {Key: "банан", Name: "Банан", Calories: 89}},
		block:   make(chan struct{}),
		started: make(chan struct{}),
	}
	r := NewRegistry(WithResolver(res))
	setupProfile(t, r, userID, "Москва")

	done := make(chan Response)
	go func() {
		done <- r.Handle(context.Background(), command(userID, commands.LogFood, "банан"))
	}()
	<-res.started

	// The lock is not held during the lookup, so the user can start another dialog.
	resp := handle(t, r, command(userID, commands.SetProfile, ""))
	assert.Equal(t, []string{"Введите ваш вес (в кг):"}, resp.Messages)

	close(res.block)
	resp = <-done

	// Re-planned against the setup dialog, the raw text is not a weight.
	assert.Equal(t, []string{"Пожалуйста, введите корректный вес (число в кг):"}, resp.Messages)
	assert.Equal(t, &ProfileSetup{Step: StepWeight}, r.GetOrCreate(userID).Snapshot().Dialog)
	assert.Equal(t, int32(1), res.calls.Load())
}

func TestProfileSetup_LockReleasedDuringWeatherLookup(t *testing.T) {
	weather := &fakeWeather{temperature: 31, block: make(chan struct{}), started: make(chan struct{})}
	r := NewRegistry(WithWeather(weather))
	u := r.GetOrCreate(userID)

	handle(t, r, command(userID, commands.SetProfile, ""))
	for _, a := range []string{"70", "175", "30", "45"} {
		handle(t, r, text(userID, a))
	}

	done := make(chan Response)
	go func() {
		done <- r.Handle(context.Background(), text(userID, "Дубай"))
	}()
	<-weather.started

	snap := u.Snapshot()
	assert.Equal(t, StepCity, snap.Dialog.(*ProfileSetup).Step)
	assert.Nil(t, snap.Profile)

	close(weather.block)
	resp := <-done
	assert.Contains(t, resp.Messages[0], "Температура в Дубай: 31.0°C")

	p := u.Snapshot().Profile
	require.NotNil(t, p)
	assert.Equal(t, 2100+500+1000, p.WaterGoalML)
}

func TestDialogCapturesCommands(t *testing.T) {
	r := NewRegistry()
	handle(t, r, command(userID, commands.SetProfile, ""))

	resp := handle(t, r, command(userID, commands.Start, ""))
	assert.Equal(t, []string{"Пожалуйста, введите корректный вес (число в кг):"}, resp.Messages)

	handle(t, r, text(userID, "70"))
	handle(t, r, text(userID, "175"))
	handle(t, r, text(userID, "30"))
	handle(t, r, text(userID, "0"))

	// A command at the city step is taken as the city name.
	resp = handle(t, r, Intent{UserID: userID, Command: commands.CheckProgress})
	assert.Contains(t, resp.Messages[0], "Город: /check_progress")
}

func TestCheckProgressAndGraph(t *testing.T) {
	r := NewRegistry(WithWeather(&fakeWeather{temperature: 28}))
	setupProfile(t, r, userID, "Москва")
	handle(t, r, command(userID, commands.LogWater, "600"))
	handle(t, r, command(userID, commands.LogFood, "банан"))
	handle(t, r, text(userID, "200"))
	handle(t, r, command(userID, commands.LogWorkout, "йога 20"))

	resp := handle(t, r, command(userID, commands.CheckProgress, ""))
	assert.Equal(t, []string{"📊 Прогресс:\n\n" +
		"💧 Вода:\n" +
		"  • Выпито: 600 мл из 3300 мл\n" +
		"  • Осталось: 2700 мл\n\n" +
		"🍽 Калории:\n" +
		"  • Потреблено: 178 ккал из 1868 ккал\n" +
		"  • Сожжено: 60 ккал\n" +
		"  • Баланс: 118 ккал"}, resp.Messages)
	assert.Nil(t, resp.Chart)

	resp = handle(t, r, command(userID, commands.ShowGraph, ""))
	assert.Equal(t, []string{"📊 Ваш текущий прогресс по воде и калориям"}, resp.Messages)
	require.NotNil(t, resp.Chart)
	assert.Equal(t, 600, resp.Chart.WaterLoggedML)
	assert.Equal(t, 3300, resp.Chart.WaterGoalML)
	assert.Equal(t, 1868, resp.Chart.CalorieGoal)
	assert.InDelta(t, 178, resp.Chart.CaloriesLogged, 1e-9)
	assert.InDelta(t, 118, resp.Chart.CalorieBalance, 1e-9)
}

func TestRecommendations(t *testing.T) {
	r := NewRegistry(WithRand(rand.New(rand.NewPCG(1, 2))))
	setupProfile(t, r, userID, "Москва")

	resp := handle(t, r, command(userID, commands.Recommendations, ""))
	msg := resp.Messages[0]
	assert.Contains(t, msg, "💡 Рекомендации для вас:")
	assert.Contains(t, msg, "Вы можете съесть что-нибудь питательное!")
	assert.Contains(t, msg, "💧 Вода: Осталось выпить 2600 мл.")
	assert.Contains(t, msg, "Это примерно 10 стакан(ов) воды.")
	assert.Contains(t, msg, "  • /log_workout ходьба 30")
	assert.NotContains(t, msg, "*")

	handle(t, r, command(userID, commands.LogWater, "3000"))
	handle(t, r, command(userID, commands.LogWorkout, "бег 30"))
	msg = handle(t, r, command(userID, commands.Recommendations, "")).Messages[0]
	assert.Contains(t, msg, "Отлично! Вы выполнили норму воды!")
	assert.Contains(t, msg, "Вы уже сожгли 300 ккал!")
}

func TestStartAndUnknownInput(t *testing.T) {
	r := NewRegistry()

	resp := handle(t, r, command(userID, commands.Start, ""))
	require.Len(t, resp.Messages, 1)
	assert.Contains(t, resp.Messages[0], "Привет!")
	assert.Contains(t, resp.Messages[0], "/log_water <мл> - Записать выпитую воду")

	resp = handle(t, r, command(userID, "dance", ""))
	assert.Equal(t, []string{msgUnknownCommand}, resp.Messages)

	resp = handle(t, r, text(userID, "привет"))
	assert.Equal(t, []string{msgFreeText}, resp.Messages)

	assert.Nil(t, r.GetOrCreate(userID).Snapshot().Profile)
}

func TestHandle_LogsExchanges(t *testing.T) {
	logger := &recordingLogger{}
	r := NewRegistry(WithExchangeLogger(logger))

	r.Handle(context.Background(), command(userID, commands.SetProfile, ""))
	r.Handle(context.Background(), text(userID, "abc"))
	r.Handle(context.Background(), command(userID, commands.ShowGraph, ""))

	got := logger.all()
	require.Len(t, got, 3)

	assert.Equal(t, "none", got[0].DialogIn)
	assert.Equal(t, "profile_setup:weight", got[0].DialogOut)
	assert.Equal(t, "/set_profile", got[0].Text)
	assert.Empty(t, got[0].Error)

	assert.Equal(t, "profile_setup:weight", got[1].DialogOut)
	assert.Contains(t, got[1].Error, "invalid weight")

	assert.Equal(t, userID, got[2].UserID)
	assert.False(t, got[2].Chart)
	assert.Equal(t, []string{"Пожалуйста, введите корректный вес (число в кг):"}, got[2].Replies,
		"the setup dialog captures /show_graph as a weight answer")
}
