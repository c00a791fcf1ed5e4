package session

import (
	"strings"
	"sync"

	"nutribot/goals"
)

// User is the handle to one user's state. Every method takes the user's
// lock, so operations on one user are serialized while different users
// proceed in parallel.
type User struct {
	id int64

	mu      sync.Mutex
	profile *Profile
	ledger  Ledger
	dialog  Dialog
}

// Snapshot is a copy of a user's state.
type Snapshot struct {
	UserID  int64
	Profile *Profile
	Ledger  Ledger
	Dialog  Dialog
}

func (u *User) ID() int64 { return u.id }

// Snapshot returns a copy of the user's state.
func (u *User) Snapshot() Snapshot {
	u.mu.Lock()
	defer u.mu.Unlock()

	s := Snapshot{UserID: u.id, Ledger: u.ledger, Dialog: copyDialog(u.dialog)}
	if u.profile != nil {
		p := *u.profile
		s.Profile = &p
	}
	return s
}

// LogWater adds ml to the water total.
func (u *User) LogWater(ml int) (goals.Progress, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.logWater(ml)
}

// LogWorkout records a workout: burned calories grow by the workout's rate
// times minutes and the water goal by 200 ml per started 30 minutes.
func (u *User) LogWorkout(workoutType string, minutes int) (goals.WorkoutResult, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.logWorkout(workoutType, minutes)
}

// Progress returns the current goals and totals.
func (u *User) Progress() (goals.Progress, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.progress()
}

// The unexported variants expect u.mu to be held.

func (u *User) logWater(ml int) (goals.Progress, error) {
	if u.profile == nil {
		return goals.Progress{}, ErrProfileRequired
	}
	if ml <= 0 || ml > goals.MaxWaterEntryML {
		return goals.Progress{}, &ValidationError{Field: "amount_ml", Reason: "out of range"}
	}
	u.ledger.WaterML += ml
	return u.progress()
}

func (u *User) logWorkout(workoutType string, minutes int) (goals.WorkoutResult, error) {
	if u.profile == nil {
		return goals.WorkoutResult{}, ErrProfileRequired
	}
	if strings.TrimSpace(workoutType) == "" {
		return goals.WorkoutResult{}, &ValidationError{Field: "type", Reason: "empty"}
	}
	if minutes <= 0 || minutes > goals.MaxWorkoutMinutes {
		return goals.WorkoutResult{}, &ValidationError{Field: "minutes", Reason: "out of range"}
	}

	res := goals.EvaluateWorkout(workoutType, minutes)
	u.ledger.BurnedKcal += float64(res.BurnedKcal)
	u.ledger.WaterGoalML += res.ExtraWaterML
	return res, nil
}

func (u *User) logCalories(kcal float64) {
	u.ledger.CaloriesKcal += kcal
}

func (u *User) progress() (goals.Progress, error) {
	if u.profile == nil {
		return goals.Progress{}, ErrProfileRequired
	}
	l := u.ledger
	return goals.NewProgress(l.WaterML, l.WaterGoalML, l.CaloriesKcal, u.profile.CalorieGoal, l.BurnedKcal), nil
}

// completeSetup replaces the profile and zeroes the ledger.
func (u *User) completeSetup(p Profile) {
	u.profile = &p
	u.ledger = Ledger{WaterGoalML: p.WaterGoalML}
	u.dialog = nil
}
