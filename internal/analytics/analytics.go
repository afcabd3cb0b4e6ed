// Package analytics derives streaks and completion ratios from a habit set.
// Every function is pure: "today" is always an argument, never a clock read.
package analytics

import (
	"math"
	"time"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/utils"
)

// Band is a coarse completion level used for colour coding.
type Band string

const (
	BandLow    Band = "low"
	BandMedium Band = "medium"
	BandHigh   Band = "high"
)

// Streak counts consecutive completed days walking back from today,
// today included. A habit not done today has a streak of 0.
func Streak(h models.Habit, today time.Time) int {
	n := 0
	for d := utils.Noon(today); h.DoneOn(utils.DayKey(d)); d = utils.StepDay(d, -1) {
		n++
	}
	return n
}

// OverallStreak counts consecutive days, walking back from today, on which
// every active habit was completed. With no active habits it returns 0.
func OverallStreak(habits []models.Habit, today time.Time) int {
	active := models.ActiveHabits(habits)
	if len(active) == 0 {
		return 0
	}

	n := 0
	for d := utils.Noon(today); allDone(active, utils.DayKey(d)); d = utils.StepDay(d, -1) {
		n++
	}
	return n
}

// DailyCompletion returns the percentage (0-100) of active habits completed
// on day, rounded half up. It returns 0 when there are no active habits.
func DailyCompletion(habits []models.Habit, day time.Time) int {
	return completion(models.ActiveHabits(habits), utils.DayKey(day))
}

// CompletionBand classifies a percentage. Lower bounds are inclusive.
func CompletionBand(pct int) Band {
	switch {
	case pct >= constants.BandHighMin:
		return BandHigh
	case pct >= constants.BandMediumMin:
		return BandMedium
	default:
		return BandLow
	}
}

// HabitSummary is one row of the daily view.
type HabitSummary struct {
	Habit  models.Habit
	Done   bool
	Streak int
}

// Summary is everything the daily view shows for one day.
type Summary struct {
	Day           string
	Percent       int
	Band          Band
	OverallStreak int
	Habits        []HabitSummary
}

// Summarize builds the daily view for today over the active habits, in the
// order given.
func Summarize(habits []models.Habit, today time.Time) Summary {
	active := models.ActiveHabits(habits)
	key := utils.DayKey(today)
	pct := completion(active, key)

	rows := make([]HabitSummary, 0, len(active))
	for _, h := range active {
		rows = append(rows, HabitSummary{
			Habit:  h,
			Done:   h.DoneOn(key),
			Streak: Streak(h, today),
		})
	}

	return Summary{
		Day:           key,
		Percent:       pct,
		Band:          CompletionBand(pct),
		OverallStreak: OverallStreak(active, today),
		Habits:        rows,
	}
}

func completion(active []models.Habit, day string) int {
	if len(active) == 0 {
		return 0
	}
	done := 0
	for _, h := range active {
		if h.DoneOn(day) {
			done++
		}
	}
	return int(math.Round(100 * float64(done) / float64(len(active))))
}

func allDone(active []models.Habit, day string) bool {
	for _, h := range active {
		if !h.DoneOn(day) {
			return false
		}
	}
	return true
}
