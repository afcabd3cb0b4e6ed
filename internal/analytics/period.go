package analytics

import (
	"time"

	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/utils"
)

// GridRow is one habit's completion across a period.
type GridRow struct {
	HabitID string
	Name    string
	Done    []bool
}

// Grid is the habit-by-day completion matrix behind the week view.
type Grid struct {
	Days []string // day keys, oldest first
	Rows []GridRow
}

// DoneCount returns how many habits were completed on the i-th day.
func (g Grid) DoneCount(i int) int {
	n := 0
	for _, row := range g.Rows {
		if i < len(row.Done) && row.Done[i] {
			n++
		}
	}
	return n
}

// PeriodGrid reports, for each of numDays consecutive days starting at
// start, whether each active habit was completed.
func PeriodGrid(habits []models.Habit, start time.Time, numDays int) Grid {
	if numDays < 0 {
		numDays = 0
	}

	days := make([]string, numDays)
	for i := range days {
		days[i] = utils.DayKey(utils.StepDay(utils.Noon(start), i))
	}

	active := models.ActiveHabits(habits)
	rows := make([]GridRow, 0, len(active))
	for _, h := range active {
		done := make([]bool, numDays)
		for i, day := range days {
			done[i] = h.DoneOn(day)
		}
		rows = append(rows, GridRow{HabitID: h.ID, Name: h.Name, Done: done})
	}

	return Grid{Days: days, Rows: rows}
}

// WeekGrid is the 7-day grid for the week containing today.
func WeekGrid(habits []models.Habit, today time.Time, weekStart time.Weekday) Grid {
	return PeriodGrid(habits, utils.StartOfWeek(today, weekStart), 7)
}

// WeekdayLabels returns short weekday names starting at weekStart.
func WeekdayLabels(weekStart time.Weekday) []string {
	labels := make([]string, 7)
	for i := range labels {
		labels[i] = time.Weekday((int(weekStart) + i) % 7).String()[:3]
	}
	return labels
}

// CalendarDay is one cell of the month view.
type CalendarDay struct {
	Day     int
	Key     string
	Percent int
	Band    Band
	Future  bool
}

// Calendar is the month view for the month containing today.
type Calendar struct {
	Year      int
	Month     time.Month
	WeekStart time.Weekday
	Leading   int // blank cells before the 1st
	Days      []CalendarDay
}

// MonthCalendar builds the month view. Days after today are flagged Future
// and carry no percentage.
func MonthCalendar(habits []models.Habit, today time.Time, weekStart time.Weekday) Calendar {
	first := utils.StartOfMonth(today)
	todayKey := utils.DayKey(today)
	active := models.ActiveHabits(habits)

	cal := Calendar{
		Year:      first.Year(),
		Month:     first.Month(),
		WeekStart: weekStart,
		Leading:   (int(first.Weekday()) - int(weekStart) + 7) % 7,
	}

	n := utils.DaysInMonth(first)
	cal.Days = make([]CalendarDay, 0, n)
	for i := 0; i < n; i++ {
		key := utils.DayKey(utils.StepDay(first, i))
		cell := CalendarDay{Day: i + 1, Key: key, Future: key > todayKey}
		if !cell.Future {
			cell.Percent = completion(active, key)
		}
		cell.Band = CompletionBand(cell.Percent)
		cal.Days = append(cal.Days, cell)
	}
	return cal
}

// DayStatus is one habit's state on a specific day.
type DayStatus struct {
	HabitID string
	Name    string
	Done    bool
}

// DayDetail lists every active habit with its completion on day.
func DayDetail(habits []models.Habit, day time.Time) []DayStatus {
	key := utils.DayKey(day)
	active := models.ActiveHabits(habits)
	out := make([]DayStatus, 0, len(active))
	for _, h := range active {
		out = append(out, DayStatus{HabitID: h.ID, Name: h.Name, Done: h.DoneOn(key)})
	}
	return out
}
