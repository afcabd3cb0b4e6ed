package cli

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitlit/internal/analytics"
	"github.com/julianstephens/habitlit/internal/utils"
)

type TodayCmd struct{}

func (c *TodayCmd) Run(ctx *Context) error {
	sum := analytics.Summarize(ctx.Habits.List(false), ctx.Habits.Now())

	ctx.println(headerStyle.Render("Today " + sum.Day))
	if len(sum.Habits) == 0 {
		ctx.println("No active habits. Add one with 'habitlit add <name>'.")
		return nil
	}

	for i, row := range sum.Habits {
		streak := ""
		if row.Streak > 0 {
			streak = dimStyle.Render(fmt.Sprintf("  %d day streak", row.Streak))
		}
		ctx.printf("%3d. %s %s%s\n", i+1, checkMark(row.Done), row.Habit.Name, streak)
	}

	ctx.printf("\nCompleted: %s   Overall streak: %d\n",
		bandStyle(sum.Band).Render(fmt.Sprintf("%d%%", sum.Percent)), sum.OverallStreak)
	return nil
}

type WeekCmd struct {
	Date string `help:"Any day of the week to show, YYYY-MM-DD (default: today)." default:""`
}

func (c *WeekCmd) Run(ctx *Context) error {
	day, err := ctx.dayOrToday(c.Date)
	if err != nil {
		return err
	}

	habits := ctx.Habits.List(false)
	grid := analytics.WeekGrid(habits, day, ctx.Settings.WeekStart)
	labels := analytics.WeekdayLabels(ctx.Settings.WeekStart)
	todayKey := ctx.Habits.Today()

	width := nameWidth(grid.Rows)
	ctx.println(headerStyle.Render(fmt.Sprintf("Week of %s", grid.Days[0])))
	ctx.printf("%-*s", width, "")
	for _, l := range labels {
		ctx.printf(" %s", l)
	}
	ctx.println()

	for _, row := range grid.Rows {
		ctx.printf("%-*s", width, row.Name)
		for i, done := range row.Done {
			cell := checkMark(done)
			if grid.Days[i] > todayKey {
				cell = " "
			}
			ctx.printf("  %s ", cell)
		}
		ctx.println()
	}

	ctx.printf("%-*s", width, "done")
	for i, key := range grid.Days {
		if key > todayKey {
			ctx.print("    ")
			continue
		}
		ctx.printf(" %3d", grid.DoneCount(i))
	}
	ctx.println()

	ctx.printf("%-*s", width, "%")
	for _, key := range grid.Days {
		if key > todayKey {
			ctx.print("    ")
			continue
		}
		pct := analytics.DailyCompletion(habits, mustDay(key))
		ctx.printf(" %s", bandStyle(analytics.CompletionBand(pct)).Render(fmt.Sprintf("%3d", pct)))
	}
	ctx.println()
	return nil
}

type MonthCmd struct {
	Date string `help:"Any day of the month to show, YYYY-MM-DD (default: today)." default:""`
}

func (c *MonthCmd) Run(ctx *Context) error {
	day, err := ctx.dayOrToday(c.Date)
	if err != nil {
		return err
	}

	// A past month is rendered as of its last day so no cell reads as future.
	ref := ctx.Habits.Now()
	month, current := utils.DayKey(day)[:7], ctx.Habits.Today()[:7]
	switch {
	case month > current:
		return fmt.Errorf("%s is in a future month", utils.DayKey(day))
	case month < current:
		ref = utils.StepDay(utils.StartOfMonth(day), utils.DaysInMonth(day)-1)
	}
	cal := analytics.MonthCalendar(ctx.Habits.List(false), ref, ctx.Settings.WeekStart)

	ctx.println(headerStyle.Render(fmt.Sprintf("%s %d", cal.Month, cal.Year)))
	for _, l := range analytics.WeekdayLabels(cal.WeekStart) {
		ctx.printf(" %s", l)
	}
	ctx.println()

	col := 0
	for i := 0; i < cal.Leading; i++ {
		ctx.print("    ")
		col++
	}
	for _, d := range cal.Days {
		cell := fmt.Sprintf("%3d", d.Day)
		if d.Future {
			cell = dimStyle.Render(cell)
		} else {
			cell = bandStyle(d.Band).Render(cell)
		}
		ctx.printf(" %s", cell)
		col++
		if col%7 == 0 {
			ctx.println()
		}
	}
	if col%7 != 0 {
		ctx.println()
	}
	return nil
}

type DayCmd struct {
	Date string `arg:"" help:"Day to show, YYYY-MM-DD or 'today'."`
}

func (c *DayCmd) Run(ctx *Context) error {
	day, err := ctx.dayOrToday(c.Date)
	if err != nil {
		return err
	}

	habits := ctx.Habits.List(false)
	detail := analytics.DayDetail(habits, day)
	pct := analytics.DailyCompletion(habits, day)

	ctx.println(headerStyle.Render(utils.DayKey(day)))
	if len(detail) == 0 {
		ctx.println("No active habits.")
		return nil
	}
	for _, d := range detail {
		ctx.printf("  %s %s\n", checkMark(d.Done), d.Name)
	}
	ctx.printf("\nCompleted: %s\n", bandStyle(analytics.CompletionBand(pct)).Render(fmt.Sprintf("%d%%", pct)))
	return nil
}

// dayOrToday parses a YYYY-MM-DD argument, treating "" and "today" as the
// store's current day.
func (c *Context) dayOrToday(arg string) (time.Time, error) {
	if arg == "" || arg == "today" {
		return utils.Noon(c.Habits.Now()), nil
	}
	return utils.ParseDayKey(arg)
}

func (c *Context) print(s string) {
	fmt.Fprint(c.Out, s)
}

func mustDay(key string) time.Time {
	t, _ := utils.ParseDayKey(key)
	return t
}

func nameWidth(rows []analytics.GridRow) int {
	w := 8
	for _, r := range rows {
		if n := len([]rune(r.Name)); n > w {
			w = n
		}
	}
	return w + 1
}
