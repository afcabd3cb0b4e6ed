package constants

const (
	SettingWeekStart        = "week_start"
	SettingDefaultHabitName = "default_habit_name"

	DefaultWeekStart = "monday"
)
