package models

import "time"

// Settings represents application-wide settings
type Settings struct {
	WeekStart        time.Weekday `json:"week_start"`         // first column of the week grid and month calendar
	DefaultHabitName string       `json:"default_habit_name"` // name given to habits created without one
}
