package models

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/utils"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingWeekStart:
			wd, err := utils.ParseWeekday(value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing week_start: %w", err)
			}
			settings.WeekStart = wd
		case constants.SettingDefaultHabitName:
			settings.DefaultHabitName = value
		}
	}

	if _, ok := data[constants.SettingWeekStart]; !ok {
		settings.WeekStart = DefaultSettings().WeekStart
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingWeekStart:        strings.ToLower(settings.WeekStart.String()),
		constants.SettingDefaultHabitName: settings.DefaultHabitName,
	}
}

// DefaultSettings returns the settings used before the user changes anything.
func DefaultSettings() Settings {
	wd, _ := utils.ParseWeekday(constants.DefaultWeekStart)
	return Settings{
		WeekStart:        wd,
		DefaultHabitName: constants.DefaultHabitName,
	}
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if strings.TrimSpace(settings.DefaultHabitName) == "" {
		settings.DefaultHabitName = constants.DefaultHabitName
	}
}
