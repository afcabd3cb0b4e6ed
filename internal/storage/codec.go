package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/habitlit/internal/models"
)

// Format names an export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts json, yaml or yml (case-insensitive).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported format %q (expected json or yaml)", s)
	}
}

// habitRecord is the persisted shape of a habit. Pointer fields tell a
// missing key apart from its zero value so older blobs can be upgraded.
type habitRecord struct {
	ID       string          `json:"id" yaml:"id"`
	Name     string          `json:"name" yaml:"name"`
	History  map[string]bool `json:"history" yaml:"history"`
	Archived *bool           `json:"archived" yaml:"archived"`
	Order    *int            `json:"order" yaml:"order"`
}

// EncodeHabits serializes the habit set in insertion order.
func EncodeHabits(habits []models.Habit) ([]byte, error) {
	if habits == nil {
		habits = []models.Habit{}
	}
	data, err := json.Marshal(habits)
	if err != nil {
		return nil, fmt.Errorf("failed to encode habits: %w", err)
	}
	return data, nil
}

// DecodeHabits parses a persisted habit set and upgrades legacy records:
// a missing archived flag reads as false, a missing order as the record's
// position, a missing history as empty, and a missing or repeated id is
// replaced by a fresh one.
func DecodeHabits(data []byte) ([]models.Habit, error) {
	var records []habitRecord
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("failed to decode habits: %w", err)
		}
	}
	return upgrade(records), nil
}

// ExportHabits encodes the habit set for a human-facing file.
func ExportHabits(habits []models.Habit, format Format) ([]byte, error) {
	if habits == nil {
		habits = []models.Habit{}
	}
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(habits, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode habits: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		data, err := yaml.Marshal(habits)
		if err != nil {
			return nil, fmt.Errorf("failed to encode habits as yaml: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// ImportHabits decodes an exported file with the same upgrade rules as
// DecodeHabits.
func ImportHabits(data []byte, format Format) ([]models.Habit, error) {
	switch format {
	case FormatJSON:
		return DecodeHabits(data)
	case FormatYAML:
		var records []habitRecord
		if err := yaml.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("failed to decode yaml habits: %w", err)
		}
		return upgrade(records), nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

func upgrade(records []habitRecord) []models.Habit {
	habits := make([]models.Habit, 0, len(records))
	seen := make(map[string]bool, len(records))

	for i, r := range records {
		h := models.Habit{
			ID:      r.ID,
			Name:    r.Name,
			History: r.History,
			Order:   i,
		}
		if h.ID == "" || seen[h.ID] {
			h.ID = uuid.New().String()
		}
		seen[h.ID] = true
		if h.History == nil {
			h.History = make(map[string]bool)
		}
		if r.Archived != nil {
			h.Archived = *r.Archived
		}
		if r.Order != nil {
			h.Order = *r.Order
		}
		habits = append(habits, h)
	}
	return habits
}

// EncodeSettings serializes settings in their string-map form.
func EncodeSettings(settings models.Settings) ([]byte, error) {
	data, err := json.Marshal(models.SettingsToMap(settings))
	if err != nil {
		return nil, fmt.Errorf("failed to encode settings: %w", err)
	}
	return data, nil
}

// DecodeSettings parses settings, filling defaults for missing keys.
func DecodeSettings(data []byte) (models.Settings, error) {
	m := map[string]string{}
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &m); err != nil {
			return models.Settings{}, fmt.Errorf("failed to decode settings: %w", err)
		}
	}
	settings, err := models.MapToSettings(m)
	if err != nil {
		return models.Settings{}, err
	}
	models.ApplyDefaultSettings(&settings)
	return settings, nil
}
