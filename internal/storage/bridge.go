package storage

import (
	"errors"
	"fmt"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/models"
)

// ErrHabitsUnread is returned by SaveHabits when the stored habit set could
// not be read, so writing would discard data the user never saw.
var ErrHabitsUnread = errors.New("stored habits could not be read")

// Bridge moves the habit set and settings between memory and a Provider.
// It satisfies habits.Saver.
type Bridge struct {
	provider Provider

	// set by LoadHabits when it had to fall back to an empty set
	readErr    error
	unreadable []byte
}

// NewBridge wraps a loaded provider.
func NewBridge(p Provider) *Bridge {
	return &Bridge{provider: p}
}

// LoadHabits returns the persisted habit set. It never fails: a missing or
// unreadable blob yields an empty set and a warning in the log.
func (b *Bridge) LoadHabits() []models.Habit {
	b.readErr, b.unreadable = nil, nil

	data, err := b.provider.Get(constants.HabitsKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			b.readErr = err
			logger.Warn("Failed to read habits, starting empty", "error", err)
		}
		return []models.Habit{}
	}

	habits, err := DecodeHabits(data)
	if err != nil {
		b.unreadable = data
		logger.Warn("Stored habits are invalid, starting empty", "error", err)
		return []models.Habit{}
	}
	logger.Debug("Loaded habits", "count", len(habits))
	return habits
}

// LoadFailed reports whether the last LoadHabits fell back to an empty set
// even though something was stored.
func (b *Bridge) LoadFailed() bool {
	return b.readErr != nil || b.unreadable != nil
}

// SaveHabits writes the full habit set. After a degraded load it first
// copies the undecodable blob to UnreadableHabitsKey, and it refuses to
// write at all when the blob could not be read.
func (b *Bridge) SaveHabits(habits []models.Habit) error {
	if b.readErr != nil {
		return fmt.Errorf("%w: %v", ErrHabitsUnread, b.readErr)
	}
	if b.unreadable != nil {
		if err := b.provider.Put(constants.UnreadableHabitsKey, b.unreadable); err != nil {
			return fmt.Errorf("failed to preserve unreadable habits: %w", err)
		}
		logger.Warn("Preserved unreadable habits", "key", constants.UnreadableHabitsKey)
		b.unreadable = nil
	}

	data, err := EncodeHabits(habits)
	if err != nil {
		return err
	}
	if err := b.provider.Put(constants.HabitsKey, data); err != nil {
		return fmt.Errorf("failed to write habits: %w", err)
	}
	return nil
}

// LoadSettings returns stored settings, or defaults when none were saved.
func (b *Bridge) LoadSettings() (models.Settings, error) {
	data, err := b.provider.Get(constants.SettingsKey)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.DefaultSettings(), nil
		}
		return models.Settings{}, fmt.Errorf("failed to read settings: %w", err)
	}
	return DecodeSettings(data)
}

// SaveSettings writes settings.
func (b *Bridge) SaveSettings(settings models.Settings) error {
	data, err := EncodeSettings(settings)
	if err != nil {
		return err
	}
	if err := b.provider.Put(constants.SettingsKey, data); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

// CopyAll copies the habit and settings blobs from src into b, skipping
// keys src does not have. It returns the number of keys copied.
func (b *Bridge) CopyAll(src Provider) (int, error) {
	n := 0
	for _, key := range []string{constants.HabitsKey, constants.SettingsKey} {
		data, err := src.Get(key)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return n, fmt.Errorf("failed to read %s from source: %w", key, err)
		}
		if err := b.provider.Put(key, data); err != nil {
			return n, fmt.Errorf("failed to write %s: %w", key, err)
		}
		n++
	}
	return n, nil
}
