// Package habits owns the habit set and every mutation applied to it.
//
// A Store is not safe for concurrent use. It is meant to be driven by a single
// writer (one CLI command or the TUI update loop), and each mutator returns
// only after the new state has been handed to its Saver.
package habits

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/utils"
)

var (
	// ErrInvalidDay is returned when a toggle names a malformed day key
	ErrInvalidDay = errors.New("invalid day (expected YYYY-MM-DD)")
	// ErrFutureDay is returned when a toggle targets a day after today
	ErrFutureDay = errors.New("cannot record a habit for a future day")
)

// Saver persists the full habit set after a mutation.
type Saver interface {
	SaveHabits([]models.Habit) error
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now as the source of "today".
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithIDGenerator replaces the UUID generator used for new habits.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		s.newID = gen
	}
}

// WithDefaultName sets the name given to habits created without one.
func WithDefaultName(name string) Option {
	return func(s *Store) {
		if name != "" {
			s.defaultName = name
		}
	}
}

// Store holds the habit set in insertion order.
type Store struct {
	habits      []*models.Habit
	saver       Saver
	now         func() time.Time
	newID       func() string
	defaultName string

	// pending is set while the last save failed.
	pending bool
}

// New builds a Store from a previously loaded habit set. A nil saver keeps
// the store in memory only.
func New(initial []models.Habit, saver Saver, opts ...Option) *Store {
	s := &Store{
		saver:       saver,
		now:         time.Now,
		newID:       func() string { return uuid.New().String() },
		defaultName: constants.DefaultHabitName,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.habits = make([]*models.Habit, 0, len(initial))
	for _, h := range initial {
		c := h.Clone()
		s.habits = append(s.habits, &c)
	}
	return s
}

// Today returns the store's current day key.
func (s *Store) Today() string {
	return utils.DayKey(s.now())
}

// Now returns the store's clock reading.
func (s *Store) Now() time.Time {
	return s.now()
}

// Create appends a new habit at the end of the display order.
func (s *Store) Create(name string) (models.Habit, error) {
	if name == "" {
		name = s.defaultName
	}

	// Normalize ranks first so the new habit's rank is strictly last.
	active := s.ordered()
	renumber(active)

	h := &models.Habit{
		ID:      s.uniqueID(),
		Name:    name,
		History: make(map[string]bool),
		Order:   len(active),
	}
	s.habits = append(s.habits, h)
	logger.Debug("Created habit", "id", h.ID, "name", h.Name, "order", h.Order)

	return h.Clone(), s.save("create")
}

// Rename sets a habit's name. Any string is accepted, including "".
func (s *Store) Rename(id, name string) error {
	h := s.find(id)
	if h == nil {
		return nil
	}
	h.Name = name
	return s.save("rename")
}

// Toggle flips today's completion for a habit.
func (s *Store) Toggle(id string) error {
	return s.ToggleOn(id, s.Today())
}

// ToggleOn flips a habit's completion for the given day key. Past days may
// be corrected; future days are rejected.
func (s *Store) ToggleOn(id, day string) error {
	h := s.find(id)
	if h == nil {
		return nil
	}
	if !utils.IsDayKey(day) {
		return fmt.Errorf("%w: %q", ErrInvalidDay, day)
	}
	if day > s.Today() {
		return fmt.Errorf("%w: %s", ErrFutureDay, day)
	}

	if h.History == nil {
		h.History = make(map[string]bool)
	}
	if h.History[day] {
		delete(h.History, day)
	} else {
		h.History[day] = true
	}
	logger.Debug("Toggled habit", "id", id, "day", day, "done", h.History[day])

	return s.save("toggle")
}

// Archive hides a habit from the active list and from analytics. Its
// history and rank are left untouched.
func (s *Store) Archive(id string) error {
	h := s.find(id)
	if h == nil {
		return nil
	}
	h.Archived = true
	return s.save("archive")
}

// Unarchive returns an archived habit to the end of the active list.
func (s *Store) Unarchive(id string) error {
	h := s.find(id)
	if h == nil || !h.Archived {
		return nil
	}

	active := s.ordered()
	renumber(active)
	h.Archived = false
	h.Order = len(active)

	return s.save("unarchive")
}

// Delete removes a habit and its history permanently.
func (s *Store) Delete(id string) error {
	for i, h := range s.habits {
		if h.ID == id {
			s.habits = append(s.habits[:i], s.habits[i+1:]...)
			logger.Debug("Deleted habit", "id", id)
			return s.save("delete")
		}
	}
	return nil
}

// Reorder moves an active habit to position (0-based) in the display order
// and renumbers every active habit 0..N-1. Out-of-range positions clamp.
func (s *Store) Reorder(id string, position int) error {
	active := s.ordered()
	from := -1
	for i, h := range active {
		if h.ID == id {
			from = i
			break
		}
	}
	if from < 0 {
		return nil
	}

	if position < 0 {
		position = 0
	}
	if position > len(active)-1 {
		position = len(active) - 1
	}

	moved := active[from]
	active = append(active[:from], active[from+1:]...)
	active = append(active[:position], append([]*models.Habit{moved}, active[position:]...)...)
	renumber(active)

	return s.save("reorder")
}

// ReorderByDrag renumbers active habits 0..N-1 to follow ids. Active habits
// missing from ids keep their relative order after the listed ones; unknown,
// archived and repeated ids are ignored.
func (s *Store) ReorderByDrag(ids []string) error {
	active := s.ordered()
	byID := make(map[string]*models.Habit, len(active))
	for _, h := range active {
		byID[h.ID] = h
	}

	seen := make(map[string]bool, len(active))
	seq := make([]*models.Habit, 0, len(active))
	for _, id := range ids {
		h, ok := byID[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		seq = append(seq, h)
	}
	if len(seq) == 0 {
		return nil
	}
	for _, h := range active {
		if !seen[h.ID] {
			seq = append(seq, h)
		}
	}
	renumber(seq)

	return s.save("reorder")
}

// List returns active habits in display order. With includeArchived,
// archived habits follow in insertion order.
func (s *Store) List(includeArchived bool) []models.Habit {
	active := s.ordered()
	out := make([]models.Habit, 0, len(s.habits))
	for _, h := range active {
		out = append(out, h.Clone())
	}
	if includeArchived {
		for _, h := range s.habits {
			if h.Archived {
				out = append(out, h.Clone())
			}
		}
	}
	return out
}

// Get returns a copy of the habit with the given id.
func (s *Store) Get(id string) (models.Habit, bool) {
	h := s.find(id)
	if h == nil {
		return models.Habit{}, false
	}
	return h.Clone(), true
}

// FindByName returns the first habit with the given name in display order,
// active habits before archived ones.
func (s *Store) FindByName(name string) (models.Habit, bool) {
	for _, h := range s.List(true) {
		if h.Name == name {
			return h, true
		}
	}
	return models.Habit{}, false
}

// Len returns the number of habits, archived included.
func (s *Store) Len() int {
	return len(s.habits)
}

// Snapshot returns a deep copy of the full habit set in insertion order.
// This is the unit of persistence.
func (s *Store) Snapshot() []models.Habit {
	out := make([]models.Habit, len(s.habits))
	for i, h := range s.habits {
		out[i] = h.Clone()
	}
	return out
}

// Replace swaps the whole habit set, e.g. after an import.
func (s *Store) Replace(set []models.Habit) error {
	s.habits = make([]*models.Habit, 0, len(set))
	for _, h := range set {
		c := h.Clone()
		s.habits = append(s.habits, &c)
	}
	return s.save("replace")
}

// Pending reports whether a mutation has not reached the saver yet.
func (s *Store) Pending() bool {
	return s.pending
}

// Close retries the save if the last one failed. A store that was only
// read never writes on Close.
func (s *Store) Close() error {
	if !s.pending {
		return nil
	}
	return s.save("close")
}

func (s *Store) find(id string) *models.Habit {
	for _, h := range s.habits {
		if h.ID == id {
			return h
		}
	}
	return nil
}

// ordered returns active habits sorted by rank, ties kept in insertion order.
func (s *Store) ordered() []*models.Habit {
	active := make([]*models.Habit, 0, len(s.habits))
	for _, h := range s.habits {
		if !h.Archived {
			active = append(active, h)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Order < active[j].Order
	})
	return active
}

func (s *Store) uniqueID() string {
	for i := 0; i < 10; i++ {
		id := s.newID()
		if id != "" && s.find(id) == nil {
			return id
		}
	}
	return uuid.New().String()
}

func (s *Store) save(op string) error {
	if s.saver == nil {
		return nil
	}
	if err := s.saver.SaveHabits(s.Snapshot()); err != nil {
		s.pending = true
		logger.Error("Failed to persist habits", "op", op, "error", err)
		return fmt.Errorf("failed to save habits after %s: %w", op, err)
	}
	s.pending = false
	return nil
}

func renumber(seq []*models.Habit) {
	for i, h := range seq {
		h.Order = i
	}
}
