package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitlit/internal/backup"
	"github.com/julianstephens/habitlit/internal/habits"
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/storage"
)

// Context is shared by every command. Provider is set by main; Open fills
// in the rest once the provider has been loaded.
type Context struct {
	Provider storage.Provider
	Bridge   *storage.Bridge
	Habits   *habits.Store
	Settings models.Settings

	Out     io.Writer
	Confirm func(title string) (bool, error)

	storeOpts []habits.Option
}

// NewContext builds a Context around a provider that has not been loaded yet.
func NewContext(p storage.Provider, opts ...habits.Option) *Context {
	return &Context{
		Provider:  p,
		Out:       os.Stdout,
		Confirm:   confirmPrompt,
		storeOpts: opts,
	}
}

// Open loads the provider, the settings and the habit set.
func (c *Context) Open() error {
	if err := c.Provider.Load(); err != nil {
		return err
	}
	c.Bridge = storage.NewBridge(c.Provider)

	settings, err := c.Bridge.LoadSettings()
	if err != nil {
		logger.Warn("Failed to load settings, using defaults", "error", err)
		settings = models.DefaultSettings()
	}
	c.Settings = settings

	opts := append([]habits.Option{habits.WithDefaultName(settings.DefaultHabitName)}, c.storeOpts...)
	c.Habits = habits.New(c.Bridge.LoadHabits(), c.Bridge, opts...)
	return nil
}

// Close flushes the habit set and closes the provider.
func (c *Context) Close() error {
	var saveErr error
	if c.Habits != nil {
		saveErr = c.Habits.Close()
	}
	if err := c.Provider.Close(); err != nil && saveErr == nil {
		return err
	}
	return saveErr
}

// fileBacked reports whether the provider stores a local file that can be
// backed up.
func (c *Context) fileBacked() bool {
	_, err := os.Stat(c.Provider.GetConfigPath())
	return err == nil
}

// PerformAutomaticBackup creates a backup and only logs failures.
func (c *Context) PerformAutomaticBackup() {
	if !c.fileBacked() {
		return
	}
	mgr := backup.NewManager(c.Provider.GetConfigPath())
	if _, err := mgr.CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

func (c *Context) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) println(args ...interface{}) {
	fmt.Fprintln(c.Out, args...)
}

// resolveHabit finds a habit by id, by its 1-based position in the active
// list, or by exact name.
func (c *Context) resolveHabit(ref string) (models.Habit, error) {
	if h, ok := c.Habits.Get(ref); ok {
		return h, nil
	}

	if n, err := strconv.Atoi(ref); err == nil {
		active := c.Habits.List(false)
		if n >= 1 && n <= len(active) {
			return active[n-1], nil
		}
	}

	if h, ok := c.Habits.FindByName(ref); ok {
		return h, nil
	}
	if h, ok := c.findByNameFold(ref); ok {
		return h, nil
	}

	return models.Habit{}, fmt.Errorf("habit %q not found", ref)
}

func (c *Context) findByNameFold(ref string) (models.Habit, bool) {
	for _, h := range c.Habits.List(true) {
		if strings.EqualFold(h.Name, ref) {
			return h, true
		}
	}
	return models.Habit{}, false
}

func confirmPrompt(title string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	return ok, err
}
