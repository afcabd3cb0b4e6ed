package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/habitlit/internal/storage"
	"github.com/julianstephens/habitlit/internal/storage/sqlite"
)

func runInit(t *testing.T, dbPath string, cmd *InitCmd) (string, error) {
	t.Helper()
	p, err := NewProvider(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	ctx := NewContext(p)
	ctx.Out = &out
	defer p.Close()
	err = cmd.Run(ctx)
	return out.String(), err
}

func TestInitCreatesDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "habitlit.db")

	out, err := runInit(t, dbPath, &InitCmd{})
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if !strings.Contains(out, "Initialized habitlit storage at: "+dbPath) {
		t.Errorf("output = %q", out)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("database file not created: %v", err)
	}

	// Running init again keeps existing data.
	if _, err := runInit(t, dbPath, &InitCmd{}); err != nil {
		t.Fatalf("second init failed: %v", err)
	}
}

func TestInitForceResets(t *testing.T) {
	env := newTestEnv(t)
	env.run(t, &AddCmd{Name: []string{"Exercise"}})
	if err := env.ctx.Close(); err != nil {
		t.Fatal(err)
	}

	out, err := runInit(t, env.dbPath, &InitCmd{Force: true})
	if err != nil {
		t.Fatalf("init --force failed: %v", err)
	}
	if !strings.Contains(out, "Deleted existing database") {
		t.Errorf("output = %q", out)
	}

	store := sqlite.NewStore(env.dbPath)
	if err := store.Load(); err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	if got := storage.NewBridge(store).LoadHabits(); len(got) != 0 {
		t.Errorf("habits after reset = %+v", got)
	}
}

func TestInitFromSource(t *testing.T) {
	src := newTestEnv(t)
	src.run(t, &AddCmd{Name: []string{"Exercise"}})
	src.run(t, &SettingsCmd{WeekStart: "sunday"})
	if err := src.ctx.Close(); err != nil {
		t.Fatal(err)
	}

	dst := filepath.Join(t.TempDir(), "copy.json")
	out, err := runInit(t, dst, &InitCmd{Source: src.dbPath})
	if err != nil {
		t.Fatalf("init --source failed: %v", err)
	}
	if !strings.Contains(out, "Copied 2 records.") {
		t.Errorf("output = %q", out)
	}

	store := storage.NewJSONStore(dst)
	if err := store.Load(); err != nil {
		t.Fatal(err)
	}
	bridge := storage.NewBridge(store)
	if got := bridge.LoadHabits(); len(got) != 1 || got[0].Name != "Exercise" {
		t.Errorf("copied habits = %+v", got)
	}
	settings, err := bridge.LoadSettings()
	if err != nil || settings.WeekStart != 0 {
		t.Errorf("copied settings = %+v, err %v", settings, err)
	}
}

func TestInitForceRefusesSameSource(t *testing.T) {
	env := newTestEnv(t)
	if _, err := runInit(t, env.dbPath, &InitCmd{Force: true, Source: env.dbPath}); err == nil {
		t.Error("expected an error when source and destination are the same")
	}
}
