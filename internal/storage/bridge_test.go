package storage

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/julianstephens/habitlit/internal/models"
)

// failingProvider returns err from every blob operation.
type failingProvider struct {
	JSONStore
	err error
}

func (f *failingProvider) Get(string) ([]byte, error) { return nil, f.err }
func (f *failingProvider) Put(string, []byte) error   { return f.err }

func TestBridgeHabitsRoundTrip(t *testing.T) {
	store, _ := setupJSONStore(t)
	bridge := NewBridge(store)

	if got := bridge.LoadHabits(); len(got) != 0 || got == nil {
		t.Errorf("fresh store should load an empty, non-nil set: %#v", got)
	}

	habits := sampleHabits()
	if err := bridge.SaveHabits(habits); err != nil {
		t.Fatalf("SaveHabits failed: %v", err)
	}
	if got := bridge.LoadHabits(); !reflect.DeepEqual(got, habits) {
		t.Errorf("LoadHabits = %+v, want %+v", got, habits)
	}
}

func TestBridgeLoadHabitsNeverFails(t *testing.T) {
	store, _ := setupJSONStore(t)
	if err := store.Put("habits", []byte(`{"not":"an array"}`)); err != nil {
		t.Fatal(err)
	}
	if got := NewBridge(store).LoadHabits(); len(got) != 0 {
		t.Errorf("invalid blob should load empty, got %+v", got)
	}

	broken := &failingProvider{err: errors.New("io error")}
	if got := NewBridge(broken).LoadHabits(); len(got) != 0 {
		t.Errorf("read error should load empty, got %+v", got)
	}
}

func TestBridgePreservesUnreadableHabits(t *testing.T) {
	store, _ := setupJSONStore(t)
	blob := []byte(`{"habits":[{"id":"a","name":"Read"}]}`)
	if err := store.Put("habits", blob); err != nil {
		t.Fatal(err)
	}

	bridge := NewBridge(store)
	if got := bridge.LoadHabits(); len(got) != 0 {
		t.Fatalf("invalid blob should load empty, got %+v", got)
	}
	if !bridge.LoadFailed() {
		t.Fatal("LoadFailed should report the invalid blob")
	}

	if err := bridge.SaveHabits(sampleHabits()); err != nil {
		t.Fatalf("SaveHabits failed: %v", err)
	}
	kept, err := store.Get("habits.unreadable")
	if err != nil || string(kept) != string(blob) {
		t.Errorf("unreadable blob = %s, %v; want %s", kept, err, blob)
	}
	if got := bridge.LoadHabits(); len(got) != len(sampleHabits()) || bridge.LoadFailed() {
		t.Errorf("reload after save = %+v, failed=%v", got, bridge.LoadFailed())
	}
}

func TestBridgeRefusesSaveAfterReadError(t *testing.T) {
	provider := &failingProvider{err: errors.New("io error")}
	bridge := NewBridge(provider)
	bridge.LoadHabits()

	if err := bridge.SaveHabits(sampleHabits()); !errors.Is(err, ErrHabitsUnread) {
		t.Errorf("SaveHabits after read error = %v, want ErrHabitsUnread", err)
	}
}

func TestBridgeSaveHabitsError(t *testing.T) {
	cause := errors.New("disk full")
	err := NewBridge(&failingProvider{err: cause}).SaveHabits(sampleHabits())
	if !errors.Is(err, cause) {
		t.Errorf("expected wrapped cause, got %v", err)
	}
}

func TestBridgeSettings(t *testing.T) {
	store, _ := setupJSONStore(t)
	bridge := NewBridge(store)

	got, err := bridge.LoadSettings()
	if err != nil {
		t.Fatal(err)
	}
	if got != models.DefaultSettings() {
		t.Errorf("expected defaults, got %+v", got)
	}

	want := models.Settings{WeekStart: time.Sunday, DefaultHabitName: "Untitled"}
	if err := bridge.SaveSettings(want); err != nil {
		t.Fatal(err)
	}
	if got, _ = bridge.LoadSettings(); got != want {
		t.Errorf("LoadSettings = %+v, want %+v", got, want)
	}

	if _, err := NewBridge(&failingProvider{err: errors.New("boom")}).LoadSettings(); err == nil {
		t.Error("expected read error to surface")
	}
}

func TestBridgeCopyAll(t *testing.T) {
	src, _ := setupJSONStore(t)
	if err := NewBridge(src).SaveHabits(sampleHabits()); err != nil {
		t.Fatal(err)
	}

	dst, _ := setupJSONStore(t)
	bridge := NewBridge(dst)
	n, err := bridge.CopyAll(src)
	if err != nil {
		t.Fatalf("CopyAll failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 key copied (no settings saved), got %d", n)
	}
	if got := bridge.LoadHabits(); len(got) != 3 {
		t.Errorf("copied habits = %d", len(got))
	}
}
