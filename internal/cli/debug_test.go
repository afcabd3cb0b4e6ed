package cli

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDebugDBPathCmd(t *testing.T) {
	env := newTestEnv(t)

	out := env.run(t, &DebugDBPathCmd{})
	var got map[string]string
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got["path"] != env.dbPath {
		t.Errorf("path = %q, want %q", got["path"], env.dbPath)
	}
}

func TestDebugDumpCmd(t *testing.T) {
	env := newTestEnv(t)
	env.run(t, &AddCmd{Name: []string{"Exercise"}})
	env.run(t, &ToggleCmd{Habit: "Exercise"})
	env.run(t, &ToggleCmd{Habit: "Exercise", Date: "2024-05-07"})

	out := env.run(t, &DebugDumpCmd{Habit: "Exercise"})
	var got struct {
		ID            string          `json:"id"`
		History       map[string]bool `json:"history"`
		Streak        int             `json:"streak"`
		CompletedDays int             `json:"completed_days"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got.ID != "h1" || got.Streak != 2 || got.CompletedDays != 2 || len(got.History) != 2 {
		t.Errorf("dump = %+v", got)
	}
}

func TestDebugDumpCmdNotFound(t *testing.T) {
	env := newTestEnv(t)
	err := env.runErr(&DebugDumpCmd{Habit: "nonexistent-id"})
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("error = %v, want not found", err)
	}
}
