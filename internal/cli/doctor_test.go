package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitlit/internal/constants"
)

func TestDoctorHealthyDatabase(t *testing.T) {
	env := newTestEnv(t)
	env.run(t, &AddCmd{Name: []string{"Exercise"}})
	env.run(t, &BackupCreateCmd{})

	out := env.run(t, &DoctorCmd{})
	for _, want := range []string{
		"✓ Database reachable: OK",
		"✓ Schema version: OK",
		"✓ Migrations complete: OK",
		"✓ Data validation: OK",
		"✓ Backups present: OK",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("doctor output missing %q:\n%s", want, out)
		}
	}
}

func TestDoctorWarnsWithoutBackups(t *testing.T) {
	env := newTestEnv(t)
	out := env.run(t, &DoctorCmd{})
	if !strings.Contains(out, "⚠ Backups present: WARNING") {
		t.Errorf("expected a backup warning:\n%s", out)
	}
}

func TestDoctorFailsOnCorruptHabits(t *testing.T) {
	env := newTestEnv(t)
	if err := env.ctx.Provider.Put(constants.HabitsKey, []byte(`{"not":"an array"}`)); err != nil {
		t.Fatal(err)
	}

	err := env.runErr(&DoctorCmd{})
	if err == nil {
		t.Fatal("doctor should fail on corrupt habits")
	}
	if out := env.out.String(); !strings.Contains(out, "❌ Data validation: FAIL") {
		t.Errorf("doctor output:\n%s", out)
	}
}

func TestDoctorReportsDamagedHistory(t *testing.T) {
	env := newTestEnv(t)
	blob := `[{"id":"a","name":"Read","history":{"May 8":true},"archived":false,"order":0},
		{"id":"b","name":"read","history":{},"archived":false,"order":1}]`
	if err := env.ctx.Provider.Put(constants.HabitsKey, []byte(blob)); err != nil {
		t.Fatal(err)
	}

	if err := env.runErr(&DoctorCmd{}); err == nil {
		t.Fatal("doctor should fail on a malformed history key")
	}
	out := env.out.String()
	if !strings.Contains(out, "malformed history key") {
		t.Errorf("doctor output missing the blocking conflict:\n%s", out)
	}
	if !strings.Contains(out, "⚠ active habits a and b are both named") {
		t.Errorf("doctor output missing the duplicate-name warning:\n%s", out)
	}
}

func TestCheckClockTimezone(t *testing.T) {
	env := newTestEnv(t)
	if err := checkClockTimezone(env.ctx, time.Date(1999, 1, 1, 0, 0, 0, 0, time.Local)); err == nil {
		t.Error("a 1999 clock should fail")
	}
	if err := checkClockTimezone(env.ctx, testNow); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
