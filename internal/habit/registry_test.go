package habit

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitd/internal/apperr"
	"github.com/julianstephens/habitd/internal/constants"
	"github.com/julianstephens/habitd/internal/models"
)

func TestCreateHabitDefaults(t *testing.T) {
	e, _ := newTestEngine(t)

	h := mustCreate(t, e, models.Habit{Name: "read", IsTimer: true, DailyTargetSeconds: 600, IsFreezable: true})
	if h.ID == "" {
		t.Error("id not assigned")
	}
	if h.DangerStartPct != constants.DefaultDangerStartPct {
		t.Errorf("danger_start_pct = %v, want default %v", h.DangerStartPct, constants.DefaultDangerStartPct)
	}
	if h.FreezeAllowance != constants.DefaultFreezeAllowance {
		t.Errorf("freeze_allowance = %d, want default %d", h.FreezeAllowance, constants.DefaultFreezeAllowance)
	}

	st, err := e.store.GetStreakState(h.ID)
	if err != nil {
		t.Fatal(err)
	}
	if st.FreezesRemaining != h.FreezeAllowance {
		t.Errorf("initial balance = %d, want %d", st.FreezesRemaining, h.FreezeAllowance)
	}
	if st.LastLockedDay != "2025-03-09" {
		t.Errorf("last locked day = %q, want day before creation", st.LastLockedDay)
	}
}

func TestCreateHabitNormalizesManual(t *testing.T) {
	e, _ := newTestEngine(t)

	h := mustCreate(t, e, models.Habit{Name: "floss", DailyTargetSeconds: 600, AllowManualOverride: true})
	if h.DailyTargetSeconds != 0 || h.AllowManualOverride {
		t.Errorf("manual habit kept timer fields: %+v", h)
	}
}

func TestCreateHabitValidation(t *testing.T) {
	e, _ := newTestEngine(t)

	tests := []struct {
		name  string
		habit models.Habit
	}{
		{"empty name", models.Habit{IsTimer: true, DailyTargetSeconds: 600}},
		{"name too long", models.Habit{Name: strings.Repeat("x", constants.MaxHabitNameLen+1)}},
		{"description too long", models.Habit{Name: "ok", Description: strings.Repeat("x", constants.MaxHabitDescriptionLen+1)}},
		{"timer without target", models.Habit{Name: "ok", IsTimer: true}},
		{"danger pct out of range", models.Habit{Name: "ok", IsTimer: true, DailyTargetSeconds: 600, DangerStartPct: 1.5}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.CreateHabit(tc.habit)
			var appErr *apperr.Error
			if !errors.As(err, &appErr) || appErr.Kind != apperr.KindValidation {
				t.Errorf("err = %v, want validation error", err)
			}
		})
	}
}

func TestUpdateHabitPatch(t *testing.T) {
	e, _ := newTestEngine(t)
	h := timerHabit(t, e, 1800)

	name := "deep work v2"
	target := 3600
	updated, err := e.UpdateHabit(h.ID, models.HabitPatch{Name: &name, DailyTargetSeconds: &target})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Name != name || updated.DailyTargetSeconds != target {
		t.Errorf("updated = %+v", updated)
	}
	// Untouched fields survive.
	if updated.DangerStartPct != h.DangerStartPct {
		t.Errorf("danger_start_pct changed: %v", updated.DangerStartPct)
	}

	bad := ""
	if _, err := e.UpdateHabit(h.ID, models.HabitPatch{Name: &bad}); err == nil {
		t.Error("expected validation error for empty name")
	}
}

func TestUpdateHabitNormalizesModeSwitch(t *testing.T) {
	e, _ := newTestEngine(t)
	h := mustCreate(t, e, timerWithOverride())

	manual := false
	updated, err := e.UpdateHabit(h.ID, models.HabitPatch{IsTimer: &manual})
	if err != nil {
		t.Fatal(err)
	}
	if updated.DailyTargetSeconds != 0 || updated.AllowManualOverride {
		t.Errorf("updated = %+v, want zero target and no override", updated)
	}
}

func TestDeleteHabitCascades(t *testing.T) {
	e, clk := newTestEngine(t)
	h := timerHabit(t, e, 600)

	sess, err := e.StartSession(h.ID)
	if err != nil {
		t.Fatal(err)
	}
	clk.advance(time.Minute)
	if _, err := e.StopSession(h.ID, sess.ID); err != nil {
		t.Fatal(err)
	}

	if err := e.DeleteHabit(h.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := e.GetHabit(h.ID); !errors.Is(err, apperr.ErrHabitNotFound) {
		t.Errorf("err = %v, want ErrHabitNotFound", err)
	}
	entries, err := e.store.GetLogEntries(h.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("log entries survived delete: %d", len(entries))
	}
}

func TestGetHabitByName(t *testing.T) {
	e, _ := newTestEngine(t)
	h := timerHabit(t, e, 600)

	got, err := e.GetHabitByName("deep work")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != h.ID {
		t.Errorf("id = %q, want %q", got.ID, h.ID)
	}

	if _, err := e.GetHabitByName("nope"); !errors.Is(err, apperr.ErrHabitNotFound) {
		t.Errorf("err = %v, want ErrHabitNotFound", err)
	}
}
