package validation

import (
	"strings"
	"testing"

	"github.com/julianstephens/habitd/internal/constants"
	"github.com/julianstephens/habitd/internal/models"
)

func TestHabit(t *testing.T) {
	valid := models.Habit{Name: "read", IsTimer: true, DailyTargetSeconds: 1800, DangerStartPct: 0.7}

	tests := []struct {
		name    string
		mutate  func(*models.Habit)
		wantErr bool
	}{
		{"valid timer habit", func(h *models.Habit) {}, false},
		{"valid manual habit", func(h *models.Habit) { h.IsTimer = false; h.DailyTargetSeconds = 0 }, false},
		{"empty name", func(h *models.Habit) { h.Name = "" }, true},
		{"name at limit", func(h *models.Habit) { h.Name = strings.Repeat("x", constants.MaxHabitNameLen) }, false},
		{"name over limit", func(h *models.Habit) { h.Name = strings.Repeat("x", constants.MaxHabitNameLen+1) }, true},
		{"multibyte name counted in runes", func(h *models.Habit) { h.Name = strings.Repeat("ä", constants.MaxHabitNameLen) }, false},
		{"description over limit", func(h *models.Habit) { h.Description = strings.Repeat("x", constants.MaxHabitDescriptionLen+1) }, true},
		{"danger pct negative", func(h *models.Habit) { h.DangerStartPct = -0.1 }, true},
		{"danger pct above one", func(h *models.Habit) { h.DangerStartPct = 1.1 }, true},
		{"timer without target", func(h *models.Habit) { h.DailyTargetSeconds = 0 }, true},
		{"negative allowance", func(h *models.Habit) { h.FreezeAllowance = -1 }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := valid
			tc.mutate(&h)
			err := Habit(h)
			if (err != nil) != tc.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestNote(t *testing.T) {
	if err := Note(strings.Repeat("x", constants.MaxLogNoteLen)); err != nil {
		t.Errorf("note at limit: %v", err)
	}
	if err := Note(strings.Repeat("x", constants.MaxLogNoteLen+1)); err == nil {
		t.Error("expected error for note over limit")
	}
}

func TestDay(t *testing.T) {
	if err := Day("2025-03-10"); err != nil {
		t.Errorf("valid day: %v", err)
	}
	for _, day := range []string{"03/10/2025", "2025-13-01", "yesterday", ""} {
		if err := Day(day); err == nil {
			t.Errorf("expected error for %q", day)
		}
	}
}

func TestSettings(t *testing.T) {
	valid := models.Settings{Timezone: "America/New_York", FreezeRefill: constants.RefillMonthly}
	if err := Settings(valid); err != nil {
		t.Errorf("valid settings: %v", err)
	}

	bad := valid
	bad.Timezone = "Mars/Olympus"
	if err := Settings(bad); err == nil {
		t.Error("expected error for invalid timezone")
	}

	bad = valid
	bad.FreezeRefill = "sometimes"
	if err := Settings(bad); err == nil {
		t.Error("expected error for invalid refill policy")
	}
}
