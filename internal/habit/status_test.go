package habit

import (
	"testing"
	"time"

	"github.com/julianstephens/habitd/internal/constants"
	"github.com/julianstephens/habitd/internal/models"
)

func TestClassify(t *testing.T) {
	timer := models.Habit{IsTimer: true, DailyTargetSeconds: 1800, DangerStartPct: 0.7}
	manual := models.Habit{}

	tests := []struct {
		name     string
		habit    models.Habit
		progress todayProgress
		want     constants.HabitStatus
	}{
		{"timer no progress", timer, todayProgress{}, constants.StatusIdle},
		{"timer running from zero", timer, todayProgress{activeSession: true}, constants.StatusOnTrack},
		{"timer below danger", timer, todayProgress{totalSeconds: 1259}, constants.StatusOnTrack},
		{"timer at danger threshold", timer, todayProgress{totalSeconds: 1260}, constants.StatusInDanger},
		{"timer just under target", timer, todayProgress{totalSeconds: 1799}, constants.StatusInDanger},
		{"timer at target", timer, todayProgress{totalSeconds: 1800}, constants.StatusCompleted},
		{"timer over target", timer, todayProgress{totalSeconds: 5400}, constants.StatusCompleted},
		{"frozen overrides progress", timer, todayProgress{frozen: true, totalSeconds: 1800}, constants.StatusFrozen},
		{"manual incomplete", manual, todayProgress{}, constants.StatusIdle},
		{"manual completed", manual, todayProgress{completed: true}, constants.StatusCompleted},
		{"manual frozen", manual, todayProgress{frozen: true}, constants.StatusFrozen},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := classify(tc.habit, tc.progress)
			if got.Status != tc.want {
				t.Errorf("status = %s, want %s", got.Status, tc.want)
			}
			if got.Color != constants.StatusColors[tc.want] {
				t.Errorf("color = %q, want %q", got.Color, constants.StatusColors[tc.want])
			}
			if got.InDanger != (tc.want == constants.StatusInDanger) {
				t.Errorf("in_danger = %v, want %v", got.InDanger, tc.want == constants.StatusInDanger)
			}
		})
	}
}

func TestStatusCountsLiveSession(t *testing.T) {
	e, clk := newTestEngine(t)
	h := timerHabit(t, e, 1800)

	if _, err := e.StartSession(h.ID); err != nil {
		t.Fatal(err)
	}

	clk.advance(22 * time.Minute)
	status, err := e.Status(h.ID)
	if err != nil {
		t.Fatal(err)
	}
	if status.Status != constants.StatusInDanger {
		t.Errorf("status = %s, want in_danger", status.Status)
	}

	// The running session alone carries the habit to completed.
	clk.advance(10 * time.Minute)
	status, err = e.Status(h.ID)
	if err != nil {
		t.Fatal(err)
	}
	if status.Status != constants.StatusCompleted {
		t.Errorf("status = %s, want completed", status.Status)
	}
}

func TestStatusMixedManualAndSession(t *testing.T) {
	e, clk := newTestEngine(t)
	h := mustCreate(t, e, timerWithOverride()) // 30 minute target

	if _, err := e.CreateManualLog(h.ID, 20, ""); err != nil {
		t.Fatal(err)
	}
	sess, err := e.StartSession(h.ID)
	if err != nil {
		t.Fatal(err)
	}
	clk.advance(15 * time.Minute)
	if _, err := e.StopSession(h.ID, sess.ID); err != nil {
		t.Fatal(err)
	}

	status, err := e.Status(h.ID)
	if err != nil {
		t.Fatal(err)
	}
	if status.Status != constants.StatusCompleted {
		t.Errorf("status = %s, want completed", status.Status)
	}
}
