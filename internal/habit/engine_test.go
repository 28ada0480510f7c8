package habit

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/julianstephens/habitd/internal/constants"
	"github.com/julianstephens/habitd/internal/models"
	"github.com/julianstephens/habitd/internal/storage/sqlite"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) advance(d time.Duration) { c.now = c.now.Add(d) }

// nextDay jumps the clock to 09:00 UTC on the following day.
func (c *testClock) nextDay() {
	c.now = time.Date(c.now.Year(), c.now.Month(), c.now.Day(), 9, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
}

func newTestEngine(t *testing.T) (*Engine, *testClock) {
	t.Helper()

	store := sqlite.NewStore(filepath.Join(t.TempDir(), "habitd.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	e, err := New(store)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	clk := &testClock{now: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	e.now = clk.Now
	return e, clk
}

func mustCreate(t *testing.T, e *Engine, h models.Habit) models.Habit {
	t.Helper()
	created, err := e.CreateHabit(h)
	if err != nil {
		t.Fatalf("create habit %q: %v", h.Name, err)
	}
	return created
}

func timerHabit(t *testing.T, e *Engine, targetSeconds int) models.Habit {
	t.Helper()
	return mustCreate(t, e, models.Habit{
		Name:               "deep work",
		IsTimer:            true,
		DailyTargetSeconds: targetSeconds,
	})
}

func manualHabit(t *testing.T, e *Engine) models.Habit {
	t.Helper()
	return mustCreate(t, e, models.Habit{Name: "floss"})
}

func timerWithOverride() models.Habit {
	return models.Habit{
		Name:                "exercise",
		IsTimer:             true,
		DailyTargetSeconds:  1800,
		AllowManualOverride: true,
	}
}

func TestEngineLocksPastDaysLazily(t *testing.T) {
	e, clk := newTestEngine(t)
	h := mustCreate(t, e, models.Habit{
		Name:               "read",
		IsTimer:            true,
		DailyTargetSeconds: 600,
		IsFreezable:        true,
		FreezeAllowance:    1,
	})

	// Pass day one.
	sess, err := e.StartSession(h.ID)
	if err != nil {
		t.Fatal(err)
	}
	clk.advance(15 * time.Minute)
	if _, err := e.StopSession(h.ID, sess.ID); err != nil {
		t.Fatal(err)
	}

	// Skip three days; the first missed day burns the only freeze, the rest
	// fail and reset the streak.
	clk.nextDay()
	clk.nextDay()
	clk.nextDay()
	clk.nextDay()

	_, st, err := e.sync(h.ID)
	if err != nil {
		t.Fatal(err)
	}
	if st.CurrentStreak != 0 {
		t.Errorf("current streak = %d, want 0", st.CurrentStreak)
	}
	if st.BestStreak != 1 {
		t.Errorf("best streak = %d, want 1", st.BestStreak)
	}
	if st.FreezesRemaining != 0 {
		t.Errorf("freezes remaining = %d, want 0", st.FreezesRemaining)
	}
	if st.LastLockedDay != "2025-03-13" {
		t.Errorf("last locked day = %q, want 2025-03-13", st.LastLockedDay)
	}

	outcomes := map[string]string{
		"2025-03-10": constants.OutcomePass,
		"2025-03-11": constants.OutcomeFrozen,
		"2025-03-12": constants.OutcomeFail,
		"2025-03-13": constants.OutcomeFail,
	}
	for day, want := range outcomes {
		got, err := e.store.GetDayOutcome(h.ID, day)
		if err != nil {
			t.Fatal(err)
		}
		if got == nil || got.Outcome != want {
			t.Errorf("outcome[%s] = %+v, want %s", day, got, want)
		}
	}
}

func TestEngineLockIsIdempotent(t *testing.T) {
	e, clk := newTestEngine(t)
	h := timerHabit(t, e, 600)

	clk.nextDay()
	for i := 0; i < 3; i++ {
		if _, _, err := e.sync(h.ID); err != nil {
			t.Fatal(err)
		}
	}

	_, st, err := e.sync(h.ID)
	if err != nil {
		t.Fatal(err)
	}
	if st.CurrentStreak != 0 {
		t.Errorf("current streak = %d, want 0", st.CurrentStreak)
	}
	if st.LastLockedDay != "2025-03-10" {
		t.Errorf("last locked day = %q, want 2025-03-10", st.LastLockedDay)
	}
}

func TestUpdateSettingsRejectsInvalid(t *testing.T) {
	e, _ := newTestEngine(t)

	err := e.UpdateSettings(models.Settings{Timezone: "Mars/Olympus", FreezeRefill: constants.RefillMonthly})
	if err == nil {
		t.Fatal("expected error for invalid timezone")
	}

	err = e.UpdateSettings(models.Settings{Timezone: "America/New_York", FreezeRefill: "sometimes"})
	if err == nil {
		t.Fatal("expected error for invalid refill policy")
	}
}

func TestUpdateSettingsConcurrentWithReads(t *testing.T) {
	e, _ := newTestEngine(t)

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			if e.today() == "" {
				t.Error("empty day")
				return
			}
			if e.Settings().Timezone == "" {
				t.Error("empty timezone")
				return
			}
		}
	}()

	settings := e.Settings()
	for i := 0; i < 50; i++ {
		settings.Timezone = "UTC"
		if i%2 == 0 {
			settings.Timezone = "America/New_York"
		}
		if err := e.UpdateSettings(settings); err != nil {
			t.Fatal(err)
		}
	}
	close(stop)
	wg.Wait()
}

func TestUpdateSettingsAppliesTimezone(t *testing.T) {
	e, _ := newTestEngine(t)

	settings := models.Settings{
		Timezone:     "America/New_York",
		FreezeRefill: constants.RefillWeekly,
		ListenAddr:   constants.DefaultListenAddr,
	}
	if err := e.UpdateSettings(settings); err != nil {
		t.Fatal(err)
	}

	// 09:00 UTC on Mar 10 is still Mar 10 in New York; 02:00 UTC is Mar 9.
	if got := e.today(); got != "2025-03-10" {
		t.Errorf("today = %q, want 2025-03-10", got)
	}
	e.now = func() time.Time { return time.Date(2025, 3, 10, 2, 0, 0, 0, time.UTC) }
	if got := e.today(); got != "2025-03-09" {
		t.Errorf("today = %q, want 2025-03-09", got)
	}
}
