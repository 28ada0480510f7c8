package habit

import (
	"errors"
	"testing"
	"time"

	"github.com/julianstephens/habitd/internal/apperr"
	"github.com/julianstephens/habitd/internal/constants"
	"github.com/julianstephens/habitd/internal/models"
)

func TestCompleteOncePerDay(t *testing.T) {
	e, clk := newTestEngine(t)
	h := manualHabit(t, e)

	if _, err := e.Complete(h.ID, "done"); err != nil {
		t.Fatal(err)
	}
	_, err := e.Complete(h.ID, "")
	if !errors.Is(err, apperr.ErrAlreadyCompletedToday) {
		t.Errorf("err = %v, want ErrAlreadyCompletedToday", err)
	}

	// A new day accepts a fresh completion.
	clk.nextDay()
	if _, err := e.Complete(h.ID, ""); err != nil {
		t.Errorf("complete next day: %v", err)
	}
}

func TestCompleteRejectsTimerHabit(t *testing.T) {
	e, _ := newTestEngine(t)
	h := timerHabit(t, e, 1800)

	_, err := e.Complete(h.ID, "")
	if !errors.Is(err, apperr.ErrNotManualMode) {
		t.Errorf("err = %v, want ErrNotManualMode", err)
	}
}

func TestFreezeResolvesToday(t *testing.T) {
	e, _ := newTestEngine(t)
	h := mustCreate(t, e, models.Habit{
		Name:               "write",
		IsTimer:            true,
		DailyTargetSeconds: 1800,
		IsFreezable:        true,
		FreezeAllowance:    2,
	})

	st, err := e.Freeze(h.ID)
	if err != nil {
		t.Fatal(err)
	}
	if st.FreezesUsed != 1 || st.FreezesRemaining != 1 {
		t.Errorf("state = %+v, want used 1 remaining 1", st)
	}

	status, err := e.Status(h.ID)
	if err != nil {
		t.Fatal(err)
	}
	if status.Status != constants.StatusFrozen {
		t.Errorf("status = %s, want frozen", status.Status)
	}

	_, err = e.Freeze(h.ID)
	if !errors.Is(err, apperr.ErrAlreadyResolvedToday) {
		t.Errorf("second freeze: err = %v, want ErrAlreadyResolvedToday", err)
	}
}

func TestFreezeOverridesLaterProgress(t *testing.T) {
	e, clk := newTestEngine(t)
	h := mustCreate(t, e, models.Habit{
		Name:               "write",
		IsTimer:            true,
		DailyTargetSeconds: 600,
		IsFreezable:        true,
		FreezeAllowance:    2,
	})

	if _, err := e.Freeze(h.ID); err != nil {
		t.Fatal(err)
	}

	// Hit the target after the freeze; the day stays frozen and the freeze is
	// not refunded.
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
	if status.Status != constants.StatusFrozen {
		t.Errorf("status = %s, want frozen", status.Status)
	}

	clk.nextDay()
	_, st, err := e.sync(h.ID)
	if err != nil {
		t.Fatal(err)
	}
	if st.FreezesUsed != 1 || st.FreezesRemaining != 1 {
		t.Errorf("state = %+v, want used 1 remaining 1", st)
	}
	outcome, err := e.store.GetDayOutcome(h.ID, "2025-03-10")
	if err != nil {
		t.Fatal(err)
	}
	if outcome == nil || outcome.Outcome != constants.OutcomeFrozen {
		t.Errorf("outcome = %+v, want frozen", outcome)
	}
	// Frozen days preserve the streak without lengthening it.
	if st.CurrentStreak != 0 {
		t.Errorf("current streak = %d, want 0", st.CurrentStreak)
	}
}

func TestFreezeRejectsPassedDay(t *testing.T) {
	e, clk := newTestEngine(t)
	timer := mustCreate(t, e, models.Habit{
		Name:               "write",
		IsTimer:            true,
		DailyTargetSeconds: 600,
		IsFreezable:        true,
		FreezeAllowance:    2,
	})
	manual := mustCreate(t, e, models.Habit{
		Name:            "floss",
		IsFreezable:     true,
		FreezeAllowance: 2,
	})

	sess, err := e.StartSession(timer.ID)
	if err != nil {
		t.Fatal(err)
	}
	clk.advance(15 * time.Minute)
	if _, err := e.StopSession(timer.ID, sess.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Freeze(timer.ID); !errors.Is(err, apperr.ErrAlreadyResolvedToday) {
		t.Errorf("timer: err = %v, want ErrAlreadyResolvedToday", err)
	}

	if _, err := e.Complete(manual.ID, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Freeze(manual.ID); !errors.Is(err, apperr.ErrAlreadyResolvedToday) {
		t.Errorf("manual: err = %v, want ErrAlreadyResolvedToday", err)
	}
}

func TestFreezeRejections(t *testing.T) {
	e, _ := newTestEngine(t)
	plain := timerHabit(t, e, 1800)
	frozen := mustCreate(t, e, models.Habit{
		Name:               "write",
		IsTimer:            true,
		DailyTargetSeconds: 1800,
		IsFreezable:        true,
		FreezeAllowance:    1,
	})

	if _, err := e.Freeze(plain.ID); !errors.Is(err, apperr.ErrNotFreezable) {
		t.Errorf("err = %v, want ErrNotFreezable", err)
	}

	if _, err := e.Freeze(frozen.ID); err != nil {
		t.Fatal(err)
	}
	// Balance exhausted: the next freeze is rejected before resolution is
	// even attempted.
	_, err := e.Freeze(frozen.ID)
	if !errors.Is(err, apperr.ErrNoFreezesRemaining) {
		t.Errorf("err = %v, want ErrNoFreezesRemaining", err)
	}
}
