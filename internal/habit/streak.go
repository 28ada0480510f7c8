package habit

import (
	"time"

	"github.com/julianstephens/habitd/internal/constants"
	"github.com/julianstephens/habitd/internal/models"
)

// advance is the streak step function: given the state after the previous
// locked day, it produces the state after locking day with the given raw
// result. It is pure so replaying the outcome history from zero always
// reproduces the cached counters.
//
// Order of operations per day: refill the allowance if the day crosses a
// refill period boundary, then settle the day. A Fail day on a freezable
// habit consumes a freeze if one remains and becomes Frozen; Frozen days
// keep the streak alive without lengthening it.
func advance(st models.StreakState, h models.Habit, policy constants.RefillPolicy, loc *time.Location, day string, pass, preFrozen bool) (models.StreakState, string) {
	next := st
	next.LastLockedDay = day

	if policy != constants.RefillNever && next.LastRefillDay != "" {
		if periodStart(day, policy, loc) > periodStart(next.LastRefillDay, policy, loc) {
			next.FreezesRemaining = h.FreezeAllowance
			next.LastRefillDay = day
		}
	}

	switch {
	case preFrozen:
		// Explicitly frozen earlier; the freeze was spent at request time.
		return next, constants.OutcomeFrozen
	case pass:
		next.CurrentStreak++
		if next.CurrentStreak == 1 {
			next.StreakStartDay = day
		}
		if next.CurrentStreak > next.BestStreak {
			next.BestStreak = next.CurrentStreak
		}
		return next, constants.OutcomePass
	case h.IsFreezable && remainingFreezes(h, next) > 0:
		next.FreezesUsed++
		next.FreezesRemaining = remainingFreezes(h, next) - 1
		return next, constants.OutcomeFrozen
	default:
		next.CurrentStreak = 0
		next.StreakStartDay = ""
		return next, constants.OutcomeFail
	}
}

// remainingFreezes clamps the stored balance to the habit's current
// allowance, so lowering the allowance takes effect without rewriting state.
func remainingFreezes(h models.Habit, st models.StreakState) int {
	if st.FreezesRemaining > h.FreezeAllowance {
		return h.FreezeAllowance
	}
	return st.FreezesRemaining
}

// periodStart maps a day to the first day of its refill period: the ISO week's
// Monday for weekly, the first of the month for monthly.
func periodStart(day string, policy constants.RefillPolicy, loc *time.Location) string {
	t, err := time.ParseInLocation(constants.DateFormat, day, loc)
	if err != nil {
		return day
	}
	switch policy {
	case constants.RefillWeekly:
		offset := (int(t.Weekday()) + 6) % 7
		return t.AddDate(0, 0, -offset).Format(constants.DateFormat)
	case constants.RefillMonthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc).Format(constants.DateFormat)
	default:
		return day
	}
}

// displayStreaks folds today's unlocked progress into the cached counters:
// a passing today shows current+1 immediately rather than after midnight.
func displayStreaks(st models.StreakState, todayPass bool, today string) (models.Streaks, string) {
	current := st.CurrentStreak
	start := st.StreakStartDay
	if todayPass {
		current++
		if current == 1 {
			start = today
		}
	}
	best := st.BestStreak
	if current > best {
		best = current
	}
	return models.Streaks{Current: current, Best: best}, start
}
