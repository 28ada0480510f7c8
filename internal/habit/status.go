package habit

import (
	"github.com/julianstephens/habitd/internal/constants"
	"github.com/julianstephens/habitd/internal/models"
)

// todayProgress is everything the classifier needs to know about today.
type todayProgress struct {
	frozen        bool
	completed     bool
	totalSeconds  int
	activeSession bool
}

// Status classifies a habit for today. Day totals include the live elapsed
// time of an open session, so a running timer can carry a habit from
// in_danger to completed without a stop.
func (e *Engine) Status(habitID string) (models.Status, error) {
	h, _, err := e.sync(habitID)
	if err != nil {
		return models.Status{}, err
	}

	p, err := e.todayProgress(h)
	if err != nil {
		return models.Status{}, err
	}
	return classify(h, p), nil
}

func (e *Engine) todayProgress(h models.Habit) (todayProgress, error) {
	today := e.today()
	var p todayProgress

	outcome, err := e.store.GetDayOutcome(h.ID, today)
	if err != nil {
		return todayProgress{}, err
	}
	p.frozen = outcome != nil && outcome.Outcome == constants.OutcomeFrozen

	total, err := e.store.GetDayTotalSeconds(h.ID, today)
	if err != nil {
		return todayProgress{}, err
	}
	p.totalSeconds = total

	if h.IsTimer {
		active, err := e.store.GetActiveSession(h.ID)
		if err != nil {
			return todayProgress{}, err
		}
		p.activeSession = active != nil
		p.totalSeconds += e.liveSeconds(active, today)
	} else {
		p.completed, err = e.store.HasCompletion(h.ID, today)
		if err != nil {
			return todayProgress{}, err
		}
	}

	return p, nil
}

// classify is the pure status function. Frozen overrides everything; manual
// habits only know completed and idle; timer habits walk the progress ladder
// idle, on_track, in_danger, completed against the daily target.
func classify(h models.Habit, p todayProgress) models.Status {
	status := constants.StatusIdle

	switch {
	case p.frozen:
		status = constants.StatusFrozen
	case !h.IsTimer:
		if p.completed {
			status = constants.StatusCompleted
		}
	case p.totalSeconds >= h.DailyTargetSeconds:
		status = constants.StatusCompleted
	case p.totalSeconds > 0 && float64(p.totalSeconds) >= h.DangerStartPct*float64(h.DailyTargetSeconds):
		status = constants.StatusInDanger
	case p.totalSeconds > 0 || p.activeSession:
		status = constants.StatusOnTrack
	}

	return models.Status{
		Status:   status,
		Color:    constants.StatusColors[status],
		InDanger: status == constants.StatusInDanger,
	}
}
