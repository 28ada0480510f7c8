package server

import (
	"encoding/json"
	"net/http"

	"github.com/julianstephens/habitd/internal/apperr"
	"github.com/julianstephens/habitd/internal/logger"
	"github.com/julianstephens/habitd/internal/models"
)

// errorBody is the wire shape for every error response.
type errorBody struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			logger.Error("encode response", "error", err)
		}
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorBody{Detail: err.Error(), Code: apperr.CodeOf(err)})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, apperr.Invalid("malformed request body: %v", err))
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListHabits(w http.ResponseWriter, r *http.Request) {
	habits, err := s.engine.ListHabits()
	if err != nil {
		writeError(w, err)
		return
	}
	if habits == nil {
		habits = []models.Habit{}
	}
	writeJSON(w, http.StatusOK, habits)
}

func (s *Server) handleCreateHabit(w http.ResponseWriter, r *http.Request) {
	var h models.Habit
	if !decodeBody(w, r, &h) {
		return
	}
	created, err := s.engine.CreateHabit(h)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetHabit(w http.ResponseWriter, r *http.Request) {
	h, err := s.engine.GetHabit(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h)
}

func (s *Server) handleUpdateHabit(w http.ResponseWriter, r *http.Request) {
	var patch models.HabitPatch
	if !decodeBody(w, r, &patch) {
		return
	}
	h, err := s.engine.UpdateHabit(r.PathValue("id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h)
}

func (s *Server) handleDeleteHabit(w http.ResponseWriter, r *http.Request) {
	// Missing habits surface as 404 rather than a silent 204.
	if _, err := s.engine.GetHabit(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	if err := s.engine.DeleteHabit(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Note string `json:"note"`
	}
	if r.ContentLength > 0 && !decodeBody(w, r, &body) {
		return
	}
	entry, err := s.engine.Complete(r.PathValue("id"), body.Note)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleFreeze(w http.ResponseWriter, r *http.Request) {
	st, err := s.engine.Freeze(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.engine.Status(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.engine.Stats(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.engine.StartSession(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleStopSession(w http.ResponseWriter, r *http.Request) {
	res, err := s.engine.StopSession(r.PathValue("id"), r.PathValue("logID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleManualLog(w http.ResponseWriter, r *http.Request) {
	var body struct {
		DurationMinutes int    `json:"duration_minutes"`
		Note            string `json:"note"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	entry, err := s.engine.CreateManualLog(r.PathValue("id"), body.DurationMinutes, body.Note)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleListLogs(w http.ResponseWriter, r *http.Request) {
	entries, err := s.engine.ListLogs(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if entries == nil {
		entries = []models.LogEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleActiveSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.engine.GetActiveSession(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if sess == nil {
		writeError(w, apperr.ErrNoActiveSession)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Settings())
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	settings := s.engine.Settings()
	if !decodeBody(w, r, &settings) {
		return
	}
	if err := s.engine.UpdateSettings(settings); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}
