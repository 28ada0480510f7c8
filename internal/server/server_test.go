package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/julianstephens/habitd/internal/habit"
	"github.com/julianstephens/habitd/internal/models"
	"github.com/julianstephens/habitd/internal/storage/sqlite"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store := sqlite.NewStore(filepath.Join(t.TempDir(), "habitd.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	engine, err := habit.New(store)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	ts := httptest.NewServer(NewServer(engine, "127.0.0.1:0").routes())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var out bytes.Buffer
	if _, err := out.ReadFrom(resp.Body); err != nil {
		t.Fatal(err)
	}
	return resp, out.Bytes()
}

func createHabit(t *testing.T, ts *httptest.Server, h models.Habit) models.Habit {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, ts.URL+"/habits", h)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create habit: status %d: %s", resp.StatusCode, body)
	}
	var created models.Habit
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatal(err)
	}
	return created
}

func TestHabitCRUD(t *testing.T) {
	ts := newTestServer(t)

	h := createHabit(t, ts, models.Habit{Name: "read", IsTimer: true, DailyTargetSeconds: 1800})
	if h.ID == "" {
		t.Fatal("created habit has no id")
	}

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/habits/"+h.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get: status %d: %s", resp.StatusCode, body)
	}

	resp, body = doJSON(t, http.MethodPatch, ts.URL+"/habits/"+h.ID, map[string]any{"name": "read more"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("patch: status %d: %s", resp.StatusCode, body)
	}
	var updated models.Habit
	if err := json.Unmarshal(body, &updated); err != nil {
		t.Fatal(err)
	}
	if updated.Name != "read more" {
		t.Errorf("name = %q, want %q", updated.Name, "read more")
	}

	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/habits/"+h.ID, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete: status %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/habits/"+h.ID, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get deleted: status %d, want 404", resp.StatusCode)
	}
}

func TestCreateHabitValidationStatus(t *testing.T) {
	ts := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/habits", models.Habit{IsTimer: true})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422: %s", resp.StatusCode, body)
	}
	var e struct {
		Detail string `json:"detail"`
		Code   string `json:"code"`
	}
	if err := json.Unmarshal(body, &e); err != nil {
		t.Fatal(err)
	}
	if e.Detail == "" || e.Code != "InvalidInput" {
		t.Errorf("error body = %+v", e)
	}
}

func TestCompleteConflict(t *testing.T) {
	ts := newTestServer(t)
	h := createHabit(t, ts, models.Habit{Name: "floss"})

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/habits/"+h.ID+"/complete", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("complete: status %d: %s", resp.StatusCode, body)
	}

	resp, body = doJSON(t, http.MethodPost, ts.URL+"/habits/"+h.ID+"/complete", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("second complete: status %d, want 409: %s", resp.StatusCode, body)
	}
	var e struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(body, &e); err != nil {
		t.Fatal(err)
	}
	if e.Code != "AlreadyCompletedToday" {
		t.Errorf("code = %q, want AlreadyCompletedToday", e.Code)
	}
}

func TestSessionLifecycleOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	h := createHabit(t, ts, models.Habit{Name: "write", IsTimer: true, DailyTargetSeconds: 1800})

	base := fmt.Sprintf("%s/habit_logs/%s/logs", ts.URL, h.ID)

	// No active session yet.
	resp, _ := doJSON(t, http.MethodGet, base+"/active", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("active without session: status %d, want 409", resp.StatusCode)
	}

	resp, body := doJSON(t, http.MethodPost, base+"/start", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("start: status %d: %s", resp.StatusCode, body)
	}
	var sess models.Session
	if err := json.Unmarshal(body, &sess); err != nil {
		t.Fatal(err)
	}

	resp, _ = doJSON(t, http.MethodPost, base+"/start", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("double start: status %d, want 409", resp.StatusCode)
	}

	resp, body = doJSON(t, http.MethodPatch, base+"/"+sess.ID+"/stop", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stop: status %d: %s", resp.StatusCode, body)
	}
	var res habit.StopResult
	if err := json.Unmarshal(body, &res); err != nil {
		t.Fatal(err)
	}
	if res.Session.Active() {
		t.Error("stopped session still active")
	}

	resp, _ = doJSON(t, http.MethodPatch, base+"/"+sess.ID+"/stop", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("double stop: status %d, want 409", resp.StatusCode)
	}
}

func TestStatusAndStatsEndpoints(t *testing.T) {
	ts := newTestServer(t)
	h := createHabit(t, ts, models.Habit{Name: "write", IsTimer: true, DailyTargetSeconds: 1800})

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/habits/"+h.ID+"/status", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d: %s", resp.StatusCode, body)
	}
	var status models.Status
	if err := json.Unmarshal(body, &status); err != nil {
		t.Fatal(err)
	}
	if status.Status != "idle" || status.Color != "gray" {
		t.Errorf("status = %+v, want idle/gray", status)
	}

	resp, body = doJSON(t, http.MethodGet, ts.URL+"/habits/"+h.ID+"/stats", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stats: %d: %s", resp.StatusCode, body)
	}
	var stats struct {
		HabitType string          `json:"habit_type"`
		Metrics   json.RawMessage `json:"stats"`
	}
	if err := json.Unmarshal(body, &stats); err != nil {
		t.Fatal(err)
	}
	if stats.HabitType != "timer" || len(stats.Metrics) == 0 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	ts := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/settings", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get settings: %d: %s", resp.StatusCode, body)
	}
	var settings models.Settings
	if err := json.Unmarshal(body, &settings); err != nil {
		t.Fatal(err)
	}

	settings.Timezone = "America/New_York"
	resp, body = doJSON(t, http.MethodPut, ts.URL+"/settings", settings)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("put settings: %d: %s", resp.StatusCode, body)
	}

	settings.Timezone = "Mars/Olympus"
	resp, _ = doJSON(t, http.MethodPut, ts.URL+"/settings", settings)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("invalid timezone: status %d, want 422", resp.StatusCode)
	}
}
