package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestLeaderboardEndpoint(t *testing.T) {
	api := setupTestAPI(t)

	if w := performJSON(t, api.CreateHabit, http.MethodPost, "/api/habits", map[string]any{"name": "Run"}, nil); w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", w.Code)
	}

	w := performJSON(t, api.Leaderboard, http.MethodGet, "/api/analytics/leaderboard", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		Rows []struct {
			Habit string `json:"habit"`
			Badge string `json:"badge"`
		} `json:"rows"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Rows) != 1 || resp.Rows[0].Habit != "Run" {
		t.Fatalf("unexpected rows: %+v", resp.Rows)
	}
}

func TestConsistencyCalendarWindowParam(t *testing.T) {
	api := setupTestAPI(t)

	w := performJSON(t, api.ConsistencyCalendar, http.MethodGet, "/api/analytics/calendar/Run?window=7", nil,
		gin.Params{gin.Param{Key: "habit", Value: "Run"}})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		Habit  string `json:"habit"`
		Window int    `json:"window"`
		Points []struct {
			Date  string `json:"date"`
			Count int    `json:"count"`
		} `json:"points"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Window != 7 {
		t.Fatalf("expected window 7, got %d", resp.Window)
	}
	if len(resp.Points) != 7 {
		t.Fatalf("expected 7 calendar points, got %d", len(resp.Points))
	}
}

func TestConsistencyCalendarDefaultWindow(t *testing.T) {
	api := setupTestAPI(t)

	// window 参数缺省或非法时回退到配置值
	w := performJSON(t, api.ConsistencyCalendar, http.MethodGet, "/api/analytics/calendar/Run?window=bogus", nil,
		gin.Params{gin.Param{Key: "habit", Value: "Run"}})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		Window int `json:"window"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Window != 365 {
		t.Fatalf("expected default window 365, got %d", resp.Window)
	}
}

func TestMoodVocabularySorted(t *testing.T) {
	api := setupTestAPI(t)

	w := performJSON(t, api.MoodVocabulary, http.MethodGet, "/api/analytics/mood-vocabulary", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		Moods []struct {
			Code  int    `json:"code"`
			Label string `json:"label"`
		} `json:"moods"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(resp.Moods) != 10 {
		t.Fatalf("expected 10 mood codes, got %d", len(resp.Moods))
	}
	for i := 1; i < len(resp.Moods); i++ {
		if resp.Moods[i].Code <= resp.Moods[i-1].Code {
			t.Fatalf("expected codes ascending, got %+v", resp.Moods)
		}
	}
}

func TestMoodSeriesEndpoint(t *testing.T) {
	api := setupTestAPI(t)

	if w := performJSON(t, api.SetDayMood, http.MethodPut, "/api/days/2024-01-01/mood",
		map[string]any{"mood": 5}, dateParams("2024-01-01")); w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	w := performJSON(t, api.MoodSeries, http.MethodGet, "/api/analytics/moods", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		Points []struct {
			Date      string `json:"date"`
			Mood      int    `json:"mood"`
			MoodLabel string `json:"mood_label"`
		} `json:"points"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(resp.Points) != 1 || resp.Points[0].Mood != 5 || resp.Points[0].MoodLabel == "" {
		t.Fatalf("unexpected points: %+v", resp.Points)
	}
}
