package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/learnpath/datasim/internal/catalog"
	"github.com/learnpath/datasim/internal/events"
	"github.com/learnpath/datasim/internal/models"
	"github.com/learnpath/datasim/internal/simulation"
	"github.com/learnpath/datasim/internal/sink"
	"github.com/learnpath/datasim/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cat := catalog.New(
		[]models.Course{{ID: "c1", Title: "Course 1"}},
		[]models.CourseModule{{ID: "m1", CourseID: "c1", OrderIndex: 1}},
		[]models.Lesson{{ID: "l1", ModuleID: "m1", Title: "Lesson 1", EstimatedMinutes: 10, OrderIndex: 1}},
		[]models.Quiz{{ID: "q1", ModuleID: "m1", Title: "Quiz 1"}},
		[]models.Question{{ID: "qu1", QuizID: "q1", CorrectAnswer: "Option A", Points: 2}},
	)

	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	logger := utils.NewSlogLogger(discard)
	generator := simulation.NewGenerator(cat, sink.NewMemorySink(), events.NewMockEventPublisher(discard), logger)
	return SetupRouter(generator, logger)
}

func TestTriggerRunAndReadBack(t *testing.T) {
	router := testRouter(t)

	body := `{"start": "2025-11-01", "end": "2025-11-15", "user_count": 3, "seed": 42}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/runs", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data simulation.RunSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(42), resp.Data.Seed)
	assert.Equal(t, 3, resp.Data.UserCount)
	assert.NotEmpty(t, resp.Data.RunID)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/runs/last", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var last struct {
		Data simulation.RunSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &last))
	assert.Equal(t, resp.Data.RunID, last.Data.RunID)
}

func TestTriggerRunValidation(t *testing.T) {
	router := testRouter(t)

	cases := []string{
		`{}`,
		`{"start": "2025-11-01", "end": "2025-11-15"}`,
		`{"start": "not-a-date", "end": "2025-11-15", "user_count": 3}`,
		`{"start": "2025-11-15", "end": "2025-11-01", "user_count": 3}`,
		`{"start": "2025-11-01", "end": "2025-11-15", "user_count": 0}`,
	}
	for _, body := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/runs", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestLastRunBeforeAnyRun(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/runs/last", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthCheck(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "datasim")
}
