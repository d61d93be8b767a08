package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/learnpath/datasim/internal/simulation"
	"github.com/learnpath/datasim/internal/utils"
)

// RunRequest is the body of POST /api/v1/runs. Dates are whole days; the
// window is [start, end).
type RunRequest struct {
	Start         string `json:"start" binding:"required,datetime=2006-01-02"`
	End           string `json:"end" binding:"required,datetime=2006-01-02"`
	UserCount     int    `json:"user_count" binding:"required,min=1,max=10000"`
	Seed          int64  `json:"seed"`
	ClearExisting bool   `json:"clear_existing"`
}

// RunManager serializes generation runs: only one run may execute at a
// time, and the latest summary is kept for read-back.
type RunManager struct {
	mu      sync.Mutex
	running bool
	last    *simulation.RunSummary

	generator *simulation.Generator
}

func NewRunManager(generator *simulation.Generator) *RunManager {
	return &RunManager{generator: generator}
}

func (m *RunManager) tryStart() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return false
	}
	m.running = true
	return true
}

func (m *RunManager) finish(summary *simulation.RunSummary) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.running = false
	if summary != nil {
		m.last = summary
	}
}

// Last returns the most recent completed run summary, if any.
func (m *RunManager) Last() *simulation.RunSummary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

type RunHandler struct {
	manager *RunManager
	logger  utils.Logger
}

func NewRunHandler(manager *RunManager, logger utils.Logger) *RunHandler {
	return &RunHandler{manager: manager, logger: logger}
}

// TriggerRun starts a generation run and blocks until it completes.
// Concurrent triggers are rejected with 409.
func (h *RunHandler) TriggerRun(c *gin.Context) {
	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid run request",
			Details: err.Error(),
		})
		return
	}

	start, err := time.Parse(time.DateOnly, req.Start)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid run request",
			Details: err.Error(),
		})
		return
	}
	end, err := time.Parse(time.DateOnly, req.End)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid run request",
			Details: err.Error(),
		})
		return
	}
	if !end.After(start) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid run request",
			Details: "end must be after start",
		})
		return
	}

	if !h.manager.tryStart() {
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "A generation run is already in progress",
			Code:    "RUN_IN_PROGRESS",
		})
		return
	}

	summary, err := h.manager.generator.Run(c.Request.Context(), simulation.Options{
		Start:         start,
		End:           end,
		UserCount:     req.UserCount,
		Seed:          req.Seed,
		ClearExisting: req.ClearExisting,
	})
	h.manager.finish(summary)
	if err != nil {
		h.logger.LogError(err, "generation run failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Generation run failed",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Generation run completed",
		Data:    summary,
	})
}

// LastRun returns the summary of the most recent completed run.
func (h *RunHandler) LastRun(c *gin.Context) {
	summary := h.manager.Last()
	if summary == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "No completed runs",
		})
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Last completed run",
		Data:    summary,
	})
}
