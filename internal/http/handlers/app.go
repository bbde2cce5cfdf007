package handlers

import (
	"encoding/json"
	"net/http"
	"sync"

	"batchedit/internal/batch"
	"batchedit/internal/infra"
)

// App is the HTTP-facing interaction context. It owns the batch session and
// the results of the latest run; the core pipeline itself stays lock-free, so
// the App serializes access for concurrent HTTP callers.
type App struct {
	Logger infra.Logger
	Runner *batch.Runner

	mu      sync.Mutex
	session *batch.Session
	results []batch.Result
	runID   string
}

// NewApp builds the application container around a fresh session.
func NewApp(logger infra.Logger, runner *batch.Runner) *App {
	return &App{
		Logger:  logger,
		Runner:  runner,
		session: batch.NewSession(),
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, kind, message string) {
	a.json(w, code, map[string]string{"error": kind, "message": message})
}
