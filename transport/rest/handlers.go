package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-trainer/internal/entity"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/repository"
)

type progressSource interface {
	Progress() entity.TrainingSummary
}

type runLookup interface {
	GetByRunID(ctx context.Context, runID string) (entity.TrainingSummary, error)
}

type outcomeCounter interface {
	CountByRunID(ctx context.Context, runID string) (map[entity.Outcome]int, error)
}

type Handlers interface {
	PingHandler(w http.ResponseWriter, _ *http.Request)
	ProgressHandler(w http.ResponseWriter, _ *http.Request)
	RunHandler(w http.ResponseWriter, r *http.Request)
	OutcomesHandler(w http.ResponseWriter, r *http.Request)
}

type handlers struct {
	progress progressSource
	runs     runLookup
	outcomes outcomeCounter
}

// NewHandlers builds the HTTP handlers. runs and outcomes may be nil when
// Redis or the SQLite archive are disabled.
func NewHandlers(progress progressSource, runs runLookup, outcomes outcomeCounter) Handlers {
	return &handlers{
		progress: progress,
		runs:     runs,
		outcomes: outcomes,
	}
}

func (that *handlers) PingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// ProgressHandler reports the counters of the running training as JSON.
func (that *handlers) ProgressHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, that.progress.Progress())
}

// RunHandler returns the summary stored for a finished run.
func (that *handlers) RunHandler(w http.ResponseWriter, r *http.Request) {
	if that.runs == nil {
		http.Error(w, "Run stats are disabled", http.StatusServiceUnavailable)
		return
	}

	summary, err := that.runs.GetByRunID(r.Context(), r.PathValue("id"))
	if errors.Is(err, repository.ErrRunNotFound) {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}

	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, summary)
}

// OutcomesHandler counts the archived games of a run by outcome.
func (that *handlers) OutcomesHandler(w http.ResponseWriter, r *http.Request) {
	if that.outcomes == nil {
		http.Error(w, "Game archive is disabled", http.StatusServiceUnavailable)
		return
	}

	counts, err := that.outcomes.CountByRunID(r.Context(), r.PathValue("id"))
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	named := make(map[string]int, len(counts))
	for outcome, count := range counts {
		named[outcome.String()] = count
	}

	writeJSON(w, named)
}

func writeJSON(w http.ResponseWriter, value any) {
	body, err := json.Marshal(value)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err = w.Write(body); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}
