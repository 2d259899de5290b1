package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-trainer/internal/entity"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/repository"
)

var errArchiveDown = errors.New("archive down")

type staticProgress struct {
	summary entity.TrainingSummary
}

func (that staticProgress) Progress() entity.TrainingSummary {
	return that.summary
}

type storedRuns map[string]entity.TrainingSummary

func (that storedRuns) GetByRunID(_ context.Context, runID string) (entity.TrainingSummary, error) {
	summary, ok := that[runID]
	if !ok {
		return entity.TrainingSummary{}, repository.ErrRunNotFound
	}

	return summary, nil
}

type staticCounts struct {
	counts map[entity.Outcome]int
	err    error
}

func (that staticCounts) CountByRunID(context.Context, string) (map[entity.Outcome]int, error) {
	return that.counts, that.err
}

func get(router http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	return rec
}

func TestHandlers(t *testing.T) {
	summary := entity.TrainingSummary{RunID: "r", Games: 5, WinsX: 3, Draws: 2, Flushes: 1, TableSize: 40}
	router := NewRouter(NewHandlers(staticProgress{summary: summary}, nil, nil))

	t.Run("Ping", func(t *testing.T) {
		// When: /ping is requested
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

		// Then: pong is returned
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "pong", rec.Body.String())
	})

	t.Run("Progress", func(t *testing.T) {
		// When: /progress is requested
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/progress", nil))

		// Then: the summary is returned as JSON
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var got entity.TrainingSummary
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, summary, got)
	})

	t.Run("Wrong method", func(t *testing.T) {
		// When: /progress is posted to
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/progress", nil))

		// Then: the route refuses it
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestHandlers_Runs(t *testing.T) {
	stored := entity.TrainingSummary{RunID: "old", Games: 4, WinsO: 1, Draws: 3}
	counts := map[entity.Outcome]int{entity.WinX: 2, entity.Draw: 1}
	router := NewRouter(NewHandlers(staticProgress{}, storedRuns{"old": stored}, staticCounts{counts: counts}))

	t.Run("Stored run", func(t *testing.T) {
		// When: a known run is requested
		rec := get(router, "/runs/old")

		// Then: its summary is returned
		require.Equal(t, http.StatusOK, rec.Code)

		var got entity.TrainingSummary
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, stored, got)
	})

	t.Run("Unknown run", func(t *testing.T) {
		rec := get(router, "/runs/missing")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Outcome counts", func(t *testing.T) {
		// When: the archived outcomes of a run are requested
		rec := get(router, "/runs/old/outcomes")

		// Then: counts are keyed by outcome name
		require.Equal(t, http.StatusOK, rec.Code)

		var got map[string]int
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, map[string]int{"win-x": 2, "draw": 1}, got)
	})

	t.Run("Archive failure", func(t *testing.T) {
		failing := NewRouter(NewHandlers(staticProgress{}, nil, staticCounts{err: errArchiveDown}))

		rec := get(failing, "/runs/old/outcomes")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("Disabled backends", func(t *testing.T) {
		// Given: neither Redis nor the archive is configured
		bare := NewRouter(NewHandlers(staticProgress{}, nil, nil))

		// Then: both lookups report the service as unavailable
		assert.Equal(t, http.StatusServiceUnavailable, get(bare, "/runs/old").Code)
		assert.Equal(t, http.StatusServiceUnavailable, get(bare, "/runs/old/outcomes").Code)
	})
}
