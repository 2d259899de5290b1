package service

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/rocketscienceinc/tictactoe-trainer/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/entity"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/repository/storage"
)

type tableSource interface {
	Load(fn func(entity.WeightRecord)) (storage.LoadReport, error)
}

type tableWriter interface {
	Set(key string, weight float64)
}

// LoadResult describes how the background load ended.
type LoadResult struct {
	Loaded  int
	Skipped int
	Err     error
}

// Loader fills the move table from its source in a goroutine of its own and
// then publishes readiness exactly once. Until IsReady reports true the loader
// is the only writer of the table; nobody else may touch it.
type Loader struct {
	logger *slog.Logger
	source tableSource
	table  tableWriter

	once   sync.Once
	ready  atomic.Bool
	done   chan struct{}
	result LoadResult
}

func NewLoader(logger *slog.Logger, source tableSource, table tableWriter) *Loader {
	return &Loader{
		logger: logger.With("component", "loader"),
		source: source,
		table:  table,
		done:   make(chan struct{}),
	}
}

// Start launches the load. Calls after the first one do nothing.
func (that *Loader) Start() {
	that.once.Do(func() {
		go that.run()
	})
}

func (that *Loader) IsReady() bool {
	return that.ready.Load()
}

// Done is closed together with the ready flag.
func (that *Loader) Done() <-chan struct{} {
	return that.done
}

// Result is only meaningful once IsReady returns true.
func (that *Loader) Result() LoadResult {
	if !that.IsReady() {
		return LoadResult{}
	}

	return that.result
}

func (that *Loader) run() {
	report, err := that.source.Load(func(record entity.WeightRecord) {
		that.table.Set(record.Key, record.Weight)
	})

	that.result = LoadResult{
		Loaded:  report.Loaded,
		Skipped: report.Skipped,
		Err:     err,
	}

	switch {
	case errors.Is(err, apperror.ErrFileAccess) && report.Loaded == 0:
		that.logger.Warn("Move table source unavailable, starting from a blank table", "error", err)
	case err != nil:
		that.logger.Warn("Move table loaded with skipped records",
			"loaded", report.Loaded, "skipped", report.Skipped, "error", err)
	default:
		that.logger.Info("Move table loaded", "loaded", report.Loaded)
	}

	// the store publishes every table write above to readers of the flag
	that.ready.Store(true)
	close(that.done)
}
