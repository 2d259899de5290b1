package service

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tictactoe-trainer/internal/entity"
)

type tableSink interface {
	Store(records []entity.WeightRecord) error
}

type tableSnapshotter interface {
	Snapshot() []entity.WeightRecord
}

// Persister writes the whole move table to its sink. It runs on the caller's
// goroutine, so training waits for the write to finish.
type Persister struct {
	logger *slog.Logger
	sink   tableSink
}

func NewPersister(logger *slog.Logger, sink tableSink) *Persister {
	return &Persister{
		logger: logger.With("component", "persister"),
		sink:   sink,
	}
}

func (that *Persister) Flush(table tableSnapshotter) error {
	started := time.Now()
	records := table.Snapshot()

	if err := that.sink.Store(records); err != nil {
		that.logger.Error("Failed to flush move table", "records", len(records), "error", err)
		return fmt.Errorf("failed to flush move table: %w", err)
	}

	that.logger.Debug("Move table flushed", "records", len(records), "took", time.Since(started))

	return nil
}
