package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-trainer/internal/entity"
)

type trainingEngine interface {
	WaitReady(ctx context.Context) error
	PlayGame(start entity.Board, first entity.Mark) (entity.Outcome, entity.GamePath, error)
	Flush() error
	TableSize() int
}

type statsRepo interface {
	Save(ctx context.Context, summary entity.TrainingSummary) error
}

type archiveRepo interface {
	Append(ctx context.Context, record entity.GameRecord) error
}

type TrainerOptions struct {
	RunID          string
	Games          int
	UpdateLimit    int
	AutoUpdate     bool
	FirstMark      entity.Mark
	RotateOpenings bool
}

// Trainer plays games back to back on one engine, counts the results and
// flushes the table every UpdateLimit games.
type Trainer struct {
	logger  *slog.Logger
	engine  trainingEngine
	stats   statsRepo
	archive archiveRepo
	opts    TrainerOptions

	mu        sync.RWMutex
	summary   entity.TrainingSummary
	unflushed int
}

// NewTrainer builds a trainer. stats and archive may be nil.
func NewTrainer(logger *slog.Logger, engine trainingEngine, stats statsRepo, archive archiveRepo, opts TrainerOptions) *Trainer {
	return &Trainer{
		logger:  logger.With("component", "trainer", "run_id", opts.RunID),
		engine:  engine,
		stats:   stats,
		archive: archive,
		opts:    opts,
		summary: entity.TrainingSummary{RunID: opts.RunID},
	}
}

// Run blocks until the table is loaded, then plays the configured number of
// games. Pending games are flushed before it returns, also on cancellation.
func (that *Trainer) Run(ctx context.Context) (entity.TrainingSummary, error) {
	if err := that.engine.WaitReady(ctx); err != nil {
		return that.Progress(), fmt.Errorf("engine not ready: %w", err)
	}

	that.logger.Info("Training started", "games", that.opts.Games, "update_limit", that.opts.UpdateLimit, "auto_update", that.opts.AutoUpdate)

	var runErr error
	for number := 1; number <= that.opts.Games; number++ {
		if err := ctx.Err(); err != nil {
			runErr = fmt.Errorf("training interrupted after %d games: %w", number-1, err)
			break
		}

		if err := that.playOne(ctx, number); err != nil {
			runErr = err
			break
		}
	}

	if that.opts.AutoUpdate && that.pending() > 0 {
		that.flush()
	}

	summary := that.Progress()
	that.saveStats(summary)

	that.logger.Info("Training finished",
		"games", summary.Games, "wins_x", summary.WinsX, "wins_o", summary.WinsO, "draws", summary.Draws,
		"flushes", summary.Flushes, "table_size", summary.TableSize)

	return summary, runErr
}

// Progress returns a copy of the current counters. Safe to call from any goroutine.
func (that *Trainer) Progress() entity.TrainingSummary {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return that.summary
}

func (that *Trainer) playOne(ctx context.Context, number int) error {
	start, first, err := that.opening(number)
	if err != nil {
		return err
	}

	outcome, path, err := that.engine.PlayGame(start, first)
	if err != nil {
		return fmt.Errorf("game %d: %w", number, err)
	}

	that.mu.Lock()
	that.summary.Count(outcome)
	that.summary.TableSize = that.engine.TableSize()
	that.unflushed++
	that.mu.Unlock()

	that.logger.Debug("Game finished", "number", number, "outcome", outcome.String(), "plies", len(path),
		"board", finalBoard(start, path).String())

	if that.archive != nil {
		record := entity.GameRecord{
			RunID:     that.opts.RunID,
			Number:    number,
			Outcome:   outcome,
			Path:      path,
			CreatedAt: time.Now(),
		}
		if err = that.archive.Append(ctx, record); err != nil {
			that.logger.Warn("Could not archive game", "number", number, "error", err)
		}
	}

	if that.opts.AutoUpdate && that.pending() >= that.opts.UpdateLimit {
		that.flush()
	}

	return nil
}

// opening returns the start board and the side to move for game number.
// With rotation the first side's opening mark cycles through the nine cells
// and the other side replies.
func (that *Trainer) opening(number int) (entity.Board, entity.Mark, error) {
	if !that.opts.RotateOpenings {
		return entity.Board{}, that.opts.FirstMark, nil
	}

	start, err := entity.Board{}.Place((number-1)%entity.BoardSize, that.opts.FirstMark)
	if err != nil {
		return start, entity.Empty, fmt.Errorf("failed to place opening: %w", err)
	}

	return start, that.opts.FirstMark.Opponent(), nil
}

// finalBoard is the board after the last recorded ply, or start for an empty path.
func finalBoard(start entity.Board, path entity.GamePath) entity.Board {
	if len(path) == 0 {
		return start
	}

	board, err := entity.ParseKey(path[len(path)-1].Key)
	if err != nil {
		return start
	}

	return board
}

func (that *Trainer) pending() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return that.unflushed
}

// flush resets the pending counter only when the write went through, so a
// failed flush is retried after the next game.
func (that *Trainer) flush() {
	err := that.engine.Flush()

	that.mu.Lock()
	defer that.mu.Unlock()

	if err != nil {
		that.summary.FailedFlushes++
		that.logger.Error("Flush failed, keeping pending games", "pending", that.unflushed, "error", err)
		return
	}

	that.summary.Flushes++
	that.unflushed = 0
}

func (that *Trainer) saveStats(summary entity.TrainingSummary) {
	if that.stats == nil {
		return
	}

	// detached from the run context, which may already be cancelled
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := that.stats.Save(ctx, summary); err != nil {
		that.logger.Warn("Could not save training summary", "error", err)
	}
}
