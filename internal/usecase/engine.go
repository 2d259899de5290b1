package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tictactoe-trainer/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/entity"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/repository"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/service"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/tictactoe"
)

const DefaultPollInterval = 10 * time.Millisecond

type EngineOptions struct {
	SourcePath    string
	DefaultWeight float64
	LearningRate  float64
	DrawRate      float64
	PollInterval  time.Duration
}

// Engine owns the move table and everything that reads or writes it.
//
// It does no locking. Callers must wait for IsReady before calling NextMove,
// PlayGame or Flush, and must not call them from more than one goroutine.
type Engine struct {
	logger *slog.Logger

	table     *repository.MoveTable
	loader    *service.Loader
	persister *service.Persister
	selector  *service.MoveSelector
	credit    *service.CreditAssigner

	pollInterval time.Duration
}

// NewEngine builds the engine and starts loading the table in the background.
func NewEngine(logger *slog.Logger, opts EngineOptions) *Engine {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}

	if opts.LearningRate <= 0 {
		opts.LearningRate = service.DefaultLearningRate
	}

	if opts.DrawRate <= 0 {
		opts.DrawRate = service.DefaultDrawRate
	}

	table := repository.NewMoveTable(opts.DefaultWeight)
	tableFile := storage.NewTableFile(opts.SourcePath)

	engine := &Engine{
		logger:       logger.With("component", "engine"),
		table:        table,
		loader:       service.NewLoader(logger, tableFile, table),
		persister:    service.NewPersister(logger, tableFile),
		selector:     service.NewMoveSelector(table),
		credit:       service.NewCreditAssigner(table, opts.LearningRate, opts.DrawRate),
		pollInterval: opts.PollInterval,
	}

	engine.loader.Start()

	return engine
}

func (that *Engine) IsReady() bool {
	return that.loader.IsReady()
}

// WaitReady polls IsReady until it turns true. Cancelling ctx stops the wait,
// not the load.
func (that *Engine) WaitReady(ctx context.Context) error {
	ticker := time.NewTicker(that.pollInterval)
	defer ticker.Stop()

	for !that.IsReady() {
		select {
		case <-ctx.Done():
			return fmt.Errorf("stopped waiting for move table: %w", ctx.Err())
		case <-ticker.C:
		}
	}

	result := that.loader.Result()
	that.logger.Info("Engine is ready", "loaded", result.Loaded, "skipped", result.Skipped)

	return nil
}

func (that *Engine) LoadResult() service.LoadResult {
	return that.loader.Result()
}

// NextMove returns the board after the engine's move for mark.
func (that *Engine) NextMove(board entity.Board, mark entity.Mark) (entity.Board, error) {
	if !that.IsReady() {
		return board, apperror.ErrNotReady
	}

	next, err := that.selector.NextMove(board, mark)
	if err != nil {
		return board, fmt.Errorf("failed to select next move: %w", err)
	}

	return next, nil
}

// Decide returns the outcome code of the board: 0 ongoing, 1 X won, 2 O won, 3 draw.
func (that *Engine) Decide(board entity.Board) int {
	return tictactoe.Decide(board).Code()
}

// PlayGame runs one self-play game from start with first to move and returns
// its outcome and recorded path.
func (that *Engine) PlayGame(start entity.Board, first entity.Mark) (entity.Outcome, entity.GamePath, error) {
	if !that.IsReady() {
		return entity.Ongoing, nil, apperror.ErrNotReady
	}

	session := NewGameSession(that.selector, that.credit, start, first)

	outcome, err := session.Play()
	if err != nil {
		return outcome, session.Path(), fmt.Errorf("failed to play game: %w", err)
	}

	return outcome, session.Path(), nil
}

// Flush writes the full table to the source path.
func (that *Engine) Flush() error {
	if !that.IsReady() {
		return apperror.ErrNotReady
	}

	if err := that.persister.Flush(that.table); err != nil {
		return fmt.Errorf("engine flush: %w", err)
	}

	return nil
}

func (that *Engine) TableSize() int {
	return that.table.Len()
}
