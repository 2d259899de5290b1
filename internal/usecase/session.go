package usecase

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-trainer/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/entity"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/tictactoe"
)

type SessionState uint8

const (
	StateInit SessionState = iota
	StateInProgress
	StateTerminal
)

type moveSelector interface {
	NextMove(board entity.Board, mark entity.Mark) (entity.Board, error)
}

type creditAssigner interface {
	Apply(path entity.GamePath, outcome entity.Outcome)
}

// GameSession plays a single self-play game. It is not reusable: build a new
// one for every game.
type GameSession struct {
	selector moveSelector
	credit   creditAssigner

	state   SessionState
	board   entity.Board
	mark    entity.Mark
	path    entity.GamePath
	outcome entity.Outcome
}

func NewGameSession(selector moveSelector, credit creditAssigner, start entity.Board, first entity.Mark) *GameSession {
	return &GameSession{
		selector: selector,
		credit:   credit,
		state:    StateInit,
		board:    start,
		mark:     first,
		path:     make(entity.GamePath, 0, entity.BoardSize),
	}
}

// Play alternates moves until the board is decided, applies credit once and
// returns the outcome.
func (that *GameSession) Play() (entity.Outcome, error) {
	if that.state != StateInit {
		return that.outcome, apperror.ErrSessionFinished
	}

	if !that.mark.IsPlayer() {
		return entity.Ongoing, fmt.Errorf("%w: %d", entity.ErrInvalidMark, that.mark)
	}

	if outcome := tictactoe.Decide(that.board); outcome.IsTerminal() {
		return outcome, fmt.Errorf("%w: start board is already %s", apperror.ErrInvalidState, outcome)
	}

	that.state = StateInProgress

	for {
		next, err := that.selector.NextMove(that.board, that.mark)
		if err != nil {
			return entity.Ongoing, fmt.Errorf("failed to select move for %s: %w", that.mark, err)
		}

		that.board = next
		that.path = append(that.path, entity.PathEntry{Key: next.Key(), Mark: that.mark})

		if outcome := tictactoe.Decide(next); outcome.IsTerminal() {
			that.finish(outcome)
			return outcome, nil
		}

		that.mark = that.mark.Opponent()
	}
}

func (that *GameSession) finish(outcome entity.Outcome) {
	that.state = StateTerminal
	that.outcome = outcome
	that.credit.Apply(that.path, outcome)
}

func (that *GameSession) State() SessionState {
	return that.state
}

func (that *GameSession) Board() entity.Board {
	return that.board
}

// Path returns a copy of the plies recorded so far.
func (that *GameSession) Path() entity.GamePath {
	path := make(entity.GamePath, len(that.path))
	copy(path, that.path)

	return path
}
