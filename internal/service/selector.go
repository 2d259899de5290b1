package service

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-trainer/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/entity"
)

type weightReader interface {
	GetOrInit(key string) float64
}

// MoveSelector picks the successor board with the highest table weight.
type MoveSelector struct {
	table weightReader
}

func NewMoveSelector(table weightReader) *MoveSelector {
	return &MoveSelector{
		table: table,
	}
}

// NextMove tries mark in every empty cell, lowest index first, and returns the
// board whose key carries the greatest weight. Ties go to the lowest cell.
// Unknown candidate keys are added to the table with the default weight.
func (that *MoveSelector) NextMove(board entity.Board, mark entity.Mark) (entity.Board, error) {
	if !mark.IsPlayer() {
		return board, fmt.Errorf("%w: %d", entity.ErrInvalidMark, mark)
	}

	cells := board.EmptyCells()
	if len(cells) == 0 {
		return board, apperror.ErrInvalidState
	}

	var (
		best       entity.Board
		bestWeight = -1.0
	)

	for _, cell := range cells {
		candidate, err := board.Place(cell, mark)
		if err != nil {
			return board, fmt.Errorf("failed to place candidate: %w", err)
		}

		if weight := that.table.GetOrInit(candidate.Key()); weight > bestWeight {
			best, bestWeight = candidate, weight
		}
	}

	return best, nil
}
