package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-trainer/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/entity"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/repository"
)

const (
	x = entity.PlayerX
	o = entity.PlayerO
	e = entity.Empty
)

func TestMoveSelector_NextMove(t *testing.T) {
	t.Run("Fresh table picks cell 0", func(t *testing.T) {
		// Given: an empty board and an empty table
		table := repository.NewMoveTable(repository.DefaultWeight)
		selector := NewMoveSelector(table)

		// When: X asks for a move
		next, err := selector.NextMove(entity.Board{}, x)

		// Then: all candidates tie and the lowest cell wins
		require.NoError(t, err)
		assert.Equal(t, entity.Board{x}, next)

		// Then: every candidate was materialized with the default weight
		assert.Equal(t, 9, table.Len())
	})

	t.Run("Highest weight wins", func(t *testing.T) {
		// Given: a table preferring the center
		table := repository.NewMoveTable(repository.DefaultWeight)
		table.Set("000010000", 0.8)
		table.Set("000000001", 0.7)

		// When: X asks for a move
		next, err := NewMoveSelector(table).NextMove(entity.Board{}, x)

		// Then: the center is chosen
		require.NoError(t, err)
		assert.Equal(t, "000010000", next.Key())
	})

	t.Run("Ties keep the lowest index", func(t *testing.T) {
		// Given: two equally strong candidates at cells 5 and 8
		board := entity.Board{x, o, x, o, e, e, e, e, e}
		table := repository.NewMoveTable(repository.DefaultWeight)
		table.Set("121210000", 0.2)
		table.Set("121201000", 0.9)
		table.Set("121200001", 0.9)
		table.Set("121200100", 0.2)
		table.Set("121200010", 0.2)
		selector := NewMoveSelector(table)

		// When: X asks for a move repeatedly
		for range 3 {
			next, err := selector.NextMove(board, x)

			// Then: cell 5 is always picked
			require.NoError(t, err)
			assert.Equal(t, x, next[5])
			assert.Equal(t, e, next[8])
		}
	})

	t.Run("Input board is not modified", func(t *testing.T) {
		// Given: a board with one mark
		board := entity.Board{e, e, e, e, x}

		// When: O moves
		_, err := NewMoveSelector(repository.NewMoveTable(repository.DefaultWeight)).NextMove(board, o)

		// Then: the original is unchanged
		require.NoError(t, err)
		assert.Equal(t, entity.Board{e, e, e, e, x}, board)
	})

	t.Run("Full board is a protocol violation", func(t *testing.T) {
		// Given: a full board
		board := entity.Board{x, o, x, o, x, o, o, x, o}

		// When: a move is requested
		_, err := NewMoveSelector(repository.NewMoveTable(repository.DefaultWeight)).NextMove(board, x)

		// Then: ErrInvalidState is returned
		require.ErrorIs(t, err, apperror.ErrInvalidState)
	})

	t.Run("Invalid mark", func(t *testing.T) {
		// When: the empty mark asks for a move
		_, err := NewMoveSelector(repository.NewMoveTable(repository.DefaultWeight)).NextMove(entity.Board{}, e)

		// Then: ErrInvalidMark is returned
		require.ErrorIs(t, err, entity.ErrInvalidMark)
	})
}
