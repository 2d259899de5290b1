package entity

import (
	"errors"
	"fmt"
)

const (
	BoardSize = 9

	keyEmpty   = '0'
	keyPlayerX = '1'
	keyPlayerO = '2'
)

type Mark uint8

const (
	Empty Mark = iota
	PlayerX
	PlayerO
)

var (
	ErrInvalidCell  = errors.New("invalid cell index")
	ErrCellOccupied = errors.New("cell is already occupied")
	ErrInvalidMark  = errors.New("invalid player mark")
	ErrInvalidKey   = errors.New("invalid board key")

	WinCombos = [][3]int{
		{0, 1, 2},
		{3, 4, 5},
		{6, 7, 8},
		{0, 3, 6},
		{1, 4, 7},
		{2, 5, 8},
		{0, 4, 8},
		{2, 4, 6},
	}
)

// IsPlayer reports whether the mark belongs to one of the two sides.
func (that Mark) IsPlayer() bool {
	return that == PlayerX || that == PlayerO
}

// Opponent returns the other side. Empty stays Empty.
func (that Mark) Opponent() Mark {
	switch that {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return Empty
	}
}

func (that Mark) String() string {
	switch that {
	case PlayerX:
		return "X"
	case PlayerO:
		return "O"
	default:
		return "-"
	}
}

// Board is a snapshot of the 3x3 grid, cells are indexed row by row.
// It is a value type: Place returns a new board and never touches the receiver.
type Board [BoardSize]Mark

// Key returns the canonical table key: one '0'/'1'/'2' character per cell.
func (that Board) Key() string {
	key := make([]byte, BoardSize)
	for i, cell := range that {
		switch cell {
		case PlayerX:
			key[i] = keyPlayerX
		case PlayerO:
			key[i] = keyPlayerO
		default:
			key[i] = keyEmpty
		}
	}

	return string(key)
}

// ParseKey is the inverse of Board.Key.
func ParseKey(key string) (Board, error) {
	var board Board

	if len(key) != BoardSize {
		return board, fmt.Errorf("%w: %q has %d cells", ErrInvalidKey, key, len(key))
	}

	for i := range BoardSize {
		switch key[i] {
		case keyEmpty:
			board[i] = Empty
		case keyPlayerX:
			board[i] = PlayerX
		case keyPlayerO:
			board[i] = PlayerO
		default:
			return Board{}, fmt.Errorf("%w: %q at cell %d", ErrInvalidKey, key[i], i)
		}
	}

	return board, nil
}

// Place returns a copy of the board with mark put into cell.
func (that Board) Place(cell int, mark Mark) (Board, error) {
	if cell < 0 || cell >= BoardSize {
		return that, fmt.Errorf("%w: cell %d", ErrInvalidCell, cell)
	}

	if !mark.IsPlayer() {
		return that, fmt.Errorf("%w: %d", ErrInvalidMark, mark)
	}

	if that[cell] != Empty {
		return that, ErrCellOccupied
	}

	next := that
	next[cell] = mark

	return next, nil
}

// EmptyCells lists the free cell indices in ascending order.
func (that Board) EmptyCells() []int {
	cells := make([]int, 0, BoardSize)
	for i, cell := range that {
		if cell == Empty {
			cells = append(cells, i)
		}
	}

	return cells
}

func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == Empty {
			return false
		}
	}

	return true
}

// String renders the board as three rows, e.g. "X O -\n- X -\n- - O".
func (that Board) String() string {
	out := make([]byte, 0, BoardSize*2)
	for i, cell := range that {
		out = append(out, cell.String()...)
		switch {
		case i == BoardSize-1:
		case i%3 == 2:
			out = append(out, '\n')
		default:
			out = append(out, ' ')
		}
	}

	return string(out)
}
