package tictactoe

import "github.com/rocketscienceinc/tictactoe-trainer/internal/entity"

// Decide classifies the board: a win for the side holding any full line,
// a draw once no empty cell remains, ongoing otherwise.
func Decide(board entity.Board) entity.Outcome {
	for _, combo := range entity.WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != entity.Empty && a == b && b == c {
			return entity.WinFor(a)
		}
	}

	// the game will continue until all the squares are full
	if !board.IsFull() {
		return entity.Ongoing
	}

	return entity.Draw
}
