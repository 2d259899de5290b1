package entity

// Outcome classifies a board. The numeric values are the codes handed to
// external callers: 0 while the game goes on, 1 or 2 for the winning side,
// Draw for a full board without a line.
type Outcome uint8

const (
	Ongoing Outcome = iota
	WinX
	WinO
	Draw
)

// WinFor returns the winning outcome for the given side.
func WinFor(mark Mark) Outcome {
	switch mark {
	case PlayerX:
		return WinX
	case PlayerO:
		return WinO
	default:
		return Ongoing
	}
}

func (that Outcome) Code() int {
	return int(that)
}

func (that Outcome) IsTerminal() bool {
	return that != Ongoing
}

// Winner returns the winning side, or Empty for a draw or an ongoing game.
func (that Outcome) Winner() Mark {
	switch that {
	case WinX:
		return PlayerX
	case WinO:
		return PlayerO
	default:
		return Empty
	}
}

func (that Outcome) String() string {
	switch that {
	case Ongoing:
		return "ongoing"
	case WinX:
		return "win-x"
	case WinO:
		return "win-o"
	default:
		return "draw"
	}
}
