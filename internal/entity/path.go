package entity

import "strings"

// PathEntry is one ply of a game: the key of the board produced by the move
// and the side that made it.
type PathEntry struct {
	Key  string `json:"key"`
	Mark Mark   `json:"mark"`
}

// GamePath is the ordered list of plies recorded during a single game.
type GamePath []PathEntry

// String joins the entries as "key:mark" pairs separated by spaces.
func (that GamePath) String() string {
	parts := make([]string, 0, len(that))
	for _, entry := range that {
		parts = append(parts, entry.Key+":"+entry.Mark.String())
	}

	return strings.Join(parts, " ")
}

// WeightRecord is one persisted move table entry.
type WeightRecord struct {
	Key    string
	Weight float64
}
