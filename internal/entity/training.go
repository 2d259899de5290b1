package entity

import "time"

// TrainingSummary holds the counters of one training run.
type TrainingSummary struct {
	RunID         string `json:"run_id"`
	Games         int    `json:"games"`
	WinsX         int    `json:"wins_x"`
	WinsO         int    `json:"wins_o"`
	Draws         int    `json:"draws"`
	Flushes       int    `json:"flushes"`
	FailedFlushes int    `json:"failed_flushes"`
	TableSize     int    `json:"table_size"`
}

// Count adds a finished game to the per-side counters.
func (that *TrainingSummary) Count(outcome Outcome) {
	switch outcome {
	case WinX:
		that.WinsX++
	case WinO:
		that.WinsO++
	case Draw:
		that.Draws++
	default:
		return
	}

	that.Games++
}

// GameRecord is an archived finished game.
type GameRecord struct {
	RunID     string
	Number    int
	Outcome   Outcome
	Path      GamePath
	CreatedAt time.Time
}
