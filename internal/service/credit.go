package service

import "github.com/rocketscienceinc/tictactoe-trainer/internal/entity"

const (
	DefaultLearningRate = 0.1
	DefaultDrawRate     = 0.05

	neutralWeight = 0.5
)

type weightStore interface {
	GetOrInit(key string) float64
	Set(key string, weight float64)
}

// CreditAssigner pushes the weights of a finished game's boards toward its result.
type CreditAssigner struct {
	table        weightStore
	learningRate float64
	drawRate     float64
}

func NewCreditAssigner(table weightStore, learningRate, drawRate float64) *CreditAssigner {
	return &CreditAssigner{
		table:        table,
		learningRate: learningRate,
		drawRate:     drawRate,
	}
}

// Apply updates every path entry in order. On a win the winner's boards move
// toward 1 and the loser's toward 0; on a draw all of them move toward 0.5.
// Repeated keys are updated once per occurrence.
func (that *CreditAssigner) Apply(path entity.GamePath, outcome entity.Outcome) {
	if !outcome.IsTerminal() {
		return
	}

	winner := outcome.Winner()

	for _, entry := range path {
		weight := that.table.GetOrInit(entry.Key)

		switch {
		case outcome == entity.Draw:
			weight += that.drawRate * (neutralWeight - weight)
		case entry.Mark == winner:
			weight += that.learningRate * (1 - weight)
		default:
			weight -= that.learningRate * weight
		}

		that.table.Set(entry.Key, weight)
	}
}
