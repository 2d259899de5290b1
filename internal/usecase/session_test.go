package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-trainer/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/entity"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/repository"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/service"
)

const (
	x = entity.PlayerX
	o = entity.PlayerO
	e = entity.Empty
)

// recordingCredit counts Apply calls and forwards to a real assigner.
type recordingCredit struct {
	next    creditAssigner
	calls   int
	path    entity.GamePath
	outcome entity.Outcome
}

func (that *recordingCredit) Apply(path entity.GamePath, outcome entity.Outcome) {
	that.calls++
	that.path = path
	that.outcome = outcome
	that.next.Apply(path, outcome)
}

func newSessionParts() (*repository.MoveTable, *service.MoveSelector, *recordingCredit) {
	table := repository.NewMoveTable(repository.DefaultWeight)
	credit := &recordingCredit{
		next: service.NewCreditAssigner(table, service.DefaultLearningRate, service.DefaultDrawRate),
	}

	return table, service.NewMoveSelector(table), credit
}

func TestGameSession_Play(t *testing.T) {
	t.Run("Fresh table game ends with X on the anti diagonal", func(t *testing.T) {
		// Given: an empty board, a fresh table and X to move
		table, selector, credit := newSessionParts()
		session := NewGameSession(selector, credit, entity.Board{}, x)
		require.Equal(t, StateInit, session.State())

		// When: the game is played
		outcome, err := session.Play()

		// Then: lowest-index play fills 0..6 and X completes the 2-4-6 diagonal
		require.NoError(t, err)
		assert.Equal(t, entity.WinX, outcome)
		assert.Equal(t, StateTerminal, session.State())
		assert.Equal(t, entity.Board{x, o, x, o, x, o, x, e, e}, session.Board())

		// Then: credit was applied exactly once with the full path
		assert.Equal(t, 1, credit.calls)
		assert.Equal(t, entity.WinX, credit.outcome)
		require.Len(t, credit.path, 7)
		assert.Equal(t, entity.PathEntry{Key: "100000000", Mark: x}, credit.path[0])
		assert.Equal(t, entity.PathEntry{Key: "121212100", Mark: x}, credit.path[6])

		// Then: the winning board went up and the loser's last board went down
		winning, ok := table.Get("121212100")
		require.True(t, ok)
		assert.Greater(t, winning, repository.DefaultWeight)

		losing, ok := table.Get("121212000")
		require.True(t, ok)
		assert.Less(t, losing, repository.DefaultWeight)
	})

	t.Run("Winner weights never drop and loser weights never rise", func(t *testing.T) {
		// Given: a table with some history
		table, selector, credit := newSessionParts()
		table.Set("100000000", 0.3)
		table.Set("120000000", 0.7)
		before := map[string]float64{}
		for _, record := range table.Snapshot() {
			before[record.Key] = record.Weight
		}

		// When: a game is played
		session := NewGameSession(selector, credit, entity.Board{}, x)
		outcome, err := session.Play()
		require.NoError(t, err)
		require.True(t, outcome.IsTerminal())

		// Then: each entry moved in the direction of its side's result
		for _, entry := range session.Path() {
			prior, seen := before[entry.Key]
			if !seen {
				prior = repository.DefaultWeight
			}
			after, _ := table.Get(entry.Key)

			switch {
			case outcome == entity.Draw:
			case entry.Mark == outcome.Winner():
				assert.GreaterOrEqual(t, after, prior, entry.Key)
			default:
				assert.LessOrEqual(t, after, prior, entry.Key)
			}
		}
	})

	t.Run("Starts from a given board", func(t *testing.T) {
		// Given: X already in the center and O to move
		_, selector, credit := newSessionParts()
		start := entity.Board{e, e, e, e, x, e, e, e, e}
		session := NewGameSession(selector, credit, start, o)

		// When: the game is played
		outcome, err := session.Play()

		// Then: O made the first recorded ply
		require.NoError(t, err)
		assert.True(t, outcome.IsTerminal())
		assert.Equal(t, o, session.Path()[0].Mark)
	})

	t.Run("Session cannot be replayed", func(t *testing.T) {
		// Given: a finished session
		_, selector, credit := newSessionParts()
		session := NewGameSession(selector, credit, entity.Board{}, x)
		_, err := session.Play()
		require.NoError(t, err)

		// When: it is played again
		_, err = session.Play()

		// Then: ErrSessionFinished is returned and credit is not applied twice
		require.ErrorIs(t, err, apperror.ErrSessionFinished)
		assert.Equal(t, 1, credit.calls)
	})

	t.Run("Terminal start board is rejected", func(t *testing.T) {
		// Given: a board that is already won
		_, selector, credit := newSessionParts()
		session := NewGameSession(selector, credit, entity.Board{x, x, x, o, o}, o)

		// When: the session is played
		_, err := session.Play()

		// Then: ErrInvalidState is returned and nothing is credited
		require.ErrorIs(t, err, apperror.ErrInvalidState)
		assert.Zero(t, credit.calls)
	})

	t.Run("Invalid first mark", func(t *testing.T) {
		_, selector, credit := newSessionParts()

		_, err := NewGameSession(selector, credit, entity.Board{}, e).Play()

		require.ErrorIs(t, err, entity.ErrInvalidMark)
	})
}
