package local

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"termdots/engine"
	"termdots/field"
	"termdots/sgf"
	"termdots/types"
)

func newRules(t *testing.T, width, height int, opts ...field.RuleOption) field.Rules {
	t.Helper()
	r, err := field.NewRules(width, height, opts...)
	require.NoError(t, err)
	return r
}

func newEngine(t *testing.T, cfg engine.GameConfig) *LocalEngine {
	t.Helper()
	if cfg.BotSeed == 0 {
		cfg.BotSeed = 1
	}
	e := NewLocalEngine(cfg)
	t.Cleanup(e.Close)
	return e
}

func hotSeat(t *testing.T, width, height int, opts ...field.RuleOption) *LocalEngine {
	t.Helper()
	e := newEngine(t, engine.GameConfig{Rules: newRules(t, width, height, opts...)})
	require.NoError(t, e.Connect())
	return e
}

func playAll(t *testing.T, e *LocalEngine, moves ...types.BoardPos) {
	t.Helper()
	for _, m := range moves {
		require.NoError(t, e.PlayMove(m.X, m.Y), "move %s", types.Coord(m))
	}
}

// fullCorners is a 3x3 position where First's empty base covers the centre,
// the only free cell, and Second is to move.
var fullCorners = []field.Placement{
	{X: 2, Y: 1, Player: field.First},
	{X: 1, Y: 1, Player: field.Second},
	{X: 1, Y: 2, Player: field.First},
	{X: 3, Y: 1, Player: field.Second},
	{X: 3, Y: 2, Player: field.First},
	{X: 1, Y: 3, Player: field.Second},
	{X: 3, Y: 3, Player: field.Second},
	{X: 2, Y: 3, Player: field.First},
}

func TestHotSeatAlternates(t *testing.T) {
	e := hotSeat(t, 5, 5)
	require.Equal(t, field.None, e.HumanPlayer())
	require.True(t, e.IsMyTurn())

	playAll(t, e, types.BoardPos{X: 0, Y: 0}, types.BoardPos{X: 4, Y: 4})
	bs := e.GetBoardState()
	require.Equal(t, 2, bs.MoveNumber)
	require.Equal(t, field.First, bs.At(0, 0).Dot)
	require.Equal(t, field.Second, bs.At(4, 4).Dot)
	require.Equal(t, types.BoardPos{X: 4, Y: 4}, bs.LastMove)
	require.Equal(t, field.First, bs.PlayerToMove)
	require.True(t, e.IsMyTurn())
}

func TestPlayMoveErrors(t *testing.T) {
	e := hotSeat(t, 5, 5)
	playAll(t, e, types.BoardPos{X: 2, Y: 2})
	require.ErrorIs(t, e.PlayMove(2, 2), field.ErrOccupied)
	require.ErrorIs(t, e.PlayMove(5, 0), field.ErrOutOfBounds)
	require.ErrorIs(t, e.PlayMove(-1, 0), field.ErrOutOfBounds)
	require.Equal(t, 1, e.GetBoardState().MoveNumber)
}

func TestOnMoveCallback(t *testing.T) {
	e := newEngine(t, engine.GameConfig{Rules: newRules(t, 4, 4)})
	var moves []field.Move
	var states []*types.BoardState
	e.OnMove(func(m field.Move, bs *types.BoardState) {
		moves = append(moves, m)
		states = append(states, bs)
	})
	require.NoError(t, e.Connect())
	playAll(t, e, types.BoardPos{X: 1, Y: 2})

	require.Len(t, moves, 1)
	g := field.NewGrid(4, 4)
	require.Equal(t, field.Move{Pos: g.Pos(2, 3), Player: field.First}, moves[0])
	require.Equal(t, field.First, states[0].At(1, 2).Dot)
}

func TestResign(t *testing.T) {
	e := newEngine(t, engine.GameConfig{Rules: newRules(t, 5, 5)})
	var outcomes []string
	e.OnGameEnd(func(outcome string) { outcomes = append(outcomes, outcome) })
	require.NoError(t, e.Connect())

	playAll(t, e, types.BoardPos{X: 1, Y: 1})
	require.NoError(t, e.Resign())
	require.Equal(t, []string{"first player wins by resignation"}, outcomes)
	require.True(t, e.GetBoardState().Finished())
	require.False(t, e.IsMyTurn())
	require.ErrorIs(t, e.PlayMove(3, 3), ErrGameOver)
	require.ErrorIs(t, e.Ground(), ErrGameOver)

	require.NoError(t, e.Undo())
	require.False(t, e.GetBoardState().Finished())
	require.NoError(t, e.Redo())
	require.True(t, e.GetBoardState().Finished())
	// Navigating back into a finished game does not announce it again.
	require.Len(t, outcomes, 1)
}

func TestGround(t *testing.T) {
	e := hotSeat(t, 3, 3)
	// Second's lone dot in the middle is not connected to the edge.
	playAll(t, e, types.BoardPos{X: 0, Y: 0}, types.BoardPos{X: 1, Y: 1}, types.BoardPos{X: 2, Y: 2})
	require.NoError(t, e.Ground())
	bs := e.GetBoardState()
	require.True(t, bs.Finished())
	require.Equal(t, 1, bs.FirstScore)
	require.Equal(t, "first player wins by 1 (grounding)", bs.Outcome)
}

func TestUndoRedoHotSeat(t *testing.T) {
	e := hotSeat(t, 5, 5)
	require.ErrorIs(t, e.Undo(), field.ErrNothingToUndo)
	require.ErrorIs(t, e.Redo(), ErrNothingToRedo)

	playAll(t, e, types.BoardPos{X: 0, Y: 0}, types.BoardPos{X: 1, Y: 1})
	require.NoError(t, e.Undo())
	bs := e.GetBoardState()
	require.Equal(t, 1, bs.MoveNumber)
	require.Equal(t, field.Second, bs.PlayerToMove)

	require.NoError(t, e.Redo())
	require.Equal(t, 2, e.GetBoardState().MoveNumber)
}

func TestVariations(t *testing.T) {
	e := hotSeat(t, 5, 5)
	require.ErrorIs(t, e.NextVariation(), ErrNoVariation)

	playAll(t, e, types.BoardPos{X: 0, Y: 0})
	require.NoError(t, e.Undo())
	playAll(t, e, types.BoardPos{X: 4, Y: 4})

	bs := e.GetBoardState()
	require.Equal(t, 2, bs.Variations)
	require.Equal(t, 1, bs.Variation)

	require.NoError(t, e.PrevVariation())
	bs = e.GetBoardState()
	require.Equal(t, 0, bs.Variation)
	require.Equal(t, types.BoardPos{X: 0, Y: 0}, bs.LastMove)
	require.Equal(t, field.None, bs.At(4, 4).Dot)

	// Sibling navigation wraps around.
	require.NoError(t, e.PrevVariation())
	require.Equal(t, types.BoardPos{X: 4, Y: 4}, e.GetBoardState().LastMove)
}

func TestThreatOverlay(t *testing.T) {
	e := hotSeat(t, 3, 3)
	playAll(t, e,
		types.BoardPos{X: 1, Y: 0},
		types.BoardPos{X: 1, Y: 1},
		types.BoardPos{X: 0, Y: 1},
		types.BoardPos{X: 0, Y: 2},
		types.BoardPos{X: 2, Y: 1},
	)
	require.False(t, e.GetBoardState().At(1, 1).Threatened)

	require.True(t, e.ToggleThreats())
	bs := e.GetBoardState()
	require.True(t, bs.At(1, 1).Threatened)
	require.False(t, bs.At(0, 2).Threatened)

	require.False(t, e.ToggleThreats())
	require.False(t, e.GetBoardState().At(1, 1).Threatened)
}

func TestThreatOverlayShowsSuicideCells(t *testing.T) {
	e := hotSeat(t, 5, 5)
	playAll(t, e,
		types.BoardPos{X: 2, Y: 1},
		types.BoardPos{X: 0, Y: 0},
		types.BoardPos{X: 1, Y: 2},
		types.BoardPos{X: 4, Y: 0},
		types.BoardPos{X: 3, Y: 2},
		types.BoardPos{X: 0, Y: 4},
		types.BoardPos{X: 2, Y: 3},
	)
	require.False(t, e.GetBoardState().At(2, 2).Forbidden)

	require.True(t, e.ToggleThreats())
	bs := e.GetBoardState()
	require.Equal(t, field.Second, bs.PlayerToMove)
	require.True(t, bs.At(2, 2).Forbidden)
	require.False(t, bs.At(4, 4).Forbidden)
}

func TestBotReplies(t *testing.T) {
	e := newEngine(t, engine.GameConfig{
		Rules:       newRules(t, 7, 7),
		VsBot:       true,
		HumanPlayer: field.First,
		BotRadius:   1,
	})
	require.NoError(t, e.Connect())
	require.Equal(t, field.First, e.HumanPlayer())

	playAll(t, e, types.BoardPos{X: 3, Y: 3})
	e.bot.Wait()

	bs := e.GetBoardState()
	require.Equal(t, 2, bs.MoveNumber)
	require.Equal(t, field.First, bs.PlayerToMove)
	require.NotEqual(t, types.NoPos, bs.LastMove)
	require.Equal(t, field.Second, bs.At(bs.LastMove.X, bs.LastMove.Y).Dot)
	// Radius 1 keeps the reply next to the human's dot.
	require.LessOrEqual(t, abs(bs.LastMove.X-3), 1)
	require.LessOrEqual(t, abs(bs.LastMove.Y-3), 1)
	require.True(t, e.IsMyTurn())
}

func TestBotGroundsWhenItsMoveIsRejected(t *testing.T) {
	e := newEngine(t, engine.GameConfig{
		Rules:       newRules(t, 5, 5),
		VsBot:       true,
		HumanPlayer: field.First,
	})
	// Always answer on the human's dot, which is occupied.
	e.choose = func(f *field.Field, _ field.Player, _ *rand.Rand, _ int) (field.Position, bool) {
		return f.Grid().Pos(3, 3), true
	}
	require.NoError(t, e.Connect())

	playAll(t, e, types.BoardPos{X: 2, Y: 2})
	e.bot.Wait()

	bs := e.GetBoardState()
	require.True(t, bs.Finished())
	require.Len(t, bs.History, 2)
	require.Equal(t, field.Second, bs.History[1].Player)
	require.Equal(t, field.EndGrounding, bs.History[1].End)
	require.False(t, e.IsMyTurn())
}

func TestBotMovesFirst(t *testing.T) {
	e := newEngine(t, engine.GameConfig{
		Rules:       newRules(t, 5, 5),
		VsBot:       true,
		HumanPlayer: field.Second,
	})
	require.NoError(t, e.Connect())
	e.bot.Wait()

	bs := e.GetBoardState()
	require.Equal(t, 1, bs.MoveNumber)
	require.Equal(t, types.BoardPos{X: 2, Y: 2}, bs.LastMove)
	require.True(t, e.IsMyTurn())
	require.ErrorIs(t, e.Undo(), field.ErrNothingToUndo)
}

func TestUndoAgainstBot(t *testing.T) {
	e := newEngine(t, engine.GameConfig{
		Rules:       newRules(t, 6, 6),
		VsBot:       true,
		HumanPlayer: field.First,
	})
	require.NoError(t, e.Connect())
	playAll(t, e, types.BoardPos{X: 1, Y: 1})
	e.bot.Wait()
	reply := e.GetBoardState().LastMove

	require.NoError(t, e.Undo())
	bs := e.GetBoardState()
	require.Zero(t, bs.MoveNumber)
	require.True(t, e.IsMyTurn())

	// Redo replays the stored reply instead of asking the bot again.
	require.NoError(t, e.Redo())
	e.bot.Wait()
	bs = e.GetBoardState()
	require.Equal(t, 2, bs.MoveNumber)
	require.Equal(t, reply, bs.LastMove)
}

func TestBotGroundsWithoutLegalMoves(t *testing.T) {
	e := newEngine(t, engine.GameConfig{
		Rules:       newRules(t, 3, 3, field.WithInitialMoves(fullCorners...)),
		VsBot:       true,
		HumanPlayer: field.First,
	})
	var outcome string
	e.OnGameEnd(func(o string) { outcome = o })
	require.NoError(t, e.Connect())
	e.bot.Wait()

	bs := e.GetBoardState()
	require.True(t, bs.Finished())
	require.Equal(t, "draw (grounding)", outcome)
	require.Equal(t, types.NoPos, bs.LastMove)
}

func TestGameRecord(t *testing.T) {
	dir := t.TempDir()
	e := newEngine(t, engine.GameConfig{
		Rules:       newRules(t, 5, 5),
		HistoryDir:  dir,
		PlayerNames: [2]string{"Alice", "Bob"},
	})
	require.NoError(t, e.Connect())
	path := e.RecordPath()
	require.FileExists(t, path)

	playAll(t, e, types.BoardPos{X: 0, Y: 0}, types.BoardPos{X: 1, Y: 1})
	require.NoError(t, e.Undo())
	playAll(t, e, types.BoardPos{X: 2, Y: 2})
	require.NoError(t, e.Resign())

	tree, info, err := sgf.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "Alice", info.PlayerFirst)
	require.Equal(t, "Bob", info.PlayerSecond)
	require.Equal(t, "W+R", info.Result)
	require.Len(t, tree.Root().Children(), 1)
	require.Len(t, tree.Root().Children()[0].Children(), 2)

	e.Close()
	require.Empty(t, e.RecordPath())
	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestLoadSavedGame(t *testing.T) {
	dir := t.TempDir()
	first := newEngine(t, engine.GameConfig{Rules: newRules(t, 6, 5), HistoryDir: dir})
	require.NoError(t, first.Connect())
	playAll(t, first, types.BoardPos{X: 0, Y: 0}, types.BoardPos{X: 5, Y: 4})
	path := first.RecordPath()
	first.Close()

	e := newEngine(t, engine.GameConfig{LoadSGFPath: path})
	require.NoError(t, e.Connect())
	bs := e.GetBoardState()
	require.Equal(t, 6, bs.Width())
	require.Equal(t, 5, bs.Height())
	require.Equal(t, 2, bs.MoveNumber)
	require.Equal(t, field.Second, bs.At(5, 4).Dot)
}

func TestLoadMissingGame(t *testing.T) {
	e := newEngine(t, engine.GameConfig{LoadSGFPath: "/nonexistent/game.sgf"})
	require.Error(t, e.Connect())
}

func TestChooseMove(t *testing.T) {
	newField := func(t *testing.T, width, height int, ps ...field.Placement) *field.Field {
		t.Helper()
		f, err := field.NewField(newRules(t, width, height, field.WithInitialMoves(ps...)), nil)
		require.NoError(t, err)
		return f
	}
	rng := rand.New(rand.NewSource(3))

	t.Run("empty board takes the centre", func(t *testing.T) {
		f := newField(t, 5, 5)
		pos, ok := chooseMove(f, field.First, rng, 2)
		require.True(t, ok)
		require.Equal(t, f.Grid().Pos(3, 3), pos)
	})

	trap := []field.Placement{
		{X: 2, Y: 1, Player: field.First},
		{X: 1, Y: 2, Player: field.First},
		{X: 2, Y: 2, Player: field.Second},
		{X: 3, Y: 2, Player: field.First},
	}

	t.Run("captures", func(t *testing.T) {
		f := newField(t, 3, 3, trap...)
		pos, ok := chooseMove(f, field.First, rng, 2)
		require.True(t, ok)
		require.Equal(t, f.Grid().Pos(2, 3), pos)
	})

	t.Run("blocks a capture", func(t *testing.T) {
		f := newField(t, 3, 3, trap...)
		pos, ok := chooseMove(f, field.Second, rng, 2)
		require.True(t, ok)
		require.Equal(t, f.Grid().Pos(2, 3), pos)
	})

	t.Run("no legal move", func(t *testing.T) {
		f := newField(t, 3, 3, fullCorners...)
		require.Equal(t, 1, f.FreeCells())
		_, ok := chooseMove(f, field.Second, rng, 2)
		require.False(t, ok)
	})

	t.Run("leaves the field unchanged", func(t *testing.T) {
		f := newField(t, 5, 5, trap...)
		before := f.Moves()
		_, ok := chooseMove(f, field.Second, rng, 1)
		require.True(t, ok)
		require.Equal(t, before, f.Moves())
	})
}

func TestCandidates(t *testing.T) {
	r := newRules(t, 6, 6, field.WithInitialMoves(field.Placement{X: 1, Y: 1, Player: field.First}))
	f, err := field.NewField(r, nil)
	require.NoError(t, err)
	near, far := candidates(f, 1)
	g := f.Grid()
	require.ElementsMatch(t, []field.Position{g.Pos(2, 1), g.Pos(1, 2), g.Pos(2, 2)}, near)
	require.Len(t, far, 36-1-3)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func TestHistory(t *testing.T) {
	e := hotSeat(t, 3, 3)
	playAll(t, e,
		types.BoardPos{X: 1, Y: 0},
		types.BoardPos{X: 1, Y: 1},
		types.BoardPos{X: 0, Y: 1},
		types.BoardPos{X: 0, Y: 2},
		types.BoardPos{X: 2, Y: 1},
		types.BoardPos{X: 2, Y: 2},
		types.BoardPos{X: 1, Y: 2},
	)
	require.NoError(t, e.Resign())

	h := e.GetBoardState().History
	require.Len(t, h, 8)
	require.Equal(t, types.MoveInfo{Player: field.First, Pos: types.BoardPos{X: 1, Y: 2}, Captured: 1}, h[6])
	require.Equal(t, types.MoveInfo{Player: field.Second, Pos: types.NoPos, End: field.EndResign}, h[7])
}
