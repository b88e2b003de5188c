package field

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type point struct{ X, Y int }

func newTestField(t *testing.T, width, height int, opts ...RuleOption) *Field {
	t.Helper()
	r, err := NewRules(width, height, opts...)
	require.NoError(t, err)
	f, err := NewField(r, nil)
	require.NoError(t, err)
	return f
}

func play(t *testing.T, f *Field, x, y int, p Player) *MoveResult {
	t.Helper()
	res, err := f.MakeMove(f.Grid().Pos(x, y), p)
	require.NoError(t, err, "move (%d,%d) by %s", x, y, p)
	return res
}

func points(g Grid, ps []Position) []point {
	out := make([]point, len(ps))
	for i, p := range ps {
		x, y := g.XY(p)
		out[i] = point{x, y}
	}
	return out
}

func TestCaptureSurroundedDot(t *testing.T) {
	f := newTestField(t, 3, 3)
	for _, m := range []struct {
		x, y int
		p    Player
	}{{2, 1, First}, {1, 2, First}, {2, 2, Second}, {3, 2, First}} {
		res := play(t, f, m.x, m.y, m.p)
		require.Empty(t, res.Bases)
	}

	res := play(t, f, 2, 3, First)
	require.Len(t, res.Bases, 1)
	b := res.Bases[0]
	require.Equal(t, First, b.Owner)
	require.True(t, b.Real)
	require.Equal(t, 1, b.Captured)
	require.ElementsMatch(t, []point{{2, 1}, {3, 2}, {2, 3}, {1, 2}}, points(f.Grid(), b.Closure))
	require.Equal(t, []point{{2, 2}}, points(f.Grid(), b.Positions()))
	require.Equal(t, 5, res.Number)
	require.Equal(t, 1, res.Captured(First))
	require.Equal(t, 1, res.ScoreDelta(First))

	require.Equal(t, 1, f.Player1Score())
	require.Equal(t, 0, f.Player2Score())
	s := f.StateAt(2, 2)
	require.True(t, s.IsTerritory())
	require.Equal(t, First, s.TerritoryPlayer())
	require.False(t, s.IsActive(Second))
	require.Equal(t, 4, f.FreeCells())
}

func TestEmptyBase(t *testing.T) {
	diamond := func(t *testing.T, opts ...RuleOption) *Field {
		f := newTestField(t, 5, 5, opts...)
		play(t, f, 3, 2, First)
		play(t, f, 2, 3, First)
		play(t, f, 4, 3, First)
		res := play(t, f, 3, 4, First)
		require.Len(t, res.Bases, 1)
		require.False(t, res.Bases[0].Real)
		require.Zero(t, res.Bases[0].Captured)
		require.ElementsMatch(t, []point{{3, 2}, {2, 3}, {4, 3}, {3, 4}}, points(f.Grid(), res.Bases[0].Closure))
		require.Equal(t, First, f.StateAt(3, 3).EmptyTerritoryPlayer())
		require.True(t, f.StateAt(3, 3).IsFree())
		require.Zero(t, f.Player1Score())
		return f
	}

	t.Run("opponent move inside is suicide", func(t *testing.T) {
		f := diamond(t)
		before := f.StateAt(3, 3)
		_, err := f.MakeMove(f.Grid().Pos(3, 3), Second)
		require.ErrorIs(t, err, ErrSuicide)
		require.ErrorIs(t, err, ErrIllegalMove)
		require.Equal(t, before, f.StateAt(3, 3))
		require.Equal(t, 4, f.MoveCount())
		require.Zero(t, f.Player1Score())
		require.False(t, f.IsLegal(f.Grid().Pos(3, 3), Second))
	})

	t.Run("suicide allowed captures the dot", func(t *testing.T) {
		f := diamond(t, WithSuicide(true))
		res := play(t, f, 3, 3, Second)
		require.Len(t, res.Bases, 1)
		require.Equal(t, First, res.Bases[0].Owner)
		require.True(t, res.Bases[0].Real)
		require.Equal(t, 1, f.Player1Score())
		require.Equal(t, First, f.StateAt(3, 3).TerritoryPlayer())
		require.Zero(t, res.ScoreDelta(Second))
	})

	t.Run("own move inside changes nothing", func(t *testing.T) {
		f := diamond(t)
		res := play(t, f, 3, 3, First)
		require.Empty(t, res.Bases)
		require.True(t, f.StateAt(3, 3).IsActive(First))
		require.Equal(t, None, f.StateAt(3, 3).EmptyTerritoryPlayer())
		require.NoError(t, f.UnmakeMove())
		require.Equal(t, First, f.StateAt(3, 3).EmptyTerritoryPlayer())
	})

	t.Run("any surrounding captures empty area", func(t *testing.T) {
		f := newTestField(t, 5, 5, WithBaseMode(AnySurrounding))
		play(t, f, 3, 2, First)
		play(t, f, 2, 3, First)
		play(t, f, 4, 3, First)
		res := play(t, f, 3, 4, First)
		require.Len(t, res.Bases, 1)
		require.True(t, res.Bases[0].Real)
		require.Zero(t, res.Bases[0].Captured)
		require.False(t, f.StateAt(3, 3).IsFree())
		require.Equal(t, First, f.StateAt(3, 3).TerritoryPlayer())
	})
}

func TestAllOpponentDotsMode(t *testing.T) {
	ring := [][2]int{{3, 1}, {4, 2}, {4, 3}, {3, 4}, {2, 3}, {2, 2}}

	t.Run("free cell inside is neither captured nor tagged", func(t *testing.T) {
		f := newTestField(t, 5, 5, WithBaseMode(AllOpponentDots))
		play(t, f, 3, 2, Second)
		var res *MoveResult
		for _, xy := range ring {
			res = play(t, f, xy[0], xy[1], First)
		}
		require.Empty(t, res.Bases)
		require.Equal(t, None, f.StateAt(3, 3).EmptyTerritoryPlayer())
		require.True(t, f.StateAt(3, 2).IsActive(Second))
	})

	t.Run("filled interior is captured", func(t *testing.T) {
		f := newTestField(t, 5, 5, WithBaseMode(AllOpponentDots))
		play(t, f, 3, 2, Second)
		play(t, f, 3, 3, Second)
		var res *MoveResult
		for _, xy := range ring {
			res = play(t, f, xy[0], xy[1], First)
		}
		require.Len(t, res.Bases, 1)
		require.True(t, res.Bases[0].Real)
		require.Equal(t, 2, f.Player1Score())
	})

	wide := [][2]int{{3, 2}, {4, 2}, {5, 3}, {4, 4}, {3, 4}, {2, 3}}
	enclose := func(t *testing.T, opts ...RuleOption) *Field {
		f := newTestField(t, 6, 5, append([]RuleOption{WithBaseMode(AllOpponentDots)}, opts...)...)
		play(t, f, 3, 3, Second)
		var res *MoveResult
		for _, xy := range wide {
			res = play(t, f, xy[0], xy[1], First)
		}
		require.Empty(t, res.Bases)
		require.Equal(t, None, f.StateAt(4, 3).EmptyTerritoryPlayer())
		return f
	}

	t.Run("owner filling the last cell captures", func(t *testing.T) {
		f := enclose(t)
		res := play(t, f, 4, 3, First)
		require.Len(t, res.Bases, 1)
		require.True(t, res.Bases[0].Real)
		require.Equal(t, 1, f.Player1Score())
		require.False(t, f.StateAt(3, 3).IsActive(Second))

		require.NoError(t, f.UnmakeMove())
		require.Zero(t, f.Player1Score())
		require.True(t, f.StateAt(3, 3).IsActive(Second))
	})

	t.Run("opponent filling the last cell is suicide", func(t *testing.T) {
		f := enclose(t)
		_, err := f.MakeMove(f.Grid().Pos(4, 3), Second)
		require.ErrorIs(t, err, ErrSuicide)
		require.True(t, f.StateAt(4, 3).IsFree())
		require.Equal(t, 7, f.MoveCount())
	})

	t.Run("opponent filling the last cell with suicide allowed", func(t *testing.T) {
		f := enclose(t, WithSuicide(true))
		res := play(t, f, 4, 3, Second)
		require.Len(t, res.Bases, 1)
		require.Equal(t, First, res.Bases[0].Owner)
		require.Equal(t, 2, f.Player1Score())
	})

	t.Run("dot dropped into an empty base is taken when the base fills", func(t *testing.T) {
		f := newTestField(t, 6, 5, WithBaseMode(AllOpponentDots))
		var res *MoveResult
		for _, xy := range wide {
			res = play(t, f, xy[0], xy[1], First)
		}
		require.Len(t, res.Bases, 1)
		require.False(t, res.Bases[0].Real)
		require.Equal(t, First, f.StateAt(3, 3).EmptyTerritoryPlayer())

		res = play(t, f, 3, 3, Second)
		require.Empty(t, res.Bases)
		require.Equal(t, First, f.StateAt(4, 3).EmptyTerritoryPlayer())

		res = play(t, f, 4, 3, First)
		require.Len(t, res.Bases, 1)
		require.True(t, res.Bases[0].Real)
		require.Equal(t, 1, f.Player1Score())
	})
}

func TestCaptureByBorder(t *testing.T) {
	tests := []struct {
		border bool
		score  int
	}{
		{border: false, score: 0},
		{border: true, score: 1},
	}
	for _, tt := range tests {
		f := newTestField(t, 3, 3, WithCaptureByBorder(tt.border))
		play(t, f, 2, 1, Second)
		play(t, f, 1, 1, First)
		play(t, f, 3, 1, First)
		res := play(t, f, 2, 2, First)
		require.Equal(t, tt.score, f.Player1Score(), "border=%v", tt.border)
		require.Equal(t, tt.score, res.Captured(First))
		require.Equal(t, tt.score == 0, f.StateAt(2, 1).IsActive(Second))
	}
}

func TestCaptureInsideBorderRing(t *testing.T) {
	for _, border := range []bool{false, true} {
		f := newTestField(t, 3, 3, WithCaptureByBorder(border))
		play(t, f, 2, 2, Second)
		captured := point{}
		for _, xy := range [][2]int{{1, 1}, {2, 1}, {3, 1}, {1, 2}, {3, 2}, {1, 3}, {2, 3}, {3, 3}} {
			if res := play(t, f, xy[0], xy[1], First); res.Captured(First) > 0 {
				captured = point{xy[0], xy[1]}
			}
		}
		require.Equal(t, point{2, 3}, captured, "border=%v", border)
		require.Equal(t, 1, f.Player1Score())
		require.Equal(t, First, f.StateAt(2, 2).TerritoryPlayer())
		require.Zero(t, f.FreeCells())

		r, ok := f.Result()
		require.True(t, ok)
		require.Equal(t, GameResult{Winner: First, Reason: EndNoLegalMoves, Score: 1}, r)
	}
}

func TestRecaptureFreesDots(t *testing.T) {
	f := newTestField(t, 7, 7)
	// Second takes a First dot at (4,4).
	play(t, f, 4, 4, First)
	for _, xy := range [][2]int{{4, 3}, {5, 4}, {3, 4}} {
		play(t, f, xy[0], xy[1], Second)
	}
	res := play(t, f, 4, 5, Second)
	require.Equal(t, 1, res.Captured(Second))
	require.Equal(t, 1, f.Player2Score())

	// First surrounds the whole base and takes it back.
	ring := [][2]int{{4, 2}, {5, 3}, {6, 4}, {5, 5}, {4, 6}, {3, 5}, {2, 4}}
	for _, xy := range ring {
		play(t, f, xy[0], xy[1], First)
	}
	res = play(t, f, 3, 3, First)
	require.Len(t, res.Bases, 1)
	require.Equal(t, 4, res.Bases[0].Captured)
	require.Equal(t, 1, res.Bases[0].Freed)
	require.Equal(t, 4, res.ScoreDelta(First))
	require.Equal(t, -1, res.ScoreDelta(Second))
	require.Equal(t, 4, f.Player1Score())
	require.Equal(t, 0, f.Player2Score())
	require.Equal(t, First, f.StateAt(4, 4).TerritoryPlayer())

	require.NoError(t, f.UnmakeMove())
	require.Equal(t, 0, f.Player1Score())
	require.Equal(t, 1, f.Player2Score())
	require.Equal(t, Second, f.StateAt(4, 4).TerritoryPlayer())
}

func TestGrounding(t *testing.T) {
	f := newTestField(t, 6, 6)
	play(t, f, 3, 3, Second)
	play(t, f, 4, 4, Second)
	play(t, f, 1, 3, Second)
	play(t, f, 2, 2, First)

	res, err := f.Finish(EndGrounding, Second)
	require.NoError(t, err)
	require.Len(t, res.Bases, 1)
	require.Equal(t, First, res.Bases[0].Owner)
	require.Equal(t, 2, res.Bases[0].Captured)
	require.Equal(t, 2, f.Player1Score())
	require.True(t, f.StateAt(1, 3).IsActive(Second))
	require.True(t, f.IsFinished())

	r, ok := f.Result()
	require.True(t, ok)
	require.Equal(t, First, r.Winner)
	require.Equal(t, EndGrounding, r.Reason)

	last, _ := f.LastMove()
	require.True(t, last.IsFinish())
	require.Equal(t, NoPosition, last.Pos)

	require.NoError(t, f.UnmakeMove())
	require.False(t, f.IsFinished())
	require.Zero(t, f.Player1Score())
	require.True(t, f.StateAt(3, 3).IsActive(Second))
}
