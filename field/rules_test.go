package field

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRules(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
		opts   []RuleOption
		param  string
	}{
		{name: "default options", width: 39, height: 32},
		{name: "smallest board", width: 1, height: 1},
		{name: "largest board", width: MaxBoardSize, height: MaxBoardSize},
		{name: "zero width", width: 0, height: 5, param: "width"},
		{name: "too tall", width: 5, height: MaxBoardSize + 1, param: "height"},
		{name: "initial move off board", width: 3, height: 3,
			opts: []RuleOption{WithInitialMoves(Placement{X: 4, Y: 1, Player: First})}, param: "initial moves"},
		{name: "initial move without player", width: 3, height: 3,
			opts: []RuleOption{WithInitialMoves(Placement{X: 1, Y: 1})}, param: "initial moves"},
		{name: "unknown base mode", width: 3, height: 3,
			opts: []RuleOption{WithBaseMode(BaseMode(9))}, param: "base mode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRules(tt.width, tt.height, tt.opts...)
			if tt.param == "" {
				require.NoError(t, err)
				require.Equal(t, tt.width, r.Width)
				return
			}
			var rerr *RulesError
			require.True(t, errors.As(err, &rerr), "got %v", err)
			require.Equal(t, tt.param, rerr.Param)
		})
	}
}

func TestParseBaseMode(t *testing.T) {
	for _, m := range []BaseMode{AtLeastOneOpponentDot, AnySurrounding, AllOpponentDots} {
		got, err := ParseBaseMode(m.String())
		require.NoError(t, err)
		require.Equal(t, m, got)
	}
	_, err := ParseBaseMode("sometimes")
	require.Error(t, err)
}

func TestCrossInitialMoves(t *testing.T) {
	r, err := NewRules(8, 8, WithCross())
	require.NoError(t, err)
	require.Len(t, r.InitialMoves, 4)

	f, err := NewField(r, nil)
	require.NoError(t, err)
	require.Equal(t, 4, f.InitialMoveCount())
	require.Equal(t, 60, f.FreeCells())
	require.True(t, f.StateAt(4, 4).IsActive(First))
	require.True(t, f.StateAt(5, 4).IsActive(Second))
	require.True(t, f.StateAt(5, 5).IsActive(First))
	require.True(t, f.StateAt(4, 5).IsActive(Second))
	require.ErrorIs(t, f.UnmakeMove(), ErrNothingToUndo)

	require.Empty(t, CrossInitialMoves(1, 5))
}

func TestIncorrectInitialMoves(t *testing.T) {
	r, err := NewRules(3, 3, WithInitialMoves(
		Placement{X: 1, Y: 1, Player: First},
		Placement{X: 1, Y: 1, Player: Second},
		Placement{X: 2, Y: 2, Player: Second},
	))
	require.NoError(t, err)

	var bad []Placement
	f, err := NewField(r, func(p Placement, err error) {
		require.ErrorIs(t, err, ErrOccupied)
		bad = append(bad, p)
	})
	require.NoError(t, err)
	require.Equal(t, []Placement{{X: 1, Y: 1, Player: Second}}, bad)
	require.Equal(t, 2, f.InitialMoveCount())
	require.Equal(t, First, f.NextPlayer())
}
