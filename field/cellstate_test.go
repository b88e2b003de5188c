package field

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlayerOpponent(t *testing.T) {
	require.Equal(t, Second, First.Opponent())
	require.Equal(t, First, Second.Opponent())
	require.Equal(t, None, None.Opponent())
}

func TestCellStateTransitions(t *testing.T) {
	t.Run("placed dot is active", func(t *testing.T) {
		s := Cleared().PlacedBy(First)
		require.True(t, s.IsPlaced())
		require.True(t, s.IsActive(First))
		require.False(t, s.IsActive(Second))
		require.False(t, s.IsFree())
		require.Equal(t, First, s.Owner())
		require.Equal(t, First, s.ActivePlayer())
	})

	t.Run("placing drops the empty base tag", func(t *testing.T) {
		s := EmptyCell.WithEmptyTerritory(Second)
		require.True(t, s.IsFree())
		require.Equal(t, Second, s.EmptyTerritoryPlayer())

		s = s.PlacedBy(First)
		require.Equal(t, None, s.EmptyTerritoryPlayer())
		require.Equal(t, First, s.PlacedPlayer())
	})

	t.Run("captured dot keeps its placer", func(t *testing.T) {
		s := EmptyCell.PlacedBy(Second).WithSurrounding().AsTerritoryOf(First)
		require.True(t, s.IsTerritory())
		require.False(t, s.IsSurrounding())
		require.False(t, s.IsActive(Second))
		require.Equal(t, Second, s.PlacedPlayer())
		require.Equal(t, First, s.TerritoryPlayer())
		require.Equal(t, First, s.Owner())
		require.Equal(t, None, s.ActivePlayer())
	})

	t.Run("territory cannot be marked", func(t *testing.T) {
		s := EmptyCell.AsTerritoryOf(Second)
		require.False(t, s.IsFree())
		require.Equal(t, s, s.WithSurrounding())
	})

	t.Run("dots cannot be tagged", func(t *testing.T) {
		s := EmptyCell.PlacedBy(First)
		require.Equal(t, s, s.WithEmptyTerritory(Second))
	})

	t.Run("recapture moves territory", func(t *testing.T) {
		s := EmptyCell.PlacedBy(First).AsTerritoryOf(Second).AsTerritoryOf(First)
		require.Equal(t, First, s.TerritoryPlayer())
		require.Equal(t, First, s.PlacedPlayer())
		require.False(t, s.IsActive(First))
	})
}
