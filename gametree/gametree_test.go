package gametree

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"termdots/field"
)

func newTree(t *testing.T, loop bool) *Tree {
	t.Helper()
	r, err := field.NewRules(5, 5)
	require.NoError(t, err)
	f, err := field.NewField(r, nil)
	require.NoError(t, err)
	return New(f, loop)
}

func add(t *testing.T, tree *Tree, x, y int) *Node {
	t.Helper()
	n, _, err := tree.AddChild(tree.Field().Grid().Pos(x, y), field.None)
	require.NoError(t, err)
	return n
}

// requireMirrors checks that the field holds exactly the moves on the path to
// the current node.
func requireMirrors(t *testing.T, tree *Tree) {
	t.Helper()
	moves := tree.Field().Moves()[tree.Root().Number():]
	require.Equal(t, tree.PathMoves(), moves)
	require.Equal(t, tree.Current().Number(), tree.Field().MoveCount())
}

func TestNewTree(t *testing.T) {
	tree := newTree(t, false)
	require.NotNil(t, tree.Root())
	require.Equal(t, tree.Root(), tree.Current())
	require.True(t, tree.Root().IsRoot())
	require.Equal(t, field.Move{}, tree.Root().Move())
	require.Empty(t, tree.Path())
}

func TestAddChild(t *testing.T) {
	tree := newTree(t, false)
	pos := tree.Field().Grid().Pos(2, 2)
	node, res, err := tree.AddChild(pos, field.None)
	require.NoError(t, err)
	require.Equal(t, AddedNew, res)
	require.Equal(t, field.Move{Pos: pos, Player: field.First}, node.Move())
	require.Equal(t, node, tree.Current())
	require.Equal(t, tree.Root(), node.Parent())
	require.Len(t, tree.Root().Children(), 1)
	require.Equal(t, node, tree.Root().Child(pos, field.First))
	require.Nil(t, tree.Root().Child(pos, field.Second))
	require.Equal(t, 1, node.Number())
	requireMirrors(t, tree)
}

func TestAddChildIllegal(t *testing.T) {
	tree := newTree(t, false)
	add(t, tree, 2, 2)
	_, _, err := tree.AddChild(tree.Field().Grid().Pos(2, 2), field.None)
	require.ErrorIs(t, err, field.ErrOccupied)
	require.Empty(t, tree.Current().Children())
	requireMirrors(t, tree)
}

func TestAddChildDedup(t *testing.T) {
	tree := newTree(t, false)
	node1 := add(t, tree, 2, 2)
	require.True(t, tree.Back())

	node2, res, err := tree.AddChild(tree.Field().Grid().Pos(2, 2), field.First)
	require.NoError(t, err)
	require.Equal(t, AddedExisting, res)
	require.Same(t, node1, node2)
	require.Len(t, tree.Root().Children(), 1)
	require.Equal(t, 1, tree.Field().MoveCount())

	// Entering again from the same node is also idempotent.
	require.True(t, tree.Back())
	node3, res, err := tree.AddChild(tree.Field().Grid().Pos(2, 2), field.First)
	require.NoError(t, err)
	require.Equal(t, AddedExisting, res)
	require.Same(t, node1, node3)
	requireMirrors(t, tree)
}

func TestAddChildBranching(t *testing.T) {
	tree := newTree(t, false)
	a := add(t, tree, 2, 2)
	tree.Back()
	b := add(t, tree, 4, 4)
	require.Equal(t, []*Node{a, b}, tree.Root().Children())
	require.Equal(t, 2, tree.NumVariations())
	require.Equal(t, 1, tree.VariationIndex())
	requireMirrors(t, tree)
}

func TestBack(t *testing.T) {
	tree := newTree(t, false)
	require.False(t, tree.Back())

	add(t, tree, 2, 2)
	require.True(t, tree.Back())
	require.Equal(t, tree.Root(), tree.Current())
	require.Zero(t, tree.Field().MoveCount())
}

func TestNextFollowsLastVisited(t *testing.T) {
	tree := newTree(t, false)
	require.False(t, tree.Next())

	a := add(t, tree, 2, 2)
	tree.Back()
	b := add(t, tree, 4, 4)
	tree.Back()

	require.True(t, tree.Next())
	require.Equal(t, b, tree.Current())

	require.True(t, tree.Switch(a))
	tree.Back()
	require.True(t, tree.Next())
	require.Equal(t, a, tree.Current())
	requireMirrors(t, tree)
}

func TestForward(t *testing.T) {
	tree := newTree(t, false)
	require.False(t, tree.Forward(0))

	first := add(t, tree, 2, 2)
	second := add(t, tree, 3, 3)
	tree.Back()
	tree.Back()

	require.True(t, tree.Forward(0))
	require.Equal(t, first, tree.Current())
	require.True(t, tree.Forward(0))
	require.Equal(t, second, tree.Current())
	require.False(t, tree.Forward(1))
	requireMirrors(t, tree)
}

func TestSiblings(t *testing.T) {
	build := func(loop bool) (*Tree, []*Node) {
		tree := newTree(t, loop)
		var nodes []*Node
		for _, x := range []int{1, 3, 5} {
			nodes = append(nodes, add(t, tree, x, 1))
			tree.Back()
		}
		require.True(t, tree.Switch(nodes[2]))
		return tree, nodes
	}

	t.Run("looping", func(t *testing.T) {
		tree, nodes := build(true)
		require.True(t, tree.NextSibling())
		require.Equal(t, nodes[0], tree.Current())
		require.True(t, tree.NextSibling())
		require.Equal(t, nodes[1], tree.Current())
		require.True(t, tree.PrevSibling())
		require.Equal(t, nodes[0], tree.Current())
		require.True(t, tree.PrevSibling())
		require.Equal(t, nodes[2], tree.Current())
		requireMirrors(t, tree)
	})

	t.Run("stops at the ends", func(t *testing.T) {
		tree, nodes := build(false)
		require.False(t, tree.NextSibling())
		require.Equal(t, nodes[2], tree.Current())
		require.True(t, tree.PrevSibling())
		require.True(t, tree.PrevSibling())
		require.Equal(t, nodes[0], tree.Current())
		require.False(t, tree.PrevSibling())
		requireMirrors(t, tree)
	})

	t.Run("single child", func(t *testing.T) {
		tree := newTree(t, true)
		add(t, tree, 1, 1)
		require.False(t, tree.NextSibling())
		require.False(t, tree.PrevSibling())
	})

	t.Run("root", func(t *testing.T) {
		tree := newTree(t, true)
		require.False(t, tree.NextSibling())
		require.Equal(t, -1, tree.VariationIndex())
		require.Zero(t, tree.NumVariations())
	})
}

func TestSwitch(t *testing.T) {
	tree := newTree(t, false)
	add(t, tree, 1, 1)
	add(t, tree, 2, 2)
	deep := add(t, tree, 3, 3)
	tree.Back()
	tree.Back()
	other := add(t, tree, 5, 5)
	leaf := add(t, tree, 4, 4)

	require.True(t, tree.Switch(deep))
	require.Equal(t, deep, tree.Current())
	requireMirrors(t, tree)

	require.True(t, tree.Switch(leaf))
	require.Equal(t, []*Node{tree.Path()[0], other, leaf}, tree.Path())
	requireMirrors(t, tree)

	require.True(t, tree.Switch(tree.Root()))
	require.Zero(t, tree.Field().MoveCount())

	require.False(t, tree.Switch(tree.Current()))
	require.False(t, tree.Switch(nil))
	require.False(t, tree.Switch(newTree(t, false).Root()))
	requireMirrors(t, tree)
}

func TestRemove(t *testing.T) {
	tree := newTree(t, false)
	require.False(t, tree.Remove())

	a := add(t, tree, 1, 1)
	gone := add(t, tree, 2, 2)
	child := add(t, tree, 3, 3)
	tree.Back()

	require.True(t, tree.Remove())
	require.Equal(t, a, tree.Current())
	require.Empty(t, a.Children())
	require.Nil(t, a.Child(gone.Move().Pos, gone.Move().Player))
	require.False(t, tree.Switch(child))
	require.False(t, tree.Next())
	requireMirrors(t, tree)

	// The removed move can be played again as a fresh node.
	again, res, err := tree.AddChild(gone.Move().Pos, gone.Move().Player)
	require.NoError(t, err)
	require.Equal(t, AddedNew, res)
	require.NotSame(t, gone, again)
}

func TestFinishNode(t *testing.T) {
	tree := newTree(t, false)
	add(t, tree, 2, 2)
	n, res, err := tree.AddFinish(field.EndResign, field.None)
	require.NoError(t, err)
	require.Equal(t, AddedNew, res)
	require.True(t, n.Move().IsFinish())
	require.True(t, tree.Field().IsFinished())

	_, _, err = tree.AddChild(tree.Field().Grid().Pos(3, 3), field.None)
	require.ErrorIs(t, err, field.ErrGameFinished)

	require.True(t, tree.Back())
	require.False(t, tree.Field().IsFinished())
	require.True(t, tree.Next())
	require.True(t, tree.Field().IsFinished())
	requireMirrors(t, tree)
}

func TestWalk(t *testing.T) {
	tree := newTree(t, false)
	a := add(t, tree, 1, 1)
	b := add(t, tree, 2, 2)
	tree.Back()
	c := add(t, tree, 3, 3)

	var order []*Node
	var depths []int
	tree.Walk(func(n *Node, depth int) {
		order = append(order, n)
		depths = append(depths, depth)
	})
	require.Equal(t, []*Node{a, b, c}, order)
	require.Equal(t, []int{0, 1, 1}, depths)
	require.True(t, slices.Contains(tree.Root().Children(), a))
}

func TestHasChildrenAndLooping(t *testing.T) {
	tree := newTree(t, false)
	require.False(t, tree.HasChildren())
	add(t, tree, 1, 1)
	tree.Back()
	add(t, tree, 2, 2)
	tree.Back()
	require.True(t, tree.HasChildren())

	require.True(t, tree.Next())
	require.False(t, tree.NextSibling())
	tree.SetLoopSiblings(true)
	require.True(t, tree.LoopSiblings())
	require.True(t, tree.NextSibling())
	require.Equal(t, 0, tree.VariationIndex())
	requireMirrors(t, tree)
}

func TestSwitchFailureLeavesTreeInPlace(t *testing.T) {
	tree := newTree(t, false)
	a := add(t, tree, 1, 1)
	b := add(t, tree, 2, 2)
	require.True(t, tree.Back())
	require.True(t, tree.Back())
	c := add(t, tree, 4, 4)
	require.True(t, tree.Back())
	require.Equal(t, c, tree.Root().last)

	// A dot placed on the field directly blocks the replay of b.
	_, err := tree.Field().MakeMove(tree.Field().Grid().Pos(2, 2), field.First)
	require.NoError(t, err)
	before := slices.Clone(tree.Field().Moves())

	require.False(t, tree.Switch(b))
	require.Equal(t, tree.Root(), tree.Current())
	require.Equal(t, before, tree.Field().Moves())
	require.Equal(t, c, tree.Root().last)
	require.Equal(t, b, a.last)
}
