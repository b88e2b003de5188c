// Package gametree keeps a branching move history on top of a field.Field.
// The field always holds the position of the current node: navigation undoes
// and replays moves along tree edges.
package gametree

import (
	"slices"

	"termdots/field"
)

// AddResult says whether AddChild created a node or entered an existing one.
type AddResult uint8

const (
	AddedNew AddResult = iota + 1
	AddedExisting
)

func (r AddResult) String() string {
	switch r {
	case AddedNew:
		return "new"
	case AddedExisting:
		return "existing"
	}
	return "none"
}

// Node is a single position in the game tree.
type Node struct {
	move     field.Move // zero for root
	number   int
	result   *field.MoveResult
	parent   *Node
	children []*Node // insertion order, first child = main line
	index    map[field.Move]*Node
	last     *Node // child entered most recently
	tree     *Tree
}

func (n *Node) Move() field.Move { return n.move }

// Number is the length of the field's move sequence at this node.
func (n *Node) Number() int { return n.number }

// Result is what the move did when it was last applied. Nil for root.
func (n *Node) Result() *field.MoveResult { return n.result }

func (n *Node) Parent() *Node { return n.parent }
func (n *Node) IsRoot() bool  { return n.parent == nil }

// Children returns the child nodes in the order they were added.
func (n *Node) Children() []*Node {
	return append([]*Node(nil), n.children...)
}

// Child returns the child reached by player playing at pos, or nil.
func (n *Node) Child(pos field.Position, player field.Player) *Node {
	return n.index[field.Move{Pos: pos, Player: player}]
}

func (n *Node) addChild(m field.Move, res *field.MoveResult) *Node {
	c := &Node{
		move:   m,
		number: res.Number,
		result: res,
		parent: n,
		tree:   n.tree,
	}
	if n.index == nil {
		n.index = make(map[field.Move]*Node)
	}
	n.index[m] = c
	n.children = append(n.children, c)
	return c
}

func (n *Node) childIndex(c *Node) int {
	for i, child := range n.children {
		if child == c {
			return i
		}
	}
	return -1
}

// Tree tracks an in-memory tree of moves over a single field.
type Tree struct {
	field   *field.Field
	root    *Node
	current *Node
	loop    bool
}

// New wraps f, whose current position becomes the root. With loopSiblings,
// sibling navigation wraps around at the ends.
func New(f *field.Field, loopSiblings bool) *Tree {
	t := &Tree{field: f, loop: loopSiblings}
	t.root = &Node{number: f.MoveCount(), tree: t}
	t.current = t.root
	return t
}

func (t *Tree) Root() *Node         { return t.root }
func (t *Tree) Current() *Node      { return t.current }
func (t *Tree) Field() *field.Field { return t.field }
func (t *Tree) LoopSiblings() bool  { return t.loop }

// SetLoopSiblings changes whether sibling navigation wraps around.
func (t *Tree) SetLoopSiblings(loop bool) {
	t.loop = loop
}

// AddChild plays player at pos from the current node and advances to the
// resulting node. If that child already exists it is entered instead of
// duplicated. player None means the field's next player.
func (t *Tree) AddChild(pos field.Position, player field.Player) (*Node, AddResult, error) {
	if player == field.None {
		player = t.field.NextPlayer()
	}
	return t.add(field.Move{Pos: pos, Player: player})
}

// AddFinish records a finishing action as a child of the current node.
func (t *Tree) AddFinish(reason field.EndReason, player field.Player) (*Node, AddResult, error) {
	if player == field.None {
		player = t.field.NextPlayer()
	}
	return t.add(field.Move{Pos: field.NoPosition, Player: player, End: reason})
}

func (t *Tree) add(m field.Move) (*Node, AddResult, error) {
	if c, ok := t.current.index[m]; ok {
		if err := t.enter(c); err != nil {
			return nil, 0, err
		}
		return c, AddedExisting, nil
	}
	res, err := t.field.Play(m)
	if err != nil {
		return nil, 0, err
	}
	c := t.current.addChild(m, res)
	t.current.last = c
	t.current = c
	return c, AddedNew, nil
}

// enter replays the move of a child of the current node.
func (t *Tree) enter(c *Node) error {
	res, err := t.field.Play(c.move)
	if err != nil {
		return err
	}
	c.result = res
	t.current.last = c
	t.current = c
	return nil
}

// Back moves current to its parent. Returns false if already at root.
func (t *Tree) Back() bool {
	if t.current == t.root {
		return false
	}
	if err := t.field.UnmakeMove(); err != nil {
		return false
	}
	t.current = t.current.parent
	return true
}

// Next moves to the child entered most recently, or to the first child.
// Returns false if the current node has no children.
func (t *Tree) Next() bool {
	c := t.current.last
	if c == nil {
		if len(t.current.children) == 0 {
			return false
		}
		c = t.current.children[0]
	}
	return t.enter(c) == nil
}

// Forward moves current to children[idx]. Returns false if no such child.
func (t *Tree) Forward(idx int) bool {
	if idx < 0 || idx >= len(t.current.children) {
		return false
	}
	return t.enter(t.current.children[idx]) == nil
}

// NextSibling switches to the next child of the parent.
func (t *Tree) NextSibling() bool { return t.sibling(1) }

// PrevSibling switches to the previous child of the parent.
func (t *Tree) PrevSibling() bool { return t.sibling(-1) }

func (t *Tree) sibling(step int) bool {
	parent := t.current.parent
	if parent == nil || len(parent.children) < 2 {
		return false
	}
	idx := parent.childIndex(t.current) + step
	n := len(parent.children)
	if idx < 0 || idx >= n {
		if !t.loop {
			return false
		}
		idx = (idx + n) % n
	}
	return t.Switch(parent.children[idx])
}

// Switch moves to any node of the tree through the lowest common ancestor of
// the current node and target. It fails for nil, for nodes of another tree
// and for the current node. A replay that fails on the way down puts the tree
// back where it was.
func (t *Tree) Switch(target *Node) bool {
	if target == nil || target.tree != t || target == t.current {
		return false
	}
	start := t.current
	lca := t.commonAncestor(start, target)
	for t.current != lca {
		if !t.Back() {
			return false
		}
	}
	type visit struct{ node, last *Node }
	var visited []visit
	for _, n := range pathBetween(lca, target) {
		visited = append(visited, visit{t.current, t.current.last})
		if err := t.enter(n); err != nil {
			for t.current != lca && t.Back() {
			}
			for _, m := range pathBetween(lca, start) {
				if t.enter(m) != nil {
					break
				}
			}
			for i := len(visited) - 1; i >= 0; i-- {
				visited[i].node.last = visited[i].last
			}
			return false
		}
	}
	return true
}

// pathBetween lists the nodes from just below ancestor down to n.
func pathBetween(ancestor, n *Node) []*Node {
	var path []*Node
	for ; n != ancestor; n = n.parent {
		path = append(path, n)
	}
	slices.Reverse(path)
	return path
}

func (t *Tree) commonAncestor(a, b *Node) *Node {
	for a.number > b.number {
		a = a.parent
	}
	for b.number > a.number {
		b = b.parent
	}
	for a != b {
		a, b = a.parent, b.parent
	}
	return a
}

// Remove deletes the current node with its subtree and moves to the parent.
// Returns false at root.
func (t *Tree) Remove() bool {
	n := t.current
	if n == t.root || !t.Back() {
		return false
	}
	parent := n.parent
	if i := parent.childIndex(n); i >= 0 {
		parent.children = append(parent.children[:i], parent.children[i+1:]...)
	}
	delete(parent.index, n.move)
	if parent.last == n {
		parent.last = nil
	}
	detach(n)
	return true
}

func detach(n *Node) {
	n.tree = nil
	n.parent = nil
	for _, c := range n.children {
		detach(c)
	}
}

// Path returns the nodes from root (excluded) to current.
func (t *Tree) Path() []*Node {
	var path []*Node
	for n := t.current; n != t.root; n = n.parent {
		path = append(path, n)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// PathMoves returns the moves from root to current.
func (t *Tree) PathMoves() []field.Move {
	path := t.Path()
	moves := make([]field.Move, len(path))
	for i, n := range path {
		moves[i] = n.move
	}
	return moves
}

// NumVariations returns the number of siblings at the current node's level.
// Returns 0 if at root.
func (t *Tree) NumVariations() int {
	if t.current.parent == nil {
		return 0
	}
	return len(t.current.parent.children)
}

// VariationIndex returns which child of parent the current node is (0-based).
// Returns -1 if at root.
func (t *Tree) VariationIndex() int {
	if t.current.parent == nil {
		return -1
	}
	return t.current.parent.childIndex(t.current)
}

// HasChildren returns true if the current node has any children.
func (t *Tree) HasChildren() bool {
	return len(t.current.children) > 0
}

// Walk calls fn for every node below root in depth-first order, children in
// insertion order.
func (t *Tree) Walk(fn func(n *Node, depth int)) {
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		for _, c := range n.children {
			fn(c, depth)
			walk(c, depth+1)
		}
	}
	walk(t.root, 0)
}
