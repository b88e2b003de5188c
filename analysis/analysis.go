// Package analysis probes a field by playing every free cell and taking the
// move back. The field is left exactly as it was found.
package analysis

import (
	"cmp"
	"errors"
	"slices"

	"termdots/field"
)

// Overlay is a copy of the board where every cell some move of Player would
// capture carries the surrounding mark.
type Overlay struct {
	Player field.Player
	grid   field.Grid
	cells  []field.CellState
	marked int
}

// State returns the overlay state at p.
func (o Overlay) State(p field.Position) field.CellState {
	if p < 0 || int(p) >= len(o.cells) {
		return field.EmptyCell
	}
	return o.cells[p]
}

// IsThreatened reports whether a single move of Player captures the cell.
func (o Overlay) IsThreatened(p field.Position) bool { return o.State(p).IsSurrounding() }

// Len is the number of marked cells.
func (o Overlay) Len() int { return o.marked }

// Positions lists the marked cells in row-major order.
func (o Overlay) Positions() []field.Position {
	var ps []field.Position
	for _, p := range o.grid.Positions() {
		if o.cells[p].IsSurrounding() {
			ps = append(ps, p)
		}
	}
	return ps
}

// Capture is a move together with the number of dots it takes.
type Capture struct {
	Pos      field.Position
	Captured int
	Cells    []field.Position
}

// probe plays player at every free cell and reports each legal move that
// captures, plus the cells where the move is rejected as suicide.
func probe(f *field.Field, player field.Player) (captures []Capture, suicides []field.Position) {
	if f.IsFinished() {
		return nil, nil
	}
	if player == field.None {
		player = f.NextPlayer()
	}
	for _, pos := range f.Grid().Positions() {
		if !f.State(pos).IsFree() {
			continue
		}
		res, err := f.MakeMove(pos, player)
		if err != nil {
			if errors.Is(err, field.ErrSuicide) {
				suicides = append(suicides, pos)
			}
			continue
		}
		if n := res.Captured(player); n > 0 {
			c := Capture{Pos: pos, Captured: n}
			for _, b := range res.Bases {
				if b.Owner == player && b.Real {
					c.Cells = append(c.Cells, b.Positions()...)
				}
			}
			captures = append(captures, c)
		}
		// The move was just made, so it can be taken back.
		_ = f.UnmakeMove()
	}
	return captures, suicides
}

// Threats marks every dot that player could capture with one move. player
// None means the field's next player.
func Threats(f *field.Field, player field.Player) Overlay {
	if player == field.None {
		player = f.NextPlayer()
	}
	g := f.Grid()
	o := Overlay{Player: player, grid: g, cells: make([]field.CellState, g.Len())}
	for _, p := range g.Positions() {
		o.cells[p] = f.State(p).WithoutSurrounding()
	}
	captures, _ := probe(f, player)
	for _, c := range captures {
		for _, p := range c.Cells {
			if s := o.cells[p]; !s.IsSurrounding() && f.State(p).ActivePlayer() == player.Opponent() {
				o.cells[p] = s.WithSurrounding()
				o.marked++
			}
		}
	}
	return o
}

// CapturingMoves lists the moves of player that capture at least one dot,
// biggest capture first.
func CapturingMoves(f *field.Field, player field.Player) []Capture {
	captures, _ := probe(f, player)
	slices.SortStableFunc(captures, func(a, b Capture) int {
		return cmp.Compare(b.Captured, a.Captured)
	})
	return captures
}

// Suicides lists the free cells where player's move is rejected as suicide.
func Suicides(f *field.Field, player field.Player) []field.Position {
	_, suicides := probe(f, player)
	return suicides
}
