// Package types contains shared data structures for termdots.
package types

import (
	"strconv"

	"termdots/analysis"
	"termdots/field"
)

// Cell is what the board shows at one point.
type Cell struct {
	Dot        field.Player // dot placed here, None if empty
	Owner      field.Player // player whose real base holds the cell
	EmptyBase  field.Player // player whose empty base covers the free cell
	Threatened bool         // the dot is lost if the opponent plays the right move
	Forbidden  bool         // a move here by the player to move is suicide
}

// Captured reports whether the dot belongs to someone else's base.
func (c Cell) Captured() bool {
	return c.Dot != field.None && c.Owner != field.None && c.Owner != c.Dot
}

// BoardPos is a point in 0-based display coordinates.
type BoardPos struct {
	X int
	Y int
}

// MoveInfo is one entry of the move list shown next to the board.
type MoveInfo struct {
	Player   field.Player
	Pos      BoardPos        // NoPos for finishing actions
	End      field.EndReason // set for finishing actions
	Captured int
}

// Label is the coordinate of the move, or the finishing action.
func (m MoveInfo) Label() string {
	if m.End != field.EndNone {
		return m.End.String()
	}
	return Coord(m.Pos)
}

// NoPos marks an absent position, such as the last move of an empty game.
var NoPos = BoardPos{X: -1, Y: -1}

// BoardState is a snapshot of a game for drawing.
// Cells is indexed as Cells[y][x] with 0-based coordinates.
type BoardState struct {
	MoveNumber   int
	PlayerToMove field.Player
	Phase        string // "playing", "finished"
	Cells        [][]Cell
	Outcome      string
	FirstScore   int
	SecondScore  int
	Komi         float64
	LastMove     BoardPos
	// Enclosures are the closures of the bases the last move made.
	Enclosures [][]BoardPos
	// Variation is the 0-based index of the current move among its
	// siblings; Variations is the sibling count, 0 at the start.
	Variation  int
	Variations int
	// History lists the moves from the start of the game, filled in by the
	// engine that owns the game tree.
	History []MoveInfo
}

// Finished returns true if the game is over.
func (b *BoardState) Finished() bool {
	return b.Phase == "finished"
}

// Height returns the board height.
func (b *BoardState) Height() int {
	return len(b.Cells)
}

// Width returns the board width.
func (b *BoardState) Width() int {
	if b.Height() == 0 {
		return 0
	}
	return len(b.Cells[0])
}

// At returns the cell at display coordinates, or an empty cell off the board.
func (b *BoardState) At(x, y int) Cell {
	if y < 0 || y >= b.Height() || x < 0 || x >= b.Width() {
		return Cell{}
	}
	return b.Cells[y][x]
}

// MarkForbidden flags the free cells at ps as suicide for the player to move.
func (b *BoardState) MarkForbidden(g field.Grid, ps []field.Position) {
	for _, p := range ps {
		bp := ToBoardPos(g, p)
		if bp.Y >= 0 && bp.Y < b.Height() && bp.X >= 0 && bp.X < b.Width() {
			b.Cells[bp.Y][bp.X].Forbidden = true
		}
	}
}

// NewBoardState snapshots f. Cells marked by threats, if given, are flagged
// as threatened.
func NewBoardState(f *field.Field, threats *analysis.Overlay) *BoardState {
	g := f.Grid()
	cells := make([][]Cell, f.Height())
	for y := range cells {
		cells[y] = make([]Cell, f.Width())
		for x := range cells[y] {
			pos := g.Pos(x+1, y+1)
			s := f.State(pos)
			cells[y][x] = Cell{
				Dot:        s.PlacedPlayer(),
				Owner:      s.TerritoryPlayer(),
				EmptyBase:  s.EmptyTerritoryPlayer(),
				Threatened: threats != nil && threats.IsThreatened(pos),
			}
		}
	}

	bs := &BoardState{
		MoveNumber:   f.MoveCount() - f.InitialMoveCount(),
		PlayerToMove: f.NextPlayer(),
		Phase:        "playing",
		Cells:        cells,
		FirstScore:   f.Player1Score(),
		SecondScore:  f.Player2Score(),
		Komi:         f.Rules().Komi,
		LastMove:     NoPos,
	}
	if res, ok := f.LastResult(); ok && f.MoveCount() > f.InitialMoveCount() {
		if !res.Move.IsFinish() {
			bs.LastMove = ToBoardPos(g, res.Move.Pos)
		}
		for _, b := range res.Bases {
			closure := make([]BoardPos, len(b.Closure))
			for i, p := range b.Closure {
				closure[i] = ToBoardPos(g, p)
			}
			bs.Enclosures = append(bs.Enclosures, closure)
		}
	}
	if res, ok := f.Result(); ok {
		bs.Phase = "finished"
		bs.Outcome = res.String()
	}
	return bs
}

// ToBoardPos converts a field position to display coordinates.
func ToBoardPos(g field.Grid, p field.Position) BoardPos {
	x, y := g.XY(p)
	return BoardPos{X: x - 1, Y: y - 1}
}

// FromBoardPos converts display coordinates to a field position.
func FromBoardPos(g field.Grid, bp BoardPos) (field.Position, bool) {
	return g.PositionIfWithinBounds(bp.X+1, bp.Y+1)
}

const columnLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// ColumnLabel returns the label drawn above column x.
func ColumnLabel(x int) string {
	if x < 0 || x >= len(columnLetters) {
		return "?"
	}
	return columnLetters[x : x+1]
}

// RowLabel returns the label drawn beside row y, counting from 1 at the top.
func RowLabel(y int) string {
	return strconv.Itoa(y + 1)
}

// Coord formats a point as column letter and row number, e.g. "C12".
func Coord(bp BoardPos) string {
	if bp == NoPos {
		return "-"
	}
	return ColumnLabel(bp.X) + RowLabel(bp.Y)
}
