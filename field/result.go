package field

import (
	"errors"
	"fmt"
)

var (
	// ErrIllegalMove is the family of rejected moves. Every move error below
	// matches it with errors.Is.
	ErrIllegalMove  = errors.New("illegal move")
	ErrOutOfBounds  = fmt.Errorf("%w: outside the board", ErrIllegalMove)
	ErrOccupied     = fmt.Errorf("%w: cell is not free", ErrIllegalMove)
	ErrSuicide      = fmt.Errorf("%w: suicide", ErrIllegalMove)
	ErrGameFinished = fmt.Errorf("%w: game is finished", ErrIllegalMove)
	ErrNoPlayer     = fmt.Errorf("%w: no player", ErrIllegalMove)
	ErrBadFinish    = fmt.Errorf("%w: not a finishing action", ErrIllegalMove)

	// ErrNothingToUndo is returned by UnmakeMove at the initial position.
	ErrNothingToUndo = errors.New("nothing to undo")
)

// EndReason says why a game ended. Moves that place a dot carry EndNone.
type EndReason uint8

const (
	EndNone EndReason = iota
	EndNoLegalMoves
	EndResign
	EndTime
	EndGrounding
)

func (r EndReason) String() string {
	switch r {
	case EndNoLegalMoves:
		return "no legal moves"
	case EndResign:
		return "resignation"
	case EndTime:
		return "time"
	case EndGrounding:
		return "grounding"
	}
	return "none"
}

// Move is a dot placement, or a finishing action when End is set.
type Move struct {
	Pos    Position
	Player Player
	End    EndReason
}

// IsFinish reports whether the move ends the game instead of placing a dot.
func (m Move) IsFinish() bool { return m.End != EndNone }

// GameResult is the outcome of a finished game. Winner is None for a draw.
// Score is the winner's margin including komi; it is zero for resignation and
// time losses.
type GameResult struct {
	Winner Player
	Reason EndReason
	Score  float64
}

func (r GameResult) IsDraw() bool { return r.Winner == None }

func (r GameResult) String() string {
	if r.IsDraw() {
		return fmt.Sprintf("draw (%s)", r.Reason)
	}
	if r.Score == 0 {
		return fmt.Sprintf("%s player wins by %s", r.Winner, r.Reason)
	}
	return fmt.Sprintf("%s player wins by %g (%s)", r.Winner, r.Score, r.Reason)
}

// CellChange is the state a cell had before a move changed it.
type CellChange struct {
	Pos  Position
	Prev CellState
}

// Base is one enclosed region found by a move.
type Base struct {
	Owner Player
	// Real bases capture; the others are empty bases that only tag free cells.
	Real bool
	// Closure holds the dots that enclose the region.
	Closure []Position
	// Rollback holds every cell the base changed, in application order.
	Rollback []CellChange
	// Captured counts opponent dots taken; Freed counts the owner's own dots
	// released from an opponent base.
	Captured int
	Freed    int
}

// Positions returns the cells the base changed.
func (b Base) Positions() []Position {
	ps := make([]Position, len(b.Rollback))
	for i, c := range b.Rollback {
		ps[i] = c.Pos
	}
	return ps
}

// MoveResult describes an applied move.
type MoveResult struct {
	// Number is the 1-based index of the move in the move sequence.
	Number int
	Move   Move
	Bases  []Base
	// Result is set when the move ended the game.
	Result *GameResult
}

// Captured sums the dots captured by p's real bases.
func (r *MoveResult) Captured(p Player) int {
	n := 0
	for _, b := range r.Bases {
		if b.Owner == p && b.Real {
			n += b.Captured
		}
	}
	return n
}

// ScoreDelta returns the change of p's score caused by the move.
func (r *MoveResult) ScoreDelta(p Player) int {
	n := 0
	for _, b := range r.Bases {
		switch b.Owner {
		case p:
			n += b.Captured
		case p.Opponent():
			n -= b.Freed
		}
	}
	return n
}
