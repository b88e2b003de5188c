package field

// Field is a board in play: the grid, the rules, the applied moves and both
// scores. It is not safe for concurrent use; explore in parallel with
// independent fields.
type Field struct {
	rules Rules
	grid  Grid
	cells []CellState

	moves   []moveRecord
	initial int
	scores  [3]int
	free    int
	result  *GameResult

	// scratch marks for chain walks, fills and per-move claims
	walk     []uint32
	walkGen  uint32
	claim    []uint32
	claimGen uint32
	moveGen  uint32
	chain    []Position
	queue    []Position
}

type moveRecord struct {
	move       Move
	prev       CellState
	changes    []CellChange
	spans      [][2]int
	result     *MoveResult
	prevResult *GameResult
}

// NewField creates a board and plays the rules' initial moves in order. An
// initial move that is illegal on the board is reported to
// onIncorrectInitialMove and skipped. Invalid rules are an error.
func NewField(rules Rules, onIncorrectInitialMove func(Placement, error)) (*Field, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	rules.InitialMoves = append([]Placement(nil), rules.InitialMoves...)
	g := NewGrid(rules.Width, rules.Height)
	f := &Field{
		rules: rules,
		grid:  g,
		cells: make([]CellState, g.Len()),
		free:  rules.Width * rules.Height,
		walk:  make([]uint32, g.Len()),
		claim: make([]uint32, g.Len()),
	}
	for _, m := range rules.InitialMoves {
		if _, err := f.MakeMove(g.Pos(m.X, m.Y), m.Player); err != nil && onIncorrectInitialMove != nil {
			onIncorrectInitialMove(m, err)
		}
	}
	f.initial = len(f.moves)
	return f, nil
}

func (f *Field) Rules() Rules { return f.rules }
func (f *Field) Grid() Grid   { return f.grid }
func (f *Field) Width() int   { return f.grid.width }
func (f *Field) Height() int  { return f.grid.height }

// State returns the cell state at p. Margin cells are always empty.
func (f *Field) State(p Position) CellState {
	if p < 0 || int(p) >= len(f.cells) {
		return EmptyCell
	}
	return f.cells[p]
}

// StateAt returns the cell state at board coordinates.
func (f *Field) StateAt(x, y int) CellState {
	p, ok := f.grid.PositionIfWithinBounds(x, y)
	if !ok {
		return EmptyCell
	}
	return f.cells[p]
}

// Score returns the number of opponent dots p holds in its bases.
func (f *Field) Score(p Player) int {
	if p != First && p != Second {
		return 0
	}
	return f.scores[p]
}

func (f *Field) Player1Score() int { return f.scores[First] }
func (f *Field) Player2Score() int { return f.scores[Second] }

// FreeCells is the number of cells a dot can still be placed on.
func (f *Field) FreeCells() int { return f.free }

// Moves returns the applied move sequence, initial moves included.
func (f *Field) Moves() []Move {
	ms := make([]Move, len(f.moves))
	for i := range f.moves {
		ms[i] = f.moves[i].move
	}
	return ms
}

// MoveCount is len(Moves()) without the copy.
func (f *Field) MoveCount() int { return len(f.moves) }

// InitialMoveCount is the number of initial moves that were applied.
func (f *Field) InitialMoveCount() int { return f.initial }

// LastMove returns the most recent move.
func (f *Field) LastMove() (Move, bool) {
	if len(f.moves) == 0 {
		return Move{}, false
	}
	return f.moves[len(f.moves)-1].move, true
}

// LastResult returns what the most recent move did.
func (f *Field) LastResult() (*MoveResult, bool) {
	if len(f.moves) == 0 {
		return nil, false
	}
	return f.moves[len(f.moves)-1].result, true
}

// NextPlayer is the player whose turn it is: the opponent of the last mover,
// or First on an empty history.
func (f *Field) NextPlayer() Player {
	if m, ok := f.LastMove(); ok {
		return m.Player.Opponent()
	}
	return First
}

// Result returns the game outcome once the game is finished.
func (f *Field) Result() (GameResult, bool) {
	if f.result == nil {
		return GameResult{}, false
	}
	return *f.result, true
}

func (f *Field) IsFinished() bool { return f.result != nil }

// IsLegal reports whether p may play at pos by trying the move and taking it
// back.
func (f *Field) IsLegal(pos Position, p Player) bool {
	if _, err := f.MakeMove(pos, p); err != nil {
		return false
	}
	_ = f.UnmakeMove()
	return true
}

// setCell writes a state and keeps the free cell count.
func (f *Field) setCell(p Position, s CellState) {
	old := f.cells[p]
	if old.IsFree() != s.IsFree() {
		if s.IsFree() {
			f.free++
		} else {
			f.free--
		}
	}
	f.cells[p] = s
}

// change writes a state and records the old one for rollback.
func (f *Field) change(rec *moveRecord, p Position, s CellState) {
	if f.cells[p] == s {
		return
	}
	rec.changes = append(rec.changes, CellChange{Pos: p, Prev: f.cells[p]})
	f.setCell(p, s)
}

func (f *Field) nextWalkGen() uint32 {
	f.walkGen++
	if f.walkGen == 0 {
		clear(f.walk)
		f.walkGen = 1
	}
	return f.walkGen
}

func (f *Field) nextClaimGen() uint32 {
	f.claimGen++
	if f.claimGen == 0 {
		clear(f.claim)
		f.claimGen = 1
	}
	return f.claimGen
}
