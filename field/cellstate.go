package field

// Player identifies a side. The zero value is no player.
type Player uint8

const (
	None Player = iota
	First
	Second
)

// Opponent returns the other player. None has no opponent.
func (p Player) Opponent() Player {
	switch p {
	case First:
		return Second
	case Second:
		return First
	}
	return None
}

func (p Player) String() string {
	switch p {
	case First:
		return "first"
	case Second:
		return "second"
	}
	return "none"
}

// CellState is the packed state of one cell.
//
//	bits 0-1  player who placed a dot here
//	bit  2    territory: the cell lies inside a captured base
//	bits 3-4  territory owner
//	bit  5    surrounding: marked by threat analysis
//	bits 6-7  owner of the empty base the free cell lies in
type CellState uint16

const (
	placedMask     CellState = 0b11
	territoryFlag  CellState = 1 << 2
	territoryShift           = 3
	territoryMask  CellState = 0b11 << territoryShift
	surroundFlag   CellState = 1 << 5
	emptyShift               = 6
	emptyMask      CellState = 0b11 << emptyShift
)

// EmptyCell is a cell with no dot and no markers.
const EmptyCell CellState = 0

// Cleared returns an empty cell.
func Cleared() CellState { return EmptyCell }

func (s CellState) IsPlaced() bool       { return s&placedMask != 0 }
func (s CellState) PlacedPlayer() Player { return Player(s & placedMask) }
func (s CellState) IsTerritory() bool    { return s&territoryFlag != 0 }
func (s CellState) IsSurrounding() bool  { return s&surroundFlag != 0 }

// IsFree reports whether a dot may be placed on the cell.
func (s CellState) IsFree() bool { return s&(placedMask|territoryFlag) == 0 }

// TerritoryPlayer returns the owner of the base the cell was captured into.
func (s CellState) TerritoryPlayer() Player {
	if !s.IsTerritory() {
		return None
	}
	return Player((s & territoryMask) >> territoryShift)
}

// IsActive reports whether the cell holds a live dot of p.
func (s CellState) IsActive(p Player) bool {
	return p != None && s.PlacedPlayer() == p && !s.IsTerritory()
}

// ActivePlayer returns the owner of a live dot, or None.
func (s CellState) ActivePlayer() Player {
	if s.IsTerritory() {
		return None
	}
	return s.PlacedPlayer()
}

// Owner is the player the cell counts for: the territory owner inside a base,
// otherwise the player whose dot stands on it.
func (s CellState) Owner() Player {
	if s.IsTerritory() {
		return s.TerritoryPlayer()
	}
	return s.PlacedPlayer()
}

// EmptyTerritoryPlayer returns the owner of the uncaptured empty base the cell
// lies in.
func (s CellState) EmptyTerritoryPlayer() Player {
	return Player((s & emptyMask) >> emptyShift)
}

// PlacedBy puts a dot of p on the cell. The empty base tag is dropped.
func (s CellState) PlacedBy(p Player) CellState {
	return s&^(placedMask|emptyMask) | CellState(p)&placedMask
}

// AsTerritoryOf moves the cell into a captured base of p.
func (s CellState) AsTerritoryOf(p Player) CellState {
	s &^= territoryMask | surroundFlag | emptyMask
	return s | territoryFlag | CellState(p)<<territoryShift&territoryMask
}

// WithEmptyTerritory tags a free cell as lying in p's empty base. Cells with a
// dot are returned unchanged.
func (s CellState) WithEmptyTerritory(p Player) CellState {
	if s.IsPlaced() {
		return s
	}
	return s&^emptyMask | CellState(p)<<emptyShift&emptyMask
}

func (s CellState) WithoutEmptyTerritory() CellState { return s &^ emptyMask }

// WithSurrounding marks the cell. Territory cells cannot be marked.
func (s CellState) WithSurrounding() CellState {
	if s.IsTerritory() {
		return s
	}
	return s | surroundFlag
}

func (s CellState) WithoutSurrounding() CellState { return s &^ surroundFlag }
