package field

// MakeMove places a dot of player at pos and applies every base it forms.
// player None plays for NextPlayer. On error the field is unchanged.
//
// Captures made by the move are applied before suicide is checked, so a dot
// dropped into an opponent's empty base is legal when it captures something.
// Otherwise the empty base turns real around the dot; that is a suicide and is
// rejected unless the rules allow it.
func (f *Field) MakeMove(pos Position, player Player) (*MoveResult, error) {
	if f.result != nil {
		return nil, ErrGameFinished
	}
	if player == None {
		player = f.NextPlayer()
	}
	if player != First && player != Second {
		return nil, ErrNoPlayer
	}
	if !f.grid.InBounds(pos) {
		return nil, ErrOutOfBounds
	}
	prev := f.cells[pos]
	if !prev.IsFree() {
		return nil, ErrOccupied
	}

	rec := moveRecord{
		move:   Move{Pos: pos, Player: player},
		prev:   prev,
		result: &MoveResult{Number: len(f.moves) + 1, Move: Move{Pos: pos, Player: player}},
	}
	f.setCell(pos, prev.PlacedBy(player))

	// A dot inside the mover's own empty base cannot enclose anything new.
	// It can only fill the base around opponent dots dropped into it.
	if prev.EmptyTerritoryPlayer() == player {
		interior, closure, intact := f.emptyBaseRegion(pos, player)
		if intact && f.holdsActive(interior, player.Opponent()) && f.isReal(player, interior) {
			f.moveGen = f.nextClaimGen()
			f.applyRegion(&rec, region{owner: player, closure: closure, interior: interior}, true)
		}
		return f.commit(rec), nil
	}

	regions := f.findRegions(pos, player)
	f.moveGen = f.nextClaimGen()
	var empty []region
	captured := false
	for _, r := range regions {
		if f.isReal(player, r.interior) {
			if f.applyRegion(&rec, r, true) {
				captured = true
			}
			continue
		}
		if !f.holdsActive(r.interior, player.Opponent()) {
			empty = append(empty, r)
		}
	}

	// With AllOpponentDots an enclosure holding opponent dots is not tagged,
	// so filling its last free cell has to be noticed here. Rings through pos
	// miss it when the dot only plugs a hole inside the enclosure.
	if f.rules.BaseMode == AllOpponentDots && !f.rules.CaptureByBorder {
		inner, _ := f.areasAround(pos, player)
		for _, r := range inner {
			if f.isReal(player, r.interior) && f.applyRegion(&rec, r, true) {
				captured = true
			}
		}
	}

	switch owner := player.Opponent(); {
	case prev.EmptyTerritoryPlayer() == owner:
		interior, closure, intact := f.emptyBaseRegion(pos, owner)
		switch {
		case !intact || captured:
			f.dissolve(&rec, interior, owner)
		case f.isReal(owner, interior):
			if !f.rules.SuicideAllowed {
				f.rollback(&rec)
				f.setCell(pos, prev)
				return nil, ErrSuicide
			}
			f.applyRegion(&rec, region{owner: owner, closure: closure, interior: interior}, true)
		}
	case f.rules.BaseMode == AllOpponentDots && !captured:
		if r, enclosed := f.enclosingArea(pos, owner); enclosed && f.isReal(owner, r.interior) {
			if !f.rules.SuicideAllowed {
				f.rollback(&rec)
				f.setCell(pos, prev)
				return nil, ErrSuicide
			}
			f.applyRegion(&rec, r, true)
		}
	}

	for _, r := range empty {
		f.applyRegion(&rec, r, false)
	}
	return f.commit(rec), nil
}

// Play applies a move or a finishing action.
func (f *Field) Play(m Move) (*MoveResult, error) {
	if m.IsFinish() {
		return f.Finish(m.End, m.Player)
	}
	return f.MakeMove(m.Pos, m.Player)
}

// Finish ends the game by resignation, time or grounding of player (None
// means NextPlayer). It is recorded in the move sequence and UnmakeMove takes
// it back.
//
// Grounding gives every group of player's live dots that does not reach the
// board edge to the opponent, then scores the game.
func (f *Field) Finish(reason EndReason, player Player) (*MoveResult, error) {
	if f.result != nil {
		return nil, ErrGameFinished
	}
	if player == None {
		player = f.NextPlayer()
	}
	if player != First && player != Second {
		return nil, ErrNoPlayer
	}
	m := Move{Pos: NoPosition, Player: player, End: reason}
	rec := moveRecord{
		move:   m,
		result: &MoveResult{Number: len(f.moves) + 1, Move: m},
	}
	var res GameResult
	switch reason {
	case EndResign, EndTime:
		res = GameResult{Winner: player.Opponent(), Reason: reason}
	case EndGrounding:
		f.moveGen = f.nextClaimGen()
		for _, r := range f.groundRegions(player) {
			f.applyRegion(&rec, r, true)
		}
		res = f.scoreResult(EndGrounding)
	default:
		return nil, ErrBadFinish
	}
	rec.prevResult = f.result
	f.result = &res
	rec.result.Result = &res
	f.finalize(&rec)
	f.moves = append(f.moves, rec)
	return rec.result, nil
}

// UnmakeMove takes back the most recent move, restoring cells, scores and the
// game result exactly. Initial moves cannot be taken back.
func (f *Field) UnmakeMove() error {
	if len(f.moves) <= f.initial {
		return ErrNothingToUndo
	}
	rec := &f.moves[len(f.moves)-1]
	f.rollback(rec)
	if !rec.move.IsFinish() {
		f.setCell(rec.move.Pos, rec.prev)
	}
	f.result = rec.prevResult
	f.moves[len(f.moves)-1] = moveRecord{}
	f.moves = f.moves[:len(f.moves)-1]
	return nil
}

// rollback reverts the cell changes and score deltas of a record. The moved
// dot itself is left to the caller.
func (f *Field) rollback(rec *moveRecord) {
	for i := len(rec.changes) - 1; i >= 0; i-- {
		c := rec.changes[i]
		f.setCell(c.Pos, c.Prev)
	}
	for _, b := range rec.result.Bases {
		f.scores[b.Owner] -= b.Captured
		f.scores[b.Owner.Opponent()] += b.Freed
	}
}

func (f *Field) commit(rec moveRecord) *MoveResult {
	rec.prevResult = f.result
	if f.free == 0 {
		res := f.scoreResult(EndNoLegalMoves)
		f.result = &res
		rec.result.Result = &res
	}
	f.finalize(&rec)
	f.moves = append(f.moves, rec)
	return rec.result
}

// finalize points every base at its slice of the change log.
func (f *Field) finalize(rec *moveRecord) {
	for i, sp := range rec.spans {
		rec.result.Bases[i].Rollback = rec.changes[sp[0]:sp[1]:sp[1]]
	}
}

func (f *Field) scoreResult(reason EndReason) GameResult {
	diff := float64(f.scores[First]) - float64(f.scores[Second]) - f.rules.Komi
	switch {
	case diff > 0:
		return GameResult{Winner: First, Reason: reason, Score: diff}
	case diff < 0:
		return GameResult{Winner: Second, Reason: reason, Score: -diff}
	}
	return GameResult{Reason: reason}
}
