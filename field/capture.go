package field

import "slices"

// region is an enclosed area found around a move, before it is applied.
type region struct {
	owner    Player
	closure  []Position
	interior []Position
}

type inputPoint struct {
	chain Position // first dot of the walk
	seed  Position // free side the walk hugs
}

// inputPoints finds, for every orthogonal neighbour of center that is not a
// live dot of p, the next live dot of p turning clockwise. A dot with fewer
// than two input points cannot close a ring.
func (f *Field) inputPoints(center Position, p Player, out *[4]inputPoint) int {
	n := 0
	for k := dirN; k < 8; k += 2 {
		orth := center + f.grid.dirs[k]
		if f.cells[orth].IsActive(p) {
			continue
		}
		if diag := center + f.grid.dirs[k+1]; f.cells[diag].IsActive(p) {
			out[n] = inputPoint{chain: diag, seed: orth}
			n++
		} else if next := center + f.grid.dirs[(k+2)&7]; f.cells[next].IsActive(p) {
			out[n] = inputPoint{chain: next, seed: orth}
			n++
		}
	}
	return n
}

// walkChain traces the ring of p's dots that starts at start, steps to first
// and keeps the seed side on its right, turning clockwise around each dot.
// Dead ends are cut off when the walk comes back along them. It reports
// whether the ring closes around a bounded face.
func (f *Field) walkChain(start, first Position, p Player) ([]Position, uint32, bool) {
	gen := f.nextWalkGen()
	chain := append(f.chain[:0], start)
	f.walk[start] = gen
	area := f.grid.cross(start, first)
	prev, cur := start, first
	limit := 4 * len(f.cells)
	for steps := 0; cur != start; steps++ {
		if steps > limit {
			f.chain = chain
			return nil, gen, false
		}
		if f.walk[cur] == gen {
			for chain[len(chain)-1] != cur {
				f.walk[chain[len(chain)-1]] = 0
				chain = chain[:len(chain)-1]
			}
		} else {
			f.walk[cur] = gen
			chain = append(chain, cur)
		}
		d := f.grid.direction(cur, prev)
		next := prev
		for i := 1; i < 8; i++ {
			if cand := cur + f.grid.dirs[(d+i)&7]; f.cells[cand].IsActive(p) {
				next = cand
				break
			}
		}
		area += f.grid.cross(cur, next)
		prev, cur = cur, next
	}
	f.chain = chain
	return chain, gen, area < 0 && len(chain) > 2
}

// fillInside collects the 4-connected cells reachable from seed without
// crossing cells marked with boundary. It fails if the fill leaves the board.
func (f *Field) fillInside(seed Position, boundary uint32) ([]Position, bool) {
	gen := f.nextWalkGen()
	queue := append(f.queue[:0], seed)
	f.walk[seed] = gen
	for i := 0; i < len(queue); i++ {
		q := queue[i]
		for _, d := range f.grid.orth {
			nb := q + d
			if m := f.walk[nb]; m == boundary || m == gen {
				continue
			}
			if !f.grid.InBounds(nb) {
				f.queue = queue
				return nil, false
			}
			f.walk[nb] = gen
			queue = append(queue, nb)
		}
	}
	f.queue = queue
	return slices.Clone(queue), true
}

// ringRegions finds the rings of p's dots that pass through pos.
func (f *Field) ringRegions(pos Position, p Player) []region {
	var pts [4]inputPoint
	n := f.inputPoints(pos, p, &pts)
	if n < 2 {
		return nil
	}
	seen := f.nextClaimGen()
	var regions []region
	for _, pt := range pts[:n] {
		if f.claim[pt.seed] == seen || !f.grid.InBounds(pt.seed) {
			continue
		}
		chain, gen, ok := f.walkChain(pos, pt.chain, p)
		if !ok {
			continue
		}
		closure := slices.Clone(chain)
		interior, ok := f.fillInside(pt.seed, gen)
		if !ok {
			continue
		}
		for _, q := range interior {
			f.claim[q] = seen
		}
		regions = append(regions, region{owner: p, closure: closure, interior: interior})
	}
	return regions
}

// component collects the 4-connected cells around seed that are not live dots
// of p, staying on the board. It also returns p's dots bordering the area and
// whether the area reaches the edge of the board.
func (f *Field) component(seed Position, p Player, gen uint32) (interior, closure []Position, edge bool) {
	queue := append(f.queue[:0], seed)
	f.walk[seed] = gen
	wall := f.nextClaimGen()
	for i := 0; i < len(queue); i++ {
		q := queue[i]
		if f.grid.IsBorder(q) {
			edge = true
		}
		for _, d := range f.grid.orth {
			nb := q + d
			if f.walk[nb] == gen || !f.grid.InBounds(nb) {
				continue
			}
			if f.cells[nb].IsActive(p) {
				if f.claim[nb] != wall {
					f.claim[nb] = wall
					closure = append(closure, nb)
				}
				continue
			}
			f.walk[nb] = gen
			queue = append(queue, nb)
		}
	}
	f.queue = queue
	return slices.Clone(queue), closure, edge
}

// areasAround splits the cells around pos into areas separated by p's dots,
// sorted by whether they reach the board edge.
func (f *Field) areasAround(pos Position, p Player) (inner, edged []region) {
	gen := f.nextWalkGen()
	for _, d := range f.grid.orth {
		nb := pos + d
		if !f.grid.InBounds(nb) || f.walk[nb] == gen || f.cells[nb].IsActive(p) {
			continue
		}
		interior, closure, edge := f.component(nb, p, gen)
		r := region{owner: p, closure: closure, interior: interior}
		if edge {
			edged = append(edged, r)
		} else {
			inner = append(inner, r)
		}
	}
	return inner, edged
}

// enclosingArea returns the area of cells that are not live dots of owner
// around pos, and whether it stays off the board edge.
func (f *Field) enclosingArea(pos Position, owner Player) (region, bool) {
	interior, closure, edge := f.component(pos, owner, f.nextWalkGen())
	return region{owner: owner, closure: closure, interior: interior}, !edge
}

// borderRegions splits the cells around pos into areas separated by p's dots
// and the board edge. Areas away from the edge are enclosed; of the areas
// touching the edge all but a strictly largest one are enclosed.
func (f *Field) borderRegions(pos Position, p Player) []region {
	inner, edged := f.areasAround(pos, p)
	if len(edged) < 2 {
		return inner
	}
	largest, tie := 0, false
	for i := 1; i < len(edged); i++ {
		switch {
		case len(edged[i].interior) > len(edged[largest].interior):
			largest, tie = i, false
		case len(edged[i].interior) == len(edged[largest].interior):
			tie = true
		}
	}
	if tie {
		return inner
	}
	for i, r := range edged {
		if i != largest {
			inner = append(inner, r)
		}
	}
	return inner
}

func (f *Field) findRegions(pos Position, p Player) []region {
	if f.rules.CaptureByBorder {
		return f.borderRegions(pos, p)
	}
	return f.ringRegions(pos, p)
}

// isReal applies the base mode to an enclosed area owned by owner.
func (f *Field) isReal(owner Player, interior []Position) bool {
	opp := owner.Opponent()
	enemies, filled := 0, true
	for _, q := range interior {
		s := f.cells[q]
		if s.IsActive(opp) {
			enemies++
		}
		if !s.IsPlaced() {
			filled = false
		}
	}
	switch f.rules.BaseMode {
	case AnySurrounding:
		return true
	case AllOpponentDots:
		return enemies > 0 && filled
	}
	return enemies > 0
}

// holdsActive reports whether any of cells is a live dot of p.
func (f *Field) holdsActive(cells []Position, p Player) bool {
	for _, q := range cells {
		if f.cells[q].IsActive(p) {
			return true
		}
	}
	return false
}

// applyRegion turns a region into territory (real) or tags its free cells as
// an empty base. Cells claimed earlier in the same move are left alone. It
// reports whether anything changed.
func (f *Field) applyRegion(rec *moveRecord, r region, real bool) bool {
	start := len(rec.changes)
	owner, opp := r.owner, r.owner.Opponent()
	var captured, freed int
	for _, q := range r.interior {
		if f.claim[q] == f.moveGen {
			continue
		}
		s := f.cells[q]
		if real {
			if s.TerritoryPlayer() == owner {
				continue
			}
			switch s.PlacedPlayer() {
			case opp:
				captured++
			case owner:
				if s.IsTerritory() {
					freed++
				}
			}
			f.claim[q] = f.moveGen
			f.change(rec, q, s.AsTerritoryOf(owner))
			continue
		}
		if !s.IsFree() || s.EmptyTerritoryPlayer() == owner {
			continue
		}
		f.claim[q] = f.moveGen
		f.change(rec, q, s.WithEmptyTerritory(owner))
	}
	end := len(rec.changes)
	if end == start {
		return false
	}
	f.scores[owner] += captured
	f.scores[opp] -= freed
	rec.result.Bases = append(rec.result.Bases, Base{
		Owner:    owner,
		Real:     real,
		Closure:  r.closure,
		Captured: captured,
		Freed:    freed,
	})
	rec.spans = append(rec.spans, [2]int{start, end})
	return true
}

// emptyBaseRegion collects owner's empty base around pos. ok is false when
// the area leaks into cells that are not part of that base, which happens
// after its wall has been captured.
func (f *Field) emptyBaseRegion(pos Position, owner Player) (interior, closure []Position, ok bool) {
	gen := f.nextWalkGen()
	wall := f.nextClaimGen()
	queue := append(f.queue[:0], pos)
	f.walk[pos] = gen
	ok = true
	for i := 0; i < len(queue); i++ {
		q := queue[i]
		for _, d := range f.grid.orth {
			nb := q + d
			if f.walk[nb] == gen {
				continue
			}
			if !f.grid.InBounds(nb) {
				if !f.rules.CaptureByBorder {
					ok = false
				}
				continue
			}
			s := f.cells[nb]
			if s.IsActive(owner) {
				if f.claim[nb] != wall {
					f.claim[nb] = wall
					closure = append(closure, nb)
				}
				continue
			}
			if s.IsFree() && s.EmptyTerritoryPlayer() != owner {
				ok = false
			}
			f.walk[nb] = gen
			queue = append(queue, nb)
		}
	}
	f.queue = queue
	return slices.Clone(queue), closure, ok
}

// dissolve drops owner's empty base tags from the given cells.
func (f *Field) dissolve(rec *moveRecord, cells []Position, owner Player) {
	for _, q := range cells {
		if s := f.cells[q]; s.IsFree() && s.EmptyTerritoryPlayer() == owner {
			f.change(rec, q, s.WithoutEmptyTerritory())
		}
	}
}

// groundRegions gives every group of p's live dots that does not reach the
// board edge to the opponent.
func (f *Field) groundRegions(p Player) []region {
	gen := f.nextWalkGen()
	var regions []region
	for _, start := range f.grid.Positions() {
		if f.walk[start] == gen || !f.cells[start].IsActive(p) {
			continue
		}
		group := []Position{start}
		f.walk[start] = gen
		grounded := false
		for i := 0; i < len(group); i++ {
			q := group[i]
			if f.grid.IsBorder(q) {
				grounded = true
			}
			for _, nb := range f.grid.Neighbours(q) {
				if f.walk[nb] != gen && f.cells[nb].IsActive(p) {
					f.walk[nb] = gen
					group = append(group, nb)
				}
			}
		}
		if !grounded {
			regions = append(regions, region{owner: p.Opponent(), closure: group, interior: group})
		}
	}
	return regions
}
