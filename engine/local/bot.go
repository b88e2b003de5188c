package local

import (
	"golang.org/x/exp/rand"

	"termdots/analysis"
	"termdots/field"
)

// chooseMove picks the bot's reply for player. In order of preference it
// takes the largest capture, blocks the opponent's largest capture, or plays
// a random legal cell within radius of an existing dot. ok is false when no
// legal move exists.
func chooseMove(f *field.Field, player field.Player, rng *rand.Rand, radius int) (pos field.Position, ok bool) {
	if caps := analysis.CapturingMoves(f, player); len(caps) > 0 {
		return caps[0].Pos, true
	}
	for _, c := range analysis.CapturingMoves(f, player.Opponent()) {
		if f.IsLegal(c.Pos, player) {
			return c.Pos, true
		}
	}

	near, far := candidates(f, radius)
	for _, cells := range [][]field.Position{near, far} {
		// Draw without replacement until a legal cell turns up.
		for len(cells) > 0 {
			i := rng.Intn(len(cells))
			if f.IsLegal(cells[i], player) {
				return cells[i], true
			}
			cells[i] = cells[len(cells)-1]
			cells = cells[:len(cells)-1]
		}
	}
	return field.NoPosition, false
}

// candidates splits the free cells into those within radius (Chebyshev
// distance) of a placed dot and the rest. On an empty board the centre is the
// only near cell.
func candidates(f *field.Field, radius int) (near, far []field.Position) {
	g := f.Grid()
	w, h := f.Width(), f.Height()
	nearby := make([]bool, g.Len())
	placed := false
	for _, p := range g.Positions() {
		if !f.State(p).IsPlaced() {
			continue
		}
		placed = true
		x, y := g.XY(p)
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				if q, ok := g.PositionIfWithinBounds(x+dx, y+dy); ok {
					nearby[q] = true
				}
			}
		}
	}
	if !placed {
		nearby[g.Pos((w+1)/2, (h+1)/2)] = true
	}
	for _, p := range g.Positions() {
		if !f.State(p).IsFree() {
			continue
		}
		if nearby[p] {
			near = append(near, p)
		} else {
			far = append(far, p)
		}
	}
	return near, far
}
