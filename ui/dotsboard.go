// Package ui specifies custom controls for tview to assist in playing dots in the terminal.
package ui

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"termdots/config"
	"termdots/engine"
	"termdots/field"
	"termdots/types"
)

// palette holds the theme colors resolved to tcell colors.
type palette struct {
	board, line           tcell.Color
	first, second         tcell.Color
	firstArea, secondArea tcell.Color
	cursorFG, cursorBG    tcell.Color
	lastPlayed, threat    tcell.Color
}

func (p palette) dot(pl field.Player) tcell.Color {
	if pl == field.Second {
		return p.second
	}
	return p.first
}

func (p palette) area(pl field.Player) tcell.Color {
	if pl == field.Second {
		return p.secondArea
	}
	return p.firstArea
}

type DotsBoardUI struct {
	Box        *tview.Box
	BoardState *types.BoardState
	hint       *tview.TextView
	cfg        *config.Config
	selX       int
	selY       int
	app        *tview.Application
	eng        engine.GameEngine
	colors     palette
	infoPanel  *GameInfoPanel
	players    [2]string
	focusMode  bool
	threats    bool
	status     string

	// pending is the newest state reported by the engine, applied on the UI
	// goroutine.
	mu      sync.Mutex
	pending *types.BoardState
}

// ToggleFocusMode toggles focus mode and returns the new state.
func (g *DotsBoardUI) ToggleFocusMode() bool {
	g.focusMode = !g.focusMode
	g.refreshHint()
	return g.focusMode
}

// SetFocusMode sets focus mode to the given state.
func (g *DotsBoardUI) SetFocusMode(enabled bool) {
	g.focusMode = enabled
	g.refreshHint()
}

// IsFocusMode returns true if focus mode is enabled.
func (g *DotsBoardUI) IsFocusMode() bool {
	return g.focusMode
}

func (g *DotsBoardUI) SelectedTile() *types.BoardPos {
	if g.selX == -1 && g.selY == -1 {
		return nil
	}
	return &types.BoardPos{X: g.selX, Y: g.selY}
}

// MoveSelection moves the cursor. The first call places it on the last move,
// or in the middle of an empty board.
func (g *DotsBoardUI) MoveSelection(h, v int) {
	if g.BoardState.Finished() {
		g.ResetSelection()
		return
	}
	if g.SelectedTile() == nil {
		g.selX = g.BoardState.LastMove.X
		g.selY = g.BoardState.LastMove.Y
		if g.SelectedTile() == nil {
			g.selX = g.BoardState.Width() / 2
			g.selY = g.BoardState.Height() / 2
		}
		return
	}
	if g.selX+h < 0 || g.selX+h >= g.BoardState.Width() {
		return
	}
	if g.selY+v < 0 || g.selY+v >= g.BoardState.Height() {
		return
	}
	g.selX += h
	g.selY += v
}

func (g *DotsBoardUI) ResetSelection() {
	g.selX = -1
	g.selY = -1
}

func NewDotsBoard(app *tview.Application, c *config.Config, hint *tview.TextView) *DotsBoardUI {
	board := &DotsBoardUI{
		Box:        tview.NewBox(),
		BoardState: &types.BoardState{LastMove: types.NoPos},
		hint:       hint,
		app:        app,
		selX:       -1,
		selY:       -1,
		players:    [2]string{"First", "Second"},
	}
	board.SetConfig(c)
	board.Box.SetDrawFunc(board.draw)
	board.refreshHint()
	return board
}

func (g *DotsBoardUI) draw(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	bs := g.BoardState
	if bs == nil || bs.Width() == 0 {
		return x, y, 1, 1
	}
	links := horizontalLinks(bs)
	for by := 0; by < bs.Height(); by++ {
		for bx := 0; bx < bs.Width(); bx++ {
			r, style := g.cellLook(bx, by)
			screen.SetContent(x+4+bx*2, y+by, r, nil, style)

			gap := tcell.StyleDefault.Background(g.colors.board)
			if g.shaded(bx, by) && g.shaded(bx+1, by) && g.areaOwner(bx, by) == g.areaOwner(bx+1, by) {
				gap = gap.Background(g.colors.area(g.areaOwner(bx, by)))
			}
			gapRune := ' '
			if owner, ok := links[types.BoardPos{X: bx, Y: by}]; ok {
				gapRune = '─'
				gap = gap.Foreground(g.colors.dot(owner))
			}
			screen.SetContent(x+4+bx*2+1, y+by, gapRune, nil, gap)
		}
	}
	g.drawCoordinates(screen, x, y)
	return x, y, bs.Width()*2 + 4, bs.Height() + 1
}

// areaOwner is the player whose base, real or empty, covers the cell.
func (g *DotsBoardUI) areaOwner(bx, by int) field.Player {
	c := g.BoardState.At(bx, by)
	if c.Owner != field.None {
		return c.Owner
	}
	return c.EmptyBase
}

func (g *DotsBoardUI) shaded(bx, by int) bool {
	return g.cfg.Theme.ShadeTerritory && g.areaOwner(bx, by) != field.None
}

// cellLook returns the rune and style of the cell at display coordinates.
func (g *DotsBoardUI) cellLook(bx, by int) (rune, tcell.Style) {
	bs := g.BoardState
	sym := g.cfg.Theme.Symbols
	c := bs.At(bx, by)

	r := sym.BoardPoint
	style := tcell.StyleDefault.Background(g.colors.board).Foreground(g.colors.line)
	switch {
	case c.Dot != field.None:
		r = sym.FirstDot
		if c.Dot == field.Second {
			r = sym.SecondDot
		}
		if c.Captured() {
			r = sym.CapturedDot
		}
		style = style.Foreground(g.colors.dot(c.Dot))
	case c.Forbidden:
		r = sym.Forbidden
		style = style.Foreground(g.colors.threat)
	case c.EmptyBase != field.None:
		r = sym.EmptyBase
		style = style.Foreground(g.colors.dot(c.EmptyBase))
	}
	if g.shaded(bx, by) {
		style = style.Background(g.colors.area(g.areaOwner(bx, by)))
	}
	if c.Threatened {
		style = style.Background(g.colors.threat)
	}

	switch {
	case bx == g.selX && by == g.selY:
		if g.cfg.Theme.DrawCursorBackground {
			style = style.Background(g.colors.cursorBG)
		} else {
			r = sym.Cursor
			style = style.Foreground(g.colors.cursorFG)
		}
	case bx == bs.LastMove.X && by == bs.LastMove.Y:
		if g.cfg.Theme.DrawLastPlayedBackground {
			style = style.Background(g.colors.lastPlayed)
		} else {
			style = style.Bold(true).Underline(true)
		}
	}
	return r, style
}

// horizontalLinks finds the closure edges of the last capture that join two
// cells of one row. Each is keyed by its left cell and maps to the owner.
func horizontalLinks(bs *types.BoardState) map[types.BoardPos]field.Player {
	links := make(map[types.BoardPos]field.Player)
	for _, closure := range bs.Enclosures {
		for i, a := range closure {
			b := closure[(i+1)%len(closure)]
			if a.Y != b.Y || (a.X-b.X != 1 && b.X-a.X != 1) {
				continue
			}
			left := a
			if b.X < a.X {
				left = b
			}
			links[left] = bs.At(a.X, a.Y).Dot
		}
	}
	return links
}

func (g *DotsBoardUI) drawCoordinates(s tcell.Screen, x, y int) {
	w, h := g.BoardState.Width(), g.BoardState.Height()
	style := tcell.StyleDefault
	highlight := tcell.StyleDefault.Background(g.colors.cursorBG)
	lpHighlight := tcell.StyleDefault.Background(g.colors.lastPlayed)

	pick := func(i, sel, last int) tcell.Style {
		switch i {
		case sel:
			return highlight
		case last:
			return lpHighlight
		}
		return style
	}
	for ix := 0; ix < w; ix++ {
		st := pick(ix, g.selX, g.BoardState.LastMove.X)
		drawText(s, x+4+ix*2, y+h, types.ColumnLabel(ix)+" ", st)
	}
	for iy := 0; iy < h; iy++ {
		st := pick(iy, g.selY, g.BoardState.LastMove.Y)
		drawText(s, x+1, y+iy, fmt.Sprintf("%2s", types.RowLabel(iy)), st)
	}
}

// ConnectEngine connects the board to a game engine and starts the game.
func (g *DotsBoardUI) ConnectEngine(e engine.GameEngine, players [2]string) error {
	g.eng = e
	g.players = players
	g.status = ""
	g.threats = false
	g.ResetSelection()

	e.OnMove(func(_ field.Move, bs *types.BoardState) { g.post(bs) })
	e.OnGameEnd(func(string) { g.post(e.GetBoardState()) })

	if err := e.Connect(); err != nil {
		g.eng = nil
		return err
	}
	g.BoardState = e.GetBoardState()
	g.refreshHint()
	return nil
}

// post hands a new state to the UI goroutine. Engine callbacks run both on
// the UI goroutine and on the bot's, so the redraw is always queued from a
// fresh goroutine.
func (g *DotsBoardUI) post(bs *types.BoardState) {
	g.mu.Lock()
	g.pending = bs
	g.mu.Unlock()
	if g.app == nil {
		g.applyPending()
		return
	}
	go g.app.QueueUpdateDraw(g.applyPending)
}

func (g *DotsBoardUI) applyPending() {
	g.mu.Lock()
	bs := g.pending
	g.pending = nil
	g.mu.Unlock()
	if bs == nil {
		return
	}
	g.BoardState = bs
	if bs.Finished() {
		g.ResetSelection()
	}
	g.refreshHint()
}

// act runs an engine action and shows its error, if any, in the status.
func (g *DotsBoardUI) act(action func(engine.GameEngine) error) {
	if g.eng == nil {
		return
	}
	g.status = ""
	if err := action(g.eng); err != nil {
		g.status = err.Error()
	}
	g.refreshHint()
}

// PlayMove places a dot under the cursor.
func (g *DotsBoardUI) PlayMove() {
	sel := g.SelectedTile()
	if sel == nil {
		return
	}
	g.act(func(e engine.GameEngine) error { return e.PlayMove(sel.X, sel.Y) })
}

// Ground ends the game by grounding the side to move.
func (g *DotsBoardUI) Ground() {
	g.act(func(e engine.GameEngine) error { return e.Ground() })
}

// Resign gives the game to the opponent of the side to move.
func (g *DotsBoardUI) Resign() {
	g.act(func(e engine.GameEngine) error { return e.Resign() })
}

func (g *DotsBoardUI) Undo() {
	g.act(func(e engine.GameEngine) error { return e.Undo() })
}

func (g *DotsBoardUI) Redo() {
	g.act(func(e engine.GameEngine) error { return e.Redo() })
}

func (g *DotsBoardUI) PrevVariation() {
	g.act(func(e engine.GameEngine) error { return e.PrevVariation() })
}

func (g *DotsBoardUI) NextVariation() {
	g.act(func(e engine.GameEngine) error { return e.NextVariation() })
}

// ToggleThreats switches the threat overlay.
func (g *DotsBoardUI) ToggleThreats() {
	g.act(func(e engine.GameEngine) error {
		g.threats = e.ToggleThreats()
		g.BoardState = e.GetBoardState()
		return nil
	})
}

// Close disconnects the engine.
func (g *DotsBoardUI) Close() {
	if g.eng == nil {
		return
	}
	g.eng.Close()
	g.eng = nil
}

func (g *DotsBoardUI) SetConfig(c *config.Config) {
	col := c.Theme.Colors
	g.colors = palette{
		board:      tcell.PaletteColor(col.BoardColor),
		line:       tcell.PaletteColor(col.LineColor),
		first:      tcell.PaletteColor(col.FirstColor),
		second:     tcell.PaletteColor(col.SecondColor),
		firstArea:  tcell.PaletteColor(col.FirstAreaColor),
		secondArea: tcell.PaletteColor(col.SecondAreaColor),
		cursorFG:   tcell.PaletteColor(col.CursorColorFG),
		cursorBG:   tcell.PaletteColor(col.CursorColorBG),
		lastPlayed: tcell.PaletteColor(col.LastPlayedColorBG),
		threat:     tcell.PaletteColor(col.ThreatColorBG),
	}
	g.cfg = c
}

func (g *DotsBoardUI) refreshHint() {
	if g.infoPanel != nil {
		g.infoPanel.SetPlayers(g.players)
		g.infoPanel.SetThreats(g.threats)
		g.infoPanel.SetBoardState(g.BoardState)
	}

	if g.focusMode {
		g.hint.SetText("  f to toggle")
		return
	}

	var turnLine, controlsLine string
	if g.BoardState.Finished() {
		turnLine = fmt.Sprintf("  Game over: %s", g.BoardState.Outcome)
		controlsLine = "  u undo · [ ] variations · q return to menu"
	} else {
		tag, side := playerTag(g.BoardState.PlayerToMove)
		switch {
		case g.eng == nil:
		case g.eng.HumanPlayer() == field.None:
			turnLine = fmt.Sprintf("  %s●[-] %s to move", tag, side)
		case g.eng.IsMyTurn():
			turnLine = fmt.Sprintf("  %s●[-] Your move (%s)", tag, side)
		default:
			turnLine = "  ◌ Thinking..."
		}
		controlsLine = "  hjkl move · ⏎ play · u/r undo/redo · [ ] variations · g ground · R resign · t threats · f focus · q quit"
	}
	if g.status != "" {
		turnLine += fmt.Sprintf("   [orange]%s[-]", tview.Escape(g.status))
	}
	g.hint.SetText(turnLine + "\n" + controlsLine)
}

// IsFinished returns true if the game is over.
func (g *DotsBoardUI) IsFinished() bool {
	return g.BoardState.Finished()
}
