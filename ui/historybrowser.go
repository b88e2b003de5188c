package ui

import (
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"

	"termdots/field"
	"termdots/sgf"
	"termdots/types"
)

// HistoryBrowserUI provides a screen for browsing saved game records.
type HistoryBrowserUI struct {
	flex     *tview.Flex
	gameList *tview.List
	preview  *tview.Box
	hint     *tview.TextView
	dir      string
	games    []sgf.GameInfo
	boards   map[int]*types.BoardState // cached final positions
	selected int
	onLoad   func(path string)
	onDone   func()
}

// NewHistoryBrowser creates a history browser over the records in dir.
// onLoad is called with the path of the record to continue.
func NewHistoryBrowser(dir string, onLoad func(path string), onDone func()) *HistoryBrowserUI {
	hb := &HistoryBrowserUI{
		dir:    dir,
		onLoad: onLoad,
		onDone: onDone,
		boards: make(map[int]*types.BoardState),
	}

	hb.gameList = tview.NewList()
	hb.gameList.SetBorder(true)
	hb.gameList.SetTitle(" Game History ")
	hb.gameList.ShowSecondaryText(false)
	hb.gameList.SetHighlightFullLine(true)
	hb.gameList.SetMainTextStyle(tcell.StyleDefault.Foreground(MenuColors.Label))
	hb.gameList.SetSelectedStyle(tcell.StyleDefault.
		Foreground(MenuColors.ButtonText).
		Background(MenuColors.ButtonFocus))

	hb.preview = tview.NewBox()
	hb.preview.SetBorder(true)
	hb.preview.SetTitle(" Preview ")
	hb.preview.SetDrawFunc(hb.drawPreview)

	hb.hint = tview.NewTextView()
	hb.hint.SetDynamicColors(true)
	hb.hint.SetBorder(false)
	hb.hint.SetText("  [dimgray]enter[-] continue  [dimgray]d[-] delete  [dimgray]q[-] back")

	hb.gameList.SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		hb.selected = index
	})
	hb.gameList.SetInputCapture(hb.handleInput)

	topRow := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(hb.gameList, 42, 0, true).
		AddItem(hb.preview, 0, 1, false)

	hb.flex = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(topRow, 0, 1, true).
		AddItem(hb.hint, 1, 0, false)

	hb.loadGames()
	return hb
}

// Flex returns the flex container for this UI.
func (hb *HistoryBrowserUI) Flex() *tview.Flex {
	return hb.flex
}

// Refresh reloads the game list from disk.
func (hb *HistoryBrowserUI) Refresh() {
	clear(hb.boards)
	hb.loadGames()
}

func (hb *HistoryBrowserUI) loadGames() {
	hb.gameList.Clear()
	hb.games = nil
	hb.selected = 0

	games, err := sgf.ListGames(hb.dir)
	if err != nil {
		log.Warn().Err(err).Str("dir", hb.dir).Msg("list games")
	}
	if len(games) == 0 {
		hb.gameList.AddItem("[dimgray]No games found[-]", "", 0, nil)
		return
	}

	hb.games = games
	for _, g := range games {
		result := g.Result
		if result == "" || result == "?" {
			result = "..."
		}
		label := fmt.Sprintf("%s  %dx%d  %s", g.Date, g.Width, g.Height, result)
		hb.gameList.AddItem(label, "", 0, nil)
	}
}

func (hb *HistoryBrowserUI) handleInput(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyEscape:
		hb.done()
		return nil
	case tcell.KeyEnter:
		if hb.selected >= 0 && hb.selected < len(hb.games) && hb.onLoad != nil {
			hb.onLoad(hb.games[hb.selected].FilePath)
		}
		return nil
	case tcell.KeyRune:
		switch event.Rune() {
		case 'q':
			hb.done()
			return nil
		case 'd':
			hb.deleteSelected()
			return nil
		}
	}
	return event
}

func (hb *HistoryBrowserUI) done() {
	if hb.onDone != nil {
		hb.onDone()
	}
}

func (hb *HistoryBrowserUI) deleteSelected() {
	if hb.selected < 0 || hb.selected >= len(hb.games) {
		return
	}
	game := hb.games[hb.selected]
	if err := os.Remove(game.FilePath); err != nil {
		log.Error().Err(err).Str("path", game.FilePath).Msg("delete game")
	}
	hb.Refresh()
}

// board returns the final position of the selected game, replaying it on
// first use.
func (hb *HistoryBrowserUI) board() *types.BoardState {
	if bs, ok := hb.boards[hb.selected]; ok {
		return bs
	}
	f, _, err := sgf.ReplayToEnd(hb.games[hb.selected].FilePath)
	if err != nil {
		log.Warn().Err(err).Str("path", hb.games[hb.selected].FilePath).Msg("replay game")
		hb.boards[hb.selected] = nil
		return nil
	}
	bs := types.NewBoardState(f, nil)
	hb.boards[hb.selected] = bs
	return bs
}

// drawPreview renders a mini board and the game metadata.
func (hb *HistoryBrowserUI) drawPreview(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	if hb.selected < 0 || hb.selected >= len(hb.games) {
		return x, y, width, height
	}
	game := hb.games[hb.selected]
	bs := hb.board()
	if bs == nil {
		return x, y, width, height
	}

	w, h := bs.Width(), bs.Height()
	startX := x + 2
	startY := y + 1
	if width < w+4 || height < h+7 {
		drawText(screen, startX, startY, "window too small", tcell.StyleDefault.Foreground(MenuColors.Hint))
		return x, y, width, height
	}

	emptyStyle := tcell.StyleDefault.Foreground(tcell.PaletteColor(240))
	firstStyle := tcell.StyleDefault.Foreground(tcell.ColorRed)
	secondStyle := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	for by := 0; by < h; by++ {
		for bx := 0; bx < w; bx++ {
			c := bs.At(bx, by)
			ch := '·'
			style := emptyStyle
			switch c.Dot {
			case field.First:
				ch, style = '●', firstStyle
			case field.Second:
				ch, style = '●', secondStyle
			}
			if c.Captured() {
				ch = '○'
			}
			screen.SetContent(startX+bx, startY+by, ch, nil, style)
		}
	}

	infoY := startY + h + 1
	infoStyle := tcell.StyleDefault.Foreground(tcell.PaletteColor(250))
	dimStyle := tcell.StyleDefault.Foreground(tcell.PaletteColor(245))

	col := drawText(screen, startX, infoY, fmt.Sprintf("%dx%d", game.Width, game.Height), infoStyle)
	drawText(screen, col+1, infoY, fmt.Sprintf("| %d moves | %d : %d", game.MoveCount, bs.FirstScore, bs.SecondScore), dimStyle)
	infoY++
	drawText(screen, startX, infoY, "First: "+game.PlayerFirst, firstStyle)
	infoY++
	drawText(screen, startX, infoY, "Second: "+game.PlayerSecond, secondStyle)
	infoY++
	resultStyle := tcell.StyleDefault.Foreground(tcell.PaletteColor(109))
	drawText(screen, startX, infoY, "Result: "+sgf.DescribeResult(game.Result, game.PlayerFirst, game.PlayerSecond), resultStyle)

	return x, y, width, height
}

// drawText writes a string to the screen at the given position and returns
// the column after it.
func drawText(screen tcell.Screen, x, y int, text string, style tcell.Style) int {
	for _, ch := range text {
		screen.SetContent(x, y, ch, nil, style)
		x++
	}
	return x
}
