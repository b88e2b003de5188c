package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// MenuCard is a styled card container with rounded borders and a title. The
// content area starts at ContentY.
type MenuCard struct {
	*tview.Box
	title string
}

// NewMenuCard creates a new menu card with the given title.
func NewMenuCard(title string) *MenuCard {
	return &MenuCard{
		Box:   tview.NewBox(),
		title: title,
	}
}

// DrawCard renders the card frame inside the given rectangle and returns the
// rectangle left for content.
func (c *MenuCard) DrawCard(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	if width < 10 || height < 7 {
		return x, y, 0, 0
	}

	borderColor := MenuColors.Border
	if c.HasFocus() {
		borderColor = MenuColors.BorderFocus
	}
	borderStyle := tcell.StyleDefault.Foreground(borderColor).Background(MenuColors.CardBG)
	bgStyle := tcell.StyleDefault.Background(MenuColors.CardBG)

	for row := y; row < y+height; row++ {
		for col := x; col < x+width; col++ {
			screen.SetContent(col, row, ' ', nil, bgStyle)
		}
	}

	// ╭───╮ │ │ ╰───╯
	c.hline(screen, x, y, width, '╭', '╮', borderStyle)
	for row := y + 1; row < y+height-1; row++ {
		screen.SetContent(x, row, '│', nil, borderStyle)
		screen.SetContent(x+width-1, row, '│', nil, borderStyle)
	}
	c.hline(screen, x, y+height-1, width, '╰', '╯', borderStyle)

	if c.title == "" {
		return x + 2, y + 1, width - 4, height - 2
	}

	// Title with dot decoration: ● T E R M D O T S ●
	titleStyle := tcell.StyleDefault.Foreground(MenuColors.Title).Background(MenuColors.CardBG).Bold(true)
	firstStyle := tcell.StyleDefault.Foreground(tcell.ColorRed).Background(MenuColors.CardBG)
	secondStyle := tcell.StyleDefault.Foreground(tcell.ColorBlue).Background(MenuColors.CardBG)
	titleLen := len([]rune(c.title)) + 6
	titleX := x + (width-titleLen)/2
	screen.SetContent(titleX, y+2, '●', nil, firstStyle)
	for i, ch := range []rune(c.title) {
		screen.SetContent(titleX+3+i, y+2, ch, nil, titleStyle)
	}
	screen.SetContent(titleX+titleLen-1, y+2, '●', nil, secondStyle)

	c.hline(screen, x, y+4, width, '├', '┤', borderStyle)
	return x + 2, y + 5, width - 4, height - 6
}

func (c *MenuCard) hline(screen tcell.Screen, x, y, width int, left, right rune, style tcell.Style) {
	screen.SetContent(x, y, left, nil, style)
	for col := x + 1; col < x+width-1; col++ {
		screen.SetContent(col, y, '─', nil, style)
	}
	screen.SetContent(x+width-1, y, right, nil, style)
}
