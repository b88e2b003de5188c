package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"

	"termdots/config"
)

type namedColor struct {
	code int
	name string
}

// Common board colors to choose from (light paper-like tones)
var boardColors = []namedColor{
	{230, "Light Cream"},
	{231, "White"},
	{255, "Paper"},
	{229, "Pale Yellow"},
	{223, "Peach"},
	{194, "Mint"},
	{195, "Ice"},
	{189, "Lavender"},
	{188, "Light Beige"},
	{252, "Light Gray"},
	{250, "Gray"},
	{180, "Tan"},
	{236, "Dark Gray"},
	{234, "Charcoal"},
	{16, "Black"},
}

// Dot colors, strong tones that stand out on the board
var dotColors = []namedColor{
	{160, "Red"},
	{196, "Bright Red"},
	{124, "Dark Red"},
	{202, "Orange"},
	{127, "Magenta"},
	{27, "Blue"},
	{21, "Deep Blue"},
	{33, "Sky Blue"},
	{25, "Navy"},
	{28, "Green"},
	{34, "Bright Green"},
	{30, "Teal"},
	{54, "Purple"},
	{94, "Brown"},
	{232, "Black"},
}

// colorTarget is the theme color being edited.
type colorTarget int

const (
	editBoard colorTarget = iota
	editFirst
	editSecond
)

var targetTitles = []string{
	editBoard:  " Board Color (Tab: first dots) ",
	editFirst:  " First Dots (Tab: second dots) ",
	editSecond: " Second Dots (Tab: board) ",
}

// ColorConfigUI provides a color configuration screen with live preview.
type ColorConfigUI struct {
	flex      *tview.Flex
	colorList *tview.List
	preview   *tview.Box
	cfg       *config.Config
	onDone    func()

	target     colorTarget
	colors     config.ConfigColors // colors being previewed
	populating bool
}

// NewColorConfig creates a new color configuration screen.
func NewColorConfig(cfg *config.Config, onDone func()) *ColorConfigUI {
	cc := &ColorConfigUI{
		cfg:    cfg,
		onDone: onDone,
		colors: cfg.Theme.Colors,
	}

	cc.colorList = tview.NewList()
	cc.colorList.SetBorder(true)
	cc.colorList.ShowSecondaryText(false)
	cc.populateColorList()

	cc.colorList.SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		if list := cc.choices(); !cc.populating && index >= 0 && index < len(list) {
			cc.set(list[index].code)
		}
	})
	cc.colorList.SetSelectedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		cc.apply()
	})

	cc.preview = tview.NewBox()
	cc.preview.SetBorder(true)
	cc.preview.SetTitle(" Board Preview ")
	cc.preview.SetDrawFunc(cc.drawPreview)

	cc.flex = tview.NewFlex().
		AddItem(cc.colorList, 34, 0, true).
		AddItem(cc.preview, 0, 1, false)

	return cc
}

func (cc *ColorConfigUI) choices() []namedColor {
	if cc.target == editBoard {
		return boardColors
	}
	return dotColors
}

func (cc *ColorConfigUI) current() int {
	switch cc.target {
	case editFirst:
		return cc.colors.FirstColor
	case editSecond:
		return cc.colors.SecondColor
	}
	return cc.colors.BoardColor
}

// set previews code for the edited color. Territory shades follow the dot
// and board colors.
func (cc *ColorConfigUI) set(code int) {
	switch cc.target {
	case editBoard:
		cc.colors.BoardColor = code
	case editFirst:
		cc.colors.FirstColor = code
	case editSecond:
		cc.colors.SecondColor = code
	}
	cc.colors.FirstAreaColor = areaShade(cc.colors.FirstColor, cc.colors.BoardColor)
	cc.colors.SecondAreaColor = areaShade(cc.colors.SecondColor, cc.colors.BoardColor)
}

// apply stores the previewed colors and saves the config.
func (cc *ColorConfigUI) apply() {
	cc.cfg.Theme.Colors = cc.colors
	if err := cc.cfg.Save(); err != nil {
		log.Error().Err(err).Msg("saving colors")
	}
	if cc.onDone != nil {
		cc.onDone()
	}
}

// Reset drops unsaved changes.
func (cc *ColorConfigUI) Reset() {
	cc.colors = cc.cfg.Theme.Colors
	cc.target = editBoard
	cc.populateColorList()
}

func (cc *ColorConfigUI) populateColorList() {
	cc.populating = true
	defer func() { cc.populating = false }()
	cc.colorList.Clear()
	cc.colorList.SetTitle(targetTitles[cc.target])
	cur := cc.current()
	for i, c := range cc.choices() {
		cc.colorList.AddItem(fmt.Sprintf("[#%06x]████[-] %s (%d)",
			tcell.PaletteColor(c.code).Hex(), c.name, c.code),
			"", rune('a'+i), nil)
	}
	for i, c := range cc.choices() {
		if c.code == cur {
			cc.colorList.SetCurrentItem(i)
			break
		}
	}
}

// areaShade picks the 256-color palette entry closest to a quarter of the
// dot color blended into the board color.
func areaShade(dot, board int) int {
	target := toColorful(board).BlendLab(toColorful(dot), 0.25)
	best, bestDist := board, -1.0
	// 0-15 are left out, terminals remap them.
	for code := 16; code < 256; code++ {
		d := target.DistanceLab(toColorful(code))
		if bestDist < 0 || d < bestDist {
			best, bestDist = code, d
		}
	}
	return best
}

func toColorful(code int) colorful.Color {
	r, g, b := tcell.PaletteColor(code).RGB()
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// previewDots is a small position with a captured dot: a First base at the
// top left and a free Second group.
var previewDots = map[[2]int]rune{
	{2, 1}: 'f', {1, 2}: 'f', {3, 2}: 'f', {2, 3}: 'f',
	{2, 2}: 'c',
	{5, 2}: 's', {5, 3}: 's', {6, 3}: 's', {4, 3}: 'f',
}

var previewArea = map[[2]int]bool{{2, 2}: true}

func (cc *ColorConfigUI) drawPreview(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	const cols, rows = 8, 6
	if width < cols*2+4 || height < rows+4 {
		return x, y, width, height
	}

	c := cc.colors
	sym := cc.cfg.Theme.Symbols
	base := tcell.StyleDefault.Background(tcell.PaletteColor(c.BoardColor))
	startX, startY := x+2, y+1

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			style := base.Foreground(tcell.PaletteColor(c.LineColor))
			if previewArea[[2]int{col, row}] {
				style = style.Background(tcell.PaletteColor(c.FirstAreaColor))
			}
			r := sym.BoardPoint
			switch previewDots[[2]int{col, row}] {
			case 'f':
				r, style = sym.FirstDot, style.Foreground(tcell.PaletteColor(c.FirstColor))
			case 's':
				r, style = sym.SecondDot, style.Foreground(tcell.PaletteColor(c.SecondColor))
			case 'c':
				r, style = sym.CapturedDot, style.Foreground(tcell.PaletteColor(c.SecondColor))
			}
			screen.SetContent(startX+col*2, startY+row, r, nil, style)
			screen.SetContent(startX+col*2+1, startY+row, ' ', nil, base)
		}
	}

	info := fmt.Sprintf("Board: %d  First: %d  Second: %d", c.BoardColor, c.FirstColor, c.SecondColor)
	drawText(screen, startX, startY+rows+1, truncate(info, width-4), tcell.StyleDefault)
	drawText(screen, startX, startY+rows+2, truncate("⏎ save  q cancel", width-4), tcell.StyleDefault.Foreground(MenuColors.Hint))
	return x, y, width, height
}

// Flex returns the flex container for this UI.
func (cc *ColorConfigUI) Flex() *tview.Flex {
	return cc.flex
}

// SetInputCapture sets the input capture for the color list.
func (cc *ColorConfigUI) SetInputCapture(capture func(event *tcell.EventKey) *tcell.EventKey) {
	cc.colorList.SetInputCapture(capture)
}

// ToggleMode switches to the next color to edit.
func (cc *ColorConfigUI) ToggleMode() {
	cc.target = (cc.target + 1) % 3
	cc.populateColorList()
}
