package ui

import (
	"github.com/gdamore/tcell/v2"
)

// RadioOption represents a single radio button option.
type RadioOption struct {
	Label       string
	Description string
}

// RadioSelect is a radio button group drawn on one row: the label, then every
// option, then the description of the selected one.
type RadioSelect struct {
	label    string
	options  []RadioOption
	selected int
	focused  bool
	onChange func(int)
}

// NewRadioSelect creates a new radio select component.
func NewRadioSelect(label string, options []RadioOption, initial int, onChange func(int)) *RadioSelect {
	if initial < 0 || initial >= len(options) {
		initial = 0
	}
	return &RadioSelect{
		label:    label,
		options:  options,
		selected: initial,
		onChange: onChange,
	}
}

// SetFocused sets the focus state.
func (r *RadioSelect) SetFocused(focused bool) {
	r.focused = focused
}

// HandleKey processes keyboard input. Returns true if handled.
func (r *RadioSelect) HandleKey(event *tcell.EventKey) bool {
	switch event.Key() {
	case tcell.KeyLeft:
		r.SetSelected(r.selected - 1)
		return true
	case tcell.KeyRight:
		r.SetSelected(r.selected + 1)
		return true
	case tcell.KeyRune:
		if event.Rune() == ' ' {
			r.SetSelected((r.selected + 1) % len(r.options))
			return true
		}
	}
	return false
}

// Draw renders the radio select component.
// Returns the number of rows used.
func (r *RadioSelect) Draw(screen tcell.Screen, x, y, width int) int {
	selectedStyle := tcell.StyleDefault.Foreground(MenuColors.Selected).Background(MenuColors.CardBG)
	unselectedStyle := tcell.StyleDefault.Foreground(MenuColors.Unselected).Background(MenuColors.CardBG)
	hintStyle := tcell.StyleDefault.Foreground(MenuColors.Hint).Background(MenuColors.CardBG)

	col := drawItemLabel(screen, x, y, r.label, r.focused)
	for i, opt := range r.options {
		style := unselectedStyle
		bullet := '○'
		if i == r.selected {
			bullet = '●'
			style = selectedStyle
		}
		screen.SetContent(col, y, bullet, nil, style)
		col = drawText(screen, col+2, y, opt.Label, style) + 2
	}
	if desc := r.options[r.selected].Description; desc != "" && col+len([]rune(desc)) < x+width {
		drawText(screen, col, y, desc, hintStyle)
	}
	return 1
}

// Selected returns the currently selected index.
func (r *RadioSelect) Selected() int {
	return r.selected
}

// SetSelected sets the selected index. Out of range indexes are ignored.
func (r *RadioSelect) SetSelected(index int) {
	if index < 0 || index >= len(r.options) || index == r.selected {
		return
	}
	r.selected = index
	if r.onChange != nil {
		r.onChange(r.selected)
	}
}

// labelWidth aligns the values of all menu rows.
const labelWidth = 14

// drawItemLabel draws the focus cursor and "◈ Label" padded to labelWidth.
// It returns the column where the value starts.
func drawItemLabel(screen tcell.Screen, x, y int, label string, focused bool) int {
	bgStyle := tcell.StyleDefault.Background(MenuColors.CardBG)
	labelStyle := tcell.StyleDefault.Foreground(MenuColors.Label).Background(MenuColors.CardBG)
	accentStyle := tcell.StyleDefault.Foreground(MenuColors.TitleAccent).Background(MenuColors.CardBG)
	selectedStyle := tcell.StyleDefault.Foreground(MenuColors.Selected).Background(MenuColors.CardBG)

	if focused {
		screen.SetContent(x, y, '▸', nil, selectedStyle)
	} else {
		screen.SetContent(x, y, ' ', nil, bgStyle)
	}
	screen.SetContent(x+2, y, '◈', nil, accentStyle)
	drawText(screen, x+4, y, label, labelStyle)
	return x + 4 + labelWidth
}
