package ui

import (
	"github.com/gdamore/tcell/v2"
)

// MenuButton is a styled button component.
type MenuButton struct {
	label    string
	primary  bool
	focused  bool
	onSelect func()
}

// NewMenuButton creates a new menu button.
func NewMenuButton(label string, primary bool, onSelect func()) *MenuButton {
	return &MenuButton{
		label:    label,
		primary:  primary,
		onSelect: onSelect,
	}
}

// SetFocused sets the focus state.
func (b *MenuButton) SetFocused(focused bool) {
	b.focused = focused
}

// HandleKey processes keyboard input. Returns true if handled.
func (b *MenuButton) HandleKey(event *tcell.EventKey) bool {
	if event.Key() == tcell.KeyEnter {
		if b.onSelect != nil {
			b.onSelect()
		}
		return true
	}
	return false
}

func (b *MenuButton) text() string {
	if b.primary {
		return "▶ " + b.label
	}
	return b.label
}

// Draw renders the button at the given position and returns the width used.
func (b *MenuButton) Draw(screen tcell.Screen, x, y int) int {
	label := b.text()
	width := b.Width()

	if b.focused {
		style := tcell.StyleDefault.
			Foreground(MenuColors.ButtonText).
			Background(MenuColors.ButtonFocus)
		for i := 0; i < width; i++ {
			screen.SetContent(x+i, y, ' ', nil, style)
		}
		drawText(screen, x+1, y, label, style)
		return width
	}

	dimStyle := tcell.StyleDefault.Foreground(MenuColors.Hint).Background(MenuColors.CardBG)
	bracketStyle := tcell.StyleDefault.Foreground(MenuColors.Border).Background(MenuColors.CardBG)
	screen.SetContent(x, y, '[', nil, bracketStyle)
	drawText(screen, x+1, y, label, dimStyle)
	screen.SetContent(x+width-1, y, ']', nil, bracketStyle)
	return width
}

// Width returns the button width.
func (b *MenuButton) Width() int {
	return len([]rune(b.text())) + 2
}

// ButtonRow is a line of buttons that takes one focus slot in a menu; Left
// and Right move between its buttons.
type ButtonRow struct {
	buttons []*MenuButton
	current int
	focused bool
}

// NewButtonRow groups buttons into a row. The first one starts focused.
func NewButtonRow(buttons ...*MenuButton) *ButtonRow {
	return &ButtonRow{buttons: buttons}
}

func (r *ButtonRow) SetFocused(focused bool) {
	r.focused = focused
	for i, b := range r.buttons {
		b.SetFocused(focused && i == r.current)
	}
}

func (r *ButtonRow) HandleKey(event *tcell.EventKey) bool {
	switch event.Key() {
	case tcell.KeyLeft:
		if r.current > 0 {
			r.current--
		}
	case tcell.KeyRight:
		if r.current < len(r.buttons)-1 {
			r.current++
		}
	default:
		if len(r.buttons) == 0 {
			return false
		}
		return r.buttons[r.current].HandleKey(event)
	}
	r.SetFocused(r.focused)
	return true
}

// Draw renders the buttons centered in width. Returns the number of rows used.
func (r *ButtonRow) Draw(screen tcell.Screen, x, y, width int) int {
	total := 0
	for _, b := range r.buttons {
		total += b.Width() + 2
	}
	col := x + max((width-total)/2, 0)
	for _, b := range r.buttons {
		col += b.Draw(screen, col, y) + 2
	}
	return 1
}
