package ui

import (
	"strconv"

	"github.com/gdamore/tcell/v2"
)

// maxBarWidth caps the slider bar; wider ranges are drawn scaled.
const maxBarWidth = 20

// LevelSlider is a horizontal slider for picking a number in a range.
type LevelSlider struct {
	label    string
	min      int
	max      int
	value    int
	focused  bool
	onChange func(int)
}

// NewLevelSlider creates a new level slider.
func NewLevelSlider(label string, min, max, initial int, onChange func(int)) *LevelSlider {
	return &LevelSlider{
		label:    label,
		min:      min,
		max:      max,
		value:    clamp(initial, min, max),
		onChange: onChange,
	}
}

// SetFocused sets the focus state.
func (s *LevelSlider) SetFocused(focused bool) {
	s.focused = focused
}

// HandleKey processes keyboard input. Returns true if handled. PgUp and PgDn
// move in steps of five.
func (s *LevelSlider) HandleKey(event *tcell.EventKey) bool {
	switch event.Key() {
	case tcell.KeyLeft:
		s.SetValue(s.value - 1)
	case tcell.KeyRight:
		s.SetValue(s.value + 1)
	case tcell.KeyPgDn:
		s.SetValue(s.value - 5)
	case tcell.KeyPgUp:
		s.SetValue(s.value + 5)
	default:
		return false
	}
	return true
}

// Draw renders the slider component.
// Returns the number of rows used.
func (s *LevelSlider) Draw(screen tcell.Screen, x, y, width int) int {
	labelStyle := tcell.StyleDefault.Foreground(MenuColors.Label).Background(MenuColors.CardBG)
	selectedStyle := tcell.StyleDefault.Foreground(MenuColors.Selected).Background(MenuColors.CardBG)
	unselectedStyle := tcell.StyleDefault.Foreground(MenuColors.Unselected).Background(MenuColors.CardBG)

	col := drawItemLabel(screen, x, y, s.label, s.focused)

	arrowStyle := unselectedStyle
	if s.focused {
		arrowStyle = selectedStyle
	}
	screen.SetContent(col, y, '◀', nil, arrowStyle)
	col += 2

	barWidth, filled := s.bar()
	for i := 0; i < barWidth; i++ {
		char := '░'
		style := unselectedStyle
		if i < filled {
			char = '█'
			style = selectedStyle
		}
		screen.SetContent(col, y, char, nil, style)
		col++
	}
	col = drawText(screen, col+1, y, strconv.Itoa(s.value), labelStyle)
	screen.SetContent(col+1, y, '▶', nil, arrowStyle)
	return 1
}

// bar returns the drawn bar width and how much of it is filled.
func (s *LevelSlider) bar() (width, filled int) {
	span := s.max - s.min + 1
	if span <= maxBarWidth {
		return span, s.value - s.min + 1
	}
	return maxBarWidth, 1 + (s.value-s.min)*(maxBarWidth-1)/(span-1)
}

// Value returns the current slider value.
func (s *LevelSlider) Value() int {
	return s.value
}

// SetValue sets the slider value, clamped to the range.
func (s *LevelSlider) SetValue(v int) {
	v = clamp(v, s.min, s.max)
	if v == s.value {
		return
	}
	s.value = v
	if s.onChange != nil {
		s.onChange(s.value)
	}
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
