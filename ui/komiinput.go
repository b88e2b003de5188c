package ui

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// KomiInput is a numeric input field for the komi given to the second
// player. '+' and '-' at the start of the field step by half a point.
type KomiInput struct {
	label    string
	value    float64
	text     string
	valid    bool
	focused  bool
	cursor   int
	onChange func(float64)
}

// NewKomiInput creates a new komi input field.
func NewKomiInput(label string, initial float64, onChange func(float64)) *KomiInput {
	k := &KomiInput{label: label, onChange: onChange}
	k.setText(formatKomi(initial))
	return k
}

func formatKomi(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// SetFocused sets the focus state.
func (k *KomiInput) SetFocused(focused bool) {
	k.focused = focused
}

// HandleKey processes keyboard input. Returns true if handled.
func (k *KomiInput) HandleKey(event *tcell.EventKey) bool {
	switch event.Key() {
	case tcell.KeyLeft:
		if k.cursor > 0 {
			k.cursor--
		}
		return true
	case tcell.KeyRight:
		if k.cursor < len(k.text) {
			k.cursor++
		}
		return true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if k.cursor > 0 {
			k.text = k.text[:k.cursor-1] + k.text[k.cursor:]
			k.cursor--
			k.updateValue()
		}
		return true
	case tcell.KeyDelete:
		if k.cursor < len(k.text) {
			k.text = k.text[:k.cursor] + k.text[k.cursor+1:]
			k.updateValue()
		}
		return true
	case tcell.KeyRune:
		ch := event.Rune()
		switch {
		case ch == '+' && k.valid:
			k.SetValue(k.value + 0.5)
		case ch == '-' && k.cursor > 0 && k.valid:
			k.SetValue(k.value - 0.5)
		case (ch >= '0' && ch <= '9') || ch == '.' || ch == '-':
			k.text = k.text[:k.cursor] + string(ch) + k.text[k.cursor:]
			k.cursor++
			k.updateValue()
		}
		return true
	}
	return false
}

func (k *KomiInput) updateValue() {
	val, err := strconv.ParseFloat(strings.TrimSpace(k.text), 64)
	k.valid = err == nil
	if k.valid {
		k.value = val
		if k.onChange != nil {
			k.onChange(k.value)
		}
	}
}

func (k *KomiInput) setText(s string) {
	k.text = s
	k.cursor = len(s)
	k.updateValue()
}

// Draw renders the komi input component.
// Returns the number of rows used.
func (k *KomiInput) Draw(screen tcell.Screen, x, y, width int) int {
	labelStyle := tcell.StyleDefault.Foreground(MenuColors.Label).Background(MenuColors.CardBG)
	inputStyle := tcell.StyleDefault.Foreground(MenuColors.Label).Background(tcell.PaletteColor(238))
	cursorStyle := tcell.StyleDefault.Foreground(MenuColors.CardBG).Background(MenuColors.Selected)
	if !k.valid {
		inputStyle = inputStyle.Foreground(MenuColors.Error)
	}

	col := drawItemLabel(screen, x, y, k.label, k.focused)

	// [ 0.5 ]
	screen.SetContent(col, y, '[', nil, labelStyle)
	screen.SetContent(col+1, y, ' ', nil, inputStyle)
	col += 2
	inputStart := col
	for i, ch := range k.text {
		style := inputStyle
		if k.focused && i == k.cursor {
			style = cursorStyle
		}
		screen.SetContent(col, y, ch, nil, style)
		col++
	}
	if k.focused && k.cursor >= len(k.text) {
		screen.SetContent(col, y, ' ', nil, cursorStyle)
		col++
	}
	for col < inputStart+6 {
		screen.SetContent(col, y, ' ', nil, inputStyle)
		col++
	}
	screen.SetContent(col, y, ' ', nil, inputStyle)
	screen.SetContent(col+1, y, ']', nil, labelStyle)
	return 1
}

// Value returns the last valid komi.
func (k *KomiInput) Value() float64 {
	return k.value
}

// Valid reports whether the text currently parses.
func (k *KomiInput) Valid() bool {
	return k.valid
}

// SetValue sets the komi value.
func (k *KomiInput) SetValue(v float64) {
	k.setText(formatKomi(v))
}
