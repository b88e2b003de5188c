package ui

import (
	"github.com/gdamore/tcell/v2"

	"termdots/field"
)

// MenuColors defines the Nord-inspired color palette for the menus.
var MenuColors = struct {
	Border      tcell.Color // Muted blue-gray for borders
	BorderFocus tcell.Color // Brighter blue for focused borders
	CardBG      tcell.Color // Dark gray background
	Title       tcell.Color // Bright white for title
	TitleAccent tcell.Color // Blue accent for decoration
	Label       tcell.Color // Light gray for labels
	Hint        tcell.Color // Dim gray for hints
	Selected    tcell.Color // Bright blue for selected items
	Unselected  tcell.Color // Dim gray for unselected items
	ButtonFocus tcell.Color // Focused button
	ButtonText  tcell.Color // Button text
	Error       tcell.Color // Rejected input
}{
	Border:      tcell.PaletteColor(60),
	BorderFocus: tcell.PaletteColor(109),
	CardBG:      tcell.PaletteColor(236),
	Title:       tcell.PaletteColor(255),
	TitleAccent: tcell.PaletteColor(109),
	Label:       tcell.PaletteColor(250),
	Hint:        tcell.PaletteColor(245),
	Selected:    tcell.PaletteColor(109),
	Unselected:  tcell.PaletteColor(245),
	ButtonFocus: tcell.PaletteColor(109),
	ButtonText:  tcell.PaletteColor(255),
	Error:       tcell.PaletteColor(167),
}

// playerTag returns the tview color tag and short name of a player for text
// views.
func playerTag(p field.Player) (tag, name string) {
	switch p {
	case field.First:
		return "[red]", "First"
	case field.Second:
		return "[blue]", "Second"
	}
	return "[dimgray]", "-"
}
