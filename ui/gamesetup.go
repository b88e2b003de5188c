package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"termdots/config"
	"termdots/field"
)

// menuItem is one focusable row of the setup card.
type menuItem interface {
	SetFocused(bool)
	HandleKey(*tcell.EventKey) bool
	Draw(screen tcell.Screen, x, y, width int) int
}

// GameSetupUI is the new game card. It edits a copy of the game and bot
// settings and hands it to onStart.
type GameSetupUI struct {
	*MenuCard
	game    config.GameDefaults
	bot     config.BotConfig
	items   []menuItem
	focus   int
	komi    *KomiInput
	message string

	onStart func(config.GameDefaults, config.BotConfig)
}

var baseModes = []field.BaseMode{field.AtLeastOneOpponentDot, field.AnySurrounding, field.AllOpponentDots}

func boolIndex(b bool) int {
	if b {
		return 1
	}
	return 0
}

// NewGameSetup creates the setup card from the saved settings.
func NewGameSetup(cfg *config.Config, onStart func(config.GameDefaults, config.BotConfig), onHistory, onColors, onQuit func()) *GameSetupUI {
	s := &GameSetupUI{
		MenuCard: NewMenuCard("T E R M D O T S"),
		game:     cfg.Game,
		bot:      cfg.Bot,
		onStart:  onStart,
	}

	mode := 0
	if m, err := field.ParseBaseMode(s.game.BaseMode); err == nil {
		mode = int(m)
	}
	s.komi = NewKomiInput("Komi", s.game.Komi, func(v float64) { s.game.Komi = v })

	s.items = []menuItem{
		NewLevelSlider("Width", 3, field.MaxBoardSize, s.game.Width, func(v int) { s.game.Width = v }),
		NewLevelSlider("Height", 3, field.MaxBoardSize, s.game.Height, func(v int) { s.game.Height = v }),
		NewRadioSelect("Opponent", []RadioOption{
			{Label: "Bot"},
			{Label: "Human", Description: "hot seat"},
		}, boolIndex(!s.bot.Enabled), func(i int) { s.bot.Enabled = i == 0 }),
		NewRadioSelect("Your side", []RadioOption{
			{Label: "First", Description: "moves first"},
			{Label: "Second"},
		}, boolIndex(s.bot.PlaySecond), func(i int) { s.bot.PlaySecond = i == 1 }),
		NewRadioSelect("Capture", []RadioOption{
			{Label: "Ring", Description: "enclose with a chain"},
			{Label: "Border", Description: "board edge closes areas"},
		}, boolIndex(s.game.CaptureByBorder), func(i int) { s.game.CaptureByBorder = i == 1 }),
		NewRadioSelect("Bases", []RadioOption{
			{Label: "Enemy inside", Description: "one enemy dot makes a base"},
			{Label: "Any", Description: "empty areas are bases too"},
			{Label: "Full", Description: "no free cells inside"},
		}, mode, func(i int) { s.game.BaseMode = baseModes[i].String() }),
		NewRadioSelect("Suicide", []RadioOption{
			{Label: "Forbidden"},
			{Label: "Allowed"},
		}, boolIndex(s.game.SuicideAllowed), func(i int) { s.game.SuicideAllowed = i == 1 }),
		NewRadioSelect("Start", []RadioOption{
			{Label: "Empty"},
			{Label: "Cross", Description: "four dots in the middle"},
		}, boolIndex(s.game.Cross), func(i int) { s.game.Cross = i == 1 }),
		s.komi,
		NewLevelSlider("Bot reach", 1, 5, s.bot.Radius, func(v int) { s.bot.Radius = v }),
		NewButtonRow(
			NewMenuButton("Start", true, s.start),
			NewMenuButton("History", false, onHistory),
			NewMenuButton("Colors", false, onColors),
			NewMenuButton("Quit", false, onQuit),
		),
	}
	s.setFocus(len(s.items) - 1)
	return s
}

func (s *GameSetupUI) start() {
	if !s.komi.Valid() {
		s.message = "komi is not a number"
		return
	}
	if _, err := field.NewRules(s.game.Width, s.game.Height); err != nil {
		s.message = err.Error()
		return
	}
	s.message = ""
	s.onStart(s.game, s.bot)
}

func (s *GameSetupUI) setFocus(i int) {
	s.items[s.focus].SetFocused(false)
	s.focus = (i + len(s.items)) % len(s.items)
	s.items[s.focus].SetFocused(true)
}

// SetMessage shows an error line under the menu, e.g. when a game failed to
// start.
func (s *GameSetupUI) SetMessage(msg string) {
	s.message = msg
}

// Draw renders the card centered on the screen.
func (s *GameSetupUI) Draw(screen tcell.Screen) {
	s.Box.DrawForSubclass(screen, s)
	x, y, width, height := s.GetInnerRect()

	cardW := min(width, 72)
	cardH := min(height, len(s.items)+11)
	cx, cy, cw, ch := s.DrawCard(screen, x+(width-cardW)/2, y+(height-cardH)/2, cardW, cardH)
	if cw == 0 {
		return
	}

	row := cy
	for i, item := range s.items {
		if row >= cy+ch {
			break
		}
		if i == len(s.items)-1 {
			row++
		}
		row += item.Draw(screen, cx, row, cw)
	}

	hintStyle := tcell.StyleDefault.Foreground(MenuColors.Hint).Background(MenuColors.CardBG)
	if s.message != "" {
		hintStyle = hintStyle.Foreground(MenuColors.Error)
		drawText(screen, cx, cy+ch-1, truncate(s.message, cw), hintStyle)
		return
	}
	drawText(screen, cx, cy+ch-1, truncate("↑↓ choose  ←→ change  ⏎ start", cw), hintStyle)
}

// InputHandler moves between rows and passes other keys to the focused row.
func (s *GameSetupUI) InputHandler() func(event *tcell.EventKey, setFocus func(p tview.Primitive)) {
	return s.WrapInputHandler(func(event *tcell.EventKey, setFocus func(p tview.Primitive)) {
		switch event.Key() {
		case tcell.KeyUp, tcell.KeyBacktab:
			s.setFocus(s.focus - 1)
			return
		case tcell.KeyDown, tcell.KeyTab:
			s.setFocus(s.focus + 1)
			return
		case tcell.KeyEnter:
			if _, ok := s.items[s.focus].(*ButtonRow); !ok {
				s.start()
				return
			}
		}
		s.items[s.focus].HandleKey(event)
	})
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width < 1 {
		return ""
	}
	return string(r[:width-1]) + "…"
}
