package ui

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"

	"termdots/field"
	"termdots/types"
)

// maxVisibleMoves is how many entries of the move list the panel shows.
const maxVisibleMoves = 12

// GameInfoPanel displays game information and move history alongside the board.
type GameInfoPanel struct {
	box        *tview.TextView
	boardState *types.BoardState
	players    [2]string
	threats    bool
}

// NewGameInfoPanel creates a new game info panel.
func NewGameInfoPanel() *GameInfoPanel {
	panel := &GameInfoPanel{
		box:     tview.NewTextView(),
		players: [2]string{"First", "Second"},
	}

	panel.box.SetDynamicColors(true)
	panel.box.SetBorder(false)
	panel.box.SetTextAlign(tview.AlignLeft)

	return panel
}

// Box returns the underlying tview component.
func (p *GameInfoPanel) Box() *tview.TextView {
	return p.box
}

// SetBoardState updates the panel with current board state.
func (p *GameInfoPanel) SetBoardState(state *types.BoardState) {
	p.boardState = state
	p.refresh()
}

// SetPlayers sets the names shown for the first and second player.
func (p *GameInfoPanel) SetPlayers(names [2]string) {
	p.players = names
}

// SetThreats records whether the threat overlay is shown.
func (p *GameInfoPanel) SetThreats(on bool) {
	p.threats = on
}

func (p *GameInfoPanel) name(pl field.Player) string {
	if pl == field.Second {
		return p.players[1]
	}
	return p.players[0]
}

func (p *GameInfoPanel) refresh() {
	p.box.SetText(p.text())
}

func (p *GameInfoPanel) text() string {
	bs := p.boardState
	if bs == nil || bs.Width() == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("[white::b]Game Info[-:-:-]\n")
	b.WriteString("[dimgray]──────────────────────[-:-:-]\n")

	for _, pl := range []field.Player{field.First, field.Second} {
		tag, _ := playerTag(pl)
		score := bs.FirstScore
		if pl == field.Second {
			score = bs.SecondScore
		}
		marker := " "
		if !bs.Finished() && bs.PlayerToMove == pl {
			marker = "[white]>[-]"
		}
		fmt.Fprintf(&b, "%s%s●[-] %-12s %3d\n", marker, tag, tview.Escape(p.name(pl)), score)
	}
	if bs.Komi != 0 {
		fmt.Fprintf(&b, "[white]Komi:[-:-:-] %g\n", bs.Komi)
	}
	fmt.Fprintf(&b, "[white]Move:[-:-:-] %d\n", bs.MoveNumber)
	if bs.Variations > 1 {
		fmt.Fprintf(&b, "[white]Variation:[-:-:-] %d/%d\n", bs.Variation+1, bs.Variations)
	}
	if p.threats {
		b.WriteString("[orange]Threats shown[-]\n")
	}
	if bs.Finished() {
		fmt.Fprintf(&b, "\n[yellow::b]%s[-:-:-]\n", bs.Outcome)
	}

	if len(bs.History) == 0 {
		return b.String()
	}
	b.WriteString("\n[white::b]Moves[-:-:-]\n")
	b.WriteString("[dimgray]──────────────────────[-:-:-]\n")

	start := max(len(bs.History)-maxVisibleMoves, 0)
	if start > 0 {
		fmt.Fprintf(&b, "[dimgray]  ··· %d earlier[-]\n", start)
	}
	for i := start; i < len(bs.History); i++ {
		m := bs.History[i]
		tag, _ := playerTag(m.Player)
		marker := " "
		if i == len(bs.History)-1 {
			marker = "[white]>[-]"
		}
		capture := ""
		if m.Captured > 0 {
			capture = fmt.Sprintf(" [green]+%d[-]", m.Captured)
		}
		fmt.Fprintf(&b, "%s[dimgray]%3d.[-] %s●[-] %s%s\n", marker, i+1, tag, m.Label(), capture)
	}
	return b.String()
}

// CreateGameLayout creates the main game layout with board and side panel.
func CreateGameLayout(board *DotsBoardUI, hint *tview.TextView) *tview.Flex {
	mainFlex := tview.NewFlex()
	RebuildNormalLayout(mainFlex, board, hint)
	return mainFlex
}

// RebuildNormalLayout restores the normal game layout with board, info panel, and hint.
func RebuildNormalLayout(gameFrame *tview.Flex, board *DotsBoardUI, hint *tview.TextView) {
	gameFrame.Clear()

	infoPanel := NewGameInfoPanel()
	board.infoPanel = infoPanel
	board.refreshHint()

	boardRow := tview.NewFlex().SetDirection(tview.FlexColumn)
	boardRow.AddItem(board.Box, 0, 1, true)
	boardRow.AddItem(infoPanel.Box(), 26, 0, false)

	gameFrame.SetDirection(tview.FlexRow)
	gameFrame.AddItem(boardRow, 0, 1, true)
	gameFrame.AddItem(hint, 4, 0, false)
}

// BuildFocusLayout builds the focus mode layout with just the centered board.
func BuildFocusLayout(gameFrame *tview.Flex, board *DotsBoardUI) {
	gameFrame.Clear()
	board.infoPanel = nil

	boardWidth, boardHeight := 22, 11
	if board.BoardState != nil && board.BoardState.Width() > 0 {
		boardWidth = board.BoardState.Width()*2 + 4
		boardHeight = board.BoardState.Height() + 1
	}

	gameFrame.SetDirection(tview.FlexRow)
	gameFrame.AddItem(nil, 0, 1, false)

	centerRow := tview.NewFlex().SetDirection(tview.FlexColumn)
	centerRow.AddItem(nil, 0, 1, false)
	centerRow.AddItem(board.Box, boardWidth, 0, true)
	centerRow.AddItem(nil, 0, 1, false)

	gameFrame.AddItem(centerRow, boardHeight, 0, true)
	gameFrame.AddItem(nil, 0, 1, false)
}
