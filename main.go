// termdots is a terminal application to play dots against a built-in bot or
// another person at the same keyboard.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/adrg/xdg"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"termdots/config"
	"termdots/engine"
	"termdots/engine/local"
	"termdots/ui"
)

// Version is set at build time via ldflags
var Version = "dev"

const logFile = "termdots/termdots.log"

// Command-line flags. Unset ones keep the saved settings.
var (
	flagWidth      = flag.Int("width", 0, "Board width (1-52)")
	flagHeight     = flag.Int("height", 0, "Board height (1-52)")
	flagBorder     = flag.Bool("border", false, "Capture by the board border")
	flagMode       = flag.String("mode", "", "Base mode: at-least-one, any or all")
	flagSuicide    = flag.Bool("suicide", false, "Allow suicide moves")
	flagKomi       = flag.Float64("komi", 0, "Komi given to the second player")
	flagCross      = flag.Bool("cross", false, "Start with the four-dot cross")
	flagBot        = flag.Bool("bot", true, "Play against the built-in bot")
	flagSecond     = flag.Bool("second", false, "Play second against the bot")
	flagSeed       = flag.Uint64("seed", 0, "Bot random seed (0 for a fresh one)")
	flagLoad       = flag.String("load", "", "Continue a saved game from an SGF file")
	flagQuickStart = flag.Bool("play", false, "Start game immediately with defaults")
	flagFocus      = flag.Bool("focus", false, "Start in focus mode (fullscreen board)")
	flagDebug      = flag.Bool("debug", false, "Write debug output to the log")
	flagVersion    = flag.Bool("version", false, "Print version and exit")
)

var app *tview.Application
var rootPage *tview.Pages
var gameBoard *ui.DotsBoardUI
var gameFrame *tview.Flex
var gameHint *tview.TextView
var setupUI *ui.GameSetupUI
var historyUI *ui.HistoryBrowserUI
var cfg *config.Config

func main() {
	flag.Parse()

	if *flagVersion {
		fmt.Printf("termdots %s\n", Version)
		return
	}

	closeLog := setupLogging(*flagDebug)
	defer closeLog()

	var err error
	cfg, err = config.InitConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	applyFlags(set)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	gameFlags := len(set)
	if set["debug"] {
		gameFlags--
	}
	quickStart := gameFlags > 0

	app = tview.NewApplication()
	rootPage = tview.NewPages()
	rootPage.SetBorder(true).SetTitle(" ● termdots ● ")

	gameHint = tview.NewTextView()
	gameHint.SetDynamicColors(true)
	gameHint.SetBorder(true)
	gameHint.SetBorderPadding(0, 0, 1, 1)
	gameHint.SetTitle(" Status ")
	gameHint.SetTitleAlign(tview.AlignLeft)
	gameBoard = ui.NewDotsBoard(app, cfg, gameHint)
	gameFrame = ui.CreateGameLayout(gameBoard, gameHint)
	gameBoard.Box.SetInputCapture(handleGameKey)

	setupUI = ui.NewGameSetup(cfg,
		func(game config.GameDefaults, bot config.BotConfig) {
			cfg.Game, cfg.Bot = game, bot
			if err := cfg.Save(); err != nil {
				log.Error().Err(err).Msg("saving settings")
			}
			startGame(game, bot, "")
		},
		func() {
			historyUI.Refresh()
			rootPage.SwitchToPage("history")
		},
		func() {
			rootPage.SwitchToPage("colors")
		},
		func() {
			app.Stop()
		},
	)

	colorConfig := ui.NewColorConfig(cfg, func() {
		gameBoard.SetConfig(cfg)
		rootPage.SwitchToPage("setup")
	})
	colorConfig.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEsc || (event.Key() == tcell.KeyRune && event.Rune() == 'q') {
			colorConfig.Reset()
			rootPage.SwitchToPage("setup")
			return nil
		}
		if event.Key() == tcell.KeyTab {
			colorConfig.ToggleMode()
			return nil
		}
		return event
	})

	historyUI = ui.NewHistoryBrowser(cfg.GameHistoryDir(),
		func(path string) {
			startGame(cfg.Game, cfg.Bot, path)
		},
		func() {
			rootPage.SwitchToPage("setup")
		},
	)

	rootPage.AddPage("setup", setupUI, true, !quickStart)
	rootPage.AddPage("gameview", gameFrame, true, quickStart)
	rootPage.AddPage("colors", colorConfig.Flex(), true, false)
	rootPage.AddPage("history", historyUI.Flex(), true, false)

	if quickStart {
		startGame(cfg.Game, cfg.Bot, *flagLoad)
		if *flagFocus {
			gameBoard.SetFocusMode(true)
			ui.BuildFocusLayout(gameFrame, gameBoard)
		}
	}

	if err := app.SetRoot(rootPage, true).Run(); err != nil {
		log.Error().Err(err).Msg("terminal")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	gameBoard.Close()
}

// setupLogging sends zerolog output to the log file in the XDG state
// directory. The terminal belongs to the UI, so without a file logs are
// dropped.
func setupLogging(debug bool) func() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(io.Discard)

	path, err := xdg.StateFile(logFile)
	if err != nil {
		return func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return func() {}
	}
	log.Logger = zerolog.New(f).With().Timestamp().Logger()
	log.Info().Str("version", Version).Msg("termdots started")
	return func() { f.Close() }
}

// applyFlags overrides the saved settings with the flags given on the
// command line.
func applyFlags(set map[string]bool) {
	g, b := &cfg.Game, &cfg.Bot
	if set["width"] {
		g.Width = *flagWidth
	}
	if set["height"] {
		g.Height = *flagHeight
	}
	if set["border"] {
		g.CaptureByBorder = *flagBorder
	}
	if set["mode"] {
		g.BaseMode = *flagMode
	}
	if set["suicide"] {
		g.SuicideAllowed = *flagSuicide
	}
	if set["komi"] {
		g.Komi = *flagKomi
	}
	if set["cross"] {
		g.Cross = *flagCross
	}
	if set["bot"] {
		b.Enabled = *flagBot
	}
	if set["second"] {
		b.PlaySecond = *flagSecond
	}
	if set["seed"] {
		b.Seed = *flagSeed
	}
}

// handleGameKey maps keys on the game view to board actions.
func handleGameKey(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyUp:
		gameBoard.MoveSelection(0, -1)
	case tcell.KeyDown:
		gameBoard.MoveSelection(0, 1)
	case tcell.KeyLeft:
		gameBoard.MoveSelection(-1, 0)
	case tcell.KeyRight:
		gameBoard.MoveSelection(1, 0)
	case tcell.KeyEnter:
		gameBoard.PlayMove()
	case tcell.KeyEsc:
		gameBoard.ResetSelection()
	case tcell.KeyRune:
		switch event.Rune() {
		case 'q':
			if gameBoard.SelectedTile() != nil {
				gameBoard.ResetSelection()
				return nil
			}
			gameBoard.Close()
			rootPage.SwitchToPage("setup")
		case 'h':
			gameBoard.MoveSelection(-1, 0)
		case 'j':
			gameBoard.MoveSelection(0, 1)
		case 'k':
			gameBoard.MoveSelection(0, -1)
		case 'l':
			gameBoard.MoveSelection(1, 0)
		case ' ':
			gameBoard.PlayMove()
		case 'u':
			gameBoard.Undo()
		case 'r':
			gameBoard.Redo()
		case '[':
			gameBoard.PrevVariation()
		case ']':
			gameBoard.NextVariation()
		case 'g':
			gameBoard.Ground()
		case 'R':
			gameBoard.Resign()
		case 't':
			gameBoard.ToggleThreats()
		case 'f':
			if gameBoard.ToggleFocusMode() {
				ui.BuildFocusLayout(gameFrame, gameBoard)
			} else {
				ui.RebuildNormalLayout(gameFrame, gameBoard, gameHint)
			}
		}
	}
	return nil
}

// startGame starts a new game, or continues the one saved at loadPath.
func startGame(game config.GameDefaults, bot config.BotConfig, loadPath string) {
	gameCfg, err := engine.NewGameConfig(game, bot, cfg.GameHistoryDir())
	if err != nil {
		showError(err)
		return
	}
	gameCfg.LoadSGFPath = loadPath

	gameBoard.Close()
	eng := local.NewLocalEngine(gameCfg)
	if err := gameBoard.ConnectEngine(eng, gameCfg.PlayerNames); err != nil {
		log.Error().Err(err).Str("load", loadPath).Msg("starting game")
		showError(err)
		return
	}
	if !gameBoard.IsFocusMode() {
		ui.RebuildNormalLayout(gameFrame, gameBoard, gameHint)
	}
	rootPage.SwitchToPage("gameview")
}

func showError(err error) {
	modal := tview.NewModal().
		SetText(fmt.Sprintf("Failed to start game:\n%s", err.Error())).
		AddButtons([]string{"OK"}).
		SetDoneFunc(func(buttonIndex int, buttonLabel string) {
			rootPage.RemovePage("error")
			rootPage.SwitchToPage("setup")
		})
	rootPage.AddPage("error", modal, true, true)
	setupUI.SetMessage(err.Error())
}
