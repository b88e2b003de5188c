// Package engine defines the interface between the UI and a running game.
package engine

import (
	"termdots/config"
	"termdots/field"
	"termdots/types"
)

// GameEngine defines the interface for playing a game of dots.
type GameEngine interface {
	// Connect initializes the game. If the bot moves first it starts
	// thinking before Connect returns.
	Connect() error

	// GetBoardState returns a snapshot of the current position.
	GetBoardState() *types.BoardState

	// PlayMove places a dot at the given 0-based coordinates.
	// Returns an error if the move is illegal or it is not the player's turn.
	PlayMove(x, y int) error

	// Ground ends the game by grounding the side to move.
	Ground() error

	// Resign ends the game in favour of the opponent of the side to move.
	Resign() error

	// IsMyTurn returns true if a human may move now.
	IsMyTurn() bool

	// HumanPlayer returns the human's side, or None in hot-seat games.
	HumanPlayer() field.Player

	// OnMove registers a callback for when a move is played (by either player)
	// or the position changes through navigation. boardState is a copy taken
	// under the engine lock.
	OnMove(func(move field.Move, boardState *types.BoardState))

	// Undo steps back one move. Against the bot it steps back to the
	// human's previous turn.
	Undo() error

	// Redo replays the most recently visited continuation.
	Redo() error

	// PrevVariation and NextVariation switch to a sibling of the current move.
	PrevVariation() error
	NextVariation() error

	// ToggleThreats switches the threat overlay on or off and returns the new
	// setting.
	ToggleThreats() bool

	// OnGameEnd registers a callback for when the game ends.
	OnGameEnd(func(outcome string))

	// Close stops the engine and closes the game record.
	Close()
}

// GameConfig holds configuration for starting a new game.
type GameConfig struct {
	Rules field.Rules
	// VsBot pits the human against the built-in bot; otherwise both sides
	// are played at the same keyboard.
	VsBot       bool
	HumanPlayer field.Player // First or Second, used with VsBot
	BotSeed     uint64       // 0 for a fresh seed
	BotRadius   int
	HistoryDir  string // empty disables the game record
	PlayerNames [2]string
	LoadSGFPath string // continue a saved game instead of starting fresh
}

// DefaultConfig returns a reasonable default configuration.
func DefaultConfig() GameConfig {
	return GameConfig{
		Rules:       field.DefaultRules(),
		VsBot:       true,
		HumanPlayer: field.First,
		BotRadius:   2,
		PlayerNames: [2]string{"Human", "termdots"},
	}
}

// NewGameConfig builds a game configuration from saved settings. Records go
// to historyDir; an empty one disables them.
func NewGameConfig(game config.GameDefaults, bot config.BotConfig, historyDir string) (GameConfig, error) {
	rules, err := game.Rules()
	if err != nil {
		return GameConfig{}, err
	}
	cfg := GameConfig{
		Rules:       rules,
		VsBot:       bot.Enabled,
		HumanPlayer: field.First,
		BotSeed:     bot.Seed,
		BotRadius:   bot.Radius,
		HistoryDir:  historyDir,
		PlayerNames: [2]string{"First", "Second"},
	}
	if bot.Enabled {
		cfg.PlayerNames = [2]string{"Human", "termdots"}
		if bot.PlaySecond {
			cfg.HumanPlayer = field.Second
			cfg.PlayerNames = [2]string{"termdots", "Human"}
		}
	}
	return cfg, nil
}
