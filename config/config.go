package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"termdots/field"
)

var (
	cfgFile     = "termdots/config.json"
	historyFile = "termdots/history/.keep"
)

type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("Config error: %s", e.err)
}

type ConfigColors struct {
	BoardColor        int `json:"board"`
	LineColor         int `json:"line"`
	FirstColor        int `json:"first"`
	SecondColor       int `json:"second"`
	FirstAreaColor    int `json:"first_area"`
	SecondAreaColor   int `json:"second_area"`
	CursorColorFG     int `json:"cursor_fg"`
	CursorColorBG     int `json:"cursor_bg"`
	LastPlayedColorBG int `json:"last_played_bg"`
	ThreatColorBG     int `json:"threat_bg"`
}

type ConfigSymbols struct {
	FirstDot    rune `json:"first"`
	SecondDot   rune `json:"second"`
	CapturedDot rune `json:"captured"`
	BoardPoint  rune `json:"board"`
	EmptyBase   rune `json:"empty_base"`
	Cursor      rune `json:"cursor"`
	Forbidden   rune `json:"forbidden"`
}

type Theme struct {
	DrawCursorBackground     bool          `json:"draw_cursor_bg"`
	DrawLastPlayedBackground bool          `json:"draw_last_played_bg"`
	ShadeTerritory           bool          `json:"shade_territory"`
	Colors                   ConfigColors  `json:"colors"`
	Symbols                  ConfigSymbols `json:"symbols"`
}

// GameDefaults are the rules offered by the setup screen and used by -play.
type GameDefaults struct {
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	CaptureByBorder bool    `json:"capture_by_border"`
	BaseMode        string  `json:"base_mode"`
	SuicideAllowed  bool    `json:"suicide_allowed"`
	Komi            float64 `json:"komi"`
	Cross           bool    `json:"cross"`
}

// BotConfig holds settings of the built-in opponent.
type BotConfig struct {
	Enabled bool `json:"enabled"`
	// Seed of the bot's random choices. Zero picks a new seed every game.
	Seed uint64 `json:"seed"`
	// Radius bounds how far from existing dots a random move may land.
	Radius int `json:"radius"`
	// PlaySecond gives the human the second move.
	PlaySecond bool `json:"play_second"`
}

type Config struct {
	Theme      Theme        `json:"theme"`
	Game       GameDefaults `json:"game"`
	Bot        BotConfig    `json:"bot"`
	HistoryDir string       `json:"history_dir,omitempty"`
}

func InitConfig() (*Config, error) {
	config := DefaultConfig
	absPath, err := xdg.SearchConfigFile(cfgFile)
	if err == nil {
		if err := readCfgFile(absPath, &config); err != nil {
			return nil, err
		}
	}
	if err = config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	for _, r := range []rune{c.Theme.Symbols.FirstDot, c.Theme.Symbols.SecondDot, c.Theme.Symbols.CapturedDot,
		c.Theme.Symbols.BoardPoint, c.Theme.Symbols.EmptyBase, c.Theme.Symbols.Cursor, c.Theme.Symbols.Forbidden} {
		if r < 32 || (r >= 127 && r <= 159) {
			return &InvalidConfig{"Unicode characters 1-31 and 127-159 are not allowed"}
		}
	}
	if _, err := c.Rules(); err != nil {
		return &InvalidConfig{err.Error()}
	}
	if c.Bot.Radius < 1 {
		return &InvalidConfig{fmt.Sprintf("bot radius must be positive, got %d", c.Bot.Radius)}
	}
	return nil
}

// Rules builds field rules from the game defaults.
func (c *Config) Rules() (field.Rules, error) {
	return c.Game.Rules()
}

// Rules builds and validates field rules.
func (g GameDefaults) Rules() (field.Rules, error) {
	mode, err := field.ParseBaseMode(g.BaseMode)
	if err != nil {
		return field.Rules{}, err
	}
	opts := []field.RuleOption{
		field.WithCaptureByBorder(g.CaptureByBorder),
		field.WithBaseMode(mode),
		field.WithSuicide(g.SuicideAllowed),
		field.WithKomi(g.Komi),
	}
	if g.Cross {
		opts = append(opts, field.WithCross())
	}
	return field.NewRules(g.Width, g.Height, opts...)
}

// GameHistoryDir returns the directory game records are written to: the
// configured one, or termdots/history under the XDG data home.
func (c *Config) GameHistoryDir() string {
	if c.HistoryDir != "" {
		return c.HistoryDir
	}
	return HistoryDir()
}

// HistoryDir is the default history directory. It is created if missing.
func HistoryDir() string {
	p, err := xdg.DataFile(historyFile)
	if err != nil {
		return filepath.Join(xdg.DataHome, "termdots", "history")
	}
	return filepath.Dir(p)
}

func (c *Config) Save() error {
	absPath, err := xdg.ConfigFile(cfgFile)
	if err != nil {
		return fmt.Errorf("locate config file: %w", err)
	}
	return saveCfgFile(absPath, c, 0664)
}

func saveCfgFile(filePath string, a any, perm fs.FileMode) error {
	jsonData, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, jsonData, perm)
}

func readCfgFile(filePath string, a any) error {
	data, err := os.ReadFile(filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, a); err != nil {
		return &InvalidConfig{fmt.Sprintf("%s: %s", filePath, err)}
	}
	return nil
}
