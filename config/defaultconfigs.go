package config

var DefaultConfig Config
var DefaultTheme Theme

func init() {
	DefaultTheme = Theme{
		DrawCursorBackground:     true,
		DrawLastPlayedBackground: true,
		ShadeTerritory:           true,
		Colors: ConfigColors{
			BoardColor:        230,
			LineColor:         250,
			FirstColor:        160,
			SecondColor:       27,
			FirstAreaColor:    224,
			SecondAreaColor:   153,
			CursorColorFG:     2,
			CursorColorBG:     4,
			LastPlayedColorBG: 2,
			ThreatColorBG:     214,
		},
		Symbols: ConfigSymbols{
			FirstDot:    '●',
			SecondDot:   '●',
			CapturedDot: '○',
			BoardPoint:  '·',
			EmptyBase:   '∙',
			Cursor:      '+',
			Forbidden:   '×',
		},
	}

	DefaultConfig = Config{
		Theme: DefaultTheme,
		Game: GameDefaults{
			Width:    39,
			Height:   32,
			BaseMode: "at-least-one",
			Cross:    true,
		},
		Bot: BotConfig{
			Enabled: true,
			Radius:  2,
		},
	}
}
