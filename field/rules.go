package field

import (
	"fmt"
	"strings"
)

// MaxBoardSize bounds both board dimensions. It matches the 52 letters
// available to game-record coordinates.
const MaxBoardSize = 52

// BaseMode decides which enclosures capture.
type BaseMode uint8

const (
	// AtLeastOneOpponentDot captures when a live opponent dot is inside.
	AtLeastOneOpponentDot BaseMode = iota
	// AnySurrounding captures every enclosure, empty or not.
	AnySurrounding
	// AllOpponentDots captures only enclosures without a single free cell.
	AllOpponentDots
)

var baseModeNames = [...]string{
	AtLeastOneOpponentDot: "at-least-one",
	AnySurrounding:        "any",
	AllOpponentDots:       "all",
}

func (m BaseMode) String() string {
	if int(m) < len(baseModeNames) {
		return baseModeNames[m]
	}
	return fmt.Sprintf("BaseMode(%d)", m)
}

// ParseBaseMode accepts the names produced by BaseMode.String.
func ParseBaseMode(s string) (BaseMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range baseModeNames {
		if s == name {
			return BaseMode(i), nil
		}
	}
	return 0, &RulesError{Param: "base mode", Reason: fmt.Sprintf("unknown mode %q", s)}
}

// Placement is a dot placed before the first move, given in board
// coordinates.
type Placement struct {
	X, Y   int
	Player Player
}

// Rules configure a game. A Field copies them on creation and never changes
// them.
type Rules struct {
	Width           int
	Height          int
	CaptureByBorder bool
	BaseMode        BaseMode
	SuicideAllowed  bool
	Komi            float64
	InitialMoves    []Placement
}

// RulesError reports an invalid game configuration.
type RulesError struct {
	Param  string
	Reason string
}

func (e *RulesError) Error() string {
	return fmt.Sprintf("rules: %s: %s", e.Param, e.Reason)
}

// RuleOption adjusts rules built by NewRules.
type RuleOption func(*Rules)

func WithCaptureByBorder(on bool) RuleOption { return func(r *Rules) { r.CaptureByBorder = on } }
func WithBaseMode(m BaseMode) RuleOption     { return func(r *Rules) { r.BaseMode = m } }
func WithSuicide(allowed bool) RuleOption    { return func(r *Rules) { r.SuicideAllowed = allowed } }
func WithKomi(komi float64) RuleOption       { return func(r *Rules) { r.Komi = komi } }

// WithInitialMoves appends pre-placed dots.
func WithInitialMoves(ps ...Placement) RuleOption {
	return func(r *Rules) { r.InitialMoves = append(r.InitialMoves, ps...) }
}

// WithCross pre-places the standard four-dot cross in the middle of the board.
func WithCross() RuleOption {
	return func(r *Rules) { r.InitialMoves = append(r.InitialMoves, CrossInitialMoves(r.Width, r.Height)...) }
}

// NewRules builds and validates rules for a width x height board.
func NewRules(width, height int, opts ...RuleOption) (Rules, error) {
	r := Rules{Width: width, Height: height}
	for _, opt := range opts {
		opt(&r)
	}
	if err := r.Validate(); err != nil {
		return Rules{}, err
	}
	return r, nil
}

// DefaultRules is the common 39x32 board with default capture rules.
func DefaultRules() Rules {
	return Rules{Width: 39, Height: 32}
}

// CrossInitialMoves returns the starting cross: two dots of each player on
// the diagonals of the central square. Boards smaller than 2x2 get none.
func CrossInitialMoves(width, height int) []Placement {
	if width < 2 || height < 2 {
		return nil
	}
	x := (width + 1) / 2
	y := (height + 1) / 2
	return []Placement{
		{X: x, Y: y, Player: First},
		{X: x + 1, Y: y, Player: Second},
		{X: x + 1, Y: y + 1, Player: First},
		{X: x, Y: y + 1, Player: Second},
	}
}

// Validate checks board bounds and the shape of the initial move list.
func (r Rules) Validate() error {
	if r.Width < 1 || r.Width > MaxBoardSize {
		return &RulesError{Param: "width", Reason: fmt.Sprintf("%d is outside 1..%d", r.Width, MaxBoardSize)}
	}
	if r.Height < 1 || r.Height > MaxBoardSize {
		return &RulesError{Param: "height", Reason: fmt.Sprintf("%d is outside 1..%d", r.Height, MaxBoardSize)}
	}
	if r.BaseMode > AllOpponentDots {
		return &RulesError{Param: "base mode", Reason: r.BaseMode.String()}
	}
	for i, m := range r.InitialMoves {
		if m.Player != First && m.Player != Second {
			return &RulesError{Param: "initial moves", Reason: fmt.Sprintf("move %d has no player", i)}
		}
		if m.X < 1 || m.X > r.Width || m.Y < 1 || m.Y > r.Height {
			return &RulesError{Param: "initial moves", Reason: fmt.Sprintf("move %d at (%d,%d) is off the board", i, m.X, m.Y)}
		}
	}
	return nil
}
