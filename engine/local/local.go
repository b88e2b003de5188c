// Package local runs a game in process: both sides at one keyboard or a human
// against the built-in bot.
package local

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"termdots/analysis"
	"termdots/engine"
	"termdots/field"
	"termdots/gametree"
	"termdots/sgf"
	"termdots/types"
)

var (
	ErrNotYourTurn   = errors.New("not your turn")
	ErrGameOver      = errors.New("game is over")
	ErrNothingToRedo = errors.New("nothing to redo")
	ErrNoVariation   = errors.New("no other variation")
	ErrClosed        = errors.New("engine closed")
)

// LocalEngine implements the GameEngine interface on top of a game tree.
type LocalEngine struct {
	config engine.GameConfig
	tree   *gametree.Tree
	record *sgf.GameRecord
	rng    *rand.Rand
	choose func(f *field.Field, player field.Player, rng *rand.Rand, radius int) (field.Position, bool)

	showThreats bool
	thinking    bool
	closed      bool
	endNotified bool

	moveCallback func(move field.Move, boardState *types.BoardState)
	endCallback  func(outcome string)

	mu  sync.Mutex
	bot sync.WaitGroup
}

var _ engine.GameEngine = (*LocalEngine)(nil)

// NewLocalEngine creates a new engine with the given configuration.
func NewLocalEngine(cfg engine.GameConfig) *LocalEngine {
	seed := cfg.BotSeed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	if cfg.BotRadius < 1 {
		cfg.BotRadius = 1
	}
	if cfg.HumanPlayer != field.Second {
		cfg.HumanPlayer = field.First
	}
	return &LocalEngine{
		config: cfg,
		rng:    rand.New(rand.NewSource(seed)),
		choose: chooseMove,
	}
}

// Connect builds the field, loads the saved game if one is configured and
// opens the game record.
func (e *LocalEngine) Connect() error {
	if e.config.LoadSGFPath != "" {
		tree, info, err := sgf.ReadFile(e.config.LoadSGFPath)
		if err != nil {
			return fmt.Errorf("load game: %w", err)
		}
		tree.SetLoopSiblings(true)
		e.tree = tree
		e.config.Rules = tree.Field().Rules()
		log.Info().Msgf("loaded %s with %d moves", info.FileName, info.MoveCount)
	} else {
		f, err := field.NewField(e.config.Rules, func(m field.Placement, err error) {
			log.Warn().Err(err).Int("x", m.X).Int("y", m.Y).Msg("skipping initial move")
		})
		if err != nil {
			return fmt.Errorf("create field: %w", err)
		}
		e.tree = gametree.New(f, true)
	}

	if e.config.HistoryDir != "" {
		rec, err := sgf.NewGameRecord(e.config.HistoryDir, e.config.Rules, e.config.PlayerNames[0], e.config.PlayerNames[1])
		if err != nil {
			return fmt.Errorf("open game record: %w", err)
		}
		if err := rec.SetTree(e.tree); err != nil {
			rec.Close()
			return fmt.Errorf("write game record: %w", err)
		}
		e.record = rec
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.saveLocked()
	r := e.config.Rules
	log.Info().Msgf("starting %dx%d game, bot=%v, human=%s, border=%v, mode=%s",
		r.Width, r.Height, e.config.VsBot, e.config.HumanPlayer, r.CaptureByBorder, r.BaseMode)
	if e.botToMoveLocked() {
		e.startBotLocked()
	}
	return nil
}

// GetBoardState returns a snapshot of the current position.
func (e *LocalEngine) GetBoardState() *types.BoardState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// PlayMove places a dot for the side to move.
func (e *LocalEngine) PlayMove(x, y int) error {
	e.mu.Lock()
	if err := e.checkTurnLocked(); err != nil {
		e.mu.Unlock()
		return err
	}
	pos, ok := types.FromBoardPos(e.tree.Field().Grid(), types.BoardPos{X: x, Y: y})
	if !ok {
		e.mu.Unlock()
		return fmt.Errorf("(%d,%d): %w", x, y, field.ErrOutOfBounds)
	}
	return e.playLocked(func() (*gametree.Node, gametree.AddResult, error) {
		return e.tree.AddChild(pos, field.None)
	})
}

// Ground ends the game by grounding the side to move.
func (e *LocalEngine) Ground() error {
	e.mu.Lock()
	if err := e.checkTurnLocked(); err != nil {
		e.mu.Unlock()
		return err
	}
	return e.playLocked(func() (*gametree.Node, gametree.AddResult, error) {
		return e.tree.AddFinish(field.EndGrounding, field.None)
	})
}

// Resign ends the game in favour of the opponent of the side to move.
func (e *LocalEngine) Resign() error {
	e.mu.Lock()
	if err := e.checkTurnLocked(); err != nil {
		e.mu.Unlock()
		return err
	}
	return e.playLocked(func() (*gametree.Node, gametree.AddResult, error) {
		return e.tree.AddFinish(field.EndResign, field.None)
	})
}

// playLocked adds a node, saves and notifies. It is called with the lock
// held and releases it.
func (e *LocalEngine) playLocked(add func() (*gametree.Node, gametree.AddResult, error)) error {
	node, added, err := add()
	if err != nil {
		e.mu.Unlock()
		return err
	}
	e.logMove(node, added, "human")
	e.saveLocked()
	if e.botToMoveLocked() {
		e.startBotLocked()
	}
	e.notifyAndUnlock(node.Move())
	return nil
}

func (e *LocalEngine) checkTurnLocked() error {
	switch {
	case e.closed:
		return ErrClosed
	case e.tree.Field().IsFinished():
		return ErrGameOver
	case !e.isMyTurnLocked():
		return ErrNotYourTurn
	}
	return nil
}

func (e *LocalEngine) isMyTurnLocked() bool {
	if e.thinking || e.tree.Field().IsFinished() {
		return false
	}
	return !e.config.VsBot || e.tree.Field().NextPlayer() == e.config.HumanPlayer
}

func (e *LocalEngine) botToMoveLocked() bool {
	return e.config.VsBot && !e.closed && !e.thinking && !e.tree.Field().IsFinished() &&
		e.tree.Field().NextPlayer() != e.config.HumanPlayer
}

func (e *LocalEngine) startBotLocked() {
	e.thinking = true
	e.bot.Add(1)
	go e.triggerBotMove()
}

// triggerBotMove picks and plays the bot's reply. A bot without a legal
// move grounds its dots, and so does one whose move is rejected.
func (e *LocalEngine) triggerBotMove() {
	defer e.bot.Done()
	e.mu.Lock()
	e.thinking = false
	if e.closed || e.tree.Field().IsFinished() {
		e.mu.Unlock()
		return
	}

	f := e.tree.Field()
	player := f.NextPlayer()
	var (
		node  *gametree.Node
		added gametree.AddResult
		err   error
	)
	if pos, ok := e.choose(f, player, e.rng, e.config.BotRadius); ok {
		node, added, err = e.tree.AddChild(pos, player)
		if err != nil {
			x, y := f.Grid().XY(pos)
			log.Error().Err(err).Int("x", x).Int("y", y).Msg("bot move rejected, grounding")
		}
	}
	if node == nil {
		node, added, err = e.tree.AddFinish(field.EndGrounding, player)
	}
	if err != nil {
		log.Error().Err(err).Msg("bot cannot finish the game")
		e.mu.Unlock()
		return
	}
	e.logMove(node, added, "bot")
	e.saveLocked()
	e.notifyAndUnlock(node.Move())
}

// Undo steps back one move. Against the bot it continues back to the human's
// previous turn.
func (e *LocalEngine) Undo() error {
	e.mu.Lock()
	if err := e.checkNavigateLocked(); err != nil {
		e.mu.Unlock()
		return err
	}
	start := e.tree.Current()
	if !e.tree.Back() {
		e.mu.Unlock()
		return field.ErrNothingToUndo
	}
	if e.config.VsBot {
		for e.tree.Field().NextPlayer() != e.config.HumanPlayer && e.tree.Back() {
		}
		if e.tree.Field().NextPlayer() != e.config.HumanPlayer {
			e.tree.Next()
		}
	}
	if e.tree.Current() == start {
		e.mu.Unlock()
		return field.ErrNothingToUndo
	}
	log.Debug().Int("move", e.tree.Current().Number()).Msg("undo")
	return e.navigatedLocked()
}

// Redo replays the most recently visited continuation up to the human's next
// turn.
func (e *LocalEngine) Redo() error {
	e.mu.Lock()
	if err := e.checkNavigateLocked(); err != nil {
		e.mu.Unlock()
		return err
	}
	if !e.tree.Next() {
		e.mu.Unlock()
		return ErrNothingToRedo
	}
	e.followRecordedRepliesLocked()
	log.Debug().Int("move", e.tree.Current().Number()).Msg("redo")
	return e.navigatedLocked()
}

// PrevVariation switches to the previous sibling of the current move.
func (e *LocalEngine) PrevVariation() error {
	return e.switchVariation((*gametree.Tree).PrevSibling)
}

// NextVariation switches to the next sibling of the current move.
func (e *LocalEngine) NextVariation() error {
	return e.switchVariation((*gametree.Tree).NextSibling)
}

func (e *LocalEngine) switchVariation(step func(*gametree.Tree) bool) error {
	e.mu.Lock()
	if err := e.checkNavigateLocked(); err != nil {
		e.mu.Unlock()
		return err
	}
	if !step(e.tree) {
		e.mu.Unlock()
		return ErrNoVariation
	}
	e.followRecordedRepliesLocked()
	log.Debug().Int("variation", e.tree.VariationIndex()).Int("of", e.tree.NumVariations()).Msg("switched variation")
	return e.navigatedLocked()
}

func (e *LocalEngine) checkNavigateLocked() error {
	switch {
	case e.closed:
		return ErrClosed
	case e.thinking:
		return ErrNotYourTurn
	}
	return nil
}

// followRecordedRepliesLocked replays stored bot replies so that navigation
// stops on a human turn whenever the tree has one.
func (e *LocalEngine) followRecordedRepliesLocked() {
	if !e.config.VsBot {
		return
	}
	for !e.tree.Field().IsFinished() && e.tree.Field().NextPlayer() != e.config.HumanPlayer {
		if !e.tree.Next() {
			return
		}
	}
}

// navigatedLocked finishes a navigation step. It is called with the lock held
// and releases it.
func (e *LocalEngine) navigatedLocked() error {
	e.endNotified = e.tree.Field().IsFinished()
	e.saveLocked()
	if e.botToMoveLocked() {
		e.startBotLocked()
	}
	e.notifyAndUnlock(e.tree.Current().Move())
	return nil
}

// ToggleThreats switches the threat overlay on or off.
func (e *LocalEngine) ToggleThreats() bool {
	e.mu.Lock()
	e.showThreats = !e.showThreats
	on := e.showThreats
	e.notifyAndUnlock(e.tree.Current().Move())
	return on
}

// IsMyTurn returns true if a human may move now.
func (e *LocalEngine) IsMyTurn() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.closed && e.isMyTurnLocked()
}

// HumanPlayer returns the human's side, or None in hot-seat games.
func (e *LocalEngine) HumanPlayer() field.Player {
	if !e.config.VsBot {
		return field.None
	}
	return e.config.HumanPlayer
}

// OnMove registers a callback for when a move is played.
func (e *LocalEngine) OnMove(callback func(move field.Move, boardState *types.BoardState)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.moveCallback = callback
}

// OnGameEnd registers a callback for when the game ends.
func (e *LocalEngine) OnGameEnd(callback func(outcome string)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.endCallback = callback
}

// Close waits for a pending bot move and closes the game record.
func (e *LocalEngine) Close() {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
	e.bot.Wait()

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.record != nil {
		if err := e.record.Close(); err != nil {
			log.Error().Err(err).Str("file", e.record.FilePath).Msg("closing game record")
		}
		e.record = nil
	}
}

// RecordPath returns the file the game is saved to, or "" without a record.
func (e *LocalEngine) RecordPath() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.record == nil {
		return ""
	}
	return e.record.FilePath
}

// snapshotLocked copies the current position for the UI.
func (e *LocalEngine) snapshotLocked() *types.BoardState {
	f := e.tree.Field()
	var overlay *analysis.Overlay
	if e.showThreats && !f.IsFinished() {
		o := analysis.Threats(f, f.NextPlayer().Opponent())
		overlay = &o
	}
	bs := types.NewBoardState(f, overlay)
	if overlay != nil {
		bs.MarkForbidden(f.Grid(), analysis.Suicides(f, f.NextPlayer()))
	}
	bs.Variation = max(e.tree.VariationIndex(), 0)
	bs.Variations = e.tree.NumVariations()
	path := e.tree.Path()
	bs.History = make([]types.MoveInfo, len(path))
	for i, n := range path {
		m := n.Move()
		info := types.MoveInfo{Player: m.Player, Pos: types.NoPos, End: m.End}
		if !m.IsFinish() {
			info.Pos = types.ToBoardPos(f.Grid(), m.Pos)
		}
		if res := n.Result(); res != nil {
			info.Captured = res.Captured(m.Player)
		}
		bs.History[i] = info
	}
	return bs
}

// notifyAndUnlock takes a snapshot, releases the lock and runs the callbacks
// outside it.
func (e *LocalEngine) notifyAndUnlock(m field.Move) {
	bs := e.snapshotLocked()
	moveCallback := e.moveCallback
	endCallback := e.endCallback
	ended := bs.Finished() && !e.endNotified
	if ended {
		e.endNotified = true
	}
	e.mu.Unlock()

	if moveCallback != nil {
		moveCallback(m, bs)
	}
	if ended && endCallback != nil {
		endCallback(bs.Outcome)
	}
}

// saveLocked rewrites the game record. Failures are logged; the game goes on
// without a record.
func (e *LocalEngine) saveLocked() {
	if e.record == nil {
		return
	}
	var err error
	if res, ok := e.tree.Field().Result(); ok {
		err = e.record.SetResult(res)
	} else {
		err = e.record.ClearResult()
	}
	if err != nil {
		log.Error().Err(err).Str("file", e.record.FilePath).Msg("saving game record")
	}
}

func (e *LocalEngine) logMove(node *gametree.Node, added gametree.AddResult, who string) {
	m := node.Move()
	ev := log.Debug().Str("by", who).Str("player", m.Player.String()).Int("number", node.Number()).Str("node", added.String())
	if m.IsFinish() {
		ev.Str("finish", m.End.String()).Msg("game finished")
		return
	}
	if res := node.Result(); res != nil {
		ev = ev.Int("captured", res.Captured(m.Player))
	}
	ev.Str("at", types.Coord(types.ToBoardPos(e.tree.Field().Grid(), m.Pos))).Msg("move")
}
