package sgf

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"termdots/field"
	"termdots/gametree"
)

// GameRecord tracks a game in progress and writes it as SGF. The file is
// rewritten on every change, so it is always a complete record.
type GameRecord struct {
	GameInfo
	rules field.Rules
	tree  *gametree.Tree
	file  *os.File
}

// NewGameRecord creates a new SGF file in dir and writes the initial header.
func NewGameRecord(dir string, rules field.Rules, playerFirst, playerSecond string) (*GameRecord, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	now := time.Now()
	filename := fmt.Sprintf("%s_%dx%d.sgf", now.Format("2006-01-02_150405"), rules.Width, rules.Height)
	path := filepath.Join(dir, filename)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create sgf file: %w", err)
	}

	rec := &GameRecord{
		GameInfo: GameInfo{
			FilePath:     path,
			FileName:     filename,
			Width:        rules.Width,
			Height:       rules.Height,
			Komi:         rules.Komi,
			Rules:        formatRules(rules),
			PlayerFirst:  playerFirst,
			PlayerSecond: playerSecond,
			Date:         now.Format("2006-01-02"),
			Result:       "?",
		},
		rules: rules,
		file:  f,
	}

	if err := rec.flush(); err != nil {
		f.Close()
		return nil, err
	}

	return rec, nil
}

// SetTree makes the record follow t: every later flush writes the tree as it
// is then, with its variations. The tree's rules replace the record's.
func (r *GameRecord) SetTree(t *gametree.Tree) error {
	r.tree = t
	r.rules = t.Field().Rules()
	r.Width, r.Height, r.Komi = r.rules.Width, r.rules.Height, r.rules.Komi
	r.GameInfo.Rules = formatRules(r.rules)
	return r.flush()
}

// SetResult stores the game outcome as the RE property.
func (r *GameRecord) SetResult(res field.GameResult) error {
	r.Result = FormatResult(res)
	return r.flush()
}

// ClearResult marks the game unfinished, as after undoing the last move.
func (r *GameRecord) ClearResult() error {
	r.Result = "?"
	return r.flush()
}

// Close performs a final flush and closes the file handle.
func (r *GameRecord) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.flush()
	if cerr := r.file.Close(); err == nil {
		err = cerr
	}
	r.file = nil
	return err
}

// flush rewrites the complete SGF file from scratch.
func (r *GameRecord) flush() error {
	if r.file == nil {
		return fmt.Errorf("file already closed")
	}

	var b strings.Builder
	writeRoot(&b, &r.GameInfo, r.rules)
	g := field.NewGrid(r.rules.Width, r.rules.Height)
	if r.tree != nil {
		r.MoveCount = len(r.tree.Path())
		writeVariations(&b, g, r.tree.Root())
	}
	b.WriteString(")\n")

	// Rewrite file from start
	if _, err := r.file.Seek(0, 0); err != nil {
		return err
	}
	if err := r.file.Truncate(0); err != nil {
		return err
	}
	if _, err := r.file.WriteString(b.String()); err != nil {
		return err
	}
	return r.file.Sync()
}

// WriteTree writes a complete record of t: the root properties from info and
// the field's rules, then every variation.
func WriteTree(w io.Writer, info GameInfo, t *gametree.Tree) error {
	rules := t.Field().Rules()
	info.Width, info.Height, info.Komi = rules.Width, rules.Height, rules.Komi
	info.Rules = formatRules(rules)
	if info.Result == "" {
		info.Result = "?"
		if res, ok := t.Field().Result(); ok {
			info.Result = FormatResult(res)
		}
	}

	var b strings.Builder
	writeRoot(&b, &info, rules)
	writeVariations(&b, t.Field().Grid(), t.Root())
	b.WriteString(")\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func writeRoot(b *strings.Builder, info *GameInfo, rules field.Rules) {
	b.WriteString("(;GM[" + GameType + "]FF[4]CA[UTF-8]")
	b.WriteString("AP[termdots:1.0]")
	fmt.Fprintf(b, "SZ[%s]", formatSize(info.Width, info.Height))
	fmt.Fprintf(b, "RU[%s]", info.Rules)
	fmt.Fprintf(b, "KM[%g]", info.Komi)
	fmt.Fprintf(b, "PB[%s]", escape(info.PlayerFirst))
	fmt.Fprintf(b, "PW[%s]", escape(info.PlayerSecond))
	fmt.Fprintf(b, "DT[%s]", info.Date)
	fmt.Fprintf(b, "RE[%s]", info.Result)

	// Setup dots in the root node
	for _, p := range []field.Player{field.First, field.Second} {
		wrote := false
		for _, m := range rules.InitialMoves {
			if m.Player != p {
				continue
			}
			if !wrote {
				b.WriteString("A" + colorOf(p))
				wrote = true
			}
			fmt.Fprintf(b, "[%s]", sgfCoord(m.X, m.Y))
		}
	}
	b.WriteString("\n")
}

func writeMove(b *strings.Builder, g field.Grid, m field.Move) {
	color := colorOf(m.Player)
	if m.IsFinish() {
		fmt.Fprintf(b, ";%s[]EN[%s]", color, endCodes[m.End])
		return
	}
	x, y := g.XY(m.Pos)
	fmt.Fprintf(b, ";%s[%s]", color, sgfCoord(x, y))
}

// writeVariations writes the subtree below n. A single child continues the
// sequence; several children each open a variation.
func writeVariations(b *strings.Builder, g field.Grid, n *gametree.Node) {
	for {
		children := n.Children()
		switch len(children) {
		case 0:
			return
		case 1:
			writeMove(b, g, children[0].Move())
			n = children[0]
		default:
			for _, c := range children {
				b.WriteString("\n(")
				writeMove(b, g, c.Move())
				writeVariations(b, g, c)
				b.WriteString(")")
			}
			return
		}
	}
}
