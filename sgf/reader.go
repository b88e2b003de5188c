package sgf

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"termdots/field"
	"termdots/gametree"
)

// GameInfo holds metadata parsed from an SGF file header.
type GameInfo struct {
	FilePath     string
	FileName     string
	Width        int
	Height       int
	Komi         float64
	Rules        string
	PlayerFirst  string
	PlayerSecond string
	Date         string
	Result       string
	MoveCount    int
}

// ParseHeader reads an SGF file and extracts metadata from the root node.
// MoveCount counts the moves of the main line.
func ParseHeader(filePath string) (*GameInfo, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	root, err := parse(string(data))
	if err != nil {
		return nil, err
	}
	info, err := headerOf(root)
	if err != nil {
		return nil, err
	}
	info.FilePath = filePath
	info.FileName = filepath.Base(filePath)
	for n := root; n != nil; n = firstChild(n) {
		if n.has("B") || n.has("W") {
			info.MoveCount++
		}
	}
	return info, nil
}

func firstChild(n *node) *node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

func headerOf(root *node) (*GameInfo, error) {
	if gm := root.get("GM"); gm != "" && gm != GameType {
		return nil, fmt.Errorf("%w: GM[%s]", ErrNotDots, gm)
	}
	info := &GameInfo{
		Width:        39,
		Height:       32,
		Rules:        root.get("RU"),
		PlayerFirst:  root.get("PB"),
		PlayerSecond: root.get("PW"),
		Date:         root.get("DT"),
		Result:       root.get("RE"),
	}
	if v := root.get("SZ"); v != "" {
		w, h, err := parseSize(v)
		if err != nil {
			return nil, err
		}
		info.Width, info.Height = w, h
	}
	if v := root.get("KM"); v != "" {
		komi, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: komi %q", ErrMalformed, v)
		}
		info.Komi = komi
	}
	return info, nil
}

// rulesOf builds the game rules from the root node: size, komi, RU and the
// AB/AW setup dots.
func rulesOf(root *node, info *GameInfo) (field.Rules, error) {
	r := field.Rules{Width: info.Width, Height: info.Height, Komi: info.Komi}
	if err := parseRules(info.Rules, &r); err != nil {
		return field.Rules{}, err
	}
	for _, setup := range []struct {
		key    string
		player field.Player
	}{{"AB", field.First}, {"AW", field.Second}} {
		for _, v := range root.props[setup.key] {
			x, y, ok := parseCoord(v)
			if !ok {
				return field.Rules{}, fmt.Errorf("%w: %s[%s]", ErrMalformed, setup.key, v)
			}
			r.InitialMoves = append(r.InitialMoves, field.Placement{X: x, Y: y, Player: setup.player})
		}
	}
	if err := r.Validate(); err != nil {
		return field.Rules{}, fmt.Errorf("sgf: %w", err)
	}
	return r, nil
}

// MoveEntry is one move node of a record in board coordinates. Finishing
// actions have zero coordinates and End set.
type MoveEntry struct {
	X, Y   int
	Player field.Player
	End    field.EndReason
}

// moveOf extracts the move of a node. ok is false for nodes without a move.
func moveOf(n *node) (e MoveEntry, ok bool, err error) {
	key := "B"
	e.Player = field.First
	if n.has("W") {
		key = "W"
		e.Player = field.Second
	} else if !n.has("B") {
		return MoveEntry{}, false, nil
	}
	v := n.get(key)
	if v == "" {
		end, known := parseEnd(n.get("EN"))
		if !known {
			return MoveEntry{}, false, fmt.Errorf("%w: %s[] without an ending", ErrMalformed, key)
		}
		e.End = end
		return e, true, nil
	}
	x, y, valid := parseCoord(v)
	if !valid {
		return MoveEntry{}, false, fmt.Errorf("%w: %s[%s]", ErrMalformed, key, v)
	}
	e.X, e.Y = x, y
	return e, true, nil
}

// ReadTree parses a record and replays every variation into a game tree. The
// tree is left at the end of the main line. Setup dots that are illegal on
// the board are skipped.
func ReadTree(r io.Reader) (*gametree.Tree, *GameInfo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, err
	}
	root, err := parse(string(data))
	if err != nil {
		return nil, nil, err
	}
	info, err := headerOf(root)
	if err != nil {
		return nil, nil, err
	}
	rules, err := rulesOf(root, info)
	if err != nil {
		return nil, nil, err
	}
	f, err := field.NewField(rules, nil)
	if err != nil {
		return nil, nil, err
	}
	tree := gametree.New(f, false)
	if err := replay(tree, root); err != nil {
		return nil, nil, err
	}

	for tree.Forward(0) {
		info.MoveCount++
	}
	return tree, info, nil
}

// replay adds the move of n and then its subtree, returning to where it
// started.
func replay(tree *gametree.Tree, n *node) error {
	e, ok, err := moveOf(n)
	if err != nil {
		return err
	}
	if ok {
		if err := addEntry(tree, e); err != nil {
			return err
		}
	}
	for _, c := range n.children {
		if err := replay(tree, c); err != nil {
			return err
		}
	}
	if ok {
		tree.Back()
	}
	return nil
}

func addEntry(tree *gametree.Tree, e MoveEntry) error {
	var err error
	if e.End != field.EndNone {
		_, _, err = tree.AddFinish(e.End, e.Player)
	} else {
		_, _, err = tree.AddChild(tree.Field().Grid().Pos(e.X, e.Y), e.Player)
	}
	if err != nil {
		return fmt.Errorf("sgf: move %d: %w", tree.Field().MoveCount()+1, err)
	}
	return nil
}

// ReadFile opens an SGF file and replays it with ReadTree.
func ReadFile(filePath string) (*gametree.Tree, *GameInfo, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	tree, info, err := ReadTree(f)
	if err != nil {
		return nil, nil, err
	}
	info.FilePath = filePath
	info.FileName = filepath.Base(filePath)
	return tree, info, nil
}

// ReplayToEnd parses an SGF file and replays the main line to produce the
// final position. Returns the field and the number of moves played.
func ReplayToEnd(filePath string) (*field.Field, int, error) {
	tree, info, err := ReadFile(filePath)
	if err != nil {
		return nil, 0, err
	}
	return tree.Field(), info.MoveCount, nil
}

// ListGames scans a directory for .sgf files and returns their parsed headers,
// sorted newest-first (by filename, which contains timestamps).
func ListGames(dir string) ([]GameInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read history dir: %w", err)
	}

	var games []GameInfo
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sgf") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		info, err := ParseHeader(path)
		if err != nil {
			continue
		}
		games = append(games, *info)
	}

	return games, nil
}
