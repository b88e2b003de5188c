// Package sgf implements SGF FF[4] writing and reading for Dots (GM[40])
// game records, variations included.
package sgf

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"termdots/field"
)

// GameType is the SGF GM value for Dots.
const GameType = "40"

var (
	ErrMalformed = errors.New("sgf: malformed record")
	ErrNotDots   = errors.New("sgf: not a dots record")
)

// coordLetters maps a 0-based axis index to its SGF letter. Dots records use
// the lowercase letters first, then the uppercase ones.
const coordLetters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// sgfCoord converts 1-based board coordinates to an SGF letter pair.
// (1,1) -> "aa", (4,5) -> "de", (27,1) -> "Aa".
func sgfCoord(x, y int) string {
	return string([]byte{coordLetters[x-1], coordLetters[y-1]})
}

// parseCoord converts an SGF letter pair back to 1-based coordinates.
func parseCoord(s string) (x, y int, ok bool) {
	if len(s) != 2 {
		return 0, 0, false
	}
	x = strings.IndexByte(coordLetters, s[0]) + 1
	y = strings.IndexByte(coordLetters, s[1]) + 1
	if x == 0 || y == 0 {
		return 0, 0, false
	}
	return x, y, true
}

// colorOf is the SGF move property for a player: B for the first, W for the
// second.
func colorOf(p field.Player) string {
	if p == field.Second {
		return "W"
	}
	return "B"
}

// formatSize writes SZ as "n" for square boards and "w:h" otherwise.
func formatSize(width, height int) string {
	if width == height {
		return strconv.Itoa(width)
	}
	return fmt.Sprintf("%d:%d", width, height)
}

func parseSize(s string) (width, height int, err error) {
	w, h, square := strings.Cut(s, ":")
	width, err = strconv.Atoi(strings.TrimSpace(w))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: size %q", ErrMalformed, s)
	}
	if !square {
		return width, width, nil
	}
	height, err = strconv.Atoi(strings.TrimSpace(h))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: size %q", ErrMalformed, s)
	}
	return width, height, nil
}

// formatRules encodes the capture rules as the RU value, e.g.
// "at-least-one,border,suicide".
func formatRules(r field.Rules) string {
	parts := []string{r.BaseMode.String()}
	if r.CaptureByBorder {
		parts = append(parts, "border")
	}
	if r.SuicideAllowed {
		parts = append(parts, "suicide")
	}
	return strings.Join(parts, ",")
}

// parseRules applies an RU value to rules. Unknown words are an error.
func parseRules(s string, r *field.Rules) error {
	for _, part := range strings.Split(s, ",") {
		switch part = strings.TrimSpace(part); part {
		case "":
		case "border":
			r.CaptureByBorder = true
		case "suicide":
			r.SuicideAllowed = true
		default:
			m, err := field.ParseBaseMode(part)
			if err != nil {
				return fmt.Errorf("%w: rules %q", ErrMalformed, s)
			}
			r.BaseMode = m
		}
	}
	return nil
}

var endCodes = map[field.EndReason]string{
	field.EndResign:    "resign",
	field.EndTime:      "time",
	field.EndGrounding: "grounding",
}

func parseEnd(s string) (field.EndReason, bool) {
	for r, code := range endCodes {
		if code == s {
			return r, true
		}
	}
	return field.EndNone, false
}

// FormatResult converts a game outcome to an SGF RE value: "B+3", "W+R",
// "B+T", or "0" for a draw.
func FormatResult(res field.GameResult) string {
	if res.IsDraw() {
		return "0"
	}
	winner := colorOf(res.Winner)
	switch res.Reason {
	case field.EndResign:
		return winner + "+R"
	case field.EndTime:
		return winner + "+T"
	}
	return winner + "+" + strconv.FormatFloat(res.Score, 'f', -1, 64)
}

// isValidSGFResult checks if a string is a valid SGF result.
func isValidSGFResult(s string) bool {
	if s == "?" || s == "0" || s == "Draw" || s == "Void" {
		return true
	}
	if len(s) < 3 {
		return false
	}
	if (s[0] != 'B' && s[0] != 'W') || s[1] != '+' {
		return false
	}
	rest := s[2:]
	if rest == "R" || rest == "T" || rest == "F" || rest == "?" {
		return true
	}
	_, err := strconv.ParseFloat(rest, 64)
	return err == nil
}

// DescribeResult turns an RE value into text for display, naming players by
// their record names.
func DescribeResult(re, playerFirst, playerSecond string) string {
	if !isValidSGFResult(re) || re == "?" {
		return "unfinished"
	}
	switch re {
	case "0", "Draw":
		return "draw"
	case "Void":
		return "no result"
	}
	winner := playerFirst
	if re[0] == 'W' {
		winner = playerSecond
	}
	switch rest := re[2:]; rest {
	case "R":
		return winner + " wins by resignation"
	case "T":
		return winner + " wins on time"
	case "F":
		return winner + " wins by forfeit"
	case "?":
		return winner + " wins"
	default:
		return fmt.Sprintf("%s wins by %s", winner, rest)
	}
}
