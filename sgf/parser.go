package sgf

import (
	"fmt"
	"strings"
)

// node is one parsed SGF node. Sequence order and variations both become
// children: the first child continues the main line.
type node struct {
	props    map[string][]string
	children []*node
}

func (n *node) get(key string) string {
	if vs := n.props[key]; len(vs) > 0 {
		return vs[len(vs)-1]
	}
	return ""
}

func (n *node) has(key string) bool {
	_, ok := n.props[key]
	return ok
}

type parser struct {
	s string
	i int
}

// parse reads the first game tree of an SGF collection.
func parse(content string) (*node, error) {
	p := &parser{s: content}
	p.skipSpace()
	if p.peek() != '(' {
		return nil, p.errorf("expected '('")
	}
	p.i++
	return p.gameTree()
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s at offset %d", ErrMalformed, fmt.Sprintf(format, args...), p.i)
}

func (p *parser) peek() byte {
	if p.i >= len(p.s) {
		return 0
	}
	return p.s[p.i]
}

func (p *parser) skipSpace() {
	for p.i < len(p.s) && (p.s[p.i] == ' ' || p.s[p.i] == '\n' || p.s[p.i] == '\r' || p.s[p.i] == '\t') {
		p.i++
	}
}

// gameTree parses a sequence and its variations up to the closing ')'.
func (p *parser) gameTree() (*node, error) {
	var first, last *node
	for {
		p.skipSpace()
		if p.peek() != ';' {
			break
		}
		p.i++
		n, err := p.parseNode()
		if err != nil {
			return nil, err
		}
		if first == nil {
			first = n
		} else {
			last.children = append(last.children, n)
		}
		last = n
	}
	if first == nil {
		return nil, p.errorf("empty sequence")
	}
	for {
		p.skipSpace()
		switch p.peek() {
		case '(':
			p.i++
			child, err := p.gameTree()
			if err != nil {
				return nil, err
			}
			last.children = append(last.children, child)
		case ')':
			p.i++
			return first, nil
		case 0:
			return nil, p.errorf("unexpected end of record")
		default:
			return nil, p.errorf("unexpected %q", p.peek())
		}
	}
}

func (p *parser) parseNode() (*node, error) {
	n := &node{props: make(map[string][]string)}
	for {
		p.skipSpace()
		start := p.i
		for c := p.peek(); c >= 'A' && c <= 'Z'; c = p.peek() {
			p.i++
		}
		if p.i == start {
			return n, nil
		}
		key := p.s[start:p.i]
		p.skipSpace()
		if p.peek() != '[' {
			return nil, p.errorf("property %s has no value", key)
		}
		for p.peek() == '[' {
			p.i++
			val, err := p.value()
			if err != nil {
				return nil, err
			}
			n.props[key] = append(n.props[key], val)
			p.skipSpace()
		}
	}
}

func (p *parser) value() (string, error) {
	var b strings.Builder
	for p.i < len(p.s) {
		c := p.s[p.i]
		switch c {
		case '\\':
			p.i++
			if p.i < len(p.s) {
				b.WriteByte(p.s[p.i])
			}
		case ']':
			p.i++
			return b.String(), nil
		default:
			b.WriteByte(c)
		}
		p.i++
	}
	return "", p.errorf("unterminated value")
}

// escape makes text safe inside a property value.
func escape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `]`, `\]`).Replace(s)
}
