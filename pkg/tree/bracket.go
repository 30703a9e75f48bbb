package tree

import (
	"strings"
	"unicode"

	"github.com/syntree/syntree/pkg/errors"
)

// Parse reads a tree from bracketed notation, the conventional text form
// for constituent trees:
//
//	(S (NP the elephant) (VP saw (NP the rhinoceros)))
//
// Bare tokens are leaves. A token directly after an opening bracket is
// the node's label. Square brackets are accepted as an alternative to
// parentheses. Quoted tokens ("a b") keep embedded whitespace.
func Parse(s string) (*Node, error) {
	p := &bracketParser{input: s}
	p.skipSpace()
	if p.eof() {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "empty tree expression")
	}

	n, err := p.parseNode()
	if err != nil {
		return nil, err
	}

	p.skipSpace()
	if !p.eof() {
		return nil, errors.New(errors.ErrCodeInvalidDocument,
			"unexpected trailing input at offset %d: %q", p.pos, p.rest())
	}

	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

type bracketParser struct {
	input string
	pos   int
}

func (p *bracketParser) eof() bool { return p.pos >= len(p.input) }

func (p *bracketParser) rest() string {
	r := p.input[p.pos:]
	if len(r) > 20 {
		r = r[:20] + "..."
	}
	return r
}

func (p *bracketParser) peek() byte { return p.input[p.pos] }

func (p *bracketParser) skipSpace() {
	for !p.eof() && unicode.IsSpace(rune(p.input[p.pos])) {
		p.pos++
	}
}

func isOpen(c byte) bool  { return c == '(' || c == '[' }
func isClose(c byte) bool { return c == ')' || c == ']' }

func (p *bracketParser) parseNode() (*Node, error) {
	p.skipSpace()
	if p.eof() {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "unexpected end of input")
	}

	if !isOpen(p.peek()) {
		label, err := p.parseToken()
		if err != nil {
			return nil, err
		}
		return NewLeaf(label), nil
	}

	open := p.peek()
	p.pos++
	p.skipSpace()

	// A constituent may be label-less: "((NP ...) (VP ...))".
	var label string
	if !p.eof() && !isOpen(p.peek()) && !isClose(p.peek()) {
		var err error
		label, err = p.parseToken()
		if err != nil {
			return nil, err
		}
	}

	n := &Node{Label: Text(label)}
	for {
		p.skipSpace()
		if p.eof() {
			return nil, errors.New(errors.ErrCodeInvalidDocument,
				"unbalanced %q: missing closing bracket", string(open))
		}
		if isClose(p.peek()) {
			p.pos++
			return n, nil
		}
		child, err := p.parseNode()
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, child)
	}
}

func (p *bracketParser) parseToken() (string, error) {
	if p.peek() == '"' {
		return p.parseQuoted()
	}
	start := p.pos
	for !p.eof() {
		c := p.peek()
		if isOpen(c) || isClose(c) || unicode.IsSpace(rune(c)) {
			break
		}
		p.pos++
	}
	tok := p.input[start:p.pos]
	// "\n" in a token produces a multi-line label.
	return strings.ReplaceAll(tok, `\n`, "\n"), nil
}

func (p *bracketParser) parseQuoted() (string, error) {
	p.pos++ // opening quote
	var b strings.Builder
	for !p.eof() {
		c := p.peek()
		p.pos++
		switch c {
		case '"':
			return b.String(), nil
		case '\\':
			if p.eof() {
				break
			}
			esc := p.peek()
			p.pos++
			switch esc {
			case 'n':
				b.WriteByte('\n')
			default:
				b.WriteByte(esc)
			}
		default:
			b.WriteByte(c)
		}
	}
	return "", errors.New(errors.ErrCodeInvalidDocument, "unterminated quoted token")
}
