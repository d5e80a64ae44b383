package sexpr

import "fmt"

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenOpen
	tokenClose
	tokenAtom
)

type token struct {
	kind     tokenKind
	atomType NodeType
	text     string
	pos      int
}

type lexer struct {
	src string
	pos int
}

func newLexer(src string) *lexer {
	return &lexer{src: src}
}

func (l *lexer) next() (token, error) {
	l.skipBlank()
	if l.pos >= len(l.src) {
		return token{kind: tokenEOF, pos: l.pos}, nil
	}

	start := l.pos
	c := l.src[l.pos]
	switch {
	case c == '(':
		l.pos++
		return token{kind: tokenOpen, pos: start}, nil
	case c == ')':
		l.pos++
		return token{kind: tokenClose, pos: start}, nil
	case c == '"':
		return l.readString()
	case c == '|':
		return l.readQuotedSymbol()
	case c == '#':
		return l.readPrefixedNumeral()
	case c == ':':
		l.pos++
		word := l.readWhile(isSymbolChar)
		if word == "" {
			return token{}, &SyntaxError{Pos: start, Msg: "empty keyword"}
		}
		return token{kind: tokenAtom, atomType: Keyword, text: ":" + word, pos: start}, nil
	case isDigit(c):
		return l.readNumber()
	case isSymbolChar(c):
		word := l.readWhile(isSymbolChar)
		return token{kind: tokenAtom, atomType: Symbol, text: word, pos: start}, nil
	default:
		return token{}, &SyntaxError{Pos: start, Msg: fmt.Sprintf("unexpected character %q", c)}
	}
}

func (l *lexer) skipBlank() {
	for l.pos < len(l.src) {
		switch c := l.src[l.pos]; {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			l.pos++
		case c == ';':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
		default:
			return
		}
	}
}

func (l *lexer) readWhile(accept func(byte) bool) string {
	start := l.pos
	for l.pos < len(l.src) && accept(l.src[l.pos]) {
		l.pos++
	}
	return l.src[start:l.pos]
}

func (l *lexer) readNumber() (token, error) {
	start := l.pos
	l.readWhile(isDigit)
	atomType := Numeral
	if l.pos < len(l.src) && l.src[l.pos] == '.' {
		l.pos++
		if l.readWhile(isDigit) == "" {
			return token{}, &SyntaxError{Pos: start, Msg: "malformed decimal"}
		}
		atomType = Decimal
	}
	if l.pos < len(l.src) && isSymbolChar(l.src[l.pos]) {
		l.readWhile(isSymbolChar)
		return token{}, &SyntaxError{Pos: start, Msg: fmt.Sprintf("malformed numeral %q", l.src[start:l.pos])}
	}
	return token{kind: tokenAtom, atomType: atomType, text: l.src[start:l.pos], pos: start}, nil
}

func (l *lexer) readPrefixedNumeral() (token, error) {
	start := l.pos
	if l.pos+1 >= len(l.src) {
		return token{}, &SyntaxError{Pos: start, Msg: "dangling '#'"}
	}
	l.pos += 2
	var atomType NodeType
	var digits string
	switch l.src[start+1] {
	case 'x':
		atomType = Hexadecimal
		digits = l.readWhile(isHexDigit)
	case 'b':
		atomType = Binary
		digits = l.readWhile(func(c byte) bool { return c == '0' || c == '1' })
	default:
		return token{}, &SyntaxError{Pos: start, Msg: fmt.Sprintf("unknown literal prefix %q", l.src[start:start+2])}
	}
	if digits == "" {
		return token{}, &SyntaxError{Pos: start, Msg: "empty " + atomType.String() + " literal"}
	}
	return token{kind: tokenAtom, atomType: atomType, text: l.src[start:l.pos], pos: start}, nil
}

func (l *lexer) readString() (token, error) {
	start := l.pos
	l.pos++
	var text []byte
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		l.pos++
		if c != '"' {
			text = append(text, c)
			continue
		}
		if l.pos < len(l.src) && l.src[l.pos] == '"' { // "" is an escaped quote
			text = append(text, '"')
			l.pos++
			continue
		}
		return token{kind: tokenAtom, atomType: String, text: string(text), pos: start}, nil
	}
	return token{}, &SyntaxError{Pos: start, Msg: "unterminated string literal"}
}

func (l *lexer) readQuotedSymbol() (token, error) {
	start := l.pos
	l.pos++
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case '|':
			text := l.src[start+1 : l.pos]
			l.pos++
			return token{kind: tokenAtom, atomType: Symbol, text: text, pos: start}, nil
		case '\\':
			return token{}, &SyntaxError{Pos: l.pos, Msg: "backslash in quoted symbol"}
		}
		l.pos++
	}
	return token{}, &SyntaxError{Pos: start, Msg: "unterminated quoted symbol"}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isSymbolChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', isDigit(c):
		return true
	}
	switch c {
	case '~', '!', '@', '$', '%', '^', '&', '*', '_', '-', '+', '=', '<', '>', '.', '?', '/':
		return true
	}
	return false
}
