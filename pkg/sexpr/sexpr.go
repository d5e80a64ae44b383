// Package sexpr reads SMT-LIB2 s-expressions into a node tree that keeps byte offsets
// for diagnostics.
package sexpr

import (
	"fmt"
	"strings"
)

type NodeType int

const (
	List NodeType = iota
	Symbol
	Numeral
	Decimal
	Hexadecimal
	Binary
	String
	Keyword
)

var nodeTypeNames = map[NodeType]string{
	List:        "list",
	Symbol:      "symbol",
	Numeral:     "numeral",
	Decimal:     "decimal",
	Hexadecimal: "hexadecimal",
	Binary:      "binary",
	String:      "string",
	Keyword:     "keyword",
}

func (t NodeType) String() string {
	return nodeTypeNames[t]
}

// Node is either a list with Children or an atom with Text.
// Quoted symbols are stored without their bars, string literals without their quotes.
type Node struct {
	Type     NodeType
	Text     string
	Children []*Node
	Pos      int // byte offset of the first character in the source
}

func (n *Node) IsSymbol(name string) bool {
	return n.Type == Symbol && n.Text == name
}

func (n *Node) String() string {
	switch n.Type {
	case List:
		parts := make([]string, len(n.Children))
		for i, child := range n.Children {
			parts[i] = child.String()
		}
		return "(" + strings.Join(parts, " ") + ")"
	case String:
		return `"` + strings.ReplaceAll(n.Text, `"`, `""`) + `"`
	case Symbol:
		if !IsSimpleSymbol(n.Text) {
			return "|" + n.Text + "|"
		}
		return n.Text
	default:
		return n.Text
	}
}

// SyntaxError reports malformed input at a byte offset.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("offset %d: %s", e.Pos, e.Msg)
}

// Parse reads every top-level form of src.
func Parse(src string) ([]*Node, error) {
	lexer := newLexer(src)
	var (
		forms []*Node
		stack []*Node
	)
	for {
		tok, err := lexer.next()
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokenEOF:
			if len(stack) > 0 {
				open := stack[len(stack)-1]
				return nil, &SyntaxError{Pos: open.Pos, Msg: fmt.Sprintf("unbalanced parentheses: %d unclosed '('", len(stack))}
			}
			return forms, nil
		case tokenOpen:
			stack = append(stack, &Node{Type: List, Pos: tok.pos, Children: []*Node{}})
		case tokenClose:
			if len(stack) == 0 {
				return nil, &SyntaxError{Pos: tok.pos, Msg: "unbalanced parentheses: unexpected ')'"}
			}
			done := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				forms = append(forms, done)
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, done)
			}
		default:
			atom := &Node{Type: tok.atomType, Text: tok.text, Pos: tok.pos}
			if len(stack) == 0 {
				forms = append(forms, atom)
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, atom)
			}
		}
	}
}

// IsSimpleSymbol reports whether name can be written without |quotes|.
func IsSimpleSymbol(name string) bool {
	if name == "" || isDigit(name[0]) {
		return false
	}
	for i := 0; i < len(name); i++ {
		if !isSymbolChar(name[i]) {
			return false
		}
	}
	return true
}

// Quote renders name as an SMT-LIB symbol, quoting it when needed.
// Names holding '|' or '\' cannot be represented and yield an error.
func Quote(name string) (string, error) {
	if IsSimpleSymbol(name) {
		return name, nil
	}
	if strings.ContainsAny(name, `|\`) {
		return "", fmt.Errorf("symbol %q cannot be quoted", name)
	}
	return "|" + name + "|", nil
}
