// Package parser turns expression text like "(price + tax) < limit" into
// an expression tree over named table columns. Integer literals lex as
// INT64 and decimal literals as FLOAT64; operands of one operator must
// share a type, so mix columns and literals accordingly.
package parser

import (
	"fmt"
	"unicode"
)

// TokenType identifies a lexical token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIdent
	TokenInt
	TokenFloat
	TokenTrue
	TokenFalse
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenPercent
	TokenEqual        // ==
	TokenNotEqual     // !=
	TokenLess         // <
	TokenLessEqual    // <=
	TokenGreater      // >
	TokenGreaterEqual // >=
	TokenAnd          // &&
	TokenOr           // ||
	TokenNot          // !
	TokenLParen
	TokenRParen
)

// Token is one lexical token with its source text and position.
type Token struct {
	Type TokenType
	Text string
	Pos  int
}

// Lexer produces tokens from expression text.
type Lexer struct {
	input string
	pos   int
}

// NewLexer creates a lexer over the input text.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Next returns the next token, or an error for an unrecognized character.
func (l *Lexer) Next() (Token, error) {
	for l.pos < len(l.input) && unicode.IsSpace(rune(l.input[l.pos])) {
		l.pos++
	}
	if l.pos >= len(l.input) {
		return Token{Type: TokenEOF, Pos: l.pos}, nil
	}

	start := l.pos
	c := l.input[l.pos]
	switch {
	case c == '(':
		l.pos++
		return Token{Type: TokenLParen, Text: "(", Pos: start}, nil
	case c == ')':
		l.pos++
		return Token{Type: TokenRParen, Text: ")", Pos: start}, nil
	case c == '+':
		l.pos++
		return Token{Type: TokenPlus, Text: "+", Pos: start}, nil
	case c == '-':
		l.pos++
		return Token{Type: TokenMinus, Text: "-", Pos: start}, nil
	case c == '*':
		l.pos++
		return Token{Type: TokenStar, Text: "*", Pos: start}, nil
	case c == '/':
		l.pos++
		return Token{Type: TokenSlash, Text: "/", Pos: start}, nil
	case c == '%':
		l.pos++
		return Token{Type: TokenPercent, Text: "%", Pos: start}, nil
	case c == '=':
		if l.peekAt(l.pos+1) == '=' {
			l.pos += 2
			return Token{Type: TokenEqual, Text: "==", Pos: start}, nil
		}
		return Token{}, fmt.Errorf("unexpected '=' at position %d, use '=='", start)
	case c == '!':
		if l.peekAt(l.pos+1) == '=' {
			l.pos += 2
			return Token{Type: TokenNotEqual, Text: "!=", Pos: start}, nil
		}
		l.pos++
		return Token{Type: TokenNot, Text: "!", Pos: start}, nil
	case c == '<':
		if l.peekAt(l.pos+1) == '=' {
			l.pos += 2
			return Token{Type: TokenLessEqual, Text: "<=", Pos: start}, nil
		}
		l.pos++
		return Token{Type: TokenLess, Text: "<", Pos: start}, nil
	case c == '>':
		if l.peekAt(l.pos+1) == '=' {
			l.pos += 2
			return Token{Type: TokenGreaterEqual, Text: ">=", Pos: start}, nil
		}
		l.pos++
		return Token{Type: TokenGreater, Text: ">", Pos: start}, nil
	case c == '&':
		if l.peekAt(l.pos+1) == '&' {
			l.pos += 2
			return Token{Type: TokenAnd, Text: "&&", Pos: start}, nil
		}
		return Token{}, fmt.Errorf("unexpected '&' at position %d, use '&&'", start)
	case c == '|':
		if l.peekAt(l.pos+1) == '|' {
			l.pos += 2
			return Token{Type: TokenOr, Text: "||", Pos: start}, nil
		}
		return Token{}, fmt.Errorf("unexpected '|' at position %d, use '||'", start)
	case isDigit(c):
		return l.lexNumber(start)
	case isIdentStart(c):
		for l.pos < len(l.input) && isIdentPart(l.input[l.pos]) {
			l.pos++
		}
		text := l.input[start:l.pos]
		switch text {
		case "true":
			return Token{Type: TokenTrue, Text: text, Pos: start}, nil
		case "false":
			return Token{Type: TokenFalse, Text: text, Pos: start}, nil
		}
		return Token{Type: TokenIdent, Text: text, Pos: start}, nil
	default:
		return Token{}, fmt.Errorf("unexpected character %q at position %d", c, start)
	}
}

func (l *Lexer) lexNumber(start int) (Token, error) {
	isFloat := false
	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		l.pos++
	}
	if l.pos < len(l.input) && l.input[l.pos] == '.' {
		isFloat = true
		l.pos++
		for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
			l.pos++
		}
	}
	if l.pos < len(l.input) && (l.input[l.pos] == 'e' || l.input[l.pos] == 'E') {
		isFloat = true
		l.pos++
		if l.pos < len(l.input) && (l.input[l.pos] == '+' || l.input[l.pos] == '-') {
			l.pos++
		}
		for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
			l.pos++
		}
	}
	text := l.input[start:l.pos]
	if isFloat {
		return Token{Type: TokenFloat, Text: text, Pos: start}, nil
	}
	return Token{Type: TokenInt, Text: text, Pos: start}, nil
}

func (l *Lexer) peekAt(i int) byte {
	if i < len(l.input) {
		return l.input[i]
	}
	return 0
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }
