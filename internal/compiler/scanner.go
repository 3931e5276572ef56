package compiler

import (
	"errors"
	"fmt"
	"strconv"
)

// TokenKind classifies a scanned token.
type TokenKind int

// Token kinds.
const (
	SymbolToken TokenKind = iota
	IntToken
	QuoteOpen
	QuoteClose
)

func (kind TokenKind) String() string {
	switch kind {
	case SymbolToken:
		return "Symbol"
	case IntToken:
		return "Int"
	case QuoteOpen:
		return "QuoteOpen"
	case QuoteClose:
		return "QuoteClose"
	}
	return fmt.Sprintf("TokenKind(%d)", int(kind))
}

// Token is a single word of source text along with its rune offset.
type Token struct {
	Kind TokenKind
	Text string
	Pos  int
}

func (tok Token) String() string { return fmt.Sprintf("%v %q @%v", tok.Kind, tok.Text, tok.Pos) }

// Scanner splits one line of source text into tokens.
//
// Tokens are delimited by spaces or tabs; '[' and ']' are always tokens by
// themselves. A newline or carriage return ends the current token; reaching
// one with no pending text ends the input, so anything after a blank line
// break is never scanned.
type Scanner struct {
	src  []rune
	pos  int
	done bool
}

// NewScanner returns a scanner over src.
func NewScanner(src string) *Scanner {
	return &Scanner{src: []rune(src)}
}

// Scan returns the next token, and false once the input is exhausted.
func (sc *Scanner) Scan() (Token, bool) {
	if sc.done {
		return Token{}, false
	}
	start := -1
	for ; sc.pos < len(sc.src); sc.pos++ {
		switch r := sc.src[sc.pos]; r {
		case '\n', '\r':
			if start < 0 {
				sc.done = true
				return Token{}, false
			}
			tok := sc.token(start, sc.pos)
			sc.pos++
			return tok, true

		case '[', ']':
			if start < 0 {
				start = sc.pos
				sc.pos++
			}
			return sc.token(start, sc.pos), true

		case ' ', '\t':
			if start >= 0 {
				tok := sc.token(start, sc.pos)
				sc.pos++
				return tok, true
			}

		default:
			if start < 0 {
				start = sc.pos
			}
		}
	}
	sc.done = true
	if start < 0 {
		return Token{}, false
	}
	return sc.token(start, sc.pos), true
}

func (sc *Scanner) token(start, end int) Token {
	text := string(sc.src[start:end])
	return Token{Kind: classify(text), Text: text, Pos: start}
}

func classify(text string) TokenKind {
	switch text {
	case "[":
		return QuoteOpen
	case "]":
		return QuoteClose
	}
	if _, err := strconv.ParseInt(text, 10, 64); err == nil || errors.Is(err, strconv.ErrRange) {
		return IntToken
	}
	return SymbolToken
}
