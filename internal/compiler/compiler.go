// Package compiler turns source text into bytecode.
package compiler

import (
	"strconv"
	"strings"

	"github.com/joomcode/errorx"

	"github.com/jcorbin/pirogue/internal/bytecode"
)

var (
	// Errors is the namespace of all compile errors.
	Errors = errorx.NewNamespace("compile")

	// SyntaxError is the common type of all compile errors.
	SyntaxError = Errors.NewType("syntax")

	// BadInteger indicates an integer literal that does not fit in a byte.
	BadInteger = SyntaxError.NewSubtype("bad_integer")

	// Unbalanced indicates a stray ']' or an unclosed '['.
	Unbalanced = SyntaxError.NewSubtype("unbalanced")

	// TooLong indicates a quotation that does not fit the encoding.
	TooLong = SyntaxError.NewSubtype("too_long")

	// TokenProperty carries the offending token text.
	TokenProperty = errorx.RegisterPrintableProperty("token")

	// PositionProperty carries the rune offset of the offending token.
	PositionProperty = errorx.RegisterPrintableProperty("position")
)

func tokenError(typ *errorx.Type, tok Token, mess string, args ...interface{}) *errorx.Error {
	return typ.New(mess, args...).
		WithProperty(TokenProperty, tok.Text).
		WithProperty(PositionProperty, tok.Pos)
}

// Compile compiles one line of source into bytecode.
//
// Brackets are matched with the builder's frame stack rather than a parse
// tree: '[' opens a frame, ']' closes it into its parent as a quotation.
func Compile(src string) (bytecode.Code, error) {
	var (
		bld   bytecode.Builder
		opens []Token
	)
	for sc := NewScanner(src); ; {
		tok, ok := sc.Scan()
		if !ok {
			break
		}
		switch tok.Kind {
		case IntToken:
			v, err := strconv.ParseInt(tok.Text, 10, 64)
			if err != nil || v < 0 || v > bytecode.MaxVal || strings.HasPrefix(tok.Text, "-") {
				return nil, tokenError(BadInteger, tok,
					"integer %v at %v out of range 0..%v", tok.Text, tok.Pos, bytecode.MaxVal)
			}
			if err := bld.PushVal(int(v)); err != nil {
				return nil, tokenError(BadInteger, tok, "%v", err)
			}

		case SymbolToken:
			if err := bld.PushSymbol(tok.Text); err != nil {
				return nil, tokenError(SyntaxError, tok, "invalid symbol at %v: %v", tok.Pos, err)
			}

		case QuoteOpen:
			bld.PushQuote()
			opens = append(opens, tok)

		case QuoteClose:
			i := len(opens) - 1
			if i < 0 {
				return nil, tokenError(Unbalanced, tok, "unexpected ] at %v", tok.Pos)
			}
			open := opens[i]
			opens = opens[:i]
			if err := bld.PopQuote(); err != nil {
				return nil, tokenError(TooLong, open, "quotation at %v: %v", open.Pos, err)
			}
		}
	}
	if i := len(opens) - 1; i >= 0 {
		return nil, tokenError(Unbalanced, opens[i], "unclosed [ at %v", opens[i].Pos)
	}
	return bld.Bytecode(), nil
}
