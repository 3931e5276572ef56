package compiler_test

import (
	"testing"

	"github.com/joomcode/errorx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/pirogue/internal/bytecode"
	"github.com/jcorbin/pirogue/internal/compiler"
)

func scanAll(src string) (toks []compiler.Token) {
	for sc := compiler.NewScanner(src); ; {
		tok, ok := sc.Scan()
		if !ok {
			return toks
		}
		toks = append(toks, tok)
	}
}

func Test_Scanner(t *testing.T) {
	sym := func(text string, pos int) compiler.Token {
		return compiler.Token{Kind: compiler.SymbolToken, Text: text, Pos: pos}
	}
	num := func(text string, pos int) compiler.Token {
		return compiler.Token{Kind: compiler.IntToken, Text: text, Pos: pos}
	}
	open := func(pos int) compiler.Token {
		return compiler.Token{Kind: compiler.QuoteOpen, Text: "[", Pos: pos}
	}
	close := func(pos int) compiler.Token {
		return compiler.Token{Kind: compiler.QuoteClose, Text: "]", Pos: pos}
	}

	for _, tc := range []struct {
		name string
		src  string
		toks []compiler.Token
	}{
		{"empty", "", nil},
		{"blank", "   ", nil},
		{"words", "3 4 +", []compiler.Token{num("3", 0), num("4", 2), sym("+", 4)}},
		{"extra spaces", "  dup   zap ", []compiler.Token{sym("dup", 2), sym("zap", 8)}},
		{"tabs", "1\t2", []compiler.Token{num("1", 0), num("2", 2)}},
		{"quote", "[1 2 +] i", []compiler.Token{
			open(0), num("1", 1), num("2", 3), sym("+", 5), close(6), sym("i", 8),
		}},
		{"glued brackets", "[[dup]]", []compiler.Token{
			open(0), open(1), sym("dup", 2), close(5), close(6),
		}},
		{"operators", ".s = < @ ! .", []compiler.Token{
			sym(".s", 0), sym("=", 3), sym("<", 5), sym("@", 7), sym("!", 9), sym(".", 11),
		}},
		{"signed ints", "-1 +5 -", []compiler.Token{num("-1", 0), num("+5", 3), sym("-", 6)}},
		{"huge int", "99999999999999999999", []compiler.Token{num("99999999999999999999", 0)}},
		{"newline ends token", "1\n2", []compiler.Token{num("1", 0), num("2", 2)}},
		{"leading newline ends input", "\n1 2", nil},
		{"blank line ends input", "1\n\n2", []compiler.Token{num("1", 0)}},
		{"trailing space then newline ends input", "1 \n2", []compiler.Token{num("1", 0)}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.toks, scanAll(tc.src))
		})
	}
}

func Test_Scanner_crlf(t *testing.T) {
	// "\r" ends "a", then "\n" arrives with nothing pending.
	toks := scanAll("a\r\nb")
	require.Len(t, toks, 1)
	assert.Equal(t, "a", toks[0].Text)
}

func Test_Compile(t *testing.T) {
	for _, tc := range []struct {
		src  string
		want string
	}{
		{"", "[]"},
		{"3 4 +", "[3 4 +]"},
		{"[1 2 +] i", "[[1 2 +] i]"},
		{"[dup *] square define", "[[dup *] square define]"},
		{"[[[]]]", "[[[[]]]]"},
		{"0 255", "[0 255]"},
		{"[1] [2] cons i", "[[1] [2] cons i]"},
	} {
		t.Run(tc.src, func(t *testing.T) {
			code, err := compiler.Compile(tc.src)
			require.NoError(t, err)
			s, err := bytecode.String(code)
			require.NoError(t, err)
			assert.Equal(t, tc.want, s)
		})
	}
}

func Test_Compile_bytes(t *testing.T) {
	code, err := compiler.Compile("[1 x]")
	require.NoError(t, err)
	assert.Equal(t, bytecode.Code{3, 5, 1, 1, 2, 'x', 0}, code)
}

func Test_Compile_errors(t *testing.T) {
	for _, tc := range []struct {
		name  string
		src   string
		typ   *errorx.Type
		token string
		pos   int
	}{
		{"wide int", "1 256 +", compiler.BadInteger, "256", 2},
		{"negative int", "[ -3 ]", compiler.BadInteger, "-3", 2},
		{"negative zero", "1 -0", compiler.BadInteger, "-0", 2},
		{"huge int", "99999999999999999999", compiler.BadInteger, "99999999999999999999", 0},
		{"stray close", "1 ] 2", compiler.Unbalanced, "]", 2},
		{"unclosed open", "[1 [2]", compiler.Unbalanced, "[", 0},
		{"nul symbol", "a\x00b", compiler.SyntaxError, "a\x00b", 0},
		{"long quote", "[" + repeat("1 ", 128) + "]", compiler.TooLong, "[", 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			code, err := compiler.Compile(tc.src)
			require.Error(t, err, "unexpected code %v", code)
			assert.True(t, errorx.IsOfType(err, tc.typ), "expected %v, got %v", tc.typ, err)
			assert.True(t, errorx.IsOfType(err, compiler.SyntaxError), "expected a syntax error")

			token, ok := errorx.ExtractProperty(err, compiler.TokenProperty)
			assert.True(t, ok, "expected token property")
			assert.Equal(t, tc.token, token)

			pos, ok := errorx.ExtractProperty(err, compiler.PositionProperty)
			assert.True(t, ok, "expected position property")
			assert.Equal(t, tc.pos, pos)
		})
	}
}

func repeat(s string, n int) (r string) {
	for i := 0; i < n; i++ {
		r += s
	}
	return r
}
