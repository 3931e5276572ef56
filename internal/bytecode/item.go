package bytecode

import "strconv"

// Item is a decoded instruction, which is also the value domain of the VM
// stack: exactly one of Val, Symbol, or Quote.
type Item interface {
	String() string
	isItem()
}

// Val is a signed integer value.
type Val int64

// Symbol is a word name.
type Symbol string

// Quote is an unevaluated block of bytecode. Quotes are never modified after
// construction; combinators always build new Code.
type Quote Code

func (Val) isItem()    {}
func (Symbol) isItem() {}
func (Quote) isItem()  {}

func (v Val) String() string    { return strconv.FormatInt(int64(v), 10) }
func (s Symbol) String() string { return string(s) }
func (q Quote) String() string  { return Code(q).String() }

// Cat returns a new block running a then b.
func Cat(a, b Code) Code {
	code := make(Code, 0, len(a)+len(b))
	code = append(code, a...)
	return append(code, b...)
}

// Cons returns a new block that pushes a as a quotation and then runs b.
func Cons(a, b Code) (Code, error) {
	var bld Builder
	if err := bld.WriteQuote(a); err != nil {
		return nil, err
	}
	return Cat(bld.Bytecode(), b), nil
}

// Unit returns a new block that pushes a as a quotation.
func Unit(a Code) (Code, error) {
	var bld Builder
	if err := bld.WriteQuote(a); err != nil {
		return nil, err
	}
	return bld.Bytecode(), nil
}
