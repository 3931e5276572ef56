// Package bytecode implements the binary instruction encoding shared by the
// compiler and the VM.
//
// Every instruction starts with a single opcode byte:
//
//	PUSH   (1)  1 byte unsigned value             push literal integer 0..255
//	SYMBOL (2)  NUL-terminated byte string        push or apply a symbol
//	QUOTE  (3)  1 length byte + that many bytes   push a nested block, unevaluated
//
// A quotation's payload is itself bytecode, so blocks nest by plain byte
// containment; there is no separate tree representation.
package bytecode

import "github.com/joomcode/errorx"

// Opcode identifies the kind of an encoded instruction.
type Opcode byte

// Opcodes, in wire order.
const (
	PUSH   Opcode = 1
	SYMBOL Opcode = 2
	QUOTE  Opcode = 3
)

const (
	// MaxVal is the largest literal that PUSH can carry.
	MaxVal = 0xff

	// MaxQuoteLen is the largest payload that QUOTE can carry.
	MaxQuoteLen = 0xff
)

func (op Opcode) String() string {
	switch op {
	case PUSH:
		return "PUSH"
	case SYMBOL:
		return "SYMBOL"
	case QUOTE:
		return "QUOTE"
	}
	return "UNKNOWN"
}

// Code is an encoded sequence of zero or more instructions.
type Code []byte

// String renders code in its bracketed textual form; any decoding problem is
// shown inline rather than returned.
func (code Code) String() string {
	s, err := String(code)
	if err != nil {
		return s + "!(" + err.Error() + ")"
	}
	return s
}

var (
	// Errors is the namespace of all bytecode errors.
	Errors = errorx.NewNamespace("bytecode")

	// DecodeError indicates malformed or truncated bytecode.
	DecodeError = Errors.NewType("decode")

	// EncodeError indicates a value that the wire format cannot represent.
	EncodeError = Errors.NewType("encode")

	// OffsetProperty carries the byte offset of a decode failure.
	OffsetProperty = errorx.RegisterPrintableProperty("offset")
)
