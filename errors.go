package pirogue

import (
	"github.com/joomcode/errorx"
)

var (
	// Errors is the namespace of all VM runtime errors; decode errors live
	// in bytecode.Errors and compile errors in compiler.Errors.
	Errors = errorx.NewNamespace("pirogue")

	// RuntimeError is the common type of all runtime errors.
	RuntimeError = Errors.NewType("runtime")

	// StackUnderflow indicates a word needing more items than the stack has.
	StackUnderflow = RuntimeError.NewSubtype("stack_underflow")

	// TypeMismatch indicates an operand of the wrong variant.
	TypeMismatch = RuntimeError.NewSubtype("type_mismatch")

	// OutOfRange indicates a memory access outside of memory.
	OutOfRange = RuntimeError.NewSubtype("out_of_range")

	// DivideByZero is raised by "/".
	DivideByZero = RuntimeError.NewSubtype("divide_by_zero")

	// Encoding indicates a synthesized quotation that the bytecode format
	// cannot represent.
	Encoding = RuntimeError.NewSubtype("encoding")

	// ConfigError indicates an unreadable or invalid configuration file.
	ConfigError = Errors.NewType("config")

	// ImageError indicates an image that cannot be saved or loaded.
	ImageError = Errors.NewType("image")

	// WordProperty names the primitive word that failed.
	WordProperty = errorx.RegisterPrintableProperty("word")

	// AddrProperty carries the memory address of an OutOfRange error.
	AddrProperty = errorx.RegisterPrintableProperty("addr")

	// PathProperty names the file behind a ConfigError or ImageError.
	PathProperty = errorx.RegisterPrintableProperty("path")
)
