package bytecode

import "strings"

// Builder assembles bytecode incrementally. Nested quotations are built
// depth-first: PushQuote opens a fresh frame, and PopQuote closes it by
// writing its contents as a QUOTE instruction into the enclosing frame.
//
// The zero value is ready to use.
type Builder struct {
	frames []Code
}

func (bld *Builder) top() *Code {
	if len(bld.frames) == 0 {
		bld.frames = append(bld.frames, nil)
	}
	return &bld.frames[len(bld.frames)-1]
}

// Depth returns the number of open frames, including the outermost one.
func (bld *Builder) Depth() int {
	if len(bld.frames) == 0 {
		return 1
	}
	return len(bld.frames)
}

// PushVal appends a PUSH instruction; v must be within 0..MaxVal.
func (bld *Builder) PushVal(v int) error {
	if v < 0 || v > MaxVal {
		return EncodeError.New("literal %d out of range 0..%d", v, MaxVal)
	}
	top := bld.top()
	*top = append(*top, byte(PUSH), byte(v))
	return nil
}

// PushSymbol appends a SYMBOL instruction; name may not contain a NUL byte,
// since that terminates the encoded name.
func (bld *Builder) PushSymbol(name string) error {
	if strings.IndexByte(name, 0) >= 0 {
		return EncodeError.New("symbol %q contains a NUL byte", name)
	}
	top := bld.top()
	*top = append(*top, byte(SYMBOL))
	*top = append(*top, name...)
	*top = append(*top, 0)
	return nil
}

// WriteQuote appends a QUOTE instruction carrying code, which must be no
// longer than MaxQuoteLen.
func (bld *Builder) WriteQuote(code Code) error {
	if len(code) > MaxQuoteLen {
		return EncodeError.New("quotation of %d bytes exceeds %d", len(code), MaxQuoteLen)
	}
	top := bld.top()
	*top = append(*top, byte(QUOTE), byte(len(code)))
	*top = append(*top, code...)
	return nil
}

// PushQuote opens a new nested frame.
func (bld *Builder) PushQuote() {
	bld.top()
	bld.frames = append(bld.frames, nil)
}

// PopQuote closes the innermost frame, writing it into its parent.
func (bld *Builder) PopQuote() error {
	if bld.Depth() < 2 {
		return EncodeError.New("no open quotation")
	}
	i := len(bld.frames) - 1
	code := bld.frames[i]
	bld.frames = bld.frames[:i]
	return bld.WriteQuote(code)
}

// Bytecode returns a copy of the current frame's code; when all quotations
// have been closed, that is the complete program.
func (bld *Builder) Bytecode() Code {
	return append(Code{}, *bld.top()...)
}
