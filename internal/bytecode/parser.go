package bytecode

// Parser decodes instructions from a byte sequence, front to back.
type Parser struct {
	code Code
	off  int
}

// NewParser returns a parser positioned at the start of code.
func NewParser(code Code) *Parser {
	return &Parser{code: code}
}

// HasBytes returns true while undecoded input remains.
func (p *Parser) HasBytes() bool { return p.off < len(p.code) }

func (p *Parser) consume() (byte, error) {
	if p.off >= len(p.code) {
		return 0, DecodeError.New("unexpected end of bytecode").
			WithProperty(OffsetProperty, p.off)
	}
	b := p.code[p.off]
	p.off++
	return b, nil
}

// ReadInstruction decodes the next instruction.
//
// A symbol missing its terminating NUL at the end of input, and a quotation
// whose payload is shorter than its length byte, are accepted as whatever
// bytes remain.
func (p *Parser) ReadInstruction() (Item, error) {
	at := p.off
	op, err := p.consume()
	if err != nil {
		return nil, err
	}
	switch Opcode(op) {
	case PUSH:
		v, err := p.consume()
		if err != nil {
			return nil, DecodeError.Wrap(err, "PUSH @%v missing value", at)
		}
		return Val(v), nil

	case SYMBOL:
		start := p.off
		for p.off < len(p.code) && p.code[p.off] != 0 {
			p.off++
		}
		name := string(p.code[start:p.off])
		if p.off < len(p.code) {
			p.off++ // NUL
		}
		return Symbol(name), nil

	case QUOTE:
		n, err := p.consume()
		if err != nil {
			return nil, DecodeError.Wrap(err, "QUOTE @%v missing length", at)
		}
		end := p.off + int(n)
		if end > len(p.code) {
			end = len(p.code)
		}
		quote := Quote(p.code[p.off:end:end])
		p.off = end
		return quote, nil
	}
	return nil, DecodeError.New("unknown opcode %d", op).
		WithProperty(OffsetProperty, at)
}
