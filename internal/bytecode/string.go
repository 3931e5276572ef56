package bytecode

import "strings"

// String renders code as a bracketed, space separated list of its
// instructions, recursing into quotations: e.g. "[1 dup [2 +]]".
func String(code Code) (string, error) {
	var sb strings.Builder
	err := writeCode(&sb, code)
	return sb.String(), err
}

func writeCode(sb *strings.Builder, code Code) error {
	sb.WriteByte('[')
	defer sb.WriteByte(']')
	for p, first := NewParser(code), true; p.HasBytes(); first = false {
		item, err := p.ReadInstruction()
		if err != nil {
			return err
		}
		if !first {
			sb.WriteByte(' ')
		}
		if err := writeItem(sb, item); err != nil {
			return err
		}
	}
	return nil
}

func writeItem(sb *strings.Builder, item Item) error {
	if quote, ok := item.(Quote); ok {
		return writeCode(sb, Code(quote))
	}
	sb.WriteString(item.String())
	return nil
}

// FormatItems renders a list of items, such as a VM stack, in the same
// bracketed form as String.
func FormatItems(items []Item) (string, error) {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if err := writeItem(&sb, item); err != nil {
			return sb.String(), err
		}
	}
	sb.WriteByte(']')
	return sb.String(), nil
}

// Decode parses all of code into a list of items.
func Decode(code Code) ([]Item, error) {
	var items []Item
	for p := NewParser(code); p.HasBytes(); {
		item, err := p.ReadInstruction()
		if err != nil {
			return items, err
		}
		items = append(items, item)
	}
	return items, nil
}

// Encode is the inverse of Decode.
func Encode(items ...Item) (Code, error) {
	var bld Builder
	for _, item := range items {
		var err error
		switch it := item.(type) {
		case Val:
			err = bld.PushVal(int(it))
		case Symbol:
			err = bld.PushSymbol(string(it))
		case Quote:
			err = bld.WriteQuote(Code(it))
		}
		if err != nil {
			return nil, err
		}
	}
	return bld.Bytecode(), nil
}
