package pirogue

import (
	"fmt"
	"io"
	"sort"

	"github.com/jcorbin/pirogue/internal/bytecode"
)

// primitives maps each built-in word to its implementation; it is filled by
// init since dip and i re-enter Eval.
var primitives map[string]func(vm *VM) error

func init() {
	primitives = map[string]func(vm *VM) error{
		"+": (*VM).add,
		"-": (*VM).sub,
		"*": (*VM).mul,
		"/": (*VM).div,
		"=": (*VM).equal,
		"<": (*VM).less,

		"@": (*VM).fetch,
		"!": (*VM).store,

		".":  (*VM).print,
		".s": (*VM).printStack,

		"zap":  (*VM).zap,
		"dup":  (*VM).dup,
		"swap": (*VM).swap,
		"rot":  (*VM).rot,
		"over": (*VM).over,

		"i":    (*VM).exec,
		"dip":  (*VM).dip,
		"cat":  (*VM).cat,
		"cons": (*VM).cons,
		"unit": (*VM).unit,

		"define": (*VM).define,
	}
}

// Primitives returns the sorted names of all built-in words.
func Primitives() []string {
	names := make([]string, 0, len(primitives))
	for name := range primitives {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var (
	trueQuote  = bytecode.Quote(mustEncode(bytecode.Symbol("true")))
	falseQuote = bytecode.Quote(mustEncode(bytecode.Symbol("false")))
)

func mustEncode(items ...bytecode.Item) bytecode.Code {
	code, err := bytecode.Encode(items...)
	if err != nil {
		panic(err)
	}
	return code
}

//// Integer Operations

// binary checks for two values, pops them, and pushes op(a, b) where b was
// on top.
func (vm *VM) binary(word string, op func(a, b int64) (bytecode.Item, error)) error {
	if err := vm.check(word, valItem, valItem); err != nil {
		return err
	}
	a := int64(vm.stack[len(vm.stack)-2].(bytecode.Val))
	b := int64(vm.stack[len(vm.stack)-1].(bytecode.Val))
	res, err := op(a, b)
	if err != nil {
		return err
	}
	vm.take(2)
	vm.push(res)
	return nil
}

// Symbol   Name       Function
//    +     add        pop top 2 values, add, push
func (vm *VM) add() error {
	return vm.binary("+", func(a, b int64) (bytecode.Item, error) { return bytecode.Val(a + b), nil })
}

// Symbol   Name       Function
//    -     subtract   pop top 2 values, subtract top from second, push
func (vm *VM) sub() error {
	return vm.binary("-", func(a, b int64) (bytecode.Item, error) { return bytecode.Val(a - b), nil })
}

// Symbol   Name       Function
//    *     multiply   pop top 2 values, multiply, push
func (vm *VM) mul() error {
	return vm.binary("*", func(a, b int64) (bytecode.Item, error) { return bytecode.Val(a * b), nil })
}

// Symbol   Name       Function
//    /     divide     pop top 2 values, divide second by top truncating
//                     toward zero, push; fails on a zero divisor
func (vm *VM) div() error {
	return vm.binary("/", func(a, b int64) (bytecode.Item, error) {
		if b == 0 {
			return nil, DivideByZero.New("%v / 0", a).WithProperty(WordProperty, "/")
		}
		return bytecode.Val(a / b), nil
	})
}

// Symbol   Name       Function
//    =     equal      pop top 2 values, push [true] if equal else [false]
func (vm *VM) equal() error {
	return vm.binary("=", func(a, b int64) (bytecode.Item, error) {
		if a == b {
			return trueQuote, nil
		}
		return falseQuote, nil
	})
}

// Symbol   Name       Function
//    <     less than  pop top 2 values, push true if second < top else false
func (vm *VM) less() error {
	return vm.binary("<", func(a, b int64) (bytecode.Item, error) {
		if a < b {
			return bytecode.Symbol("true"), nil
		}
		return bytecode.Symbol("false"), nil
	})
}

// Note that the two comparisons differ: = pushes a quotation, which may be
// applied with i, while < pushes an inert symbol.

//// Memory Operations

// Symbol   Name    Function
//   @      fetch   pop top value, treat as address, push the byte stored there
func (vm *VM) fetch() error {
	if err := vm.check("@", valItem); err != nil {
		return err
	}
	addr := int64(vm.stack[len(vm.stack)-1].(bytecode.Val))
	b, err := vm.mem.Fetch(memAddr(addr))
	if err != nil {
		return OutOfRange.Wrap(err, "@").
			WithProperty(WordProperty, "@").
			WithProperty(AddrProperty, addr)
	}
	vm.stack[len(vm.stack)-1] = bytecode.Val(b)
	return nil
}

// Symbol   Name    Function
//   !      store   top of stack is address, 2nd is value; store the value's
//                  low byte to memory and pop both off the stack
func (vm *VM) store() error {
	if err := vm.check("!", valItem, valItem); err != nil {
		return err
	}
	v := int64(vm.stack[len(vm.stack)-2].(bytecode.Val))
	addr := int64(vm.stack[len(vm.stack)-1].(bytecode.Val))
	if err := vm.mem.Store(memAddr(addr), byte(v)); err != nil {
		return OutOfRange.Wrap(err, "!").
			WithProperty(WordProperty, "!").
			WithProperty(AddrProperty, addr)
	}
	vm.take(2)
	return nil
}

// memAddr narrows a value to an int address, mapping anything that does not
// fit to -1 so that memory rejects it.
func memAddr(v int64) int {
	if addr := int(v); int64(addr) == v {
		return addr
	}
	return -1
}

//// Output Operations

// Name    Function
//   .     pop top of stack and print it followed by a space; a quotation
//         prints as <bytecode:N> where N is its length in bytes
func (vm *VM) print() error {
	if err := vm.check(".", anyItem); err != nil {
		return err
	}
	item := vm.take(1)[0]
	if q, ok := item.(bytecode.Quote); ok {
		_, err := fmt.Fprintf(vm.out, "<bytecode:%v> ", len(q))
		return err
	}
	_, err := io.WriteString(vm.out, item.String()+" ")
	return err
}

// Name    Function
//  .s     print the whole stack, bottom first, on its own line
func (vm *VM) printStack() error {
	s, err := bytecode.FormatItems(vm.stack)
	if err != nil {
		return err
	}
	_, err = io.WriteString(vm.out, s+"\n")
	return err
}

//// Stack Operations

// Name    Function
//  zap    discard top of stack
func (vm *VM) zap() error {
	if err := vm.check("zap", anyItem); err != nil {
		return err
	}
	vm.take(1)
	return nil
}

// Name    Function
//  dup    push a copy of top of stack
func (vm *VM) dup() error {
	if err := vm.check("dup", anyItem); err != nil {
		return err
	}
	vm.push(vm.stack[len(vm.stack)-1])
	return nil
}

// Name    Function
//  swap   exchange top two items:    a b -- b a
func (vm *VM) swap() error {
	if err := vm.check("swap", anyItem, anyItem); err != nil {
		return err
	}
	i := len(vm.stack) - 2
	vm.stack[i], vm.stack[i+1] = vm.stack[i+1], vm.stack[i]
	return nil
}

// Name    Function
//  rot    move third item to top:    a b c -- b c a
func (vm *VM) rot() error {
	if err := vm.check("rot", anyItem, anyItem, anyItem); err != nil {
		return err
	}
	abc := vm.take(3)
	vm.stack = append(vm.stack, abc[1], abc[2], abc[0])
	return nil
}

// Name    Function
//  over   copy second item to top:   a b -- a b a
func (vm *VM) over() error {
	if err := vm.check("over", anyItem, anyItem); err != nil {
		return err
	}
	vm.push(vm.stack[len(vm.stack)-2])
	return nil
}

//// Quotation Operations

// Name    Function
//   i     pop top of stack; evaluate it if it is a quotation, otherwise push it
//         back unchanged
func (vm *VM) exec() error {
	if err := vm.check("i", anyItem); err != nil {
		return err
	}
	q, ok := vm.stack[len(vm.stack)-1].(bytecode.Quote)
	if !ok {
		return nil
	}
	vm.take(1)
	return vm.Eval(bytecode.Code(q))
}

// Name    Function
//  dip    pop two quotations, evaluate the top one, then push the other back
//         unevaluated:               [x] [p] -- p... [x]
func (vm *VM) dip() error {
	if err := vm.check("dip", quoteItem, quoteItem); err != nil {
		return err
	}
	xp := vm.take(2)
	if err := vm.Eval(bytecode.Code(xp[1].(bytecode.Quote))); err != nil {
		return err
	}
	vm.push(xp[0])
	return nil
}

// Name    Function
//  cat    concatenate two quotations: [a] [b] -- [a b]
func (vm *VM) cat() error {
	if err := vm.check("cat", quoteItem, quoteItem); err != nil {
		return err
	}
	ab := vm.take(2)
	vm.push(bytecode.Quote(bytecode.Cat(
		bytecode.Code(ab[0].(bytecode.Quote)),
		bytecode.Code(ab[1].(bytecode.Quote)))))
	return nil
}

// Name    Function
//  cons   quote the second quotation inside the top one: [a] [b] -- [[a] b]
func (vm *VM) cons() error {
	if err := vm.check("cons", quoteItem, quoteItem); err != nil {
		return err
	}
	a := bytecode.Code(vm.stack[len(vm.stack)-2].(bytecode.Quote))
	b := bytecode.Code(vm.stack[len(vm.stack)-1].(bytecode.Quote))
	code, err := bytecode.Cons(a, b)
	if err != nil {
		return Encoding.Wrap(err, "cons").WithProperty(WordProperty, "cons")
	}
	vm.take(2)
	vm.push(bytecode.Quote(code))
	return nil
}

// Name    Function
//  unit   wrap a quotation in another: [a] -- [[a]]
func (vm *VM) unit() error {
	if err := vm.check("unit", quoteItem); err != nil {
		return err
	}
	code, err := bytecode.Unit(bytecode.Code(vm.stack[len(vm.stack)-1].(bytecode.Quote)))
	if err != nil {
		return Encoding.Wrap(err, "unit").WithProperty(WordProperty, "unit")
	}
	vm.stack[len(vm.stack)-1] = bytecode.Quote(code)
	return nil
}

//// Dictionary Operations

// Symbol      Name        Function
//   define    define      top of stack is a name, 2nd a quotation; add the
//                         quotation as the newest definition of the name
//
// A name already defined evaluates to its body before define sees it, so
// redefining a word from source requires it to be quoted some other way,
// e.g. built by a program, or defined through VM.Define.
func (vm *VM) define() error {
	if err := vm.check("define", quoteItem, symbolItem); err != nil {
		return err
	}
	qs := vm.take(2)
	vm.Define(string(qs[1].(bytecode.Symbol)), bytecode.Code(qs[0].(bytecode.Quote)))
	return nil
}
