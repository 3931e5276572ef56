package pirogue

import (
	"strings"

	"github.com/joomcode/errorx"

	"github.com/jcorbin/pirogue/internal/bytecode"
	"github.com/jcorbin/pirogue/internal/compiler"
	"github.com/jcorbin/pirogue/internal/flushio"
	"github.com/jcorbin/pirogue/internal/mem"
)

// VM evaluates bytecode against a single stack of items, a byte addressable
// memory, and a dictionary of user defined words.
//
// There is no program counter and no return stack: evaluating a word body or
// a quotation re-enters Eval, so Go's own call stack carries nesting. A word
// that calls itself without end will exhaust it.
//
// A VM is not safe for concurrent use.
type VM struct {
	logging

	out flushio.WriteFlusher

	// The stack holds every value: integers, inert symbols, and quotations.
	stack []bytecode.Item

	// Main memory and the word dictionary.
	mem    *mem.Memory
	memCap int

	prelude bool
	depth   int
}

// New creates a VM with the given options applied.
//
// New panics if the prelude is enabled and fails to evaluate, since that
// would be a defect in Prelude itself.
func New(opts ...VMOption) *VM {
	var vm VM
	defaultOptions.apply(&vm)
	VMOptions(opts...).apply(&vm)
	vm.mem = mem.New(vm.memCap)
	if vm.prelude {
		if err := vm.EvalString(Prelude); err != nil {
			panic(errorx.Decorate(err, "prelude failed"))
		}
	}
	return &vm
}

// EvalString compiles and evaluates one line of source.
func (vm *VM) EvalString(src string) error {
	code, err := compiler.Compile(src)
	if err != nil {
		return err
	}
	return vm.Eval(code)
}

// Eval decodes and evaluates code, left to right: integers and quotations
// are pushed, symbols are resolved by apply.
//
// Evaluation stops at the first error; effects of the instructions before it
// remain.
func (vm *VM) Eval(code bytecode.Code) error {
	vm.depth++
	defer func() { vm.depth-- }()
	vm.logf(vm.mark(), "eval %v", code)
	for p := bytecode.NewParser(code); p.HasBytes(); {
		item, err := p.ReadInstruction()
		if err != nil {
			vm.logf(vm.mark(), "! %v", err)
			return err
		}
		if sym, ok := item.(bytecode.Symbol); ok {
			if err := vm.apply(sym); err != nil {
				return err
			}
		} else {
			vm.push(item)
		}
	}
	return nil
}

// apply resolves a symbol in three tiers: a primitive word runs directly, a
// defined word has its newest definition evaluated, and anything else is
// pushed as an inert value.
func (vm *VM) apply(sym bytecode.Symbol) error {
	name := string(sym)
	if prim, ok := primitives[name]; ok {
		vm.logf(vm.mark(), "%v %v", name, vm.stack)
		if err := prim(vm); err != nil {
			vm.logf(vm.mark(), "! %v", err)
			return err
		}
		return nil
	}
	if code, ok := vm.mem.Lookup(name); ok {
		vm.logf(vm.mark(), "call %v", name)
		if err := vm.Eval(code); err != nil {
			return errorx.Decorate(err, "in %v", name)
		}
		return nil
	}
	vm.push(sym)
	return nil
}

func (vm *VM) mark() string { return strings.Repeat(">", vm.depth) }

// Stack returns a copy of the stack, bottom first.
func (vm *VM) Stack() []bytecode.Item {
	return append([]bytecode.Item(nil), vm.stack...)
}

// Push pushes items onto the stack, in order.
func (vm *VM) Push(items ...bytecode.Item) {
	vm.stack = append(vm.stack, items...)
}

// Memory returns the VM's memory and dictionary.
func (vm *VM) Memory() *mem.Memory { return vm.mem }

// Define adds code as the newest definition of name, exactly as the define
// word does.
func (vm *VM) Define(name string, code bytecode.Code) {
	vm.logf(vm.mark(), "define %v %v", name, code)
	vm.mem.Define(name, code)
}

// Lookup returns the newest definition of name.
func (vm *VM) Lookup(name string) (bytecode.Code, bool) { return vm.mem.Lookup(name) }

// Words returns the sorted names of all defined words.
func (vm *VM) Words() []string { return vm.mem.Words() }

// Flush flushes any output buffered by "." or ".s".
func (vm *VM) Flush() error { return vm.out.Flush() }

//// stack access

// kind names an operand variant; anyItem matches every item.
type kind int

const (
	anyItem kind = iota
	valItem
	symbolItem
	quoteItem
)

func (k kind) String() string {
	switch k {
	case valItem:
		return "value"
	case symbolItem:
		return "symbol"
	case quoteItem:
		return "quotation"
	default:
		return "item"
	}
}

func (k kind) matches(item bytecode.Item) bool {
	switch k {
	case valItem:
		_, ok := item.(bytecode.Val)
		return ok
	case symbolItem:
		_, ok := item.(bytecode.Symbol)
		return ok
	case quoteItem:
		_, ok := item.(bytecode.Quote)
		return ok
	default:
		return true
	}
}

func (vm *VM) push(item bytecode.Item) { vm.stack = append(vm.stack, item) }

// check verifies the top len(kinds) items, listed bottom first, before
// anything is popped, so that a failing word leaves the stack untouched.
func (vm *VM) check(word string, kinds ...kind) error {
	n := len(kinds)
	if len(vm.stack) < n {
		return StackUnderflow.New("%v needs %v items, stack has %v", word, n, len(vm.stack)).
			WithProperty(WordProperty, word)
	}
	base := len(vm.stack) - n
	for i, k := range kinds {
		if item := vm.stack[base+i]; !k.matches(item) {
			return TypeMismatch.New("%v expected %v at depth %v, got %v", word, k, n-i, item).
				WithProperty(WordProperty, word)
		}
	}
	return nil
}

// take pops n items, returning them bottom first; n must have been checked.
func (vm *VM) take(n int) []bytecode.Item {
	i := len(vm.stack) - n
	items := append([]bytecode.Item(nil), vm.stack[i:]...)
	vm.stack = vm.stack[:i]
	return items
}
