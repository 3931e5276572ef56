package pirogue

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/joomcode/errorx"
	"github.com/kr/pretty"
	"github.com/stretchr/testify/assert"

	"github.com/jcorbin/pirogue/internal/bytecode"
	"github.com/jcorbin/pirogue/internal/compiler"
	"github.com/jcorbin/pirogue/internal/logio"
)

type vmTestCases []vmTestCase

func (vmts vmTestCases) run(t *testing.T) {
	{
		var exclusive []vmTestCase
		for _, vmt := range vmts {
			if vmt.exclusive {
				exclusive = append(exclusive, vmt)
			}
		}
		if len(exclusive) > 0 {
			vmts = exclusive
		}
	}
	for _, vmt := range vmts {
		t.Run(vmt.name, vmt.run)
	}
}

func vmTest(name string) (vmt vmTestCase) {
	vmt.name = name
	return vmt
}

type optFunc func(vm *VM)

func (f optFunc) apply(vm *VM) { f(vm) }

type vmTestStep struct {
	name string
	do   func(vm *VM) error
}

type vmTestCase struct {
	name    string
	opts    []VMOption
	setup   []func(t *testing.T, vm *VM)
	steps   []vmTestStep
	expect  []func(t *testing.T, vm *VM)
	wantErr *errorx.Type

	exclusive bool
}

func (vmt vmTestCase) exclusiveTest() vmTestCase {
	vmt.exclusive = true
	return vmt
}

func (vmt vmTestCase) withOptions(opts ...VMOption) vmTestCase {
	vmt.opts = append(vmt.opts, opts...)
	return vmt
}

func (vmt vmTestCase) withStack(items ...bytecode.Item) vmTestCase {
	vmt.opts = append(vmt.opts, optFunc(func(vm *VM) {
		vm.stack = append(vm.stack, items...)
	}))
	return vmt
}

func (vmt vmTestCase) withMemAt(addr int, values ...byte) vmTestCase {
	vmt.setup = append(vmt.setup, func(t *testing.T, vm *VM) {
		for i, value := range values {
			if err := vm.mem.Store(addr+i, value); err != nil {
				t.Fatalf("withMemAt: %v", err)
			}
		}
	})
	return vmt
}

func (vmt vmTestCase) withWord(name, src string) vmTestCase {
	vmt.setup = append(vmt.setup, func(t *testing.T, vm *VM) {
		vm.Define(name, compile(src))
	})
	return vmt
}

// withInput adds lines to evaluate in order, stopping at the first error.
func (vmt vmTestCase) withInput(lines ...string) vmTestCase {
	for _, line := range lines {
		line := line
		vmt.steps = append(vmt.steps, vmTestStep{
			name: fmt.Sprintf("eval %q", line),
			do:   func(vm *VM) error { return vm.EvalString(line) },
		})
	}
	return vmt
}

func (vmt vmTestCase) do(name string, op func(vm *VM) error) vmTestCase {
	vmt.steps = append(vmt.steps, vmTestStep{name, op})
	return vmt
}

func (vmt vmTestCase) expectError(typ *errorx.Type) vmTestCase {
	vmt.wantErr = typ
	return vmt
}

func (vmt vmTestCase) expectStack(items ...bytecode.Item) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		if items == nil {
			items = []bytecode.Item{}
		}
		stack := vm.stack
		if stack == nil {
			stack = []bytecode.Item{}
		}
		assert.Equal(t, items, stack, "expected stack items")
	})
	return vmt
}

func (vmt vmTestCase) expectStackString(s string) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		got, err := bytecode.FormatItems(vm.stack)
		assert.NoError(t, err, "unexpected stack format error")
		assert.Equal(t, s, got, "expected stack")
	})
	return vmt
}

func (vmt vmTestCase) expectMemAt(addr int, values ...byte) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		for i, value := range values {
			got, err := vm.mem.Fetch(addr + i)
			if assert.NoError(t, err) {
				assert.Equal(t, value, got, "expected memory value @%v", addr+i)
			}
		}
	})
	return vmt
}

func (vmt vmTestCase) expectWord(name string, srcs ...string) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		var want []bytecode.Code
		for _, src := range srcs {
			want = append(want, compile(src))
		}
		assert.Equal(t, want, vm.mem.History(name), "expected %q definitions", name)
	})
	return vmt
}

func (vmt vmTestCase) expectOutput(output string) vmTestCase {
	var out strings.Builder
	vmt.opts = append(vmt.opts, WithOutput(&out))
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, output, out.String(), "expected output")
	})
	return vmt
}

func (vmt vmTestCase) expectDump(dump string) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		var out strings.Builder
		assert.NoError(t, vm.Dump(&out))
		assert.Equal(t, dump, out.String(), "expected dump")
	})
	return vmt
}

func (vmt vmTestCase) run(t *testing.T) {
	defer func(then time.Time) {
		label := "PASS"
		if t.Failed() {
			label = "FAIL"
		}
		t.Logf("%v\t%v\t%v", label, t.Name(), time.Since(then))
	}(time.Now())

	// trace lines are only shown if the test fails
	var trace []string
	opts := append([]VMOption{
		WithLogf(func(mess string, args ...interface{}) {
			trace = append(trace, fmt.Sprintf(mess, args...))
		}),
	}, vmt.opts...)
	vm := New(opts...)
	defer func() {
		if t.Failed() {
			vmt.dumpToTest(t, vm, trace)
		}
	}()

	for _, setup := range vmt.setup {
		setup(t, vm)
	}

	err := vmt.runSteps(vm)
	if vmt.wantErr != nil {
		assert.True(t, errorx.IsOfType(err, vmt.wantErr), "expected %v error\ngot: %+v", vmt.wantErr, err)
	} else {
		assert.NoError(t, err, "unexpected VM error")
	}
	assert.NoError(t, vm.Flush(), "unexpected flush error")

	for _, expect := range vmt.expect {
		expect(t, vm)
	}
}

func (vmt vmTestCase) runSteps(vm *VM) error {
	for _, step := range vmt.steps {
		vm.logf("#", "%v", step.name)
		if err := step.do(vm); err != nil {
			return err
		}
	}
	return nil
}

func (vmt vmTestCase) dumpToTest(t *testing.T, vm *VM, trace []string) {
	for _, line := range trace {
		t.Logf("trace: %v", line)
	}
	t.Logf("stack: %# v", pretty.Formatter(vm.stack))
	lw := logio.Writer{Logf: t.Logf}
	defer lw.Flush()
	vm.Dump(&lw)
}

//// utilities

func compile(src string) bytecode.Code {
	code, err := compiler.Compile(src)
	if err != nil {
		panic(err)
	}
	return code
}

// q returns the quotation written in source as "[src]".
func q(src string) bytecode.Quote { return bytecode.Quote(compile(src)) }

func v(n int64) bytecode.Val { return bytecode.Val(n) }

func sym(name string) bytecode.Symbol { return bytecode.Symbol(name) }

// pushes returns a quotation of n "1" literals, 2n bytes long.
func pushes(n int) bytecode.Quote {
	code := make(bytecode.Code, 0, 2*n)
	for i := 0; i < n; i++ {
		code = append(code, byte(bytecode.PUSH), 1)
	}
	return bytecode.Quote(code)
}

func lines(parts ...string) string {
	return strings.Join(parts, "\n") + "\n"
}
