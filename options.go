package pirogue

import (
	"io"

	"github.com/jcorbin/pirogue/internal/flushio"
)

// VMOption configures a VM under New.
type VMOption interface{ apply(vm *VM) }

// VMOptions combines any number of options into one; nil options are
// ignored.
func VMOptions(opts ...VMOption) VMOption {
	var res options
	for _, opt := range opts {
		switch impl := opt.(type) {
		case nil:
		case options:
			res = append(res, impl...)
		default:
			res = append(res, opt)
		}
	}
	return res
}

// WithOutput directs the output of "." and ".s"; the default discards it.
func WithOutput(w io.Writer) VMOption { return outputOption{w} }

// WithTee copies output to w, in addition to any WithOutput writer.
func WithTee(w io.Writer) VMOption { return teeOption{w} }

// WithMemCapacity sets the number of addressable memory bytes; the default
// is mem.DefaultCapacity.
func WithMemCapacity(capacity int) VMOption { return memCapOption(capacity) }

// WithPrelude enables (or disables) the words defined by Prelude.
func WithPrelude(enabled bool) VMOption { return preludeOption(enabled) }

// WithLogf enables trace logging through logfn.
func WithLogf(logfn func(mess string, args ...interface{})) VMOption { return logfnOption(logfn) }

var defaultOptions = VMOptions(
	WithOutput(io.Discard),
)

type options []VMOption

func (opts options) apply(vm *VM) {
	for _, opt := range opts {
		opt.apply(vm)
	}
}

type outputOption struct{ io.Writer }
type teeOption struct{ io.Writer }
type memCapOption int
type preludeOption bool
type logfnOption func(mess string, args ...interface{})

func (o outputOption) apply(vm *VM) {
	if vm.out != nil {
		vm.out.Flush()
	}
	vm.out = flushio.NewWriteFlusher(o.Writer)
}

func (o teeOption) apply(vm *VM) {
	vm.out = flushio.Tee(vm.out, flushio.NewWriteFlusher(o.Writer))
}

func (capacity memCapOption) apply(vm *VM) { vm.memCap = int(capacity) }

func (enabled preludeOption) apply(vm *VM) { vm.prelude = bool(enabled) }

func (logfn logfnOption) apply(vm *VM) { vm.logfn = logfn }
