package pirogue

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jcorbin/pirogue/internal/bytecode"
	"github.com/jcorbin/pirogue/internal/fileinput"
	"github.com/jcorbin/pirogue/internal/logio"
	"github.com/jcorbin/pirogue/internal/panicerr"
)

// LineReader provides lines of source, one per call, returning io.EOF once
// input ends. The prompt may be shown to an interactive user, or ignored.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

// Repl runs a read-eval-print loop against one persistent VM: each line is
// compiled and evaluated, any error is reported, and the stack is printed.
// An error only ends the evaluation of its own line.
type Repl struct {
	VM  *VM
	In  LineReader
	Out io.Writer
	Log *logio.Logger

	Prompt string

	// Stacks logs the Go stack of any panic recovered while evaluating.
	Stacks bool

	// Quiet suppresses the prompt, printing the stack after each line, and
	// the CTRL-C or CTRL-D note printed when a session ends.
	Quiet bool
}

// DefaultPrompt is the prompt used by a Repl with none set.
const DefaultPrompt = ">> "

// Run reads and evaluates lines until input ends, returning nil, or until
// ctx is done, which also returns nil, as an interrupt is a normal way for a
// session to end. Only an input error is returned.
func (r *Repl) Run(ctx context.Context) error {
	for {
		line, err := r.readLine(ctx)
		if ctx.Err() != nil {
			r.note("CTRL-C")
			return nil
		} else if errors.Is(err, io.EOF) {
			r.note("CTRL-D")
			return nil
		} else if err != nil {
			return err
		}
		r.EvalLine(line)
	}
}

type lineResult struct {
	line string
	err  error
}

// readLine reads in a separate goroutine, so that a canceled context ends the
// session even while an interactive reader blocks. That goroutine is left
// blocked in ReadLine until it returns; the line it reads is dropped.
func (r *Repl) readLine(ctx context.Context) (string, error) {
	prompt := r.Prompt
	if r.Quiet {
		prompt = ""
	} else if prompt == "" {
		prompt = DefaultPrompt
	}
	res := make(chan lineResult, 1)
	go func() {
		line, err := r.In.ReadLine(prompt)
		res <- lineResult{line, err}
	}()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case lr := <-res:
		return lr.line, lr.err
	}
}

// EvalLine evaluates one line of source, reporting any error through Log,
// and then prints the stack unless Quiet. It returns the evaluation error.
func (r *Repl) EvalLine(line string) error {
	err := panicerr.Recover("eval", func() error {
		return r.VM.EvalString(line)
	})
	if ferr := r.VM.Flush(); err == nil {
		err = ferr
	}
	if err != nil {
		r.report(err)
	}
	if !r.Quiet {
		s, serr := bytecode.FormatItems(r.VM.stack)
		if serr != nil {
			r.report(serr)
		}
		r.println(s)
	}
	return err
}

func (r *Repl) report(err error) {
	if r.Log == nil {
		return
	}
	if loc, ok := r.In.(interface{ Location() fileinput.Location }); ok {
		r.Log.Errorf("%v: %v", loc.Location(), err)
	} else {
		r.Log.Errorf("%v", err)
	}
	if r.Stacks && panicerr.IsPanic(err) {
		r.Log.Printf("STACK", "%s", panicerr.PanicStack(err))
	}
}

func (r *Repl) note(s string) {
	if !r.Quiet {
		r.println(s)
	}
}

func (r *Repl) println(s string) {
	if r.Out != nil {
		fmt.Fprintln(r.Out, s)
	}
}
