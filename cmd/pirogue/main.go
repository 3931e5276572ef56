// Command pirogue runs pirogue source interactively, or from files.
//
// Usage:
//
//	pirogue [flags] [file ...]
//
// With no files, lines are read from standard input: interactively, with
// line editing and word completion, when it is a terminal. After each
// interactive line the stack is printed. Given files, each line of each file
// is evaluated in turn against the same VM; the exit status is non-zero if
// any line failed.
//
// Settings are read from a pirogue.toml file found in the working directory
// or any parent, or named by -config; flags override them.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/bobappleyard/readline"
	"github.com/mattn/go-isatty"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/jcorbin/pirogue"
	"github.com/jcorbin/pirogue/internal/fileinput"
	"github.com/jcorbin/pirogue/internal/logio"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	log := logio.NewLogger(os.Stderr)
	run(ctx, log, os.Args[1:])
	stop()
	os.Exit(log.ExitCode())
}

type flags struct {
	config  string
	trace   bool
	mem     int
	prelude bool
	image   string
	prompt  string
	verbose int
	dump    bool
	check   bool
	tee     string
}

func (f *flags) parse(args []string) (*flag.FlagSet, error) {
	fs := flag.NewFlagSet("pirogue", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: pirogue [flags] [file ...]\n")
		fs.PrintDefaults()
	}
	fs.StringVar(&f.config, "config", "", "load settings from this file, rather than a found pirogue.toml")
	fs.BoolVar(&f.trace, "trace", false, "enable VM trace logging")
	fs.IntVar(&f.mem, "mem", 0, "memory capacity in bytes")
	fs.BoolVar(&f.prelude, "prelude", false, "define prelude words at startup")
	fs.StringVar(&f.image, "image", "", "load an image from this file at start, if it exists, and save to it at exit")
	fs.StringVar(&f.prompt, "prompt", "", "interactive prompt")
	fs.IntVar(&f.verbose, "v", 0, "diagnostic log verbosity")
	fs.BoolVar(&f.dump, "dump", false, "dump VM state to stderr at exit")
	fs.BoolVar(&f.check, "check", false, "only compile the given files, reporting any errors")
	fs.StringVar(&f.tee, "tee", "", "also append program output to this file")
	return fs, fs.Parse(args)
}

// settings loads the config file, then applies any flags given explicitly.
func (f *flags) settings(fs *flag.FlagSet) (pirogue.Config, error) {
	cfg := pirogue.DefaultConfig()
	path := f.config
	if path == "" {
		found, err := pirogue.FindConfig(".")
		if err != nil {
			return cfg, err
		}
		path = found
	}
	if path != "" {
		var err error
		if cfg, err = pirogue.LoadConfig(path); err != nil {
			return cfg, err
		}
	}
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "trace":
			cfg.Trace = f.trace
		case "mem":
			cfg.Memory = f.mem
		case "prelude":
			cfg.Prelude = f.prelude
		case "image":
			cfg.Image = f.image
		case "prompt":
			cfg.Prompt = f.prompt
		case "v":
			cfg.Log.Verbosity = f.verbose
		}
	})
	return cfg, nil
}

func run(ctx context.Context, log *logio.Logger, args []string) {
	var f flags
	fs, err := f.parse(args)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			log.ErrorIf(err)
		}
		return
	}
	cfg, err := f.settings(fs)
	if err != nil {
		log.Errorf("%v", err)
		return
	}

	verbosity := cfg.Log.Verbosity
	if cfg.Trace && verbosity < 2 {
		verbosity = 2
	}
	if cfg.Log.File != "" {
		commonlog.Configure(verbosity, &cfg.Log.File)
	} else {
		commonlog.Configure(verbosity, nil)
	}
	diag := commonlog.GetLogger("pirogue")
	if cfg.Path != "" {
		diag.Infof("loaded config from %v", cfg.Path)
	}

	if f.check {
		errs, err := pirogue.CheckFiles(ctx, fs.Args()...)
		for _, cerr := range errs {
			log.Errorf("%v", cerr)
		}
		log.ErrorIf(err)
		return
	}

	opts := []pirogue.VMOption{
		pirogue.WithOutput(os.Stdout),
		cfg.Options(),
	}
	if cfg.Trace {
		opts = append(opts, pirogue.WithLogf(commonlog.GetLogger("pirogue.vm").Debugf))
	}
	if f.tee != "" {
		tf, err := os.OpenFile(f.tee, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			log.Errorf("%v", err)
			return
		}
		defer tf.Close()
		opts = append(opts, pirogue.WithTee(tf))
	}
	vm := pirogue.New(opts...)

	if cfg.Image != "" {
		if err := loadImage(vm, cfg.Image); err != nil {
			log.Errorf("%v", err)
			return
		}
		diag.Infof("loaded image %v", cfg.Image)
	}

	repl := pirogue.Repl{
		VM:     vm,
		Out:    os.Stdout,
		Log:    log,
		Prompt: cfg.Prompt,
		Stacks: cfg.Log.Verbosity >= 2,
	}
	if names := fs.Args(); len(names) > 0 {
		in, err := openFiles(names)
		if err != nil {
			log.Errorf("%v", err)
			return
		}
		defer in.Close()
		repl.In, repl.Quiet = in, true
	} else if fd := os.Stdin.Fd(); isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		repl.In = newReadlineReader(vm)
	} else {
		repl.In, repl.Quiet = &fileinput.Input{Queue: []io.Reader{
			fileinput.Named("<stdin>", os.Stdin),
		}}, true
	}

	log.ErrorIf(repl.Run(ctx))

	if f.dump {
		log.ErrorIf(vm.Dump(os.Stderr))
	}
	if cfg.Image != "" {
		if err := saveImage(vm, cfg.Image); err != nil {
			log.Errorf("%v", err)
		} else {
			diag.Infof("saved image %v", cfg.Image)
		}
	}
}

func openFiles(names []string) (*fileinput.Input, error) {
	var in fileinput.Input
	for _, name := range names {
		f, err := os.Open(name)
		if err != nil {
			in.Close()
			return nil, err
		}
		in.Queue = append(in.Queue, f)
	}
	return &in, nil
}

func loadImage(vm *pirogue.VM, path string) error {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	} else if err != nil {
		return err
	}
	defer f.Close()
	return vm.LoadImage(f)
}

// saveImage writes to a temporary file first, so that a failed save leaves
// any prior image intact.
func saveImage(vm *pirogue.VM, path string) (rerr error) {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	defer func() {
		if rerr != nil {
			os.Remove(tmp)
		}
	}()
	if err := vm.SaveImage(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// readlineReader completes from the words known when each line is requested;
// the completer only runs within readline.String, on the reading goroutine,
// so it never touches the VM itself.
type readlineReader struct {
	vm    *pirogue.VM
	names []string
}

func newReadlineReader(vm *pirogue.VM) *readlineReader {
	rr := &readlineReader{vm: vm}
	readline.Completer = rr.complete
	return rr
}

func (rr *readlineReader) complete(query, ctx string) []string {
	var res []string
	for _, name := range rr.names {
		if strings.HasPrefix(name, query) {
			res = append(res, name)
		}
	}
	return res
}

func (rr *readlineReader) ReadLine(prompt string) (string, error) {
	rr.names = append(pirogue.Primitives(), rr.vm.Words()...)
	line, err := readline.String(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(line) != "" {
		readline.AddHistory(line)
	}
	return line, nil
}
