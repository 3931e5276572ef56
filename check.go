package pirogue

import (
	"context"
	"errors"
	"io"
	"os"
	"runtime"

	"github.com/joomcode/errorx"
	"golang.org/x/sync/errgroup"

	"github.com/jcorbin/pirogue/internal/compiler"
	"github.com/jcorbin/pirogue/internal/fileinput"
)

// CheckFiles compiles every line of every named file without evaluating
// anything, returning each compile error, decorated with its file:line, in
// file then line order. Files are checked concurrently; the returned error
// is the first failure to open or read a file, or ctx's error.
func CheckFiles(ctx context.Context, paths ...string) ([]error, error) {
	results := make([][]error, len(paths))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		i, path := i, path
		eg.Go(func() error {
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			in := fileinput.Input{Queue: []io.Reader{f}}
			defer in.Close()
			results[i], err = CheckLines(ctx, &in)
			return err
		})
	}
	err := eg.Wait()
	var errs []error
	for _, res := range results {
		errs = append(errs, res...)
	}
	return errs, err
}

// CheckLines compiles each line read from in, collecting compile errors.
func CheckLines(ctx context.Context, in *fileinput.Input) (errs []error, _ error) {
	for {
		if err := ctx.Err(); err != nil {
			return errs, err
		}
		line, err := in.ReadLine("")
		if errors.Is(err, io.EOF) {
			return errs, nil
		} else if err != nil {
			return errs, err
		}
		if _, err := compiler.Compile(line); err != nil {
			errs = append(errs, errorx.Decorate(err, "%v", in.Location()))
		}
	}
}
