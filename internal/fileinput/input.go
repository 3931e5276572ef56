// Package fileinput reads lines from a queue of named inputs, tracking the
// location of each line for error reports.
package fileinput

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Location names a line in an Input file.
type Location struct {
	Name string
	Line int
}

func (loc Location) String() string { return fmt.Sprintf("%v:%v", loc.Name, loc.Line) }

// Input reads lines sequentially through a Queue of one or more input
// streams. Streams that implement io.Closer are closed once exhausted.
type Input struct {
	Queue []io.Reader

	cur  io.Reader
	br   *bufio.Reader
	scan Location
	last Location
}

// Location returns the location of the most recently read line.
func (in *Input) Location() Location { return in.last }

// ReadLine returns the next line, without its line ending, moving on through
// the queue as each stream runs dry; io.EOF is returned once the queue is
// exhausted. The prompt is ignored, so that an Input can stand in for an
// interactive line reader.
func (in *Input) ReadLine(prompt string) (string, error) {
	for {
		if in.br == nil && !in.nextIn() {
			return "", io.EOF
		}
		line, err := in.br.ReadString('\n')
		if err != nil && err != io.EOF {
			return "", err
		}
		if line == "" && err == io.EOF {
			in.closeIn()
			continue
		}
		in.scan.Line++
		in.last = in.scan
		if err == io.EOF {
			in.closeIn()
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
}

func (in *Input) nextIn() bool {
	if len(in.Queue) == 0 {
		return false
	}
	in.cur, in.Queue = in.Queue[0], in.Queue[1:]
	in.br = bufio.NewReader(in.cur)
	in.scan = Location{Name: nameOf(in.cur)}
	return true
}

func (in *Input) closeIn() {
	if cl, ok := in.cur.(io.Closer); ok {
		cl.Close()
	}
	in.cur, in.br = nil, nil
}

// Close closes the current stream and any still queued.
func (in *Input) Close() error {
	in.closeIn()
	for _, r := range in.Queue {
		if cl, ok := r.(io.Closer); ok {
			cl.Close()
		}
	}
	in.Queue = nil
	return nil
}

// Named attaches a name to a reader, for use in Locations.
func Named(name string, r io.Reader) io.Reader {
	return namedReader{r, name}
}

type namedReader struct {
	io.Reader
	name string
}

func (nr namedReader) Name() string { return nr.name }

func nameOf(obj interface{}) string {
	if nom, ok := obj.(interface{ Name() string }); ok {
		return nom.Name()
	}
	return fmt.Sprintf("<unnamed %T>", obj)
}
