package logio_test

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jcorbin/pirogue/internal/logio"
)

func Test_Logger(t *testing.T) {
	var out strings.Builder
	log := logio.NewLogger(&out)

	log.Printf("", "[1 2]")
	log.Printf("INFO", "hello %v", "world")
	log.ErrorIf(nil)
	assert.Equal(t, 0, log.ExitCode(), "expected zero exit code before any error")

	log.ErrorIf(errors.New("stack underflow"))
	log.Printf("WARN", "careful\n")
	assert.Equal(t, 1, log.ExitCode(), "expected non-zero exit code after an error")

	assert.Equal(t, strings.Join([]string{
		"[1 2]",
		"INFO: hello world",
		"ERROR: stack underflow",
		"WARN: careful",
	}, "\n")+"\n", out.String())
}

type failWriter struct{}

func (failWriter) Write(p []byte) (int, error) { return 0, io.ErrClosedPipe }

func Test_Logger_outputError(t *testing.T) {
	log := logio.NewLogger(failWriter{})
	log.Printf("", "lost")
	assert.Equal(t, 2, log.ExitCode())
}

func Test_Writer(t *testing.T) {
	var lines []string
	lw := &logio.Writer{Logf: func(mess string, args ...interface{}) {
		lines = append(lines, fmt.Sprintf(mess, args...))
	}}
	io.WriteString(lw, "3 4 ")
	assert.Empty(t, lines, "expected no partial lines")
	io.WriteString(lw, "+\n[7]\npartial")
	assert.Equal(t, []string{"3 4 +", "[7]"}, lines)
	lw.Flush()
	assert.Equal(t, []string{"3 4 +", "[7]", "partial"}, lines)
}
