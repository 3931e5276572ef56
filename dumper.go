package pirogue

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/jcorbin/pirogue/internal/bytecode"
)

// Dump writes a human readable description of the VM's state to w: the
// stack, every defined word along with any definitions it shadows, and each
// row of memory that holds a non-zero byte.
func (vm *VM) Dump(w io.Writer) error {
	var buf bytes.Buffer
	vmDumper{vm: vm, out: &buf}.dump()
	_, err := buf.WriteTo(w)
	return err
}

const dumpRowSize = 16

type vmDumper struct {
	vm  *VM
	out *bytes.Buffer

	addrWidth int
}

func (dump vmDumper) dump() {
	fmt.Fprintf(dump.out, "# VM Dump\n")
	fmt.Fprintf(dump.out, "  depth: %v\n", dump.vm.depth)
	dump.dumpStack()
	dump.dumpWords()
	dump.dumpMem()
}

func (dump *vmDumper) dumpStack() {
	s, err := bytecode.FormatItems(dump.vm.stack)
	if err != nil {
		s += "!(" + err.Error() + ")"
	}
	fmt.Fprintf(dump.out, "  stack: %v\n", s)
}

func (dump *vmDumper) dumpWords() {
	words := dump.vm.mem.Words()
	if len(words) == 0 {
		return
	}
	fmt.Fprintf(dump.out, "# Words\n")
	for _, name := range words {
		hist := dump.vm.mem.History(name)
		fmt.Fprintf(dump.out, "  : %v %v\n", name, hist[len(hist)-1])
		for i := len(hist) - 2; i >= 0; i-- {
			fmt.Fprintf(dump.out, "    #%v %v\n", i, hist[i])
		}
	}
}

func (dump *vmDumper) dumpMem() {
	data := dump.vm.mem.Snapshot()
	if len(data) == 0 {
		return
	}
	if dump.addrWidth == 0 {
		dump.addrWidth = len(strconv.Itoa(dump.vm.mem.Cap() - 1))
	}
	fmt.Fprintf(dump.out, "# Memory @0..%v\n", dump.vm.mem.Cap()-1)
	for addr := 0; addr < len(data); addr += dumpRowSize {
		row := data[addr:]
		if len(row) > dumpRowSize {
			row = row[:dumpRowSize]
		}
		if allZero(row) {
			continue
		}
		fmt.Fprintf(dump.out, "  @%*v", dump.addrWidth, addr)
		for _, b := range row {
			dump.out.WriteByte(' ')
			dump.out.WriteString(strconv.Itoa(int(b)))
		}
		dump.out.WriteByte('\n')
	}
}

func allZero(row []byte) bool {
	for _, b := range row {
		if b != 0 {
			return false
		}
	}
	return true
}
