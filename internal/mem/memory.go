// Package mem implements the VM's addressable memory and word dictionary.
package mem

import "fmt"

// DefaultCapacity is the number of addressable bytes in a default Memory.
const DefaultCapacity = 64000

// Memory is a fixed-capacity byte store, addressed 0..Cap()-1, along with
// the dictionary of user-defined words.
type Memory struct {
	bytes []byte
	Dict
}

// New returns a zeroed memory with the given capacity; a non-positive
// capacity means DefaultCapacity.
func New(capacity int) *Memory {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Memory{bytes: make([]byte, capacity)}
}

// LimitError indicates a memory access outside of 0..Cap-1.
type LimitError struct {
	Addr int
	Cap  int
	Op   string
}

func (lim LimitError) Error() string {
	return fmt.Sprintf("%v @%v out of range 0..%v", lim.Op, lim.Addr, lim.Cap-1)
}

// Cap returns the number of addressable bytes.
func (m *Memory) Cap() int { return len(m.bytes) }

func (m *Memory) check(addr int, op string) error {
	if addr < 0 || addr >= len(m.bytes) {
		return LimitError{addr, len(m.bytes), op}
	}
	return nil
}

// Fetch returns the byte stored at addr.
func (m *Memory) Fetch(addr int) (byte, error) {
	if err := m.check(addr, "fetch"); err != nil {
		return 0, err
	}
	return m.bytes[addr], nil
}

// Store writes val at addr.
func (m *Memory) Store(addr int, val byte) error {
	if err := m.check(addr, "store"); err != nil {
		return err
	}
	m.bytes[addr] = val
	return nil
}

// Snapshot returns a copy of memory contents, omitting any trailing zeros.
func (m *Memory) Snapshot() []byte {
	end := len(m.bytes)
	for end > 0 && m.bytes[end-1] == 0 {
		end--
	}
	return append([]byte(nil), m.bytes[:end]...)
}

// Restore overwrites memory with data starting at address 0, zeroing the
// remainder. No partial restore is done if data does not fit.
func (m *Memory) Restore(data []byte) error {
	if len(data) > len(m.bytes) {
		return LimitError{len(data) - 1, len(m.bytes), "restore"}
	}
	n := copy(m.bytes, data)
	for i := n; i < len(m.bytes); i++ {
		m.bytes[i] = 0
	}
	return nil
}
