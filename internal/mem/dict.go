package mem

import (
	"sort"

	"github.com/jcorbin/pirogue/internal/bytecode"
)

// Dict maps word names to their definition history. Definitions are only
// ever appended: a redefinition shadows, but never discards, what came
// before it.
//
// Names are interned on first definition; ids start at 1 so that 0 can mean
// "never defined".
//
// The zero value is an empty dictionary.
type Dict struct {
	names []string
	ids   map[string]uint
	defs  [][]bytecode.Code // indexed by id - 1
}

func (d *Dict) intern(name string) uint {
	id, ok := d.ids[name]
	if !ok {
		if d.ids == nil {
			d.ids = make(map[string]uint)
		}
		d.names = append(d.names, name)
		d.defs = append(d.defs, nil)
		id = uint(len(d.names))
		d.ids[name] = id
	}
	return id
}

// Define appends code as the newest definition of name.
func (d *Dict) Define(name string, code bytecode.Code) {
	id := d.intern(name)
	d.defs[id-1] = append(d.defs[id-1], code)
}

// Lookup returns the newest definition of name.
func (d *Dict) Lookup(name string) (bytecode.Code, bool) {
	hist := d.History(name)
	if len(hist) == 0 {
		return nil, false
	}
	return hist[len(hist)-1], true
}

// History returns every definition of name, oldest first.
func (d *Dict) History(name string) []bytecode.Code {
	if id := d.ids[name]; id != 0 {
		return d.defs[id-1]
	}
	return nil
}

// Words returns the sorted names of all defined words.
func (d *Dict) Words() []string {
	names := append([]string(nil), d.names...)
	sort.Strings(names)
	return names
}
