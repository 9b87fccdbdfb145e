package codegen

// Resolver maps a global name to the address used by Get and Set.
type Resolver interface {
	Resolve(name string) (addr int, ok bool)
}

// Interner is a Resolver that gives every name it is asked about the next
// free address, so addresses follow first-use order. It never fails.
type Interner struct {
	addrs map[string]int
	names []string
}

// NewInterner returns an Interner with names preassigned to addresses
// 0, 1, 2 and so on.
func NewInterner(names ...string) *Interner {
	in := &Interner{addrs: make(map[string]int)}
	for _, name := range names {
		in.Resolve(name)
	}
	return in
}

func (in *Interner) Resolve(name string) (int, bool) {
	if addr, ok := in.addrs[name]; ok {
		return addr, true
	}
	addr := len(in.names)
	in.addrs[name] = addr
	in.names = append(in.names, name)
	return addr, true
}

// Names returns the interned names indexed by address.
func (in *Interner) Names() []string {
	return in.names
}

// Table is a fixed name table; looking up a name it lacks fails.
type Table map[string]int

func (t Table) Resolve(name string) (int, bool) {
	addr, ok := t[name]
	return addr, ok
}
