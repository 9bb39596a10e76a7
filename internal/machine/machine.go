// Package machine implements the stack-oriented, block-structured
// bytecode interpreter: a 64 KiB shared memory image, a flat opcode
// dispatcher, display-register activation records, and a device-abstracted
// intrinsic set. Structurally grounded on the teacher VM's single mutable
// state struct (vm/vm.go's VM type) threaded through every handler rather
// than held in package globals.
package machine

const (
	memSize = 0x10000

	stackMin     = 0x0100
	initialStack = 0x01FF

	codeStart = 0x1700

	maxLevel = 8

	intrinsicOffset = 0x40
	intrinsicMax    = 128

	xpl0EOF = 0x1A
)

// Machine is the entire interpreter state: memory, registers, and the
// device set, threaded by pointer through every handler so more than one
// instance can exist in a process at once (Design Notes: "encapsulate all
// fields in a single value").
type Machine struct {
	mem [memSize]byte

	pc    uint16
	sp    uint16
	hp    uint16
	level int
	display [maxLevel]uint16

	heapStart uint16
	heapLimit uint16

	run   bool
	rerun bool

	trap bool
	err  Kind

	divRemainder int16

	devices *deviceSet

	trace TraceSink
}

// New builds a Machine around the given device set; callers set up the
// devices (console, disk paths) before calling Reset and Run.
func New(devices *deviceSet) *Machine {
	return &Machine{
		devices:   devices,
		heapLimit: 0x5FFF,
		trap:      true,
	}
}

// Reset (re)initializes registers the way the original interp() does at
// the top of its do{...}while(rerun) loop: sp/hp/level/run/rerun/trap/err
// are reinitialized and a synthetic call frame is pushed so that returning
// from the main program lands on the EXIT opcode at 0xFFFF.
func (m *Machine) Reset() *Fault {
	m.sp = initialStack
	m.hp = m.heapStart
	m.level = 0
	m.run = true
	m.rerun = false
	m.trap = true
	m.err = ErrNone
	m.divRemainder = 0
	for i := range m.display {
		m.display[i] = 0
	}

	// mem[0xFFFF] = EXIT (0x00) is the implicit return target for the
	// main program; already zero-valued at process start, set explicitly
	// so repeated Reset calls (rerun) are self-contained.
	m.mem[0xFFFF] = byte(OpExi)

	// Synthesize the caller of the main program: a level-0 call whose
	// return address is 0xFFFF, targeting CODE_START.
	m.pc = 0xFFFF
	return m.doCall(0, codeStart)
}

// SetHeapStart records where the loader finished writing code; Reset uses
// it as the initial heap pointer.
func (m *Machine) SetHeapStart(addr uint16) {
	m.heapStart = addr
}

// SetTrace installs a trace sink; nil disables tracing.
func (m *Machine) SetTrace(sink TraceSink) {
	m.trace = sink
}

// Err returns the last latched (non-fatal) error kind, as read by the
// errflg intrinsic.
func (m *Machine) Err() Kind { return m.err }
