package machine

import (
	"bufio"
	"io"
	"os"

	"golang.org/x/term"
)

// device is the per-device-number abstraction every I/O intrinsic routes
// through, grounded on the teacher's HardwareDevice interface
// (vm/devices.go) generalized from the teacher's register-mapped hardware
// devices to the character-stream devices spec.md §6 names.
type device interface {
	readByte() (byte, *Fault)
	writeByte(b byte) *Fault
	open() *Fault
	close() *Fault
}

// deviceSet holds the eight device slots (0-7); unpopulated slots fault
// with IO_ERROR on use, the same way the original's device switch falls
// through to an "unimplemented device" runtime error.
type deviceSet struct {
	devices [8]device

	diskInPath  string
	diskOutPath string
}

func newDeviceSet(diskInPath, diskOutPath string) *deviceSet {
	ds := &deviceSet{diskInPath: diskInPath, diskOutPath: diskOutPath}
	ds.devices[0] = newConsoleDevice()
	ds.devices[1] = newRawConsoleDevice()
	ds.devices[2] = &unimplementedDevice{}
	ds.devices[3] = newDiskDevice(diskInPath, diskOutPath)
	ds.devices[4] = &unimplementedDevice{}
	ds.devices[7] = &nullDevice{}
	return ds
}

func (ds *deviceSet) get(num uint16) (device, *Fault) {
	if num >= uint16(len(ds.devices)) || ds.devices[num] == nil {
		return nil, raise(ErrIOError, "no such device %d", num)
	}
	return ds.devices[num], nil
}

func (ds *deviceSet) closeAll() {
	for _, d := range ds.devices {
		if d != nil {
			_ = d.close()
		}
	}
}

// --- device 0: console, cooked -----------------------------------------

type consoleDevice struct {
	in  *bufio.Reader
	out *bufio.Writer
}

func newConsoleDevice() *consoleDevice {
	return newConsoleDeviceOn(os.Stdin, os.Stdout)
}

func newConsoleDeviceOn(in io.Reader, out io.Writer) *consoleDevice {
	return &consoleDevice{
		in:  bufio.NewReader(in),
		out: bufio.NewWriter(out),
	}
}

func (c *consoleDevice) readByte() (byte, *Fault) {
	b, err := c.in.ReadByte()
	if err != nil {
		return 0, raise(ErrIOError, "console read: %v", err)
	}
	if b == '\n' {
		b = '\r'
	}
	return b, nil
}

func (c *consoleDevice) writeByte(b byte) *Fault {
	if err := c.out.WriteByte(b); err != nil {
		return raise(ErrIOError, "console write: %v", err)
	}
	if err := c.out.Flush(); err != nil {
		return raise(ErrIOError, "console flush: %v", err)
	}
	return nil
}

func (c *consoleDevice) open() *Fault { return nil }

func (c *consoleDevice) close() *Fault {
	if err := c.out.Flush(); err != nil {
		return raise(ErrIOError, "console flush: %v", err)
	}
	return nil
}

// --- device 1: console, raw ---------------------------------------------
//
// Built for real against golang.org/x/term (term.MakeRaw/term.Restore),
// grounded on IntuitionEngine's terminal_host.go. When stdin is not a
// terminal (tests, pipes, CI) MakeRaw fails and the device degrades to
// IO_ERROR on use, matching spec.md §6's "not required; may return
// IO_ERROR" fallback for this device.
type rawConsoleDevice struct {
	fd       int
	oldState *term.State
	raw      bool
}

func newRawConsoleDevice() *rawConsoleDevice {
	return &rawConsoleDevice{fd: int(os.Stdin.Fd())}
}

func (r *rawConsoleDevice) open() *Fault {
	state, err := term.MakeRaw(r.fd)
	if err != nil {
		return raise(ErrIOError, "raw console unavailable: %v", err)
	}
	r.oldState = state
	r.raw = true
	return nil
}

func (r *rawConsoleDevice) close() *Fault {
	if r.raw && r.oldState != nil {
		_ = term.Restore(r.fd, r.oldState)
		r.raw = false
	}
	return nil
}

func (r *rawConsoleDevice) readByte() (byte, *Fault) {
	if !r.raw {
		return 0, raise(ErrIOError, "raw console not open")
	}
	var buf [1]byte
	if _, err := os.Stdin.Read(buf[:]); err != nil {
		return 0, raise(ErrIOError, "raw console read: %v", err)
	}
	return buf[0], nil
}

func (r *rawConsoleDevice) writeByte(b byte) *Fault {
	if !r.raw {
		return raise(ErrIOError, "raw console not open")
	}
	if _, err := os.Stdout.Write([]byte{b}); err != nil {
		return raise(ErrIOError, "raw console write: %v", err)
	}
	return nil
}

// --- device 3: disk, bound to -i/-o -------------------------------------

type diskDevice struct {
	inPath, outPath string
	in              *os.File
	out             *os.File
}

func newDiskDevice(inPath, outPath string) *diskDevice {
	return &diskDevice{inPath: inPath, outPath: outPath}
}

func (d *diskDevice) open() *Fault {
	if d.in != nil {
		_ = d.in.Close()
		d.in = nil
	}
	if d.out != nil {
		_ = d.out.Close()
		d.out = nil
	}
	if d.inPath != "" {
		f, err := os.Open(d.inPath)
		if err != nil {
			return raise(ErrIOError, "open disk input %q: %v", d.inPath, err)
		}
		d.in = f
	}
	if d.outPath != "" {
		f, err := os.Create(d.outPath)
		if err != nil {
			return raise(ErrIOError, "open disk output %q: %v", d.outPath, err)
		}
		d.out = f
	}
	return nil
}

func (d *diskDevice) close() *Fault {
	var fault *Fault
	if d.in != nil {
		_ = d.in.Close()
		d.in = nil
	}
	if d.out != nil {
		if err := d.out.Close(); err != nil {
			fault = raise(ErrIOError, "close disk output: %v", err)
		}
		d.out = nil
	}
	return fault
}

func (d *diskDevice) readByte() (byte, *Fault) {
	if d.in == nil {
		return 0, raise(ErrIOError, "disk input not open")
	}
	var buf [1]byte
	if _, err := d.in.Read(buf[:]); err != nil {
		return 0, raise(ErrIOError, "disk read: %v", err)
	}
	b := buf[0]
	if b == '\n' {
		b = '\r'
	}
	return b, nil
}

func (d *diskDevice) writeByte(b byte) *Fault {
	if d.out == nil {
		return raise(ErrIOError, "disk output not open")
	}
	if _, err := d.out.Write([]byte{b}); err != nil {
		return raise(ErrIOError, "disk write: %v", err)
	}
	return nil
}

// --- device 7: null -------------------------------------------------------

type nullDevice struct{}

func (nullDevice) readByte() (byte, *Fault) { return xpl0EOF, nil }
func (nullDevice) writeByte(byte) *Fault    { return nil }
func (nullDevice) open() *Fault             { return nil }
func (nullDevice) close() *Fault            { return nil }

// --- devices 2 and 4: printer, serial -------------------------------------

type unimplementedDevice struct{}

func (unimplementedDevice) readByte() (byte, *Fault) { return 0, raise(ErrIOError, "device not implemented") }
func (unimplementedDevice) writeByte(byte) *Fault    { return raise(ErrIOError, "device not implemented") }
func (unimplementedDevice) open() *Fault             { return raise(ErrIOError, "device not implemented") }
func (unimplementedDevice) close() *Fault            { return nil }
