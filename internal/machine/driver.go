package machine

import (
	"fmt"
	"io"
	"os"
)

// Config wires a Machine to its external collaborators: the disk device's
// backing files and an optional trace sink. Mirrors the teacher's
// RunProgram taking its dependencies as plain arguments rather than
// reaching for globals.
type Config struct {
	DiskInPath  string
	DiskOutPath string
	Trace       TraceSink
}

// NewInterpreter builds a Machine wired to the devices described by cfg.
// The object stream must still be loaded via Load before Run/Interp.
func NewInterpreter(cfg Config) *Machine {
	ds := newDeviceSet(cfg.DiskInPath, cfg.DiskOutPath)
	m := New(ds)
	if cfg.Trace != nil {
		m.SetTrace(cfg.Trace)
	}
	return m
}

// LoadFile opens path and loads it as the object stream.
func LoadFile(m *Machine, path string) *Fault {
	f, err := os.Open(path)
	if err != nil {
		return raise(ErrLoaderFailure, "%v", err)
	}
	defer f.Close()
	return Load(m, f)
}

// LoadReader is a thin pass-through kept for symmetry with LoadFile, for
// any caller that already has an io.Reader in hand.
func LoadReader(m *Machine, r io.Reader) *Fault {
	return Load(m, r)
}

// Interp is the top-level driver loop: spec.md §4's do{...}while(rerun)
// cycle. Each pass reinitializes registers via Reset, runs the dispatcher
// to completion, and either exits cleanly, re-enters on a rerun request,
// or reports a fatal fault and exits with its numeric kind as the process
// code. progname prefixes the diagnostic line exactly as the original's
// fatal_error does ("progname: message"). A single top-level recover
// converts any unexpected Go panic — a programming error, not a guest
// fault — into INTERNAL_ERROR rather than crashing the process, on top of
// (not instead of) the explicit bounds checks every primitive performs.
func Interp(progname string, m *Machine) (exitCode int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "%s: internal error: %v\n", progname, r)
			exitCode = int(ErrInternalError)
		}
		m.devices.closeAll()
	}()

	for {
		fault := m.Reset()
		if fault == nil {
			fault = m.Run()
		}

		if fault != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", progname, fault.Error())
			if !m.rerun {
				return int(fault.Kind)
			}
			continue
		}

		if !m.rerun {
			return 0
		}
	}
}
