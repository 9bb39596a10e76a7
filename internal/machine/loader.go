package machine

import (
	"bufio"
	"io"
)

// Load reads the hex-with-directives object stream (spec.md §6) into m's
// memory starting at CODE_START, and sets m.heapStart to one past the
// highest address written by a plain byte or a '*' item ('^' fixups do not
// move it; a stream that emits nothing leaves it at CODE_START). Grounded on the teacher's CompileSource
// line-scanning style (vm/compile.go) generalized from GVM's assembly
// mnemonics to this format's byte/directive stream; reads from an
// io.Reader (not a path) the way CompileSourceFromBuffer takes []string,
// so tests can load from strings.NewReader directly.
func Load(m *Machine, r io.Reader) *Fault {
	br := bufio.NewReader(r)
	cursor := uint16(0)
	highWater := uint16(0)

	// markWritten takes an absolute address and records one past it (also
	// absolute); heapStart ends up being that absolute watermark directly.
	markWritten := func(addr uint16, n uint16) {
		end := addr + n
		if end > highWater {
			highWater = end
		}
	}

	next := func() (byte, bool) {
		for {
			b, err := br.ReadByte()
			if err != nil {
				return 0, false
			}
			if b == '\r' || b == '\n' || b == ' ' || b == '\t' {
				continue
			}
			return b, true
		}
	}

	readHexDigit := func() (byte, *Fault) {
		b, ok := next()
		if !ok {
			return 0, raise(ErrLoaderFailure, "unexpected end of object stream")
		}
		if !isHexDigit(b) {
			return 0, raise(ErrLoaderFailure, "unexpected character %q in object stream", b)
		}
		return hexDigitValue(b), nil
	}

	readHex16 := func() (uint16, *Fault) {
		var v uint16
		for i := 0; i < 4; i++ {
			d, f := readHexDigit()
			if f != nil {
				return 0, f
			}
			v = v<<4 | uint16(d)
		}
		return v, nil
	}

	for {
		b, ok := next()
		if !ok {
			return raise(ErrLoaderFailure, "unexpected end of object stream, missing $ terminator")
		}

		switch b {
		case '$':
			if highWater == 0 {
				m.SetHeapStart(codeStart)
			} else {
				m.SetHeapStart(highWater)
			}
			return nil

		case ';':
			off, f := readHex16()
			if f != nil {
				return f
			}
			cursor = off

		case '^':
			off, f := readHex16()
			if f != nil {
				return f
			}
			target := codeStart + off
			abs := codeStart + cursor
			m.write16(target, abs)

		case '*':
			off, f := readHex16()
			if f != nil {
				return f
			}
			abs := codeStart + off
			m.write16(codeStart+cursor, abs)
			markWritten(codeStart+cursor, 2)
			cursor += 2

		default:
			if !isHexDigit(b) {
				return raise(ErrLoaderFailure, "unexpected character %q at start of item", b)
			}
			hi := hexDigitValue(b)
			lo, f := readHexDigit()
			if f != nil {
				return f
			}
			value := hi<<4 | lo
			addr := codeStart + cursor
			m.write8(addr, value)
			markWritten(addr, 1)
			cursor++
		}
	}
}
