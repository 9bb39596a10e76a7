package machine

// heapPopByte/heapPop16 undo a heapPush8/heapPush16 in LIFO order; used
// only by doReturn to unwind an activation record. The heap otherwise never
// shrinks on its own (hpi/reserve only grow it), so underflow here means a
// corrupt frame.

func (m *Machine) heapPopByte() (byte, *Fault) {
	if m.hp <= m.heapStart {
		return 0, raise(ErrHeapUnderflow, "heap underflow popping byte at hp=%#04x", m.hp)
	}
	m.hp--
	return m.mem[m.hp], nil
}

func (m *Machine) heapPop16() (uint16, *Fault) {
	if m.hp < m.heapStart+2 {
		return 0, raise(ErrHeapUnderflow, "heap underflow popping word at hp=%#04x", m.hp)
	}
	m.hp -= 2
	return m.read16(m.hp), nil
}

// doCall implements spec.md §4.4: push a 6-byte activation-record header
// (prev_level, prev_display, return_pc, reserved) onto the heap, then
// transfer control into the callee at level L.
func (m *Machine) doCall(level int, target uint16) *Fault {
	prevDisplay := m.display[level]
	if f := m.heapPush8(byte(m.level << 1)); f != nil {
		return f
	}
	if f := m.heapPush16(prevDisplay); f != nil {
		return f
	}
	if f := m.heapPush16(m.pc); f != nil {
		return f
	}
	if f := m.heapPush8(0x00); f != nil {
		return f
	}
	m.level = level
	m.display[level] = m.hp
	m.pc = target
	return nil
}

// doReturn implements spec.md §4.4's return sequence: reclaim any blocks
// the frame reserved, then unwind the header in the reverse order it was
// pushed.
func (m *Machine) doReturn() *Fault {
	m.hp = m.display[m.level]

	if _, f := m.heapPopByte(); f != nil {
		return f
	}
	retPC, f := m.heapPop16()
	if f != nil {
		return f
	}
	prevDisplay, f := m.heapPop16()
	if f != nil {
		return f
	}
	prevLevelByte, f := m.heapPopByte()
	if f != nil {
		return f
	}

	m.pc = retPC
	m.display[m.level] = prevDisplay
	m.level = int(prevLevelByte >> 1)
	return nil
}
