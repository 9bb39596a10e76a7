package machine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestImsSignExtension(t *testing.T) {
	m := newTestMachine(t)
	for b := 0; b < 256; b++ {
		m.mem[m.pc] = byte(b)
		require.Nil(t, hIms(m))
		v, f := m.pop16()
		require.Nil(t, f)
		want := uint16(b)
		if b >= 128 {
			want |= 0xFF00
		}
		require.Equal(t, want, v)
		m.pc--
	}
}

func TestArgPopsCountPlusOneBytes(t *testing.T) {
	// spec.md's first Open Question: count==0 still pops exactly one byte.
	m := newTestMachine(t)
	require.Nil(t, m.pushByte(0xAB))
	m.mem[m.pc] = 0 // arg count operand
	require.Nil(t, hArg(m))
	require.Equal(t, byte(0xAB), m.mem[m.hp+6])
}

func TestArgReversesMultipleBytes(t *testing.T) {
	m := newTestMachine(t)
	require.Nil(t, m.pushByte(0x01))
	require.Nil(t, m.pushByte(0x02))
	require.Nil(t, m.pushByte(0x03)) // TOS
	m.mem[m.pc] = 2                  // count=2, pops 3 bytes
	require.Nil(t, hArg(m))
	require.Equal(t, byte(0x01), m.mem[m.hp+6])
	require.Equal(t, byte(0x02), m.mem[m.hp+7])
	require.Equal(t, byte(0x03), m.mem[m.hp+8])
}

func TestEqNeAreBitwiseNotSigned(t *testing.T) {
	m := newTestMachine(t)
	require.Nil(t, m.push16(0x8000))
	require.Nil(t, m.push16(0x8000))
	require.Nil(t, hEq(m))
	v, _ := m.pop16()
	require.Equal(t, uint16(0xFFFF), v)

	require.Nil(t, m.push16(0x8000))
	require.Nil(t, m.push16(0x8000))
	require.Nil(t, hNe(m))
	v, _ = m.pop16()
	require.Equal(t, uint16(0x0000), v)
}

func TestSignedComparisons(t *testing.T) {
	m := newTestMachine(t)
	// -1 (0xFFFF) < 1, signed.
	require.Nil(t, m.push16(uint16(int16(-1))))
	require.Nil(t, m.push16(1))
	require.Nil(t, hLt(m))
	v, _ := m.pop16()
	require.Equal(t, uint16(0xFFFF), v)
}

func TestDupDoesNotConsumeTOS(t *testing.T) {
	m := newTestMachine(t)
	require.Nil(t, m.push16(0x55AA))
	require.Nil(t, hDup(m))
	a, _ := m.pop16()
	b, _ := m.pop16()
	require.Equal(t, a, b)
}
