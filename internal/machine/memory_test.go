package machine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestMachine(t *testing.T) *Machine {
	t.Helper()
	ds := newDeviceSet("", "")
	m := New(ds)
	m.SetHeapStart(codeStart)
	require.Nil(t, m.Reset())
	return m
}

func TestMemoryRoundTrip(t *testing.T) {
	m := newTestMachine(t)
	for _, a := range []uint16{0x0000, 0x1234, 0xFFFE} {
		for _, v := range []uint16{0x0000, 0x0001, 0x8000, 0xFFFF} {
			m.write16(a, v)
			require.Equal(t, v, m.read16(a))
		}
	}
}

func TestStackPushPopOrder(t *testing.T) {
	m := newTestMachine(t)
	sp0 := m.sp
	require.Nil(t, m.push16(0x1234))
	v, f := m.pop16()
	require.Nil(t, f)
	require.Equal(t, uint16(0x1234), v)
	require.Equal(t, sp0, m.sp)
}

func TestStackUnderflow(t *testing.T) {
	m := newTestMachine(t)
	m.sp = initialStack
	_, f := m.pop16()
	require.NotNil(t, f)
	require.Equal(t, ErrStackUnderflow, f.Kind)
}

func TestStackUnderflowWithOnlyOneByte(t *testing.T) {
	// A stray single-byte push (e.g. an odd-count ARG) leaves exactly one
	// byte on the stack; pop16/peek16 must still refuse to read a word
	// across it rather than pulling in whatever lies past sp==0x01FF.
	m := newTestMachine(t)
	m.sp = initialStack
	require.Nil(t, m.pushByte(0xAB))
	require.Equal(t, uint16(initialStack-1), m.sp)

	_, f := m.pop16()
	require.NotNil(t, f)
	require.Equal(t, ErrStackUnderflow, f.Kind)

	_, f = m.peek16()
	require.NotNil(t, f)
	require.Equal(t, ErrStackUnderflow, f.Kind)
}

func TestStackOverflow(t *testing.T) {
	m := newTestMachine(t)
	m.sp = stackMin + 1
	f := m.push16(1)
	require.NotNil(t, f)
	require.Equal(t, ErrStackOverflow, f.Kind)
}

func TestHeapPushBoundsUsesHP(t *testing.T) {
	// Regression for spec's third Open Question: bounds must be checked
	// against hp, not sp, even when sp is deep into the stack region.
	m := newTestMachine(t)
	m.sp = stackMin
	m.hp = m.heapLimit - 1
	f := m.heapPush16(0xBEEF)
	require.NotNil(t, f)
	require.Equal(t, ErrHeapOverflow, f.Kind)
}

func TestHeapPushPopRoundTrip(t *testing.T) {
	m := newTestMachine(t)
	start := m.hp
	require.Nil(t, m.heapPush8(0x11))
	require.Nil(t, m.heapPush16(0x2233))
	v, f := m.heapPop16()
	require.Nil(t, f)
	require.Equal(t, uint16(0x2233), v)
	b, f := m.heapPopByte()
	require.Nil(t, f)
	require.Equal(t, byte(0x11), b)
	require.Equal(t, start, m.hp)
}
